// Package circulation models handing the claim from the worker to the
// employer and the medical institution, and the status screen shown after
// a party completes its part.
package circulation

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rosai-assist/rosai/internal/errors"
)

// Form field names a sent request is recorded under.
const (
	FieldRequestID = "circulationRequestId"
	FieldSentAt    = "circulationSentAt"
)

// Request is a circulation request sent by the worker after the attachments
// step.
type Request struct {
	ID            string
	EmployerEmail string
	SentAt        time.Time
}

// NewRequest creates a request addressed to employerEmail.
func NewRequest(employerEmail string, now time.Time) (*Request, error) {
	email := strings.TrimSpace(employerEmail)
	if email == "" {
		return nil, errors.NewValidationError("employer email is required").WithField("employerEmail")
	}
	return &Request{
		ID:            uuid.NewString(),
		EmployerEmail: email,
		SentAt:        now,
	}, nil
}

// Fields returns the values to store in the form state for the request.
func (r *Request) Fields() map[string]string {
	return map[string]string{
		FieldRequestID:  r.ID,
		"employerEmail": r.EmployerEmail,
		FieldSentAt:     r.SentAt.Format(time.RFC3339),
	}
}

// State is a party's progress through the circulation.
type State string

const (
	StateCompleted State = "completed"
	StatePending   State = "pending"
)

// Label is the badge text for the state.
func (s State) Label() string {
	if s == StateCompleted {
		return "入力完了"
	}
	return "回覧中"
}

// Party identifies a participant in the circulation.
type Party string

const (
	PartyWorker   Party = "worker"
	PartyEmployer Party = "employer"
	PartyMedical  Party = "medical"
)

// Label is the party's role as shown in the status table.
func (p Party) Label() string {
	switch p {
	case PartyWorker:
		return "被災労働者（申請者）"
	case PartyEmployer:
		return "事業主"
	case PartyMedical:
		return "医療機関"
	}
	return string(p)
}

// PartyStatus is one row of the status table.
type PartyStatus struct {
	Party Party
	State State
}

// Summary is the completion screen content.
type Summary struct {
	Headline string
	Message  string
	Parties  []PartyStatus
	Notices  []string
}

// Complete reports whether every party has finished.
func (s Summary) Complete() bool {
	for _, p := range s.Parties {
		if p.State != StateCompleted {
			return false
		}
	}
	return true
}

// Status builds the completion screen for the party recorded in
// completedBy. The worker's part is always complete once the circulation
// exists. An empty or unknown marker yields the in-progress screen.
func Status(completedBy string) Summary {
	switch Party(completedBy) {
	case PartyEmployer:
		return Summary{
			Headline: "事業主による入力が完了しました",
			Message:  "事業主による証明が完了しました。医療機関の入力完了後、労働基準監督署へ提出できます。",
			Parties:  rows(StateCompleted, StatePending),
			Notices: []string{
				"事業主による証明が完了しました",
				"医療機関の入力が完了すると、メールで通知されます",
				"医療機関の入力完了後、労働基準監督署へ提出できます",
			},
		}
	case PartyMedical:
		return Summary{
			Headline: "医療機関による入力が完了しました",
			Message:  "医療機関による診断証明が完了しました。事業主の入力完了後、労働基準監督署へ提出できます。",
			Parties:  rows(StatePending, StateCompleted),
			Notices: []string{
				"医療機関による診断証明が完了しました",
				"事業主の入力が完了すると、メールで通知されます",
				"事業主の入力完了後、労働基準監督署へ提出できます",
			},
		}
	}
	return Summary{
		Headline: "回覧依頼を送信しました",
		Message:  "現在、事業主と医療機関が入力中です。",
		Parties:  rows(StatePending, StatePending),
		Notices: []string{
			"事業主と医療機関の入力が完了すると、メールで通知されます",
		},
	}
}

func rows(employer, medical State) []PartyStatus {
	return []PartyStatus{
		{Party: PartyWorker, State: StateCompleted},
		{Party: PartyEmployer, State: employer},
		{Party: PartyMedical, State: medical},
	}
}

package circulation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rosai-assist/rosai/internal/errors"
)

func TestNewRequest(t *testing.T) {
	now := time.Date(2026, time.October, 17, 10, 35, 0, 0, time.UTC)

	req, err := NewRequest("  employer@example.com ", now)
	require.NoError(t, err)
	require.Equal(t, "employer@example.com", req.EmployerEmail)
	require.Equal(t, now, req.SentAt)

	_, err = uuid.Parse(req.ID)
	require.NoError(t, err, "request id is not a uuid")

	fields := req.Fields()
	require.Equal(t, req.ID, fields[FieldRequestID])
	require.Equal(t, "2026-10-17T10:35:00Z", fields[FieldSentAt])

	other, err := NewRequest("employer@example.com", now)
	require.NoError(t, err)
	require.NotEqual(t, req.ID, other.ID)
}

func TestNewRequest_EmptyEmail(t *testing.T) {
	_, err := NewRequest("   ", time.Now())
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name        string
		completedBy string
		employer    State
		medical     State
		headline    string
	}{
		{"employer done", "employer", StateCompleted, StatePending, "事業主による入力が完了しました"},
		{"medical done", "medical", StatePending, StateCompleted, "医療機関による入力が完了しました"},
		{"nobody yet", "", StatePending, StatePending, "回覧依頼を送信しました"},
		{"unknown marker", "insurer", StatePending, StatePending, "回覧依頼を送信しました"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Status(tt.completedBy)

			require.Equal(t, tt.headline, s.Headline)
			require.Len(t, s.Parties, 3)
			require.Equal(t, StateCompleted, s.Parties[0].State)
			require.Equal(t, tt.employer, s.Parties[1].State)
			require.Equal(t, tt.medical, s.Parties[2].State)
			require.False(t, s.Complete())
			require.NotEmpty(t, s.Notices)
		})
	}
}

func TestLabels(t *testing.T) {
	require.Equal(t, "入力完了", StateCompleted.Label())
	require.Equal(t, "回覧中", StatePending.Label())
	require.Equal(t, "事業主", PartyEmployer.Label())
}

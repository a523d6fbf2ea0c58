package wizard

import "github.com/rosai-assist/rosai/internal/formstate"

// StepID identifies one screen of the wizard.
type StepID = int

// StepIDs is every live step in order. There is no step 9: the
// confirmation screen is numbered 10 but shown as the ninth position.
var StepIDs = []StepID{1, 2, 3, 4, 5, 6, 7, 8, formstate.TerminalStep}

// TotalSteps is the number of logical steps used for progress display.
const TotalSteps = 9

// Steps the navigator special-cases.
const (
	StepAttachments StepID = 5
	StepEmployer    StepID = 6
	StepMedical     StepID = 7
	StepDiagnosis   StepID = 8
	StepConfirm     StepID = formstate.TerminalStep
)

// ActorRole is the party filling in the form.
type ActorRole string

const (
	RoleWorker   ActorRole = "worker"
	RoleEmployer ActorRole = "employer"
	RoleMedical  ActorRole = "medical"
)

// ParseRole maps a config or flag value to a role.
func ParseRole(s string) (ActorRole, bool) {
	switch r := ActorRole(s); r {
	case RoleWorker, RoleEmployer, RoleMedical:
		return r, true
	}
	return "", false
}

// Label returns the Japanese name of the role.
func (r ActorRole) Label() string {
	switch r {
	case RoleWorker:
		return "労働者"
	case RoleEmployer:
		return "事業主"
	case RoleMedical:
		return "医療機関"
	default:
		return string(r)
	}
}

// StepDefinition is the display metadata of one step.
type StepDefinition struct {
	ID    StepID
	Label string
	Role  ActorRole
}

// StepDefinitions lists the steps in display order.
var StepDefinitions = []StepDefinition{
	{ID: 1, Label: "基本情報", Role: RoleWorker},
	{ID: 2, Label: "保険番号", Role: RoleWorker},
	{ID: 3, Label: "災害情報", Role: RoleWorker},
	{ID: 4, Label: "振込先", Role: RoleWorker},
	{ID: 5, Label: "添付書類", Role: RoleWorker},
	{ID: 6, Label: "事業主情報", Role: RoleEmployer},
	{ID: 7, Label: "医療機関", Role: RoleMedical},
	{ID: 8, Label: "診断証明", Role: RoleMedical},
	{ID: 10, Label: "確認・提出", Role: RoleWorker},
}

// Definition returns the metadata for id.
func Definition(id StepID) (StepDefinition, bool) {
	for _, d := range StepDefinitions {
		if d.ID == id {
			return d, true
		}
	}
	return StepDefinition{}, false
}

// IsValidStep reports whether id is a live step.
func IsValidStep(id StepID) bool {
	return indexOf(id) >= 0
}

func indexOf(id StepID) int {
	for i, s := range StepIDs {
		if s == id {
			return i
		}
	}
	return -1
}

// NextStepID returns the step after id. ok is false at the last step or for
// an id that is not live.
func NextStepID(id StepID) (next StepID, ok bool) {
	i := indexOf(id)
	if i < 0 || i+1 >= len(StepIDs) {
		return id, false
	}
	return StepIDs[i+1], true
}

// PreviousStepID returns the step before id. ok is false at the first step
// or for an id that is not live.
func PreviousStepID(id StepID) (prev StepID, ok bool) {
	i := indexOf(id)
	if i <= 0 {
		return id, false
	}
	return StepIDs[i-1], true
}

// ProgressStep maps a step id onto the 1-based display position.
func ProgressStep(id StepID) int {
	if i := indexOf(id); i >= 0 {
		return i + 1
	}
	return id
}

// ProgressPercent is the share of the wizard completed at id.
func ProgressPercent(id StepID) float64 {
	return float64(ProgressStep(id)) / float64(TotalSteps)
}

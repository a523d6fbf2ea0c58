// Package wizard drives step transitions of the claim wizard.
//
// The Navigator asks a StepValidator before leaving a step, moves the
// position in the form state and tells the Presenter which step to show.
// Navigation failures are reported as false returns and logged; nothing in
// this package panics or returns an error to the UI.
package wizard

import (
	"github.com/rosai-assist/rosai/internal/errors"
	"github.com/rosai-assist/rosai/internal/logging"
)

// FormState is the part of formstate.PersistedFormState the navigator uses.
type FormState interface {
	CurrentStep() int
	SetCurrentStep(step int)
	SaveToStorage()
	SetCompletedBy(party string)
}

// StepValidator gates forward navigation.
type StepValidator interface {
	ValidateStep(step int) bool
	ValidateCirculation() bool
}

// Presenter receives the navigator's view signals.
type Presenter interface {
	Activate(step StepID)
	Deactivate(step StepID)
	ProgressChanged(progressStep, totalSteps int)
	ShowCirculation()
	HideCirculation()
	CirculationComplete(role ActorRole)
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithDevMode enables NextStepDev.
func WithDevMode(enabled bool) Option {
	return func(n *Navigator) { n.devMode = enabled }
}

// Navigator is the step state machine. It is not safe for concurrent use;
// the UI event loop owns it.
type Navigator struct {
	state     FormState
	validator StepValidator
	presenter Presenter
	logger    *logging.Logger

	devMode         bool
	role            ActorRole
	circulationOpen bool
}

// NewNavigator returns a navigator for a worker. Call Enter to switch role.
func NewNavigator(state FormState, validator StepValidator, presenter Presenter, logger *logging.Logger, opts ...Option) *Navigator {
	if logger == nil {
		logger = logging.NopLogger()
	}
	n := &Navigator{
		state:     state,
		validator: validator,
		presenter: presenter,
		logger:    logger.WithComponent("navigator"),
		role:      RoleWorker,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Current returns the current step id.
func (n *Navigator) Current() StepID {
	return n.state.CurrentStep()
}

// Role returns the acting party.
func (n *Navigator) Role() ActorRole {
	return n.role
}

// DevMode reports whether NextStepDev is enabled.
func (n *Navigator) DevMode() bool {
	return n.devMode
}

// CirculationOpen reports whether the circulation section is showing.
func (n *Navigator) CirculationOpen() bool {
	return n.circulationOpen
}

// Enter starts a session for role: a worker resumes at the restored step,
// an employer starts at the employer step and a medical institution at the
// medical step.
func (n *Navigator) Enter(role ActorRole) bool {
	var target StepID
	switch role {
	case RoleWorker:
		target = n.state.CurrentStep()
	case RoleEmployer:
		target = StepEmployer
	case RoleMedical:
		target = StepMedical
	default:
		n.logger.Warn("unknown role", "role", string(role))
		return false
	}

	n.role = role
	n.circulationOpen = false
	if target != n.state.CurrentStep() {
		n.state.SetCurrentStep(target)
	}
	n.show(target)
	n.logger.Info("entered wizard", "role", string(role), "step", target)
	return true
}

// NextStep validates the current step and moves forward. Leaving the
// attachments step opens the circulation section instead of advancing, and
// a validated employer or diagnosis step completes that party's part of the
// circulation.
func (n *Navigator) NextStep() bool {
	current := n.state.CurrentStep()
	log := n.logger.WithStep(current)

	if !n.validator.ValidateStep(current) {
		log.Info("step validation failed, staying on step")
		return false
	}
	n.state.SaveToStorage()

	if party, ok := n.completes(current); ok {
		n.complete(current, party)
		return true
	}

	if current == StepAttachments && n.role == RoleWorker {
		n.circulationOpen = true
		n.presenter.ShowCirculation()
		log.Info("circulation section opened")
		return true
	}

	next, ok := NextStepID(current)
	if !ok {
		log.Info("no step after current",
			"error", errors.NewNavigationError(current, current+1, errors.ErrInvalidStep).Error())
		return false
	}
	n.transition(current, next)
	return true
}

// completes reports whether leaving step finishes the acting party's part.
func (n *Navigator) completes(step StepID) (ActorRole, bool) {
	switch {
	case n.role == RoleEmployer && step == StepEmployer:
		return RoleEmployer, true
	case n.role == RoleMedical && step == StepDiagnosis:
		return RoleMedical, true
	}
	return "", false
}

// PreviousStep moves back one step without validation.
func (n *Navigator) PreviousStep() bool {
	current := n.state.CurrentStep()
	if n.circulationOpen {
		n.CloseCirculation()
	}

	prev, ok := PreviousStepID(current)
	if !ok {
		n.logger.Debug("no step before current",
			"error", errors.NewNavigationError(current, current-1, errors.ErrInvalidStep).Error())
		return false
	}
	n.transition(current, prev)
	return true
}

// NextStepDev advances without validation. The employer and diagnosis steps
// jump straight to the completion screen; the attachments step opens the
// circulation section and, once open, sends without checking the request. It does nothing unless the
// navigator was built with WithDevMode(true).
func (n *Navigator) NextStepDev() bool {
	current := n.state.CurrentStep()
	if !n.devMode {
		n.logger.Warn("dev navigation requested",
			"error", errors.NewNavigationError(current, current+1, errors.ErrDevModeDisabled).Error())
		return false
	}

	n.state.SaveToStorage()
	switch current {
	case StepEmployer:
		n.complete(current, RoleEmployer)
		return true
	case StepDiagnosis:
		n.complete(current, RoleMedical)
		return true
	}

	if current == StepAttachments && n.role == RoleWorker {
		if n.circulationOpen {
			n.CloseCirculation()
			n.transition(current, StepConfirm)
			return true
		}
		n.circulationOpen = true
		n.presenter.ShowCirculation()
		n.logger.WithStep(current).Info("circulation section opened")
		return true
	}

	next, ok := NextStepID(current)
	if !ok {
		return false
	}
	if n.circulationOpen {
		n.CloseCirculation()
	}
	n.transition(current, next)
	return true
}

// GoToStep jumps directly to target without validation.
func (n *Navigator) GoToStep(target StepID) bool {
	current := n.state.CurrentStep()
	if !IsValidStep(target) {
		n.logger.Warn("rejected jump to invalid step",
			"error", errors.NewNavigationError(current, target, errors.ErrInvalidStep).Error())
		return false
	}
	if n.circulationOpen {
		n.CloseCirculation()
	}
	n.transition(current, target)
	return true
}

// SendCirculation validates the circulation request and, on success, moves
// the worker to the confirmation step.
func (n *Navigator) SendCirculation() bool {
	if !n.circulationOpen {
		n.logger.Warn("circulation send requested while section is closed")
		return false
	}
	if !n.validator.ValidateCirculation() {
		n.logger.Info("circulation request validation failed")
		return false
	}

	n.state.SaveToStorage()
	n.CloseCirculation()
	n.transition(n.state.CurrentStep(), StepConfirm)
	return true
}

// CloseCirculation hides the circulation section and stays on the current
// step.
func (n *Navigator) CloseCirculation() {
	if !n.circulationOpen {
		return
	}
	n.circulationOpen = false
	n.presenter.HideCirculation()
}

func (n *Navigator) transition(from, to StepID) {
	n.presenter.Deactivate(from)
	n.state.SetCurrentStep(to)
	n.show(to)
	n.logger.Info("step changed", "from", from, "to", to)
}

func (n *Navigator) show(step StepID) {
	n.presenter.Activate(step)
	n.presenter.ProgressChanged(ProgressStep(step), TotalSteps)
}

func (n *Navigator) complete(step StepID, party ActorRole) {
	n.state.SetCompletedBy(string(party))
	n.presenter.Deactivate(step)
	n.presenter.CirculationComplete(party)
	n.logger.Info("circulation part completed", "role", string(party), "step", step)
}

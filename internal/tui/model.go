package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rosai-assist/rosai/internal/circulation"
	"github.com/rosai-assist/rosai/internal/formstate"
	"github.com/rosai-assist/rosai/internal/logging"
	"github.com/rosai-assist/rosai/internal/medical"
	"github.com/rosai-assist/rosai/internal/postal"
	"github.com/rosai-assist/rosai/internal/validation"
	"github.com/rosai-assist/rosai/internal/wizard"
)

// Options wires the model to its collaborators.
type Options struct {
	State     *formstate.PersistedFormState
	Postal    *postal.Client
	Directory *medical.Directory
	Logger    *logging.Logger
	Role      wizard.ActorRole
	DevMode   bool
	Now       func() time.Time
}

// Model is the Bubble Tea model of the wizard. It is the navigator's
// Presenter and, through its Form, the validator's FieldAccessor.
type Model struct {
	state     *formstate.PersistedFormState
	nav       *wizard.Navigator
	validator *validation.Validator
	form      *Form
	postal    *postal.Client
	directory *medical.Directory
	logger    *logging.Logger
	now       func() time.Time

	active       wizard.StepID
	focus        int
	circulation  bool
	completed    wizard.ActorRole
	progressStep int
	totalSteps   int
	progress     progress.Model
	request      *circulation.Request

	results   []medical.Institution
	resultIdx int

	status      string
	statusError bool
	width       int
	height      int
	quitting    bool
}

// NewModel builds the form, validator and navigator and enters the wizard
// as opts.Role.
func NewModel(opts Options) (*Model, error) {
	if opts.State == nil {
		return nil, fmt.Errorf("form state is required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Role == "" {
		opts.Role = wizard.RoleWorker
	}

	rules := validation.DefaultRules(opts.Now)
	steps := validation.DefaultSteps()
	form := NewForm(steps, rules)
	form.Load(opts.State.AllData())

	v, err := validation.New(form,
		validation.WithRules(rules),
		validation.WithSteps(steps),
		validation.WithClock(opts.Now),
		validation.WithLogger(opts.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build validator: %w", err)
	}

	m := &Model{
		state:      opts.State,
		validator:  v,
		form:       form,
		postal:     opts.Postal,
		directory:  opts.Directory,
		logger:     opts.Logger.WithComponent("tui"),
		now:        opts.Now,
		totalSteps: wizard.TotalSteps,
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
	m.nav = wizard.NewNavigator(opts.State, v, m, opts.Logger, wizard.WithDevMode(opts.DevMode))

	if !m.nav.Enter(opts.Role) {
		return nil, fmt.Errorf("unknown role %q", opts.Role)
	}
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = max(10, min(60, msg.Width-20))
		return m, nil

	case postalResultMsg:
		m.applyPostal(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.completed != "" {
		switch msg.String() {
		case "q", "esc", "enter", "ctrl+c":
			return m, m.quit()
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, m.quit()
	case "esc":
		if m.circulation {
			m.nav.CloseCirculation()
			return m, nil
		}
		return m, m.quit()
	case "tab", "down", "enter":
		m.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil
	case "ctrl+n":
		if m.circulation {
			m.sendCirculation()
		} else {
			m.next()
		}
		return m, nil
	case "ctrl+b":
		if !m.nav.PreviousStep() {
			m.setStatus("これ以上戻れません", true)
		}
		return m, nil
	case "ctrl+d":
		if !m.nav.DevMode() {
			m.setStatus("開発者モードが無効です", true)
		} else if !m.nav.NextStepDev() {
			m.setStatus("これ以上進めません", true)
		}
		return m, nil
	case "ctrl+s":
		m.state.SaveToStorage()
		m.setStatus("保存しました", false)
		return m, nil
	case "ctrl+l":
		return m, m.lookupPostal()
	case "ctrl+f":
		m.searchMedical()
		return m, nil
	}

	fl := m.focused()
	if fl == nil {
		return m, nil
	}

	if fl.kind == kindChoice {
		switch msg.String() {
		case "left", "h":
			fl.cycle(-1)
		case "right", "l", " ":
			fl.cycle(1)
		default:
			return m, nil
		}
		m.state.SaveField(fl.id, fl.value())
		m.validator.ValidateField(fl.id)
		return m, nil
	}

	before := fl.text.Value()
	var cmd tea.Cmd
	fl.text, cmd = fl.text.Update(msg)
	if after := fl.text.Value(); after != before {
		m.state.SaveField(fl.id, after)
	}
	return m, cmd
}

func (m *Model) next() {
	if m.nav.NextStep() {
		m.setStatus("", false)
		return
	}
	if m.nav.Current() == wizard.StepConfirm {
		m.setStatus("すべての入力が完了しています", false)
		return
	}
	m.setStatus("入力内容を確認してください", true)
}

func (m *Model) sendCirculation() {
	email, _ := m.form.Value("employerEmail")
	if !m.nav.SendCirculation() {
		m.setStatus("回覧依頼の入力内容を確認してください", true)
		return
	}

	req, err := circulation.NewRequest(email, m.now())
	if err != nil {
		m.logger.Error("failed to create circulation request", "error", err.Error())
		m.setStatus("回覧依頼を作成できませんでした", true)
		return
	}
	for k, v := range req.Fields() {
		m.state.SaveField(k, v)
	}
	m.state.SaveToStorage()
	m.request = req
	m.logger.Info("circulation request sent", "request_id", req.ID)
	m.setStatus("回覧依頼を送信しました", false)
}

func (m *Model) quit() tea.Cmd {
	m.state.SaveToStorage()
	m.quitting = true
	return tea.Quit
}

func (m *Model) setStatus(msg string, isError bool) {
	m.status = msg
	m.statusError = isError
}

// section is the layout key of what is on screen.
func (m *Model) section() int {
	if m.circulation {
		return CirculationSection
	}
	return m.active
}

func (m *Model) focused() *field {
	ids := m.form.Layout(m.section())
	if m.focus < 0 || m.focus >= len(ids) {
		return nil
	}
	return m.form.field(ids[m.focus])
}

// moveFocus shifts focus by delta and validates the field being left.
func (m *Model) moveFocus(delta int) {
	ids := m.form.Layout(m.section())
	if len(ids) == 0 {
		return
	}
	if fl := m.focused(); fl != nil {
		m.validator.ValidateField(fl.id)
	}
	m.focus = ((m.focus+delta)%len(ids) + len(ids)) % len(ids)
	m.applyFocus()
}

func (m *Model) applyFocus() {
	section := m.section()
	m.form.blur(section)
	if fl := m.focused(); fl != nil && fl.kind == kindText {
		fl.text.Focus()
	}
}

// Activate implements wizard.Presenter.
func (m *Model) Activate(step wizard.StepID) {
	m.active = step
	m.focus = 0
	m.results = nil
	m.applyFocus()
}

// Deactivate implements wizard.Presenter.
func (m *Model) Deactivate(step wizard.StepID) {
	m.form.blur(step)
}

// ProgressChanged implements wizard.Presenter.
func (m *Model) ProgressChanged(progressStep, totalSteps int) {
	m.progressStep = progressStep
	m.totalSteps = totalSteps
}

// ShowCirculation implements wizard.Presenter.
func (m *Model) ShowCirculation() {
	m.form.blur(m.active)
	m.circulation = true
	m.focus = 0
	m.applyFocus()
}

// HideCirculation implements wizard.Presenter.
func (m *Model) HideCirculation() {
	m.form.blur(CirculationSection)
	m.circulation = false
	m.focus = 0
	m.applyFocus()
}

// CirculationComplete implements wizard.Presenter.
func (m *Model) CirculationComplete(role wizard.ActorRole) {
	m.form.blur(m.active)
	m.completed = role
}

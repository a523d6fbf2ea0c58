package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rosai-assist/rosai/internal/circulation"
	"github.com/rosai-assist/rosai/internal/tui/styles"
	"github.com/rosai-assist/rosai/internal/wizard"
)

const appTitle = "労災申請アシスト"

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.completed != "" {
		return m.renderCompletion()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch {
	case m.circulation:
		b.WriteString(styles.CirculationBox.Render(m.renderCirculation()))
	case m.active == wizard.StepConfirm:
		b.WriteString(styles.ContentBox.Render(m.renderConfirm()))
	default:
		b.WriteString(styles.ContentBox.Render(m.renderStep()))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *Model) renderHeader() string {
	def, _ := wizard.Definition(m.active)
	title := fmt.Sprintf("%s  %s（%s）", appTitle, def.Label, m.nav.Role().Label())

	var tabs []string
	for _, d := range wizard.StepDefinitions {
		label := fmt.Sprintf("%d", wizard.ProgressStep(d.ID))
		if d.ID == m.active {
			tabs = append(tabs, styles.StepActive.Render(label))
		} else {
			tabs = append(tabs, styles.StepInactive.Render(label))
		}
	}

	percent := float64(m.progressStep) / float64(max(1, m.totalSteps))
	bar := fmt.Sprintf("%s  %d/%d", m.progress.ViewAs(percent), m.progressStep, m.totalSteps)

	return styles.Header.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		bar,
	))
}

func (m *Model) renderFields(section int) string {
	var lines []string
	for i, id := range m.form.Layout(section) {
		fl := m.form.field(id)

		labelStyle := styles.FieldLabel
		switch {
		case m.form.Invalid(id):
			labelStyle = styles.FieldLabelInvalid
		case i == m.focus:
			labelStyle = styles.FieldLabelFocused
		}

		var input string
		if fl.kind == kindChoice {
			input = renderChoice(fl, i == m.focus)
		} else {
			input = fl.text.View()
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(fl.label), input))
	}

	if msgs := m.form.Messages(section); len(msgs) > 0 {
		lines = append(lines, "")
		for _, msg := range msgs {
			lines = append(lines, styles.ErrorMsg.Render("✗ "+msg))
		}
	}
	return strings.Join(lines, "\n")
}

func renderChoice(fl *field, focused bool) string {
	opts := make([]string, len(fl.options))
	for i, o := range fl.options {
		if i == fl.choice {
			opts[i] = styles.OptionSelected.Render(o)
		} else {
			opts[i] = styles.Option.Render(o)
		}
	}
	out := strings.Join(opts, " ")
	if focused {
		out = "◀ " + out + " ▶"
	}
	return out
}

func (m *Model) renderStep() string {
	if len(m.form.Layout(m.active)) == 0 {
		return styles.Muted.Render("この画面に入力項目はありません。次へ進んでください。")
	}
	return m.renderFields(m.active)
}

func (m *Model) renderCirculation() string {
	return styles.Title.Render("回覧依頼") + "\n" +
		styles.Muted.Render("事業主のメールアドレスを入力して回覧依頼を送信します。") + "\n\n" +
		m.renderFields(CirculationSection)
}

func (m *Model) renderConfirm() string {
	var lines []string
	lines = append(lines, styles.Title.Render("入力内容の確認"))
	for _, d := range wizard.StepDefinitions {
		entries := m.form.Entries(d.ID)
		if len(entries) == 0 {
			continue
		}
		lines = append(lines, styles.Primary.Render("■ "+d.Label))
		for _, e := range entries {
			lines = append(lines, styles.FieldLabel.Render(e.Label)+e.Value)
		}
	}
	if m.request != nil {
		lines = append(lines, "", styles.Muted.Render("回覧依頼ID: "+m.request.ID))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderCompletion() string {
	summary := circulation.Status(string(m.completed))

	var lines []string
	lines = append(lines, styles.Title.Render(summary.Headline), summary.Message, "")
	for _, p := range summary.Parties {
		state := string(p.State)
		lines = append(lines, fmt.Sprintf("%s %s %s",
			styles.StatusIcon(state),
			styles.FieldLabel.Render(p.Party.Label()),
			styles.Badge(state).Render(p.State.Label())))
	}
	lines = append(lines, "")
	for _, n := range summary.Notices {
		lines = append(lines, styles.Muted.Render("・"+n))
	}

	return styles.ContentBox.Render(strings.Join(lines, "\n")) + "\n" +
		styles.HelpBar.Render(styles.HelpKey.Render("q")+" 終了")
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusError {
		return styles.ErrorMsg.Render(m.status) + "\n"
	}
	return styles.SuccessMsg.Render(m.status) + "\n"
}

type helpKey struct{ key, desc string }

func (m *Model) renderHelp() string {
	keys := []helpKey{
		{"tab", "移動"},
		{"ctrl+n", "次へ"},
		{"ctrl+b", "戻る"},
		{"ctrl+s", "保存"},
	}
	if _, ok := postalGroups[m.active]; ok && !m.circulation {
		keys = append(keys, helpKey{"ctrl+l", "住所検索"})
	}
	if m.active == wizard.StepMedical && !m.circulation {
		keys = append(keys, helpKey{"ctrl+f", "医療機関検索"})
	}
	if m.nav.DevMode() {
		keys = append(keys, helpKey{"ctrl+d", "スキップ"})
	}
	keys = append(keys, helpKey{"esc", "終了"})

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = styles.HelpKey.Render(k.key) + " " + k.desc
	}
	return styles.HelpBar.Render(strings.Join(parts, "  "))
}

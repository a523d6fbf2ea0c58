package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rosai-assist/rosai/internal/errors"
	"github.com/rosai-assist/rosai/internal/medical"
	"github.com/rosai-assist/rosai/internal/postal"
	"github.com/rosai-assist/rosai/internal/wizard"
)

const lookupTimeout = 10 * time.Second

// postalGroup is a postal code pair and the address input it fills.
type postalGroup struct {
	first, second string
	address       string
	errorID       string
	label         string
}

var postalGroups = map[wizard.StepID]postalGroup{
	1: {"postalCode1", "postalCode2", "address1", "postalCode", "郵便番号"},
	wizard.StepEmployer: {"businessPostalCode1", "businessPostalCode2", "businessAddress1",
		"businessPostalCode", "事業の所在地 郵便番号"},
	wizard.StepMedical: {"hospitalPostalCode1", "hospitalPostalCode2", "hospitalAddress1",
		"hospitalPostalCode", "医療機関 郵便番号"},
}

type postalResultMsg struct {
	group   postalGroup
	address postal.Address
	err     error
}

// lookupPostal starts an address lookup for the active step's postal code.
func (m *Model) lookupPostal() tea.Cmd {
	group, ok := postalGroups[m.active]
	if !ok || m.circulation {
		m.setStatus("この画面では郵便番号検索は使えません", true)
		return nil
	}
	if m.postal == nil {
		m.setStatus("郵便番号検索が設定されていません", true)
		return nil
	}

	first, _ := m.form.Value(group.first)
	second, _ := m.form.Value(group.second)
	client := m.postal
	m.setStatus("住所を検索しています…", false)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		addr, err := client.LookupParts(ctx, first, second)
		return postalResultMsg{group: group, address: addr, err: err}
	}
}

func (m *Model) applyPostal(msg postalResultMsg) {
	g := msg.group
	if msg.err != nil {
		m.form.SetInvalid(g.first, true)
		m.form.SetInvalid(g.second, true)
		m.form.ShowError(g.errorID, postal.UserMessage(g.label, msg.err))
		if errors.IsRetryable(msg.err) {
			m.setStatus("住所検索に失敗しました。ctrl+l で再検索できます", true)
		} else {
			m.setStatus("住所が見つかりませんでした", true)
		}
		return
	}

	full := msg.address.Full()
	m.form.SetValue(g.address, full)
	m.state.SaveField(g.address, full)
	for _, id := range []string{g.first, g.second, g.address} {
		m.form.SetInvalid(id, false)
	}
	m.form.ClearError(g.errorID)
	m.form.ClearError(g.address)
	m.setStatus("住所を入力しました", false)
}

// searchMedical fills the medical step from the directory. Repeated presses
// cycle through the matches for the same query.
func (m *Model) searchMedical() {
	if m.active != wizard.StepMedical || m.circulation {
		m.setStatus("医療機関検索は医療機関の画面で使えます", true)
		return
	}
	if m.directory == nil {
		m.setStatus("医療機関データが設定されていません", true)
		return
	}

	query, _ := m.form.Value("hospitalName")
	if len(m.results) > 0 && query == m.results[m.resultIdx].Name {
		m.resultIdx = (m.resultIdx + 1) % len(m.results)
	} else {
		results, err := m.directory.Search(query)
		if err != nil {
			m.logger.Error("medical directory search failed", "error", err.Error())
			m.setStatus("医療機関データを読み込めませんでした", true)
			return
		}
		if len(results) == 0 {
			m.results = nil
			m.setStatus("該当する医療機関が見つかりませんでした", true)
			return
		}
		m.results = results
		m.resultIdx = 0
	}

	inst := m.results[m.resultIdx]
	m.applyInstitution(inst)
	m.setStatus(fmt.Sprintf("%s を選択しました（%d/%d）", inst.Name, m.resultIdx+1, len(m.results)), false)
}

func (m *Model) applyInstitution(inst medical.Institution) {
	first, second := inst.PostalCodeParts()
	values := map[string]string{
		"hospitalName":        inst.Name,
		"hospitalPostalCode1": first,
		"hospitalPostalCode2": second,
		"hospitalAddress1":    inst.Region + inst.Address,
	}
	for i, part := range inst.PhoneParts() {
		values[fmt.Sprintf("hospitalTel%d", i+1)] = part
	}

	for id, v := range values {
		m.form.SetValue(id, v)
		m.state.SaveField(id, v)
		m.form.SetInvalid(id, false)
		m.form.ClearError(id)
	}
}

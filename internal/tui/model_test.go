package tui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/rosai-assist/rosai/internal/circulation"
	"github.com/rosai-assist/rosai/internal/formstate"
	"github.com/rosai-assist/rosai/internal/logging"
	"github.com/rosai-assist/rosai/internal/medical"
	"github.com/rosai-assist/rosai/internal/postal"
	"github.com/rosai-assist/rosai/internal/storage"
	"github.com/rosai-assist/rosai/internal/testutil"
	"github.com/rosai-assist/rosai/internal/wizard"
)

var testNow = time.Date(2026, time.October, 17, 9, 0, 0, 0, time.Local)

func newTestModel(t *testing.T, mutate func(*Options)) (*Model, *formstate.PersistedFormState) {
	t.Helper()
	state := formstate.New(storage.NewMemoryStore(), logging.NopLogger())
	opts := Options{
		State:  state,
		Logger: logging.NopLogger(),
		Now:    testutil.Clock(testNow),
	}
	if mutate != nil {
		mutate(&opts)
	}
	m, err := NewModel(opts)
	require.NoError(t, err)
	return m, state
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func fill(m *Model, values map[string]string) {
	for id, v := range values {
		m.form.SetValue(id, v)
		m.state.SaveField(id, v)
	}
}

var workerStepOne = map[string]string{
	"gender":          "男性",
	"birthDate-year":  "1985",
	"birthDate-month": "4",
	"birthDate-day":   "12",
	"lastName":        "山田",
	"firstName":       "太郎",
	"lastNameKana":    "ヤマダ",
	"firstNameKana":   "タロウ",
	"postalCode1":     "100",
	"postalCode2":     "0001",
	"address1":        "東京都千代田区",
	"address2":        "千代田1-1",
	"tel1":            "03",
	"tel2":            "1234",
	"tel3":            "5678",
}

var employerStep = map[string]string{
	"employerDate":        "2026-10-17",
	"businessName":        "株式会社テスト",
	"businessPostalCode1": "100",
	"businessPostalCode2": "0001",
	"businessAddress1":    "東京都千代田区",
	"businessAddress2":    "1-1",
	"employerPosition":    "代表取締役",
	"employerLastName":    "鈴木",
	"employerFirstName":   "一郎",
	"employerTel1":        "03",
	"employerTel2":        "1234",
	"employerTel3":        "5678",
}

func TestNewModel_RequiresState(t *testing.T) {
	_, err := NewModel(Options{})
	require.Error(t, err)
}

func TestNewModel_UnknownRole(t *testing.T) {
	state := formstate.New(storage.NewMemoryStore(), logging.NopLogger())
	_, err := NewModel(Options{State: state, Role: "insurer"})
	require.Error(t, err)
}

func TestNewModel_StartsAtRestoredStep(t *testing.T) {
	store := storage.NewMemoryStore()
	prev := formstate.New(store, logging.NopLogger())
	prev.SaveField("lastName", "佐藤")
	prev.SetCurrentStep(3)

	m, err := NewModel(Options{State: formstate.New(store, logging.NopLogger()), Now: testutil.Clock(testNow)})
	require.NoError(t, err)

	require.Equal(t, 3, m.active)
	require.Equal(t, 3, m.progressStep)
	v, _ := m.form.Value("lastName")
	require.Equal(t, "佐藤", v)
}

func TestNextStep_InvalidShowsErrors(t *testing.T) {
	m, state := newTestModel(t, nil)

	m.Update(key(tea.KeyCtrlN))

	require.Equal(t, 1, state.CurrentStep())
	require.True(t, m.statusError)
	require.NotEmpty(t, m.form.Messages(1))
	require.Contains(t, m.View(), "【性別】を選択してください。")
}

func TestNextStep_ValidAdvances(t *testing.T) {
	m, state := newTestModel(t, nil)
	fill(m, workerStepOne)

	m.Update(key(tea.KeyCtrlN))

	require.Equal(t, 2, state.CurrentStep())
	require.Equal(t, 2, m.active)
	require.Equal(t, 2, m.progressStep)
	require.Empty(t, m.form.Messages(1))

	m.Update(key(tea.KeyCtrlB))
	require.Equal(t, 1, m.active)
}

func TestTyping_SavesFields(t *testing.T) {
	m, state := newTestModel(t, nil)

	// gender is the first input
	m.Update(key(tea.KeyRight))
	require.Equal(t, "男性", state.FieldString("gender"))

	// move to lastName: past the three birth date selects
	for range 4 {
		m.Update(key(tea.KeyTab))
	}
	require.Equal(t, "lastName", m.focused().id)

	m.Update(runes("山田"))
	require.Equal(t, "山田", state.FieldString("lastName"))
}

func TestBlurValidatesField(t *testing.T) {
	m, _ := newTestModel(t, nil)
	for range 4 {
		m.Update(key(tea.KeyTab))
	}
	m.Update(runes("Yamada"))
	m.Update(key(tea.KeyTab))

	require.True(t, m.form.Invalid("lastName"))
}

func TestDevMode(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		m, state := newTestModel(t, nil)
		m.Update(key(tea.KeyCtrlD))
		require.Equal(t, 1, state.CurrentStep())
		require.Equal(t, "開発者モードが無効です", m.status)
	})

	t.Run("enabled", func(t *testing.T) {
		m, state := newTestModel(t, func(o *Options) { o.DevMode = true })
		m.Update(key(tea.KeyCtrlD))
		require.Equal(t, 2, state.CurrentStep())
	})
}

func TestCirculationFlow(t *testing.T) {
	m, state := newTestModel(t, nil)
	state.SetCurrentStep(5)
	m.nav.Enter(wizard.RoleWorker)

	m.Update(key(tea.KeyCtrlN))
	require.True(t, m.circulation)
	require.Contains(t, m.View(), "回覧依頼")

	m.Update(runes("employer@example"))
	m.Update(key(tea.KeyCtrlN))
	require.True(t, m.circulation, "invalid email must keep the section open")
	require.True(t, m.form.Invalid("employerEmail"))

	m.Update(runes(".com"))
	m.Update(key(tea.KeyCtrlN))

	require.False(t, m.circulation)
	require.Equal(t, wizard.StepConfirm, state.CurrentStep())
	require.NotNil(t, m.request)
	require.Equal(t, m.request.ID, state.FieldString(circulation.FieldRequestID))
	require.Equal(t, "employer@example.com", state.FieldString("employerEmail"))
	require.Contains(t, m.View(), "入力内容の確認")
}

func TestEscClosesCirculation(t *testing.T) {
	m, state := newTestModel(t, nil)
	state.SetCurrentStep(5)
	m.nav.Enter(wizard.RoleWorker)
	m.Update(key(tea.KeyCtrlN))

	_, cmd := m.Update(key(tea.KeyEsc))
	require.Nil(t, cmd)
	require.False(t, m.circulation)
	require.Equal(t, 5, state.CurrentStep())
}

func TestEmployerCompletion(t *testing.T) {
	m, state := newTestModel(t, func(o *Options) { o.Role = wizard.RoleEmployer })
	require.Equal(t, wizard.StepEmployer, m.active)
	fill(m, employerStep)

	m.Update(key(tea.KeyCtrlN))

	require.Equal(t, wizard.RoleEmployer, m.completed)
	require.Equal(t, formstate.CompletedByEmployer, state.CompletedBy())
	require.Contains(t, m.View(), "事業主による入力が完了しました")

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	require.True(t, m.quitting)
}

func TestQuitSaves(t *testing.T) {
	store := storage.NewMemoryStore()
	state := formstate.New(store, logging.NopLogger())
	m, err := NewModel(Options{State: state, Now: testutil.Clock(testNow)})
	require.NoError(t, err)

	m.form.SetValue("lastName", "山田")
	state.SaveField("lastName", "山田")
	_, cmd := m.Update(key(tea.KeyCtrlC))
	require.NotNil(t, cmd)

	raw, err := store.Get(formstate.KeyFormData)
	require.NoError(t, err)
	require.Contains(t, raw, "山田")
	require.Empty(t, m.View())
}

func TestPostalLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("zipcode") == "1000001" {
			_, _ = w.Write([]byte(`{"status":200,"results":[{"address1":"東京都","address2":"千代田区","address3":"千代田","prefcode":"13","zipcode":"1000001"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":200,"results":null}`))
	}))
	t.Cleanup(srv.Close)

	client := postal.NewClient(srv.URL, time.Second, nil)
	m, state := newTestModel(t, func(o *Options) { o.Postal = client })

	fill(m, map[string]string{"postalCode1": "100", "postalCode2": "0001"})
	cmd := m.lookupPostal()
	require.NotNil(t, cmd)
	m.Update(cmd())

	v, _ := m.form.Value("address1")
	require.Equal(t, "東京都千代田区千代田", v)
	require.Equal(t, "東京都千代田区千代田", state.FieldString("address1"))

	fill(m, map[string]string{"postalCode2": "0000"})
	m.Update(m.lookupPostal()())

	require.True(t, m.form.Invalid("postalCode1"))
	require.Contains(t, m.form.Messages(1), "【郵便番号】該当する住所が見つかりませんでした。郵便番号を確認してください。")
	require.Equal(t, "住所が見つかりませんでした", m.status)
}

func TestPostalLookup_ServerErrorOffersRetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	m, _ := newTestModel(t, func(o *Options) {
		o.Postal = postal.NewClient(srv.URL, time.Second, nil)
	})
	fill(m, map[string]string{"postalCode1": "100", "postalCode2": "0001"})
	m.Update(m.lookupPostal()())

	require.True(t, m.statusError)
	require.Contains(t, m.status, "ctrl+l")
	require.True(t, m.form.Invalid("postalCode1"))
	require.Contains(t, m.form.Messages(1), "【郵便番号】住所検索中にエラーが発生しました。しばらく経ってから再度お試しください。")
}

func TestPostalLookup_Unavailable(t *testing.T) {
	m, _ := newTestModel(t, nil)
	require.Nil(t, m.lookupPostal())
	require.True(t, m.statusError)

	m.nav.GoToStep(2)
	require.Nil(t, m.lookupPostal())
}

func TestMedicalSearch(t *testing.T) {
	catalog := `[
	  {"id": "1300016", "name": "東京労災病院", "postalCode": "143-0013", "address": "大田区大森南４－１３－２１",
	   "phone": "03-3742-7301", "region": "東京都", "type": "労災病院"},
	  {"id": "1231332", "name": "東京慈恵会医科大学附属柏病院", "postalCode": "277-8567", "address": "柏市柏下１６３－１",
	   "phone": "04-7164-1111", "region": "千葉県", "type": "総合病院"}
	]`
	dir := medical.NewDirectory(medical.BytesSource([]byte(catalog)), nil)
	m, state := newTestModel(t, func(o *Options) {
		o.Role = wizard.RoleMedical
		o.Directory = dir
	})
	require.Equal(t, wizard.StepMedical, m.active)

	fill(m, map[string]string{"hospitalName": "東京"})
	m.Update(key(tea.KeyCtrlF))

	require.Equal(t, "東京労災病院", state.FieldString("hospitalName"))
	require.Equal(t, "143", state.FieldString("hospitalPostalCode1"))
	require.Equal(t, "0013", state.FieldString("hospitalPostalCode2"))
	require.Equal(t, "7301", state.FieldString("hospitalTel3"))
	require.True(t, strings.HasPrefix(state.FieldString("hospitalAddress1"), "東京都"))

	m.Update(key(tea.KeyCtrlF))
	require.Equal(t, "東京慈恵会医科大学附属柏病院", state.FieldString("hospitalName"))

	fill(m, map[string]string{"hospitalName": "北海道"})
	m.Update(key(tea.KeyCtrlF))
	require.True(t, m.statusError)
}

package validation

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/rosai-assist/rosai/internal/errors"
	"github.com/rosai-assist/rosai/internal/testutil"
)

var today = time.Date(2026, time.October, 17, 10, 0, 0, 0, time.Local)

func newValidator(t *testing.T, values map[string]string) (*Validator, *testutil.Fields) {
	t.Helper()
	fields := testutil.NewFields(values)
	v, err := New(fields, WithClock(testutil.Clock(today)))
	require.NoError(t, err)
	return v, fields
}

func stepOne() map[string]string {
	return map[string]string{
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
}

func stepThree() map[string]string {
	return map[string]string{
		"injuryDate":          "2026-10-01",
		"injuryHour":          "10",
		"injuryMinute":        "30",
		"accidentLocation":    "工場内第2作業場",
		"accidentDescription": "荷物を運搬中に段差につまずき転倒し、左手首を床について負傷した。",
		"leaveStartDate":      "2026-10-02",
		"leaveEndDate":        "2026-10-20",
	}
}

func with(base map[string]string, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func TestNew_MissingRule(t *testing.T) {
	steps := map[int]StepSpec{1: {Fields: []string{"lastName", "nickname"}}}
	_, err := New(testutil.NewFields(nil), WithSteps(steps))

	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrInvalidInput))

	var ve *errors.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "nickname", ve.Field)
}

func TestValidateStep_StepOneValid(t *testing.T) {
	v, fields := newValidator(t, stepOne())

	require.True(t, v.ValidateStep(1))
	require.Empty(t, fields.InvalidIDs())
	require.Empty(t, fields.Errors())
}

func TestValidateStep_UnknownStep(t *testing.T) {
	v, _ := newValidator(t, stepOne())
	require.False(t, v.ValidateStep(9))
}

func TestValidateStep_EmptySteps(t *testing.T) {
	v, _ := newValidator(t, nil)
	require.True(t, v.ValidateStep(5))
	require.True(t, v.ValidateStep(10))
}

func TestValidateStep_SingleFieldFailures(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]string
		field    string
		wantMsg  string
	}{
		{
			name:     "latin name",
			override: map[string]string{"lastName": "Yamada"},
			field:    "lastName",
			wantMsg:  "【姓】を正しく入力してください。漢字、ひらがな、カタカナのいずれかで入力してください。",
		},
		{
			name:     "hiragana kana",
			override: map[string]string{"firstNameKana": "たろう"},
			field:    "firstNameKana",
			wantMsg:  "【名（フリガナ）】は全角カタカナで入力してください。例：タロウ",
		},
		{
			name:     "whitespace only is empty",
			override: map[string]string{"address2": "   "},
			field:    "address2",
			wantMsg:  "【住所（番地・建物名等）】を入力してください。番地、建物名、部屋番号などを入力してください。",
		},
		{
			name:     "address too short",
			override: map[string]string{"address1": "東京"},
			field:    "address1",
			wantMsg:  "【住所（都道府県・市区町村）】を入力してください。郵便番号検索ボタンで自動入力できます。",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, fields := newValidator(t, with(stepOne(), tt.override))

			require.False(t, v.ValidateStep(1))
			require.True(t, fields.Invalid(tt.field))
			msg, ok := fields.Error(tt.field)
			require.True(t, ok)
			require.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestValidateStep_ClearsStaleMarkers(t *testing.T) {
	v, fields := newValidator(t, with(stepOne(), map[string]string{"lastName": ""}))

	require.False(t, v.ValidateStep(1))
	require.True(t, fields.Invalid("lastName"))

	fields.SetValue("lastName", "山田")
	require.True(t, v.ValidateStep(1))
	require.False(t, fields.Invalid("lastName"))
	_, shown := fields.Error("lastName")
	require.False(t, shown)
}

func TestValidateStep_TelComposite(t *testing.T) {
	tests := []struct {
		name        string
		tel         map[string]string
		wantInvalid []string
	}{
		{"all valid", map[string]string{"tel1": "03", "tel2": "1234", "tel3": "5678"}, nil},
		{"middle empty", map[string]string{"tel1": "03", "tel2": "", "tel3": "5678"}, []string{"tel2"}},
		{"two empty", map[string]string{"tel1": "", "tel2": "1234", "tel3": ""}, []string{"tel1", "tel3"}},
		{"last too short", map[string]string{"tel1": "03", "tel2": "1234", "tel3": "567"}, []string{"tel3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, fields := newValidator(t, with(stepOne(), tt.tel))
			rule := DefaultSteps()[1].Composites[1]

			got := v.ValidateCompositeField(rule)
			require.Equal(t, len(tt.wantInvalid) == 0, got)

			want := map[string]bool{}
			for _, id := range tt.wantInvalid {
				want[id] = true
			}
			if diff := cmp.Diff(want, fields.InvalidIDs()); diff != "" {
				t.Errorf("invalid ids mismatch (-want +got):\n%s", diff)
			}

			_, shown := fields.Error("tel")
			require.Equal(t, !got, shown)
		})
	}
}

func TestValidateCompositeField_ClearsOnSuccess(t *testing.T) {
	v, fields := newValidator(t, with(stepOne(), map[string]string{"tel2": ""}))
	rule := DefaultSteps()[1].Composites[1]

	require.False(t, v.ValidateCompositeField(rule))
	fields.SetValue("tel2", "1234")
	require.True(t, v.ValidateCompositeField(rule))

	require.Empty(t, fields.InvalidIDs())
	_, shown := fields.Error("tel")
	require.False(t, shown)
}

func TestValidateStep_BirthDate(t *testing.T) {
	tests := []struct {
		name    string
		y, m, d string
		want    bool
		wantMsg string
	}{
		{"exactly fifteen", "2011", "10", "17", true, ""},
		{"one day short of fifteen", "2011", "10", "18", false,
			"【生年月日】を正しく選択してください。15歳以上100歳以下の日付を選択してください。"},
		{"exactly one hundred", "1926", "10", "17", true, ""},
		{"over one hundred", "1925", "10", "16", false,
			"【生年月日】を正しく選択してください。15歳以上100歳以下の日付を選択してください。"},
		{"future", "2027", "1", "1", false,
			"【生年月日】を正しく選択してください。15歳以上100歳以下の日付を選択してください。"},
		{"impossible date", "2001", "2", "30", false, "【生年月日】を正しく選択してください。"},
		{"day missing", "2001", "2", "", false, "【生年月日】の年・月・日をすべて選択してください。"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, fields := newValidator(t, with(stepOne(), map[string]string{
				"birthDate-year":  tt.y,
				"birthDate-month": tt.m,
				"birthDate-day":   tt.d,
			}))

			require.Equal(t, tt.want, v.ValidateStep(1))
			msg, _ := fields.Error("birthDate")
			require.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestValidateStep_BirthDateMarksOnlyEmptyMembers(t *testing.T) {
	v, fields := newValidator(t, with(stepOne(), map[string]string{"birthDate-month": ""}))

	require.False(t, v.ValidateStep(1))
	require.True(t, fields.Invalid("birthDate-month"))
	require.False(t, fields.Invalid("birthDate-year"))
	require.False(t, fields.Invalid("birthDate-day"))
}

func TestValidateStep_GenderRequired(t *testing.T) {
	v, fields := newValidator(t, with(stepOne(), map[string]string{"gender": ""}))

	require.False(t, v.ValidateStep(1))
	msg, _ := fields.Error("gender")
	require.Equal(t, "【性別】を選択してください。", msg)
}

func TestValidateStep_InjuryDate(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2026-10-17", true},
		{"2023-10-17", true},
		{"2023-10-16", false},
		{"2026-10-18", false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			v, fields := newValidator(t, with(stepThree(), map[string]string{
				"injuryDate":     tt.date,
				"leaveStartDate": tt.date,
				"leaveEndDate":   tt.date,
			}))

			require.Equal(t, tt.want, v.ValidateStep(3))
			require.Equal(t, !tt.want, fields.Invalid("injuryDate"))
		})
	}
}

func TestValidateStep_LeaveDates(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"end equals start", "2026-10-02", "2026-10-02", true},
		{"end before start", "2026-10-02", "2026-10-01", false},
		{"start before injury", "2026-09-30", "2026-10-20", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newValidator(t, with(stepThree(), map[string]string{
				"leaveStartDate": tt.start,
				"leaveEndDate":   tt.end,
			}))
			require.Equal(t, tt.want, v.ValidateStep(3))
		})
	}
}

func TestValidateField_EmptyReferencePasses(t *testing.T) {
	v, fields := newValidator(t, map[string]string{
		"leaveStartDate": "",
		"leaveEndDate":   "2026-10-02",
	})

	require.True(t, v.ValidateField("leaveEndDate"))
	require.False(t, fields.Invalid("leaveEndDate"))
}

func TestValidateField_DescriptionLength(t *testing.T) {
	v, fields := newValidator(t, map[string]string{"accidentDescription": "短い説明です。"})

	require.False(t, v.ValidateField("accidentDescription"))
	require.True(t, fields.Invalid("accidentDescription"))

	fields.SetValue("accidentDescription", "一二三四五六七八九十一二三四五六七八九十")
	require.True(t, v.ValidateField("accidentDescription"))
	require.False(t, fields.Invalid("accidentDescription"))
}

func TestValidateField_NoRule(t *testing.T) {
	v, _ := newValidator(t, map[string]string{"remarks": ""})
	require.True(t, v.ValidateField("remarks"))
}

func TestValidateField_MissingFieldIsSkipped(t *testing.T) {
	v, fields := newValidator(t, nil)
	require.True(t, v.ValidateField("lastName"))
	require.Empty(t, fields.InvalidIDs())
}

func TestValidateStep_Wage(t *testing.T) {
	base := map[string]string{
		"insuranceMain":   "12345678901",
		"insuranceBranch": "001",
		"occupation":      "製造業",
	}
	tests := []struct {
		wage string
		want bool
	}{
		{"12000", true},
		{"0", false},
		{"1000001", false},
		{"abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.wage, func(t *testing.T) {
			v, _ := newValidator(t, with(base, map[string]string{"averageWage": tt.wage}))
			require.Equal(t, tt.want, v.ValidateStep(2))
		})
	}
}

func TestValidateStep_TreatmentDates(t *testing.T) {
	base := map[string]string{
		"treatmentStatus":    "継続中",
		"injuryPart":         "左手首捻挫",
		"treatmentStartDate": "2026-10-01",
		"treatmentEndDate":   "2026-10-15",
		"actualDays":         "0",
	}

	v, _ := newValidator(t, base)
	require.True(t, v.ValidateStep(8))

	v, fields := newValidator(t, with(base, map[string]string{"treatmentEndDate": "2026-09-30"}))
	require.False(t, v.ValidateStep(8))
	require.True(t, fields.Invalid("treatmentEndDate"))
}

func TestValidateCirculation(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"employer@example.com", true},
		{"employer@example", false},
		{"employer example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			v, fields := newValidator(t, map[string]string{"employerEmail": tt.email})
			require.Equal(t, tt.want, v.ValidateCirculation())
			require.Equal(t, !tt.want, fields.Invalid("employerEmail"))
		})
	}
}

func TestDefaultSteps_EveryFieldHasRule(t *testing.T) {
	rules := DefaultRules(testutil.Clock(today))
	for step, spec := range DefaultSteps() {
		for _, id := range spec.Fields {
			if _, ok := rules[id]; !ok {
				t.Errorf("step %d field %q has no rule", step, id)
			}
		}
	}
}

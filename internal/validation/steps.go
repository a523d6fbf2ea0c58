package validation

// CompositeRule covers a value entered across several inputs. It fails
// unless every member is filled and matches its own pattern.
type CompositeRule struct {
	Members []string
	ErrorID string
	Message string
}

// RadioGroup requires one option of a radio group to be chosen. The
// group's value is read under Name.
type RadioGroup struct {
	Name    string
	Label   string
	Options []string
}

// Message is the error shown when nothing is selected.
func (g RadioGroup) Message() string {
	return "【" + g.Label + "】を選択してください。"
}

// DateSelect is a year/month/day select triple read under Base-year,
// Base-month and Base-day. A non-zero MaxAge turns on the age window,
// which also requires the date to be before today.
type DateSelect struct {
	Base   string
	Label  string
	MinAge int
	MaxAge int
}

// Members returns the three select ids.
func (d DateSelect) Members() []string {
	return []string{d.Base + "-year", d.Base + "-month", d.Base + "-day"}
}

// StepSpec lists what belongs to one step: the step-scoped group checks in
// evaluation order, then the individually validated fields.
type StepSpec struct {
	Radios     []RadioGroup
	Dates      []DateSelect
	Composites []CompositeRule
	Fields     []string
}

// IDs returns every field, member and error id touched by the step.
func (s StepSpec) IDs() []string {
	var ids []string
	for _, r := range s.Radios {
		ids = append(ids, r.Name)
	}
	for _, d := range s.Dates {
		ids = append(ids, d.Base)
		ids = append(ids, d.Members()...)
	}
	for _, c := range s.Composites {
		ids = append(ids, c.ErrorID)
		ids = append(ids, c.Members...)
	}
	ids = append(ids, s.Fields...)
	return ids
}

// CirculationFields are validated before the form is sent to the employer.
var CirculationFields = []string{"employerEmail"}

// DefaultSteps is the static table of what each step validates. Steps 5
// (attachments) and 10 (confirmation) have nothing to check.
func DefaultSteps() map[int]StepSpec {
	return map[int]StepSpec{
		1: {
			Radios: []RadioGroup{{Name: "gender", Label: "性別", Options: []string{"男性", "女性"}}},
			Dates:  []DateSelect{{Base: "birthDate", Label: "生年月日", MinAge: 15, MaxAge: 100}},
			Composites: []CompositeRule{
				{
					Members: []string{"postalCode1", "postalCode2"},
					ErrorID: "postalCode",
					Message: "【郵便番号】は前半3桁、後半4桁で入力してください。例：123-4567",
				},
				{
					Members: []string{"tel1", "tel2", "tel3"},
					ErrorID: "tel",
					Message: "【電話番号】はすべての項目を入力してください。3つの入力欄すべてに入力してください。",
				},
			},
			Fields: []string{
				"lastName", "firstName", "lastNameKana", "firstNameKana",
				"postalCode1", "postalCode2", "address1", "address2",
				"tel1", "tel2", "tel3",
			},
		},
		2: {
			Composites: []CompositeRule{{
				Members: []string{"insuranceMain", "insuranceBranch"},
				ErrorID: "insurance",
				Message: "【労働保険番号】はすべての項目を入力してください。前半11桁と後半3桁の両方を正しく入力してください。",
			}},
			Fields: []string{"insuranceMain", "insuranceBranch", "occupation", "averageWage"},
		},
		3: {
			Composites: []CompositeRule{{
				Members: []string{"injuryHour", "injuryMinute"},
				ErrorID: "injuryTime",
				Message: "【災害発生時刻】の時と分の両方を選択してください。",
			}},
			Fields: []string{
				"injuryDate", "injuryHour", "injuryMinute",
				"accidentLocation", "accidentDescription",
				"leaveStartDate", "leaveEndDate",
			},
		},
		4: {
			Radios: []RadioGroup{{Name: "accountType", Label: "口座種別", Options: []string{"普通", "当座"}}},
			Fields: []string{
				"bankName", "branchName", "accountNumber",
				"accountHolderLastNameKana", "accountHolderFirstNameKana",
			},
		},
		5: {},
		6: {
			Composites: []CompositeRule{
				{
					Members: []string{"businessPostalCode1", "businessPostalCode2"},
					ErrorID: "businessPostalCode",
					Message: "【郵便番号】を入力してください。",
				},
				{
					Members: []string{"employerTel1", "employerTel2", "employerTel3"},
					ErrorID: "employerTel",
					Message: "【電話番号】をすべて入力してください。",
				},
			},
			Fields: []string{
				"employerDate", "businessName",
				"businessPostalCode1", "businessPostalCode2", "businessAddress1", "businessAddress2",
				"employerPosition", "employerLastName", "employerFirstName",
				"employerTel1", "employerTel2", "employerTel3",
			},
		},
		7: {
			Dates: []DateSelect{{Base: "medicalDate", Label: "記入日"}},
			Composites: []CompositeRule{
				{
					Members: []string{"hospitalPostalCode1", "hospitalPostalCode2"},
					ErrorID: "hospitalPostalCode",
					Message: "【医療機関 郵便番号】は前半3桁、後半4桁で入力してください。例：123-4567",
				},
				{
					Members: []string{"hospitalTel1", "hospitalTel2", "hospitalTel3"},
					ErrorID: "hospitalTel",
					Message: "【電話番号】をすべて入力してください。",
				},
			},
			Fields: []string{
				"hospitalName", "hospitalPostalCode1", "hospitalPostalCode2",
				"hospitalAddress1", "hospitalAddress2",
				"doctorLastName", "doctorFirstName",
				"hospitalTel1", "hospitalTel2", "hospitalTel3",
			},
		},
		8: {
			Radios: []RadioGroup{{Name: "treatmentStatus", Label: "療養の現況", Options: []string{"治ゆ", "継続中", "転医", "中止", "死亡"}}},
			Fields: []string{"injuryPart", "treatmentStartDate", "treatmentEndDate", "actualDays"},
		},
		10: {},
	}
}

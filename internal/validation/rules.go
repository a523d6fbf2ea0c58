package validation

import (
	"fmt"
	"regexp"
	"time"
)

// Values is the current text of every field, keyed by field id.
type Values map[string]string

// Predicate is a custom check on a non-empty value. fields carries the
// whole form so cross-field checks can read their reference field.
type Predicate func(value string, fields Values) bool

// Rule is the static validation rule for one field.
type Rule struct {
	Required  bool
	Pattern   *regexp.Regexp
	MinLength int
	Check     Predicate
	Message   string
	Label     string
}

var (
	namePattern     = regexp.MustCompile(`^[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]+$`)
	katakanaPattern = regexp.MustCompile(`^[\x{30A0}-\x{30FF}]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func digits(min, max int) *regexp.Regexp {
	if min == max {
		return regexp.MustCompile(fmt.Sprintf(`^[0-9]{%d}$`, min))
	}
	return regexp.MustCompile(fmt.Sprintf(`^[0-9]{%d,%d}$`, min, max))
}

func name(label string) Rule {
	return Rule{
		Required: true,
		Pattern:  namePattern,
		Message:  "【" + label + "】を正しく入力してください。漢字、ひらがな、カタカナのいずれかで入力してください。",
		Label:    label,
	}
}

func kana(label, example string) Rule {
	return Rule{
		Required: true,
		Pattern:  katakanaPattern,
		Message:  "【" + label + "】は全角カタカナで入力してください。例：" + example,
		Label:    label,
	}
}

func number(label string, min, max int, what string) Rule {
	return Rule{
		Required: true,
		Pattern:  digits(min, max),
		Message:  "【" + label + "】は" + what + "で入力してください。",
		Label:    label,
	}
}

func text(label string, minLength int, message string) Rule {
	return Rule{
		Required:  true,
		MinLength: minLength,
		Message:   message,
		Label:     label,
	}
}

func required(label, message string) Rule {
	return Rule{Required: true, Message: message, Label: label}
}

// DefaultRules returns the rule table for every validated field. now is
// the clock used by the date-window checks.
func DefaultRules(now func() time.Time) map[string]Rule {
	rules := map[string]Rule{
		// step 1: worker
		"lastName":      name("姓"),
		"firstName":     name("名"),
		"lastNameKana":  kana("姓（フリガナ）", "ヤマダ"),
		"firstNameKana": kana("名（フリガナ）", "タロウ"),
		"tel1":          number("電話番号（1番目）", 2, 5, "2〜5桁の半角数字"),
		"tel2":          number("電話番号（2番目）", 1, 4, "1〜4桁の半角数字"),
		"tel3":          number("電話番号（3番目）", 4, 4, "4桁の半角数字"),
		"postalCode1":   number("郵便番号（前半）", 3, 3, "3桁の半角数字"),
		"postalCode2":   number("郵便番号（後半）", 4, 4, "4桁の半角数字"),
		"address1": text("住所（都道府県・市区町村）", 3,
			"【住所（都道府県・市区町村）】を入力してください。郵便番号検索ボタンで自動入力できます。"),
		"address2": text("住所（番地・建物名等）", 1,
			"【住所（番地・建物名等）】を入力してください。番地、建物名、部屋番号などを入力してください。"),

		// step 2: insurance and occupation
		"insuranceMain": {
			Required: true,
			Pattern:  digits(11, 11),
			Message:  "【労働保険番号（前半）】は11桁の数字で入力してください。",
			Label:    "労働保険番号（前半11桁）",
		},
		"insuranceBranch": {
			Required: true,
			Pattern:  digits(3, 3),
			Message:  "【労働保険番号（後半）】は3桁の数字で入力してください。",
			Label:    "労働保険番号（後半3桁）",
		},
		"occupation": text("職種", 2, "【職種】を入力してください。例：製造業、事務職、建設作業員"),
		"averageWage": {
			Required: true,
			Check:    numberInRange(0, 1_000_000, false),
			Message:  "【平均賃金（日額）】は1円以上100万円以下の数値で入力してください。",
			Label:    "平均賃金（日額）",
		},

		// step 3: accident
		"injuryDate": {
			Required: true,
			Check:    withinPastYears(now, 3),
			Message:  "【負傷または発病年月日】は過去3年以内の日付を入力してください。未来の日付は入力できません。",
			Label:    "負傷または発病年月日",
		},
		"injuryHour":   required("災害発生時刻（時）", "【災害発生時刻（時）】を選択してください。"),
		"injuryMinute": required("災害発生時刻（分）", "【災害発生時刻（分）】を選択してください。"),
		"accidentLocation": text("災害発生場所", 3,
			"【災害発生場所】を具体的に入力してください。例：工場内第2作業場、事務所3階会議室"),
		"accidentDescription": text("災害発生状況", 20,
			"【災害発生状況】は20文字以上で詳しく記入してください。いつ、どこで、何をしている時に、どのような災害が発生したかを具体的に記入してください。"),
		"leaveStartDate": {
			Required: true,
			Check:    notBefore("injuryDate"),
			Message:  "【休業開始日】は負傷または発病年月日以降の日付を入力してください。",
			Label:    "休業開始日",
		},
		"leaveEndDate": {
			Required: true,
			Check:    notBefore("leaveStartDate"),
			Message:  "【休業終了日（予定）】は休業開始日以降の日付を入力してください。",
			Label:    "休業終了日（予定）",
		},

		// step 4: bank account
		"bankName":                   text("金融機関名", 2, "【金融機関名】を入力してください。例：三菱UFJ銀行、みずほ銀行"),
		"branchName":                 text("支店名", 2, "【支店名】を入力してください。例：本店、東京支店"),
		"accountNumber":              number("口座番号", 1, 8, "半角数字で1～8桁"),
		"accountHolderLastNameKana":  kana("口座名義人 姓（カナ）", "ヤマダ"),
		"accountHolderFirstNameKana": kana("口座名義人 名（カナ）", "タロウ"),

		// circulation request
		"employerEmail": {
			Required: true,
			Pattern:  emailPattern,
			Message:  "【事業主メールアドレス】を正しい形式で入力してください。例：employer@example.com",
			Label:    "事業主メールアドレス",
		},

		// step 6: employer
		"employerDate":        required("記入日", "【記入日】を入力してください。"),
		"businessName":        required("事業の名称", "【事業の名称】を入力してください。"),
		"businessPostalCode1": number("事業の所在地 郵便番号（前半）", 3, 3, "3桁の半角数字"),
		"businessPostalCode2": number("事業の所在地 郵便番号（後半）", 4, 4, "4桁の半角数字"),
		"businessAddress1": text("事業の所在地（都道府県・市区町村）", 3,
			"【事業の所在地（都道府県・市区町村）】を入力してください。郵便番号検索ボタンで自動入力できます。"),
		"businessAddress2": text("事業の所在地（番地・建物名等）", 1,
			"【事業の所在地（番地・建物名等）】を入力してください。番地、建物名、部屋番号などを入力してください。"),
		"employerPosition":  required("役職", "【役職】を入力してください。"),
		"employerLastName":  name("事業主 姓"),
		"employerFirstName": name("事業主 名"),
		"employerTel1":      number("事業主 電話番号（1番目）", 2, 5, "2〜5桁の半角数字"),
		"employerTel2":      number("事業主 電話番号（2番目）", 1, 4, "1〜4桁の半角数字"),
		"employerTel3":      number("事業主 電話番号（3番目）", 4, 4, "4桁の半角数字"),

		// step 7: medical institution
		"hospitalPostalCode1": number("医療機関 郵便番号（前半）", 3, 3, "3桁の半角数字"),
		"hospitalPostalCode2": number("医療機関 郵便番号（後半）", 4, 4, "4桁の半角数字"),
		"hospitalAddress1": text("病院又は診療所の所在地（都道府県・市区町村）", 3,
			"【病院又は診療所の所在地（都道府県・市区町村）】を入力してください。郵便番号検索ボタンで自動入力できます。"),
		"hospitalAddress2": text("病院又は診療所の所在地（番地・建物名等）", 1,
			"【病院又は診療所の所在地（番地・建物名等）】を入力してください。番地、建物名、部屋番号などを入力してください。"),
		"hospitalName":    text("病院又は診療所の名称", 2, "【病院又は診療所の名称】を入力してください。例：〇〇病院、△△診療所"),
		"doctorLastName":  name("担当者 姓"),
		"doctorFirstName": name("担当者 名"),
		"hospitalTel1":    number("病院・診療所 電話番号（1番目）", 2, 5, "2〜5桁の半角数字"),
		"hospitalTel2":    number("病院・診療所 電話番号（2番目）", 1, 4, "1〜4桁の半角数字"),
		"hospitalTel3":    number("病院・診療所 電話番号（3番目）", 4, 4, "4桁の半角数字"),

		// step 8: diagnosis
		"injuryPart":         text("傷病部位・名称", 2, "【傷病部位・名称】を入力してください。例：左手首捻挫、腰部打撲"),
		"treatmentStartDate": required("療養開始日", "【療養開始日】を入力してください。"),
		"treatmentEndDate": {
			Required: true,
			Check:    notBefore("treatmentStartDate"),
			Message:  "【療養終了日】は療養開始日以降の日付を入力してください。",
			Label:    "療養終了日",
		},
		"actualDays": {
			Required: true,
			Check:    numberInRange(0, 365, true),
			Message:  "【診療実日数】は0日以上365日以下の数値で入力してください。",
			Label:    "診療実日数",
		},
	}
	return rules
}

package clean

import "strings"

// Age buckets used by the age-group views.
const (
	AgeGroupChild   = "0-12"
	AgeGroupYouth   = "13-24"
	AgeGroupAdult   = "25-59"
	AgeGroupSenior  = "60+"
	AgeGroupUnknown = "ไม่ระบุ"
)

// AgeGroup buckets an age into one of four fixed bins.
func AgeGroup(age float64, known bool) string {
	switch {
	case !known || age < 0:
		return AgeGroupUnknown
	case age < 13:
		return AgeGroupChild
	case age < 25:
		return AgeGroupYouth
	case age < 60:
		return AgeGroupAdult
	default:
		return AgeGroupSenior
	}
}

var genderMap = map[string]string{
	"ชาย":    "Male",
	"ช":      "Male",
	"m":      "Male",
	"male":   "Male",
	"หญิง":   "Female",
	"ญ":      "Female",
	"f":      "Female",
	"w":      "Female",
	"female": "Female",
}

// MapGender maps a raw gender code onto Male / Female / Other / Unknown.
func MapGender(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "Unknown"
	}
	if mapped, ok := genderMap[strings.ToLower(raw)]; ok {
		return mapped
	}
	return "Other"
}

var diseaseMap = map[string]string{
	"เบาหวาน":         "Diabetes",
	"ความดันโลหิตสูง": "Hypertension",
	"ไขมันในเลือดสูง": "Dyslipidemia",
	"ไข้หวัด":         "Common Cold",
	"ภูมิแพ้":         "Allergy",
	"โรคกระเพาะ":      "Gastritis",
	"ปวดหลัง":         "Back Pain",
	"โรคผิวหนัง":      "Skin Disease",
}

// MapDisease maps a raw disease group onto its dashboard label. Unmapped
// values pass through unchanged.
func MapDisease(raw string) string {
	raw = strings.TrimSpace(raw)
	if mapped, ok := diseaseMap[raw]; ok {
		return mapped
	}
	return raw
}

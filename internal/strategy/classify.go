package strategy

import (
	"math"

	"github.com/warin/clinicstats/internal/model"
)

// Thresholds for the ordered decision rules.
const (
	concentrationShare = 0.60
	momRecovering      = 0.08
	momSlipping        = -0.10
)

// Classify maps a monthly branch stat to a recommendation label. The rules
// are ordered; the first match wins. Labels keep the dashboard's original
// mixed Thai/English wording.
func Classify(s *model.MonthlyBranchStat) string {
	pi := s.PerformanceIndex
	mom := s.MoM
	concentrated := s.TopProduct != "" && s.TopShare >= concentrationShare

	switch {
	case math.IsNaN(pi):
		return "ตรวจสอบข้อมูล (ยังไม่มีฐาน median)"

	case pi < 0.7:
		label := "Turnaround | เร่งแผนฟื้นฟูยอดขาย"
		if concentrated {
			label += " | ลดการพึ่งพา " + s.TopProduct
		}
		return label

	case pi < 0.9:
		switch {
		case !math.IsNaN(mom) && mom > momRecovering:
			return "Recovering | กำลังฟื้นตัว"
		case !math.IsNaN(mom) && mom < momSlipping:
			return "At-Risk | ยอดหดตัวต่อเนื่อง"
		default:
			return "Below Median | ต่ำกว่าค่ากลางของสาขา"
		}

	case pi < 1.1:
		label := "Stable | รักษาระดับ"
		if !math.IsNaN(mom) && mom < momSlipping {
			label += " but Slipping"
		}
		return label

	case pi < 1.2:
		label := "Good | ขยาย budget ช่วง peak"
		if concentrated {
			label += " | ลดการพึ่งพา " + s.TopProduct
		}
		return label

	default:
		label := "Star | ลงทุนขยายศักยภาพสาขา"
		if concentrated {
			label += " | ลดการพึ่งพา " + s.TopProduct
		}
		return label
	}
}

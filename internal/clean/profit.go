package clean

import "github.com/warin/clinicstats/internal/config"

// Profit computes per-line profit under the selected formula. Exactly one
// formula applies uniformly to the whole cleaned table, before filtering.
//
//	per_unit: line total minus average cost times quantity
//	current:  line total minus average cost (cost treated as per-line)
//	fixed40:  a flat 40% margin on the line total
func Profit(formula string, lineTotal, avgCost, quantity float64) float64 {
	switch formula {
	case config.ProfitPerUnit:
		return lineTotal - avgCost*quantity
	case config.ProfitCurrent:
		return lineTotal - avgCost
	case config.ProfitFixed40:
		return lineTotal * 0.40
	default:
		return 0
	}
}

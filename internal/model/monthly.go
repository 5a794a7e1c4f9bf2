package model

import (
	"encoding/json"
	"math"
)

// MonthlyBranchStat is one (branch, month) row of the strategy table.
// PerformanceIndex and MoM are NaN when undefined (no median / no previous
// month); the classifier treats NaN explicitly. JSON encodes NaN as null.
type MonthlyBranchStat struct {
	Branch           string  `json:"branch"`
	Month            string  `json:"month"` // "2006-01"
	Revenue          float64 `json:"revenue"`
	MedianRevenue    float64 `json:"median_revenue"`
	PrevRevenue      float64 `json:"prev_revenue"`
	PerformanceIndex float64 `json:"performance_index"`
	MoM              float64 `json:"mom"`
	TopProduct       string  `json:"top_product"`
	TopShare         float64 `json:"top_share"`
	Strategy         string  `json:"strategy"`
}

// MarshalJSON replaces NaN ratios with null; encoding/json rejects NaN.
func (s MonthlyBranchStat) MarshalJSON() ([]byte, error) {
	nullable := func(v float64) *float64 {
		if math.IsNaN(v) {
			return nil
		}
		return &v
	}
	return json.Marshal(struct {
		Branch           string   `json:"branch"`
		Month            string   `json:"month"`
		Revenue          float64  `json:"revenue"`
		MedianRevenue    float64  `json:"median_revenue"`
		PrevRevenue      *float64 `json:"prev_revenue"`
		PerformanceIndex *float64 `json:"performance_index"`
		MoM              *float64 `json:"mom"`
		TopProduct       string   `json:"top_product"`
		TopShare         float64  `json:"top_share"`
		Strategy         string   `json:"strategy"`
	}{
		Branch:           s.Branch,
		Month:            s.Month,
		Revenue:          s.Revenue,
		MedianRevenue:    s.MedianRevenue,
		PrevRevenue:      nullable(s.PrevRevenue),
		PerformanceIndex: nullable(s.PerformanceIndex),
		MoM:              nullable(s.MoM),
		TopProduct:       s.TopProduct,
		TopShare:         s.TopShare,
		Strategy:         s.Strategy,
	})
}

package strategy

import (
	"math"
	"sort"
	"time"

	"github.com/warin/clinicstats/internal/model"
)

// BuildMonthlyStats computes one row per (branch, month): summed revenue, the
// branch's median monthly revenue across the view, the previous calendar
// month's revenue, the derived performance index and MoM ratio, the dominant
// product's share, and the classifier label.
//
// Callers gate on branch and line_total presence; the top-product share is
// only populated when the description column exists.
func BuildMonthlyStats(ds *model.Dataset) []model.MonthlyBranchStat {
	type cell struct {
		revenue  float64
		products map[string]float64
	}
	byBranch := make(map[string]map[string]*cell)
	hasDesc := ds.Columns.Has(model.ColDescription)

	for i := range ds.Records {
		r := &ds.Records[i]
		months, ok := byBranch[r.Branch]
		if !ok {
			months = make(map[string]*cell)
			byBranch[r.Branch] = months
		}
		c, ok := months[r.YearMonth]
		if !ok {
			c = &cell{products: make(map[string]float64)}
			months[r.YearMonth] = c
		}
		c.revenue += r.LineTotal
		if hasDesc {
			c.products[r.Description] += r.LineTotal
		}
	}

	var stats []model.MonthlyBranchStat
	for branch, months := range byBranch {
		revenues := make([]float64, 0, len(months))
		for _, c := range months {
			revenues = append(revenues, c.revenue)
		}
		med := median(revenues)

		for month, c := range months {
			s := model.MonthlyBranchStat{
				Branch:        branch,
				Month:         month,
				Revenue:       c.revenue,
				MedianRevenue: med,
				PrevRevenue:   math.NaN(),
				MoM:           math.NaN(),
			}

			if prev, ok := months[prevMonth(month)]; ok && prev.revenue != 0 {
				s.PrevRevenue = prev.revenue
				s.MoM = (c.revenue - prev.revenue) / prev.revenue
			}

			if med > 0 {
				s.PerformanceIndex = c.revenue / med
			} else {
				s.PerformanceIndex = math.NaN()
			}

			if hasDesc && c.revenue > 0 {
				for p, rev := range c.products {
					share := rev / c.revenue
					if share > s.TopShare || (share == s.TopShare && p < s.TopProduct) {
						s.TopProduct = p
						s.TopShare = share
					}
				}
			}

			s.Strategy = Classify(&s)
			stats = append(stats, s)
		}
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Branch != stats[j].Branch {
			return stats[i].Branch < stats[j].Branch
		}
		return stats[i].Month < stats[j].Month
	})
	return stats
}

// prevMonth returns the calendar month before a "2006-01" bucket, or "" when
// the bucket is malformed.
func prevMonth(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return ""
	}
	return t.AddDate(0, -1, 0).Format("2006-01")
}

// median returns the median of vs, or 0 for an empty slice.
func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

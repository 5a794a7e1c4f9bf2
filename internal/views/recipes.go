package views

import (
	"sort"

	"github.com/warin/clinicstats/internal/config"
	"github.com/warin/clinicstats/internal/model"
)

// Catalog is the fixed set of dashboard views, in display order.
var Catalog = []View{
	{
		Name:     "revenue_by_branch",
		Title:    "Revenue by Branch",
		Requires: []string{model.ColBranch, model.ColLineTotal},
		Build:    revenueByBranch,
	},
	{
		Name:     "monthly_revenue",
		Title:    "Monthly Revenue Trend",
		Requires: []string{model.ColLineTotal},
		Build:    monthlyRevenue,
	},
	{
		Name:     "top_products",
		Title:    "Top Products by Revenue",
		Requires: []string{model.ColDescription, model.ColLineTotal},
		Build:    topProducts,
	},
	{
		Name:     "product_mix_by_branch",
		Title:    "Product Mix by Branch",
		Requires: []string{model.ColBranch, model.ColDescription, model.ColLineTotal},
		Build:    productMixByBranch,
	},
	{
		Name:     "disease_avg_age",
		Title:    "Disease Analysis by Average Age",
		Requires: []string{model.ColDiseaseGroup, model.ColAge},
		Build:    diseaseAvgAge,
	},
	{
		Name:     "age_group_cases",
		Title:    "Cases by Age Group",
		Requires: []string{model.ColAge},
		Build:    ageGroupCases,
	},
	{
		Name:     "gender_distribution",
		Title:    "Gender Distribution",
		Requires: []string{model.ColGender},
		Build:    genderDistribution,
	},
	{
		Name:     "payer_revenue",
		Title:    "Revenue by Payer",
		Requires: []string{model.ColPayer, model.ColLineTotal},
		Build:    payerRevenue,
	},
	{
		Name:     "payer_hospital",
		Title:    "Payer × Hospital Cases",
		Requires: []string{model.ColPayer, model.ColHospital},
		Build:    payerHospital,
	},
	{
		Name:     "payment_method_mix",
		Title:    "Payment Method Mix",
		Requires: []string{model.ColPaymentMethod, model.ColLineTotal},
		Build:    paymentMethodMix,
	},
	{
		Name:     "branch_month_heatmap",
		Title:    "Branch × Month Heatmap",
		Requires: []string{model.ColBranch, model.ColLineTotal},
		Build:    branchMonthHeatmap,
	},
	{
		Name:     "profit_by_branch",
		Title:    "Profit by Branch",
		Requires: []string{model.ColBranch, model.ColLineTotal},
		Build:    profitByBranch,
	},
	{
		Name:     "avg_ticket_by_branch",
		Title:    "Average Ticket by Branch",
		Requires: []string{model.ColBranch, model.ColLineTotal},
		Build:    avgTicketByBranch,
	},
	{
		Name:     "disease_by_branch",
		Title:    "Disease Cases by Branch",
		Requires: []string{model.ColBranch, model.ColDiseaseGroup},
		Build:    diseaseByBranch,
	},
	{
		Name:     "quantity_by_product",
		Title:    "Quantity Sold by Product",
		Requires: []string{model.ColDescription, model.ColQuantity},
		Build:    quantityByProduct,
	},
}

func branchKey(r *model.Record) string      { return r.Branch }
func monthKey(r *model.Record) string       { return r.YearMonth }
func descriptionKey(r *model.Record) string { return r.Description }
func lineTotal(r *model.Record) float64     { return r.LineTotal }

func revenueByBranch(ds *model.Dataset, _ Params) *model.ResultTable {
	groups := aggregate(ds, branchKey, nil, lineTotal)
	sortBySumDesc(groups)
	total := totalSum(groups)

	t := &model.ResultTable{Columns: []string{"Branch", "Revenue", "Share", "Lines"}}
	for _, g := range groups {
		share := 0.0
		if total > 0 {
			share = g.Sum / total
		}
		t.Rows = append(t.Rows, []string{g.Key, money(g.Sum), percent(share), count(g.Count)})
	}
	return t
}

func monthlyRevenue(ds *model.Dataset, _ Params) *model.ResultTable {
	groups := aggregate(ds, monthKey, nil, lineTotal)
	sortByKeyAsc(groups)

	t := &model.ResultTable{Columns: []string{"Month", "Revenue", "Lines"}}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{g.Key, money(g.Sum), count(g.Count)})
	}
	return t
}

func topProducts(ds *model.Dataset, p Params) *model.ResultTable {
	groups := aggregate(ds, descriptionKey, nil, lineTotal)
	sortBySumDesc(groups)
	total := totalSum(groups)
	groups = groups[:clampTopN(p.TopN, len(groups))]

	t := &model.ResultTable{Columns: []string{"Product", "Revenue", "Share", "Lines"}}
	for _, g := range groups {
		share := 0.0
		if total > 0 {
			share = g.Sum / total
		}
		t.Rows = append(t.Rows, []string{g.Key, money(g.Sum), percent(share), count(g.Count)})
	}
	return t
}

func productMixByBranch(ds *model.Dataset, p Params) *model.ResultTable {
	groups := aggregate(ds, branchKey, descriptionKey, lineTotal)
	sortBySumDesc(groups)
	groups = groups[:clampTopN(p.TopN, len(groups))]

	t := &model.ResultTable{Columns: []string{"Branch", "Product", "Revenue", "Lines"}}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{g.Key, g.Key2, money(g.Sum), count(g.Count)})
	}
	return t
}

func diseaseAvgAge(ds *model.Dataset, p Params) *model.ResultTable {
	groups := aggregate(ds, func(r *model.Record) string { return r.DiseaseGroup }, nil,
		func(r *model.Record) float64 { return r.Age })
	// Cases descending, average age descending as tie-break.
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		ai := groups[i].Sum / float64(groups[i].Count)
		aj := groups[j].Sum / float64(groups[j].Count)
		if ai != aj {
			return ai > aj
		}
		return groups[i].Key < groups[j].Key
	})
	groups = groups[:clampTopN(p.TopN, len(groups))]

	t := &model.ResultTable{Columns: []string{"Disease", "Average Age", "Cases"}}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{g.Key, ratio1(g.Sum / float64(g.Count)), count(g.Count)})
	}
	return t
}

func ageGroupCases(ds *model.Dataset, _ Params) *model.ResultTable {
	groups := aggregate(ds, func(r *model.Record) string { return r.AgeGroup }, nil, lineTotal)
	sortByCountDesc(groups)

	t := &model.ResultTable{Columns: []string{"Age Group", "Cases", "Revenue"}}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{g.Key, count(g.Count), money(g.Sum)})
	}
	return t
}

func genderDistribution(ds *model.Dataset, _ Params) *model.ResultTable {
	groups := aggregate(ds, func(r *model.Record) string { return r.Gender }, nil, nil)
	sortByCountDesc(groups)
	var total int
	for _, g := range groups {
		total += g.Count
	}

	t := &model.ResultTable{Columns: []string{"Gender", "Cases", "Share"}}
	for _, g := range groups {
		share := 0.0
		if total > 0 {
			share = float64(g.Count) / float64(total)
		}
		t.Rows = append(t.Rows, []string{g.Key, count(g.Count), percent(share)})
	}
	return t
}

func payerRevenue(ds *model.Dataset, p Params) *model.ResultTable {
	groups := aggregate(ds, func(r *model.Record) string { return r.Payer }, nil, lineTotal)
	sortBySumDesc(groups)
	groups = groups[:clampTopN(p.TopN, len(groups))]

	t := &model.ResultTable{Columns: []string{"Payer", "Revenue", "Lines"}}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{g.Key, money(g.Sum), count(g.Count)})
	}
	return t
}

func payerHospital(ds *model.Dataset, p Params) *model.ResultTable {
	groups := aggregate(ds, func(r *model.Record) string { return r.Payer },
		func(r *model.Record) string { return r.Hospital }, lineTotal)
	sortByCountDesc(groups)
	groups = groups[:clampTopN(p.TopN, len(groups))]

	t := &model.ResultTable{Columns: []string{"Payer", "Hospital", "Cases", "Revenue"}}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{g.Key, g.Key2, count(g.Count), money(g.Sum)})
	}
	return t
}

func paymentMethodMix(ds *model.Dataset, _ Params) *model.ResultTable {
	groups := aggregate(ds, func(r *model.Record) string { return r.PaymentMethod }, nil, lineTotal)
	sortBySumDesc(groups)
	total := totalSum(groups)

	t := &model.ResultTable{Columns: []string{"Payment Method", "Revenue", "Share", "Lines"}}
	for _, g := range groups {
		share := 0.0
		if total > 0 {
			share = g.Sum / total
		}
		t.Rows = append(t.Rows, []string{g.Key, money(g.Sum), percent(share), count(g.Count)})
	}
	return t
}

// branchMonthHeatmap pivots (branch, month) cells into one row per branch with
// a column per month, cells holding either case counts or revenue.
func branchMonthHeatmap(ds *model.Dataset, p Params) *model.ResultTable {
	groups := aggregate(ds, branchKey, monthKey, lineTotal)

	monthSet := make(map[string]bool)
	cells := make(map[string]map[string]group)
	var branches []string
	for _, g := range groups {
		monthSet[g.Key2] = true
		if _, ok := cells[g.Key]; !ok {
			cells[g.Key] = make(map[string]group)
			branches = append(branches, g.Key)
		}
		cells[g.Key][g.Key2] = g
	}

	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Strings(months)
	sort.Strings(branches)

	t := &model.ResultTable{Columns: append([]string{"Branch"}, months...)}
	for _, b := range branches {
		row := make([]string, 0, len(months)+1)
		row = append(row, b)
		for _, m := range months {
			g, ok := cells[b][m]
			switch {
			case !ok:
				row = append(row, "-")
			case p.HeatmapMetric == config.MetricRevenue:
				row = append(row, money(g.Sum))
			default:
				row = append(row, count(g.Count))
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func profitByBranch(ds *model.Dataset, _ Params) *model.ResultTable {
	groups := aggregate(ds, branchKey, nil, func(r *model.Record) float64 { return r.Profit })
	sortBySumDesc(groups)

	t := &model.ResultTable{Columns: []string{"Branch", "Profit", "Lines"}}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{g.Key, money(g.Sum), count(g.Count)})
	}
	return t
}

func avgTicketByBranch(ds *model.Dataset, _ Params) *model.ResultTable {
	groups := aggregate(ds, branchKey, nil, lineTotal)
	// Mean line total descending.
	sort.SliceStable(groups, func(i, j int) bool {
		mi := groups[i].Sum / float64(groups[i].Count)
		mj := groups[j].Sum / float64(groups[j].Count)
		if mi != mj {
			return mi > mj
		}
		return groups[i].Key < groups[j].Key
	})

	t := &model.ResultTable{Columns: []string{"Branch", "Average Ticket", "Lines"}}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{g.Key, money(g.Sum / float64(g.Count)), count(g.Count)})
	}
	return t
}

func diseaseByBranch(ds *model.Dataset, p Params) *model.ResultTable {
	groups := aggregate(ds, branchKey, func(r *model.Record) string { return r.DiseaseGroup }, nil)
	sortByCountDesc(groups)
	groups = groups[:clampTopN(p.TopN, len(groups))]

	t := &model.ResultTable{Columns: []string{"Branch", "Disease", "Cases"}}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{g.Key, g.Key2, count(g.Count)})
	}
	return t
}

func quantityByProduct(ds *model.Dataset, p Params) *model.ResultTable {
	groups := aggregate(ds, descriptionKey, nil, func(r *model.Record) float64 { return r.Quantity })
	sortBySumDesc(groups)
	groups = groups[:clampTopN(p.TopN, len(groups))]

	t := &model.ResultTable{Columns: []string{"Product", "Quantity", "Lines"}}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{g.Key, ratio1(g.Sum), count(g.Count)})
	}
	return t
}

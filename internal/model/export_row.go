package model

import (
	"time"

	"github.com/google/uuid"
)

// ExportRow is the DB-ready representation of a cleaned record for COPY into
// analytics.cleaned_lines. Optional columns are pointers so absent source
// columns copy as NULL rather than zero values.
type ExportRow struct {
	ExportBatchID   uuid.UUID
	SourceRowNumber int64

	Branch    string
	Date      time.Time
	Year      int32
	YearMonth string

	DocNo       *string
	Description *string

	LineTotal float64
	AvgCost   *float64
	Quantity  float64
	Profit    float64

	Age           *float64
	AgeGroup      *string
	Gender        *string
	DiseaseGroup  *string
	Payer         *string
	PaymentMethod *string
	Hospital      *string
}

// ExportColumns returns the ordered column names for COPY into analytics.cleaned_lines.
func ExportColumns() []string {
	return []string{
		"export_batch_id",
		"source_row_number",
		"branch",
		"posting_date",
		"year",
		"year_month",
		"doc_no",
		"description",
		"line_total",
		"avg_cost",
		"quantity",
		"profit",
		"age",
		"age_group",
		"gender",
		"disease_group",
		"payer",
		"payment_method",
		"hospital",
	}
}

// CopyValues returns the row's values in ExportColumns order.
func (r *ExportRow) CopyValues() []any {
	return []any{
		r.ExportBatchID,
		r.SourceRowNumber,
		r.Branch,
		r.Date,
		r.Year,
		r.YearMonth,
		r.DocNo,
		r.Description,
		r.LineTotal,
		r.AvgCost,
		r.Quantity,
		r.Profit,
		r.Age,
		r.AgeGroup,
		r.Gender,
		r.DiseaseGroup,
		r.Payer,
		r.PaymentMethod,
		r.Hospital,
	}
}

// StatColumns returns the ordered column names for COPY into analytics.monthly_branch_stats.
func StatColumns() []string {
	return []string{
		"export_batch_id",
		"branch",
		"month",
		"revenue",
		"median_revenue",
		"prev_revenue",
		"performance_index",
		"mom",
		"top_product",
		"top_share",
		"strategy",
	}
}

// StatCopyValues returns one monthly stat's values in StatColumns order.
// NaN ratios copy as NULL.
func StatCopyValues(batchID uuid.UUID, s *MonthlyBranchStat) []any {
	return []any{
		batchID,
		s.Branch,
		s.Month,
		s.Revenue,
		s.MedianRevenue,
		nanToNil(s.PrevRevenue),
		nanToNil(s.PerformanceIndex),
		nanToNil(s.MoM),
		s.TopProduct,
		s.TopShare,
		s.Strategy,
	}
}

func nanToNil(v float64) *float64 {
	if v != v {
		return nil
	}
	return &v
}

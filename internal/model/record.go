package model

import "time"

// Canonical column names used after header aliasing. Raw files may carry any
// of several vendor spellings; the cleaner renames them to these.
const (
	ColBranch        = "branch"
	ColDate          = "date"
	ColDocNo         = "doc_no"
	ColDescription   = "description"
	ColLineTotal     = "line_total"
	ColAvgCost       = "avg_cost"
	ColQuantity      = "quantity"
	ColAge           = "age"
	ColGender        = "gender"
	ColDiseaseGroup  = "disease_group"
	ColPayer         = "payer"
	ColPaymentMethod = "payment_method"
	ColHospital      = "hospital"
)

// ColumnSet tracks which canonical columns were present in the source file.
// Every derived step and every view is conditional on column presence.
type ColumnSet map[string]bool

// Has reports whether the canonical column was present in the source.
func (cs ColumnSet) Has(col string) bool { return cs[col] }

// Missing returns the subset of cols not present, in the given order.
func (cs ColumnSet) Missing(cols ...string) []string {
	var out []string
	for _, c := range cols {
		if !cs[c] {
			out = append(out, c)
		}
	}
	return out
}

// Record is one cleaned transaction/clinical line item. Fields whose source
// column was absent hold zero values; callers must consult the dataset's
// ColumnSet before reading them.
type Record struct {
	Branch        string
	Date          time.Time
	Year          int
	YearMonth     string // "2006-01"
	DocNo         string
	Description   string
	LineTotal     float64
	AvgCost       float64
	Quantity      float64
	Profit        float64
	Age           float64
	AgeGroup      string
	Gender        string // mapped: Male / Female / Other
	DiseaseGroup  string // mapped disease group
	Payer         string
	PaymentMethod string
	Hospital      string
}

// Dataset is a cleaned (and possibly filtered) table plus the set of source
// columns it was built from.
type Dataset struct {
	Records []Record
	Columns ColumnSet
}

// Empty reports whether the dataset has no rows. An empty dataset after
// filtering is a valid terminal state, not an error.
func (d *Dataset) Empty() bool { return d == nil || len(d.Records) == 0 }

// Branches returns the distinct branch names in first-seen order.
func (d *Dataset) Branches() []string {
	seen := make(map[string]bool)
	var out []string
	for i := range d.Records {
		b := d.Records[i].Branch
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}

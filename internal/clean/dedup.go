package clean

import (
	"strconv"
	"strings"

	"github.com/warin/clinicstats/internal/model"
)

// Candidate composite keys believed to identify a unique transaction line,
// in fixed priority order.
var dedupKeys = [][]string{
	{model.ColBranch, model.ColDate, model.ColDocNo, model.ColDescription, model.ColLineTotal},
	{model.ColBranch, model.ColDate, model.ColDocNo, model.ColLineTotal},
	{model.ColBranch, model.ColDate, model.ColDescription, model.ColLineTotal, model.ColQuantity},
	{model.ColBranch, model.ColDate, model.ColDescription, model.ColLineTotal},
}

// selectDedupKey returns the present columns of the first candidate key with
// at least three of its columns in the source. Later candidates are never
// consulted, even when they would expose duplicates the chosen key misses.
func selectDedupKey(cols model.ColumnSet) []string {
	for _, key := range dedupKeys {
		var present []string
		for _, c := range key {
			if cols.Has(c) {
				present = append(present, c)
			}
		}
		if len(present) >= 3 {
			return present
		}
	}
	return nil
}

// keyValue builds the composite key string for a record over the given columns.
func keyValue(r *model.Record, key []string) string {
	parts := make([]string, len(key))
	for i, col := range key {
		switch col {
		case model.ColBranch:
			parts[i] = r.Branch
		case model.ColDate:
			parts[i] = r.Date.Format("2006-01-02")
		case model.ColDocNo:
			parts[i] = r.DocNo
		case model.ColDescription:
			parts[i] = r.Description
		case model.ColLineTotal:
			parts[i] = strconv.FormatFloat(r.LineTotal, 'f', -1, 64)
		case model.ColQuantity:
			parts[i] = strconv.FormatFloat(r.Quantity, 'f', -1, 64)
		}
	}
	return strings.Join(parts, "\x1f")
}

// fullRowKey builds a key over every field of the record, for exact
// duplicate detection when no composite key qualifies.
func fullRowKey(r *model.Record) string {
	return strings.Join([]string{
		r.Branch,
		r.Date.Format("2006-01-02"),
		r.DocNo,
		r.Description,
		strconv.FormatFloat(r.LineTotal, 'f', -1, 64),
		strconv.FormatFloat(r.AvgCost, 'f', -1, 64),
		strconv.FormatFloat(r.Quantity, 'f', -1, 64),
		strconv.FormatFloat(r.Age, 'f', -1, 64),
		r.Gender,
		r.DiseaseGroup,
		r.Payer,
		r.PaymentMethod,
		r.Hospital,
	}, "\x1f")
}

// dedupByKey keeps the first record per key value and returns the survivors
// plus the number of rows dropped.
func dedupByKey(records []model.Record, key []string) ([]model.Record, int) {
	seen := make(map[string]bool, len(records))
	out := records[:0]
	dropped := 0
	for i := range records {
		k := keyValue(&records[i], key)
		if seen[k] {
			dropped++
			continue
		}
		seen[k] = true
		out = append(out, records[i])
	}
	return out, dropped
}

// countExactDuplicates counts rows that are full-field copies of an earlier row.
func countExactDuplicates(records []model.Record) int {
	seen := make(map[string]bool, len(records))
	dups := 0
	for i := range records {
		k := fullRowKey(&records[i])
		if seen[k] {
			dups++
			continue
		}
		seen[k] = true
	}
	return dups
}

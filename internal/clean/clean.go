package clean

import (
	"fmt"
	"strings"

	"github.com/warin/clinicstats/internal/model"
	"github.com/warin/clinicstats/internal/source"
)

// Options controls one cleaning run.
type Options struct {
	// StrictDedup drops rows matching an earlier row on the selected
	// composite key. When off, duplicates are only reported.
	StrictDedup bool
	// ProfitFormula is one of the config.Profit* names.
	ProfitFormula string
}

// Clean turns a raw table into a typed, normalized dataset. It is a pure
// function of its inputs: no side effects beyond the returned dataset and
// the human-readable warnings in the summary.
func Clean(raw *source.RawTable, opts Options) (*model.Dataset, *model.CleanSummary, error) {
	idx, cols := resolveColumns(raw.Columns)

	for _, required := range []string{model.ColDate, model.ColBranch} {
		if !cols.Has(required) {
			return nil, nil, fmt.Errorf("%w: missing required column %q (accepted names: %s)",
				source.ErrDataUnavailable, required, strings.Join(columnAliases[required], ", "))
		}
	}

	summary := &model.CleanSummary{
		RowsIn:        len(raw.Rows),
		ProfitFormula: opts.ProfitFormula,
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]model.Record, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		date, ok := ParseDate(cell(row, model.ColDate))
		if !ok {
			summary.DroppedBadDate++
			continue
		}

		r := model.Record{
			Branch:      cell(row, model.ColBranch),
			Date:        date,
			Year:        date.Year(),
			YearMonth:   date.Format("2006-01"),
			DocNo:       cell(row, model.ColDocNo),
			Description: cell(row, model.ColDescription),
			Payer:       cell(row, model.ColPayer),
			Hospital:    cell(row, model.ColHospital),
		}

		r.LineTotal, _ = ParseNumber(cell(row, model.ColLineTotal))
		r.AvgCost, _ = ParseNumber(cell(row, model.ColAvgCost))
		if cols.Has(model.ColQuantity) {
			r.Quantity, _ = ParseNumber(cell(row, model.ColQuantity))
		} else {
			r.Quantity = 1
		}

		age, ageOK := ParseNumber(cell(row, model.ColAge))
		r.Age = age
		r.AgeGroup = AgeGroup(age, ageOK)
		r.Gender = MapGender(cell(row, model.ColGender))
		r.DiseaseGroup = MapDisease(cell(row, model.ColDiseaseGroup))
		r.PaymentMethod = cell(row, model.ColPaymentMethod)
		r.Profit = Profit(opts.ProfitFormula, r.LineTotal, r.AvgCost, r.Quantity)

		records = append(records, r)
	}

	if summary.DroppedBadDate > 0 {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("dropped %d row(s) with missing or unparseable dates", summary.DroppedBadDate))
	}

	key := selectDedupKey(cols)
	summary.DedupKey = key
	switch {
	case key != nil && opts.StrictDedup:
		var dropped int
		records, dropped = dedupByKey(records, key)
		summary.DuplicatesDropped = dropped
		if dropped > 0 {
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("removed %d duplicate row(s) using key %s", dropped, strings.Join(key, "+")))
		}
	case key != nil:
		seen := make(map[string]bool, len(records))
		found := 0
		for i := range records {
			k := keyValue(&records[i], key)
			if seen[k] {
				found++
			}
			seen[k] = true
		}
		if found > 0 {
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("found %d duplicate row(s) on key %s (strict de-dup off, rows kept)",
					found, strings.Join(key, "+")))
		}
	default:
		summary.ExactDuplicates = countExactDuplicates(records)
		if summary.ExactDuplicates > 0 {
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("found %d exact duplicate row(s); no composite key available, rows kept",
					summary.ExactDuplicates))
		}
	}

	summary.RowsOut = len(records)
	return &model.Dataset{Records: records, Columns: cols}, summary, nil
}

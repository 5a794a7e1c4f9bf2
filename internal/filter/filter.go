package filter

import (
	"time"

	"github.com/warin/clinicstats/internal/model"
)

// Range is an inclusive date interval. Zero Start or End leaves that side open.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// Apply restricts the dataset to the date range and branch set. An empty or
// nil branch list selects all branches. A zero-row result is a valid outcome;
// callers render an empty-state message and skip the views.
func Apply(ds *model.Dataset, r Range, branches []string) *model.Dataset {
	selected := make(map[string]bool, len(branches))
	for _, b := range branches {
		selected[b] = true
	}

	out := &model.Dataset{Columns: ds.Columns}
	for i := range ds.Records {
		rec := &ds.Records[i]
		if !r.Contains(rec.Date) {
			continue
		}
		if len(selected) > 0 && !selected[rec.Branch] {
			continue
		}
		out.Records = append(out.Records, *rec)
	}
	return out
}

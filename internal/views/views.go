package views

import (
	"fmt"
	"strings"

	"github.com/warin/clinicstats/internal/config"
	"github.com/warin/clinicstats/internal/model"
)

// Params carries the user-adjustable knobs shared by the view recipes.
type Params struct {
	TopN          int    // clamped to [config.TopNMin, config.TopNMax]
	HeatmapMetric string // config.MetricCases or config.MetricRevenue
}

// MissingColumnsError marks a view whose required columns are absent from the
// source. It is local and non-fatal: the view is skipped with a placeholder
// while the rest of the run continues.
type MissingColumnsError struct {
	View    string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("view %s: missing column(s) %s", e.View, strings.Join(e.Columns, ", "))
}

// View is one independent aggregation recipe over the filtered dataset.
type View struct {
	Name     string
	Title    string
	Requires []string
	Build    func(ds *model.Dataset, p Params) *model.ResultTable
}

// Run checks column requirements and builds the view's result table.
func Run(v View, ds *model.Dataset, p Params) (*model.ResultTable, error) {
	if missing := ds.Columns.Missing(v.Requires...); len(missing) > 0 {
		return nil, &MissingColumnsError{View: v.Name, Columns: missing}
	}
	t := v.Build(ds, p)
	t.Name = v.Name
	t.Title = v.Title
	return t, nil
}

// ByName returns the catalog view with the given name.
func ByName(name string) (View, bool) {
	for _, v := range Catalog {
		if v.Name == name {
			return v, true
		}
	}
	return View{}, false
}

// Rendered pairs a view with either its result or the reason it was skipped.
type Rendered struct {
	View    View
	Table   *model.ResultTable
	Skipped *MissingColumnsError
}

// RunAll builds every catalog view, collecting skipped views instead of failing.
func RunAll(ds *model.Dataset, p Params) []Rendered {
	out := make([]Rendered, 0, len(Catalog))
	for _, v := range Catalog {
		t, err := Run(v, ds, p)
		if err != nil {
			var miss *MissingColumnsError
			if m, ok := err.(*MissingColumnsError); ok {
				miss = m
			} else {
				miss = &MissingColumnsError{View: v.Name}
			}
			out = append(out, Rendered{View: v, Skipped: miss})
			continue
		}
		out = append(out, Rendered{View: v, Table: t})
	}
	return out
}

// clampTopN bounds n to the slider range and the available row count.
func clampTopN(n, available int) int {
	if n == 0 {
		n = config.TopNDefault
	}
	if n < config.TopNMin {
		n = config.TopNMin
	}
	if n > config.TopNMax {
		n = config.TopNMax
	}
	if n > available {
		n = available
	}
	return n
}

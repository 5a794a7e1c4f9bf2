package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/warin/clinicstats/internal/config"
	"github.com/warin/clinicstats/internal/filter"
	"github.com/warin/clinicstats/internal/views"
)

// query holds one request's filter and view controls, with config defaults
// filled in for anything the request omits.
type query struct {
	Start         string
	End           string
	Branches      []string
	ProfitFormula string
	StrictDedup   bool
	TopN          int
	HeatmapMetric string
}

func (s *Server) parseQuery(r *http.Request) query {
	q := query{
		ProfitFormula: s.cfg.ProfitFormula,
		StrictDedup:   s.cfg.StrictDedup,
		TopN:          s.cfg.TopN,
		HeatmapMetric: s.cfg.HeatmapMetric,
	}
	v := r.URL.Query()

	if d := v.Get("start"); d != "" {
		q.Start = d
	}
	if d := v.Get("end"); d != "" {
		q.End = d
	}
	if b := v.Get("branches"); b != "" {
		for _, name := range strings.Split(b, ",") {
			if name = strings.TrimSpace(name); name != "" {
				q.Branches = append(q.Branches, name)
			}
		}
	}
	switch f := v.Get("formula"); f {
	case config.ProfitPerUnit, config.ProfitCurrent, config.ProfitFixed40:
		q.ProfitFormula = f
	}
	if n, err := strconv.Atoi(v.Get("topn")); err == nil {
		q.TopN = n
	}
	// The form pairs a hidden strict=0 with the checkbox's strict=1, so an
	// unchecked box still submits the param. Any truthy value wins.
	if vs, ok := v["strict"]; ok && len(vs) > 0 {
		q.StrictDedup = false
		for _, st := range vs {
			if st == "1" || st == "true" || st == "on" {
				q.StrictDedup = true
			}
		}
	}
	switch m := v.Get("metric"); m {
	case config.MetricCases, config.MetricRevenue:
		q.HeatmapMetric = m
	}
	return q
}

// dateRange converts the query's date strings into a filter range.
// Malformed values leave that side open.
func (q query) dateRange() filter.Range {
	var r filter.Range
	if t, err := time.Parse("2006-01-02", q.Start); err == nil {
		r.Start = t
	}
	if t, err := time.Parse("2006-01-02", q.End); err == nil {
		r.End = t
	}
	return r
}

func (q query) viewParams() views.Params {
	return views.Params{TopN: q.TopN, HeatmapMetric: q.HeatmapMetric}
}

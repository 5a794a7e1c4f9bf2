package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/warin/clinicstats/internal/model"
	"github.com/warin/clinicstats/internal/strategy"
	"github.com/warin/clinicstats/internal/views"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html").
	Funcs(template.FuncMap{
		"pct": func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
	}).
	ParseFS(templateFS, "templates/dashboard.html"))

// section is one dashboard block: a rendered table or a skip placeholder.
type section struct {
	Title       string
	Table       *model.ResultTable
	Placeholder string
}

type dashboardData struct {
	Query           query
	Branches        []string
	BranchSelected  map[string]bool
	Summary         *model.CleanSummary
	Empty           bool
	Sections        []section
	Strategy        []model.MonthlyBranchStat
	StrategySkipped string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := s.parseQuery(r)
	cleaned, filtered, summary, err := s.runPipeline(r, q)
	if err != nil {
		s.dataError(w, err)
		return
	}

	data := dashboardData{
		Query:          q,
		Branches:       cleaned.Branches(),
		BranchSelected: make(map[string]bool),
		Summary:        summary,
		Empty:          filtered.Empty(),
	}
	for _, b := range q.Branches {
		data.BranchSelected[b] = true
	}

	if !data.Empty {
		for _, rendered := range views.RunAll(filtered, q.viewParams()) {
			sec := section{Title: rendered.View.Title}
			if rendered.Skipped != nil {
				sec.Placeholder = rendered.Skipped.Error()
			} else {
				sec.Table = rendered.Table
			}
			data.Sections = append(data.Sections, sec)
		}

		if missing := filtered.Columns.Missing(model.ColBranch, model.ColLineTotal); len(missing) > 0 {
			data.StrategySkipped = "missing column(s) for strategy table"
		} else {
			data.Strategy = strategy.BuildMonthlyStats(filtered)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, data); err != nil {
		s.log.Error().Err(err).Msg("render dashboard")
	}
}

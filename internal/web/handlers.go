package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/warin/clinicstats/internal/clean"
	"github.com/warin/clinicstats/internal/filter"
	"github.com/warin/clinicstats/internal/model"
	"github.com/warin/clinicstats/internal/source"
	"github.com/warin/clinicstats/internal/strategy"
	"github.com/warin/clinicstats/internal/views"
)

// runPipeline executes load → clean → filter for one request. The returned
// cleaned dataset (pre-filter) is used for the branch selector; the filtered
// dataset feeds the views.
func (s *Server) runPipeline(r *http.Request, q query) (cleaned, filtered *model.Dataset, summary *model.CleanSummary, err error) {
	raw, err := s.cache.Load(r.Context(), s.cfg.Source)
	if err != nil {
		return nil, nil, nil, err
	}

	cleaned, summary, err = clean.Clean(raw, clean.Options{
		StrictDedup:   q.StrictDedup,
		ProfitFormula: q.ProfitFormula,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	filtered = filter.Apply(cleaned, q.dateRange(), q.Branches)
	return cleaned, filtered, summary, nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	q := s.parseQuery(r)
	_, filtered, summary, err := s.runPipeline(r, q)
	if err != nil {
		s.dataError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"rows_in":            summary.RowsIn,
		"rows_out":           summary.RowsOut,
		"rows_filtered":      len(filtered.Records),
		"dropped_bad_date":   summary.DroppedBadDate,
		"dedup_key":          summary.DedupKey,
		"duplicates_dropped": summary.DuplicatesDropped,
		"profit_formula":     summary.ProfitFormula,
		"warnings":           summary.Warnings,
		"empty":              filtered.Empty(),
	})
}

func (s *Server) handleBranches(w http.ResponseWriter, r *http.Request) {
	q := s.parseQuery(r)
	cleaned, _, _, err := s.runPipeline(r, q)
	if err != nil {
		s.dataError(w, err)
		return
	}
	writeJSON(w, map[string]any{"branches": cleaned.Branches()})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	v, ok := views.ByName(name)
	if !ok {
		http.Error(w, "unknown view: "+name, http.StatusNotFound)
		return
	}

	q := s.parseQuery(r)
	_, filtered, _, err := s.runPipeline(r, q)
	if err != nil {
		s.dataError(w, err)
		return
	}
	if filtered.Empty() {
		writeJSON(w, map[string]any{"view": name, "empty": true})
		return
	}

	table, err := views.Run(v, filtered, q.viewParams())
	if err != nil {
		var miss *views.MissingColumnsError
		if errors.As(err, &miss) {
			writeJSON(w, map[string]any{"view": name, "skipped": miss.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, table)
}

func (s *Server) handleStrategy(w http.ResponseWriter, r *http.Request) {
	q := s.parseQuery(r)
	_, filtered, _, err := s.runPipeline(r, q)
	if err != nil {
		s.dataError(w, err)
		return
	}
	if filtered.Empty() {
		writeJSON(w, map[string]any{"empty": true})
		return
	}
	if missing := filtered.Columns.Missing(model.ColBranch, model.ColLineTotal); len(missing) > 0 {
		writeJSON(w, map[string]any{"skipped": "missing column(s): " + missing[0]})
		return
	}
	writeJSON(w, strategy.BuildMonthlyStats(filtered))
}

// dataError maps a fatal load/clean failure onto the HTTP surface: the
// message is shown and nothing further renders.
func (s *Server) dataError(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("pipeline failed")
	status := http.StatusInternalServerError
	if errors.Is(err, source.ErrDataUnavailable) {
		status = http.StatusServiceUnavailable
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

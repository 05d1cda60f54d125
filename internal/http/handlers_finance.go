package http

import (
	"net/http"

	"condo/internal/access"
	"condo/internal/core"
	"condo/internal/reports"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id, err := s.requirePage(core.PageDashboard)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, access.BuildDashboard(s.store.Snapshot(), id, s.store.Now()))
}

func (s *Server) handleFinanceSummary(w http.ResponseWriter, r *http.Request) {
	id, err := s.identity()
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, allowed := access.FinanceSummary(s.store.Snapshot(), id.Role)
	if !allowed {
		writeError(w, r, errForbidden)
		return
	}
	ok(w, summary)
}

// handleReport returns one report as JSON, computed from the current state.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(access.CanSeeFinanceTotals); err != nil {
		writeError(w, r, err)
		return
	}
	kind, err := reports.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap := s.store.Snapshot()
	switch kind {
	case reports.KindOwnerStatement:
		ok(w, reports.OwnerStatement(snap))
	case reports.KindIncomeExpenses:
		ok(w, reports.IncomeVsExpenses(snap))
	case reports.KindDelinquency:
		ok(w, reports.Delinquency(snap))
	}
}

// handleExportReports writes the requested reports, all of them when none
// are named, to the configured spreadsheet.
func (s *Server) handleExportReports(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(access.CanSeeFinanceTotals); err != nil {
		writeError(w, r, err)
		return
	}
	if s.exporter == nil {
		writeError(w, r, errUnavailable)
		return
	}
	var req exportRequest
	if r.ContentLength != 0 {
		if err := decodeAndValidate(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	kinds := make([]reports.Kind, 0, len(req.Reports))
	for _, name := range req.Reports {
		k, err := reports.ParseKind(name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		kinds = append(kinds, k)
	}

	refs, err := s.exporter.Export(r.Context(), s.store.Snapshot(), kinds...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make(map[string]string, len(refs))
	for k, ref := range refs {
		out[string(k)] = ref
	}
	ok(w, map[string]map[string]string{"exported": out})
}

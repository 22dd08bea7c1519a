package api

import (
	"net/http"
	"time"

	"github.com/legacyprime/foreman/internal/catalog"
)

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	specs := catalog.ToolSpecs()
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]any{
		"tools": specs,
		"count": len(specs),
	}, s.logger)
}

// handleUsage reports model spend over the last ?hours (default 24).
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	if s.usage == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "usage ledger not configured")
		return
	}

	hours := parseIntParam(r, "hours", 24)
	end := time.Now()
	start := end.Add(-time.Duration(hours) * time.Hour)

	total, err := s.usage.Summary(r.Context(), start, end)
	if err != nil {
		s.logger.Error("usage summary failed", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "usage summary failed")
		return
	}
	byModel, err := s.usage.SummaryByModel(r.Context(), start, end)
	if err != nil {
		s.logger.Error("usage by model failed", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "usage summary failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]any{
		"hours":    hours,
		"start":    start.UTC().Format(time.RFC3339),
		"end":      end.UTC().Format(time.RFC3339),
		"total":    total,
		"by_model": byModel,
	}, s.logger)
}

func (s *Server) handleToolCalls(w http.ResponseWriter, r *http.Request) {
	if s.calls == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "tool call ledger not configured")
		return
	}

	limit := min(parseIntParam(r, "limit", 50), 500)
	calls, err := s.calls.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("tool call query failed", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "tool call query failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]any{
		"tool_calls": calls,
		"count":      len(calls),
	}, s.logger)
}

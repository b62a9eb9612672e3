package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/InstaDash/internal/core"
)

// handleHealth reports whether the store answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := s.service.ListBatches(r.Context(), userID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

// handleDeleteBatch removes every sale a batch inserted or last updated.
func (s *Server) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	ctx := WithRequestMetadata(r.Context(), r)

	n, err := s.service.DeleteBatch(ctx, userID(r), batchID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"batchId":     batchID,
		"rowsDeleted": n,
	})
}

// handleStats returns the dashboard summary. ?ad_spend= overrides the
// configured ad spend source for this request.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var override *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("ad_spend")); raw != "" {
		cents := core.ParseCents(raw)
		if cents < 0 || (cents == 0 && strings.Trim(raw, "0.,R$ ") != "") {
			s.respondError(w, r, fmt.Errorf("invalid number %q: %w", raw, errBadRequest))
			return
		}
		override = &cents
	}

	report, err := s.service.Stats(r.Context(), userID(r), window, override)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	rows, err := s.service.Products(r.Context(), userID(r), window, r.URL.Query().Get("search"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

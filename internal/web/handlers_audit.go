package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/InstaDash/internal/core"
	"github.com/JonMunkholm/InstaDash/internal/logging"
)

// handleAuditLog returns the caller's most recent audit entries.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", core.DefaultAuditLimit)

	entries, err := s.service.AuditLog(r.Context(), userID(r), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleAuditExport writes the caller's audit entries as a CSV download.
func (s *Server) handleAuditExport(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 1000)

	entries, err := s.service.AuditLog(r.Context(), userID(r), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("audit_log_%s.csv", s.service.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"ID", "Timestamp", "Action", "Severity", "Batch ID",
		"File Name", "Rows Affected", "IP Address", "Reason",
	}); err != nil {
		return
	}
	for _, e := range entries {
		if err := cw.Write([]string{
			e.ID,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			string(e.Action),
			string(e.Severity),
			e.BatchID,
			e.FileName,
			strconv.Itoa(e.RowsAffected),
			e.IPAddress,
			e.Reason,
		}); err != nil {
			break
		}
	}
	cw.Flush()

	// Headers are already sent, so a write failure can only be logged.
	if err := cw.Error(); err != nil {
		logging.FromContext(r.Context()).Warn("audit export write failed", "error", err)
	}
}

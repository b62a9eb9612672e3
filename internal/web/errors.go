package web

// errors.go provides unified error response handling for the web layer.
//
// Every handler failure goes through respondError, which:
//  1. picks the HTTP status from the error's type (statusFor)
//  2. maps the error to a user message and support code via core.MapError
//  3. logs the technical error with the request id
//  4. writes JSON, or an HTML fragment for HTMX requests

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/InstaDash/internal/core"
	"github.com/JonMunkholm/InstaDash/internal/web/templates"
)

// ErrorResponse is the JSON body of every API error. Kind and
// DetectedHeaders are set only for whole-upload failures.
type ErrorResponse struct {
	Error           string   `json:"error"`
	Message         string   `json:"message"`
	Action          string   `json:"action,omitempty"`
	Code            string   `json:"code"`
	Kind            string   `json:"kind,omitempty"`
	DetectedHeaders []string `json:"detectedHeaders,omitempty"`
	Persisted       int      `json:"persisted,omitempty"`
}

// errBadRequest marks request problems found by the handlers themselves,
// such as an unparseable date or amount. The wrapping message carries the
// detail MapError matches on.
var errBadRequest = errors.New("bad request")

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var ue *core.UploadError
	if errors.As(err, &ue) {
		switch ue.Kind {
		case core.FailureEmptyBatch:
			return http.StatusUnprocessableEntity
		case core.FailurePersistence:
			return http.StatusServiceUnavailable
		default:
			if errors.Is(err, core.ErrFileTooLarge) {
				return http.StatusRequestEntityTooLarge
			}
			return http.StatusBadRequest
		}
	}

	switch {
	case errors.Is(err, core.ErrMissingUser):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidInput),
		errors.Is(err, core.ErrInvalidWindow),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyUploads):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the user-facing error response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	resp := ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	}
	var ue *core.UploadError
	if errors.As(err, &ue) {
		resp.Kind = string(ue.Kind)
		resp.DetectedHeaders = ue.DetectedHeaders
		resp.Persisted = ue.Persisted
	}

	if isHTMX(r) {
		renderErrorPartial(w, r, resp, status)
		return
	}
	writeJSON(w, status, resp)
}

// renderErrorPartial renders an HTMX-compatible error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, resp ErrorResponse, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	err := templates.UploadFailure(resp.Message, resp.Action, resp.Code, resp.DetectedHeaders).Render(r.Context(), w)
	if err != nil {
		slog.Error("render error partial", "error", err)
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

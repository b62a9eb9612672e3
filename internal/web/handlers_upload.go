package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/JonMunkholm/InstaDash/internal/core"
	"github.com/JonMunkholm/InstaDash/internal/logging"
	"github.com/JonMunkholm/InstaDash/internal/web/templates"
)

// multipartOverhead is allowed on top of the file size for form fields and
// part headers.
const multipartOverhead = 1 << 20

// multipartMemory is how much of a form is held in memory before spilling
// to temp files.
const multipartMemory = 8 << 20

// readUploadForm parses the multipart form and opens the "file" part.
func (s *Server) readUploadForm(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, fmt.Errorf("upload rejected: %w", core.ErrFileTooLarge)
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, fmt.Errorf("no file provided: %w", errBadRequest)
		}
		return nil, nil, fmt.Errorf("invalid upload form: %v: %w", err, errBadRequest)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("no file provided: %w", errBadRequest)
	}
	return file, header, nil
}

func (s *Server) importRequest(r *http.Request, header *multipart.FileHeader, file io.Reader) core.ImportRequest {
	return core.ImportRequest{
		UserID:   userID(r),
		FileName: header.Filename,
		Reader:   file,
		Encoding: r.FormValue("encoding"),
	}
}

// handleUpload imports one sales export. The file is streamed into the
// pipeline; nothing is buffered here beyond what multipart parsing spills.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.readUploadForm(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.Import(ctx, s.importRequest(r, header, file))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(ctx).Debug("upload response",
		"batch_id", result.BatchID,
		"imported", result.ImportedCount,
	)

	if isHTMX(r) {
		rejected := make(map[string]int, len(result.Rejected.ByReason))
		for reason, n := range result.Rejected.ByReason {
			rejected[string(reason)] = n
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		templates.UploadResult(templates.UploadSummary{
			FileName:         header.Filename,
			BatchID:          result.BatchID,
			ImportedCount:    result.ImportedCount,
			TotalRows:        result.TotalRows,
			Rejected:         rejected,
			DuplicatesInFile: result.DuplicatesInFile,
			DateFallbacks:    result.DateFallbacks,
			Encoding:         string(result.Encoding),
		}).Render(ctx, w)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handlePreview shows what an upload would do without writing anything.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.readUploadForm(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	result, err := s.service.Preview(r.Context(), s.importRequest(r, header, file))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleUploadQueueStatus returns the current state of the upload limiter.
func (s *Server) handleUploadQueueStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.UploadLimiterStatus())
}

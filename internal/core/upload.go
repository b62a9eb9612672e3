package core

// upload.go drives one import end to end:
//
//	decode -> tokenize -> normalize each row -> validate -> upsert in chunks
//
// Rows are upserted by (user, order id), so a retried or repeated upload
// converges on the same state. There is no cross-chunk transaction: when a
// later chunk fails, or the caller cancels, earlier chunks stay written.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonMunkholm/InstaDash/internal/logging"
)

// FailureKind classifies a failed upload.
type FailureKind string

const (
	// FailureEmptyBatch means the file parsed but no row was usable.
	FailureEmptyBatch FailureKind = "EmptyBatch"
	// FailureParse means the file could not be decoded or tokenized.
	FailureParse FailureKind = "ParseFailure"
	// FailurePersistence means the store rejected the write.
	FailurePersistence FailureKind = "PersistenceFailure"
)

// ErrMissingUser is returned when an operation has no user to act for.
var ErrMissingUser = errors.New("missing user id")

// UploadError is returned by Import and Preview for whole-upload failures.
type UploadError struct {
	Kind            FailureKind
	Message         string
	DetectedHeaders []string
	// Persisted counts rows written before a persistence failure.
	Persisted int
	Err       error
}

func (e *UploadError) Error() string {
	if e.Err != nil && e.Message != e.Err.Error() {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func parseFailure(err error) *UploadError {
	return &UploadError{Kind: FailureParse, Message: err.Error(), Err: err}
}

// ImportRequest describes one uploaded file.
type ImportRequest struct {
	UserID   string
	FileName string
	Reader   io.Reader
	// Encoding overrides the configured decode strategy when non-blank.
	Encoding string
}

// ImportResult reports a successful import.
type ImportResult struct {
	BatchID          string            `json:"batchId"`
	ImportedCount    int               `json:"importedCount"`
	TotalRows        int               `json:"totalRows"`
	Rejected         RejectionSummary  `json:"rejected"`
	RejectedRows     []RejectedRow     `json:"rejectedRows,omitempty"`
	DuplicatesInFile int               `json:"duplicatesInFile"`
	DateFallbacks    int               `json:"dateFallbacks"`
	DetectedHeaders  []string          `json:"detectedHeaders"`
	Columns          map[string]string `json:"columns"`
	Encoding         Encoding          `json:"encoding"`
	Duration         time.Duration     `json:"-"`
}

// parsedUpload is the decoded and normalized content of one file.
type parsedUpload struct {
	headers       []string
	cols          ColumnMap
	encoding      Encoding
	totalRows     int
	candidates    []Candidate
	rejections    RejectionSummary
	rejected      []RejectedRow
	dateFallbacks int
}

// parseUpload decodes the file and normalizes every data row. Failures are
// always *UploadError of kind ParseFailure.
func (s *Service) parseUpload(ctx context.Context, req ImportRequest) (*parsedUpload, error) {
	encName := req.Encoding
	if strings.TrimSpace(encName) == "" {
		encName = string(s.defaultEncoding)
	}
	enc, err := ParseEncoding(encName)
	if err != nil {
		return nil, parseFailure(err)
	}
	if req.Reader == nil {
		return nil, parseFailure(errors.New("no file provided"))
	}

	limited := NewSizeLimitReader(req.Reader, s.uploadCfg.MaxFileSize)

	var (
		src     recordSource
		applied = enc
	)
	switch DetectFileKind(req.FileName) {
	case FileKindXLSX:
		src, err = newXLSXSource(limited)
	default:
		var text io.Reader
		text, applied, err = DecodeReader(limited, enc)
		if err == nil {
			src, err = newCSVSource(text)
		}
	}
	if err != nil {
		return nil, parseFailure(err)
	}

	p := &parsedUpload{encoding: applied}
	now := s.now()

	for {
		if err := ctx.Err(); err != nil {
			return nil, parseFailure(fmt.Errorf("upload cancelled: %w", err))
		}

		rec, line, err := src.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseFailure(err)
		}
		if isBlankRecord(rec) {
			continue
		}

		if p.headers == nil {
			p.headers = trimHeaders(rec)
			p.cols = NewColumnMap(p.headers, defaultFieldSpecs)
			continue
		}

		p.totalRows++
		cand, ok := NormalizeRow(RawRow{Headers: p.headers, Values: rec}, p.cols, now)
		if !ok {
			p.rejections.addStructural()
			p.rejected = append(p.rejected, RejectedRow{Line: line, Reason: ReasonMissingOrderID})
			continue
		}
		cand.Line = line
		if cand.DateFallback {
			p.dateFallbacks++
		}
		p.candidates = append(p.candidates, cand)
	}

	if p.headers == nil {
		return nil, parseFailure(errors.New("empty file: missing header row"))
	}
	return p, nil
}

func trimHeaders(rec []string) []string {
	out := make([]string, len(rec))
	for i, h := range rec {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// validate runs the batch validator and folds in the structural rejections
// counted while parsing.
func (p *parsedUpload) validate(stamp BatchStamp) (ValidatedBatch, error) {
	vb, err := ValidateBatch(p.candidates, stamp)

	merged := RejectionSummary{Structural: p.rejections.Structural}
	for reason, n := range p.rejections.ByReason {
		for i := 0; i < n; i++ {
			merged.add(reason)
		}
	}
	for reason, n := range vb.Rejections.ByReason {
		for i := 0; i < n; i++ {
			merged.add(reason)
		}
	}
	vb.Rejections = merged
	vb.Rejected = append(append([]RejectedRow(nil), p.rejected...), vb.Rejected...)
	return vb, err
}

// Import parses, validates and persists one sales export.
//
// On failure the error is an *UploadError (EmptyBatch, ParseFailure or
// PersistenceFailure), ErrTooManyUploads, or ErrMissingUser.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, ErrMissingUser
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.uploadCfg.Timeout)
	defer cancel()

	start := time.Now()
	stamp := NewBatchStamp(req.UserID, s.now())
	log := logging.WithFields(ctx,
		"batch_id", stamp.ID,
		"user_id", req.UserID,
		"file", req.FileName,
	)
	log.Info("upload started")

	parsed, err := s.parseUpload(ctx, req)
	if err != nil {
		log.Warn("upload parse failed", "error", err)
		return nil, err
	}

	vb, err := parsed.validate(stamp)
	if err != nil {
		log.Warn("upload produced no valid sales",
			"rows", parsed.totalRows,
			"rejected", vb.Rejections.Total(),
			"headers", parsed.headers,
		)
		return nil, &UploadError{
			Kind:            FailureEmptyBatch,
			Message:         ErrEmptyBatch.Error(),
			DetectedHeaders: parsed.headers,
			Err:             ErrEmptyBatch,
		}
	}

	written, err := s.persist(ctx, vb.Sales)
	if err != nil {
		if ctx.Err() != nil {
			log.Warn("upload cancelled; rows already upserted remain", "persisted", written, "error", err)
		} else {
			log.Error("upload persistence failed", "persisted", written, "error", err)
		}
		return nil, &UploadError{
			Kind:            FailurePersistence,
			Message:         fmt.Sprintf("stored %d of %d rows before failure", written, len(vb.Sales)),
			DetectedHeaders: parsed.headers,
			Persisted:       written,
			Err:             err,
		}
	}

	result := &ImportResult{
		BatchID:          stamp.ID,
		ImportedCount:    len(vb.Sales),
		TotalRows:        parsed.totalRows,
		Rejected:         vb.Rejections,
		RejectedRows:     vb.Rejected,
		DuplicatesInFile: vb.DuplicatesInFile,
		DateFallbacks:    parsed.dateFallbacks,
		DetectedHeaders:  parsed.headers,
		Columns:          parsed.cols.Mapping(),
		Encoding:         parsed.encoding,
		Duration:         time.Since(start),
	}

	s.LogAudit(ctx, AuditLogParams{
		Action:       ActionUpload,
		UserID:       req.UserID,
		BatchID:      stamp.ID,
		FileName:     req.FileName,
		RowsAffected: result.ImportedCount,
	})

	log.Info("upload completed",
		"imported", result.ImportedCount,
		"rows", result.TotalRows,
		"rejected", result.Rejected.Total(),
		"duplicates", result.DuplicatesInFile,
		"encoding", result.Encoding,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// persist upserts sales in chunks of the configured batch size and returns
// how many rows were written before any error.
func (s *Service) persist(ctx context.Context, sales []Sale) (int, error) {
	size := s.uploadCfg.BatchSize
	if size <= 0 {
		size = len(sales)
	}

	written := 0
	for start := 0; start < len(sales); start += size {
		if err := ctx.Err(); err != nil {
			return written, fmt.Errorf("upload cancelled: %w", err)
		}
		end := min(start+size, len(sales))
		if _, err := s.store.UpsertSales(ctx, sales[start:end]); err != nil {
			return written, fmt.Errorf("upsert sales: %w", err)
		}
		written = end
	}
	return written, nil
}

package core

import (
	"context"
	"strings"
	"time"
)

// PreviewSummary contains the summary counts for upload preview.
type PreviewSummary struct {
	TotalRows       int `json:"totalRows"`
	ValidRows       int `json:"validRows"`
	NewRows         int `json:"newRows"`
	UpdateRows      int `json:"updateRows"`
	RejectedRows    int `json:"rejectedRows"`
	DuplicateInFile int `json:"duplicateInFile"`
	DateFallbacks   int `json:"dateFallbacks"`
}

// PreviewResult is a read-only analysis of what Import would do.
type PreviewResult struct {
	Summary          PreviewSummary    `json:"summary"`
	DetectedHeaders  []string          `json:"detectedHeaders"`
	Columns          map[string]string `json:"columns"`
	MissingFields    []string          `json:"missingFields"`
	Encoding         Encoding          `json:"encoding"`
	Rejected         RejectionSummary  `json:"rejected"`
	RejectedRows     []RejectedRow     `json:"rejectedRows,omitempty"`
	Sample           []Sale            `json:"sample"`
	RevenueCents     int64             `json:"revenueCents"`
	ProcessingTimeMs int64             `json:"processingTimeMs"`
}

const maxRejectedSamples = 50

// Preview analyzes an upload without writing anything. Unlike Import, a file
// with no valid rows is not an error here; the summary shows zero valid rows.
func (s *Service) Preview(ctx context.Context, req ImportRequest) (*PreviewResult, error) {
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
	parsed, err := s.parseUpload(ctx, req)
	if err != nil {
		return nil, err
	}

	stamp := BatchStamp{ID: "preview", UserID: req.UserID, UploadedAt: s.now()}
	vb, _ := parsed.validate(stamp)

	res := &PreviewResult{
		DetectedHeaders: parsed.headers,
		Columns:         parsed.cols.Mapping(),
		MissingFields:   missingFields(parsed.cols),
		Encoding:        parsed.encoding,
		Rejected:        vb.Rejections,
		RejectedRows:    vb.Rejected,
		Summary: PreviewSummary{
			TotalRows:       parsed.totalRows,
			ValidRows:       len(vb.Sales),
			RejectedRows:    vb.Rejections.Total(),
			DuplicateInFile: vb.DuplicatesInFile,
			DateFallbacks:   parsed.dateFallbacks,
		},
	}
	if len(res.RejectedRows) > maxRejectedSamples {
		res.RejectedRows = res.RejectedRows[:maxRejectedSamples]
	}

	ids := make([]string, len(vb.Sales))
	for i, sale := range vb.Sales {
		ids[i] = sale.OrderID
		res.RevenueCents += sale.RevenueCents
	}
	existing, err := s.store.ExistingOrderIDs(ctx, req.UserID, ids)
	if err != nil {
		return nil, &UploadError{Kind: FailurePersistence, Message: "check existing orders", DetectedHeaders: parsed.headers, Err: err}
	}
	for _, id := range ids {
		if existing[id] {
			res.Summary.UpdateRows++
		} else {
			res.Summary.NewRows++
		}
	}

	n := min(s.uploadCfg.PreviewRows, len(vb.Sales))
	res.Sample = append([]Sale(nil), vb.Sales[:n]...)
	for i := range res.Sample {
		res.Sample[i].BatchID = ""
	}

	res.ProcessingTimeMs = time.Since(start).Milliseconds()
	return res, nil
}

// missingFields lists the fields no header matched, in alias-table order.
func missingFields(cols ColumnMap) []string {
	var out []string
	for _, spec := range defaultFieldSpecs {
		if cols.Index(spec.Field) < 0 {
			out = append(out, spec.Field.String())
		}
	}
	return out
}

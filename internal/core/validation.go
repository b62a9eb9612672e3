package core

// validation.go applies the minimum-viable-record rules to normalized rows.
//
// A row survives when it has an order id, positive revenue and a real product
// name. Dropped rows never fail the upload; they are counted per reason and
// listed with their line numbers so operators can see data-quality problems.

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyBatch is returned when no row of an upload survives validation.
var ErrEmptyBatch = errors.New("no valid sales found in file")

// RejectReason says why a row was dropped.
type RejectReason string

const (
	ReasonMissingOrderID     RejectReason = "missing_order_id"
	ReasonNonPositiveRevenue RejectReason = "non_positive_revenue"
	ReasonMissingProduct     RejectReason = "missing_product"
	ReasonPlaceholderProduct RejectReason = "placeholder_product"
)

// placeholderProducts are header-like values some exports repeat in data rows.
var placeholderProducts = []string{"Produto", "Product"}

// RejectedRow describes one dropped row.
type RejectedRow struct {
	Line    int          `json:"line"`
	OrderID string       `json:"orderId,omitempty"`
	Reason  RejectReason `json:"reason"`
}

// RejectionSummary counts dropped rows. Structural counts rows whose order id
// could not be resolved at all; ByReason counts every rejection by reason,
// structural ones included.
type RejectionSummary struct {
	Structural int                  `json:"structural"`
	ByReason   map[RejectReason]int `json:"byReason"`
}

func (s *RejectionSummary) add(reason RejectReason) {
	if s.ByReason == nil {
		s.ByReason = make(map[RejectReason]int)
	}
	s.ByReason[reason]++
}

func (s *RejectionSummary) addStructural() {
	s.Structural++
	s.add(ReasonMissingOrderID)
}

// Total returns the number of rejected rows.
func (s RejectionSummary) Total() int {
	n := 0
	for _, c := range s.ByReason {
		n += c
	}
	return n
}

// BatchStamp carries the values shared by every row of one upload.
type BatchStamp struct {
	ID         string
	UserID     string
	UploadedAt time.Time
}

// NewBatchStamp creates a stamp with a fresh batch id.
func NewBatchStamp(userID string, now time.Time) BatchStamp {
	return BatchStamp{
		ID:         NewBatchID(now),
		UserID:     userID,
		UploadedAt: now,
	}
}

// NewBatchID returns a timestamp-derived id with a random suffix so two
// uploads in the same millisecond do not collide.
func NewBatchID(now time.Time) string {
	return fmt.Sprintf("upload_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

// ValidatedBatch is the outcome of ValidateBatch.
type ValidatedBatch struct {
	BatchID          string
	Sales            []Sale
	Rejected         []RejectedRow
	Rejections       RejectionSummary
	DuplicatesInFile int
}

// CheckCandidate returns the first rule c breaks, or ok=true.
func CheckCandidate(c Candidate) (reason RejectReason, ok bool) {
	if strings.TrimSpace(c.OrderID) == "" {
		return ReasonMissingOrderID, false
	}
	if c.RevenueCents <= 0 {
		return ReasonNonPositiveRevenue, false
	}
	name := strings.TrimSpace(c.ProductName)
	if name == "" {
		return ReasonMissingProduct, false
	}
	for _, p := range placeholderProducts {
		if strings.EqualFold(name, p) {
			return ReasonPlaceholderProduct, false
		}
	}
	return "", true
}

// ValidateBatch filters cands and stamps the survivors. Survivor order follows
// input order. When an order id repeats inside the file the later row replaces
// the earlier one in place, which matches what sequential upserts would leave
// in the store.
//
// If nothing survives the returned batch still carries the rejection details
// and the error is ErrEmptyBatch.
func ValidateBatch(cands []Candidate, stamp BatchStamp) (ValidatedBatch, error) {
	vb := ValidatedBatch{BatchID: stamp.ID}
	seen := make(map[string]int, len(cands))

	for _, c := range cands {
		if reason, ok := CheckCandidate(c); !ok {
			vb.Rejections.add(reason)
			vb.Rejected = append(vb.Rejected, RejectedRow{
				Line:    c.Line,
				OrderID: c.OrderID,
				Reason:  reason,
			})
			continue
		}

		sale := Sale{
			UserID:       stamp.UserID,
			OrderID:      strings.TrimSpace(c.OrderID),
			SubID:        c.SubID,
			ProductName:  strings.TrimSpace(c.ProductName),
			RevenueCents: c.RevenueCents,
			Clicks:       c.Clicks,
			OrderDate:    c.OrderDate,
			Source:       ClassifySource(c.SubID),
			BatchID:      stamp.ID,
			UploadedAt:   stamp.UploadedAt,
		}

		if i, dup := seen[sale.OrderID]; dup {
			vb.Sales[i] = sale
			vb.DuplicatesInFile++
			continue
		}
		seen[sale.OrderID] = len(vb.Sales)
		vb.Sales = append(vb.Sales, sale)
	}

	if len(vb.Sales) == 0 {
		return vb, ErrEmptyBatch
	}
	return vb, nil
}

package core

import (
	"errors"
	"regexp"
	"testing"
	"time"
)

func cand(line int, orderID string, cents int64, product string) Candidate {
	return Candidate{
		Line:         line,
		OrderID:      orderID,
		RevenueCents: cents,
		ProductName:  product,
		OrderDate:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Source:       SourceOrganicVideo,
	}
}

func TestCheckCandidate(t *testing.T) {
	tests := []struct {
		name   string
		c      Candidate
		reason RejectReason
		ok     bool
	}{
		{"valid", cand(2, "A", 100, "Caneca"), "", true},
		{"blank order id", cand(2, " ", 100, "Caneca"), ReasonMissingOrderID, false},
		{"zero revenue", cand(2, "A", 0, "Caneca"), ReasonNonPositiveRevenue, false},
		{"negative revenue", cand(2, "A", -5, "Caneca"), ReasonNonPositiveRevenue, false},
		{"missing product", cand(2, "A", 100, "  "), ReasonMissingProduct, false},
		{"placeholder Produto", cand(2, "A", 100, "Produto"), ReasonPlaceholderProduct, false},
		{"placeholder is case-insensitive and trimmed", cand(2, "A", 100, " product "), ReasonPlaceholderProduct, false},
		{"placeholder only as whole value", cand(2, "A", 100, "Produto de limpeza"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := CheckCandidate(tt.c)
			if ok != tt.ok || reason != tt.reason {
				t.Errorf("CheckCandidate = (%q, %v), want (%q, %v)", reason, ok, tt.reason, tt.ok)
			}
		})
	}
}

func TestValidateBatch(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	stamp := BatchStamp{ID: "upload_test", UserID: "u1", UploadedAt: now}

	cands := []Candidate{
		cand(2, "A", 1000, "Caneca"),
		cand(3, "B", 0, "Caneca"),
		cand(4, "C", 500, "Produto"),
		cand(5, "D", 700, ""),
		cand(6, "E", 300, "Fone"),
	}

	vb, err := ValidateBatch(cands, stamp)
	if err != nil {
		t.Fatalf("ValidateBatch: %v", err)
	}

	if len(vb.Sales) != 2 || vb.Sales[0].OrderID != "A" || vb.Sales[1].OrderID != "E" {
		t.Fatalf("survivors = %+v, want A then E", vb.Sales)
	}
	for _, s := range vb.Sales {
		if s.BatchID != "upload_test" || s.UserID != "u1" || !s.UploadedAt.Equal(now) {
			t.Errorf("sale %s not stamped: %+v", s.OrderID, s)
		}
	}

	if got := vb.Rejections.Total(); got != 3 {
		t.Errorf("rejections = %d, want 3", got)
	}
	for reason, want := range map[RejectReason]int{
		ReasonNonPositiveRevenue: 1,
		ReasonPlaceholderProduct: 1,
		ReasonMissingProduct:     1,
	} {
		if got := vb.Rejections.ByReason[reason]; got != want {
			t.Errorf("ByReason[%s] = %d, want %d", reason, got, want)
		}
	}
	if len(vb.Rejected) != 3 || vb.Rejected[0].Line != 3 || vb.Rejected[0].OrderID != "B" {
		t.Errorf("rejected rows = %+v", vb.Rejected)
	}
}

func TestValidateBatch_Empty(t *testing.T) {
	stamp := BatchStamp{ID: "b", UserID: "u1", UploadedAt: time.Now()}

	vb, err := ValidateBatch([]Candidate{cand(2, "A", 0, "Caneca")}, stamp)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("err = %v, want ErrEmptyBatch", err)
	}
	if vb.Rejections.Total() != 1 {
		t.Errorf("rejection details should survive an empty batch: %+v", vb.Rejections)
	}

	if _, err := ValidateBatch(nil, stamp); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("nil input: err = %v, want ErrEmptyBatch", err)
	}
}

func TestValidateBatch_DuplicateOrderIDs(t *testing.T) {
	stamp := BatchStamp{ID: "b", UserID: "u1", UploadedAt: time.Now()}
	cands := []Candidate{
		cand(2, "A", 100, "Caneca"),
		cand(3, "B", 200, "Fone"),
		cand(4, "A", 999, "Caneca Grande"),
	}

	vb, err := ValidateBatch(cands, stamp)
	if err != nil {
		t.Fatal(err)
	}
	if len(vb.Sales) != 2 || vb.DuplicatesInFile != 1 {
		t.Fatalf("sales=%d duplicates=%d, want 2 and 1", len(vb.Sales), vb.DuplicatesInFile)
	}
	if vb.Sales[0].OrderID != "A" || vb.Sales[0].RevenueCents != 999 || vb.Sales[0].ProductName != "Caneca Grande" {
		t.Errorf("last occurrence should win at first position: %+v", vb.Sales[0])
	}
}

func TestValidateBatch_Deterministic(t *testing.T) {
	stamp := BatchStamp{ID: "b", UserID: "u1", UploadedAt: time.Now()}
	cands := []Candidate{cand(2, "X", 1, "a"), cand(3, "Y", 0, "b"), cand(4, "Z", 3, "c")}

	first, _ := ValidateBatch(cands, stamp)
	second, _ := ValidateBatch(cands, stamp)
	if len(first.Sales) != len(second.Sales) {
		t.Fatal("different survivor counts")
	}
	for i := range first.Sales {
		if first.Sales[i].OrderID != second.Sales[i].OrderID {
			t.Errorf("position %d differs: %s vs %s", i, first.Sales[i].OrderID, second.Sales[i].OrderID)
		}
	}
}

func TestNewBatchID(t *testing.T) {
	now := time.UnixMilli(1717000000123)
	id := NewBatchID(now)

	if !regexp.MustCompile(`^upload_1717000000123_[0-9a-f]{8}$`).MatchString(id) {
		t.Errorf("NewBatchID = %q", id)
	}
	if NewBatchID(now) == id {
		t.Error("two ids in the same millisecond collided")
	}
}

package core

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. It backs STORE_DRIVER=memory and the
// service tests, and mirrors the SQL store's keys and ordering.
type MemoryStore struct {
	mu sync.RWMutex

	// sales is keyed by user id, then order id.
	sales     map[string]map[string]Sale
	expenses  map[string]Expense
	sheets    map[string]CampaignSheet
	campExp   []CampaignExpense
	links     []TrackedLink
	audit     []AuditEntry
	failAfter int
	upserts   int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sales:     make(map[string]map[string]Sale),
		expenses:  make(map[string]Expense),
		sheets:    make(map[string]CampaignSheet),
		failAfter: -1,
	}
}

// failUpsertsAfter lets the next n UpsertSales calls succeed and fails every
// call after them. A negative n clears the fault. Tests only.
func (m *MemoryStore) failUpsertsAfter(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter = n
	m.upserts = 0
}

// errInjectedFailure is returned once failUpsertsAfter trips.
var errInjectedFailure = errors.New("connection refused")

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) UpsertSales(ctx context.Context, sales []Sale) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAfter >= 0 && m.upserts >= m.failAfter {
		return 0, errInjectedFailure
	}
	m.upserts++

	for _, s := range sales {
		byOrder, ok := m.sales[s.UserID]
		if !ok {
			byOrder = make(map[string]Sale)
			m.sales[s.UserID] = byOrder
		}
		if s.SubID != nil {
			s.SubID = strPtr(*s.SubID)
		}
		s.OrderDate = CalendarDate(s.OrderDate)
		byOrder[s.OrderID] = s
	}
	return int64(len(sales)), nil
}

func (m *MemoryStore) DeleteBatch(_ context.Context, userID, batchID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, s := range m.sales[userID] {
		if s.BatchID == batchID {
			delete(m.sales[userID], id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) QuerySales(_ context.Context, userID string, f SalesFilter) ([]Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []Sale
	for _, s := range m.sales[userID] {
		if !f.Contains(s.OrderDate) {
			continue
		}
		if f.SubID != nil && (s.SubID == nil || *s.SubID != *f.SubID) {
			continue
		}
		if search != "" && !saleMatches(s, search) {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.After(out[j].OrderDate)
		}
		return out[i].OrderID < out[j].OrderID
	})
	return out, nil
}

func saleMatches(s Sale, lowered string) bool {
	if strings.Contains(strings.ToLower(s.ProductName), lowered) ||
		strings.Contains(strings.ToLower(s.OrderID), lowered) {
		return true
	}
	return s.SubID != nil && strings.Contains(strings.ToLower(*s.SubID), lowered)
}

func (m *MemoryStore) ListBatches(_ context.Context, userID string) ([]UploadBatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := make(map[string]int)
	var out []UploadBatch
	for _, s := range m.sales[userID] {
		i, ok := idx[s.BatchID]
		if !ok {
			i = len(out)
			idx[s.BatchID] = i
			out = append(out, UploadBatch{BatchID: s.BatchID, UploadedAt: s.UploadedAt})
		}
		if s.UploadedAt.Before(out[i].UploadedAt) {
			out[i].UploadedAt = s.UploadedAt
		}
		out[i].Count++
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.After(out[j].UploadedAt)
		}
		return out[i].BatchID < out[j].BatchID
	})
	return out, nil
}

func (m *MemoryStore) ExistingOrderIDs(_ context.Context, userID string, orderIDs []string) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make(map[string]bool)
	for _, id := range orderIDs {
		if _, ok := m.sales[userID][id]; ok {
			found[id] = true
		}
	}
	return found, nil
}

func (m *MemoryStore) InsertExpense(_ context.Context, e Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.Date = CalendarDate(e.Date)
	m.expenses[e.ID] = e
	return nil
}

func (m *MemoryStore) ListExpenses(_ context.Context, userID string, r DateRange) ([]Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Expense
	for _, e := range m.expenses {
		if e.UserID == userID && r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) DeleteExpense(_ context.Context, userID, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.expenses[id]
	if !ok || e.UserID != userID {
		return 0, nil
	}
	delete(m.expenses, id)
	return 1, nil
}

func sheetKey(userID, subID string) string {
	return userID + "\x00" + subID
}

func (m *MemoryStore) UpsertCampaignSheet(_ context.Context, sheet CampaignSheet) (CampaignSheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := sheetKey(sheet.UserID, sheet.SubID)
	if existing, ok := m.sheets[key]; ok {
		existing.Title = sheet.Title
		m.sheets[key] = existing
		return existing, nil
	}
	m.sheets[key] = sheet
	return sheet, nil
}

func (m *MemoryStore) GetCampaignSheet(_ context.Context, userID, subID string) (CampaignSheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sheet, ok := m.sheets[sheetKey(userID, subID)]
	if !ok {
		return CampaignSheet{}, ErrNotFound
	}
	return sheet, nil
}

func (m *MemoryStore) ListCampaignSheets(_ context.Context, userID string) ([]CampaignSheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []CampaignSheet
	for _, s := range m.sheets {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].SubID < out[j].SubID
	})
	return out, nil
}

func (m *MemoryStore) InsertCampaignExpense(_ context.Context, e CampaignExpense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.Date = CalendarDate(e.Date)
	m.campExp = append(m.campExp, e)
	return nil
}

func (m *MemoryStore) ListCampaignExpenses(_ context.Context, sheetID string) ([]CampaignExpense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []CampaignExpense
	for _, e := range m.campExp {
		if e.SheetID == sheetID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) DeleteCampaignExpense(_ context.Context, sheetID, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.campExp {
		if e.ID == id && e.SheetID == sheetID {
			m.campExp = append(m.campExp[:i], m.campExp[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MemoryStore) InsertTrackedLink(_ context.Context, l TrackedLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, l)
	return nil
}

func (m *MemoryStore) ListTrackedLinks(_ context.Context, userID string) ([]TrackedLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []TrackedLink
	for i := len(m.links) - 1; i >= 0; i-- {
		if m.links[i].UserID == userID {
			out = append(out, m.links[i])
		}
	}
	return out, nil
}

func (m *MemoryStore) InsertAuditEntry(_ context.Context, e AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, e)
	return nil
}

func (m *MemoryStore) ListAuditEntries(_ context.Context, userID string, limit int) ([]AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []AuditEntry
	for i := len(m.audit) - 1; i >= 0 && len(out) < limit; i-- {
		if m.audit[i].UserID == userID {
			out = append(out, m.audit[i])
		}
	}
	return out, nil
}

func (m *MemoryStore) PurgeAuditEntries(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.audit[:0]
	var n int64
	for _, e := range m.audit {
		if e.CreatedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	m.audit = kept
	return n, nil
}

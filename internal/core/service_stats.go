package core

import (
	"context"
	"fmt"
	"strings"
)

// StatsReport is Stats plus the window it was computed over.
type StatsReport struct {
	Stats
	Window TimeWindow `json:"window"`
	// AdSpendCents is the external spend included in TotalExpenses.
	AdSpendCents int64 `json:"adSpendCents"`
}

// Stats computes the dashboard summary for a window. The window bounds sales
// only; manual expenses are summed over all time. adSpendOverride, when
// non-nil, replaces the configured ad spend source for this call.
func (s *Service) Stats(ctx context.Context, userID string, window TimeWindow, adSpendOverride *int64) (*StatsReport, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}

	r := window.Range(s.now())
	sales, err := s.store.QuerySales(ctx, userID, SalesFilter{DateRange: r})
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	expenses, err := s.store.ListExpenses(ctx, userID, DateRange{})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	var spend int64
	if adSpendOverride != nil {
		spend = *adSpendOverride
	} else {
		spend, err = s.adSpend.AdSpendCents(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	return &StatsReport{
		Stats:        ComputeStats(sales, expenses, spend),
		Window:       window,
		AdSpendCents: spend,
	}, nil
}

// Products lists sales in the window as product table rows, filtered by a
// case-insensitive search over product name, order id and sub id.
func (s *Service) Products(ctx context.Context, userID string, window TimeWindow, search string) ([]ProductRow, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	sales, err := s.store.QuerySales(ctx, userID, SalesFilter{
		DateRange: window.Range(s.now()),
		Search:    strings.TrimSpace(search),
	})
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	return BuildProductRows(sales), nil
}

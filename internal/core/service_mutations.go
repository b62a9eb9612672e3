package core

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidInput wraps request validation failures on mutations.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ExpenseInput is a new manual expense.
type ExpenseInput struct {
	AmountCents int64
	Date        time.Time
	Description string
	Category    string
}

// CreateExpense records a manual expense. A zero date means today.
func (s *Service) CreateExpense(ctx context.Context, userID string, in ExpenseInput) (*Expense, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	if in.AmountCents <= 0 {
		return nil, invalidf("amount must be positive")
	}

	now := s.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	e := Expense{
		ID:          uuid.NewString(),
		UserID:      userID,
		AmountCents: in.AmountCents,
		Date:        CalendarDate(date),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		CreatedAt:   now,
	}
	if err := s.store.InsertExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}

	s.LogAudit(ctx, AuditLogParams{Action: ActionExpenseCreate, UserID: userID, RowsAffected: 1})
	return &e, nil
}

// ListExpenses returns the user's expenses dated inside the window.
func (s *Service) ListExpenses(ctx context.Context, userID string, window TimeWindow) ([]Expense, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	return s.store.ListExpenses(ctx, userID, window.Range(s.now()))
}

// DeleteExpense removes one of the user's expenses.
func (s *Service) DeleteExpense(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrMissingUser
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("expense %q: %w", id, ErrNotFound)
	}

	n, err := s.store.DeleteExpense(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}

	s.LogAudit(ctx, AuditLogParams{Action: ActionExpenseDelete, UserID: userID, RowsAffected: int(n), Reason: "expense " + id})
	return nil
}

// CampaignInput describes a campaign sheet to open.
type CampaignInput struct {
	SubID string
	Title string
	// InitialExpenseCents, when positive, books a first expense on the
	// sheet dated ExpenseDate (today when zero).
	InitialExpenseCents int64
	ExpenseDate         time.Time
}

// CreateCampaign opens a tracking sheet for a sub id. Creating a sheet that
// already exists updates its title.
func (s *Service) CreateCampaign(ctx context.Context, userID string, in CampaignInput) (*CampaignSheet, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	subID := strings.TrimSpace(in.SubID)
	if subID == "" || subID == "-" {
		return nil, invalidf("sub id is required")
	}
	if in.InitialExpenseCents < 0 {
		return nil, invalidf("amount must be positive")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = subID
	}

	sheet, err := s.store.UpsertCampaignSheet(ctx, CampaignSheet{
		ID:        uuid.NewString(),
		UserID:    userID,
		SubID:     subID,
		Title:     title,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert campaign %s: %w", subID, err)
	}

	s.LogAudit(ctx, AuditLogParams{Action: ActionCampaignCreate, UserID: userID, Reason: "sub id " + subID})

	if in.InitialExpenseCents > 0 {
		if _, err := s.AddCampaignExpense(ctx, userID, subID, in.InitialExpenseCents, in.ExpenseDate); err != nil {
			return nil, err
		}
	}
	return &sheet, nil
}

// ListCampaigns returns the user's campaign sheets.
func (s *Service) ListCampaigns(ctx context.Context, userID string) ([]CampaignSheet, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	return s.store.ListCampaignSheets(ctx, userID)
}

// AddCampaignExpense books a cost against the campaign for subID.
func (s *Service) AddCampaignExpense(ctx context.Context, userID, subID string, amountCents int64, date time.Time) (*CampaignExpense, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	if amountCents <= 0 {
		return nil, invalidf("amount must be positive")
	}

	sheet, err := s.store.GetCampaignSheet(ctx, userID, subID)
	if err != nil {
		return nil, fmt.Errorf("campaign %s: %w", subID, err)
	}

	now := s.now()
	if date.IsZero() {
		date = now
	}
	e := CampaignExpense{
		ID:          uuid.NewString(),
		SheetID:     sheet.ID,
		AmountCents: amountCents,
		Date:        CalendarDate(date),
		Manual:      true,
		CreatedAt:   now,
	}
	if err := s.store.InsertCampaignExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("insert campaign expense: %w", err)
	}

	s.LogAudit(ctx, AuditLogParams{Action: ActionCampaignExpense, UserID: userID, RowsAffected: 1, Reason: "sub id " + subID})
	return &e, nil
}

// DeleteCampaignExpense removes one expense from the campaign for subID.
func (s *Service) DeleteCampaignExpense(ctx context.Context, userID, subID, id string) error {
	if userID == "" {
		return ErrMissingUser
	}

	sheet, err := s.store.GetCampaignSheet(ctx, userID, subID)
	if err != nil {
		return fmt.Errorf("campaign %s: %w", subID, err)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("campaign expense %q: %w", id, ErrNotFound)
	}

	n, err := s.store.DeleteCampaignExpense(ctx, sheet.ID, id)
	if err != nil {
		return fmt.Errorf("delete campaign expense: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("campaign expense %s: %w", id, ErrNotFound)
	}

	s.LogAudit(ctx, AuditLogParams{
		Action:       ActionCampaignExpenseDelete,
		UserID:       userID,
		RowsAffected: int(n),
		Reason:       "sub id " + subID + " expense " + id,
	})
	return nil
}

// CampaignReport summarizes revenue and spend for one sub id over all time.
func (s *Service) CampaignReport(ctx context.Context, userID, subID string) (*CampaignReport, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}

	sheet, err := s.store.GetCampaignSheet(ctx, userID, subID)
	if err != nil {
		return nil, fmt.Errorf("campaign %s: %w", subID, err)
	}
	sales, err := s.store.QuerySales(ctx, userID, SalesFilter{SubID: &sheet.SubID})
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	expenses, err := s.store.ListCampaignExpenses(ctx, sheet.ID)
	if err != nil {
		return nil, fmt.Errorf("list campaign expenses: %w", err)
	}

	rep := BuildCampaignReport(sheet, sales, expenses)
	return &rep, nil
}

// TrackingSource is the utm_source stamped on every tracked link.
const TrackingSource = "instadash"

// BuildTrackedURL tags a product URL with a sub id and the tracking source.
// Existing query parameters are kept; sub_id and utm_source are overwritten.
func BuildTrackedURL(original, subID string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(original))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", invalidf("not an absolute http(s) url: %q", original)
	}

	q := u.Query()
	if subID = strings.TrimSpace(subID); subID != "" {
		q.Set("sub_id", subID)
	}
	q.Set("utm_source", TrackingSource)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// CreateTrackedLink builds and stores a tracked link.
func (s *Service) CreateTrackedLink(ctx context.Context, userID, originalURL, subID string) (*TrackedLink, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	tracked, err := BuildTrackedURL(originalURL, subID)
	if err != nil {
		return nil, err
	}

	l := TrackedLink{
		ID:          uuid.NewString(),
		UserID:      userID,
		OriginalURL: strings.TrimSpace(originalURL),
		TrackedURL:  tracked,
		CreatedAt:   s.now(),
	}
	if sub := strings.TrimSpace(subID); sub != "" {
		l.SubID = strPtr(sub)
	}
	if err := s.store.InsertTrackedLink(ctx, l); err != nil {
		return nil, fmt.Errorf("insert tracked link: %w", err)
	}

	s.LogAudit(ctx, AuditLogParams{Action: ActionLinkCreate, UserID: userID, RowsAffected: 1})
	return &l, nil
}

// ListTrackedLinks returns the user's tracked links, newest first.
func (s *Service) ListTrackedLinks(ctx context.Context, userID string) ([]TrackedLink, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	return s.store.ListTrackedLinks(ctx, userID)
}

package core

import (
	"time"
)

// Source is the traffic channel a sale is attributed to.
type Source string

const (
	// SourceOrganicVideo covers sales with no sub id: organic video traffic.
	SourceOrganicVideo Source = "shopee_video"
	// SourceSocialMedia covers sales carrying a sub id from a tracked link.
	SourceSocialMedia Source = "social_media"
)

// ClassifySource derives the channel from the sub id. A tag is the only
// signal used.
func ClassifySource(subID *string) Source {
	if subID != nil {
		return SourceSocialMedia
	}
	return SourceOrganicVideo
}

// Sale is one normalized, validated order row as persisted.
type Sale struct {
	UserID       string    `json:"userId"`
	OrderID      string    `json:"orderId"`
	SubID        *string   `json:"subId"`
	ProductName  string    `json:"productName"`
	RevenueCents int64     `json:"revenueCents"`
	Clicks       int64     `json:"clicks"`
	OrderDate    time.Time `json:"orderDate"`
	Source       Source    `json:"source"`
	BatchID      string    `json:"batchId"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// Expense is a manual cost entry owned by a user.
type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	AmountCents int64     `json:"amountCents"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UploadBatch groups the sales rows written by one upload.
type UploadBatch struct {
	BatchID    string    `json:"batchId"`
	UploadedAt time.Time `json:"uploadedAt"`
	Count      int64     `json:"count"`
}

// CampaignSheet tracks spend and results for one sub id.
type CampaignSheet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	SubID     string    `json:"subId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// CampaignExpense is a cost booked against a campaign sheet.
type CampaignExpense struct {
	ID          string    `json:"id"`
	SheetID     string    `json:"sheetId"`
	AmountCents int64     `json:"amountCents"`
	Date        time.Time `json:"date"`
	Manual      bool      `json:"manual"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TrackedLink is a product URL rewritten to carry a sub id.
type TrackedLink struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	OriginalURL string    `json:"originalUrl"`
	TrackedURL  string    `json:"trackedUrl"`
	SubID       *string   `json:"subId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DateRange is an inclusive range of calendar dates. A nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether the calendar date of t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := CalendarDate(t)
	if r.From != nil && d.Before(CalendarDate(*r.From)) {
		return false
	}
	if r.To != nil && d.After(CalendarDate(*r.To)) {
		return false
	}
	return true
}

// SalesFilter narrows a sales query.
type SalesFilter struct {
	DateRange
	SubID  *string
	Search string
}

// CalendarDate returns midnight UTC of t's calendar day in t's own location.
// All persisted dates use this form so comparisons are plain day comparisons.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string {
	return &s
}

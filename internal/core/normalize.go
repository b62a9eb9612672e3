package core

import "time"

// noSubID is the placeholder exports write when an order carries no tag.
const noSubID = "-"

// Candidate is a normalized row that has not been validated yet.
type Candidate struct {
	Line         int // 1-based line in the source file
	OrderID      string
	SubID        *string
	ProductName  string
	RevenueCents int64
	Clicks       int64
	OrderDate    time.Time
	DateFallback bool // OrderDate was substituted with today
	Source       Source
}

// NormalizeRow converts one raw row into a Candidate. It returns false
// without computing anything else when the row has no order id.
func NormalizeRow(row RawRow, cols ColumnMap, now time.Time) (Candidate, bool) {
	orderRaw, ok := cols.Value(FieldOrderID, row)
	if !ok {
		return Candidate{}, false
	}
	orderID := CleanCell(orderRaw)
	if orderID == "" {
		return Candidate{}, false
	}

	c := Candidate{OrderID: orderID}

	if v, ok := cols.Value(FieldRevenue, row); ok {
		c.RevenueCents = ParseCents(v)
	}

	dateRaw, _ := cols.Value(FieldDate, row)
	c.OrderDate, c.DateFallback = ParseOrderDate(dateRaw, now)

	if v, ok := cols.Value(FieldProductName, row); ok {
		c.ProductName = CleanCell(v)
	}

	if v, ok := cols.Value(FieldSubID, row); ok {
		c.SubID = normalizeSubID(v)
	}
	c.Source = ClassifySource(c.SubID)

	if v, ok := cols.Value(FieldClicks, row); ok {
		c.Clicks = ParseClicks(v)
	}

	return c, true
}

// normalizeSubID maps blank values and the "-" placeholder to nil.
func normalizeSubID(raw string) *string {
	s := CleanCell(raw)
	if s == "" || s == noSubID {
		return nil
	}
	return strPtr(s)
}

package core

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Stats is the dashboard summary over one set of sales and expenses.
type Stats struct {
	TotalRevenue  int64           `json:"totalRevenue"`
	VideoRevenue  int64           `json:"videoRevenue"`
	SocialRevenue int64           `json:"socialRevenue"`
	TotalExpenses int64           `json:"totalExpenses"`
	NetProfit     int64           `json:"netProfit"`
	ROIPercent    *float64        `json:"roiPercent"`
	TotalOrders   int             `json:"totalOrders"`
	TotalClicks   int64           `json:"totalClicks"`
	SocialClicks  int64           `json:"socialClicks"`
	TopProduct    *TopProduct     `json:"topProduct"`
	SubIDRevenue  []SubIDTotal    `json:"subIdRevenue"`
	CategoryMix   []CategoryTotal `json:"categoryMix"`
}

// TopProduct is the product with the most orders.
type TopProduct struct {
	Name   string `json:"name"`
	Orders int    `json:"orders"`
}

// SubIDTotal sums the sales carrying one sub id.
type SubIDTotal struct {
	SubID        string `json:"subId"`
	RevenueCents int64  `json:"revenueCents"`
	Orders       int    `json:"orders"`
}

// CategoryTotal counts orders per product category.
type CategoryTotal struct {
	Category string `json:"category"`
	Orders   int    `json:"orders"`
}

// ComputeStats folds sales and expenses into a Stats. externalSpendCents is
// added to expenses as-is; the caller decides where it comes from.
//
// Sales are consumed in the given order. The top product on a tie is the one
// seen first, so callers pass rows in store order.
func ComputeStats(sales []Sale, expenses []Expense, externalSpendCents int64) Stats {
	var st Stats

	productOrders := make(map[string]int)
	var productOrder []string

	subIdx := make(map[string]int)

	for _, s := range sales {
		st.TotalRevenue += s.RevenueCents
		st.TotalClicks += s.Clicks
		st.TotalOrders++

		switch s.Source {
		case SourceSocialMedia:
			st.SocialRevenue += s.RevenueCents
			st.SocialClicks += s.Clicks
		default:
			st.VideoRevenue += s.RevenueCents
		}

		if s.ProductName != "" {
			if _, ok := productOrders[s.ProductName]; !ok {
				productOrder = append(productOrder, s.ProductName)
			}
			productOrders[s.ProductName]++
		}

		if s.SubID != nil {
			i, ok := subIdx[*s.SubID]
			if !ok {
				i = len(st.SubIDRevenue)
				subIdx[*s.SubID] = i
				st.SubIDRevenue = append(st.SubIDRevenue, SubIDTotal{SubID: *s.SubID})
			}
			st.SubIDRevenue[i].RevenueCents += s.RevenueCents
			st.SubIDRevenue[i].Orders++
		}
	}

	for _, e := range expenses {
		st.TotalExpenses += e.AmountCents
	}
	st.TotalExpenses += externalSpendCents
	st.NetProfit = st.TotalRevenue - st.TotalExpenses
	st.ROIPercent = roiPercent(st.NetProfit, st.TotalExpenses)

	for _, name := range productOrder {
		n := productOrders[name]
		if st.TopProduct == nil || n > st.TopProduct.Orders {
			st.TopProduct = &TopProduct{Name: name, Orders: n}
		}
	}

	st.CategoryMix = categoryMix(productOrder, productOrders)
	if st.SubIDRevenue == nil {
		st.SubIDRevenue = []SubIDTotal{}
	}
	return st
}

// roiPercent returns profit/cost*100 rounded to two places, or nil when
// there is no cost to divide by.
func roiPercent(profit, cost int64) *float64 {
	if cost <= 0 {
		return nil
	}
	v, _ := decimal.NewFromInt(profit).
		Div(decimal.NewFromInt(cost)).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return &v
}

// Product categories used by the dashboard's category chart.
const (
	CategoryCosmetics   = "Cosméticos"
	CategoryElectronics = "Eletrônicos"
	CategoryApparel     = "Vestuário"
	CategoryHome        = "Casa"
	CategoryOther       = "Outros"
)

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryCosmetics, []string{"creme", "shampoo", "maquiagem", "pele"}},
	{CategoryElectronics, []string{"fone", "celular", "usb", "eletrônico"}},
	{CategoryApparel, []string{"camisa", "calça", "vestido"}},
	{CategoryHome, []string{"casa", "cozinha", "decoração"}},
}

// CategorizeProduct assigns a category by keyword. The first matching
// category in table order wins.
func CategorizeProduct(name string) string {
	lower := strings.ToLower(name)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.category
			}
		}
	}
	return CategoryOther
}

func categoryMix(products []string, orders map[string]int) []CategoryTotal {
	idx := make(map[string]int)
	out := []CategoryTotal{}
	for _, name := range products {
		cat := CategorizeProduct(name)
		i, ok := idx[cat]
		if !ok {
			i = len(out)
			idx[cat] = i
			out = append(out, CategoryTotal{Category: cat})
		}
		out[i].Orders += orders[name]
	}
	return out
}

// ProductRow is one line of the product table.
type ProductRow struct {
	ProductName  string `json:"productName"`
	OrderID      string `json:"orderId"`
	SubID        string `json:"subId"`
	RevenueCents int64  `json:"revenueCents"`
	Clicks       int64  `json:"clicks"`
	Source       Source `json:"source"`
}

// BuildProductRows flattens sales for the product table. A missing sub id
// shows as "-".
func BuildProductRows(sales []Sale) []ProductRow {
	rows := make([]ProductRow, len(sales))
	for i, s := range sales {
		sub := "-"
		if s.SubID != nil {
			sub = *s.SubID
		}
		rows[i] = ProductRow{
			ProductName:  s.ProductName,
			OrderID:      s.OrderID,
			SubID:        sub,
			RevenueCents: s.RevenueCents,
			Clicks:       s.Clicks,
			Source:       s.Source,
		}
	}
	return rows
}

// CampaignReport summarizes one sub id: what it earned against what was
// spent on it.
type CampaignReport struct {
	Sheet         CampaignSheet     `json:"sheet"`
	RevenueCents  int64             `json:"revenueCents"`
	ExpensesCents int64             `json:"expensesCents"`
	ProfitCents   int64             `json:"profitCents"`
	ROIPercent    *float64          `json:"roiPercent"`
	Orders        int               `json:"orders"`
	Clicks        int64             `json:"clicks"`
	Daily         []CampaignDay     `json:"daily"`
	Expenses      []CampaignExpense `json:"expenses"`
}

// CampaignDay is one calendar day of a campaign report.
type CampaignDay struct {
	Date          time.Time `json:"date"`
	RevenueCents  int64     `json:"revenueCents"`
	ExpensesCents int64     `json:"expensesCents"`
	Orders        int       `json:"orders"`
}

// BuildCampaignReport combines the sales tagged with the sheet's sub id and
// the sheet's expenses. Days are ordered newest first.
func BuildCampaignReport(sheet CampaignSheet, sales []Sale, expenses []CampaignExpense) CampaignReport {
	rep := CampaignReport{Sheet: sheet, Expenses: expenses}
	if rep.Expenses == nil {
		rep.Expenses = []CampaignExpense{}
	}

	days := make(map[time.Time]*CampaignDay)
	day := func(t time.Time) *CampaignDay {
		d := CalendarDate(t)
		cd, ok := days[d]
		if !ok {
			cd = &CampaignDay{Date: d}
			days[d] = cd
		}
		return cd
	}

	for _, s := range sales {
		if s.SubID == nil || *s.SubID != sheet.SubID {
			continue
		}
		rep.RevenueCents += s.RevenueCents
		rep.Clicks += s.Clicks
		rep.Orders++
		cd := day(s.OrderDate)
		cd.RevenueCents += s.RevenueCents
		cd.Orders++
	}
	for _, e := range expenses {
		rep.ExpensesCents += e.AmountCents
		day(e.Date).ExpensesCents += e.AmountCents
	}

	rep.ProfitCents = rep.RevenueCents - rep.ExpensesCents
	rep.ROIPercent = roiPercent(rep.ProfitCents, rep.ExpensesCents)

	rep.Daily = make([]CampaignDay, 0, len(days))
	for _, cd := range days {
		rep.Daily = append(rep.Daily, *cd)
	}
	sort.Slice(rep.Daily, func(i, j int) bool {
		return rep.Daily[i].Date.After(rep.Daily[j].Date)
	})
	return rep
}

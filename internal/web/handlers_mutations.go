package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/InstaDash/internal/core"
)

type createExpenseRequest struct {
	moneyInput
	Date        string `json:"date"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	cents, err := req.cents()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	expense, err := s.service.CreateExpense(ctx, userID(r), core.ExpenseInput{
		AmountCents: cents,
		Date:        date,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

// handleListExpenses lists expenses inside ?window=.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	expenses, err := s.service.ListExpenses(r.Context(), userID(r), window)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	if err := s.service.DeleteExpense(ctx, userID(r), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// createCampaignRequest may carry a first expense; amount fields left out
// open the sheet with no spend.
type createCampaignRequest struct {
	SubID string `json:"subId"`
	Title string `json:"title"`
	moneyInput
	Date string `json:"date"`
}

// handleCreateCampaign opens a campaign sheet, or renames an existing one.
func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	cents, err := req.cents()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	sheet, err := s.service.CreateCampaign(ctx, userID(r), core.CampaignInput{
		SubID:               req.SubID,
		Title:               req.Title,
		InitialExpenseCents: cents,
		ExpenseDate:         date,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sheet)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	sheets, err := s.service.ListCampaigns(r.Context(), userID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sheets)
}

func (s *Server) handleCampaignReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.CampaignReport(r.Context(), userID(r), chi.URLParam(r, "subID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type campaignExpenseRequest struct {
	moneyInput
	Date string `json:"date"`
}

func (s *Server) handleAddCampaignExpense(w http.ResponseWriter, r *http.Request) {
	var req campaignExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	cents, err := req.cents()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	expense, err := s.service.AddCampaignExpense(ctx, userID(r), chi.URLParam(r, "subID"), cents, date)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleDeleteCampaignExpense(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	err := s.service.DeleteCampaignExpense(ctx, userID(r), chi.URLParam(r, "subID"), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createLinkRequest struct {
	URL   string `json:"url"`
	SubID string `json:"subId"`
}

func (s *Server) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	link, err := s.service.CreateTrackedLink(ctx, userID(r), req.URL, req.SubID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (s *Server) handleListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.service.ListTrackedLinks(r.Context(), userID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

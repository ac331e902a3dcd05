package handler

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/adapter/http/middleware"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// BudgetService defines the behavior needed by BudgetHandler.
type BudgetService interface {
	GetBalance(ctx context.Context, userID string) (*domain.BalanceView, error)
	SetAmount(ctx context.Context, userID string, amount decimal.NullDecimal) (*domain.BalanceView, error)
	ApplyDelta(ctx context.Context, userID string, delta decimal.Decimal, description *string) (*domain.EntryView, *domain.BalanceView, error)
	RecordEntry(ctx context.Context, input usecase.RecordEntryInput) (*domain.EntryView, *domain.BalanceView, error)
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) (*domain.Page[*domain.EntryView], error)
}

// BudgetHandler serves the authenticated user's budget and entries.
type BudgetHandler struct {
	budgets BudgetService
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgets BudgetService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

// GetBalance returns the current balance.
func (h *BudgetHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	view, err := h.budgets.GetBalance(r.Context(), userID)
	if err != nil {
		respondError(w, r, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(view))
}

// SetAmount overwrites the balance.
func (h *BudgetHandler) SetAmount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.SetAmountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	view, err := h.budgets.SetAmount(r.Context(), userID, req.Amount)
	if err != nil {
		respondError(w, r, "failed to set amount", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(view))
}

// ApplyDelta moves the balance by a signed delta.
func (h *BudgetHandler) ApplyDelta(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.ApplyDeltaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	_, view, err := h.budgets.ApplyDelta(r.Context(), userID, req.DeltaValue(), req.Description)
	if err != nil {
		respondError(w, r, "failed to apply delta", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(view))
}

// RecordEntry records an income or expense.
func (h *BudgetHandler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.RecordEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(userID)
	if err != nil {
		respondError(w, r, "invalid entry", err)
		return
	}

	entry, view, err := h.budgets.RecordEntry(r.Context(), input)
	if err != nil {
		respondError(w, r, "failed to record entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.RecordEntryResponse{
		Entry:  dto.EntryFromDomain(entry),
		Budget: dto.BalanceFromDomain(view),
	})
}

// ListEntries returns a page of entries, newest first.
func (h *BudgetHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	page, err := h.budgets.ListEntries(r.Context(), usecase.ListEntriesInput{
		UserID:   userID,
		Page:     parseIntQuery(r, "page", 0),
		PageSize: parseIntQuery(r, "size", domain.DefaultPageSize),
	})
	if err != nil {
		respondError(w, r, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryPageFromDomain(page))
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
	}
	return userID, ok
}

package handler

import (
	"context"
	"net/http"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/usecase"
)

// ReconciliationService compares a balance against its entry log.
type ReconciliationService interface {
	Reconcile(ctx context.Context, userID string) (*usecase.ReconciliationResult, error)
}

// ReconciliationHandler reports balance drift.
type ReconciliationHandler struct {
	reconciler ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciler ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciler: reconciler}
}

// Reconcile returns the current reconciliation result.
func (h *ReconciliationHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.reconciler.Reconcile(r.Context(), userID)
	if err != nil {
		respondError(w, r, "failed to reconcile", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}

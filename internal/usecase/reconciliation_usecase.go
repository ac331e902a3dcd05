package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
)

const maxSnapshotAttempts = 3

// ReconciliationUseCase compares stored balances with their entry logs.
type ReconciliationUseCase struct {
	budgetRepo BudgetRepository
	entryRepo  EntryRepository
	metrics    *metrics.Metrics
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	budgetRepo BudgetRepository,
	entryRepo EntryRepository,
	metrics *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		budgetRepo: budgetRepo,
		entryRepo:  entryRepo,
		metrics:    metrics,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	UserID          string
	RecordedBalance decimal.Decimal
	EntrySum        decimal.Decimal
	Difference      decimal.Decimal
	EntryCount      int64
	Reconciled      bool
	CheckedAt       time.Time
}

// Reconcile reports how far the user's balance has drifted from the signed
// sum of their entries. Drift only appears after a direct SetAmount.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, userID string) (*ReconciliationResult, error) {
	budget, sum, count, err := uc.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	diff := budget.AvailableAmount.Sub(sum)
	result := &ReconciliationResult{
		UserID:          userID,
		RecordedBalance: budget.AvailableAmount,
		EntrySum:        sum,
		Difference:      diff,
		EntryCount:      count,
		Reconciled:      diff.IsZero(),
		CheckedAt:       time.Now().UTC(),
	}

	outcome := "reconciled"
	if !result.Reconciled {
		outcome = "drift"
		zerolog.Ctx(ctx).Info().
			Str("user_id", userID).
			Str("difference", diff.String()).
			Msg("balance differs from entry log")
	}

	uc.metrics.ReconciliationDrift.WithLabelValues(outcome).Inc()

	return result, nil
}

// snapshot reads the budget and its entry sum, re-reading until no write
// committed in between so the pair describes the same version.
func (uc *ReconciliationUseCase) snapshot(ctx context.Context, userID string) (*domain.Budget, decimal.Decimal, int64, error) {
	for attempt := 0; ; attempt++ {
		budget, err := uc.budgetRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, decimal.Zero, 0, err
		}

		sum, count, err := uc.entryRepo.SumByBudget(ctx, budget.ID)
		if err != nil {
			return nil, decimal.Zero, 0, err
		}

		after, err := uc.budgetRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, decimal.Zero, 0, err
		}

		if after.Version == budget.Version || attempt == maxSnapshotAttempts-1 {
			return budget, sum, count, nil
		}
	}
}

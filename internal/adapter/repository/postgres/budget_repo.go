package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/postgres/generated"
	"github.com/iho/gobudget/internal/usecase"
)

// BudgetRepository implements usecase.BudgetRepository.
type BudgetRepository struct {
	queries *generated.Queries
}

// NewBudgetRepository creates a new BudgetRepository.
func NewBudgetRepository(db generated.DBTX) *BudgetRepository {
	return &BudgetRepository{
		queries: generated.New(db),
	}
}

// GetByUserID reads the committed budget outside any transaction.
func (r *BudgetRepository) GetByUserID(ctx context.Context, userID string) (*domain.Budget, error) {
	return r.get(ctx, r.queries, userID)
}

// GetByUserIDTx reads the budget inside tx. No row lock is taken; the
// version check in UpdateAmount detects concurrent writers.
func (r *BudgetRepository) GetByUserIDTx(ctx context.Context, tx usecase.Transaction, userID string) (*domain.Budget, error) {
	t, err := pgxTxOf(tx)
	if err != nil {
		return nil, err
	}

	return r.get(ctx, r.queries.WithTx(t.PgxTx()), userID)
}

func (r *BudgetRepository) get(ctx context.Context, q *generated.Queries, userID string) (*domain.Budget, error) {
	row, err := q.GetBudgetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}

		return nil, err
	}

	return rowToBudget(row), nil
}

// Create inserts a new budget. Losing the race on the unique owner yields
// domain.ErrVersionConflict.
func (r *BudgetRepository) Create(ctx context.Context, tx usecase.Transaction, budget *domain.Budget) error {
	t, err := pgxTxOf(tx)
	if err != nil {
		return err
	}

	err = r.queries.WithTx(t.PgxTx()).CreateBudget(ctx, generated.CreateBudgetParams{
		ID:              budget.ID,
		OwnerUserID:     budget.OwnerUserID,
		AvailableAmount: decimalToNumeric(budget.AvailableAmount),
		Version:         budget.Version,
		CreatedAt:       timeToPgTimestamptz(budget.CreatedAt),
		UpdatedAt:       timeToPgTimestamptz(budget.UpdatedAt),
	})

	return mapWriteError(err, domain.ErrVersionConflict, domain.ErrUserNotFound)
}

// UpdateAmount writes the new amount only if the stored version still
// equals expectedVersion.
func (r *BudgetRepository) UpdateAmount(ctx context.Context, tx usecase.Transaction, budget *domain.Budget, expectedVersion int64) error {
	t, err := pgxTxOf(tx)
	if err != nil {
		return err
	}

	affected, err := r.queries.WithTx(t.PgxTx()).UpdateBudgetAmount(ctx, generated.UpdateBudgetAmountParams{
		ID:              budget.ID,
		Version:         expectedVersion,
		AvailableAmount: decimalToNumeric(budget.AvailableAmount),
		UpdatedAt:       timeToPgTimestamptz(budget.UpdatedAt),
	})
	if err != nil {
		return mapWriteError(err, nil, nil)
	}

	if affected == 0 {
		return domain.ErrVersionConflict
	}

	budget.Version = expectedVersion + 1

	return nil
}

func rowToBudget(row generated.Budget) *domain.Budget {
	return &domain.Budget{
		ID:              row.ID,
		OwnerUserID:     row.OwnerUserID,
		AvailableAmount: numericToDecimal(row.AvailableAmount),
		Version:         row.Version,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}

package memory

import (
	"context"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// BudgetRepository implements usecase.BudgetRepository.
type BudgetRepository struct {
	store *Store
}

// NewBudgetRepository creates a new budget repository.
func NewBudgetRepository(store *Store) *BudgetRepository {
	return &BudgetRepository{store: store}
}

// GetByUserID returns a copy of the committed budget.
func (r *BudgetRepository) GetByUserID(ctx context.Context, userID string) (*domain.Budget, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.committed(userID)
}

// GetByUserIDTx sees the transaction's own staged budget before committed state.
func (r *BudgetRepository) GetByUserIDTx(ctx context.Context, tx usecase.Transaction, userID string) (*domain.Budget, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	for _, id := range t.order {
		if staged := t.budgets[id]; staged.budget.OwnerUserID == userID {
			b := staged.budget
			return &b, nil
		}
	}

	return r.GetByUserID(ctx, userID)
}

func (r *BudgetRepository) committed(userID string) (*domain.Budget, error) {
	id, ok := r.store.budgetsByUser[userID]
	if !ok {
		return nil, domain.ErrBudgetNotFound
	}

	b := *r.store.budgets[id]
	return &b, nil
}

// Create stages a new budget. An owner that already has a committed budget
// fails straight away; a concurrent insert is caught at commit.
func (r *BudgetRepository) Create(ctx context.Context, tx usecase.Transaction, budget *domain.Budget) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.RLock()
	_, taken := r.store.budgetsByUser[budget.OwnerUserID]
	r.store.mu.RUnlock()

	if taken {
		return domain.ErrVersionConflict
	}

	for _, id := range t.order {
		if t.budgets[id].budget.OwnerUserID == budget.OwnerUserID {
			return domain.ErrVersionConflict
		}
	}

	t.stage(budget.ID, &stagedBudget{budget: *budget, isNew: true})

	return nil
}

// UpdateAmount stages the new amount guarded by expectedVersion.
func (r *BudgetRepository) UpdateAmount(ctx context.Context, tx usecase.Transaction, budget *domain.Budget, expectedVersion int64) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	staged, ok := t.budgets[budget.ID]
	switch {
	case ok && staged.budget.Version != expectedVersion:
		return domain.ErrVersionConflict
	case ok:
		staged.budget.AvailableAmount = budget.AvailableAmount
		staged.budget.UpdatedAt = budget.UpdatedAt
		staged.budget.Version = expectedVersion + 1
	default:
		r.store.mu.RLock()
		current, found := r.store.budgets[budget.ID]
		var currentVersion int64
		if found {
			currentVersion = current.Version
		}
		r.store.mu.RUnlock()

		if !found {
			return domain.ErrBudgetNotFound
		}
		if currentVersion != expectedVersion {
			return domain.ErrVersionConflict
		}

		next := *budget
		next.Version = expectedVersion + 1
		t.stage(budget.ID, &stagedBudget{budget: next, expectedVersion: expectedVersion})
	}

	budget.Version = expectedVersion + 1

	return nil
}

package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
)

// BudgetRepository defines data access for budgets.
type BudgetRepository interface {
	// GetByUserID returns a snapshot of the user's budget, version included.
	GetByUserID(ctx context.Context, userID string) (*domain.Budget, error)
	GetByUserIDTx(ctx context.Context, tx Transaction, userID string) (*domain.Budget, error)
	// Create inserts a budget. A second budget for the same owner fails
	// with domain.ErrVersionConflict.
	Create(ctx context.Context, tx Transaction, budget *domain.Budget) error
	// UpdateAmount persists budget.AvailableAmount if the stored version still
	// equals expectedVersion, and bumps budget.Version on success.
	UpdateAmount(ctx context.Context, tx Transaction, budget *domain.Budget, expectedVersion int64) error
}

// EntryRepository defines data access for budget entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	// ListByBudget orders by occurred_at DESC, id DESC.
	ListByBudget(ctx context.Context, budgetID string, limit int, offset int64) ([]*domain.Entry, error)
	CountByBudget(ctx context.Context, budgetID string) (int64, error)
	// SumByBudget returns the signed sum of all entries and their count.
	SumByBudget(ctx context.Context, budgetID string) (decimal.Decimal, int64, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation while it fails with a retryable error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}

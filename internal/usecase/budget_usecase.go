package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
)

// Operation names used for metrics and logs.
const (
	opSetAmount   = "set_amount"
	opRecordEntry = "record_entry"
)

// BudgetUseCase keeps each user's balance in step with their entry log.
//
// Every mutation is a read-compute-write cycle: read the budget and its
// version, compute the new state, then write the entry (if any) and the
// version-checked balance update in one transaction. A cycle that loses a
// race fails with domain.ErrVersionConflict and is re-run from scratch by
// the retrier.
type BudgetUseCase struct {
	txManager  TransactionManager
	budgetRepo BudgetRepository
	entryRepo  EntryRepository
	userRepo   UserRepository
	idGen      IDGenerator
	retrier    Retrier
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewBudgetUseCase creates a new BudgetUseCase.
func NewBudgetUseCase(
	txManager TransactionManager,
	budgetRepo BudgetRepository,
	entryRepo EntryRepository,
	userRepo UserRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *BudgetUseCase {
	return &BudgetUseCase{
		txManager:  txManager,
		budgetRepo: budgetRepo,
		entryRepo:  entryRepo,
		userRepo:   userRepo,
		idGen:      idGen,
		retrier:    retrier,
		metrics:    metrics,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// RecordEntryInput represents input for recording an entry.
type RecordEntryInput struct {
	UserID      string
	Type        domain.EntryType
	Amount      decimal.Decimal
	OccurredAt  *time.Time
	Description *string
}

// GetBalance returns the user's current balance.
func (uc *BudgetUseCase) GetBalance(ctx context.Context, userID string) (*domain.BalanceView, error) {
	budget, err := uc.budgetRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return budget.View(), nil
}

// SetAmount overwrites the balance, creating the budget if needed.
// No entry is written, so the balance may stop matching the entry log.
func (uc *BudgetUseCase) SetAmount(ctx context.Context, userID string, amount decimal.NullDecimal) (*domain.BalanceView, error) {
	if !amount.Valid {
		return nil, domain.ErrMissingAmount
	}

	if err := domain.ValidateBalance(amount.Decimal); err != nil {
		return nil, err
	}

	budget, err := uc.mutate(ctx, opSetAmount, userID, func(_ context.Context, _ Transaction, budget *domain.Budget, _ time.Time) error {
		return budget.Overwrite(amount.Decimal)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.BalanceOverwrites.Inc()

	return budget.View(), nil
}

// ApplyDelta records an income for a positive delta and an expense for a
// negative one.
func (uc *BudgetUseCase) ApplyDelta(ctx context.Context, userID string, delta decimal.Decimal, description *string) (*domain.EntryView, *domain.BalanceView, error) {
	if delta.IsZero() {
		return nil, nil, domain.ErrInvalidDelta
	}

	entryType, amount := domain.EntryTypeForDelta(delta)

	return uc.RecordEntry(ctx, RecordEntryInput{
		UserID:      userID,
		Type:        entryType,
		Amount:      amount,
		Description: description,
	})
}

// RecordEntry appends an entry and moves the balance by its signed amount.
func (uc *BudgetUseCase) RecordEntry(ctx context.Context, input RecordEntryInput) (*domain.EntryView, *domain.BalanceView, error) {
	if err := domain.ValidateEntryAmount(input.Amount); err != nil {
		return nil, nil, err
	}

	if !input.Type.IsValid() {
		return nil, nil, domain.ErrInvalidEntryType
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, nil, err
	}

	var entry *domain.Entry

	budget, err := uc.mutate(ctx, opRecordEntry, input.UserID, func(ctx context.Context, tx Transaction, budget *domain.Budget, now time.Time) error {
		occurredAt := now
		if input.OccurredAt != nil {
			occurredAt = input.OccurredAt.UTC().Truncate(timestampPrecision)
		}

		entry = &domain.Entry{
			ID:            uc.idGen.Generate(),
			OwnerBudgetID: budget.ID,
			Type:          input.Type,
			Amount:        input.Amount,
			OccurredAt:    occurredAt,
			Description:   input.Description,
			Version:       0,
			CreatedAt:     now,
		}

		// The entry goes in first so the response carries its stored id.
		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}

		return budget.Apply(entry)
	})
	if err != nil {
		return nil, nil, err
	}

	uc.metrics.EntriesRecorded.WithLabelValues(string(entry.Type)).Inc()
	uc.metrics.EntryAmount.WithLabelValues(string(entry.Type)).Observe(entry.Amount.InexactFloat64())

	return entry.View(), budget.View(), nil
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	UserID   string
	Page     int
	PageSize int
}

// ListEntries returns one page of the user's entries, newest first.
func (uc *BudgetUseCase) ListEntries(ctx context.Context, input ListEntriesInput) (*domain.Page[*domain.EntryView], error) {
	budget, err := uc.budgetRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	page, size := domain.ClampPagination(input.Page, input.PageSize)

	entries, err := uc.entryRepo.ListByBudget(ctx, budget.ID, size, domain.Offset(page, size))
	if err != nil {
		return nil, err
	}

	total, err := uc.entryRepo.CountByBudget(ctx, budget.ID)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.EntryView, len(entries))
	for i, e := range entries {
		views[i] = e.View()
	}

	return domain.NewPage(views, page, size, total), nil
}

type mutation func(ctx context.Context, tx Transaction, budget *domain.Budget, now time.Time) error

// mutate runs apply against the user's budget inside the retry loop and
// returns the budget as committed.
func (uc *BudgetUseCase) mutate(ctx context.Context, op, userID string, apply mutation) (*domain.Budget, error) {
	start := time.Now()
	defer func() {
		uc.metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	var committed *domain.Budget

	err := uc.retrier.Retry(ctx, func() error {
		budget, err := uc.attempt(ctx, userID, apply)
		if err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				uc.metrics.VersionConflicts.WithLabelValues(op).Inc()
			}

			return err
		}

		committed = budget

		return nil
	})
	if err != nil {
		kind := domain.KindOf(err)
		if kind == domain.KindConflict {
			uc.metrics.RetriesExhausted.WithLabelValues(op).Inc()
		}

		uc.metrics.OperationErrors.WithLabelValues(op, kind.String()).Inc()

		zerolog.Ctx(ctx).Debug().
			Err(err).
			Str("operation", op).
			Str("user_id", userID).
			Msg("budget operation failed")

		return nil, err
	}

	return committed, nil
}

// attempt is a single read-compute-write cycle in its own transaction.
func (uc *BudgetUseCase) attempt(ctx context.Context, userID string, apply mutation) (*domain.Budget, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	now := uc.now().Truncate(timestampPrecision)

	budget, created, err := uc.resolveBudget(txCtx, tx, userID, now)
	if err != nil {
		return nil, err
	}

	expectedVersion := budget.Version

	if err := apply(txCtx, tx, budget, now); err != nil {
		return nil, err
	}

	budget.UpdatedAt = now
	if err := uc.budgetRepo.UpdateAmount(txCtx, tx, budget, expectedVersion); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if created {
		uc.metrics.BudgetsCreated.Inc()
		zerolog.Ctx(ctx).Debug().
			Str("user_id", userID).
			Str("budget_id", budget.ID).
			Msg("budget created")
	}

	return budget, nil
}

// resolveBudget returns the user's budget, inserting an empty one when the
// user has none. Two first writes racing on the same user both attempt the
// insert; the owner uniqueness constraint lets one through and turns the
// other into domain.ErrVersionConflict, so the retry finds the winner's row.
func (uc *BudgetUseCase) resolveBudget(ctx context.Context, tx Transaction, userID string, now time.Time) (*domain.Budget, bool, error) {
	budget, err := uc.budgetRepo.GetByUserIDTx(ctx, tx, userID)
	if err == nil {
		return budget, false, nil
	}

	if !errors.Is(err, domain.ErrBudgetNotFound) {
		return nil, false, err
	}

	exists, err := uc.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	if !exists {
		return nil, false, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}

	budget = domain.NewBudget(uc.idGen.Generate(), userID, now)
	if err := uc.budgetRepo.Create(ctx, tx, budget); err != nil {
		return nil, false, err
	}

	return budget, true, nil
}

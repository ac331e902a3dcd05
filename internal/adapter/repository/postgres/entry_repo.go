package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/postgres/generated"
	"github.com/iho/gobudget/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{
		queries: generated.New(db),
	}
}

// Create inserts an entry inside tx.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	t, err := pgxTxOf(tx)
	if err != nil {
		return err
	}

	err = r.queries.WithTx(t.PgxTx()).CreateBudgetEntry(ctx, generated.CreateBudgetEntryParams{
		ID:            entry.ID,
		OwnerBudgetID: entry.OwnerBudgetID,
		Type:          string(entry.Type),
		Amount:        decimalToNumeric(entry.Amount),
		OccurredAt:    timeToPgTimestamptz(entry.OccurredAt),
		Description:   stringPtrToText(entry.Description),
		Version:       entry.Version,
		CreatedAt:     timeToPgTimestamptz(entry.CreatedAt),
	})

	return mapWriteError(err, nil, domain.ErrBudgetNotFound)
}

// ListByBudget retrieves one page of entries, newest first.
func (r *EntryRepository) ListByBudget(ctx context.Context, budgetID string, limit int, offset int64) ([]*domain.Entry, error) {
	rows, err := r.queries.ListBudgetEntries(ctx, generated.ListBudgetEntriesParams{
		OwnerBudgetID: budgetID,
		Limit:         int32(limit),
		Offset:        offset,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

// CountByBudget counts a budget's entries.
func (r *EntryRepository) CountByBudget(ctx context.Context, budgetID string) (int64, error) {
	return r.queries.CountBudgetEntries(ctx, budgetID)
}

// SumByBudget returns the signed sum of a budget's entries and their count.
func (r *EntryRepository) SumByBudget(ctx context.Context, budgetID string) (decimal.Decimal, int64, error) {
	row, err := r.queries.SumBudgetEntries(ctx, budgetID)
	if err != nil {
		return decimal.Zero, 0, err
	}

	return numericToDecimal(row.Total), row.EntryCount, nil
}

func rowToEntry(row generated.BudgetEntry) *domain.Entry {
	return &domain.Entry{
		ID:            row.ID,
		OwnerBudgetID: row.OwnerBudgetID,
		Type:          domain.EntryType(row.Type),
		Amount:        numericToDecimal(row.Amount),
		OccurredAt:    row.OccurredAt.Time,
		Description:   textToStringPtr(row.Description),
		Version:       row.Version,
		CreatedAt:     row.CreatedAt.Time,
	}
}

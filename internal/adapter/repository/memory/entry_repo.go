package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// NewEntryRepository creates a new entry repository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// Create stages an entry for the transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	e := *entry
	t.entries = append(t.entries, &e)

	return nil
}

// ListByBudget returns committed entries newest first, ties broken by id.
func (r *EntryRepository) ListByBudget(ctx context.Context, budgetID string, limit int, offset int64) ([]*domain.Entry, error) {
	r.store.mu.RLock()
	all := make([]*domain.Entry, len(r.store.entries[budgetID]))
	copy(all, r.store.entries[budgetID])
	r.store.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].OccurredAt.Equal(all[j].OccurredAt) {
			return all[i].OccurredAt.After(all[j].OccurredAt)
		}
		return all[i].ID > all[j].ID
	})

	if offset >= int64(len(all)) {
		return []*domain.Entry{}, nil
	}

	end := int64(len(all))
	if offset+int64(limit) < end {
		end = offset + int64(limit)
	}

	page := make([]*domain.Entry, 0, end-offset)
	for _, e := range all[offset:end] {
		c := *e
		page = append(page, &c)
	}

	return page, nil
}

// CountByBudget counts committed entries.
func (r *EntryRepository) CountByBudget(ctx context.Context, budgetID string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return int64(len(r.store.entries[budgetID])), nil
}

// SumByBudget returns the signed sum and count of committed entries.
func (r *EntryRepository) SumByBudget(ctx context.Context, budgetID string) (decimal.Decimal, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sum := decimal.Zero
	for _, e := range r.store.entries[budgetID] {
		sum = sum.Add(e.SignedAmount())
	}

	return sum, int64(len(r.store.entries[budgetID])), nil
}

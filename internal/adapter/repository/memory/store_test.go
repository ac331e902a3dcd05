package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobudget/internal/domain"
)

type fixture struct {
	store   *Store
	txm     *TxManager
	budgets *BudgetRepository
	entries *EntryRepository
	users   *UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := NewStore()
	f := &fixture{
		store:   store,
		txm:     NewTxManager(store),
		budgets: NewBudgetRepository(store),
		entries: NewEntryRepository(store),
		users:   NewUserRepository(store),
	}

	require.NoError(t, f.users.Create(context.Background(), &domain.User{ID: "u1", Email: "u1@example.com"}))

	return f
}

func TestCommit_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Now().UTC()

	tx, err := f.txm.Begin(ctx)
	require.NoError(t, err)

	b := domain.NewBudget("b1", "u1", now)
	require.NoError(t, f.budgets.Create(ctx, tx, b))

	got, err := f.budgets.GetByUserIDTx(ctx, tx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "b1", got.ID)

	_, err = f.budgets.GetByUserID(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrBudgetNotFound, "staged budget must not be visible outside the tx")

	b.AvailableAmount = decimal.NewFromInt(10)
	require.NoError(t, f.budgets.UpdateAmount(ctx, tx, b, 0))
	assert.Equal(t, int64(1), b.Version)

	require.NoError(t, f.entries.Create(ctx, tx, &domain.Entry{
		ID: "e1", OwnerBudgetID: "b1", Type: domain.EntryTypeIncome,
		Amount: decimal.NewFromInt(10), OccurredAt: now,
	}))

	require.NoError(t, tx.Commit(ctx))

	stored, err := f.budgets.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, stored.AvailableAmount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int64(1), stored.Version)

	sum, count, err := f.entries.SumByBudget(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int64(1), count)
}

func TestCommit_RejectsSecondBudgetForOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Now().UTC()

	tx1, _ := f.txm.Begin(ctx)
	tx2, _ := f.txm.Begin(ctx)

	require.NoError(t, f.budgets.Create(ctx, tx1, domain.NewBudget("b1", "u1", now)))
	require.NoError(t, f.budgets.Create(ctx, tx2, domain.NewBudget("b2", "u1", now)))

	require.NoError(t, tx1.Commit(ctx))
	assert.ErrorIs(t, tx2.Commit(ctx), domain.ErrVersionConflict)

	got, err := f.budgets.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "b1", got.ID)
}

func TestCommit_StaleVersionDiscardsEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Now().UTC()

	setup, _ := f.txm.Begin(ctx)
	require.NoError(t, f.budgets.Create(ctx, setup, domain.NewBudget("b1", "u1", now)))
	require.NoError(t, setup.Commit(ctx))

	tx1, _ := f.txm.Begin(ctx)
	tx2, _ := f.txm.Begin(ctx)

	b1, err := f.budgets.GetByUserIDTx(ctx, tx1, "u1")
	require.NoError(t, err)
	b2, err := f.budgets.GetByUserIDTx(ctx, tx2, "u1")
	require.NoError(t, err)

	b1.AvailableAmount = decimal.NewFromInt(5)
	require.NoError(t, f.budgets.UpdateAmount(ctx, tx1, b1, 0))

	b2.AvailableAmount = decimal.NewFromInt(7)
	require.NoError(t, f.entries.Create(ctx, tx2, &domain.Entry{
		ID: "e2", OwnerBudgetID: "b1", Type: domain.EntryTypeIncome,
		Amount: decimal.NewFromInt(7), OccurredAt: now,
	}))
	require.NoError(t, f.budgets.UpdateAmount(ctx, tx2, b2, 0))

	require.NoError(t, tx1.Commit(ctx))
	assert.ErrorIs(t, tx2.Commit(ctx), domain.ErrVersionConflict)

	count, err := f.entries.CountByBudget(ctx, "b1")
	require.NoError(t, err)
	assert.Zero(t, count, "entry from the losing tx must not be kept")

	got, _ := f.budgets.GetByUserID(ctx, "u1")
	assert.True(t, got.AvailableAmount.Equal(decimal.NewFromInt(5)))
}

func TestUpdateAmount_StaleVersionFailsEarly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	setup, _ := f.txm.Begin(ctx)
	require.NoError(t, f.budgets.Create(ctx, setup, domain.NewBudget("b1", "u1", time.Now())))
	require.NoError(t, setup.Commit(ctx))

	tx, _ := f.txm.Begin(ctx)
	b, _ := f.budgets.GetByUserID(ctx, "u1")
	assert.ErrorIs(t, f.budgets.UpdateAmount(ctx, tx, b, 3), domain.ErrVersionConflict)
}

func TestCommit_UnknownUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tx, _ := f.txm.Begin(ctx)
	require.NoError(t, f.budgets.Create(ctx, tx, domain.NewBudget("b9", "ghost", time.Now())))
	assert.ErrorIs(t, tx.Commit(ctx), domain.ErrUserNotFound)
}

func TestRollback_DropsStagedWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tx, _ := f.txm.Begin(ctx)
	require.NoError(t, f.budgets.Create(ctx, tx, domain.NewBudget("b1", "u1", time.Now())))
	require.NoError(t, tx.Rollback(ctx))
	require.NoError(t, tx.Rollback(ctx))

	_, err := f.budgets.GetByUserID(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)

	assert.Error(t, tx.Commit(ctx))
}

func TestListByBudget_OrderAndPaging(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tx, _ := f.txm.Begin(ctx)
	require.NoError(t, f.budgets.Create(ctx, tx, domain.NewBudget("b1", "u1", base)))
	for _, e := range []*domain.Entry{
		{ID: "01A", OccurredAt: base},
		{ID: "01C", OccurredAt: base.Add(time.Hour)},
		{ID: "01B", OccurredAt: base.Add(time.Hour)},
		{ID: "01D", OccurredAt: base.Add(-time.Hour)},
	} {
		e.OwnerBudgetID = "b1"
		e.Type = domain.EntryTypeIncome
		e.Amount = decimal.NewFromInt(1)
		require.NoError(t, f.entries.Create(ctx, tx, e))
	}
	require.NoError(t, tx.Commit(ctx))

	all, err := f.entries.ListByBudget(ctx, "b1", 10, 0)
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, e := range all {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"01C", "01B", "01A", "01D"}, ids)

	page, err := f.entries.ListByBudget(ctx, "b1", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "01A", page[0].ID)

	empty, err := f.entries.ListByBudget(ctx, "b1", 2, 40)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.users.Create(ctx, &domain.User{ID: "u2", Email: "u1@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	u, err := f.users.GetByEmail(ctx, "u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = f.users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	ok, err := f.users.Exists(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = f.users.Exists(ctx, "u2")
	assert.False(t, ok)
}

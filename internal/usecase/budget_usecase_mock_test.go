package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
	"github.com/iho/gobudget/internal/infrastructure/retry"
	"github.com/iho/gobudget/internal/usecase"
	"github.com/iho/gobudget/internal/usecase/mocks"
)

type mockedEngine struct {
	uc      *usecase.BudgetUseCase
	txm     *mocks.MockTransactionManager
	tx      *mocks.MockTransaction
	budgets *mocks.MockBudgetRepository
	entries *mocks.MockEntryRepository
	users   *mocks.MockUserRepository
	metrics *metrics.Metrics
}

func newMockedEngine(t *testing.T, maxRetries int) *mockedEngine {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := &mockedEngine{
		txm:     mocks.NewMockTransactionManager(ctrl),
		tx:      mocks.NewMockTransaction(ctrl),
		budgets: mocks.NewMockBudgetRepository(ctrl),
		entries: mocks.NewMockEntryRepository(ctrl),
		users:   mocks.NewMockUserRepository(ctrl),
		metrics: metrics.New(prometheus.NewRegistry()),
	}

	retrier := retry.New(retry.Config{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		MaxElapsedTime:  time.Second,
	})

	m.uc = usecase.NewBudgetUseCase(m.txm, m.budgets, m.entries, m.users, mocks.NewFakeIDGenerator(), retrier, m.metrics)

	return m
}

func storedBudget(version int64, amount string) func(context.Context, usecase.Transaction, string) (*domain.Budget, error) {
	return func(context.Context, usecase.Transaction, string) (*domain.Budget, error) {
		return &domain.Budget{
			ID:              "b1",
			OwnerUserID:     "u1",
			AvailableAmount: decimal.RequireFromString(amount),
			Version:         version,
		}, nil
	}
}

func TestBudgetUseCase_RetriesOnVersionConflict(t *testing.T) {
	m := newMockedEngine(t, 3)

	m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil).Times(2)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

	gomock.InOrder(
		m.budgets.EXPECT().GetByUserIDTx(gomock.Any(), m.tx, "u1").DoAndReturn(storedBudget(4, "10")),
		m.budgets.EXPECT().GetByUserIDTx(gomock.Any(), m.tx, "u1").DoAndReturn(storedBudget(5, "30")),
	)

	m.entries.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil).Times(2)

	gomock.InOrder(
		m.budgets.EXPECT().UpdateAmount(gomock.Any(), m.tx, gomock.Any(), int64(4)).Return(domain.ErrVersionConflict),
		m.budgets.EXPECT().UpdateAmount(gomock.Any(), m.tx, gomock.Any(), int64(5)).
			DoAndReturn(func(_ context.Context, _ usecase.Transaction, b *domain.Budget, expected int64) error {
				assert.True(t, b.AvailableAmount.Equal(decimal.NewFromInt(35)), "recomputed from the fresh read")
				b.Version = expected + 1
				return nil
			}),
	)

	m.tx.EXPECT().Commit(gomock.Any()).Return(nil).Times(1)

	_, balance, err := m.uc.RecordEntry(context.Background(), usecase.RecordEntryInput{
		UserID: "u1", Type: domain.EntryTypeIncome, Amount: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.True(t, balance.Amount.Equal(decimal.NewFromInt(35)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.VersionConflicts.WithLabelValues("record_entry")))
}

func TestBudgetUseCase_ConflictSurfacesWhenRetriesRunOut(t *testing.T) {
	m := newMockedEngine(t, 2)

	m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil).Times(3)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).Times(3)
	m.budgets.EXPECT().GetByUserIDTx(gomock.Any(), m.tx, "u1").DoAndReturn(storedBudget(1, "0")).Times(3)
	m.budgets.EXPECT().UpdateAmount(gomock.Any(), m.tx, gomock.Any(), int64(1)).Return(domain.ErrVersionConflict).Times(3)

	_, err := m.uc.SetAmount(context.Background(), "u1", decimal.NewNullDecimal(decimal.NewFromInt(9)))
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.RetriesExhausted.WithLabelValues("set_amount")))
}

func TestBudgetUseCase_EntryInsertFailureRollsBack(t *testing.T) {
	m := newMockedEngine(t, 3)
	insertErr := errors.New("disk full")

	m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil).Times(1)
	m.budgets.EXPECT().GetByUserIDTx(gomock.Any(), m.tx, "u1").DoAndReturn(storedBudget(2, "100"))
	m.entries.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(insertErr)
	m.budgets.EXPECT().UpdateAmount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	m.tx.EXPECT().Commit(gomock.Any()).Times(0)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).Times(1)

	_, _, err := m.uc.RecordEntry(context.Background(), usecase.RecordEntryInput{
		UserID: "u1", Type: domain.EntryTypeExpense, Amount: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, insertErr)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestBudgetUseCase_LazyCreateChecksUser(t *testing.T) {
	m := newMockedEngine(t, 3)

	m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
	m.budgets.EXPECT().GetByUserIDTx(gomock.Any(), m.tx, "u1").Return(nil, domain.ErrBudgetNotFound)
	m.users.EXPECT().Exists(gomock.Any(), "u1").Return(false, nil)
	m.budgets.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := m.uc.SetAmount(context.Background(), "u1", decimal.NewNullDecimal(decimal.NewFromInt(1)))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestBudgetUseCase_LazyCreateInsertsEmptyBudget(t *testing.T) {
	m := newMockedEngine(t, 3)

	m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
	m.budgets.EXPECT().GetByUserIDTx(gomock.Any(), m.tx, "u1").Return(nil, domain.ErrBudgetNotFound)
	m.users.EXPECT().Exists(gomock.Any(), "u1").Return(true, nil)
	m.budgets.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, b *domain.Budget) error {
			assert.Equal(t, "u1", b.OwnerUserID)
			assert.True(t, b.AvailableAmount.IsZero())
			assert.Equal(t, int64(0), b.Version)
			return nil
		})
	m.budgets.EXPECT().UpdateAmount(gomock.Any(), m.tx, gomock.Any(), int64(0)).Return(nil)
	m.tx.EXPECT().Commit(gomock.Any()).Return(nil)

	balance, err := m.uc.SetAmount(context.Background(), "u1", decimal.NewNullDecimal(decimal.RequireFromString("12.50")))
	require.NoError(t, err)
	assert.True(t, balance.Amount.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.BudgetsCreated))
}

func TestBudgetUseCase_RecordEntryRunsThroughRetrier(t *testing.T) {
	ctrl := gomock.NewController(t)
	txm := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	budgets := mocks.NewMockBudgetRepository(ctrl)
	entries := mocks.NewMockEntryRepository(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	uc := usecase.NewBudgetUseCase(txm, budgets, entries, mocks.NewMockUserRepository(ctrl), idGen, retrier, metrics.New(prometheus.NewRegistry()))

	attempts := 0
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, op func() error) error {
			attempts++
			return op()
		})
	idGen.EXPECT().Generate().Return("entry-01")

	txm.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	budgets.EXPECT().GetByUserIDTx(gomock.Any(), tx, "u1").DoAndReturn(storedBudget(1, "50"))
	entries.EXPECT().Create(gomock.Any(), tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, e *domain.Entry) error {
			assert.Equal(t, "entry-01", e.ID)
			assert.Equal(t, "b1", e.OwnerBudgetID)
			return nil
		})
	budgets.EXPECT().UpdateAmount(gomock.Any(), tx, gomock.Any(), int64(1)).Return(nil)

	entry, balance, err := uc.RecordEntry(context.Background(), usecase.RecordEntryInput{
		UserID: "u1", Type: domain.EntryTypeExpense, Amount: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, "entry-01", entry.ID)
	assert.True(t, balance.Amount.Equal(decimal.NewFromInt(30)))
}

func TestBudgetUseCase_RetrierErrorIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	retrier := mocks.NewMockRetrier(ctrl)

	uc := usecase.NewBudgetUseCase(
		mocks.NewMockTransactionManager(ctrl), mocks.NewMockBudgetRepository(ctrl), mocks.NewMockEntryRepository(ctrl),
		mocks.NewMockUserRepository(ctrl), mocks.NewMockIDGenerator(ctrl), retrier, metrics.New(prometheus.NewRegistry()),
	)

	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded)

	_, err := uc.SetAmount(context.Background(), "u1", decimal.NewNullDecimal(decimal.NewFromInt(5)))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

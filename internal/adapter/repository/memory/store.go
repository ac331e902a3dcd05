// Package memory is an in-process implementation of the usecase
// repositories. Writes are staged on a Tx and applied under one lock at
// commit, where owner uniqueness and budget versions are checked again, so
// it enforces the same conflict rules as the PostgreSQL adapter.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

var errForeignTx = errors.New("memory: transaction was not started by this store")

// Store holds all committed state.
type Store struct {
	mu sync.RWMutex

	users        map[string]*domain.User
	usersByEmail map[string]string

	budgets       map[string]*domain.Budget
	budgetsByUser map[string]string

	entries map[string][]*domain.Entry // by budget id, insertion order
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users:         make(map[string]*domain.User),
		usersByEmail:  make(map[string]string),
		budgets:       make(map[string]*domain.Budget),
		budgetsByUser: make(map[string]string),
		entries:       make(map[string][]*domain.Entry),
	}
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Tx{
		store:   m.store,
		budgets: make(map[string]*stagedBudget),
	}, nil
}

type stagedBudget struct {
	budget          domain.Budget
	isNew           bool
	expectedVersion int64
}

// Tx buffers writes until Commit.
type Tx struct {
	store   *Store
	budgets map[string]*stagedBudget
	order   []string
	entries []*domain.Entry
	done    bool
}

func (t *Tx) stage(id string, s *stagedBudget) {
	if _, ok := t.budgets[id]; !ok {
		t.order = append(t.order, id)
	}
	t.budgets[id] = s
}

// Commit validates every staged write against committed state and applies
// all of them, or none.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return errors.New("memory: transaction already closed")
	}
	t.done = true

	if err := ctx.Err(); err != nil {
		return err
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range t.order {
		staged := t.budgets[id]
		if staged.isNew {
			if _, taken := s.budgetsByUser[staged.budget.OwnerUserID]; taken {
				return domain.ErrVersionConflict
			}
			if _, ok := s.users[staged.budget.OwnerUserID]; !ok {
				return domain.ErrUserNotFound
			}
			continue
		}

		current, ok := s.budgets[id]
		if !ok || current.Version != staged.expectedVersion {
			return domain.ErrVersionConflict
		}
	}

	for _, e := range t.entries {
		if _, ok := s.budgets[e.OwnerBudgetID]; ok {
			continue
		}
		if staged, ok := t.budgets[e.OwnerBudgetID]; ok && staged.isNew {
			continue
		}
		return domain.ErrBudgetNotFound
	}

	for _, id := range t.order {
		b := t.budgets[id].budget
		s.budgets[id] = &b
		s.budgetsByUser[b.OwnerUserID] = id
	}

	for _, e := range t.entries {
		s.entries[e.OwnerBudgetID] = append(s.entries[e.OwnerBudgetID], e)
	}

	return nil
}

// Rollback discards staged writes. Rolling back a closed Tx is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	t.done = true
	t.budgets = nil
	t.entries = nil
	return nil
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, errForeignTx
	}
	if t.done {
		return nil, errors.New("memory: transaction already closed")
	}
	return t, nil
}

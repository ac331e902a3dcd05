package memory

import (
	"context"

	"github.com/iho/gobudget/internal/domain"
)

// UserRepository implements usecase.UserRepository.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new user repository.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create stores a user. Emails are unique.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.usersByEmail[user.Email]; ok {
		return domain.ErrUserExists
	}
	if _, ok := r.store.users[user.ID]; ok {
		return domain.ErrUserExists
	}

	u := *user
	r.store.users[u.ID] = &u
	r.store.usersByEmail[u.Email] = u.ID

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	c := *u
	return &c, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	id, ok := r.store.usersByEmail[email]
	r.store.mu.RUnlock()

	if !ok {
		return nil, domain.ErrUserNotFound
	}

	return r.GetByID(ctx, id)
}

// Exists reports whether a user with the id is stored.
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.users[id]
	return ok, nil
}

package memory

import (
	"context"

	"apnifarm-api/internal/domain/users"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(ctx context.Context, u users.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.SubjectID == u.SubjectID {
			return users.ErrInvalidInput
		}
	}
	r.store.users[u.ID] = u
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (users.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) GetBySubject(ctx context.Context, subjectID string) (users.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.SubjectID == subjectID {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

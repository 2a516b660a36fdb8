package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/cricket-slots/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUserRepository(users []user.User) *UserRepository {
	items := make(map[string]user.User, len(users))
	for _, u := range users {
		items[u.ID] = u
	}
	return &UserRepository{items: items}
}

func (r *UserRepository) ListEligible(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(r.items))
	for _, u := range r.items {
		if u.Active {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[userID]
	return u, ok, nil
}

func (r *UserRepository) ListByIDs(_ context.Context, userIDs []string) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(userIDs))
	for _, userID := range userIDs {
		if u, ok := r.items[userID]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// Put adds or replaces a user.
func (r *UserRepository) Put(u user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[u.ID] = u
}

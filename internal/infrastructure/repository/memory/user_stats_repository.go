package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/cricket-slots/internal/domain/userstats"
)

type UserStatsRepository struct {
	mu    sync.RWMutex
	items map[string]userstats.Stats
}

func NewUserStatsRepository() *UserStatsRepository {
	return &UserStatsRepository{items: make(map[string]userstats.Stats)}
}

func (r *UserStatsRepository) Upsert(_ context.Context, item userstats.Stats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[userStatsKey(item.MatchID, item.UserID)] = item
	return nil
}

func (r *UserStatsRepository) ListByMatch(_ context.Context, matchID string) ([]userstats.Stats, error) {
	return r.filter(func(item userstats.Stats) bool { return item.MatchID == matchID }), nil
}

func (r *UserStatsRepository) ListAll(_ context.Context) ([]userstats.Stats, error) {
	return r.filter(func(userstats.Stats) bool { return true }), nil
}

func (r *UserStatsRepository) filter(keep func(userstats.Stats) bool) []userstats.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]userstats.Stats, 0, len(r.items))
	for _, item := range r.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

func userStatsKey(matchID, userID string) string {
	return matchID + "::" + userID
}

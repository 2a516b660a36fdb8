package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/cricket-slots/internal/domain/match"
)

type MatchRepository struct {
	mu         sync.RWMutex
	items      map[string]match.Match
	byExternal map[string]string
	now        func() time.Time
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	repo := &MatchRepository{
		items:      make(map[string]match.Match, len(matches)),
		byExternal: make(map[string]string, len(matches)),
		now:        time.Now,
	}
	for _, item := range matches {
		repo.items[item.ID] = item
		repo.byExternal[item.ExternalKey] = item.ID
	}
	return repo
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[matchID]
	return item, ok, nil
}

func (r *MatchRepository) GetByExternalKey(_ context.Context, externalKey string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matchID, ok := r.byExternal[externalKey]
	if !ok {
		return match.Match{}, false, nil
	}
	return r.items[matchID], true, nil
}

func (r *MatchRepository) List(_ context.Context, filter match.Filter) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, item := range r.items {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MatchRepository) Upsert(_ context.Context, item match.Match) (match.Match, error) {
	if err := item.Validate(); err != nil {
		return match.Match{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	if existingID, ok := r.byExternal[item.ExternalKey]; ok {
		current := r.items[existingID]
		item.ID = current.ID
		item.CreatedAt = current.CreatedAt
		item.UpdatedAt = current.UpdatedAt
		if !sameMatchFields(current, item) {
			item.UpdatedAt = now
		}
		r.items[item.ID] = item
		return item, nil
	}

	if item.ID == "" {
		return match.Match{}, fmt.Errorf("match id is required")
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	r.items[item.ID] = item
	r.byExternal[item.ExternalKey] = item.ID
	return item, nil
}

func (r *MatchRepository) UpdateStatus(_ context.Context, matchID string, status match.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[matchID]
	if !ok {
		return fmt.Errorf("match=%s not found", matchID)
	}
	if item.Status == status {
		return nil
	}
	item.Status = status
	item.UpdatedAt = r.now().UTC()
	r.items[matchID] = item
	return nil
}

func sameMatchFields(a, b match.Match) bool {
	return a.Title == b.Title &&
		a.Series == b.Series &&
		a.Teams == b.Teams &&
		a.Status == b.Status &&
		a.StartTime.Equal(b.StartTime) &&
		a.Venue == b.Venue
}

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/cricket-slots/internal/domain/score"
	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
)

type ScoreRepository struct {
	mu          sync.RWMutex
	scores      map[string]map[slot.Key]score.SlotScore
	resolutions map[string]map[slot.Key]score.Resolution
}

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{
		scores:      make(map[string]map[slot.Key]score.SlotScore),
		resolutions: make(map[string]map[slot.Key]score.Resolution),
	}
}

func (r *ScoreRepository) UpsertEntry(_ context.Context, resolution score.Resolution, item score.SlotScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.scores[item.MatchID] == nil {
		r.scores[item.MatchID] = make(map[slot.Key]score.SlotScore)
	}
	if r.resolutions[resolution.MatchID] == nil {
		r.resolutions[resolution.MatchID] = make(map[slot.Key]score.Resolution)
	}
	r.scores[item.MatchID][item.Key()] = item
	r.resolutions[resolution.MatchID][resolution.Key()] = resolution
	return nil
}

func (r *ScoreRepository) ListSlotScores(_ context.Context, matchID string) ([]score.SlotScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]score.SlotScore, 0, len(r.scores[matchID]))
	for _, item := range r.scores[matchID] {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out, nil
}

func (r *ScoreRepository) ListResolutions(_ context.Context, matchID string) ([]score.Resolution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]score.Resolution, 0, len(r.resolutions[matchID]))
	for _, item := range r.resolutions[matchID] {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out, nil
}

// retainSlots drops scores and resolutions of slots missing from lineup.
func (r *ScoreRepository) retainSlots(matchID string, lineup map[slot.Key]slot.Slot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.scores[matchID] {
		if _, ok := lineup[key]; !ok {
			delete(r.scores[matchID], key)
		}
	}
	for key := range r.resolutions[matchID] {
		if _, ok := lineup[key]; !ok {
			delete(r.resolutions[matchID], key)
		}
	}
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/cricket-slots/internal/domain/score"
	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
	"github.com/riskibarqy/cricket-slots/internal/domain/userstats"
	"github.com/riskibarqy/cricket-slots/internal/platform/lock"
)

func matchLockKey(matchID string) string {
	return "match:" + matchID
}

func acquireMatchLock(ctx context.Context, locker lock.Locker, matchID string) (func(), error) {
	if locker == nil {
		return func() {}, nil
	}
	release, err := locker.Acquire(ctx, matchLockKey(matchID))
	if err != nil {
		return nil, fmt.Errorf("%w: acquire lock match=%s: %v", ErrDependencyUnavailable, matchID, err)
	}
	return release, nil
}

// statsRecomputer rebuilds user match stats from slot scores and assignments.
type statsRecomputer struct {
	slotRepo  slot.Repository
	scoreRepo score.Repository
	statsRepo userstats.Repository
	now       func() time.Time
}

func (r statsRecomputer) recompute(ctx context.Context, matchID string, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}

	scores, err := r.scoreRepo.ListSlotScores(ctx, matchID)
	if err != nil {
		return fmt.Errorf("list slot scores match=%s: %w", matchID, err)
	}

	seen := make(map[string]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}

		assignments, err := r.slotRepo.ListAssignmentsByUser(ctx, matchID, userID)
		if err != nil {
			return fmt.Errorf("list assignments match=%s user=%s: %w", matchID, userID, err)
		}

		stats := userstats.Recompute(matchID, userID, assignments, scores)
		stats.UpdatedAt = r.now().UTC()
		if err := r.statsRepo.Upsert(ctx, stats); err != nil {
			return fmt.Errorf("upsert user match stats match=%s user=%s: %w", matchID, userID, err)
		}
	}
	return nil
}

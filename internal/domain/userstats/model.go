package userstats

import (
	"time"

	"github.com/riskibarqy/cricket-slots/internal/domain/score"
	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
)

// Stats is the per-match aggregate of a user. It is a derived cache rebuilt
// from slot scores and assignments.
type Stats struct {
	MatchID    string
	UserID     string
	TotalRuns  int
	TotalBalls int
	UpdatedAt  time.Time
}

// Recompute sums the scores of every slot the user occupies in the match.
// Slots without a score contribute zero.
func Recompute(matchID, userID string, assignments []slot.Assignment, scores []score.SlotScore) Stats {
	index := score.IndexScores(scores)
	out := Stats{MatchID: matchID, UserID: userID}
	for _, item := range assignments {
		if item.MatchID != matchID || item.UserID != userID {
			continue
		}
		figure, ok := index[item.Key()]
		if !ok {
			continue
		}
		out.TotalRuns += figure.Runs
		out.TotalBalls += figure.Balls
	}
	return out
}

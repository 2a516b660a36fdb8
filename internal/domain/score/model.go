package score

import (
	"time"

	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
)

// SlotScore caches the live batting figures at a slot, independent of its occupant.
type SlotScore struct {
	MatchID   string
	Innings   int
	Position  int
	Runs      int
	Balls     int
	Fours     int
	Sixes     int
	IsOut     bool
	UpdatedAt time.Time
}

func (s SlotScore) Key() slot.Key {
	return slot.Key{Innings: s.Innings, Position: s.Position}
}

// Resolution records which real player bats at a slot. Display only.
type Resolution struct {
	MatchID          string
	Innings          int
	Position         int
	ExternalPlayerID string
	PlayerName       string
	Dismissal        string
	UpdatedAt        time.Time
}

func (r Resolution) Key() slot.Key {
	return slot.Key{Innings: r.Innings, Position: r.Position}
}

// IndexScores maps scores by slot key.
func IndexScores(items []SlotScore) map[slot.Key]SlotScore {
	out := make(map[slot.Key]SlotScore, len(items))
	for _, item := range items {
		out[item.Key()] = item
	}
	return out
}

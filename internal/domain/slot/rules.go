package slot

import (
	"fmt"
	"sort"
)

// Shuffler permutes n elements through swap, like rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// BuildLineup returns inningsCount*positionsPerInnings slots ordered by innings then position.
func BuildLineup(matchID string, inningsCount, positionsPerInnings int) ([]Slot, error) {
	if inningsCount < MinInnings || inningsCount > MaxInnings {
		return nil, fmt.Errorf("%w: innings count %d", ErrInvalidInnings, inningsCount)
	}
	if positionsPerInnings < 1 {
		return nil, fmt.Errorf("%w: positions per innings %d", ErrInvalidPosition, positionsPerInnings)
	}

	out := make([]Slot, 0, inningsCount*positionsPerInnings)
	for innings := 1; innings <= inningsCount; innings++ {
		for position := 1; position <= positionsPerInnings; position++ {
			out = append(out, Slot{MatchID: matchID, Innings: innings, Position: position})
		}
	}
	return out, nil
}

// Pair shuffles slots and users independently and pairs them element by element
// up to min(len(slots), len(userIDs)). Inputs are not modified.
func Pair(slots []Slot, userIDs []string, shuffle Shuffler) []Assignment {
	slotPool := append([]Slot(nil), slots...)
	userPool := append([]string(nil), userIDs...)

	shuffle(len(slotPool), func(i, j int) { slotPool[i], slotPool[j] = slotPool[j], slotPool[i] })
	shuffle(len(userPool), func(i, j int) { userPool[i], userPool[j] = userPool[j], userPool[i] })

	n := min(len(slotPool), len(userPool))
	out := make([]Assignment, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Assignment{
			MatchID:  slotPool[i].MatchID,
			UserID:   userPool[i],
			Innings:  slotPool[i].Innings,
			Position: slotPool[i].Position,
		})
	}
	return out
}

func SortSlots(items []Slot) {
	sort.Slice(items, func(i, j int) bool { return items[i].Key().Less(items[j].Key()) })
}

func SortAssignments(items []Assignment) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].MatchID != items[j].MatchID {
			return items[i].MatchID < items[j].MatchID
		}
		return items[i].Key().Less(items[j].Key())
	})
}

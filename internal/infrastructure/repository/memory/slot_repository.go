package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
)

// SlotRepository keeps lineups and assignments under one lock so replace
// operations are atomic. When scores is set, dropping a slot also drops its
// score and resolution, matching the cascade of the postgres schema.
type SlotRepository struct {
	mu          sync.RWMutex
	slots       map[string]map[slot.Key]slot.Slot
	assignments map[string]slot.Assignment
	scores      *ScoreRepository
}

func NewSlotRepository(scores *ScoreRepository) *SlotRepository {
	return &SlotRepository{
		slots:       make(map[string]map[slot.Key]slot.Slot),
		assignments: make(map[string]slot.Assignment),
		scores:      scores,
	}
}

func (r *SlotRepository) ReplaceSlots(_ context.Context, matchID string, slots []slot.Slot) (int, error) {
	next := make(map[slot.Key]slot.Slot, len(slots))
	for _, item := range slots {
		if item.MatchID != matchID {
			return 0, fmt.Errorf("slot match id %q does not match %q", item.MatchID, matchID)
		}
		if err := item.Key().Validate(); err != nil {
			return 0, err
		}
		if _, dup := next[item.Key()]; dup {
			return 0, fmt.Errorf("duplicate slot innings=%d position=%d", item.Innings, item.Position)
		}
		next[item.Key()] = item
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[matchID] = next
	if r.scores != nil {
		r.scores.retainSlots(matchID, next)
	}
	pruned := 0
	for id, item := range r.assignments {
		if item.MatchID != matchID {
			continue
		}
		if _, ok := next[item.Key()]; !ok {
			delete(r.assignments, id)
			pruned++
		}
	}
	return pruned, nil
}

func (r *SlotRepository) ListSlots(_ context.Context, matchID string) ([]slot.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]slot.Slot, 0, len(r.slots[matchID]))
	for _, item := range r.slots[matchID] {
		out = append(out, item)
	}
	slot.SortSlots(out)
	return out, nil
}

func (r *SlotRepository) SlotExists(_ context.Context, matchID string, key slot.Key) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.slots[matchID][key]
	return ok, nil
}

func (r *SlotRepository) ListAssignments(_ context.Context, matchID string) ([]slot.Assignment, error) {
	return r.filterAssignments(func(item slot.Assignment) bool { return item.MatchID == matchID }), nil
}

func (r *SlotRepository) ListAssignmentsByUser(_ context.Context, matchID, userID string) ([]slot.Assignment, error) {
	return r.filterAssignments(func(item slot.Assignment) bool {
		return item.MatchID == matchID && item.UserID == userID
	}), nil
}

func (r *SlotRepository) ListAllAssignments(_ context.Context) ([]slot.Assignment, error) {
	return r.filterAssignments(func(slot.Assignment) bool { return true }), nil
}

func (r *SlotRepository) GetAssignment(_ context.Context, assignmentID string) (slot.Assignment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.assignments[assignmentID]
	return item, ok, nil
}

func (r *SlotRepository) GetAssignmentBySlot(_ context.Context, matchID string, key slot.Key) (slot.Assignment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.findBySlot(matchID, key)
	return item, ok, nil
}

func (r *SlotRepository) ReplaceAssignments(_ context.Context, matchID string, items []slot.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bySlot := make(map[slot.Key]struct{}, len(items))
	byUserInnings := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.MatchID != matchID {
			return fmt.Errorf("assignment match id %q does not match %q", item.MatchID, matchID)
		}
		if err := item.Validate(); err != nil {
			return err
		}
		if _, ok := r.slots[matchID][item.Key()]; !ok {
			return fmt.Errorf("slot innings=%d position=%d does not exist", item.Innings, item.Position)
		}
		if _, dup := bySlot[item.Key()]; dup {
			return fmt.Errorf("slot innings=%d position=%d assigned twice", item.Innings, item.Position)
		}
		userKey := fmt.Sprintf("%s::%d", item.UserID, item.Innings)
		if _, dup := byUserInnings[userKey]; dup {
			return fmt.Errorf("user=%s assigned twice in innings %d", item.UserID, item.Innings)
		}
		bySlot[item.Key()] = struct{}{}
		byUserInnings[userKey] = struct{}{}
	}

	for id, item := range r.assignments {
		if item.MatchID == matchID {
			delete(r.assignments, id)
		}
	}
	for _, item := range items {
		r.assignments[item.ID] = item
	}
	return nil
}

func (r *SlotRepository) UpsertAssignment(_ context.Context, item slot.Assignment) (slot.Assignment, error) {
	if err := item.Validate(); err != nil {
		return slot.Assignment{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slots[item.MatchID][item.Key()]; !ok {
		return slot.Assignment{}, fmt.Errorf("slot innings=%d position=%d does not exist", item.Innings, item.Position)
	}
	for _, other := range r.assignments {
		if other.MatchID == item.MatchID && other.UserID == item.UserID &&
			other.Innings == item.Innings && other.Position != item.Position {
			return slot.Assignment{}, fmt.Errorf("user=%s already assigned in innings %d", item.UserID, item.Innings)
		}
	}

	if current, ok := r.findBySlot(item.MatchID, item.Key()); ok {
		delete(r.assignments, current.ID)
		if current.UserID == item.UserID {
			item.ID = current.ID
			item.CreatedAt = current.CreatedAt
		}
	}
	r.assignments[item.ID] = item
	return item, nil
}

func (r *SlotRepository) DeleteAssignment(_ context.Context, assignmentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assignments[assignmentID]; !ok {
		return false, nil
	}
	delete(r.assignments, assignmentID)
	return true, nil
}

func (r *SlotRepository) findBySlot(matchID string, key slot.Key) (slot.Assignment, bool) {
	for _, item := range r.assignments {
		if item.MatchID == matchID && item.Key() == key {
			return item, true
		}
	}
	return slot.Assignment{}, false
}

func (r *SlotRepository) filterAssignments(keep func(slot.Assignment) bool) []slot.Assignment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]slot.Assignment, 0)
	for _, item := range r.assignments {
		if keep(item) {
			out = append(out, item)
		}
	}
	slot.SortAssignments(out)
	return out
}

package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/cricket-slots/internal/domain/score"
	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
)

func TestSlotRepository_ReplaceSlotsPrunesOrphanedAssignments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSlotRepository(nil)

	lineup, _ := slot.BuildLineup("m-1", 2, 3)
	if _, err := repo.ReplaceSlots(ctx, "m-1", lineup); err != nil {
		t.Fatalf("replace slots: %v", err)
	}
	if err := repo.ReplaceAssignments(ctx, "m-1", []slot.Assignment{
		{ID: "a-1", MatchID: "m-1", UserID: "u1", Innings: 1, Position: 1},
		{ID: "a-2", MatchID: "m-1", UserID: "u2", Innings: 2, Position: 3},
	}); err != nil {
		t.Fatalf("replace assignments: %v", err)
	}

	smaller, _ := slot.BuildLineup("m-1", 2, 2)
	pruned, err := repo.ReplaceSlots(ctx, "m-1", smaller)
	if err != nil {
		t.Fatalf("replace slots: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("unexpected pruned count got=%d want=1", pruned)
	}

	left, _ := repo.ListAssignments(ctx, "m-1")
	if len(left) != 1 || left[0].ID != "a-1" {
		t.Fatalf("unexpected remaining assignments: %+v", left)
	}
}

func TestSlotRepository_ReplaceSlotsDropsScoresOfRemovedSlots(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	scores := NewScoreRepository()
	repo := NewSlotRepository(scores)

	lineup, _ := slot.BuildLineup("m-1", 1, 3)
	if _, err := repo.ReplaceSlots(ctx, "m-1", lineup); err != nil {
		t.Fatalf("replace slots: %v", err)
	}
	for _, pos := range []int{1, 3} {
		err := scores.UpsertEntry(ctx,
			score.Resolution{MatchID: "m-1", Innings: 1, Position: pos, PlayerName: "Player"},
			score.SlotScore{MatchID: "m-1", Innings: 1, Position: pos, Runs: 10 * pos},
		)
		if err != nil {
			t.Fatalf("upsert entry: %v", err)
		}
	}

	smaller, _ := slot.BuildLineup("m-1", 1, 2)
	if _, err := repo.ReplaceSlots(ctx, "m-1", smaller); err != nil {
		t.Fatalf("replace slots: %v", err)
	}
	if _, err := repo.ReplaceSlots(ctx, "m-1", lineup); err != nil {
		t.Fatalf("restore slots: %v", err)
	}

	gotScores, _ := scores.ListSlotScores(ctx, "m-1")
	if len(gotScores) != 1 || gotScores[0].Position != 1 || gotScores[0].Runs != 10 {
		t.Fatalf("unexpected scores after re-adding slot: %+v", gotScores)
	}
	gotResolutions, _ := scores.ListResolutions(ctx, "m-1")
	if len(gotResolutions) != 1 || gotResolutions[0].Position != 1 {
		t.Fatalf("unexpected resolutions after re-adding slot: %+v", gotResolutions)
	}
}

func TestSlotRepository_ReplaceAssignmentsIsAllOrNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSlotRepository(nil)
	lineup, _ := slot.BuildLineup("m-1", 1, 2)
	_, _ = repo.ReplaceSlots(ctx, "m-1", lineup)
	_ = repo.ReplaceAssignments(ctx, "m-1", []slot.Assignment{
		{ID: "a-1", MatchID: "m-1", UserID: "u1", Innings: 1, Position: 1},
	})

	err := repo.ReplaceAssignments(ctx, "m-1", []slot.Assignment{
		{ID: "a-2", MatchID: "m-1", UserID: "u2", Innings: 1, Position: 1},
		{ID: "a-3", MatchID: "m-1", UserID: "u3", Innings: 1, Position: 1},
	})
	if err == nil {
		t.Fatalf("expected duplicate slot error")
	}

	left, _ := repo.ListAssignments(ctx, "m-1")
	if len(left) != 1 || left[0].ID != "a-1" {
		t.Fatalf("previous assignments should be intact: %+v", left)
	}
}

func TestSlotRepository_UpsertAssignmentReplacesOccupant(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSlotRepository(nil)
	lineup, _ := slot.BuildLineup("m-1", 2, 2)
	_, _ = repo.ReplaceSlots(ctx, "m-1", lineup)

	if _, err := repo.UpsertAssignment(ctx, slot.Assignment{ID: "a-1", MatchID: "m-1", UserID: "u1", Innings: 1, Position: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	stored, err := repo.UpsertAssignment(ctx, slot.Assignment{ID: "a-2", MatchID: "m-1", UserID: "u2", Innings: 1, Position: 1})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if stored.ID != "a-2" {
		t.Fatalf("new occupant should get a new id, got %s", stored.ID)
	}

	items, _ := repo.ListAssignments(ctx, "m-1")
	if len(items) != 1 || items[0].UserID != "u2" {
		t.Fatalf("unexpected assignments: %+v", items)
	}

	if _, err := repo.UpsertAssignment(ctx, slot.Assignment{ID: "a-3", MatchID: "m-1", UserID: "u2", Innings: 1, Position: 2}); err == nil {
		t.Fatalf("expected error for second slot in same innings")
	}
	if _, err := repo.UpsertAssignment(ctx, slot.Assignment{ID: "a-4", MatchID: "m-1", UserID: "u2", Innings: 2, Position: 9}); err == nil {
		t.Fatalf("expected error for unknown slot")
	}
}

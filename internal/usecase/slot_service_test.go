package usecase

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/domain/score"
	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
)

func TestSlotService_InitializeSlots(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(activeUsers("u1", "u2")...)
	item := env.addMatch(t, "m-1", "91001", match.StatusUpcoming, time.Now())
	service := env.slotService()

	got, err := service.InitializeSlots(ctx, InitializeSlotsInput{MatchID: item.ID, PositionsPerInnings: 5})
	if err != nil {
		t.Fatalf("initialize slots: %v", err)
	}
	if got.Count != 10 {
		t.Fatalf("unexpected slot count got=%d want=10", got.Count)
	}

	if _, err := service.AssignUser(ctx, AssignUserInput{MatchID: item.ID, UserID: "u1", Innings: 2, Position: 5}); err != nil {
		t.Fatalf("assign user: %v", err)
	}

	got, err = service.InitializeSlots(ctx, InitializeSlotsInput{MatchID: item.ID, InningsCount: 2, PositionsPerInnings: 3})
	if err != nil {
		t.Fatalf("reinitialize slots: %v", err)
	}
	if got.Count != 6 || got.PrunedAssignments != 1 {
		t.Fatalf("unexpected reinitialize result: %+v", got)
	}

	if _, err := service.InitializeSlots(ctx, InitializeSlotsInput{MatchID: item.ID, PositionsPerInnings: 0}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := service.InitializeSlots(ctx, InitializeSlotsInput{MatchID: "missing", PositionsPerInnings: 3}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSlotService_ReinitializeRecomputesPrunedUsers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(activeUsers("A", "B")...)
	item := env.addMatch(t, "m-1", "91001", match.StatusLive, time.Now())
	seedLineup(t, env, item.ID, 3,
		slot.Assignment{ID: "a-1", MatchID: item.ID, UserID: "B", Innings: 1, Position: 1},
		slot.Assignment{ID: "a-2", MatchID: item.ID, UserID: "A", Innings: 1, Position: 3},
		slot.Assignment{ID: "a-3", MatchID: item.ID, UserID: "A", Innings: 2, Position: 1},
	)
	env.source.scorecards["91001"] = &ExternalScorecard{
		Status: match.StatusLive,
		Innings: []ExternalInnings{
			{Number: 1, Batting: []ExternalBattingEntry{
				batting("Rohit", 8, 10, true),
				batting("Gill", 5, 9, true),
				batting("Kohli", 17, 12, false),
			}},
			{Number: 2, Batting: []ExternalBattingEntry{
				batting("Smith", 52, 40, false),
			}},
		},
	}
	if _, err := env.liveScoreService(LiveScoreConfig{}, nil).SyncMatch(ctx, item.ID); err != nil {
		t.Fatalf("sync match: %v", err)
	}

	service := env.slotService()
	got, err := service.InitializeSlots(ctx, InitializeSlotsInput{MatchID: item.ID, PositionsPerInnings: 2})
	if err != nil {
		t.Fatalf("reinitialize slots: %v", err)
	}
	if got.PrunedAssignments != 1 {
		t.Fatalf("unexpected pruned count got=%d want=1", got.PrunedAssignments)
	}

	stats, _ := env.stats.ListByMatch(ctx, item.ID)
	want := map[string][2]int{"A": {52, 40}, "B": {8, 10}}
	for _, row := range stats {
		if got := [2]int{row.TotalRuns, row.TotalBalls}; got != want[row.UserID] {
			t.Fatalf("unexpected stats for %s got=%v want=%v", row.UserID, got, want[row.UserID])
		}
	}

	board, err := env.leaderboardService().GetMatchLeaderboard(ctx, item.ID)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 2 || board[0].UserID != "A" || board[0].TotalRuns != 52 {
		t.Fatalf("unexpected leaderboard: %+v", board)
	}
	if len(board[0].PlayingAs) != 1 || board[0].PlayingAs[0].Innings != 2 || board[0].PlayingAs[0].Position != 1 {
		t.Fatalf("unexpected playing as: %+v", board[0].PlayingAs)
	}

	if _, err := service.InitializeSlots(ctx, InitializeSlotsInput{MatchID: item.ID, PositionsPerInnings: 3}); err != nil {
		t.Fatalf("restore slots: %v", err)
	}
	if _, err := service.AssignUser(ctx, AssignUserInput{MatchID: item.ID, UserID: "A", Innings: 1, Position: 3}); err != nil {
		t.Fatalf("assign user: %v", err)
	}
	stats, _ = env.stats.ListByMatch(ctx, item.ID)
	for _, row := range stats {
		if row.UserID == "A" && row.TotalRuns != 52 {
			t.Fatalf("re-added slot carried a stale score: got=%d want=52", row.TotalRuns)
		}
	}
}

func TestSlotService_AutoAssignThreeSlotsFiveUsers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(activeUsers("u1", "u2", "u3", "u4", "u5")...)
	item := env.addMatch(t, "m-1", "91001", match.StatusUpcoming, time.Now())
	service := env.slotService()
	service.shuffle = rand.New(rand.NewPCG(42, 7)).Shuffle

	if _, err := service.InitializeSlots(ctx, InitializeSlotsInput{MatchID: item.ID, InningsCount: 1, PositionsPerInnings: 3}); err != nil {
		t.Fatalf("initialize slots: %v", err)
	}

	first, err := service.AutoAssign(ctx, item.ID)
	if err != nil {
		t.Fatalf("auto assign: %v", err)
	}
	if first.Count != 3 || first.NothingToDo != nil {
		t.Fatalf("unexpected result: %+v", first)
	}
	firstItems, _ := env.slots.ListAssignments(ctx, item.ID)
	assertAssignmentsUnique(t, firstItems)
	if len(firstItems) != 3 {
		t.Fatalf("unexpected assignment count got=%d want=3", len(firstItems))
	}

	second, err := service.AutoAssign(ctx, item.ID)
	if err != nil {
		t.Fatalf("auto assign again: %v", err)
	}
	if second.Count != 3 {
		t.Fatalf("unexpected rerun count got=%d want=3", second.Count)
	}
	secondItems, _ := env.slots.ListAssignments(ctx, item.ID)
	assertAssignmentsUnique(t, secondItems)
	if len(secondItems) != 3 {
		t.Fatalf("rerun should fully replace, got %d assignments", len(secondItems))
	}
	previous := map[string]struct{}{}
	for _, a := range firstItems {
		previous[a.ID] = struct{}{}
	}
	for _, a := range secondItems {
		if _, stale := previous[a.ID]; stale {
			t.Fatalf("assignment %s survived a rerun", a.ID)
		}
	}
}

func TestSlotService_AutoAssignUniquenessProperty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for seed := uint64(1); seed <= 20; seed++ {
		env := newTestEnv(activeUsers("u1", "u2", "u3", "u4", "u5", "u6", "u7")...)
		item := env.addMatch(t, "m-1", "91001", match.StatusUpcoming, time.Now())
		service := env.slotService()
		service.shuffle = rand.New(rand.NewPCG(seed, seed*3)).Shuffle

		positions := int(seed%6) + 1
		if _, err := service.InitializeSlots(ctx, InitializeSlotsInput{MatchID: item.ID, PositionsPerInnings: positions}); err != nil {
			t.Fatalf("initialize slots: %v", err)
		}
		result, err := service.AutoAssign(ctx, item.ID)
		if err != nil {
			t.Fatalf("auto assign seed=%d: %v", seed, err)
		}
		if want := min(2*positions, 7); result.Count != want {
			t.Fatalf("seed=%d unexpected count got=%d want=%d", seed, result.Count, want)
		}

		items, _ := env.slots.ListAssignments(ctx, item.ID)
		assertAssignmentsUnique(t, items)
		users := map[string]struct{}{}
		for _, a := range items {
			if _, dup := users[a.UserID]; dup {
				t.Fatalf("seed=%d user %s assigned twice in match", seed, a.UserID)
			}
			users[a.UserID] = struct{}{}
		}
	}
}

func TestSlotService_AutoAssignNothingToDo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	noUsers := newTestEnv()
	item := noUsers.addMatch(t, "m-1", "91001", match.StatusUpcoming, time.Now())
	got, err := noUsers.slotService().AutoAssign(ctx, item.ID)
	if err != nil {
		t.Fatalf("auto assign: %v", err)
	}
	if got.NothingToDo == nil || got.Count != 0 {
		t.Fatalf("expected nothing to do for no users, got %+v", got)
	}
	if !IsNothingToDo(got.NothingToDo) {
		t.Fatalf("expected nothing-to-do error chain")
	}

	noSlots := newTestEnv(activeUsers("u1")...)
	item = noSlots.addMatch(t, "m-1", "91001", match.StatusUpcoming, time.Now())
	got, err = noSlots.slotService().AutoAssign(ctx, item.ID)
	if err != nil {
		t.Fatalf("auto assign: %v", err)
	}
	if got.NothingToDo == nil || got.NothingToDo.Reason != "match has no slots" {
		t.Fatalf("expected nothing to do for no slots, got %+v", got)
	}
}

func TestSlotService_AssignUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(activeUsers("A", "B")...)
	item := env.addMatch(t, "m-1", "91001", match.StatusLive, time.Now())
	service := env.slotService()
	if _, err := service.InitializeSlots(ctx, InitializeSlotsInput{MatchID: item.ID, PositionsPerInnings: 2}); err != nil {
		t.Fatalf("initialize slots: %v", err)
	}
	if err := env.scores.UpsertEntry(ctx,
		score.Resolution{MatchID: item.ID, Innings: 1, Position: 1, PlayerName: "Rohit"},
		score.SlotScore{MatchID: item.ID, Innings: 1, Position: 1, Runs: 30, Balls: 20},
	); err != nil {
		t.Fatalf("seed score: %v", err)
	}

	first, err := service.AssignUser(ctx, AssignUserInput{MatchID: item.ID, UserID: "A", Innings: 1, Position: 1})
	if err != nil {
		t.Fatalf("assign A: %v", err)
	}
	stats, _ := env.stats.ListByMatch(ctx, item.ID)
	if len(stats) != 1 || stats[0].TotalRuns != 30 {
		t.Fatalf("expected stats recomputed for new occupant, got %+v", stats)
	}

	if _, err := service.AssignUser(ctx, AssignUserInput{MatchID: item.ID, UserID: "A", Innings: 1, Position: 2}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for second slot in same innings, got %v", err)
	}
	if _, err := service.AssignUser(ctx, AssignUserInput{MatchID: item.ID, UserID: "A", Innings: 2, Position: 9}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown slot, got %v", err)
	}
	if _, err := service.AssignUser(ctx, AssignUserInput{MatchID: item.ID, UserID: "ghost", Innings: 1, Position: 2}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}

	replaced, err := service.AssignUser(ctx, AssignUserInput{MatchID: item.ID, UserID: "B", Innings: 1, Position: 1})
	if err != nil {
		t.Fatalf("assign B: %v", err)
	}
	if replaced.ID == first.ID {
		t.Fatalf("replacement should carry a new assignment id")
	}
	items, _ := env.slots.ListAssignments(ctx, item.ID)
	if len(items) != 1 || items[0].UserID != "B" {
		t.Fatalf("unexpected assignments after replace: %+v", items)
	}

	// The replaced occupant keeps its stats row.
	stats, _ = env.stats.ListByMatch(ctx, item.ID)
	if len(stats) != 2 {
		t.Fatalf("unexpected stats rows got=%d want=2", len(stats))
	}
}

func TestSlotService_RemoveAssignment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(activeUsers("A")...)
	item := env.addMatch(t, "m-1", "91001", match.StatusLive, time.Now())
	service := env.slotService()
	_, _ = service.InitializeSlots(ctx, InitializeSlotsInput{MatchID: item.ID, PositionsPerInnings: 1})

	stored, err := service.AssignUser(ctx, AssignUserInput{MatchID: item.ID, UserID: "A", Innings: 1, Position: 1})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := service.RemoveAssignment(ctx, stored.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := service.RemoveAssignment(ctx, stored.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
	items, _ := service.ListAssignments(ctx, item.ID)
	if len(items) != 0 {
		t.Fatalf("expected no assignments, got %+v", items)
	}
}

func assertAssignmentsUnique(t *testing.T, items []slot.Assignment) {
	t.Helper()

	bySlot := map[[3]any]struct{}{}
	byUserInnings := map[[3]any]struct{}{}
	for _, a := range items {
		slotKey := [3]any{a.MatchID, a.Innings, a.Position}
		if _, dup := bySlot[slotKey]; dup {
			t.Fatalf("two assignments share slot %v", slotKey)
		}
		bySlot[slotKey] = struct{}{}

		userKey := [3]any{a.MatchID, a.UserID, a.Innings}
		if _, dup := byUserInnings[userKey]; dup {
			t.Fatalf("user holds two slots in one innings %v", userKey)
		}
		byUserInnings[userKey] = struct{}{}
	}
}

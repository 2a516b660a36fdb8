package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
	"github.com/riskibarqy/cricket-slots/internal/domain/user"
	"github.com/riskibarqy/cricket-slots/internal/domain/userstats"
	usermock "github.com/riskibarqy/cricket-slots/internal/mocks/domain/user"
	"github.com/stretchr/testify/mock"
)

func seedStats(t *testing.T, env *testEnv, rows ...userstats.Stats) {
	t.Helper()
	for _, row := range rows {
		if err := env.stats.Upsert(context.Background(), row); err != nil {
			t.Fatalf("seed stats: %v", err)
		}
	}
}

func TestSettlementService_WorkedExample(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(activeUsers("A", "B")...)
	start := time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)
	item := env.addMatch(t, "m-1", "91001", match.StatusFinished, start)
	seedLineup(t, env, item.ID, 2,
		slot.Assignment{ID: "a-1", MatchID: item.ID, UserID: "A", Innings: 1, Position: 1},
		slot.Assignment{ID: "a-2", MatchID: item.ID, UserID: "B", Innings: 1, Position: 2},
	)
	seedStats(t, env,
		userstats.Stats{MatchID: item.ID, UserID: "A", TotalRuns: 30, TotalBalls: 20},
		userstats.Stats{MatchID: item.ID, UserID: "B", TotalRuns: 45, TotalBalls: 30},
	)

	service := env.settlementService()
	reportB, err := service.GetUserWeeklyReport(ctx, "B")
	if err != nil {
		t.Fatalf("weekly report: %v", err)
	}
	if reportB.NetWorth != 50 || reportB.Wins != 1 || len(reportB.Weeks) != 1 {
		t.Fatalf("unexpected report for B: %+v", reportB)
	}
	if !reportB.Weeks[0].WeekStart.Equal(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected week start %s", reportB.Weeks[0].WeekStart)
	}
	if len(reportB.Weeks[0].Ledger) != 1 || reportB.Weeks[0].Ledger[0].Receivable != 50 {
		t.Fatalf("unexpected ledger for B: %+v", reportB.Weeks[0].Ledger)
	}

	all, err := service.GetAllUsersWeeklyReport(ctx)
	if err != nil {
		t.Fatalf("all weekly reports: %v", err)
	}
	if len(all) != 2 || all[0].UserID != "B" || all[1].UserID != "A" || all[1].NetWorth != -50 {
		t.Fatalf("unexpected reports: %+v", all)
	}
	if all[1].DisplayName != "User A" {
		t.Fatalf("unexpected display name %q", all[1].DisplayName)
	}
}

func TestSettlementService_SkipsUnfinishedAndStaleStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(activeUsers("A", "B", "C")...)
	start := time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)
	live := env.addMatch(t, "m-live", "1", match.StatusLive, start)
	done := env.addMatch(t, "m-done", "2", match.StatusFinished, start)

	seedLineup(t, env, live.ID, 2,
		slot.Assignment{ID: "a-1", MatchID: live.ID, UserID: "A", Innings: 1, Position: 1},
		slot.Assignment{ID: "a-2", MatchID: live.ID, UserID: "B", Innings: 1, Position: 2},
	)
	seedLineup(t, env, done.ID, 2,
		slot.Assignment{ID: "a-3", MatchID: done.ID, UserID: "A", Innings: 1, Position: 1},
		slot.Assignment{ID: "a-4", MatchID: done.ID, UserID: "B", Innings: 1, Position: 2},
	)
	seedStats(t, env,
		userstats.Stats{MatchID: live.ID, UserID: "A", TotalRuns: 99, TotalBalls: 40},
		userstats.Stats{MatchID: done.ID, UserID: "A", TotalRuns: 10, TotalBalls: 12},
		userstats.Stats{MatchID: done.ID, UserID: "B", TotalRuns: 10, TotalBalls: 8},
		// C lost its slot; its stats row is not a participation.
		userstats.Stats{MatchID: done.ID, UserID: "C", TotalRuns: 200, TotalBalls: 10},
	)

	all, err := env.settlementService().GetAllUsersWeeklyReport(ctx)
	if err != nil {
		t.Fatalf("all weekly reports: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("unexpected report count got=%d want=2", len(all))
	}
	if all[0].UserID != "B" || all[0].NetWorth != 50 || all[0].Matches != 1 {
		t.Fatalf("tie on runs should go to fewer balls: %+v", all)
	}

	sum := 0
	for _, report := range all {
		sum += report.NetWorth
	}
	if sum != 0 {
		t.Fatalf("settlement is not zero-sum: %d", sum)
	}
}

func TestSettlementService_UnknownUserUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv()
	userRepo := usermock.NewRepository(t)
	userRepo.
		On("GetByID", mock.Anything, "ghost").
		Return(user.User{}, false, nil).
		Once()

	service := NewSettlementService(env.matches, env.slots, env.stats, userRepo, SettlementConfig{}, env.logger)
	if _, err := service.GetUserWeeklyReport(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.GetUserWeeklyReport(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	matchmock "github.com/riskibarqy/cricket-slots/internal/mocks/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/platform/id"
	"github.com/riskibarqy/cricket-slots/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func summary(key string, status match.Status, start *time.Time, venue string) ExternalMatchSummary {
	return ExternalMatchSummary{
		ExternalKey: key,
		Title:       "India vs Australia, 1st T20I",
		Series:      "Australia tour of India",
		Teams:       [2]ExternalTeam{{Name: "India", ShortName: "IND"}, {Name: "Australia", ShortName: "AUS"}},
		Status:      status,
		StartTime:   start,
		Venue:       venue,
	}
}

func TestMatchSyncService_SyncIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv()
	start := time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)
	env.source.summaries = []ExternalMatchSummary{
		summary("91001", match.StatusUpcoming, &start, "Wankhede"),
		summary("91002", match.StatusLive, &start, "Chepauk"),
	}
	service := NewMatchSyncService(env.source, env.matches, id.NewSequenceGenerator("m"), logging.NewNop())

	first, err := service.Sync(ctx)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if first.Count != 2 || first.Created != 2 {
		t.Fatalf("unexpected first result: %+v", first)
	}
	before, _ := env.matches.List(ctx, match.Filter{})

	second, err := service.Sync(ctx)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if second.Count != 2 || second.Created != 0 || second.Updated != 2 {
		t.Fatalf("unexpected second result: %+v", second)
	}
	after, _ := env.matches.List(ctx, match.Filter{})

	if len(before) != len(after) {
		t.Fatalf("record count changed got=%d want=%d", len(after), len(before))
	}
	for i := range before {
		if before[i].ID != after[i].ID || !before[i].UpdatedAt.Equal(after[i].UpdatedAt) {
			t.Fatalf("record churned on idempotent sync: before=%+v after=%+v", before[i], after[i])
		}
	}
}

func TestMatchSyncService_IdentityStableAcrossFieldChanges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv()
	start := time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)
	service := NewMatchSyncService(env.source, env.matches, id.NewSequenceGenerator("m"), logging.NewNop())

	env.source.summaries = []ExternalMatchSummary{summary("91001", match.StatusUpcoming, &start, "Wankhede")}
	if _, err := service.Sync(ctx); err != nil {
		t.Fatalf("sync: %v", err)
	}
	original, _, _ := env.matches.GetByExternalKey(ctx, "91001")

	for _, status := range []match.Status{match.StatusLive, match.StatusFinished} {
		env.source.summaries = []ExternalMatchSummary{summary("91001", status, &start, "Wankhede Stadium, Mumbai")}
		if _, err := service.Sync(ctx); err != nil {
			t.Fatalf("sync: %v", err)
		}
	}

	got, _, _ := env.matches.GetByExternalKey(ctx, "91001")
	if got.ID != original.ID {
		t.Fatalf("identity changed got=%s want=%s", got.ID, original.ID)
	}
	if got.Status != match.StatusFinished || got.Venue != "Wankhede Stadium, Mumbai" {
		t.Fatalf("mutable fields not updated: %+v", got)
	}
}

func TestMatchSyncService_MissingStartTimeAndKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv()
	now := time.Date(2026, 10, 18, 6, 0, 0, 0, time.UTC)
	service := NewMatchSyncService(env.source, env.matches, id.NewSequenceGenerator("m"), logging.NewNop())
	service.now = func() time.Time { return now }

	env.source.summaries = []ExternalMatchSummary{
		summary("91003", match.StatusUpcoming, nil, ""),
		summary("  ", match.StatusUpcoming, nil, ""),
	}

	result, err := service.Sync(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Count != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	got, ok, _ := env.matches.GetByExternalKey(ctx, "91003")
	if !ok {
		t.Fatalf("expected match to be stored")
	}
	if !got.StartTime.Equal(now) {
		t.Fatalf("unexpected start time got=%s want=%s", got.StartTime, now)
	}

	later := now.Add(time.Hour)
	service.now = func() time.Time { return later }
	if _, err := service.Sync(ctx); err != nil {
		t.Fatalf("sync: %v", err)
	}
	got, _, _ = env.matches.GetByExternalKey(ctx, "91003")
	if !got.StartTime.Equal(now) {
		t.Fatalf("start time of existing match should be kept got=%s want=%s", got.StartTime, now)
	}
}

func TestMatchSyncService_SourceFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.source.listErr = errScrapeFailed
	service := NewMatchSyncService(env.source, env.matches, nil, logging.NewNop())

	_, err := service.Sync(context.Background())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestMatchSyncService_UpsertErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	start := time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)
	source := newFakeMatchSource()
	source.summaries = []ExternalMatchSummary{summary("91001", match.StatusLive, &start, "Eden Gardens")}

	matchRepo := matchmock.NewRepository(t)
	matchRepo.
		On("GetByExternalKey", mock.Anything, "91001").
		Return(match.Match{}, false, nil).
		Once()
	matchRepo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(item match.Match) bool {
			return item.ID == "m-1" && item.ExternalKey == "91001" && item.Status == match.StatusLive
		})).
		Return(match.Match{}, errors.New("db down")).
		Once()

	service := NewMatchSyncService(source, matchRepo, id.NewSequenceGenerator("m"), logging.NewNop())
	if _, err := service.Sync(ctx); err == nil {
		t.Fatalf("expected upsert error")
	}
}

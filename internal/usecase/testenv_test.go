package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/domain/user"
	"github.com/riskibarqy/cricket-slots/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-slots/internal/platform/id"
	"github.com/riskibarqy/cricket-slots/internal/platform/lock"
	"github.com/riskibarqy/cricket-slots/internal/platform/logging"
)

var errScrapeFailed = errors.New("connection reset by peer")

type fakeMatchSource struct {
	mu            sync.Mutex
	summaries     []ExternalMatchSummary
	listErr       error
	scorecards    map[string]*ExternalScorecard
	scorecardErrs map[string]error
	infos         map[string]*ExternalMatchInfo
	squads        map[string]*ExternalSquads
	scorecardHits map[string]int
}

func newFakeMatchSource() *fakeMatchSource {
	return &fakeMatchSource{
		scorecards:    make(map[string]*ExternalScorecard),
		scorecardErrs: make(map[string]error),
		infos:         make(map[string]*ExternalMatchInfo),
		squads:        make(map[string]*ExternalSquads),
		scorecardHits: make(map[string]int),
	}
}

func (f *fakeMatchSource) ListMatches(context.Context) ([]ExternalMatchSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ExternalMatchSummary(nil), f.summaries...), f.listErr
}

func (f *fakeMatchSource) MatchInfo(_ context.Context, externalKey string) (*ExternalMatchInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.infos[externalKey], nil
}

func (f *fakeMatchSource) FullScorecard(_ context.Context, externalKey string) (*ExternalScorecard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scorecardHits[externalKey]++
	if err := f.scorecardErrs[externalKey]; err != nil {
		return nil, err
	}
	return f.scorecards[externalKey], nil
}

func (f *fakeMatchSource) Squads(_ context.Context, externalKey string) (*ExternalSquads, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.squads[externalKey], nil
}

type fakeFallback struct {
	cards map[string]*ExternalScorecard
}

func (f fakeFallback) Scorecard(_ context.Context, externalKey string) (*ExternalScorecard, bool, error) {
	card, ok := f.cards[externalKey]
	return card, ok, nil
}

type testEnv struct {
	matches *memory.MatchRepository
	slots   *memory.SlotRepository
	scores  *memory.ScoreRepository
	stats   *memory.UserStatsRepository
	users   *memory.UserRepository
	source  *fakeMatchSource
	locker  lock.Locker
	logger  *logging.Logger
}

func newTestEnv(users ...user.User) *testEnv {
	scores := memory.NewScoreRepository()
	return &testEnv{
		matches: memory.NewMatchRepository(nil),
		slots:   memory.NewSlotRepository(scores),
		scores:  scores,
		stats:   memory.NewUserStatsRepository(),
		users:   memory.NewUserRepository(users),
		source:  newFakeMatchSource(),
		locker:  lock.NewKeyedMutex(),
		logger:  logging.NewNop(),
	}
}

func (e *testEnv) slotService() *SlotService {
	return NewSlotService(e.matches, e.slots, e.users, e.scores, e.stats, e.locker, id.NewSequenceGenerator("a"), e.logger)
}

func (e *testEnv) liveScoreService(cfg LiveScoreConfig, fallback ScorecardFallback) *LiveScoreService {
	return NewLiveScoreService(e.source, fallback, e.matches, e.slots, e.scores, e.stats, e.locker, cfg, e.logger)
}

func (e *testEnv) leaderboardService() *LeaderboardService {
	return NewLeaderboardService(e.matches, e.slots, e.scores, e.stats, e.users)
}

func (e *testEnv) settlementService() *SettlementService {
	return NewSettlementService(e.matches, e.slots, e.stats, e.users, SettlementConfig{}, e.logger)
}

func (e *testEnv) addMatch(t *testing.T, matchID, externalKey string, status match.Status, start time.Time) match.Match {
	t.Helper()

	item, err := e.matches.Upsert(context.Background(), match.Match{
		ID:          matchID,
		ExternalKey: externalKey,
		Status:      status,
		StartTime:   start,
		Teams:       [2]match.Team{{Name: "India", ShortName: "IND"}, {Name: "Australia", ShortName: "AUS"}},
	})
	if err != nil {
		t.Fatalf("seed match %s: %v", matchID, err)
	}
	return item
}

func activeUsers(ids ...string) []user.User {
	out := make([]user.User, 0, len(ids))
	for _, userID := range ids {
		out = append(out, user.User{ID: userID, DisplayName: "User " + userID, Active: true})
	}
	return out
}

func batting(name string, runs, balls int, out bool) ExternalBattingEntry {
	return ExternalBattingEntry{
		ExternalPlayerID: "p-" + name,
		PlayerName:       name,
		Runs:             runs,
		Balls:            balls,
		IsOut:            out,
	}
}

package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/domain/score"
	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
	"github.com/riskibarqy/cricket-slots/internal/domain/userstats"
	"github.com/riskibarqy/cricket-slots/internal/platform/lock"
	"github.com/riskibarqy/cricket-slots/internal/platform/logging"
)

const (
	defaultLiveSyncWorkers = 4
	maxLiveSyncWorkers     = 32
)

type LiveScoreConfig struct {
	Workers int
	// FallbackEnabled allows synthetic scorecards for FallbackMatchKeys when
	// the upstream scrape fails. Ignored when Production is set.
	FallbackEnabled   bool
	FallbackMatchKeys []string
	Production        bool
}

type MatchPropagation struct {
	MatchID         string `json:"match_id"`
	ExternalKey     string `json:"external_key"`
	Entries         int    `json:"entries"`
	Written         int    `json:"written"`
	Rejected        int    `json:"rejected"`
	UsersRecomputed int    `json:"users_recomputed"`
	Finished        bool   `json:"finished"`
	Fallback        bool   `json:"fallback"`
	Skipped         bool   `json:"skipped"`
	Message         string `json:"message,omitempty"`
}

type LiveSyncResult struct {
	Matches   int                `json:"matches"`
	Processed int                `json:"processed"`
	Skipped   int                `json:"skipped"`
	Workers   int                `json:"workers"`
	Reports   []MatchPropagation `json:"reports"`
}

// LiveScoreService propagates live batting figures onto slots and user totals.
type LiveScoreService struct {
	source    MatchSource
	fallback  ScorecardFallback
	matchRepo match.Repository
	slotRepo  slot.Repository
	scoreRepo score.Repository
	stats     statsRecomputer
	locker    lock.Locker
	cfg       LiveScoreConfig
	allowed   map[string]struct{}
	logger    *logging.Logger
	now       func() time.Time
}

func NewLiveScoreService(
	source MatchSource,
	fallback ScorecardFallback,
	matchRepo match.Repository,
	slotRepo slot.Repository,
	scoreRepo score.Repository,
	statsRepo userstats.Repository,
	locker lock.Locker,
	cfg LiveScoreConfig,
	logger *logging.Logger,
) *LiveScoreService {
	if logger == nil {
		logger = logging.Default()
	}
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	if cfg.FallbackEnabled && cfg.Production {
		logger.Warn("fallback scorecards are disabled in production")
		cfg.FallbackEnabled = false
	}

	allowed := make(map[string]struct{}, len(cfg.FallbackMatchKeys))
	for _, key := range cfg.FallbackMatchKeys {
		if key = strings.TrimSpace(key); key != "" {
			allowed[key] = struct{}{}
		}
	}

	return &LiveScoreService{
		source:    source,
		fallback:  fallback,
		matchRepo: matchRepo,
		slotRepo:  slotRepo,
		scoreRepo: scoreRepo,
		stats: statsRecomputer{
			slotRepo:  slotRepo,
			scoreRepo: scoreRepo,
			statsRepo: statsRepo,
			now:       time.Now,
		},
		locker:  locker,
		cfg:     cfg,
		allowed: allowed,
		logger:  logger,
		now:     time.Now,
	}
}

// SyncMatch runs one propagation cycle for a single match.
func (s *LiveScoreService) SyncMatch(ctx context.Context, matchID string) (MatchPropagation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveScoreService.SyncMatch", matchAttr(matchID))
	defer span.End()

	item, err := loadMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return MatchPropagation{}, traceError(span, err)
	}
	report, err := s.propagate(ctx, item)
	return report, traceError(span, err)
}

// SyncLive runs one propagation cycle for every live match. A failing match is
// reported as skipped and does not stop the others.
func (s *LiveScoreService) SyncLive(ctx context.Context) (LiveSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveScoreService.SyncLive")
	defer span.End()

	matches, err := s.matchRepo.List(ctx, match.Filter{Status: match.StatusLive})
	if err != nil {
		return LiveSyncResult{}, traceError(span, fmt.Errorf("list live matches: %w", err))
	}

	workerCount := normalizeLiveSyncWorkers(s.cfg.Workers, len(matches))
	result := LiveSyncResult{
		Matches: len(matches),
		Workers: workerCount,
		Reports: make([]MatchPropagation, 0, len(matches)),
	}
	if len(matches) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return LiveSyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	reports := make(chan MatchPropagation, len(matches))
	var workers sync.WaitGroup
	for _, item := range matches {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			report, err := s.propagate(ctx, item)
			if err != nil {
				s.logger.WarnContext(ctx, "skip live match this cycle",
					"match_id", item.ID,
					"external_key", item.ExternalKey,
					"error", err,
				)
				report.Skipped = true
				report.Message = err.Error()
			}
			reports <- report
		}); err != nil {
			workers.Done()
			return LiveSyncResult{}, fmt.Errorf("submit match to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(reports)

	for report := range reports {
		if report.Skipped {
			result.Skipped++
		} else {
			result.Processed++
		}
		result.Reports = append(result.Reports, report)
	}
	sort.SliceStable(result.Reports, func(i, j int) bool {
		return result.Reports[i].MatchID < result.Reports[j].MatchID
	})

	s.logger.InfoContext(ctx, "live scores synced",
		"matches", result.Matches,
		"processed", result.Processed,
		"skipped", result.Skipped,
		"workers", workerCount,
	)
	return result, nil
}

func (s *LiveScoreService) propagate(ctx context.Context, item match.Match) (MatchPropagation, error) {
	report := MatchPropagation{MatchID: item.ID, ExternalKey: item.ExternalKey}

	release, err := acquireMatchLock(ctx, s.locker, item.ID)
	if err != nil {
		return report, err
	}
	defer release()

	card, usedFallback, err := s.fetchScorecard(ctx, item.ExternalKey)
	if err != nil {
		report.Skipped = true
		return report, err
	}
	report.Fallback = usedFallback

	slots, err := s.slotRepo.ListSlots(ctx, item.ID)
	if err != nil {
		return report, fmt.Errorf("list slots match=%s: %w", item.ID, err)
	}
	known := make(map[slot.Key]struct{}, len(slots))
	for _, sl := range slots {
		known[sl.Key()] = struct{}{}
	}

	assignments, err := s.slotRepo.ListAssignments(ctx, item.ID)
	if err != nil {
		return report, fmt.Errorf("list assignments match=%s: %w", item.ID, err)
	}
	occupants := make(map[slot.Key]string, len(assignments))
	for _, a := range assignments {
		occupants[a.Key()] = a.UserID
	}

	now := s.now().UTC()
	affected := make([]string, 0, len(assignments))
	for idx, innings := range card.Innings {
		number := innings.Number
		if number <= 0 {
			number = idx + 1
		}
		for pos, entry := range innings.Batting {
			report.Entries++
			key := slot.Key{Innings: number, Position: pos + 1}
			if _, ok := known[key]; !ok {
				report.Rejected++
				continue
			}

			resolution := score.Resolution{
				MatchID:          item.ID,
				Innings:          key.Innings,
				Position:         key.Position,
				ExternalPlayerID: entry.ExternalPlayerID,
				PlayerName:       entry.PlayerName,
				Dismissal:        entry.Dismissal,
				UpdatedAt:        now,
			}
			figure := score.SlotScore{
				MatchID:   item.ID,
				Innings:   key.Innings,
				Position:  key.Position,
				Runs:      entry.Runs,
				Balls:     entry.Balls,
				Fours:     entry.Fours,
				Sixes:     entry.Sixes,
				IsOut:     entry.IsOut,
				UpdatedAt: now,
			}
			if err := s.scoreRepo.UpsertEntry(ctx, resolution, figure); err != nil {
				return report, fmt.Errorf("upsert slot entry match=%s innings=%d position=%d: %w", item.ID, key.Innings, key.Position, err)
			}
			report.Written++

			if userID, ok := occupants[key]; ok {
				affected = append(affected, userID)
			}
		}
	}

	if err := s.stats.recompute(ctx, item.ID, affected...); err != nil {
		return report, err
	}
	report.UsersRecomputed = countDistinct(affected)

	if next, ok := nextMatchStatus(item.Status, card.Status); ok {
		if err := s.matchRepo.UpdateStatus(ctx, item.ID, next); err != nil {
			return report, fmt.Errorf("update match status match=%s: %w", item.ID, err)
		}
		item.Status = next
	}
	report.Finished = item.Status == match.StatusFinished

	if report.Rejected > 0 {
		s.logger.WarnContext(ctx, "rejected batting entries without a slot",
			"match_id", item.ID,
			"rejected", report.Rejected,
		)
	}
	return report, nil
}

// fetchScorecard scrapes the scorecard and only falls back to synthetic data
// for allowed keys outside production.
func (s *LiveScoreService) fetchScorecard(ctx context.Context, externalKey string) (*ExternalScorecard, bool, error) {
	if s.source == nil {
		return nil, false, fmt.Errorf("%w: match source is not configured", ErrDependencyUnavailable)
	}

	card, err := s.source.FullScorecard(ctx, externalKey)
	if err == nil && card != nil {
		return card, false, nil
	}
	cause := err
	if cause == nil {
		cause = fmt.Errorf("scorecard not available")
	}

	if !s.fallbackAllowed(externalKey) {
		return nil, false, fmt.Errorf("%w: scrape scorecard external key=%s: %v", ErrDependencyUnavailable, externalKey, cause)
	}

	synthetic, ok, fbErr := s.fallback.Scorecard(ctx, externalKey)
	if fbErr != nil || !ok || synthetic == nil {
		return nil, false, fmt.Errorf("%w: scrape scorecard external key=%s: %v", ErrDependencyUnavailable, externalKey, cause)
	}

	s.logger.WarnContext(ctx, "using fallback scorecard",
		"external_key", externalKey,
		"scrape_error", cause,
	)
	return synthetic, true, nil
}

func (s *LiveScoreService) fallbackAllowed(externalKey string) bool {
	if !s.cfg.FallbackEnabled || s.cfg.Production || s.fallback == nil {
		return false
	}
	_, ok := s.allowed[externalKey]
	return ok
}

func nextMatchStatus(current, reported match.Status) (match.Status, bool) {
	switch {
	case current == match.StatusFinished || current == match.StatusAbandoned:
		return "", false
	case reported == match.StatusFinished:
		return match.StatusFinished, true
	case reported == match.StatusLive && current == match.StatusUpcoming:
		return match.StatusLive, true
	default:
		return "", false
	}
}

func normalizeLiveSyncWorkers(requested, tasks int) int {
	workers := requested
	if workers <= 0 {
		workers = defaultLiveSyncWorkers
	}
	if workers > maxLiveSyncWorkers {
		workers = maxLiveSyncWorkers
	}
	if tasks > 0 && workers > tasks {
		workers = tasks
	}
	return workers
}

func countDistinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		seen[value] = struct{}{}
	}
	return len(seen)
}

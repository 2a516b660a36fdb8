package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/platform/id"
	"github.com/riskibarqy/cricket-slots/internal/platform/logging"
)

type SyncResult struct {
	Count   int `json:"count"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// MatchSyncService reconciles the upstream match list with the match registry.
type MatchSyncService struct {
	source    MatchSource
	matchRepo match.Repository
	idGen     id.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewMatchSyncService(
	source MatchSource,
	matchRepo match.Repository,
	idGen id.Generator,
	logger *logging.Logger,
) *MatchSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}

	return &MatchSyncService{
		source:    source,
		matchRepo: matchRepo,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

// Sync upserts every listed match by external key. Existing matches keep their ID.
func (s *MatchSyncService) Sync(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.Sync")
	defer span.End()

	if s.source == nil {
		return SyncResult{}, fmt.Errorf("%w: match source is not configured", ErrDependencyUnavailable)
	}

	summaries, err := s.source.ListMatches(ctx)
	if err != nil {
		return SyncResult{}, traceError(span, fmt.Errorf("%w: list upstream matches: %v", ErrDependencyUnavailable, err))
	}

	var result SyncResult
	for _, summary := range summaries {
		key := strings.TrimSpace(summary.ExternalKey)
		if key == "" {
			result.Skipped++
			s.logger.WarnContext(ctx, "skip upstream match without external key", "title", summary.Title)
			continue
		}

		existing, exists, err := s.matchRepo.GetByExternalKey(ctx, key)
		if err != nil {
			return result, fmt.Errorf("get match by external key=%s: %w", key, err)
		}

		item, err := s.mergeSummary(existing, exists, summary)
		if err != nil {
			return result, err
		}
		if _, err := s.matchRepo.Upsert(ctx, item); err != nil {
			return result, fmt.Errorf("upsert match external key=%s: %w", key, err)
		}

		result.Count++
		if exists {
			result.Updated++
		} else {
			result.Created++
		}
	}

	s.logger.InfoContext(ctx, "match registry synced",
		"count", result.Count,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)
	return result, nil
}

// mergeSummary applies upstream fields over the stored match. Blank upstream
// fields keep the stored value. A missing start time falls back to now only
// for new matches.
func (s *MatchSyncService) mergeSummary(existing match.Match, exists bool, summary ExternalMatchSummary) (match.Match, error) {
	item := existing
	if !exists {
		newID, err := s.idGen.NewID()
		if err != nil {
			return match.Match{}, fmt.Errorf("generate match id: %w", err)
		}
		item = match.Match{
			ID:          newID,
			ExternalKey: strings.TrimSpace(summary.ExternalKey),
			Status:      match.StatusUpcoming,
			StartTime:   s.now().UTC(),
		}
	}

	item.Title = firstNonEmpty(summary.Title, item.Title)
	item.Series = firstNonEmpty(summary.Series, item.Series)
	item.Venue = firstNonEmpty(summary.Venue, item.Venue)
	for i := range item.Teams {
		item.Teams[i].Name = firstNonEmpty(summary.Teams[i].Name, item.Teams[i].Name)
		item.Teams[i].ShortName = firstNonEmpty(summary.Teams[i].ShortName, item.Teams[i].ShortName)
	}
	if summary.StartTime != nil && !summary.StartTime.IsZero() {
		item.StartTime = summary.StartTime.UTC()
	}
	if _, ok := match.AllStatuses[summary.Status]; ok {
		item.Status = summary.Status
	}

	return item, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

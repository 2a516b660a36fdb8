package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/cricket-slots/internal/domain/match"
)

const (
	defaultMatchListLimit = 50
	maxMatchListLimit     = 200
)

type MatchService struct {
	matchRepo match.Repository
	source    MatchSource
}

func NewMatchService(matchRepo match.Repository, source MatchSource) *MatchService {
	return &MatchService{
		matchRepo: matchRepo,
		source:    source,
	}
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get", matchAttr(matchID))
	defer span.End()

	return loadMatch(ctx, s.matchRepo, matchID)
}

func (s *MatchService) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	if filter.Status != "" {
		status, ok := match.ParseStatus(string(filter.Status))
		if !ok {
			return nil, fmt.Errorf("%w: unknown match status %q", ErrInvalidInput, filter.Status)
		}
		filter.Status = status
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultMatchListLimit
	case filter.Limit > maxMatchListLimit:
		filter.Limit = maxMatchListLimit
	}

	items, err := s.matchRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

// Facts returns the upstream match facts page for a registered match.
func (s *MatchService) Facts(ctx context.Context, matchID string) (*ExternalMatchInfo, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Facts", matchAttr(matchID))
	defer span.End()

	item, err := loadMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return nil, err
	}
	if s.source == nil {
		return nil, fmt.Errorf("%w: match source is not configured", ErrDependencyUnavailable)
	}

	info, err := s.source.MatchInfo(ctx, item.ExternalKey)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch match info external key=%s: %v", ErrDependencyUnavailable, item.ExternalKey, err)
	}
	if info == nil {
		return nil, fmt.Errorf("%w: match facts external key=%s", ErrNotFound, item.ExternalKey)
	}
	return info, nil
}

func (s *MatchService) Squads(ctx context.Context, matchID string) (*ExternalSquads, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Squads", matchAttr(matchID))
	defer span.End()

	item, err := loadMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return nil, err
	}
	if s.source == nil {
		return nil, fmt.Errorf("%w: match source is not configured", ErrDependencyUnavailable)
	}

	squads, err := s.source.Squads(ctx, item.ExternalKey)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch squads external key=%s: %v", ErrDependencyUnavailable, item.ExternalKey, err)
	}
	if squads == nil {
		return nil, fmt.Errorf("%w: squads external key=%s", ErrNotFound, item.ExternalKey)
	}
	return squads, nil
}

func loadMatch(ctx context.Context, matchRepo match.Repository, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}

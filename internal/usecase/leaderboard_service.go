package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/domain/score"
	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
	"github.com/riskibarqy/cricket-slots/internal/domain/user"
	"github.com/riskibarqy/cricket-slots/internal/domain/userstats"
)

type PlayingAs struct {
	Innings    int    `json:"innings"`
	Position   int    `json:"position"`
	PlayerName string `json:"player_name,omitempty"`
}

type LeaderboardEntry struct {
	Rank        int         `json:"rank"`
	UserID      string      `json:"user_id"`
	DisplayName string      `json:"display_name"`
	TotalRuns   int         `json:"total_runs"`
	TotalBalls  int         `json:"total_balls"`
	PlayingAs   []PlayingAs `json:"playing_as"`
}

type LeaderboardService struct {
	matchRepo match.Repository
	slotRepo  slot.Repository
	scoreRepo score.Repository
	statsRepo userstats.Repository
	userRepo  user.Repository
}

func NewLeaderboardService(
	matchRepo match.Repository,
	slotRepo slot.Repository,
	scoreRepo score.Repository,
	statsRepo userstats.Repository,
	userRepo user.Repository,
) *LeaderboardService {
	return &LeaderboardService{
		matchRepo: matchRepo,
		slotRepo:  slotRepo,
		scoreRepo: scoreRepo,
		statsRepo: statsRepo,
		userRepo:  userRepo,
	}
}

// GetMatchLeaderboard ranks the users holding slots in a match by runs
// descending, then balls ascending.
func (s *LeaderboardService) GetMatchLeaderboard(ctx context.Context, matchID string) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetMatchLeaderboard", matchAttr(matchID))
	defer span.End()

	item, err := loadMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.slotRepo.ListAssignments(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list assignments match=%s: %w", item.ID, err)
	}
	if len(assignments) == 0 {
		return []LeaderboardEntry{}, nil
	}

	statsRows, err := s.statsRepo.ListByMatch(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list user match stats match=%s: %w", item.ID, err)
	}
	statsByUser := make(map[string]userstats.Stats, len(statsRows))
	for _, row := range statsRows {
		statsByUser[row.UserID] = row
	}

	resolutions, err := s.scoreRepo.ListResolutions(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list resolutions match=%s: %w", item.ID, err)
	}
	playerBySlot := make(map[slot.Key]string, len(resolutions))
	for _, res := range resolutions {
		playerBySlot[res.Key()] = res.PlayerName
	}

	slot.SortAssignments(assignments)
	entries := make(map[string]*LeaderboardEntry)
	userIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		entry, ok := entries[a.UserID]
		if !ok {
			stats := statsByUser[a.UserID]
			entry = &LeaderboardEntry{
				UserID:     a.UserID,
				TotalRuns:  stats.TotalRuns,
				TotalBalls: stats.TotalBalls,
			}
			entries[a.UserID] = entry
			userIDs = append(userIDs, a.UserID)
		}
		entry.PlayingAs = append(entry.PlayingAs, PlayingAs{
			Innings:    a.Innings,
			Position:   a.Position,
			PlayerName: playerBySlot[a.Key()],
		})
	}

	users, err := s.userRepo.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		if entry, ok := entries[u.ID]; ok {
			entry.DisplayName = u.DisplayName
		}
	}

	out := make([]LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, *entry)
	}
	SortLeaderboard(out)
	return out, nil
}

// SortLeaderboard orders entries by runs desc, balls asc, user id asc and assigns ranks.
func SortLeaderboard(entries []LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalRuns != entries[j].TotalRuns {
			return entries[i].TotalRuns > entries[j].TotalRuns
		}
		if entries[i].TotalBalls != entries[j].TotalBalls {
			return entries[i].TotalBalls < entries[j].TotalBalls
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

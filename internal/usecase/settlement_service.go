package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/domain/settlement"
	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
	"github.com/riskibarqy/cricket-slots/internal/domain/user"
	"github.com/riskibarqy/cricket-slots/internal/domain/userstats"
	"github.com/riskibarqy/cricket-slots/internal/platform/logging"
)

type SettlementConfig struct {
	Stake    int
	Location *time.Location
}

// UserWeeklyReport is the weekly settlement view of one user, newest week first.
type UserWeeklyReport struct {
	UserID      string
	DisplayName string
	Weeks       []settlement.WeeklyStats
	NetWorth    int
	Wins        int
	Losses      int
	Matches     int
}

// SettlementService recomputes weekly settlement from stored match stats on every read.
type SettlementService struct {
	matchRepo match.Repository
	slotRepo  slot.Repository
	statsRepo userstats.Repository
	userRepo  user.Repository
	cfg       SettlementConfig
	logger    *logging.Logger
}

func NewSettlementService(
	matchRepo match.Repository,
	slotRepo slot.Repository,
	statsRepo userstats.Repository,
	userRepo user.Repository,
	cfg SettlementConfig,
	logger *logging.Logger,
) *SettlementService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Stake <= 0 {
		cfg.Stake = settlement.DefaultStake
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &SettlementService{
		matchRepo: matchRepo,
		slotRepo:  slotRepo,
		statsRepo: statsRepo,
		userRepo:  userRepo,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *SettlementService) GetUserWeeklyReport(ctx context.Context, userID string) (UserWeeklyReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.GetUserWeeklyReport", userAttr(userID))
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return UserWeeklyReport{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	u, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return UserWeeklyReport{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return UserWeeklyReport{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	weekly, err := s.settle(ctx)
	if err != nil {
		return UserWeeklyReport{}, err
	}

	report := UserWeeklyReport{UserID: u.ID, DisplayName: u.DisplayName, Weeks: []settlement.WeeklyStats{}}
	for _, week := range weekly {
		if week.UserID == u.ID {
			report.add(week)
		}
	}
	return report, nil
}

func (s *SettlementService) GetAllUsersWeeklyReport(ctx context.Context) ([]UserWeeklyReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.GetAllUsersWeeklyReport")
	defer span.End()

	weekly, err := s.settle(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*UserWeeklyReport)
	userIDs := make([]string, 0)
	for _, week := range weekly {
		report, ok := byUser[week.UserID]
		if !ok {
			report = &UserWeeklyReport{UserID: week.UserID}
			byUser[week.UserID] = report
			userIDs = append(userIDs, week.UserID)
		}
		report.add(week)
	}

	users, err := s.userRepo.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		if report, ok := byUser[u.ID]; ok {
			report.DisplayName = u.DisplayName
		}
	}

	out := make([]UserWeeklyReport, 0, len(byUser))
	for _, report := range byUser {
		out = append(out, *report)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetWorth != out[j].NetWorth {
			return out[i].NetWorth > out[j].NetWorth
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (r *UserWeeklyReport) add(week settlement.WeeklyStats) {
	r.Weeks = append(r.Weeks, week)
	r.NetWorth += week.NetWorth
	r.Wins += week.Wins
	r.Losses += week.Losses
	r.Matches += week.Matches
}

// settle settles every finished match. Participants are the users holding at
// least one slot; their totals come from the stats cache.
func (s *SettlementService) settle(ctx context.Context) ([]settlement.WeeklyStats, error) {
	matches, err := s.matchRepo.List(ctx, match.Filter{Status: match.StatusFinished})
	if err != nil {
		return nil, fmt.Errorf("list finished matches: %w", err)
	}
	if len(matches) == 0 {
		return []settlement.WeeklyStats{}, nil
	}

	assignments, err := s.slotRepo.ListAllAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	participantsByMatch := make(map[string][]string)
	seen := make(map[[2]string]struct{})
	for _, a := range assignments {
		key := [2]string{a.MatchID, a.UserID}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		participantsByMatch[a.MatchID] = append(participantsByMatch[a.MatchID], a.UserID)
	}

	statsRows, err := s.statsRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user match stats: %w", err)
	}
	statsByKey := make(map[[2]string]userstats.Stats, len(statsRows))
	for _, row := range statsRows {
		statsByKey[[2]string{row.MatchID, row.UserID}] = row
	}

	outcomes := make([]settlement.MatchOutcome, 0, len(matches))
	for _, item := range matches {
		userIDs := participantsByMatch[item.ID]
		if len(userIDs) == 0 {
			continue
		}

		participants := make([]settlement.Participant, 0, len(userIDs))
		for _, userID := range userIDs {
			stats := statsByKey[[2]string{item.ID, userID}]
			participants = append(participants, settlement.Participant{
				UserID:     userID,
				TotalRuns:  stats.TotalRuns,
				TotalBalls: stats.TotalBalls,
			})
		}

		outcome, err := settlement.SettleMatch(settlement.MatchResult{
			MatchID:      item.ID,
			StartTime:    item.StartTime,
			Participants: participants,
		}, s.cfg.Stake, s.cfg.Location)
		if err != nil {
			return nil, fmt.Errorf("settle match=%s: %w", item.ID, err)
		}
		if !outcome.HasWinner() {
			s.logger.DebugContext(ctx, "match settled without winner", "match_id", item.ID, "participants", len(participants))
		}
		outcomes = append(outcomes, outcome)
	}

	return settlement.BuildWeeklyStats(outcomes, s.cfg.Stake), nil
}

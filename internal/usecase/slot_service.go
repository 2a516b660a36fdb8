package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/domain/score"
	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
	"github.com/riskibarqy/cricket-slots/internal/domain/user"
	"github.com/riskibarqy/cricket-slots/internal/domain/userstats"
	"github.com/riskibarqy/cricket-slots/internal/platform/id"
	"github.com/riskibarqy/cricket-slots/internal/platform/lock"
	"github.com/riskibarqy/cricket-slots/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const defaultInningsCount = 2

type InitializeSlotsInput struct {
	MatchID             string
	InningsCount        int
	PositionsPerInnings int
}

type InitializeSlotsResult struct {
	Count             int `json:"count"`
	PrunedAssignments int `json:"pruned_assignments"`
}

type AssignUserInput struct {
	MatchID  string
	UserID   string
	Innings  int
	Position int
}

type AutoAssignResult struct {
	Count       int          `json:"count"`
	NothingToDo *NothingToDo `json:"nothing_to_do,omitempty"`
}

// SlotService owns match lineups and who occupies them.
type SlotService struct {
	matchRepo match.Repository
	slotRepo  slot.Repository
	userRepo  user.Repository
	stats     statsRecomputer
	locker    lock.Locker
	idGen     id.Generator
	shuffle   slot.Shuffler
	logger    *logging.Logger
	now       func() time.Time
}

func NewSlotService(
	matchRepo match.Repository,
	slotRepo slot.Repository,
	userRepo user.Repository,
	scoreRepo score.Repository,
	statsRepo userstats.Repository,
	locker lock.Locker,
	idGen id.Generator,
	logger *logging.Logger,
) *SlotService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}

	return &SlotService{
		matchRepo: matchRepo,
		slotRepo:  slotRepo,
		userRepo:  userRepo,
		stats: statsRecomputer{
			slotRepo:  slotRepo,
			scoreRepo: scoreRepo,
			statsRepo: statsRepo,
			now:       time.Now,
		},
		locker:  locker,
		idGen:   idGen,
		shuffle: rand.Shuffle,
		logger:  logger,
		now:     time.Now,
	}
}

// InitializeSlots replaces the lineup of a match.
func (s *SlotService) InitializeSlots(ctx context.Context, input InitializeSlotsInput) (InitializeSlotsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlotService.InitializeSlots", matchAttr(input.MatchID))
	defer span.End()

	item, err := loadMatch(ctx, s.matchRepo, input.MatchID)
	if err != nil {
		return InitializeSlotsResult{}, err
	}
	if input.InningsCount == 0 {
		input.InningsCount = defaultInningsCount
	}

	slots, err := slot.BuildLineup(item.ID, input.InningsCount, input.PositionsPerInnings)
	if err != nil {
		return InitializeSlotsResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	release, err := acquireMatchLock(ctx, s.locker, item.ID)
	if err != nil {
		return InitializeSlotsResult{}, err
	}
	defer release()

	previous, err := s.slotRepo.ListAssignments(ctx, item.ID)
	if err != nil {
		return InitializeSlotsResult{}, fmt.Errorf("list assignments match=%s: %w", item.ID, err)
	}

	pruned, err := s.slotRepo.ReplaceSlots(ctx, item.ID, slots)
	if err != nil {
		return InitializeSlotsResult{}, fmt.Errorf("replace slots match=%s: %w", item.ID, err)
	}

	if err := s.stats.recompute(ctx, item.ID, usersOutsideLineup(previous, slots)...); err != nil {
		return InitializeSlotsResult{}, err
	}

	s.logger.InfoContext(ctx, "match slots initialized",
		"match_id", item.ID,
		"slots", len(slots),
		"pruned_assignments", pruned,
	)
	return InitializeSlotsResult{Count: len(slots), PrunedAssignments: pruned}, nil
}

// usersOutsideLineup lists the holders of assignments whose slot is not in lineup.
func usersOutsideLineup(assignments []slot.Assignment, lineup []slot.Slot) []string {
	keep := make(map[slot.Key]struct{}, len(lineup))
	for _, item := range lineup {
		keep[item.Key()] = struct{}{}
	}
	var out []string
	for _, item := range assignments {
		if _, ok := keep[item.Key()]; !ok {
			out = append(out, item.UserID)
		}
	}
	return out
}

// AutoAssign clears the match assignments and randomly pairs eligible users with slots.
func (s *SlotService) AutoAssign(ctx context.Context, matchID string) (AutoAssignResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlotService.AutoAssign", matchAttr(matchID))
	defer span.End()

	item, err := loadMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return AutoAssignResult{}, err
	}

	users, err := s.userRepo.ListEligible(ctx)
	if err != nil {
		return AutoAssignResult{}, fmt.Errorf("list eligible users: %w", err)
	}
	if len(users) == 0 {
		return AutoAssignResult{NothingToDo: nothingToDo("no eligible users")}, nil
	}

	release, err := acquireMatchLock(ctx, s.locker, item.ID)
	if err != nil {
		return AutoAssignResult{}, err
	}
	defer release()

	slots, err := s.slotRepo.ListSlots(ctx, item.ID)
	if err != nil {
		return AutoAssignResult{}, fmt.Errorf("list slots match=%s: %w", item.ID, err)
	}
	if len(slots) == 0 {
		return AutoAssignResult{NothingToDo: nothingToDo("match has no slots")}, nil
	}

	previous, err := s.slotRepo.ListAssignments(ctx, item.ID)
	if err != nil {
		return AutoAssignResult{}, fmt.Errorf("list assignments match=%s: %w", item.ID, err)
	}

	userIDs := make([]string, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}

	now := s.now().UTC()
	pairs := slot.Pair(slots, userIDs, s.shuffle)
	for i := range pairs {
		newID, err := s.idGen.NewID()
		if err != nil {
			return AutoAssignResult{}, fmt.Errorf("generate assignment id: %w", err)
		}
		pairs[i].ID = newID
		pairs[i].CreatedAt = now
		pairs[i].UpdatedAt = now
	}

	if err := s.slotRepo.ReplaceAssignments(ctx, item.ID, pairs); err != nil {
		return AutoAssignResult{}, fmt.Errorf("replace assignments match=%s: %w", item.ID, err)
	}

	touched := make([]string, 0, len(previous)+len(pairs))
	for _, prev := range previous {
		touched = append(touched, prev.UserID)
	}
	for _, pair := range pairs {
		touched = append(touched, pair.UserID)
	}
	if err := s.stats.recompute(ctx, item.ID, touched...); err != nil {
		return AutoAssignResult{}, err
	}

	s.logger.InfoContext(ctx, "match slots auto assigned",
		"match_id", item.ID,
		"slots", len(slots),
		"eligible_users", len(users),
		"assigned", len(pairs),
	)
	return AutoAssignResult{Count: len(pairs)}, nil
}

// AssignUser puts a user on one slot, replacing any previous occupant of that slot.
func (s *SlotService) AssignUser(ctx context.Context, input AssignUserInput) (slot.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlotService.AssignUser", matchAttr(input.MatchID), userAttr(input.UserID))
	defer span.End()

	item, err := loadMatch(ctx, s.matchRepo, input.MatchID)
	if err != nil {
		return slot.Assignment{}, err
	}

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return slot.Assignment{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	key := slot.Key{Innings: input.Innings, Position: input.Position}
	if err := key.Validate(); err != nil {
		return slot.Assignment{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, exists, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return slot.Assignment{}, fmt.Errorf("get user: %w", err)
	} else if !exists {
		return slot.Assignment{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	release, err := acquireMatchLock(ctx, s.locker, item.ID)
	if err != nil {
		return slot.Assignment{}, err
	}
	defer release()

	slotExists, err := s.slotRepo.SlotExists(ctx, item.ID, key)
	if err != nil {
		return slot.Assignment{}, fmt.Errorf("check slot match=%s: %w", item.ID, err)
	}
	if !slotExists {
		return slot.Assignment{}, fmt.Errorf("%w: slot innings=%d position=%d does not exist for match=%s", ErrInvalidInput, key.Innings, key.Position, item.ID)
	}

	held, err := s.slotRepo.ListAssignmentsByUser(ctx, item.ID, userID)
	if err != nil {
		return slot.Assignment{}, fmt.Errorf("list user assignments match=%s: %w", item.ID, err)
	}
	for _, current := range held {
		if current.Innings == key.Innings && current.Position != key.Position {
			return slot.Assignment{}, fmt.Errorf("%w: user=%s already holds position %d in innings %d", ErrInvalidInput, userID, current.Position, current.Innings)
		}
	}

	newID, err := s.idGen.NewID()
	if err != nil {
		return slot.Assignment{}, fmt.Errorf("generate assignment id: %w", err)
	}
	now := s.now().UTC()
	stored, err := s.slotRepo.UpsertAssignment(ctx, slot.Assignment{
		ID:        newID,
		MatchID:   item.ID,
		UserID:    userID,
		Innings:   key.Innings,
		Position:  key.Position,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return slot.Assignment{}, fmt.Errorf("upsert assignment match=%s: %w", item.ID, err)
	}

	if err := s.stats.recompute(ctx, item.ID, userID); err != nil {
		return slot.Assignment{}, err
	}
	return stored, nil
}

func (s *SlotService) RemoveAssignment(ctx context.Context, assignmentID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlotService.RemoveAssignment", attribute.String("assignment.id", assignmentID))
	defer span.End()

	assignmentID = strings.TrimSpace(assignmentID)
	if assignmentID == "" {
		return fmt.Errorf("%w: assignment id is required", ErrInvalidInput)
	}

	current, exists, err := s.slotRepo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return traceError(span, fmt.Errorf("get assignment: %w", err))
	}
	if !exists {
		return fmt.Errorf("%w: assignment=%s", ErrNotFound, assignmentID)
	}

	release, err := acquireMatchLock(ctx, s.locker, current.MatchID)
	if err != nil {
		return err
	}
	defer release()

	deleted, err := s.slotRepo.DeleteAssignment(ctx, assignmentID)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: assignment=%s", ErrNotFound, assignmentID)
	}

	return s.stats.recompute(ctx, current.MatchID, current.UserID)
}

func (s *SlotService) ListSlots(ctx context.Context, matchID string) ([]slot.Slot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlotService.ListSlots", matchAttr(matchID))
	defer span.End()

	item, err := loadMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return nil, err
	}
	slots, err := s.slotRepo.ListSlots(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list slots match=%s: %w", item.ID, err)
	}
	return slots, nil
}

func (s *SlotService) ListAssignments(ctx context.Context, matchID string) ([]slot.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlotService.ListAssignments", matchAttr(matchID))
	defer span.End()

	item, err := loadMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return nil, err
	}
	items, err := s.slotRepo.ListAssignments(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list assignments match=%s: %w", item.ID, err)
	}
	return items, nil
}

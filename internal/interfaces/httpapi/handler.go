package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/platform/logging"
	"github.com/riskibarqy/cricket-slots/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

type Handler struct {
	matchSyncService   *usecase.MatchSyncService
	matchService       *usecase.MatchService
	slotService        *usecase.SlotService
	liveScoreService   *usecase.LiveScoreService
	leaderboardService *usecase.LeaderboardService
	settlementService  *usecase.SettlementService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	matchSyncService *usecase.MatchSyncService,
	matchService *usecase.MatchService,
	slotService *usecase.SlotService,
	liveScoreService *usecase.LiveScoreService,
	leaderboardService *usecase.LeaderboardService,
	settlementService *usecase.SettlementService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchSyncService:   matchSyncService,
		matchService:       matchService,
		slotService:        slotService,
		liveScoreService:   liveScoreService,
		leaderboardService: leaderboardService,
		settlementService:  settlementService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "ListMatches")
	defer span.End()

	filter := match.Filter{Status: match.Status(strings.TrimSpace(r.URL.Query().Get("status")))}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput))
			return
		}
		filter.Limit = limit
	}

	items, err := h.matchService.List(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "status", filter.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	item, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) GetMatchFacts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetMatchFacts")
	defer span.End()

	matchID := r.PathValue("matchID")
	info, err := h.matchService.Facts(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match facts failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, info)
}

func (h *Handler) GetMatchSquads(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetMatchSquads")
	defer span.End()

	matchID := r.PathValue("matchID")
	squads, err := h.matchService.Squads(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match squads failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squads)
}

func (h *Handler) GetMatchLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetMatchLeaderboard")
	defer span.End()

	matchID := r.PathValue("matchID")
	entries, err := h.leaderboardService.GetMatchLeaderboard(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match leaderboard failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if entries == nil {
		entries = []usecase.LeaderboardEntry{}
	}

	writeSuccess(ctx, w, http.StatusOK, entries)
}

func (h *Handler) GetUserWeeklyReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetUserWeeklyReport")
	defer span.End()

	userID := r.PathValue("userID")
	report, err := h.settlementService.GetUserWeeklyReport(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get user weekly report failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weeklyReportToDTO(report))
}

func (h *Handler) GetAllUsersWeeklyReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetAllUsersWeeklyReport")
	defer span.End()

	reports, err := h.settlementService.GetAllUsersWeeklyReport(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get weekly reports failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]weeklyReportDTO, 0, len(reports))
	for _, report := range reports {
		out = append(out, weeklyReportToDTO(report))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched
// when allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(raw) > maxRequestBodyBytes {
		return fmt.Errorf("%w: request body too large", usecase.ErrInvalidInput)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		if allowEmpty {
			return nil
		}
		return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
	}

	if err := strictJSON.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

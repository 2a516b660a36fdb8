package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/domain/user"
	"github.com/riskibarqy/cricket-slots/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-slots/internal/platform/id"
	"github.com/riskibarqy/cricket-slots/internal/platform/lock"
	"github.com/riskibarqy/cricket-slots/internal/platform/logging"
	"github.com/riskibarqy/cricket-slots/internal/usecase"
	"github.com/stretchr/testify/require"
)

const testJobToken = "job-secret"

type stubSource struct{}

func (stubSource) ListMatches(context.Context) ([]usecase.ExternalMatchSummary, error) {
	return nil, nil
}

func (stubSource) MatchInfo(_ context.Context, externalKey string) (*usecase.ExternalMatchInfo, error) {
	if externalKey != "91001" {
		return nil, nil
	}
	return &usecase.ExternalMatchInfo{ExternalKey: externalKey, Title: "India vs Australia", Toss: "India won the toss"}, nil
}

func (stubSource) FullScorecard(context.Context, string) (*usecase.ExternalScorecard, error) {
	return nil, nil
}

func (stubSource) Squads(context.Context, string) (*usecase.ExternalSquads, error) {
	return nil, nil
}

type apiResponse struct {
	APIVersion string         `json:"apiVersion"`
	Data       any            `json:"data"`
	Error      map[string]any `json:"error"`
}

func newTestRouter(t *testing.T, users ...user.User) (http.Handler, *memory.MatchRepository) {
	t.Helper()

	logger := logging.NewNop()
	matches := memory.NewMatchRepository([]match.Match{{
		ID:          "m-1",
		ExternalKey: "91001",
		Title:       "India vs Australia, 1st Test",
		Teams:       [2]match.Team{{Name: "India", ShortName: "IND"}, {Name: "Australia", ShortName: "AUS"}},
		Status:      match.StatusUpcoming,
		StartTime:   time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC),
	}})
	scores := memory.NewScoreRepository()
	slots := memory.NewSlotRepository(scores)
	stats := memory.NewUserStatsRepository()
	userRepo := memory.NewUserRepository(users)
	locker := lock.NewKeyedMutex()
	source := stubSource{}

	handler := NewHandler(
		usecase.NewMatchSyncService(source, matches, id.NewSequenceGenerator("m"), logger),
		usecase.NewMatchService(matches, source),
		usecase.NewSlotService(matches, slots, userRepo, scores, stats, locker, id.NewSequenceGenerator("a"), logger),
		usecase.NewLiveScoreService(source, nil, matches, slots, scores, stats, locker, usecase.LiveScoreConfig{}, logger),
		usecase.NewLeaderboardService(matches, slots, scores, stats, userRepo),
		usecase.NewSettlementService(matches, slots, stats, userRepo, usecase.SettlementConfig{}, logger),
		logger,
	)
	return NewRouter(handler, RouterOptions{Logger: logger, InternalJobToken: testJobToken}), matches
}

func doRequest(t *testing.T, router http.Handler, method, path, body string, authorized bool) (int, apiResponse) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("X-Internal-Job-Token", testJobToken)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out apiResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), "body=%s", rec.Body.String())
	return rec.Code, out
}

func TestHandler_GetMatch(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodGet, "/v1/matches/m-1", "", false)
	require.Equal(t, http.StatusOK, code)
	data, ok := body.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "91001", data["external_key"])
	require.Equal(t, "upcoming", data["status"])
	require.Equal(t, "2025-03-04T09:30:00Z", data["start_time"])

	code, body = doRequest(t, router, http.MethodGet, "/v1/matches/missing", "", false)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "NOT_FOUND", body.Error["status"])
}

func TestHandler_ListMatchesRejectsBadFilters(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodGet, "/v1/matches?status=upcoming", "", false)
	require.Equal(t, http.StatusOK, code)
	items, ok := body.Data.([]any)
	require.True(t, ok)
	require.Len(t, items, 1)

	tests := []string{
		"/v1/matches?status=paused",
		"/v1/matches?limit=abc",
		"/v1/matches?limit=-1",
	}
	for _, path := range tests {
		code, _ := doRequest(t, router, http.MethodGet, path, "", false)
		if code != http.StatusBadRequest {
			t.Fatalf("%s: got=%d want=%d", path, code, http.StatusBadRequest)
		}
	}
}

func TestHandler_GetMatchFacts(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodGet, "/v1/matches/m-1/facts", "", false)
	require.Equal(t, http.StatusOK, code)
	data, ok := body.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "India won the toss", data["toss"])
}

func TestHandler_InternalRoutesRequireToken(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	code, body := doRequest(t, router, http.MethodPost, "/v1/internal/matches/m-1/slots", `{"positions_per_innings":3}`, false)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "UNAUTHENTICATED", body.Error["status"])

	code, _ = doRequest(t, router, http.MethodGet, "/v1/matches/m-1/slots", "", false)
	require.Equal(t, http.StatusOK, code)
}

func TestHandler_SlotLifecycle(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t,
		user.User{ID: "u1", DisplayName: "One", Active: true},
		user.User{ID: "u2", DisplayName: "Two", Active: true},
	)

	code, body := doRequest(t, router, http.MethodPost, "/v1/internal/matches/m-1/slots", `{"innings_count":1,"positions_per_innings":3}`, true)
	require.Equal(t, http.StatusOK, code)
	data := body.Data.(map[string]any)
	require.EqualValues(t, 3, data["count"])

	code, body = doRequest(t, router, http.MethodPut, "/v1/internal/matches/m-1/assignments", `{"user_id":"u1","innings":1,"position":2}`, true)
	require.Equal(t, http.StatusOK, code)
	assignment := body.Data.(map[string]any)
	require.Equal(t, "u1", assignment["user_id"])
	assignmentID, _ := assignment["id"].(string)
	require.NotEmpty(t, assignmentID)

	code, body = doRequest(t, router, http.MethodGet, "/v1/matches/m-1/assignments", "", false)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body.Data.([]any), 1)

	code, _ = doRequest(t, router, http.MethodDelete, "/v1/internal/assignments/"+assignmentID, "", true)
	require.Equal(t, http.StatusOK, code)

	code, _ = doRequest(t, router, http.MethodDelete, "/v1/internal/assignments/"+assignmentID, "", true)
	require.Equal(t, http.StatusNotFound, code)
}

func TestHandler_InitializeSlotsValidation(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "three innings", body: `{"innings_count":3,"positions_per_innings":3}`},
		{name: "no positions", body: `{"innings_count":1}`},
		{name: "unknown field", body: `{"positions_per_innings":3,"overs":20}`},
		{name: "malformed", body: `{"positions_per_innings":`},
	}
	for _, tc := range tests {
		code, _ := doRequest(t, router, http.MethodPost, "/v1/internal/matches/m-1/slots", tc.body, true)
		if code != http.StatusBadRequest {
			t.Fatalf("%s: got=%d want=%d", tc.name, code, http.StatusBadRequest)
		}
	}
}

func TestHandler_AutoAssignNothingToDo(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, user.User{ID: "u1", DisplayName: "One", Active: true})

	code, body := doRequest(t, router, http.MethodPost, "/v1/internal/matches/m-1/assignments/auto", "", true)
	require.Equal(t, http.StatusOK, code)
	data, ok := body.Data.(map[string]any)
	require.True(t, ok)
	inner, ok := data["nothing_to_do"].(map[string]any)
	require.True(t, ok, "data=%v", data)
	require.Equal(t, "match has no slots", inner["reason"])
}

func TestHandler_LeaderboardAndWeeklyReports(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, user.User{ID: "u1", DisplayName: "One", Active: true})

	code, body := doRequest(t, router, http.MethodGet, "/v1/matches/m-1/leaderboard", "", false)
	require.Equal(t, http.StatusOK, code)
	require.Empty(t, body.Data)

	code, body = doRequest(t, router, http.MethodGet, "/v1/users/u1/weekly-report", "", false)
	require.Equal(t, http.StatusOK, code)
	report := body.Data.(map[string]any)
	require.Equal(t, "u1", report["user_id"])
	require.EqualValues(t, 0, report["net_worth"])

	code, _ = doRequest(t, router, http.MethodGet, "/v1/users/ghost/weekly-report", "", false)
	require.Equal(t, http.StatusNotFound, code)

	code, body = doRequest(t, router, http.MethodGet, "/v1/weekly-reports", "", false)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body.Data.([]any), 1)
}

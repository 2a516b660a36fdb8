package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/facts", handler.GetMatchFacts)
	mux.HandleFunc("GET /v1/matches/{matchID}/squads", handler.GetMatchSquads)
	mux.HandleFunc("GET /v1/matches/{matchID}/slots", handler.ListSlots)
	mux.HandleFunc("GET /v1/matches/{matchID}/assignments", handler.ListAssignments)
	mux.HandleFunc("GET /v1/matches/{matchID}/leaderboard", handler.GetMatchLeaderboard)
	mux.HandleFunc("GET /v1/users/{userID}/weekly-report", handler.GetUserWeeklyReport)
	mux.HandleFunc("GET /v1/weekly-reports", handler.GetAllUsersWeeklyReport)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	guard := func(next http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(internalJobToken, next)
	}

	mux.Handle("POST /v1/internal/sync/matches", guard(handler.SyncMatches))
	mux.Handle("POST /v1/internal/sync/live", guard(handler.SyncLive))
	mux.Handle("POST /v1/internal/matches/{matchID}/live-sync", guard(handler.SyncMatchLive))
	mux.Handle("POST /v1/internal/matches/{matchID}/slots", guard(handler.InitializeSlots))
	mux.Handle("PUT /v1/internal/matches/{matchID}/assignments", guard(handler.AssignUser))
	mux.Handle("POST /v1/internal/matches/{matchID}/assignments/auto", guard(handler.AutoAssign))
	mux.Handle("DELETE /v1/internal/assignments/{assignmentID}", guard(handler.RemoveAssignment))
}

package httpapi

import (
	"net/http"
)

func (h *Handler) SyncMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "SyncMatches")
	defer span.End()

	result, err := h.matchSyncService.Sync(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "sync matches completed",
		"count", result.Count,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) SyncLive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "SyncLive")
	defer span.End()

	result, err := h.liveScoreService.SyncLive(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync live matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "sync live matches completed",
		"matches", result.Matches,
		"processed", result.Processed,
		"skipped", result.Skipped,
		"workers", result.Workers,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) SyncMatchLive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "SyncMatchLive")
	defer span.End()

	matchID := r.PathValue("matchID")
	result, err := h.liveScoreService.SyncMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync match live failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

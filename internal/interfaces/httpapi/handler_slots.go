package httpapi

import (
	"net/http"

	"github.com/riskibarqy/cricket-slots/internal/usecase"
)

func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "ListSlots")
	defer span.End()

	matchID := r.PathValue("matchID")
	items, err := h.slotService.ListSlots(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list slots failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, slotsToDTO(items))
}

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "ListAssignments")
	defer span.End()

	matchID := r.PathValue("matchID")
	items, err := h.slotService.ListAssignments(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list assignments failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]assignmentDTO, 0, len(items))
	for _, item := range items {
		out = append(out, assignmentToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) InitializeSlots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "InitializeSlots")
	defer span.End()

	var req initializeSlotsRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	result, err := h.slotService.InitializeSlots(ctx, usecase.InitializeSlotsInput{
		MatchID:             matchID,
		InningsCount:        req.InningsCount,
		PositionsPerInnings: req.PositionsPerInnings,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "initialize slots failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) AssignUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "AssignUser")
	defer span.End()

	var req assignUserRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	assignment, err := h.slotService.AssignUser(ctx, usecase.AssignUserInput{
		MatchID:  matchID,
		UserID:   req.UserID,
		Innings:  req.Innings,
		Position: req.Position,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "assign user failed",
			"match_id", matchID,
			"user_id", req.UserID,
			"innings", req.Innings,
			"position", req.Position,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, assignmentToDTO(assignment))
}

func (h *Handler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "AutoAssign")
	defer span.End()

	matchID := r.PathValue("matchID")
	result, err := h.slotService.AutoAssign(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "auto assign failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if result.NothingToDo != nil {
		h.logger.InfoContext(ctx, "auto assign skipped", "match_id", matchID, "reason", result.NothingToDo.Reason)
		writeError(ctx, w, result.NothingToDo)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RemoveAssignment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "RemoveAssignment")
	defer span.End()

	assignmentID := r.PathValue("assignmentID")
	if err := h.slotService.RemoveAssignment(ctx, assignmentID); err != nil {
		h.logger.WarnContext(ctx, "remove assignment failed", "assignment_id", assignmentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": assignmentID, "status": "removed"})
}

package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
	"github.com/riskibarqy/cricket-slots/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "cricket-slots"
)

// Envelope shapes follow the Google JSON style guide.
type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

// nothingToDoDTO is the success body for requests whose precondition was not met.
type nothingToDoDTO struct {
	NothingToDo usecase.NothingToDo `json:"nothing_to_do"`
}

var (
	internalError = mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}

	// First match wins.
	errorRules = []struct {
		target error
		mapped mappedError
	}{
		{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
		{slot.ErrInvalidInnings, mappedError{http.StatusBadRequest, "invalidSlot", "INVALID_ARGUMENT"}},
		{slot.ErrInvalidPosition, mappedError{http.StatusBadRequest, "invalidSlot", "INVALID_ARGUMENT"}},
		{usecase.ErrNotFound, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
		{usecase.ErrUnauthorized, mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
		{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
	}
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{APIVersion: googleAPIVersion, Data: data})
}

// writeError renders err in the error envelope. A NothingToDo is rendered as
// a 200 success carrying the reason.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var skipped *usecase.NothingToDo
	if errors.As(err, &skipped) && skipped != nil {
		writeSuccess(ctx, w, http.StatusOK, nothingToDoDTO{NothingToDo: *skipped})
		return
	}
	if usecase.IsNothingToDo(err) {
		writeSuccess(ctx, w, http.StatusOK, nothingToDoDTO{NothingToDo: usecase.NothingToDo{Reason: err.Error()}})
		return
	}

	writeErrorBody(w, mapError(err), err.Error())
}

func writeInternalError(w http.ResponseWriter) {
	writeErrorBody(w, internalError, "internal server error")
}

func writeErrorBody(w http.ResponseWriter, mapped mappedError, message string) {
	writeJSON(w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors: []googleErrorItem{{
				Domain:  errorDomain,
				Reason:  mapped.Reason,
				Message: message,
			}},
		},
	})
}

func mapError(err error) mappedError {
	for _, rule := range errorRules {
		if errors.Is(err, rule.target) {
			return rule.mapped
		}
	}
	return internalError
}

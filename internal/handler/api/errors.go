package api

import (
	"errors"
	"net/http"

	"FlowShift/internal/usecase"
	xhttp "FlowShift/pkg/http"
)

// toAppError maps usecase errors onto API errors.
func toAppError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		return xhttp.NotFoundError("session not found")
	case errors.Is(err, usecase.ErrRequestInFlight):
		return xhttp.ConflictError("a request is already in flight for this session")
	case errors.Is(err, usecase.ErrEmptyMessage):
		return xhttp.NewAppError("ERR_BAD_REQUEST", "message", "message is empty", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidConfig):
		return xhttp.BadRequestError(err.Error())
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}

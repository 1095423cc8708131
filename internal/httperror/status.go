package httperror

import (
	"errors"
	"net/http"

	"github.com/fincontrol/backend/internal/assistant"
	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/session"
)

// Status returns the HTTP status for an error returned by any layer.
// Errors that are not known are treated as validation errors.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrGeneral):
		return http.StatusInternalServerError
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUnauthorized), errors.Is(err, session.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrEmailTaken), errors.Is(err, models.ErrCategoryNameNotUnique), errors.Is(err, models.ErrSalaryAlreadyBooked):
		return http.StatusConflict
	case errors.Is(err, assistant.ErrNotUnderstood):
		return http.StatusUnprocessableEntity
	case errors.Is(err, assistant.ErrUnavailable):
		return http.StatusServiceUnavailable
	}

	return http.StatusBadRequest
}

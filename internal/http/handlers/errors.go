package handlers

import (
	"errors"
	"net/http"

	"rentago/internal/domain"
	"rentago/internal/http/middleware"
	"rentago/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error       string              `json:"error"`
	Code        string              `json:"code"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
	RequestID   string              `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, fields map[string][]string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:       message,
		Code:        code,
		FieldErrors: fields,
		RequestID:   middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Internal and
// gateway failures are logged in full and surfaced generically.
func RespondDomainError(c *gin.Context, err error) {
	var verr domain.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, "validation_error", verr.Error(), verr.FieldErrors())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, conflictCode(err), err.Error(), nil)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case domain.IsGateway(err):
		utils.LogError(middleware.GetRequestID(c), "http", "respond", "payment gateway error", err)
		respondError(c, http.StatusBadGateway, "gateway_error", "payment provider tidak dapat dihubungi", nil)
	default:
		utils.LogError(middleware.GetRequestID(c), "http", "respond", "internal error", err)
		respondError(c, http.StatusInternalServerError, "internal_error", "terjadi kesalahan", nil)
	}
}

func conflictCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrDatesUnavailable):
		return "dates_unavailable"
	case errors.Is(err, domain.ErrVehicleUnavailable):
		return "vehicle_unavailable"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrDuplicatePromoCode):
		return "duplicate_promo_code"
	default:
		return "conflict"
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Ysherlin/ec3-assessment/internal/apperr"
	"github.com/Ysherlin/ec3-assessment/pkg/logger"
)

// respondError maps domain errors to HTTP responses. Client faults carry a
// descriptive message; anything else is logged in full and answered with a
// generic body so internal diagnostics never reach the client. Every body
// carries the request ID for cross-referencing server logs.
func respondError(c echo.Context, err error) error {
	log := logger.FromEcho(c)
	requestID := RequestID(c)

	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		log.Warn("Validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":      "Validation failed",
			"request_id": requestID,
			"details":    ve.Fields,
		})
	case errors.Is(err, apperr.ErrDuplicateEmail):
		log.Warn("Duplicate email rejected")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":      "Lead with this email already exists",
			"request_id": requestID,
		})
	case errors.Is(err, apperr.ErrLeadNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error":      "Lead not found",
			"request_id": requestID,
		})
	default:
		log.Error("Request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":      "Internal server error",
			"request_id": requestID,
		})
	}
}

func respondInvalidBody(c echo.Context) error {
	return respondError(c, newFieldError("body", "must be a JSON object"))
}

func newFieldError(field, message string) error {
	return apperr.NewValidationError().Add(field, message)
}

// RequestID returns the correlation id set by the request-ID middleware.
func RequestID(c echo.Context) string {
	id, _ := c.Get("request_id").(string)
	return id
}

// HTTPErrorHandler is the echo-level safety net for errors that escape the
// handlers (bad routes, panics recovered by middleware, framework errors).
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	log := logger.FromEcho(c)
	requestID := RequestID(c)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		if he.Code >= http.StatusInternalServerError {
			log.Error("Unhandled error", zap.Error(err))
			msg = "Internal server error"
		}
		_ = c.JSON(he.Code, echo.Map{"error": msg, "request_id": requestID})
		return
	}

	log.Error("Unhandled error", zap.Error(err))
	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"error":      "Internal server error",
		"request_id": requestID,
	})
}

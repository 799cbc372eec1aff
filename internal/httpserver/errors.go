package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/NureAlam68/magical-meals-server/internal/service"
)

// fail logs err under "<op>_error" and turns it into the HTTP error the
// client sees. Store and unexpected errors are reported as 500 without detail.
func fail(l *slog.Logger, op string, err error) error {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		l.Error(op+"_error", "status", status, "reason", msg, "error", err)
	} else {
		l.Warn(op+"_error", "status", status, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(status, msg)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrGatewayValidationFailed):
		return http.StatusBadRequest, "payment failed"
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized access"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden access"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrGateway):
		return http.StatusBadGateway, "payment gateway unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func badBody(l *slog.Logger, op string, err error) error {
	l.Warn(op+"_error", "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
}

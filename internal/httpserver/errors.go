package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog_platform/internal/service"
)

// httpError maps service sentinels onto the response taxonomy. Validation and
// conflict messages are written for users and pass through; credential
// failures stay deliberately generic.
func httpError(err error, fallback string) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "not authorized to access this resource")
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, fallback)
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSearchUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not available")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, fallback)
}

package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"eventhub/internal/common"
)

// httpError translates service errors into echo HTTP errors. The response
// body is the detail the service attached to the sentinel, or a generic
// fallback for a bare sentinel. Unrecognized errors become a 500 so
// internals never leak to clients.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return echo.NewHTTPError(http.StatusBadRequest, detail(err, common.ErrorValidation, "validation failed"))
	case errors.Is(err, common.ErrorAlreadyExists):
		return echo.NewHTTPError(http.StatusBadRequest, detail(err, common.ErrorAlreadyExists, "already exists"))
	case errors.Is(err, common.ErrorUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, detail(err, common.ErrorUnauthorized, "unauthorized"))
	case errors.Is(err, common.ErrorForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, common.ErrorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// detail returns the text err carries beyond the sentinel itself.
func detail(err, sentinel error, fallback string) string {
	if rest, ok := strings.CutPrefix(err.Error(), sentinel.Error()+": "); ok && rest != "" {
		return rest
	}
	return fallback
}

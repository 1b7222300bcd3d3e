package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ErrorHandler renders every error returned by a handler. Validation problems
// become a field map; the other known failures a {"detail": ...} body.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, body := renderError(err)
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Error().Err(err).Msg("Error writing error response")
	}
}

func renderError(err error) (int, interface{}) {
	var verr *apperr.ValidationError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Fields
	case errors.Is(err, apperr.ErrConstraintViolation):
		return http.StatusBadRequest, map[string][]string{
			apperr.NonFieldErrors: {"The request conflicts with existing data."},
		}
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized, detail(apperr.ErrUnauthorized.Error())
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, detail(apperr.ErrForbidden.Error())
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, detail(apperr.ErrNotFound.Error())
	case errors.As(err, &he):
		if msg, ok := he.Message.(string); ok {
			return he.Code, detail(msg)
		}
		return he.Code, detail(fmt.Sprint(he.Message))
	default:
		log.Error().Err(err).Msg("Unhandled error")
		return http.StatusInternalServerError, detail("A server error occurred.")
	}
}

func detail(msg string) echo.Map {
	return echo.Map{"detail": msg}
}

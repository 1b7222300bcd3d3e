package handlers

import (
	"strconv"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// route is one row of a handler's route table.
type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
}

// registerRoutes attaches m to every row rather than to g, so methods a table
// does not list still answer 405.
func registerRoutes(g *echo.Group, routes []route, m ...echo.MiddlewareFunc) {
	for _, r := range routes {
		g.Add(r.method, r.path, r.handler, m...)
	}
}

// requireUser returns the acting identity or ErrUnauthorized.
func requireUser(c echo.Context) (*models.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, apperr.ErrUnauthorized
	}
	return user, nil
}

// pathID parses a numeric path parameter. Anything that is not a positive
// integer cannot name a row, so it is reported as not found.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.ErrNotFound
	}
	return uint(id), nil
}

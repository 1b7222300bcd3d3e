package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// GroupHandler serves the read-only group catalogue
type GroupHandler struct {
	groupRepository repositories.GroupRepository
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupRepo repositories.GroupRepository) *GroupHandler {
	return &GroupHandler{groupRepository: groupRepo}
}

// RegisterGroupRoutes registers group routes. Groups have no write routes.
func (h *GroupHandler) RegisterGroupRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	registerRoutes(g, []route{
		{http.MethodGet, "/groups/", h.ListGroups},
		{http.MethodGet, "/groups/:id/", h.GetGroup},
	}, m...)
}

func (h *GroupHandler) ListGroups(c echo.Context) error {
	groups, err := h.groupRepository.ListGroups(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groups)
}

func (h *GroupHandler) GetGroup(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	group, err := h.groupRepository.GetGroupByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, group)
}

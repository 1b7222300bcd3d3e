package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/serializers"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles HTTP requests related to follows
type FollowHandler struct {
	followRepository repositories.FollowRepository
	serializer       *serializers.FollowSerializer
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, serializer *serializers.FollowSerializer) *FollowHandler {
	return &FollowHandler{followRepository: followRepo, serializer: serializer}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	registerRoutes(g, []route{
		{http.MethodGet, "/follow/", h.ListFollows},
		{http.MethodPost, "/follow/", h.CreateFollow},
	}, m...)
}

// ListFollows returns the caller's follows, filtered by ?search= against
// either username.
func (h *FollowHandler) ListFollows(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	follows, err := h.followRepository.ListFollows(c.Request().Context(), user.ID, c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.serializer.ToRepresentationList(follows))
}

// CreateFollow subscribes the caller to another user
func (h *FollowHandler) CreateFollow(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.CreateFollowRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	follow, err := h.serializer.Validate(ctx, user, &req)
	if err != nil {
		return err
	}
	if err := h.followRepository.CreateFollow(ctx, follow); err != nil {
		return h.serializer.ConstraintError(follow, err)
	}
	return c.JSON(http.StatusCreated, h.serializer.ToRepresentation(follow))
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const usernameTakenMessage = "A user with that username already exists."

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers sign-up and own-profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	registerRoutes(g, []route{
		{http.MethodPost, "/users/", h.Signup},
		{http.MethodGet, "/users/me/", h.GetProfile},
		{http.MethodDelete, "/users/me/", h.DeleteProfile},
	}, m...)
}

// Signup registers a password user
func (h *UserHandler) Signup(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	_, err := h.userRepository.GetUserByUsername(ctx, req.Username)
	if err == nil {
		return apperr.NewValidationError("username", usernameTakenMessage)
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConstraintViolation) {
			return apperr.NewValidationError("username", usernameTakenMessage)
		}
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// GetProfile returns the caller
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteProfile deletes the caller together with their posts, comments and follows
func (h *UserHandler) DeleteProfile(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.userRepository.DeleteUser(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler issues and checks access tokens for password users
type AuthHandler struct {
	userRepository repositories.UserRepository
	tokens         *middleware.JWTVerifier
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, tokens *middleware.JWTVerifier) *AuthHandler {
	return &AuthHandler{userRepository: userRepo, tokens: tokens}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	registerRoutes(g, []route{
		{http.MethodPost, "/jwt/create/", h.CreateToken},
		{http.MethodPost, "/jwt/verify/", h.VerifyToken},
	}, m...)
}

// CreateToken exchanges a username and password for an access token
func (h *AuthHandler) CreateToken(c echo.Context) error {
	var req models.TokenRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), req.Username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return invalidCredentials()
		}
		return err
	}
	// Firebase-only accounts have no password hash and never match.
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return invalidCredentials()
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"access": token})
}

// VerifyToken reports whether a token is still accepted
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	var req models.VerifyTokenRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if _, err := h.tokens.Verify(c.Request().Context(), req.Token); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is invalid or expired")
	}
	return c.JSON(http.StatusOK, echo.Map{})
}

func invalidCredentials() error {
	return echo.NewHTTPError(http.StatusUnauthorized, "No active account found with the given credentials")
}

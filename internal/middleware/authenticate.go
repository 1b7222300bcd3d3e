package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// UserContextKey is the echo context key holding the acting *models.User.
const UserContextKey = "user"

// TokenVerifier maps a bearer token to the user it identifies.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.User, error)
}

// Authenticate resolves the acting identity from a bearer token. Requests
// without an Authorization header continue anonymously; a header that no
// verifier accepts is rejected with 401.
func Authenticate(verifiers ...TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			// Expecting "Bearer <token>"
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			for _, v := range verifiers {
				user, err := v.Verify(c.Request().Context(), parts[1])
				if err == nil && user != nil {
					c.Set(UserContextKey, user)
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Given token not valid for any token type")
		}
	}
}

// CurrentUser returns the acting identity, or nil for anonymous requests.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(UserContextKey).(*models.User)
	return user
}

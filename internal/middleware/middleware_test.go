package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/testutil"
	"github.com/anonto42/yatube/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticVerifier struct {
	token string
	user  *models.User
}

func (v staticVerifier) Verify(_ context.Context, token string) (*models.User, error) {
	if token != v.token {
		return nil, errors.New("unknown token")
	}
	return v.user, nil
}

type fakeIDTokens map[string]firebase.Identity

func (f fakeIDTokens) VerifyIDToken(_ context.Context, idToken string) (*firebase.Identity, error) {
	identity, ok := f[idToken]
	if !ok {
		return nil, errors.New("invalid id token")
	}
	return &identity, nil
}

func TestFirebaseVerifier(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	users := repositories.NewPostgresUserRepository(db)

	v := middleware.NewFirebaseVerifier(fakeIDTokens{
		"carol-token": {UID: "uid-carol-123", Email: "carol@example.com"},
	}, users)

	first, err := v.Verify(ctx, "carol-token")
	require.NoError(t, err)
	assert.Equal(t, "carol-uid-ca", first.Username)
	assert.Equal(t, "carol@example.com", first.Email)

	// The second sign-in resolves to the row created by the first.
	second, err := v.Verify(ctx, "carol-token")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = v.Verify(ctx, "forged")
	assert.Error(t, err)
}

func TestJWTVerifier(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	users := repositories.NewPostgresUserRepository(db)
	alice := testutil.CreateUser(t, db, "alice")

	v := middleware.NewJWTVerifier("secret", time.Hour, users)
	token, err := v.Issue(alice)
	require.NoError(t, err)

	got, err := v.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	other := middleware.NewJWTVerifier("other-secret", time.Hour, users)
	_, err = other.Verify(ctx, token)
	assert.Error(t, err, "signed with another secret")

	expired := middleware.NewJWTVerifier("secret", -time.Minute, users)
	old, err := expired.Issue(alice)
	require.NoError(t, err)
	_, err = v.Verify(ctx, old)
	assert.Error(t, err, "expired")
}

func TestAuthenticate(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}
	e := echo.New()
	e.Use(middleware.Authenticate(staticVerifier{token: "good", user: alice}))
	e.GET("/", func(c echo.Context) error {
		if user := middleware.CurrentUser(c); user != nil {
			return c.String(http.StatusOK, user.Username)
		}
		return c.String(http.StatusOK, "anonymous")
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"no header", "", http.StatusOK, "anonymous"},
		{"valid token", "Bearer good", http.StatusOK, "alice"},
		{"scheme is case insensitive", "bearer good", http.StatusOK, "alice"},
		{"unknown token", "Bearer bad", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"missing token", "Bearer", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

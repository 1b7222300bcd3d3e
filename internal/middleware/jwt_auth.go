package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
)

// JWTVerifier checks HS256 access tokens issued by this service.
type JWTVerifier struct {
	secret []byte
	ttl    time.Duration
	users  repositories.UserRepository
}

func NewJWTVerifier(secret string, ttl time.Duration, users repositories.UserRepository) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), ttl: ttl, users: users}
}

// Issue signs an access token for user.
func (v *JWTVerifier) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Verify parses the token and loads the user it names. A token for a deleted
// user is invalid.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token")
	}
	return v.users.GetUserByID(ctx, claims.UserID)
}

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is the acting identity behind every write. Authentication itself lives in
// the middleware package; this row only maps an identity to a username.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	Email       string    `json:"email" gorm:"size:254"`
	Password    string    `json:"-"`                                                  // bcrypt hash
	FirebaseUID *string   `json:"-" gorm:"size:128;uniqueIndex"`                      // set for Firebase-backed identities
	DateJoined  time.Time `json:"date_joined" gorm:"autoCreateTime;<-:create"`
}

// CreateUserRequest is the sign-up payload.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// TokenRequest is the payload for issuing an access token.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// VerifyTokenRequest is the payload for checking an access token.
type VerifyTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

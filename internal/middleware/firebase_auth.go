package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/pkg/firebase"
)

// IDTokenVerifier is satisfied by *firebase.Client.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebase.Identity, error)
}

// FirebaseVerifier accepts Firebase ID tokens. The first request of a new
// Firebase user creates the local user row it maps to.
type FirebaseVerifier struct {
	client IDTokenVerifier
	users  repositories.UserRepository
}

func NewFirebaseVerifier(client IDTokenVerifier, users repositories.UserRepository) *FirebaseVerifier {
	return &FirebaseVerifier{client: client, users: users}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*models.User, error) {
	identity, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := v.users.GetUserByFirebaseUID(ctx, identity.UID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	uid := identity.UID
	user = &models.User{
		Username:    firebaseUsername(identity.Email, uid),
		Email:       identity.Email,
		FirebaseUID: &uid,
	}
	if err := v.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// firebaseUsername derives a username from the email local part, falling back
// to the UID so it stays unique.
func firebaseUsername(email, uid string) string {
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		return local + "-" + uid[:min(6, len(uid))]
	}
	return uid
}

package firebase

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Identity is the part of a verified Firebase ID token the API maps to a
// local user.
type Identity struct {
	UID   string
	Email string
}

// Client verifies Firebase ID tokens.
type Client struct {
	auth *auth.Client
}

// NewClient loads the service account at credentialsPath and builds an auth
// client from it.
func NewClient(ctx context.Context, credentialsPath string) (*Client, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	log.Info().Str("credentials", credentialsPath).Msg("Firebase auth client initialized.")
	return &Client{auth: authClient}, nil
}

// VerifyIDToken checks signature, audience and expiry of idToken.
func (c *Client) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	token, err := c.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	email, _ := token.Claims["email"].(string)
	return &Identity{UID: token.UID, Email: email}, nil
}

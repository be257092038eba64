package provider

import (
	"context"

	"github.com/brizzai/oauth-relay/internal/models"
)

// Provider defines the identity provider operations the relay relies on
type Provider interface {
	// AuthURL returns the authorization link the user follows to log in
	AuthURL() string

	// ExchangeCode exchanges an authorization code for an access token.
	// Exactly one outbound call is made.
	ExchangeCode(ctx context.Context, code string) (*models.TokenResult, error)

	// FetchProfile fetches the profile of the user owning accessToken.
	// Exactly one outbound call is made.
	FetchProfile(ctx context.Context, accessToken string) (*models.UserProfile, error)
}

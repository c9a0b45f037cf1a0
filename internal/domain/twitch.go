package domain

import (
	"context"
	"encoding/json"
)

// TokenResponse is the payload of the Twitch OAuth token endpoint, shared by
// the authorization-code and refresh-token grants.
type TokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	Scope        []string `json:"scope,omitempty"`
	TokenType    string   `json:"token_type,omitempty"`
}

// UserInfo is a single entry of the Helix users endpoint response.
type UserInfo struct {
	ID          string `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"profile_image_url"`
}

// OAuthClient is the port to the Twitch OAuth2 and Helix user endpoints.
type OAuthClient interface {
	// AuthCodeURL builds the authorization URL the browser is redirected to.
	AuthCodeURL(state string) string

	// ExchangeCode trades an authorization code for a token pair.
	ExchangeCode(ctx context.Context, code string) (*TokenResponse, error)

	// FetchUserInfo loads the authenticated user's profile. A nil result with
	// a nil error means Twitch returned an empty user list.
	FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error)

	// Refresh trades a refresh token for a new token pair. The raw response
	// body is returned alongside the decoded form so callers can proxy it
	// unmodified.
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, json.RawMessage, error)
}

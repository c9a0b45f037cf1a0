package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/haxgun/valory/internal/domain"
	"github.com/haxgun/valory/internal/metrics"
)

const (
	twitchAuthURL   = "https://id.twitch.tv/oauth2/authorize"
	twitchTokenURL  = "https://id.twitch.tv/oauth2/token"
	twitchUsersURL  = "https://api.twitch.tv/helix/users"
	httpCallTimeout = 10 * time.Second
)

// StatusError reports a non-200 response from Twitch. The upstream status code
// is preserved so the HTTP layer can forward it to the client.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("twitch %s endpoint returned status %d", e.Endpoint, e.Code)
}

// Client implements domain.OAuthClient against the Twitch OAuth2 and Helix APIs.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string

	// endpoint URLs are configurable for testing
	authURL  string
	tokenURL string
	usersURL string

	http *http.Client
}

func NewClient(clientID, clientSecret, redirectURI string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		authURL:      twitchAuthURL,
		tokenURL:     twitchTokenURL,
		usersURL:     twitchUsersURL,
		http:         &http.Client{Timeout: httpCallTimeout},
	}
}

// AuthCodeURL builds the authorization URL for the code grant redirect.
func (c *Client) AuthCodeURL(state string) string {
	v := url.Values{}
	v.Set("response_type", "code")
	v.Set("client_id", c.clientID)
	v.Set("redirect_uri", c.redirectURI)
	v.Set("state", state)
	return c.authURL + "?" + v.Encode()
}

// ExchangeCode trades an authorization code for a token pair.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*domain.TokenResponse, error) {
	data := url.Values{}
	data.Set("client_id", c.clientID)
	data.Set("client_secret", c.clientSecret)
	data.Set("code", code)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", c.redirectURI)

	body, err := c.postToken(ctx, data)
	if err != nil {
		return nil, err
	}

	token, err := decodeTokenResponse(body)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	return token, nil
}

// Refresh trades a refresh token for a new token pair. The raw body is
// returned so the caller can proxy Twitch's response unmodified.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.TokenResponse, json.RawMessage, error) {
	data := url.Values{}
	data.Set("client_id", c.clientID)
	data.Set("client_secret", c.clientSecret)
	data.Set("refresh_token", refreshToken)
	data.Set("grant_type", "refresh_token")

	body, err := c.postToken(ctx, data)
	if err != nil {
		return nil, nil, err
	}

	token, err := decodeTokenResponse(body)
	if err != nil {
		return nil, nil, fmt.Errorf("token refresh: %w", err)
	}
	return token, body, nil
}

// FetchUserInfo loads the authenticated user's Helix profile. Twitch answering
// 200 with an empty user list yields (nil, nil).
func (c *Client) FetchUserInfo(ctx context.Context, accessToken string) (*domain.UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.usersURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Client-Id", c.clientID)

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.TwitchRequestDuration.WithLabelValues("users").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to execute user request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.TwitchRequestErrors.WithLabelValues("users", strconv.Itoa(resp.StatusCode)).Inc()
		return nil, &StatusError{Endpoint: "users", Code: resp.StatusCode}
	}

	var userResp struct {
		Data []domain.UserInfo `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userResp); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}

	if len(userResp.Data) == 0 {
		return nil, nil
	}
	return &userResp.Data[0], nil
}

// postToken sends a form-encoded POST to the token endpoint and returns the
// raw response body on HTTP 200.
func (c *Client) postToken(ctx context.Context, data url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.TwitchRequestDuration.WithLabelValues("token").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to execute token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.TwitchRequestErrors.WithLabelValues("token", strconv.Itoa(resp.StatusCode)).Inc()
		return nil, &StatusError{Endpoint: "token", Code: resp.StatusCode}
	}

	return body, nil
}

func decodeTokenResponse(body []byte) (*domain.TokenResponse, error) {
	var token domain.TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}
	return &token, nil
}

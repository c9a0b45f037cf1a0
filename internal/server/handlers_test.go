package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/haxgun/valory/internal/config"
	"github.com/haxgun/valory/internal/domain"
)

// --- Mock implementations ---

type mockUserRepo struct {
	getByIDFn       func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	getByTwitchIDFn func(ctx context.Context, twitchID string) (*domain.User, error)
	createFn        func(ctx context.Context, user domain.NewUser) (*domain.User, error)

	createCalls []domain.NewUser
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) GetByTwitchID(ctx context.Context, twitchID string) (*domain.User, error) {
	if m.getByTwitchIDFn != nil {
		return m.getByTwitchIDFn(ctx, twitchID)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.NewUser) (*domain.User, error) {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return &domain.User{
		ID:           uuid.New(),
		TwitchID:     user.TwitchID,
		Username:     user.Username,
		DisplayName:  user.DisplayName,
		AvatarURL:    user.AvatarURL,
		AccessToken:  user.AccessToken,
		RefreshToken: user.RefreshToken,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

type mockOAuthClient struct {
	exchangeFn  func(ctx context.Context, code string) (*domain.TokenResponse, error)
	fetchUserFn func(ctx context.Context, accessToken string) (*domain.UserInfo, error)
	refreshFn   func(ctx context.Context, refreshToken string) (*domain.TokenResponse, json.RawMessage, error)

	refreshCalls int
}

func (m *mockOAuthClient) AuthCodeURL(state string) string {
	v := url.Values{}
	v.Set("response_type", "code")
	v.Set("client_id", "test_client")
	v.Set("redirect_uri", "http://localhost:8080/auth/callback")
	v.Set("state", state)
	return "https://id.twitch.tv/oauth2/authorize?" + v.Encode()
}

func (m *mockOAuthClient) ExchangeCode(ctx context.Context, code string) (*domain.TokenResponse, error) {
	if m.exchangeFn != nil {
		return m.exchangeFn(ctx, code)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockOAuthClient) FetchUserInfo(ctx context.Context, accessToken string) (*domain.UserInfo, error) {
	if m.fetchUserFn != nil {
		return m.fetchUserFn(ctx, accessToken)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockOAuthClient) Refresh(ctx context.Context, refreshToken string) (*domain.TokenResponse, json.RawMessage, error) {
	m.refreshCalls++
	if m.refreshFn != nil {
		return m.refreshFn(ctx, refreshToken)
	}
	return nil, nil, fmt.Errorf("not implemented")
}

type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

// --- Test server setup ---

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "test",
		Port:               "8080",
		TwitchClientID:     "test_client",
		TwitchClientSecret: "test_secret",
		RedirectURI:        "http://localhost:8080/auth/callback",
		FrontendURL:        "http://localhost:3000",
	}
}

func newTestServer(t *testing.T, users domain.UserRepository, oauth domain.OAuthClient) *Server {
	t.Helper()
	return newTestServerWithClock(t, users, oauth, clockwork.NewFakeClock())
}

func newTestServerWithClock(t *testing.T, users domain.UserRepository, oauth domain.OAuthClient, clock clockwork.Clock) *Server {
	t.Helper()
	return NewServer(testConfig(), users, oauth, &mockPinger{}, clock)
}

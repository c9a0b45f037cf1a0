package server

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haxgun/valory/internal/domain"
	apperrors "github.com/haxgun/valory/internal/errors"
	"github.com/haxgun/valory/internal/metrics"
	"github.com/haxgun/valory/internal/twitch"
)

const (
	stateCookieName = "twitch_state"
	stateLength     = 16
	stateCookieTTL  = 10 * time.Minute
	oauthTimeout    = 10 * time.Second
)

const stateAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// generateOAuthState returns a random alphanumeric anti-forgery token drawn
// from crypto/rand.
func generateOAuthState(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate OAuth state: %w", err)
	}
	for i, b := range buf {
		buf[i] = stateAlphabet[int(b)%len(stateAlphabet)]
	}
	return string(buf), nil
}

func (s *Server) handleLogin(c echo.Context) error {
	state, err := generateOAuthState(stateLength)
	if err != nil {
		return apperrors.InternalError("failed to generate OAuth state", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		Expires:  s.clock.Now().Add(stateCookieTTL),
		HttpOnly: true,
		Secure:   s.config.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	})

	metrics.LoginsStarted.Inc()
	return c.Redirect(http.StatusFound, s.oauth.AuthCodeURL(state))
}

func (s *Server) handleOAuthCallback(c echo.Context) error {
	if len(c.QueryParams()) == 0 {
		metrics.CallbacksTotal.WithLabelValues("rejected").Inc()
		return apperrors.ValidationError("no query parameters received")
	}

	code := c.QueryParam("code")
	state := c.QueryParam("state")
	cookie, err := c.Cookie(stateCookieName)

	// The state must exactly match the per-login-attempt cookie value.
	if code == "" || state == "" || err != nil || cookie.Value == "" || state != cookie.Value {
		metrics.CallbacksTotal.WithLabelValues("rejected").Inc()
		return apperrors.ValidationError("invalid or missing state")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), oauthTimeout)
	defer cancel()

	token, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		metrics.CallbacksTotal.WithLabelValues("upstream_error").Inc()
		return upstreamError("failed to fetch tokens", err)
	}

	info, err := s.oauth.FetchUserInfo(ctx, token.AccessToken)
	if err != nil {
		metrics.CallbacksTotal.WithLabelValues("upstream_error").Inc()
		return upstreamError("failed to fetch user info", err)
	}

	// Twitch can answer 200 with an empty user list; in that case the
	// callback completes without touching the database.
	if info != nil {
		if err := s.ensureUser(ctx, info, token); err != nil {
			metrics.CallbacksTotal.WithLabelValues("internal_error").Inc()
			return err
		}
	}

	metrics.CallbacksTotal.WithLabelValues("success").Inc()
	s.clearStateCookie(c)
	return c.Redirect(http.StatusFound, s.config.FrontendURL+"/configurator")
}

// ensureUser creates the user on first login. Existing users are left
// untouched: profile and tokens are a first-login snapshot.
func (s *Server) ensureUser(ctx context.Context, info *domain.UserInfo, token *domain.TokenResponse) error {
	_, err := s.users.GetByTwitchID(ctx, info.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return apperrors.InternalError("failed to look up user", err)
	}

	user, err := s.users.Create(ctx, domain.NewUser{
		TwitchID:     info.ID,
		Username:     info.Login,
		DisplayName:  info.DisplayName,
		AvatarURL:    info.AvatarURL,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	})
	if errors.Is(err, domain.ErrUserExists) {
		// Lost the race against a concurrent callback for the same account.
		slog.DebugContext(ctx, "User already created by concurrent callback", "twitch_id", info.ID)
		return nil
	}
	if err != nil {
		return apperrors.InternalError("failed to create user", err).WithContext("twitch_id", info.ID)
	}

	metrics.UsersCreated.Inc()
	slog.InfoContext(ctx, "User created", "user_id", user.ID, "twitch_id", user.TwitchID, "username", user.Username)
	return nil
}

func (s *Server) handleRefreshToken(c echo.Context) error {
	refreshToken := c.FormValue("refresh_token")
	if refreshToken == "" {
		refreshToken = c.QueryParam("refresh_token")
	}
	if refreshToken == "" {
		return apperrors.ValidationError("missing refresh_token")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), oauthTimeout)
	defer cancel()

	// The provider's JSON is proxied back unmodified; nothing is persisted.
	_, raw, err := s.oauth.Refresh(ctx, refreshToken)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("error").Inc()
		return upstreamError("failed to refresh token", err)
	}

	metrics.TokenRefreshes.WithLabelValues("success").Inc()
	return c.JSONBlob(http.StatusOK, raw)
}

func (s *Server) clearStateCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// upstreamError maps a twitch.StatusError to an error forwarding the
// provider's status code; anything else becomes an internal error.
func upstreamError(message string, err error) error {
	var statusErr *twitch.StatusError
	if errors.As(err, &statusErr) {
		return apperrors.UpstreamError(message, statusErr.Code, err)
	}
	return apperrors.InternalError(message, err)
}

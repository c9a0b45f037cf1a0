package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/haxgun/valory/internal/crypto"
	"github.com/haxgun/valory/internal/domain"
)

// CreateTestUser is a helper that creates a user with default values for testing.
// Returns the created user.
func CreateTestUser(t *testing.T, pool *pgxpool.Pool, twitchID string) *domain.User {
	t.Helper()

	repo := NewUserRepo(pool, crypto.NoopCipher{})
	user, err := repo.Create(context.Background(), domain.NewUser{
		TwitchID:     twitchID,
		Username:     "testuser_" + twitchID,
		DisplayName:  "TestUser_" + twitchID,
		AvatarURL:    "https://cdn.example/avatar.png",
		AccessToken:  "access_token",
		RefreshToken: "refresh_token",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)

	return user
}

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haxgun/valory/internal/crypto"
	"github.com/haxgun/valory/internal/domain"
)

// userColumns must match the Scan order in scanUser.
const userColumns = `id, twitch_id, username, display_name, avatar_url, access_token, refresh_token, created_at, updated_at`

// UserRepo implements domain.UserRepository backed by PostgreSQL.
type UserRepo struct {
	pool   *pgxpool.Pool
	cipher crypto.TokenCipher
}

func NewUserRepo(pool *pgxpool.Pool, cipher crypto.TokenCipher) *UserRepo {
	return &UserRepo{pool: pool, cipher: cipher}
}

func (r *UserRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.TwitchID, &user.Username, &user.DisplayName, &user.AvatarURL,
		&user.AccessToken, &user.RefreshToken,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.decryptUserTokens(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) decryptUserTokens(user *domain.User) error {
	var err error
	user.AccessToken, err = r.cipher.Decrypt(user.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to decrypt access token: %w", err)
	}
	user.RefreshToken, err = r.cipher.Decrypt(user.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to decrypt refresh token: %w", err)
	}
	return nil
}

// Create inserts the user. The twitch_id unique constraint is the canonical
// already-exists signal: ON CONFLICT DO NOTHING yields no row, which we
// surface as domain.ErrUserExists instead of relying on a prior lookup.
func (r *UserRepo) Create(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	encAccessToken, err := r.cipher.Encrypt(nu.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}
	encRefreshToken, err := r.cipher.Encrypt(nu.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	user, err := r.scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (twitch_id, username, display_name, avatar_url, access_token, refresh_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (twitch_id) DO NOTHING
		RETURNING `+userColumns+`
	`, nu.TwitchID, nu.Username, nu.DisplayName, nu.AvatarURL, encAccessToken, encRefreshToken))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
}

func (r *UserRepo) GetByTwitchID(ctx context.Context, twitchID string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE twitch_id = $1`, twitchID))
}

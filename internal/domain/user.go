package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID
	TwitchID    string
	Username    string
	DisplayName string
	AvatarURL   string
	// Tokens are kept in the User struct for simplicity. Rationale:
	// - The token pair is written once at first login together with the profile snapshot
	// - No use case for querying users without tokens or vice versa
	// - Encryption at rest is handled at the repository layer, not here
	AccessToken  string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser carries the fields persisted at first login. TwitchID is the
// external identity and must be unique across all users.
type NewUser struct {
	TwitchID     string
	Username     string
	DisplayName  string
	AvatarURL    string
	AccessToken  string
	RefreshToken string
}

type UserRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByTwitchID(ctx context.Context, twitchID string) (*User, error)
	// Create inserts a new user and returns the persisted row, with generated
	// fields materialized. Returns ErrUserExists when the TwitchID is taken.
	Create(ctx context.Context, user NewUser) (*User, error)
}

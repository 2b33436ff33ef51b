package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User represents one authorized Spotify account. The surrogate ID is
// assigned on first identity resolution and never changes; the token
// fields are overwritten on every successful authorization.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	SpotifyID    string    `json:"spotify_id" db:"spotify_id"`
	Email        *string   `json:"email" db:"email"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	AccessToken  string    `json:"-" db:"access_token"`
	RefreshToken *string   `json:"-" db:"refresh_token"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TokenPair is the access/refresh token pair returned by the token
// endpoint. RefreshToken may be empty when the provider withholds it.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token is past its expiry. A zero
// expiry means the provider never told us; treat it as still valid.
func (p *TokenPair) Expired() bool {
	if p.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(p.ExpiresAt)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetBySpotifyID(ctx context.Context, spotifyID string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateTokens(ctx context.Context, id uuid.UUID, accessToken string, refreshToken *string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, email *string, passwordHash *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

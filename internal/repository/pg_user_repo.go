package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tunefolio/tunefolio/internal/domain"
)

const pgUniqueViolation = "23505"

type pgUserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates and returns a new PostgreSQL-based user repository.
// It takes a database connection and initializes a pgUserRepository instance
// that implements the domain.UserRepository interface.
func NewUserRepository(db *sqlx.DB) domain.UserRepository {
	return &pgUserRepository{db: db}
}

// Create inserts a new user record into the database. A unique
// violation on spotify_id maps to domain.ErrUserAlreadyExists so
// callers can recover from create races without inspecting pq codes.
func (r *pgUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, spotify_id, email, password_hash, access_token, refresh_token, created_at, updated_at)
		VALUES (:id, :spotify_id, :email, :password_hash, :access_token, :refresh_token, :created_at, :updated_at)`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = time.Now()
	}

	_, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pgUniqueViolation {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// GetBySpotifyID retrieves a user by their provider-assigned id.
// Returns nil without an error when no such user exists.
func (r *pgUserRepository) GetBySpotifyID(ctx context.Context, spotifyID string) (*domain.User, error) {
	user := &domain.User{}
	query := `SELECT * FROM users WHERE spotify_id = $1`

	err := r.db.GetContext(ctx, user, query, spotifyID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by their surrogate id. Returns nil without
// an error when no such user exists.
func (r *pgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user := &domain.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, user, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List returns all users ordered by creation time.
func (r *pgUserRepository) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	query := `SELECT * FROM users ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateTokens overwrites the stored token pair unconditionally.
// Last write wins; there is no merge.
func (r *pgUserRepository) UpdateTokens(ctx context.Context, id uuid.UUID, accessToken string, refreshToken *string) error {
	query := `UPDATE users SET access_token = $1, refresh_token = $2, updated_at = $3 WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, accessToken, refreshToken, time.Now(), id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateProfile applies a partial update of the administrative fields.
// Nil arguments leave the corresponding column untouched.
func (r *pgUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, email *string, passwordHash *string) error {
	setClauses := []string{}
	args := []interface{}{}
	argPos := 1

	if email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argPos))
		args = append(args, email)
		argPos++
	}
	if passwordHash != nil {
		setClauses = append(setClauses, fmt.Sprintf("password_hash = $%d", argPos))
		args = append(args, passwordHash)
		argPos++
	}
	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now())
	argPos++
	args = append(args, id)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argPos)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes a user; their favorites go with them via the foreign
// key cascade.
func (r *pgUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

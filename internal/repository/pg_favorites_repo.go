package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tunefolio/tunefolio/internal/domain"
)

type pgFavoritesRepository struct {
	db *sqlx.DB
}

// NewFavoritesRepository creates and returns a new PostgreSQL-based
// favorites repository implementing domain.FavoritesRepository.
func NewFavoritesRepository(db *sqlx.DB) domain.FavoritesRepository {
	return &pgFavoritesRepository{db: db}
}

// MergeArtists inserts the fetched artists that are not yet stored for
// this user, all in one transaction. ON CONFLICT DO NOTHING carries the
// skip policy: an existing (user_id, name) row, a duplicate name inside
// the same batch, and a concurrent writer all land on the same benign
// skipped path. Existing rows are never updated.
func (r *pgFavoritesRepository) MergeArtists(ctx context.Context, userID uuid.UUID, artists []domain.TopArtist) (int, int, error) {
	query := `INSERT INTO favorite_artists (id, user_id, name, genres, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, name) DO NOTHING`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	inserted, skipped := 0, 0
	for _, artist := range artists {
		res, err := tx.ExecContext(ctx, query, uuid.New(), userID, artist.Name, strings.Join(artist.Genres, ", "), time.Now())
		if err != nil {
			return 0, 0, err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return 0, 0, err
		}
		if rows == 1 {
			inserted++
		} else {
			skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return inserted, skipped, nil
}

// MergeTracks is the track-side merge, in its own transaction so that a
// failure here never disturbs an already-committed artist merge.
func (r *pgFavoritesRepository) MergeTracks(ctx context.Context, userID uuid.UUID, tracks []domain.TopTrack) (int, int, error) {
	query := `INSERT INTO favorite_tracks (id, user_id, title, artist, album, popularity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, title) DO NOTHING`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	inserted, skipped := 0, 0
	for _, track := range tracks {
		res, err := tx.ExecContext(ctx, query, uuid.New(), userID, track.Title, track.Artist, track.Album, track.Popularity, time.Now())
		if err != nil {
			return 0, 0, err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return 0, 0, err
		}
		if rows == 1 {
			inserted++
		} else {
			skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return inserted, skipped, nil
}

// ListArtists returns the stored top-artist set for a user. The id
// tiebreaker keeps the order stable when rows share a timestamp.
func (r *pgFavoritesRepository) ListArtists(ctx context.Context, userID uuid.UUID) ([]domain.FavoriteArtist, error) {
	artists := []domain.FavoriteArtist{}
	query := `SELECT * FROM favorite_artists WHERE user_id = $1 ORDER BY created_at, id`

	if err := r.db.SelectContext(ctx, &artists, query, userID); err != nil {
		return nil, err
	}
	return artists, nil
}

// ListTracks returns the stored top-track set for a user.
func (r *pgFavoritesRepository) ListTracks(ctx context.Context, userID uuid.UUID) ([]domain.FavoriteTrack, error) {
	tracks := []domain.FavoriteTrack{}
	query := `SELECT * FROM favorite_tracks WHERE user_id = $1 ORDER BY created_at, id`

	if err := r.db.SelectContext(ctx, &tracks, query, userID); err != nil {
		return nil, err
	}
	return tracks, nil
}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FavoriteArtist is one artist in a user's stored top-artist set.
// (user_id, name) is unique; rows are insert-only and never updated by
// reconciliation.
type FavoriteArtist struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Genres    string    `json:"genres" db:"genres"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FavoriteTrack is one track in a user's stored top-track set.
// (user_id, title) is unique under the same insert-only rule.
type FavoriteTrack struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	Title      string    `json:"title" db:"title"`
	Artist     string    `json:"artist" db:"artist"`
	Album      string    `json:"album" db:"album"`
	Popularity int       `json:"popularity" db:"popularity"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// TopArtist is a freshly fetched top-list entry, in provider ranking
// order, before it has been merged into storage.
type TopArtist struct {
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// TopTrack is a freshly fetched top-track entry.
type TopTrack struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	Popularity int    `json:"popularity"`
}

// SyncSummary reports what one reconciliation pass did.
type SyncSummary struct {
	ArtistsInserted int `json:"artists_inserted"`
	ArtistsSkipped  int `json:"artists_skipped"`
	TracksInserted  int `json:"tracks_inserted"`
	TracksSkipped   int `json:"tracks_skipped"`
}

// FavoritesRepository merges fetched top-lists into storage. Each Merge
// call runs in its own transaction; an item whose natural key already
// exists is counted as skipped, never updated.
type FavoritesRepository interface {
	MergeArtists(ctx context.Context, userID uuid.UUID, artists []TopArtist) (inserted, skipped int, err error)
	MergeTracks(ctx context.Context, userID uuid.UUID, tracks []TopTrack) (inserted, skipped int, err error)
	ListArtists(ctx context.Context, userID uuid.UUID) ([]FavoriteArtist, error)
	ListTracks(ctx context.Context, userID uuid.UUID) ([]FavoriteTrack, error)
}

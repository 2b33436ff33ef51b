package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunefolio/tunefolio/internal/domain"
	"github.com/tunefolio/tunefolio/internal/repository"
)

func TestPGFavoritesRepository_MergeArtists(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := repository.NewFavoritesRepository(db)
	userID := uuid.New()

	artists := []domain.TopArtist{
		{Name: "Tame Impala", Genres: []string{"psych rock", "indie"}},
		{Name: "Beach House", Genres: []string{"dream pop"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO favorite_artists").
		WithArgs(sqlmock.AnyArg(), userID, "Tame Impala", "psych rock, indie", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO favorite_artists").
		WithArgs(sqlmock.AnyArg(), userID, "Beach House", "dream pop", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	inserted, skipped, err := repo.MergeArtists(context.Background(), userID, artists)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.Equal(t, 1, skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGFavoritesRepository_MergeArtists_DuplicateInBatch(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := repository.NewFavoritesRepository(db)
	userID := uuid.New()

	// Two entries with the same name: the conflict target catches the
	// second inside the same transaction, so it counts as skipped.
	artists := []domain.TopArtist{
		{Name: "X", Genres: []string{"rock"}},
		{Name: "X", Genres: []string{"pop"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO favorite_artists").
		WithArgs(sqlmock.AnyArg(), userID, "X", "rock", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO favorite_artists").
		WithArgs(sqlmock.AnyArg(), userID, "X", "pop", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	inserted, skipped, err := repo.MergeArtists(context.Background(), userID, artists)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.Equal(t, 1, skipped)
}

func TestPGFavoritesRepository_MergeArtists_RollsBackOnError(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := repository.NewFavoritesRepository(db)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO favorite_artists").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, _, err := repo.MergeArtists(context.Background(), userID, []domain.TopArtist{{Name: "X"}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGFavoritesRepository_MergeArtists_EmptyList(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := repository.NewFavoritesRepository(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	inserted, skipped, err := repo.MergeArtists(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.Zero(t, skipped)
}

func TestPGFavoritesRepository_MergeTracks(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := repository.NewFavoritesRepository(db)
	userID := uuid.New()

	tracks := []domain.TopTrack{
		{Title: "Let It Happen", Artist: "Tame Impala", Album: "Currents", Popularity: 81},
		{Title: "Space Song", Artist: "Beach House", Album: "Depression Cherry", Popularity: 85},
		{Title: "Myth", Artist: "Beach House", Album: "Bloom", Popularity: 74},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO favorite_tracks").
		WithArgs(sqlmock.AnyArg(), userID, "Let It Happen", "Tame Impala", "Currents", 81, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO favorite_tracks").
		WithArgs(sqlmock.AnyArg(), userID, "Space Song", "Beach House", "Depression Cherry", 85, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO favorite_tracks").
		WithArgs(sqlmock.AnyArg(), userID, "Myth", "Beach House", "Bloom", 74, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	inserted, skipped, err := repo.MergeTracks(context.Background(), userID, tracks)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)
	assert.Zero(t, skipped)
}

func TestPGFavoritesRepository_ListArtists(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := repository.NewFavoritesRepository(db)
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "genres"}).
		AddRow(uuid.New(), userID, "Tame Impala", "psych rock, indie").
		AddRow(uuid.New(), userID, "Beach House", "dream pop")
	mock.ExpectQuery("SELECT \\* FROM favorite_artists WHERE user_id = \\$1 ORDER BY created_at, id").
		WithArgs(userID).
		WillReturnRows(rows)

	artists, err := repo.ListArtists(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, artists, 2)
	assert.Equal(t, "Tame Impala", artists[0].Name)
}

func TestPGFavoritesRepository_ListTracks(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := repository.NewFavoritesRepository(db)
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "artist", "album", "popularity"}).
		AddRow(uuid.New(), userID, "Space Song", "Beach House", "Depression Cherry", 85)
	mock.ExpectQuery("SELECT \\* FROM favorite_tracks WHERE user_id = \\$1 ORDER BY created_at, id").
		WithArgs(userID).
		WillReturnRows(rows)

	tracks, err := repo.ListTracks(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, 85, tracks[0].Popularity)
}

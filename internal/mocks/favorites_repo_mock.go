package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tunefolio/tunefolio/internal/domain"
)

type MockFavoritesRepository struct {
	mock.Mock
}

func (m *MockFavoritesRepository) MergeArtists(ctx context.Context, userID uuid.UUID, artists []domain.TopArtist) (int, int, error) {
	args := m.Called(ctx, userID, artists)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockFavoritesRepository) MergeTracks(ctx context.Context, userID uuid.UUID, tracks []domain.TopTrack) (int, int, error) {
	args := m.Called(ctx, userID, tracks)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockFavoritesRepository) ListArtists(ctx context.Context, userID uuid.UUID) ([]domain.FavoriteArtist, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FavoriteArtist), args.Error(1)
}

func (m *MockFavoritesRepository) ListTracks(ctx context.Context, userID uuid.UUID) ([]domain.FavoriteTrack, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FavoriteTrack), args.Error(1)
}

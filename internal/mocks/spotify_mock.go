package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tunefolio/tunefolio/internal/domain"
	"github.com/tunefolio/tunefolio/internal/spotify"
)

type MockTokenBroker struct {
	mock.Mock
}

func (m *MockTokenBroker) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockTokenBroker) Exchange(ctx context.Context, code string) (*domain.TokenPair, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenPair), args.Error(1)
}

func (m *MockTokenBroker) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenPair), args.Error(1)
}

type MockProviderClient struct {
	mock.Mock
}

func (m *MockProviderClient) CurrentUser(ctx context.Context, token string) (*spotify.Profile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spotify.Profile), args.Error(1)
}

func (m *MockProviderClient) TopArtists(ctx context.Context, token string, limit int) ([]domain.TopArtist, error) {
	args := m.Called(ctx, token, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TopArtist), args.Error(1)
}

func (m *MockProviderClient) TopTracks(ctx context.Context, token string, limit int) ([]domain.TopTrack, error) {
	args := m.Called(ctx, token, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TopTrack), args.Error(1)
}

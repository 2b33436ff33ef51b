package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tunefolio/tunefolio/internal/domain"
	"github.com/tunefolio/tunefolio/internal/service"
)

type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) Authorize(ctx context.Context, code string) (*domain.User, *domain.TokenPair, error) {
	args := m.Called(ctx, code)
	var user *domain.User
	var pair *domain.TokenPair
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	if args.Get(1) != nil {
		pair = args.Get(1).(*domain.TokenPair)
	}
	return user, pair, args.Error(2)
}

func (m *MockSyncService) SyncFavorites(ctx context.Context, pair *domain.TokenPair) (*domain.User, domain.SyncSummary, error) {
	args := m.Called(ctx, pair)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Get(1).(domain.SyncSummary), args.Error(2)
}

func (m *MockSyncService) ListArtists(ctx context.Context, pair *domain.TokenPair) ([]domain.FavoriteArtist, error) {
	args := m.Called(ctx, pair)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FavoriteArtist), args.Error(1)
}

func (m *MockSyncService) ListTracks(ctx context.Context, pair *domain.TokenPair) ([]domain.FavoriteTrack, error) {
	args := m.Called(ctx, pair)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FavoriteTrack), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req service.RegisterUserReq) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, req service.UpdateUserReq) error {
	args := m.Called(ctx, id, req)
	return args.Error(0)
}

func (m *MockUserService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Save(ctx context.Context, sessionID string, pair *domain.TokenPair) error {
	args := m.Called(ctx, sessionID, pair)
	return args.Error(0)
}

func (m *MockTokenStore) Get(ctx context.Context, sessionID string) (*domain.TokenPair, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenPair), args.Error(1)
}

func (m *MockTokenStore) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

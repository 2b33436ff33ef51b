package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tunefolio/tunefolio/internal/domain"
	"github.com/tunefolio/tunefolio/internal/mocks"
	"github.com/tunefolio/tunefolio/internal/service"
	"github.com/tunefolio/tunefolio/internal/spotify"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSyncFixture() (*mocks.MockTokenBroker, *mocks.MockProviderClient, *mocks.MockUserRepository, *mocks.MockFavoritesRepository, *service.SyncService) {
	broker := new(mocks.MockTokenBroker)
	provider := new(mocks.MockProviderClient)
	users := new(mocks.MockUserRepository)
	favorites := new(mocks.MockFavoritesRepository)
	svc := service.NewSyncService(broker, provider, users, favorites, discardLogger())
	return broker, provider, users, favorites, svc
}

func TestResolveUser_CreatesOnFirstSight(t *testing.T) {
	_, _, users, _, svc := newSyncFixture()
	ctx := context.Background()
	pair := &domain.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}

	users.On("GetBySpotifyID", ctx, "abc123").Return(nil, nil)
	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.ResolveUser(ctx, "abc123", pair)

	require.NoError(t, err)
	assert.Equal(t, "abc123", user.SpotifyID)
	assert.Equal(t, "access-1", user.AccessToken)
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, "refresh-1", *user.RefreshToken)
	assert.NotZero(t, user.ID)
	users.AssertNotCalled(t, "UpdateTokens", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestResolveUser_IdentityStable(t *testing.T) {
	_, _, users, _, svc := newSyncFixture()
	ctx := context.Background()
	existingID := uuid.New()
	existing := &domain.User{ID: existingID, SpotifyID: "abc123", AccessToken: "old"}

	users.On("GetBySpotifyID", ctx, "abc123").Return(existing, nil)
	users.On("UpdateTokens", ctx, existingID, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	first, err := svc.ResolveUser(ctx, "abc123", &domain.TokenPair{AccessToken: "access-1"})
	require.NoError(t, err)
	second, err := svc.ResolveUser(ctx, "abc123", &domain.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"})
	require.NoError(t, err)

	// Same surrogate id both times, token pair from the latest call.
	assert.Equal(t, existingID, first.ID)
	assert.Equal(t, existingID, second.ID)
	assert.Equal(t, "access-2", second.AccessToken)
	users.AssertNumberOfCalls(t, "UpdateTokens", 2)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestResolveUser_CreateRaceFallsBackToOverwrite(t *testing.T) {
	_, _, users, _, svc := newSyncFixture()
	ctx := context.Background()
	winner := &domain.User{ID: uuid.New(), SpotifyID: "abc123", AccessToken: "theirs"}
	pair := &domain.TokenPair{AccessToken: "access-1"}

	users.On("GetBySpotifyID", ctx, "abc123").Return(nil, nil).Once()
	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(domain.ErrUserAlreadyExists)
	users.On("GetBySpotifyID", ctx, "abc123").Return(winner, nil).Once()
	users.On("UpdateTokens", ctx, winner.ID, "access-1", (*string)(nil)).Return(nil)

	user, err := svc.ResolveUser(ctx, "abc123", pair)

	require.NoError(t, err)
	assert.Equal(t, winner.ID, user.ID)
	users.AssertExpectations(t)
}

func TestReconcile_FirstSync(t *testing.T) {
	_, _, _, favorites, svc := newSyncFixture()
	ctx := context.Background()
	userID := uuid.New()
	artists := []domain.TopArtist{{Name: "Tame Impala"}, {Name: "Beach House"}}
	tracks := []domain.TopTrack{{Title: "A"}, {Title: "B"}, {Title: "C"}}

	favorites.On("MergeArtists", ctx, userID, artists).Return(2, 0, nil)
	favorites.On("MergeTracks", ctx, userID, tracks).Return(3, 0, nil)

	summary, err := svc.Reconcile(ctx, userID, artists, tracks)

	require.NoError(t, err)
	assert.Equal(t, domain.SyncSummary{ArtistsInserted: 2, ArtistsSkipped: 0, TracksInserted: 3, TracksSkipped: 0}, summary)
}

func TestReconcile_SecondSyncSkipsKnownItems(t *testing.T) {
	_, _, _, favorites, svc := newSyncFixture()
	ctx := context.Background()
	userID := uuid.New()
	artists := []domain.TopArtist{{Name: "Tame Impala"}, {Name: "New Artist"}}
	tracks := []domain.TopTrack{{Title: "A"}, {Title: "B"}, {Title: "C"}}

	favorites.On("MergeArtists", ctx, userID, artists).Return(1, 1, nil)
	favorites.On("MergeTracks", ctx, userID, tracks).Return(0, 3, nil)

	summary, err := svc.Reconcile(ctx, userID, artists, tracks)

	require.NoError(t, err)
	assert.Equal(t, domain.SyncSummary{ArtistsInserted: 1, ArtistsSkipped: 1, TracksInserted: 0, TracksSkipped: 3}, summary)
}

func TestReconcile_TrackFailureKeepsArtistCounts(t *testing.T) {
	_, _, _, favorites, svc := newSyncFixture()
	ctx := context.Background()
	userID := uuid.New()

	favorites.On("MergeArtists", ctx, userID, mock.Anything).Return(2, 0, nil)
	favorites.On("MergeTracks", ctx, userID, mock.Anything).Return(0, 0, errors.New("deadlock"))

	summary, err := svc.Reconcile(ctx, userID, []domain.TopArtist{{Name: "X"}}, []domain.TopTrack{{Title: "Y"}})

	// Artists committed in their own transaction before tracks started.
	require.Error(t, err)
	assert.Equal(t, 2, summary.ArtistsInserted)
	assert.Zero(t, summary.TracksInserted)
}

func TestAuthorize_ExchangeRejectedWritesNothing(t *testing.T) {
	broker, provider, users, favorites, svc := newSyncFixture()
	ctx := context.Background()

	broker.On("Exchange", ctx, "bad-code").Return(nil, &domain.AuthError{StatusCode: http.StatusBadRequest, Message: "invalid_grant"})

	_, _, err := svc.Authorize(ctx, "bad-code")

	authErr := &domain.AuthError{}
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusBadRequest, authErr.StatusCode)
	provider.AssertNotCalled(t, "CurrentUser", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "UpdateTokens", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	favorites.AssertNotCalled(t, "MergeArtists", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthorize_Success(t *testing.T) {
	broker, provider, users, _, svc := newSyncFixture()
	ctx := context.Background()
	pair := &domain.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}

	broker.On("Exchange", ctx, "good-code").Return(pair, nil)
	provider.On("CurrentUser", ctx, "access-1").Return(&spotify.Profile{ID: "abc123"}, nil)
	users.On("GetBySpotifyID", ctx, "abc123").Return(nil, nil)
	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, gotPair, err := svc.Authorize(ctx, "good-code")

	require.NoError(t, err)
	assert.Equal(t, "abc123", user.SpotifyID)
	assert.Equal(t, pair, gotPair)
}

func TestSyncFavorites_FullPass(t *testing.T) {
	_, provider, users, favorites, svc := newSyncFixture()
	ctx := context.Background()
	pair := &domain.TokenPair{AccessToken: "access-1"}
	existing := &domain.User{ID: uuid.New(), SpotifyID: "abc123"}
	artists := []domain.TopArtist{{Name: "Tame Impala"}, {Name: "Beach House"}}
	tracks := []domain.TopTrack{{Title: "A"}, {Title: "B"}, {Title: "C"}}

	provider.On("CurrentUser", ctx, "access-1").Return(&spotify.Profile{ID: "abc123"}, nil)
	users.On("GetBySpotifyID", ctx, "abc123").Return(existing, nil)
	provider.On("TopArtists", ctx, "access-1", spotify.DefaultTopLimit).Return(artists, nil)
	provider.On("TopTracks", ctx, "access-1", spotify.DefaultTopLimit).Return(tracks, nil)
	favorites.On("MergeArtists", ctx, existing.ID, artists).Return(2, 0, nil)
	favorites.On("MergeTracks", ctx, existing.ID, tracks).Return(3, 0, nil)

	user, summary, err := svc.SyncFavorites(ctx, pair)

	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, domain.SyncSummary{ArtistsInserted: 2, TracksInserted: 3}, summary)
}

func TestSyncFavorites_UnknownUser(t *testing.T) {
	_, provider, users, favorites, svc := newSyncFixture()
	ctx := context.Background()

	provider.On("CurrentUser", ctx, "access-1").Return(&spotify.Profile{ID: "stranger"}, nil)
	users.On("GetBySpotifyID", ctx, "stranger").Return(nil, nil)

	_, _, err := svc.SyncFavorites(ctx, &domain.TokenPair{AccessToken: "access-1"})

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	favorites.AssertNotCalled(t, "MergeArtists", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncFavorites_UpstreamFailureStopsBeforeMerge(t *testing.T) {
	_, provider, users, favorites, svc := newSyncFixture()
	ctx := context.Background()
	existing := &domain.User{ID: uuid.New(), SpotifyID: "abc123"}

	provider.On("CurrentUser", ctx, "access-1").Return(&spotify.Profile{ID: "abc123"}, nil)
	users.On("GetBySpotifyID", ctx, "abc123").Return(existing, nil)
	provider.On("TopArtists", ctx, "access-1", spotify.DefaultTopLimit).
		Return(nil, &domain.UpstreamError{StatusCode: http.StatusBadGateway, Endpoint: "/me/top/artists"})

	_, _, err := svc.SyncFavorites(ctx, &domain.TokenPair{AccessToken: "access-1"})

	upstreamErr := &domain.UpstreamError{}
	require.ErrorAs(t, err, &upstreamErr)
	favorites.AssertNotCalled(t, "MergeArtists", mock.Anything, mock.Anything, mock.Anything)
	favorites.AssertNotCalled(t, "MergeTracks", mock.Anything, mock.Anything, mock.Anything)
}

func TestListArtists(t *testing.T) {
	_, provider, users, favorites, svc := newSyncFixture()
	ctx := context.Background()
	existing := &domain.User{ID: uuid.New(), SpotifyID: "abc123"}
	stored := []domain.FavoriteArtist{{UserID: existing.ID, Name: "Tame Impala"}}

	provider.On("CurrentUser", ctx, "access-1").Return(&spotify.Profile{ID: "abc123"}, nil)
	users.On("GetBySpotifyID", ctx, "abc123").Return(existing, nil)
	favorites.On("ListArtists", ctx, existing.ID).Return(stored, nil)

	artists, err := svc.ListArtists(ctx, &domain.TokenPair{AccessToken: "access-1"})

	require.NoError(t, err)
	assert.Equal(t, stored, artists)
}

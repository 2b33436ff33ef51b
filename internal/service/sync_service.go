package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tunefolio/tunefolio/internal/domain"
	"github.com/tunefolio/tunefolio/internal/spotify"
)

var syncItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "favorites_sync_items_total",
	Help: "Top-list items processed by reconciliation, by kind and outcome.",
}, []string{"kind", "outcome"})

// TokenBroker is the slice of the Spotify authenticator the sync flow
// needs: build the authorize URL and turn codes/refresh tokens into
// token pairs.
type TokenBroker interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}

// ProviderClient is the narrow provider contract (identity + top
// items). Keeping the Reconciliation path behind it means another
// provider could be substituted without touching the merge logic.
type ProviderClient interface {
	CurrentUser(ctx context.Context, token string) (*spotify.Profile, error)
	TopArtists(ctx context.Context, token string, limit int) ([]domain.TopArtist, error)
	TopTracks(ctx context.Context, token string, limit int) ([]domain.TopTrack, error)
}

// SyncServiceInterface is what the HTTP handlers depend on.
type SyncServiceInterface interface {
	Authorize(ctx context.Context, code string) (*domain.User, *domain.TokenPair, error)
	SyncFavorites(ctx context.Context, pair *domain.TokenPair) (*domain.User, domain.SyncSummary, error)
	ListArtists(ctx context.Context, pair *domain.TokenPair) ([]domain.FavoriteArtist, error)
	ListTracks(ctx context.Context, pair *domain.TokenPair) ([]domain.FavoriteTrack, error)
}

// SyncService drives the authorization callback and the favorites
// sync: token exchange, identity resolution and reconciliation of the
// fetched top-lists into storage.
type SyncService struct {
	broker    TokenBroker
	provider  ProviderClient
	users     domain.UserRepository
	favorites domain.FavoritesRepository
	logger    *slog.Logger
	topLimit  int
}

func NewSyncService(broker TokenBroker, provider ProviderClient, users domain.UserRepository, favorites domain.FavoritesRepository, logger *slog.Logger) *SyncService {
	return &SyncService{
		broker:    broker,
		provider:  provider,
		users:     users,
		favorites: favorites,
		logger:    logger,
		topLimit:  spotify.DefaultTopLimit,
	}
}

// Authorize exchanges the authorization code, fetches the identity the
// token belongs to and resolves it to a local user. Nothing is written
// before both upstream calls have succeeded, so a rejected exchange
// leaves the database untouched.
func (s *SyncService) Authorize(ctx context.Context, code string) (*domain.User, *domain.TokenPair, error) {
	pair, err := s.broker.Exchange(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	profile, err := s.provider.CurrentUser(ctx, pair.AccessToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.ResolveUser(ctx, profile.ID, pair)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// ResolveUser maps a Spotify id to the local user record, creating one
// on first sight. Resolving the same id again returns the same
// surrogate id and unconditionally overwrites the stored token pair.
func (s *SyncService) ResolveUser(ctx context.Context, spotifyID string, pair *domain.TokenPair) (*domain.User, error) {
	user, err := s.users.GetBySpotifyID(ctx, spotifyID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &domain.User{
			ID:           uuid.New(),
			SpotifyID:    spotifyID,
			AccessToken:  pair.AccessToken,
			RefreshToken: refreshPtr(pair),
		}
		err := s.users.Create(ctx, user)
		if err == nil {
			s.logger.Info("created user for new spotify identity", "spotify_id", spotifyID, "user_id", user.ID)
			return user, nil
		}
		if !errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		// Lost a create race; fall through to the overwrite path.
		user, err = s.users.GetBySpotifyID(ctx, spotifyID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, domain.ErrUserNotFound
		}
	}

	if err := s.users.UpdateTokens(ctx, user.ID, pair.AccessToken, refreshPtr(pair)); err != nil {
		return nil, err
	}
	user.AccessToken = pair.AccessToken
	user.RefreshToken = refreshPtr(pair)
	return user, nil
}

// SyncFavorites fetches the current top artists and tracks with the
// session's token and merges them into the stored collections of the
// matching local user. The user must already exist; callbacks create
// it, sync does not.
func (s *SyncService) SyncFavorites(ctx context.Context, pair *domain.TokenPair) (*domain.User, domain.SyncSummary, error) {
	var summary domain.SyncSummary

	profile, err := s.provider.CurrentUser(ctx, pair.AccessToken)
	if err != nil {
		return nil, summary, err
	}

	user, err := s.users.GetBySpotifyID(ctx, profile.ID)
	if err != nil {
		return nil, summary, err
	}
	if user == nil {
		return nil, summary, domain.ErrUserNotFound
	}

	artists, err := s.provider.TopArtists(ctx, pair.AccessToken, s.topLimit)
	if err != nil {
		return nil, summary, err
	}
	tracks, err := s.provider.TopTracks(ctx, pair.AccessToken, s.topLimit)
	if err != nil {
		return nil, summary, err
	}

	summary, err = s.Reconcile(ctx, user.ID, artists, tracks)
	if err != nil {
		return user, summary, err
	}
	return user, summary, nil
}

// Reconcile merges the fetched lists into storage, each list in its own
// transaction: a failure partway through tracks cannot disturb the
// already-committed artist inserts. Items whose natural key is already
// stored are skipped, not updated.
func (s *SyncService) Reconcile(ctx context.Context, userID uuid.UUID, artists []domain.TopArtist, tracks []domain.TopTrack) (domain.SyncSummary, error) {
	var summary domain.SyncSummary

	inserted, skipped, err := s.favorites.MergeArtists(ctx, userID, artists)
	if err != nil {
		return summary, fmt.Errorf("merge artists: %w", err)
	}
	summary.ArtistsInserted, summary.ArtistsSkipped = inserted, skipped
	syncItemsTotal.WithLabelValues("artists", "inserted").Add(float64(inserted))
	syncItemsTotal.WithLabelValues("artists", "skipped").Add(float64(skipped))

	inserted, skipped, err = s.favorites.MergeTracks(ctx, userID, tracks)
	if err != nil {
		return summary, fmt.Errorf("merge tracks: %w", err)
	}
	summary.TracksInserted, summary.TracksSkipped = inserted, skipped
	syncItemsTotal.WithLabelValues("tracks", "inserted").Add(float64(inserted))
	syncItemsTotal.WithLabelValues("tracks", "skipped").Add(float64(skipped))

	s.logger.Info("favorites reconciled",
		"user_id", userID,
		"artists_inserted", summary.ArtistsInserted,
		"artists_skipped", summary.ArtistsSkipped,
		"tracks_inserted", summary.TracksInserted,
		"tracks_skipped", summary.TracksSkipped,
	)
	return summary, nil
}

// ListArtists returns the stored top-artist set of the session user.
func (s *SyncService) ListArtists(ctx context.Context, pair *domain.TokenPair) ([]domain.FavoriteArtist, error) {
	user, err := s.sessionUser(ctx, pair)
	if err != nil {
		return nil, err
	}
	return s.favorites.ListArtists(ctx, user.ID)
}

// ListTracks returns the stored top-track set of the session user.
func (s *SyncService) ListTracks(ctx context.Context, pair *domain.TokenPair) ([]domain.FavoriteTrack, error) {
	user, err := s.sessionUser(ctx, pair)
	if err != nil {
		return nil, err
	}
	return s.favorites.ListTracks(ctx, user.ID)
}

func (s *SyncService) sessionUser(ctx context.Context, pair *domain.TokenPair) (*domain.User, error) {
	profile, err := s.provider.CurrentUser(ctx, pair.AccessToken)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetBySpotifyID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func refreshPtr(pair *domain.TokenPair) *string {
	if pair.RefreshToken == "" {
		return nil
	}
	refresh := pair.RefreshToken
	return &refresh
}

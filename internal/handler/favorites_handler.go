package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tunefolio/tunefolio/internal/domain"
	"github.com/tunefolio/tunefolio/internal/middleware"
	"github.com/tunefolio/tunefolio/internal/service"
)

type FavoritesHandler struct {
	sync   service.SyncServiceInterface
	logger *slog.Logger
}

func NewFavoritesHandler(sync service.SyncServiceInterface, logger *slog.Logger) *FavoritesHandler {
	return &FavoritesHandler{sync: sync, logger: logger}
}

// Sync re-runs fetch+reconcile with the session's token and returns
// the summary of what changed.
func (h *FavoritesHandler) Sync(w http.ResponseWriter, r *http.Request) {
	pair, ok := middleware.TokenPairFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "no active session"}`, http.StatusUnauthorized)
		return
	}

	user, summary, err := h.sync.SyncFavorites(r.Context(), pair)
	if err != nil {
		h.writeSyncError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "favorites synced",
		"user": map[string]any{
			"id":         user.ID,
			"spotify_id": user.SpotifyID,
		},
		"summary": summary,
	})
}

// Artists lists the stored top-artist snapshot for the session user.
func (h *FavoritesHandler) Artists(w http.ResponseWriter, r *http.Request) {
	pair, ok := middleware.TokenPairFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "no active session"}`, http.StatusUnauthorized)
		return
	}

	artists, err := h.sync.ListArtists(r.Context(), pair)
	if err != nil {
		h.writeSyncError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"artists": artists})
}

// Tracks lists the stored top-track snapshot for the session user.
func (h *FavoritesHandler) Tracks(w http.ResponseWriter, r *http.Request) {
	pair, ok := middleware.TokenPairFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "no active session"}`, http.StatusUnauthorized)
		return
	}

	tracks, err := h.sync.ListTracks(r.Context(), pair)
	if err != nil {
		h.writeSyncError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"tracks": tracks})
}

func (h *FavoritesHandler) writeSyncError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrUserNotFound) {
		http.Error(w, `{"error": "user not found"}`, http.StatusNotFound)
		return
	}

	var upstreamErr *domain.UpstreamError
	if errors.As(err, &upstreamErr) {
		http.Error(w, `{"error": "spotify is unavailable, try again"}`, http.StatusBadGateway)
		return
	}

	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		http.Error(w, `{"error": "session token rejected, log in again"}`, http.StatusUnauthorized)
		return
	}

	h.logger.Error("favorites request failed", "error", err)
	http.Error(w, `{"error": "internal error"}`, http.StatusInternalServerError)
}

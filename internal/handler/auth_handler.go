package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tunefolio/tunefolio/internal/domain"
	"github.com/tunefolio/tunefolio/internal/service"
	"github.com/tunefolio/tunefolio/internal/session"
)

// stateCookieName holds the OAuth state between the redirect and the
// callback. Short-lived on purpose.
const stateCookieName = "oauth_state"

type AuthHandler struct {
	broker   service.TokenBroker
	sync     service.SyncServiceInterface
	sessions session.TokenStore
	cookies  *session.CookieCodec
	logger   *slog.Logger
}

func NewAuthHandler(broker service.TokenBroker, sync service.SyncServiceInterface, sessions session.TokenStore, cookies *session.CookieCodec, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		broker:   broker,
		sync:     sync,
		sessions: sessions,
		cookies:  cookies,
		logger:   logger,
	}
}

// Login redirects the browser to the provider's authorize URL with a
// fresh state token pinned in a short-lived cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.broker.AuthCodeURL(state), http.StatusFound)
}

// Callback completes the authorization-code flow: state check, token
// exchange, identity resolution, then a new session. A rejected
// exchange produces an error payload and leaves the database alone.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		// The provider sent the user back without a code; restart.
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		http.Error(w, `{"error": "state mismatch"}`, http.StatusBadRequest)
		return
	}

	user, pair, err := h.sync.Authorize(r.Context(), code)
	if err != nil {
		h.writeAuthorizeError(w, err)
		return
	}

	sessionID := uuid.NewString()
	if err := h.sessions.Save(r.Context(), sessionID, pair); err != nil {
		h.logger.Error("failed to persist session", "error", err)
		http.Error(w, `{"error": "failed to create session"}`, http.StatusInternalServerError)
		return
	}

	cookieValue, err := h.cookies.Encode(sessionID)
	if err != nil {
		h.logger.Error("failed to sign session cookie", "error", err)
		http.Error(w, `{"error": "failed to create session"}`, http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    cookieValue,
		Path:     "/",
		Expires:  time.Now().Add(h.cookies.TTL()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// Clear the state cookie; it has done its job.
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", MaxAge: -1})

	h.logger.Info("user authorized", "user_id", user.ID, "spotify_id", user.SpotifyID)
	http.Redirect(w, r, "/favorites", http.StatusFound)
}

// Logout deletes the session entry and expires the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if sessionID, err := h.cookies.Decode(cookie.Value); err == nil {
			if err := h.sessions.Delete(r.Context(), sessionID); err != nil {
				h.logger.Warn("failed to delete session", "error", err)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) writeAuthorizeError(w http.ResponseWriter, err error) {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		h.logger.Warn("token exchange rejected", "status", authErr.StatusCode, "message", authErr.Message)
		http.Error(w, `{"error": "`+authErr.Error()+`"}`, http.StatusBadRequest)
		return
	}

	var upstreamErr *domain.UpstreamError
	if errors.As(err, &upstreamErr) {
		http.Error(w, `{"error": "spotify is unavailable, try again"}`, http.StatusBadGateway)
		return
	}

	h.logger.Error("authorization failed", "error", err)
	http.Error(w, `{"error": "authorization failed"}`, http.StatusInternalServerError)
}

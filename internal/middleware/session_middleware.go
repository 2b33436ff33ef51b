package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tunefolio/tunefolio/internal/domain"
	"github.com/tunefolio/tunefolio/internal/service"
	"github.com/tunefolio/tunefolio/internal/session"
)

type contextKey string

const (
	ContextKeySessionID contextKey = "session_id"
	ContextKeyTokenPair contextKey = "token_pair"
)

// TokenPairFromContext returns the session's token pair injected by
// RequireSession.
func TokenPairFromContext(ctx context.Context) (*domain.TokenPair, bool) {
	pair, ok := ctx.Value(ContextKeyTokenPair).(*domain.TokenPair)
	return pair, ok
}

// SessionMiddleware resolves the session cookie into the active token
// pair and hands it to handlers through the request context, so no
// handler reads ambient token state.
type SessionMiddleware struct {
	codec  *session.CookieCodec
	store  session.TokenStore
	broker service.TokenBroker
	logger *slog.Logger
}

func NewSessionMiddleware(codec *session.CookieCodec, store session.TokenStore, broker service.TokenBroker, logger *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{codec: codec, store: store, broker: broker, logger: logger}
}

// RequireSession verifies the session cookie, loads the token pair for
// that session and injects both into the request context. An expired
// access token is refreshed in place when a refresh token is present;
// anything unrecoverable redirects to /login to start a new
// authorization.
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		sessionID, err := m.codec.Decode(cookie.Value)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		pair, err := m.store.Get(r.Context(), sessionID)
		if err != nil {
			if err == domain.ErrSessionNotFound {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			m.logger.Error("session lookup failed", "error", err)
			http.Error(w, `{"error": "session store unavailable"}`, http.StatusInternalServerError)
			return
		}

		if pair.Expired() {
			if pair.RefreshToken == "" {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			refreshed, err := m.broker.Refresh(r.Context(), pair.RefreshToken)
			if err != nil {
				m.logger.Warn("token refresh failed", "session_id", sessionID, "error", err)
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			if err := m.store.Save(r.Context(), sessionID, refreshed); err != nil {
				m.logger.Error("failed to store refreshed token", "error", err)
			}
			pair = refreshed
		}

		ctx := context.WithValue(r.Context(), ContextKeySessionID, sessionID)
		ctx = context.WithValue(ctx, ContextKeyTokenPair, pair)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

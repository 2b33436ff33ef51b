package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tunefolio/tunefolio/internal/domain"
)

// TokenStore is the session-scoped half of credential storage: the
// active token pair, keyed by session id, gone when the session ends.
type TokenStore interface {
	Save(ctx context.Context, sessionID string, pair *domain.TokenPair) error
	Get(ctx context.Context, sessionID string) (*domain.TokenPair, error)
	Delete(ctx context.Context, sessionID string) error
}

// Store keeps active token pairs in Redis with the session TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Save writes the token pair under the session id. The entry outlives
// the access token so an expired pair can still be refreshed within
// the session window.
func (s *Store) Save(ctx context.Context, sessionID string, pair *domain.TokenPair) error {
	payload, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("failed to encode token pair: %w", err)
	}
	return s.rdb.Set(ctx, sessionKey(sessionID), payload, s.ttl).Err()
}

// Get loads the token pair for a session. A missing or expired entry
// maps to domain.ErrSessionNotFound.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.TokenPair, error) {
	payload, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	pair := &domain.TokenPair{}
	if err := json.Unmarshal(payload, pair); err != nil {
		return nil, fmt.Errorf("failed to decode token pair: %w", err)
	}
	return pair, nil
}

// Delete ends a session. Deleting an unknown session is a no-op.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionKey(sessionID)).Err()
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

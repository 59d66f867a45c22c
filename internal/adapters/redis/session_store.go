package redis

// Package redis provides the Redis-backed server session store.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/ports"
)

const defaultPrefix = "session:"

// SessionStore persists sessions in Redis, deriving the key TTL from the
// session's ExpiresAt so entries evict themselves.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a session store with the default key prefix.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client, prefix: defaultPrefix}
}

// NewSessionStoreWithPrefix creates a session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix}
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return apperrors.Validation("session id is required")
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return apperrors.Validation("session is already expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "marshal session")
	}

	if err := s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "redis set")
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}

	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return domainauth.Session{}, apperrors.NotFound("session not found")
		}
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "redis get")
	}

	var sess domainauth.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "unmarshal session")
	}

	// Redis TTL should have evicted expired sessions already; treat a
	// lingering expired entry as absent and clean it up.
	if time.Now().After(sess.ExpiresAt) {
		if err := s.Delete(ctx, id); err != nil {
			return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "cleanup expired session")
		}
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "redis del")
	}
	return nil
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caportal/portal/internal/core/domain"
)

// SessionStore persists portal sessions in Redis.
// Key format: portal:<namespace>:user
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore wraps client. Entries live at most ttl (zero keeps them
// until the credential expires or the user signs out).
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Load(ctx context.Context, namespace string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(namespace)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session load: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Save(ctx context.Context, namespace string, sess *domain.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(namespace), raw, keyTTL(sess, time.Now(), s.ttl)).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context, namespace string) error {
	if err := s.client.Del(ctx, sessionKey(namespace)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

func sessionKey(namespace string) string {
	return fmt.Sprintf("portal:%s:%s", namespace, domain.SessionStorageKey)
}

// keyTTL never lets a key outlive the credential it holds.
func keyTTL(sess *domain.Session, now time.Time, ttl time.Duration) time.Duration {
	if sess == nil || sess.ExpiresAt.IsZero() {
		return ttl
	}
	left := sess.ExpiresAt.Sub(now)
	if left <= 0 {
		// Already expired; keep it just long enough to be read and discarded.
		return time.Second
	}
	if ttl <= 0 || left < ttl {
		return left
	}
	return ttl
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/caportal/portal/internal/core/domain"
)

// SessionStore persists portal sessions, one row per namespace.
type SessionStore struct {
	db   *sql.DB
	idle time.Duration
	now  func() time.Time
}

// NewSessionStore keeps sessions in db. Rows not written for longer than idle
// read as absent and are removed by Sweep; zero keeps them until sign-out.
func NewSessionStore(db *sql.DB, idle time.Duration) *SessionStore {
	return &SessionStore{db: db, idle: idle, now: time.Now}
}

func (s *SessionStore) Load(ctx context.Context, namespace string) (*domain.Session, error) {
	var (
		sess      domain.Session
		role      string
		expiresAt sql.NullInt64
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, name, email, role, token, expires_at, updated_at
		   FROM portal_sessions WHERE namespace = ? AND key = ?`,
		namespace, domain.SessionStorageKey,
	).Scan(&sess.ID, &sess.Name, &sess.Email, &role, &sess.Token, &expiresAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session load: %w", err)
	}
	if s.stale(updatedAt) {
		return nil, domain.ErrSessionNotFound
	}

	sess.Role = domain.Role(role)
	if expiresAt.Valid {
		sess.ExpiresAt = time.Unix(expiresAt.Int64, 0).UTC()
	}
	return &sess, nil
}

func (s *SessionStore) Save(ctx context.Context, namespace string, sess *domain.Session) error {
	var expiresAt sql.NullInt64
	if !sess.ExpiresAt.IsZero() {
		expiresAt = sql.NullInt64{Int64: sess.ExpiresAt.Unix(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO portal_sessions (namespace, key, user_id, name, email, role, token, expires_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (namespace, key) DO UPDATE SET
		   user_id = excluded.user_id, name = excluded.name, email = excluded.email,
		   role = excluded.role, token = excluded.token,
		   expires_at = excluded.expires_at, updated_at = excluded.updated_at`,
		namespace, domain.SessionStorageKey, sess.ID, sess.Name, sess.Email, string(sess.Role), sess.Token,
		expiresAt, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context, namespace string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM portal_sessions WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

// Sweep deletes idle rows and rows whose credential has expired. It returns
// how many went.
func (s *SessionStore) Sweep(ctx context.Context) (int64, error) {
	now := s.now()
	idleBefore := int64(0)
	if s.idle > 0 {
		idleBefore = now.Add(-s.idle).Unix()
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM portal_sessions
		  WHERE updated_at < ? OR (expires_at IS NOT NULL AND expires_at <= ?)`,
		idleBefore, now.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("session sweep: %w", err)
	}
	return res.RowsAffected()
}

// Run sweeps every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = s.Sweep(ctx)
		}
	}
}

// Ping reports whether the database answers.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SessionStore) stale(updatedAt int64) bool {
	return s.idle > 0 && s.now().Sub(time.Unix(updatedAt, 0)) > s.idle
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/caportal/portal/internal/core/domain"
)

const sessionCollection = "portal_sessions"

// SessionRepository persists portal sessions, one document per namespace.
type SessionRepository struct {
	coll *mongo.Collection
	idle time.Duration
}

// NewSessionRepository uses db's portal_sessions collection. Documents not
// written for longer than idle are reaped by a TTL index (see EnsureIndexes).
func NewSessionRepository(db *mongo.Database, idle time.Duration) *SessionRepository {
	return &SessionRepository{coll: db.Collection(sessionCollection), idle: idle}
}

type mongoSession struct {
	Namespace string    `bson:"_id"`
	Key       string    `bson:"key"`
	UserID    string    `bson:"user_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Role      string    `bson:"role"`
	Token     string    `bson:"token"`
	ExpiresAt int64     `bson:"expires_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (r *SessionRepository) Load(ctx context.Context, namespace string) (*domain.Session, error) {
	var doc mongoSession
	err := r.coll.FindOne(ctx, bson.M{"_id": namespace, "key": domain.SessionStorageKey}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return fromDocument(doc), nil
}

func (r *SessionRepository) Save(ctx context.Context, namespace string, sess *domain.Session) error {
	doc := toDocument(namespace, sess, time.Now().UTC())
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": namespace}, doc, opts); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Clear(ctx context.Context, namespace string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": namespace}); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// EnsureIndexes creates the TTL index that reaps idle sessions. It is a no-op
// without an idle timeout.
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	if r.idle <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(r.idle.Seconds())),
	})
	return err
}

func toDocument(namespace string, s *domain.Session, now time.Time) mongoSession {
	doc := mongoSession{
		Namespace: namespace,
		Key:       domain.SessionStorageKey,
		UserID:    s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Role:      string(s.Role),
		Token:     s.Token,
		UpdatedAt: now,
	}
	if !s.ExpiresAt.IsZero() {
		doc.ExpiresAt = s.ExpiresAt.Unix()
	}
	return doc
}

func fromDocument(doc mongoSession) *domain.Session {
	return &domain.Session{
		ID:        doc.UserID,
		Name:      doc.Name,
		Email:     doc.Email,
		Role:      domain.Role(doc.Role),
		Token:     doc.Token,
		ExpiresAt: unixToTime(doc.ExpiresAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

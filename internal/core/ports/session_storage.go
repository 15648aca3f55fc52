package ports

import (
	"context"

	"github.com/caportal/portal/internal/core/domain"
)

// SessionStorage persists the signed-in user between reloads. Namespace
// separates independent sessions (one per browser for the portal, one per
// profile for the CLI); inside a namespace the session lives under
// domain.SessionStorageKey.
type SessionStorage interface {
	// Load returns domain.ErrSessionNotFound when nothing is stored.
	Load(ctx context.Context, namespace string) (*domain.Session, error)
	Save(ctx context.Context, namespace string, s *domain.Session) error
	Clear(ctx context.Context, namespace string) error
}

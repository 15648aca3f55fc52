package ports

import (
	"context"

	"github.com/caportal/portal/internal/core/domain"
)

// AuthAPI is the unauthenticated part of the backend.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, draft domain.RegisterDraft) (*domain.Session, error)
	// ForgotPassword returns the backend's confirmation message.
	ForgotPassword(ctx context.Context, email string) (string, error)
}

// ClientAPI mirrors /clients.
type ClientAPI interface {
	List(ctx context.Context) ([]*domain.Client, error)
	Get(ctx context.Context, id string) (*domain.Client, error)
	Create(ctx context.Context, draft domain.ClientDraft) (*domain.Client, error)
	Update(ctx context.Context, id string, patch domain.ClientDraft) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}

// TaskAPI mirrors /tasks.
type TaskAPI interface {
	List(ctx context.Context) ([]*domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// DocumentAPI mirrors /documents.
type DocumentAPI interface {
	List(ctx context.Context) ([]*domain.Document, error)
	Get(ctx context.Context, id string) (*domain.Document, error)
	Upload(ctx context.Context, upload domain.DocumentUpload) (*domain.Document, error)
	Download(ctx context.Context, id string) (*domain.Download, error)
	Delete(ctx context.Context, id string) error
}

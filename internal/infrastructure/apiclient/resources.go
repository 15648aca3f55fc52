package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/caportal/portal/internal/core/domain"
)

// AuthAPI covers /auth. These endpoints work without a session.
type AuthAPI struct{ c *Client }

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

func (a *AuthAPI) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	var out domain.Session
	if err := a.c.doJSON(ctx, http.MethodPost, "/auth/login", credentials{email, password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) Register(ctx context.Context, draft domain.RegisterDraft) (*domain.Session, error) {
	var out domain.Session
	if err := a.c.doJSON(ctx, http.MethodPost, "/auth/register", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out messageBody
	if err := a.c.doJSON(ctx, http.MethodPost, "/auth/forgot-password", credentials{Email: email}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ClientAPI covers /clients.
type ClientAPI struct{ c *Client }

func (a *ClientAPI) List(ctx context.Context) ([]*domain.Client, error) {
	var out []*domain.Client
	err := a.c.doJSON(ctx, http.MethodGet, "/clients", nil, &out)
	return out, err
}

func (a *ClientAPI) Get(ctx context.Context, id string) (*domain.Client, error) {
	var out domain.Client
	if err := a.c.doJSON(ctx, http.MethodGet, idPath("/clients", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ClientAPI) Create(ctx context.Context, draft domain.ClientDraft) (*domain.Client, error) {
	var out domain.Client
	if err := a.c.doJSON(ctx, http.MethodPost, "/clients", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ClientAPI) Update(ctx context.Context, id string, patch domain.ClientDraft) (*domain.Client, error) {
	var out domain.Client
	if err := a.c.doJSON(ctx, http.MethodPut, idPath("/clients", id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ClientAPI) Delete(ctx context.Context, id string) error {
	return a.c.doJSON(ctx, http.MethodDelete, idPath("/clients", id), nil, nil)
}

// TaskAPI covers /tasks.
type TaskAPI struct{ c *Client }

func (a *TaskAPI) List(ctx context.Context) ([]*domain.Task, error) {
	var out []*domain.Task
	err := a.c.doJSON(ctx, http.MethodGet, "/tasks", nil, &out)
	return out, err
}

func (a *TaskAPI) Get(ctx context.Context, id string) (*domain.Task, error) {
	var out domain.Task
	if err := a.c.doJSON(ctx, http.MethodGet, idPath("/tasks", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *TaskAPI) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	var out domain.Task
	if err := a.c.doJSON(ctx, http.MethodPost, "/tasks", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *TaskAPI) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	var out domain.Task
	if err := a.c.doJSON(ctx, http.MethodPut, idPath("/tasks", id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *TaskAPI) Delete(ctx context.Context, id string) error {
	return a.c.doJSON(ctx, http.MethodDelete, idPath("/tasks", id), nil, nil)
}

// DocumentAPI covers /documents.
type DocumentAPI struct{ c *Client }

func (a *DocumentAPI) List(ctx context.Context) ([]*domain.Document, error) {
	var out []*domain.Document
	err := a.c.doJSON(ctx, http.MethodGet, "/documents", nil, &out)
	return out, err
}

func (a *DocumentAPI) Get(ctx context.Context, id string) (*domain.Document, error) {
	var out domain.Document
	if err := a.c.doJSON(ctx, http.MethodGet, idPath("/documents", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload streams the multipart form without buffering the file.
func (a *DocumentAPI) Upload(ctx context.Context, up domain.DocumentUpload) (*domain.Document, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUpload(mw, up))
	}()

	resp, err := a.c.send(ctx, http.MethodPost, "/documents", pr, mw.FormDataContentType())
	// Unblocks the writer if the request ended before reading the whole body.
	pr.Close()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out domain.Document
	if err := decode(resp, http.MethodPost, "/documents", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func writeUpload(mw *multipart.Writer, up domain.DocumentUpload) error {
	fields := [][2]string{
		{"name", up.Name},
		{"description", up.Description},
		{"clientId", up.ClientID},
	}
	if up.TaskID != "" {
		fields = append(fields, [2]string{"taskId", up.TaskID})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}

	fw, err := mw.CreateFormFile("file", up.FileName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, up.File); err != nil {
		return fmt.Errorf("copy upload: %w", err)
	}
	return mw.Close()
}

// Download returns the raw payload. The caller must close Body.
func (a *DocumentAPI) Download(ctx context.Context, id string) (*domain.Download, error) {
	resp, err := a.c.send(ctx, http.MethodGet, idPath("/documents/download", id), nil, "")
	if err != nil {
		return nil, err
	}
	return &domain.Download{
		ContentDisposition: resp.Header.Get("Content-Disposition"),
		ContentType:        resp.Header.Get("Content-Type"),
		Body:               resp.Body,
	}, nil
}

func (a *DocumentAPI) Delete(ctx context.Context, id string) error {
	return a.c.doJSON(ctx, http.MethodDelete, idPath("/documents", id), nil, nil)
}

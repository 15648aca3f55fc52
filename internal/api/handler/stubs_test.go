package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/caportal/portal/internal/api/middleware"
	"github.com/caportal/portal/internal/core/domain"
	"github.com/caportal/portal/internal/core/state"
	"github.com/caportal/portal/internal/infrastructure/sessionstore"
)

// ---- stub backends ----

type stubAuthAPI struct {
	loginFn    func(ctx context.Context, email, password string) (*domain.Session, error)
	registerFn func(ctx context.Context, draft domain.RegisterDraft) (*domain.Session, error)
	forgotFn   func(ctx context.Context, email string) (string, error)
}

func (s *stubAuthAPI) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthAPI) Register(ctx context.Context, draft domain.RegisterDraft) (*domain.Session, error) {
	return s.registerFn(ctx, draft)
}

func (s *stubAuthAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	return s.forgotFn(ctx, email)
}

type stubClientAPI struct {
	listFn   func(ctx context.Context) ([]*domain.Client, error)
	getFn    func(ctx context.Context, id string) (*domain.Client, error)
	createFn func(ctx context.Context, draft domain.ClientDraft) (*domain.Client, error)
	updateFn func(ctx context.Context, id string, patch domain.ClientDraft) (*domain.Client, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubClientAPI) List(ctx context.Context) ([]*domain.Client, error) { return s.listFn(ctx) }
func (s *stubClientAPI) Get(ctx context.Context, id string) (*domain.Client, error) {
	return s.getFn(ctx, id)
}
func (s *stubClientAPI) Create(ctx context.Context, draft domain.ClientDraft) (*domain.Client, error) {
	return s.createFn(ctx, draft)
}
func (s *stubClientAPI) Update(ctx context.Context, id string, patch domain.ClientDraft) (*domain.Client, error) {
	return s.updateFn(ctx, id, patch)
}
func (s *stubClientAPI) Delete(ctx context.Context, id string) error { return s.deleteFn(ctx, id) }

type stubTaskAPI struct {
	listFn   func(ctx context.Context) ([]*domain.Task, error)
	getFn    func(ctx context.Context, id string) (*domain.Task, error)
	createFn func(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error)
	updateFn func(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubTaskAPI) List(ctx context.Context) ([]*domain.Task, error) { return s.listFn(ctx) }
func (s *stubTaskAPI) Get(ctx context.Context, id string) (*domain.Task, error) {
	return s.getFn(ctx, id)
}
func (s *stubTaskAPI) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	return s.createFn(ctx, draft)
}
func (s *stubTaskAPI) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	return s.updateFn(ctx, id, patch)
}
func (s *stubTaskAPI) Delete(ctx context.Context, id string) error { return s.deleteFn(ctx, id) }

type stubDocumentAPI struct {
	listFn     func(ctx context.Context) ([]*domain.Document, error)
	getFn      func(ctx context.Context, id string) (*domain.Document, error)
	uploadFn   func(ctx context.Context, up domain.DocumentUpload) (*domain.Document, error)
	downloadFn func(ctx context.Context, id string) (*domain.Download, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (s *stubDocumentAPI) List(ctx context.Context) ([]*domain.Document, error) {
	return s.listFn(ctx)
}
func (s *stubDocumentAPI) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.getFn(ctx, id)
}
func (s *stubDocumentAPI) Upload(ctx context.Context, up domain.DocumentUpload) (*domain.Document, error) {
	return s.uploadFn(ctx, up)
}
func (s *stubDocumentAPI) Download(ctx context.Context, id string) (*domain.Download, error) {
	return s.downloadFn(ctx, id)
}
func (s *stubDocumentAPI) Delete(ctx context.Context, id string) error { return s.deleteFn(ctx, id) }

// ---- fixtures ----

var (
	adminUser  = &domain.Session{ID: "a1", Name: "ada admin", Email: "ada@example.com", Role: domain.RoleAdmin, Token: "admin-token"}
	clientUser = &domain.Session{ID: "c1", Name: "Carl Client", Email: "carl@example.com", Role: domain.RoleClient, Token: "client-token"}
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 9, 0, 0, 0, time.UTC)
}

// newState builds a container over b, signed in as user when it is not nil.
func newState(t *testing.T, b state.Backend, user *domain.Session) (*state.Container, *sessionstore.Memory) {
	t.Helper()
	storage := sessionstore.NewMemory()
	if user != nil {
		if err := storage.Save(context.Background(), "sid", user); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}
	st := state.New(b, storage, "sid", zerolog.Nop(), nil)
	if err := st.Start(context.Background()); err != nil {
		t.Fatalf("start container: %v", err)
	}
	return st, storage
}

// newContext builds an echo context bound to st. A string body is sent as
// JSON.
func newContext(st *state.Container, method, target string, body io.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetContainer(c, "sid", st)
	return c, rec
}

func jsonContext(st *state.Container, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	return newContext(st, method, target, strings.NewReader(body), echo.MIMEApplicationJSON)
}

type renderedPage[T any] struct {
	Layout *Layout `json:"layout"`
	Data   T       `json:"data"`
}

func decodePage[T any](t *testing.T, rec *httptest.ResponseRecorder) renderedPage[T] {
	t.Helper()
	var p renderedPage[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, rec.Body.String())
	}
	return p
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, code int, location string) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected %d, got %d (%s)", code, rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}


package store

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/caportal/portal/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stub backend APIs
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubClientAPI struct {
	listFn   func(ctx context.Context) ([]*domain.Client, error)
	getFn    func(ctx context.Context, id string) (*domain.Client, error)
	createFn func(ctx context.Context, d domain.ClientDraft) (*domain.Client, error)
	updateFn func(ctx context.Context, id string, d domain.ClientDraft) (*domain.Client, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubClientAPI) List(ctx context.Context) ([]*domain.Client, error) { return s.listFn(ctx) }
func (s *stubClientAPI) Get(ctx context.Context, id string) (*domain.Client, error) {
	return s.getFn(ctx, id)
}
func (s *stubClientAPI) Create(ctx context.Context, d domain.ClientDraft) (*domain.Client, error) {
	return s.createFn(ctx, d)
}
func (s *stubClientAPI) Update(ctx context.Context, id string, d domain.ClientDraft) (*domain.Client, error) {
	return s.updateFn(ctx, id, d)
}
func (s *stubClientAPI) Delete(ctx context.Context, id string) error { return s.deleteFn(ctx, id) }

type stubTaskAPI struct {
	listFn   func(ctx context.Context) ([]*domain.Task, error)
	updateFn func(ctx context.Context, id string, p domain.TaskPatch) (*domain.Task, error)
	createFn func(ctx context.Context, d domain.TaskDraft) (*domain.Task, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubTaskAPI) List(ctx context.Context) ([]*domain.Task, error) { return s.listFn(ctx) }
func (s *stubTaskAPI) Get(_ context.Context, id string) (*domain.Task, error) {
	return &domain.Task{ID: id}, nil
}
func (s *stubTaskAPI) Create(ctx context.Context, d domain.TaskDraft) (*domain.Task, error) {
	return s.createFn(ctx, d)
}
func (s *stubTaskAPI) Update(ctx context.Context, id string, p domain.TaskPatch) (*domain.Task, error) {
	return s.updateFn(ctx, id, p)
}
func (s *stubTaskAPI) Delete(ctx context.Context, id string) error { return s.deleteFn(ctx, id) }

type stubDocumentAPI struct {
	listFn     func(ctx context.Context) ([]*domain.Document, error)
	uploadFn   func(ctx context.Context, up domain.DocumentUpload) (*domain.Document, error)
	downloadFn func(ctx context.Context, id string) (*domain.Download, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (s *stubDocumentAPI) List(ctx context.Context) ([]*domain.Document, error) {
	return s.listFn(ctx)
}
func (s *stubDocumentAPI) Get(_ context.Context, id string) (*domain.Document, error) {
	return &domain.Document{ID: id}, nil
}
func (s *stubDocumentAPI) Upload(ctx context.Context, up domain.DocumentUpload) (*domain.Document, error) {
	return s.uploadFn(ctx, up)
}
func (s *stubDocumentAPI) Download(ctx context.Context, id string) (*domain.Download, error) {
	return s.downloadFn(ctx, id)
}
func (s *stubDocumentAPI) Delete(ctx context.Context, id string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

type stubAuthAPI struct {
	loginFn  func(ctx context.Context, email, password string) (*domain.Session, error)
	forgotFn func(ctx context.Context, email string) (string, error)
}

func (s *stubAuthAPI) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	return s.loginFn(ctx, email, password)
}
func (s *stubAuthAPI) Register(ctx context.Context, d domain.RegisterDraft) (*domain.Session, error) {
	return s.loginFn(ctx, d.Email, d.Password)
}
func (s *stubAuthAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	return s.forgotFn(ctx, email)
}

// ---------------------------------------------------------------------------
// Stub storage, saver and recorder
// ---------------------------------------------------------------------------

type stubStorage struct {
	mu      sync.Mutex
	data    map[string]*domain.Session
	saveErr error
}

func newStubStorage() *stubStorage {
	return &stubStorage{data: make(map[string]*domain.Session)}
}

func (s *stubStorage) Load(_ context.Context, ns string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[ns]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *stubStorage) Save(_ context.Context, ns string, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data[ns] = sess
	return nil
}

func (s *stubStorage) Clear(_ context.Context, ns string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, ns)
	return nil
}

type stubSaver struct {
	name, contentType, body string
}

func (s *stubSaver) Save(_ context.Context, name, contentType string, body io.Reader) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.name, s.contentType, s.body = name, contentType, string(b)
	return nil
}

type observation struct {
	resource, op, outcome string
}

type stubRecorder struct {
	mu  sync.Mutex
	obs []observation
}

func (r *stubRecorder) ObserveOperation(resource, op, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.obs = append(r.obs, observation{resource, op, outcome})
}

func (r *stubRecorder) outcomes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.obs))
	for i, o := range r.obs {
		out[i] = o.outcome
	}
	return out
}

func body(s string) io.ReadCloser { return io.NopCloser(strings.NewReader(s)) }

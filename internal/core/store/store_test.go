package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/caportal/portal/internal/core/domain"
)

func TestStore_FetchAll_Success(t *testing.T) {
	api := &stubClientAPI{listFn: func(context.Context) ([]*domain.Client, error) {
		return clients("a", "b"), nil
	}}
	rec := &stubRecorder{}
	s := NewClientStore(api, discardLogger, rec)

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := s.State()
	if len(st.Items) != 2 || !st.IsSuccess || st.IsLoading {
		t.Errorf("unexpected state: %+v", st)
	}
	if got := rec.outcomes(); len(got) != 1 || got[0] != outcomeSuccess {
		t.Errorf("expected one success observation, got %v", got)
	}
}

func TestStore_FetchAll_RemoteErrorMessage(t *testing.T) {
	api := &stubClientAPI{listFn: func(context.Context) ([]*domain.Client, error) {
		return nil, &domain.RemoteError{StatusCode: 403, Message: "Not authorized as an admin"}
	}}
	s := NewClientStore(api, discardLogger, nil)

	err := s.FetchAll(context.Background())

	var re *domain.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	st := s.State()
	if !st.IsError || st.Message != "Not authorized as an admin" {
		t.Errorf("unexpected state: %+v", st)
	}
}

func TestStore_FetchAll_TransportErrorMessage(t *testing.T) {
	api := &stubClientAPI{listFn: func(context.Context) ([]*domain.Client, error) {
		return nil, &domain.TransportError{Op: "GET /clients", Err: errors.New("Network Error")}
	}}
	s := NewClientStore(api, discardLogger, nil)

	_ = s.FetchAll(context.Background())

	if got := s.State().Message; got != "Network Error" {
		t.Errorf("expected %q, got %q", "Network Error", got)
	}
}

func TestStore_Create_EmptyResponseRejected(t *testing.T) {
	api := &stubClientAPI{createFn: func(context.Context, domain.ClientDraft) (*domain.Client, error) {
		return nil, nil
	}}
	s := NewClientStore(api, discardLogger, nil)

	err := s.Create(context.Background(), domain.ClientDraft{Name: "x"})

	if !errors.Is(err, errEmptyResponse) {
		t.Fatalf("expected errEmptyResponse, got %v", err)
	}
	if len(s.State().Items) != 0 {
		t.Error("nothing must be appended")
	}
}

// The first fetch answers after the second one was issued: its answer must be
// discarded even though it arrives last.
func TestStore_GenerationFence_DiscardsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	api := &stubClientAPI{listFn: func(context.Context) ([]*domain.Client, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return clients("stale"), nil
		}
		return clients("fresh"), nil
	}}
	rec := &stubRecorder{}
	s := NewClientStore(api, discardLogger, rec)

	errc := make(chan error, 1)
	go func() { errc <- s.FetchAll(context.Background()) }()
	<-started

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	close(release)

	if err := <-errc; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}

	st := s.State()
	if len(st.Items) != 1 || st.Items[0].ID != "fresh" {
		t.Errorf("stale response was applied: %+v", st.Items)
	}
	if st.IsLoading {
		t.Error("loading must be cleared by the latest settle")
	}
	got := rec.outcomes()
	if len(got) != 2 || got[0] != outcomeSuccess || got[1] != outcomeSuperseded {
		t.Errorf("unexpected outcomes: %v", got)
	}
}

// A download issued while a delete is in flight must not cost the delete its
// settle: the backend has already removed the document.
func TestStore_DeleteSettlesAfterDownload(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	api := &stubDocumentAPI{
		listFn: func(context.Context) ([]*domain.Document, error) {
			return []*domain.Document{{ID: "d1"}, {ID: "d2"}}, nil
		},
		deleteFn: func(context.Context, string) error {
			close(started)
			<-release
			return nil
		},
		downloadFn: func(context.Context, string) (*domain.Download, error) {
			return &domain.Download{Body: body("x")}, nil
		},
	}
	rec := &stubRecorder{}
	s := NewDocumentStore(api, discardLogger, rec)
	_ = s.FetchAll(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- s.Delete(context.Background(), "d1") }()
	<-started

	if err := s.Download(context.Background(), "d2", &stubSaver{}); err != nil {
		t.Fatalf("download failed: %v", err)
	}
	close(release)

	if err := <-errc; err != nil {
		t.Fatalf("delete must settle, got %v", err)
	}
	st := s.State()
	if len(st.Items) != 1 || st.Items[0].ID != "d2" {
		t.Errorf("deleted document still listed: %+v", st.Items)
	}
	for _, o := range rec.outcomes() {
		if o == outcomeSuperseded {
			t.Errorf("nothing may be superseded: %v", rec.outcomes())
		}
	}
}

// A fetch-by-id issued while a create is in flight must not drop the created
// entity from the list.
func TestStore_CreateSettlesAfterFetchByID(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	api := &stubClientAPI{
		listFn: func(context.Context) ([]*domain.Client, error) { return clients("a"), nil },
		getFn: func(_ context.Context, id string) (*domain.Client, error) {
			return &domain.Client{ID: id}, nil
		},
		createFn: func(_ context.Context, d domain.ClientDraft) (*domain.Client, error) {
			close(started)
			<-release
			return &domain.Client{ID: "new", Name: d.Name}, nil
		},
	}
	s := NewClientStore(api, discardLogger, nil)
	_ = s.FetchAll(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- s.Create(context.Background(), domain.ClientDraft{Name: "Acme"}) }()
	<-started

	if err := s.FetchByID(context.Background(), "a"); err != nil {
		t.Fatalf("fetch by id failed: %v", err)
	}
	close(release)

	if err := <-errc; err != nil {
		t.Fatalf("create must settle, got %v", err)
	}
	st := s.State()
	if len(st.Items) != 2 || st.Items[1].ID != "new" {
		t.Errorf("created client missing: %+v", st.Items)
	}
	if st.Selected == nil || st.Selected.ID != "a" {
		t.Errorf("fetched client must stay selected: %+v", st.Selected)
	}
}

// A list fetched before a delete committed must not bring the deleted entity
// back.
func TestStore_DeleteDiscardsOlderFetchAll(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	api := &stubClientAPI{
		listFn: func(context.Context) ([]*domain.Client, error) {
			if calls.Add(1) == 2 {
				close(started)
				<-release
			}
			return clients("a", "b"), nil
		},
		deleteFn: func(context.Context, string) error { return nil },
	}
	s := NewClientStore(api, discardLogger, nil)
	_ = s.FetchAll(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- s.FetchAll(context.Background()) }()
	<-started

	if err := s.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	close(release)

	if err := <-errc; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded for the older list, got %v", err)
	}
	st := s.State()
	if len(st.Items) != 1 || st.Items[0].ID != "b" {
		t.Errorf("deleted client came back: %+v", st.Items)
	}
	if st.IsLoading {
		t.Error("loading must be cleared")
	}
}

// Clearing the slice fences mutations too: nothing issued before sign-out
// lands in the next user's state.
func TestStore_ClearDiscardsInFlightCreate(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	api := &stubClientAPI{createFn: func(context.Context, domain.ClientDraft) (*domain.Client, error) {
		close(started)
		<-release
		return &domain.Client{ID: "late"}, nil
	}}
	s := NewClientStore(api, discardLogger, nil)

	errc := make(chan error, 1)
	go func() { errc <- s.Create(context.Background(), domain.ClientDraft{Name: "x"}) }()
	<-started
	s.Clear()
	close(release)

	if err := <-errc; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	if n := len(s.State().Items); n != 0 {
		t.Errorf("expected an empty list after clear, got %d items", n)
	}
}

func TestStore_Subscribe(t *testing.T) {
	api := &stubClientAPI{listFn: func(context.Context) ([]*domain.Client, error) {
		return clients("a"), nil
	}}
	s := NewClientStore(api, discardLogger, nil)

	var n atomic.Int32
	unsubscribe := s.Subscribe(func() { n.Add(1) })

	_ = s.FetchAll(context.Background())
	if got := n.Load(); got != 2 {
		t.Errorf("expected pending and fulfilled notifications, got %d", got)
	}

	unsubscribe()
	_ = s.FetchAll(context.Background())
	if got := n.Load(); got != 2 {
		t.Errorf("notified after unsubscribe: %d", got)
	}
}

func TestStore_SnapshotsAreStable(t *testing.T) {
	api := &stubClientAPI{
		listFn: func(context.Context) ([]*domain.Client, error) { return clients("a"), nil },
		deleteFn: func(context.Context, string) error { return nil },
	}
	s := NewClientStore(api, discardLogger, nil)
	_ = s.FetchAll(context.Background())

	before := s.State()
	_ = s.Delete(context.Background(), "a")

	if len(before.Items) != 1 {
		t.Error("an earlier snapshot changed after a later operation")
	}
	if len(s.State().Items) != 0 {
		t.Error("delete not applied")
	}
}

func TestClientStore_FetchByIDAndClearSelected(t *testing.T) {
	api := &stubClientAPI{getFn: func(_ context.Context, id string) (*domain.Client, error) {
		return &domain.Client{ID: id, Name: "Acme"}, nil
	}}
	s := NewClientStore(api, discardLogger, nil)

	if err := s.FetchByID(context.Background(), "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel := s.State().Selected; sel == nil || sel.Name != "Acme" {
		t.Fatalf("selected not set: %+v", sel)
	}

	s.ClearSelected()
	if s.State().Selected != nil {
		t.Error("selected not cleared")
	}
}

func TestClientStore_UpdateSendsPatch(t *testing.T) {
	var gotID string
	var gotDraft domain.ClientDraft
	api := &stubClientAPI{
		listFn: func(context.Context) ([]*domain.Client, error) { return clients("c1"), nil },
		updateFn: func(_ context.Context, id string, d domain.ClientDraft) (*domain.Client, error) {
			gotID, gotDraft = id, d
			return &domain.Client{ID: id, Name: d.Name}, nil
		},
	}
	s := NewClientStore(api, discardLogger, nil)
	_ = s.FetchAll(context.Background())

	if err := s.Update(context.Background(), "c1", domain.ClientDraft{Name: "New"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "c1" || gotDraft.Name != "New" {
		t.Errorf("unexpected call: %q %+v", gotID, gotDraft)
	}
	if s.State().Items[0].Name != "New" {
		t.Error("update not reflected in items")
	}
}

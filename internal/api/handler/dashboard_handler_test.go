package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/caportal/portal/internal/core/domain"
	"github.com/caportal/portal/internal/core/state"
)

func dashboardBackend() state.Backend {
	return state.Backend{
		Clients: &stubClientAPI{
			listFn: func(ctx context.Context) ([]*domain.Client, error) {
				out := make([]*domain.Client, 0, 7)
				for d := 1; d <= 7; d++ {
					out = append(out, &domain.Client{ID: string(rune('a' + d)), Name: "client", CreatedAt: day(d)})
				}
				return out, nil
			},
		},
		Tasks: &stubTaskAPI{
			listFn: func(ctx context.Context) ([]*domain.Task, error) {
				return []*domain.Task{
					{ID: "t1", Title: "old", Status: domain.TaskPending, CreatedAt: day(1)},
					{ID: "t2", Title: "mid", Status: domain.TaskCompleted, CreatedAt: day(5)},
					{ID: "t3", Title: "new", Status: domain.TaskInProgress, CreatedAt: day(9)},
					{ID: "t4", Title: "newer", Status: domain.TaskPending, CreatedAt: day(10)},
				}, nil
			},
		},
		Documents: &stubDocumentAPI{
			listFn: func(ctx context.Context) ([]*domain.Document, error) {
				return []*domain.Document{
					{ID: "d1", Name: "contract.pdf", CreatedAt: day(2)},
					{ID: "d2", Name: "invoice.pdf", CreatedAt: day(11)},
					{ID: "d3", Name: "receipt.pdf", CreatedAt: day(3)},
				}, nil
			},
		},
	}
}

func TestDashboardHandler_Admin(t *testing.T) {
	st, _ := newState(t, dashboardBackend(), adminUser)
	c, rec := newContext(st, http.MethodGet, "/admin", nil, "")

	if err := NewDashboardHandler().Admin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	page := decodePage[adminDashboardPage](t, rec)
	d := page.Data
	if d.TotalClients != 7 || d.TotalDocuments != 3 {
		t.Errorf("unexpected totals: clients=%d documents=%d", d.TotalClients, d.TotalDocuments)
	}
	if d.TaskStats != (domain.TaskStats{Pending: 2, InProgress: 1, Completed: 1}) {
		t.Errorf("unexpected stats: %+v", d.TaskStats)
	}
	if len(d.RecentClients) != 5 || !d.RecentClients[0].CreatedAt.Equal(day(7)) {
		t.Errorf("expected the 5 newest clients first, got %d starting %v", len(d.RecentClients), d.RecentClients[0].CreatedAt)
	}
	if d.RecentTasks[0].ID != "t4" || d.RecentDocuments[0].ID != "d2" {
		t.Errorf("recent lists must be newest first: %s %s", d.RecentTasks[0].ID, d.RecentDocuments[0].ID)
	}

	if len(d.Activity) != 5 {
		t.Fatalf("expected 3 tasks and 2 documents of activity, got %d", len(d.Activity))
	}
	want := []string{"d2", "t4", "t3", "t2", "d3"}
	for i, id := range want {
		if d.Activity[i].ID != id {
			t.Errorf("activity[%d]: expected %s, got %s", i, id, d.Activity[i].ID)
		}
	}

	if page.Layout == nil || page.Layout.Title != "Dashboard" || page.Layout.Subtitle != "Admin Dashboard" {
		t.Errorf("unexpected layout: %+v", page.Layout)
	}
}

func TestDashboardHandler_Admin_PartialFailure(t *testing.T) {
	b := dashboardBackend()
	b.Documents = &stubDocumentAPI{
		listFn: func(ctx context.Context) ([]*domain.Document, error) {
			return nil, &domain.TransportError{Op: "GET /documents", Err: errors.New("connection refused")}
		},
	}
	st, _ := newState(t, b, adminUser)
	c, rec := newContext(st, http.MethodGet, "/admin", nil, "")

	if err := NewDashboardHandler().Admin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	d := decodePage[adminDashboardPage](t, rec).Data
	if !d.Status.IsError || d.Status.Message != "connection refused" {
		t.Errorf("unexpected status: %+v", d.Status)
	}
	if d.TotalClients != 7 {
		t.Errorf("the other fetches must still settle, got %d clients", d.TotalClients)
	}
}

func TestDashboardHandler_Client(t *testing.T) {
	st, _ := newState(t, dashboardBackend(), clientUser)
	c, rec := newContext(st, http.MethodGet, "/client", nil, "")

	if err := NewDashboardHandler().Client(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	page := decodePage[clientDashboardPage](t, rec)
	d := page.Data
	if d.PendingTasks != 2 || d.CompletedTasks != 1 || d.TotalDocuments != 3 {
		t.Errorf("unexpected counts: %+v", d)
	}
	if len(d.RecentTasks) != 4 || d.RecentTasks[0].ID != "t1" {
		t.Errorf("expected tasks in list order, got %d", len(d.RecentTasks))
	}
	if page.Layout.Subtitle != "Client Portal" {
		t.Errorf("unexpected subtitle %q", page.Layout.Subtitle)
	}
}

func TestMergeStatus(t *testing.T) {
	got := mergeStatus(
		Status{IsSuccess: true},
		Status{IsError: true, Message: "first"},
		Status{IsError: true, Message: "second"},
	)
	if got.IsSuccess || !got.IsError || got.Message != "first" {
		t.Errorf("unexpected merge: %+v", got)
	}
	if got := mergeStatus(Status{IsSuccess: true}, Status{IsSuccess: true}); !got.IsSuccess {
		t.Errorf("all successful slices should merge to success: %+v", got)
	}
}

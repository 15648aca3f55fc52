package store

import (
	"context"
	"testing"

	"github.com/caportal/portal/internal/core/domain"
)

func TestTaskStore_StatsFollowItems(t *testing.T) {
	api := &stubTaskAPI{
		listFn: func(context.Context) ([]*domain.Task, error) {
			return []*domain.Task{
				{ID: "t1", Status: domain.TaskPending},
				{ID: "t2", Status: domain.TaskCompleted},
			}, nil
		},
		updateFn: func(_ context.Context, id string, p domain.TaskPatch) (*domain.Task, error) {
			return &domain.Task{ID: id, Status: *p.Status}, nil
		},
	}
	s := NewTaskStore(api, discardLogger, nil)

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	want := domain.TaskStats{Pending: 1, InProgress: 0, Completed: 1}
	if got := s.State().Stats; got != want {
		t.Errorf("after fetch: expected %+v, got %+v", want, got)
	}

	if err := s.UpdateStatus(context.Background(), "t1", domain.TaskInProgress); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	want = domain.TaskStats{Pending: 0, InProgress: 1, Completed: 1}
	if got := s.State().Stats; got != want {
		t.Errorf("after update: expected %+v, got %+v", want, got)
	}
}

func TestTaskStore_StatsAfterCreateAndDelete(t *testing.T) {
	api := &stubTaskAPI{
		createFn: func(_ context.Context, d domain.TaskDraft) (*domain.Task, error) {
			return &domain.Task{ID: "t9", Title: d.Title, Status: domain.TaskPending}, nil
		},
		deleteFn: func(context.Context, string) error { return nil },
	}
	s := NewTaskStore(api, discardLogger, nil)

	_ = s.Create(context.Background(), domain.TaskDraft{Title: "File taxes"})
	if got := s.State().Stats.Pending; got != 1 {
		t.Errorf("expected 1 pending after create, got %d", got)
	}

	_ = s.Delete(context.Background(), "t9")
	if got := s.State().Stats; got != (domain.TaskStats{}) {
		t.Errorf("expected zero stats after delete, got %+v", got)
	}
}

func TestReduceTasks_RejectedKeepsStats(t *testing.T) {
	s := TaskState{ResourceState: NewResourceState[*domain.Task](), Stats: domain.TaskStats{Pending: 2}}

	got := ReduceTasks(s, Action[*domain.Task]{Op: OpFetchAll, Phase: Rejected, Message: "x"})

	if got.Stats.Pending != 2 {
		t.Errorf("rejected must not recount stats, got %+v", got.Stats)
	}
}

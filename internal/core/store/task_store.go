package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/caportal/portal/internal/core/domain"
	"github.com/caportal/portal/internal/core/ports"
)

// TaskState is the tasks slice plus the per-status counts derived from its
// items.
type TaskState struct {
	ResourceState[*domain.Task]
	Stats domain.TaskStats `json:"stats"`
}

// ReduceTasks reduces like any resource slice and recounts the statistics
// whenever the item list may have changed.
func ReduceTasks(s TaskState, a Action[*domain.Task]) TaskState {
	s.ResourceState = ReduceResource(s.ResourceState, a)
	if a.Phase == Fulfilled && listChanged(a.Op) {
		s.Stats = domain.ComputeTaskStats(s.Items)
	}
	return s
}

// TaskStore manages the tasks slice. Admins see every task, clients only
// their own; the backend does the filtering.
type TaskStore struct {
	*Store[TaskState, *domain.Task]
	api ports.TaskAPI
}

func NewTaskStore(api ports.TaskAPI, log zerolog.Logger, rec Recorder) *TaskStore {
	initial := TaskState{ResourceState: NewResourceState[*domain.Task]()}
	return &TaskStore{
		Store: New[TaskState, *domain.Task]("tasks", initial, ReduceTasks, log, rec),
		api:   api,
	}
}

func (s *TaskStore) FetchAll(ctx context.Context) error {
	return fetchAll(ctx, s.Store, s.api.List)
}

func (s *TaskStore) FetchByID(ctx context.Context, id string) error {
	return fetchByID(ctx, s.Store, id, s.api.Get)
}

func (s *TaskStore) Create(ctx context.Context, draft domain.TaskDraft) error {
	return create(ctx, s.Store, func(ctx context.Context) (*domain.Task, error) {
		return s.api.Create(ctx, draft)
	})
}

func (s *TaskStore) Update(ctx context.Context, id string, patch domain.TaskPatch) error {
	return update(ctx, s.Store, id, func(ctx context.Context) (*domain.Task, error) {
		return s.api.Update(ctx, id, patch)
	})
}

// UpdateStatus is the one change a client may make to a task.
func (s *TaskStore) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	return s.Update(ctx, id, domain.TaskPatch{Status: &status})
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.Store, id, s.api.Delete)
}

func (s *TaskStore) ClearSelected() {
	s.apply(Action[*domain.Task]{Op: OpClearSelected, Phase: Fulfilled}, false)
}

// Clear empties the slice and discards requests still in flight.
func (s *TaskStore) Clear() {
	s.apply(Action[*domain.Task]{Op: OpClear, Phase: Fulfilled}, true)
}

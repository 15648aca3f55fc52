package domain

import (
	"fmt"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// ParseTaskStatus accepts only the three known statuses.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch st := TaskStatus(s); st {
	case TaskPending, TaskInProgress, TaskCompleted:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Task is a unit of work an admin assigns to a client.
type Task struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ClientID    string     `json:"clientId,omitempty"`
	Client      *Ref       `json:"client,omitempty"`
	Deadline    time.Time  `json:"deadline"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (t *Task) Identity() string { return t.ID }

// OwnerID returns the owning client's id whether the backend sent the raw
// foreign key or a populated reference.
func (t *Task) OwnerID() string {
	if t.ClientID != "" {
		return t.ClientID
	}
	if t.Client != nil {
		return t.Client.ID
	}
	return ""
}

// ClientName is the populated client name, if any.
func (t *Task) ClientName() string {
	if t.Client != nil {
		return t.Client.Name
	}
	return ""
}

// TaskDraft is the admin create form.
type TaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ClientID    string `json:"clientId"`
	Deadline    string `json:"deadline"`
}

// TaskPatch is a partial update. Nil fields are not sent.
type TaskPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	ClientID    *string     `json:"clientId,omitempty"`
	Deadline    *string     `json:"deadline,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
}

// StatusOnly reports whether the patch touches nothing but the status, which
// is the only change a client is allowed to make.
func (p TaskPatch) StatusOnly() bool {
	return p.Status != nil && p.Title == nil && p.Description == nil && p.ClientID == nil && p.Deadline == nil
}

// TaskStats counts tasks by status.
type TaskStats struct {
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// ComputeTaskStats counts the tasks by status; unknown statuses are ignored.
func ComputeTaskStats(tasks []*Task) TaskStats {
	var st TaskStats
	for _, t := range tasks {
		switch t.Status {
		case TaskPending:
			st.Pending++
		case TaskInProgress:
			st.InProgress++
		case TaskCompleted:
			st.Completed++
		}
	}
	return st
}

package handler

import (
	"time"

	"github.com/caportal/portal/internal/core/domain"
	"github.com/caportal/portal/internal/core/store"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Forms ---
//
// Every form binds from JSON or from an urlencoded/multipart body.

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name"     form:"name"     validate:"required"`
	Email    string `json:"email"    form:"email"    validate:"required"`
	Phone    string `json:"phone"    form:"phone"`
	Password string `json:"password" form:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required"`
}

// clientRequest is shared by create and edit. The password is only required
// when creating; an empty one on edit keeps the current password.
type clientRequest struct {
	Name     string `json:"name"     form:"name"     validate:"required"`
	Email    string `json:"email"    form:"email"    validate:"required"`
	Phone    string `json:"phone"    form:"phone"    validate:"required"`
	Password string `json:"password" form:"password"`
}

type createTaskRequest struct {
	Title       string `json:"title"       form:"title"       validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
	ClientID    string `json:"clientId"    form:"clientId"    validate:"required"`
	Deadline    string `json:"deadline"    form:"deadline"    validate:"required"`
}

// updateTaskRequest is the admin edit form. Blank fields are left unchanged.
type updateTaskRequest struct {
	Title       string `json:"title"       form:"title"`
	Description string `json:"description" form:"description"`
	ClientID    string `json:"clientId"    form:"clientId"`
	Deadline    string `json:"deadline"    form:"deadline"`
	Status      string `json:"status"      form:"status"      validate:"omitempty,oneof=pending in_progress completed"`
}

type taskStatusRequest struct {
	Status string `json:"status" form:"status" validate:"required,oneof=pending in_progress completed"`
}

// uploadDocumentRequest carries the text fields of the upload form. The file
// part is read separately.
type uploadDocumentRequest struct {
	Name        string `form:"name"        validate:"required"`
	Description string `form:"description"`
	ClientID    string `form:"clientId"    validate:"required"`
	TaskID      string `form:"taskId"`
}

// --- View models ---

// Status is the request lifecycle of a slice as pages show it.
type Status struct {
	IsLoading bool   `json:"isLoading"`
	IsError   bool   `json:"isError"`
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message,omitempty"`
}

func resourceStatus[T store.Entity](s store.ResourceState[T]) Status {
	return Status{IsLoading: s.IsLoading, IsError: s.IsError, IsSuccess: s.IsSuccess, Message: s.Message}
}

func authStatus(s store.AuthState) Status {
	return Status{IsLoading: s.IsLoading, IsError: s.IsError, IsSuccess: s.IsSuccess, Message: s.Message}
}

type authPage struct {
	Status Status          `json:"status"`
	User   *domain.Session `json:"user,omitempty"`
}

type option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type clientListPage struct {
	Status  Status           `json:"status"`
	Clients []*domain.Client `json:"clients"`
}

type clientFormPage struct {
	Status Status        `json:"status"`
	IsNew  bool          `json:"isNew"`
	ID     string        `json:"id,omitempty"`
	Form   clientRequest `json:"form"`
}

type taskListPage struct {
	Status   Status           `json:"status"`
	Tasks    []*domain.Task   `json:"tasks"`
	Stats    domain.TaskStats `json:"stats"`
	Clients  []option         `json:"clients,omitempty"`
	Statuses []option         `json:"statuses"`
}

type documentListPage struct {
	Status    Status             `json:"status"`
	Documents []*domain.Document `json:"documents"`
	Clients   []option           `json:"clients,omitempty"`
	Tasks     []option           `json:"tasks,omitempty"`
}

type activityItem struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

type adminDashboardPage struct {
	Status          Status             `json:"status"`
	TotalClients    int                `json:"totalClients"`
	TotalDocuments  int                `json:"totalDocuments"`
	TaskStats       domain.TaskStats   `json:"taskStats"`
	RecentClients   []*domain.Client   `json:"recentClients"`
	RecentTasks     []*domain.Task     `json:"recentTasks"`
	RecentDocuments []*domain.Document `json:"recentDocuments"`
	Activity        []activityItem     `json:"activity"`
}

type clientDashboardPage struct {
	Status         Status         `json:"status"`
	PendingTasks   int            `json:"pendingTasks"`
	CompletedTasks int            `json:"completedTasks"`
	TotalDocuments int            `json:"totalDocuments"`
	RecentTasks    []*domain.Task `json:"recentTasks"`
}

var statusOptions = []option{
	{Value: string(domain.TaskPending), Label: "Pending"},
	{Value: string(domain.TaskInProgress), Label: "In Progress"},
	{Value: string(domain.TaskCompleted), Label: "Completed"},
}

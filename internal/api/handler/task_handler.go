package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caportal/portal/internal/api/middleware"
	"github.com/caportal/portal/internal/core/access"
	"github.com/caportal/portal/internal/core/domain"
)

const (
	adminTasksPath  = "/admin/tasks"
	clientTasksPath = "/client/tasks"
)

// TaskHandler serves the task screens of both shells.
type TaskHandler struct{}

func NewTaskHandler() *TaskHandler {
	return &TaskHandler{}
}

// AdminList handles GET /admin/tasks. The client list is loaded along with
// the tasks to fill the assignee selector.
//
// @Summary      Task list (admin)
// @Tags         tasks
// @Produce      json
// @Success      200  {object}  Page
// @Failure      502  {object}  Page
// @Router       /admin/tasks [get]
func (h *TaskHandler) AdminList(c echo.Context) error {
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	err = fanOut(ctx, st.Tasks.FetchAll, st.Clients.FetchAll)

	tasks, clients := st.Tasks.State(), st.Clients.State()
	page := taskListPage{
		Status:   mergeStatus(resourceStatus(tasks.ResourceState), resourceStatus(clients)),
		Tasks:    tasks.Items,
		Stats:    tasks.Stats,
		Clients:  clientOptions(clients.Items),
		Statuses: statusOptions,
	}
	return render(c, failureStatus(err), newLayout(c, AdminShell, "Tasks"), page)
}

// Create handles POST /admin/tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json,x-www-form-urlencoded
// @Param        body  body      createTaskRequest  true  "Task fields"
// @Success      303   "redirect to /admin/tasks"
// @Failure      422   {object}  errorResponse
// @Router       /admin/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	err = st.Tasks.Create(ctx, domain.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		ClientID:    req.ClientID,
		Deadline:    req.Deadline,
	})
	if err := settled(err); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, adminTasksPath)
}

// Update handles POST /admin/tasks/:id. Only the submitted fields change.
//
// @Summary      Edit a task
// @Tags         tasks
// @Accept       json,x-www-form-urlencoded
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Changed fields"
// @Success      303   "redirect to /admin/tasks"
// @Failure      422   {object}  errorResponse
// @Router       /admin/tasks/{id} [post]
func (h *TaskHandler) Update(c echo.Context) error {
	var req updateTaskRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	patch := req.patch()
	if patch == (domain.TaskPatch{}) {
		return &domain.ValidationError{Problems: []string{"no field to update"}}
	}
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	if err := settled(st.Tasks.Update(ctx, c.Param("id"), patch)); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, adminTasksPath)
}

// Delete handles DELETE /admin/tasks/:id?confirm=true.
//
// @Summary      Delete a task
// @Tags         tasks
// @Param        id       path   string  true  "Task id"
// @Param        confirm  query  bool    true  "Must be true"
// @Success      303      "redirect to /admin/tasks"
// @Failure      400      {object}  errorResponse
// @Router       /admin/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	if err := confirmed(c); err != nil {
		return err
	}
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	if err := settled(st.Tasks.Delete(ctx, c.Param("id"))); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, adminTasksPath)
}

// ClientList handles GET /client/tasks.
//
// @Summary      Task list (client)
// @Tags         tasks
// @Produce      json
// @Success      200  {object}  Page
// @Failure      502  {object}  Page
// @Router       /client/tasks [get]
func (h *TaskHandler) ClientList(c echo.Context) error {
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	err = settled(st.Tasks.FetchAll(ctx))

	tasks := st.Tasks.State()
	page := taskListPage{
		Status:   resourceStatus(tasks.ResourceState),
		Tasks:    tasks.Items,
		Stats:    tasks.Stats,
		Statuses: statusOptions,
	}
	return render(c, failureStatus(err), newLayout(c, ClientShell, "Tasks"), page)
}

// UpdateStatus handles POST /client/tasks/:id/status, the one change a
// client may make to a task.
//
// @Summary      Change a task's status
// @Tags         tasks
// @Accept       json,x-www-form-urlencoded
// @Param        id    path      string             true  "Task id"
// @Param        body  body      taskStatusRequest  true  "New status"
// @Success      303   "redirect to /client/tasks"
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /client/tasks/{id}/status [post]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	if !access.Can(middleware.CurrentUser(c), access.UpdateTaskStatus) {
		return domain.ErrForbidden
	}
	var req taskStatusRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	status, err := domain.ParseTaskStatus(req.Status)
	if err != nil {
		return err
	}
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	if err := settled(st.Tasks.UpdateStatus(ctx, c.Param("id"), status)); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, clientTasksPath)
}

func (r updateTaskRequest) patch() domain.TaskPatch {
	var p domain.TaskPatch
	if r.Title != "" {
		p.Title = &r.Title
	}
	if r.Description != "" {
		p.Description = &r.Description
	}
	if r.ClientID != "" {
		p.ClientID = &r.ClientID
	}
	if r.Deadline != "" {
		p.Deadline = &r.Deadline
	}
	if r.Status != "" {
		s := domain.TaskStatus(r.Status)
		p.Status = &s
	}
	return p
}

func clientOptions(clients []*domain.Client) []option {
	out := make([]option, 0, len(clients))
	for _, cl := range clients {
		out = append(out, option{Value: cl.ID, Label: cl.Name})
	}
	return out
}

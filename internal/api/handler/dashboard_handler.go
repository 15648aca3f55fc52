package handler

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/caportal/portal/internal/core/domain"
)

const (
	recentLimit       = 5
	activityTasks     = 3
	activityDocuments = 2
)

// DashboardHandler serves the landing screens of both shells.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// fanOut runs every fetch concurrently and waits for all of them. A failed
// fetch does not cancel the others: each one settles its own slice.
func fanOut(ctx context.Context, fetches ...func(context.Context) error) error {
	var g errgroup.Group
	for _, f := range fetches {
		f := f
		g.Go(func() error { return settled(f(ctx)) })
	}
	return g.Wait()
}

// Admin handles GET /admin.
//
// @Summary      Admin dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  Page
// @Failure      502  {object}  Page
// @Router       /admin [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	err = fanOut(ctx, st.Clients.FetchAll, st.Tasks.FetchAll, st.Documents.FetchAll)

	clients, tasks, docs := st.Clients.State(), st.Tasks.State(), st.Documents.State()
	recentTasks := newest(tasks.Items, func(t *domain.Task) time.Time { return t.CreatedAt }, recentLimit)
	recentDocs := newest(docs.Items, func(d *domain.Document) time.Time { return d.CreatedAt }, recentLimit)

	page := adminDashboardPage{
		Status:          mergeStatus(resourceStatus(clients), resourceStatus(tasks.ResourceState), resourceStatus(docs)),
		TotalClients:    len(clients.Items),
		TotalDocuments:  len(docs.Items),
		TaskStats:       tasks.Stats,
		RecentClients:   newest(clients.Items, func(cl *domain.Client) time.Time { return cl.CreatedAt }, recentLimit),
		RecentTasks:     recentTasks,
		RecentDocuments: recentDocs,
		Activity:        activity(recentTasks, recentDocs),
	}
	return render(c, failureStatus(err), newLayout(c, AdminShell, "Dashboard"), page)
}

// Client handles GET /client.
//
// @Summary      Client dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  Page
// @Failure      502  {object}  Page
// @Router       /client [get]
func (h *DashboardHandler) Client(c echo.Context) error {
	st, ctx, err := stateOf(c)
	if err != nil {
		return err
	}
	err = fanOut(ctx, st.Tasks.FetchAll, st.Documents.FetchAll)

	tasks, docs := st.Tasks.State(), st.Documents.State()
	page := clientDashboardPage{
		Status:         mergeStatus(resourceStatus(tasks.ResourceState), resourceStatus(docs)),
		PendingTasks:   tasks.Stats.Pending,
		CompletedTasks: tasks.Stats.Completed,
		TotalDocuments: len(docs.Items),
		RecentTasks:    tasks.Items[:min(recentLimit, len(tasks.Items))],
	}
	return render(c, failureStatus(err), newLayout(c, ClientShell, "Dashboard"), page)
}

// newest returns up to n items, most recently created first. The input is
// not reordered.
func newest[T any](items []T, created func(T) time.Time, n int) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return created(b).Compare(created(a))
	})
	if out == nil {
		return []T{}
	}
	return out[:min(n, len(out))]
}

func activity(tasks []*domain.Task, docs []*domain.Document) []activityItem {
	out := make([]activityItem, 0, activityTasks+activityDocuments)
	for _, t := range tasks[:min(activityTasks, len(tasks))] {
		out = append(out, activityItem{Kind: "task", ID: t.ID, Label: t.Title, CreatedAt: t.CreatedAt})
	}
	for _, d := range docs[:min(activityDocuments, len(docs))] {
		out = append(out, activityItem{Kind: "document", ID: d.ID, Label: d.Name, CreatedAt: d.CreatedAt})
	}
	slices.SortStableFunc(out, func(a, b activityItem) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return out
}

// mergeStatus folds the status of several slices: loading or failing if any
// of them is, successful only if all are. The first error message wins.
func mergeStatus(ss ...Status) Status {
	out := Status{IsSuccess: len(ss) > 0}
	for _, s := range ss {
		out.IsLoading = out.IsLoading || s.IsLoading
		out.IsSuccess = out.IsSuccess && s.IsSuccess
		if s.IsError && !out.IsError {
			out.IsError = true
			out.Message = s.Message
		}
	}
	return out
}


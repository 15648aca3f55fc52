// Package state composes the four slices into one container per session.
package state

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/caportal/portal/internal/core/ports"
	"github.com/caportal/portal/internal/core/store"
)

// Snapshot is a read of every slice taken at one point.
type Snapshot struct {
	Auth      store.AuthState     `json:"auth"`
	Clients   store.ClientState   `json:"clients"`
	Tasks     store.TaskState     `json:"tasks"`
	Documents store.DocumentState `json:"documents"`
}

// Backend bundles the remote APIs a container talks to.
type Backend struct {
	Auth      ports.AuthAPI
	Clients   ports.ClientAPI
	Tasks     ports.TaskAPI
	Documents ports.DocumentAPI
}

// Container is the root of one session's state. Each slice has a single
// writer, its own store; there are no cross-slice transactions.
type Container struct {
	Auth      *store.AuthStore
	Clients   *store.ClientStore
	Tasks     *store.TaskStore
	Documents *store.DocumentStore
}

// New wires a container. namespace scopes the persisted session.
func New(b Backend, sessions ports.SessionStorage, namespace string, log zerolog.Logger, rec store.Recorder) *Container {
	return &Container{
		Auth:      store.NewAuthStore(b.Auth, sessions, namespace, log, rec),
		Clients:   store.NewClientStore(b.Clients, log, rec),
		Tasks:     store.NewTaskStore(b.Tasks, log, rec),
		Documents: store.NewDocumentStore(b.Documents, log, rec),
	}
}

// Start loads the persisted session, if any.
func (c *Container) Start(ctx context.Context) error {
	return c.Auth.Restore(ctx)
}

func (c *Container) Snapshot() Snapshot {
	return Snapshot{
		Auth:      c.Auth.State(),
		Clients:   c.Clients.State(),
		Tasks:     c.Tasks.State(),
		Documents: c.Documents.State(),
	}
}

// Subscribe calls fn with a fresh snapshot after every transition of any
// slice. The returned func removes the subscription.
func (c *Container) Subscribe(fn func(Snapshot)) func() {
	notify := func() { fn(c.Snapshot()) }
	unsubs := []func(){
		c.Auth.Subscribe(notify),
		c.Clients.Subscribe(notify),
		c.Tasks.Subscribe(notify),
		c.Documents.Subscribe(notify),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// SignOut destroys the session and drops every cached resource so the next
// user of this container starts clean.
func (c *Container) SignOut(ctx context.Context) error {
	err := c.Auth.Logout(ctx)
	c.Clients.Clear()
	c.Tasks.Clear()
	c.Documents.Clear()
	return err
}

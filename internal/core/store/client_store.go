package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/caportal/portal/internal/core/domain"
	"github.com/caportal/portal/internal/core/ports"
)

// ClientState is the clients slice.
type ClientState = ResourceState[*domain.Client]

// ClientStore manages the clients slice. Only admins reach it.
type ClientStore struct {
	*Store[ClientState, *domain.Client]
	api ports.ClientAPI
}

func NewClientStore(api ports.ClientAPI, log zerolog.Logger, rec Recorder) *ClientStore {
	return &ClientStore{
		Store: New[ClientState, *domain.Client]("clients", NewResourceState[*domain.Client](), ReduceResource[*domain.Client], log, rec),
		api:   api,
	}
}

func (s *ClientStore) FetchAll(ctx context.Context) error {
	return fetchAll(ctx, s.Store, s.api.List)
}

func (s *ClientStore) FetchByID(ctx context.Context, id string) error {
	return fetchByID(ctx, s.Store, id, s.api.Get)
}

func (s *ClientStore) Create(ctx context.Context, draft domain.ClientDraft) error {
	return create(ctx, s.Store, func(ctx context.Context) (*domain.Client, error) {
		return s.api.Create(ctx, draft)
	})
}

// Update sends the edit form. A blank password leaves the stored one as is.
func (s *ClientStore) Update(ctx context.Context, id string, patch domain.ClientDraft) error {
	return update(ctx, s.Store, id, func(ctx context.Context) (*domain.Client, error) {
		return s.api.Update(ctx, id, patch)
	})
}

func (s *ClientStore) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.Store, id, s.api.Delete)
}

func (s *ClientStore) ClearSelected() {
	s.apply(Action[*domain.Client]{Op: OpClearSelected, Phase: Fulfilled}, false)
}

// Clear empties the slice and discards requests still in flight.
func (s *ClientStore) Clear() {
	s.apply(Action[*domain.Client]{Op: OpClear, Phase: Fulfilled}, true)
}

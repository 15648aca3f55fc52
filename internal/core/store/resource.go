package store

import (
	"context"
	"errors"
	"slices"
)

var errEmptyResponse = errors.New("empty response from server")

// Entity is anything a resource slice can hold. Implementations are pointer
// types, so an entry the reducer does not touch keeps its identity across
// snapshots.
type Entity interface {
	comparable
	Identity() string
}

// ResourceState is the slice shared by clients, tasks and documents.
type ResourceState[T Entity] struct {
	Items     []T    `json:"items"`
	Selected  T      `json:"selected"`
	IsLoading bool   `json:"isLoading"`
	IsError   bool   `json:"isError"`
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message"`
}

// NewResourceState is the empty slice.
func NewResourceState[T Entity]() ResourceState[T] {
	return ResourceState[T]{Items: []T{}}
}

// Find returns the item with the given identity.
func (s ResourceState[T]) Find(id string) (T, bool) {
	for _, it := range s.Items {
		if it.Identity() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// ReduceResource is the pure reducer of a resource slice.
func ReduceResource[T Entity](s ResourceState[T], a Action[T]) ResourceState[T] {
	var zero T

	switch a.Op {
	case OpReset:
		s.IsLoading, s.IsError, s.IsSuccess, s.Message = false, false, false, ""
		return s
	case OpClearSelected:
		s.Selected = zero
		return s
	case OpClear:
		return NewResourceState[T]()
	}

	switch a.Phase {
	case Pending:
		s.IsLoading, s.IsError, s.IsSuccess, s.Message = true, false, false, ""
		return s
	case Rejected:
		s.IsLoading, s.IsError, s.IsSuccess, s.Message = false, true, false, a.Message
		return s
	}

	s.IsLoading, s.IsError, s.IsSuccess = false, false, true
	switch a.Op {
	case OpFetchAll:
		s.Items = slices.DeleteFunc(slices.Clone(a.Items), func(it T) bool { return it == zero })
		if s.Items == nil {
			s.Items = []T{}
		}
	case OpFetchByID:
		s.Selected = a.Item
	case OpCreate:
		items := make([]T, 0, len(s.Items)+1)
		s.Items = append(append(items, s.Items...), a.Item)
	case OpUpdate:
		id := a.Item.Identity()
		items := make([]T, len(s.Items))
		for i, it := range s.Items {
			if it.Identity() == id {
				it = a.Item
			}
			items[i] = it
		}
		s.Items = items
		if s.Selected != zero && s.Selected.Identity() == id {
			s.Selected = a.Item
		}
	case OpDelete:
		items := make([]T, 0, len(s.Items))
		for _, it := range s.Items {
			if it.Identity() != a.ID {
				items = append(items, it)
			}
		}
		s.Items = items
		if s.Selected != zero && s.Selected.Identity() == a.ID {
			s.Selected = zero
		}
	}
	return s
}

// listChanged reports whether a fulfilled op can alter the item list.
func listChanged(op Op) bool {
	switch op {
	case OpFetchAll, OpCreate, OpUpdate, OpDelete, OpClear:
		return true
	}
	return false
}

func fetchAll[S any, T Entity](ctx context.Context, s *Store[S, T], list func(context.Context) ([]T, error)) error {
	return s.run(ctx, OpFetchAll, func(ctx context.Context) (Action[T], error) {
		items, err := list(ctx)
		return Action[T]{Items: items}, err
	})
}

func fetchByID[S any, T Entity](ctx context.Context, s *Store[S, T], id string, get func(context.Context, string) (T, error)) error {
	return s.run(ctx, OpFetchByID, func(ctx context.Context) (Action[T], error) {
		item, err := get(ctx, id)
		return Action[T]{Item: item, ID: id}, err
	})
}

func create[S any, T Entity](ctx context.Context, s *Store[S, T], call func(context.Context) (T, error)) error {
	return s.run(ctx, OpCreate, func(ctx context.Context) (Action[T], error) {
		item, err := required(call(ctx))
		return Action[T]{Item: item}, err
	})
}

func update[S any, T Entity](ctx context.Context, s *Store[S, T], id string, call func(context.Context) (T, error)) error {
	return s.run(ctx, OpUpdate, func(ctx context.Context) (Action[T], error) {
		item, err := required(call(ctx))
		return Action[T]{Item: item, ID: id}, err
	})
}

// required rejects a successful answer that carried no entity, which the
// create and update reducers could not place.
func required[T Entity](item T, err error) (T, error) {
	var zero T
	if err == nil && item == zero {
		return zero, errEmptyResponse
	}
	return item, err
}

func remove[S any, T Entity](ctx context.Context, s *Store[S, T], id string, del func(context.Context, string) error) error {
	return s.run(ctx, OpDelete, func(ctx context.Context) (Action[T], error) {
		return Action[T]{ID: id}, del(ctx, id)
	})
}

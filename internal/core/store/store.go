// Package store holds the per-resource state containers of the portal.
//
// Every store is a generic engine around a pure reducer. An operation goes
// through three phases: pending is reduced when it is issued, then exactly one
// of fulfilled or rejected when the backend answers. Each store stamps the
// reads that replace state (the item list, the selected item, the session) with
// an increasing generation per target and only applies the answer of the
// latest one, so a slow response can never overwrite a newer one. Mutations
// the backend has committed are always applied; they only invalidate reads
// of the targets they change.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/caportal/portal/internal/core/domain"
)

// ErrSuperseded is returned when an operation's answer arrived after a newer
// read of the same target, or after the slice was cleared, and was therefore
// discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// Op names an operation on a slice.
type Op string

const (
	OpFetchAll       Op = "fetch_all"
	OpFetchByID      Op = "fetch_by_id"
	OpCreate         Op = "create"
	OpUpdate         Op = "update"
	OpDelete         Op = "delete"
	OpDownload       Op = "download"
	OpLogin          Op = "login"
	OpRegister       Op = "register"
	OpForgotPassword Op = "forgot_password"
	OpRestore        Op = "restore"
	OpLogout         Op = "logout"
	OpExpire         Op = "expire"
	OpReset          Op = "reset"
	OpClearSelected  Op = "clear_selected"
	OpClear          Op = "clear"
)

// Phase is the lifecycle step an action reports.
type Phase uint8

const (
	Pending Phase = iota
	Fulfilled
	Rejected
)

// Action is the input of a reducer.
type Action[T any] struct {
	Op      Op
	Phase   Phase
	Items   []T
	Item    T
	ID      string
	Message string
}

// Reducer folds one action into a slice state. Reducers must not mutate the
// state they receive in place: snapshots handed out earlier stay valid.
type Reducer[S, T any] func(S, Action[T]) S

// Recorder receives one observation per settled operation.
type Recorder interface {
	ObserveOperation(resource, op, outcome string, elapsed time.Duration)
}

const (
	outcomeSuccess    = "success"
	outcomeError      = "error"
	outcomeSuperseded = "superseded"
)

// lane is the part of a slice a replacing read owns.
type lane uint8

const (
	laneNone lane = iota
	laneItems
	laneSelected
	laneSession
	laneCount
)

// laneOf is the target an op replaces wholesale; laneNone ops patch state and
// are never fenced.
func laneOf(op Op) lane {
	switch op {
	case OpFetchAll:
		return laneItems
	case OpFetchByID:
		return laneSelected
	case OpLogin, OpRegister, OpRestore:
		return laneSession
	}
	return laneNone
}

// invalidates lists the reads a mutation makes stale.
func invalidates(op Op) []lane {
	switch op {
	case OpCreate:
		return []lane{laneItems}
	case OpUpdate, OpDelete:
		return []lane{laneItems, laneSelected}
	}
	return nil
}

// ticket identifies one issued operation for its settle.
type ticket struct {
	epoch uint64
	lane  lane
	gen   uint64
}

// Store is the engine shared by all slices: it owns the state, serialises
// writes through the reducer, fences stale answers and notifies subscribers.
type Store[S, T any] struct {
	resource string
	reduce   Reducer[S, T]
	log      zerolog.Logger
	rec      Recorder

	mu    sync.RWMutex
	state S
	// epoch changes when the slice is cleared; nothing issued before settles.
	epoch  uint64
	issued [laneCount]uint64

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New builds a store for resource starting at initial.
func New[S, T any](resource string, initial S, reduce Reducer[S, T], log zerolog.Logger, rec Recorder) *Store[S, T] {
	return &Store[S, T]{
		resource: resource,
		reduce:   reduce,
		log:      log.With().Str("resource", resource).Logger(),
		rec:      rec,
		state:    initial,
		subs:     make(map[int]func()),
	}
}

// Resource is the slice name.
func (s *Store[S, T]) Resource() string { return s.resource }

// State returns the current snapshot of the slice.
func (s *Store[S, T]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to be called after every transition. The returned
// func removes the subscription.
func (s *Store[S, T]) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Reset clears the request lifecycle flags.
func (s *Store[S, T]) Reset() {
	s.apply(Action[T]{Op: OpReset, Phase: Fulfilled}, false)
}

func (s *Store[S, T]) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// apply reduces a synchronous action. When supersede is set the action also
// invalidates every operation still in flight, mutations included.
func (s *Store[S, T]) apply(a Action[T], supersede bool) {
	s.mu.Lock()
	if supersede {
		s.epoch++
	}
	s.state = s.reduce(s.state, a)
	s.mu.Unlock()
	s.notify()
}

func (s *Store[S, T]) begin(op Op) ticket {
	s.mu.Lock()
	t := ticket{epoch: s.epoch, lane: laneOf(op)}
	if t.lane != laneNone {
		s.issued[t.lane]++
		t.gen = s.issued[t.lane]
	}
	s.state = s.reduce(s.state, Action[T]{Op: op, Phase: Pending})
	s.mu.Unlock()
	s.notify()
	return t
}

func (s *Store[S, T]) current(t ticket) bool {
	if t.epoch != s.epoch {
		return false
	}
	return t.lane == laneNone || t.gen == s.issued[t.lane]
}

func (s *Store[S, T]) settle(t ticket, a Action[T]) bool {
	s.mu.Lock()
	if !s.current(t) {
		s.mu.Unlock()
		return false
	}
	if a.Phase == Fulfilled {
		for _, l := range invalidates(a.Op) {
			s.issued[l]++
		}
	}
	s.state = s.reduce(s.state, a)
	s.mu.Unlock()
	s.notify()
	return true
}

// run drives one asynchronous operation through its phases. call performs the
// remote work and returns the payload of the fulfilled action.
func (s *Store[S, T]) run(ctx context.Context, op Op, call func(context.Context) (Action[T], error)) error {
	t := s.begin(op)
	start := time.Now()

	a, err := call(ctx)
	if err != nil {
		a = Action[T]{Message: domain.MessageOf(err)}
		a.Phase = Rejected
	} else {
		a.Phase = Fulfilled
	}
	a.Op = op

	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
	}
	applied := s.settle(t, a)
	if !applied {
		outcome = outcomeSuperseded
	}
	elapsed := time.Since(start)
	if s.rec != nil {
		s.rec.ObserveOperation(s.resource, string(op), outcome, elapsed)
	}

	ev := s.log.Debug()
	if err != nil && applied {
		ev = s.log.Warn().Err(err)
	}
	ev.Str("op", string(op)).
		Uint64("generation", t.gen).
		Str("outcome", outcome).
		Dur("elapsed", elapsed).
		Msg("store operation settled")

	if !applied {
		return ErrSuperseded
	}
	return err
}

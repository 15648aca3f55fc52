package store

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/caportal/portal/internal/core/domain"
	"github.com/caportal/portal/internal/core/ports"
)

// AuthState is the auth slice. Session is nil when nobody is signed in.
type AuthState struct {
	Session   *domain.Session `json:"user"`
	IsLoading bool            `json:"isLoading"`
	IsError   bool            `json:"isError"`
	IsSuccess bool            `json:"isSuccess"`
	Message   string          `json:"message"`
}

// ReduceAuth is the pure reducer of the auth slice.
func ReduceAuth(s AuthState, a Action[*domain.Session]) AuthState {
	switch a.Op {
	case OpReset:
		s.IsLoading, s.IsError, s.IsSuccess, s.Message = false, false, false, ""
		return s
	case OpLogout, OpExpire:
		return AuthState{Message: a.Message}
	}

	switch a.Phase {
	case Pending:
		s.IsLoading, s.IsError, s.IsSuccess, s.Message = true, false, false, ""
		return s
	case Rejected:
		s.IsLoading, s.IsError, s.IsSuccess, s.Message = false, true, false, a.Message
		if a.Op == OpLogin || a.Op == OpRegister {
			s.Session = nil
		}
		return s
	}

	s.IsLoading, s.IsError, s.IsSuccess = false, false, true
	switch a.Op {
	case OpLogin, OpRegister, OpRestore:
		s.Session = a.Item
	case OpForgotPassword:
		s.Message = a.Message
	}
	return s
}

// AuthStore owns the single live session of a container and keeps it in step
// with durable storage.
type AuthStore struct {
	*Store[AuthState, *domain.Session]
	api       ports.AuthAPI
	storage   ports.SessionStorage
	namespace string
	log       zerolog.Logger
}

func NewAuthStore(api ports.AuthAPI, storage ports.SessionStorage, namespace string, log zerolog.Logger, rec Recorder) *AuthStore {
	return &AuthStore{
		Store:     New[AuthState, *domain.Session]("auth", AuthState{}, ReduceAuth, log, rec),
		api:       api,
		storage:   storage,
		namespace: namespace,
		log:       log.With().Str("resource", "auth").Logger(),
	}
}

// Session is the current session, nil when signed out.
func (s *AuthStore) Session() *domain.Session {
	return s.State().Session
}

// Token is the current bearer credential, empty when signed out.
func (s *AuthStore) Token() string {
	if sess := s.Session(); sess != nil {
		return sess.Token
	}
	return ""
}

func (s *AuthStore) Login(ctx context.Context, email, password string) error {
	return s.signIn(ctx, OpLogin, func(ctx context.Context) (*domain.Session, error) {
		return s.api.Login(ctx, email, password)
	})
}

func (s *AuthStore) Register(ctx context.Context, draft domain.RegisterDraft) error {
	return s.signIn(ctx, OpRegister, func(ctx context.Context) (*domain.Session, error) {
		return s.api.Register(ctx, draft)
	})
}

func (s *AuthStore) signIn(ctx context.Context, op Op, call func(context.Context) (*domain.Session, error)) error {
	var sess *domain.Session
	err := s.run(ctx, op, func(ctx context.Context) (Action[*domain.Session], error) {
		got, err := required(call(ctx))
		if err != nil {
			return Action[*domain.Session]{}, err
		}
		sess = domain.NewSession(*got)
		return Action[*domain.Session]{Item: sess}, nil
	})
	if err != nil {
		return err
	}
	s.persist(ctx, sess)
	return nil
}

// ForgotPassword asks the backend to send a reset link. Its confirmation ends
// up in the slice message.
func (s *AuthStore) ForgotPassword(ctx context.Context, email string) error {
	return s.run(ctx, OpForgotPassword, func(ctx context.Context) (Action[*domain.Session], error) {
		msg, err := s.api.ForgotPassword(ctx, email)
		return Action[*domain.Session]{Message: msg}, err
	})
}

// Restore loads the persisted session, if any, into the slice. An expired one
// is discarded.
func (s *AuthStore) Restore(ctx context.Context) error {
	return s.run(ctx, OpRestore, func(ctx context.Context) (Action[*domain.Session], error) {
		sess, err := s.storage.Load(ctx, s.namespace)
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			return Action[*domain.Session]{}, nil
		case err != nil:
			return Action[*domain.Session]{}, err
		}
		if sess.Expired(time.Now()) {
			s.clear(ctx)
			return Action[*domain.Session]{}, nil
		}
		return Action[*domain.Session]{Item: sess}, nil
	})
}

// Logout destroys the session. Requests still in flight on this slice will
// not be applied.
func (s *AuthStore) Logout(ctx context.Context) error {
	s.apply(Action[*domain.Session]{Op: OpLogout, Phase: Fulfilled}, true)
	return s.clear(ctx)
}

// ExpireIfStale destroys the session when its credential is past expiry at
// now and reports whether it did.
func (s *AuthStore) ExpireIfStale(ctx context.Context, now time.Time) bool {
	if !s.Session().Expired(now) {
		return false
	}
	s.apply(Action[*domain.Session]{Op: OpExpire, Phase: Fulfilled, Message: "Session expired, please sign in again"}, true)
	s.clear(ctx)
	return true
}

func (s *AuthStore) persist(ctx context.Context, sess *domain.Session) {
	if err := s.storage.Save(ctx, s.namespace, sess); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session")
	}
}

func (s *AuthStore) clear(ctx context.Context) error {
	if err := s.storage.Clear(ctx, s.namespace); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted session")
		return err
	}
	return nil
}

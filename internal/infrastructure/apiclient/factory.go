package apiclient

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/caportal/portal/internal/core/ports"
	"github.com/caportal/portal/internal/core/state"
	"github.com/caportal/portal/internal/core/store"
)

// Containers returns a state.Factory whose containers each talk to the backend
// with their own session's credential. base is shared by every container.
func Containers(cfg Config, base http.RoundTripper, sessions ports.SessionStorage, log zerolog.Logger, rec store.Recorder) state.Factory {
	return func(namespace string) *state.Container {
		var c *state.Container
		api := New(cfg, base, TokenFunc(func() string { return c.Auth.Token() }))
		c = state.New(api.Backend(), sessions, namespace, log.With().Str("session_id", namespace).Logger(), rec)
		return c
	}
}

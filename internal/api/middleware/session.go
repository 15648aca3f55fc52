package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caportal/portal/internal/core/domain"
	"github.com/caportal/portal/internal/core/state"
)

const (
	sessionIDKey = "session_id"
	containerKey = "state"
)

// CookieConfig names the cookie carrying the portal session id.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// Session binds every request to the state container of its browser. A
// missing or malformed cookie starts a new session. An expired credential is
// destroyed before the handler runs, so guards see it as signed out.
func Session(reg *state.Registry, cfg CookieConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(cfg.Name); err == nil {
				if id, err := uuid.Parse(ck.Value); err == nil {
					sid = id.String()
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cfg.Name,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(cfg.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := c.Request().Context()
			st := reg.Get(ctx, sid)
			st.Auth.ExpireIfStale(ctx, time.Now())

			SetContainer(c, sid, st)
			return next(c)
		}
	}
}

// SetContainer attaches a container to the request. Tests use it directly.
func SetContainer(c echo.Context, sid string, st *state.Container) {
	c.Set(sessionIDKey, sid)
	c.Set(containerKey, st)
}

// Container returns the state container bound by Session, or nil.
func Container(c echo.Context) *state.Container {
	st, _ := c.Get(containerKey).(*state.Container)
	return st
}

// SessionID returns the portal session id bound by Session.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(sessionIDKey).(string)
	return sid
}

// CurrentUser is the signed-in user of the request, or nil.
func CurrentUser(c echo.Context) *domain.Session {
	if st := Container(c); st != nil {
		return st.Auth.Session()
	}
	return nil
}

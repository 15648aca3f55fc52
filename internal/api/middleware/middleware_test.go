package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/caportal/portal/internal/core/access"
	"github.com/caportal/portal/internal/core/domain"
	"github.com/caportal/portal/internal/core/state"
	"github.com/caportal/portal/internal/infrastructure/sessionstore"
)

const cookieName = "portal_sid"

func newRegistry(storage *sessionstore.Memory) *state.Registry {
	return state.NewRegistry(func(sid string) *state.Container {
		return state.New(state.Backend{}, storage, sid, zerolog.Nop(), nil)
	}, time.Hour, nil, zerolog.Nop())
}

func ok(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestSession_IssuesCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Session(newRegistry(sessionstore.NewMemory()), CookieConfig{Name: cookieName})(func(c echo.Context) error {
		if Container(c) == nil {
			t.Fatal("container not bound")
		}
		if SessionID(c) == "" {
			t.Fatal("session id not bound")
		}
		return ok(c)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != cookieName || !cookies[0].HttpOnly {
		t.Fatalf("expected an http-only session cookie, got %+v", cookies)
	}
}

func TestSession_ReusesValidCookie(t *testing.T) {
	storage := sessionstore.NewMemory()
	sid := "6f1d5b0e-7a53-4d8e-9a2e-0b4c5d6e7f80"
	_ = storage.Save(context.Background(), sid, &domain.Session{ID: "u1", Role: domain.RoleAdmin, Token: "t"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: sid})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Session(newRegistry(storage), CookieConfig{Name: cookieName})(func(c echo.Context) error {
		if SessionID(c) != sid {
			t.Fatalf("expected session %q, got %q", sid, SessionID(c))
		}
		if !CurrentUser(c).IsAdmin() {
			t.Fatal("persisted admin session not restored")
		}
		return ok(c)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("a valid cookie must not be reissued")
	}
}

func TestSession_ExpiresStaleCredential(t *testing.T) {
	storage := sessionstore.NewMemory()
	reg := newRegistry(storage)
	sid := "6f1d5b0e-7a53-4d8e-9a2e-0b4c5d6e7f81"

	_ = storage.Save(context.Background(), sid, &domain.Session{ID: "u1", Token: "t", ExpiresAt: time.Now().Add(20 * time.Millisecond)})
	if reg.Get(context.Background(), sid).Auth.Session() == nil {
		t.Fatal("session should be restored while still valid")
	}
	time.Sleep(40 * time.Millisecond)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: sid})
	c := e.NewContext(req, httptest.NewRecorder())

	h := Session(reg, CookieConfig{Name: cookieName})(func(c echo.Context) error {
		if CurrentUser(c) != nil {
			t.Fatal("expired session must not reach the handler")
		}
		return ok(c)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if _, err := storage.Load(context.Background(), sid); err == nil {
		t.Error("expired session should be cleared from storage")
	}
}

func guardedRequest(t *testing.T, g access.Guard, user *domain.Session) *httptest.ResponseRecorder {
	t.Helper()
	storage := sessionstore.NewMemory()
	st := state.New(state.Backend{}, storage, "sid", zerolog.Nop(), nil)
	if user != nil {
		_ = storage.Save(context.Background(), "sid", user)
		_ = st.Start(context.Background())
	}

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/admin", nil), rec)
	SetContainer(c, "sid", st)

	if err := Guard("test", g)(ok)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestGuard_AdminOnly(t *testing.T) {
	cases := []struct {
		name     string
		user     *domain.Session
		code     int
		location string
	}{
		{"signed out", nil, http.StatusFound, "/login"},
		{"client", &domain.Session{ID: "c1", Role: domain.RoleClient, Token: "t"}, http.StatusFound, "/client"},
		{"admin", &domain.Session{ID: "a1", Role: domain.RoleAdmin, Token: "t"}, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := guardedRequest(t, access.AdminOnly, tc.user)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			if got := rec.Header().Get(echo.HeaderLocation); got != tc.location {
				t.Errorf("expected location %q, got %q", tc.location, got)
			}
		})
	}
}

func TestGuard_Authenticated(t *testing.T) {
	if rec := guardedRequest(t, access.Authenticated, nil); rec.Code != http.StatusFound {
		t.Errorf("expected redirect for signed out user, got %d", rec.Code)
	}
	client := &domain.Session{ID: "c1", Role: domain.RoleClient, Token: "t"}
	if rec := guardedRequest(t, access.Authenticated, client); rec.Code != http.StatusOK {
		t.Errorf("expected 200 for client, got %d", rec.Code)
	}
}

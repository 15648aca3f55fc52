package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caportal/portal/internal/api/middleware"
	"github.com/caportal/portal/internal/core/domain"
	"github.com/caportal/portal/internal/core/state"
	"github.com/caportal/portal/internal/core/store"
)

// Page is the envelope of every rendered screen. Public screens have no
// layout.
type Page struct {
	Layout *Layout `json:"layout,omitempty"`
	Data   any     `json:"data"`
}

// stateOf returns the container the session middleware bound to the request.
func stateOf(c echo.Context) (*state.Container, context.Context, error) {
	st := middleware.Container(c)
	if st == nil {
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "no session bound to request")
	}
	return st, c.Request().Context(), nil
}

func render(c echo.Context, code int, l *Layout, data any) error {
	return c.JSON(code, Page{Layout: l, Data: data})
}

// settled treats an answer that lost to a newer request as done: the newer
// request owns the slice now.
func settled(err error) error {
	if errors.Is(err, store.ErrSuperseded) {
		return nil
	}
	return err
}

// failureStatus is the status a page is rendered with when one of its
// fetches failed. Client errors of the backend pass through, anything else
// is a bad gateway.
func failureStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var re *domain.RemoteError
	if errors.As(err, &re) && re.StatusCode >= 400 && re.StatusCode < 500 {
		return re.StatusCode
	}
	return http.StatusBadGateway
}

// bindForm binds and validates a form.
func bindForm(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// confirmed reports whether a destructive request carries confirm=true.
func confirmed(c echo.Context) error {
	if c.QueryParam("confirm") == "true" || c.FormValue("confirm") == "true" {
		return nil
	}
	return domain.ErrConfirmationRequired
}

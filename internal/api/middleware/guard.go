package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caportal/portal/internal/api/metrics"
	"github.com/caportal/portal/internal/core/access"
)

// Guard gates a route group with an access guard. Requests the guard turns
// away are redirected with 302 Found.
func Guard(name string, g access.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := g(CurrentUser(c))
			if !d.Allowed {
				metrics.GuardRedirectsTotal.WithLabelValues(name, d.Redirect).Inc()
				return c.Redirect(http.StatusFound, d.Redirect)
			}
			return next(c)
		}
	}
}

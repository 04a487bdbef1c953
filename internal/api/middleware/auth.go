package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskbox/todo-api/internal/core/ports"
)

// HeaderAuth is the custom header carrying the opaque bearer token, on both
// the request (presentation) and the login response (issuance).
const HeaderAuth = "Auth"

// Context keys populated by Auth for downstream handlers.
const (
	UserContextKey  = "auth.user"
	TokenContextKey = "auth.token"
)

// Auth gates a route on a resolvable token. The decision is made fresh on
// every request: absent header, unresolvable token, or a subject that no
// longer exists all reject with an empty 401, and the handler never runs.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok := c.Request().Header.Get(HeaderAuth)
			if tok == "" {
				return c.NoContent(http.StatusUnauthorized)
			}

			user, err := auth.Authenticate(c.Request().Context(), tok)
			if err != nil {
				return c.NoContent(http.StatusUnauthorized)
			}

			c.Set(UserContextKey, user)
			c.Set(TokenContextKey, tok)
			return next(c)
		}
	}
}

package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/taskbox/todo-api/internal/api/middleware"
	"github.com/taskbox/todo-api/internal/core/domain"
)

// ctxUser extracts the user attached by the Auth middleware. Its presence
// proves the middleware ran and resolved a live record for this request.
func ctxUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(middleware.UserContextKey).(*domain.User)
	return user, ok && user != nil
}

// ctxToken extracts the raw token the Auth middleware accepted.
func ctxToken(c echo.Context) (string, bool) {
	tok, ok := c.Get(middleware.TokenContextKey).(string)
	return tok, ok && tok != ""
}

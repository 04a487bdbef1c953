package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskbox/todo-api/internal/core/domain"
	"github.com/taskbox/todo-api/internal/core/ports"
)

// TodoHandler handles the per-user CRUD routes. Ownership is never checked
// here: the service scopes every operation to the caller's id, so a foreign
// todo simply does not exist from this handler's point of view.
type TodoHandler struct {
	todos ports.TodoService
}

func NewTodoHandler(todos ports.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// List returns the caller's todos, optionally filtered.
//
// @Summary      List todos
// @Tags         todos
// @Produce      json
// @Security     AuthToken
// @Param        completed  query     string  false  "Filter by completion"  Enums(true, false)
// @Param        q          query     string  false  "Substring match on description"
// @Success      200        {array}   domain.Todo
// @Failure      401        "unauthorized"
// @Failure      500        {object}  errorResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	user, ok := ctxUser(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}

	filter := ports.TodoFilter{Search: c.QueryParam("q")}
	switch c.QueryParam("completed") {
	case "true":
		done := true
		filter.Completed = &done
	case "false":
		pending := false
		filter.Completed = &pending
	}

	todos, err := h.todos.List(c.Request().Context(), user.ID, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, todos)
}

// Get returns a single todo by id.
//
// @Summary      Get a todo
// @Tags         todos
// @Produce      json
// @Security     AuthToken
// @Param        id   path      int  true  "Todo id"
// @Success      200  {object}  domain.Todo
// @Failure      401  "unauthorized"
// @Failure      404  "not found"
// @Router       /todos/{id} [get]
func (h *TodoHandler) Get(c echo.Context) error {
	user, ok := ctxUser(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}

	todo, err := h.todos.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return c.JSON(http.StatusOK, todo)
}

// Create adds a todo owned by the caller.
//
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     AuthToken
// @Param        body  body      createTodoRequest  true  "Todo details"
// @Success      200   {object}  domain.Todo
// @Failure      400   {object}  errorsResponse
// @Failure      401   "unauthorized"
// @Router       /todos [post]
func (h *TodoHandler) Create(c echo.Context) error {
	user, ok := ctxUser(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}

	var req createTodoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorsResponse{Errors: []string{"invalid payload"}})
	}
	if err := c.Validate(&req); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, errorsResponse{Errors: ve.Fields})
		}
		return c.JSON(http.StatusBadRequest, errorsResponse{Errors: []string{"invalid payload"}})
	}

	todo, err := h.todos.Create(c.Request().Context(), user.ID, req.Description, req.Completed)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.JSON(http.StatusBadRequest, errorsResponse{Errors: []string{err.Error()}})
		}
		return err
	}
	return c.JSON(http.StatusOK, todo)
}

// Update applies a partial patch to a todo.
//
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     AuthToken
// @Param        id    path      int                true  "Todo id"
// @Param        body  body      updateTodoRequest  true  "Fields to change"
// @Success      200   {object}  domain.Todo
// @Failure      400   {object}  errorsResponse
// @Failure      401   "unauthorized"
// @Failure      404   "not found"
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c echo.Context) error {
	user, ok := ctxUser(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}

	var req updateTodoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorsResponse{Errors: []string{"invalid payload"}})
	}
	if err := c.Validate(&req); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, errorsResponse{Errors: ve.Fields})
		}
		return c.JSON(http.StatusBadRequest, errorsResponse{Errors: []string{"invalid payload"}})
	}

	todo, err := h.todos.Update(c.Request().Context(), user.ID, id, ports.TodoPatch{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTodoNotFound):
			return c.NoContent(http.StatusNotFound)
		case errors.Is(err, domain.ErrValidation):
			return c.JSON(http.StatusBadRequest, errorsResponse{Errors: []string{err.Error()}})
		}
		return err
	}
	return c.JSON(http.StatusOK, todo)
}

// Delete removes a todo.
//
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Security     AuthToken
// @Param        id   path  int  true  "Todo id"
// @Success      204  "deleted"
// @Failure      401  "unauthorized"
// @Failure      404  {object}  errorResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	user, ok := ctxUser(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "no todo with id: " + c.Param("id")})
	}

	if err := h.todos.Delete(c.Request().Context(), user.ID, id); err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: fmt.Sprintf("no todo with id: %d", id)})
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

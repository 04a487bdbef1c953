package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taskbox/todo-api/internal/api/metrics"
	"github.com/taskbox/todo-api/internal/core/domain"
	"github.com/taskbox/todo-api/internal/core/ports"
)

const maxDescriptionLen = 255

// TodoService implements per-user CRUD on todos. Every operation is scoped
// to the calling user's id, so a todo owned by someone else is
// indistinguishable from one that does not exist.
type TodoService struct {
	todos ports.TodoRepository
}

func NewTodoService(todos ports.TodoRepository) *TodoService {
	return &TodoService{todos: todos}
}

func (s *TodoService) List(ctx context.Context, userID int64, filter ports.TodoFilter) ([]*domain.Todo, error) {
	return s.todos.List(ctx, userID, filter)
}

func (s *TodoService) Get(ctx context.Context, userID, id int64) (*domain.Todo, error) {
	return s.todos.FindByID(ctx, userID, id)
}

func (s *TodoService) Create(ctx context.Context, userID int64, description string, completed bool) (*domain.Todo, error) {
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.todos.Create(ctx, &domain.Todo{
		UserID:      userID,
		Description: description,
		Completed:   completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	metrics.TodosCreatedTotal.Inc()
	return created, nil
}

// Update applies a partial patch. The description is trimmed before
// validation; absent fields keep their stored values.
func (s *TodoService) Update(ctx context.Context, userID, id int64, patch ports.TodoPatch) (*domain.Todo, error) {
	todo, err := s.todos.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Description != nil {
		trimmed := strings.TrimSpace(*patch.Description)
		if err := validateDescription(trimmed); err != nil {
			return nil, err
		}
		todo.Description = trimmed
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}
	todo.UpdatedAt = time.Now().UTC()

	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	return s.todos.Delete(ctx, userID, id)
}

func validateDescription(description string) error {
	if len(description) == 0 || len(description) > maxDescriptionLen {
		return fmt.Errorf("%w: description must be between 1 and %d characters",
			domain.ErrValidation, maxDescriptionLen)
	}
	return nil
}

package ports

import (
	"context"

	"github.com/taskbox/todo-api/internal/core/domain"
)

// TodoPatch is a partial update; nil fields are left untouched.
type TodoPatch struct {
	Description *string
	Completed   *bool
}

type TodoService interface {
	List(ctx context.Context, userID int64, filter TodoFilter) ([]*domain.Todo, error)
	Get(ctx context.Context, userID, id int64) (*domain.Todo, error)
	Create(ctx context.Context, userID int64, description string, completed bool) (*domain.Todo, error)
	Update(ctx context.Context, userID, id int64, patch TodoPatch) (*domain.Todo, error)
	Delete(ctx context.Context, userID, id int64) error
}

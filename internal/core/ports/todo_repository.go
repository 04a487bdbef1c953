package ports

import (
	"context"

	"github.com/taskbox/todo-api/internal/core/domain"
)

// TodoFilter carries the optional query parameters of a todo listing.
type TodoFilter struct {
	Completed *bool  // nil = both completed and pending
	Search    string // case-insensitive substring match on description
}

// TodoRepository defines persistence operations for todos. Every operation is
// scoped to an owning user; a row belonging to someone else behaves exactly
// like a row that does not exist.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	FindByID(ctx context.Context, userID, id int64) (*domain.Todo, error)
	List(ctx context.Context, userID int64, filter TodoFilter) ([]*domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	// Delete removes the todo and reports domain.ErrTodoNotFound when no
	// row matched.
	Delete(ctx context.Context, userID, id int64) error
}

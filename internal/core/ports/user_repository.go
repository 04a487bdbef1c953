package ports

import (
	"context"

	"github.com/taskbox/todo-api/internal/core/domain"
)

// UserRepository is the minimal persistence surface the auth mechanism needs.
type UserRepository interface {
	// Create persists a new user. Returns domain.ErrEmailTaken when the
	// email collides with an existing record; atomicity of the uniqueness
	// check is delegated to the store's unique index.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

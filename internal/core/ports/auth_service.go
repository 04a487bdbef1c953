package ports

import (
	"context"

	"github.com/taskbox/todo-api/internal/core/domain"
)

type AuthService interface {
	// Register creates an account from an email and a plaintext password.
	// The email is lowercased before any validation or persistence.
	Register(ctx context.Context, email, password string) (*domain.User, error)
	// Login verifies credentials and returns a freshly issued bearer token
	// together with the authenticated user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Authenticate resolves a presented token to a live user record. Any
	// failure, including a subject that no longer exists, yields
	// domain.ErrInvalidToken.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	// Logout revokes the presented token for the remainder of its lifetime.
	Logout(ctx context.Context, token string) error
}

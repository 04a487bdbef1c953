package domain

import "errors"

var (
	// ErrEmailTaken is returned when registration hits the unique email index.
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is the single failure mode for token resolution. Every
	// stage of verification collapses to it so callers learn nothing about
	// which check failed.
	ErrInvalidToken = errors.New("invalid token")

	ErrUserNotFound = errors.New("user not found")
	ErrTodoNotFound = errors.New("todo not found")

	// ErrValidation marks input that fails a domain constraint (password
	// length, description length). Transport maps it to 400.
	ErrValidation = errors.New("validation failed")
)

package handler

import "github.com/taskbox/todo-api/internal/core/domain"

// errorResponse is the single-message error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// errorsResponse is the structured envelope for validation failures.
type errorsResponse struct {
	Errors []string `json:"errors"`
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

// loginRequest intentionally carries no validate tags: every login failure,
// malformed input included, is a bare 401.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

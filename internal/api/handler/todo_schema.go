package handler

type createTodoRequest struct {
	Description string `json:"description" validate:"required,max=255"`
	Completed   bool   `json:"completed"`
}

// updateTodoRequest is a partial patch: nil fields leave the stored value
// untouched.
type updateTodoRequest struct {
	Description *string `json:"description" validate:"omitempty,max=255"`
	Completed   *bool   `json:"completed"`
}

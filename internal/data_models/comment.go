package dto

import (
	"strings"

	model "task-manager.com/task-manager/internal/models"
)

type CommentRequest struct {
	Content string `json:"content" form:"content" validate:"required,min=2"`
}

func (r *CommentRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

type CommentResponse struct {
	Message string         `json:"message"`
	Comment *model.Comment `json:"comment"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request. Errors is only set for
// validation failures.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

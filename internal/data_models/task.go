package dto

import (
	"strings"

	model "task-manager.com/task-manager/internal/models"
)

type CreateTaskRequest struct {
	Title       string  `json:"title" form:"title" validate:"required,max=255"`
	Description *string `json:"description" form:"description"`
	Status      string  `json:"status" form:"status" validate:"required,oneof=pending in_progress completed"`
}

// UpdateTaskRequest holds only the fields present in the request; nil means
// "leave unchanged".
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitnil,filled,max=255"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitnil,filled,oneof=pending in_progress completed"`
}

// Normalize trims surrounding whitespace from the free-text fields.
func (r *CreateTaskRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r *UpdateTaskRequest) Normalize() {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		r.Title = &title
	}
}

type ListTasksQuery struct {
	Status string `query:"status" json:"status" validate:"omitempty,oneof=all pending in_progress completed"`
	Search string `query:"search" json:"search" validate:"max=255"`
}

type TaskResponse struct {
	Message string      `json:"message"`
	Task    *model.Task `json:"task"`
}

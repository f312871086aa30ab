package http

import (
	"github.com/labstack/echo/v4"

	middleware "task-manager.com/task-manager/internal/http/middlewares"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/services"
)

type Handler struct {
	identityService *services.IdentityService
	taskService     *services.TaskService
	commentService  *services.CommentService
}

func NewHandler(
	identityService *services.IdentityService,
	taskService *services.TaskService,
	commentService *services.CommentService,
) *Handler {
	return &Handler{
		identityService: identityService,
		taskService:     taskService,
		commentService:  commentService,
	}
}

func currentUser(c echo.Context) *model.User {
	return middleware.CurrentUser(c)
}

package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/notify"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/validators"
)

type CommentService struct {
	comments *repository.CommentRepository
	tasks    *repository.TaskRepository
	users    *repository.UserRepository
	notifier notify.Notifier
	baseURL  string
	logger   *slog.Logger
}

func NewCommentService(
	comments *repository.CommentRepository,
	tasks *repository.TaskRepository,
	users *repository.UserRepository,
	notifier notify.Notifier,
	baseURL string,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		tasks:    tasks,
		users:    users,
		notifier: notifier,
		baseURL:  baseURL,
		logger:   logger,
	}
}

func (s *CommentService) List(ctx context.Context, taskID string) ([]model.Comment, error) {
	if _, err := s.tasks.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.comments.ListForTask(ctx, taskID)
}

// Create posts a comment by author on a live task and notifies the task
// owner once, also when the owner is the author.
func (s *CommentService) Create(ctx context.Context, taskID string, author *model.User, req dto.CommentRequest) (*model.Comment, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	if err := validators.Struct(req); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:      uuid.NewString(),
		TaskID:  task.ID,
		UserID:  author.ID,
		Content: req.Content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = author

	s.notifyOwner(ctx, task, author, comment)
	return comment, nil
}

func (s *CommentService) notifyOwner(ctx context.Context, task *model.Task, author *model.User, comment *model.Comment) {
	owner := author
	if task.UserID != author.ID {
		var err error
		owner, err = s.users.FindByID(ctx, task.UserID)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to load task owner", "task_id", task.ID, "error", err)
			return
		}
	}

	msg := notify.CommentAdded(owner, task, comment, s.baseURL)
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "failed to notify task owner",
			"task_id", task.ID,
			"comment_id", comment.ID,
			"error", err,
		)
	}
}

func (s *CommentService) Get(ctx context.Context, id string) (*model.Comment, error) {
	return s.comments.FindByID(ctx, id)
}

// Update rewrites the content of a comment written by actor.
func (s *CommentService) Update(ctx context.Context, id string, actor *model.User, req dto.CommentRequest) (*model.Comment, error) {
	comment, err := s.authorOnly(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	if err := validators.Struct(req); err != nil {
		return nil, err
	}

	if err := s.comments.UpdateContent(ctx, comment.ID, req.Content); err != nil {
		return nil, err
	}
	return s.comments.FindByID(ctx, comment.ID)
}

func (s *CommentService) Delete(ctx context.Context, id string, actor *model.User) error {
	comment, err := s.authorOnly(ctx, id, actor)
	if err != nil {
		return err
	}
	return s.comments.Delete(ctx, comment.ID)
}

func (s *CommentService) authorOnly(ctx context.Context, id string, actor *model.User) (*model.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actor.ID {
		return nil, apperrors.ErrForbidden
	}
	return comment, nil
}

package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"task-manager.com/task-manager/internal/cache"
	"task-manager.com/task-manager/internal/constants"
	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/storage"
	"task-manager.com/task-manager/internal/validators"
)

type TaskService struct {
	repo        *repository.TaskRepository
	attachments *storage.Attachments
	cache       *cache.Cache
	cacheTTL    time.Duration
	logger      *slog.Logger
}

func NewTaskService(
	repo *repository.TaskRepository,
	attachments *storage.Attachments,
	listCache *cache.Cache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *TaskService {
	return &TaskService{
		repo:        repo,
		attachments: attachments,
		cache:       listCache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// List returns the user's live tasks, newest first, through the listing cache.
func (s *TaskService) List(ctx context.Context, user *model.User, query dto.ListTasksQuery) ([]model.Task, error) {
	if err := validators.Struct(query); err != nil {
		return nil, err
	}

	status := query.Status
	if status == "" {
		status = constants.StatusAll
	}
	search := strings.TrimSpace(query.Search)

	key := cache.TaskListKey(user.ID, status, search)
	return cache.ReadThrough(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) ([]model.Task, error) {
		filter := repository.TaskFilter{Search: search}
		if status != constants.StatusAll {
			filter.Status = status
		}
		return s.repo.ListForUser(ctx, user.ID, filter)
	})
}

// Create stores a task owned by user, with its attachment when upload is set.
func (s *TaskService) Create(ctx context.Context, user *model.User, req dto.CreateTaskRequest, upload *storage.Upload) (*model.Task, error) {
	req.Normalize()
	if err := mergeValidation(validators.Struct(req), validateUpload(upload)); err != nil {
		return nil, err
	}

	task := &model.Task{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Title:       req.Title,
		Description: nullIfEmpty(req.Description),
		Status:      constants.TaskStatus(req.Status),
	}

	if upload != nil {
		blobPath, err := s.attachments.Store(ctx, task.ID, upload)
		if err != nil {
			return nil, err
		}
		task.Attachment = &blobPath
	}

	if err := s.repo.Create(ctx, task); err != nil {
		if task.HasAttachment() {
			s.removeBlob(ctx, *task.Attachment)
		}
		return nil, err
	}

	s.invalidateListings(ctx, user.ID)
	return task, nil
}

// Get returns the task when user owns it.
func (s *TaskService) Get(ctx context.Context, user *model.User, id string) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != user.ID {
		return nil, apperrors.ErrForbidden
	}
	return task, nil
}

// Update applies the fields present in req. A new upload replaces the current
// attachment, whose blob is removed first.
func (s *TaskService) Update(ctx context.Context, user *model.User, id string, req dto.UpdateTaskRequest, upload *storage.Upload) (*model.Task, error) {
	task, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	if err := mergeValidation(validators.Struct(req), validateUpload(upload)); err != nil {
		return nil, err
	}

	changes := make(map[string]any)
	if req.Title != nil {
		changes["title"] = *req.Title
	}
	if req.Description != nil {
		if description := nullIfEmpty(req.Description); description != nil {
			changes["description"] = *description
		} else {
			changes["description"] = nil
		}
	}
	if req.Status != nil {
		changes["status"] = *req.Status
	}

	if upload != nil {
		if task.HasAttachment() {
			if err := s.attachments.Remove(ctx, *task.Attachment); err != nil {
				return nil, err
			}
		}

		blobPath, err := s.attachments.Store(ctx, task.ID, upload)
		if err != nil {
			return nil, err
		}
		changes["attachment"] = blobPath
	}

	updated, err := s.repo.Update(ctx, task.ID, changes)
	if err != nil {
		return nil, err
	}

	s.invalidateListings(ctx, user.ID)
	return updated, nil
}

// Delete tombstones the task and removes its attachment blob.
func (s *TaskService) Delete(ctx context.Context, user *model.User, id string) error {
	task, err := s.Get(ctx, user, id)
	if err != nil {
		return err
	}

	if task.HasAttachment() {
		if err := s.attachments.Remove(ctx, *task.Attachment); err != nil {
			return err
		}
	}

	if err := s.repo.SoftDelete(ctx, task.ID); err != nil {
		return err
	}

	s.invalidateListings(ctx, user.ID)
	return nil
}

// OpenAttachment streams the attachment of a task owned by user. The caller
// closes the reader.
func (s *TaskService) OpenAttachment(ctx context.Context, user *model.User, id string) (io.ReadCloser, *storage.BlobInfo, error) {
	task, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, nil, err
	}
	if !task.HasAttachment() {
		return nil, nil, apperrors.ErrAttachmentNotFound
	}

	rc, info, err := s.attachments.Open(ctx, *task.Attachment)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, nil, apperrors.ErrAttachmentMissing
		}
		return nil, nil, err
	}
	return rc, info, nil
}

// RemoveAttachment detaches the attachment and keeps the task.
func (s *TaskService) RemoveAttachment(ctx context.Context, user *model.User, id string) (*model.Task, error) {
	task, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !task.HasAttachment() {
		return nil, apperrors.ErrNoAttachment
	}

	if err := s.attachments.Remove(ctx, *task.Attachment); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, task.ID, map[string]any{"attachment": nil})
	if err != nil {
		return nil, err
	}

	s.invalidateListings(ctx, user.ID)
	return updated, nil
}

// invalidateListings drops the fixed per-status listings of userID and every
// search-qualified listing under the same prefix. The write already
// committed, so failures are only logged.
func (s *TaskService) invalidateListings(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, cache.TaskListKeys(userID)...); err != nil {
		s.logger.ErrorContext(ctx, "failed to invalidate task listings", "user_id", userID, "error", err)
	}
	if err := s.cache.InvalidatePrefix(ctx, cache.TaskListPrefix(userID)); err != nil {
		s.logger.ErrorContext(ctx, "failed to invalidate searched task listings", "user_id", userID, "error", err)
	}
}

func (s *TaskService) removeBlob(ctx context.Context, blobPath string) {
	if err := s.attachments.Remove(ctx, blobPath); err != nil {
		s.logger.WarnContext(ctx, "failed to remove orphaned attachment", "path", blobPath, "error", err)
	}
}

// nullIfEmpty treats a blank description as no description.
func nullIfEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func validateUpload(upload *storage.Upload) error {
	if upload == nil {
		return nil
	}
	return storage.ValidateUpload(upload)
}

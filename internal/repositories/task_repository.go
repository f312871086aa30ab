package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/search"
)

type TaskRepository struct {
	db *gorm.DB
}

// TaskFilter narrows a listing. Empty fields do not filter.
type TaskFilter struct {
	Status string
	Search string
}

// taskMutableColumns is the allow-list of columns Update may write.
var taskMutableColumns = map[string]struct{}{
	"title":       {},
	"description": {},
	"status":      {},
	"attachment":  {},
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// live scopes a query to tasks that are not tombstoned.
func (r *TaskRepository) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Task{}).Where("deleted_at IS NULL")
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if !task.Status.Valid() {
		return fmt.Errorf("create task: unknown status %q", task.Status)
	}

	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = task.CreatedAt

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.live(ctx).Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// ListForUser returns the live tasks of userID, newest first. The search term
// matches title or description as a caseless substring; SQLite's LOWER only
// folds ASCII, so matching happens on the loaded rows.
func (r *TaskRepository) ListForUser(ctx context.Context, userID string, filter TaskFilter) ([]model.Task, error) {
	query := r.live(ctx).Where("user_id = ?", userID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	tasks := make([]model.Task, 0)
	if err := query.Order("created_at desc").Order("id desc").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	if filter.Search == "" {
		return tasks, nil
	}

	term := search.Fold(filter.Search)
	matched := tasks[:0]
	for _, task := range tasks {
		if search.Contains(task.Title, term) || (task.Description != nil && search.Contains(*task.Description, term)) {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

// Update writes changes to a live task and returns its fresh state. Columns
// outside the allow-list are rejected.
func (r *TaskRepository) Update(ctx context.Context, id string, changes map[string]any) (*model.Task, error) {
	updates := make(map[string]any, len(changes)+1)
	for column, value := range changes {
		if _, ok := taskMutableColumns[column]; !ok {
			return nil, fmt.Errorf("task column %q is not mutable", column)
		}
		if column == "status" && !statusValue(value).Valid() {
			return nil, fmt.Errorf("update task: unknown status %v", value)
		}
		updates[column] = value
	}
	updates["updated_at"] = time.Now().UTC()

	res := r.live(ctx).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrTaskNotFound
	}

	return r.FindByID(ctx, id)
}

func statusValue(value any) constants.TaskStatus {
	switch v := value.(type) {
	case constants.TaskStatus:
		return v
	case string:
		return constants.TaskStatus(v)
	default:
		return ""
	}
}

// SoftDelete tombstones a live task; the row is kept.
func (r *TaskRepository) SoftDelete(ctx context.Context, id string) error {
	res := r.live(ctx).Where("id = ?", id).Update("deleted_at", time.Now().UTC())
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewValidationError("email", apperrors.EmailTakenMessage)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findBy(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findBy(ctx, "email = ?", email)
}

func (r *UserRepository) findBy(ctx context.Context, query string, arg any) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

// TaskCounts reports every user with the number of live tasks they own.
func (r *UserRepository) TaskCounts(ctx context.Context) ([]model.UserTaskCount, error) {
	rows := make([]model.UserTaskCount, 0)
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("users.name AS name, users.email AS email, COUNT(tasks.id) AS tasks_count").
		Joins("LEFT JOIN tasks ON tasks.user_id = users.id AND tasks.deleted_at IS NULL").
		Group("users.id, users.name, users.email").
		Order("users.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count tasks per user: %w", err)
	}
	return rows, nil
}

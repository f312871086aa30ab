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

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *model.AccessToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("create access token: %w", err)
	}
	return nil
}

// Find returns the token row, or ErrUnauthenticated when it was revoked or
// never existed.
func (r *TokenRepository) Find(ctx context.Context, id string) (*model.AccessToken, error) {
	var token model.AccessToken
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("find access token: %w", err)
	}
	return &token, nil
}

func (r *TokenRepository) Touch(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&model.AccessToken{}).Where("id = ?", id).Update("last_used_at", at).Error
	if err != nil {
		return fmt.Errorf("touch access token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AccessToken{}).Error; err != nil {
		return fmt.Errorf("delete access token: %w", err)
	}
	return nil
}

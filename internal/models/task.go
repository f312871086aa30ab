package model

import (
	"time"

	"task-manager.com/task-manager/internal/constants"
)

type Task struct {
	ID          string               `gorm:"primaryKey;size:36" json:"id"`
	UserID      string               `gorm:"size:36;not null;index" json:"user_id"`
	Title       string               `gorm:"size:255;not null" json:"title"`
	Description *string              `gorm:"type:text" json:"description"`
	Status      constants.TaskStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Attachment  *string              `gorm:"size:512" json:"attachment"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	// DeletedAt is the soft-delete tombstone. Every read query filters on it.
	DeletedAt *time.Time `gorm:"index" json:"-"`
}

func (t *Task) HasAttachment() bool {
	return t.Attachment != nil && *t.Attachment != ""
}

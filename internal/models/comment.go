package model

import "time"

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"size:36;not null;index" json:"task_id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Author and Task are only populated by explicit repository fetches.
	Author *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Task   *Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}

package model

import "time"

// AccessToken is the revocable server-side record behind a bearer token.
// The token string itself is never stored; it only carries this row's ID.
type AccessToken struct {
	ID         string     `gorm:"primaryKey;size:36"`
	UserID     string     `gorm:"size:36;not null;index"`
	Name       string     `gorm:"size:64;not null"`
	LastUsedAt *time.Time
	ExpiresAt  *time.Time
	CreatedAt  time.Time
}

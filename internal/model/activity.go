package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity represents a task owned by a user.
type Activity struct {
	ID          uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text;not null"`
	DueDate     time.Time      `json:"dueDate" gorm:"not null"`
	Completed   bool           `json:"completed" gorm:"not null;default:false"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:char(36);not null;index"`
	Version     uint           `json:"version" gorm:"not null;default:1"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}

// BeforeCreate sets UUID and the initial version before creating the record.
// Version must be populated here so the in-memory record matches the row the
// column default produces.
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Version == 0 {
		a.Version = 1
	}
	return nil
}

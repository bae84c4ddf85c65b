package models

import (
	"memberd/internal/events"

	"gorm.io/gorm"
)

func (u *User) AfterCreate(tx *gorm.DB) error {
	events.Emit("user.created", u)
	return nil
}

func (e *AuditTrailEntry) BeforeUpdate(tx *gorm.DB) error {
	// Audit entries are append-only
	return gorm.ErrInvalidData
}

func (e *AuditTrailEntry) BeforeDelete(tx *gorm.DB) error {
	return gorm.ErrInvalidData
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	DeletedAt time.Time `gorm:"index;default:NULL" json:"-" validate:"omitempty"`
	IsDeleted bool      `json:"isDeleted" default:"false"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *Base) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

// UserStatus is the lifecycle status of a member account
type UserStatus string

const (
	UserStatusPending   UserStatus = "PENDING"
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusRejected  UserStatus = "REJECTED"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusInactive  UserStatus = "INACTIVE"
)

// IsValidUserStatus checks if a given status is a member of the enumeration
func IsValidUserStatus(status UserStatus) bool {
	switch status {
	case UserStatusPending, UserStatusActive, UserStatusRejected, UserStatusSuspended, UserStatusInactive:
		return true
	default:
		return false
	}
}

// AllUserStatuses lists every valid lifecycle status
func AllUserStatuses() []UserStatus {
	return []UserStatus{
		UserStatusPending,
		UserStatusActive,
		UserStatusRejected,
		UserStatusSuspended,
		UserStatusInactive,
	}
}

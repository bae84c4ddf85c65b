package models

import (
	"time"
)

type User struct {
	Base
	Email           string     `gorm:"uniqueIndex;not null" json:"email"`
	Password        string     `gorm:"not null" json:"-"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Phone           string     `json:"phone"`
	PCNLicense      string     `gorm:"column:pcn_license;uniqueIndex" json:"pcnLicense,omitempty"`
	RoleID          string     `gorm:"type:uuid;not null" json:"roleId"`
	Role            *Role      `json:"role,omitempty"`
	Status          UserStatus `gorm:"not null;default:'PENDING'" json:"status"`
	IsApproved      bool       `gorm:"not null;default:false" json:"isApproved"`
	IsEmailVerified bool       `gorm:"not null;default:false" json:"isEmailVerified"`
	ProfilePicture  string     `json:"profilePicture,omitempty"`
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty"`
}

// FullName joins first and last name for email templates
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type EmailVerification struct {
	Base
	UserID    string    `gorm:"type:uuid;not null" json:"userId"`
	User      *User     `json:"user,omitempty"`
	Token     string    `gorm:"not null;uniqueIndex" json:"-"`
	Used      bool      `gorm:"default:false" json:"used"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type PasswordReset struct {
	Base
	User      *User     `json:"user,omitempty"`
	UserID    string    `gorm:"type:uuid;not null" json:"userId"`
	Code      string    `gorm:"not null" json:"code"`
	Used      bool      `gorm:"default:false" json:"used"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AuthTransaction struct {
	Base
	UserID    string    `gorm:"type:uuid;not null" json:"userId"`
	User      *User     `json:"user,omitempty"`
	Token     string    `gorm:"not null" json:"token"`
	Refresh   string    `gorm:"not null" json:"refresh"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	ExpiresAt time.Time `json:"expiresAt"`
}

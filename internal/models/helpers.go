package models

import (
	"gorm.io/gorm"
)

// GetUserByEmail retrieves a non-deleted user by email
func GetUserByEmail(db *gorm.DB, email string) (*User, error) {
	user := &User{}
	if err := db.Where("email = ? AND is_deleted = false", email).First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetRoleByName retrieves a role with its permission set preloaded
func GetRoleByName(db *gorm.DB, name string) (*Role, error) {
	role := &Role{}
	if err := db.Preload("Permissions").Where("name = ? AND is_deleted = false", name).First(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}

// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	// RoleUser is a regular member who can post items and file claims.
	RoleUser Role = "USER"
	// RoleModerator can moderate items and non-admin users.
	RoleModerator Role = "MODERATOR"
	// RoleAdmin has every moderation capability, including role assignment.
	RoleAdmin Role = "ADMIN"
)

// ParseRole converts user input into a Role, rejecting unknown values.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", NewCodedValidationError(CodeInvalidRole, "role must be one of USER, MODERATOR, ADMIN")
	}
	return role, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role carries moderation privileges.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleModerator
}

// User represents an account in the lost & found service.
type User struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Username            string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email               string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	Role                Role       `gorm:"type:varchar(16);not null;default:'USER';index" json:"role"`
	IsActive            bool       `gorm:"not null;default:true" json:"is_active"`
	LockedUntil         *time.Time `json:"locked_until,omitempty"`
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"failed_login_attempts"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// IsLocked reports whether the account is temporarily locked at the given time.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

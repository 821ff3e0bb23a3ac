package models

import (
	"strings"
	"time"
)

// Role identifies the API surface and profile variant a user is bound to.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

// Roles lists every supported role.
var Roles = []Role{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

// ParseRole normalises a raw role string. The boolean is false for unknown roles.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	return role, role.Valid()
}

// Valid reports whether the role is one of the supported roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleParent:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// User is the credential record every profile hangs off.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:16;index;not null" json:"role"`
	Phone        string    `gorm:"size:32" json:"phone"`
	Address      string    `gorm:"size:512" json:"address"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package dto

import (
	"time"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// ClassAssignment is a (class, section) pair in a teacher registration.
type ClassAssignment struct {
	ClassName string `json:"className" validate:"required_without=Class,max=32"`
	Class     string `json:"class" validate:"omitempty,max=32"`
	Section   string `json:"section" validate:"required,max=16"`
}

// Name returns the class name, accepting either spelling from clients.
func (c ClassAssignment) Name() string {
	if c.ClassName != "" {
		return c.ClassName
	}
	return c.Class
}

// RegisterRequest is the payload of POST /auth/register. Role-specific fields are only
// read for the matching role.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin teacher student parent"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Address  string `json:"address" validate:"omitempty,max=512"`

	Class       string   `json:"class" validate:"omitempty,max=32"`
	Section     string   `json:"section" validate:"omitempty,max=16"`
	RollNumber  string   `json:"rollNumber" validate:"omitempty,max=32"`
	DateOfBirth string   `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	ParentID    *uint    `json:"parentId" validate:"omitempty,gt=0"`
	Subjects    []string `json:"subjects" validate:"omitempty,max=32,dive,max=128"`

	Qualification string            `json:"qualification" validate:"omitempty,max=255"`
	Experience    *int              `json:"experience" validate:"omitempty,gte=0,lte=80"`
	Salary        *float64          `json:"salary" validate:"omitempty,gte=0"`
	Classes       []ClassAssignment `json:"classes" validate:"omitempty,max=64,dive"`

	Occupation       string `json:"occupation" validate:"omitempty,max=255"`
	EmergencyContact string `json:"emergencyContact" validate:"omitempty,max=64"`
	Relationship     string `json:"relationship" validate:"omitempty,oneof=father mother guardian"`
	Children         []uint `json:"children" validate:"omitempty,max=32,dive,gt=0"`

	Designation string `json:"designation" validate:"omitempty,max=128"`
}

// LoginRequest is the payload of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public projection of a credential record.
type UserResponse struct {
	ID        uint        `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// NewUserResponse converts a user model into its public projection.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Phone:     user.Phone,
		Address:   user.Address,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// UserSummary carries the linked user fields joined into profile listings.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func newUserSummary(user models.User) UserSummary {
	return UserSummary{ID: user.ID, Name: user.Name, Email: user.Email, Phone: user.Phone}
}

// NameOnlySummary keeps only the identifier and name of a linked user.
func NameOnlySummary(user models.User) UserSummary {
	return UserSummary{ID: user.ID, Name: user.Name}
}

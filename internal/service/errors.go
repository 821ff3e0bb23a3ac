package service

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateEmail indicates an account already uses the email.
	ErrDuplicateEmail = errors.New("user already exists with this email")
	// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive indicates valid credentials for a deactivated account.
	ErrAccountInactive = errors.New("account deactivated")
	// ErrClassAlreadyAssigned indicates the teacher already runs the class and section.
	ErrClassAlreadyAssigned = errors.New("class already assigned to teacher")
	// ErrNotFound is the root of every missing-record error.
	ErrNotFound = errors.New("not found")

	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrStudentNotFound = fmt.Errorf("student profile %w", ErrNotFound)
	ErrTeacherNotFound = fmt.Errorf("teacher profile %w", ErrNotFound)
	ErrParentNotFound  = fmt.Errorf("parent profile %w", ErrNotFound)
)

// ValidationError reports input that passed struct validation but is still unusable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

package services

import (
	"errors"
	"fmt"

	"github.com/campus-scrud/enrollment-service/internal/repositories"
)

// Sentinel errors mapped to HTTP status codes by the handlers.
var (
	ErrValidationFailed  = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("resource not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrInvalidGrade      = errors.New("grade out of range")
	ErrNotEnrolled       = errors.New("student not enrolled in course")
	ErrAlreadyEnrolled   = errors.New("student already enrolled in course")
)

// NewValidationError wraps ErrValidationFailed with field detail
func NewValidationError(detail string) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, detail)
}

// NewPermissionError wraps ErrForbidden with the denied action for logging
func NewPermissionError(userID, resourceID int, resource, action, reason string) error {
	return fmt.Errorf("%w: user %d cannot %s %s %d: %s", ErrForbidden, userID, action, resource, resourceID, reason)
}

// NewNotFoundError wraps ErrNotFound naming the missing resource
func NewNotFoundError(resource string, id int) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, resource, id)
}

// translateRepoError maps repository lookup failures onto service sentinels
func translateRepoError(err error, resource string, id int) error {
	if repositories.IsNotFoundError(err) {
		return NewNotFoundError(resource, id)
	}
	return err
}

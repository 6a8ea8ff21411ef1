package services

import (
	"errors"
	"fmt"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/validator"
)

// Sentinel errors, one per HTTP status class
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrConflict         = errors.New("conflict")
)

// Typed not-found errors. errors.Is matches any NotFoundError of the same resource, and ErrNotFound.
var (
	ErrClassNotFound      = &NotFoundError{Resource: "class"}
	ErrAssignmentNotFound = &NotFoundError{Resource: "assignment"}
	ErrSubmissionNotFound = &NotFoundError{Resource: "submission"}
	ErrUserNotFound       = &NotFoundError{Resource: "user"}
)

// ===== VALIDATION =====

type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// ValidationErrors is the multi-field form produced by the request validator
type ValidationErrors = validator.ValidationErrors

// ===== NOT FOUND =====

type NotFoundError struct {
	Resource string
	ID       interface{}
}

func NewNotFoundError(resource string, id interface{}) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	if target == ErrNotFound {
		return true
	}
	other, ok := target.(*NotFoundError)
	return ok && other.Resource == e.Resource
}

// ===== PERMISSION =====

type PermissionError struct {
	UserID     string
	ResourceID interface{}
	Resource   string
	Action     string
	Reason     string
}

func NewPermissionError(userID string, resourceID interface{}, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrForbidden
}

// ===== CONFLICT =====

type ConflictError struct {
	Resource string
	Message  string
}

func NewConflictError(resource, message string) *ConflictError {
	return &ConflictError{Resource: resource, Message: message}
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ===== AUTHENTICATION =====

type AuthError struct {
	Message string
}

func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// ===== HELPERS =====

// notFoundOr converts a repository not-found into the typed service error and wraps anything else.
func notFoundOr(err error, notFound *NotFoundError, id interface{}, op string) error {
	if repositories.IsNotFoundError(err) {
		return NewNotFoundError(notFound.Resource, id)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.Is(err, ErrValidationFailed) || errors.As(err, &ve)
}

package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Section errors
var (
	ErrSectionNotFound  = errors.New("section not found")
	ErrInvalidGroup     = errors.New("section group must be one of A, B, C, D, E")
	ErrNoFieldsProvided = errors.New("no updatable fields provided")
	ErrSectionIDTaken   = errors.New("section id already exists")
	ErrCapacityExceeded = errors.New("section capacity exceeded")
)

// Student errors
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrStudentIDTaken  = errors.New("student id already exists")
)

// Teacher errors
var (
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrTeacherIDTaken  = errors.New("teacher id already exists")
)

// Study plan errors
var (
	ErrStudyPlanNotFound    = errors.New("study plan not found")
	ErrStudyPlanIDTaken     = errors.New("study plan id already exists")
	ErrStaleStudyPlan       = errors.New("study plan was modified by someone else")
	ErrInvalidStatusChange  = errors.New("invalid study plan status change")
	ErrStudyPlanNotEditable = errors.New("archived study plans cannot be edited")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// ErrIDSpaceExhausted is returned when the bounded retry loop could not find
// a free identifier. Surfaced to callers as a conflict.
var ErrIDSpaceExhausted = errors.New("could not generate a unique identifier")

// CapacityError reports how many slots were still free when an enrollment
// batch was rejected. It unwraps to ErrCapacityExceeded.
type CapacityError struct {
	SlotsLeft int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("section capacity exceeded: %d slot(s) left", e.SlotsLeft)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// NewCapacityError creates a CapacityError for the given remaining slots.
func NewCapacityError(slotsLeft int) error {
	return &CapacityError{SlotsLeft: slotsLeft}
}

// PartialEnrollmentError reports an enrollment batch that failed after some
// student updates had already been committed. Committed writes are not rolled
// back; callers must inspect Committed to learn which students made it in.
type PartialEnrollmentError struct {
	Committed []string
	Err       error
}

func (e *PartialEnrollmentError) Error() string {
	return fmt.Sprintf("enrollment failed after %d student(s) were committed: %v", len(e.Committed), e.Err)
}

func (e *PartialEnrollmentError) Unwrap() error {
	return e.Err
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels shared by the service and store layers.
var (
	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrInvalidID indicates an ID that is not a well-formed UUID.
	ErrInvalidID = errors.New("invalid user ID")

	// ErrEmailExists indicates the email is already held by another user.
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidBody indicates a request body that is not valid JSON.
	ErrInvalidBody = errors.New("invalid request body")
)

// ValidationError is a single field-level validation failure.
type ValidationError struct {
	Field   string // "name", "email", or empty for record-level problems
	Message string // Human-readable message, returned to clients verbatim
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InputShapeError rejects a bulk payload before any record is looked at:
// not an array, empty, or too large.
type InputShapeError struct {
	Message string
}

func (e *InputShapeError) Error() string {
	return e.Message
}

// BatchValidationError lists every record of a batch that failed validation.
type BatchValidationError struct {
	Errors []IndexedError
}

func (e *BatchValidationError) Error() string {
	return fmt.Sprintf("validation errors found in %d records", len(e.Errors))
}

// DuplicateEmailsError lists batch emails that already belong to stored users.
type DuplicateEmailsError struct {
	Emails []string
}

func (e *DuplicateEmailsError) Error() string {
	return "duplicate emails found: " + strings.Join(e.Emails, ", ")
}

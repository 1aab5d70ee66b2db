package core

// # Error Codes Reference
//
// Server errors are never returned to clients verbatim. The web layer logs
// the technical error and responds with the mapped message and a code that
// can be quoted to support staff.
//
// # Store Errors (DB001-DB099)
//
//	DB001 - Unique violation: Email is already in use
//	        Patterns: "duplicate key", "unique constraint", "violates unique"
//
//	DB002 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB003 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//
//	DB004 - Timeout: Operation timed out
//	        Patterns: "timeout"
//
//	DB005 - Deadlock or busy: Database was busy with conflicting operations
//	        Patterns: "deadlock", "database is locked"
//
//	DB006 - Missing table: The users table does not exist
//	        Patterns: "does not exist", "no such table"
//
// # Request Errors (USR001-USR099)
//
//	USR001 - System busy: Too many bulk operations in progress
//	         Patterns: "too many bulk operations"
//
//	USR002 - Request cancelled
//	         Patterns: "context canceled"
//
//	USR003 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred. Check the logs
//	         for the request ID.
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgUniqueViolation = UserMessage{
		Message: "Email is already in use",
		Action:  "Use a different email address",
		Code:    "DB001",
	}
	msgBusy = UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB005",
	}
	msgMissingTable = UserMessage{
		Message: "The users table does not exist",
		Action:  "Run the database migrations",
		Code:    "DB006",
	}
)

var errorPatterns = []errorPattern{
	// Constraint violations
	{pattern: "duplicate key", msg: msgUniqueViolation},
	{pattern: "unique constraint", msg: msgUniqueViolation},
	{pattern: "violates unique", msg: msgUniqueViolation},

	// Request lifecycle, checked before the generic "timeout"
	{
		pattern: "too many bulk operations",
		msg: UserMessage{
			Message: "System is busy processing other bulk operations",
			Action:  "Please wait a moment and try again",
			Code:    "USR001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "USR002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller batch or try again later",
			Code:    "USR003",
		},
	},

	// Connectivity
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller batch or try again later",
			Code:    "DB004",
		},
	},
	{pattern: "deadlock", msg: msgBusy},
	{pattern: "database is locked", msg: msgBusy},

	// Schema
	{pattern: "no such table", msg: msgMissingTable},
	{pattern: "does not exist", msg: msgMissingTable},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
//
//	msg := MapError(errors.New("dial tcp: connection refused"))
//	// msg.Code == "DB002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a display string: "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error, kept for logging, with the message
// shown to clients.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}

package web

// errors.go maps service errors to HTTP responses.
//
// Client errors carry the exact message the API documents. Server errors
// are logged in full with the request ID and answered with the friendly
// message and support code from core.MapError, never the raw error text.

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/usersvc/internal/core"
	"github.com/JonMunkholm/usersvc/internal/logging"
)

// ErrorResponse is the body of every error response. Only Message is
// always present.
type ErrorResponse struct {
	Message    string              `json:"message"`
	Error      string              `json:"error,omitempty"`
	Code       string              `json:"code,omitempty"`
	Errors     []core.IndexedError `json:"errors,omitempty"`
	Duplicates []string            `json:"duplicates,omitempty"`
}

// statusClientClosedRequest is nginx's non-standard status for a request
// the client abandoned.
const statusClientClosedRequest = 499

// respondError writes the response for err.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorResponse(err)

	logger := logging.FromContext(r.Context())
	switch {
	case isAborted(err):
		logger.Warn("request aborted",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"reason", err.Error(),
		)
	case status >= http.StatusInternalServerError:
		logger.Error("request error",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err.Error(),
			"code", body.Code,
		)
	default:
		logger.Debug("request rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"reason", err.Error(),
		)
	}

	writeJSON(w, status, body)
}

// isAborted reports whether err comes from the request context ending,
// either because the client went away or because the request timed out.
func isAborted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func errorResponse(err error) (int, ErrorResponse) {
	var (
		validationErr *core.ValidationError
		shapeErr      *core.InputShapeError
		batchErr      *core.BatchValidationError
		dupErr        *core.DuplicateEmailsError
		maxBytesErr   *http.MaxBytesError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, ErrorResponse{Message: validationErr.Message}
	case errors.As(err, &shapeErr):
		return http.StatusBadRequest, ErrorResponse{Message: shapeErr.Message}
	case errors.As(err, &batchErr):
		return http.StatusBadRequest, ErrorResponse{Message: "Validation errors found", Errors: batchErr.Errors}
	case errors.As(err, &dupErr):
		return http.StatusBadRequest, ErrorResponse{Message: "Duplicate emails found", Duplicates: dupErr.Emails}
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge, ErrorResponse{Message: "Request body too large"}
	case errors.Is(err, core.ErrInvalidBody):
		return http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"}
	case errors.Is(err, core.ErrInvalidID):
		return http.StatusBadRequest, ErrorResponse{Message: "Invalid user ID"}
	case errors.Is(err, core.ErrEmailExists):
		return http.StatusBadRequest, ErrorResponse{Message: "Email already exists"}
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Message: "User not found"}
	case errors.Is(err, core.ErrTooManyBulkOps):
		return http.StatusServiceUnavailable, ErrorResponse{Message: "Too many bulk operations in progress, please try again later"}
	case errors.Is(err, context.Canceled):
		msg := core.MapError(context.Canceled)
		return statusClientClosedRequest, ErrorResponse{Message: msg.Message, Code: msg.Code}
	case errors.Is(err, context.DeadlineExceeded):
		msg := core.MapError(context.DeadlineExceeded)
		return http.StatusGatewayTimeout, ErrorResponse{Message: msg.Message, Code: msg.Code}
	}

	userMsg := core.MapError(err)
	return http.StatusInternalServerError, ErrorResponse{
		Message: "Server error",
		Error:   userMsg.Message,
		Code:    userMsg.Code,
	}
}

// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/devhub/internal/app/system/inputval"
)

// Machine-readable reasons carried in every error body.
const (
	CodeInvalidID        = "invalid_id"
	CodeInvalidBody      = "invalid_body"
	CodeValidationFailed = "validation_failed"
	CodeNotFound         = "not_found"
	CodeEntryNotFound    = "entry_not_found"
	CodeAlreadyExists    = "already_exists"
	CodeHandleTaken      = "handle_taken"
	CodeNotAuthorized    = "not_authorized"
	CodeUnauthenticated  = "unauthenticated"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeUnexpected       = "unexpected"
)

// Error is a client-facing failure. Message and Violations are safe to show.
type Error struct {
	Status     int                   `json:"-"`
	Code       string                `json:"code"`
	Message    string                `json:"error"`
	Violations []inputval.FieldError `json:"violations,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// As reports whether err is (or wraps) an *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Validation reports every violation in res. The top-level message is the
// first violation so simple clients can show one line.
func Validation(res *inputval.Result) *Error {
	return &Error{
		Status:     http.StatusBadRequest,
		Code:       CodeValidationFailed,
		Message:    res.First(),
		Violations: res.Errors,
	}
}

func BadRequest(code, msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Message: msg}
}

func NotFound(code, msg string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Message: msg}
}

// Forbidden is used for conflicts the caller cannot resolve by retrying,
// such as creating a second profile.
func Forbidden(code, msg string) *Error {
	return &Error{Status: http.StatusForbidden, Code: code, Message: msg}
}

func Conflict(code, msg string) *Error {
	return &Error{Status: http.StatusConflict, Code: code, Message: msg}
}

func Unauthorized(code, msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: code, Message: msg}
}

// Package apperror defines the errors the API reports to clients.
// A code decides the HTTP status; handlers and the error middleware never
// pick statuses themselves.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes sent in the "code" field of error responses.
const (
	CodeInternal               = "INTERNAL_ERROR"
	CodeValidation             = "VALIDATION_ERROR"
	CodeBusinessRule           = "BUSINESS_RULE_VIOLATION"
	CodeReconciliationMismatch = "RECONCILIATION_MISMATCH"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeNotFound               = "NOT_FOUND"
	CodeConflict               = "CONFLICT"
	CodeDuplicate              = "DUPLICATE_ENTRY"
)

var statusByCode = map[string]int{
	CodeInternal:               http.StatusInternalServerError,
	CodeValidation:             http.StatusBadRequest,
	CodeUnauthorized:           http.StatusUnauthorized,
	CodeForbidden:              http.StatusForbidden,
	CodeNotFound:               http.StatusNotFound,
	CodeConcurrentModification: http.StatusConflict,
	CodeConflict:               http.StatusConflict,
	CodeDuplicate:              http.StatusConflict,
}

// statusFor maps a code to its HTTP status. Unlisted codes are business
// rules and map to 422.
func statusFor(code string) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusUnprocessableEntity
}

// AppError is an error with a client-facing code, message and details.
// Err is logged but never serialized.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	Err        error          `json:"-"`
}

func newError(code, message string, details map[string]any) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		HTTPStatus: statusFor(code),
	}
}

func (e *AppError) Error() string {
	msg := e.Code + ": " + e.Message
	if e.Err != nil {
		msg += " (caused by: " + e.Err.Error() + ")"
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail sets details[key] and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// WithCause attaches the underlying error and returns e.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

func NewValidation(message string) *AppError {
	return newError(CodeValidation, message, nil)
}

// NewFieldValidation is a validation error naming the offending field.
func NewFieldValidation(field, message string) *AppError {
	return newError(CodeValidation, message, map[string]any{"field": field})
}

func NewNotFound(entity string, id any) *AppError {
	return newError(CodeNotFound, entity+" not found", map[string]any{"entity": entity, "id": id})
}

// NewBusinessRule reports a violated domain rule under a rule-specific code.
func NewBusinessRule(code, message string) *AppError {
	return newError(code, message, nil)
}

// NewConcurrentModification reports a stale version on update.
func NewConcurrentModification(entity string, id any) *AppError {
	return newError(CodeConcurrentModification,
		"Record was modified by another user. Please refresh and try again.",
		map[string]any{"entity": entity, "id": id})
}

// NewInternal hides err behind a generic message.
func NewInternal(err error) *AppError {
	return newError(CodeInternal, "Internal server error", nil).WithCause(err)
}

func NewUnauthorized(message string) *AppError {
	return newError(CodeUnauthorized, message, nil)
}

func NewForbidden(message string) *AppError {
	return newError(CodeForbidden, message, nil)
}

func NewConflict(message string) *AppError {
	return newError(CodeConflict, message, nil)
}

func NewDuplicate(entity, field, value string) *AppError {
	return newError(CodeDuplicate,
		fmt.Sprintf("%s with this %s already exists", entity, field),
		map[string]any{"entity": entity, "field": field, "value": value})
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// GetHTTPStatus is 500 for anything that is not an AppError.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

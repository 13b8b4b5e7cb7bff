package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRole        ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidWorkingTime ErrorCode = "INVALID_WORKING_HOURS"
	ErrCodeInvalidParent      ErrorCode = "INVALID_PARENT"
	ErrCodeInvalidOptionType  ErrorCode = "INVALID_OPTION_TYPE"

	ErrCodeUserNotFound          ErrorCode = "USER_NOT_FOUND"
	ErrCodeStoreNotFound         ErrorCode = "STORE_NOT_FOUND"
	ErrCodeCourierNotFound       ErrorCode = "COURIER_NOT_FOUND"
	ErrCodeCategoryNotFound      ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeOptionNotFound        ErrorCode = "OPTION_NOT_FOUND"
	ErrCodeBranchRequestNotFound ErrorCode = "BRANCH_REQUEST_NOT_FOUND"
	ErrCodeNotificationNotFound  ErrorCode = "NOTIFICATION_NOT_FOUND"

	ErrCodeInvalidStoreStatus  ErrorCode = "INVALID_STORE_STATUS"
	ErrCodeStoreExists         ErrorCode = "STORE_ALREADY_EXISTS"
	ErrCodeInvalidBranchStatus ErrorCode = "INVALID_BRANCH_STATUS"
	ErrCodeDuplicateBranch     ErrorCode = "DUPLICATE_BRANCH_REQUEST"
	ErrCodeStaleVersion        ErrorCode = "STALE_VERSION"
	ErrCodeDuplicateEmail      ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeNotSubUser          ErrorCode = "NOT_SUB_USER"
	ErrCodeInsufficientPerms   ErrorCode = "INSUFFICIENT_PERMISSIONS"
	ErrCodeUnauthorizedAccess  ErrorCode = "UNAUTHORIZED_ACCESS"
	ErrCodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserBanned          ErrorCode = "USER_BANNED"
	ErrCodeInvalidToken        ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired        ErrorCode = "TOKEN_EXPIRED"
)

// AppError is the one error shape handlers understand. Type picks the HTTP
// status, Code is the stable machine-readable reason.
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    any       `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

var statusByType = map[ErrorType]int{
	ErrorTypeValidation:   http.StatusBadRequest,
	ErrorTypeNotFound:     http.StatusNotFound,
	ErrorTypeUnauthorized: http.StatusUnauthorized,
	ErrorTypeForbidden:    http.StatusForbidden,
	ErrorTypeConflict:     http.StatusConflict,
	ErrorTypeInternal:     http.StatusInternalServerError,
}

func newAppError(t ErrorType, code ErrorCode, message string) *AppError {
	return &AppError{Type: t, Code: code, Message: message, StatusCode: statusByType[t]}
}

func (e *AppError) Error() string {
	if fields, ok := e.Details.(ValidationErrors); ok && len(fields.Errors) > 0 {
		return fields.Errors[0].Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// GetDetailedMessage joins every field message of a validation error.
func (e *AppError) GetDetailedMessage() string {
	fields, ok := e.Details.(ValidationErrors)
	if !ok || len(fields.Errors) == 0 {
		return e.Message
	}
	msgs := make([]string, 0, len(fields.Errors))
	for _, f := range fields.Errors {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Type and Code so sentinels still match after WithCause copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code && e.Type == t.Type
}

// WithCause returns a copy; shared sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, code, message)
}

// NewValidationFieldError reports a single bad field; code lands on the field,
// the error itself always carries ErrCodeValidationFailed.
func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, ErrCodeValidationFailed, "Validation failed").
		WithDetails(ValidationErrors{Errors: []ValidationError{{Field: field, Message: message, Code: string(code)}}})
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeNotFound, code, message)
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeUnauthorized, code, message)
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeForbidden, code, message)
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeConflict, code, message)
}

func NewInternalError(message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, ErrCodeInternal, message).WithCause(cause)
}

var (
	ErrUserNotFound          = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrStoreNotFound         = NewNotFoundError("Store not found", ErrCodeStoreNotFound)
	ErrCourierNotFound       = NewNotFoundError("Courier not found", ErrCodeCourierNotFound)
	ErrCategoryNotFound      = NewNotFoundError("Category not found", ErrCodeCategoryNotFound)
	ErrOptionNotFound        = NewNotFoundError("Option not found", ErrCodeOptionNotFound)
	ErrBranchRequestNotFound = NewNotFoundError("Branch request not found", ErrCodeBranchRequestNotFound)
	ErrNotificationNotFound  = NewNotFoundError("Notification not found", ErrCodeNotificationNotFound)

	ErrInvalidStoreStatus      = NewValidationError("store cannot change status from its current status", ErrCodeInvalidStoreStatus)
	ErrStoreAlreadyExists      = NewConflictError("this account already has a store", ErrCodeStoreExists)
	ErrInvalidBranchTransition = NewValidationError("branch request cannot change from its current status", ErrCodeInvalidBranchStatus)
	ErrDuplicateBranchRequest  = NewConflictError("a branch request between these stores is already active", ErrCodeDuplicateBranch)
	ErrStaleVersion            = NewConflictError("the record was modified by someone else, reload and retry", ErrCodeStaleVersion)
	ErrDuplicateEmail          = NewConflictError("email is already registered", ErrCodeDuplicateEmail)
	ErrNotSubUser              = NewValidationError("permissions can only be assigned to sub-users", ErrCodeNotSubUser)

	ErrInsufficientPermissions = NewForbiddenError("insufficient permissions", ErrCodeInsufficientPerms)
	ErrUnauthorizedAccess      = NewForbiddenError("unauthorized access to resource", ErrCodeUnauthorizedAccess)
	ErrInvalidCredentials      = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserBanned              = NewForbiddenError("User account is banned", ErrCodeUserBanned)
	ErrInvalidToken            = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired            = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, any) {
	return e.StatusCode, Response{Error: e}
}

// MarshalJSON leaves Cause out of every response body.
func (e *AppError) MarshalJSON() ([]byte, error) {
	type wire struct {
		Type    ErrorType `json:"type"`
		Code    ErrorCode `json:"code"`
		Message string    `json:"message"`
		Details any       `json:"details,omitempty"`
	}
	return json.Marshal(wire{Type: e.Type, Code: e.Code, Message: e.Message, Details: e.Details})
}

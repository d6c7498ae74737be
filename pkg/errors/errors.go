package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the structured error rendered to API consumers.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}

	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// Is matches AppErrors by code so copies made with WithInternal still compare equal.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.Code == other.Code
}

// WithInternal returns a copy of the AppError with an attached internal error.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Internal = err
	return &cpy
}

// WithMessage returns a copy of the AppError carrying a more specific message.
func (e *AppError) WithMessage(message string) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Message = message
	return &cpy
}

var (
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Authentication required",
		StatusCode: http.StatusUnauthorized,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "Permission denied",
		StatusCode: http.StatusForbidden,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	ErrConflict = &AppError{
		Code:       "CONFLICT",
		Message:    "Resource already exists",
		StatusCode: http.StatusConflict,
	}

	ErrInternalServer = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
	}

	ErrMenuNotFound = &AppError{
		Code:       "menu.not_found",
		Message:    "Menu not found",
		StatusCode: http.StatusNotFound,
	}

	ErrMenuItemNotFound = &AppError{
		Code:       "menu.item_not_found",
		Message:    "Menu item not found",
		StatusCode: http.StatusNotFound,
	}

	ErrInvalidReference = &AppError{
		Code:       "menu.invalid_reference",
		Message:    "Parent item does not exist",
		StatusCode: http.StatusBadRequest,
	}

	ErrDuplicateID = &AppError{
		Code:       "menu.duplicate_id",
		Message:    "Menu item id already exists",
		StatusCode: http.StatusConflict,
	}

	ErrParentCycle = &AppError{
		Code:       "menu.parent_cycle",
		Message:    "Parent assignment would create a cycle",
		StatusCode: http.StatusBadRequest,
	}
)

// New builds a new application error with the provided metadata.
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap turns any error into an AppError while keeping the original error for logging.
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   err,
	}
}

// FromError converts a generic error into an AppError, defaulting to ErrInternalServer.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInternalServer.WithInternal(err)
}

// NewBadRequest wraps validation errors with a helpful message.
func NewBadRequest(message string) *AppError {
	return ErrBadRequest.WithMessage(message)
}

// NewInvalidReference reports an item whose parent key is not part of the menu.
func NewInvalidReference(key, parentKey string) *AppError {
	return ErrInvalidReference.WithMessage(fmt.Sprintf("parent %q of item %q does not exist", parentKey, key))
}

// NewDuplicateID reports an item key that is already taken within a menu.
func NewDuplicateID(key string) *AppError {
	return ErrDuplicateID.WithMessage(fmt.Sprintf("menu item %q already exists", key))
}

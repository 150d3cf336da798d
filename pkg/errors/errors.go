package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
	ErrValidation
	ErrAttachmentRejected
	ErrDeviceUnavailable
	ErrUpstreamUnreachable
	ErrUpstreamRejected
)

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: message,
	}
}

// Validation marks a field-level failure the caller surfaces inline.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
	}
}

// AttachmentRejected marks a size or type rejection of an uploaded file.
func AttachmentRejected(message string) *AppError {
	return &AppError{
		Code:    ErrAttachmentRejected,
		Message: message,
	}
}

// DeviceUnavailable marks a recoverable capture-device failure. The
// file-picker path stays available to the caller.
func DeviceUnavailable(err error) *AppError {
	return &AppError{
		Code:    ErrDeviceUnavailable,
		Message: "capture device unavailable",
		Err:     err,
	}
}

// UpstreamUnreachable marks a transport failure talking to the association
// API. Callers keep their state and offer a retry.
func UpstreamUnreachable(err error) *AppError {
	return &AppError{
		Code:    ErrUpstreamUnreachable,
		Message: "could not reach the association service",
		Err:     err,
	}
}

// UpstreamRejected carries the reason the association API refused a request.
func UpstreamRejected(message string) *AppError {
	if message == "" {
		message = "request rejected by the association service"
	}
	return &AppError{
		Code:    ErrUpstreamRejected,
		Message: message,
	}
}

// IsUnreachable reports whether err is a transport-level upstream failure.
func IsUnreachable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == ErrUpstreamUnreachable
	}
	return false
}

// Package errors provides standardized error handling for the dashboard services.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"

	ErrCodeLookupFailed        ErrorCode = "LOOKUP_FAILED"
	ErrCodeDocumentQueryFailed ErrorCode = "DOCUMENT_QUERY_FAILED"

	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnknownResponseType ErrorCode = "UNKNOWN_RESPONSE_TYPE"

	ErrCodeArchiveWriteFailed ErrorCode = "ARCHIVE_WRITE_FAILED"
	ErrCodeArchiveQueryFailed ErrorCode = "ARCHIVE_QUERY_FAILED"

	ErrCodeSFTPConnectionFailed ErrorCode = "SFTP_CONNECTION_FAILED"
	ErrCodeSFTPListFailed       ErrorCode = "SFTP_LIST_FAILED"
	ErrCodeSFTPUploadFailed     ErrorCode = "SFTP_UPLOAD_FAILED"
	ErrCodeSFTPPathNotFound     ErrorCode = "SFTP_PATH_NOT_FOUND"

	ErrCodeUpstreamUnreachable ErrorCode = "UPSTREAM_UNREACHABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// FieldError tags a validation failure to the field that caused it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidArgumentError creates a non-retryable bad input error.
// Always raised before any I/O is attempted.
func NewInvalidArgumentError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidArgument,
		Message:   "Missing or malformed required input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a non-retryable not found error.
func NewNotFoundError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   "No matching records",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLookupFailedError creates a retryable relational lookup error.
func NewLookupFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLookupFailed,
		Message:   "Relational store lookup error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentQueryFailedError creates a retryable document store error.
func NewDocumentQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentQueryFailed,
		Message:   "Document store query error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable error carrying all field errors at once.
func NewValidationFailedError(fieldErrors []FieldError) *StandardError {
	meta := map[string]interface{}{"fieldErrors": fieldErrors}
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Field validation failed",
		Retryable: false,
		Metadata:  meta,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownResponseTypeError creates a non-retryable response type error.
func NewUnknownResponseTypeError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownResponseType,
		Message:   "Unsupported response type",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArchiveWriteFailedError creates a retryable archive write error.
func NewArchiveWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArchiveWriteFailed,
		Message:   "Failed to persist generated document",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewArchiveQueryFailedError creates a retryable archive read error.
func NewArchiveQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArchiveQueryFailed,
		Message:   "Failed to read generated documents",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSFTPConnectionFailedError creates a retryable SFTP connection error.
func NewSFTPConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSFTPConnectionFailed,
		Message:   "SFTP connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSFTPListFailedError creates a retryable remote listing error.
func NewSFTPListFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSFTPListFailed,
		Message:   "SFTP listing error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSFTPUploadFailedError creates a retryable upload error.
func NewSFTPUploadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSFTPUploadFailed,
		Message:   "SFTP upload error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSFTPPathNotFoundError creates a non-retryable remote path error.
func NewSFTPPathNotFoundError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSFTPPathNotFound,
		Message:   "Remote directory does not exist",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamUnreachableError creates a retryable upstream API error.
func NewUpstreamUnreachableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamUnreachable,
		Message:   "Upstream cron API unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatus maps an error code to the status the API layer responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidArgument, ErrCodeUnknownResponseType:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeSFTPPathNotFound:
		return http.StatusNotFound
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeUpstreamUnreachable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AsStandard normalizes any error to a StandardError.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

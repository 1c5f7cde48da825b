// Package errors provides standardized error handling for the intake service.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeSubmissionBlocked  ErrorCode = "SUBMISSION_BLOCKED"
	ErrCodeSubmissionInFlight ErrorCode = "SUBMISSION_IN_FLIGHT"
	ErrCodeSubmissionFailed   ErrorCode = "SUBMISSION_FAILED"

	ErrCodeDraftStorageFailed ErrorCode = "DRAFT_STORAGE_FAILED"
	ErrCodeDraftCorrupt       ErrorCode = "DRAFT_CORRUPT"

	ErrCodeDeviceUnavailable ErrorCode = "DEVICE_UNAVAILABLE"
	ErrCodeRecordingState    ErrorCode = "RECORDING_STATE"
	ErrCodeRecordingLimit    ErrorCode = "RECORDING_LIMIT"

	ErrCodeBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	ErrCodeBackendRejected    ErrorCode = "BACKEND_REJECTED"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeStaleResponse     ErrorCode = "STALE_RESPONSE"

	ErrCodeJournalWriteFailed     ErrorCode = "JOURNAL_WRITE_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeBlobStorageFailed      ErrorCode = "BLOB_STORAGE_FAILED"

	ErrCodeSessionInvalid  ErrorCode = "SESSION_INVALID"
	ErrCodeSessionRequired ErrorCode = "SESSION_REQUIRED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"

	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
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

// AsStandard extracts a *StandardError from err, or nil if there is none.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return nil
}

// IsRetryable reports whether err is a retryable StandardError.
func IsRetryable(err error) bool {
	if stdErr := AsStandard(err); stdErr != nil {
		return stdErr.Retryable
	}
	return false
}

// NewValidationFailedError creates a non-retryable validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Application data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionBlockedError creates a non-retryable error for a step that
// cannot be advanced past.
func NewSubmissionBlockedError(step int, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionBlocked,
		Message:   "Submission blocked by validation",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"step": step},
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionInFlightError creates a non-retryable duplicate submit error.
func NewSubmissionInFlightError(submissionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionInFlight,
		Message:   "A submission is already in flight",
		Details:   fmt.Sprintf("submissionId: %s", submissionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionFailedError creates a retryable submission error.
func NewSubmissionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionFailed,
		Message:   "Application submission failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftStorageFailedError creates a retryable draft storage error.
func NewDraftStorageFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftStorageFailed,
		Message:   "Draft storage operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftCorruptError creates a non-retryable corrupt draft error.
func NewDraftCorruptError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftCorrupt,
		Message:   "Stored draft failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeviceUnavailableError creates a non-retryable device acquisition error.
func NewDeviceUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeviceUnavailable,
		Message:   "Capture device unavailable",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordingStateError creates a non-retryable invalid transition error.
func NewRecordingStateError(from, op string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordingState,
		Message:   "Invalid recording state transition",
		Details:   fmt.Sprintf("state: %s, operation: %s", from, op),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordingLimitError creates a non-retryable duration cap error.
func NewRecordingLimitError(seconds int) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordingLimit,
		Message:   "Recording duration limit reached",
		Details:   fmt.Sprintf("limitSeconds: %d", seconds),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBackendUnavailableError creates a retryable backend transport error.
func NewBackendUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBackendUnavailable,
		Message:   "Recruitment backend unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBackendRejectedError creates a non-retryable backend rejection error.
func NewBackendRejectedError(status int, body string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBackendRejected,
		Message:   "Recruitment backend rejected the request",
		Details:   fmt.Sprintf("status: %d, body: %s", status, body),
		Retryable: false,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Profile search query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStaleResponseError creates a non-retryable stale search response error.
func NewStaleResponseError(gotKey, wantKey uint64) *StandardError {
	return &StandardError{
		Code:      ErrCodeStaleResponse,
		Message:   "Search response superseded by a newer query",
		Details:   fmt.Sprintf("responseKey: %d, latestKey: %d", gotKey, wantKey),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewJournalWriteFailedError creates a retryable journal error.
func NewJournalWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeJournalWriteFailed,
		Message:   "Submission journal write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBlobStorageFailedError creates a retryable blob storage error.
func NewBlobStorageFailedError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBlobStorageFailed,
		Message:   "Blob storage operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionInvalidError creates a non-retryable session token error.
func NewSessionInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionInvalid,
		Message:   "Session token is invalid or expired",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionRequiredError creates a non-retryable missing session error.
func NewSessionRequiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionRequired,
		Message:   "Authentication required",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewForbiddenError creates a non-retryable authorization error.
func NewForbiddenError(requiredRole string) *StandardError {
	return &StandardError{
		Code:      ErrCodeForbidden,
		Message:   "Insufficient role for this operation",
		Details:   fmt.Sprintf("requiredRole: %s", requiredRole),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable unknown wizard session error.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Wizard session not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

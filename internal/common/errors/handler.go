package errors

import "net/http"

// HTTPStatus maps a StandardError code to the HTTP status the API layer
// should answer with. Unknown errors map to 500.
func HTTPStatus(err error) int {
	stdErr := AsStandard(err)
	if stdErr == nil {
		return http.StatusInternalServerError
	}
	switch stdErr.Code {
	case ErrCodeValidationFailed, ErrCodeSubmissionBlocked, ErrCodeDraftCorrupt,
		ErrCodeRecordingState, ErrCodeRecordingLimit:
		return http.StatusUnprocessableEntity
	case ErrCodeSubmissionInFlight:
		return http.StatusConflict
	case ErrCodeSessionRequired, ErrCodeSessionInvalid:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeBackendUnavailable, ErrCodeSearchQueryFailed:
		return http.StatusBadGateway
	case ErrCodeBackendRejected:
		if s, ok := stdErr.Metadata["status"].(int); ok && s >= 400 && s < 600 {
			return s
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the JSON shape API handlers answer errors with.
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// Body builds the response payload for err.
func Body(err error) ErrorBody {
	if stdErr := AsStandard(err); stdErr != nil {
		return ErrorBody{Code: stdErr.Code, Message: stdErr.Message, Details: stdErr.Details}
	}
	return ErrorBody{Code: "INTERNAL_ERROR", Message: "Unexpected error"}
}

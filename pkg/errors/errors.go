package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInternal       = NewError("INTERNAL_ERROR", "Internal server error", http.StatusInternalServerError)
	ErrInvalidRequest = NewError("INVALID_REQUEST", "Invalid request body", http.StatusBadRequest)
	ErrUnroutable     = NewError("UNROUTABLE_REQUEST", "Method not allowed", http.StatusMethodNotAllowed)
	ErrUnauthorized   = NewError("INVALID_SIGNATURE", "invalid request signature", http.StatusUnauthorized)
	ErrDeliveryFailed = NewError("DELIVERY_FAILED", "Failed to send Discord message", http.StatusBadGateway)
	ErrRateLimited    = NewError("RATE_LIMIT_EXCEEDED", "rate limit exceeded", http.StatusTooManyRequests)
)

type Error struct {
	Code    string
	Message string
	Status  int
	Details map[string]interface{}
	Cause   error
}

func NewError(code, message string, status int) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Status:  status,
		Details: make(map[string]interface{}),
	}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Code so sentinel comparisons survive WithCause/WithDetail copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *Error) WithCause(cause error) *Error {
	err := *e
	err.Cause = cause
	err.Details = copyDetails(e.Details)
	return &err
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	err := *e
	err.Details = copyDetails(e.Details)
	err.Details[key] = value
	return &err
}

func copyDetails(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func Wrap(err error, appErr *Error) *Error {
	if err == nil {
		return nil
	}
	return appErr.WithCause(err)
}

func IsDeliveryFailed(err error) bool {
	return hasCode(err, ErrDeliveryFailed.Code)
}

func IsUnroutable(err error) bool {
	return hasCode(err, ErrUnroutable.Code)
}

func IsInvalidRequest(err error) bool {
	return hasCode(err, ErrInvalidRequest.Code)
}

func hasCode(err error, code string) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func ToHTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// ToErrorResponse renders the JSON error body returned across the HTTP boundary.
// Errors that are not *Error are reported as a bare internal error so causes never leak.
func ToErrorResponse(err error) map[string]interface{} {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return map[string]interface{}{
			"error": ErrInternal.Message,
		}
	}

	response := map[string]interface{}{
		"error":      appErr.Message,
		"error_code": appErr.Code,
	}

	if len(appErr.Details) > 0 {
		response["details"] = appErr.Details
	}

	return response
}

// ErrorResponse documents the shape produced by ToErrorResponse.
type ErrorResponse struct {
	Error     string                 `json:"error"`
	ErrorCode string                 `json:"error_code,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

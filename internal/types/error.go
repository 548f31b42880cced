package types

import (
	"errors"
	"net/http"
)

type ErrorCode string

func (e ErrorCode) String() string {
	return string(e)
}

const (
	// 5XX
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	// 4XX
	ValidationError       ErrorCode = "VALIDATION_ERROR"
	NotFound              ErrorCode = "NOT_FOUND"
	BadRequest            ErrorCode = "BAD_REQUEST"
	Forbidden             ErrorCode = "FORBIDDEN"
	Unauthorized          ErrorCode = "UNAUTHORIZED"
	ValidatorNotFound     ErrorCode = "VALIDATOR_NOT_FOUND"
	ClaimNotFound         ErrorCode = "CLAIM_NOT_FOUND"
	InvalidFraction       ErrorCode = "INVALID_FRACTION"
	ChannelNotEstablished ErrorCode = "CHANNEL_NOT_ESTABLISHED"
	ChannelAlreadyBound   ErrorCode = "CHANNEL_ALREADY_BOUND"
	InsufficientStake     ErrorCode = "INSUFFICIENT_STAKE"
	Underflow             ErrorCode = "UNDERFLOW"
	NoMaturedClaims       ErrorCode = "NO_MATURED_CLAIMS"
	Overflow              ErrorCode = "OVERFLOW"
)

// Error represents an error with an HTTP status code and an application-specific error code.
type Error struct {
	Err        error
	StatusCode int
	ErrorCode  ErrorCode
}

const UninitializedStatusCode = 0

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error with the provided status code, error code, and underlying error.
// If the status code is not provided (0), it defaults to http.StatusInternalServerError(500).
// If the error code is empty, it defaults to INTERNAL_SERVICE_ERROR.
func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	if statusCode == UninitializedStatusCode {
		statusCode = http.StatusInternalServerError
	}
	if errorCode == "" {
		errorCode = InternalServiceError
	}
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return NewError(statusCode, errorCode, errors.New(msg))
}

func NewInternalServiceError(err error) *Error {
	return &Error{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  InternalServiceError,
		Err:        err,
	}
}

// IsRejection reports whether the error is a rejected state transition
// (a 4xx) rather than an infrastructure failure.
func (e *Error) IsRejection() bool {
	return e.StatusCode >= http.StatusBadRequest && e.StatusCode < http.StatusInternalServerError
}

// HasErrorCode reports whether err is, or wraps, an *Error carrying the given code.
func HasErrorCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.ErrorCode == code
	}
	return false
}

// AsError converts any error into an *Error, defaulting to an internal service error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewInternalServiceError(err)
}

func NewUnauthorizedError(msg string) *Error {
	return NewErrorWithMsg(http.StatusForbidden, Unauthorized, msg)
}

func NewValidationError(msg string) *Error {
	return NewErrorWithMsg(http.StatusBadRequest, ValidationError, msg)
}

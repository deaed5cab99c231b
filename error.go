package webqa

import (
	"errors"
	"fmt"
	"time"
)

// Application error codes.
const (
	EINVALID      = "invalid"
	ENOTFOUND     = "not_found"
	EINTERNAL     = "internal"
	EUNAUTHORIZED = "unauthorized"

	// EQUOTA means the remote provider rejected the call for rate or quota reasons.
	EQUOTA = "quota_exceeded"

	// EUNAVAILABLE means the remote provider could not be reached.
	EUNAVAILABLE = "unavailable"

	// ENORELEVANT means no fetched document was relevant enough to answer from.
	ENORELEVANT = "no_relevant_document"

	// ENOANSWER means inference produced no answer span.
	ENOANSWER = "no_answer"

	// ECORRUPT means a persisted cache entry could not be decoded.
	ECORRUPT = "cache_corruption"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("webqa error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var qe *QuotaError
	if errors.As(err, &qe) {
		return EQUOTA
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var qe *QuotaError
	if errors.As(err, &qe) {
		return qe.Message
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// QuotaError is returned by remote providers when a request is rejected for
// rate or quota reasons. RetryAfter is the provider's hint, zero if unknown.
type QuotaError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("webqa error: code=%s message=%s", EQUOTA, e.Message)
}

// RetryAfter returns the provider's backoff hint carried by err, if any.
func RetryAfter(err error) time.Duration {
	var qe *QuotaError
	if errors.As(err, &qe) {
		return qe.RetryAfter
	}
	return 0
}

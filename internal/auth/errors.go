package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized covers bad credentials, missing/invalid sessions and
	// any other "who are you" failure. Never carries detail about which
	// account kind (if any) matched.
	ErrUnauthorized = errors.New("auth: unauthorized")

	// ErrForbidden means the caller is authenticated but the permission
	// rule for the path rejects their role or verification state.
	ErrForbidden = errors.New("auth: forbidden")

	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("auth: not found")

	// ErrAlreadyExists signals an email/username uniqueness violation
	// during registration.
	ErrAlreadyExists = errors.New("auth: already exists")

	// ErrRateLimited is returned before any credential check when the
	// per-IP attempt budget is exhausted.
	ErrRateLimited = errors.New("auth: rate limited")
)

// Token decode failures, ordered from most to least specific.
var (
	ErrTokenExpired   = errors.New("auth: token expired")
	ErrTokenMalformed = errors.New("auth: token malformed")
	ErrTokenInvalid   = errors.New("auth: invalid token")
)

// ValidationError names the request field that failed validation so the
// transport can surface a field-specific 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("auth: invalid %s: %s", e.Field, e.Reason)
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}

// IsValidation reports whether err is a field validation failure and returns
// it when so.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrContentTooLong is returned when content exceeds MaxContentWords tokens.
	ErrContentTooLong = fmt.Errorf("Content can't be longer than %d words", MaxContentWords)

	// ErrUpstreamUnavailable covers network failures, timeouts and upstream 5xx.
	ErrUpstreamUnavailable = errors.New("upstream translation service unavailable")
)

// Language roles used by UnsupportedLanguageError.
const (
	RoleSource = "source"
	RoleTarget = "target"
)

type UnsupportedLanguageError struct {
	Role  string
	Value string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("Unsupported %s language: %s", e.Role, e.Value)
}

type UnsupportedDomainError struct {
	Value string
}

func (e *UnsupportedDomainError) Error() string {
	return fmt.Sprintf("Unsupported domain: %s", e.Value)
}

// UpstreamRejectedError carries the upstream's rejection message verbatim.
type UpstreamRejectedError struct {
	Message string
}

func (e *UpstreamRejectedError) Error() string {
	return e.Message
}

type unavailableError struct {
	cause error
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUpstreamUnavailable.Error(), e.cause)
}

func (e *unavailableError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

func (e *unavailableError) Unwrap() error {
	return e.cause
}

// IsClientError reports whether err is one the caller can fix: a local
// validation failure or an upstream rejection.
func IsClientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrContentTooLong) {
		return true
	}
	var langErr *UnsupportedLanguageError
	if errors.As(err, &langErr) {
		return true
	}
	var domainErr *UnsupportedDomainError
	if errors.As(err, &domainErr) {
		return true
	}
	var rejectedErr *UpstreamRejectedError
	return errors.As(err, &rejectedErr)
}

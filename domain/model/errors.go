package model

import "fmt"

// ErrorKind classifies failures coming back from the remote API or from
// validation. Kinds are stable strings so they survive JSON round trips.
type ErrorKind string

const (
	ErrUnauthenticated  ErrorKind = "unauthenticated"
	ErrNotFound         ErrorKind = "not_found"
	ErrValidationFailed ErrorKind = "validation_failed"
	ErrRemoteError      ErrorKind = "remote_error"
	ErrNetworkError     ErrorKind = "network_error"
	ErrExpired          ErrorKind = "expired"
)

// Validation error kinds, ordered by precedence.
const (
	ErrContentTooLong       ErrorKind = "content_too_long"
	ErrTooManyMedia         ErrorKind = "too_many_media"
	ErrMissingRequiredField ErrorKind = "missing_required_field"
)

// PlatformError carries a classified failure for one platform. It is attached
// to the snapshot or variant it belongs to and never aborts sibling work.
type PlatformError struct {
	Platform Platform  `json:"platform,omitempty"`
	Kind     ErrorKind `json:"kind"`
	Message  string    `json:"message,omitempty"`
}

func (e *PlatformError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewPlatformError builds a classified error for a platform.
func NewPlatformError(p Platform, kind ErrorKind, message string) *PlatformError {
	return &PlatformError{Platform: p, Kind: kind, Message: message}
}

// KindOf extracts the ErrorKind from err, defaulting to RemoteError for
// anything unclassified.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	if pe, ok := err.(*PlatformError); ok {
		return pe.Kind
	}
	return ErrRemoteError
}

package envelope

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrMalformedEnvelope = errors.New("malformed envelope")
	ErrDecryptionFailed  = errors.New("decryption failed")
)

// ArgumentError reports a missing or unusable input.
// An empty Reason means the field was empty.
type ArgumentError struct {
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "is required"
	}
	return fmt.Sprintf("%s: %s %s", ErrInvalidArgument, e.Field, reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

func missing(field string) error {
	return &ArgumentError{Field: field}
}

func invalid(field, reason string) error {
	return &ArgumentError{Field: field, Reason: reason}
}

package util

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound  = errors.New("assessment record not found")
	ErrDuplicateRecord = errors.New("assessment record id already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailRegistered = errors.New("email is already registered")
	ErrSessionNotFound = errors.New("assessment session not found")
)

// ValidationError marks caller misuse: unanswered questions at completion,
// an empty answer set at scoring, a malformed question id, bad credentials.
// Never retried; surfaced to the caller immediately.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransientError marks failures worth retrying: network unreachable,
// timeouts, server-side 5xx-equivalents. A record left behind a
// TransientError stays unsynced until the next drain.
type TransientError struct {
	Msg string
	Err error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func Transient(msg string, err error) error {
	return &TransientError{Msg: msg, Err: err}
}

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// StorageCorruptionError wraps a parse failure of locally persisted data.
// The corrupted payload is treated as empty rather than crashing; the event
// is logged by the caller.
type StorageCorruptionError struct {
	Err error
}

func (e *StorageCorruptionError) Error() string {
	return fmt.Sprintf("stored data failed to parse: %v", e.Err)
}

func (e *StorageCorruptionError) Unwrap() error {
	return e.Err
}

func IsStorageCorruption(err error) bool {
	var se *StorageCorruptionError
	return errors.As(err, &se)
}

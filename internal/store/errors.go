package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced mistake does not exist.
	ErrNotFound = errors.New("mistake not found")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrStorage is matched by every *StorageError.
	ErrStorage = errors.New("storage failure")
)

// ValidationError reports a rejected field. It is returned before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is reports ErrValidation as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError wraps a failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: failed to %s: %v", e.Op, e.Err)
}

// Unwrap returns the driver error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports ErrStorage as a match.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func notFound(id int64) error {
	return fmt.Errorf("mistake %d: %w", id, ErrNotFound)
}

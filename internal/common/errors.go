package common

import (
	"errors"
	"fmt"
)

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Content validation errors
	ErrInvalidContent  = errors.New("invalid content: delta must be an object with an ops field")
	ErrContentTooLarge = errors.New("content exceeds maximum document size")

	// Versioning errors
	ErrVersionMismatch = errors.New("version does not belong to document")

	// Storage errors
	ErrLoadFailure        = errors.New("stored content unreadable")
	ErrStorageUnavailable = errors.New("object storage unavailable")

	// Concurrency errors
	ErrEditConflict = errors.New("document is being edited by another user")

	// Share errors
	ErrShareNotFound = errors.New("share not found")
	ErrShareExpired  = errors.New("share link expired")
	ErrShareRevoked  = errors.New("share link revoked")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)

// ConflictError reports an autosave edit conflict along with the
// identity currently holding the advisory lock.
type ConflictError struct {
	LockedBy string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("document is being edited by %s", e.LockedBy)
}

// Is makes ConflictError match ErrEditConflict in errors.Is chains
func (e *ConflictError) Is(target error) bool {
	return target == ErrEditConflict
}

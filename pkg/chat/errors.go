package chat

import (
	"errors"
	"fmt"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/store"
)

var (
	// ErrNotFound: the message or group does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized: the requester may not perform this operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation: a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence: the storage collaborator failed; the operation aborted
	// before any push was attempted.
	ErrPersistence = errors.New("persistence failure")
)

// wrapStore maps storage errors into the service taxonomy.
func wrapStore(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

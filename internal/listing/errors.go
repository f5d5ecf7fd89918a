package listing

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound               = errors.New("item not found")
	ErrStatusChangeNotAllowed = errors.New("status change not allowed")
	ErrMutationInFlight       = errors.New("another change to this item is still in progress")
	ErrCancelled              = errors.New("cancelled")
	ErrUnknownStatus          = errors.New("unknown status")
)

// FetchError wraps a failed collection load.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError wraps a failed delete or status update. The local collection
// is untouched when one is returned.
type MutationError struct {
	Op  string
	ID  uuid.UUID
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

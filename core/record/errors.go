package record

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrStoreUnavailable is the kind of StoreError raised when the store cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrStoreConflict is the kind of StoreError raised for any other failure reported by the store driver.
	ErrStoreConflict = errors.New("store rejected the operation")
)

// StoreError is returned by every Repository implementation when the store fails.
// errors.Is(err, ErrStoreUnavailable) / errors.Is(err, ErrStoreConflict) tell the kinds apart.
type StoreError struct {
	Kind       error
	Op         string
	Collection string
	Err        error
}

func NewStoreError(kind error, op, collection string, err error) error {
	return &StoreError{Kind: kind, Op: op, Collection: collection, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Collection, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Kind }

// ErrLookupNotDeclared is returned by QueryByField for fields missing from Schema.Lookups.
type ErrLookupNotDeclared struct {
	Collection string
	Field      string
}

func (e ErrLookupNotDeclared) Error() string {
	return fmt.Sprintf("%s: %q is not a lookup field", e.Collection, e.Field)
}

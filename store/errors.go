package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup, update or delete targets a missing id.
	ErrNotFound = errors.New("store: record not found")

	// ErrReferentialConflict is returned when deleting a client or product that an order still references.
	ErrReferentialConflict = errors.New("store: record is referenced by an order")

	// ErrStorage wraps failures of the backing store itself.
	ErrStorage = errors.New("store: storage fault")

	// ErrCheckoutClosed is returned when a committed or rejected checkout is reused.
	ErrCheckoutClosed = errors.New("store: checkout already finished")
)

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

func notFound(kind string, id uint) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
}

func conflict(kind string, id uint, refs int64) error {
	return fmt.Errorf("%w: %s %d is used by %d order(s)", ErrReferentialConflict, kind, id, refs)
}

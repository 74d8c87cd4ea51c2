package batches

import "errors"

var (
	// ErrNotFound is returned when the batch id does not exist.
	ErrNotFound = errors.New("batch not found")

	// ErrQuantityImmutable is returned when an update tries to change the
	// purchased quantity of an existing batch.
	ErrQuantityImmutable = errors.New("batch quantity is immutable")

	// ErrInUse is returned when deleting a batch that has live allocations
	// (remaining_quantity != quantity).
	ErrInUse = errors.New("batch has allocations and cannot be deleted")

	ErrInvalidQuantity = errors.New("batch quantity must be > 0")
	ErrInvalidPrice    = errors.New("batch purchase price must be >= 0")
)

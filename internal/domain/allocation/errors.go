package allocation

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("allocation not found")

// ValidationError reports a malformed field in a submitted draft. It is a
// business error: the whole edit is rejected, nothing is applied.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// OverAllocationError reports a batch whose requested quantity exceeds what
// the editing owner may draw: the batch's remaining pool plus the owner's own
// pre-existing usage of that batch.
type OverAllocationError struct {
	BatchID   int64
	TrueLimit int64
	Requested int64
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf("batch %d over-allocated: requested %d, limit %d", e.BatchID, e.Requested, e.TrueLimit)
}

// Package errs holds the sentinel errors shared across the ledger layers.
// Callers classify failures with errors.Is and attach detail with fmt.Errorf("%w").
package errs

import "errors"

var (
	// ErrValidation marks malformed or missing input: non-positive amount,
	// unknown recurrence, installment count < 2, kind-required field absent.
	ErrValidation = errors.New("validation")
	// ErrNotFound marks a referenced account/category/card/entry that does
	// not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState marks an operation illegal for the entry's current
	// status, e.g. applying a balance effect twice or paying a card charge
	// directly.
	ErrInvalidState = errors.New("invalid state")
	// ErrConsistency marks detected ledger inconsistencies, e.g. a transfer
	// leg whose partner cannot be located.
	ErrConsistency = errors.New("consistency")
)

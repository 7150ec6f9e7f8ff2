package services

import "errors"

// Domain errors surfaced by the services. Controllers map these onto HTTP
// error codes; anything not in this list is treated as an internal database
// failure.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrValidation means caller-supplied data violates a domain rule. The
	// operation is rejected synchronously with no side effects.
	ErrValidation = errors.New("validation failed")

	// ErrProductUnavailable means a product cannot be rented or consumed in
	// its current state (already rented, archived, out of stock).
	ErrProductUnavailable = errors.New("product unavailable")

	// ErrRentalConflict means a rental product is referenced by more than one
	// active rental order. This is a data-integrity violation that must be
	// surfaced, never resolved by silently picking one order.
	ErrRentalConflict = errors.New("rental conflict: product held by multiple active orders")

	// ErrInvalidTransition means the requested status change is not a legal
	// lifecycle transition.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOverpayment means a payment would push the paid amount past the
	// order total.
	ErrOverpayment = errors.New("payment exceeds order balance")

	// ErrIdentifierExhausted means the identifier generator could not find a
	// free identifier within the bounded retry budget.
	ErrIdentifierExhausted = errors.New("identifier space exhausted")
)

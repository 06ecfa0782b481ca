package domain

import "errors"

var (
	// ErrItemNotFound is returned when a catalog lookup misses. Adding an
	// unknown item to a cart is a silent no-op instead.
	ErrItemNotFound = errors.New("item not found")

	// ErrEmptyCart blocks checkout of a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNotFound is returned by the order store when no order carries the
	// requested id.
	ErrNotFound = errors.New("order not found")

	// ErrDuplicateID is returned by the order store when creating an order
	// whose id already exists.
	ErrDuplicateID = errors.New("order id already exists")

	// ErrIllegalTransition rejects a status change that is not the single
	// forward step from the order's current status.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrUnknownStatus rejects a status value outside the lifecycle.
	ErrUnknownStatus = errors.New("unknown status")
)

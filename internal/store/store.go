// Package store is the single integration point between the customer and
// kitchen sides: a keyed collection of orders plus a change-notification
// feed. Implementations must keep every operation atomic with respect to
// concurrent callers, because a networked deployment has more than one
// writer.
package store

import (
	"context"

	"github.com/codebyom2309/Zenith-cafe-os/internal/domain"
)

type Store interface {
	// ListActive returns every order not yet Served, oldest first.
	ListActive(ctx context.Context) ([]domain.Order, error)

	// Create appends a new order. domain.ErrDuplicateID when the id is
	// already taken.
	Create(ctx context.Context, order domain.Order) error

	// UpdateStatus replaces only the status field of one order.
	// domain.ErrNotFound when the id is unknown, domain.ErrUnknownStatus
	// for a value outside the lifecycle, and domain.ErrIllegalTransition
	// when next is not the single forward step from the current status.
	// The transition check runs inside the store so that two kitchens
	// racing on the same order cannot apply steps out of order.
	UpdateStatus(ctx context.Context, orderID string, next domain.Status) error
}

// Publisher fans a change event out to whoever watches the store. Losing
// an event only delays a dashboard refresh until the next poll, so stores
// treat publish failures as log-worthy, not fatal.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.Event) error { return nil }

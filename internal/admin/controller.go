// Package admin is the kitchen dashboard side: it re-derives its view of
// the world from the store on every change notification and issues status
// transitions back through the store.
package admin

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/codebyom2309/Zenith-cafe-os/internal/domain"
	"github.com/codebyom2309/Zenith-cafe-os/internal/store"
)

// FilterAll selects every active order regardless of status.
const FilterAll = "All"

type Controller struct {
	orders store.Store
	feed   store.Feed
	log    *zap.Logger

	mu       sync.RWMutex
	snapshot []domain.Order
}

func NewController(orders store.Store, feed store.Feed, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{orders: orders, feed: feed, log: log}
}

// Run refreshes once, then again on every feed tick until ctx ends.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		c.log.Error("initial_refresh_failed", zap.Error(err))
	}

	changes, err := c.feed.Changes(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to store changes: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			if err := c.Refresh(ctx); err != nil {
				c.log.Error("refresh_failed", zap.Error(err))
			}
		}
	}
}

// Refresh replaces the displayed snapshot with the latest ListActive
// result. The snapshot is never mutated in place.
func (c *Controller) Refresh(ctx context.Context) error {
	active, err := c.orders.ListActive(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.snapshot = active
	c.mu.Unlock()
	return nil
}

// Orders returns the displayed orders, optionally narrowed to one status.
// Empty filter and FilterAll both mean every active order.
func (c *Controller) Orders(filter string) []domain.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Order, 0, len(c.snapshot))
	for _, o := range c.snapshot {
		if filter != "" && filter != FilterAll && o.Status.String() != filter {
			continue
		}
		o.Items = o.CloneLines()
		out = append(out, o)
	}
	return out
}

// Advance applies one forward status step to an order. The transition is
// validated against the displayed snapshot before touching the store, so
// a stale double-click fails fast; the store re-checks authoritatively.
// On any failure the snapshot stays as it was.
func (c *Controller) Advance(ctx context.Context, orderID string, next domain.Status) error {
	if !next.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownStatus, next)
	}

	cur, ok := c.displayed(orderID)
	if !ok {
		return fmt.Errorf("advance %s: %w", orderID, domain.ErrNotFound)
	}
	if !domain.CanTransition(cur, next) {
		return fmt.Errorf("advance %s: %s -> %s: %w", orderID, cur, next, domain.ErrIllegalTransition)
	}

	if err := c.orders.UpdateStatus(ctx, orderID, next); err != nil {
		return err
	}
	c.log.Info("status_advanced",
		zap.String("order_id", orderID),
		zap.String("from", cur.String()),
		zap.String("to", next.String()),
	)

	if err := c.Refresh(ctx); err != nil {
		c.log.Error("refresh_failed", zap.Error(err))
	}
	return nil
}

func (c *Controller) displayed(orderID string) (domain.Status, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, o := range c.snapshot {
		if o.ID == orderID {
			return o.Status, true
		}
	}
	return "", false
}

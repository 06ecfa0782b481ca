// Package customer is the menu/cart/checkout side. It reads the catalog,
// mutates the session cart and writes exactly one order to the store per
// checkout.
package customer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codebyom2309/Zenith-cafe-os/internal/cart"
	"github.com/codebyom2309/Zenith-cafe-os/internal/catalog"
	"github.com/codebyom2309/Zenith-cafe-os/internal/domain"
	"github.com/codebyom2309/Zenith-cafe-os/internal/store"
)

type Service struct {
	catalog *catalog.Catalog
	carts   *cart.Service
	orders  store.Store
	log     *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewService(cat *catalog.Catalog, carts *cart.Service, orders store.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		catalog: cat,
		carts:   carts,
		orders:  orders,
		log:     log,
		now:     time.Now,
		newID:   func() string { return "ORD-" + uuid.NewString() },
	}
}

// Menu returns the items of one category, or the whole menu when category
// is empty.
func (s *Service) Menu(category string) []domain.Item {
	if category == "" {
		return s.catalog.Items()
	}
	return s.catalog.ByCategory(category)
}

func (s *Service) Categories() []string { return s.catalog.Categories() }

func (s *Service) Cart() *cart.Service { return s.carts }

// PlaceOrder snapshots the session cart into a new order. The cart is
// cleared only after the store accepts the order, so a failed create
// leaves the customer's cart intact for a retry.
func (s *Service) PlaceOrder(ctx context.Context, sessionID, notes string) (domain.Order, error) {
	c, err := s.carts.View(ctx, sessionID)
	if err != nil {
		return domain.Order{}, err
	}
	if c.Empty() {
		return domain.Order{}, domain.ErrEmptyCart
	}

	order := domain.Order{
		ID:        s.newID(),
		Table:     c.Table,
		Items:     append([]domain.Line(nil), c.Lines...),
		Notes:     notes,
		Status:    domain.StatusNew,
		Timestamp: s.now().UTC(),
		Total:     c.Total(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("place order: %w", err)
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// The order is already in; a sticky cart is an inconvenience,
		// not a correctness problem.
		s.log.Warn("cart_clear_failed", zap.String("session", sessionID), zap.Error(err))
	}

	s.log.Info("order_placed",
		zap.String("order_id", order.ID),
		zap.String("table", order.Table),
		zap.Int("lines", len(order.Items)),
		zap.String("total", order.Total.String()),
	)
	return order, nil
}

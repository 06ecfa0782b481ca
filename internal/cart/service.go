// Package cart owns the pre-checkout state of customer sessions. Every
// mutation goes through load-mutate-save on the repository so the same
// service works over the in-memory store and Redis.
package cart

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/codebyom2309/Zenith-cafe-os/internal/catalog"
	"github.com/codebyom2309/Zenith-cafe-os/internal/domain"
)

type Service struct {
	repo    Repository
	catalog *catalog.Catalog
	log     *zap.Logger
}

func NewService(repo Repository, cat *catalog.Catalog, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, catalog: cat, log: log}
}

func (s *Service) load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	c, err := s.repo.Get(ctx, sessionID)
	if errors.Is(err, ErrCartNotFound) {
		return domain.NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return c, nil
}

// Add puts one unit of the item into the session cart. An unknown item id
// is a silent no-op.
func (s *Service) Add(ctx context.Context, sessionID, itemID string) error {
	item, ok := s.catalog.Find(itemID)
	if !ok {
		s.log.Debug("add_unknown_item", zap.String("item_id", itemID))
		return nil
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	c.Add(item)
	return s.repo.Save(ctx, sessionID, c)
}

// ChangeQuantity adjusts a line by delta; the line is removed when its
// quantity drops to zero or below. A missing line is a no-op.
func (s *Service) ChangeQuantity(ctx context.Context, sessionID, itemID string, delta int) error {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	c.ChangeQuantity(itemID, delta)
	return s.repo.Save(ctx, sessionID, c)
}

// SetTable records where the session's order should be delivered. An
// empty designator falls back to takeaway.
func (s *Service) SetTable(ctx context.Context, sessionID, table string) error {
	if table == "" {
		table = domain.TakeawayTable
	}
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	c.Table = table
	return s.repo.Save(ctx, sessionID, c)
}

// View returns a copy of the session cart; a session without a cart reads
// as an empty takeaway cart.
func (s *Service) View(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.load(ctx, sessionID)
}

// Clear empties the cart after a successful checkout.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	c.Clear()
	return s.repo.Save(ctx, sessionID, c)
}

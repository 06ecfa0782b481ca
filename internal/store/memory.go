package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/codebyom2309/Zenith-cafe-os/internal/domain"
)

// Memory is the reference backing store: single process, mutex-guarded,
// the contract every networked implementation is tested against.
type Memory struct {
	mu     sync.RWMutex
	orders []domain.Order
	index  map[string]int

	pub Publisher
	log *zap.Logger
}

func NewMemory(pub Publisher, log *zap.Logger) *Memory {
	if pub == nil {
		pub = NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Memory{index: make(map[string]int), pub: pub, log: log}
}

func (m *Memory) ListActive(_ context.Context) ([]domain.Order, error) {
	m.mu.RLock()
	active := make([]domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if o.Status.IsTerminal() {
			continue
		}
		o.Items = o.CloneLines()
		active = append(active, o)
	}
	m.mu.RUnlock()

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Timestamp.Before(active[j].Timestamp)
	})
	return active, nil
}

func (m *Memory) Create(ctx context.Context, order domain.Order) error {
	m.mu.Lock()
	if _, exists := m.index[order.ID]; exists {
		m.mu.Unlock()
		return fmt.Errorf("create %s: %w", order.ID, domain.ErrDuplicateID)
	}
	order.Items = order.CloneLines()
	m.index[order.ID] = len(m.orders)
	m.orders = append(m.orders, order)
	m.mu.Unlock()

	m.notify(ctx, domain.Event{Kind: domain.EventOrderCreated, OrderID: order.ID, Status: order.Status, At: time.Now().UTC()})
	return nil
}

func (m *Memory) UpdateStatus(ctx context.Context, orderID string, next domain.Status) error {
	if !next.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownStatus, next)
	}

	m.mu.Lock()
	i, ok := m.index[orderID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("update %s: %w", orderID, domain.ErrNotFound)
	}
	cur := m.orders[i].Status
	if !domain.CanTransition(cur, next) {
		m.mu.Unlock()
		return fmt.Errorf("update %s: %s -> %s: %w", orderID, cur, next, domain.ErrIllegalTransition)
	}
	m.orders[i].Status = next
	m.mu.Unlock()

	m.notify(ctx, domain.Event{Kind: domain.EventStatusChanged, OrderID: orderID, Status: next, At: time.Now().UTC()})
	return nil
}

func (m *Memory) notify(ctx context.Context, ev domain.Event) {
	if err := m.pub.Publish(ctx, ev); err != nil {
		m.log.Warn("event_publish_failed", zap.String("order_id", ev.OrderID), zap.Error(err))
	}
}

package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/codebyom2309/Zenith-cafe-os/internal/domain"
)

// ErrCartNotFound means the session has no cart yet. Callers usually
// treat it as an empty cart.
var ErrCartNotFound = errors.New("cart not found")

// Repository stores per-session carts. Implementations must return
// independent copies so two handlers never share a lines slice.
type Repository interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, sessionID string, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryRepository is the reference single-process cart store.
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string]domain.Cart)}
}

func (m *MemoryRepository) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[sessionID]
	if !ok {
		return nil, ErrCartNotFound
	}
	out := c
	out.Lines = make([]domain.Line, len(c.Lines))
	copy(out.Lines, c.Lines)
	return &out, nil
}

func (m *MemoryRepository) Save(_ context.Context, sessionID string, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *cart
	stored.Lines = make([]domain.Line, len(cart.Lines))
	copy(stored.Lines, cart.Lines)
	m.carts[sessionID] = stored
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

package customer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebyom2309/Zenith-cafe-os/internal/cart"
	"github.com/codebyom2309/Zenith-cafe-os/internal/catalog"
	"github.com/codebyom2309/Zenith-cafe-os/internal/domain"
)

type mockStore struct {
	mu        sync.Mutex
	created   []domain.Order
	createErr error
}

func (m *mockStore) ListActive(context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Order(nil), m.created...), nil
}

func (m *mockStore) Create(_ context.Context, o domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, o)
	return nil
}

func (m *mockStore) UpdateStatus(context.Context, string, domain.Status) error { return nil }

func testCatalog() *catalog.Catalog {
	return catalog.New([]domain.Item{
		{ID: "A", Name: "Flat White", Price: decimal.RequireFromString("4.50"), Category: "Drinks"},
		{ID: "B", Name: "Avocado Toast", Price: decimal.RequireFromString("9.50"), Category: "Meals"},
	})
}

func newTestService(orders *mockStore) *Service {
	cat := testCatalog()
	carts := cart.NewService(cart.NewMemoryRepository(), cat, nil)
	svc := NewService(cat, carts, orders, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "ORD-1" }
	return svc
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	ctx := context.Background()
	orders := &mockStore{}
	svc := newTestService(orders)

	_, err := svc.PlaceOrder(ctx, "s1", "")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Empty(t, orders.created, "no order may be created for an empty cart")
}

func TestPlaceOrderSnapshotsCart(t *testing.T) {
	ctx := context.Background()
	orders := &mockStore{}
	svc := newTestService(orders)

	require.NoError(t, svc.Cart().SetTable(ctx, "s1", "5"))
	require.NoError(t, svc.Cart().Add(ctx, "s1", "A"))
	require.NoError(t, svc.Cart().Add(ctx, "s1", "A"))
	require.NoError(t, svc.Cart().Add(ctx, "s1", "B"))

	order, err := svc.PlaceOrder(ctx, "s1", "extra hot")
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", order.ID)
	assert.Equal(t, "5", order.Table)
	assert.Equal(t, "extra hot", order.Notes)
	assert.Equal(t, domain.StatusNew, order.Status)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), order.Timestamp)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("18.50")), "total = %s", order.Total)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Qty)

	// Cart is cleared only after the store accepted the order.
	c, err := svc.Cart().View(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestPlaceOrderDefaultTableIsTakeaway(t *testing.T) {
	ctx := context.Background()
	orders := &mockStore{}
	svc := newTestService(orders)
	require.NoError(t, svc.Cart().Add(ctx, "s1", "A"))

	order, err := svc.PlaceOrder(ctx, "s1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.TakeawayTable, order.Table)
}

func TestPlaceOrderKeepsCartOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	orders := &mockStore{createErr: domain.ErrDuplicateID}
	svc := newTestService(orders)
	require.NoError(t, svc.Cart().Add(ctx, "s1", "A"))

	_, err := svc.PlaceOrder(ctx, "s1", "")
	assert.ErrorIs(t, err, domain.ErrDuplicateID)

	c, viewErr := svc.Cart().View(ctx, "s1")
	require.NoError(t, viewErr)
	assert.Equal(t, 1, c.Count(), "cart must survive a failed create")
}

func TestPlaceOrderTotalImmuneToCatalogChanges(t *testing.T) {
	// An order keeps the price recorded at creation even if the catalog
	// is later reloaded with different prices.
	ctx := context.Background()
	orders := &mockStore{}
	svc := newTestService(orders)
	require.NoError(t, svc.Cart().Add(ctx, "s1", "A"))

	order, err := svc.PlaceOrder(ctx, "s1", "")
	require.NoError(t, err)

	svc.catalog = catalog.New([]domain.Item{
		{ID: "A", Name: "Flat White", Price: decimal.RequireFromString("99.00"), Category: "Drinks"},
	})

	stored, err := orders.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Total.Equal(order.Total))
	assert.True(t, stored[0].Items[0].Price.Equal(decimal.RequireFromString("4.50")))
}

func TestMenuFiltering(t *testing.T) {
	svc := newTestService(&mockStore{})

	assert.Len(t, svc.Menu(""), 2)
	drinks := svc.Menu("Drinks")
	require.Len(t, drinks, 1)
	assert.Equal(t, "A", drinks[0].ID)
	assert.Empty(t, svc.Menu("Desserts"))
	assert.Equal(t, []string{"Drinks", "Meals"}, svc.Categories())
}

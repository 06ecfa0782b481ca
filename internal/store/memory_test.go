package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebyom2309/Zenith-cafe-os/internal/domain"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (c *capturePublisher) Publish(_ context.Context, ev domain.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *capturePublisher) kinds() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.Kind
	}
	return out
}

func testOrder(id string, status domain.Status, ts time.Time) domain.Order {
	return domain.Order{
		ID:        id,
		Table:     "5",
		Items:     []domain.Line{{ID: "d1", Name: "Oat Flat White", Price: decimal.RequireFromString("4.50"), Qty: 2}},
		Status:    status,
		Timestamp: ts,
		Total:     decimal.RequireFromString("9.00"),
	}
}

func TestCreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil, nil)

	require.NoError(t, m.Create(ctx, testOrder("ORD-1", domain.StatusNew, time.Now())))
	err := m.Create(ctx, testOrder("ORD-1", domain.StatusNew, time.Now()))
	assert.ErrorIs(t, err, domain.ErrDuplicateID)

	active, err := m.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1, "failed create must not append")
}

func TestUpdateStatusMissingOrderLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil, nil)
	require.NoError(t, m.Create(ctx, testOrder("ORD-1", domain.StatusNew, time.Now())))

	err := m.UpdateStatus(ctx, "missing-id", domain.StatusReady)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	active, err := m.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, domain.StatusNew, active[0].Status)
}

func TestUpdateStatusOnlyTouchesStatus(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil, nil)
	orig := testOrder("ORD-1", domain.StatusNew, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	orig.Notes = "no sugar"
	require.NoError(t, m.Create(ctx, orig))

	require.NoError(t, m.UpdateStatus(ctx, "ORD-1", domain.StatusPreparing))

	active, err := m.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	got := active[0]
	assert.Equal(t, domain.StatusPreparing, got.Status)
	assert.Equal(t, orig.Notes, got.Notes)
	assert.Equal(t, orig.Table, got.Table)
	assert.Equal(t, orig.Timestamp, got.Timestamp)
	assert.True(t, got.Total.Equal(orig.Total), "total stays frozen at creation")
	assert.Equal(t, orig.Items, got.Items)
}

func TestUpdateStatusRejectsSkipsAndBackwardMoves(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil, nil)
	require.NoError(t, m.Create(ctx, testOrder("ORD-1", domain.StatusNew, time.Now())))

	// Skipping a state.
	err := m.UpdateStatus(ctx, "ORD-1", domain.StatusReady)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	// Full legal walk.
	require.NoError(t, m.UpdateStatus(ctx, "ORD-1", domain.StatusPreparing))
	require.NoError(t, m.UpdateStatus(ctx, "ORD-1", domain.StatusReady))

	// Backward.
	err = m.UpdateStatus(ctx, "ORD-1", domain.StatusPreparing)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	// Unknown value.
	err = m.UpdateStatus(ctx, "ORD-1", domain.Status("Cooking"))
	assert.ErrorIs(t, err, domain.ErrUnknownStatus)

	require.NoError(t, m.UpdateStatus(ctx, "ORD-1", domain.StatusServed))

	// Terminal: nothing is legal from Served, including Served again.
	err = m.UpdateStatus(ctx, "ORD-1", domain.StatusServed)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestListActiveExcludesServedAndSortsByTimestamp(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil, nil)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Inserted out of timestamp order on purpose.
	require.NoError(t, m.Create(ctx, testOrder("ORD-3", domain.StatusNew, base.Add(2*time.Minute))))
	require.NoError(t, m.Create(ctx, testOrder("ORD-1", domain.StatusNew, base)))
	require.NoError(t, m.Create(ctx, testOrder("ORD-2", domain.StatusNew, base.Add(time.Minute))))

	// Walk ORD-2 to Served.
	require.NoError(t, m.UpdateStatus(ctx, "ORD-2", domain.StatusPreparing))
	require.NoError(t, m.UpdateStatus(ctx, "ORD-2", domain.StatusReady))
	require.NoError(t, m.UpdateStatus(ctx, "ORD-2", domain.StatusServed))

	active, err := m.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "ORD-1", active[0].ID)
	assert.Equal(t, "ORD-3", active[1].ID)
	for _, o := range active {
		assert.NotEqual(t, domain.StatusServed, o.Status)
	}
}

func TestListActiveReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil, nil)
	require.NoError(t, m.Create(ctx, testOrder("ORD-1", domain.StatusNew, time.Now())))

	active, err := m.ListActive(ctx)
	require.NoError(t, err)
	active[0].Status = domain.StatusServed
	active[0].Items[0].Qty = 99

	again, err := m.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, again, 1, "mutating a returned order must not touch the store")
	assert.Equal(t, domain.StatusNew, again[0].Status)
	assert.Equal(t, 2, again[0].Items[0].Qty)
}

func TestMutationsPublishEvents(t *testing.T) {
	ctx := context.Background()
	pub := &capturePublisher{}
	m := NewMemory(pub, nil)

	require.NoError(t, m.Create(ctx, testOrder("ORD-1", domain.StatusNew, time.Now())))
	require.NoError(t, m.UpdateStatus(ctx, "ORD-1", domain.StatusPreparing))
	_ = m.UpdateStatus(ctx, "missing", domain.StatusPreparing)

	assert.Equal(t, []string{domain.EventOrderCreated, domain.EventStatusChanged}, pub.kinds(),
		"failed mutations publish nothing")
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The persisted record shape carries money as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// TakeawayTable is the reserved table designator for non-seated orders.
const TakeawayTable = "Takeaway"

// Item is a catalog entry. Items are defined by the catalog and never
// created or destroyed at runtime.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Desc     string          `json:"desc"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Img      string          `json:"img"`
}

// Line is an item snapshot plus quantity. A line is never held with a
// quantity below 1; dropping to zero removes it.
type Line struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Desc     string          `json:"desc"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Img      string          `json:"img"`
	Qty      int             `json:"qty"`
}

// Order is a submitted purchase request. After creation only the status
// field ever changes; the total is frozen at checkout so later catalog
// price changes cannot affect it.
type Order struct {
	ID        string          `json:"id"`
	Table     string          `json:"table"`
	Items     []Line          `json:"items"`
	Notes     string          `json:"notes"`
	Status    Status          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Total     decimal.Decimal `json:"total"`
}

// CloneLines returns an independent copy of the order's lines.
func (o Order) CloneLines() []Line {
	lines := make([]Line, len(o.Items))
	copy(lines, o.Items)
	return lines
}

// Cart is the pre-checkout state of one customer session. Mutations keep
// insertion order; totals are derived on demand and never cached.
type Cart struct {
	Table string `json:"table"`
	Lines []Line `json:"lines"`
}

func NewCart() *Cart { return &Cart{Table: TakeawayTable} }

// Add increments the line for item by one, inserting a fresh line with
// quantity 1 when none exists. Existing lines keep their position.
func (c *Cart) Add(item Item) {
	for i := range c.Lines {
		if c.Lines[i].ID == item.ID {
			c.Lines[i].Qty++
			return
		}
	}
	c.Lines = append(c.Lines, Line{
		ID:       item.ID,
		Name:     item.Name,
		Desc:     item.Desc,
		Price:    item.Price,
		Category: item.Category,
		Img:      item.Img,
		Qty:      1,
	})
}

// ChangeQuantity adds delta to the matching line's quantity, removing the
// line entirely when the result drops to zero or below. A missing line is
// a no-op.
func (c *Cart) ChangeQuantity(itemID string, delta int) {
	for i := range c.Lines {
		if c.Lines[i].ID != itemID {
			continue
		}
		c.Lines[i].Qty += delta
		if c.Lines[i].Qty <= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		}
		return
	}
}

// Total sums price*qty over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	return total
}

// Count sums the quantities of all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Qty
	}
	return n
}

func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

// Clear drops all lines, keeping the table designator.
func (c *Cart) Clear() { c.Lines = nil }

// Package catalog holds the read-only menu the customer side sells from.
// Items are fixed for the lifetime of the process; orders snapshot them so
// a menu reload can never rewrite history.
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/codebyom2309/Zenith-cafe-os/internal/domain"
)

type Catalog struct {
	items []domain.Item
	byID  map[string]domain.Item
}

func New(items []domain.Item) *Catalog {
	c := &Catalog{
		items: make([]domain.Item, len(items)),
		byID:  make(map[string]domain.Item, len(items)),
	}
	copy(c.items, items)
	for _, it := range c.items {
		c.byID[it.ID] = it
	}
	return c
}

// Default is the built-in Zenith menu.
func Default() *Catalog {
	return New([]domain.Item{
		{ID: "d1", Name: "Oat Flat White", Desc: "Smooth espresso with steamed oat milk.", Price: decimal.RequireFromString("4.50"), Category: "Drinks", Img: "https://images.unsplash.com/photo-1579992357154-faf4bde95b3d?auto=format&fit=crop&w=300&q=80"},
		{ID: "d2", Name: "Matcha Latte", Desc: "Ceremonial grade matcha, lightly sweetened.", Price: decimal.RequireFromString("5.00"), Category: "Drinks", Img: "https://images.unsplash.com/photo-1515823662972-da6a2e4d3002?auto=format&fit=crop&w=300&q=80"},
		{ID: "m1", Name: "Avocado Toast", Desc: "Sourdough, smashed avocado, chili flakes.", Price: decimal.RequireFromString("9.50"), Category: "Meals", Img: "https://images.unsplash.com/photo-1603048297172-c92544798d5e?auto=format&fit=crop&w=300&q=80"},
		{ID: "s1", Name: "Almond Croissant", Desc: "Flaky pastry filled with almond frangipane.", Price: decimal.RequireFromString("4.00"), Category: "Snacks", Img: "https://images.unsplash.com/photo-1530610476181-d83430b64dcb?auto=format&fit=crop&w=300&q=80"},
	})
}

type fileItem struct {
	ID       string  `mapstructure:"id"`
	Name     string  `mapstructure:"name"`
	Desc     string  `mapstructure:"desc"`
	Price    float64 `mapstructure:"price"`
	Category string  `mapstructure:"category"`
	Img      string  `mapstructure:"img"`
}

// LoadFile reads a menu from a YAML file with a top-level `items` list.
func LoadFile(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}

	var raw []fileItem
	if err := v.UnmarshalKey("items", &raw); err != nil {
		return nil, fmt.Errorf("parse menu file: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("menu file %s has no items", path)
	}

	items := make([]domain.Item, 0, len(raw))
	for _, fi := range raw {
		if fi.ID == "" || fi.Name == "" {
			return nil, fmt.Errorf("menu file %s: item missing id or name", path)
		}
		price := decimal.NewFromFloat(fi.Price)
		if price.IsNegative() {
			return nil, fmt.Errorf("menu file %s: item %s has negative price", path, fi.ID)
		}
		items = append(items, domain.Item{
			ID:       fi.ID,
			Name:     fi.Name,
			Desc:     fi.Desc,
			Price:    price,
			Category: fi.Category,
			Img:      fi.Img,
		})
	}
	return New(items), nil
}

// Items returns the full menu in definition order.
func (c *Catalog) Items() []domain.Item {
	out := make([]domain.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Find looks up an item by id.
func (c *Catalog) Find(id string) (domain.Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// Categories returns the distinct categories in first-seen order, matching
// how the menu tabs are laid out.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var cats []string
	for _, it := range c.items {
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		cats = append(cats, it.Category)
	}
	return cats
}

// ByCategory returns the items of one category, keeping menu order.
func (c *Catalog) ByCategory(category string) []domain.Item {
	var out []domain.Item
	for _, it := range c.items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// Package menu holds the read-only item catalog the ordering engine
// sells from. The catalog is externally supplied (YAML file or a
// built-in default) and never mutated by the engine.
package menu

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"

	"github.com/qikao/ordering/internal/money"
)

// Item is one sellable catalog entry.
type Item struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Price       money.Money `yaml:"-"`
	Image       string      `yaml:"image"`
	Category    string      `yaml:"category"`
}

// Catalog is an immutable, ordered set of items with id lookup.
type Catalog struct {
	items []Item
	byID  map[string]Item
}

// NewCatalog validates and indexes the given items.
//
// Validation rules:
//   - ids are non-empty and unique
//   - names are non-empty
//   - prices are non-negative and share one currency
func NewCatalog(items []Item) (*Catalog, error) {
	byID := make(map[string]Item, len(items))
	var unit currency.Unit

	for i, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("item %d: empty id", i)
		}
		if item.Name == "" {
			return nil, fmt.Errorf("item %q: empty name", item.ID)
		}
		if _, dup := byID[item.ID]; dup {
			return nil, fmt.Errorf("item %q: duplicate id", item.ID)
		}
		if item.Price.IsNegative() {
			return nil, fmt.Errorf("item %q: negative price", item.ID)
		}
		if i == 0 {
			unit = item.Price.Currency
		} else if item.Price.Currency != unit {
			return nil, fmt.Errorf("item %q: currency %s, catalog uses %s",
				item.ID, item.Price.Currency, unit)
		}
		byID[item.ID] = item
	}

	return &Catalog{items: append([]Item(nil), items...), byID: byID}, nil
}

// Items returns the catalog in declaration order.
// The returned slice is a copy; callers may not mutate the catalog.
func (c *Catalog) Items() []Item {
	return append([]Item(nil), c.items...)
}

// ByID looks an item up by identifier.
func (c *Catalog) ByID(id string) (Item, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// Currency returns the catalog's single pricing currency.
// An empty catalog reports the zero Unit.
func (c *Catalog) Currency() currency.Unit {
	if len(c.items) == 0 {
		return currency.Unit{}
	}
	return c.items[0].Price.Currency
}

// Categories returns the distinct category tags in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range c.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	return out
}

// Filter returns the items in the given category, or all items when
// category is empty or "all".
func (c *Catalog) Filter(category string) []Item {
	if category == "" || category == "all" {
		return c.Items()
	}
	var out []Item
	for _, item := range c.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// Search returns items whose name or description contains the query,
// case-insensitive. An empty query matches everything.
func (c *Catalog) Search(query string) []Item {
	if query == "" {
		return c.Items()
	}
	q := strings.ToLower(query)
	var out []Item
	for _, item := range c.items {
		if strings.Contains(strings.ToLower(item.Name), q) ||
			strings.Contains(strings.ToLower(item.Description), q) {
			out = append(out, item)
		}
	}
	return out
}

// Package cart holds the active cart: distinct menu items in the order they
// were first added, each with a quantity of at least one.
package cart

import (
	"errors"
	"fmt"

	"gourmet/internal/models"

	"github.com/shopspring/decimal"
)

// ErrInvalidQuantity is returned when an add is attempted with a quantity below one
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Cart is the mutable set of cart lines. It is not safe for concurrent use;
// the owning session serializes access.
type Cart struct {
	items      []models.MenuItem
	quantities map[string]int
}

// Snapshot is an immutable copy of a cart at one point in time
type Snapshot struct {
	Lines []models.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
}

// New creates an empty cart
func New() *Cart {
	return &Cart{quantities: make(map[string]int)}
}

// Add puts quantity units of item into the cart. Repeated adds of the same
// item accumulate. A quantity below one is rejected and leaves the cart as is.
func (c *Cart) Add(item models.MenuItem, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("add %s x%d: %w", item.ID, quantity, ErrInvalidQuantity)
	}
	if _, ok := c.quantities[item.ID]; !ok {
		c.items = append(c.items, item.Clone())
	}
	c.quantities[item.ID] += quantity
	return nil
}

// Remove drops the line for itemID. Unknown ids are ignored.
func (c *Cart) Remove(itemID string) {
	if _, ok := c.quantities[itemID]; !ok {
		return
	}
	delete(c.quantities, itemID)
	for i, it := range c.items {
		if it.ID == itemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
}

// UpdateQuantity overwrites the quantity of an existing line. A quantity of
// zero or less removes the line. Ids not in the cart are ignored.
func (c *Cart) UpdateQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		c.Remove(itemID)
		return
	}
	if _, ok := c.quantities[itemID]; !ok {
		return
	}
	c.quantities[itemID] = quantity
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.items = nil
	c.quantities = make(map[string]int)
}

// Quantity returns the quantity for itemID, zero when absent
func (c *Cart) Quantity(itemID string) int {
	return c.quantities[itemID]
}

// Len returns the number of distinct lines
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Items returns the distinct items in insertion order
func (c *Cart) Items() []models.MenuItem {
	out := make([]models.MenuItem, len(c.items))
	for i, it := range c.items {
		out[i] = it.Clone()
	}
	return out
}

// Lines returns the cart lines with their line totals
func (c *Cart) Lines() []models.CartLine {
	lines := make([]models.CartLine, len(c.items))
	for i, it := range c.items {
		qty := c.quantities[it.ID]
		lines[i] = models.CartLine{
			Item:      it.Clone(),
			Quantity:  qty,
			LineTotal: it.Price.Mul(decimal.NewFromInt(int64(qty))),
		}
	}
	return lines
}

// Total sums price times quantity over the current lines. It is computed on
// every call and never cached.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(c.quantities[it.ID]))))
	}
	return total
}

// Snapshot copies the current lines and total
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{Lines: c.Lines(), Total: c.Total()}
}

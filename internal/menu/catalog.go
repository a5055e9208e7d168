// Package menu provides the read-only menu catalog. Catalog order, the order
// items were defined in, is preserved by every accessor.
package menu

import (
	"fmt"
	"strings"

	"gourmet/internal/models"
)

// Catalog is an immutable, ordered set of menu items
type Catalog struct {
	items []models.MenuItem
	index map[string]int
}

// New builds a catalog from items in catalog order. Items are validated and
// ids must be unique.
func New(items []models.MenuItem) (*Catalog, error) {
	c := &Catalog{
		items: make([]models.MenuItem, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for i := range items {
		item := items[i].Clone()
		if err := models.ValidateMenuItem(&item); err != nil {
			return nil, err
		}
		if _, dup := c.index[item.ID]; dup {
			return nil, fmt.Errorf("duplicate menu item id %q", item.ID)
		}
		c.index[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}
	return c, nil
}

// Len returns the number of items in the catalog
func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns every item in catalog order
func (c *Catalog) Items() []models.MenuItem {
	return c.filter(func(*models.MenuItem) bool { return true })
}

// ByID looks up a single item. A missing id is reported as absence.
func (c *Catalog) ByID(id string) (models.MenuItem, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.MenuItem{}, false
	}
	return c.items[i].Clone(), true
}

// ByCategory returns the items of one category
func (c *Catalog) ByCategory(category models.MenuCategory) []models.MenuItem {
	return c.filter(func(it *models.MenuItem) bool { return it.IsInCategory(category) })
}

// ByTag returns the items carrying tag
func (c *Catalog) ByTag(tag string) []models.MenuItem {
	return c.filter(func(it *models.MenuItem) bool { return it.HasTag(tag) })
}

// PopularItems returns every item flagged popular
func (c *Catalog) PopularItems() []models.MenuItem {
	return c.filter(func(it *models.MenuItem) bool { return it.Popular })
}

// Search matches query case-insensitively against name, description, tags
// and ingredients. A blank query matches nothing.
func (c *Catalog) Search(query string) []models.MenuItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.MenuItem{}
	}
	return c.filter(func(it *models.MenuItem) bool {
		if strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(it.Description), q) {
			return true
		}
		return containsFold(it.Tags, q) || containsFold(it.Ingredients, q)
	})
}

func (c *Catalog) filter(keep func(*models.MenuItem) bool) []models.MenuItem {
	out := make([]models.MenuItem, 0)
	for i := range c.items {
		if keep(&c.items[i]) {
			out = append(out, c.items[i].Clone())
		}
	}
	return out
}

func containsFold(values []string, q string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

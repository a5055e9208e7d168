package api

import (
	"net/http"
	"strconv"

	"gourmet/internal/models"

	"github.com/gin-gonic/gin"
)

// ListMenu returns the menu in catalog order, narrowed by the optional
// category, tag, popular and q query parameters
func (a *API) ListMenu(c *gin.Context) {
	items := a.catalog.Items()

	if q := c.Query("q"); q != "" {
		items = a.catalog.Search(q)
	}
	if raw := c.Query("category"); raw != "" {
		category := models.MenuCategory(raw)
		if !category.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category: " + raw})
			return
		}
		items = keep(items, func(it *models.MenuItem) bool { return it.IsInCategory(category) })
	}
	if tag := c.Query("tag"); tag != "" {
		items = keep(items, func(it *models.MenuItem) bool { return it.HasTag(tag) })
	}
	if raw := c.Query("popular"); raw != "" {
		popular, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "popular must be true or false"})
			return
		}
		items = keep(items, func(it *models.MenuItem) bool { return it.Popular == popular })
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// GetMenuItem returns a single menu item
func (a *API) GetMenuItem(c *gin.Context) {
	item, ok := a.catalog.ByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetPairings returns the items that pair with a menu item
func (a *API) GetPairings(c *gin.Context) {
	id := c.Param("id")
	if _, ok := a.catalog.ByID(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": a.engine.PairingsFor(id)})
}

func keep(items []models.MenuItem, pred func(*models.MenuItem) bool) []models.MenuItem {
	out := make([]models.MenuItem, 0, len(items))
	for i := range items {
		if pred(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

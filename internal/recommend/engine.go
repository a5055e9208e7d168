// Package recommend selects complementary menu items for a cart.
//
// Selection is filter-based: items are kept or dropped by fixed rules and the
// first matches in catalog order win. There is no scoring.
package recommend

import (
	"gourmet/internal/menu"
	"gourmet/internal/models"
)

const (
	// MaxRecommendations caps the result of Recommend
	MaxRecommendations = 3
	// MaxPairings caps the result of PairingsFor
	MaxPairings = 2
)

// Engine produces recommendations from a catalog
type Engine struct {
	catalog *menu.Catalog
}

// NewEngine creates a recommendation engine over catalog
func NewEngine(catalog *menu.Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Recommend returns up to three items that complement selection and match prefs.
//
// With an empty selection the popular items are used. Otherwise an item
// qualifies when it fills a missing drink or dessert, or shares a tag with the
// selection. Items already selected are never returned.
func (e *Engine) Recommend(selection []models.MenuItem, prefs Preferences) []models.MenuItem {
	if len(selection) == 0 {
		return firstN(e.catalog.PopularItems(), MaxRecommendations, prefs.Matches)
	}

	selectedIDs := make(map[string]bool, len(selection))
	selectedTags := make(map[string]bool)
	needsDrink, needsDessert := true, true
	for _, it := range selection {
		selectedIDs[it.ID] = true
		for _, tag := range it.Tags {
			selectedTags[tag] = true
		}
		switch it.Category {
		case models.CategoryDrinks:
			needsDrink = false
		case models.CategoryDesserts:
			needsDessert = false
		}
	}

	qualifies := func(it models.MenuItem) bool {
		if selectedIDs[it.ID] {
			return false
		}
		complements := (needsDrink && it.Category == models.CategoryDrinks) ||
			(needsDessert && it.Category == models.CategoryDesserts) ||
			sharesTag(it.Tags, selectedTags)
		return complements && prefs.Matches(it)
	}

	return firstN(e.catalog.Items(), MaxRecommendations, qualifies)
}

// PairingsFor returns up to two items that pair with the given item: those in
// its complementary category or sharing one of its tags. An unknown id yields
// an empty result.
func (e *Engine) PairingsFor(itemID string) []models.MenuItem {
	source, ok := e.catalog.ByID(itemID)
	if !ok {
		return []models.MenuItem{}
	}

	complement := ComplementaryCategory(source.Category)
	sourceTags := make(map[string]bool, len(source.Tags))
	for _, tag := range source.Tags {
		sourceTags[tag] = true
	}

	return firstN(e.catalog.Items(), MaxPairings, func(it models.MenuItem) bool {
		if it.ID == source.ID {
			return false
		}
		return it.Category == complement || sharesTag(it.Tags, sourceTags)
	})
}

// Suggestions groups the popular items, the recommendations for selection and
// the pairings of the most recently added selection item.
func (e *Engine) Suggestions(selection []models.MenuItem, prefs Preferences) []models.Suggestion {
	suggestions := []models.Suggestion{
		{Type: models.SuggestionPopular, MenuItemIDs: itemIDs(e.catalog.PopularItems())},
		{Type: models.SuggestionRecommended, MenuItemIDs: itemIDs(e.Recommend(selection, prefs))},
	}
	if len(selection) > 0 {
		last := selection[len(selection)-1]
		suggestions = append(suggestions, models.Suggestion{
			Type:        models.SuggestionPairsWell,
			MenuItemIDs: itemIDs(e.PairingsFor(last.ID)),
		})
	}
	return suggestions
}

// ComplementaryCategory maps a category onto the one that pairs with it:
// starters to mains to desserts to drinks and back to starters.
func ComplementaryCategory(category models.MenuCategory) models.MenuCategory {
	switch category {
	case models.CategoryStarters:
		return models.CategoryMains
	case models.CategoryMains:
		return models.CategoryDesserts
	case models.CategoryDesserts:
		return models.CategoryDrinks
	case models.CategoryDrinks:
		return models.CategoryStarters
	default:
		return models.CategoryMains
	}
}

func firstN(items []models.MenuItem, n int, keep func(models.MenuItem) bool) []models.MenuItem {
	out := make([]models.MenuItem, 0, n)
	for _, it := range items {
		if len(out) == n {
			break
		}
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func sharesTag(tags []string, set map[string]bool) bool {
	for _, tag := range tags {
		if set[tag] {
			return true
		}
	}
	return false
}

func itemIDs(items []models.MenuItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

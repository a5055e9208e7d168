package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MenuItem represents a dish or drink on the menu
type MenuItem struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	Image           string           `json:"image"`
	Category        MenuCategory     `json:"category"`
	Tags            []string         `json:"tags"`
	Popular         bool             `json:"popular"`
	Ingredients     []string         `json:"ingredients"`
	Allergens       []string         `json:"allergens,omitempty"`
	NutritionalInfo *NutritionalInfo `json:"nutritionalInfo,omitempty"`
}

// NutritionalInfo holds per-serving nutrition facts. Calories are always present.
type NutritionalInfo struct {
	Calories int      `json:"calories"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

// MenuCategory represents the category of a menu item
type MenuCategory string

const (
	// Menu categories
	CategoryStarters MenuCategory = "starters"
	CategoryMains    MenuCategory = "mains"
	CategoryDesserts MenuCategory = "desserts"
	CategoryDrinks   MenuCategory = "drinks"
)

// Categories lists the menu categories in display order.
var Categories = []MenuCategory{CategoryStarters, CategoryMains, CategoryDesserts, CategoryDrinks}

// Valid reports whether c is one of the fixed menu categories.
func (c MenuCategory) Valid() bool {
	switch c {
	case CategoryStarters, CategoryMains, CategoryDesserts, CategoryDrinks:
		return true
	}
	return false
}

// ValidateMenuItem validates a menu item
func ValidateMenuItem(item *MenuItem) error {
	if item.ID == "" {
		return fmt.Errorf("menu item id is required")
	}
	if item.Name == "" {
		return fmt.Errorf("menu item %s: name is required", item.ID)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("menu item %s: price must not be negative", item.ID)
	}
	if !item.Category.Valid() {
		return fmt.Errorf("menu item %s: unknown category %q", item.ID, item.Category)
	}
	if item.NutritionalInfo != nil && item.NutritionalInfo.Calories < 0 {
		return fmt.Errorf("menu item %s: calories must not be negative", item.ID)
	}
	return nil
}

// HasTag checks if the item carries a specific tag
func (mi *MenuItem) HasTag(tag string) bool {
	for _, t := range mi.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasIngredient checks if the item contains a specific ingredient
func (mi *MenuItem) HasIngredient(ingredient string) bool {
	for _, ing := range mi.Ingredients {
		if ing == ingredient {
			return true
		}
	}
	return false
}

// HasAllergen checks if the item contains a specific allergen
func (mi *MenuItem) HasAllergen(allergen string) bool {
	for _, alg := range mi.Allergens {
		if alg == allergen {
			return true
		}
	}
	return false
}

// IsInCategory checks if the item belongs to a specific category
func (mi *MenuItem) IsInCategory(category MenuCategory) bool {
	return mi.Category == category
}

// Clone returns a deep copy so callers cannot alias catalog slices.
func (mi MenuItem) Clone() MenuItem {
	out := mi
	out.Tags = append([]string(nil), mi.Tags...)
	out.Ingredients = append([]string(nil), mi.Ingredients...)
	if mi.Allergens != nil {
		out.Allergens = append([]string(nil), mi.Allergens...)
	}
	if mi.NutritionalInfo != nil {
		info := *mi.NutritionalInfo
		out.NutritionalInfo = &info
	}
	return out
}

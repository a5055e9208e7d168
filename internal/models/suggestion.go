package models

// SuggestionType represents why a set of items is being suggested
type SuggestionType string

const (
	SuggestionPopular     SuggestionType = "popular"
	SuggestionRecommended SuggestionType = "recommended"
	SuggestionPairsWell   SuggestionType = "pairs-well"
)

// Suggestion groups menu item ids under a suggestion type
type Suggestion struct {
	Type        SuggestionType `json:"type"`
	MenuItemIDs []string       `json:"menuItemIds"`
}

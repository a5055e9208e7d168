package models

import "github.com/shopspring/decimal"

// CartLine is one menu item and its quantity in the active cart
type CartLine struct {
	Item      MenuItem        `json:"item"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

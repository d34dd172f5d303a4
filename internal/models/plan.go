package models

import "github.com/shopspring/decimal"

// Plan describes a purchasable tier as shown in the catalog.
type Plan struct {
	ID           Tier            `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	Period       string          `json:"period"`
	Capabilities []string        `json:"capabilities"`
}

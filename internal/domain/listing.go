package domain

import "time"

// Listing is a fisher's catch offered for dockside sale.
type Listing struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	FisherID   string    `gorm:"index" json:"fisher_id"`
	Species    string    `json:"species"`
	Port       string    `gorm:"index" json:"port"`
	PricePerKg float64   `json:"price_per_kg"`
	QtyKg      float64   `json:"qty_kg"`
	CaughtAt   time.Time `json:"caught_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CartLine captures the unit price at add-time so a later checkout
// keeps the price the buyer saw.
type CartLine struct {
	ListingID  string  `json:"listing_id"`
	QtyKg      float64 `json:"qty_kg"`
	PricePerKg float64 `json:"price_per_kg"`
}

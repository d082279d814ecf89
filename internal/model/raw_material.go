package model

// RawMaterial is the single source of truth for on-hand stock.
// StockQuantity must never go below zero; the reconciliation path in
// the product service enforces that inside its transaction.
type RawMaterial struct {
	BaseModel
	// Uniqueness is case-insensitive, enforced by a functional index
	// on LOWER(name) created at migration time
	Name          string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	StockQuantity int    `gorm:"not null;default:0" json:"stock_quantity" validate:"gte=0"`
}

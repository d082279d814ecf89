package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a development-tracking record for a catalog item.
// Images, checklist items and material links are owned rows and are
// removed together with the product.
type Product struct {
	BaseModel
	Name        string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	SKU         string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Category    string     `gorm:"type:varchar(100)" json:"category"`
	Description string     `gorm:"type:text" json:"description"`
	StartDate   *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	Deadline    *time.Time `gorm:"type:date" json:"deadline,omitempty"`

	// Relasi
	Images    []ProductImage    `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Checklist []ChecklistItem   `gorm:"constraint:OnDelete:CASCADE" json:"checklist,omitempty"`
	Materials []ProductMaterial `gorm:"constraint:OnDelete:CASCADE" json:"materials,omitempty"`
}

// ProductImage stores one uploaded image URL, ordered by Position
type ProductImage struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	URL       string    `gorm:"type:varchar(512);not null" json:"url"`
	Position  int       `gorm:"default:0" json:"position"`
}

// ChecklistItem is one development task on a product
type ChecklistItem struct {
	BaseModel
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Task        string    `gorm:"type:text;not null" json:"task"`
	IsCompleted bool      `gorm:"default:false" json:"is_completed"`
}

// ProductMaterial links a product to a raw material. The row existing
// means QuantityNeeded has already been taken off the material's stock.
type ProductMaterial struct {
	BaseModel
	ProductID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	MaterialID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"material_id"`
	Material       *RawMaterial `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	QuantityNeeded int          `gorm:"not null" json:"quantity_needed" validate:"gt=0"`
}

package model

// Supplier is a sourcing record. No hard relation to raw materials,
// the association is display-only on the frontend.
type Supplier struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null" json:"name" validate:"required"` // unique via LOWER(name) index
	ContactInfo string `gorm:"type:text" json:"contact_info_text"`
	Description string `gorm:"type:text" json:"supplier_description"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductType classifies what kind of thing a product is.
type ProductType string

const (
	ProductTypeRental   ProductType = "rental"   // gowns, suits and other rentable items
	ProductTypeMaterial ProductType = "material" // consumable stock (fabric, zippers, thread)
	ProductTypeService  ProductType = "service"  // labor charged per order
)

// Valid reports whether the product type is one of the known kinds.
func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeRental, ProductTypeMaterial, ProductTypeService:
		return true
	}
	return false
}

// RentalStatus is the occupancy state of a rental product.
type RentalStatus string

const (
	RentalStatusAvailable   RentalStatus = "available"
	RentalStatusRented      RentalStatus = "rented"
	RentalStatusMaintenance RentalStatus = "maintenance"
)

// Product is a sellable or rentable thing. The occupancy fields
// (RentalStatus, CurrentOrderID, RentalStartDate, RentalDueDate) are
// meaningful only when ProductType is rental; for other types they stay at
// their defaults. Occupancy is mutated exclusively through the rental
// service, never set ad hoc.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Category    Category        `gorm:"foreignKey:CategoryID" json:"category"`
	ProductType ProductType     `gorm:"size:20;not null;index" json:"product_type"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Cost        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost"`
	Quantity    int             `gorm:"not null;default:0" json:"quantity"`
	MinQuantity int             `gorm:"not null;default:0" json:"min_quantity"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	IsArchived  bool            `gorm:"not null;default:false" json:"is_archived"`
	// Rental occupancy fields
	RentalStatus    RentalStatus   `gorm:"size:20;not null;default:'available'" json:"rental_status"`
	CurrentOrderID  *uint          `gorm:"index" json:"current_order_id,omitempty"`
	CurrentOrder    *Order         `gorm:"foreignKey:CurrentOrderID" json:"-"`
	RentalStartDate *time.Time     `json:"rental_start_date,omitempty"`
	RentalDueDate   *time.Time     `json:"rental_due_date,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsAvailable reports whether the product can be sold or rented right now.
func (p *Product) IsAvailable() bool {
	if !p.IsActive || p.IsArchived || p.Quantity <= 0 {
		return false
	}
	if p.ProductType == ProductTypeRental {
		return p.RentalStatus == RentalStatusAvailable
	}
	return true
}

// IsLowStock reports whether the quantity on hand has reached the
// minimum-quantity threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinQuantity
}

// IsOverdue reports whether a rented product is past its due date.
func (p *Product) IsOverdue(now time.Time) bool {
	if p.ProductType != ProductTypeRental || p.RentalDueDate == nil {
		return false
	}
	return p.RentalStatus == RentalStatusRented && now.After(*p.RentalDueDate)
}

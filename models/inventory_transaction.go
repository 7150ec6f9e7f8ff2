package models

import "time"

// TransactionType is the kind of ledger entry.
type TransactionType string

const (
	TransactionIn         TransactionType = "in"
	TransactionOut        TransactionType = "out"
	TransactionAdjustment TransactionType = "adjustment"
	TransactionRentalOut  TransactionType = "rental_out"
	TransactionRentalIn   TransactionType = "rental_in"
)

// InventoryTransaction is an immutable ledger entry recording a quantity
// delta against a product, optionally tied to an order. Rows are appended
// only; nothing in the codebase updates or deletes them after creation.
type InventoryTransaction struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ProductID        uint            `gorm:"not null;index" json:"product_id"`
	Product          Product         `gorm:"foreignKey:ProductID" json:"-"`
	TransactionType  TransactionType `gorm:"size:20;not null" json:"transaction_type"`
	Quantity         int             `gorm:"not null" json:"quantity"` // negative for stock out
	ReferenceOrderID *uint           `gorm:"index" json:"reference_order_id,omitempty"`
	ReferenceOrder   *Order          `gorm:"foreignKey:ReferenceOrderID" json:"-"`
	Notes            string          `gorm:"type:text" json:"notes"`
	CreatedByID      *uint           `json:"created_by_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// TableName specifies the table name for the InventoryTransaction model
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

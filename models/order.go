package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderType classifies a customer transaction.
type OrderType string

const (
	OrderTypeRental    OrderType = "rental"
	OrderTypeRepair    OrderType = "repair"
	OrderTypeCustomize OrderType = "customize"
)

// Valid reports whether the order type is one of the known kinds.
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeRental, OrderTypeRepair, OrderTypeCustomize:
		return true
	}
	return false
}

// Order represents a customer transaction of exactly one type.
// Balance is always total - paid; it is recomputed on every persist and is
// never settable on its own.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderUID        uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"order_uid"`
	OrderIdentifier string          `gorm:"size:20;uniqueIndex;not null" json:"order_identifier"` // e.g. TS01RENT-O03
	CustomerID      uint            `gorm:"not null;index" json:"customer_id"`
	Customer        Customer        `gorm:"foreignKey:CustomerID" json:"customer"`
	OrderType       OrderType       `gorm:"size:20;not null;index" json:"order_type"`
	Status          Status          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"paid_amount"`
	Balance         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"balance"`
	Notes           string          `gorm:"type:text" json:"notes"`
	DueDate         *time.Time      `json:"due_date"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedByID     *uint           `gorm:"index" json:"created_by_id,omitempty"`
	CreatedBy       *User           `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"` // archived, not hard-deleted
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// BeforeSave recomputes the derived balance so no code path can persist a
// balance that disagrees with total - paid.
func (o *Order) BeforeSave(tx *gorm.DB) error {
	o.Balance = o.TotalAmount.Sub(o.PaidAmount)
	return nil
}

// IsPaid reports whether the order has a zero (or negative) balance.
func (o *Order) IsPaid() bool {
	return o.TotalAmount.Sub(o.PaidAmount).LessThanOrEqual(decimal.Zero)
}

// OrderItem is a single product line within an order. TotalPrice is always
// quantity x unit price, recomputed on persist and never trusted from input.
type OrderItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    uint            `gorm:"not null;index" json:"order_id"`
	ProductID  uint            `gorm:"not null;index" json:"product_id"`
	Product    Product         `gorm:"foreignKey:ProductID" json:"product"`
	Quantity   int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// BeforeSave recomputes the line total from quantity and unit price.
func (i *OrderItem) BeforeSave(tx *gorm.DB) error {
	i.TotalPrice = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	return nil
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale records revenue for a completed order. Created automatically when an
// order reaches the completed status; one sale per order.
type Sale struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderID         uint            `gorm:"uniqueIndex;not null" json:"order_id"`
	Order           Order           `gorm:"foreignKey:OrderID" json:"-"`
	SalesIdentifier string          `gorm:"size:20;uniqueIndex;not null" json:"sales_identifier"` // e.g. TSRT-2025-07
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod   string          `gorm:"size:50;not null;default:'cash'" json:"payment_method"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TableName specifies the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

package models

import "time"

// Activity types recorded in the audit trail.
const (
	ActivityOrderCreated    = "order_created"
	ActivityOrderUpdated    = "order_updated"
	ActivityOrderCompleted  = "order_completed"
	ActivityOrderCancelled  = "order_cancelled"
	ActivityProductAdded    = "product_added"
	ActivityProductUpdated  = "product_updated"
	ActivityProductArchived = "product_archived"
	ActivityProductRented   = "product_rented"
	ActivityProductReturned = "product_returned"
	ActivityInventoryTx     = "inventory_transaction"
	ActivitySaleCreated     = "sales_created"
	ActivityPaymentReceived = "payment_received"
	ActivityCustomerCreated = "customer_created"
	ActivityCustomerUpdated = "customer_updated"
)

// ActivityLog is an append-only audit trail entry. Entries are written by
// the activity service in response to domain events and never modified.
type ActivityLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ActivityType string    `gorm:"size:50;not null;index" json:"activity_type"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	UserID       *uint     `gorm:"index" json:"user_id,omitempty"`
	OrderID      *uint     `gorm:"index" json:"order_id,omitempty"`
	ProductID    *uint     `gorm:"index" json:"product_id,omitempty"`
	CustomerID   *uint     `gorm:"index" json:"customer_id,omitempty"`
	Metadata     string    `gorm:"type:text" json:"metadata"` // JSON-encoded extra detail
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the ActivityLog model
func (ActivityLog) TableName() string {
	return "activity_logs"
}

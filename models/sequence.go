package models

import "time"

// IdentifierSequence is the single counter row behind identifier generation
// for one category (an order type, or a sales year). The row is advanced
// with an atomic in-place UPDATE inside the caller's transaction, so two
// concurrent creators can never read the same value.
type IdentifierSequence struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Category  string    `gorm:"size:50;uniqueIndex;not null" json:"category"`
	LastValue int64     `gorm:"not null;default:0" json:"last_value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the IdentifierSequence model
func (IdentifierSequence) TableName() string {
	return "identifier_sequences"
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Card is a credit card bound to one owning checking account. Charges on
// the card are billed to the owning account through a monthly statement
// settlement, never directly.
type Card struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	Name      string           `json:"name" gorm:"size:100;not null;uniqueIndex"`
	AccountID uint             `json:"account_id" gorm:"not null;index"`
	DueDay    int              `json:"due_day" gorm:"not null"` // day of month, 1-31
	Limit     *decimal.Decimal `json:"limit,omitempty" gorm:"type:decimal(10,2)"`
	ImageFile string           `json:"image_file" gorm:"size:255"`
	Active    bool             `json:"active" gorm:"default:true;index"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `json:"-" gorm:"index"`

	Account Account `json:"-" gorm:"foreignKey:AccountID"`
}

// TableName sets the table name
func (Card) TableName() string {
	return "cards"
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvestmentSnapshot records an investment account's balance on a given
// date. The latest snapshot always matches the account's current balance.
type InvestmentSnapshot struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	AccountID uint            `json:"account_id" gorm:"not null;index"`
	Date      time.Time       `json:"date" gorm:"type:date;not null;index"`
	Balance   decimal.Decimal `json:"balance" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`

	Account Account `json:"-" gorm:"foreignKey:AccountID"`
}

// TableName sets the table name
func (InvestmentSnapshot) TableName() string {
	return "investment_snapshots"
}

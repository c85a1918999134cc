package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account kinds
const (
	AccountChecking   = "checking"
	AccountInvestment = "investment"
)

// Account is a bank or investment account. OpeningBalance is fixed at
// creation; CurrentBalance is mutated only through the ledger package.
type Account struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Name           string          `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Kind           string          `json:"kind" gorm:"size:20;not null"` // checking / investment
	OpeningBalance decimal.Decimal `json:"opening_balance" gorm:"type:decimal(10,2);not null"`
	CurrentBalance decimal.Decimal `json:"current_balance" gorm:"type:decimal(10,2);not null"`
	ImageFile      string          `json:"image_file" gorm:"size:255"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName sets the table name
func (Account) TableName() string {
	return "accounts"
}

// GetAccountKinds returns the known account kinds
func GetAccountKinds() []string {
	return []string{AccountChecking, AccountInvestment}
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Goal types
const (
	GoalCategory = "category"
	GoalTag      = "tag"
	GoalGlobal   = "global"
)

// Goal periods
const (
	PeriodMonthly   = "monthly"
	PeriodQuarterly = "quarterly"
	PeriodYearly    = "yearly"
)

// Goal limits total spend for a category, a tag, or globally over a fixed
// period. Goals are a reporting construct layered on entry aggregates; they
// never touch balances.
type Goal struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"size:100;not null"`
	Type         string          `json:"type" gorm:"size:20;not null;index"` // category / tag / global
	CategoryID   *uint           `json:"category_id,omitempty" gorm:"index"`
	Tag          string          `json:"tag,omitempty" gorm:"size:50;index"`
	LimitAmount  decimal.Decimal `json:"limit_amount" gorm:"type:decimal(10,2);not null"`
	Period       string          `json:"period" gorm:"size:20;not null"` // monthly / quarterly / yearly
	StartDate    time.Time       `json:"start_date" gorm:"type:date;not null"`
	AlertPercent int             `json:"alert_percent" gorm:"default:80"`
	AutoRenew    bool            `json:"auto_renew" gorm:"default:false"`
	IncludeCard  bool            `json:"include_card" gorm:"default:true"`
	Active       bool            `json:"active" gorm:"default:true;index"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `json:"-" gorm:"index"`

	Category *Category `json:"-" gorm:"foreignKey:CategoryID"`
}

// TableName sets the table name
func (Goal) TableName() string {
	return "goals"
}

// GoalHistory records the computed spend of a goal at period close.
type GoalHistory struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	GoalID      uint            `json:"goal_id" gorm:"not null;index"`
	PeriodStart time.Time       `json:"period_start" gorm:"type:date;not null"`
	PeriodEnd   time.Time       `json:"period_end" gorm:"type:date;not null"`
	LimitAmount decimal.Decimal `json:"limit_amount" gorm:"type:decimal(10,2);not null"`
	SpentAmount decimal.Decimal `json:"spent_amount" gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time       `json:"created_at"`

	Goal Goal `json:"-" gorm:"foreignKey:GoalID"`
}

func (GoalHistory) TableName() string {
	return "goal_histories"
}

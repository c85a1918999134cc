package models

import (
	"time"

	"gorm.io/gorm"
)

// Category kinds
const (
	CategoryExpense = "expense"
	CategoryIncome  = "income"
)

// Category classifies entries for reporting. It carries no balance
// semantics.
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Kind      string         `json:"kind" gorm:"size:20;not null"` // expense / income
	Icon      string         `json:"icon" gorm:"size:50"`
	Color     string         `json:"color" gorm:"size:20;default:#64748b"` // hex code, e.g. #10b981
	Active    bool           `json:"active" gorm:"default:true;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Subcategories []Subcategory `json:"subcategories,omitempty" gorm:"foreignKey:CategoryID"`
}

// TableName sets the table name
func (Category) TableName() string {
	return "categories"
}

// Subcategory is optionally nested under a category. Names are unique
// within a category.
type Subcategory struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"size:100;not null;uniqueIndex:idx_subcategory_name_category"`
	CategoryID  uint           `json:"category_id" gorm:"not null;uniqueIndex:idx_subcategory_name_category;index"`
	Description string         `json:"description" gorm:"size:255"`
	Active      bool           `json:"active" gorm:"default:true;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Category Category `json:"-" gorm:"foreignKey:CategoryID"`
}

func (Subcategory) TableName() string {
	return "subcategories"
}

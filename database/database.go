package database

import (
	"fmt"
	"log"

	"github.com/marciomartinho/minhas-financas/config"
	"github.com/marciomartinho/minhas-financas/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the database connection, migrates the schema and seeds the
// default categories.
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// connection pool limits
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := DB.AutoMigrate(
		&models.Account{},
		&models.Category{},
		&models.Subcategory{},
		&models.Card{},
		&models.Entry{},
		&models.Goal{},
		&models.GoalHistory{},
		&models.InvestmentSnapshot{},
	); err != nil {
		return err
	}

	seedCategories()

	log.Println("database initialized")
	return nil
}

// seedCategories inserts the default categories when the table is empty.
func seedCategories() {
	var count int64
	DB.Model(&models.Category{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []models.Category{
		{Name: "Housing", Kind: models.CategoryExpense, Icon: "home", Color: "#14b8a6"},
		{Name: "Food", Kind: models.CategoryExpense, Icon: "restaurant", Color: "#ef4444"},
		{Name: "Transport", Kind: models.CategoryExpense, Icon: "directions_car", Color: "#3b82f6"},
		{Name: "Health", Kind: models.CategoryExpense, Icon: "medical_services", Color: "#10b981"},
		{Name: "Education", Kind: models.CategoryExpense, Icon: "school", Color: "#f59e0b"},
		{Name: "Leisure", Kind: models.CategoryExpense, Icon: "sports_esports", Color: "#ec4899"},
		{Name: "Shopping", Kind: models.CategoryExpense, Icon: "shopping_cart", Color: "#a855f7"},
		{Name: "Other Expenses", Kind: models.CategoryExpense, Icon: "more_horiz", Color: "#64748b"},
		{Name: "Salary", Kind: models.CategoryIncome, Icon: "payments", Color: "#10b981"},
		{Name: "Bonus", Kind: models.CategoryIncome, Icon: "stars", Color: "#3b82f6"},
		{Name: "Interest", Kind: models.CategoryIncome, Icon: "trending_up", Color: "#a855f7"},
		{Name: "Other Income", Kind: models.CategoryIncome, Icon: "more_horiz", Color: "#64748b"},
	}
	for i := range defaults {
		defaults[i].Active = true
	}
	if err := DB.Create(&defaults).Error; err != nil {
		log.Printf("warning: seeding default categories failed: %v", err)
	}
}

// GetDB returns the database handle
func GetDB() *gorm.DB {
	return DB
}

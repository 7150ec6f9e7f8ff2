package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/muhijericho/capstone-topstyle-sub000/config"
	"github.com/muhijericho/capstone-topstyle-sub000/models"
)

// setupTestDB opens a fresh in-memory database, migrates the full schema and
// installs it as the package-level connection. Event listeners are flushed so
// each test starts with a clean dispatcher.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	config.SetDB(db)
	FlushListeners()

	t.Cleanup(func() {
		FlushListeners()
		SetNotificationSender(&LogNotificationSender{})
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTestCustomer(t *testing.T, db *gorm.DB, name, phone string) *models.Customer {
	t.Helper()
	customer := models.Customer{Name: name, Phone: phone}
	require.NoError(t, db.Create(&customer).Error)
	return &customer
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := models.Category{Name: name}
	require.NoError(t, db.Create(&category).Error)
	return &category
}

func createRentalProduct(t *testing.T, db *gorm.DB, categoryID uint, name string) *models.Product {
	t.Helper()
	product := models.Product{
		Name:         name,
		CategoryID:   categoryID,
		ProductType:  models.ProductTypeRental,
		Price:        decimal.NewFromInt(1500),
		Cost:         decimal.NewFromInt(5000),
		Quantity:     1,
		IsActive:     true,
		RentalStatus: models.RentalStatusAvailable,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func createMaterialProduct(t *testing.T, db *gorm.DB, categoryID uint, name string, stock int) *models.Product {
	t.Helper()
	product := models.Product{
		Name:        name,
		CategoryID:  categoryID,
		ProductType: models.ProductTypeMaterial,
		Price:       decimal.NewFromInt(50),
		Cost:        decimal.NewFromInt(20),
		Quantity:    stock,
		MinQuantity: 5,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func createServiceProduct(t *testing.T, db *gorm.DB, categoryID uint, name string, price int64) *models.Product {
	t.Helper()
	product := models.Product{
		Name:        name,
		CategoryID:  categoryID,
		ProductType: models.ProductTypeService,
		Price:       decimal.NewFromInt(price),
		Cost:        decimal.Zero,
		Quantity:    1,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

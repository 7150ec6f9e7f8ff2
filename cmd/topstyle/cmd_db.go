package main

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/muhijericho/capstone-topstyle-sub000/config"
	"github.com/muhijericho/capstone-topstyle-sub000/models"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.SetConfig(cfg)
	return config.ConnectDatabase()
}

// topstyle migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		return config.Migrate(config.GetDB())
	},
}

// topstyle seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the baseline categories and service products",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		if err := config.Migrate(config.GetDB()); err != nil {
			return err
		}
		return seedBaseline()
	},
}

// seedBaseline inserts the records every fresh install needs. Re-running is
// harmless: existing rows are left untouched.
func seedBaseline() error {
	db := config.GetDB()

	categories := []models.Category{
		{Name: "Gowns", Description: "Rental gowns and dresses"},
		{Name: "Suits", Description: "Rental suits and barongs"},
		{Name: "Repair Materials", Description: "Zippers, buttons, thread and fabric"},
		{Name: "Services", Description: "Labor charged per order"},
	}
	for i := range categories {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&categories[i]).Error; err != nil {
			return err
		}
	}

	var serviceCategory models.Category
	if err := db.Where("name = ?", "Services").First(&serviceCategory).Error; err != nil {
		return err
	}

	services := []models.Product{
		{
			Name:        "Repair Labor",
			CategoryID:  serviceCategory.ID,
			ProductType: models.ProductTypeService,
			Price:       decimal.NewFromInt(300),
			Cost:        decimal.Zero,
			Quantity:    1,
			IsActive:    true,
		},
		{
			Name:        "Custom Tailoring Labor",
			CategoryID:  serviceCategory.ID,
			ProductType: models.ProductTypeService,
			Price:       decimal.NewFromInt(800),
			Cost:        decimal.Zero,
			Quantity:    1,
			IsActive:    true,
		},
	}
	for i := range services {
		var existing models.Product
		err := db.Where("name = ?", services[i].Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&services[i]).Error; err != nil {
			return err
		}
	}

	fmt.Println("Baseline data seeded")
	return nil
}

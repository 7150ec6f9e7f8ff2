package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muhijericho/capstone-topstyle-sub000/config"
	"github.com/muhijericho/capstone-topstyle-sub000/models"
	"github.com/muhijericho/capstone-topstyle-sub000/services"
)

// ListRentals handles GET /api/v1/rentals - all rental products with their
// current occupancy, optionally filtered by ?status=
func ListRentals(c *gin.Context) {
	db := config.GetDB()
	query := db.Preload("Category").
		Where("product_type = ?", models.ProductTypeRental).
		Where("is_archived = ?", false).
		Order("name asc")

	if status := c.Query("status"); status != "" {
		query = query.Where("rental_status = ?", status)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch rentals")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// ListOverdueRentals handles GET /api/v1/rentals/overdue - rented products
// past their due date.
func ListOverdueRentals(c *gin.Context) {
	db := config.GetDB()
	var products []models.Product
	err := db.Preload("Category").
		Where("product_type = ?", models.ProductTypeRental).
		Where("rental_status = ?", models.RentalStatusRented).
		Where("rental_due_date < ?", time.Now()).
		Order("rental_due_date asc").
		Find(&products).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch overdue rentals")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// SyncRentals handles POST /api/v1/rentals/sync - reconciles every rental
// product's occupancy against active orders and reports how many drifted.
func SyncRentals(c *gin.Context) {
	corrected, err := services.SyncAllRentals()
	if err != nil {
		respondError(c, http.StatusConflict, "RENTAL_CONFLICT", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"corrected": corrected,
		},
	})
}

// CheckOverdue handles POST /api/v1/rentals/check-overdue - recomputes
// time-derived statuses and persists any that changed.
func CheckOverdue(c *gin.Context) {
	updated, err := services.CheckOverdueOrders()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to check overdue orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"updated": updated,
		},
	})
}

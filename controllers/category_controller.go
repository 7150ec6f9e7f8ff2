package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhijericho/capstone-topstyle-sub000/config"
	"github.com/muhijericho/capstone-topstyle-sub000/models"
)

// CategoryRequest represents the request body for creating a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateCategory handles POST /api/v1/categories
func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	db := config.GetDB()
	if err := db.Create(&category).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, http.StatusConflict, "CATEGORY_EXISTS", "A category with this name already exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    category,
	})
}

// ListCategories handles GET /api/v1/categories
func ListCategories(c *gin.Context) {
	db := config.GetDB()
	var categories []models.Category
	if err := db.Order("name asc").Find(&categories).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/muhijericho/capstone-topstyle-sub000/config"
	"github.com/muhijericho/capstone-topstyle-sub000/middleware"
	"github.com/muhijericho/capstone-topstyle-sub000/models"
	"github.com/muhijericho/capstone-topstyle-sub000/services"
)

// ProductRequest represents the request body for creating or updating a product
type ProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	CategoryID  uint   `json:"category_id" binding:"required"`
	ProductType string `json:"product_type" binding:"required"`
	Price       string `json:"price" binding:"required"`
	Cost        string `json:"cost"`
	Quantity    int    `json:"quantity" binding:"min=0"`
	MinQuantity int    `json:"min_quantity" binding:"min=0"`
}

// StockAdjustmentRequest represents the request body for a manual stock change
type StockAdjustmentRequest struct {
	Quantity int    `json:"quantity" binding:"required"` // signed delta
	Notes    string `json:"notes"`
}

// CreateProduct handles POST /api/v1/products
func CreateProduct(c *gin.Context) {
	var req ProductRequest
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

	productType := models.ProductType(req.ProductType)
	if !productType.Valid() {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "product_type must be rental, material or service")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "price is not a valid amount")
		return
	}
	cost := decimal.Zero
	if req.Cost != "" {
		cost, err = decimal.NewFromString(req.Cost)
		if err != nil || cost.IsNegative() {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "cost is not a valid amount")
			return
		}
	}

	db := config.GetDB()
	var category models.Category
	if err := db.First(&category, req.CategoryID).Error; err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "category does not exist")
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		ProductType: productType,
		Price:       price,
		Cost:        cost,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		IsActive:    true,
	}

	if err := db.Create(&product).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product")
		return
	}

	services.LogProductActivity(&product, models.ActivityProductAdded, middleware.CurrentActorID(c))

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// ListProducts handles GET /api/v1/products - optionally filtered by ?type=
// and ?category_id=; archived products are excluded unless ?archived=true
func ListProducts(c *gin.Context) {
	db := config.GetDB()
	query := db.Preload("Category").Order("name asc")

	if c.Query("archived") == "true" {
		query = query.Where("is_archived = ?", true)
	} else {
		query = query.Where("is_archived = ?", false)
	}
	if productType := c.Query("type"); productType != "" {
		query = query.Where("product_type = ?", productType)
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// GetProduct handles GET /api/v1/products/:id
func GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.Preload("Category").First(&product, productID).Error; err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct handles PUT /api/v1/products/:id - catalog fields only;
// quantity moves through stock adjustments and rental occupancy through the
// rental service.
func UpdateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ProductRequest
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

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "price is not a valid amount")
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Product not found")
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.CategoryID = req.CategoryID
	product.Price = price
	product.MinQuantity = req.MinQuantity
	if req.Cost != "" {
		cost, err := decimal.NewFromString(req.Cost)
		if err != nil || cost.IsNegative() {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "cost is not a valid amount")
			return
		}
		product.Cost = cost
	}

	if err := db.Save(&product).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product")
		return
	}

	services.LogProductActivity(&product, models.ActivityProductUpdated, middleware.CurrentActorID(c))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// AdjustStock handles POST /api/v1/products/:id/adjustments - manual stock
// corrections recorded as adjustment ledger entries.
func AdjustStock(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req StockAdjustmentRequest
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

	product, err := services.AdjustStock(productID, req.Quantity, req.Notes, middleware.CurrentActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// ArchiveProduct handles POST /api/v1/products/:id/archive - retires a
// product from the catalog while keeping its ledger history.
func ArchiveProduct(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := services.ArchiveProduct(productID, middleware.CurrentActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// ListInventoryTransactions handles GET /api/v1/products/:id/transactions
func ListInventoryTransactions(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Product not found")
		return
	}

	var transactions []models.InventoryTransaction
	if err := db.Where("product_id = ?", product.ID).
		Order("created_at desc").
		Find(&transactions).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch transactions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    transactions,
	})
}

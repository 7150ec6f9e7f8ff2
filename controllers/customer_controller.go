package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhijericho/capstone-topstyle-sub000/config"
	"github.com/muhijericho/capstone-topstyle-sub000/middleware"
	"github.com/muhijericho/capstone-topstyle-sub000/models"
	"github.com/muhijericho/capstone-topstyle-sub000/services"
)

// CustomerRequest represents the request body for creating or updating a customer
type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

// CreateCustomer handles POST /api/v1/customers
func CreateCustomer(c *gin.Context) {
	var req CustomerRequest
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

	customer := models.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}

	db := config.GetDB()
	if err := db.Create(&customer).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, http.StatusConflict, "CUSTOMER_EXISTS", "A customer with this phone number already exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create customer")
		return
	}

	services.LogCustomerActivity(&customer, true, middleware.CurrentActorID(c))

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    customer,
	})
}

// ListCustomers handles GET /api/v1/customers - optionally filtered by
// ?search= matching name or phone
func ListCustomers(c *gin.Context) {
	db := config.GetDB()
	query := db.Order("name asc")

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", like, like)
	}

	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customers,
	})
}

// GetCustomer handles GET /api/v1/customers/:id - returns the customer with
// their order history
func GetCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, customerID).Error; err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Customer not found")
		return
	}

	var orders []models.Order
	if err := db.Where("customer_id = ?", customer.ID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch customer orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"customer": customer,
			"orders":   orders,
		},
	})
}

// UpdateCustomer handles PUT /api/v1/customers/:id
func UpdateCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CustomerRequest
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

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, customerID).Error; err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Customer not found")
		return
	}

	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address

	if err := db.Save(&customer).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, http.StatusConflict, "CUSTOMER_EXISTS", "A customer with this phone number already exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update customer")
		return
	}

	services.LogCustomerActivity(&customer, false, middleware.CurrentActorID(c))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// DeleteCustomer handles DELETE /api/v1/customers/:id - soft-deletes the
// customer; their order history stays queryable for reporting.
func DeleteCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, customerID).Error; err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Customer not found")
		return
	}

	var activeOrders int64
	if err := db.Model(&models.Order{}).
		Where("customer_id = ?", customer.ID).
		Where("status NOT IN ?", []models.Status{models.StatusCompleted, models.StatusCancelled}).
		Count(&activeOrders).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to check customer orders")
		return
	}
	if activeOrders > 0 {
		respondError(c, http.StatusConflict, "CUSTOMER_HAS_ACTIVE_ORDERS", "Customer still has open orders")
		return
	}

	if err := db.Delete(&customer).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Customer deleted",
	})
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/muhijericho/capstone-topstyle-sub000/middleware"
	"github.com/muhijericho/capstone-topstyle-sub000/models"
	"github.com/muhijericho/capstone-topstyle-sub000/services"
)

// CreateOrderRequest represents the request body for creating an order.
// Prices are intentionally absent: line prices come from product records
// and rental pricing is a fixed business rule.
type CreateOrderRequest struct {
	CustomerID uint                      `json:"customer_id" binding:"required"`
	OrderType  string                    `json:"order_type" binding:"required"`
	Items      []services.OrderItemInput `json:"items" binding:"required,min=1,dive"`
	Notes      string                    `json:"notes"`
	DueDate    *string                   `json:"due_date"` // RFC3339, optional
	PaidAmount string                    `json:"paid_amount"`
}

// PaymentRequest represents the request body for recording a payment
type PaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
	Method string `json:"method"`
}

// StatusRequest represents the request body for an explicit status change
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder handles POST /api/v1/orders
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
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

	input := services.CreateOrderInput{
		CustomerID: req.CustomerID,
		OrderType:  models.OrderType(req.OrderType),
		Items:      req.Items,
		Notes:      req.Notes,
		PaidAmount: decimal.Zero,
		ActorID:    middleware.CurrentActorID(c),
	}

	if req.PaidAmount != "" {
		paid, err := decimal.NewFromString(req.PaidAmount)
		if err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "paid_amount is not a valid amount")
			return
		}
		input.PaidAmount = paid
	}
	if req.DueDate != nil {
		due, err := parseRFC3339(*req.DueDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "due_date must be RFC3339")
			return
		}
		input.DueDate = due
	}

	order, err := services.CreateOrder(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - returns non-archived orders with
// derived statuses, optionally filtered by ?type= and ?status=
func ListOrders(c *gin.Context) {
	orders, err := services.ListOrders(
		models.OrderType(c.Query("type")),
		models.Status(c.Query("status")),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id where :id is the human-facing
// order identifier, e.g. TS01RENT-O07.
func GetOrder(c *gin.Context) {
	order, err := services.GetOrderByIdentifier(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ApplyPayment handles POST /api/v1/orders/:id/payments
func ApplyPayment(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req PaymentRequest
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

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "amount is not a valid amount")
		return
	}

	order, err := services.ApplyPayment(orderID, amount, req.Method, middleware.CurrentActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ReturnOrder handles POST /api/v1/orders/:id/return - the explicit
// "returned" action that completes a rental order and releases its products.
func ReturnOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := services.ReturnRental(orderID, middleware.CurrentActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel
func CancelOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := services.CancelOrder(orderID, middleware.CurrentActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status - explicit work
// transitions such as pending -> in_progress or in_progress -> repair_done.
func UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req StatusRequest
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

	order, err := services.UpdateOrderStatus(orderID, models.Status(req.Status), middleware.CurrentActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ArchiveOrder handles POST /api/v1/orders/:id/archive - soft-deletes a
// terminal order, keeping its items and ledger entries for reporting.
func ArchiveOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := services.ArchiveOrder(orderID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order archived",
	})
}

// parseIDParam extracts the numeric :id path parameter, writing the error
// response itself on failure.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a number")
		return 0, false
	}
	return uint(id), true
}

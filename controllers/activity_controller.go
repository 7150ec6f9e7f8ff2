package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/muhijericho/capstone-topstyle-sub000/services"
)

// ListActivity handles GET /api/v1/activity - recent audit trail entries,
// optionally scoped by ?order_id= and capped by ?limit=
func ListActivity(c *gin.Context) {
	var orderID *uint
	if raw := c.Query("order_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "order_id must be a number")
			return
		}
		v := uint(id)
		orderID = &v
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a number")
			return
		}
		limit = parsed
	}

	entries, err := services.ListActivity(orderID, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch activity log")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
	})
}

// ListOrderActivity handles GET /api/v1/orders/:id/activity
func ListOrderActivity(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	entries, err := services.ListActivity(&orderID, 0)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch activity log")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
	})
}

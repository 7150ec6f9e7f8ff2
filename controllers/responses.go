package controllers

import (
	"time"

	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/muhijericho/capstone-topstyle-sub000/services"
)

// respondError writes the standard error envelope.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps a domain error from the services layer onto the
// standard error envelope.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, services.ErrValidation):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, services.ErrProductUnavailable):
		respondError(c, http.StatusConflict, "PRODUCT_UNAVAILABLE", err.Error())
	case errors.Is(err, services.ErrRentalConflict):
		respondError(c, http.StatusConflict, "RENTAL_CONFLICT", err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		respondError(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, services.ErrOverpayment):
		respondError(c, http.StatusBadRequest, "OVERPAYMENT", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Operation failed")
	}
}

// isUniqueViolation checks for a duplicate-key error from either PostgreSQL
// or SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// parseRFC3339 parses a timestamp from a request body.
func parseRFC3339(value string) (*time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muhijericho/capstone-topstyle-sub000/services"
)

// GetDashboard handles GET /api/v1/reports/dashboard
func GetDashboard(c *gin.Context) {
	stats, err := services.GetDashboardStats()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute dashboard stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// GetSalesReport handles GET /api/v1/reports/sales?year=2026
func GetSalesReport(c *gin.Context) {
	year, ok := parseYearQuery(c)
	if !ok {
		return
	}

	rows, err := services.GetSalesReport(year)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to build sales report")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

// ExportSalesReport handles POST /api/v1/reports/sales/export - renders the
// yearly sales report as CSV, uploads it and returns a time-limited
// download URL.
func ExportSalesReport(c *gin.Context) {
	year, ok := parseYearQuery(c)
	if !ok {
		return
	}

	csvData, err := services.BuildSalesCSV(year)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to build sales report")
		return
	}

	exporter := services.GetExportService()
	if exporter == nil {
		respondError(c, http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "Export storage is not configured")
		return
	}

	key, err := exporter.UploadReport(fmt.Sprintf("sales-%d", year), csvData)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to upload report")
		return
	}

	url, err := exporter.GetPresignedURL(key)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to generate download URL")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"key": key,
			"url": url,
		},
	})
}

// GetLowStock handles GET /api/v1/reports/low-stock
func GetLowStock(c *gin.Context) {
	products, err := services.LowStockProducts()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch low stock products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

func parseYearQuery(c *gin.Context) (int, bool) {
	raw := c.Query("year")
	if raw == "" {
		return time.Now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2100 {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "year must be a four-digit year")
		return 0, false
	}
	return year, true
}

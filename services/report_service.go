package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/muhijericho/capstone-topstyle-sub000/config"
	"github.com/muhijericho/capstone-topstyle-sub000/models"
)

// DashboardStats is the summary block shown on the dashboard.
type DashboardStats struct {
	TotalOrders      int64           `json:"total_orders"`
	PendingOrders    int64           `json:"pending_orders"`
	InProgressOrders int64           `json:"in_progress_orders"`
	CompletedOrders  int64           `json:"completed_orders"`
	OverdueRentals   int64           `json:"overdue_rentals"`
	RentedProducts   int64           `json:"rented_products"`
	LowStockProducts int64           `json:"low_stock_products"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

// GetDashboardStats aggregates order, rental and stock counters.
func GetDashboardStats() (*DashboardStats, error) {
	db := config.GetDB()
	stats := &DashboardStats{TotalSales: decimal.Zero, TotalOutstanding: decimal.Zero}

	counts := []func() error{
		func() error {
			return db.Model(&models.Order{}).Count(&stats.TotalOrders).Error
		},
		func() error {
			return db.Model(&models.Order{}).Where("status = ?", models.StatusPending).Count(&stats.PendingOrders).Error
		},
		func() error {
			return db.Model(&models.Order{}).Where("status = ?", models.StatusInProgress).Count(&stats.InProgressOrders).Error
		},
		func() error {
			return db.Model(&models.Order{}).Where("status = ?", models.StatusCompleted).Count(&stats.CompletedOrders).Error
		},
		func() error {
			return db.Model(&models.Order{}).
				Where("order_type = ? AND status IN ? AND due_date < ?",
					models.OrderTypeRental, models.ActiveRentalStatuses, time.Now()).
				Count(&stats.OverdueRentals).Error
		},
		func() error {
			return db.Model(&models.Product{}).
				Where("product_type = ? AND rental_status = ?", models.ProductTypeRental, models.RentalStatusRented).
				Count(&stats.RentedProducts).Error
		},
		func() error {
			return db.Model(&models.Product{}).
				Where("product_type = ? AND quantity <= min_quantity AND is_archived = ?",
					models.ProductTypeMaterial, false).
				Count(&stats.LowStockProducts).Error
		},
	}
	for _, count := range counts {
		if err := count(); err != nil {
			return nil, err
		}
	}

	var sales []models.Sale
	if err := db.Find(&sales).Error; err != nil {
		return nil, err
	}
	for _, s := range sales {
		stats.TotalSales = stats.TotalSales.Add(s.Amount)
	}

	var open []models.Order
	if err := db.Where("status NOT IN ?", []models.Status{models.StatusCompleted, models.StatusCancelled}).
		Find(&open).Error; err != nil {
		return nil, err
	}
	for _, o := range open {
		stats.TotalOutstanding = stats.TotalOutstanding.Add(o.Balance)
	}

	return stats, nil
}

// SalesReportRow is one sale in the yearly report, with the best-effort
// work category inferred from the order notes.
type SalesReportRow struct {
	SalesIdentifier string           `json:"sales_identifier"`
	OrderIdentifier string           `json:"order_identifier"`
	OrderType       models.OrderType `json:"order_type"`
	Customer        string           `json:"customer"`
	Amount          decimal.Decimal  `json:"amount"`
	PaymentMethod   string           `json:"payment_method"`
	WorkCategory    string           `json:"work_category"`
	CreatedAt       time.Time        `json:"created_at"`
}

// GetSalesReport returns all sales for a year, newest first.
func GetSalesReport(year int) ([]SalesReportRow, error) {
	db := config.GetDB()

	var sales []models.Sale
	err := db.Preload("Order", func(db2 *gorm.DB) *gorm.DB { return db2.Unscoped() }).
		Where("sales_identifier LIKE ?", fmt.Sprintf("TSRT-%d-%%", year)).
		Order("created_at DESC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}

	rows := make([]SalesReportRow, 0, len(sales))
	for _, s := range sales {
		var customer models.Customer
		_ = db.Unscoped().First(&customer, s.Order.CustomerID).Error

		rows = append(rows, SalesReportRow{
			SalesIdentifier: s.SalesIdentifier,
			OrderIdentifier: s.Order.OrderIdentifier,
			OrderType:       s.Order.OrderType,
			Customer:        customer.Name,
			Amount:          s.Amount,
			PaymentMethod:   s.PaymentMethod,
			WorkCategory:    ClassifyOrderNotes(s.Order.Notes),
			CreatedAt:       s.CreatedAt,
		})
	}
	return rows, nil
}

// BuildSalesCSV renders the yearly sales report as CSV for the export
// collaborator.
func BuildSalesCSV(year int) ([]byte, error) {
	rows, err := GetSalesReport(year)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"sales_identifier", "order_identifier", "order_type", "customer", "amount", "payment_method", "work_category", "date"})
	for _, r := range rows {
		_ = w.Write([]string{
			r.SalesIdentifier,
			r.OrderIdentifier,
			string(r.OrderType),
			r.Customer,
			r.Amount.StringFixed(2),
			r.PaymentMethod,
			r.WorkCategory,
			r.CreatedAt.Format("2006-01-02"),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/muhijericho/capstone-topstyle-sub000/config"
	"github.com/muhijericho/capstone-topstyle-sub000/models"
)

// logActivity appends one audit trail row. The trail is write-only: a
// failure to record is logged and swallowed so it can never fail the
// operation that triggered it.
func logActivity(entry models.ActivityLog) {
	db := config.GetDB()
	if db == nil {
		return
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("[ACTIVITY] failed to record %s: %v", entry.ActivityType, err)
	}
}

func metadataJSON(fields map[string]interface{}) string {
	data, err := json.Marshal(fields)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// RegisterActivityListeners subscribes the audit trail to every domain
// event. Call once at startup, after the database is connected.
func RegisterActivityListeners() {
	Listen(EventOrderCreated, func(payload interface{}) {
		e, ok := payload.(OrderEvent)
		if !ok {
			return
		}
		logActivity(models.ActivityLog{
			ActivityType: models.ActivityOrderCreated,
			Description:  fmt.Sprintf("New %s order %s created", e.Order.OrderType, e.Order.OrderIdentifier),
			UserID:       e.ActorID,
			OrderID:      &e.Order.ID,
			CustomerID:   &e.Order.CustomerID,
			Metadata: metadataJSON(map[string]interface{}{
				"order_identifier": e.Order.OrderIdentifier,
				"order_type":       e.Order.OrderType,
				"total_amount":     e.Order.TotalAmount.StringFixed(2),
				"status":           e.Order.Status,
			}),
		})
	})

	Listen(EventOrderStatusChanged, func(payload interface{}) {
		e, ok := payload.(OrderEvent)
		if !ok {
			return
		}
		activityType := models.ActivityOrderUpdated
		switch e.ToStatus {
		case models.StatusCompleted:
			activityType = models.ActivityOrderCompleted
		case models.StatusCancelled:
			activityType = models.ActivityOrderCancelled
		}
		logActivity(models.ActivityLog{
			ActivityType: activityType,
			Description:  fmt.Sprintf("Order %s moved from %s to %s", e.Order.OrderIdentifier, e.FromStatus, e.ToStatus),
			UserID:       e.ActorID,
			OrderID:      &e.Order.ID,
			CustomerID:   &e.Order.CustomerID,
			Metadata: metadataJSON(map[string]interface{}{
				"order_identifier": e.Order.OrderIdentifier,
				"from":             e.FromStatus,
				"to":               e.ToStatus,
			}),
		})
	})

	Listen(EventProductRented, func(payload interface{}) {
		e, ok := payload.(ProductEvent)
		if !ok {
			return
		}
		logActivity(models.ActivityLog{
			ActivityType: models.ActivityProductRented,
			Description:  fmt.Sprintf("Product %q rented out on order %s", e.Product.Name, e.Order.OrderIdentifier),
			UserID:       e.ActorID,
			OrderID:      &e.Order.ID,
			ProductID:    &e.Product.ID,
			Metadata: metadataJSON(map[string]interface{}{
				"product_name":    e.Product.Name,
				"rental_due_date": e.Product.RentalDueDate,
			}),
		})
	})

	Listen(EventProductReturned, func(payload interface{}) {
		e, ok := payload.(ProductEvent)
		if !ok {
			return
		}
		logActivity(models.ActivityLog{
			ActivityType: models.ActivityProductReturned,
			Description:  fmt.Sprintf("Product %q returned from order %s", e.Product.Name, e.Order.OrderIdentifier),
			UserID:       e.ActorID,
			OrderID:      &e.Order.ID,
			ProductID:    &e.Product.ID,
			Metadata: metadataJSON(map[string]interface{}{
				"product_name": e.Product.Name,
			}),
		})
	})

	Listen(EventPaymentReceived, func(payload interface{}) {
		e, ok := payload.(PaymentEvent)
		if !ok {
			return
		}
		logActivity(models.ActivityLog{
			ActivityType: models.ActivityPaymentReceived,
			Description:  fmt.Sprintf("Payment of %s received for order %s", e.Amount.StringFixed(2), e.Order.OrderIdentifier),
			UserID:       e.ActorID,
			OrderID:      &e.Order.ID,
			CustomerID:   &e.Order.CustomerID,
			Metadata: metadataJSON(map[string]interface{}{
				"amount":  e.Amount.StringFixed(2),
				"method":  e.Method,
				"balance": e.Order.Balance.StringFixed(2),
			}),
		})
	})

	Listen(EventSaleCreated, func(payload interface{}) {
		e, ok := payload.(SaleEvent)
		if !ok {
			return
		}
		logActivity(models.ActivityLog{
			ActivityType: models.ActivitySaleCreated,
			Description:  fmt.Sprintf("Sale %s recorded for order %s", e.Sale.SalesIdentifier, e.Order.OrderIdentifier),
			OrderID:      &e.Order.ID,
			CustomerID:   &e.Order.CustomerID,
			Metadata: metadataJSON(map[string]interface{}{
				"sales_identifier": e.Sale.SalesIdentifier,
				"amount":           e.Sale.Amount.StringFixed(2),
				"payment_method":   e.Sale.PaymentMethod,
			}),
		})
	})
}

// LogCustomerActivity records creation or update of a customer record.
func LogCustomerActivity(customer *models.Customer, created bool, actorID *uint) {
	activityType := models.ActivityCustomerUpdated
	verb := "updated"
	if created {
		activityType = models.ActivityCustomerCreated
		verb = "added"
	}
	logActivity(models.ActivityLog{
		ActivityType: activityType,
		Description:  fmt.Sprintf("Customer %q %s", customer.Name, verb),
		UserID:       actorID,
		CustomerID:   &customer.ID,
		Metadata: metadataJSON(map[string]interface{}{
			"name":  customer.Name,
			"phone": customer.Phone,
		}),
	})
}

// LogProductActivity records creation, update or archival of a product.
func LogProductActivity(product *models.Product, activityType string, actorID *uint) {
	logActivity(models.ActivityLog{
		ActivityType: activityType,
		Description:  fmt.Sprintf("Product %q %s", product.Name, activityVerb(activityType)),
		UserID:       actorID,
		ProductID:    &product.ID,
		Metadata: metadataJSON(map[string]interface{}{
			"product_name": product.Name,
			"product_type": product.ProductType,
			"quantity":     product.Quantity,
			"is_archived":  product.IsArchived,
		}),
	})
}

func activityVerb(activityType string) string {
	switch activityType {
	case models.ActivityProductAdded:
		return "added to inventory"
	case models.ActivityProductArchived:
		return "archived"
	default:
		return "updated"
	}
}

// ListActivity returns audit entries newest first, optionally scoped to an
// order, capped at limit.
func ListActivity(orderID *uint, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	db := config.GetDB()
	q := db.Order("created_at DESC").Limit(limit)
	if orderID != nil {
		q = q.Where("order_id = ?", *orderID)
	}
	var entries []models.ActivityLog
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

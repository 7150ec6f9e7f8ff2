package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/muhijericho/capstone-topstyle-sub000/config"
	"github.com/muhijericho/capstone-topstyle-sub000/models"
)

// RentalPeriod is how long a rental runs from pickup to due date. A fixed
// business rule of the shop.
const RentalPeriod = 72 * time.Hour

// rentProduct marks a product as held by the given order: occupancy flips
// to rented, the order back-reference and start/due timestamps are stamped,
// and a rental_out ledger entry is appended. Must run inside the order's
// transaction so a partial application cannot be observed.
//
// This and returnProduct are the only code paths that mutate occupancy
// outside the reconciler's sync pass.
func rentProduct(tx *gorm.DB, order *models.Order, product *models.Product, quantity int, actorID *uint) error {
	if product.ProductType != models.ProductTypeRental {
		return fmt.Errorf("%w: product %q is not a rental item", ErrValidation, product.Name)
	}
	if !product.IsAvailable() {
		return fmt.Errorf("%w: %q is currently %s", ErrProductUnavailable, product.Name, product.RentalStatus)
	}

	start := order.CreatedAt
	if start.IsZero() {
		start = time.Now()
	}
	due := start.Add(RentalPeriod)
	if order.DueDate != nil {
		due = *order.DueDate
	}

	updates := map[string]interface{}{
		"rental_status":     models.RentalStatusRented,
		"current_order_id":  order.ID,
		"rental_start_date": start,
		"rental_due_date":   due,
	}
	if err := tx.Model(product).Updates(updates).Error; err != nil {
		return err
	}
	product.RentalStatus = models.RentalStatusRented
	product.CurrentOrderID = &order.ID
	product.RentalStartDate = &start
	product.RentalDueDate = &due

	entry := models.InventoryTransaction{
		ProductID:        product.ID,
		TransactionType:  models.TransactionRentalOut,
		Quantity:         quantity,
		ReferenceOrderID: &order.ID,
		Notes:            fmt.Sprintf("Rented out for order %s", order.OrderIdentifier),
		CreatedByID:      actorID,
	}
	return tx.Create(&entry).Error
}

// returnProduct releases a product held by the given order: occupancy flips
// back to available, the order reference and timestamps are cleared, and a
// rental_in ledger entry is appended.
func returnProduct(tx *gorm.DB, order *models.Order, product *models.Product, quantity int, actorID *uint) error {
	if product.ProductType != models.ProductTypeRental {
		return nil
	}

	updates := map[string]interface{}{
		"rental_status":     models.RentalStatusAvailable,
		"current_order_id":  nil,
		"rental_start_date": nil,
		"rental_due_date":   nil,
	}
	if err := tx.Model(product).Updates(updates).Error; err != nil {
		return err
	}
	product.RentalStatus = models.RentalStatusAvailable
	product.CurrentOrderID = nil
	product.RentalStartDate = nil
	product.RentalDueDate = nil

	entry := models.InventoryTransaction{
		ProductID:        product.ID,
		TransactionType:  models.TransactionRentalIn,
		Quantity:         quantity,
		ReferenceOrderID: &order.ID,
		Notes:            fmt.Sprintf("Returned from order %s", order.OrderIdentifier),
		CreatedByID:      actorID,
	}
	return tx.Create(&entry).Error
}

// activeRentalOrders returns the non-terminal rental orders holding the
// given product through a line item.
func activeRentalOrders(tx *gorm.DB, productID uint) ([]models.Order, error) {
	var orders []models.Order
	err := tx.
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("order_items.product_id = ?", productID).
		Where("orders.order_type = ?", models.OrderTypeRental).
		Where("orders.status IN ?", models.ActiveRentalStatuses).
		Distinct("orders.*").
		Find(&orders).Error
	return orders, err
}

// SyncProduct reconciles one product's occupancy against the set of active
// rental orders that reference it. The invariant maintained: occupancy is
// rented if and only if at least one non-terminal rental order holds the
// product. Writes happen only on drift, so a clean product produces zero
// writes. A product held by more than one active order is a data-integrity
// error and is surfaced, not repaired.
//
// Returns the reconciled occupancy state and whether a correction was made.
func SyncProduct(tx *gorm.DB, product *models.Product) (models.RentalStatus, bool, error) {
	if product.ProductType != models.ProductTypeRental {
		return product.RentalStatus, false, nil
	}
	// Maintenance is an operator-set state outside the order-driven
	// invariant; the sweep leaves it alone.
	if product.RentalStatus == models.RentalStatusMaintenance {
		return product.RentalStatus, false, nil
	}

	orders, err := activeRentalOrders(tx, product.ID)
	if err != nil {
		return product.RentalStatus, false, err
	}
	if len(orders) > 1 {
		return product.RentalStatus, false, fmt.Errorf("%w: product %q (id %d) held by %d orders",
			ErrRentalConflict, product.Name, product.ID, len(orders))
	}

	if len(orders) == 1 {
		holder := orders[0]
		if product.RentalStatus == models.RentalStatusRented &&
			product.CurrentOrderID != nil && *product.CurrentOrderID == holder.ID {
			return models.RentalStatusRented, false, nil
		}

		log.Printf("[RENTAL] drift: product %q (id %d) should be rented to order %s, was %s",
			product.Name, product.ID, holder.OrderIdentifier, product.RentalStatus)
		start := holder.CreatedAt
		due := start.Add(RentalPeriod)
		if holder.DueDate != nil {
			due = *holder.DueDate
		}
		updates := map[string]interface{}{
			"rental_status":     models.RentalStatusRented,
			"current_order_id":  holder.ID,
			"rental_start_date": start,
			"rental_due_date":   due,
		}
		if err := tx.Model(product).Updates(updates).Error; err != nil {
			return product.RentalStatus, false, err
		}
		product.RentalStatus = models.RentalStatusRented
		product.CurrentOrderID = &holder.ID
		product.RentalStartDate = &start
		product.RentalDueDate = &due
		return models.RentalStatusRented, true, nil
	}

	// No active order holds the product.
	if product.RentalStatus == models.RentalStatusAvailable && product.CurrentOrderID == nil {
		return models.RentalStatusAvailable, false, nil
	}

	log.Printf("[RENTAL] drift: product %q (id %d) marked %s with no active order, releasing",
		product.Name, product.ID, product.RentalStatus)
	updates := map[string]interface{}{
		"rental_status":     models.RentalStatusAvailable,
		"current_order_id":  nil,
		"rental_start_date": nil,
		"rental_due_date":   nil,
	}
	if err := tx.Model(product).Updates(updates).Error; err != nil {
		return product.RentalStatus, false, err
	}
	product.RentalStatus = models.RentalStatusAvailable
	product.CurrentOrderID = nil
	product.RentalStartDate = nil
	product.RentalDueDate = nil
	return models.RentalStatusAvailable, true, nil
}

// SyncAllRentals runs the reconciliation sweep over every active rental
// product. Idempotent: a second pass right after a clean one performs zero
// writes. Integrity conflicts do not stop the sweep; they are collected and
// returned alongside the count of corrected products.
func SyncAllRentals() (int, error) {
	db := config.GetDB()

	var products []models.Product
	if err := db.Where("product_type = ? AND is_active = ? AND is_archived = ?",
		models.ProductTypeRental, true, false).Find(&products).Error; err != nil {
		return 0, err
	}

	corrected := 0
	var conflicts []error
	for i := range products {
		err := db.Transaction(func(tx *gorm.DB) error {
			_, changed, err := SyncProduct(tx, &products[i])
			if err != nil {
				return err
			}
			if changed {
				corrected++
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, ErrRentalConflict) {
				conflicts = append(conflicts, err)
				continue
			}
			return corrected, err
		}
	}

	log.Printf("[RENTAL] sync complete: %d of %d products corrected", corrected, len(products))
	if len(conflicts) > 0 {
		return corrected, errors.Join(conflicts...)
	}
	return corrected, nil
}

// CheckOverdueOrders persists the time-derived status for every active
// rental order. The derivation is the same pure function the read path
// uses, so the stored status is only ever a cache of it.
func CheckOverdueOrders() (int, error) {
	db := config.GetDB()
	now := time.Now()

	// Customer is preloaded because the status-change event feeds the
	// notification listener, which needs the phone number.
	var orders []models.Order
	if err := db.Preload("Customer").Where("order_type = ? AND status IN ?",
		models.OrderTypeRental, models.ActiveRentalStatuses).Find(&orders).Error; err != nil {
		return 0, err
	}

	updated := 0
	for i := range orders {
		order := &orders[i]
		derived := models.DeriveStatus(order, now)
		if derived == order.Status {
			continue
		}
		if !models.CanTransition(order.Status, derived) {
			continue
		}

		from := order.Status
		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Model(order).Update("status", derived).Error
		})
		if err != nil {
			return updated, err
		}
		order.Status = derived
		updated++
		Fire(EventOrderStatusChanged, OrderEvent{Order: order, FromStatus: from, ToStatus: derived})
	}

	if updated > 0 {
		log.Printf("[RENTAL] overdue check: %d orders moved", updated)
	}
	return updated, nil
}

package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhijericho/capstone-topstyle-sub000/models"
)

func createRentalOrderFor(t *testing.T, customerID, productID uint) *models.Order {
	t.Helper()
	order, err := CreateOrder(CreateOrderInput{
		CustomerID: customerID,
		OrderType:  models.OrderTypeRental,
		Items:      []OrderItemInput{{ProductID: productID, Quantity: 1}},
	})
	require.NoError(t, err)
	return order
}

func TestSyncProductNoDriftNoWrites(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db, "Maria Cruz", "09181111111")
	category := createTestCategory(t, db, "Gowns")
	gown := createRentalProduct(t, db, category.ID, "Gown")
	createRentalOrderFor(t, customer.ID, gown.ID)

	var product models.Product
	require.NoError(t, db.First(&product, gown.ID).Error)

	status, changed, err := SyncProduct(db, &product)
	require.NoError(t, err)
	assert.Equal(t, models.RentalStatusRented, status)
	assert.False(t, changed, "a clean product must produce zero writes")
}

func TestSyncProductRepairsReleasedDrift(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db, "Maria Cruz", "09181111112")
	category := createTestCategory(t, db, "Gowns")
	gown := createRentalProduct(t, db, category.ID, "Gown")
	order := createRentalOrderFor(t, customer.ID, gown.ID)

	// Manufacture drift: the product was released by hand while the order is
	// still active.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", gown.ID).
		Updates(map[string]interface{}{
			"rental_status":    models.RentalStatusAvailable,
			"current_order_id": nil,
		}).Error)

	var product models.Product
	require.NoError(t, db.First(&product, gown.ID).Error)
	status, changed, err := SyncProduct(db, &product)
	require.NoError(t, err)
	assert.Equal(t, models.RentalStatusRented, status)
	assert.True(t, changed)
	require.NotNil(t, product.CurrentOrderID)
	assert.Equal(t, order.ID, *product.CurrentOrderID)

	// Second pass: already reconciled, nothing to do.
	_, changed, err = SyncProduct(db, &product)
	require.NoError(t, err)
	assert.False(t, changed, "reconciliation must be idempotent")
}

func TestSyncProductRepairsStuckDrift(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db, "Maria Cruz", "09181111113")
	category := createTestCategory(t, db, "Gowns")
	gown := createRentalProduct(t, db, category.ID, "Gown")
	order := createRentalOrderFor(t, customer.ID, gown.ID)

	// The order completes but the product row was never released.
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.StatusCompleted).Error)

	var product models.Product
	require.NoError(t, db.First(&product, gown.ID).Error)
	require.Equal(t, models.RentalStatusRented, product.RentalStatus)

	status, changed, err := SyncProduct(db, &product)
	require.NoError(t, err)
	assert.Equal(t, models.RentalStatusAvailable, status)
	assert.True(t, changed)
	assert.Nil(t, product.CurrentOrderID)
	assert.Nil(t, product.RentalDueDate)
}

func TestSyncProductLeavesMaintenanceAlone(t *testing.T) {
	db := setupTestDB(t)
	category := createTestCategory(t, db, "Gowns")
	gown := createRentalProduct(t, db, category.ID, "Gown")

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", gown.ID).
		Update("rental_status", models.RentalStatusMaintenance).Error)

	var product models.Product
	require.NoError(t, db.First(&product, gown.ID).Error)
	status, changed, err := SyncProduct(db, &product)
	require.NoError(t, err)
	assert.Equal(t, models.RentalStatusMaintenance, status)
	assert.False(t, changed)
}

func TestSyncProductSurfacesConflict(t *testing.T) {
	db := setupTestDB(t)
	customerA := createTestCustomer(t, db, "First Renter", "09181111114")
	customerB := createTestCustomer(t, db, "Second Renter", "09181111115")
	category := createTestCategory(t, db, "Gowns")
	gown := createRentalProduct(t, db, category.ID, "Gown")

	orderA := createRentalOrderFor(t, customerA.ID, gown.ID)

	// Force a second active order onto the same product, bypassing the
	// occupancy guard.
	orderB := newPersistedOrder(t, db, customerB.ID, "TS01RENT-O90")
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", orderB.ID).
		Update("status", models.StatusRented).Error)
	item := models.OrderItem{
		OrderID:   orderB.ID,
		ProductID: gown.ID,
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(1500),
	}
	require.NoError(t, db.Create(&item).Error)

	var product models.Product
	require.NoError(t, db.First(&product, gown.ID).Error)
	_, changed, err := SyncProduct(db, &product)
	assert.ErrorIs(t, err, ErrRentalConflict)
	assert.False(t, changed, "a conflicted product is surfaced, not repaired")
	_ = orderA
}

func TestSyncAllRentalsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db, "Maria Cruz", "09181111116")
	category := createTestCategory(t, db, "Gowns")
	gownA := createRentalProduct(t, db, category.ID, "Gown A")
	gownB := createRentalProduct(t, db, category.ID, "Gown B")
	createRentalOrderFor(t, customer.ID, gownA.ID)

	// Drift on both: A released by hand, B marked rented with no order.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", gownA.ID).
		Updates(map[string]interface{}{"rental_status": models.RentalStatusAvailable, "current_order_id": nil}).Error)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", gownB.ID).
		Update("rental_status", models.RentalStatusRented).Error)

	corrected, err := SyncAllRentals()
	require.NoError(t, err)
	assert.Equal(t, 2, corrected)

	corrected, err = SyncAllRentals()
	require.NoError(t, err)
	assert.Equal(t, 0, corrected, "second sweep right after a clean one is a no-op")
}

func TestCheckOverdueOrdersPersistsDerivedStatus(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db, "Maria Cruz", "09181111117")
	category := createTestCategory(t, db, "Gowns")
	gownA := createRentalProduct(t, db, category.ID, "Gown A")
	gownB := createRentalProduct(t, db, category.ID, "Gown B")

	pastDue := time.Now().Add(-time.Hour)
	overdueOrder, err := CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		OrderType:  models.OrderTypeRental,
		Items:      []OrderItemInput{{ProductID: gownA.ID, Quantity: 1}},
		DueDate:    &pastDue,
	})
	require.NoError(t, err)

	futureDue := time.Now().Add(10 * 24 * time.Hour)
	freshOrder, err := CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		OrderType:  models.OrderTypeRental,
		Items:      []OrderItemInput{{ProductID: gownB.ID, Quantity: 1}},
		DueDate:    &futureDue,
	})
	require.NoError(t, err)

	var fired []models.Status
	Listen(EventOrderStatusChanged, func(payload interface{}) {
		if e, ok := payload.(OrderEvent); ok {
			fired = append(fired, e.ToStatus)
		}
	})

	updated, err := CheckOverdueOrders()
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, []models.Status{models.StatusOverdue}, fired)

	var stored models.Order
	require.NoError(t, db.First(&stored, overdueOrder.ID).Error)
	assert.Equal(t, models.StatusOverdue, stored.Status)

	stored = models.Order{}
	require.NoError(t, db.First(&stored, freshOrder.ID).Error)
	assert.Equal(t, models.StatusRented, stored.Status)

	// Running again persists nothing new.
	updated, err = CheckOverdueOrders()
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestCheckOverdueRentalStillHoldsProduct(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db, "Maria Cruz", "09181111118")
	category := createTestCategory(t, db, "Gowns")
	gown := createRentalProduct(t, db, category.ID, "Gown")

	pastDue := time.Now().Add(-time.Hour)
	order, err := CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		OrderType:  models.OrderTypeRental,
		Items:      []OrderItemInput{{ProductID: gown.ID, Quantity: 1}},
		DueDate:    &pastDue,
	})
	require.NoError(t, err)

	_, err = CheckOverdueOrders()
	require.NoError(t, err)

	// Overdue is still an active rental: the product must stay occupied and
	// the sweep must not release it.
	corrected, err := SyncAllRentals()
	require.NoError(t, err)
	assert.Equal(t, 0, corrected)

	var product models.Product
	require.NoError(t, db.First(&product, gown.ID).Error)
	assert.Equal(t, models.RentalStatusRented, product.RentalStatus)

	// The return path still works from overdue.
	returned, err := ReturnRental(order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, returned.Status)
}

func TestCheckOverdueNotifiesCustomer(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db, "Maria Cruz", "09181111119")
	category := createTestCategory(t, db, "Gowns")
	gown := createRentalProduct(t, db, category.ID, "Gown")

	pastDue := time.Now().Add(-time.Hour)
	order, err := CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		OrderType:  models.OrderTypeRental,
		Items:      []OrderItemInput{{ProductID: gown.ID, Quantity: 1}},
		DueDate:    &pastDue,
	})
	require.NoError(t, err)

	// Listeners go live after creation, so the only send we can observe is
	// the one the sweep triggers.
	mock := &MockNotificationSender{}
	SetNotificationSender(mock)
	RegisterNotificationListeners()

	updated, err := CheckOverdueOrders()
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	require.Len(t, mock.Sent, 1)
	assert.Contains(t, mock.Sent[0], customer.Phone)
	assert.Contains(t, mock.Sent[0], order.OrderIdentifier)
	assert.Contains(t, mock.Sent[0], "overdue")
}

package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/muhijericho/capstone-topstyle-sub000/config"
	"github.com/muhijericho/capstone-topstyle-sub000/models"
)

// Rental pricing is a fixed business rule: every rental order is charged the
// same fee and refundable deposit regardless of the items on it. Caller
// amounts are ignored for rentals.
var (
	RentalFee     = decimal.NewFromInt(1500)
	RentalDeposit = decimal.NewFromInt(500)
)

// RentalTotal returns the fixed charge for a rental order.
func RentalTotal() decimal.Decimal {
	return RentalFee.Add(RentalDeposit)
}

// OrderItemInput is one requested line of a new order. Prices are never
// accepted from the caller; they are read from the product record.
type OrderItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateOrderInput carries everything needed to create an order.
type CreateOrderInput struct {
	CustomerID uint
	OrderType  models.OrderType
	Items      []OrderItemInput
	Notes      string
	DueDate    *time.Time
	PaidAmount decimal.Decimal
	ActorID    *uint
}

// CreateOrder creates an order with its line items in one transaction:
// identifier assignment, pricing, initial status, rental occupancy and
// ledger entries either all commit or none do. Domain events fire only
// after the commit.
func CreateOrder(in CreateOrderInput) (*models.Order, error) {
	if !in.OrderType.Valid() {
		return nil, fmt.Errorf("%w: unknown order type %q", ErrValidation, in.OrderType)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one item", ErrValidation)
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
	}
	if in.PaidAmount.IsNegative() {
		return nil, fmt.Errorf("%w: paid amount cannot be negative", ErrValidation)
	}

	db := config.GetDB()
	var order models.Order
	var events eventBuffer

	err := db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, in.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: customer %d", ErrNotFound, in.CustomerID)
			}
			return err
		}

		identifier, err := NextOrderIdentifier(tx, in.OrderType)
		if err != nil {
			return err
		}

		now := time.Now()
		dueDate := in.DueDate
		if in.OrderType == models.OrderTypeRental && dueDate == nil {
			due := now.Add(RentalPeriod)
			dueDate = &due
		}

		order = models.Order{
			OrderUID:        uuid.New(),
			OrderIdentifier: identifier,
			CustomerID:      customer.ID,
			OrderType:       in.OrderType,
			Status:          models.InitialStatus(in.OrderType),
			Notes:           in.Notes,
			DueDate:         dueDate,
			CreatedByID:     in.ActorID,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		order.Customer = customer

		total := decimal.Zero
		for _, itemIn := range in.Items {
			var product models.Product
			if err := tx.First(&product, itemIn.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d", ErrNotFound, itemIn.ProductID)
				}
				return err
			}
			if !product.IsActive || product.IsArchived {
				return fmt.Errorf("%w: %q is not active", ErrProductUnavailable, product.Name)
			}
			if product.CategoryID == 0 {
				return fmt.Errorf("%w: product %q has no category", ErrValidation, product.Name)
			}

			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  itemIn.Quantity,
				UnitPrice: product.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			total = total.Add(item.TotalPrice)

			switch product.ProductType {
			case models.ProductTypeRental:
				if err := rentProduct(tx, &order, &product, item.Quantity, in.ActorID); err != nil {
					return err
				}
				events.add(EventProductRented, ProductEvent{Product: &product, Order: &order, ActorID: in.ActorID})
			case models.ProductTypeMaterial:
				if err := consumeMaterial(tx, &order, &product, item.Quantity, in.ActorID); err != nil {
					return err
				}
			}
		}

		// Rental orders are charged fixed constants; everything else is the
		// sum of its priced lines.
		if in.OrderType == models.OrderTypeRental {
			order.TotalAmount = RentalTotal()
		} else {
			order.TotalAmount = total
		}
		if in.PaidAmount.GreaterThan(order.TotalAmount) {
			return fmt.Errorf("%w: paid %s against total %s", ErrOverpayment,
				in.PaidAmount.StringFixed(2), order.TotalAmount.StringFixed(2))
		}
		order.PaidAmount = in.PaidAmount
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		events.add(EventOrderCreated, OrderEvent{Order: &order, ToStatus: order.Status, ActorID: in.ActorID})
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.fire()
	return reloadOrder(db, order.ID)
}

// consumeMaterial decrements material stock for an order line and appends
// an "out" ledger entry.
func consumeMaterial(tx *gorm.DB, order *models.Order, product *models.Product, quantity int, actorID *uint) error {
	if product.Quantity < quantity {
		return fmt.Errorf("%w: %q has %d in stock, %d requested",
			ErrProductUnavailable, product.Name, product.Quantity, quantity)
	}
	if err := tx.Model(product).Update("quantity", gorm.Expr("quantity - ?", quantity)).Error; err != nil {
		return err
	}
	product.Quantity -= quantity

	entry := models.InventoryTransaction{
		ProductID:        product.ID,
		TransactionType:  models.TransactionOut,
		Quantity:         -quantity,
		ReferenceOrderID: &order.ID,
		Notes:            fmt.Sprintf("Used for order %s", order.OrderIdentifier),
		CreatedByID:      actorID,
	}
	return tx.Create(&entry).Error
}

// ApplyPayment records a payment against an order. Balance is recomputed
// from total - paid on persist; a zero balance completes pickup-ready
// repair and customize orders.
func ApplyPayment(orderID uint, amount decimal.Decimal, method string, actorID *uint) (*models.Order, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	if method == "" {
		method = "cash"
	}

	db := config.GetDB()
	var order models.Order
	var events eventBuffer

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Customer").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
			}
			return err
		}
		if order.Status.IsTerminal() && order.Status != models.StatusCompleted {
			return fmt.Errorf("%w: cannot pay a %s order", ErrValidation, order.Status)
		}

		newPaid := order.PaidAmount.Add(amount)
		if newPaid.GreaterThan(order.TotalAmount) {
			return fmt.Errorf("%w: paid %s against total %s", ErrOverpayment,
				newPaid.StringFixed(2), order.TotalAmount.StringFixed(2))
		}
		order.PaidAmount = newPaid
		if err := tx.Save(&order).Error; err != nil {
			return err
		}
		events.add(EventPaymentReceived, PaymentEvent{Order: &order, Amount: amount, Method: method, ActorID: actorID})

		// Fully paid repair/customize orders that are waiting for pickup
		// complete on payment. Rentals only complete via return.
		if order.IsPaid() &&
			(order.Status == models.StatusReadyToPickUp || order.Status == models.StatusRepairDone) {
			if err := completeOrder(tx, &order, method, actorID, &events); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.fire()
	return reloadOrder(db, order.ID)
}

// ReturnRental completes a rental order through the explicit "returned"
// action: the only legal path to completed for rentals, even when overdue.
// Every rental product on the order is released back to available and a
// rental_in ledger entry is appended.
func ReturnRental(orderID uint, actorID *uint) (*models.Order, error) {
	db := config.GetDB()
	var order models.Order
	var events eventBuffer

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Customer").Preload("Items.Product").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
			}
			return err
		}
		if order.OrderType != models.OrderTypeRental {
			return fmt.Errorf("%w: order %s is not a rental", ErrValidation, order.OrderIdentifier)
		}
		if !models.CanTransition(order.Status, models.StatusCompleted) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, models.StatusCompleted)
		}

		for i := range order.Items {
			product := order.Items[i].Product
			if product.ProductType != models.ProductTypeRental {
				continue
			}
			if err := returnProduct(tx, &order, &product, order.Items[i].Quantity, actorID); err != nil {
				return err
			}
			events.add(EventProductReturned, ProductEvent{Product: &product, Order: &order, ActorID: actorID})
		}

		return completeOrder(tx, &order, "cash", actorID, &events)
	})
	if err != nil {
		return nil, err
	}

	events.fire()
	return reloadOrder(db, order.ID)
}

// CancelOrder cancels any non-terminal order, releasing rental products it
// holds.
func CancelOrder(orderID uint, actorID *uint) (*models.Order, error) {
	db := config.GetDB()
	var order models.Order
	var events eventBuffer

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Customer").Preload("Items.Product").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
			}
			return err
		}
		if !models.CanTransition(order.Status, models.StatusCancelled) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, models.StatusCancelled)
		}

		for i := range order.Items {
			product := order.Items[i].Product
			if product.ProductType != models.ProductTypeRental {
				continue
			}
			if product.CurrentOrderID == nil || *product.CurrentOrderID != order.ID {
				continue
			}
			if err := returnProduct(tx, &order, &product, order.Items[i].Quantity, actorID); err != nil {
				return err
			}
			events.add(EventProductReturned, ProductEvent{Product: &product, Order: &order, ActorID: actorID})
		}

		from := order.Status
		order.Status = models.StatusCancelled
		if err := tx.Save(&order).Error; err != nil {
			return err
		}
		events.add(EventOrderStatusChanged, OrderEvent{Order: &order, FromStatus: from, ToStatus: models.StatusCancelled, ActorID: actorID})
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.fire()
	return reloadOrder(db, order.ID)
}

// UpdateOrderStatus applies an explicit work transition (e.g. pending ->
// in_progress, in_progress -> repair_done). Rentals cannot be completed
// this way; ReturnRental is the only completion path for them.
func UpdateOrderStatus(orderID uint, to models.Status, actorID *uint) (*models.Order, error) {
	db := config.GetDB()
	var order models.Order
	var events eventBuffer

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Customer").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
			}
			return err
		}
		if !models.CanTransition(order.Status, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, to)
		}
		if to == models.StatusCompleted {
			if order.OrderType == models.OrderTypeRental {
				return fmt.Errorf("%w: rentals complete via return only", ErrInvalidTransition)
			}
			return completeOrder(tx, &order, "cash", actorID, &events)
		}
		if to == models.StatusCancelled {
			return fmt.Errorf("%w: use the cancel operation", ErrValidation)
		}

		from := order.Status
		order.Status = to
		if err := tx.Save(&order).Error; err != nil {
			return err
		}
		events.add(EventOrderStatusChanged, OrderEvent{Order: &order, FromStatus: from, ToStatus: to, ActorID: actorID})
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.fire()
	return reloadOrder(db, order.ID)
}

// completeOrder moves an order to completed and records the sale. Shared by
// the return, payment and explicit-transition paths; always called inside
// their transaction.
func completeOrder(tx *gorm.DB, order *models.Order, paymentMethod string, actorID *uint, events *eventBuffer) error {
	from := order.Status
	order.Status = models.StatusCompleted
	if err := tx.Save(order).Error; err != nil {
		return err
	}
	events.add(EventOrderStatusChanged, OrderEvent{Order: order, FromStatus: from, ToStatus: models.StatusCompleted, ActorID: actorID})

	// One sale per order; completing twice must not duplicate revenue.
	var existing models.Sale
	err := tx.Where("order_id = ?", order.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	identifier, err := NextSalesIdentifier(tx, time.Now().Year())
	if err != nil {
		return err
	}
	sale := models.Sale{
		OrderID:         order.ID,
		SalesIdentifier: identifier,
		Amount:          order.TotalAmount,
		PaymentMethod:   paymentMethod,
	}
	if err := tx.Create(&sale).Error; err != nil {
		return err
	}
	events.add(EventSaleCreated, SaleEvent{Sale: &sale, Order: order})
	return nil
}

// ArchiveOrder soft-deletes a terminal order. Its line items, sale and
// ledger entries remain queryable for reporting.
func ArchiveOrder(orderID uint) error {
	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return err
	}
	if !order.Status.IsTerminal() {
		return fmt.Errorf("%w: only completed or cancelled orders can be archived", ErrValidation)
	}
	return db.Delete(&order).Error
}

// GetOrderByIdentifier loads one order with its relations. The returned
// status is passed through DeriveStatus so a stale persisted status is
// never shown.
func GetOrderByIdentifier(identifier string) (*models.Order, error) {
	db := config.GetDB()
	var order models.Order
	err := db.Preload("Customer").Preload("Items.Product").
		Where("order_identifier = ?", identifier).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, identifier)
		}
		return nil, err
	}
	order.Status = models.DeriveStatus(&order, time.Now())
	return &order, nil
}

// ListOrders returns non-archived orders, optionally filtered by type and
// status, newest first, with read-side status derivation applied.
func ListOrders(orderType models.OrderType, status models.Status) ([]models.Order, error) {
	db := config.GetDB()
	q := db.Preload("Customer").Preload("Items.Product").Order("created_at DESC")
	if orderType != "" {
		q = q.Where("order_type = ?", orderType)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	out := orders[:0]
	for i := range orders {
		orders[i].Status = models.DeriveStatus(&orders[i], now)
		if status != "" && orders[i].Status != status {
			continue
		}
		out = append(out, orders[i])
	}
	return out, nil
}

func reloadOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Customer").Preload("Items.Product").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

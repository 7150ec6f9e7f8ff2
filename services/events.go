package services

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/muhijericho/capstone-topstyle-sub000/models"
)

// Domain event names. Events are fired after the transaction that produced
// them has committed, so listeners never observe state that later rolls back.
const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
	EventProductRented      = "product_rented"
	EventProductReturned    = "product_returned"
	EventPaymentReceived    = "payment_received"
	EventSaleCreated        = "sale_created"
)

// OrderEvent is the payload for order-level events.
type OrderEvent struct {
	Order      *models.Order
	FromStatus models.Status
	ToStatus   models.Status
	ActorID    *uint
}

// ProductEvent is the payload for occupancy events.
type ProductEvent struct {
	Product *models.Product
	Order   *models.Order
	ActorID *uint
}

// PaymentEvent is the payload for payment events.
type PaymentEvent struct {
	Order   *models.Order
	Amount  decimal.Decimal
	Method  string
	ActorID *uint
}

// SaleEvent is the payload for sale creation events.
type SaleEvent struct {
	Sale  *models.Sale
	Order *models.Order
}

// EventHandler receives an event payload.
type EventHandler func(payload interface{})

var (
	eventMu       sync.RWMutex
	eventHandlers = map[string][]EventHandler{}
)

// Listen registers a handler for the given event name.
func Listen(event string, handler EventHandler) {
	eventMu.Lock()
	defer eventMu.Unlock()
	eventHandlers[event] = append(eventHandlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	eventMu.RLock()
	hs := make([]EventHandler, len(eventHandlers[event]))
	copy(hs, eventHandlers[event])
	eventMu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// FlushListeners removes all listeners (useful in tests).
func FlushListeners() {
	eventMu.Lock()
	defer eventMu.Unlock()
	eventHandlers = map[string][]EventHandler{}
}

// pendingEvent is an event collected during a transaction and fired only
// after commit.
type pendingEvent struct {
	name    string
	payload interface{}
}

type eventBuffer struct {
	events []pendingEvent
}

func (b *eventBuffer) add(name string, payload interface{}) {
	b.events = append(b.events, pendingEvent{name: name, payload: payload})
}

func (b *eventBuffer) fire() {
	for _, e := range b.events {
		Fire(e.name, e.payload)
	}
}

package services

import (
	"fmt"
	"log"

	"github.com/muhijericho/capstone-topstyle-sub000/models"
)

// NotificationSender delivers customer-facing notifications (SMS/email).
// Delivery is fire-and-forget: a failed send is logged and never allowed to
// affect the order operation that triggered it.
type NotificationSender interface {
	Send(phone, message string) error
}

var notificationSender NotificationSender = &LogNotificationSender{}

// SetNotificationSender replaces the sender (wire a real SMS gateway in
// production, a mock in tests).
func SetNotificationSender(s NotificationSender) {
	notificationSender = s
}

// LogNotificationSender is the default sender: it only writes the message
// to the application log.
type LogNotificationSender struct{}

// Send logs the notification instead of delivering it.
func (s *LogNotificationSender) Send(phone, message string) error {
	log.Printf("[NOTIFY] to=%s message=%q", phone, message)
	return nil
}

// MockNotificationSender records sent messages for test assertions.
type MockNotificationSender struct {
	Sent []string
}

// Send records the message.
func (m *MockNotificationSender) Send(phone, message string) error {
	m.Sent = append(m.Sent, fmt.Sprintf("%s: %s", phone, message))
	return nil
}

func notify(phone, message string) {
	if phone == "" {
		return
	}
	if err := notificationSender.Send(phone, message); err != nil {
		log.Printf("[NOTIFY] send failed (ignored): %v", err)
	}
}

// RegisterNotificationListeners subscribes customer notifications to the
// order lifecycle events. Call once at startup.
func RegisterNotificationListeners() {
	Listen(EventOrderCreated, func(payload interface{}) {
		e, ok := payload.(OrderEvent)
		if !ok {
			return
		}
		notify(e.Order.Customer.Phone, fmt.Sprintf(
			"TopStyle: your %s order %s has been received. Total: %s",
			e.Order.OrderType, e.Order.OrderIdentifier, e.Order.TotalAmount.StringFixed(2)))
	})

	Listen(EventOrderStatusChanged, func(payload interface{}) {
		e, ok := payload.(OrderEvent)
		if !ok {
			return
		}
		switch e.ToStatus {
		case models.StatusOverdue:
			notify(e.Order.Customer.Phone, fmt.Sprintf(
				"TopStyle: rental order %s is overdue. Please return the items.", e.Order.OrderIdentifier))
		case models.StatusReadyToPickUp, models.StatusRepairDone:
			notify(e.Order.Customer.Phone, fmt.Sprintf(
				"TopStyle: order %s is ready for pickup.", e.Order.OrderIdentifier))
		case models.StatusCompleted:
			notify(e.Order.Customer.Phone, fmt.Sprintf(
				"TopStyle: order %s is complete. Thank you!", e.Order.OrderIdentifier))
		}
	})
}

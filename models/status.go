package models

import "time"

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending       Status = "pending"          // repair/customize order awaiting work
	StatusRented        Status = "rented"           // active rental order
	StatusInProgress    Status = "in_progress"      // repair/customize work started
	StatusAlmostDue     Status = "almost_due"       // rental due within a day
	StatusDue           Status = "due"              // rental due today
	StatusOverdue       Status = "overdue"          // due date has passed
	StatusReadyToPickUp Status = "ready_to_pick_up" // customize order finished, awaiting pickup
	StatusRepairDone    Status = "repair_done"      // repair order finished, awaiting pickup
	StatusCompleted     Status = "completed"
	StatusCancelled     Status = "cancelled"
)

// ActiveRentalStatuses are the statuses under which a rental order still
// holds its products. An order outside this set must not keep any product
// occupied.
var ActiveRentalStatuses = []Status{
	StatusPending,
	StatusRented,
	StatusAlmostDue,
	StatusDue,
	StatusOverdue,
	StatusInProgress,
}

var validNext = map[Status]map[Status]bool{
	StatusPending:       {StatusInProgress: true, StatusRented: true, StatusOverdue: true, StatusCancelled: true},
	StatusRented:        {StatusAlmostDue: true, StatusDue: true, StatusOverdue: true, StatusCompleted: true, StatusCancelled: true},
	StatusInProgress:    {StatusReadyToPickUp: true, StatusRepairDone: true, StatusOverdue: true, StatusCompleted: true, StatusCancelled: true},
	StatusAlmostDue:     {StatusDue: true, StatusOverdue: true, StatusCompleted: true, StatusCancelled: true},
	StatusDue:           {StatusOverdue: true, StatusCompleted: true, StatusCancelled: true},
	StatusOverdue:       {StatusCompleted: true, StatusCancelled: true},
	StatusReadyToPickUp: {StatusCompleted: true, StatusCancelled: true},
	StatusRepairDone:    {StatusCompleted: true, StatusCancelled: true},
	StatusCompleted:     {},
	StatusCancelled:     {},
}

// CanTransition reports whether moving an order from one status to another
// is a legal lifecycle transition.
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// IsTerminal reports whether a status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsActiveRental reports whether a status counts as holding rental products.
func (s Status) IsActiveRental() bool {
	for _, a := range ActiveRentalStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// InitialStatus returns the status a freshly created order starts in.
// Rentals are presumed confirmed at creation and skip "pending".
func InitialStatus(orderType OrderType) Status {
	if orderType == OrderTypeRental {
		return StatusRented
	}
	return StatusPending
}

// DeriveStatus computes the time-driven status of an order as of "now".
// It is a pure function: the same (order, now) pair always yields the same
// result, and it is the single source of truth for both the read path and
// the persisted status.
//
// Precedence when boundary conditions overlap: overdue beats due beats
// almost_due. Orders without a due date never leave their current state
// through this function.
func DeriveStatus(order *Order, now time.Time) Status {
	current := order.Status
	if current.IsTerminal() || order.DueDate == nil {
		return current
	}

	due := *order.DueDate
	if now.After(due) {
		return StatusOverdue
	}

	// Time-driven due/almost-due states apply to rentals only; repair and
	// customize orders are driven by explicit work transitions until overdue.
	if order.OrderType != OrderTypeRental {
		return current
	}

	// "Today" and "tomorrow" are calendar days in the clock's location, not
	// 24h UTC buckets: near local midnight the two disagree.
	dueDay := startOfDay(due.In(now.Location()))
	today := startOfDay(now)
	switch {
	case dueDay.Equal(today):
		return StatusDue
	case dueDay.Equal(today.AddDate(0, 0, 1)) || due.Sub(now) <= 24*time.Hour:
		return StatusAlmostDue
	}
	return current
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

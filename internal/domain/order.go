package domain

import (
	"math"
	"time"
)

// MaxTableNumber is the largest table number the orders table can hold.
const MaxTableNumber = math.MaxInt32

// Order represents a table's order. TotalPrice is derived from Items.
type Order struct {
	ID          int64
	TableNumber int
	Items       []Item
	TotalPrice  int64
	Status      Status
	CreatedAt   time.Time
}

// NewOrder creates a new order with business rules applied. An empty status
// defaults to WAITING.
func NewOrder(tableNumber int, items []Item, status Status, createdAt time.Time) (*Order, error) {
	if status == "" {
		status = StatusWaiting
	}

	order := &Order{
		TableNumber: tableNumber,
		Status:      status,
		CreatedAt:   createdAt,
	}
	order.SetItems(items)

	if err := order.Validate(); err != nil {
		return nil, err
	}

	return order, nil
}

// Validate applies business validation rules
func (o *Order) Validate() error {
	verr := &ValidationError{}
	if o.TableNumber < 0 {
		verr.Add("table_number", "table number must not be negative")
	} else if o.TableNumber > MaxTableNumber {
		verr.Add("table_number", "table number is too large")
	}
	if !o.Status.Valid() {
		verr.Add("status", "status must be one of WAITING, READY, PAID")
	}
	return verr.OrNil()
}

// ItemIDs returns the ids of the order's items.
func (o *Order) ItemIDs() []int64 {
	ids := make([]int64, len(o.Items))
	for i, item := range o.Items {
		ids[i] = item.ID
	}
	return ids
}

// HasItem reports whether the item belongs to the order.
func (o *Order) HasItem(itemID int64) bool {
	for _, item := range o.Items {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

// CreatedOn reports whether the order was created on the calendar day of
// day in loc.
func (o *Order) CreatedOn(day time.Time, loc *time.Location) bool {
	from, to := DayBounds(day, loc)
	return !o.CreatedAt.Before(from) && o.CreatedAt.Before(to)
}

// DayBounds returns the half-open [start, end) interval of the calendar day
// containing t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

package order

import "time"

// OrderShippedEvent is emitted after a tracking code is recorded for an
// order. It is handled by the shipment notification worker outside the
// request/response lifecycle.
type OrderShippedEvent struct {
	OrderID    int64
	Email      string
	Tracking   string
	OccurredAt time.Time
}

func (OrderShippedEvent) EventName() string { return "order.shipped" }

func NewOrderShippedEvent(o *Order) OrderShippedEvent {
	return OrderShippedEvent{
		OrderID:    o.ID,
		Email:      o.Email,
		Tracking:   o.Tracking,
		OccurredAt: time.Now().UTC(),
	}
}

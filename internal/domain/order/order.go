package order

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("order: not found")
	ErrInvalidQuantity = errors.New("order: quantity must be at least one")
	ErrMissingField    = errors.New("order: missing required field")
)

// Order is the persisted record of one customer's purchase request.
// The identifier is assigned by the store on insert and immutable after.
type Order struct {
	ID           int64
	CustomerName string
	Email        string
	Phone        string
	Address      string
	Product      string
	Quantity     int
	Tracking     string
	CreatedAt    time.Time
}

func New(customerName, email, phone, address, product string, quantity int) (*Order, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	return &Order{
		CustomerName: customerName,
		Email:        email,
		Phone:        phone,
		Address:      address,
		Product:      product,
		Quantity:     quantity,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}

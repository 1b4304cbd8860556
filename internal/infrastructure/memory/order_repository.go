package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/oculare/shop-backend/internal/domain/order"
)

// OrderRepository is a mutex-guarded in-memory order store. It backs
// unit tests and runs the service without a database file configured.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[int64]*domain.Order),
	}
}

func (r *OrderRepository) Insert(ctx context.Context, order *domain.Order) (int64, error) {
	_ = ctx
	if order == nil {
		return 0, fmt.Errorf("order repository: order is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := order.Clone()
	stored.ID = r.nextID
	r.orders[stored.ID] = stored
	return stored.ID, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *OrderRepository) SetTracking(ctx context.Context, id int64, tracking string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	order.Tracking = tracking
	return nil
}

func (r *OrderRepository) TotalQuantity(ctx context.Context) (int64, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, order := range r.orders {
		total += int64(order.Quantity)
	}
	return total, nil
}

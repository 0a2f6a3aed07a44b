package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

// OrderRepository is an in-memory OrderRepository sharing the product
// repository's lock for atomic stock decrements.
type OrderRepository struct {
	mu         sync.Mutex
	products   *ProductRepository
	items      map[string]domain.Order
	deliveries map[string][]domain.Delivery
}

// NewOrderRepository returns an in-memory repository backed by the given
// product catalog.
func NewOrderRepository(products *ProductRepository) *OrderRepository {
	return &OrderRepository{
		products:   products,
		items:      make(map[string]domain.Order),
		deliveries: make(map[string][]domain.Delivery),
	}
}

// Place inserts the order and decrements stock, all or nothing. The product
// lock is taken first and held across the whole operation so concurrent
// placements against the same product serialize.
func (r *OrderRepository) Place(_ context.Context, order domain.Order) error {
	r.products.mu.Lock()
	defer r.products.mu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrAlreadyExists
	}
	if err := r.products.decrementAll(order.Lines); err != nil {
		return err
	}

	r.items[order.ID] = cloneOrder(order)
	return nil
}

func (r *OrderRepository) Get(_ context.Context, id string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (r *OrderRepository) List(_ context.Context, limit int) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(domain.Order) bool { return true }, limit), nil
}

func (r *OrderRepository) ListByUser(_ context.Context, userID string, limit int) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(o domain.Order) bool { return o.UserID == userID }, limit), nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus, ownerID string, privileged bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.UserID != ownerID && !privileged {
		return domain.ErrForbidden
	}
	if order.Status != from {
		return domain.ErrInvalidTransition
	}

	order.Status = to
	order.UpdatedAt = time.Now().UTC()
	r.items[id] = order
	return nil
}

func (r *OrderRepository) AssignDelivery(_ context.Context, d domain.Delivery, ownerID string, privileged bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[d.OrderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.UserID != ownerID && !privileged {
		return domain.ErrForbidden
	}
	if order.Status != domain.OrderStatusValidated {
		return domain.ErrInvalidTransition
	}

	order.Status = domain.OrderStatusInProgress
	order.UpdatedAt = time.Now().UTC()
	r.items[d.OrderID] = order
	r.deliveries[d.OrderID] = append(r.deliveries[d.OrderID], d)
	return nil
}

// DeliveriesByOrder exposes assigned deliveries for tests.
func (r *OrderRepository) DeliveriesByOrder(orderID string) []domain.Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Delivery, len(r.deliveries[orderID]))
	copy(out, r.deliveries[orderID])
	return out
}

func (r *OrderRepository) collect(keep func(domain.Order) bool, limit int) []domain.Order {
	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if keep(order) {
			result = append(result, cloneOrder(order))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// cloneOrder copies the order and its line slice so callers cannot mutate
// stored state.
func cloneOrder(o domain.Order) domain.Order {
	lines := make([]domain.OrderLine, len(o.Lines))
	copy(lines, o.Lines)
	o.Lines = lines
	return o
}

var _ domain.OrderRepository = (*OrderRepository)(nil)

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

// ProductRepository is an in-memory product catalog for local development
// and tests. The order repository shares its lock so that stock checks and
// decrements stay atomic across both.
type ProductRepository struct {
	mu    sync.Mutex
	items map[string]domain.Product
}

// NewProductRepository returns an empty in-memory catalog.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{items: make(map[string]domain.Product)}
}

func (r *ProductRepository) Create(_ context.Context, p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[p.ID]; exists {
		return domain.ErrAlreadyExists
	}
	r.items[p.ID] = p
	return nil
}

func (r *ProductRepository) Get(_ context.Context, id string) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *ProductRepository) List(_ context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.Product, 0, len(r.items))
	for _, p := range r.items {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// decrementAll applies every requested decrement or none. Caller-visible
// stock never goes negative. Must be called with r.mu held.
func (r *ProductRepository) decrementAll(lines []domain.OrderLine) error {
	// Totals per product, so several lines against the same product cannot
	// pass the check individually and overdraw together.
	totals := make(map[string]int32, len(lines))
	for _, line := range lines {
		totals[line.ProductID] += line.Qty
	}
	for _, line := range lines {
		p, ok := r.items[line.ProductID]
		if !ok {
			return domain.ErrProductNotFound
		}
		if p.Quantity < totals[line.ProductID] {
			return domain.ErrInsufficientStock
		}
	}
	for id, qty := range totals {
		p := r.items[id]
		p.Quantity -= qty
		r.items[id] = p
	}
	return nil
}

var _ domain.ProductRepository = (*ProductRepository)(nil)

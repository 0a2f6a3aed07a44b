package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

// ComplaintRepository is an in-memory ComplaintRepository.
type ComplaintRepository struct {
	mu    sync.Mutex
	items map[string]domain.Complaint
}

// NewComplaintRepository returns an empty in-memory complaint store.
func NewComplaintRepository() *ComplaintRepository {
	return &ComplaintRepository{items: make(map[string]domain.Complaint)}
}

func (r *ComplaintRepository) Create(_ context.Context, c domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[c.ID]; exists {
		return domain.ErrAlreadyExists
	}
	r.items[c.ID] = c
	return nil
}

func (r *ComplaintRepository) Get(_ context.Context, id string) (domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return domain.Complaint{}, domain.ErrComplaintNotFound
	}
	return c, nil
}

func (r *ComplaintRepository) List(_ context.Context) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(domain.Complaint) bool { return true }), nil
}

func (r *ComplaintRepository) ListByManager(_ context.Context, managerID string) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(c domain.Complaint) bool { return c.ManagerID == managerID }), nil
}

func (r *ComplaintRepository) ListByCommercial(_ context.Context, commercialID string) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(c domain.Complaint) bool { return c.CommercialID == commercialID }), nil
}

func (r *ComplaintRepository) UpdateStatus(_ context.Context, id string, from, to domain.ComplaintStatus, actorID string, privileged bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return domain.ErrComplaintNotFound
	}
	assigned := actorID != "" && (actorID == c.ManagerID || actorID == c.CommercialID)
	if !assigned && !privileged {
		return domain.ErrForbidden
	}
	if c.Status != from {
		return domain.ErrInvalidTransition
	}

	c.Status = to
	c.UpdatedAt = time.Now().UTC()
	r.items[id] = c
	return nil
}

func (r *ComplaintRepository) collect(keep func(domain.Complaint) bool) []domain.Complaint {
	result := make([]domain.Complaint, 0, len(r.items))
	for _, c := range r.items {
		if keep(c) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

var _ domain.ComplaintRepository = (*ComplaintRepository)(nil)

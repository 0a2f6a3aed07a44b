package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

// StationRepository is an in-memory StationRepository.
type StationRepository struct {
	mu    sync.Mutex
	items map[string]domain.Station
}

// NewStationRepository returns an empty in-memory station registry.
func NewStationRepository() *StationRepository {
	return &StationRepository{items: make(map[string]domain.Station)}
}

func (r *StationRepository) Create(_ context.Context, s domain.Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[s.ID]; exists {
		return domain.ErrAlreadyExists
	}
	r.items[s.ID] = s
	return nil
}

func (r *StationRepository) Get(_ context.Context, id string) (domain.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok {
		return domain.Station{}, domain.ErrStationNotFound
	}
	return s, nil
}

func (r *StationRepository) List(_ context.Context) ([]domain.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.Station, 0, len(r.items))
	for _, s := range r.items {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

var _ domain.StationRepository = (*StationRepository)(nil)

package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

// UserRepository is an in-memory UserRepository.
type UserRepository struct {
	mu    sync.Mutex
	items map[string]domain.User
}

// NewUserRepository returns an empty in-memory account store.
func NewUserRepository() *UserRepository {
	return &UserRepository{items: make(map[string]domain.User)}
}

func (r *UserRepository) Create(_ context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[u.ID]; exists {
		return domain.ErrAlreadyExists
	}
	for _, existing := range r.items {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrAlreadyExists
		}
	}
	r.items[u.ID] = u
	return nil
}

func (r *UserRepository) Get(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.items {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.User, 0, len(r.items))
	for _, u := range r.items {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}

var _ domain.UserRepository = (*UserRepository)(nil)

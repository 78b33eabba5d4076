package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"lenormand-api/internal/core/domain"

	"github.com/google/uuid"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Phone == u.Phone {
			return fmt.Errorf("phone already registered")
		}
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *inMemoryUserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Phone == phone {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) Update(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return fmt.Errorf("user not found")
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

// --- In-Memory Reading Repo ---

type inMemoryReadingRepo struct {
	mu       sync.RWMutex
	readings map[uuid.UUID]*domain.Reading
}

func newInMemoryReadingRepo() *inMemoryReadingRepo {
	return &inMemoryReadingRepo{readings: make(map[uuid.UUID]*domain.Reading)}
}

func (r *inMemoryReadingRepo) Create(ctx context.Context, reading *domain.Reading) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *reading
	r.readings[reading.ID] = &copied
	return nil
}

func (r *inMemoryReadingRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reading, ok := r.readings[id]
	if !ok || reading.UserID != userID {
		return nil, nil
	}
	copied := *reading
	return &copied, nil
}

func (r *inMemoryReadingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Reading
	for _, reading := range r.readings {
		if reading.UserID == userID {
			out = append(out, *reading)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *inMemoryReadingRepo) UpdateReflection(ctx context.Context, userID, id uuid.UUID, reflection string) (*domain.Reading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reading, ok := r.readings[id]
	if !ok || reading.UserID != userID {
		return nil, nil
	}
	reading.Reflection = &reflection
	copied := *reading
	return &copied, nil
}

func (r *inMemoryReadingRepo) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reading, ok := r.readings[id]
	if !ok || reading.UserID != userID {
		return false, nil
	}
	delete(r.readings, id)
	return true, nil
}

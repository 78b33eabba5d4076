package ports

import (
	"context"

	"lenormand-api/internal/core/domain"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// ReadingRepository defines persistence operations for readings. Every
// operation is scoped to the owning user; a reading owned by someone else
// behaves exactly like a missing one.
type ReadingRepository interface {
	Create(ctx context.Context, reading *domain.Reading) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Reading, error)
	// ListByUser returns the user's readings ordered by creation time, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Reading, error)
	// UpdateReflection sets the reflection text and returns the updated
	// reading, or nil if no owned reading matches.
	UpdateReflection(ctx context.Context, userID, id uuid.UUID, reflection string) (*domain.Reading, error)
	// Delete removes an owned reading. Returns false if nothing was deleted.
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

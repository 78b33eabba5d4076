package service

import (
	"context"
	"time"

	"lenormand-api/internal/core/domain"
	"lenormand-api/internal/core/ports"
	"lenormand-api/pkg/apperror"

	"github.com/google/uuid"
)

// ReadingServiceImpl implements ports.ReadingService. Every operation is
// scoped to the calling user; foreign readings are indistinguishable from
// missing ones.
type ReadingServiceImpl struct {
	repo ports.ReadingRepository
}

// NewReadingService creates a new ReadingServiceImpl.
func NewReadingService(repo ports.ReadingRepository) *ReadingServiceImpl {
	return &ReadingServiceImpl{repo: repo}
}

// List returns the user's readings, newest first.
func (s *ReadingServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]domain.Reading, error) {
	readings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if readings == nil {
		readings = []domain.Reading{}
	}
	return readings, nil
}

// Get returns one owned reading.
func (s *ReadingServiceImpl) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Reading, error) {
	reading, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if reading == nil {
		return nil, apperror.ErrNotFound("Reading")
	}
	return reading, nil
}

// Create validates and persists a new reading with a server-assigned id and
// timestamp.
func (s *ReadingServiceImpl) Create(ctx context.Context, userID uuid.UUID, draft *domain.Reading) (*domain.Reading, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	draft.ID = uuid.New()
	draft.UserID = userID
	draft.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, draft); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return draft, nil
}

func validateDraft(draft *domain.Reading) error {
	switch {
	case draft.Date == "":
		return apperror.Validation("date is required")
	case draft.Title == "":
		return apperror.Validation("title is required")
	case len(draft.Cards) == 0:
		return apperror.Validation("cards are required")
	case draft.Interpretation == "":
		return apperror.Validation("interpretation is required")
	case draft.SpreadType <= 0:
		return apperror.Validation("spreadType is required")
	}
	return nil
}

// UpdateReflection replaces the reflection of an owned reading.
func (s *ReadingServiceImpl) UpdateReflection(ctx context.Context, userID, id uuid.UUID, reflection string) (*domain.Reading, error) {
	reading, err := s.repo.UpdateReflection(ctx, userID, id, reflection)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if reading == nil {
		return nil, apperror.ErrNotFound("Reading")
	}
	return reading, nil
}

// Delete removes an owned reading. Deleting an already-deleted reading
// reports NotFound.
func (s *ReadingServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if !deleted {
		return apperror.ErrNotFound("Reading")
	}
	return nil
}

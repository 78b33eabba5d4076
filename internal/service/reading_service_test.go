package service

import (
	"context"
	"errors"
	"testing"

	"lenormand-api/internal/core/domain"
	"lenormand-api/internal/core/ports/mocks"
	"lenormand-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupReadingService(t *testing.T) (*ReadingServiceImpl, *mocks.MockReadingRepository, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockReadingRepository(ctrl)
	return NewReadingService(repo), repo, ctrl
}

func validReadingDraft() *domain.Reading {
	return &domain.Reading{
		Date:  "2026-08-28",
		Title: "Morning draw",
		Cards: []domain.Card{
			{ID: 1, Name: "Rider", NameCn: "骑士", Keyword: "news"},
			{ID: 17, Name: "Stork", NameCn: "鹳鸟", Keyword: "change"},
			{ID: 28, Name: "Man", NameCn: "男人", Keyword: "partner"},
		},
		Interpretation: "Change arrives with news from a familiar figure.",
		SpreadType:     3,
		LayoutType:     "line",
	}
}

func TestReadingService_List(t *testing.T) {
	svc, repo, ctrl := setupReadingService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	stored := []domain.Reading{{ID: uuid.New(), UserID: userID, Title: "one"}}

	repo.EXPECT().ListByUser(ctx, userID).Return(stored, nil)

	readings, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, stored, readings)
}

func TestReadingService_List_EmptyIsNotNil(t *testing.T) {
	svc, repo, ctrl := setupReadingService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	repo.EXPECT().ListByUser(ctx, userID).Return(nil, nil)

	readings, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, readings, "empty list must serialize as [] not null")
	assert.Len(t, readings, 0)
}

func TestReadingService_Get_NotFound(t *testing.T) {
	svc, repo, ctrl := setupReadingService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID, id := uuid.New(), uuid.New()
	repo.EXPECT().GetByID(ctx, userID, id).Return(nil, nil)

	_, err := svc.Get(ctx, userID, id)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestReadingService_Create_AssignsServerFields(t *testing.T) {
	svc, repo, ctrl := setupReadingService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	draft := validReadingDraft()

	repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	created, err := svc.Create(ctx, userID, draft)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, userID, created.UserID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestReadingService_Create_Validation(t *testing.T) {
	svc, _, ctrl := setupReadingService(t)
	defer ctrl.Finish()

	tests := []struct {
		name   string
		mutate func(*domain.Reading)
	}{
		{"missing date", func(r *domain.Reading) { r.Date = "" }},
		{"missing title", func(r *domain.Reading) { r.Title = "" }},
		{"no cards", func(r *domain.Reading) { r.Cards = nil }},
		{"missing interpretation", func(r *domain.Reading) { r.Interpretation = "" }},
		{"zero spread type", func(r *domain.Reading) { r.SpreadType = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validReadingDraft()
			tt.mutate(draft)

			_, err := svc.Create(context.Background(), uuid.New(), draft)
			require.Error(t, err)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 400, appErr.HTTPStatus)
		})
	}
}

func TestReadingService_UpdateReflection(t *testing.T) {
	svc, repo, ctrl := setupReadingService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID, id := uuid.New(), uuid.New()
	updated := &domain.Reading{ID: id, UserID: userID, Reflection: strPtr("it came true")}

	repo.EXPECT().UpdateReflection(ctx, userID, id, "it came true").Return(updated, nil)

	reading, err := svc.UpdateReflection(ctx, userID, id, "it came true")
	require.NoError(t, err)
	assert.Equal(t, updated, reading)
}

func TestReadingService_UpdateReflection_ForeignReading(t *testing.T) {
	svc, repo, ctrl := setupReadingService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID, id := uuid.New(), uuid.New()
	repo.EXPECT().UpdateReflection(ctx, userID, id, "nope").Return(nil, nil)

	_, err := svc.UpdateReflection(ctx, userID, id, "nope")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestReadingService_Delete(t *testing.T) {
	svc, repo, ctrl := setupReadingService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID, id := uuid.New(), uuid.New()
	repo.EXPECT().Delete(ctx, userID, id).Return(true, nil)

	require.NoError(t, svc.Delete(ctx, userID, id))
}

func TestReadingService_Delete_AlreadyGone(t *testing.T) {
	svc, repo, ctrl := setupReadingService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID, id := uuid.New(), uuid.New()
	repo.EXPECT().Delete(ctx, userID, id).Return(false, nil)

	err := svc.Delete(ctx, userID, id)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestReadingService_Delete_RepoError(t *testing.T) {
	svc, repo, ctrl := setupReadingService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID, id := uuid.New(), uuid.New()
	repo.EXPECT().Delete(ctx, userID, id).Return(false, errors.New("connection reset"))

	err := svc.Delete(ctx, userID, id)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.HTTPStatus)
}

func strPtr(s string) *string { return &s }

package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/services"
	"github.com/vytor/wordflash/internal/testutil/mocks"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newItemService() (services.ItemService, *mocks.MockItemRepository, *mocks.MockJobQueue) {
	repo := new(mocks.MockItemRepository)
	queue := new(mocks.MockJobQueue)
	svc := services.NewItemService(repo, queue, services.WithClock(func() time.Time { return fixedNow }))
	return svc, repo, queue
}

func TestItemService_Create(t *testing.T) {
	svc, repo, queue := newItemService()
	ctx := context.Background()

	repo.On("Insert", ctx, models.Item{Term: "wistful", Definition: "full of longing", Topic: "moods", CreatedAt: fixedNow}).
		Return(int64(12), nil)
	queue.On("EnqueueWarmup", "wistful").Return(nil)

	item, err := svc.Create(ctx, models.Item{Term: "  wistful ", Definition: "full of longing ", Topic: " moods"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), item.ID)
	assert.Equal(t, "wistful", item.Term)
	queue.AssertExpectations(t)
}

func TestItemService_Create_QueueFullIsNotFatal(t *testing.T) {
	svc, repo, queue := newItemService()
	ctx := context.Background()
	repo.On("Insert", ctx, mock.Anything).Return(int64(1), nil)
	queue.On("EnqueueWarmup", "x").Return(errors.New("queue full"))

	_, err := svc.Create(ctx, models.Item{Term: "x", Definition: "y"})
	assert.NoError(t, err)
}

func TestItemService_Create_Validation(t *testing.T) {
	svc, repo, _ := newItemService()
	ctx := context.Background()

	cases := []models.Item{
		{Term: "", Definition: "d"},
		{Term: "t", Definition: "  "},
		{Term: strings.Repeat("a", services.MaxTermLength+1), Definition: "d"},
	}
	for _, c := range cases {
		_, err := svc.Create(ctx, c)
		assert.Equal(t, apperrors.ErrCodeValidation, appCode(t, err))
	}
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestItemService_Get(t *testing.T) {
	svc, repo, _ := newItemService()
	ctx := context.Background()
	repo.On("Get", ctx, int64(1)).Return(&models.Item{ID: 1}, nil)
	repo.On("Get", ctx, int64(2)).Return(nil, nil)
	repo.On("Get", ctx, int64(3)).Return(nil, errors.New("boom"))

	item, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.ID)

	_, err = svc.Get(ctx, 2)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.Get(ctx, 3)
	assert.Equal(t, apperrors.ErrCodeInternal, appCode(t, err))
}

func TestItemService_List(t *testing.T) {
	svc, repo, _ := newItemService()
	ctx := context.Background()
	repo.On("List", ctx, models.ItemFilter{Topic: "moods", Limit: 10}).Return([]models.Item{{ID: 1}}, nil)

	items, err := svc.List(ctx, models.ItemFilter{Topic: " moods ", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.List(ctx, models.ItemFilter{Limit: -1})
	assert.Equal(t, apperrors.ErrCodeValidation, appCode(t, err))
}

func TestItemService_Delete(t *testing.T) {
	svc, repo, _ := newItemService()
	ctx := context.Background()
	repo.On("Delete", ctx, int64(1)).Return(true, nil)
	repo.On("Delete", ctx, int64(2)).Return(false, nil)

	assert.NoError(t, svc.Delete(ctx, 1))
	assert.True(t, apperrors.IsNotFound(svc.Delete(ctx, 2)))
}

func TestItemService_Import(t *testing.T) {
	svc, repo, queue := newItemService()
	ctx := context.Background()

	repo.On("Upsert", ctx, mock.MatchedBy(func(it models.Item) bool { return it.Term == "new" })).Return(int64(1), true, nil)
	repo.On("Upsert", ctx, mock.MatchedBy(func(it models.Item) bool { return it.Term == "old" })).Return(int64(2), false, nil)
	queue.On("EnqueueWarmup", "new").Return(nil)

	summary, err := svc.Import(ctx, []models.Item{
		{Term: "new", Definition: "d1"},
		{Term: "old", Definition: "d2"},
		{Term: "", Definition: "d3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "row 3")
	queue.AssertNotCalled(t, "EnqueueWarmup", "old")
}

func TestItemService_Import_StorageFailureAborts(t *testing.T) {
	svc, repo, _ := newItemService()
	ctx := context.Background()
	repo.On("Upsert", ctx, mock.Anything).Return(int64(0), false, errors.New("readonly"))

	summary, err := svc.Import(ctx, []models.Item{{Term: "a", Definition: "b"}, {Term: "c", Definition: "d"}})
	assert.Equal(t, apperrors.ErrCodeInternal, appCode(t, err))
	assert.Equal(t, 0, summary.Created)
	repo.AssertNumberOfCalls(t, "Upsert", 1)
}

func TestItemService_NilQueue(t *testing.T) {
	repo := new(mocks.MockItemRepository)
	svc := services.NewItemService(repo, nil)
	repo.On("Insert", mock.Anything, mock.Anything).Return(int64(1), nil)

	_, err := svc.Create(context.Background(), models.Item{Term: "a", Definition: "b"})
	assert.NoError(t, err)
}

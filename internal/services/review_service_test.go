package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/grading"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/services"
	"github.com/vytor/wordflash/internal/testutil"
	"github.com/vytor/wordflash/internal/testutil/mocks"
)

type reviewFixture struct {
	items    *mocks.MockItemRepository
	states   *mocks.MockReviewStateRepository
	attempts *mocks.MockAttemptRepository
	grader   *mocks.MockGrader
	svc      services.ReviewService
	now      time.Time
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		items:    new(mocks.MockItemRepository),
		states:   new(mocks.MockReviewStateRepository),
		attempts: new(mocks.MockAttemptRepository),
		grader:   new(mocks.MockGrader),
		now:      time.Date(2024, 1, 5, 14, 30, 0, 0, time.UTC),
	}
	f.svc = services.NewReviewService(f.items, f.states, f.attempts, f.grader,
		services.WithClock(func() time.Time { return f.now }))
	return f
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Code
}

func stateOf(streak, interval int, due time.Time) *models.ReviewState {
	return &models.ReviewState{UserID: 1, ItemID: 7, Streak: streak, IntervalDays: interval, DueOn: &due}
}

func TestRecordAttempt_Pass(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	f.items.On("Get", ctx, int64(7)).Return(&models.Item{ID: 7, Term: "wistful"}, nil)
	f.states.On("Apply", ctx, int64(1), int64(7)).Return(stateOf(2, 4, testutil.Date(2024, 1, 5)), nil)
	f.attempts.On("Insert", ctx, mock.MatchedBy(func(a models.Attempt) bool {
		return a.Grade == models.GradePass && a.Mode == models.ModeFlashcard && a.AttemptedAt.Equal(f.now)
	})).Return(int64(1), nil)

	res, err := f.svc.RecordAttempt(ctx, 1, 7, models.GradePass, "")
	require.NoError(t, err)

	assert.Equal(t, models.GradePass, res.Grade)
	assert.Equal(t, 3, res.State.Streak)
	assert.Equal(t, 8, res.State.IntervalDays)
	require.NotNil(t, res.State.DueOn)
	assert.Equal(t, testutil.Date(2024, 1, 13), *res.State.DueOn)
	f.attempts.AssertExpectations(t)
}

func TestRecordAttempt_AlmostKeepsStreak(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	f.items.On("Get", ctx, int64(7)).Return(&models.Item{ID: 7}, nil)
	f.states.On("Apply", ctx, int64(1), int64(7)).Return(stateOf(2, 4, testutil.Date(2024, 1, 5)), nil)
	f.attempts.On("Insert", ctx, mock.Anything).Return(int64(1), nil)

	res, err := f.svc.RecordAttempt(ctx, 1, 7, models.GradeAlmost, models.ModeFlashcard)
	require.NoError(t, err)
	assert.Equal(t, 2, res.State.Streak)
	assert.Equal(t, 2, res.State.IntervalDays)
	assert.Equal(t, testutil.Date(2024, 1, 7), *res.State.DueOn)
}

func TestRecordAttempt_FirstAttempt(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	f.items.On("Get", ctx, int64(7)).Return(&models.Item{ID: 7}, nil)
	f.states.On("Apply", ctx, int64(1), int64(7)).Return(nil, nil)
	f.attempts.On("Insert", ctx, mock.Anything).Return(int64(1), nil)

	res, err := f.svc.RecordAttempt(ctx, 1, 7, models.GradeFail, models.ModeFlashcard)
	require.NoError(t, err)
	assert.Equal(t, 0, res.State.Streak)
	assert.Equal(t, 1, res.State.IntervalDays)
	assert.Equal(t, testutil.Date(2024, 1, 6), *res.State.DueOn)
}

func TestRecordAttempt_HistoryFailureIsNotFatal(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	f.items.On("Get", ctx, int64(7)).Return(&models.Item{ID: 7}, nil)
	f.states.On("Apply", ctx, int64(1), int64(7)).Return(nil, nil)
	f.attempts.On("Insert", ctx, mock.Anything).Return(int64(0), errors.New("disk full"))

	res, err := f.svc.RecordAttempt(ctx, 1, 7, models.GradePass, models.ModeFlashcard)
	require.NoError(t, err)
	assert.Equal(t, 1, res.State.Streak)
}

func TestRecordAttempt_Validation(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()

	_, err := f.svc.RecordAttempt(ctx, 0, 7, models.GradePass, "")
	assert.Equal(t, apperrors.ErrCodeValidation, appCode(t, err))

	_, err = f.svc.RecordAttempt(ctx, 1, 7, models.Grade(9), "")
	assert.Equal(t, apperrors.ErrCodeValidation, appCode(t, err))

	_, err = f.svc.RecordAttempt(ctx, 1, 7, models.GradePass, "typing")
	assert.Equal(t, apperrors.ErrCodeValidation, appCode(t, err))

	f.states.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordAttempt_UnknownItem(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	f.items.On("Get", ctx, int64(99)).Return(nil, nil)

	_, err := f.svc.RecordAttempt(ctx, 1, 99, models.GradePass, "")
	assert.Equal(t, apperrors.ErrCodeNotFound, appCode(t, err))
}

func TestRecordAttempt_StateFailure(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	f.items.On("Get", ctx, int64(7)).Return(&models.Item{ID: 7}, nil)
	f.states.On("Apply", ctx, int64(1), int64(7)).Return(nil, errors.New("locked"))

	_, err := f.svc.RecordAttempt(ctx, 1, 7, models.GradePass, "")
	assert.Equal(t, apperrors.ErrCodeInternal, appCode(t, err))
	f.attempts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestGradeSpokenAttempt(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	item := &models.Item{ID: 7, Term: "wistful", Definition: "full of yearning"}
	f.items.On("Get", ctx, int64(7)).Return(item, nil)
	f.grader.On("Grade", ctx, grading.Request{Term: "wistful", Canonical: "full of yearning", Transcript: "longing"}).
		Return(&grading.Result{Grade: models.GradeAlmost, Feedback: "close"}, nil)
	f.states.On("Apply", ctx, int64(1), int64(7)).Return(stateOf(3, 8, testutil.Date(2024, 1, 5)), nil)
	f.attempts.On("Insert", ctx, mock.MatchedBy(func(a models.Attempt) bool {
		return a.Mode == models.ModeVoice && a.Transcript == "longing" && a.Feedback == "close"
	})).Return(int64(1), nil)

	res, err := f.svc.GradeSpokenAttempt(ctx, 1, 7, "longing")
	require.NoError(t, err)
	assert.Equal(t, models.GradeAlmost, res.Grade)
	assert.Equal(t, "close", res.Feedback)
	assert.Equal(t, 3, res.State.Streak)
	assert.Equal(t, 4, res.State.IntervalDays)
	f.attempts.AssertExpectations(t)
}

func TestGradeSpokenAttempt_GraderErrors(t *testing.T) {
	ctx := context.Background()
	item := &models.Item{ID: 7, Term: "wistful", Definition: "full of yearning"}

	t.Run("empty transcript", func(t *testing.T) {
		f := newReviewFixture()
		f.items.On("Get", ctx, int64(7)).Return(item, nil)
		f.grader.On("Grade", ctx, mock.Anything).Return(nil, grading.ErrEmptyTranscript)

		_, err := f.svc.GradeSpokenAttempt(ctx, 1, 7, "")
		assert.Equal(t, apperrors.ErrCodeValidation, appCode(t, err))
	})

	t.Run("grader down", func(t *testing.T) {
		f := newReviewFixture()
		f.items.On("Get", ctx, int64(7)).Return(item, nil)
		f.grader.On("Grade", ctx, mock.Anything).Return(nil, errors.New("503"))

		_, err := f.svc.GradeSpokenAttempt(ctx, 1, 7, "longing")
		assert.Equal(t, apperrors.ErrCodeUnavailable, appCode(t, err))
		f.states.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDueSession(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	states := []models.ReviewState{
		*stateOf(1, 1, testutil.Date(2024, 1, 5)),
		{UserID: 1, ItemID: 8, IntervalDays: 2, DueOn: ptrDate(2024, 1, 3)},
		{UserID: 1, ItemID: 9, IntervalDays: 4, DueOn: ptrDate(2024, 1, 9)},
		{UserID: 1, ItemID: 10},
	}
	f.states.On("ListByUser", ctx, int64(1)).Return(states, nil)
	f.items.On("GetMany", ctx, []int64{8, 7}).Return([]models.Item{{ID: 7, Term: "a"}, {ID: 8, Term: "b"}}, nil)

	due, err := f.svc.DueSession(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, int64(8), due[0].ID)
	assert.Equal(t, "b", due[0].Term)
	assert.Equal(t, 2, due[0].State.IntervalDays)
	assert.Equal(t, int64(7), due[1].ID)
}

func TestDueSession_SkipsDeletedItems(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	f.states.On("ListByUser", ctx, int64(1)).Return([]models.ReviewState{*stateOf(1, 1, testutil.Date(2024, 1, 4))}, nil)
	f.items.On("GetMany", ctx, []int64{7}).Return([]models.Item{}, nil)

	due, err := f.svc.DueSession(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestDueSession_NothingDue(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	f.states.On("ListByUser", ctx, int64(1)).Return([]models.ReviewState{}, nil)

	due, err := f.svc.DueSession(ctx, 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, due)
	assert.Empty(t, due)
	f.items.AssertNotCalled(t, "GetMany", mock.Anything, mock.Anything)
}

func TestDueSession_InvalidLimit(t *testing.T) {
	f := newReviewFixture()
	_, err := f.svc.DueSession(context.Background(), 1, 501)
	assert.Equal(t, apperrors.ErrCodeValidation, appCode(t, err))
}

func TestState(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	f.states.On("Get", ctx, int64(1), int64(7)).Return(stateOf(1, 1, testutil.Date(2024, 1, 6)), nil)
	f.states.On("Get", ctx, int64(1), int64(8)).Return(nil, nil)

	st, err := f.svc.State(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Streak)

	_, err = f.svc.State(ctx, 1, 8)
	assert.Equal(t, apperrors.ErrCodeNotFound, appCode(t, err))
}

func TestHistory(t *testing.T) {
	f := newReviewFixture()
	ctx := context.Background()
	f.attempts.On("ListByItem", ctx, int64(1), int64(7), 20).Return([]models.Attempt{{ID: 3}}, nil)

	got, err := f.svc.History(ctx, 1, 7, 20)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func ptrDate(y int, m time.Month, d int) *time.Time {
	t := testutil.Date(y, m, d)
	return &t
}

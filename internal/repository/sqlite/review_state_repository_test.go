package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/repository/sqlite"
	"github.com/vytor/wordflash/internal/review"
	"github.com/vytor/wordflash/internal/testutil"
)

type ReviewStateRepositorySuite struct {
	suite.Suite
	db    *sql.DB
	repo  repository.ReviewStateRepository
	items repository.ItemRepository
}

func (s *ReviewStateRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewReviewStateRepository(s.db)
	s.items = sqlite.NewItemRepository(s.db)
}

func (s *ReviewStateRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ReviewStateRepositorySuite) newItem(term string) int64 {
	id, err := s.items.Insert(context.Background(), models.Item{Term: term})
	s.Require().NoError(err)
	return id
}

func (s *ReviewStateRepositorySuite) advance(userID, itemID int64, grade models.Grade, today time.Time) models.ReviewState {
	st, err := s.repo.Apply(context.Background(), userID, itemID, func(cur *models.ReviewState) (models.ReviewState, error) {
		return review.Advance(cur, grade, today), nil
	})
	s.Require().NoError(err)
	return st
}

func (s *ReviewStateRepositorySuite) TestApply_CreatesThenUpdates() {
	ctx := context.Background()
	itemID := s.newItem("cat")
	day := testutil.Date(2024, 1, 5)

	first := s.advance(1, itemID, models.GradePass, day)
	s.Equal(1, first.Streak)
	s.Equal(1, first.IntervalDays)

	second := s.advance(1, itemID, models.GradePass, day.AddDate(0, 0, 1))
	s.Equal(2, second.Streak)
	s.Equal(2, second.IntervalDays)

	got, err := s.repo.Get(ctx, 1, itemID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(2, got.Streak)
	s.Equal(2, got.IntervalDays)
	s.Require().NotNil(got.DueOn)
	s.True(testutil.Date(2024, 1, 8).Equal(*got.DueOn))
	s.Require().NotNil(got.LastResult)
	s.Equal(models.GradePass, *got.LastResult)
}

func (s *ReviewStateRepositorySuite) TestApply_ErrorRollsBack() {
	ctx := context.Background()
	itemID := s.newItem("dog")
	boom := errors.New("boom")

	_, err := s.repo.Apply(ctx, 1, itemID, func(*models.ReviewState) (models.ReviewState, error) {
		return models.ReviewState{}, boom
	})
	s.ErrorIs(err, boom)

	got, err := s.repo.Get(ctx, 1, itemID)
	s.NoError(err)
	s.Nil(got)
}

func (s *ReviewStateRepositorySuite) TestApply_SeesCurrentState() {
	itemID := s.newItem("owl")
	day := testutil.Date(2024, 1, 5)
	s.advance(3, itemID, models.GradeFail, day)

	var seen *models.ReviewState
	_, err := s.repo.Apply(context.Background(), 3, itemID, func(cur *models.ReviewState) (models.ReviewState, error) {
		seen = cur
		return review.Advance(cur, models.GradeAlmost, day), nil
	})
	s.Require().NoError(err)
	s.Require().NotNil(seen)
	s.Equal(0, seen.Streak)
	s.Equal(models.GradeFail, *seen.LastResult)
}

func (s *ReviewStateRepositorySuite) TestListByUserAndDue() {
	ctx := context.Background()
	a, b, c := s.newItem("a"), s.newItem("b"), s.newItem("c")

	s.advance(1, a, models.GradePass, testutil.Date(2024, 1, 1)) // due 01-02
	s.advance(1, b, models.GradePass, testutil.Date(2024, 1, 3)) // due 01-04
	s.advance(1, c, models.GradePass, testutil.Date(2024, 1, 9)) // due 01-10
	s.advance(2, a, models.GradeFail, testutil.Date(2024, 1, 2)) // due 01-03

	mine, err := s.repo.ListByUser(ctx, 1)
	s.Require().NoError(err)
	s.Len(mine, 3)

	due, err := s.repo.ListDue(ctx, testutil.Date(2024, 1, 5), 0)
	s.Require().NoError(err)
	s.Require().Len(due, 3)
	s.Equal(a, due[0].ItemID)
	s.Equal(int64(1), due[0].UserID)
	s.Equal(int64(2), due[1].UserID)
	s.Equal(b, due[2].ItemID)

	limited, err := s.repo.ListDue(ctx, testutil.Date(2024, 1, 5), 1)
	s.Require().NoError(err)
	s.Len(limited, 1)
}

func TestReviewStateRepositorySuite(t *testing.T) {
	suite.Run(t, new(ReviewStateRepositorySuite))
}

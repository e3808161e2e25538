package services

import (
	"context"
	"sort"
	"time"

	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/review"
)

// MaxReportDays bounds the span of a daily report.
const MaxReportDays = 366

// ReportService handles aggregate progress reports
type ReportService interface {
	Daily(ctx context.Context, userID int64, from, to string) ([]models.DailySummary, error)
	Overview(ctx context.Context, userID int64) (*models.ProgressOverview, error)
	Rollup(ctx context.Context, day time.Time) (int64, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	opts       options
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo repository.ReportRepository, opts ...Option) ReportService {
	return &reportService{reportRepo: reportRepo, opts: newOptions(opts)}
}

// Daily returns one summary per studied day in [from, to]. Empty bounds
// default to the 30 days ending today.
func (s *reportService) Daily(ctx context.Context, userID int64, from, to string) ([]models.DailySummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting daily report: user_id=%d, from=%q, to=%q", userID, from, to)

	if userID <= 0 {
		return nil, errors.NewValidationError("user_id", "must be positive")
	}
	start, end, err := s.reportRange(from, to)
	if err != nil {
		return nil, err
	}
	from, to = start.Format(time.DateOnly), end.Format(time.DateOnly)

	live, err := s.reportRepo.LiveDaily(ctx, userID, from, to)
	if err != nil {
		log.Error("failed to get live daily summaries: %v", err)
		return nil, errors.NewInternalError(err)
	}
	rolled, err := s.reportRepo.RolledDaily(ctx, userID, from, to)
	if err != nil {
		log.Error("failed to get rolled daily summaries: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return mergeDaily(live, rolled), nil
}

func (s *reportService) reportRange(from, to string) (time.Time, time.Time, error) {
	today := review.Day(s.opts.now())
	end := today
	if to != "" {
		t, err := time.Parse(time.DateOnly, to)
		if err != nil {
			return time.Time{}, time.Time{}, errors.NewValidationError("to", "must be a date (YYYY-MM-DD)")
		}
		end = t
	}
	start := end.AddDate(0, 0, -29)
	if from != "" {
		t, err := time.Parse(time.DateOnly, from)
		if err != nil {
			return time.Time{}, time.Time{}, errors.NewValidationError("from", "must be a date (YYYY-MM-DD)")
		}
		start = t
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, errors.NewValidationError("from", "must not be after to")
	}
	if end.Sub(start) >= MaxReportDays*24*time.Hour {
		return time.Time{}, time.Time{}, errors.NewValidationError("from", "range must not exceed 366 days")
	}
	return start, end, nil
}

// mergeDaily prefers whichever source saw more attempts for a day. Rolled
// rows outlive item deletion; live rows include attempts made after the rollup.
func mergeDaily(live, rolled []models.DailySummary) []models.DailySummary {
	byDay := make(map[string]models.DailySummary, len(live)+len(rolled))
	for _, d := range rolled {
		byDay[d.Day] = d
	}
	for _, d := range live {
		if cur, ok := byDay[d.Day]; !ok || d.Attempts >= cur.Attempts {
			byDay[d.Day] = d
		}
	}
	out := make([]models.DailySummary, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

func (s *reportService) Overview(ctx context.Context, userID int64) (*models.ProgressOverview, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting overview: user_id=%d", userID)

	if userID <= 0 {
		return nil, errors.NewValidationError("user_id", "must be positive")
	}
	overview, err := s.reportRepo.Overview(ctx, userID, review.Day(s.opts.now()))
	if err != nil {
		log.Error("failed to get overview: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return overview, nil
}

func (s *reportService) Rollup(ctx context.Context, day time.Time) (int64, error) {
	log := logger.FromContext(ctx)
	d := review.Day(day).Format(time.DateOnly)
	log.Debug("rolling up attempts for %s", d)

	n, err := s.reportRepo.Rollup(ctx, d, s.opts.now().UTC())
	if err != nil {
		log.Error("failed to roll up %s: %v", d, err)
		return 0, errors.NewInternalError(err)
	}
	log.Info("rolled up %d daily summaries for %s", n, d)
	return n, nil
}

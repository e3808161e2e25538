package review

import (
	"sort"
	"time"

	"github.com/vytor/wordflash/internal/models"
)

// MaxIntervalDays caps interval growth so every item stays reachable within a study term.
const MaxIntervalDays = 21

// Day truncates t to midnight UTC. All scheduling dates are calendar days.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Advance returns the state that follows state after an attempt graded grade on today.
// A nil state means the item has never been attempted. The input is never modified.
//
//	pass:   streak+1, interval 1 when unscheduled, else min(2*interval, 21)
//	almost: streak kept, interval max(1, interval/2)
//	fail:   streak 0, interval 1
//
// Grades outside the enum are handled as fail.
func Advance(state *models.ReviewState, grade models.Grade, today time.Time) models.ReviewState {
	var next models.ReviewState
	if state != nil {
		next = *state
	}

	switch grade {
	case models.GradePass:
		next.Streak++
		if next.IntervalDays <= 0 {
			next.IntervalDays = 1
		} else {
			next.IntervalDays = min(next.IntervalDays*2, MaxIntervalDays)
		}
	case models.GradeAlmost:
		next.IntervalDays = max(1, next.IntervalDays/2)
	default:
		grade = models.GradeFail
		next.Streak = 0
		next.IntervalDays = 1
	}

	due := Day(today).AddDate(0, 0, next.IntervalDays)
	next.DueOn = &due
	g := grade
	next.LastResult = &g
	next.UpdatedAt = today
	return next
}

// IsDue reports whether the state is scheduled on or before today.
func IsDue(state models.ReviewState, today time.Time) bool {
	return state.DueOn != nil && !state.DueOn.After(Day(today))
}

// DueItems returns the ids of the states due on or before today, most overdue first.
// Equal due dates keep their input order. A limit <= 0 returns every due item.
func DueItems(states []models.ReviewState, today time.Time, limit int) []int64 {
	due := make([]models.ReviewState, 0, len(states))
	for _, s := range states {
		if IsDue(s, today) {
			due = append(due, s)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].DueOn.Before(*due[j].DueOn)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	ids := make([]int64, len(due))
	for i, s := range due {
		ids[i] = s.ItemID
	}
	return ids
}

package models

import "time"

// DailySummary rolls one user's attempts for one calendar day.
type DailySummary struct {
	UserID       int64  `json:"user_id" db:"user_id"`
	Day          string `json:"day" db:"day"`
	Attempts     int    `json:"attempts" db:"attempts"`
	Passes       int    `json:"passes" db:"passes"`
	Almosts      int    `json:"almosts" db:"almosts"`
	Fails        int    `json:"fails" db:"fails"`
	ItemsStudied int    `json:"items_studied" db:"items_studied"`
}

// Accuracy is the share of passing attempts, in percent.
func (d DailySummary) Accuracy() float64 {
	if d.Attempts == 0 {
		return 0
	}
	return 100 * float64(d.Passes) / float64(d.Attempts)
}

// ProgressOverview summarizes where a user stands today.
type ProgressOverview struct {
	UserID        int64      `json:"user_id" db:"user_id"`
	ItemsStarted  int        `json:"items_started" db:"items_started"`
	ItemsDue      int        `json:"items_due" db:"items_due"`
	ItemsMastered int        `json:"items_mastered" db:"items_mastered"`
	LongestStreak int        `json:"longest_streak" db:"longest_streak"`
	TotalAttempts int        `json:"total_attempts" db:"total_attempts"`
	LastAttemptAt *time.Time `json:"last_attempt_at" db:"-"`
}

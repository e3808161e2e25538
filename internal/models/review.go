package models

import "time"

// ReviewState is the scheduling record for one user and one item.
// IntervalDays == 0 means the item was never scheduled and DueOn is nil.
type ReviewState struct {
	UserID       int64      `json:"user_id"`
	ItemID       int64      `json:"item_id"`
	Streak       int        `json:"streak"`
	IntervalDays int        `json:"interval_days"`
	DueOn        *time.Time `json:"due_on"`
	LastResult   *Grade     `json:"last_result"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AttemptMode identifies how an attempt was made.
type AttemptMode string

const (
	ModeFlashcard AttemptMode = "flashcard"
	ModeVoice     AttemptMode = "voice"
)

func (m AttemptMode) IsValid() bool {
	switch m {
	case ModeFlashcard, ModeVoice:
		return true
	}
	return false
}

// Attempt is one graded study attempt.
type Attempt struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	ItemID      int64       `json:"item_id"`
	Grade       Grade       `json:"grade"`
	Mode        AttemptMode `json:"mode"`
	Transcript  string      `json:"transcript,omitempty"`
	Feedback    string      `json:"feedback,omitempty"`
	AttemptedAt time.Time   `json:"attempted_at"`
}

// AttemptResult is what recording an attempt hands back to the caller.
type AttemptResult struct {
	State    ReviewState `json:"state"`
	Grade    Grade       `json:"grade"`
	Feedback string      `json:"feedback,omitempty"`
}

package models

import "time"

// Item is a unit of study content: a term and its canonical definition.
type Item struct {
	ID         int64     `json:"id"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	Topic      string    `json:"topic"`
	CreatedAt  time.Time `json:"created_at"`
}

type ItemFilter struct {
	Topic  string
	Limit  int
	Offset int
}

// DueItem pairs a due item with its scheduling state.
type DueItem struct {
	Item
	State ReviewState `json:"state"`
}

// ImportSummary counts the outcome of a bulk item import.
type ImportSummary struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

package models

import (
	"strings"
	"time"
)

// WordEntry is a resolved definition for a term.
type WordEntry struct {
	Term     string    `json:"term"`
	Phonetic string    `json:"phonetic,omitempty"`
	Meanings []Meaning `json:"meanings"`
	Source   string    `json:"source"`
}

type Meaning struct {
	PartOfSpeech string       `json:"part_of_speech"`
	Definitions  []Definition `json:"definitions"`
}

type Definition struct {
	Text     string   `json:"text"`
	Example  string   `json:"example,omitempty"`
	Synonyms []string `json:"synonyms,omitempty"`
	Antonyms []string `json:"antonyms,omitempty"`
}

// Valid reports whether the entry carries at least one non-empty definition.
func (e *WordEntry) Valid() bool {
	if e == nil {
		return false
	}
	for _, m := range e.Meanings {
		for _, d := range m.Definitions {
			if strings.TrimSpace(d.Text) != "" {
				return true
			}
		}
	}
	return false
}

// Compact drops empty definitions and meanings left with none.
func (e *WordEntry) Compact() {
	meanings := e.Meanings[:0]
	for _, m := range e.Meanings {
		defs := m.Definitions[:0]
		for _, d := range m.Definitions {
			d.Text = strings.TrimSpace(d.Text)
			if d.Text == "" {
				continue
			}
			defs = append(defs, d)
		}
		if len(defs) == 0 {
			continue
		}
		m.Definitions = defs
		meanings = append(meanings, m)
	}
	e.Meanings = meanings
}

// CacheEntry is a stored definition with the time it was resolved.
type CacheEntry struct {
	Term     string    `json:"term"`
	Entry    WordEntry `json:"entry"`
	CachedAt time.Time `json:"cached_at"`
}

// Fresh reports whether the entry is younger than ttl at now.
func (c *CacheEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.CachedAt) < ttl
}

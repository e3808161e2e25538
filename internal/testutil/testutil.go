package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/vytor/wordflash/internal/db"
	"github.com/vytor/wordflash/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is configured with foreign keys enabled and a single
// connection, so every query sees the same in-memory database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")

	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Date returns midnight UTC for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SampleEntry returns a minimal valid WordEntry for term.
func SampleEntry(term, source string) models.WordEntry {
	return models.WordEntry{
		Term:     term,
		Phonetic: "/" + term + "/",
		Meanings: []models.Meaning{{
			PartOfSpeech: "noun",
			Definitions: []models.Definition{{
				Text:    "a sample definition of " + term,
				Example: "use " + term + " in a sentence",
			}},
		}},
		Source: source,
	}
}

// Package dictionary resolves term definitions through an in-process cache,
// a persistent store and an ordered chain of lookup providers.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vytor/wordflash/internal/models"
)

var (
	// ErrNotFound is the single user-visible resolution failure.
	ErrNotFound = errors.New("dictionary: term not found")
	// ErrEmptyTerm is returned for terms that are blank after normalization.
	ErrEmptyTerm = errors.New("dictionary: empty term")
)

// Provider looks a term up in one external source. Implementations return
// ErrNotFound (possibly wrapped) when the source has no entry for the term.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, term string) (*models.WordEntry, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc struct {
	ProviderName string
	Fn           func(ctx context.Context, term string) (*models.WordEntry, error)
}

func (p ProviderFunc) Name() string { return p.ProviderName }

func (p ProviderFunc) Lookup(ctx context.Context, term string) (*models.WordEntry, error) {
	return p.Fn(ctx, term)
}

// Normalize trims and lowercases a term. Cache keys and provider calls both
// use the normalized form.
func Normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// FailureKind distinguishes why a chain walk produced nothing.
type FailureKind int

const (
	// FailureNotFound means at least one provider answered that the term does not exist.
	FailureNotFound FailureKind = iota
	// FailureErrored means every provider failed without a definitive answer.
	FailureErrored
)

func (k FailureKind) String() string {
	if k == FailureErrored {
		return "errored"
	}
	return "not_found"
}

// ProviderFailure records one failed provider attempt.
type ProviderFailure struct {
	Provider string
	Err      error
}

// LookupError is the structured failure of a full chain walk. It always
// matches ErrNotFound under errors.Is; Kind and Failures carry the detail.
type LookupError struct {
	Term     string
	Kind     FailureKind
	Failures []ProviderFailure
}

func (e *LookupError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Provider, f.Err))
	}
	return fmt.Sprintf("dictionary: %q %s after %d providers [%s]", e.Term, e.Kind, len(e.Failures), strings.Join(parts, "; "))
}

func (e *LookupError) Unwrap() error { return ErrNotFound }

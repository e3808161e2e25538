package dictionary_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/wordflash/internal/dictionary"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/testutil"
	"github.com/vytor/wordflash/internal/testutil/mocks"
)

// recorder collects provider call order and backoff pauses.
type recorder struct {
	mu     sync.Mutex
	calls  []string
	sleeps []time.Duration
}

func (r *recorder) provider(name string, fn func(ctx context.Context, term string) (*models.WordEntry, error)) dictionary.Provider {
	return dictionary.ProviderFunc{ProviderName: name, Fn: func(ctx context.Context, term string) (*models.WordEntry, error) {
		r.mu.Lock()
		r.calls = append(r.calls, name)
		r.mu.Unlock()
		return fn(ctx, term)
	}}
}

func (r *recorder) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sleeps = append(r.sleeps, d)
	return nil
}

func found(source string) func(context.Context, string) (*models.WordEntry, error) {
	return func(_ context.Context, term string) (*models.WordEntry, error) {
		e := testutil.SampleEntry(term, source)
		return &e, nil
	}
}

func failing(err error) func(context.Context, string) (*models.WordEntry, error) {
	return func(context.Context, string) (*models.WordEntry, error) { return nil, err }
}

func TestChain_FirstSuccessWins(t *testing.T) {
	rec := &recorder{}
	chain := dictionary.NewChain([]dictionary.Provider{
		rec.provider("a", found("a")),
		rec.provider("b", found("b")),
	}, dictionary.WithSleep(rec.sleep))

	entry, err := chain.Resolve(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, "a", entry.Source)
	assert.Equal(t, []string{"a"}, rec.calls)
	assert.Empty(t, rec.sleeps)
}

func TestChain_FallbackOrdering(t *testing.T) {
	rec := &recorder{}
	chain := dictionary.NewChain([]dictionary.Provider{
		rec.provider("a", failing(errors.New("503 from upstream"))),
		rec.provider("b", found("b")),
		rec.provider("c", found("c")),
	}, dictionary.WithSleep(rec.sleep), dictionary.WithBackoff(100*time.Millisecond))

	entry, err := chain.Resolve(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, "b", entry.Source)
	assert.Equal(t, []string{"a", "b"}, rec.calls)
	assert.Equal(t, []time.Duration{100 * time.Millisecond}, rec.sleeps)
}

func TestChain_AllNotFound(t *testing.T) {
	rec := &recorder{}
	chain := dictionary.NewChain([]dictionary.Provider{
		rec.provider("a", failing(dictionary.ErrNotFound)),
		rec.provider("b", failing(errors.New("timeout"))),
	}, dictionary.WithSleep(rec.sleep))

	_, err := chain.Resolve(context.Background(), "zzzqx")
	require.Error(t, err)
	assert.ErrorIs(t, err, dictionary.ErrNotFound)

	var lookupErr *dictionary.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, dictionary.FailureNotFound, lookupErr.Kind)
	require.Len(t, lookupErr.Failures, 2)
	assert.Equal(t, "a", lookupErr.Failures[0].Provider)
	assert.Equal(t, "b", lookupErr.Failures[1].Provider)
	assert.Equal(t, []string{"a", "b"}, rec.calls, "each provider is tried exactly once")
	assert.Len(t, rec.sleeps, 1)
}

func TestChain_AllErrored(t *testing.T) {
	chain := dictionary.NewChain([]dictionary.Provider{
		dictionary.ProviderFunc{ProviderName: "a", Fn: failing(errors.New("connection refused"))},
		dictionary.ProviderFunc{ProviderName: "b", Fn: failing(errors.New("bad gateway"))},
	}, dictionary.WithBackoff(0))

	_, err := chain.Resolve(context.Background(), "cat")

	var lookupErr *dictionary.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, dictionary.FailureErrored, lookupErr.Kind)
	assert.ErrorIs(t, err, dictionary.ErrNotFound)
	assert.Contains(t, err.Error(), "bad gateway")
}

func TestChain_TimeoutMovesOn(t *testing.T) {
	stuck := dictionary.ProviderFunc{ProviderName: "slow", Fn: func(ctx context.Context, _ string) (*models.WordEntry, error) {
		// Ignores ctx on purpose.
		time.Sleep(2 * time.Second)
		return nil, errors.New("too late")
	}}
	fast := dictionary.ProviderFunc{ProviderName: "fast", Fn: found("fast")}

	chain := dictionary.NewChain([]dictionary.Provider{stuck, fast},
		dictionary.WithProviderTimeout(50*time.Millisecond), dictionary.WithBackoff(0))

	start := time.Now()
	entry, err := chain.Resolve(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, "fast", entry.Source)
	assert.Less(t, time.Since(start), time.Second)
}

func TestChain_PanicIsFolded(t *testing.T) {
	boom := dictionary.ProviderFunc{ProviderName: "boom", Fn: func(context.Context, string) (*models.WordEntry, error) {
		panic("nil map")
	}}
	chain := dictionary.NewChain([]dictionary.Provider{boom, dictionary.ProviderFunc{ProviderName: "ok", Fn: found("ok")}},
		dictionary.WithBackoff(0))

	entry, err := chain.Resolve(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, "ok", entry.Source)
}

func TestChain_InvalidEntryIsNotFound(t *testing.T) {
	empty := new(mocks.MockProvider)
	empty.ProviderName = "empty"
	empty.On("Lookup", mock.Anything, "cat").Return(&models.WordEntry{
		Term:     "cat",
		Meanings: []models.Meaning{{PartOfSpeech: "noun", Definitions: []models.Definition{{Text: "   "}}}},
	}, nil).Once()

	nilEntry := new(mocks.MockProvider)
	nilEntry.ProviderName = "nil"
	nilEntry.On("Lookup", mock.Anything, "cat").Return(nil, nil).Once()

	chain := dictionary.NewChain([]dictionary.Provider{empty, nilEntry}, dictionary.WithBackoff(0))

	_, err := chain.Resolve(context.Background(), "cat")
	var lookupErr *dictionary.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, dictionary.FailureNotFound, lookupErr.Kind)
	empty.AssertExpectations(t)
	nilEntry.AssertExpectations(t)
}

func TestChain_DefaultsSourceAndTerm(t *testing.T) {
	anon := dictionary.ProviderFunc{ProviderName: "anon", Fn: func(context.Context, string) (*models.WordEntry, error) {
		return &models.WordEntry{Meanings: []models.Meaning{{Definitions: []models.Definition{{Text: "a small feline"}}}}}, nil
	}}
	chain := dictionary.NewChain([]dictionary.Provider{anon})

	entry, err := chain.Resolve(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, "anon", entry.Source)
	assert.Equal(t, "cat", entry.Term)
}

func TestChain_CancelledContextStops(t *testing.T) {
	rec := &recorder{}
	chain := dictionary.NewChain([]dictionary.Provider{rec.provider("a", found("a"))})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := chain.Resolve(ctx, "cat")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.calls)
}

func TestChain_EmptyChain(t *testing.T) {
	chain := dictionary.NewChain(nil)
	_, err := chain.Resolve(context.Background(), "cat")
	assert.ErrorIs(t, err, dictionary.ErrNotFound)
	assert.Empty(t, chain.Names())
}

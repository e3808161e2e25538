package dictionary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
)

const tracerName = "github.com/vytor/wordflash/internal/dictionary"

// Default chain timings.
const (
	DefaultProviderTimeout = 8 * time.Second
	DefaultBackoff         = 250 * time.Millisecond
)

// Lookup is anything that can resolve a normalized term remotely.
type Lookup interface {
	Resolve(ctx context.Context, term string) (*models.WordEntry, error)
}

// Chain asks providers in order until one returns a valid entry. Each
// provider is tried at most once per call, with its own timeout and a fixed
// pause before every attempt after the first.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	backoff   time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
	tracer    trace.Tracer
}

var _ Lookup = (*Chain)(nil)

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithProviderTimeout bounds each provider call.
func WithProviderTimeout(d time.Duration) ChainOption {
	return func(c *Chain) {
		c.timeout = d
	}
}

// WithBackoff sets the pause between providers.
func WithBackoff(d time.Duration) ChainOption {
	return func(c *Chain) {
		c.backoff = d
	}
}

// WithSleep replaces the pause implementation.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) ChainOption {
	return func(c *Chain) {
		c.sleep = fn
	}
}

// WithTracer sets the tracer used for chain and provider spans.
func WithTracer(t trace.Tracer) ChainOption {
	return func(c *Chain) {
		c.tracer = t
	}
}

// NewChain builds a chain over providers in the given order.
func NewChain(providers []Provider, opts ...ChainOption) *Chain {
	c := &Chain{
		providers: append([]Provider(nil), providers...),
		timeout:   DefaultProviderTimeout,
		backoff:   DefaultBackoff,
		sleep:     sleepCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	return c
}

// Names lists provider names in walk order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// walk is the state of one Resolve call.
type walk struct {
	term          string
	providerIndex int
	lastErr       error
	failures      []ProviderFailure
}

func (w *walk) fail(provider string, err error) {
	w.lastErr = err
	w.failures = append(w.failures, ProviderFailure{Provider: provider, Err: err})
	w.providerIndex++
}

func (w *walk) result() *LookupError {
	kind := FailureErrored
	for _, f := range w.failures {
		if errors.Is(f.Err, ErrNotFound) {
			kind = FailureNotFound
			break
		}
	}
	if len(w.failures) == 0 {
		kind = FailureNotFound
	}
	return &LookupError{Term: w.term, Kind: kind, Failures: w.failures}
}

// Resolve walks the chain for term. Failures are a *LookupError, which
// matches ErrNotFound; a cancelled ctx stops the walk with ctx.Err().
func (c *Chain) Resolve(ctx context.Context, term string) (*models.WordEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("dictionary")
	ctx, span := c.tracer.Start(ctx, "dictionary.Chain.Resolve", trace.WithAttributes(
		attribute.String("dictionary.term", term),
		attribute.Int("dictionary.providers", len(c.providers)),
	))
	defer span.End()

	w := &walk{term: term}
	for w.providerIndex < len(c.providers) {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "cancelled")
			return nil, err
		}
		if w.providerIndex > 0 && c.backoff > 0 {
			if err := c.sleep(ctx, c.backoff); err != nil {
				span.SetStatus(codes.Error, "cancelled")
				return nil, err
			}
		}

		p := c.providers[w.providerIndex]
		entry, err := c.attempt(ctx, p, term)
		if err != nil {
			log.Warn("provider %s failed for %q: %v", p.Name(), term, err)
			w.fail(p.Name(), err)
			continue
		}

		span.SetAttributes(attribute.String("dictionary.provider", entry.Source))
		span.SetStatus(codes.Ok, "")
		log.Debug("resolved %q via %s after %d failures", term, entry.Source, len(w.failures))
		return entry, nil
	}

	lookupErr := w.result()
	span.SetAttributes(attribute.String("dictionary.outcome", lookupErr.Kind.String()))
	span.SetStatus(codes.Error, lookupErr.Kind.String())
	if lookupErr.Kind == FailureErrored {
		log.Error("all providers failed for %q, last error: %v", term, w.lastErr)
	} else {
		log.Info("no provider knows %q", term)
	}
	return nil, lookupErr
}

type attemptResult struct {
	entry *models.WordEntry
	err   error
}

// attempt runs one provider under the per-provider timeout. The call runs in
// its own goroutine so a provider that ignores ctx still cannot stall the walk.
func (c *Chain) attempt(ctx context.Context, p Provider, term string) (*models.WordEntry, error) {
	ctx, span := c.tracer.Start(ctx, "dictionary.Provider.Lookup", trace.WithAttributes(
		attribute.String("dictionary.term", term),
		attribute.String("dictionary.provider", p.Name()),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan attemptResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- attemptResult{err: fmt.Errorf("provider %s panicked: %v", p.Name(), r)}
			}
		}()
		entry, err := p.Lookup(ctx, term)
		done <- attemptResult{entry: entry, err: err}
	}()

	var res attemptResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res = attemptResult{err: fmt.Errorf("provider %s: %w", p.Name(), ctx.Err())}
	}

	if res.err == nil {
		if res.entry == nil {
			res.err = fmt.Errorf("provider %s returned no entry: %w", p.Name(), ErrNotFound)
		} else {
			entry := *res.entry
			entry.Compact()
			if !entry.Valid() {
				res.err = fmt.Errorf("provider %s returned an entry without definitions: %w", p.Name(), ErrNotFound)
			} else {
				if entry.Source == "" {
					entry.Source = p.Name()
				}
				if entry.Term == "" {
					entry.Term = term
				}
				res.entry = &entry
			}
		}
	}

	if res.err != nil {
		outcome := "error"
		if errors.Is(res.err, ErrNotFound) {
			outcome = "not_found"
		}
		span.SetAttributes(attribute.String("dictionary.outcome", outcome))
		span.RecordError(res.err)
		span.SetStatus(codes.Error, outcome)
		return nil, res.err
	}
	span.SetAttributes(attribute.String("dictionary.outcome", "hit"))
	return res.entry, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/wordflash/internal/worker"
)

type funcJob struct {
	name string
	fn   func(ctx context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

func TestPool_RunsJobs(t *testing.T) {
	p := worker.NewPool(2, 8)
	p.Start(context.Background())

	var wg sync.WaitGroup
	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(funcJob{name: "count", fn: func(context.Context) error {
			defer wg.Done()
			ran.Add(1)
			return nil
		}}))
	}
	wg.Wait()
	p.Stop()
	assert.Equal(t, int32(5), ran.Load())
}

func TestPool_SubmitDoesNotBlockWhenFull(t *testing.T) {
	p := worker.NewPool(1, 1)
	release := make(chan struct{})
	started := make(chan struct{})
	p.Start(context.Background())
	defer p.Stop()
	defer close(release)

	require.NoError(t, p.Submit(funcJob{name: "block", fn: func(context.Context) error {
		close(started)
		<-release
		return nil
	}}))
	<-started

	noop := funcJob{name: "noop", fn: func(context.Context) error { return nil }}
	require.NoError(t, p.Submit(noop))
	assert.ErrorIs(t, p.Submit(noop), worker.ErrQueueFull)
	assert.Equal(t, 1, p.QueueSize())
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := worker.NewPool(1, 1)
	p.Start(context.Background())
	p.Stop()
	p.Stop()

	err := p.Submit(funcJob{name: "late", fn: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, worker.ErrPoolStopped)
}

func TestPool_SurvivesFailingAndPanickingJobs(t *testing.T) {
	p := worker.NewPool(1, 4)
	p.Start(context.Background())

	done := make(chan struct{})
	require.NoError(t, p.Submit(funcJob{name: "fail", fn: func(context.Context) error { return errors.New("boom") }}))
	require.NoError(t, p.Submit(funcJob{name: "panic", fn: func(context.Context) error { panic("bad job") }}))
	require.NoError(t, p.Submit(funcJob{name: "ok", fn: func(context.Context) error { close(done); return nil }}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not recover from earlier jobs")
	}
	p.Stop()
}

func TestPool_StopDrainsQueue(t *testing.T) {
	p := worker.NewPool(1, 4)
	var ran atomic.Int32
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Submit(funcJob{name: "queued", fn: func(context.Context) error {
			ran.Add(1)
			return nil
		}}))
	}
	p.Start(context.Background())
	p.Stop()
	assert.Equal(t, int32(3), ran.Load())
}

package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClaimProcessor struct {
	mu      sync.Mutex
	claimed []string
	err     error
	delay   time.Duration
}

func (f *fakeClaimProcessor) ClaimAndProcess(ctx context.Context, eventID string) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.claimed = append(f.claimed, eventID)
	f.mu.Unlock()
	return f.err
}

func (f *fakeClaimProcessor) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.claimed))
	copy(out, f.claimed)
	return out
}

func TestPool_EnqueueDispatchesToWorker(t *testing.T) {
	worker := &fakeClaimProcessor{}
	p := New(worker, 2, 10, 0)
	p.Start(context.Background())
	defer p.Stop()

	p.Enqueue("evt_1")
	p.Enqueue("evt_2")

	require.Eventually(t, func() bool {
		return len(worker.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{"evt_1", "evt_2"}, worker.snapshot())
}

func TestPool_EnqueueNonBlockingWhenSaturated(t *testing.T) {
	worker := &fakeClaimProcessor{delay: 200 * time.Millisecond}
	p := New(worker, 1, 1, 0)
	p.Start(context.Background())
	defer p.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			p.Enqueue("evt")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked instead of dropping overflow")
	}
}

func TestPool_StopWaitsForInFlightWork(t *testing.T) {
	worker := &fakeClaimProcessor{delay: 50 * time.Millisecond}
	p := New(worker, 1, 4, 0)
	p.Start(context.Background())

	p.Enqueue("evt_1")
	time.Sleep(5 * time.Millisecond)
	p.Stop()

	assert.Equal(t, []string{"evt_1"}, worker.snapshot())
}

func TestPool_DefaultsAppliedForZeroValues(t *testing.T) {
	p := New(&fakeClaimProcessor{}, 0, 0, 0)
	assert.Equal(t, 1, p.workerCount)
	assert.Equal(t, 256, cap(p.tasks))
}

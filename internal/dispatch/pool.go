// Package dispatch runs webhook events off the request path: a bounded
// pool of worker goroutines drains a channel of event ids and hands each
// to webhookqueue.Worker.ClaimAndProcess (§9 Design Notes).
//
// Unlike the redemption processor this is grounded on, there is no
// circuit breaker here — a claim failure just leaves the row for the
// reconciler's due-retry pass (C9) to pick back up on its own backoff
// schedule, so the pool itself stays simple.
package dispatch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/formgate/gateway/internal/logger"
)

// ClaimProcessor claims and processes one webhook event id. Satisfied by
// *webhookqueue.Worker.
type ClaimProcessor interface {
	ClaimAndProcess(ctx context.Context, eventID string) error
}

// Pool implements webhookqueue.Dispatcher with a fixed set of worker
// goroutines reading off a single buffered channel.
type Pool struct {
	worker      ClaimProcessor
	tasks       chan string
	timeout     time.Duration
	workerCount int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Pool. workers is the number of goroutines draining the
// queue; queueDepth bounds how many pending event ids Enqueue will buffer.
// Once the buffer is full, Enqueue drops further ids instead of blocking.
func New(worker ClaimProcessor, workers, queueDepth int, perEventTimeout time.Duration) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueDepth <= 0 {
		queueDepth = 256
	}
	return &Pool{
		worker:      worker,
		tasks:       make(chan string, queueDepth),
		timeout:     perEventTimeout,
		workerCount: workers,
	}
}

// Start spawns the worker goroutines. ctx governs their lifetime; Stop
// cancels a derived context so in-flight claims get a chance to unwind.
func (p *Pool) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	log := logger.For(logger.ComponentWebhook)
	p.wg.Add(p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		go p.runWorker(runCtx, i, log)
	}
}

func (p *Pool) runWorker(ctx context.Context, id int, log *zap.Logger) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case eventID, ok := <-p.tasks:
			if !ok {
				return
			}
			p.process(ctx, eventID, log)
		}
	}
}

func (p *Pool) process(ctx context.Context, eventID string, log *zap.Logger) {
	callCtx := ctx
	var cancel context.CancelFunc
	if p.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.worker.ClaimAndProcess(callCtx, eventID); err != nil {
		log.Warn("webhook dispatch failed, leaving for reconciler retry",
			zap.String("event_id", eventID), zap.Error(err))
	}
}

// Enqueue implements webhookqueue.Dispatcher. It never blocks the caller
// indefinitely: if the pool is saturated the event id is dropped from the
// async path and left for the reconciler's due-retry pass to pick up,
// since the row is already durably inserted by the time this is called.
func (p *Pool) Enqueue(eventID string) {
	select {
	case p.tasks <- eventID:
	default:
		logger.For(logger.ComponentWebhook).Warn("webhook dispatch queue full, deferring to reconciler",
			zap.String("event_id", eventID))
	}
}

// Stop cancels worker goroutines and waits for in-flight processing to
// finish.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

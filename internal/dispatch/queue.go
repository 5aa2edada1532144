// Package dispatch serializes update handling per conversation while
// letting different conversations run in parallel.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	laneBuffer = 100
	laneIdle   = 2 * time.Minute
)

var (
	// ErrStopped is returned by Enqueue after Stop.
	ErrStopped = errors.New("dispatch queue stopped")
	// ErrLaneFull is returned by Enqueue when a conversation has too many
	// updates waiting.
	ErrLaneFull = errors.New("conversation queue full")
)

// Job handles one update. The context is cancelled on Stop.
type Job func(ctx context.Context)

// Queue keeps one FIFO lane per conversation key. Jobs in a lane run one
// at a time in arrival order; the semaphore bounds how many lanes run at
// once. A lane left empty for idleTimeout is removed and recreated by the
// next Enqueue for its key.
type Queue struct {
	lanes       map[int64]chan Job
	semaphore   *semaphore.Weighted
	pending     atomic.Int64
	idleTimeout time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

// NewQueue creates a Queue running at most maxConcurrent jobs at a time.
func NewQueue(maxConcurrent int64) *Queue {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Queue{
		lanes:       make(map[int64]chan Job),
		semaphore:   semaphore.NewWeighted(maxConcurrent),
		idleTimeout: laneIdle,
	}
}

// Start initialises the queue context. Must be called before Enqueue.
func (q *Queue) Start(ctx context.Context) {
	q.ctx, q.cancel = context.WithCancel(ctx)
}

// Stop cancels running jobs, closes every lane and waits for the lane
// goroutines to exit. Jobs still queued are dropped.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	if q.cancel != nil {
		q.cancel()
	}
	for _, lane := range q.lanes {
		close(lane)
	}
	q.mu.Unlock()
	q.wg.Wait()
}

// Enqueue appends job to the lane of key, creating the lane on first use.
func (q *Queue) Enqueue(key int64, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped || q.ctx == nil {
		return ErrStopped
	}

	lane, exists := q.lanes[key]
	if !exists {
		lane = make(chan Job, laneBuffer)
		q.lanes[key] = lane
		q.wg.Add(1)
		go q.processLane(key, lane)
	}

	q.pending.Add(1)
	select {
	case lane <- job:
		return nil
	default:
		q.pending.Add(-1)
		return fmt.Errorf("%w: %d", ErrLaneFull, key)
	}
}

func (q *Queue) processLane(key int64, lane chan Job) {
	defer q.wg.Done()
	idle := time.NewTimer(q.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case job, ok := <-lane:
			if !ok {
				return
			}
			if err := q.semaphore.Acquire(q.ctx, 1); err != nil {
				q.pending.Add(-1)
				continue
			}
			q.run(key, job)
			q.semaphore.Release(1)
			q.pending.Add(-1)
			idle.Reset(q.idleTimeout)
		case <-idle.C:
			if q.retire(key, lane) {
				return
			}
			idle.Reset(q.idleTimeout)
		}
	}
}

// retire removes an empty lane from the map. Enqueue sends under q.mu, so
// once the lane is gone nothing else is sent to it.
func (q *Queue) retire(key int64, lane chan Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped || len(lane) > 0 {
		return false
	}
	delete(q.lanes, key)
	return true
}

// Lanes returns the number of live conversation lanes.
func (q *Queue) Lanes() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lanes)
}

// run executes a job, containing a panic to its own conversation.
func (q *Queue) run(key int64, job Job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Update handler panicked", "chat_id", key, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	job(q.ctx)
}

// Pending returns the number of queued and running jobs.
func (q *Queue) Pending() int64 {
	return q.pending.Load()
}

// WaitIdle blocks until no jobs are queued or running, or the timeout
// expires. Returns true if idle.
func (q *Queue) WaitIdle(timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		if q.pending.Load() == 0 {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-time.After(10 * time.Millisecond):
		}
	}
}

package api

import (
	"context"
	"sync/atomic"
	"time"
)

// lane is a counting semaphore with request statistics.
type lane struct {
	sem    chan struct{}
	queued atomic.Int64
	active atomic.Int64
	total  atomic.Int64
}

func newLane(size int) *lane {
	return &lane{sem: make(chan struct{}, size)}
}

func (l *lane) acquire(ctx context.Context) error {
	l.queued.Add(1)
	defer l.queued.Add(-1)

	select {
	case l.sem <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *lane) tryAcquire() bool {
	select {
	case l.sem <- struct{}{}:
		l.active.Add(1)
		return true
	default:
		return false
	}
}

func (l *lane) release() {
	l.active.Add(-1)
	l.total.Add(1)
	<-l.sem
}

// WorkerPool bounds concurrent request handling. Move requests (new game,
// move, legal, best, tutor) share one lane; self-play batches use a second,
// much smaller one so a few long runs cannot starve interactive play.
type WorkerPool struct {
	moves *lane
	batch *lane
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxMoveWorkers  int // Max concurrent move requests (default: 100)
	MaxBatchWorkers int // Max concurrent self-play batches (default: 4)
}

// DefaultPoolConfig returns the default lane sizes.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxMoveWorkers:  100,
		MaxBatchWorkers: 4,
	}
}

// NewWorkerPool creates a worker pool. Non-positive sizes take the defaults.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	def := DefaultPoolConfig()
	if config.MaxMoveWorkers <= 0 {
		config.MaxMoveWorkers = def.MaxMoveWorkers
	}
	if config.MaxBatchWorkers <= 0 {
		config.MaxBatchWorkers = def.MaxBatchWorkers
	}
	return &WorkerPool{
		moves: newLane(config.MaxMoveWorkers),
		batch: newLane(config.MaxBatchWorkers),
	}
}

// AcquireMove waits for a move slot or until ctx is done.
func (p *WorkerPool) AcquireMove(ctx context.Context) error { return p.moves.acquire(ctx) }

// ReleaseMove frees a move slot.
func (p *WorkerPool) ReleaseMove() { p.moves.release() }

// TryAcquireMove takes a move slot only if one is free.
func (p *WorkerPool) TryAcquireMove() bool { return p.moves.tryAcquire() }

// AcquireBatch waits for a self-play slot or until ctx is done.
func (p *WorkerPool) AcquireBatch(ctx context.Context) error { return p.batch.acquire(ctx) }

// ReleaseBatch frees a self-play slot.
func (p *WorkerPool) ReleaseBatch() { p.batch.release() }

// TryAcquireBatch takes a self-play slot only if one is free.
func (p *WorkerPool) TryAcquireBatch() bool { return p.batch.tryAcquire() }

// AcquireBatchWithTimeout waits at most timeout for a self-play slot.
func (p *WorkerPool) AcquireBatchWithTimeout(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.batch.acquire(ctx)
}

// PoolStats is a snapshot of pool usage.
type PoolStats struct {
	MoveCapacity  int   `json:"move_capacity"`
	MoveActive    int64 `json:"move_active"`
	MoveQueued    int64 `json:"move_queued"`
	MoveTotal     int64 `json:"move_total"`
	BatchCapacity int   `json:"batch_capacity"`
	BatchActive   int64 `json:"batch_active"`
	BatchQueued   int64 `json:"batch_queued"`
	BatchTotal    int64 `json:"batch_total"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	return PoolStats{
		MoveCapacity:  cap(p.moves.sem),
		MoveActive:    p.moves.active.Load(),
		MoveQueued:    p.moves.queued.Load(),
		MoveTotal:     p.moves.total.Load(),
		BatchCapacity: cap(p.batch.sem),
		BatchActive:   p.batch.active.Load(),
		BatchQueued:   p.batch.queued.Load(),
		BatchTotal:    p.batch.total.Load(),
	}
}

package core

// bulk_limiter.go bounds how many bulk-create and seed operations run at
// once. Each of them may hold thousands of records in memory and issue many
// insert statements, so they queue for a slot instead of piling onto the pool.
//
// When all slots are occupied a caller waits up to maxWait and then fails
// with ErrTooManyBulkOps. WaitForDrain lets shutdown block until the
// in-flight operations are done.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyBulkOps is returned when every bulk slot stays occupied for the
// whole wait period. Clients should retry after a short delay.
var ErrTooManyBulkOps = errors.New("too many bulk operations in progress, please try again later")

// DefaultMaxConcurrentBulk is the default number of parallel bulk operations.
const DefaultMaxConcurrentBulk = 4

// DefaultBulkMaxWait is how long to wait for a slot before rejecting.
const DefaultBulkMaxWait = 30 * time.Second

// BulkLimiter is a semaphore over bulk operations.
type BulkLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewBulkLimiter allows at most maxConcurrent simultaneous bulk operations.
// Non-positive arguments fall back to the package defaults.
func NewBulkLimiter(maxConcurrent int, maxWait time.Duration) *BulkLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentBulk
	}
	if maxWait <= 0 {
		maxWait = DefaultBulkMaxWait
	}

	return &BulkLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire takes a slot. It returns ErrTooManyBulkOps when maxWait expires,
// or ctx's error if ctx ends first. The caller must Release a slot it got.
func (l *BulkLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-ctx.Done():
		return ctx.Err()

	case <-timer.C:
		return ErrTooManyBulkOps
	}
}

// Release returns a slot taken by Acquire.
func (l *BulkLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of running bulk operations.
func (l *BulkLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until no bulk operation is running or ctx ends.
func (l *BulkLimiter) WaitForDrain(ctx context.Context) error {
	if l.ActiveCount() == 0 {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// BulkLimiterStatus is a snapshot of the limiter, reported by the health endpoint.
type BulkLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status returns the current limiter state.
func (l *BulkLimiter) Status() BulkLimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return BulkLimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}

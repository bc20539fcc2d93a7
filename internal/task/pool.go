// Package task runs background work on a fixed set of worker goroutines.
//
// Contract: a submitted task always runs to completion once started; there is
// no cancellation of running tasks and no ordering guarantee between tasks.
// Callers observe results through the returned Future.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("task pool closed")

// DefaultWorkers is used when a non-positive worker count is requested.
const DefaultWorkers = 2

// Future holds the eventual result of a task.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a future that is already complete.
func Resolved[T any](value T, err error) *Future[T] {
	f := newFuture[T]()
	f.complete(value, err)
	return f
}

func (f *Future[T]) complete(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Done is closed when the task has finished.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the task finishes or ctx is done. A done ctx only stops
// the wait; the task itself keeps running.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then registers fn to be called with the result once the task finishes.
// fn runs on its own goroutine.
func (f *Future[T]) Then(fn func(T, error)) {
	go func() {
		<-f.done
		fn(f.value, f.err)
	}()
}

// Pool is a fixed-size worker pool.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool starts a pool with the given number of workers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	p := &Pool{jobs: make(chan func(), workers*4)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Close stops accepting tasks and waits for queued tasks to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

// Submit queues fn on the pool. A panic inside fn is recovered and reported
// as the future's error. Submitting to a closed pool yields a future that
// fails with ErrPoolClosed.
func Submit[T any](p *Pool, name string, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	job := func() {
		var (
			value T
			err   error
		)
		defer func() {
			if r := recover(); r != nil {
				slog.Error("task panicked", "task", name, "panic", r, "stack", string(debug.Stack()))
				var zero T
				value, err = zero, fmt.Errorf("task %s panicked: %v", name, r)
			}
			f.complete(value, err)
		}()
		value, err = fn(context.Background())
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		var zero T
		f.complete(zero, ErrPoolClosed)
		return f
	}
	p.jobs <- job
	return f
}

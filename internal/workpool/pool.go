// Package workpool provides a fixed pool of long-lived worker goroutines that
// execute batches of independent tasks and block the caller until the whole
// batch has completed.
//
// The pool is deliberately simple: there is no cancellation, no timeout and no
// result channel. A batch is a slice of closures; each closure owns a disjoint
// piece of the work and writes its results into memory nobody else touches.
// Run returns only after every closure has returned, which makes the call a
// join barrier for the submitting goroutine.
//
// # Shared Pool
//
// Shared returns a process-wide pool sized to GOMAXPROCS. It is created on
// first use and never closed, so callers must not call Close on it.
package workpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a set of worker goroutines pulling tasks from a common queue.
//
// Pool is safe for concurrent use: several goroutines may call Run at the same
// time, each waiting only for its own batch.
type Pool struct {
	workers int
	tasks   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
	once    sync.Once
}

// New starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), queueSize),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			p.drain()
			return
		case task := <-p.tasks:
			task()
		}
	}
}

// drain runs whatever is still queued so that pending Run calls can return.
func (p *Pool) drain() {
	for {
		select {
		case task := <-p.tasks:
			task()
		default:
			return
		}
	}
}

// Run submits every task and waits until all of them have returned.
//
// Tasks run in no particular order and possibly in parallel; they must not
// share mutable state. If the pool has been closed, the tasks run on the
// calling goroutine instead so the barrier semantics still hold.
func (p *Pool) Run(tasks []func()) {
	if len(tasks) == 0 {
		return
	}
	if !p.running.Load() {
		for _, task := range tasks {
			task()
		}
		return
	}

	var batch sync.WaitGroup
	batch.Add(len(tasks))
	for _, task := range tasks {
		fn := task
		wrapped := func() {
			defer batch.Done()
			fn()
		}
		select {
		case p.tasks <- wrapped:
		case <-p.done:
			wrapped()
		}
	}
	batch.Wait()
}

// Close stops the workers after the queue has been drained.
// It is safe to call Close more than once, but not concurrently with Run.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.running.Store(false)
		close(p.done)
		p.wg.Wait()
		p.drain()
	})
}

var (
	sharedPool *Pool
	sharedOnce sync.Once
)

// Shared returns the process-wide pool, creating it on first use.
func Shared() *Pool {
	sharedOnce.Do(func() {
		sharedPool = New(runtime.GOMAXPROCS(0))
	})
	return sharedPool
}

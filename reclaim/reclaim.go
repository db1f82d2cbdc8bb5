// Package reclaim provides a deferred reclamation queue for resources that
// must not be released from a real-time audio thread.
//
// Components owning heap-backed storage submit a release callback instead of
// dropping their last reference inline. A non-real-time caller drains the
// queue at a safe point (end of block, shutdown, or a dedicated goroutine),
// which is where the callbacks actually run and the backing memory becomes
// collectable.
package reclaim

import "sync"

// Queue collects release callbacks for later execution.
// Defer is safe to call from any goroutine, including real-time ones:
// it takes a short uncontended lock and never runs the callback itself.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Defer enqueues fn to run on the next Drain. A nil fn is ignored.
func (q *Queue) Defer(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Drain runs all callbacks enqueued so far and returns how many ran.
// Callbacks enqueued concurrently with a Drain run on the next one.
// Must not be called from a real-time thread.
func (q *Queue) Drain() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range batch {
		fn()
	}

	return len(batch)
}

// Len returns the number of callbacks currently waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}

// Default is the process-wide queue used when no explicit queue is wired.
var Default = NewQueue()

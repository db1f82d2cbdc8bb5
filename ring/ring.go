package ring

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/yukie-nobuharu/synthizer/reclaim"
)

// ErrClosed is returned by BeginWrite once the ring has been closed.
var ErrClosed = errors.New("ring: closed")

// Ring is an SPSC ring buffer over a fixed-capacity backing store.
//
// The write cursor is owned by the producer goroutine and the read cursor by
// the consumer goroutine; filled is the single cross-goroutine
// synchronization point. The producer publishes committed data by adding to
// filled after writing the elements, and the consumer observes that data by
// loading filled before reading them, so the atomic pair forms the required
// happens-before edge.
type Ring[T any] struct {
	storage storage[T]

	// Producer-owned.
	writeCursor  int
	pendingWrite int

	// Consumer-owned.
	readCursor  int
	pendingRead int

	filled  atomic.Int64
	closed  atomic.Bool
	readEnd event
}

// New returns a Ring whose storage is allocated inline at construction and
// released by ordinary garbage collection.
func New[T any](capacity int) (*Ring[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("ring capacity must be > 0: %d", capacity)
	}

	return &Ring[T]{
		storage: &inlineStorage[T]{buf: make([]T, capacity)},
		readEnd: newEvent(),
	}, nil
}

// NewAllocated returns a Ring whose storage is released through the given
// deferred reclamation queue when Release is called. A nil queue selects
// reclaim.Default.
func NewAllocated[T any](capacity int, queue *reclaim.Queue) (*Ring[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("ring capacity must be > 0: %d", capacity)
	}

	return &Ring[T]{
		storage: &allocatedStorage[T]{buf: make([]T, capacity), queue: queue},
		readEnd: newEvent(),
	}, nil
}

// Capacity returns the total number of element slots. Fixed for the life of
// the ring.
func (r *Ring[T]) Capacity() int {
	return r.storage.len()
}

// Len returns a snapshot of the number of committed, unread elements.
func (r *Ring[T]) Len() int {
	return int(r.filled.Load())
}

// BeginWrite reserves a write region of requested elements, blocking until
// the consumer has freed enough space. With allowMore, the reservation is
// extended to all currently free space (at least requested).
//
// The returned slices alias the backing storage; the caller writes into them
// directly and then commits with EndWrite or EndWriteAll. second is nil
// unless the reservation wraps past the end of the storage. No elements move
// in this call.
//
// Producer goroutine only. Requesting more than Capacity, or zero without
// allowMore, is a contract violation and panics. Returns ErrClosed if Close
// is called before enough space frees up.
func (r *Ring[T]) BeginWrite(requested int, allowMore bool) (first, second []T, err error) {
	if !allowMore && requested <= 0 {
		panic(fmt.Sprintf("ring: BeginWrite requested %d without allowMore", requested))
	}
	if requested > r.Capacity() {
		panic(fmt.Sprintf("ring: BeginWrite requested %d exceeds capacity %d", requested, r.Capacity()))
	}

	// One wakeup does not guarantee enough space was freed, so re-check
	// after every wait.
	var available int
	for {
		if r.closed.Load() {
			return nil, nil, ErrClosed
		}
		available = r.Capacity() - int(r.filled.Load())
		if available >= requested {
			break
		}
		r.readEnd.wait()
	}

	amount := requested
	if allowMore {
		amount = available
	}
	r.pendingWrite = amount

	buf := r.storage.data()
	size1 := min(r.Capacity()-r.writeCursor, amount)
	first = buf[r.writeCursor : r.writeCursor+size1]
	if size1 == amount {
		return first, nil, nil
	}

	return first, buf[:amount-size1], nil
}

// EndWrite commits amount elements of the pending reservation, advancing the
// write cursor and publishing the data to the consumer. Commits may be
// partial and repeated until the whole reservation is committed.
//
// Committing more than remains reserved is a contract violation and panics.
func (r *Ring[T]) EndWrite(amount int) {
	if amount > r.pendingWrite {
		panic(fmt.Sprintf("ring: EndWrite %d exceeds pending reservation %d", amount, r.pendingWrite))
	}

	r.writeCursor = (r.writeCursor + amount) % r.Capacity()
	r.pendingWrite -= amount
	r.filled.Add(int64(amount))
}

// EndWriteAll commits the entire remaining reservation.
func (r *Ring[T]) EndWriteAll() {
	r.EndWrite(r.pendingWrite)
}

// BeginRead reserves a read region of requested elements. It never blocks:
// if the buffer is empty, or holds less than requested and allowMore is
// false, both returned slices are nil, which means "not enough data yet"
// rather than an error. With allowMore, everything available is returned,
// even if less than requested.
//
// Consumer goroutine only. The same contract rules as BeginWrite apply to
// requested.
func (r *Ring[T]) BeginRead(requested int, allowMore bool) (first, second []T) {
	if !allowMore && requested <= 0 {
		panic(fmt.Sprintf("ring: BeginRead requested %d without allowMore", requested))
	}
	if requested > r.Capacity() {
		panic(fmt.Sprintf("ring: BeginRead requested %d exceeds capacity %d", requested, r.Capacity()))
	}

	available := int(r.filled.Load())
	if available == 0 || (available < requested && !allowMore) {
		return nil, nil
	}

	amount := requested
	if allowMore {
		amount = available
	}
	r.pendingRead = amount

	buf := r.storage.data()
	size1 := min(amount, r.Capacity()-r.readCursor)
	first = buf[r.readCursor : r.readCursor+size1]
	if size1 == amount {
		return first, nil
	}

	return first, buf[:amount-size1]
}

// EndRead commits amount elements of the pending read reservation, frees
// their slots, and wakes a producer blocked in BeginWrite.
//
// Committing more than remains reserved is a contract violation and panics.
func (r *Ring[T]) EndRead(amount int) {
	if amount > r.pendingRead {
		panic(fmt.Sprintf("ring: EndRead %d exceeds pending reservation %d", amount, r.pendingRead))
	}

	r.readCursor = (r.readCursor + amount) % r.Capacity()
	r.pendingRead -= amount
	r.filled.Add(int64(-amount))
	r.readEnd.signal()
}

// EndReadAll commits the entire remaining read reservation.
func (r *Ring[T]) EndReadAll() {
	r.EndRead(r.pendingRead)
}

// Close wakes a producer blocked in BeginWrite and makes all further
// BeginWrite calls fail with ErrClosed. The consumer may keep draining
// committed data afterwards. Close is idempotent and callable from any
// goroutine.
func (r *Ring[T]) Close() {
	r.closed.Store(true)
	r.readEnd.signal()
}

// Release hands the backing storage to its release policy. Call only after
// both sides are known idle; for allocated rings the memory is reclaimed on
// the next drain of the reclamation queue.
func (r *Ring[T]) Release() {
	r.storage.release()
}

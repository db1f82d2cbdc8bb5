package ring

import "github.com/yukie-nobuharu/synthizer/reclaim"

// storage is the backing-store strategy of a Ring: a fixed element count,
// direct access to the elements, and a release policy. The two variants are
// selected at construction and never change afterwards.
type storage[T any] interface {
	len() int
	data() []T
	release()
}

// inlineStorage owns a slice allocated once at construction and relies on
// ordinary garbage collection for release. Used for rings whose teardown
// happens on non-real-time goroutines.
type inlineStorage[T any] struct {
	buf []T
}

func (s *inlineStorage[T]) len() int  { return len(s.buf) }
func (s *inlineStorage[T]) data() []T { return s.buf }
func (s *inlineStorage[T]) release()  {}

// allocatedStorage owns a heap slice whose last reference is dropped through
// a deferred reclamation queue, so that release may be requested from a
// real-time context without making the memory collectable there.
type allocatedStorage[T any] struct {
	buf   []T
	queue *reclaim.Queue
}

func (s *allocatedStorage[T]) len() int  { return len(s.buf) }
func (s *allocatedStorage[T]) data() []T { return s.buf }

func (s *allocatedStorage[T]) release() {
	q := s.queue
	if q == nil {
		q = reclaim.Default
	}
	q.Defer(func() {
		s.buf = nil
	})
}

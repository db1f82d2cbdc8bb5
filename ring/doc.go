// Package ring provides a single-producer/single-consumer audio ring buffer
// modelled after the DirectSound lock API: a reservation call hands back one
// or two sub-slices of the backing storage, the caller fills (or reads) them
// directly, and a commit call publishes the transfer.
//
// The producer side may block waiting for space; the consumer side never
// blocks, which makes it safe to call from an audio callback with a hard
// deadline. Exactly one goroutine may write and exactly one may read for the
// lifetime of a Ring. This is a structural precondition, not something the
// implementation checks.
//
// The second returned segment is only non-empty when a reservation wraps past
// the end of the storage. A caller that always requests a capacity-dividing
// amount and commits it fully never sees the second segment.
package ring

package ring

// event is an auto-reset wakeup primitive: signal wakes at most one waiter,
// and a signal delivered with no waiter present is remembered for exactly one
// future wait. Implemented as a one-slot channel so that signal never blocks
// the signalling (real-time) goroutine.
type event struct {
	ch chan struct{}
}

func newEvent() event {
	return event{ch: make(chan struct{}, 1)}
}

// wait blocks until the event is signalled, consuming the signal.
func (e event) wait() {
	<-e.ch
}

// signal wakes one waiter. If the slot already holds an undelivered signal
// this is a no-op, preserving auto-reset semantics.
func (e event) signal() {
	select {
	case e.ch <- struct{}{}:
	default:
	}
}

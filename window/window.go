// Package window implements the sliding-window correlator used to match
// outbound SMPP requests with their eventual responses by sequence number.
//
// A Window bounds the number of requests a session may have outstanding at
// once. Offer blocks until a slot is free (or the caller's timeout expires);
// Complete, Fail and Cancel release the slot held by a pending entry. The
// window is safe for concurrent producers (callers offering new requests)
// and concurrent completers (the session's read loop calling Complete, and
// a timeout sweeper calling ExpireOldRequests).
package window

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrClosed is returned by Offer/TryOffer once the window has been closed.
var ErrClosed = errors.New("smpp/window: closed")

// ErrTimeout is returned by Offer when no slot frees up before the given
// timeout elapses, and used to fail entries reaped by ExpireOldRequests.
var ErrTimeout = errors.New("smpp/window: timed out waiting for a slot")

// ErrCancelled resolves a future whose caller freed its slot with Cancel
// before any response arrived.
var ErrCancelled = errors.New("smpp/window: entry cancelled")

// ErrDuplicateSeq is returned by Offer/TryOffer when the sequence number on
// the request is already pending in the window.
type ErrDuplicateSeq uint32

func (e ErrDuplicateSeq) Error() string {
	return fmt.Sprintf("smpp/window: sequence %d already pending", uint32(e))
}

// Result is what a pending entry eventually resolves to: either a value of
// type R or an error.
type Result[R any] struct {
	Value R
	Err   error
}

// Future is handed back by Offer/TryOffer. The caller reads exactly one
// value from Done, delivered by whichever of Complete, Fail, Cancel or
// ExpireOldRequests/CancelAll/Close resolves the entry first.
type Future[R any] struct {
	Done chan Result[R]
}

// Await blocks until the future resolves or ctx/timeout occurs first. It
// does not release the window slot by itself: a caller-level timeout here
// does not free the entry, the window's own sweeper or an explicit Cancel
// does (see ExpireOldRequests).
func (f Future[R]) Await(timeout <-chan time.Time) (R, error) {
	select {
	case r := <-f.Done:
		return r.Value, r.Err
	case <-timeout:
		var zero R
		return zero, ErrTimeout
	}
}

type entry[R any] struct {
	createdAt time.Time
	done      chan Result[R]
}

// Window is a bounded, sequence-keyed map of outstanding requests. The zero
// value is not usable; create one with New.
type Window[R any] struct {
	maxSize int
	slots   chan struct{}

	mu      sync.Mutex
	pending map[uint32]*entry[R]
	closed  bool
}

// New creates a Window that admits at most maxSize concurrently pending
// entries.
func New[R any](maxSize int) *Window[R] {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Window[R]{
		maxSize: maxSize,
		slots:   make(chan struct{}, maxSize),
		pending: make(map[uint32]*entry[R], maxSize),
	}
}

// Offer blocks up to timeout waiting for a free slot, then admits seq as a
// pending entry and returns its completion future. It fails immediately if
// the window is closed, and fails with ErrTimeout if no slot frees up in
// time.
func (w *Window[R]) Offer(seq uint32, timeout time.Duration) (Future[R], error) {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case w.slots <- struct{}{}:
	case <-t.C:
		return Future[R]{}, ErrTimeout
	}
	f, err := w.admit(seq)
	if err != nil {
		<-w.slots
		return Future[R]{}, err
	}
	return f, nil
}

// TryOffer is the non-blocking variant of Offer: it returns ok=false
// immediately if the window is full, closed, or seq is already pending.
func (w *Window[R]) TryOffer(seq uint32) (f Future[R], ok bool, err error) {
	select {
	case w.slots <- struct{}{}:
	default:
		return Future[R]{}, false, nil
	}
	f, err = w.admit(seq)
	if err != nil {
		<-w.slots
		return Future[R]{}, false, err
	}
	return f, true, nil
}

func (w *Window[R]) admit(seq uint32) (Future[R], error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return Future[R]{}, ErrClosed
	}
	if _, dup := w.pending[seq]; dup {
		return Future[R]{}, ErrDuplicateSeq(seq)
	}
	done := make(chan Result[R], 1)
	w.pending[seq] = &entry[R]{createdAt: time.Now(), done: done}
	return Future[R]{Done: done}, nil
}

// resolve removes seq from the pending map, releases its slot, then
// delivers r on the entry's channel. The channel send happens after the
// lock is released and never blocks, since Done is buffered with capacity
// one — so no caller can suspend this call while holding w.mu.
func (w *Window[R]) resolve(seq uint32, r Result[R]) bool {
	w.mu.Lock()
	e, ok := w.pending[seq]
	if ok {
		delete(w.pending, seq)
	}
	w.mu.Unlock()
	if !ok {
		return false
	}
	<-w.slots
	e.done <- r
	return true
}

// Resolve resolves a pending entry with both a value and an error, for
// callers that need to carry a partial result alongside a business-level
// failure (e.g. an SMPP response PDU whose status indicates an error). It
// reports whether seq was actually pending.
func (w *Window[R]) Resolve(seq uint32, val R, err error) bool {
	return w.resolve(seq, Result[R]{Value: val, Err: err})
}

// Complete resolves a pending entry with a successful value. It reports
// whether seq was actually pending.
func (w *Window[R]) Complete(seq uint32, val R) bool {
	return w.resolve(seq, Result[R]{Value: val})
}

// Fail resolves a pending entry with an error. It reports whether seq was
// actually pending.
func (w *Window[R]) Fail(seq uint32, err error) bool {
	return w.resolve(seq, Result[R]{Err: err})
}

// Cancel frees seq's slot without requiring a caller-supplied result,
// resolving its future with ErrCancelled. Use this when a caller abandons a
// request before any response arrives, to reclaim the slot eagerly rather
// than waiting for ExpireOldRequests.
func (w *Window[R]) Cancel(seq uint32) bool {
	return w.resolve(seq, Result[R]{Err: ErrCancelled})
}

// ExpireOldRequests fails every entry older than maxAge with ErrTimeout and
// returns how many were reaped. It is meant to run on a periodic sweeper
// since a caller-level Await timeout does not free the slot by itself.
func (w *Window[R]) ExpireOldRequests(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	w.mu.Lock()
	var stale []uint32
	for seq, e := range w.pending {
		if e.createdAt.Before(cutoff) {
			stale = append(stale, seq)
		}
	}
	w.mu.Unlock()
	n := 0
	for _, seq := range stale {
		if w.Fail(seq, ErrTimeout) {
			n++
		}
	}
	return n
}

// CancelAll fails every currently outstanding entry with err and returns
// how many were reaped.
func (w *Window[R]) CancelAll(err error) int {
	w.mu.Lock()
	seqs := make([]uint32, 0, len(w.pending))
	for seq := range w.pending {
		seqs = append(seqs, seq)
	}
	w.mu.Unlock()
	n := 0
	for _, seq := range seqs {
		if w.Fail(seq, err) {
			n++
		}
	}
	return n
}

// Close marks the window closed, rejecting further Offer/TryOffer calls,
// then fails every outstanding entry with ErrClosed.
func (w *Window[R]) Close() {
	w.mu.Lock()
	alreadyClosed := w.closed
	w.closed = true
	w.mu.Unlock()
	if alreadyClosed {
		return
	}
	w.CancelAll(ErrClosed)
}

// Size returns the number of currently pending entries.
func (w *Window[R]) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// AvailableSlots returns how many more entries may be admitted right now.
func (w *Window[R]) AvailableSlots() int {
	return w.maxSize - len(w.slots)
}

// IsFull reports whether the window currently has no free slots.
func (w *Window[R]) IsFull() bool {
	return w.AvailableSlots() == 0
}

// IsEmpty reports whether the window currently has no pending entries.
func (w *Window[R]) IsEmpty() bool {
	return w.Size() == 0
}

// IsClosed reports whether Close has been called.
func (w *Window[R]) IsClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// MaxSize returns the window's configured capacity.
func (w *Window[R]) MaxSize() int {
	return w.maxSize
}

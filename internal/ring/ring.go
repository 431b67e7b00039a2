// Package ring implements the single-producer/single-consumer frame ring
// that decouples the render loop from the output stage: fixed capacity,
// drop-on-full at the producer, park/unpark back-pressure between the two
// owning goroutines.
package ring

import (
	"sync"

	"github.com/Glitch752/RoomLEDs/internal/frame"
)

// Ring is a fixed-capacity SPSC queue of PresentedFrames. The zero value is
// not usable; construct with New. Exactly one goroutine may call TryPush
// and Park; exactly one (possibly different) goroutine may call TryPop and
// Unpark.
type Ring struct {
	mu       sync.Mutex
	cond     *sync.Cond
	buf      []frame.PresentedFrame
	head     int
	count    int
	capacity int
}

// New returns an empty Ring of the given capacity.
func New(capacity int) *Ring {
	r := &Ring{
		buf:      make([]frame.PresentedFrame, capacity),
		capacity: capacity,
	}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// TryPush attempts to enqueue f without blocking. It returns false (and
// drops f) if the ring is already full.
func (r *Ring) TryPush(f frame.PresentedFrame) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == r.capacity {
		return false
	}
	tail := (r.head + r.count) % r.capacity
	r.buf[tail] = f
	r.count++
	return true
}

// TryPop attempts to dequeue the oldest frame without blocking. It returns
// (zero, false) if the ring is empty.
func (r *Ring) TryPop() (frame.PresentedFrame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		return frame.PresentedFrame{}, false
	}
	f := r.buf[r.head]
	r.buf[r.head] = frame.PresentedFrame{}
	r.head = (r.head + 1) % r.capacity
	r.count--
	return f, true
}

// IsFull reports whether the ring is at capacity.
func (r *Ring) IsFull() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count == r.capacity
}

// Park blocks the calling (producer) goroutine until Unpark is called by
// the consumer. Used by the render loop once the ring is full, so it never
// spins waiting for the output stage to drain a slot.
func (r *Ring) Park() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cond.Wait()
}

// Unpark wakes a goroutine blocked in Park. Called by the output stage
// after every pop attempt, whether or not a frame was available.
func (r *Ring) Unpark() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cond.Signal()
}

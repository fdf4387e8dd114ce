package atomicslot

import "sync/atomic"

// A Slot is a lock-free container holding at most one value of type T.
//
// The entire state is one atomic pointer word: nil means the slot is empty,
// non-nil is the address of the resident value. Every mutation is a single
// atomic exchange of that word, so concurrent operations never block, never
// fail, and never observe a partially-updated slot.
//
// The zero Slot is empty and ready for use. A Slot must not be copied after
// first use; share it by pointer.
type Slot[T any] struct {
	inner atomic.Pointer[T]
}

// Empty returns a new slot holding no value.
func Empty[T any]() *Slot[T] {
	return new(Slot[T])
}

// New returns a new slot holding value, taking ownership of it. A nil value
// yields an empty slot.
func New[T any](value *T) *Slot[T] {
	s := new(Slot[T])
	s.inner.Store(value)

	return s
}

// Swap atomically replaces the slot's contents with value and returns the
// previous contents, using [AcquireRelease] ordering. A nil value empties
// the slot; a nil result means the slot was empty.
//
// Swap is the primitive every other operation reduces to. It is
// linearizable: when several goroutines exchange against the same slot, each
// resident pointer is handed out by exactly one of them, and the slot is
// left holding the value of whichever exchange ordered last.
//
// Ownership of value passes to the slot when Swap is called, and ownership
// of the returned value passes to the caller when it returns. The caller
// must not touch value through its own pointer afterwards, and nobody else
// can reach the returned value.
func (s *Slot[T]) Swap(value *T) *T {
	return s.SwapOrdered(value, AcquireRelease)
}

// SwapOrdered is Swap with an explicit minimum ordering. [AcquireRelease]
// is sufficient for ownership handoff; [Relaxed] is enough only when the
// exchanged pointers are not used to publish memory written by the caller.
// The exchange itself is indivisible at every ordering.
func (s *Slot[T]) SwapOrdered(value *T, order Ordering) *T {
	// sync/atomic is sequentially consistent, which satisfies every
	// Ordering up to and including SeqCst.
	return s.inner.Swap(value)
}

// Take atomically removes and returns the slot's contents, leaving it
// empty, using [AcquireRelease] ordering. It returns nil if the slot was
// already empty. The caller becomes the sole owner of a non-nil result: of
// any number of concurrent Takes, exactly one receives the value.
func (s *Slot[T]) Take() *T {
	return s.TakeOrdered(AcquireRelease)
}

// TakeOrdered is Take with an explicit minimum ordering.
func (s *Slot[T]) TakeOrdered(order Ordering) *T {
	return s.SwapOrdered(nil, order)
}

// Store atomically places value in the slot, using [AcquireRelease]
// ordering, and discards whatever was resident. The displaced value is
// dropped inside the call; under the ownership contract the slot held its
// only reference, so it becomes garbage immediately. Storing nil empties
// the slot.
func (s *Slot[T]) Store(value *T) {
	s.StoreOrdered(value, AcquireRelease)
}

// StoreOrdered is Store with an explicit minimum ordering.
func (s *Slot[T]) StoreOrdered(value *T, order Ordering) {
	_ = s.SwapOrdered(value, order)
}

// IsSome reports whether the slot held a value at the instant of the load,
// using [Acquire] ordering. The answer is stale as soon as it is produced:
// it grants no claim on the value and must not gate a Take or Swap. See the
// package documentation.
func (s *Slot[T]) IsSome() bool {
	return s.IsSomeOrdered(Acquire)
}

// IsSomeOrdered is IsSome with an explicit minimum ordering.
func (s *Slot[T]) IsSomeOrdered(order Ordering) bool {
	return s.inner.Load() != nil
}

// IsNone reports whether the slot was empty at the instant of the load,
// using [Acquire] ordering. It carries the same point-in-time caveat as
// [Slot.IsSome].
func (s *Slot[T]) IsNone() bool {
	return s.IsNoneOrdered(Acquire)
}

// IsNoneOrdered is IsNone with an explicit minimum ordering.
func (s *Slot[T]) IsNoneOrdered(order Ordering) bool {
	return !s.IsSomeOrdered(order)
}

package atomicslot

import "fmt"

// Ordering names the minimum memory-ordering strength a call site relies on.
//
// The Ordered form of each [Slot] operation takes an Ordering so that the
// synchronization a caller depends on is visible where the call is made,
// the way it would be with C++ std::memory_order. Orderings are minimums,
// not exact strengths: Go's sync/atomic operations are sequentially
// consistent, so every call receives at least what it asks for. Requesting
// an ordering weaker than the caller's own synchronization scheme needs is
// a contract violation on the caller's side; it is never detected at
// runtime. Values outside the named constants are treated as [SeqCst], so
// every operation stays total.
type Ordering uint8

const (
	// Relaxed requires only that the operation itself is indivisible. It
	// creates no happens-before edge with surrounding memory accesses and
	// is appropriate for counters and diagnostics only.
	Relaxed Ordering = iota

	// Acquire requires a read-acquire: writes published before a matching
	// Release store become visible once the operation completes. The
	// default for emptiness checks.
	Acquire

	// Release requires a write-release: writes made before the operation
	// become visible to a matching Acquire load of the stored pointer.
	Release

	// AcquireRelease combines Acquire and Release, so an exchange both
	// observes the publications of the value it removes and publishes the
	// value it inserts. Sufficient for ownership handoff; the default for
	// all exchanges.
	AcquireRelease

	// SeqCst additionally places the operation in the single total order
	// shared by all sequentially consistent operations. This is what Go's
	// sync/atomic provides unconditionally.
	SeqCst
)

// String returns the name of the ordering level.
func (o Ordering) String() string {
	switch o {
	case Relaxed:
		return "Relaxed"
	case Acquire:
		return "Acquire"
	case Release:
		return "Release"
	case AcquireRelease:
		return "AcquireRelease"
	case SeqCst:
		return "SeqCst"
	default:
		return fmt.Sprintf("Ordering(%d)", uint8(o))
	}
}

// Package atomicslot provides a lock-free container for a single value,
// safe for concurrent use by any number of goroutines.
//
// A [Slot] holds zero or one heap-allocated value of a caller-chosen type.
// Inserting, replacing, and removing all happen through one atomic pointer
// exchange, so every operation completes in a single step: nothing blocks,
// nothing spins, nothing returns an error. The slot is a building block for
// handoff cells, replaceable shared state, and one-shot result boxes.
//
// # Basic Usage
//
//	slot := atomicslot.Empty[string]()
//
//	v := "hello"
//	prev := slot.Swap(&v) // prev == nil, slot now holds &v
//
//	got := slot.Take() // got == &v, slot now empty
//
// The zero value is also usable:
//
//	var slot atomicslot.Slot[int] // empty
//
// # Ownership
//
// A slot owns the value it holds. Storing a pointer hands the pointed-to
// value over: the caller must not read or write through that pointer
// afterwards, and must not store the same pointer anywhere else. An
// exchange that returns a non-nil pointer hands the value back: the caller
// becomes its only owner and the slot retains no reference. Each stored
// pointer is returned by exactly one later exchange, which is what makes
// take-based handoff race-free: of N goroutines that concurrently
// [Slot.Take] from one slot, exactly one receives the value and the rest
// receive nil.
//
// A value displaced by [Slot.Store] is dropped inside the call; since the
// slot held its only reference, it becomes garbage immediately. A value
// still resident when the slot itself becomes unreachable is collected
// along with it, so no explicit close or release step exists.
//
// # Concurrency
//
// All methods may be called concurrently, and a *Slot may be handed freely
// between goroutines. This is safe because the complete state is a single
// atomic word and the resident value is reachable only by removing it;
// there is nothing a data race could tear.
//
// # Emptiness Checks
//
// [Slot.IsSome] and [Slot.IsNone] report the state at one instant and grant
// no claim on the value: another goroutine may fill or empty the slot
// between the check and any follow-up operation. Checking IsSome before
// Take is therefore a race, not a reservation. Decide who got a value from
// the return value of [Slot.Take] or [Slot.Swap], never from a prior check.
// The package deliberately has no compare-and-swap to lean on here;
// heuristic and diagnostic use is what the checks are for.
//
// # Memory Ordering
//
// Every operation has a default form and an Ordered form taking an
// [Ordering]. The defaults use [AcquireRelease] for exchanges and [Acquire]
// for emptiness checks, which is as strong as ownership handoff requires.
// The Ordered forms exist to keep a call site's synchronization assumptions
// written down; since Go's sync/atomic is sequentially consistent, every
// call provides at least the ordering it names.
package atomicslot

package atomicslot_test

import (
	"bytes"
	"testing"

	"github.com/calvinalkan/atomicslot"
)

// FuzzSlot_Matches_Model_When_Random_Ops_Applied drives a slot with an
// operation stream decoded from fuzz bytes and compares every result against
// a trivial sequential model (one plain pointer variable). The low bits of
// each byte select the operation, the high bits the ordering level, so the
// whole Ordered surface gets exercised.
func FuzzSlot_Matches_Model_When_Random_Ops_Applied(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add([]byte{0x03, 0x02})       // store then take
	f.Add([]byte{0x00, 0x10, 0x01}) // swap, swap, drain
	f.Add([]byte{0x04, 0x03, 0x44, 0x05, 0x22, 0x55})
	f.Add(bytes.Repeat([]byte{0x00}, 64))
	f.Add([]byte("atomicslot"))

	f.Fuzz(func(t *testing.T, ops []byte) {
		slot := atomicslot.Empty[uint64]()
		orderings := allOrderings()

		// The model: what the slot must currently hold.
		var model *uint64

		for pos, opByte := range ops {
			order := orderings[int(opByte>>4)%len(orderings)]

			switch opByte % 6 {
			case 0: // swap in a fresh value
				v := uint64(pos)

				prev := slot.SwapOrdered(&v, order)
				if prev != model {
					t.Fatalf("op %d (swap, %v): returned %v; model holds %v", pos, order, prev, model)
				}

				model = &v
			case 1: // swap in nil
				prev := slot.SwapOrdered(nil, order)
				if prev != model {
					t.Fatalf("op %d (swap nil, %v): returned %v; model holds %v", pos, order, prev, model)
				}

				model = nil
			case 2: // take
				got := slot.TakeOrdered(order)
				if got != model {
					t.Fatalf("op %d (take, %v): returned %v; model holds %v", pos, order, got, model)
				}

				model = nil
			case 3: // store a fresh value, discarding the resident
				v := uint64(pos)

				slot.StoreOrdered(&v, order)

				model = &v
			case 4: // observe occupancy
				if got, want := slot.IsSomeOrdered(order), model != nil; got != want {
					t.Fatalf("op %d (issome, %v): got %v; model says %v", pos, order, got, want)
				}
			case 5: // observe emptiness
				if got, want := slot.IsNoneOrdered(order), model == nil; got != want {
					t.Fatalf("op %d (isnone, %v): got %v; model says %v", pos, order, got, want)
				}
			}
		}

		// Drain and confirm the model agrees one last time.
		if got := slot.Take(); got != model {
			t.Fatalf("final take: returned %v; model holds %v", got, model)
		}

		if !slot.IsNone() {
			t.Fatal("slot must be empty after the final take")
		}
	})
}

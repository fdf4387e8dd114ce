// Package stress soaks a single slot with mixed worker roles and checks the
// delivery guarantees the whole time: every value handed out exactly once,
// racing takes with exactly one winner, and nothing left behind at the end.
//
// The harness exists for runs far longer than the package's own stress
// tests. Violations are collected, not fatal; a correct slot produces none
// at any duration.
package stress

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/calvinalkan/atomicslot"
)

// payload is what churn workers circulate through the slot. The claim bit
// travels with the value: delivery confers exclusive ownership, so a second
// claim on the same payload proves the slot double-delivered it.
type payload struct {
	seq     uint64
	claimed atomic.Bool
}

// maxViolations bounds how many violation descriptions a result carries.
// The count keeps growing past the cap.
const maxViolations = 16

type violations struct {
	mu    sync.Mutex
	count uint64
	first []string
}

func (v *violations) add(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.count++

	if len(v.first) < maxViolations {
		v.first = append(v.first, fmt.Sprintf(format, args...))
	}
}

func (v *violations) snapshot() ([]string, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return append([]string(nil), v.first...), v.count
}

type counters struct {
	swaps      atomic.Uint64
	stores     atomic.Uint64
	takeHits   atomic.Uint64
	takeMisses atomic.Uint64
	observes   atomic.Uint64
	inserted   atomic.Uint64
	delivered  atomic.Uint64
}

// Run executes the scenario against a fresh slot. Cancelling ctx ends the
// run early; the result is still internally consistent. The error covers
// scenario problems only, never slot misbehavior: that lands in
// [Result.Violations].
func Run(ctx context.Context, scenario Scenario) (Result, error) {
	err := scenario.Validate()
	if err != nil {
		return Result{}, err
	}

	usageBefore := captureUsage()
	started := time.Now()

	c := &counters{}
	v := &violations{}

	runChurn(ctx, scenario, c, v)
	churnElapsed := time.Since(started)

	trials := runTakeTrials(ctx, scenario, v)

	inserted, delivered, discarded := settleAccounts(c, v)
	first, count := v.snapshot()

	return Result{
		Scenario:       scenario,
		Elapsed:        Duration(time.Since(started)),
		ChurnElapsed:   Duration(churnElapsed),
		Swaps:          c.swaps.Load(),
		Stores:         c.stores.Load(),
		TakeHits:       c.takeHits.Load(),
		TakeMisses:     c.takeMisses.Load(),
		Observes:       c.observes.Load(),
		Inserted:       inserted,
		Delivered:      delivered,
		Discarded:      discarded,
		Trials:         trials,
		Violations:     first,
		ViolationCount: count,
		Usage:          usageDelta(usageBefore, captureUsage()),
	}, nil
}

// settleAccounts closes out value accounting once every worker has stopped.
// Deliveries exceeding insertions means a payload was handed out twice, which
// counts as a violation like any other; the discarded count clamps at zero in
// that case rather than wrapping around.
func settleAccounts(c *counters, v *violations) (inserted, delivered, discarded uint64) {
	inserted = c.inserted.Load()
	delivered = c.delivered.Load()

	if delivered > inserted {
		v.add("delivered %d exceeds inserted %d", delivered, inserted)
	}

	if inserted > delivered {
		discarded = inserted - delivered
	}

	return inserted, delivered, discarded
}

// runChurn hammers one slot with every configured role until the deadline
// or ctx cancellation, then drains it and claims the resident value.
func runChurn(ctx context.Context, scenario Scenario, c *counters, v *violations) {
	if scenario.churnWorkers() == 0 {
		return
	}

	slot := atomicslot.Empty[payload]()

	var seq atomic.Uint64

	deadline := time.Now().Add(scenario.Duration.Std())

	running := func() bool {
		return ctx.Err() == nil && time.Now().Before(deadline)
	}

	claim := func(p *payload) {
		if p.claimed.Swap(true) {
			v.add("payload %d delivered twice", p.seq)
		}

		c.delivered.Add(1)
	}

	var wg sync.WaitGroup

	// Swappers insert fresh payloads and claim whatever they displace.
	for range scenario.Swappers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for running() {
				p := &payload{seq: seq.Add(1)}
				c.inserted.Add(1)

				if prev := slot.Swap(p); prev != nil {
					claim(prev)
				}

				c.swaps.Add(1)
			}
		}()
	}

	// Storers insert fresh payloads; whatever they displace is dropped
	// inside Store and counts as discarded at the end.
	for range scenario.Storers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for running() {
				p := &payload{seq: seq.Add(1)}
				c.inserted.Add(1)

				slot.Store(p)
				c.stores.Add(1)
			}
		}()
	}

	// Takers claim whatever they manage to remove.
	for range scenario.Takers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for running() {
				if got := slot.Take(); got != nil {
					claim(got)
					c.takeHits.Add(1)
				} else {
					c.takeMisses.Add(1)
				}
			}
		}()
	}

	// Observers only look. Their answers are point-in-time and grant no
	// claim, so nothing they see can be asserted against later state.
	for range scenario.Observers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for running() {
				_ = slot.IsSome()
				_ = slot.IsNone()

				c.observes.Add(1)
			}
		}()
	}

	wg.Wait()

	// The resident value, if any, is one final regular delivery.
	if final := slot.Take(); final != nil {
		claim(final)
	}

	if !slot.IsNone() {
		v.add("slot still occupied after the final drain")
	}
}

// runTakeTrials pre-loads the slot and races TakeRacers goroutines for the
// value, once per trial. Returns the number of trials completed.
func runTakeTrials(ctx context.Context, scenario Scenario, v *violations) int {
	trials := 0

	for range scenario.TakeTrials {
		if ctx.Err() != nil {
			break
		}

		trials++

		p := &payload{seq: uint64(trials)}
		slot := atomicslot.New(p)

		start := make(chan struct{})

		var winners atomic.Uint64

		var wg sync.WaitGroup
		wg.Add(scenario.TakeRacers)

		for range scenario.TakeRacers {
			go func() {
				defer wg.Done()

				<-start

				got := slot.Take()
				if got == nil {
					return
				}

				winners.Add(1)

				if got != p {
					v.add("trial %d: racing take returned a foreign payload %d", trials, got.seq)
				}
			}()
		}

		close(start)
		wg.Wait()

		if got := winners.Load(); got != 1 {
			v.add("trial %d: %d winners out of %d racing takes; want exactly 1", trials, got, scenario.TakeRacers)
		}

		if !slot.IsNone() {
			v.add("trial %d: slot still occupied after racing takes", trials)
		}
	}

	return trials
}

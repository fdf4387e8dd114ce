package stress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/sys/unix"
)

// Result is everything one run produced. A correct slot yields
// ViolationCount == 0 at any duration and worker mix.
type Result struct {
	Scenario Scenario `json:"scenario"`
	Elapsed  Duration `json:"elapsed"`

	// ChurnElapsed covers the churn phase alone, excluding the take trials
	// that follow it; throughput is computed against this window.
	ChurnElapsed Duration `json:"churn_elapsed"` //nolint:tagliatelle // snake_case for report file

	Swaps      uint64 `json:"swaps"`
	Stores     uint64 `json:"stores"`
	TakeHits   uint64 `json:"take_hits"`   //nolint:tagliatelle // snake_case for report file
	TakeMisses uint64 `json:"take_misses"` //nolint:tagliatelle // snake_case for report file
	Observes   uint64 `json:"observes"`
	Inserted   uint64 `json:"inserted"`
	Delivered  uint64 `json:"delivered"`
	Discarded  uint64 `json:"discarded"`
	Trials     int    `json:"trials"`

	// Violations holds the first few failure descriptions; ViolationCount
	// keeps counting past the cap.
	Violations     []string `json:"violations"`
	ViolationCount uint64   `json:"violation_count"` //nolint:tagliatelle // snake_case for report file

	Usage Rusage `json:"rusage"`
}

// Rusage is the CPU time the process spent during the run.
type Rusage struct {
	UserCPU   Duration `json:"user_cpu"`   //nolint:tagliatelle // snake_case for report file
	SystemCPU Duration `json:"system_cpu"` //nolint:tagliatelle // snake_case for report file
}

// Ok reports whether the run completed without a single violated guarantee.
func (r Result) Ok() bool {
	return r.ViolationCount == 0
}

// Ops is the total number of slot operations the churn phase performed.
func (r Result) Ops() uint64 {
	return r.Swaps + r.Stores + r.TakeHits + r.TakeMisses + r.Observes
}

// Throughput is churn operations per second, measured over the churn phase
// alone so the take-trial phase does not dilute the rate.
func (r Result) Throughput() float64 {
	elapsed := r.ChurnElapsed.Std().Seconds()
	if elapsed <= 0 {
		return 0
	}

	return float64(r.Ops()) / elapsed
}

// Text renders the result for humans.
func (r Result) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "scenario:   %s\n", r.Scenario.Name)
	fmt.Fprintf(&b, "elapsed:    %s\n", r.Elapsed)
	fmt.Fprintf(&b, "workers:    %d swappers, %d storers, %d takers, %d observers\n",
		r.Scenario.Swappers, r.Scenario.Storers, r.Scenario.Takers, r.Scenario.Observers)
	fmt.Fprintf(&b, "churn:      %d swaps, %d stores, %d take hits, %d take misses, %d observes\n",
		r.Swaps, r.Stores, r.TakeHits, r.TakeMisses, r.Observes)
	fmt.Fprintf(&b, "values:     %d inserted, %d delivered, %d discarded\n",
		r.Inserted, r.Delivered, r.Discarded)
	fmt.Fprintf(&b, "throughput: %.0f ops/s over %s of churn\n", r.Throughput(), r.ChurnElapsed)
	fmt.Fprintf(&b, "trials:     %d racing-take trials, %d racers each\n",
		r.Trials, r.Scenario.TakeRacers)
	fmt.Fprintf(&b, "cpu:        %s user, %s system\n", r.Usage.UserCPU, r.Usage.SystemCPU)

	if r.Ok() {
		fmt.Fprintf(&b, "violations: none\n")

		return b.String()
	}

	fmt.Fprintf(&b, "violations: %d\n", r.ViolationCount)

	for _, violation := range r.Violations {
		fmt.Fprintf(&b, "  - %s\n", violation)
	}

	return b.String()
}

// JSON renders the result as indented JSON for machine consumption.
func (r Result) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to format result: %w", err)
	}

	return data, nil
}

// WriteReport writes data to path atomically so a crash mid-write never
// leaves a truncated report behind.
func WriteReport(path string, data []byte) error {
	err := atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	return nil
}

func captureUsage() unix.Rusage {
	var usage unix.Rusage

	// Failure leaves the zero value; CPU numbers then read as zero rather
	// than failing the run.
	_ = unix.Getrusage(unix.RUSAGE_SELF, &usage)

	return usage
}

func usageDelta(before, after unix.Rusage) Rusage {
	return Rusage{
		UserCPU:   Duration(time.Duration(after.Utime.Nano() - before.Utime.Nano())),
		SystemCPU: Duration(time.Duration(after.Stime.Nano() - before.Stime.Nano())),
	}
}

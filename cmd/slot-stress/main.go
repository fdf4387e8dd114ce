// Package main provides slot-stress, a soak harness for the atomicslot
// package.
//
// It churns one slot with a configurable mix of swappers, storers, takers,
// and observers, then races takers for a pre-loaded value over many trials.
// Guarantee violations are counted and reported; a clean run prints a
// summary and exits 0, a run with violations exits 1.
//
// Scenarios come from a JSONC file (--config) with individual fields
// overridable by flags:
//
//	slot-stress --duration 2m --takers 16
//	slot-stress -c soak.jsonc --json -o report.json
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/atomicslot/internal/stress"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	flags := flag.NewFlagSet("slot-stress", flag.ContinueOnError)
	flags.SetOutput(errOut)

	var (
		configPath = flags.StringP("config", "c", "", "JSONC scenario file")
		duration   = flags.DurationP("duration", "d", 0, "churn duration (overrides the scenario)")
		swappers   = flags.Int("swappers", 0, "swapper goroutines (overrides the scenario)")
		storers    = flags.Int("storers", 0, "storer goroutines (overrides the scenario)")
		takers     = flags.Int("takers", 0, "taker goroutines (overrides the scenario)")
		observers  = flags.Int("observers", 0, "observer goroutines (overrides the scenario)")
		trials     = flags.Int("trials", 0, "racing-take trials (overrides the scenario)")
		racers     = flags.Int("racers", 0, "goroutines per racing-take trial (overrides the scenario)")
		outPath    = flags.StringP("out", "o", "", "also write a JSON report to this file")
		asJSON     = flags.Bool("json", false, "print the report as JSON")
	)

	parseErr := flags.Parse(args)
	if parseErr != nil {
		if errors.Is(parseErr, flag.ErrHelp) {
			return 0
		}

		// pflag prints nothing under ContinueOnError.
		fmt.Fprintln(errOut, "error:", parseErr)

		return 2
	}

	scenario, err := stress.LoadScenario(*configPath)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)

		return 1
	}

	// Flag overrides beat the scenario file.
	if flags.Changed("duration") {
		scenario.Duration = stress.Duration(*duration)
	}

	if flags.Changed("swappers") {
		scenario.Swappers = *swappers
	}

	if flags.Changed("storers") {
		scenario.Storers = *storers
	}

	if flags.Changed("takers") {
		scenario.Takers = *takers
	}

	if flags.Changed("observers") {
		scenario.Observers = *observers
	}

	if flags.Changed("trials") {
		scenario.TakeTrials = *trials
	}

	if flags.Changed("racers") {
		scenario.TakeRacers = *racers
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First signal stops the run gracefully; the report still prints. The
	// handler lasts only as long as this run.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	result, err := stress.Run(ctx, scenario)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)

		return 1
	}

	if *asJSON {
		data, jsonErr := result.JSON()
		if jsonErr != nil {
			fmt.Fprintln(errOut, "error:", jsonErr)

			return 1
		}

		fmt.Fprintf(out, "%s\n", data)
	} else {
		fmt.Fprint(out, result.Text())
	}

	if *outPath != "" {
		data, jsonErr := result.JSON()
		if jsonErr != nil {
			fmt.Fprintln(errOut, "error:", jsonErr)

			return 1
		}

		writeErr := stress.WriteReport(*outPath, data)
		if writeErr != nil {
			fmt.Fprintln(errOut, "error:", writeErr)

			return 1
		}
	}

	if !result.Ok() {
		return 1
	}

	return 0
}

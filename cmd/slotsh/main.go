// slotsh is an interactive playground for the atomicslot package.
//
// It holds one Slot[string] shared by everything you start from the prompt:
//
//	store <text>        insert or replace, discarding the resident value
//	swap <text>         insert or replace, printing what came out
//	take                remove and print the resident value
//	peek                report occupancy without claiming anything
//	churn [n] [dur]     run n goroutines of mixed traffic for dur
//	help                show this help
//	exit / quit / q     exit
//
// peek demonstrates the emptiness-check caveat directly: run churn in one
// terminal pane and peek's answers go stale immediately.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/peterh/liner"

	"github.com/calvinalkan/atomicslot"
)

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	repl := &REPL{slot: atomicslot.Empty[string]()}

	return repl.Run()
}

// REPL is the interactive command loop around a single shared slot.
type REPL struct {
	slot  *atomicslot.Slot[string]
	liner *liner.State
}

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".slotsh_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	// Load history
	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Println("slotsh - one atomic slot, shared by everything you start here.")
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("slotsh> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")

			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "store":
			r.cmdStore(args)

		case "swap":
			r.cmdSwap(args)

		case "take":
			r.cmdTake()

		case "peek":
			r.cmdPeek()

		case "churn":
			r.cmdChurn(args)

		case "clear", "cls":
			fmt.Print("\033[H\033[2J")

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

// saveHistory persists command history to disk.
func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

// completer provides tab completion for commands.
func (r *REPL) completer(line string) []string {
	commands := []string{"store ", "swap ", "take", "peek", "churn ", "help", "clear", "exit", "quit"}

	lower := strings.ToLower(line)

	var matches []string

	for _, c := range commands {
		if strings.HasPrefix(c, lower) {
			matches = append(matches, c)
		}
	}

	return matches
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  store <text>     Insert or replace, discarding the resident value")
	fmt.Println("  swap <text>      Insert or replace, printing what came out")
	fmt.Println("  take             Remove and print the resident value")
	fmt.Println("  peek             Report occupancy (stale immediately; grants no claim)")
	fmt.Println("  churn [n] [dur]  Run n goroutines of mixed traffic for dur (default 4, 2s)")
	fmt.Println("  clear            Clear the screen")
	fmt.Println("  exit / quit / q  Exit")
}

func (r *REPL) cmdStore(args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: store <text>")

		return
	}

	value := strings.Join(args, " ")
	r.slot.Store(&value)

	fmt.Printf("stored %q (previous resident, if any, was discarded)\n", value)
}

func (r *REPL) cmdSwap(args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: swap <text>")

		return
	}

	value := strings.Join(args, " ")

	prev := r.slot.Swap(&value)
	if prev == nil {
		fmt.Printf("swapped %q in; slot was empty\n", value)

		return
	}

	fmt.Printf("swapped %q in, got %q out\n", value, *prev)
}

func (r *REPL) cmdTake() {
	got := r.slot.Take()
	if got == nil {
		fmt.Println("slot is empty")

		return
	}

	fmt.Printf("took %q; the slot no longer references it\n", *got)
}

func (r *REPL) cmdPeek() {
	if r.slot.IsSome() {
		fmt.Println("occupied (at that instant; this grants no claim on the value)")

		return
	}

	fmt.Println("empty (at that instant)")
}

// cmdChurn hammers the shared slot with mixed swap/take traffic so peek and
// take can be raced against it interactively.
func (r *REPL) cmdChurn(args []string) {
	workers := 4
	duration := 2 * time.Second

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			fmt.Println("Usage: churn [workers] [duration]")

			return
		}

		workers = n
	}

	if len(args) > 1 {
		d, err := time.ParseDuration(args[1])
		if err != nil || d <= 0 {
			fmt.Println("Usage: churn [workers] [duration]")

			return
		}

		duration = d
	}

	fmt.Printf("churning with %d workers for %s...\n", workers, duration)

	var swaps, takes, hits atomic.Uint64

	deadline := time.Now().Add(duration)

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := range workers {
		go func() {
			defer wg.Done()

			for i := 0; time.Now().Before(deadline); i++ {
				if i%2 == 0 {
					value := fmt.Sprintf("worker-%d-%d", w, i)

					_ = r.slot.Swap(&value)
					swaps.Add(1)
				} else {
					if r.slot.Take() != nil {
						hits.Add(1)
					}

					takes.Add(1)
				}
			}
		}()
	}

	wg.Wait()

	total := swaps.Load() + takes.Load()

	fmt.Printf("done: %d swaps, %d takes (%d hits), %.0f ops/s\n",
		swaps.Load(), takes.Load(), hits.Load(), float64(total)/duration.Seconds())

	if resident := r.slot.Take(); resident != nil {
		fmt.Printf("resident after churn: %q\n", *resident)
	} else {
		fmt.Println("slot empty after churn")
	}
}

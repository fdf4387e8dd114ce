package stress

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/tailscale/hujson"
)

// Duration is a time.Duration that marshals as a string like "5s" so
// scenario files and reports stay readable. Bare numbers are accepted as
// nanoseconds.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON renders the duration in time.Duration string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "250ms" style strings or bare nanosecond numbers.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("%w: %w", errDurationInvalid, err)
	}

	switch value := raw.(type) {
	case string:
		parsed, parseErr := time.ParseDuration(value)
		if parseErr != nil {
			return fmt.Errorf("%w: %q", errDurationInvalid, value)
		}

		*d = Duration(parsed)

		return nil
	case float64:
		*d = Duration(time.Duration(value))

		return nil
	default:
		return fmt.Errorf("%w: %v", errDurationInvalid, raw)
	}
}

// Scenario describes one stress run: how many workers of each role hammer
// the slot, for how long, and how many racing-take trials follow.
type Scenario struct {
	Name      string   `json:"name"`
	Swappers  int      `json:"swappers"`
	Storers   int      `json:"storers"`
	Takers    int      `json:"takers"`
	Observers int      `json:"observers"`
	Duration  Duration `json:"duration"`

	// TakeTrials pre-loads the slot and races TakeRacers goroutines for the
	// value, once per trial. Exactly one racer may win each time.
	TakeTrials int `json:"take_trials"` //nolint:tagliatelle // snake_case for scenario file
	TakeRacers int `json:"take_racers"` //nolint:tagliatelle // snake_case for scenario file
}

// DefaultScenario sizes the run for the current machine.
func DefaultScenario() Scenario {
	workers := max(2, runtime.GOMAXPROCS(0))

	return Scenario{
		Name:       "default",
		Swappers:   workers,
		Storers:    max(1, workers/2),
		Takers:     workers,
		Observers:  2,
		Duration:   Duration(5 * time.Second),
		TakeTrials: 1000,
		TakeRacers: workers,
	}
}

// churnWorkers is the number of goroutines the churn phase will start.
func (s Scenario) churnWorkers() int {
	return s.Swappers + s.Storers + s.Takers + s.Observers
}

// Validate rejects scenarios that cannot run or would run as a no-op.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return errNameEmpty
	}

	if s.Swappers < 0 || s.Storers < 0 || s.Takers < 0 || s.Observers < 0 || s.TakeTrials < 0 {
		return errWorkersNegative
	}

	if s.churnWorkers() == 0 && s.TakeTrials == 0 {
		return errNothingToRun
	}

	if s.churnWorkers() > 0 && s.Duration <= 0 {
		return errDurationRequired
	}

	if s.TakeTrials > 0 && s.TakeRacers < 2 {
		return errRacersTooFew
	}

	return nil
}

// LoadScenario reads a JSONC scenario file and overlays it on the defaults;
// fields the file does not mention keep their default values. An empty path
// returns the defaults unchanged. The result is not validated here so
// callers can still apply flag overrides first.
func LoadScenario(path string) (Scenario, error) {
	scenario := DefaultScenario()

	if path == "" {
		return scenario, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return Scenario{}, fmt.Errorf("%w: %s", errScenarioFileNotFound, path)
		}

		return Scenario{}, fmt.Errorf("%w: %s", errScenarioFileRead, path)
	}

	parseErr := parseScenario(data, &scenario)
	if parseErr != nil {
		return Scenario{}, fmt.Errorf("%w %s: %w", errScenarioInvalid, path, parseErr)
	}

	return scenario, nil
}

func parseScenario(data []byte, into *Scenario) error {
	// Standardize JSONC to JSON.
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("invalid JSONC: %w", err)
	}

	unmarshalErr := json.Unmarshal(standardized, into)
	if unmarshalErr != nil {
		return fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	return nil
}

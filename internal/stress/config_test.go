package stress

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenarioFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "scenario.jsonc")

	err := os.WriteFile(path, []byte(contents), 0o644)
	require.NoError(t, err, "write scenario file")

	return path
}

func Test_DefaultScenario_Passes_Validation(t *testing.T) {
	t.Parallel()

	err := DefaultScenario().Validate()
	require.NoError(t, err, "defaults must always be runnable")
}

func Test_LoadScenario_Returns_Defaults_When_Path_Is_Empty(t *testing.T) {
	t.Parallel()

	scenario, err := LoadScenario("")
	require.NoError(t, err)

	diff := cmp.Diff(DefaultScenario(), scenario)
	assert.Empty(t, diff, "scenario mismatch")
}

func Test_LoadScenario_Overlays_File_Fields_On_Defaults(t *testing.T) {
	t.Parallel()

	// JSONC on purpose: comments and a trailing comma.
	path := writeScenarioFile(t, `{
		// long soak with no storers
		"name": "soak",
		"storers": 0,
		"duration": "90ms",
		"take_trials": 7,
	}`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	expected := DefaultScenario()
	expected.Name = "soak"
	expected.Storers = 0
	expected.Duration = Duration(90 * time.Millisecond)
	expected.TakeTrials = 7

	diff := cmp.Diff(expected, scenario)
	assert.Empty(t, diff, "fields absent from the file must keep their defaults")
}

func Test_LoadScenario_Accepts_Bare_Nanosecond_Durations(t *testing.T) {
	t.Parallel()

	path := writeScenarioFile(t, `{"duration": 1000000}`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, Duration(time.Millisecond), scenario.Duration)
}

func Test_LoadScenario_Fails_When_File_Is_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.jsonc"))
	require.ErrorIs(t, err, errScenarioFileNotFound)
}

func Test_LoadScenario_Fails_When_File_Is_Malformed(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		contents string
	}{
		{name: "NotJSON", contents: `{{{`},
		{name: "WrongFieldType", contents: `{"swappers": "many"}`},
		{name: "BadDurationString", contents: `{"duration": "fast"}`},
		{name: "BadDurationType", contents: `{"duration": true}`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			path := writeScenarioFile(t, testCase.contents)

			_, err := LoadScenario(path)
			require.ErrorIs(t, err, errScenarioInvalid)
		})
	}
}

func Test_Scenario_Validate_Rejects_Unrunnable_Scenarios(t *testing.T) {
	t.Parallel()

	base := DefaultScenario()

	testCases := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr error
	}{
		{
			name:    "EmptyName",
			mutate:  func(s *Scenario) { s.Name = "" },
			wantErr: errNameEmpty,
		},
		{
			name:    "NegativeSwappers",
			mutate:  func(s *Scenario) { s.Swappers = -1 },
			wantErr: errWorkersNegative,
		},
		{
			name:    "NegativeTrials",
			mutate:  func(s *Scenario) { s.TakeTrials = -1 },
			wantErr: errWorkersNegative,
		},
		{
			name: "NothingToRun",
			mutate: func(s *Scenario) {
				s.Swappers, s.Storers, s.Takers, s.Observers, s.TakeTrials = 0, 0, 0, 0, 0
			},
			wantErr: errNothingToRun,
		},
		{
			name:    "ChurnWithoutDuration",
			mutate:  func(s *Scenario) { s.Duration = 0 },
			wantErr: errDurationRequired,
		},
		{
			name:    "OneRacer",
			mutate:  func(s *Scenario) { s.TakeRacers = 1 },
			wantErr: errRacersTooFew,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			scenario := base
			testCase.mutate(&scenario)

			require.ErrorIs(t, scenario.Validate(), testCase.wantErr)
		})
	}
}

func Test_Duration_Marshals_As_Readable_String(t *testing.T) {
	t.Parallel()

	data, err := Duration(250 * time.Millisecond).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"250ms"`, string(data))

	var parsed Duration

	require.NoError(t, parsed.UnmarshalJSON(data))
	assert.Equal(t, Duration(250*time.Millisecond), parsed)
}

package stress

import "errors"

var (
	errScenarioFileNotFound = errors.New("scenario file not found")
	errScenarioFileRead     = errors.New("cannot read scenario file")
	errScenarioInvalid      = errors.New("invalid scenario file")
	errDurationInvalid      = errors.New("invalid duration")
	errNameEmpty            = errors.New("scenario name cannot be empty")
	errWorkersNegative      = errors.New("worker counts cannot be negative")
	errNothingToRun         = errors.New("scenario has no churn workers and no take trials")
	errDurationRequired     = errors.New("duration must be positive when churn workers are configured")
	errRacersTooFew         = errors.New("take_racers must be at least 2 when take_trials is set")
)

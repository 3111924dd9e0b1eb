package equalize

import (
	"context"
	"log"

	"github.com/ArnaudCalmettes/equalizer/device"
)

// Stage identifies one timed step of the pipeline.
type Stage int

const (
	StageColourForward Stage = iota
	StageHistogram
	StageScan
	StageNormalise
	StageEqualise
	StageColourInverse
)

func (s Stage) String() string {
	switch s {
	case StageColourForward:
		return "colour_forward"
	case StageHistogram:
		return "histogram"
	case StageScan:
		return "scan"
	case StageNormalise:
		return "normalise"
	case StageEqualise:
		return "equalise"
	case StageColourInverse:
		return "colour_inverse"
	}
	return "unknown"
}

// State is the position of a run in the pipeline. A run only moves forward.
type State int

const (
	Configured State = iota
	ColourTransformed
	HistogramBuilt
	Scanned
	Normalized
	Remapped
	ColourRestored
	Done
)

func (s State) String() string {
	switch s {
	case Configured:
		return "Configured"
	case ColourTransformed:
		return "ColourTransformed"
	case HistogramBuilt:
		return "HistogramBuilt"
	case Scanned:
		return "Scanned"
	case Normalized:
		return "Normalized"
	case Remapped:
		return "Remapped"
	case ColourRestored:
		return "ColourRestored"
	case Done:
		return "Done"
	}
	return "unknown"
}

// reaches is the state a successful stage moves the run to.
func (s Stage) reaches() State {
	switch s {
	case StageColourForward:
		return ColourTransformed
	case StageHistogram:
		return HistogramBuilt
	case StageScan:
		return Scanned
	case StageNormalise:
		return Normalized
	case StageEqualise:
		return Remapped
	case StageColourInverse:
		return ColourRestored
	}
	return Done
}

// StageFunc runs one stage to completion and returns the event of the kernel
// it dispatched. The event has retired when StageFunc returns.
type StageFunc func(ctx context.Context) (*device.Event, error)

// Middleware wraps the execution of every stage.
type Middleware func(stage Stage, next StageFunc) StageFunc

// LogStages logs the kernel time of each stage, or its failure.
func LogStages(logger *log.Logger) Middleware {
	return func(stage Stage, next StageFunc) StageFunc {
		return func(ctx context.Context) (*device.Event, error) {
			ev, err := next(ctx)
			if err != nil {
				logger.Printf("%v failed: %v", stage, err)
				return ev, err
			}
			if d, perr := ev.Duration(); perr == nil {
				logger.Printf("%v kernel execution time [ns]: %d", stage, d.Nanoseconds())
			}
			return ev, nil
		}
	}
}

func chain(stage Stage, fn StageFunc, mws []Middleware) StageFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		fn = mws[i](stage, fn)
	}
	return fn
}

package models

import (
	"fmt"
	"strings"
	"time"
)

// StageTiming is the device time spent in one pipeline stage.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// A TimingReport aggregates stage timings in execution order.
type TimingReport struct {
	Stages []StageTiming
	Total  time.Duration
}

// Add appends a stage and accumulates its duration into the total.
func (r *TimingReport) Add(stage string, d time.Duration) {
	r.Stages = append(r.Stages, StageTiming{Stage: stage, Duration: d})
	r.Total += d
}

// Duration returns the time recorded for stage, if any.
func (r TimingReport) Duration(stage string) (time.Duration, bool) {
	for _, s := range r.Stages {
		if s.Stage == stage {
			return s.Duration, true
		}
	}
	return 0, false
}

func (r TimingReport) String() string {
	var sb strings.Builder
	for _, s := range r.Stages {
		fmt.Fprintf(&sb, "%s execution time [ns]: %d\n", s.Stage, s.Duration.Nanoseconds())
	}
	fmt.Fprintf(&sb, "Total execution time [ns]: %d", r.Total.Nanoseconds())
	return sb.String()
}

package equalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/ArnaudCalmettes/equalizer/kernels"
)

// AccumulationMode selects how the histogram is accumulated.
type AccumulationMode int

const (
	// Global increments the shared histogram directly.
	Global AccumulationMode = iota
	// Local accumulates per work-group before merging.
	Local
)

func (m AccumulationMode) String() string {
	switch m {
	case Global:
		return "global"
	case Local:
		return "local"
	}
	return "AccumulationMode(" + strconv.Itoa(int(m)) + ")"
}

// ScanAlgorithm selects the prefix-sum implementation.
type ScanAlgorithm int

const (
	// HillisSteele is the O(n log n) work scan writing a separate buffer.
	HillisSteele ScanAlgorithm = iota
	// Blelloch is the work-efficient in-place scan.
	Blelloch
)

func (a ScanAlgorithm) String() string {
	switch a {
	case HillisSteele:
		return "hillis_steele"
	case Blelloch:
		return "blelloch"
	}
	return "ScanAlgorithm(" + strconv.Itoa(int(a)) + ")"
}

var (
	modeNames = map[string]AccumulationMode{
		"global": Global,
		"local":  Local,
	}
	scanNames = map[string]ScanAlgorithm{
		"hillis_steele": HillisSteele,
		"hs":            HillisSteele,
		"blelloch":      Blelloch,
		"bl":            Blelloch,
	}
)

// ParseAccumulationMode reads "global" or "local".
func ParseAccumulationMode(s string) (AccumulationMode, error) {
	key := normalizeName(s)
	if m, ok := modeNames[key]; ok {
		return m, nil
	}
	return 0, &ConfigError{
		Field:      "accumulation mode",
		Value:      s,
		Reason:     "expected global or local",
		Suggestion: closestName(key, modeNames),
	}
}

// ParseScanAlgorithm reads "hillis_steele" (or "hs") and "blelloch" (or "bl").
func ParseScanAlgorithm(s string) (ScanAlgorithm, error) {
	key := normalizeName(s)
	if a, ok := scanNames[key]; ok {
		return a, nil
	}
	return 0, &ConfigError{
		Field:      "scan algorithm",
		Value:      s,
		Reason:     "expected hillis_steele or blelloch",
		Suggestion: closestName(key, scanNames),
	}
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// closestName returns the known name nearest to s, if it is close enough to
// be a plausible typo.
func closestName[T any](s string, names map[string]T) string {
	best, score := "", len(s)/2+1
	for name := range names {
		if len(name) <= 2 {
			continue
		}
		d := levenshtein.DistanceForStrings([]rune(s), []rune(name), levenshtein.DefaultOptions)
		if d < score || (d == score && best != "" && name < best) {
			best, score = name, d
		}
	}
	return best
}

// Config is the immutable run configuration consumed by a Pipeline.
type Config struct {
	bins int
	mode AccumulationMode
	scan ScanAlgorithm
}

// NewConfig validates and captures a run configuration.
func NewConfig(bins int, mode AccumulationMode, scan ScanAlgorithm) (Config, error) {
	if !kernels.ValidBins(bins) {
		return Config{}, &ConfigError{
			Field:  "bin count",
			Value:  strconv.Itoa(bins),
			Reason: fmt.Sprintf("must be a power of two between %d and %d", kernels.MinBins, kernels.MaxBins),
		}
	}
	if _, ok := modeNames[mode.String()]; !ok {
		return Config{}, &ConfigError{Field: "accumulation mode", Value: mode.String(), Reason: "unknown mode"}
	}
	if _, ok := scanNames[scan.String()]; !ok {
		return Config{}, &ConfigError{Field: "scan algorithm", Value: scan.String(), Reason: "unknown algorithm"}
	}
	return Config{bins: bins, mode: mode, scan: scan}, nil
}

// ParseConfig builds a Config from the textual options of a CLI or config
// file.
func ParseConfig(bins int, mode, scan string) (Config, error) {
	m, err := ParseAccumulationMode(mode)
	if err != nil {
		return Config{}, err
	}
	s, err := ParseScanAlgorithm(scan)
	if err != nil {
		return Config{}, err
	}
	return NewConfig(bins, m, s)
}

// DefaultConfig uses 256 bins, local accumulation and the Blelloch scan.
func DefaultConfig() Config {
	return Config{bins: kernels.MaxBins, mode: Local, scan: Blelloch}
}

// Bins returns the histogram resolution.
func (c Config) Bins() int { return c.bins }

// Mode returns the accumulation mode.
func (c Config) Mode() AccumulationMode { return c.mode }

// Scan returns the prefix-sum algorithm.
func (c Config) Scan() ScanAlgorithm { return c.scan }

func (c Config) String() string {
	return fmt.Sprintf("bins=%d mode=%v scan=%v", c.bins, c.mode, c.scan)
}

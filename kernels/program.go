// Package kernels holds the device programs of the equalization pipeline.
package kernels

import (
	"fmt"

	"github.com/ArnaudCalmettes/equalizer/device"
)

const (
	// MinBins and MaxBins bound the histogram resolution.
	MinBins = 2
	MaxBins = 256
)

// Program is the compiled set of equalization kernels.
type Program struct {
	prog *device.Program

	globalHistogram  *device.Entry
	localHistogram   *device.Entry
	hillisSteeleScan *device.Entry
	blellochScan     *device.Entry
	normalise        *device.Entry
	equalise         *device.Entry
	rgbToYCbCr       *device.Entry
	yCbCrToRGB       *device.Entry
}

// Build compiles every kernel for ctx. A build failure is a
// *device.BuildError carrying the build log.
func Build(ctx *device.Context) (*Program, error) {
	prog := device.NewProgram(ctx)
	p := &Program{
		prog:             prog,
		globalHistogram:  prog.Declare("global_histogram", 0),
		localHistogram:   prog.Declare("local_histogram", MaxBins),
		hillisSteeleScan: prog.Declare("hillis_steele_scan", MaxBins),
		blellochScan:     prog.Declare("blelloch_scan", 1),
		normalise:        prog.Declare("normalise_histogram", 0),
		equalise:         prog.Declare("equalise_image", 0),
		rgbToYCbCr:       prog.Declare("rgb_to_ycbcr", 0),
		yCbCrToRGB:       prog.Declare("ycbcr_to_rgb", 0),
	}
	if err := prog.Build(); err != nil {
		return nil, err
	}
	return p, nil
}

// BuildLog returns the compiler diagnostics.
func (p *Program) BuildLog() string {
	return p.prog.BuildLog()
}

// ValidBins reports whether bins is a power of two in [MinBins, MaxBins].
func ValidBins(bins int) bool {
	return bins >= MinBins && bins <= MaxBins && bins&(bins-1) == 0
}

// BinIndex maps a sample to its histogram bin.
func BinIndex(v uint8, bins int) int {
	return int(v) * bins / 256
}

func checkBins(kernel string, bins int) error {
	if !ValidBins(bins) {
		return device.ArgError(kernel, "bin count %d is not a power of two in [%d, %d]", bins, MinBins, MaxBins)
	}
	return nil
}

func checkLen(kernel, arg string, have, want int) error {
	if have < want {
		return device.ArgError(kernel, "%s holds %d elements, need %d", arg, have, want)
	}
	return nil
}

func singleGroup(kernel string, g *device.Group, bins int) error {
	if g.Size() != bins || g.GlobalSize() != bins {
		return fmt.Errorf("%s needs one work-group of %d items, got %d/%d", kernel, bins, g.GlobalSize(), g.Size())
	}
	return nil
}

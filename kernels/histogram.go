package kernels

import (
	"sync/atomic"

	"github.com/ArnaudCalmettes/equalizer/device"
)

// GlobalHistogram counts every sample of img straight into hist with atomic
// increments. hist must be zeroed before dispatch.
func (p *Program) GlobalHistogram(img *device.Buffer[uint8], hist *device.Buffer[uint32], bins int) (*device.Kernel, error) {
	const name = "global_histogram"
	if err := checkBins(name, bins); err != nil {
		return nil, err
	}
	if err := checkLen(name, "histogram", hist.Len(), bins); err != nil {
		return nil, err
	}
	pix, counts := img.Data(), hist.Data()
	n := len(pix)

	return device.NewKernel(p.globalHistogram, 0, func(g *device.Group) error {
		g.Step(func(l int) {
			id := g.GlobalID(l)
			if id >= n {
				return
			}
			atomic.AddUint32(&counts[BinIndex(pix[id], bins)], 1)
		})
		return nil
	})
}

// LocalHistogram accumulates each work-group into a private histogram held
// in group-local memory, then merges it into hist with one atomic add per
// bin. hist must be zeroed before dispatch.
func (p *Program) LocalHistogram(img *device.Buffer[uint8], hist *device.Buffer[uint32], bins int) (*device.Kernel, error) {
	const name = "local_histogram"
	if err := checkBins(name, bins); err != nil {
		return nil, err
	}
	if err := checkLen(name, "histogram", hist.Len(), bins); err != nil {
		return nil, err
	}
	pix, counts := img.Data(), hist.Data()
	n := len(pix)

	return device.NewKernel(p.localHistogram, bins, func(g *device.Group) error {
		scratch := g.Local()[:bins]
		size := g.Size()

		g.Step(func(l int) {
			for b := l; b < bins; b += size {
				scratch[b] = 0
			}
		})
		g.Step(func(l int) {
			id := g.GlobalID(l)
			if id >= n {
				return
			}
			atomic.AddUint32(&scratch[BinIndex(pix[id], bins)], 1)
		})
		g.Step(func(l int) {
			for b := l; b < bins; b += size {
				if c := atomic.LoadUint32(&scratch[b]); c != 0 {
					atomic.AddUint32(&counts[b], c)
				}
			}
		})
		return nil
	})
}

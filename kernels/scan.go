package kernels

import (
	"math/bits"

	"github.com/ArnaudCalmettes/equalizer/device"
)

// HillisSteeleScan writes the inclusive prefix sum of src into dst in
// log2(bins) passes. Passes ping-pong between dst and group-local memory,
// starting on whichever buffer makes the last pass land in dst. src is only
// read. Dispatch with global == local == bins.
func (p *Program) HillisSteeleScan(src, dst *device.Buffer[uint32], bins int) (*device.Kernel, error) {
	const name = "hillis_steele_scan"
	if err := checkBins(name, bins); err != nil {
		return nil, err
	}
	if err := checkLen(name, "source", src.Len(), bins); err != nil {
		return nil, err
	}
	if err := checkLen(name, "destination", dst.Len(), bins); err != nil {
		return nil, err
	}
	if src == dst {
		return nil, device.ArgError(name, "source and destination must differ")
	}
	in0, out := src.Data()[:bins], dst.Data()[:bins]
	passes := bits.Len(uint(bins)) - 1

	return device.NewKernel(p.hillisSteeleScan, bins, func(g *device.Group) error {
		if err := singleGroup(name, g, bins); err != nil {
			return err
		}
		scratch := g.Local()[:bins]
		in := in0
		for k := 0; k < passes; k++ {
			next := scratch
			if (passes-1-k)%2 == 0 {
				next = out
			}
			stride := 1 << k
			g.Step(func(l int) {
				v := in[l]
				if l >= stride {
					v += in[l-stride]
				}
				next[l] = v
			})
			in = next
		}
		return nil
	})
}

// BlellochScan replaces buf with its inclusive prefix sum, in place. The
// up-sweep builds partial sums over a binary tree, the down-sweep turns them
// into an exclusive scan and a final shift makes it inclusive, using the
// total saved from the tree root. Dispatch with global == local == bins.
func (p *Program) BlellochScan(buf *device.Buffer[uint32], bins int) (*device.Kernel, error) {
	const name = "blelloch_scan"
	if err := checkBins(name, bins); err != nil {
		return nil, err
	}
	if err := checkLen(name, "histogram", buf.Len(), bins); err != nil {
		return nil, err
	}
	a := buf.Data()[:bins]

	return device.NewKernel(p.blellochScan, 1, func(g *device.Group) error {
		if err := singleGroup(name, g, bins); err != nil {
			return err
		}
		total := g.Local()[:1]

		for stride := 1; stride < bins; stride *= 2 {
			g.Step(func(l int) {
				if (l+1)%(2*stride) == 0 {
					a[l] += a[l-stride]
				}
			})
		}

		g.Step(func(l int) {
			if l == bins-1 {
				total[0] = a[l]
				a[l] = 0
			}
		})

		for stride := bins / 2; stride > 0; stride /= 2 {
			g.Step(func(l int) {
				if (l+1)%(2*stride) == 0 {
					t := a[l]
					a[l] += a[l-stride]
					a[l-stride] = t
				}
			})
		}

		// Private registers: every item reads its right neighbour before
		// anyone writes.
		regs := make([]uint32, bins)
		g.Step(func(l int) {
			if l < bins-1 {
				regs[l] = a[l+1]
			} else {
				regs[l] = total[0]
			}
		})
		g.Step(func(l int) {
			a[l] = regs[l]
		})
		return nil
	})
}

package kernels

import (
	"image/color"
	"math"

	"github.com/ArnaudCalmettes/equalizer/device"
)

// Normalise turns a cumulative histogram into a lookup table:
// lut[i] = clamp(round(cum[i]*scale), 0, 255). Dispatch with
// global == local == bins.
func (p *Program) Normalise(cum, lut *device.Buffer[uint32], bins int, scale float64) (*device.Kernel, error) {
	const name = "normalise_histogram"
	if err := checkBins(name, bins); err != nil {
		return nil, err
	}
	if err := checkLen(name, "cumulative histogram", cum.Len(), bins); err != nil {
		return nil, err
	}
	if err := checkLen(name, "lookup table", lut.Len(), bins); err != nil {
		return nil, err
	}
	if scale < 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, device.ArgError(name, "invalid scale %v", scale)
	}
	c, out := cum.Data(), lut.Data()

	return device.NewKernel(p.normalise, 0, func(g *device.Group) error {
		g.Step(func(l int) {
			id := g.GlobalID(l)
			if id >= bins {
				return
			}
			out[id] = uint32(ScaleCount(c[id], scale))
		})
		return nil
	})
}

// ScaleCount applies the normalisation formula to one cumulative count.
func ScaleCount(count uint32, scale float64) uint8 {
	v := math.Round(float64(count) * scale)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Equalise writes lut[bin(sample)] for every sample of src into dst. With
// colour set, samples are interleaved YCbCr triples and only luma is
// remapped; chroma is copied through.
func (p *Program) Equalise(src, dst *device.Buffer[uint8], lut *device.Buffer[uint32], bins int, colour bool) (*device.Kernel, error) {
	const name = "equalise_image"
	if err := checkBins(name, bins); err != nil {
		return nil, err
	}
	if err := checkLen(name, "lookup table", lut.Len(), bins); err != nil {
		return nil, err
	}
	if err := checkLen(name, "output image", dst.Len(), src.Len()); err != nil {
		return nil, err
	}
	if colour && src.Len()%3 != 0 {
		return nil, device.ArgError(name, "colour image of %d samples", src.Len())
	}
	in, out, table := src.Data(), dst.Data(), lut.Data()
	n := len(in)

	return device.NewKernel(p.equalise, 0, func(g *device.Group) error {
		g.Step(func(l int) {
			id := g.GlobalID(l)
			if id >= n {
				return
			}
			v := in[id]
			if colour && id%3 != 0 {
				out[id] = v
				return
			}
			out[id] = uint8(table[BinIndex(v, bins)])
		})
		return nil
	})
}

// RGBToYCbCr converts interleaved RGB triples to JFIF YCbCr, one pixel per
// work item.
func (p *Program) RGBToYCbCr(src, dst *device.Buffer[uint8]) (*device.Kernel, error) {
	return p.convertPixels(p.rgbToYCbCr, src, dst, color.RGBToYCbCr)
}

// YCbCrToRGB is the inverse of RGBToYCbCr.
func (p *Program) YCbCrToRGB(src, dst *device.Buffer[uint8]) (*device.Kernel, error) {
	return p.convertPixels(p.yCbCrToRGB, src, dst, color.YCbCrToRGB)
}

func (p *Program) convertPixels(e *device.Entry, src, dst *device.Buffer[uint8], convert func(a, b, c uint8) (uint8, uint8, uint8)) (*device.Kernel, error) {
	if src.Len()%3 != 0 {
		return nil, device.ArgError(e.Name, "colour image of %d samples", src.Len())
	}
	if err := checkLen(e.Name, "output image", dst.Len(), src.Len()); err != nil {
		return nil, err
	}
	in, out := src.Data(), dst.Data()
	pixels := len(in) / 3

	return device.NewKernel(e, 0, func(g *device.Group) error {
		g.Step(func(l int) {
			px := g.GlobalID(l)
			if px >= pixels {
				return
			}
			i := 3 * px
			out[i], out[i+1], out[i+2] = convert(in[i], in[i+1], in[i+2])
		})
		return nil
	})
}

package equalize

import (
	"context"

	"github.com/ArnaudCalmettes/equalizer/device"
	"github.com/ArnaudCalmettes/equalizer/models"
)

func (r *run) colourForward(context.Context) (*device.Event, error) {
	k, err := r.prog.RGBToYCbCr(r.input, r.work)
	if err != nil {
		return nil, err
	}
	ev, err := r.dispatch(k, r.img.Pixels(), r.imageGroup())
	if err != nil {
		return ev, err
	}
	r.src = r.work
	return ev, nil
}

// buildHistogram counts every sample into a zeroed histogram, globally or
// through group-local histograms depending on the configured mode.
func (r *run) buildHistogram(context.Context) (*device.Event, error) {
	bins := r.cfg.bins
	if _, err := device.EnqueueFillBuffer(r.q, r.hist, 0); err != nil {
		return nil, err
	}

	var (
		k   *device.Kernel
		err error
	)
	switch r.cfg.mode {
	case Global:
		k, err = r.prog.GlobalHistogram(r.src, r.hist, bins)
	case Local:
		k, err = r.prog.LocalHistogram(r.src, r.hist, bins)
	}
	if err != nil {
		return nil, err
	}

	ev, err := r.dispatch(k, r.src.Len(), r.imageGroup())
	if err != nil {
		return ev, err
	}
	r.res.Histogram, err = readWords[models.Histogram](r.q, r.hist, bins)
	return ev, err
}

// scan turns the histogram into its cumulative distribution. Blelloch
// reuses the histogram storage, Hillis-Steele writes a second buffer.
func (r *run) scan(context.Context) (*device.Event, error) {
	bins := r.cfg.bins

	var (
		k   *device.Kernel
		err error
	)
	switch r.cfg.scan {
	case HillisSteele:
		k, err = r.prog.HillisSteeleScan(r.hist, r.cum, bins)
	case Blelloch:
		r.cum = r.hist
		k, err = r.prog.BlellochScan(r.hist, bins)
	}
	if err != nil {
		return nil, err
	}

	ev, err := r.dispatch(k, bins, bins)
	if err != nil {
		return ev, err
	}
	r.res.Cumulative, err = readWords[models.CumulativeHistogram](r.q, r.cum, bins)
	return ev, err
}

// normalise scales the cumulative histogram to [0,255]. The scale is
// tripled for colour images, whose three channels share the bin range.
func (r *run) normalise(context.Context) (*device.Event, error) {
	bins := r.cfg.bins
	scale := 255.0 / float64(r.img.Samples())
	if r.colour {
		scale *= 3
	}

	k, err := r.prog.Normalise(r.cum, r.lut, bins, scale)
	if err != nil {
		return nil, err
	}
	ev, err := r.dispatch(k, bins, bins)
	if err != nil {
		return ev, err
	}

	words, err := readWords[[]uint32](r.q, r.lut, bins)
	if err != nil {
		return ev, err
	}
	lut := make(models.LookupTable, bins)
	for i, v := range words {
		lut[i] = uint8(v)
	}
	r.res.Lookup = lut
	return ev, nil
}

func (r *run) remap(context.Context) (*device.Event, error) {
	k, err := r.prog.Equalise(r.src, r.output, r.lut, r.cfg.bins, r.colour)
	if err != nil {
		return nil, err
	}
	ev, err := r.dispatch(k, r.src.Len(), r.imageGroup())
	if err != nil || r.convert {
		return ev, err
	}
	return ev, r.download(r.output)
}

func (r *run) colourInverse(context.Context) (*device.Event, error) {
	k, err := r.prog.YCbCrToRGB(r.output, r.work)
	if err != nil {
		return nil, err
	}
	ev, err := r.dispatch(k, r.img.Pixels(), r.imageGroup())
	if err != nil {
		return ev, err
	}
	return ev, r.download(r.work)
}

func (r *run) download(b *device.Buffer[uint8]) error {
	pix := make([]uint8, b.Len())
	if _, err := device.EnqueueReadBuffer(r.q, b, true, pix); err != nil {
		return err
	}
	r.res.Image = models.EqualizedImage{PixelBuffer: models.PixelBuffer{
		Width:    r.img.Width,
		Height:   r.img.Height,
		Channels: r.img.Channels,
		Space:    r.img.Space,
		Pix:      pix,
	}}
	return nil
}

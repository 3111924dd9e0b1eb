// Package equalize runs histogram equalization on a compute device: build a
// histogram, scan it into a cumulative distribution, normalise that into a
// lookup table and remap every sample through it.
package equalize

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/ArnaudCalmettes/equalizer/device"
	"github.com/ArnaudCalmettes/equalizer/kernels"
	"github.com/ArnaudCalmettes/equalizer/models"
)

// minImageGroup is the smallest work-group used for per-sample kernels.
const minImageGroup = 64

// Options tunes a Pipeline.
type Options struct {
	// Logger receives progress messages. Defaults to discarding them.
	Logger *log.Logger
	// Middleware wraps every stage, outermost first.
	Middleware []Middleware
}

// Pipeline equalizes images with one configuration on one device context.
// Run may be called concurrently; each run gets its own command queue.
type Pipeline struct {
	cfg  Config
	dctx *device.Context
	prog *kernels.Program
	opt  Options
}

// Result is the output of a successful run.
type Result struct {
	Image      models.EqualizedImage
	Histogram  models.Histogram
	Cumulative models.CumulativeHistogram
	Lookup     models.LookupTable
	Report     models.TimingReport
	// States lists the states the run went through, Configured to Done.
	States []State
}

// New builds the kernels for dctx. A build failure wraps a
// *device.BuildError holding the build log.
func New(dctx *device.Context, cfg Config, opts ...func(o *Options)) (*Pipeline, error) {
	if dctx == nil {
		return nil, &device.Error{Kind: device.KindDevice, Op: "new pipeline", Code: device.StatusInvalidContext, Msg: "nil context"}
	}
	if cfg.bins == 0 {
		return nil, &ConfigError{Field: "bin count", Value: "0", Reason: "configuration not initialised, use NewConfig"}
	}

	opt := Options{}
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}
	if opt.Logger == nil {
		opt.Logger = log.New(io.Discard, "", 0)
	}

	prog, err := kernels.Build(dctx)
	if err != nil {
		return nil, fmt.Errorf("build kernels: %w", err)
	}
	opt.Logger.Printf("Running on %v", dctx.Device())

	return &Pipeline{cfg: cfg, dctx: dctx, prog: prog, opt: opt}, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run equalizes img. ctx is checked between stages; a stage that was
// dispatched always runs to completion. On failure no image is returned.
func (p *Pipeline) Run(ctx context.Context, img models.PixelBuffer) (*Result, error) {
	if err := img.Validate(); err != nil {
		return nil, &DataError{Err: err}
	}

	q, err := device.NewQueue(p.dctx)
	if err != nil {
		return nil, fmt.Errorf("create queue: %w", err)
	}
	defer q.Release()

	r := &run{
		cfg:     p.cfg,
		prog:    p.prog,
		q:       q,
		img:     img,
		colour:  img.Colour(),
		convert: img.Colour() && img.Space == models.RGB,
		res:     &Result{States: []State{Configured}},
	}
	if err := r.allocate(p.dctx); err != nil {
		return nil, fmt.Errorf("allocate buffers: %w", err)
	}
	if _, err := device.EnqueueWriteBuffer(q, r.input, true, img.Pix); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	p.opt.Logger.Printf("Equalizing %v with %v", img, p.cfg)

	for _, stage := range r.plan() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("aborted before %v: %w", stage, err)
		}
		ev, err := chain(stage, r.stage(stage), p.opt.Middleware)(ctx)
		if err == nil && ev == nil {
			err = fmt.Errorf("no event returned")
		}
		if err != nil {
			return nil, &StageError{Stage: stage, Err: err}
		}
		d, err := ev.Duration()
		if err != nil {
			return nil, &StageError{Stage: stage, Err: err}
		}
		r.res.Report.Add(stage.String(), d)
		r.res.States = append(r.res.States, stage.reaches())
	}
	r.res.States = append(r.res.States, Done)
	p.opt.Logger.Printf("Total execution time [ns]: %d", r.res.Report.Total.Nanoseconds())
	return r.res, nil
}

// run holds the device state of one Run.
type run struct {
	cfg     Config
	prog    *kernels.Program
	q       *device.Queue
	img     models.PixelBuffer
	colour  bool
	convert bool

	input  *device.Buffer[uint8]
	work   *device.Buffer[uint8]
	output *device.Buffer[uint8]
	src    *device.Buffer[uint8] // what the histogram and remap stages read
	hist   *device.Buffer[uint32]
	cum    *device.Buffer[uint32]
	lut    *device.Buffer[uint32]

	res *Result
}

func (r *run) allocate(dctx *device.Context) (err error) {
	n, bins := r.img.Samples(), r.cfg.bins
	if r.input, err = device.NewBuffer[uint8](dctx, n); err != nil {
		return err
	}
	if r.output, err = device.NewBuffer[uint8](dctx, n); err != nil {
		return err
	}
	if r.convert {
		if r.work, err = device.NewBuffer[uint8](dctx, n); err != nil {
			return err
		}
	}
	if r.hist, err = device.NewBuffer[uint32](dctx, bins); err != nil {
		return err
	}
	if r.cfg.scan == HillisSteele {
		if r.cum, err = device.NewBuffer[uint32](dctx, bins); err != nil {
			return err
		}
	}
	if r.lut, err = device.NewBuffer[uint32](dctx, bins); err != nil {
		return err
	}
	r.src = r.input
	return nil
}

func (r *run) plan() []Stage {
	stages := []Stage{StageHistogram, StageScan, StageNormalise, StageEqualise}
	if r.convert {
		stages = append([]Stage{StageColourForward}, stages...)
		stages = append(stages, StageColourInverse)
	}
	return stages
}

func (r *run) stage(s Stage) StageFunc {
	switch s {
	case StageColourForward:
		return r.colourForward
	case StageHistogram:
		return r.buildHistogram
	case StageScan:
		return r.scan
	case StageNormalise:
		return r.normalise
	case StageEqualise:
		return r.remap
	case StageColourInverse:
		return r.colourInverse
	}
	return func(context.Context) (*device.Event, error) {
		return nil, fmt.Errorf("unknown stage %d", int(s))
	}
}

func (r *run) imageGroup() int {
	return max(r.cfg.bins, minImageGroup)
}

// dispatch enqueues k over at least n work items and waits for it.
func (r *run) dispatch(k *device.Kernel, n, local int) (*device.Event, error) {
	global := (n + local - 1) / local * local
	ev, err := r.q.EnqueueNDRangeKernel(k, global, local)
	if err != nil {
		return nil, err
	}
	return ev, ev.Wait()
}

func readWords[T ~[]uint32](q *device.Queue, b *device.Buffer[uint32], n int) (T, error) {
	out := make([]uint32, n)
	if _, err := device.EnqueueReadBuffer(q, b, true, out); err != nil {
		var zero T
		return zero, err
	}
	return T(out), nil
}

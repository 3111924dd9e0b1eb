package equalize

import (
	"bytes"
	"context"
	"errors"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ArnaudCalmettes/equalizer/device"
	"github.com/ArnaudCalmettes/equalizer/models"
)

func testContext(t *testing.T) *device.Context {
	t.Helper()
	ctx, err := device.NewContextFor(device.Device{
		Name:             "test device",
		ComputeUnits:     4,
		MaxWorkGroupSize: 256,
		LocalMemSize:     32 * 1024,
	})
	require.NoError(t, err)
	return ctx
}

func newPipeline(t *testing.T, bins int, mode AccumulationMode, scan ScanAlgorithm, opts ...func(*Options)) *Pipeline {
	t.Helper()
	cfg, err := NewConfig(bins, mode, scan)
	require.NoError(t, err)
	p, err := New(testContext(t), cfg, opts...)
	require.NoError(t, err)
	return p
}

func grey(t *testing.T, w, h int, pix []uint8) models.PixelBuffer {
	t.Helper()
	pb, err := models.NewPixelBuffer(w, h, 1, models.RGB, pix)
	require.NoError(t, err)
	return pb
}

func noise(n int, seed int64) []uint8 {
	rnd := rand.New(rand.NewSource(seed))
	pix := make([]uint8, n)
	for i := range pix {
		pix[i] = uint8(rnd.Intn(120) + 60)
	}
	return pix
}

func TestEightBinGreyImage(t *testing.T) {
	p := newPipeline(t, 8, Local, Blelloch)
	res, err := p.Run(context.Background(), grey(t, 4, 2, []uint8{0, 32, 64, 96, 128, 160, 192, 224}))
	require.NoError(t, err)

	require.Equal(t, models.Histogram{1, 1, 1, 1, 1, 1, 1, 1}, res.Histogram)
	require.Equal(t, models.CumulativeHistogram{1, 2, 3, 4, 5, 6, 7, 8}, res.Cumulative)
	require.Equal(t, models.LookupTable{32, 64, 96, 128, 159, 191, 223, 255}, res.Lookup)
	require.Equal(t, []uint8{32, 64, 96, 128, 159, 191, 223, 255}, res.Image.Pix)
	require.Equal(t, 4, res.Image.Width)
	require.Equal(t, 2, res.Image.Height)
	require.Equal(t, 1, res.Image.Channels)
	require.Equal(t, []State{Configured, HistogramBuilt, Scanned, Normalized, Remapped, Done}, res.States)
}

func TestModesAndScansAgree(t *testing.T) {
	img := grey(t, 97, 61, noise(97*61, 3))

	for _, bins := range []int{2, 16, 256} {
		var first *Result
		for _, mode := range []AccumulationMode{Global, Local} {
			for _, scan := range []ScanAlgorithm{HillisSteele, Blelloch} {
				res, err := newPipeline(t, bins, mode, scan).Run(context.Background(), img)
				require.NoError(t, err, "%d/%v/%v", bins, mode, scan)
				require.EqualValues(t, img.Samples(), res.Histogram.Sum())
				require.EqualValues(t, img.Samples(), res.Cumulative.Last())
				require.True(t, res.Cumulative.Monotonic())
				require.True(t, res.Lookup.Monotonic())
				require.EqualValues(t, 255, res.Lookup[bins-1])
				if first == nil {
					first = res
					continue
				}
				require.Equal(t, first.Histogram, res.Histogram, "%d/%v/%v", bins, mode, scan)
				require.Equal(t, first.Cumulative, res.Cumulative, "%d/%v/%v", bins, mode, scan)
				require.Equal(t, first.Image.Pix, res.Image.Pix, "%d/%v/%v", bins, mode, scan)
			}
		}
	}
}

func TestUniformImageIsAlmostUnchanged(t *testing.T) {
	pix := make([]uint8, 4*256)
	for i := range pix {
		pix[i] = uint8(i % 256)
	}
	res, err := newPipeline(t, 256, Global, HillisSteele).Run(context.Background(), grey(t, 32, 32, pix))
	require.NoError(t, err)
	for i, v := range res.Image.Pix {
		require.InDelta(t, int(pix[i]), int(v), 1, "sample %d", i)
	}
}

func TestColourImage(t *testing.T) {
	// Grey pixels stored as RGB keep equal channels through YCbCr.
	values := []uint8{10, 60, 60, 120, 200, 250}
	pix := make([]uint8, 0, 3*len(values))
	for _, v := range values {
		pix = append(pix, v, v, v)
	}
	img, err := models.NewPixelBuffer(3, 2, 3, models.RGB, pix)
	require.NoError(t, err)

	res, err := newPipeline(t, 64, Local, HillisSteele).Run(context.Background(), img)
	require.NoError(t, err)
	require.Equal(t, []State{
		Configured, ColourTransformed, HistogramBuilt, Scanned,
		Normalized, Remapped, ColourRestored, Done,
	}, res.States)
	require.Len(t, res.Report.Stages, 6)
	require.Equal(t, models.RGB, res.Image.Space)
	require.Len(t, res.Image.Pix, len(pix))

	prev := -1
	for i := 0; i < len(values); i++ {
		r, g, b := res.Image.Pix[3*i], res.Image.Pix[3*i+1], res.Image.Pix[3*i+2]
		require.Equal(t, r, g, "pixel %d", i)
		require.Equal(t, g, b, "pixel %d", i)
		require.GreaterOrEqual(t, int(r), prev, "pixel %d", i)
		prev = int(r)
	}
	require.EqualValues(t, 255, res.Image.Pix[len(pix)-1])
}

func TestYCbCrInputSkipsConversion(t *testing.T) {
	img, err := models.NewPixelBuffer(2, 1, 3, models.YCbCr, []uint8{50, 128, 128, 200, 90, 170})
	require.NoError(t, err)
	res, err := newPipeline(t, 4, Global, Blelloch).Run(context.Background(), img)
	require.NoError(t, err)
	require.NotContains(t, res.States, ColourTransformed)
	require.Equal(t, models.YCbCr, res.Image.Space)
	// Chroma is copied through.
	require.Equal(t, []uint8{128, 128}, res.Image.Pix[1:3])
	require.Equal(t, []uint8{90, 170}, res.Image.Pix[4:6])
}

func TestInvalidData(t *testing.T) {
	p := newPipeline(t, 16, Local, Blelloch)
	_, err := p.Run(context.Background(), models.PixelBuffer{Width: 2, Height: 2, Channels: 1, Pix: []uint8{1, 2, 3}})
	require.ErrorIs(t, err, ErrData)
	_, err = p.Run(context.Background(), models.PixelBuffer{Width: 2, Height: 2, Channels: 4, Pix: make([]uint8, 16)})
	require.ErrorIs(t, err, ErrData)

	// Width*Height wraps around to 4 on 64-bit ints.
	res, err := p.Run(context.Background(), models.PixelBuffer{Width: 1<<62 + 1, Height: 4, Channels: 1, Pix: make([]uint8, 4)})
	require.ErrorIs(t, err, ErrData)
	require.Nil(t, res)
}

func TestNewRejectsZeroConfig(t *testing.T) {
	_, err := New(testContext(t), Config{})
	require.ErrorIs(t, err, ErrConfiguration)
	_, err = New(nil, DefaultConfig())
	require.ErrorIs(t, err, device.ErrDevice)
}

func TestNewReportsBuildFailure(t *testing.T) {
	ctx, err := device.NewContextFor(device.Device{Name: "tiny", ComputeUnits: 1, LocalMemSize: 256})
	require.NoError(t, err)
	_, err = New(ctx, DefaultConfig())
	require.ErrorIs(t, err, device.ErrDevice)

	var berr *device.BuildError
	require.True(t, errors.As(err, &berr))
	require.Contains(t, berr.Log, "local_histogram")
}

func TestCancelledContext(t *testing.T) {
	p := newPipeline(t, 16, Local, Blelloch)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := p.Run(ctx, grey(t, 2, 2, []uint8{1, 2, 3, 4}))
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, res)
}

func TestStageFailureStopsRun(t *testing.T) {
	var seen []Stage
	boom := errors.New("boom")
	failScan := func(stage Stage, next StageFunc) StageFunc {
		return func(ctx context.Context) (*device.Event, error) {
			seen = append(seen, stage)
			if stage == StageScan {
				return nil, boom
			}
			return next(ctx)
		}
	}
	p := newPipeline(t, 16, Global, Blelloch, func(o *Options) {
		o.Middleware = append(o.Middleware, failScan)
	})
	res, err := p.Run(context.Background(), grey(t, 2, 2, []uint8{1, 2, 3, 4}))
	require.Nil(t, res)
	require.ErrorIs(t, err, boom)

	var serr *StageError
	require.True(t, errors.As(err, &serr))
	require.Equal(t, StageScan, serr.Stage)
	require.Equal(t, []Stage{StageHistogram, StageScan}, seen)
}

func TestLogStagesAndReport(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	p := newPipeline(t, 32, Local, HillisSteele, func(o *Options) {
		o.Logger = logger
		o.Middleware = []Middleware{LogStages(logger)}
	})
	res, err := p.Run(context.Background(), grey(t, 16, 16, noise(256, 9)))
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "Running on test device")
	for _, s := range []Stage{StageHistogram, StageScan, StageNormalise, StageEqualise} {
		require.Contains(t, out, s.String()+" kernel execution time [ns]: ")
		_, ok := res.Report.Duration(s.String())
		require.True(t, ok, s.String())
	}
	require.Len(t, res.Report.Stages, 4)

	var total int64
	for _, s := range res.Report.Stages {
		total += s.Duration.Nanoseconds()
	}
	require.Equal(t, total, res.Report.Total.Nanoseconds())
	require.True(t, strings.HasSuffix(res.Report.String(), "Total execution time [ns]: "+strconv.FormatInt(total, 10)))
}

func TestConcurrentRuns(t *testing.T) {
	p := newPipeline(t, 64, Local, Blelloch)
	img := grey(t, 50, 40, noise(2000, 5))
	want, err := p.Run(context.Background(), img)
	require.NoError(t, err)

	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			res, err := p.Run(context.Background(), img)
			if err == nil && !bytes.Equal(res.Image.Pix, want.Image.Pix) {
				err = errors.New("results differ")
			}
			errs <- err
		}()
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, <-errs)
	}
}

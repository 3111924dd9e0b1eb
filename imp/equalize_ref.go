package imp

import (
	"fmt"
	"image/color"

	"github.com/ArnaudCalmettes/equalizer/kernels"
	"github.com/ArnaudCalmettes/equalizer/models"
)

// Equalize is the sequential counterpart of the device pipeline. It uses the
// same binning, scaling and colour handling, so both must agree sample for
// sample. It is used to verify device results.
func Equalize(pb models.PixelBuffer, bins int) (models.PixelBuffer, models.LookupTable, error) {
	if err := pb.Validate(); err != nil {
		return models.PixelBuffer{}, nil, err
	}
	if !kernels.ValidBins(bins) {
		return models.PixelBuffer{}, nil, fmt.Errorf("invalid bin count %d", bins)
	}

	colour := pb.Colour()
	convert := colour && pb.Space == models.RGB
	pix := make([]uint8, len(pb.Pix))
	copy(pix, pb.Pix)
	if convert {
		for i := 0; i < len(pix); i += 3 {
			pix[i], pix[i+1], pix[i+2] = color.RGBToYCbCr(pix[i], pix[i+1], pix[i+2])
		}
	}

	hist := make(models.Histogram, bins)
	for _, v := range pix {
		hist[kernels.BinIndex(v, bins)]++
	}

	scale := 255.0 / float64(len(pix))
	if colour {
		scale *= 3
	}
	lut := make(models.LookupTable, bins)
	var acc uint32
	for i, c := range hist {
		acc += c
		lut[i] = kernels.ScaleCount(acc, scale)
	}

	for i, v := range pix {
		if colour && i%3 != 0 {
			continue
		}
		pix[i] = lut[kernels.BinIndex(v, bins)]
	}
	if convert {
		for i := 0; i < len(pix); i += 3 {
			pix[i], pix[i+1], pix[i+2] = color.YCbCrToRGB(pix[i], pix[i+1], pix[i+2])
		}
	}

	out := pb
	out.Pix = pix
	return out, lut, nil
}

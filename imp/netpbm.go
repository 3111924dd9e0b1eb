package imp

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/spakin/netpbm"
)

// maxPixels bounds the size of a decoded image.
const maxPixels = 1 << 28

func isNetpbm(data []byte) bool {
	return len(data) >= 2 && data[0] == 'P' && data[1] >= '1' && data[1] <= '7'
}

// checkSize rejects images whose header declares an unreasonable size,
// before any pixel storage is allocated. A netpbm raster holds at least one
// bit per pixel, so its header must also agree with the data present.
func checkSize(data []byte) error {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return err
	}
	w, h := cfg.Width, cfg.Height
	switch {
	case w <= 0 || h <= 0:
		return fmt.Errorf("%s: invalid size %dx%d", format, w, h)
	case h > maxPixels/w:
		return fmt.Errorf("%s: %dx%d is larger than %d pixels", format, w, h, maxPixels)
	case isNetpbm(data) && w*h > 8*len(data):
		return fmt.Errorf("%s: header declares %dx%d pixels, file only holds %d bytes", format, w, h, len(data))
	}
	return nil
}

// EncodePNM writes img as a binary PPM when colour is set, PGM otherwise.
// Alpha is dropped.
func EncodePNM(w io.Writer, img image.Image, colour bool) error {
	opts := &netpbm.EncodeOptions{Format: netpbm.PGM, MaxValue: 255}
	var src image.Image = ToGray(img)
	if colour {
		opaque, err := ToImage(ToPixelBuffer(img, true))
		if err != nil {
			return err
		}
		opts.Format, src = netpbm.PPM, opaque
	}
	return netpbm.Encode(w, src, opts)
}

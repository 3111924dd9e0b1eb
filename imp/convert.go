package imp

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ArnaudCalmettes/equalizer/models"
)

// ToGray converts any image in a grayscale picture of the same size
func ToGray(src image.Image) *image.Gray {
	if dst, ok := src.(*image.Gray); ok {
		return dst
	}

	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	model := dst.ColorModel()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x, y, model.Convert(src.At(x, y)))
		}
	}
	return dst
}

// ToPixelBuffer flattens img into tightly packed samples: one per pixel for
// grayscale, interleaved RGB triples for colour. Alpha is dropped.
func ToPixelBuffer(img image.Image, colour bool) models.PixelBuffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pb := models.PixelBuffer{Width: w, Height: h, Space: models.RGB}

	if !colour {
		gray := ToGray(img)
		pb.Channels = 1
		pb.Pix = make([]uint8, 0, w*h)
		for y := 0; y < h; y++ {
			off := gray.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			pb.Pix = append(pb.Pix, gray.Pix[off:off+w]...)
		}
		return pb
	}

	nrgba := imaging.Clone(img)
	pb.Channels = 3
	pb.Pix = make([]uint8, 0, 3*w*h)
	for i := 0; i < len(nrgba.Pix); i += 4 {
		pb.Pix = append(pb.Pix, nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2])
	}
	return pb
}

// ToImage turns a pixel buffer back into an image: *image.Gray for one
// channel, *image.NRGBA for three. YCbCr buffers are converted to RGB.
func ToImage(pb models.PixelBuffer) (image.Image, error) {
	if err := pb.Validate(); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, pb.Width, pb.Height)

	if !pb.Colour() {
		gray := image.NewGray(rect)
		copy(gray.Pix, pb.Pix)
		return gray, nil
	}

	dst := image.NewNRGBA(rect)
	for i, j := 0, 0; i < len(pb.Pix); i, j = i+3, j+4 {
		r, g, b := pb.Pix[i], pb.Pix[i+1], pb.Pix[i+2]
		if pb.Space == models.YCbCr {
			r, g, b = color.YCbCrToRGB(r, g, b)
		}
		dst.Pix[j], dst.Pix[j+1], dst.Pix[j+2], dst.Pix[j+3] = r, g, b, 0xff
	}
	return dst, nil
}

package models

import (
	"errors"
	"fmt"
)

// ColourSpace labels how the samples of a PixelBuffer are encoded.
type ColourSpace int

const (
	RGB ColourSpace = iota
	YCbCr
)

func (s ColourSpace) String() string {
	switch s {
	case RGB:
		return "RGB"
	case YCbCr:
		return "YCbCr"
	}
	return fmt.Sprintf("ColourSpace(%d)", int(s))
}

// A PixelBuffer holds 8-bit samples, either one grey channel or three
// interleaved colour channels per pixel. It is never modified once loaded.
type PixelBuffer struct {
	Width    int
	Height   int
	Channels int
	Space    ColourSpace
	Pix      []uint8
}

// NewPixelBuffer wraps pix and checks it against the declared shape.
func NewPixelBuffer(width, height, channels int, space ColourSpace, pix []uint8) (PixelBuffer, error) {
	pb := PixelBuffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Space:    space,
		Pix:      pix,
	}
	return pb, pb.Validate()
}

func (p PixelBuffer) String() string {
	return fmt.Sprintf("PixelBuffer{%dx%dx%d, %v}", p.Width, p.Height, p.Channels, p.Space)
}

// Validate reports a buffer whose length doesn't match its shape.
func (p PixelBuffer) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", p.Width, p.Height)
	}
	if p.Channels != 1 && p.Channels != 3 {
		return fmt.Errorf("unsupported channel count %d", p.Channels)
	}
	if p.Space != RGB && p.Space != YCbCr {
		return fmt.Errorf("unknown colour space %v", p.Space)
	}
	if len(p.Pix) == 0 {
		return errors.New("empty pixel data")
	}
	// Divide instead of multiplying the shape, which can overflow.
	n := len(p.Pix)
	if n%p.Channels != 0 || (n/p.Channels)%p.Height != 0 || n/p.Channels/p.Height != p.Width {
		return fmt.Errorf("pixel data has %d samples, shape is %dx%dx%d",
			n, p.Width, p.Height, p.Channels)
	}
	return nil
}

// Colour is true for three-channel buffers.
func (p PixelBuffer) Colour() bool {
	return p.Channels == 3
}

// Pixels returns width*height.
func (p PixelBuffer) Pixels() int {
	return p.Width * p.Height
}

// Samples returns the number of 8-bit samples, all channels included.
func (p PixelBuffer) Samples() int {
	return len(p.Pix)
}

// An EqualizedImage is the final output of the pipeline. It has the shape and
// colour space of the buffer it was computed from.
type EqualizedImage struct {
	PixelBuffer
}

package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPixelBufferValidate(t *testing.T) {
	cases := []struct {
		name string
		pb   PixelBuffer
		ok   bool
	}{
		{"grey", PixelBuffer{Width: 2, Height: 3, Channels: 1, Pix: make([]uint8, 6)}, true},
		{"colour", PixelBuffer{Width: 2, Height: 3, Channels: 3, Space: YCbCr, Pix: make([]uint8, 18)}, true},
		{"short", PixelBuffer{Width: 2, Height: 3, Channels: 1, Pix: make([]uint8, 5)}, false},
		{"long", PixelBuffer{Width: 2, Height: 3, Channels: 3, Pix: make([]uint8, 19)}, false},
		{"transposed", PixelBuffer{Width: 4, Height: 1, Channels: 3, Pix: make([]uint8, 6)}, false},
		{"empty", PixelBuffer{Width: 1, Height: 1, Channels: 1}, false},
		{"zero width", PixelBuffer{Height: 1, Channels: 1, Pix: make([]uint8, 1)}, false},
		{"two channels", PixelBuffer{Width: 1, Height: 1, Channels: 2, Pix: make([]uint8, 2)}, false},
		{"unknown space", PixelBuffer{Width: 1, Height: 1, Channels: 1, Space: ColourSpace(5), Pix: make([]uint8, 1)}, false},
		// Width*Height overflows to 4 on 64-bit ints.
		{"overflow", PixelBuffer{Width: 1<<62 + 1, Height: 4, Channels: 1, Pix: make([]uint8, 4)}, false},
		{"overflow colour", PixelBuffer{Width: 1 << 61, Height: 8, Channels: 3, Pix: make([]uint8, 3)}, false},
	}
	for _, c := range cases {
		err := c.pb.Validate()
		if c.ok {
			require.NoError(t, err, c.name)
		} else {
			require.Error(t, err, c.name)
		}
	}
}

func TestNewPixelBuffer(t *testing.T) {
	pb, err := NewPixelBuffer(2, 2, 3, RGB, make([]uint8, 12))
	require.NoError(t, err)
	require.True(t, pb.Colour())
	require.Equal(t, 4, pb.Pixels())
	require.Equal(t, 12, pb.Samples())
	require.Equal(t, "PixelBuffer{2x2x3, RGB}", pb.String())

	_, err = NewPixelBuffer(2, 2, 1, RGB, make([]uint8, 3))
	require.Error(t, err)
}

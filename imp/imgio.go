package imp

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ReadFile reads an image from a file.
func ReadFile(filename string) (image.Image, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ReadBytes(data)
}

// ReadBytes reads an image from raw bytes. Netpbm formats are registered by
// github.com/spakin/netpbm, everything else is decoded by imaging.
func ReadBytes(data []byte) (image.Image, error) {
	if err := checkSize(data); err != nil {
		return nil, err
	}
	return imaging.Decode(bytes.NewReader(data))
}

// Read reads an image from a io.Reader.
func Read(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ReadBytes(data)
}

// Save creates a file and writes an image to it. Image format is decided based
// upon its extension: "pgm" and "ppm" are written as binary netpbm, anything
// else goes through imaging.
func Save(filename string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pgm", ".ppm":
		f, err := os.Create(filename)
		if err != nil {
			return err
		}
		if err := EncodePNM(f, img, ext == ".ppm"); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	if err := imaging.Save(img, filename, imaging.JPEGQuality(100)); err != nil {
		return fmt.Errorf("save %v: %w", filename, err)
	}
	return nil
}

// IsColourFile tells from its extension whether a file holds a colour image.
// Only PGM files are assumed to be grayscale.
func IsColourFile(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) != ".pgm"
}

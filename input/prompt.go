// Package input asks the user how an image should be equalized.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ArnaudCalmettes/equalizer/equalize"
	"github.com/ArnaudCalmettes/equalizer/imp"
	"github.com/ArnaudCalmettes/equalizer/kernels"
)

// ErrNoInput is returned when input ends before a valid answer was given.
var ErrNoInput = errors.New("no more input")

// Bundled test images, in menu order.
var images = []struct {
	label  string
	file   string
	colour bool
}{
	{"Colour", "test.ppm", true},
	{"Greyscale", "test.pgm", false},
	{"Large Colour", "test_large.ppm", true},
	{"Large Greyscale", "test_large.pgm", false},
}

var readable = map[string]bool{
	".ppm": true, ".pgm": true, ".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// Selection is what the user picked.
type Selection struct {
	Image  string
	Colour bool
	Config equalize.Config
}

// Prompt reads answers as whitespace-separated words and re-asks until each
// one is valid.
type Prompt struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompt asks questions on out and reads answers from in.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)
	return &Prompt{in: sc, out: out}
}

func (p *Prompt) word() (string, error) {
	if p.in.Scan() {
		return p.in.Text(), nil
	}
	if err := p.in.Err(); err != nil {
		return "", err
	}
	return "", ErrNoInput
}

// choose prints a numbered menu and returns the 1-based choice.
func (p *Prompt) choose(question string, options []string) (int, error) {
	for {
		fmt.Fprintln(p.out, question)
		for i, o := range options {
			fmt.Fprintf(p.out, "%d. %s\n", i+1, o)
		}
		w, err := p.word()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(w)
		if err != nil {
			fmt.Fprintln(p.out, "Please input a valid integer")
			continue
		}
		if n < 1 || n > len(options) {
			fmt.Fprintln(p.out, "Invalid Integer")
			continue
		}
		return n, nil
	}
}

// ChooseImage returns the image path and whether it holds colour samples.
func (p *Prompt) ChooseImage() (string, bool, error) {
	options := make([]string, 0, len(images)+1)
	for _, img := range images {
		options = append(options, img.label)
	}
	options = append(options, "Custom Image")

	for {
		n, err := p.choose("Which image would you like to use?", options)
		if err != nil {
			return "", false, err
		}
		if n <= len(images) {
			return images[n-1].file, images[n-1].colour, nil
		}

		fmt.Fprintln(p.out, "Input file location of image")
		path, err := p.word()
		if err != nil {
			return "", false, err
		}
		ext := strings.ToLower(filepath.Ext(path))
		switch {
		case ext == "":
			fmt.Fprintln(p.out, "Could not determine file format from the extension.")
		case !readable[ext]:
			fmt.Fprintf(p.out, "Unsupported file format %s\n", ext)
		default:
			return path, imp.IsColourFile(path), nil
		}
	}
}

// ChooseBins offers every power of two from kernels.MinBins to
// kernels.MaxBins.
func (p *Prompt) ChooseBins() (int, error) {
	var options []string
	for b := kernels.MinBins; b <= kernels.MaxBins; b *= 2 {
		options = append(options, strconv.Itoa(b))
	}
	n, err := p.choose("How many bins?", options)
	if err != nil {
		return 0, err
	}
	return kernels.MinBins << (n - 1), nil
}

// ChooseMode asks for global or local histogram accumulation.
func (p *Prompt) ChooseMode() (equalize.AccumulationMode, error) {
	n, err := p.choose("Global or local memory?", []string{"Global", "Local"})
	if err != nil {
		return 0, err
	}
	if n == 1 {
		return equalize.Global, nil
	}
	return equalize.Local, nil
}

// ChooseScan asks for the Blelloch or Hillis-Steele prefix sum.
func (p *Prompt) ChooseScan() (equalize.ScanAlgorithm, error) {
	n, err := p.choose("Would you like to use Blelloch or Hillis-Steele cumulation?", []string{"Blelloch", "Hillis-Steele"})
	if err != nil {
		return 0, err
	}
	if n == 1 {
		return equalize.Blelloch, nil
	}
	return equalize.HillisSteele, nil
}

// Configure runs every question in turn.
func (p *Prompt) Configure() (Selection, error) {
	var (
		sel Selection
		err error
	)
	if sel.Image, sel.Colour, err = p.ChooseImage(); err != nil {
		return sel, err
	}
	bins, err := p.ChooseBins()
	if err != nil {
		return sel, err
	}
	mode, err := p.ChooseMode()
	if err != nil {
		return sel, err
	}
	scan, err := p.ChooseScan()
	if err != nil {
		return sel, err
	}
	sel.Config, err = equalize.NewConfig(bins, mode, scan)
	return sel, err
}

package models

import (
	"fmt"
	"strings"
)

// Histogram counts samples per intensity bin.
type Histogram []uint32

// Sum returns the total number of counted samples.
func (h Histogram) Sum() uint64 {
	var s uint64
	for _, c := range h {
		s += uint64(c)
	}
	return s
}

func (h Histogram) String() string {
	return formatWords(h)
}

// CumulativeHistogram is the inclusive prefix sum of a Histogram.
type CumulativeHistogram []uint32

// Last returns the final element, which equals the sample count.
func (c CumulativeHistogram) Last() uint32 {
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1]
}

// Monotonic reports whether the distribution never decreases.
func (c CumulativeHistogram) Monotonic() bool {
	for i := 1; i < len(c); i++ {
		if c[i] < c[i-1] {
			return false
		}
	}
	return true
}

func (c CumulativeHistogram) String() string {
	return formatWords(c)
}

// LookupTable maps a histogram bin to its output intensity.
type LookupTable []uint8

// Monotonic reports whether the table never decreases.
func (l LookupTable) Monotonic() bool {
	for i := 1; i < len(l); i++ {
		if l[i] < l[i-1] {
			return false
		}
	}
	return true
}

func (l LookupTable) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, v := range l {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, v)
	}
	sb.WriteByte('}')
	return sb.String()
}

func formatWords(w []uint32) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, v := range w {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, v)
	}
	sb.WriteByte('}')
	return sb.String()
}

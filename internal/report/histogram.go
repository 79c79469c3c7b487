package report

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bin is one histogram bucket covering [Lo, Hi).
type Bin struct {
	Lo       float64 `json:"lo"`
	Hi       float64 `json:"hi"`
	Count    int     `json:"count"`
	Fraction float64 `json:"fraction"`
}

// Contains reports whether x falls in the bin.
func (b Bin) Contains(x float64) bool { return b.Lo <= x && x < b.Hi }

// Histogram buckets data into the given number of equal-width bins spanning
// its range. The largest value lands in the last bin.
func Histogram(data []float64, bins int) ([]Bin, error) {
	if bins < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBins, bins)
	}
	if len(data) == 0 {
		return nil, ErrNoData
	}

	sorted := slices.Clone(data)
	slices.Sort(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	out := make([]Bin, bins)
	total := float64(len(sorted))
	for i, c := range counts {
		out[i] = Bin{
			Lo:       dividers[i],
			Hi:       dividers[i+1],
			Count:    int(c),
			Fraction: c / total,
		}
	}
	return out, nil
}

// WriteHistogram draws bins as horizontal bars scaled to width characters
// and marks the bin holding zero.
func WriteHistogram(w io.Writer, title string, bins []Bin, width int) error {
	if width < 1 {
		width = 1
	}
	peak := 0
	for _, b := range bins {
		peak = max(peak, b.Count)
	}

	var sb strings.Builder
	if title != "" {
		sb.WriteString(title)
		sb.WriteByte('\n')
	}
	for _, b := range bins {
		bar := 0
		if peak > 0 {
			bar = int(math.Round(float64(b.Count) / float64(peak) * float64(width)))
		}
		fmt.Fprintf(&sb, "%9.2f .. %9.2f |%-*s| %d", b.Lo, b.Hi, width, strings.Repeat("#", bar), b.Count)
		if b.Contains(0) {
			sb.WriteString("  <- 0")
		}
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

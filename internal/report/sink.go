package report

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSVSink writes one "season,diff" row per simulated season.
type CSVSink struct {
	w io.Writer
}

// NewCSVSink returns a sink writing to w.
func NewCSVSink(w io.Writer) *CSVSink { return &CSVSink{w: w} }

// Distribution implements DistributionSink.
func (s *CSVSink) Distribution(target string, _ float64, diffs []float64) error {
	cw := csv.NewWriter(s.w)
	if err := cw.Write([]string{"season", target + "_minus_leader"}); err != nil {
		return err
	}
	for i, d := range diffs {
		if err := cw.Write([]string{strconv.Itoa(i), strconv.FormatFloat(d, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

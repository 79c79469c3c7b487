package main

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/champsim/internal/adapters/repository"
	"github.com/okian/champsim/internal/report"
)

func writeReport(w io.Writer, target string, run repository.Run, bins int) error {
	res := run.Result
	if err := report.WriteTitleOdds(w, res.Summary.TitleOdds); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := report.WriteSummary(w, res.Summary); err != nil {
		return err
	}
	if bins <= 0 {
		return nil
	}

	hist, err := report.Histogram(res.Differentials, bins)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	title := fmt.Sprintf("Distribution of (%s final pts - leader final pts)", target)
	return report.WriteHistogram(w, title, hist, histogramWidth)
}

// dumpDifferentials hands the per-season gaps to a CSV sink for external
// plotting.
func dumpDifferentials(path string, run repository.Run) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	var sink report.DistributionSink = report.NewCSVSink(f)
	s := run.Result.Summary
	return sink.Distribution(s.Target, s.WinProbability, run.Result.Differentials)
}

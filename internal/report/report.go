// Package report renders simulation results as text: the headline summary,
// a title-odds table and a histogram of the target's final gap to the
// season leader.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/okian/champsim/internal/domain/montecarlo"
)

// DefaultBins is the histogram resolution used when none is requested.
const DefaultBins = 60

// DistributionSink receives the per-season target-minus-leader gaps, e.g.
// for plotting outside this process.
type DistributionSink interface {
	Distribution(target string, winProbability float64, diffs []float64) error
}

// WriteSummary prints the two headline lines of a run.
func WriteSummary(w io.Writer, s montecarlo.Summary) error {
	_, err := fmt.Fprintf(w,
		"Estimated P(%s champion): %.3f%% (N=%d)\n"+
			"Avg %s final pts: %.2f, Avg season leader pts: %.2f, tie fraction: %.6f\n",
		s.Target, s.WinProbability*100, s.Seasons,
		s.Target, s.MeanTarget, s.MeanLeader, s.TieFraction,
	)
	return err
}

// WriteTitleOdds prints every competitor's title probability and mean final
// points in the order given.
func WriteTitleOdds(w io.Writer, odds []montecarlo.Odds) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintln(tw, "Competitor\tTitle\tAvg pts")
	for _, o := range odds {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\n", o.Competitor, pct(o.Probability), o.MeanPoints)
	}
	return tw.Flush()
}

func pct(x float64) string { return fmt.Sprintf("%.3f%%", x*100) }

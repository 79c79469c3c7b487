package report_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/okian/champsim/internal/domain/montecarlo"
	"github.com/okian/champsim/internal/report"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWriteSummary(t *testing.T) {
	Convey("Given a finished summary", t, func() {
		s := montecarlo.Summary{
			Target:         "Verstappen",
			Seasons:        30000,
			WinProbability: 0.123456,
			MeanTarget:     371.234,
			MeanLeader:     398.5,
			TieFraction:    0.0012,
		}

		Convey("When writing it", func() {
			var buf bytes.Buffer
			err := report.WriteSummary(&buf, s)

			Convey("Then both headline lines should be printed", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldEqual,
					"Estimated P(Verstappen champion): 12.346% (N=30000)\n"+
						"Avg Verstappen final pts: 371.23, Avg season leader pts: 398.50, tie fraction: 0.001200\n")
			})
		})
	})
}

func TestWriteTitleOdds(t *testing.T) {
	Convey("Given title odds", t, func() {
		odds := []montecarlo.Odds{
			{Competitor: "Piastri", Probability: 0.5, MeanPoints: 400},
			{Competitor: "Norris", Probability: 0.25, MeanPoints: 390.126},
		}

		Convey("When writing the table", func() {
			var buf bytes.Buffer
			So(report.WriteTitleOdds(&buf, odds), ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

			Convey("Then there should be a header and a row per competitor in order", func() {
				So(lines, ShouldHaveLength, 3)
				So(lines[0], ShouldStartWith, "Competitor")
				So(lines[1], ShouldStartWith, "Piastri")
				So(lines[1], ShouldContainSubstring, "50.000%")
				So(lines[2], ShouldContainSubstring, "390.13")
			})
		})
	})
}

func TestHistogram(t *testing.T) {
	Convey("Given gaps to the leader", t, func() {
		diffs := []float64{-10, -8, -5, -5, -3, 0, 0, 0}

		Convey("When binning into five buckets", func() {
			bins, err := report.Histogram(diffs, 5)

			Convey("Then every value should be counted once", func() {
				So(err, ShouldBeNil)
				So(bins, ShouldHaveLength, 5)
				total, frac := 0, 0.0
				for _, b := range bins {
					total += b.Count
					frac += b.Fraction
				}
				So(total, ShouldEqual, len(diffs))
				So(frac, ShouldAlmostEqual, 1.0, 1e-12)
			})

			Convey("And the range should span the data with zero in the last bin", func() {
				So(bins[0].Lo, ShouldEqual, -10.0)
				So(bins[0].Count, ShouldEqual, 1)
				last := bins[len(bins)-1]
				So(last.Contains(0), ShouldBeTrue)
				So(last.Count, ShouldEqual, 3)
			})

			Convey("And the input should be left unsorted", func() {
				So(diffs[5], ShouldEqual, 0.0)
				So(diffs[0], ShouldEqual, -10.0)
			})
		})

		Convey("When every value is the same", func() {
			bins, err := report.Histogram([]float64{-5, -5, -5}, 4)

			Convey("Then all of them should still be counted", func() {
				So(err, ShouldBeNil)
				total := 0
				for _, b := range bins {
					total += b.Count
				}
				So(total, ShouldEqual, 3)
			})
		})

		Convey("When the input is unusable", func() {
			_, errBins := report.Histogram(diffs, 0)
			_, errData := report.Histogram(nil, 10)

			Convey("Then it should be rejected", func() {
				So(errors.Is(errBins, report.ErrInvalidBins), ShouldBeTrue)
				So(errors.Is(errData, report.ErrNoData), ShouldBeTrue)
			})
		})
	})
}

func TestWriteHistogram(t *testing.T) {
	Convey("Given histogram bins", t, func() {
		bins := []report.Bin{
			{Lo: -10, Hi: -5, Count: 4},
			{Lo: -5, Hi: 0, Count: 2},
			{Lo: 0, Hi: 5, Count: 1},
		}

		Convey("When rendering them", func() {
			var buf bytes.Buffer
			So(report.WriteHistogram(&buf, "gap", bins, 8), ShouldBeNil)
			lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

			Convey("Then bars should scale to the tallest bin", func() {
				So(lines, ShouldHaveLength, 4)
				So(lines[0], ShouldEqual, "gap")
				So(lines[1], ShouldContainSubstring, "|########|")
				So(lines[2], ShouldContainSubstring, "|####    |")
			})

			Convey("And only the zero bin should be marked", func() {
				So(lines[1], ShouldNotContainSubstring, "<- 0")
				So(lines[2], ShouldNotContainSubstring, "<- 0")
				So(lines[3], ShouldEndWith, "<- 0")
			})
		})
	})
}

func TestCSVSink(t *testing.T) {
	Convey("Given a CSV sink", t, func() {
		var buf bytes.Buffer
		var sink report.DistributionSink = report.NewCSVSink(&buf)

		Convey("When a distribution is written", func() {
			err := sink.Distribution("Norris", 0.4, []float64{-3, 0})

			Convey("Then it should have a header and one row per season", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldEqual, "season,Norris_minus_leader\n0,-3\n1,0\n")
			})
		})
	})
}

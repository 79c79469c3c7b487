// Package montecarlo repeats simulated seasons and aggregates the target
// competitor's title chances.
package montecarlo

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Record is one simulated season seen from the target competitor.
type Record struct {
	TargetPoints int
	LeaderPoints int
	Credit       float64 // 1, 1/m when tied among m leaders, else 0
	Tied         bool    // target shared the lead
}

// Odds is one competitor's share of titles across all seasons.
type Odds struct {
	Index       int
	Competitor  string
	Credit      float64
	Probability float64
	MeanPoints  float64
}

// Summary holds the finalised statistics of a run.
type Summary struct {
	Target         string
	Seasons        int
	Seed           uint64
	WinCredit      float64
	WinProbability float64
	MeanTarget     float64
	MeanLeader     float64
	Ties           int
	TieFraction    float64
	TitleOdds      []Odds // ordered by probability, then index
}

// Tally accumulates season outcomes. Seasons must be added in a fixed order
// for summaries to be bit-identical between runs.
type Tally struct {
	names     []string
	target    int
	records   []Record
	credit    []float64
	pointSums []int64
	winCredit float64
	ties      int
}

// NewTally creates an empty result set for the given field and target index.
func NewTally(names []string, target int) *Tally {
	return &Tally{
		names:     slices.Clone(names),
		target:    target,
		credit:    make([]float64, len(names)),
		pointSums: make([]int64, len(names)),
	}
}

// Add records one season's final points. Every competitor sharing the
// maximum receives 1/m of the title.
func (t *Tally) Add(final []int) Record {
	leader := slices.Max(final)
	var leaders int
	for _, p := range final {
		if p == leader {
			leaders++
		}
	}
	share := 1 / float64(leaders)
	for i, p := range final {
		t.pointSums[i] += int64(p)
		if p == leader {
			t.credit[i] += share
		}
	}

	rec := Record{
		TargetPoints: final[t.target],
		LeaderPoints: leader,
	}
	if final[t.target] == leader {
		rec.Credit = share
		if leaders > 1 {
			rec.Tied = true
			t.ties++
		}
	}
	t.winCredit += rec.Credit
	t.records = append(t.records, rec)
	return rec
}

// Len returns the number of seasons recorded.
func (t *Tally) Len() int { return len(t.records) }

// Records returns a copy of the per-season records.
func (t *Tally) Records() []Record { return slices.Clone(t.records) }

// Differentials returns target points minus leader points per season, the
// distribution handed to reporting.
func (t *Tally) Differentials() []float64 {
	diffs := make([]float64, len(t.records))
	for i, r := range t.records {
		diffs[i] = float64(r.TargetPoints - r.LeaderPoints)
	}
	return diffs
}

// Summary finalises the statistics. An empty tally yields zero values.
func (t *Tally) Summary() Summary {
	n := len(t.records)
	s := Summary{
		Target:    t.names[t.target],
		Seasons:   n,
		WinCredit: t.winCredit,
		Ties:      t.ties,
	}
	if n == 0 {
		return s
	}

	targets := make([]float64, n)
	leaders := make([]float64, n)
	for i, r := range t.records {
		targets[i] = float64(r.TargetPoints)
		leaders[i] = float64(r.LeaderPoints)
	}
	s.MeanTarget = stat.Mean(targets, nil)
	s.MeanLeader = stat.Mean(leaders, nil)
	s.WinProbability = t.winCredit / float64(n)
	s.TieFraction = float64(t.ties) / float64(n)

	s.TitleOdds = make([]Odds, len(t.names))
	for i, name := range t.names {
		s.TitleOdds[i] = Odds{
			Index:       i,
			Competitor:  name,
			Credit:      t.credit[i],
			Probability: t.credit[i] / float64(n),
			MeanPoints:  float64(t.pointSums[i]) / float64(n),
		}
	}
	slices.SortStableFunc(s.TitleOdds, func(a, b Odds) int {
		switch {
		case a.Probability > b.Probability:
			return -1
		case a.Probability < b.Probability:
			return 1
		}
		return a.Index - b.Index
	})
	return s
}

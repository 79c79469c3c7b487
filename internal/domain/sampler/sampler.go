// Package sampler draws simulated finishing orders and race-ending failures.
//
// Every draw comes from an explicit random source so a season can be replayed
// from its seed and concurrent seasons never share a stream.
package sampler

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"
)

// Default race-to-race noise: Gamma with shape 1 and scale 0.25.
const (
	defaultNoiseShape = 1.0
	defaultNoiseScale = 0.25
)

// Stream returns the random stream for one simulated season. Streams for
// different season indices under the same seed are independent.
func Stream(seed uint64, season int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(season))) //nolint:gosec // simulation, not crypto
}

// Option applies a configuration option to the Sampler.
type Option func(*Sampler)

// WithNoise overrides the Gamma noise shape and scale.
func WithNoise(shape, scale float64) Option {
	return func(s *Sampler) {
		if shape > 0 && scale > 0 {
			s.noise.Alpha = shape
			s.noise.Beta = 1 / scale
		}
	}
}

// Sampler draws finishing orders and failures from a single stream.
type Sampler struct {
	src   rand.Source
	noise distuv.Gamma
}

// New creates a sampler drawing from src.
func New(src rand.Source, opts ...Option) *Sampler {
	s := &Sampler{
		src: src,
		noise: distuv.Gamma{
			Alpha: defaultNoiseShape,
			Beta:  1 / defaultNoiseScale, // distuv uses rate
			Src:   src,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Order returns a permutation of competitor indices, winner first. Each
// competitor's score is p[i] scaled by an independent Gamma draw; ties keep
// the lower index ahead.
func (s *Sampler) Order(p []float64) []int {
	scores := make([]float64, len(p))
	for i, w := range p {
		scores[i] = w * s.noise.Rand()
	}

	order := make([]int, len(p))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})
	return order
}

// NonFinish returns a copy of points where each competitor independently
// loses the event's points with probability pDNF.
func (s *Sampler) NonFinish(points []int, pDNF float64) []int {
	dnf := distuv.Bernoulli{P: pDNF, Src: s.src}
	out := slices.Clone(points)
	for i := range out {
		if dnf.Rand() == 1 {
			out[i] = 0
		}
	}
	return out
}

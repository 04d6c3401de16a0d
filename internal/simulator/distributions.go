package simulator

import (
	"math"
	"math/rand"
)

// Distribution represents a probability distribution for a team's final score
type Distribution interface {
	Sample(rng *rand.Rand) float64
	Mean() float64
	StdDev() float64
}

// NormalDistribution represents a normal (Gaussian) distribution
type NormalDistribution struct {
	mean   float64
	stdDev float64
}

func NewNormalDistribution(mean, stdDev float64) *NormalDistribution {
	return &NormalDistribution{
		mean:   mean,
		stdDev: stdDev,
	}
}

func (d *NormalDistribution) Sample(rng *rand.Rand) float64 {
	return rng.NormFloat64()*d.stdDev + d.mean
}

func (d *NormalDistribution) Mean() float64 {
	return d.mean
}

func (d *NormalDistribution) StdDev() float64 {
	return d.stdDev
}

// FlooredNormalDistribution is a normal distribution whose samples below the
// floor are raised to the floor. Unlike a truncated normal it never resamples,
// so probability mass below the floor piles up on it; Mean and StdDev report
// the underlying normal's parameters.
type FlooredNormalDistribution struct {
	*NormalDistribution
	floor float64
}

func NewFlooredNormalDistribution(mean, stdDev, floor float64) *FlooredNormalDistribution {
	return &FlooredNormalDistribution{
		NormalDistribution: NewNormalDistribution(mean, stdDev),
		floor:              floor,
	}
}

func (d *FlooredNormalDistribution) Sample(rng *rand.Rand) float64 {
	return math.Max(d.floor, d.NormalDistribution.Sample(rng))
}

// NewScoreDistribution is the score model used for every simulated game:
// Normal(expected, stdDev) with no negative scores
func NewScoreDistribution(expected, stdDev float64) Distribution {
	return NewFlooredNormalDistribution(expected, stdDev, 0)
}

package simulator

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/stitts-dev/edge-sim/internal/models"
)

// ClosedFormCoverProbability is P(home covers) when both scores are
// independent Normal(expected, sigma) draws without the zero floor:
// Φ((margin + spread) / (sigma·√2)). It is the reference the simulation
// converges to when neither side is likely to score below zero.
func ClosedFormCoverProbability(p models.MatchupProjection, line models.MarketLine, sigma float64) float64 {
	edge := p.ProjectedMargin - models.HouseLineToModelMargin(line.Spread)
	if sigma == 0 {
		if edge >= 0 {
			return 1
		}
		return 0
	}
	return distuv.UnitNormal.CDF(edge / (sigma * math.Sqrt2))
}

// ClosedFormOverProbability is P(total > line) under the same assumptions
func ClosedFormOverProbability(p models.MatchupProjection, line models.MarketLine, sigma float64) float64 {
	gap := p.ProjectedTotal - line.Total
	if sigma == 0 {
		if gap > 0 {
			return 1
		}
		return 0
	}
	return distuv.UnitNormal.CDF(gap / (sigma * math.Sqrt2))
}

package ranker

import (
	"fmt"
	"math"
	"sort"

	"github.com/stitts-dev/edge-sim/internal/models"
)

// DefaultMinConfidencePct is the lowest model probability a bet is suggested at
const DefaultMinConfidencePct = 55.0

// Mode selects the ordering of the ranked list
type Mode string

const (
	ByProbability Mode = "probability"
	ByEdge        Mode = "edge"
)

// ParseMode maps a configuration value to a Mode; empty means ByProbability
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ByProbability:
		return ByProbability, nil
	case ByEdge:
		return ByEdge, nil
	default:
		return "", fmt.Errorf("unknown rank mode %q (expected %q or %q)", s, ByProbability, ByEdge)
	}
}

// Options control which candidates survive and how they are ordered
type Options struct {
	MinConfidencePct    float64
	RequirePositiveEdge bool
	Mode                Mode
}

// DefaultOptions ranks by probability with the default 55% threshold
func DefaultOptions() Options {
	return Options{
		MinConfidencePct: DefaultMinConfidencePct,
		Mode:             ByProbability,
	}
}

// ImpliedProbabilities are sportsbook percentages per side; nil means the
// side has no posted price
type ImpliedProbabilities struct {
	Home  *float64
	Away  *float64
	Over  *float64
	Under *float64
}

const trapWarning = "line is far from the model: possible trap line or information the model lacks"

// Rank turns a simulation result into the ordered list of suggested bets.
//
// Up to four candidates are built (home and away spread, over and under).
// Candidates below opts.MinConfidencePct are dropped. When a side has an
// implied probability its edge is model minus implied, and
// opts.RequirePositiveEdge additionally drops priced candidates whose edge is
// not positive. Survivors are stably sorted by probability, or by edge with
// unpriced candidates last. The result is empty, never nil, when nothing
// qualifies.
func Rank(
	sim models.SimulationResult,
	implied *ImpliedProbabilities,
	line models.MarketLine,
	div models.DivergenceReport,
	opts Options,
) []models.EdgeRecommendation {
	if implied == nil {
		implied = &ImpliedProbabilities{}
	}

	homePct := sim.CoverProbabilityHome * 100
	overPct := sim.OverProbability * 100

	candidates := []struct {
		market  string
		line    float64
		pct     float64
		implied *float64
	}{
		{models.MarketSpreadHome, line.Spread, homePct, implied.Home},
		{models.MarketSpreadAway, models.OpposingSide(line.Spread), 100 - homePct, implied.Away},
		{models.MarketTotalOver, line.Total, overPct, implied.Over},
		{models.MarketTotalUnder, line.Total, 100 - overPct, implied.Under},
	}

	recs := make([]models.EdgeRecommendation, 0, len(candidates))
	for _, c := range candidates {
		if c.pct < opts.MinConfidencePct {
			continue
		}

		rec := models.EdgeRecommendation{
			Market:              c.market,
			Line:                c.line,
			ModelProbabilityPct: c.pct,
			Severity:            div.Severity,
		}
		if div.Severity == models.SeverityTrapAlert {
			rec.Warning = trapWarning
		}

		if c.implied != nil {
			edge := c.pct - *c.implied
			if opts.RequirePositiveEdge && edge <= 0 {
				continue
			}
			rec.ImpliedProbabilityPct = models.Float64Ptr(*c.implied)
			rec.EdgePct = models.Float64Ptr(edge)
		}

		recs = append(recs, rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if opts.Mode == ByEdge {
			return edgeKey(recs[i]) > edgeKey(recs[j])
		}
		return recs[i].ModelProbabilityPct > recs[j].ModelProbabilityPct
	})

	return recs
}

func edgeKey(r models.EdgeRecommendation) float64 {
	if r.EdgePct == nil {
		return math.Inf(-1)
	}
	return *r.EdgePct
}

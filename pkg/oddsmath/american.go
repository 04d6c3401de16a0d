package oddsmath

import (
	"fmt"
	"math"
)

// Model win probabilities are kept inside this band so a small-sample
// projection never reports a near-certain outcome
const (
	MinWinProbability = 0.01
	MaxWinProbability = 0.99
)

// ImpliedProbability converts American odds into the sportsbook's implied
// probability. The book margin is included, so the two sides of a market
// will usually sum to more than 1.
// -150 → 0.60
// +130 → 0.4348
// 0 means no line was posted and returns ok=false.
func ImpliedProbability(american int) (float64, bool) {
	switch {
	case american == 0:
		return 0, false
	case american > 0:
		return 100.0 / (float64(american) + 100.0), true
	default:
		odds := float64(-american)
		return odds / (odds + 100.0), true
	}
}

// ImpliedProbabilityPct is ImpliedProbability scaled to a percentage, or nil
// when no line was posted
func ImpliedProbabilityPct(american int) *float64 {
	p, ok := ImpliedProbability(american)
	if !ok {
		return nil
	}
	pct := p * 100.0
	return &pct
}

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american > 0 {
		return (float64(american) / 100.0) + 1.0, nil
	}

	return (100.0 / float64(-american)) + 1.0, nil
}

// WinProbabilityFromMargin maps a projected margin to a win probability with a
// logistic curve. steepness is a per-league calibration constant.
func WinProbabilityFromMargin(margin, steepness float64) float64 {
	p := 1.0 / (1.0 + math.Exp(-steepness*margin))
	return math.Max(MinWinProbability, math.Min(MaxWinProbability, p))
}

package oddsmath

import "fmt"

// RemoveVigMultiplicative removes vig from a two-way market by normalizing
// both implied probabilities by their sum.
//
// Example:
// Side A: -110 (52.38% implied) | Side B: -110 (52.38% implied)
// Overround: 104.76% (4.76% vig)
// Fair: 50% / 50%
func RemoveVigMultiplicative(prob1, prob2 float64) (fair1, fair2 float64, err error) {
	if prob1 <= 0 || prob1 >= 1 || prob2 <= 0 || prob2 >= 1 {
		return 0, 0, fmt.Errorf("probabilities must be between 0 and 1")
	}

	totalProb := prob1 + prob2
	if totalProb <= 1.0 {
		return 0, 0, fmt.Errorf("no vig detected: probabilities sum to <= 1.0")
	}

	return prob1 / totalProb, prob2 / totalProb, nil
}

// VigPercentage is the overround of a two-way market in percent
// (-110/-110 → 4.76). A market without vig returns 0.
func VigPercentage(prob1, prob2 float64) float64 {
	total := prob1 + prob2
	if total <= 1.0 {
		return 0
	}
	return (total - 1.0) * 100.0
}

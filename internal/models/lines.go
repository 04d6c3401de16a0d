package models

// The model expresses a matchup as a margin (home - away, positive when the
// home side is better). Sportsbooks quote the home spread with the opposite
// sign (negative when home is favored). These two functions are the only place
// the sign is flipped.

// ModelMarginToHouseLine converts a projected margin into sportsbook spread format
func ModelMarginToHouseLine(margin float64) float64 {
	return flip(margin)
}

// HouseLineToModelMargin converts a sportsbook home spread into a model margin
func HouseLineToModelMargin(spread float64) float64 {
	return flip(spread)
}

// OpposingSide returns the same handicap seen from the other team, so a home
// spread of -3 is an away spread of +3
func OpposingSide(v float64) float64 {
	return flip(v)
}

// flip negates v without producing a negative zero
func flip(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}

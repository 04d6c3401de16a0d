package projector

import (
	"github.com/stitts-dev/edge-sim/internal/league"
	"github.com/stitts-dev/edge-sim/internal/models"
)

// Project turns two team profiles into expected points for a single matchup.
//
// Each side scores OffenseWeight * its own scoring average plus DefenseWeight *
// the opponent's allowed average. The home side adds the league home advantage
// and both sides are then scaled by their form multiplier. A side with no data
// projects to zero and does not receive the home bonus; inputs are not
// validated here and negative results are left for the simulator to clamp.
func Project(home, away models.TeamProfile, c league.Constants) models.MatchupProjection {
	homePoints := expectedPoints(home, away, c)
	if homePoints != 0 {
		homePoints += c.HomeAdvantage
	}
	homePoints *= home.Form()

	awayPoints := expectedPoints(away, home, c) * away.Form()

	return models.NewMatchupProjection(homePoints, awayPoints)
}

func expectedPoints(team, opponent models.TeamProfile, c league.Constants) float64 {
	return c.OffenseWeight*team.Scored() + c.DefenseWeight*opponent.Allowed()
}

package projector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/edge-sim/internal/league"
	"github.com/stitts-dev/edge-sim/internal/models"
)

func nfl(t *testing.T) league.Constants {
	t.Helper()
	c, err := league.Get(league.NFL)
	require.NoError(t, err)
	return c
}

func TestProjectSeasonAverages(t *testing.T) {
	home := models.TeamProfile{PointsScoredPerGame: 24, PointsAllowedPerGame: 20}
	away := models.TeamProfile{PointsScoredPerGame: 21, PointsAllowedPerGame: 23}

	p := Project(home, away, nfl(t))

	// 0.55*24 + 0.35*23 + 1.5 and 0.55*21 + 0.35*20
	assert.InDelta(t, 22.75, p.HomeExpectedPoints, 1e-9)
	assert.InDelta(t, 18.55, p.AwayExpectedPoints, 1e-9)
	assert.InDelta(t, 41.30, p.ProjectedTotal, 1e-9)
	assert.InDelta(t, 4.20, p.ProjectedMargin, 1e-9)
	assert.InDelta(t, -4.20, p.HouseLine(), 1e-9)
}

func TestProjectAllZero(t *testing.T) {
	p := Project(models.TeamProfile{}, models.TeamProfile{}, nfl(t))
	assert.Equal(t, models.MatchupProjection{}, p)
}

func TestProjectFormAndVenueSplit(t *testing.T) {
	c := nfl(t)
	home := models.TeamProfile{PointsScoredPerGame: 24, PointsAllowedPerGame: 20}
	away := models.TeamProfile{PointsScoredPerGame: 21, PointsAllowedPerGame: 23}

	injured := away
	injured.FormMultiplier = 0.9
	p := Project(home, injured, c)
	assert.InDelta(t, 18.55*0.9, p.AwayExpectedPoints, 1e-9)
	assert.InDelta(t, 22.75, p.HomeExpectedPoints, 1e-9)

	split := Project(home.WithVenueSplit(28, 17), away, c)
	assert.InDelta(t, 0.55*28+0.35*23+1.5, split.HomeExpectedPoints, 1e-9)
	assert.InDelta(t, 0.55*21+0.35*17, split.AwayExpectedPoints, 1e-9)
}

func TestProjectIsDeterministic(t *testing.T) {
	home := models.TeamProfile{PointsScoredPerGame: 112.4, PointsAllowedPerGame: 108.9}
	away := models.TeamProfile{PointsScoredPerGame: 115.1, PointsAllowedPerGame: 111.2}
	c, err := league.Get(league.NBA)
	require.NoError(t, err)

	assert.Equal(t, Project(home, away, c), Project(home, away, c))
}

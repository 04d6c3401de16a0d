package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	c, err := Get("nfl")
	require.NoError(t, err)
	assert.Equal(t, NFL, c.Name)
	assert.Equal(t, 1.5, c.HomeAdvantage)

	c, err = Get(" NBA ")
	require.NoError(t, err)
	assert.Equal(t, NBA, c.Name)

	_, err = Get("MLS")
	assert.ErrorIs(t, err, ErrUnknownLeague)
}

func TestNamesSorted(t *testing.T) {
	assert.Equal(t, []string{NBA, NFL, NHL}, Names())
	assert.Len(t, All(), 3)
}

func TestConstantsAreConsistent(t *testing.T) {
	for _, c := range All() {
		t.Run(c.Name, func(t *testing.T) {
			assert.NoError(t, c.Thresholds.Validate())
			assert.Greater(t, c.WinSteepness, 0.0)
			assert.Greater(t, c.StdDevFloor, 0.0)
		})
	}
}

func TestPointsStdDev(t *testing.T) {
	nfl, _ := Get(NFL)
	assert.Equal(t, 5.0, nfl.PointsStdDev(20), "floor applies to low totals")
	assert.InDelta(t, 7.5, nfl.PointsStdDev(50), 1e-9)

	nba, _ := Get(NBA)
	assert.InDelta(t, 26.4, nba.PointsStdDev(220), 1e-9)
	assert.Equal(t, 6.0, nba.PointsStdDev(0))
}

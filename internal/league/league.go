package league

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/stitts-dev/edge-sim/internal/models"
)

// Constants are the per-league tuning knobs used by the projector, the
// simulator, the odds converter and the divergence detector. They are
// empirical values, not fitted ones.
type Constants struct {
	Name string `json:"name"`

	// Projection weights; OffenseWeight + DefenseWeight stays near 0.9 and the
	// home advantage absorbs the remainder
	OffenseWeight float64 `json:"offense_weight"`
	DefenseWeight float64 `json:"defense_weight"`
	HomeAdvantage float64 `json:"home_advantage"`

	// Simulation noise: max(StdDevFloor, projectedTotal * StdDevFraction)
	StdDevFloor    float64 `json:"std_dev_floor"`
	StdDevFraction float64 `json:"std_dev_fraction"`

	// Logistic slope for margin -> win probability
	WinSteepness float64 `json:"win_steepness"`

	Thresholds models.DivergenceThresholds `json:"thresholds"`
}

const (
	NFL = "NFL"
	NBA = "NBA"
	NHL = "NHL"
)

// ErrUnknownLeague is returned for a league name with no registered constants
var ErrUnknownLeague = errors.New("unknown league")

var registry = map[string]Constants{
	NFL: {
		Name:           NFL,
		OffenseWeight:  0.55,
		DefenseWeight:  0.35,
		HomeAdvantage:  1.5,
		StdDevFloor:    5,
		StdDevFraction: 0.15,
		WinSteepness:   0.17,
		Thresholds: models.DivergenceThresholds{
			SpreadCaution: 3,
			SpreadTrap:    5,
			TotalCaution:  5,
			TotalTrap:     8,
		},
	},
	NBA: {
		Name:           NBA,
		OffenseWeight:  0.55,
		DefenseWeight:  0.35,
		HomeAdvantage:  1.5,
		StdDevFloor:    6,
		StdDevFraction: 0.12,
		WinSteepness:   0.13,
		Thresholds: models.DivergenceThresholds{
			SpreadCaution: 3,
			SpreadTrap:    5,
			TotalCaution:  6,
			TotalTrap:     10,
		},
	},
	NHL: {
		Name:           NHL,
		OffenseWeight:  0.55,
		DefenseWeight:  0.35,
		HomeAdvantage:  0.2,
		StdDevFloor:    1.2,
		StdDevFraction: 0.2,
		WinSteepness:   0.85,
		Thresholds: models.DivergenceThresholds{
			SpreadCaution: 0.75,
			SpreadTrap:    1.5,
			TotalCaution:  0.75,
			TotalTrap:     1.5,
		},
	},
}

// Get returns the constants for a league name, case-insensitive
func Get(name string) (Constants, error) {
	c, ok := registry[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return Constants{}, fmt.Errorf("%w %q (supported: %s)", ErrUnknownLeague, name, strings.Join(Names(), ", "))
	}
	return c, nil
}

// Names lists the supported leagues in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every league's constants, sorted by name
func All() []Constants {
	all := make([]Constants, 0, len(registry))
	for _, name := range Names() {
		all = append(all, registry[name])
	}
	return all
}

// PointsStdDev is the per-side scoring noise for a projected total
func (c Constants) PointsStdDev(projectedTotal float64) float64 {
	return math.Max(c.StdDevFloor, projectedTotal*c.StdDevFraction)
}

package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// DefaultFormMultiplier is used when a profile leaves FormMultiplier unset.
	DefaultFormMultiplier = 1.0
	MinFormMultiplier     = 0.5
	MaxFormMultiplier     = 1.1
)

var (
	ErrInvalidTeamProfile = errors.New("invalid team profile")
	ErrInvalidThresholds  = errors.New("invalid divergence thresholds")
)

// VenueSplit holds a team's averages at the venue it plays this matchup
type VenueSplit struct {
	Scored  float64 `json:"scored"`
	Allowed float64 `json:"allowed"`
}

// TeamProfile is the per-game scoring input for one side of a matchup
type TeamProfile struct {
	Name                 string      `json:"name,omitempty"`
	PointsScoredPerGame  float64     `json:"points_scored_per_game"`
	PointsAllowedPerGame float64     `json:"points_allowed_per_game"`
	VenueSplit           *VenueSplit `json:"venue_split,omitempty"`
	FormMultiplier       float64     `json:"form_multiplier,omitempty"` // injury/form adjustment, 0 means 1.0
}

// NewTeamProfile builds a validated profile from season averages
func NewTeamProfile(scored, allowed, form float64) (TeamProfile, error) {
	p := TeamProfile{
		PointsScoredPerGame:  scored,
		PointsAllowedPerGame: allowed,
		FormMultiplier:       form,
	}
	if err := p.Validate(); err != nil {
		return TeamProfile{}, err
	}
	return p, nil
}

// WithVenueSplit returns a copy of the profile carrying the venue split
func (p TeamProfile) WithVenueSplit(scored, allowed float64) TeamProfile {
	p.VenueSplit = &VenueSplit{Scored: scored, Allowed: allowed}
	return p
}

// Validate rejects negative averages and form multipliers outside the allowed band
func (p TeamProfile) Validate() error {
	values := map[string]float64{
		"points_scored_per_game":  p.PointsScoredPerGame,
		"points_allowed_per_game": p.PointsAllowedPerGame,
	}
	if p.VenueSplit != nil {
		values["venue_split.scored"] = p.VenueSplit.Scored
		values["venue_split.allowed"] = p.VenueSplit.Allowed
	}
	for field, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidTeamProfile, field, v)
		}
	}

	if p.FormMultiplier != 0 && (p.FormMultiplier < MinFormMultiplier || p.FormMultiplier > MaxFormMultiplier) {
		return fmt.Errorf("%w: form_multiplier %.2f outside [%.2f, %.2f]",
			ErrInvalidTeamProfile, p.FormMultiplier, MinFormMultiplier, MaxFormMultiplier)
	}
	return nil
}

// Scored returns the venue split average when present, otherwise the season average
func (p TeamProfile) Scored() float64 {
	if p.VenueSplit != nil {
		return p.VenueSplit.Scored
	}
	return p.PointsScoredPerGame
}

// Allowed returns the venue split average when present, otherwise the season average
func (p TeamProfile) Allowed() float64 {
	if p.VenueSplit != nil {
		return p.VenueSplit.Allowed
	}
	return p.PointsAllowedPerGame
}

// Form returns the effective form multiplier
func (p TeamProfile) Form() float64 {
	if p.FormMultiplier == 0 {
		return DefaultFormMultiplier
	}
	return p.FormMultiplier
}

// IsEmpty reports whether no scoring data was entered for the team
func (p TeamProfile) IsEmpty() bool {
	return p.Scored() == 0 && p.Allowed() == 0
}

// MatchupProjection is the expected score of a single matchup
type MatchupProjection struct {
	HomeExpectedPoints float64 `json:"home_expected_points"`
	AwayExpectedPoints float64 `json:"away_expected_points"`
	ProjectedTotal     float64 `json:"projected_total"`
	ProjectedMargin    float64 `json:"projected_margin"` // home - away
}

// NewMatchupProjection derives total and margin from the expected points of each side
func NewMatchupProjection(home, away float64) MatchupProjection {
	return MatchupProjection{
		HomeExpectedPoints: home,
		AwayExpectedPoints: away,
		ProjectedTotal:     home + away,
		ProjectedMargin:    home - away,
	}
}

// HouseLine is the projected margin expressed as a sportsbook spread for the home side
func (p MatchupProjection) HouseLine() float64 {
	return ModelMarginToHouseLine(p.ProjectedMargin)
}

// MarketLine is what the sportsbook posts for the matchup. Prices are American
// odds; 0 means the price was not posted.
type MarketLine struct {
	Spread          float64 `json:"spread"` // home side, negative when home is favored
	Total           float64 `json:"total"`
	MoneylineHome   int     `json:"moneyline_home,omitempty"`
	MoneylineAway   int     `json:"moneyline_away,omitempty"`
	SpreadPriceHome int     `json:"spread_price_home,omitempty"`
	SpreadPriceAway int     `json:"spread_price_away,omitempty"`
	OverPrice       int     `json:"over_price,omitempty"`
	UnderPrice      int     `json:"under_price,omitempty"`
}

// SimulationConfig controls one Monte Carlo run
type SimulationConfig struct {
	NumTrials    int     `json:"num_trials"`
	PointsStdDev float64 `json:"points_std_dev"`
	Seed         int64   `json:"seed,omitempty"` // 0 seeds from the clock
}

// SimulationResult holds the empirical probabilities of one run
type SimulationResult struct {
	NumTrials            int     `json:"num_trials"`
	PointsStdDev         float64 `json:"points_std_dev"`
	CoverProbabilityHome float64 `json:"cover_probability_home"`
	CoverProbabilityAway float64 `json:"cover_probability_away"`
	OverProbability      float64 `json:"over_probability"`
	UnderProbability     float64 `json:"under_probability"`

	MeanHomeScore float64 `json:"mean_home_score"`
	MeanAwayScore float64 `json:"mean_away_score"`
	MeanMargin    float64 `json:"mean_margin"`
	MarginStdDev  float64 `json:"margin_std_dev"`
	MeanTotal     float64 `json:"mean_total"`
	TotalStdDev   float64 `json:"total_std_dev"`

	AnalyticCoverProbability float64 `json:"analytic_cover_probability"`
	AnalyticOverProbability  float64 `json:"analytic_over_probability"`

	ExecutionTime time.Duration `json:"execution_time"`
}

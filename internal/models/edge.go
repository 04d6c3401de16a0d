package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// Severity classifies how far the market line sits from the model
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityCaution
	SeverityTrapAlert
)

func (s Severity) String() string {
	switch s {
	case SeverityNormal:
		return "normal"
	case SeverityCaution:
		return "caution"
	case SeverityTrapAlert:
		return "trap_alert"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "normal":
		*s = SeverityNormal
	case "caution":
		*s = SeverityCaution
	case "trap_alert":
		*s = SeverityTrapAlert
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}

// DivergenceThresholds are the per-league gap sizes, in points, that raise
// the severity of a line comparison
type DivergenceThresholds struct {
	SpreadCaution float64 `json:"spread_caution"`
	SpreadTrap    float64 `json:"spread_trap"`
	TotalCaution  float64 `json:"total_caution"`
	TotalTrap     float64 `json:"total_trap"`
}

// Validate requires 0 <= caution <= trap for both the spread and the total tier
func (t DivergenceThresholds) Validate() error {
	check := func(name string, caution, trap float64) error {
		if caution < 0 || math.IsNaN(caution) || math.IsNaN(trap) {
			return fmt.Errorf("%w: %s caution must be non-negative", ErrInvalidThresholds, name)
		}
		if trap < caution {
			return fmt.Errorf("%w: %s trap %.2f below caution %.2f", ErrInvalidThresholds, name, trap, caution)
		}
		return nil
	}
	if err := check("spread", t.SpreadCaution, t.SpreadTrap); err != nil {
		return err
	}
	return check("total", t.TotalCaution, t.TotalTrap)
}

// DivergenceReport compares the projection to the posted line
type DivergenceReport struct {
	ModelHouseLine float64  `json:"model_house_line"`
	SpreadDelta    float64  `json:"spread_delta"`
	TotalDelta     float64  `json:"total_delta"`
	Severity       Severity `json:"severity"`
	Flagged        []string `json:"flagged,omitempty"`
	HomePointEdge  float64  `json:"home_point_edge"`
	AwayPointEdge  float64  `json:"away_point_edge"`
}

const (
	MarketSpreadHome = "spread-home"
	MarketSpreadAway = "spread-away"
	MarketTotalOver  = "total-over"
	MarketTotalUnder = "total-under"
)

// EdgeRecommendation is one suggested bet
type EdgeRecommendation struct {
	Market                string   `json:"market"`
	Line                  float64  `json:"line"`
	ModelProbabilityPct   float64  `json:"model_probability_pct"`
	ImpliedProbabilityPct *float64 `json:"implied_probability_pct,omitempty"`
	EdgePct               *float64 `json:"edge_pct,omitempty"`
	Severity              Severity `json:"severity"`
	Warning               string   `json:"warning,omitempty"`
}

// MoneylineComparison puts the model's straight-up win probability next to
// the sportsbook's moneyline prices
type MoneylineComparison struct {
	ModelHomeWinPct float64  `json:"model_home_win_pct"`
	ModelAwayWinPct float64  `json:"model_away_win_pct"`
	ImpliedHomePct  *float64 `json:"implied_home_pct,omitempty"`
	ImpliedAwayPct  *float64 `json:"implied_away_pct,omitempty"`
	FairHomePct     *float64 `json:"fair_home_pct,omitempty"`
	FairAwayPct     *float64 `json:"fair_away_pct,omitempty"`
	VigPct          *float64 `json:"vig_pct,omitempty"`
	HomeEdgePct     *float64 `json:"home_edge_pct,omitempty"`
	AwayEdgePct     *float64 `json:"away_edge_pct,omitempty"`
}

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 {
	return &v
}

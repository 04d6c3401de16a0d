package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/edge-sim/internal/divergence"
	"github.com/stitts-dev/edge-sim/internal/league"
	"github.com/stitts-dev/edge-sim/internal/models"
	"github.com/stitts-dev/edge-sim/internal/projector"
	"github.com/stitts-dev/edge-sim/internal/ranker"
	"github.com/stitts-dev/edge-sim/internal/simulator"
	"github.com/stitts-dev/edge-sim/pkg/logger"
	"github.com/stitts-dev/edge-sim/pkg/oddsmath"
)

// ErrUnknownLeague is returned when a request names a league with no constants
var ErrUnknownLeague = league.ErrUnknownLeague

const (
	DefaultTrials = 10000
	MaxTrials     = 200000
)

// Recorder receives the outcome of every evaluation. *metrics.EvaluationMetrics
// satisfies it.
type Recorder interface {
	ObserveEvaluation(league string, div models.DivergenceReport, sim models.SimulationResult, recs []models.EdgeRecommendation, simDuration time.Duration)
	ObserveError(league, reason string)
}

// Options are the service-wide defaults a Request may override
type Options struct {
	DefaultLeague       string
	DefaultTrials       int
	MaxTrials           int
	MinConfidencePct    float64
	RequirePositiveEdge bool
	RankBy              ranker.Mode
}

// DefaultOptions returns NFL, 10,000 trials and the default ranking options
func DefaultOptions() Options {
	return Options{
		DefaultLeague:    league.NFL,
		DefaultTrials:    DefaultTrials,
		MaxTrials:        MaxTrials,
		MinConfidencePct: ranker.DefaultMinConfidencePct,
		RankBy:           ranker.ByProbability,
	}
}

// SimulationSettings are per-request simulation overrides; nil fields use
// the engine defaults
type SimulationSettings struct {
	NumTrials    *int     `json:"num_trials,omitempty"`
	PointsStdDev *float64 `json:"points_std_dev,omitempty"`
	Seed         int64    `json:"seed,omitempty"`
}

// Request is one matchup to evaluate
type Request struct {
	League              string                       `json:"league,omitempty"`
	Home                models.TeamProfile           `json:"home"`
	Away                models.TeamProfile           `json:"away"`
	Line                models.MarketLine            `json:"line"`
	Simulation          SimulationSettings           `json:"simulation"`
	Thresholds          *models.DivergenceThresholds `json:"thresholds,omitempty"`
	MinConfidencePct    *float64                     `json:"min_confidence_pct,omitempty"`
	RequirePositiveEdge *bool                        `json:"require_positive_edge,omitempty"`
	RankBy              string                       `json:"rank_by,omitempty"`
}

// Evaluation is the full output for one matchup
type Evaluation struct {
	ID              uuid.UUID                   `json:"id"`
	League          string                      `json:"league"`
	CreatedAt       time.Time                   `json:"created_at"`
	HasData         bool                        `json:"has_data"`
	Projection      models.MatchupProjection    `json:"projection"`
	Divergence      models.DivergenceReport     `json:"divergence"`
	Simulation      models.SimulationResult     `json:"simulation"`
	Moneyline       models.MoneylineComparison  `json:"moneyline"`
	Recommendations []models.EdgeRecommendation `json:"recommendations"`
}

// ProjectionReport is the projection and divergence without a simulation
type ProjectionReport struct {
	League     string                   `json:"league"`
	HasData    bool                     `json:"has_data"`
	Projection models.MatchupProjection `json:"projection"`
	Divergence models.DivergenceReport  `json:"divergence"`
	StdDev     float64                  `json:"points_std_dev"`
}

// Engine runs the projection, divergence, simulation and ranking pipeline
type Engine struct {
	simulator *simulator.Simulator
	opts      Options
	recorder  Recorder
	logger    *logrus.Logger
}

// NewEngine wires an engine. recorder may be nil.
func NewEngine(sim *simulator.Simulator, opts Options, recorder Recorder, log *logrus.Logger) *Engine {
	if opts.DefaultTrials <= 0 {
		opts.DefaultTrials = DefaultTrials
	}
	if opts.MaxTrials <= 0 {
		opts.MaxTrials = MaxTrials
	}
	if opts.DefaultLeague == "" {
		opts.DefaultLeague = league.NFL
	}
	if opts.RankBy == "" {
		opts.RankBy = ranker.ByProbability
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Engine{
		simulator: sim,
		opts:      opts,
		recorder:  recorder,
		logger:    log,
	}
}

// Project resolves the league, validates both teams and returns the
// projection compared against the line
func (e *Engine) Project(req Request) (*ProjectionReport, error) {
	c, thresholds, err := e.prepare(req)
	if err != nil {
		return nil, err
	}

	p := projector.Project(req.Home, req.Away, c)
	return &ProjectionReport{
		League:     c.Name,
		HasData:    !(req.Home.IsEmpty() && req.Away.IsEmpty()),
		Projection: p,
		Divergence: divergence.Compare(p, req.Line, thresholds),
		StdDev:     c.PointsStdDev(p.ProjectedTotal),
	}, nil
}

// Evaluate runs the whole pipeline for one matchup
func (e *Engine) Evaluate(ctx context.Context, req Request) (*Evaluation, error) {
	c, thresholds, err := e.prepare(req)
	if err != nil {
		e.observeError(c.Name, err)
		return nil, err
	}

	rankOpts, err := e.rankOptions(req)
	if err != nil {
		e.observeError(c.Name, err)
		return nil, err
	}

	p := projector.Project(req.Home, req.Away, c)
	div := divergence.Compare(p, req.Line, thresholds)

	cfg, err := e.simulationConfig(req.Simulation, c, p)
	if err != nil {
		e.observeError(c.Name, err)
		return nil, err
	}

	sim, err := e.simulator.Simulate(ctx, p, req.Line, cfg)
	if err != nil {
		e.observeError(c.Name, err)
		return nil, fmt.Errorf("failed to simulate %s matchup: %w", c.Name, err)
	}

	implied := &ranker.ImpliedProbabilities{
		Home:  oddsmath.ImpliedProbabilityPct(req.Line.SpreadPriceHome),
		Away:  oddsmath.ImpliedProbabilityPct(req.Line.SpreadPriceAway),
		Over:  oddsmath.ImpliedProbabilityPct(req.Line.OverPrice),
		Under: oddsmath.ImpliedProbabilityPct(req.Line.UnderPrice),
	}
	hasData := !(req.Home.IsEmpty() && req.Away.IsEmpty())

	// an empty form simulates 0-0 ties, which must not surface as bets
	recs := []models.EdgeRecommendation{}
	if hasData {
		recs = ranker.Rank(*sim, implied, req.Line, div, rankOpts)
	}

	eval := &Evaluation{
		ID:              uuid.New(),
		League:          c.Name,
		CreatedAt:       time.Now().UTC(),
		HasData:         hasData,
		Projection:      p,
		Divergence:      div,
		Simulation:      *sim,
		Moneyline:       CompareMoneyline(p, req.Line, c),
		Recommendations: recs,
	}

	if e.recorder != nil {
		e.recorder.ObserveEvaluation(c.Name, div, *sim, recs, sim.ExecutionTime)
	}

	logger.WithEvaluationContext(e.logger, eval.ID.String(), c.Name).WithFields(logrus.Fields{
		"has_data":        hasData,
		"projected_total": p.ProjectedTotal,
		"model_line":      div.ModelHouseLine,
		"severity":        div.Severity.String(),
		"recommendations": len(recs),
		"num_trials":      sim.NumTrials,
	}).Info("Matchup evaluated")

	return eval, nil
}

// CompareMoneyline converts the projected margin to win probabilities and sets
// them against the posted moneylines. Edges are taken against the no-vig
// price when both sides are posted and against the raw implied price
// otherwise.
func CompareMoneyline(p models.MatchupProjection, line models.MarketLine, c league.Constants) models.MoneylineComparison {
	homeWin := oddsmath.WinProbabilityFromMargin(p.ProjectedMargin, c.WinSteepness)
	cmp := models.MoneylineComparison{
		ModelHomeWinPct: homeWin * 100,
		ModelAwayWinPct: (1 - homeWin) * 100,
	}

	homeImplied, homeOK := oddsmath.ImpliedProbability(line.MoneylineHome)
	awayImplied, awayOK := oddsmath.ImpliedProbability(line.MoneylineAway)
	if homeOK {
		cmp.ImpliedHomePct = models.Float64Ptr(homeImplied * 100)
	}
	if awayOK {
		cmp.ImpliedAwayPct = models.Float64Ptr(awayImplied * 100)
	}

	homeRef, awayRef := cmp.ImpliedHomePct, cmp.ImpliedAwayPct
	if homeOK && awayOK {
		cmp.VigPct = models.Float64Ptr(oddsmath.VigPercentage(homeImplied, awayImplied))
		if fairHome, fairAway, err := oddsmath.RemoveVigMultiplicative(homeImplied, awayImplied); err == nil {
			cmp.FairHomePct = models.Float64Ptr(fairHome * 100)
			cmp.FairAwayPct = models.Float64Ptr(fairAway * 100)
			homeRef, awayRef = cmp.FairHomePct, cmp.FairAwayPct
		}
	}

	if homeRef != nil {
		cmp.HomeEdgePct = models.Float64Ptr(cmp.ModelHomeWinPct - *homeRef)
	}
	if awayRef != nil {
		cmp.AwayEdgePct = models.Float64Ptr(cmp.ModelAwayWinPct - *awayRef)
	}
	return cmp
}

func (e *Engine) prepare(req Request) (league.Constants, models.DivergenceThresholds, error) {
	name := req.League
	if strings.TrimSpace(name) == "" {
		name = e.opts.DefaultLeague
	}
	c, err := league.Get(name)
	if err != nil {
		return league.Constants{}, models.DivergenceThresholds{}, err
	}

	if err := req.Home.Validate(); err != nil {
		return c, models.DivergenceThresholds{}, fmt.Errorf("home: %w", err)
	}
	if err := req.Away.Validate(); err != nil {
		return c, models.DivergenceThresholds{}, fmt.Errorf("away: %w", err)
	}

	thresholds := c.Thresholds
	if req.Thresholds != nil {
		if err := req.Thresholds.Validate(); err != nil {
			return c, models.DivergenceThresholds{}, err
		}
		thresholds = *req.Thresholds
	}
	return c, thresholds, nil
}

func (e *Engine) rankOptions(req Request) (ranker.Options, error) {
	opts := ranker.Options{
		MinConfidencePct:    e.opts.MinConfidencePct,
		RequirePositiveEdge: e.opts.RequirePositiveEdge,
		Mode:                e.opts.RankBy,
	}
	if req.MinConfidencePct != nil {
		opts.MinConfidencePct = *req.MinConfidencePct
	}
	if req.RequirePositiveEdge != nil {
		opts.RequirePositiveEdge = *req.RequirePositiveEdge
	}
	if req.RankBy != "" {
		mode, err := ranker.ParseMode(req.RankBy)
		if err != nil {
			return ranker.Options{}, fmt.Errorf("%w: %v", simulator.ErrInvalidConfiguration, err)
		}
		opts.Mode = mode
	}
	return opts, nil
}

func (e *Engine) simulationConfig(s SimulationSettings, c league.Constants, p models.MatchupProjection) (models.SimulationConfig, error) {
	cfg := models.SimulationConfig{
		NumTrials:    e.opts.DefaultTrials,
		PointsStdDev: c.PointsStdDev(p.ProjectedTotal),
		Seed:         s.Seed,
	}
	// an explicit value, zero included, is validated rather than defaulted
	if s.NumTrials != nil {
		cfg.NumTrials = *s.NumTrials
	}
	if cfg.NumTrials > e.opts.MaxTrials {
		return cfg, fmt.Errorf("%w: num_trials %d exceeds the maximum of %d",
			simulator.ErrInvalidConfiguration, cfg.NumTrials, e.opts.MaxTrials)
	}
	if s.PointsStdDev != nil {
		cfg.PointsStdDev = *s.PointsStdDev
	}
	return cfg, simulator.ValidateConfig(cfg)
}

// unknownLeagueLabel keeps request input out of metric labels
const unknownLeagueLabel = "unknown"

// observeError takes the resolved league name, empty when resolution failed
func (e *Engine) observeError(leagueName string, err error) {
	if e.recorder == nil {
		return
	}
	switch {
	case errors.Is(err, ErrUnknownLeague):
		leagueName = unknownLeagueLabel
	case leagueName == "":
		leagueName = strings.ToUpper(e.opts.DefaultLeague)
	}
	e.recorder.ObserveError(leagueName, ErrorReason(err))
}

// ErrorReason is a short label for an evaluation error
func ErrorReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownLeague):
		return "unknown_league"
	case errors.Is(err, models.ErrInvalidTeamProfile):
		return "invalid_team_profile"
	case errors.Is(err, models.ErrInvalidThresholds):
		return "invalid_thresholds"
	case errors.Is(err, simulator.ErrInvalidConfiguration):
		return "invalid_configuration"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}

// IsValidationError reports whether err was caused by bad input
func IsValidationError(err error) bool {
	switch ErrorReason(err) {
	case "unknown_league", "invalid_team_profile", "invalid_thresholds", "invalid_configuration":
		return true
	}
	return false
}

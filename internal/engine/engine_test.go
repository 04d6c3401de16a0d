package engine

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/edge-sim/internal/league"
	"github.com/stitts-dev/edge-sim/internal/metrics"
	"github.com/stitts-dev/edge-sim/internal/models"
	"github.com/stitts-dev/edge-sim/internal/simulator"
)

type fakeRecorder struct {
	evaluations int
	severities  []models.Severity
	errors      []string
}

func (f *fakeRecorder) ObserveEvaluation(_ string, div models.DivergenceReport, _ models.SimulationResult, _ []models.EdgeRecommendation, _ time.Duration) {
	f.evaluations++
	f.severities = append(f.severities, div.Severity)
}

func (f *fakeRecorder) ObserveError(_, reason string) {
	f.errors = append(f.errors, reason)
}

func newTestEngine(t *testing.T) (*Engine, *fakeRecorder) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	rec := &fakeRecorder{}
	opts := DefaultOptions()
	opts.DefaultTrials = 5000
	opts.MaxTrials = 20000
	return NewEngine(simulator.NewSimulator(2, logger), opts, rec, logger), rec
}

func intPtr(v int) *int {
	return &v
}

func nflRequest() Request {
	return Request{
		League: "nfl",
		Home:   models.TeamProfile{Name: "Home", PointsScoredPerGame: 27, PointsAllowedPerGame: 19},
		Away:   models.TeamProfile{Name: "Away", PointsScoredPerGame: 20, PointsAllowedPerGame: 24},
		Line: models.MarketLine{
			Spread:          -3,
			Total:           44.5,
			MoneylineHome:   -150,
			MoneylineAway:   130,
			SpreadPriceHome: -110,
			SpreadPriceAway: -110,
			OverPrice:       -110,
			UnderPrice:      -110,
		},
		Simulation: SimulationSettings{Seed: 42},
	}
}

func TestEvaluate(t *testing.T) {
	eng, rec := newTestEngine(t)

	eval, err := eng.Evaluate(context.Background(), nflRequest())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, eval.ID)
	assert.Equal(t, league.NFL, eval.League)
	assert.True(t, eval.HasData)
	assert.Equal(t, 5000, eval.Simulation.NumTrials)

	// 0.55*27 + 0.35*24 + 1.5 = 24.75 and 0.55*20 + 0.35*19 = 17.65
	assert.InDelta(t, 24.75, eval.Projection.HomeExpectedPoints, 1e-9)
	assert.InDelta(t, 17.65, eval.Projection.AwayExpectedPoints, 1e-9)
	assert.InDelta(t, -7.1, eval.Divergence.ModelHouseLine, 1e-9)
	assert.Equal(t, models.SeverityCaution, eval.Divergence.Severity)
	assert.InDelta(t, 6.36, eval.Simulation.PointsStdDev, 1e-9)

	require.NotEmpty(t, eval.Recommendations)
	assert.Equal(t, models.MarketSpreadHome, eval.Recommendations[0].Market)
	require.NotNil(t, eval.Recommendations[0].EdgePct)
	assert.Greater(t, *eval.Recommendations[0].EdgePct, 0.0)

	require.NotNil(t, eval.Moneyline.FairHomePct)
	assert.Greater(t, eval.Moneyline.ModelHomeWinPct, 50.0)

	assert.Equal(t, 1, rec.evaluations)
	assert.Equal(t, []models.Severity{models.SeverityCaution}, rec.severities)
}

func TestEvaluateAllZeroInput(t *testing.T) {
	eng, _ := newTestEngine(t)

	req := Request{
		League:     league.NBA,
		Line:       models.MarketLine{SpreadPriceHome: -110, UnderPrice: -110},
		Simulation: SimulationSettings{Seed: 1},
	}
	eval, err := eng.Evaluate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, eval.HasData)
	assert.Equal(t, models.MatchupProjection{}, eval.Projection)
	assert.Equal(t, 6.0, eval.Simulation.PointsStdDev)

	// floored scores tie often enough to clear the confidence bar, yet no bet is suggested
	assert.Greater(t, eval.Simulation.CoverProbabilityHome, 0.55)
	assert.NotNil(t, eval.Recommendations)
	assert.Empty(t, eval.Recommendations)
	assert.False(t, math.Signbit(eval.Divergence.ModelHouseLine))
}

func TestEvaluateUnknownLeaguesShareOneErrorSeries(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	m := metrics.NewEvaluationMetrics()
	eng := NewEngine(simulator.NewSimulator(1, logger), DefaultOptions(), m, logger)

	for i := 0; i < 200; i++ {
		req := nflRequest()
		req.League = fmt.Sprintf("junk-%d", i)
		_, err := eng.Evaluate(context.Background(), req)
		require.ErrorIs(t, err, ErrUnknownLeague)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.EvaluationErrors))
	assert.Equal(t, 200.0, testutil.ToFloat64(m.EvaluationErrors.WithLabelValues("unknown", "unknown_league")))

	// a resolved league keeps its own label
	req := nflRequest()
	req.Away.PointsScoredPerGame = -1
	_, err := eng.Evaluate(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EvaluationErrors.WithLabelValues(league.NFL, "invalid_team_profile")))
}

func TestEvaluateDefaultsLeague(t *testing.T) {
	eng, _ := newTestEngine(t)
	req := nflRequest()
	req.League = ""

	eval, err := eng.Evaluate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, league.NFL, eval.League)
}

func TestEvaluateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
		target error
		reason string
	}{
		{
			name:   "unknown league",
			mutate: func(r *Request) { r.League = "EPL" },
			target: ErrUnknownLeague,
			reason: "unknown_league",
		},
		{
			name:   "negative average",
			mutate: func(r *Request) { r.Away.PointsAllowedPerGame = -3 },
			target: models.ErrInvalidTeamProfile,
			reason: "invalid_team_profile",
		},
		{
			name: "inverted thresholds",
			mutate: func(r *Request) {
				r.Thresholds = &models.DivergenceThresholds{SpreadCaution: 6, SpreadTrap: 2, TotalCaution: 1, TotalTrap: 2}
			},
			target: models.ErrInvalidThresholds,
			reason: "invalid_thresholds",
		},
		{
			name:   "trials above cap",
			mutate: func(r *Request) { r.Simulation.NumTrials = intPtr(50000) },
			target: simulator.ErrInvalidConfiguration,
			reason: "invalid_configuration",
		},
		{
			name:   "negative trials",
			mutate: func(r *Request) { r.Simulation.NumTrials = intPtr(-1) },
			target: simulator.ErrInvalidConfiguration,
			reason: "invalid_configuration",
		},
		{
			name:   "explicit zero trials",
			mutate: func(r *Request) { r.Simulation.NumTrials = intPtr(0) },
			target: simulator.ErrInvalidConfiguration,
			reason: "invalid_configuration",
		},
		{
			name: "negative std dev",
			mutate: func(r *Request) {
				r.Simulation.PointsStdDev = models.Float64Ptr(-2)
			},
			target: simulator.ErrInvalidConfiguration,
			reason: "invalid_configuration",
		},
		{
			name:   "unknown rank mode",
			mutate: func(r *Request) { r.RankBy = "kelly" },
			target: simulator.ErrInvalidConfiguration,
			reason: "invalid_configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, rec := newTestEngine(t)
			req := nflRequest()
			tt.mutate(&req)

			_, err := eng.Evaluate(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.True(t, IsValidationError(err))
			assert.Equal(t, []string{tt.reason}, rec.errors)
		})
	}
}

func TestEvaluateRequestOverrides(t *testing.T) {
	eng, _ := newTestEngine(t)
	req := nflRequest()
	req.Simulation = SimulationSettings{NumTrials: intPtr(1), PointsStdDev: models.Float64Ptr(0), Seed: 3}
	req.MinConfidencePct = models.Float64Ptr(0)
	req.RankBy = "edge"

	eval, err := eng.Evaluate(context.Background(), req)
	require.NoError(t, err)

	// margin 7.1 against -3 always covers; total 42.4 never goes over 44.5
	assert.Equal(t, 1.0, eval.Simulation.CoverProbabilityHome)
	assert.Equal(t, 0.0, eval.Simulation.OverProbability)
	require.Len(t, eval.Recommendations, 4)
	assert.Equal(t, models.MarketSpreadHome, eval.Recommendations[0].Market)
}

func TestEvaluateCanceled(t *testing.T) {
	eng, rec := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Evaluate(ctx, nflRequest())
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsValidationError(err))
	assert.Equal(t, []string{"canceled"}, rec.errors)
}

func TestProject(t *testing.T) {
	eng, _ := newTestEngine(t)
	report, err := eng.Project(nflRequest())
	require.NoError(t, err)

	assert.Equal(t, league.NFL, report.League)
	assert.True(t, report.HasData)
	assert.InDelta(t, 7.1, report.Projection.ProjectedMargin, 1e-9)
	assert.InDelta(t, -4.1, report.Divergence.SpreadDelta, 1e-9)

	_, err = eng.Project(Request{League: "xfl"})
	assert.ErrorIs(t, err, ErrUnknownLeague)
}

func TestCompareMoneyline(t *testing.T) {
	nfl, err := league.Get(league.NFL)
	require.NoError(t, err)
	p := models.NewMatchupProjection(24, 20)

	cmp := CompareMoneyline(p, models.MarketLine{MoneylineHome: -150, MoneylineAway: 130}, nfl)
	assert.InDelta(t, 100.0, cmp.ModelHomeWinPct+cmp.ModelAwayWinPct, 1e-9)
	require.NotNil(t, cmp.ImpliedHomePct)
	assert.InDelta(t, 60.0, *cmp.ImpliedHomePct, 1e-9)
	require.NotNil(t, cmp.ImpliedAwayPct)
	assert.InDelta(t, 43.48, *cmp.ImpliedAwayPct, 0.005)
	require.NotNil(t, cmp.VigPct)
	assert.InDelta(t, 3.48, *cmp.VigPct, 0.005)
	require.NotNil(t, cmp.FairHomePct)
	assert.InDelta(t, 100.0, *cmp.FairHomePct+*cmp.FairAwayPct, 1e-9)
	require.NotNil(t, cmp.HomeEdgePct)
	assert.InDelta(t, cmp.ModelHomeWinPct-*cmp.FairHomePct, *cmp.HomeEdgePct, 1e-9)

	oneSided := CompareMoneyline(p, models.MarketLine{MoneylineHome: -150}, nfl)
	assert.Nil(t, oneSided.FairHomePct)
	assert.Nil(t, oneSided.AwayEdgePct)
	require.NotNil(t, oneSided.HomeEdgePct)
	assert.InDelta(t, oneSided.ModelHomeWinPct-60, *oneSided.HomeEdgePct, 1e-9)

	none := CompareMoneyline(p, models.MarketLine{}, nfl)
	assert.Nil(t, none.ImpliedHomePct)
	assert.Nil(t, none.HomeEdgePct)
}

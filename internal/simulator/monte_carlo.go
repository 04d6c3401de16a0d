package simulator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stitts-dev/edge-sim/internal/models"
)

// ErrInvalidConfiguration is returned for simulation settings that would make
// the resulting probabilities meaningless
var ErrInvalidConfiguration = errors.New("invalid simulation configuration")

// Workers check for cancellation every cancelCheckInterval trials
const cancelCheckInterval = 4096

// Simulator runs Monte Carlo simulations of a single matchup
type Simulator struct {
	workers int
	logger  *logrus.Logger
}

// NewSimulator creates a simulator that spreads trials over workers
// goroutines. workers <= 0 uses one worker per CPU.
func NewSimulator(workers int, logger *logrus.Logger) *Simulator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Simulator{
		workers: workers,
		logger:  logger,
	}
}

// ValidateConfig rejects a trial count below one and a negative or
// non-finite standard deviation
func ValidateConfig(cfg models.SimulationConfig) error {
	if cfg.NumTrials < 1 {
		return fmt.Errorf("%w: num_trials must be at least 1, got %d", ErrInvalidConfiguration, cfg.NumTrials)
	}
	if cfg.PointsStdDev < 0 || math.IsNaN(cfg.PointsStdDev) || math.IsInf(cfg.PointsStdDev, 0) {
		return fmt.Errorf("%w: points_std_dev must be a non-negative number, got %v", ErrInvalidConfiguration, cfg.PointsStdDev)
	}
	return nil
}

type trialCounts struct {
	covers  int
	overs   int
	homeSum float64
	awaySum float64
	margin  runningStats
	total   runningStats
}

// runningStats is Welford's online mean and variance, so a worker never keeps
// its samples
type runningStats struct {
	n    int
	mean float64
	m2   float64
}

func (r *runningStats) add(x float64) {
	r.n++
	d := x - r.mean
	r.mean += d / float64(r.n)
	r.m2 += d * (x - r.mean)
}

// merge folds another worker's stats into r (Chan et al. pairwise update)
func (r *runningStats) merge(o runningStats) {
	if o.n == 0 {
		return
	}
	if r.n == 0 {
		*r = o
		return
	}
	n := r.n + o.n
	d := o.mean - r.mean
	r.mean += d * float64(o.n) / float64(n)
	r.m2 += o.m2 + d*d*float64(r.n)*float64(o.n)/float64(n)
	r.n = n
}

// stdDev is the sample standard deviation; zero below two samples
func (r runningStats) stdDev() float64 {
	if r.n < 2 {
		return 0
	}
	return math.Sqrt(r.m2 / float64(r.n-1))
}

// Simulate draws cfg.NumTrials independent games around the projection and
// counts how often the home side covers line.Spread and the total goes over
// line.Total.
//
// Both scores are Normal(expected, cfg.PointsStdDev) floored at zero and drawn
// independently; correlation between the two sides is not modeled. Trials are
// split into contiguous blocks, one per worker, and worker i draws from its
// own source seeded with cfg.Seed+i, so a non-zero seed reproduces the same
// result for the same worker count.
func (s *Simulator) Simulate(
	ctx context.Context,
	p models.MatchupProjection,
	line models.MarketLine,
	cfg models.SimulationConfig,
) (*models.SimulationResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	startTime := time.Now()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	n := cfg.NumTrials
	workers := s.workers
	if workers > n {
		workers = n
	}
	blockSize := (n + workers - 1) / workers

	homeDist := NewScoreDistribution(p.HomeExpectedPoints, cfg.PointsStdDev)
	awayDist := NewScoreDistribution(p.AwayExpectedPoints, cfg.PointsStdDev)

	counts := make([]trialCounts, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * blockSize
		hi := min(lo+blockSize, n)
		if lo >= hi {
			break
		}

		w := w
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(w)))
			c := &counts[w]

			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckInterval == 0 {
					select {
					case <-gctx.Done():
						return gctx.Err()
					default:
					}
				}

				home := homeDist.Sample(rng)
				away := awayDist.Sample(rng)

				// line.Spread is in sportsbook format and is added to the
				// home side's actual margin directly
				if (home-away)+line.Spread >= 0 {
					c.covers++
				}
				if home+away > line.Total {
					c.overs++
				}

				c.homeSum += home
				c.awaySum += away
				c.margin.add(home - away)
				c.total.add(home + away)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("simulation aborted: %w", err)
	}

	var total trialCounts
	for _, c := range counts {
		total.covers += c.covers
		total.overs += c.overs
		total.homeSum += c.homeSum
		total.awaySum += c.awaySum
		total.margin.merge(c.margin)
		total.total.merge(c.total)
	}

	trials := float64(n)
	cover := float64(total.covers) / trials
	over := float64(total.overs) / trials

	result := &models.SimulationResult{
		NumTrials:                n,
		PointsStdDev:             cfg.PointsStdDev,
		CoverProbabilityHome:     cover,
		CoverProbabilityAway:     1 - cover,
		OverProbability:          over,
		UnderProbability:         1 - over,
		MeanHomeScore:            total.homeSum / trials,
		MeanAwayScore:            total.awaySum / trials,
		AnalyticCoverProbability: ClosedFormCoverProbability(p, line, cfg.PointsStdDev),
		AnalyticOverProbability:  ClosedFormOverProbability(p, line, cfg.PointsStdDev),
	}
	result.MeanMargin, result.MarginStdDev = total.margin.mean, total.margin.stdDev()
	result.MeanTotal, result.TotalStdDev = total.total.mean, total.total.stdDev()
	result.ExecutionTime = time.Since(startTime)

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"num_trials":     n,
			"workers":        workers,
			"std_dev":        cfg.PointsStdDev,
			"cover_home":     cover,
			"over":           over,
			"execution_time": result.ExecutionTime,
		}).Debug("Monte Carlo simulation completed")
	}

	return result, nil
}

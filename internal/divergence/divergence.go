package divergence

import (
	"math"

	"github.com/stitts-dev/edge-sim/internal/models"
)

const (
	MarketSpread = "spread"
	MarketTotal  = "total"
)

// Compare measures how far the posted line sits from the projection.
//
// The spread tier and the total tier are checked independently: either gap
// reaching its trap threshold raises a trap alert, otherwise either gap
// reaching its caution threshold raises a caution. The report is advisory and
// never blocks the rest of an evaluation.
func Compare(p models.MatchupProjection, line models.MarketLine, t models.DivergenceThresholds) models.DivergenceReport {
	modelLine := p.HouseLine()
	spreadDelta := modelLine - line.Spread
	totalDelta := p.ProjectedTotal - line.Total

	report := models.DivergenceReport{
		ModelHouseLine: modelLine,
		SpreadDelta:    spreadDelta,
		TotalDelta:     totalDelta,
		Severity:       models.SeverityNormal,
		HomePointEdge:  p.ProjectedMargin - models.HouseLineToModelMargin(line.Spread),
	}
	report.AwayPointEdge = models.OpposingSide(report.HomePointEdge)

	spreadSeverity := classify(spreadDelta, t.SpreadCaution, t.SpreadTrap)
	totalSeverity := classify(totalDelta, t.TotalCaution, t.TotalTrap)

	if spreadSeverity > report.Severity {
		report.Severity = spreadSeverity
	}
	if totalSeverity > report.Severity {
		report.Severity = totalSeverity
	}

	if report.Severity != models.SeverityNormal {
		if spreadSeverity == report.Severity {
			report.Flagged = append(report.Flagged, MarketSpread)
		}
		if totalSeverity == report.Severity {
			report.Flagged = append(report.Flagged, MarketTotal)
		}
	}

	return report
}

func classify(delta, caution, trap float64) models.Severity {
	gap := math.Abs(delta)
	switch {
	case gap >= trap:
		return models.SeverityTrapAlert
	case gap >= caution:
		return models.SeverityCaution
	default:
		return models.SeverityNormal
	}
}

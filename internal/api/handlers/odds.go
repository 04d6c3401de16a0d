package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/edge-sim/internal/league"
	"github.com/stitts-dev/edge-sim/pkg/oddsmath"
	"github.com/stitts-dev/edge-sim/pkg/utils"
)

type ImpliedOddsResponse struct {
	AmericanOdds          int     `json:"american_odds"`
	ImpliedProbabilityPct float64 `json:"implied_probability_pct"`
	DecimalOdds           float64 `json:"decimal_odds"`
}

// GetImpliedProbability converts ?odds=<american> to an implied probability
func GetImpliedProbability(c *gin.Context) {
	raw := c.Query("odds")
	american, err := strconv.Atoi(raw)
	if err != nil {
		utils.SendValidationError(c, "odds must be an integer American price", raw)
		return
	}

	implied := oddsmath.ImpliedProbabilityPct(american)
	decimal, err := oddsmath.AmericanToDecimal(american)
	if implied == nil || err != nil {
		utils.SendValidationError(c, "odds must be a non-zero American price", raw)
		return
	}

	utils.SendSuccess(c, ImpliedOddsResponse{
		AmericanOdds:          american,
		ImpliedProbabilityPct: *implied,
		DecimalOdds:           decimal,
	})
}

// GetLeagues lists the supported leagues and their constants
func GetLeagues(c *gin.Context) {
	utils.SendSuccess(c, league.All())
}

package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/edge-sim/internal/cache"
	"github.com/stitts-dev/edge-sim/internal/engine"
	"github.com/stitts-dev/edge-sim/pkg/utils"
)

type EvaluationHandler struct {
	engine *engine.Engine
	store  cache.EvaluationStore
	logger *logrus.Logger
}

// NewEvaluationHandler creates the handler. store may be nil, in which case
// evaluations are not persisted and lookups return 503.
func NewEvaluationHandler(eng *engine.Engine, store cache.EvaluationStore, logger *logrus.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		engine: eng,
		store:  store,
		logger: logger,
	}
}

// Evaluate runs projection, divergence, simulation and ranking for one matchup
func (h *EvaluationHandler) Evaluate(c *gin.Context) {
	var req engine.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	eval, err := h.engine.Evaluate(c.Request.Context(), req)
	if err != nil {
		sendEngineError(c, h.logger, err)
		return
	}
	c.Set("evaluation_id", eval.ID.String())

	if h.store != nil {
		if err := h.store.Save(c.Request.Context(), eval); err != nil {
			h.logger.WithError(err).WithField("evaluation_id", eval.ID).Warn("Failed to store evaluation")
		}
	}

	utils.SendSuccess(c, eval)
}

// GetEvaluation returns a stored evaluation by ID
func (h *EvaluationHandler) GetEvaluation(c *gin.Context) {
	if h.store == nil {
		utils.SendServiceUnavailable(c, "Evaluation storage is not configured")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid evaluation ID", err.Error())
		return
	}

	eval, err := h.store.Get(c.Request.Context(), id.String())
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			utils.SendNotFound(c, "Evaluation not found")
			return
		}
		h.logger.WithError(err).WithField("evaluation_id", id).Error("Failed to load evaluation")
		utils.SendInternalError(c, "Failed to load evaluation")
		return
	}

	utils.SendSuccess(c, eval)
}

// Project returns the projection and line comparison without simulating
func (h *EvaluationHandler) Project(c *gin.Context) {
	var req engine.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	report, err := h.engine.Project(req)
	if err != nil {
		sendEngineError(c, h.logger, err)
		return
	}

	utils.SendSuccess(c, report)
}

func sendEngineError(c *gin.Context, logger *logrus.Logger, err error) {
	if engine.IsValidationError(err) {
		utils.SendValidationError(c, "Invalid evaluation request", err.Error())
		return
	}
	_ = c.Error(err)
	logger.WithError(err).Error("Evaluation failed")
	utils.SendInternalError(c, "Evaluation failed")
}

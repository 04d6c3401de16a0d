package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/edge-sim/internal/api/handlers"
	"github.com/stitts-dev/edge-sim/internal/api/middleware"
	"github.com/stitts-dev/edge-sim/internal/cache"
	"github.com/stitts-dev/edge-sim/internal/engine"
	"github.com/stitts-dev/edge-sim/internal/metrics"
)

// Dependencies are the services the router hands to its handlers. Store and
// Metrics may be nil.
type Dependencies struct {
	Engine      *engine.Engine
	Store       cache.EvaluationStore
	Metrics     *metrics.EvaluationMetrics
	RateLimiter *middleware.RateLimiter
	Logger      *logrus.Logger
}

// NewRouter builds the gin engine with every route registered
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))

	health := handlers.NewHealthHandler(deps.Store != nil)
	router.GET("/health", health.GetHealth)

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	apiV1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		apiV1.Use(deps.RateLimiter.Middleware())
	}
	SetupRoutes(apiV1, deps)

	return router
}

func SetupRoutes(r *gin.RouterGroup, deps Dependencies) {
	evaluations := handlers.NewEvaluationHandler(deps.Engine, deps.Store, deps.Logger)

	r.POST("/evaluate", evaluations.Evaluate)
	r.GET("/evaluations/:id", evaluations.GetEvaluation)
	r.POST("/project", evaluations.Project)

	r.GET("/odds/implied", handlers.GetImpliedProbability)
	r.GET("/leagues", handlers.GetLeagues)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/edge-sim/internal/api"
	"github.com/stitts-dev/edge-sim/internal/api/middleware"
	"github.com/stitts-dev/edge-sim/internal/cache"
	"github.com/stitts-dev/edge-sim/internal/engine"
	"github.com/stitts-dev/edge-sim/internal/metrics"
	"github.com/stitts-dev/edge-sim/internal/simulator"
	"github.com/stitts-dev/edge-sim/pkg/config"
	"github.com/stitts-dev/edge-sim/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.GetLogger().Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	evaluationMetrics := metrics.NewEvaluationMetrics()

	sim := simulator.NewSimulator(cfg.SimulationWorkers, log)
	eng := engine.NewEngine(sim, engine.Options{
		DefaultLeague:       cfg.DefaultLeague,
		DefaultTrials:       cfg.DefaultSimulations,
		MaxTrials:           cfg.MaxSimulations,
		MinConfidencePct:    cfg.MinConfidencePct,
		RequirePositiveEdge: cfg.RequirePositiveEdge,
		RankBy:              cfg.RankMode(),
	}, evaluationMetrics, log)

	deps := api.Dependencies{
		Engine:      eng,
		Metrics:     evaluationMetrics,
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:      log,
	}

	// Redis is optional; without it evaluations are not stored
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		deps.Store = cache.NewEvaluationCache(redisClient, cfg.EvaluationTTL, log)
	} else {
		log.Warn("REDIS_URL not set, evaluation storage disabled")
	}

	router := api.NewRouter(deps)

	if !cfg.IsProduction() {
		for _, route := range router.Routes() {
			log.Debugf("%s %s", route.Method, route.Path)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serviceLog := logger.WithService("edge-sim")

	go func() {
		serviceLog.WithField("port", cfg.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	serviceLog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	serviceLog.Info("Server exited")
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/edge-sim/internal/engine"
)

// ErrNotFound is returned when an evaluation is missing or has expired
var ErrNotFound = errors.New("evaluation not found")

// EvaluationStore persists evaluations so they can be fetched by ID
type EvaluationStore interface {
	Save(ctx context.Context, eval *engine.Evaluation) error
	Get(ctx context.Context, id string) (*engine.Evaluation, error)
}

// EvaluationCache stores evaluations in Redis as JSON under a TTL
type EvaluationCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewEvaluationCache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *EvaluationCache {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &EvaluationCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// NewRedisClient parses a redis:// URL and checks the connection
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// EvaluationKey is the Redis key for an evaluation ID
func EvaluationKey(id string) string {
	return fmt.Sprintf("evaluation:%s", id)
}

func (c *EvaluationCache) Save(ctx context.Context, eval *engine.Evaluation) error {
	data, err := json.Marshal(eval)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation: %w", err)
	}

	key := EvaluationKey(eval.ID.String())
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store evaluation: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"key": key,
		"ttl": c.ttl,
	}).Debug("Stored evaluation")
	return nil
}

func (c *EvaluationCache) Get(ctx context.Context, id string) (*engine.Evaluation, error) {
	data, err := c.client.Get(ctx, EvaluationKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read evaluation: %w", err)
	}

	var eval engine.Evaluation
	if err := json.Unmarshal(data, &eval); err != nil {
		return nil, fmt.Errorf("failed to unmarshal evaluation: %w", err)
	}
	return &eval, nil
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/stitts-dev/edge-sim/internal/league"
	"github.com/stitts-dev/edge-sim/internal/ranker"
)

type Config struct {
	// Server
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Redis; empty disables evaluation storage
	RedisURL      string        `mapstructure:"REDIS_URL"`
	EvaluationTTL time.Duration `mapstructure:"EVALUATION_TTL"`

	// Simulation
	DefaultSimulations int `mapstructure:"DEFAULT_SIMULATIONS"`
	MaxSimulations     int `mapstructure:"MAX_SIMULATIONS"`
	SimulationWorkers  int `mapstructure:"SIMULATION_WORKERS"`

	// Ranking
	MinConfidencePct    float64 `mapstructure:"MIN_CONFIDENCE_PCT"`
	RequirePositiveEdge bool    `mapstructure:"REQUIRE_POSITIVE_EDGE"`
	RankBy              string  `mapstructure:"RANK_BY"`
	DefaultLeague       string  `mapstructure:"DEFAULT_LEAGUE"`

	// Rate limiting
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("EVALUATION_TTL", "24h")
	viper.SetDefault("DEFAULT_SIMULATIONS", 10000)
	viper.SetDefault("MAX_SIMULATIONS", 200000)
	viper.SetDefault("SIMULATION_WORKERS", 0) // one per CPU
	viper.SetDefault("MIN_CONFIDENCE_PCT", ranker.DefaultMinConfidencePct)
	viper.SetDefault("REQUIRE_POSITIVE_EDGE", false)
	viper.SetDefault("RANK_BY", string(ranker.ByProbability))
	viper.SetDefault("DEFAULT_LEAGUE", league.NFL)
	viper.SetDefault("RATE_LIMIT_RPS", 20)
	viper.SetDefault("RATE_LIMIT_BURST", 40)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings the engine could not run with
func (c *Config) Validate() error {
	if c.DefaultSimulations < 1 {
		return fmt.Errorf("DEFAULT_SIMULATIONS must be at least 1, got %d", c.DefaultSimulations)
	}
	if c.MaxSimulations < c.DefaultSimulations {
		return fmt.Errorf("MAX_SIMULATIONS (%d) is below DEFAULT_SIMULATIONS (%d)", c.MaxSimulations, c.DefaultSimulations)
	}
	if c.SimulationWorkers < 0 {
		return fmt.Errorf("SIMULATION_WORKERS must not be negative, got %d", c.SimulationWorkers)
	}
	if c.MinConfidencePct < 0 || c.MinConfidencePct > 100 {
		return fmt.Errorf("MIN_CONFIDENCE_PCT must be within [0, 100], got %v", c.MinConfidencePct)
	}
	if _, err := ranker.ParseMode(c.RankBy); err != nil {
		return fmt.Errorf("RANK_BY: %w", err)
	}
	if _, err := league.Get(c.DefaultLeague); err != nil {
		return fmt.Errorf("DEFAULT_LEAGUE: %w", err)
	}
	if c.EvaluationTTL <= 0 {
		return fmt.Errorf("EVALUATION_TTL must be positive, got %s", c.EvaluationTTL)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit settings must not be negative")
	}
	return nil
}

// RankMode returns the parsed RANK_BY value
func (c *Config) RankMode() ranker.Mode {
	mode, err := ranker.ParseMode(c.RankBy)
	if err != nil {
		return ranker.ByProbability
	}
	return mode
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

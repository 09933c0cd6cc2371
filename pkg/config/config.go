package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// MLB Stats API
	MLBAPIBaseURL           string        `mapstructure:"MLB_API_BASE_URL"`
	MLBPlayerID             int           `mapstructure:"MLB_PLAYER_ID"`
	MLBTeamID               int           `mapstructure:"MLB_TEAM_ID"`
	MLBAPIRateLimit         int           `mapstructure:"MLB_API_RATE_LIMIT"`
	ExternalAPITimeout      time.Duration `mapstructure:"EXTERNAL_API_TIMEOUT"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`

	// Simulation
	SimulationTrials int   `mapstructure:"SIMULATION_TRIALS"`
	SimulationSeed   int64 `mapstructure:"SIMULATION_SEED"`
	MaxTrials        int   `mapstructure:"MAX_TRIALS"`

	// Data refresh
	DataFetchInterval    string `mapstructure:"DATA_FETCH_INTERVAL"`
	SkipInitialDataFetch bool   `mapstructure:"SKIP_INITIAL_DATA_FETCH"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")

	viper.SetDefault("MLB_API_BASE_URL", "https://statsapi.mlb.com/api/v1")
	viper.SetDefault("MLB_PLAYER_ID", 592450) // Aaron Judge
	viper.SetDefault("MLB_TEAM_ID", 147)      // New York Yankees
	viper.SetDefault("MLB_API_RATE_LIMIT", 10)
	viper.SetDefault("EXTERNAL_API_TIMEOUT", "10s")
	viper.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5)

	viper.SetDefault("SIMULATION_TRIALS", 2500)
	viper.SetDefault("SIMULATION_SEED", 42) // fixed for reproducible results
	viper.SetDefault("MAX_TRIALS", 100000)

	viper.SetDefault("DATA_FETCH_INTERVAL", "4h")
	viper.SetDefault("SKIP_INITIAL_DATA_FETCH", false)

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the engine.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Engine    EngineConfig
	Scheduler SchedulerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	DemoMode              bool
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// EngineConfig tunes ticket processing. ProcessDelay is how long after
// creation the first AI pass runs; zero processes synchronously.
// StaleAfter is the age at which the sweep re-processes open tickets.
type EngineConfig struct {
	ProcessDelay time.Duration
	StaleAfter   time.Duration
	RandomSeed   int64
}

// SchedulerConfig holds the three independent loop intervals. The values
// are tunable; the loops always run on separate clocks.
type SchedulerConfig struct {
	SweepInterval     time.Duration
	MetricsInterval   time.Duration
	HeartbeatInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-engine"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			DemoMode:              getEnvAsBool("APP_DEMO_MODE", false),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Engine: EngineConfig{
			ProcessDelay: getEnvAsDuration("ENGINE_PROCESS_DELAY", time.Second),
			StaleAfter:   getEnvAsDuration("ENGINE_STALE_AFTER", time.Minute),
			RandomSeed:   int64(getEnvAsInt("ENGINE_RANDOM_SEED", 0)),
		},
		Scheduler: SchedulerConfig{
			SweepInterval:     getEnvAsDuration("SCHEDULER_SWEEP_INTERVAL", 30*time.Second),
			MetricsInterval:   getEnvAsDuration("SCHEDULER_METRICS_INTERVAL", time.Minute),
			HeartbeatInterval: getEnvAsDuration("SCHEDULER_HEARTBEAT_INTERVAL", 10*time.Second),
		},
	}

	if cfg.Scheduler.SweepInterval <= 0 || cfg.Scheduler.MetricsInterval <= 0 || cfg.Scheduler.HeartbeatInterval <= 0 {
		return nil, fmt.Errorf("scheduler intervals must be positive")
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}

// Package config loads runtime configuration from defaults, an optional YAML
// file, a .env file and MATCHUP_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/features"
	"nba-matchup-lab/internal/statsapi"
)

// EnvPrefix prefixes every environment variable, e.g. MATCHUP_FEATURES_WINDOW.
const EnvPrefix = "MATCHUP"

// FileEnvVar names the variable holding the YAML config path.
const FileEnvVar = "MATCHUP_CONFIG_FILE"

// Storage modes.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Config is the complete runtime configuration.
type Config struct {
	Features FeaturesConfig `yaml:"features" envconfig:"FEATURES"`
	StatsAPI StatsAPIConfig `yaml:"stats_api" envconfig:"STATSAPI"`
	Cache    CacheConfig    `yaml:"cache" envconfig:"CACHE"`
	Storage  StorageConfig  `yaml:"storage" envconfig:"STORAGE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Metrics  MetricsConfig  `yaml:"metrics" envconfig:"METRICS"`
	Tracing  TracingConfig  `yaml:"tracing" envconfig:"TRACING"`
	Model    ModelConfig    `yaml:"model" envconfig:"MODEL"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
}

// FeaturesConfig controls the feature build.
type FeaturesConfig struct {
	Window           int      `yaml:"window" envconfig:"WINDOW" validate:"min=1"`
	Epsilon          float64  `yaml:"epsilon" envconfig:"EPSILON" validate:"gt=0"`
	Seasons          []string `yaml:"seasons" envconfig:"SEASONS" validate:"min=1,dive,season"`
	Parallelism      int      `yaml:"parallelism" envconfig:"PARALLELISM" validate:"min=1,max=32"`
	MaxUnpairedRatio float64  `yaml:"max_unpaired_ratio" envconfig:"MAX_UNPAIRED_RATIO" validate:"gte=0,lte=1"`
	MinLabelCoverage float64  `yaml:"min_label_coverage" envconfig:"MIN_LABEL_COVERAGE" validate:"gte=0,lte=1"`
}

// StatsAPIConfig configures the provider client.
type StatsAPIConfig struct {
	BaseURL           string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
	Timeout           time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	MaxRetries        int           `yaml:"max_retries" envconfig:"MAX_RETRIES" validate:"min=0,max=10"`
	RequestsPerSecond float64       `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" validate:"gte=0"`
	Burst             int           `yaml:"burst" envconfig:"BURST" validate:"min=0"`
	UserAgent         string        `yaml:"user_agent" envconfig:"USER_AGENT"` // empty keeps the client default
	// CSVDir, when set, replaces the provider with <dir>/<season>.csv files.
	CSVDir string `yaml:"csv_dir" envconfig:"CSV_DIR"`
}

// CacheConfig configures the provider response cache.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled" envconfig:"ENABLED"`
	Addr     string        `yaml:"addr" envconfig:"ADDR" validate:"required_if=Enabled true"`
	Password string        `yaml:"password" envconfig:"PASSWORD"`
	DB       int           `yaml:"db" envconfig:"DB" validate:"min=0"`
	TTL      time.Duration `yaml:"ttl" envconfig:"TTL" validate:"gte=0"`
}

// StorageConfig selects and configures the stores.
type StorageConfig struct {
	Mode          string `yaml:"mode" envconfig:"MODE" validate:"oneof=memory postgres sqlite"`
	PostgresDSN   string `yaml:"postgres_dsn" envconfig:"POSTGRES_DSN" validate:"required_if=Mode postgres"`
	ClickHouseDSN string `yaml:"clickhouse_dsn" envconfig:"CLICKHOUSE_DSN" validate:"required_if=Mode postgres"`
	SQLitePath    string `yaml:"sqlite_path" envconfig:"SQLITE_PATH" validate:"required_if=Mode sqlite"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
}

// MetricsConfig configures the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr" envconfig:"ADDR" validate:"omitempty,hostname_port"`
}

// TracingConfig enables the stdout span exporter.
type TracingConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"ENABLED"`
}

// ModelConfig configures the logistic consumer.
type ModelConfig struct {
	TrainSeasons []string `yaml:"train_seasons" envconfig:"TRAIN_SEASONS" validate:"min=1,dive,season"`
	TestSeasons  []string `yaml:"test_seasons" envconfig:"TEST_SEASONS" validate:"min=1,dive,season"`
	Iterations   int      `yaml:"iterations" envconfig:"ITERATIONS" validate:"min=1"`
	LearningRate float64  `yaml:"learning_rate" envconfig:"LEARNING_RATE" validate:"gt=0"`
	L2           float64  `yaml:"l2" envconfig:"L2" validate:"gte=0"`
}

// OutputConfig sets where reports are written.
type OutputConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" validate:"required"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Features: FeaturesConfig{
			Window:           features.DefaultWindow,
			Epsilon:          features.DefaultEpsilon,
			Seasons:          append([]string(nil), domain.DefaultSeasons...),
			Parallelism:      4,
			MaxUnpairedRatio: 0.01,
			MinLabelCoverage: 0.99,
		},
		StatsAPI: StatsAPIConfig{
			BaseURL:           statsapi.DefaultBaseURL,
			Timeout:           statsapi.DefaultTimeout,
			MaxRetries:        statsapi.DefaultMaxRetries,
			RequestsPerSecond: statsapi.DefaultRequestsPerSecond,
			Burst:             statsapi.DefaultBurst,
		},
		Cache: CacheConfig{
			Addr: "localhost:6379",
			TTL:  24 * time.Hour,
		},
		Storage: StorageConfig{
			Mode:       StorageMemory,
			SQLitePath: "data/gamelogs.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Model: ModelConfig{
			TrainSeasons: []string{"2020-21", "2021-22", "2022-23"},
			TestSeasons:  []string{"2023-24"},
			Iterations:   5000,
			LearningRate: 0.1,
			L2:           0,
		},
		Output: OutputConfig{
			Dir: "output",
		},
	}
}

// Load builds the configuration. path names a YAML file; when empty, the
// MATCHUP_CONFIG_FILE variable is consulted. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv(FileEnvVar)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays the YAML file onto cfg. Keys absent from the file keep their value.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("season", func(fl validator.FieldLevel) bool {
		return domain.ValidateSeason(fl.Field().String()) == nil
	})
	return v
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// FeatureConfig converts the features section to an engine configuration.
func (c *Config) FeatureConfig() features.Config {
	return features.Config{Window: c.Features.Window, Epsilon: c.Features.Epsilon}
}

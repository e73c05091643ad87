package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ridgelight/warnmap-etl/internal/warn"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Warn map computation configuration.
	WarnParams       warn.Params
	RegridRelTol     float64
	EnsembleQuantile float64

	// Local warning archive configuration.
	ArchivePath    string
	ArchiveEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	batchSize, err := parseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := parsePositiveDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}

	params, err := parseWarnParams()
	if err != nil {
		return nil, err
	}

	relTol, err := parseUnitFraction("REGRID_REL_TOL", "0.01")
	if err != nil {
		return nil, err
	}

	quantile, err := parseUnitFraction("ENSEMBLE_QUANTILE", "0.7")
	if err != nil {
		return nil, err
	}

	archivePath := envOrDefault("ARCHIVE_PATH", "warnings.db")
	archiveEnabled := false
	if v := os.Getenv("ARCHIVE_ENABLED"); v != "" {
		archiveEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "hazard-fields"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "warn-maps"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "warnmap-etl"),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		WarnParams:       params,
		RegridRelTol:     relTol,
		EnsembleQuantile: quantile,

		ArchivePath:    archivePath,
		ArchiveEnabled: archiveEnabled,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.ArchiveEnabled && cfg.ArchivePath == "" {
		return nil, errors.New("ARCHIVE_ENABLED is true but ARCHIVE_PATH is empty")
	}

	return cfg, nil
}

// parseWarnParams assembles warn.Params from the WARN_* variables and
// validates them as a whole.
func parseWarnParams() (warn.Params, error) {
	levels, err := parseLevels(envOrDefault("WARN_LEVELS", "0,20,30,40,50"))
	if err != nil {
		return warn.Params{}, err
	}

	ops := warn.DefaultOps()
	if v := os.Getenv("WARN_OPERATIONS"); v != "" {
		ops, err = warn.ParseOps(v)
		if err != nil {
			return warn.Params{}, fmt.Errorf("invalid WARN_OPERATIONS: %w", err)
		}
	}

	minRegionSize := 0
	if v := os.Getenv("WARN_MIN_REGION_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return warn.Params{}, errors.New("WARN_MIN_REGION_SIZE must be a non-negative integer")
		}
		minRegionSize = n
	}

	params := warn.Params{
		Levels:          levels,
		Ops:             ops,
		GradualDecrease: os.Getenv("WARN_GRADUAL_DECREASE") == "true",
		MinRegionSize:   minRegionSize,
	}
	if err := params.Validate(); err != nil {
		return warn.Params{}, fmt.Errorf("invalid warn configuration: %w", err)
	}
	return params, nil
}

// parseLevels parses a comma-separated list of ascending level boundaries,
// e.g. "0,19.6,27.8,36.1,43.9" for wind gusts in m/s.
func parseLevels(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	levels := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid WARN_LEVELS entry %q", p)
		}
		levels = append(levels, v)
	}
	return levels, nil
}

func parseBatchSize() (int, error) {
	s := envOrDefault("BATCH_SIZE", "50")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 1000 {
		return 0, errors.New("BATCH_SIZE must be an integer between 1 and 1000")
	}
	return n, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration", key)
	}
	return d, nil
}

func parseUnitFraction(key, fallback string) (float64, error) {
	v, err := strconv.ParseFloat(envOrDefault(key, fallback), 64)
	if err != nil || v < 0 || v > 1 {
		return 0, fmt.Errorf("%s must be a number in [0, 1]", key)
	}
	return v, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if b := strings.TrimSpace(p); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

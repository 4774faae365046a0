// Package config loads service settings from environment variables and an
// optional YAML run file describing the input grammar and output format.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/astrofuse/sedfuse/internal/domain"
)

// Config holds all service settings.
type Config struct {
	InputPath  string
	OutputPath string
	PlotDir    string

	NEDBaseURL   string
	GatorBaseURL string
	DustBaseURL  string
	QueryTimeout time.Duration
	RequestDelay time.Duration

	ReddeningCacheSize int

	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Run-file settings, defaulted when no run file is given.
	Fields      []domain.FieldSpec
	Template    string
	PlotEnabled bool
}

// runFile is the YAML shape of the optional RUN_FILE: the input grammar,
// the output line template, and the plot toggle.
type runFile struct {
	Fields   []domain.FieldSpec `yaml:"fields"`
	Template string             `yaml:"template"`
	Plot     *bool              `yaml:"plot"`
}

// Load reads configuration from environment variables, applying defaults
// where unset, then overlays the run file when RUN_FILE is set.
func Load() (*Config, error) {
	queryTimeout, err := parsePositiveDuration("QUERY_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	requestDelay, err := parseDuration("REQUEST_DELAY", "1s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	kafkaBrokers := parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092"))
	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		InputPath:  os.Getenv("INPUT_PATH"),
		OutputPath: envOrDefault("OUTPUT_PATH", "results.dat"),
		PlotDir:    envOrDefault("PLOT_DIR", "plots"),

		NEDBaseURL:   os.Getenv("NED_BASE_URL"),
		GatorBaseURL: os.Getenv("GATOR_BASE_URL"),
		DustBaseURL:  os.Getenv("DUST_BASE_URL"),
		QueryTimeout: queryTimeout,
		RequestDelay: requestDelay,

		ReddeningCacheSize: parseCacheSize(),

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "reconciled-sources"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		Fields:      domain.DefaultFields(),
		Template:    domain.DefaultTemplate,
		PlotEnabled: true,
	}

	if path := os.Getenv("RUN_FILE"); path != "" {
		if err := cfg.applyRunFile(path); err != nil {
			return nil, err
		}
	}

	if cfg.InputPath == "" {
		return nil, errors.New("INPUT_PATH is required")
	}
	if cfg.RequestDelay < 0 {
		return nil, errors.New("REQUEST_DELAY must not be negative")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
		}
	}

	// Surface grammar and template mistakes at startup, not mid-batch.
	if _, err := domain.NewLineParser(cfg.Fields); err != nil {
		return nil, fmt.Errorf("input grammar: %w", err)
	}
	if _, err := domain.NewTemplate(cfg.Template); err != nil {
		return nil, fmt.Errorf("output template: %w", err)
	}

	return cfg, nil
}

// applyRunFile overlays grammar, template, and plot settings from a YAML
// run file. Absent keys keep their defaults.
func (c *Config) applyRunFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read run file: %w", err)
	}

	var rf runFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return fmt.Errorf("parse run file: %w", err)
	}

	if len(rf.Fields) > 0 {
		c.Fields = rf.Fields
	}
	if rf.Template != "" {
		c.Template = rf.Template
	}
	if rf.Plot != nil {
		c.PlotEnabled = *rf.Plot
	}
	return nil
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
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := parseDuration(key, fallback)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func parseCacheSize() int {
	if s := os.Getenv("REDDENING_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

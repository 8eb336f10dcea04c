// Package config loads the service settings. Values come from a TOML file,
// then from the environment (optionally seeded from a .env file); command
// line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	CounterFile     = "file"
	CounterMemory   = "memory"
	CounterPostgres = "postgres"
	CounterMongo    = "mongo"
)

var ErrInvalidConfig = fmt.Errorf("invalid configuration")

type Config struct {
	ServiceName string `toml:"serviceName"`
	Version     string `toml:"version"`
	Env         string `toml:"env"`
	HTTPAddr    string `toml:"httpAddr"`
	LogLevel    string `toml:"logLevel"`
	StaticDir   string `toml:"staticDir"`

	UserAgent       string `toml:"userAgent"`
	UpstreamTimeout string `toml:"upstreamTimeout"`
	ClientID        string `toml:"clientID"`
	ClientSecret    string `toml:"clientSecret"`

	CounterBackend string `toml:"counterBackend"`
	CounterPath    string `toml:"counterPath"`

	KafkaAddr  string `toml:"kafkaAddr"`
	KafkaTopic string `toml:"kafkaTopic"`
	KafkaBatch int    `toml:"kafkaBatch"`
}

func Default() *Config {
	return &Config{
		ServiceName:     "scraper",
		Version:         "1.0.0",
		Env:             "development",
		HTTPAddr:        ":8080",
		LogLevel:        "info",
		UserAgent:       "web:thread-scraper:v1.0.0",
		UpstreamTimeout: "15s",
		CounterBackend:  CounterFile,
		CounterPath:     "data/visitors.json",
		KafkaBatch:      1,
	}
}

// Load builds the configuration from the TOML file at path and the
// environment. A missing file or .env file is not an error.
func Load(path, envPath string) (*Config, error) {
	cfg := Default()

	if path != "" {
		_, err := toml.DecodeFile(path, cfg)
		if errors.Is(err, fs.ErrNotExist) {
			log.Warnf("[config] config file %s not found, using defaults", path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if envPath != "" {
		err := godotenv.Load(envPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envPath, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"SERVICE_NAME":         &c.ServiceName,
		"APP_VERSION":          &c.Version,
		"APP_ENV":              &c.Env,
		"HTTP_ADDR":            &c.HTTPAddr,
		"LOG_LEVEL":            &c.LogLevel,
		"STATIC_DIR":           &c.StaticDir,
		"REDDIT_USER_AGENT":    &c.UserAgent,
		"UPSTREAM_TIMEOUT":     &c.UpstreamTimeout,
		"REDDIT_CLIENT_ID":     &c.ClientID,
		"REDDIT_CLIENT_SECRET": &c.ClientSecret,
		"COUNTER_BACKEND":      &c.CounterBackend,
		"COUNTER_PATH":         &c.CounterPath,
		"KAFKA_ADDR":           &c.KafkaAddr,
		"KAFKA_TOPIC":          &c.KafkaTopic,
	}
	for key, dst := range strs {
		if value := os.Getenv(key); value != "" {
			*dst = value
		}
	}

	if value := os.Getenv("KAFKA_BATCH"); value != "" {
		batch, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: KAFKA_BATCH is not a valid integer", ErrInvalidConfig)
		}
		c.KafkaBatch = batch
	}

	return nil
}

// Validate checks the values that cannot be fixed up with a default.
func (c *Config) Validate() error {
	if _, err := c.Timeout(); err != nil {
		return fmt.Errorf("%w: upstreamTimeout: %v", ErrInvalidConfig, err)
	}

	switch c.CounterBackend {
	case CounterFile:
		if c.CounterPath == "" {
			return fmt.Errorf("%w: counterPath is required for the file counter", ErrInvalidConfig)
		}
	case CounterMemory, CounterPostgres, CounterMongo:
	default:
		return fmt.Errorf("%w: unknown counter backend %q", ErrInvalidConfig, c.CounterBackend)
	}

	if c.HTTPAddr != "" && !strings.Contains(c.HTTPAddr, ":") {
		log.Warn("[config] use ':' before port number, e.g. ':8080'")
	}

	return nil
}

func (c *Config) Timeout() (time.Duration, error) {
	return time.ParseDuration(c.UpstreamTimeout)
}

// Credentialed reports whether client credentials for the upstream API are set.
func (c *Config) Credentialed() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// KafkaEnabled reports whether access logs should be published.
func (c *Config) KafkaEnabled() bool {
	return c.KafkaAddr != "" && c.KafkaTopic != ""
}

// SetLogLevel applies level to the global logger. Unknown levels are ignored.
func SetLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string
	DataFile   string
	// data file settings
	CreateIfMissing bool
	WatchDataFile   bool
	// request limits
	MaxBodyBytes    int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// observability
	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
}

const durationHint = `a time duration value is a possibly signed sequence of decimal numbers, each with optional fraction and a unit suffix, such as "300ms", "-1.5h" or "2h45m"`

// change here only as it populates both default and env aware configs
var cfgDefaults = map[string]string{
	"SERVER_ADDR": "127.0.0.1:5000",
	"DATA_FILE":   "data/products.json",
	// data file settings
	"CREATE_IF_MISSING": "true",
	"WATCH_DATA_FILE":   "true",
	// request limits
	"MAX_BODY_BYTES":   "1048576",
	"READ_TIMEOUT":     "5s",
	"WRITE_TIMEOUT":    "10s",
	"SHUTDOWN_TIMEOUT": "5s",
	// observability
	"LOG_LEVEL":       "info",
	"LOG_FORMAT":      "json",
	"METRICS_ENABLED": "false",
}

// Default returns a configuration built from the defaults only, bypassing .env files and env vars
func Default() *Config {
	// safe to ignore the errors as the defaults are defined by us just above
	cfg, _ := build(func(key string) string { return cfgDefaults[key] })
	return cfg
}

// Load creates a config from env vars, falling back to a .env file and then to defaults
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file. A missing file is not an error; vars already set win over the file.
func LoadFile(filename string) (*Config, error) {
	if err := godotenv.Load(filename); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config error: could not load %s: %w", filename, err)
	}

	return build(getEnv)
}

func build(lookup func(key string) string) (*Config, error) {
	var errs []error

	parseBool := func(key string) bool {
		v, err := strconv.ParseBool(lookup(key))
		if err != nil {
			errs = append(errs, fmt.Errorf(`config error: %s should be "true" or "false"`, key))
		}
		return v
	}

	parseDuration := func(key string) time.Duration {
		v, err := time.ParseDuration(lookup(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("config error: %s: %s: %v", key, durationHint, err))
		} else if v <= 0 {
			errs = append(errs, fmt.Errorf("config error: %s must be positive", key))
		}
		return v
	}

	maxBody, err := strconv.ParseInt(lookup("MAX_BODY_BYTES"), 10, 64)
	if err != nil || maxBody <= 0 {
		errs = append(errs, fmt.Errorf("config error: MAX_BODY_BYTES must be a positive integer, got %q", lookup("MAX_BODY_BYTES")))
	}

	logFormat := strings.ToLower(lookup("LOG_FORMAT"))
	if logFormat != "json" && logFormat != "console" {
		errs = append(errs, fmt.Errorf("config error: invalid LOG_FORMAT: '%s'. valid options are 'json', 'console'", logFormat))
	}

	cfg := &Config{
		ServerAddr:      lookup("SERVER_ADDR"),
		DataFile:        lookup("DATA_FILE"),
		CreateIfMissing: parseBool("CREATE_IF_MISSING"),
		WatchDataFile:   parseBool("WATCH_DATA_FILE"),
		MaxBodyBytes:    maxBody,
		ReadTimeout:     parseDuration("READ_TIMEOUT"),
		WriteTimeout:    parseDuration("WRITE_TIMEOUT"),
		ShutdownTimeout: parseDuration("SHUTDOWN_TIMEOUT"),
		LogLevel:        strings.ToLower(lookup("LOG_LEVEL")),
		LogFormat:       logFormat,
		MetricsEnabled:  parseBool("METRICS_ENABLED"),
	}

	if cfg.DataFile == "" {
		errs = append(errs, errors.New("config error: DATA_FILE cannot be empty"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnv returns the value of an environment var or the default
func getEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return cfgDefaults[key]
}

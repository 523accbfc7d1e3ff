package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by FromEnv.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvLogProvider = "BLOISDEV_LOG_PROVIDER"
	EnvLogLevel    = "BLOISDEV_LOG_LEVEL"
	EnvLogFormat   = "BLOISDEV_LOG_FORMAT"
	EnvLogSource   = "BLOISDEV_LOG_SOURCE"
)

// Logging providers understood by the bootstrap.
const (
	LoggingProviderNone     = "none"
	LoggingProviderConsole  = "console"
	LoggingProviderGoLogger = "gologger"
)

var ErrLoggingProviderUnknown = errors.New("bloisdev config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("bloisdev config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("bloisdev config: logging format is invalid")
var ErrLoggingSourceInvalid = errors.New("bloisdev config: logging source flag is invalid")

// ErrAllowedExtensionsRequired guards against a publish config that would
// reject every file.
var ErrAllowedExtensionsRequired = errors.New("bloisdev config: at least one markdown extension is required")

// Config aggregates everything a publish run needs besides its arguments.
type Config struct {
	// DatabaseURL is the connection string; it is checked at publish time so
	// that file errors are reported first.
	DatabaseURL string
	Features    Features
	Logging     LoggingConfig
	Publish     PublishConfig
}

// Features toggles optional behaviour.
type Features struct {
	Logger bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool

	// invalidSource keeps an unparsable BLOISDEV_LOG_SOURCE value for Validate.
	invalidSource string
}

// PublishConfig holds defaults for the publish command.
type PublishConfig struct {
	AllowedExtensions []string
	DryRun            bool
}

// DefaultConfig returns a config with logging disabled and the markdown
// extensions accepted by the publisher.
func DefaultConfig() Config {
	return Config{
		Features: Features{
			Logger: false,
		},
		Logging: LoggingConfig{
			Provider: LoggingProviderNone,
			Level:    "info",
		},
		Publish: PublishConfig{
			AllowedExtensions: []string{".md", ".markdown"},
		},
	}
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// FromEnv layers environment values on top of DefaultConfig. A nil lookup
// reads the process environment. Setting a logging provider other than
// "none" turns the logger feature on.
func FromEnv(lookup LookupFunc) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := DefaultConfig()

	if value, ok := lookup(EnvDatabaseURL); ok {
		cfg.DatabaseURL = value
	}
	if value, ok := nonEmpty(lookup, EnvLogProvider); ok {
		cfg.Logging.Provider = value
	}
	if value, ok := nonEmpty(lookup, EnvLogLevel); ok {
		cfg.Logging.Level = value
	}
	if value, ok := nonEmpty(lookup, EnvLogFormat); ok {
		cfg.Logging.Format = value
	}
	if value, ok := nonEmpty(lookup, EnvLogSource); ok {
		if enabled, err := strconv.ParseBool(value); err == nil {
			cfg.Logging.AddSource = enabled
		} else {
			cfg.Logging.invalidSource = value
		}
	}

	cfg.Features.Logger = NormalizeProvider(cfg.Logging.Provider) != LoggingProviderNone
	return cfg
}

// Validate performs consistency checks. DatabaseURL is deliberately not
// checked here.
func (cfg Config) Validate() error {
	if len(cfg.Publish.AllowedExtensions) == 0 {
		return ErrAllowedExtensionsRequired
	}
	if !cfg.Features.Logger {
		return nil
	}
	provider := NormalizeProvider(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if cfg.Logging.invalidSource != "" {
		return fmt.Errorf("%w: %s", ErrLoggingSourceInvalid, cfg.Logging.invalidSource)
	}
	if provider == LoggingProviderGoLogger {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// NormalizeProvider lower-cases provider and maps the empty string to "none".
func NormalizeProvider(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return LoggingProviderNone
	}
	return provider
}

func nonEmpty(lookup LookupFunc, key string) (string, bool) {
	value, ok := lookup(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case LoggingProviderNone, LoggingProviderConsole, LoggingProviderGoLogger:
		return true
	}
	return false
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	}
	return false
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(format) {
	case "json", "console", "pretty":
		return true
	}
	return false
}

package runtimeconfig

import (
	"errors"
	"testing"
)

func envLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestDefaultConfigDisablesLogging(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Features.Logger {
		t.Fatal("expected logger feature disabled by default")
	}
	if len(cfg.Publish.AllowedExtensions) != 2 {
		t.Fatalf("expected two markdown extensions, got %v", cfg.Publish.AllowedExtensions)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestFromEnvReadsDatabaseURLAndLogging(t *testing.T) {
	cfg := FromEnv(envLookup(map[string]string{
		EnvDatabaseURL: "postgres://localhost/blog",
		EnvLogProvider: " Console ",
		EnvLogLevel:    "debug",
		EnvLogSource:   "true",
	}))

	if cfg.DatabaseURL != "postgres://localhost/blog" {
		t.Fatalf("unexpected database url %q", cfg.DatabaseURL)
	}
	if !cfg.Features.Logger {
		t.Fatal("expected logger feature enabled when a provider is set")
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.AddSource {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected config to validate, got %v", err)
	}
}

func TestFromEnvKeepsEmptyDatabaseURL(t *testing.T) {
	cfg := FromEnv(envLookup(map[string]string{}))
	if cfg.DatabaseURL != "" {
		t.Fatalf("expected empty database url, got %q", cfg.DatabaseURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("missing database url must not fail validation, got %v", err)
	}
}

func TestValidateRejectsBadLogging(t *testing.T) {
	cases := []struct {
		name    string
		logging LoggingConfig
		want    error
	}{
		{"provider", LoggingConfig{Provider: "syslog"}, ErrLoggingProviderUnknown},
		{"level", LoggingConfig{Provider: "console", Level: "loud"}, ErrLoggingLevelInvalid},
		{"format", LoggingConfig{Provider: "gologger", Format: "xml"}, ErrLoggingFormatInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Features.Logger = true
			cfg.Logging = tc.logging
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateRequiresExtensions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Publish.AllowedExtensions = nil
	if err := cfg.Validate(); !errors.Is(err, ErrAllowedExtensionsRequired) {
		t.Fatalf("expected ErrAllowedExtensionsRequired, got %v", err)
	}
}

func TestValidateRejectsUnparsableLogSource(t *testing.T) {
	cfg := FromEnv(envLookup(map[string]string{
		EnvLogProvider: "gologger",
		EnvLogSource:   "sometimes",
	}))
	if cfg.Logging.AddSource {
		t.Fatal("expected source logging to stay off for an unparsable value")
	}
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingSourceInvalid) {
		t.Fatalf("expected ErrLoggingSourceInvalid, got %v", err)
	}
}

func TestValidateAcceptsBooleanLogSource(t *testing.T) {
	for _, value := range []string{"1", "false", "TRUE"} {
		cfg := FromEnv(envLookup(map[string]string{
			EnvLogProvider: "console",
			EnvLogSource:   value,
		}))
		if err := cfg.Validate(); err != nil {
			t.Fatalf("expected %q to validate, got %v", value, err)
		}
	}
}

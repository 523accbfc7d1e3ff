package logging

import (
	"context"
	"strings"

	"github.com/bloisdev/bloisdev-cli/pkg/interfaces"
)

const (
	rootModule     = "bloisdev"
	publishModule  = "bloisdev.publish"
	databaseModule = "bloisdev.database"
)

const (
	fieldFilename = "filename"
	fieldStage    = "stage"
	fieldDryRun   = "dry_run"
)

// ModuleLogger returns a logger scoped to module. A nil provider, or one that
// hands back nil, yields the no-op logger. The module name is attached as the
// "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// RootLogger returns the top level CLI logger.
func RootLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rootModule)
}

// PublishLogger returns the logger used by the publish workflow.
func PublishLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, publishModule)
}

// DatabaseLogger returns the logger used around connection handling.
func DatabaseLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, databaseModule)
}

// WithPublishContext adds the file being published, the workflow stage and the
// dry run flag. Blank strings are skipped.
func WithPublishContext(logger interfaces.Logger, filename, stage string, dryRun bool) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(filename); trimmed != "" {
		fields[fieldFilename] = trimmed
	}
	if trimmed := strings.TrimSpace(stage); trimmed != "" {
		fields[fieldStage] = trimmed
	}
	if dryRun {
		fields[fieldDryRun] = true
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}

package logging

import (
	"maps"

	"github.com/bloisdev/bloisdev-cli/pkg/interfaces"
)

// WithFields attaches fields when logger implements interfaces.FieldsLogger and
// returns logger unchanged otherwise. The map is copied before use.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// ProviderWithFields wraps provider so every logger it hands out carries
// fields. A nil provider stays nil.
func ProviderWithFields(provider interfaces.LoggerProvider, fields map[string]any) interfaces.LoggerProvider {
	if provider == nil || len(fields) == 0 {
		return provider
	}
	return fieldsProvider{inner: provider, fields: maps.Clone(fields)}
}

type fieldsProvider struct {
	inner  interfaces.LoggerProvider
	fields map[string]any
}

func (p fieldsProvider) GetLogger(name string) interfaces.Logger {
	logger := p.inner.GetLogger(name)
	if logger == nil {
		return nil
	}
	return WithFields(logger, p.fields)
}

package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/bloisdev/bloisdev-cli/internal/logging"
	"github.com/bloisdev/bloisdev-cli/pkg/interfaces"
)

// TelemetryStatus is the outcome of one run.
type TelemetryStatus string

const (
	TelemetryStatusSuccess     TelemetryStatus = "success"
	TelemetryStatusFailed      TelemetryStatus = "failed"
	TelemetryStatusInterrupted TelemetryStatus = "interrupted"
)

// TelemetryInfo describes one run that got past validation.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
}

type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry writes one summary entry per run. Interrupted runs are
// warnings since the user asked for them; failures are errors and carry the
// go-errors text code when there is one.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(ctx context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger, info.Fields).WithContext(ctx)
		args := []any{"status", string(info.Status), "duration_ms", info.Duration.Milliseconds()}

		if info.Status == TelemetryStatusSuccess {
			entry.Info("bloisdev.command.finished", args...)
			return
		}

		args = append(args, "error", info.Error)
		var categorised *goerrors.Error
		if goerrors.As(info.Error, &categorised) && categorised.TextCode != "" {
			args = append(args, "text_code", categorised.TextCode)
		}
		if info.Status == TelemetryStatusInterrupted {
			entry.Warn("bloisdev.command.interrupted", args...)
			return
		}
		entry.Error("bloisdev.command.failed", args...)
	}
}

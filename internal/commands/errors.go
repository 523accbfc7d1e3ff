package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes for errors a handler categorises itself. Errors that already
// carry a go-errors category keep their own code.
const (
	TextCodeMessageRejected = "BLOISDEV_COMMAND_REJECTED"
	TextCodeInterrupted     = "BLOISDEV_COMMAND_INTERRUPTED"
	TextCodeDeadline        = "BLOISDEV_COMMAND_DEADLINE"
	TextCodeFailed          = "BLOISDEV_COMMAND_FAILED"
)

const metaCommand = "command"

// rejected tags a message that failed its own Validate. The CLI reports these
// like bad arguments.
func rejected(commandType string, err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
		WithTextCode(TextCodeMessageRejected).
		WithMetadata(map[string]any{metaCommand: commandType})
}

// classify maps the outcome of a run onto its telemetry status and, for
// uncategorised errors, a command category error. Context errors keep the
// interrupted status even when the workflow already wrapped them.
func classify(commandType string, err error) (error, TelemetryStatus) {
	if err == nil {
		return nil, TelemetryStatusSuccess
	}

	status := TelemetryStatusFailed
	if isContextError(err) {
		status = TelemetryStatusInterrupted
	}
	if goerrors.IsWrapped(err) {
		return err, status
	}

	code, message := TextCodeFailed, commandType+" failed"
	switch {
	case errors.Is(err, context.Canceled):
		code, message = TextCodeInterrupted, commandType+" interrupted"
	case errors.Is(err, context.DeadlineExceeded):
		code, message = TextCodeDeadline, commandType+" ran past its deadline"
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).
		WithTextCode(code).
		WithMetadata(map[string]any{metaCommand: commandType}), status
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

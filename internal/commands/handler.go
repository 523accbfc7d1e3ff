package commands

import (
	"context"
	"time"

	"github.com/bloisdev/bloisdev-cli/internal/logging"
	"github.com/bloisdev/bloisdev-cli/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler wraps a command function with validation, context checks, logging
// and error categorisation. It satisfies command.Commander[T].
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	fields    func(T) map[string]any
	telemetry Telemetry[T]
	clock     func() time.Time
}

// NewHandler panics when fn is nil.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:   fn,
		logger: logging.NoOp(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute validates msg, then runs the wrapped function. Validation failures
// carry the validation category; execution errors that are not already
// categorised are tagged as command errors.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	commandType := command.GetMessageType(msg)
	if err := command.ValidateMessage(msg); err != nil {
		return rejected(commandType, err)
	}

	ctx, cancel, err := runContext(ctx, h.timeout)
	defer cancel()
	if err != nil {
		err, _ = classify(commandType, err)
		return err
	}

	fields := map[string]any{
		metaCommand: commandType,
	}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.fields != nil {
		for key, value := range h.fields(msg) {
			fields[key] = value
		}
	}
	logger := logging.WithFields(h.logger, fields).WithContext(ctx)
	logger.Debug("bloisdev.command.started")

	started := h.clock()
	runErr := h.exec(ctx, msg)
	info := TelemetryInfo{
		Command:   commandType,
		Operation: h.operation,
		Fields:    fields,
		Duration:  h.clock().Sub(started),
		Error:     runErr,
	}
	err, info.Status = classify(commandType, runErr)

	if h.telemetry != nil {
		h.telemetry(ctx, msg, info)
	}
	return err
}

// WithTimeout gives every run a deadline. Zero or a negative value leaves runs
// bounded only by the caller's context.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		if timeout < 0 {
			timeout = 0
		}
		h.timeout = timeout
	}
}

// WithLogger injects the logger used during execution.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		if logger == nil {
			logger = logging.NoOp()
		}
		h.logger = logger
	}
}

// WithOperation sets the operation name emitted with every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields derives extra log fields from each message.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

// WithTelemetry registers a callback invoked after every execution that got
// past validation.
func WithTelemetry[T command.Message](telemetry Telemetry[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.telemetry = telemetry
	}
}

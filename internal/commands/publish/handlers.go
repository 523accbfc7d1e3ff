package publishcmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/bloisdev/bloisdev-cli/internal/commands"
	"github.com/bloisdev/bloisdev-cli/internal/logging"
	"github.com/bloisdev/bloisdev-cli/internal/publish"
	"github.com/bloisdev/bloisdev-cli/pkg/interfaces"
)

const publishOperation = "publish.file"

var _ command.Commander[PublishFileCommand] = (*PublishFileHandler)(nil)

// Publisher is the workflow the handler drives.
type Publisher interface {
	Publish(ctx context.Context, req publish.Request) (*publish.Result, error)
}

// PublishFileHandler runs PublishFileCommand through the shared command
// handler foundation.
type PublishFileHandler struct {
	inner *commands.Handler[PublishFileCommand]
}

// NewPublishFileHandler binds the handler to publisher. Runs get no deadline
// of their own; a slow database is left to the caller's context.
func NewPublishFileHandler(publisher Publisher, logger interfaces.Logger, opts ...commands.HandlerOption[PublishFileCommand]) *PublishFileHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg PublishFileCommand) error {
		result, err := publisher.Publish(ctx, publish.Request{
			Filename: msg.Filename,
			Title:    msg.Title,
			DryRun:   msg.DryRun,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"post_id":    result.Post.ID,
				"created_at": result.Post.CreatedAt,
				"bytes":      len(result.Submission.Content),
				"dry_run":    result.DryRun,
			}).Info("publish.command.file.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[PublishFileCommand]{
		commands.WithLogger[PublishFileCommand](baseLogger),
		commands.WithOperation[PublishFileCommand](publishOperation),
		commands.WithMessageFields(func(msg PublishFileCommand) map[string]any {
			fields := map[string]any{
				"filename": msg.Filename,
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[PublishFileCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishFileHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PublishFileCommand].
func (h *PublishFileHandler) Execute(ctx context.Context, msg PublishFileCommand) error {
	return h.inner.Execute(ctx, msg)
}

package bootstrap

import (
	"context"
	"io"
	"os"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/bloisdev/bloisdev-cli/internal/commands"
	publishcmd "github.com/bloisdev/bloisdev-cli/internal/commands/publish"
	"github.com/bloisdev/bloisdev-cli/internal/logging"
	"github.com/bloisdev/bloisdev-cli/internal/logging/console"
	"github.com/bloisdev/bloisdev-cli/internal/logging/gologger"
	"github.com/bloisdev/bloisdev-cli/internal/posts"
	"github.com/bloisdev/bloisdev-cli/internal/publish"
	"github.com/bloisdev/bloisdev-cli/internal/runtimeconfig"
	"github.com/bloisdev/bloisdev-cli/pkg/interfaces"
)

// TextCodeConfigInvalid tags configuration errors raised while bootstrapping.
const TextCodeConfigInvalid = "BOOTSTRAP_CONFIG_INVALID"

const fieldInvocationID = "invocation_id"

// Options captures what the CLI resolved from its flags. Blank logging values
// leave the environment configuration in place.
type Options struct {
	Lookup      runtimeconfig.LookupFunc
	Stdout      io.Writer
	Stderr      io.Writer
	LogProvider string
	LogLevel    string
	LogFormat   string
	DryRun      bool

	// LoggerProvider replaces the provider selected by configuration.
	LoggerProvider interfaces.LoggerProvider
	// StoreOpener replaces the bun backed post store.
	StoreOpener interfaces.PostStoreOpener
}

// Module holds the wired publish workflow for one invocation.
type Module struct {
	Config       runtimeconfig.Config
	InvocationID uuid.UUID
	Logger       interfaces.Logger
	Publisher    *publish.Service
	Handler      *publishcmd.PublishFileHandler
}

// BuildModule loads configuration, selects the logger provider and wires the
// publish service behind its command handler. Configuration problems come
// back as usage errors.
func BuildModule(opts Options) (*Module, error) {
	cfg := runtimeconfig.FromEnv(opts.Lookup)
	applyOverrides(&cfg, opts)

	if err := cfg.Validate(); err != nil {
		return nil, configError(err)
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	provider := opts.LoggerProvider
	if provider == nil {
		built, err := buildLoggerProvider(cfg, stderr)
		if err != nil {
			return nil, configError(err)
		}
		provider = built
	}

	invocationID := uuid.New()
	provider = logging.ProviderWithFields(provider, map[string]any{
		fieldInvocationID: invocationID.String(),
	})

	opener := opts.StoreOpener
	if opener == nil {
		opener = posts.NewStoreOpener(logging.DatabaseLogger(provider))
	}

	publisher := publish.NewService(publish.Config{
		DatabaseURL:       cfg.DatabaseURL,
		AllowedExtensions: cfg.Publish.AllowedExtensions,
	}, opener,
		publish.WithOutput(stdout),
		publish.WithLogger(logging.PublishLogger(provider)),
	)

	handler := publishcmd.NewPublishFileHandler(publisher, commands.CommandLogger(provider, "publish"))

	return &Module{
		Config:       cfg,
		InvocationID: invocationID,
		Logger:       logging.RootLogger(provider),
		Publisher:    publisher,
		Handler:      handler,
	}, nil
}

// Context returns parent annotated with the invocation id.
func (m *Module) Context(parent context.Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return logging.ContextWithFields(parent, map[string]any{
		fieldInvocationID: m.InvocationID.String(),
	})
}

func applyOverrides(cfg *runtimeconfig.Config, opts Options) {
	if value := strings.TrimSpace(opts.LogProvider); value != "" {
		cfg.Logging.Provider = value
	}
	if value := strings.TrimSpace(opts.LogLevel); value != "" {
		cfg.Logging.Level = value
	}
	if value := strings.TrimSpace(opts.LogFormat); value != "" {
		cfg.Logging.Format = value
	}
	if opts.DryRun {
		cfg.Publish.DryRun = true
	}
	cfg.Features.Logger = runtimeconfig.NormalizeProvider(cfg.Logging.Provider) != runtimeconfig.LoggingProviderNone
}

func buildLoggerProvider(cfg runtimeconfig.Config, stderr io.Writer) (interfaces.LoggerProvider, error) {
	if !cfg.Features.Logger {
		return nil, nil
	}

	switch runtimeconfig.NormalizeProvider(cfg.Logging.Provider) {
	case runtimeconfig.LoggingProviderConsole:
		level, _ := console.ParseLevel(cfg.Logging.Level)
		return console.NewProvider(console.Options{
			Writer:   stderr,
			MinLevel: &level,
		}), nil
	case runtimeconfig.LoggingProviderGoLogger:
		provider, err := gologger.NewProvider(gologger.Config{
			Writer:    stderr,
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, nil
	}
}

func configError(err error) error {
	return goerrors.Wrap(err, publish.CategoryUsage, err.Error()).
		WithTextCode(TextCodeConfigInvalid)
}

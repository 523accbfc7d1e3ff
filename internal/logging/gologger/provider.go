package gologger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/bloisdev/bloisdev-cli/internal/logging"
	"github.com/bloisdev/bloisdev-cli/pkg/interfaces"
)

// Config mirrors the go-logger options exposed through runtime configuration.
type Config struct {
	// Writer receives every entry. Nil means os.Stderr.
	Writer    io.Writer
	Level     string
	Format    string
	AddSource bool
}

// Provider hands out named loggers built on go-logger's handler layer and
// level scheme. glog.NewLogger is not used because it always writes to
// os.Stdout, which carries the publish report.
type Provider struct {
	handler slog.Handler
}

// NewProvider builds the shared handler from cfg. Format accepts json (the
// default), console or pretty.
func NewProvider(cfg Config) (*Provider, error) {
	out := cfg.Writer
	if out == nil {
		out = os.Stderr
	}
	opts := handlerOptions(cfg)

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", glog.LoggerTypeJSON:
		handler = slog.NewJSONHandler(out, opts)
	case glog.LoggerTypeConsole:
		handler = slog.NewTextHandler(out, opts)
	case glog.LoggerTypePretty:
		handler = glog.NewColorConsoleHandler(out, opts)
	default:
		return nil, fmt.Errorf("logging: unsupported go-logger format %q", cfg.Format)
	}

	return &Provider{handler: handler}, nil
}

// GetLogger returns a logger tagged with the module name.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.handler == nil {
		return logging.NoOp()
	}
	handler := p.handler
	if name = strings.TrimSpace(name); name != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("logger", name)})
	}
	return &adapter{logger: slog.New(handler), ctx: context.Background()}
}

func handlerOptions(cfg Config) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:     levelFor(cfg.Level),
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				a.Key = "ts"
			case slog.LevelKey:
				level, ok := a.Value.Any().(slog.Level)
				if !ok {
					return a
				}
				label, exists := glog.CustomLevels[level]
				if !exists {
					label = level.String()
				}
				a.Value = slog.StringValue(strings.ToLower(label))
			}
			return a
		},
	}
}

func levelFor(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case glog.Trace:
		return glog.LevelTrace
	case glog.Debug:
		return slog.LevelDebug
	case glog.Warn, "WARNING":
		return slog.LevelWarn
	case glog.Error:
		return slog.LevelError
	case glog.Fatal:
		return glog.LevelFatal
	default:
		return slog.LevelInfo
	}
}

type adapter struct {
	logger *slog.Logger
	ctx    context.Context
}

var (
	_ interfaces.Logger       = (*adapter)(nil)
	_ interfaces.FieldsLogger = (*adapter)(nil)
)

func (l *adapter) Trace(msg string, args ...any) { l.log(glog.LevelTrace, msg, args...) }
func (l *adapter) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }

// Fatal records the entry at fatal level. Exiting is left to the caller, which
// owns the exit code.
func (l *adapter) Fatal(msg string, args ...any) { l.log(glog.LevelFatal, msg, args...) }

// log builds the record itself so the source attribute points at the caller
// of Trace/Debug/... rather than this file.
func (l *adapter) log(level slog.Level, msg string, args ...any) {
	if !l.logger.Enabled(l.ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	record := slog.NewRecord(time.Now(), level, msg, pcs[0])
	record.Add(args...)
	_ = l.logger.Handler().Handle(l.ctx, record)
}

// WithFields attaches fields in key order, matching glog.BaseLogger.
func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return &adapter{logger: l.logger.With(args...), ctx: l.ctx}
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	return &adapter{logger: l.logger, ctx: ctx}
}

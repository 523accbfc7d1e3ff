package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bloisdev/bloisdev-cli/internal/logging"
	"github.com/bloisdev/bloisdev-cli/pkg/interfaces"
)

// Config controls which files are accepted and where the post is stored.
type Config struct {
	// DatabaseURL is only checked once the file has been read.
	DatabaseURL       string
	AllowedExtensions []string
}

// Request is one publish invocation.
type Request struct {
	Filename string
	Title    string
	DryRun   bool
}

// Result describes a successful publish.
type Result struct {
	Submission Submission
	Post       interfaces.PersistedPost
	DryRun     bool
}

// Service runs the publish workflow against a post store.
type Service struct {
	cfg    Config
	open   interfaces.PostStoreOpener
	out    io.Writer
	logger interfaces.Logger
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithOutput sets the writer for the progress and report lines.
func WithOutput(out io.Writer) ServiceOption {
	return func(s *Service) {
		if out != nil {
			s.out = out
		}
	}
}

// WithLogger sets the workflow logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService panics when open is nil.
func NewService(cfg Config, open interfaces.PostStoreOpener, opts ...ServiceOption) *Service {
	if open == nil {
		panic("publish: store opener cannot be nil")
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = DefaultExtensions
	}

	s := &Service{
		cfg:    cfg,
		open:   open,
		out:    os.Stdout,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish prints the progress line, validates and reads the file, connects
// and inserts the post, then prints the report line. Nothing is written to the
// database unless every earlier step succeeded.
func (s *Service) Publish(ctx context.Context, req Request) (*Result, error) {
	fmt.Fprintln(s.out, ProgressLine(req.Filename))

	logger := logging.WithPublishContext(s.logger, req.Filename, StageValidate, req.DryRun).WithContext(ctx)

	submission, err := LoadSubmission(req.Filename, req.Title, s.cfg.AllowedExtensions)
	if err != nil {
		logger.Debug("publish.submission.rejected", "error", err)
		return nil, err
	}
	logger.Debug("publish.submission.loaded", "bytes", len(submission.Content))

	dsn := s.cfg.DatabaseURL
	if strings.TrimSpace(dsn) == "" {
		return nil, errDatabaseURLMissing()
	}

	store, closeStore, err := s.open(ctx, dsn)
	if err != nil {
		return nil, errDatabase(req.Filename, StageConnect, err)
	}
	defer func() {
		if closeStore != nil {
			_ = closeStore()
		}
	}()

	post, err := store.Insert(ctx, interfaces.NewPost{
		Title:   submission.Title,
		Content: submission.Content,
	}, interfaces.InsertOptions{DryRun: req.DryRun})
	if err != nil {
		return nil, errDatabase(req.Filename, StageInsert, err)
	}
	if post == nil {
		post = &interfaces.PersistedPost{}
	}

	logger = logging.WithPublishContext(s.logger, req.Filename, StageInsert, req.DryRun).WithContext(ctx)
	if missing := missingFields(post); len(missing) > 0 {
		logger.Warn("publish.insert.missing_returned_values", "fields", strings.Join(missing, ","))
	}
	logger.Info("publish.insert.success", "id", post.ID)

	fmt.Fprintln(s.out, ReportLine(post, req.DryRun))

	return &Result{
		Submission: submission,
		Post:       *post,
		DryRun:     req.DryRun,
	}, nil
}

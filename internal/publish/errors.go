package publish

import (
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/bloisdev/bloisdev-cli/internal/database"
)

// CategoryUsage marks argument, file and environment problems.
const CategoryUsage = goerrors.CategoryBadInput

// CategoryDatabase marks connect, insert and commit failures.
var CategoryDatabase = goerrors.CategoryExternal.Extend("database")

const (
	TextCodeInvalidExtension   = "PUBLISH_INVALID_EXTENSION"
	TextCodeFileNotFound       = "PUBLISH_FILE_NOT_FOUND"
	TextCodeFileReadFailed     = "PUBLISH_FILE_READ_FAILED"
	TextCodeInvalidEncoding    = "PUBLISH_INVALID_ENCODING"
	TextCodeDatabaseURLMissing = "PUBLISH_DATABASE_URL_MISSING"
	TextCodeDatabaseError      = "PUBLISH_DATABASE_ERROR"
)

// Exit codes returned by the CLI.
const (
	ExitOK       = 0
	ExitInternal = 1
	ExitUsage    = 2
	ExitDatabase = 3
)

// Workflow stages recorded in error metadata and log fields.
const (
	StageValidate = "validate"
	StageRead     = "read"
	StageConfig   = "config"
	StageConnect  = "connect"
	StageInsert   = "insert"
)

const (
	metaFilename = "filename"
	metaStage    = "stage"
)

// ErrInvalidEncoding is the cause attached when a file is not UTF-8 text.
var ErrInvalidEncoding = errors.New("invalid UTF-8 text")

func errInvalidExtension(filename string) *goerrors.Error {
	return goerrors.New(fmt.Sprintf("file '%s' does not look like a Markdown file", filename), CategoryUsage).
		WithTextCode(TextCodeInvalidExtension).
		WithMetadata(map[string]any{metaFilename: filename, metaStage: StageValidate})
}

func errFileNotFound(filename string, cause error) *goerrors.Error {
	return goerrors.Wrap(cause, CategoryUsage, fmt.Sprintf("file '%s' not found", filename)).
		WithTextCode(TextCodeFileNotFound).
		WithMetadata(map[string]any{metaFilename: filename, metaStage: StageRead})
}

func errFileRead(filename string, cause error) *goerrors.Error {
	return goerrors.Wrap(cause, CategoryUsage, fmt.Sprintf("reading '%s' failed", filename)).
		WithTextCode(TextCodeFileReadFailed).
		WithMetadata(map[string]any{metaFilename: filename, metaStage: StageRead})
}

func errInvalidEncoding(filename string, offset int) *goerrors.Error {
	cause := fmt.Errorf("%w at byte offset %d", ErrInvalidEncoding, offset)
	return goerrors.Wrap(cause, CategoryUsage, fmt.Sprintf("reading '%s' failed", filename)).
		WithTextCode(TextCodeInvalidEncoding).
		WithMetadata(map[string]any{metaFilename: filename, metaStage: StageRead})
}

func errDatabaseURLMissing() *goerrors.Error {
	return goerrors.New("environment variable DATABASE_URL is not set", CategoryUsage).
		WithTextCode(TextCodeDatabaseURLMissing).
		WithMetadata(map[string]any{metaStage: StageConfig})
}

// errDatabase never reuses the category of an already categorised cause; the
// database boundary always decides the exit code.
func errDatabase(filename, stage string, cause error) *goerrors.Error {
	meta := map[string]any{metaFilename: filename, metaStage: stage}
	for key, value := range database.ErrorMetadata(cause) {
		meta[key] = value
	}
	return &goerrors.Error{
		Category:  CategoryDatabase,
		TextCode:  TextCodeDatabaseError,
		Message:   "database error",
		Source:    cause,
		Metadata:  meta,
		Timestamp: time.Now(),
		Severity:  goerrors.SeverityError,
	}
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case goerrors.IsCategory(err, CategoryDatabase):
		return ExitDatabase
	case goerrors.IsCategory(err, CategoryUsage),
		goerrors.IsCategory(err, goerrors.CategoryValidation):
		return ExitUsage
	default:
		return ExitInternal
	}
}

// Describe renders the single stderr line for err.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var perr *goerrors.Error
	if !goerrors.As(err, &perr) {
		return "Error: " + err.Error()
	}

	filename, _ := perr.Metadata[metaFilename].(string)
	switch perr.TextCode {
	case TextCodeInvalidExtension:
		return fmt.Sprintf("Error: file '%s' does not look like a Markdown file.", filename)
	case TextCodeFileNotFound:
		return fmt.Sprintf("Error: file '%s' not found.", filename)
	case TextCodeFileReadFailed, TextCodeInvalidEncoding:
		return fmt.Sprintf("Error reading '%s': %s", filename, causeText(perr))
	case TextCodeDatabaseURLMissing:
		return "Error: environment variable DATABASE_URL is not set."
	case TextCodeDatabaseError:
		return "Database error: " + causeText(perr)
	}

	if perr.Category == goerrors.CategoryValidation {
		return "Error: " + causeText(perr)
	}
	return "Error: " + perr.Message
}

func causeText(err *goerrors.Error) string {
	if err.Source != nil {
		return err.Source.Error()
	}
	return err.Message
}

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bloisdev/bloisdev-cli/cmd/bloisdev/internal/bootstrap"
	"github.com/bloisdev/bloisdev-cli/internal/runtimeconfig"
	"github.com/bloisdev/bloisdev-cli/pkg/interfaces"
	"github.com/bloisdev/bloisdev-cli/pkg/testsupport"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, env map[string]string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	lookup := func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
	code := run(args, runtimeconfig.LookupFunc(lookup), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func sqliteEnv(path string) map[string]string {
	return map[string]string{runtimeconfig.EnvDatabaseURL: "sqlite://" + path}
}

func TestRunPublishesPost(t *testing.T) {
	dbPath := testsupport.NewSQLitePostsFile(t)
	file := testsupport.WriteFixture(t, "hello.md", []byte("# Hello\n\nWorld\n"))

	res := runCLI(t, sqliteEnv(dbPath), file, "--title", "Hello")
	if res.code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", res.code, res.stderr)
	}

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two stdout lines, got %q", res.stdout)
	}
	if lines[0] != "Processing file "+file+" 🧙" {
		t.Fatalf("unexpected progress line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Inserted post id=1 created_at=") || strings.HasSuffix(lines[1], "<none>") {
		t.Fatalf("unexpected report line %q", lines[1])
	}
	if res.stderr != "" {
		t.Fatalf("expected empty stderr, got %q", res.stderr)
	}

	rows := testsupport.ReadPosts(t, dbPath)
	if len(rows) != 1 || rows[0].Title != "Hello" || rows[0].Content != "# Hello\n\nWorld\n" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestRunAcceptsFlagsAfterFilename(t *testing.T) {
	dbPath := testsupport.NewSQLitePostsFile(t)
	file := testsupport.WriteFixture(t, "hello.MARKDOWN", []byte("body"))

	res := runCLI(t, sqliteEnv(dbPath), "-t", "First", file, "--dry-run")
	if res.code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "Dry run: post id=1") || !strings.Contains(res.stdout, "rolled back") {
		t.Fatalf("unexpected stdout %q", res.stdout)
	}
	if rows := testsupport.ReadPosts(t, dbPath); len(rows) != 0 {
		t.Fatalf("expected dry run to leave no rows, got %+v", rows)
	}
}

func TestRunRejectsNonMarkdownWithoutDatabase(t *testing.T) {
	opened := 0
	original := moduleBuilder
	moduleBuilder = func(opts bootstrap.Options) (*bootstrap.Module, error) {
		opts.StoreOpener = func(context.Context, string) (interfaces.PostStore, func() error, error) {
			opened++
			return nil, nil, errors.New("unexpected connect")
		}
		return original(opts)
	}
	t.Cleanup(func() { moduleBuilder = original })

	res := runCLI(t, map[string]string{runtimeconfig.EnvDatabaseURL: "postgres://unreachable.invalid/blog"}, "notes.txt", "--title", "x")
	if res.code != 2 {
		t.Fatalf("expected exit 2, got %d", res.code)
	}
	if opened != 0 {
		t.Fatalf("expected no connection attempt, got %d", opened)
	}
	if res.stdout != "Processing file notes.txt 🧙\n" {
		t.Fatalf("expected only the progress line, got %q", res.stdout)
	}
	if strings.TrimSpace(res.stderr) != "Error: file 'notes.txt' does not look like a Markdown file." {
		t.Fatalf("unexpected stderr %q", res.stderr)
	}
}

func TestRunMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.md")

	res := runCLI(t, map[string]string{runtimeconfig.EnvDatabaseURL: "sqlite://unused.db"}, missing, "-t", "x")
	if res.code != 2 {
		t.Fatalf("expected exit 2, got %d", res.code)
	}
	if !strings.Contains(res.stderr, "not found") {
		t.Fatalf("expected not found message, got %q", res.stderr)
	}
}

func TestRunMissingDatabaseURL(t *testing.T) {
	file := testsupport.WriteFixture(t, "hello.md", []byte("body"))

	res := runCLI(t, nil, file, "-t", "x")
	if res.code != 2 {
		t.Fatalf("expected exit 2, got %d", res.code)
	}
	if strings.TrimSpace(res.stderr) != "Error: environment variable DATABASE_URL is not set." {
		t.Fatalf("unexpected stderr %q", res.stderr)
	}
}

func TestRunDatabaseError(t *testing.T) {
	dbPath := testsupport.NewSQLiteFile(t)
	file := testsupport.WriteFixture(t, "hello.md", []byte("body"))

	res := runCLI(t, sqliteEnv(dbPath), file, "-t", "x")
	if res.code != 3 {
		t.Fatalf("expected exit 3, got %d (stderr %q)", res.code, res.stderr)
	}
	if !strings.HasPrefix(res.stderr, "Database error: ") {
		t.Fatalf("unexpected stderr %q", res.stderr)
	}
	if strings.Contains(res.stdout, "Inserted post") {
		t.Fatalf("expected no success line, got %q", res.stdout)
	}
}

func TestRunUnsupportedDatabaseScheme(t *testing.T) {
	file := testsupport.WriteFixture(t, "hello.md", []byte("body"))

	res := runCLI(t, map[string]string{runtimeconfig.EnvDatabaseURL: "mysql://localhost/blog"}, file, "-t", "x")
	if res.code != 3 {
		t.Fatalf("expected exit 3, got %d", res.code)
	}
}

func TestRunArgumentErrors(t *testing.T) {
	cases := map[string][]string{
		"no file":      {"--title", "x"},
		"two files":    {"a.md", "b.md", "--title", "x"},
		"unknown flag": {"a.md", "--title", "x", "--verbose"},
		"no title":     {"a.md"},
		"blank title":  {"a.md", "--title", "  "},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			res := runCLI(t, nil, args...)
			if res.code != 2 {
				t.Fatalf("expected exit 2, got %d (stderr %q)", res.code, res.stderr)
			}
			if res.stdout != "" {
				t.Fatalf("expected nothing on stdout, got %q", res.stdout)
			}
			if res.stderr == "" {
				t.Fatal("expected a message on stderr")
			}
		})
	}
}

func TestRunHelp(t *testing.T) {
	res := runCLI(t, nil, "-h")
	if res.code != 0 {
		t.Fatalf("expected exit 0, got %d", res.code)
	}
	if !strings.Contains(res.stderr, "usage: bloisdev") {
		t.Fatalf("expected usage on stderr, got %q", res.stderr)
	}
}

func TestRunInvalidLoggingConfigExitsBeforeFileAccess(t *testing.T) {
	res := runCLI(t, map[string]string{runtimeconfig.EnvLogProvider: "syslog"}, filepath.Join(t.TempDir(), "missing.md"), "-t", "x")
	if res.code != 2 {
		t.Fatalf("expected exit 2, got %d", res.code)
	}
	if res.stdout != "" {
		t.Fatalf("expected no progress line, got %q", res.stdout)
	}
	if !strings.Contains(res.stderr, "logging provider is invalid") {
		t.Fatalf("unexpected stderr %q", res.stderr)
	}
}

func TestRunConsoleLoggingGoesToStderr(t *testing.T) {
	dbPath := testsupport.NewSQLitePostsFile(t)
	file := testsupport.WriteFixture(t, "hello.md", []byte("body"))

	res := runCLI(t, sqliteEnv(dbPath), file, "-t", "x", "--log-provider", "console", "--log-level", "debug")
	if res.code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", res.code, res.stderr)
	}
	if !strings.Contains(res.stderr, "publish.insert.success") || !strings.Contains(res.stderr, "invocation_id=") {
		t.Fatalf("expected structured log entries on stderr, got %q", res.stderr)
	}
	if strings.Contains(res.stdout, "publish.insert.success") {
		t.Fatalf("expected logs kept off stdout, got %q", res.stdout)
	}
}

func TestRunGoLoggerKeepsProcessStdoutClean(t *testing.T) {
	dbPath := testsupport.NewSQLitePostsFile(t)
	file := testsupport.WriteFixture(t, "hello.md", []byte("body"))

	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	original := os.Stdout
	os.Stdout = writer
	t.Cleanup(func() { os.Stdout = original })

	res := runCLI(t, sqliteEnv(dbPath), file, "-t", "x", "--log-provider", "gologger", "--log-level", "debug")

	os.Stdout = original
	writer.Close()
	leaked, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		t.Fatalf("read pipe: %v", err)
	}

	if res.code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", res.code, res.stderr)
	}
	if len(leaked) != 0 {
		t.Fatalf("expected nothing written to process stdout, got %q", leaked)
	}
	if strings.Contains(res.stdout, "publish.insert.success") {
		t.Fatalf("expected logs kept off stdout, got %q", res.stdout)
	}
	if !strings.Contains(res.stderr, `"msg":"publish.insert.success"`) || !strings.Contains(res.stderr, `"logger":"bloisdev.publish"`) {
		t.Fatalf("expected json log entries on stderr, got %q", res.stderr)
	}
}

func TestRunGoLoggerTagsInsertStage(t *testing.T) {
	dbPath := testsupport.NewSQLitePostsFile(t)
	file := testsupport.WriteFixture(t, "hello.md", []byte("body"))

	res := runCLI(t, sqliteEnv(dbPath), file, "-t", "x", "--log-provider", "gologger")
	if res.code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", res.code, res.stderr)
	}
	for _, line := range strings.Split(res.stderr, "\n") {
		if strings.Contains(line, `"msg":"publish.insert.success"`) {
			if !strings.Contains(line, `"stage":"insert"`) {
				t.Fatalf("expected insert stage on success entry, got %q", line)
			}
			return
		}
	}
	t.Fatalf("expected publish.insert.success entry, got %q", res.stderr)
}

func TestRunRejectsUnparsableLogSource(t *testing.T) {
	file := testsupport.WriteFixture(t, "hello.md", []byte("body"))

	res := runCLI(t, map[string]string{
		runtimeconfig.EnvDatabaseURL: "sqlite://unused.db",
		runtimeconfig.EnvLogSource:   "sometimes",
	}, file, "-t", "x", "--log-provider", "console")
	if res.code != 2 {
		t.Fatalf("expected exit 2, got %d", res.code)
	}
	if res.stdout != "" {
		t.Fatalf("expected no progress line, got %q", res.stdout)
	}
	if !strings.Contains(res.stderr, "logging source flag is invalid") {
		t.Fatalf("unexpected stderr %q", res.stderr)
	}
}

package publish

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/bloisdev/bloisdev-cli/pkg/testsupport"
)

func TestHasMarkdownExtension(t *testing.T) {
	cases := map[string]bool{
		"post.md":          true,
		"post.MD":          true,
		"post.Markdown":    true,
		"dir/post.md":      true,
		"notes.txt":        false,
		"README":           false,
		"archive.md.bak":   false,
		".md":              true,
		"post.mdx":         false,
		"post.markdown.gz": false,
	}
	for name, want := range cases {
		if got := HasMarkdownExtension(name, nil); got != want {
			t.Errorf("HasMarkdownExtension(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestHasMarkdownExtensionCustomList(t *testing.T) {
	if HasMarkdownExtension("post.markdown", []string{".md"}) {
		t.Fatal("expected .markdown to be rejected when only .md is allowed")
	}
	if !HasMarkdownExtension("post.MDOWN", []string{".mdown"}) {
		t.Fatal("expected case-insensitive match against configured extension")
	}
}

func TestLoadSubmissionRejectsExtensionBeforeReading(t *testing.T) {
	// the file does not exist, so reaching the read would yield a different code
	_, err := LoadSubmission(filepath.Join(t.TempDir(), "notes.txt"), "t", nil)
	assertTextCode(t, err, TextCodeInvalidExtension)
}

func TestLoadSubmissionNotFound(t *testing.T) {
	_, err := LoadSubmission(filepath.Join(t.TempDir(), "missing.md"), "t", nil)
	assertTextCode(t, err, TextCodeFileNotFound)
}

func TestLoadSubmissionDirectoryIsReadError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "folder.md")
	testsupport.MkdirAll(t, dir)

	_, err := LoadSubmission(dir, "t", nil)
	assertTextCode(t, err, TextCodeFileReadFailed)
}

func TestLoadSubmissionInvalidUTF8(t *testing.T) {
	path := testsupport.WriteFixture(t, "bad.md", []byte("ok\xffbad"))

	_, err := LoadSubmission(path, "t", nil)
	assertTextCode(t, err, TextCodeInvalidEncoding)
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding in chain, got %v", err)
	}
	if !strings.Contains(Describe(err), "byte offset 2") {
		t.Fatalf("expected offset in description, got %q", Describe(err))
	}
}

func TestLoadSubmissionKeepsContentVerbatim(t *testing.T) {
	content := "\ufeff# Title\r\n\r\n  body with trailing spaces   \n\n"
	path := testsupport.WriteFixture(t, "post.md", []byte(content))

	sub, err := LoadSubmission(path, "  My Title ", nil)
	if err != nil {
		t.Fatalf("LoadSubmission returned error: %v", err)
	}
	if sub.Content != content {
		t.Fatalf("content changed: %q", sub.Content)
	}
	if sub.Title != "  My Title " {
		t.Fatalf("title changed: %q", sub.Title)
	}
	if sub.Filename != path {
		t.Fatalf("filename changed: %q", sub.Filename)
	}
}

func TestLoadSubmissionEmptyFile(t *testing.T) {
	path := testsupport.WriteFixture(t, "empty.markdown", nil)

	sub, err := LoadSubmission(path, "t", nil)
	if err != nil {
		t.Fatalf("LoadSubmission returned error: %v", err)
	}
	if sub.Content != "" {
		t.Fatalf("expected empty content, got %q", sub.Content)
	}
}

func assertTextCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var perr *goerrors.Error
	if !goerrors.As(err, &perr) {
		t.Fatalf("expected *goerrors.Error, got %T: %v", err, err)
	}
	if perr.TextCode != code {
		t.Fatalf("expected text code %s, got %s (%v)", code, perr.TextCode, err)
	}
}

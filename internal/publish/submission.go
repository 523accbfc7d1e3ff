package publish

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"
)

// DefaultExtensions are the file extensions accepted when none are configured.
var DefaultExtensions = []string{".md", ".markdown"}

// Submission is a validated file ready to be inserted.
type Submission struct {
	Filename string
	Title    string
	Content  string
}

// HasMarkdownExtension reports whether the lower-cased extension of filename
// is one of allowed.
func HasMarkdownExtension(filename string, allowed []string) bool {
	if len(allowed) == 0 {
		allowed = DefaultExtensions
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return false
	}
	return slices.ContainsFunc(allowed, func(candidate string) bool {
		return strings.ToLower(candidate) == ext
	})
}

// LoadSubmission checks the extension, then reads filename in full. Content is
// kept exactly as stored on disk; it only has to be valid UTF-8.
func LoadSubmission(filename, title string, allowed []string) (Submission, error) {
	if !HasMarkdownExtension(filename, allowed) {
		return Submission{}, errInvalidExtension(filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Submission{}, errFileNotFound(filename, err)
		}
		return Submission{}, errFileRead(filename, err)
	}

	if offset := invalidUTF8Offset(data); offset >= 0 {
		return Submission{}, errInvalidEncoding(filename, offset)
	}

	return Submission{
		Filename: filename,
		Title:    title,
		Content:  string(data),
	}, nil
}

// invalidUTF8Offset returns the index of the first invalid byte, or -1.
func invalidUTF8Offset(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for offset := 0; offset < len(data); {
		r, size := utf8.DecodeRune(data[offset:])
		if r == utf8.RuneError && size == 1 {
			return offset
		}
		offset += size
	}
	return -1
}

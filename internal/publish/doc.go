// Package publish implements the single-file publish workflow: validate the
// Markdown extension, read the file, resolve the database URL, insert the post
// and report the identifier and timestamp the database assigned.
//
// Failures are returned as *goerrors.Error values in one of two categories.
// CategoryUsage covers problems with the arguments, the file or the
// environment. CategoryDatabase covers everything from connecting to
// committing. ExitCode and Describe turn either into what the CLI emits.
package publish

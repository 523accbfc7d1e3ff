package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/bloisdev/bloisdev-cli/cmd/bloisdev/internal/bootstrap"
	publishcmd "github.com/bloisdev/bloisdev-cli/internal/commands/publish"
	"github.com/bloisdev/bloisdev-cli/internal/publish"
	"github.com/bloisdev/bloisdev-cli/internal/runtimeconfig"
)

const programName = "bloisdev"

var moduleBuilder = bootstrap.BuildModule

func main() {
	os.Exit(run(os.Args[1:], os.LookupEnv, os.Stdout, os.Stderr))
}

type cliArgs struct {
	filename    string
	title       string
	dryRun      bool
	logProvider string
	logLevel    string
	logFormat   string
}

func run(args []string, lookup runtimeconfig.LookupFunc, stdout, stderr io.Writer) int {
	parsed, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return publish.ExitOK
	}
	if err != nil {
		// parseArgs has already reported the problem
		return publish.ExitUsage
	}

	module, err := moduleBuilder(bootstrap.Options{
		Lookup:      lookup,
		Stdout:      stdout,
		Stderr:      stderr,
		LogProvider: parsed.logProvider,
		LogLevel:    parsed.logLevel,
		LogFormat:   parsed.logFormat,
		DryRun:      parsed.dryRun,
	})
	if err != nil {
		fmt.Fprintln(stderr, publish.Describe(err))
		return publish.ExitCode(err)
	}

	ctx, stop := signal.NotifyContext(module.Context(context.Background()), os.Interrupt)
	defer stop()

	err = module.Handler.Execute(ctx, publishcmd.PublishFileCommand{
		Filename: parsed.filename,
		Title:    parsed.title,
		DryRun:   module.Config.Publish.DryRun,
	})
	if err != nil {
		module.Logger.WithContext(ctx).Debug("bloisdev.run.failed", "error", err)
		fmt.Fprintln(stderr, publish.Describe(err))
		return publish.ExitCode(err)
	}
	return publish.ExitOK
}

var errUsage = errors.New("invalid arguments")

// parseArgs accepts flags on either side of the file argument. Problems are
// written to stderr before returning.
func parseArgs(args []string, stderr io.Writer) (cliArgs, error) {
	var parsed cliArgs

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&parsed.title, "title", "", "Title stored with the post (required)")
	fs.StringVar(&parsed.title, "t", "", "Shorthand for --title")
	fs.BoolVar(&parsed.dryRun, "dry-run", false, "Insert inside a transaction and roll it back")
	fs.StringVar(&parsed.logProvider, "log-provider", "", "Logging provider: none, console or gologger")
	fs.StringVar(&parsed.logLevel, "log-level", "", "Minimum log level")
	fs.StringVar(&parsed.logFormat, "log-format", "", "go-logger output format: json, console or pretty")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: %s [flags] FILENAME\n\nPublish a Markdown file as a row in the posts table.\n\n", programName)
		fs.PrintDefaults()
	}

	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return cliArgs{}, err
		}
		remaining := fs.Args()
		consumed := len(rest) - len(remaining)
		if consumed > 0 && rest[consumed-1] == "--" {
			positional = append(positional, remaining...)
			break
		}
		if len(remaining) == 0 {
			break
		}
		positional = append(positional, remaining[0])
		rest = remaining[1:]
	}

	switch len(positional) {
	case 1:
		parsed.filename = positional[0]
	case 0:
		fmt.Fprintln(fs.Output(), "Error: the FILENAME argument is required")
		fs.Usage()
		return cliArgs{}, errUsage
	default:
		fmt.Fprintf(fs.Output(), "Error: expected one FILENAME argument, got %d\n", len(positional))
		fs.Usage()
		return cliArgs{}, errUsage
	}
	return parsed, nil
}

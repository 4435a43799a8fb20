package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vk/macroport/internal/app"
	"github.com/xyproto/env/v2"
	"golang.org/x/term"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError marks a problem with the command line itself.
func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error()}
}

// options holds the flag values shared by all commands.
type options struct {
	logLevel  string
	logFormat string
	profiles  []string
	maxPasses int
	variants  []string

	parsed *app.Config
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	opts := &options{}
	root := newRootCommand(opts)
	// cobra falls back to os.Args for a nil slice.
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)

	if err := root.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, usageError(err)
	}

	if opts.parsed == nil {
		slog.Debug("No command ran, exiting.")
		return nil, true, nil
	}
	slog.Debug("CLI parser finished successfully.", "command", opts.parsed.Command)
	return opts.parsed, false, nil
}

// defaultLogFormat reads MACROPORT_LOG_FORMAT and otherwise picks text for
// a terminal and json for everything else.
func defaultLogFormat() string {
	format := "json"
	if term.IsTerminal(int(os.Stderr.Fd())) {
		format = "text"
	}
	return env.Str("MACROPORT_LOG_FORMAT", format)
}

func defaultLogLevel() string {
	return env.Str("MACROPORT_LOG_LEVEL", "info")
}

func defaultMaxPasses() int {
	return env.Int("MACROPORT_MAX_PASSES", 0)
}

// build validates the shared flags and stores the resulting configuration.
func (o *options) build(cfg app.Config) error {
	logFormat := strings.ToLower(o.logFormat)
	if logFormat != "text" && logFormat != "json" {
		return usageError(errors.New("invalid log-format: must be 'text' or 'json'"))
	}

	logLevel := strings.ToLower(o.logLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return usageError(errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'"))
	}

	cfg.LogFormat = logFormat
	cfg.LogLevel = logLevel
	cfg.Profiles = o.profiles
	cfg.MaxPasses = o.maxPasses

	config, err := app.NewConfig(cfg)
	if err != nil {
		return usageError(err)
	}
	o.parsed = config
	return nil
}

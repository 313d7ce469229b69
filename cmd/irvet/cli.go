package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/born-ml/graphir/internal/config"
)

// Exit codes.
const (
	exitDefects = 1
	exitUsage   = 2
)

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: exitUsage, Message: fmt.Sprintf(format, args...)}
}

// options is the parsed command line.
type options struct {
	cfg   *config.Config
	files []string
}

// parse processes command-line arguments. It returns the configuration and
// model files to check, a boolean indicating the program should exit
// cleanly, or an ExitError.
func parse(args []string, output io.Writer) (*options, bool, error) {
	fs := flag.NewFlagSet("irvet", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, `
irvet - checks serialized graph IR models.

Usage:
  irvet [options] MODEL...

Exit status is 0 when every model is clean, 1 when a model has defects
and 2 on usage or configuration errors.

Options:
`)
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "Path to an HCL engine configuration file.")
	logLevel := fs.String("log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error'. Overrides the config file.")
	logFormat := fs.String("log-format", "", "Log output format: 'text' or 'json'. Overrides the config file.")
	var libs []string
	fs.Func("lib", "Library to resolve against, as uri=path. Repeatable.", func(s string) error {
		libs = append(libs, s)
		return nil
	})

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%v", err)
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return nil, false, usageError("no model files given")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return nil, false, usageError("%v", err)
		}
	}
	if *logLevel != "" {
		cfg.LogLevel = strings.ToLower(*logLevel)
	}
	if *logFormat != "" {
		cfg.LogFormat = strings.ToLower(*logFormat)
	}
	for _, lib := range libs {
		if err := cfg.AddLibrary(lib); err != nil {
			return nil, false, usageError("%v", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, usageError("%v", err)
	}

	return &options{cfg: cfg, files: fs.Args()}, false, nil
}

// Command irvet decodes, validates and resolves serialized graph IR models
// and prints every defect it finds.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/graphir/internal/engine"
	"github.com/born-ml/graphir/internal/ir"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("irvet %s\n", version)
		return
	}

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}

// run checks the model files named in args. Reports go to outW, logs to logW.
func run(outW, logW io.Writer, args []string) error {
	opts, shouldExit, err := parse(args, outW)
	if err != nil || shouldExit {
		return err
	}

	logger := engine.NewLogger(opts.cfg.LogLevel, opts.cfg.LogFormat, logW)
	e, err := engine.New(opts.cfg, engine.WithLogger(logger))
	if err != nil {
		return usageError("%v", err)
	}
	if err := e.LoadCatalog(nil); err != nil {
		return usageError("%v", err)
	}

	failed := 0
	for _, r := range e.CheckFiles(opts.files, nil) {
		if !report(outW, r) {
			failed++
		}
	}
	if failed > 0 {
		return &ExitError{Code: exitDefects, Message: fmt.Sprintf("%d of %d models have defects", failed, len(opts.files))}
	}
	return nil
}

// report prints the outcome of one file and returns whether it is clean.
func report(w io.Writer, r engine.Result) bool {
	if r.Err != nil {
		if list, ok := ir.AsList(r.Err); ok {
			for _, d := range list {
				fmt.Fprintf(w, "%s: %v\n", r.Path, d)
			}
		} else {
			fmt.Fprintf(w, "%s: %v\n", r.Path, r.Err)
		}
		return false
	}

	s := engine.Summarize(r.Checked.Model)
	fmt.Fprintf(w, "%s: ok graph=%s ir_version=%d nodes=%d bound=%d\n",
		r.Path, s.Graph, s.IRVersion, s.TotalNodes, r.Checked.Bindings.Len())
	return true
}

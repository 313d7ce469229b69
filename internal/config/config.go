// Package config holds the engine configuration: decode limits, accepted IR
// versions, logging and the library catalog. Configurations are written in
// HCL; see Parse for the accepted attributes and blocks.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/born-ml/graphir/internal/ir"
)

// Default limits.
const (
	DefaultMaxPayloadBytes = 1 << 30
	DefaultMaxDepth        = 100
)

// ErrInvalid is wrapped by every error Validate returns.
var ErrInvalid = errors.New("invalid configuration")

// Config is the engine configuration.
type Config struct {
	MaxPayloadBytes    int64
	MaxDepth           int
	Workers            int // models and libraries decoded and checked at once
	AcceptedIRVersions []int64
	LogLevel           string // debug, info, warn or error
	LogFormat          string // text or json
	Libraries          []Library
}

// Library is one catalog entry: a serialized library and the URI models
// import it by.
type Library struct {
	Name string
	URI  string
	Path string
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		MaxPayloadBytes:    DefaultMaxPayloadBytes,
		MaxDepth:           DefaultMaxDepth,
		Workers:            runtime.NumCPU(),
		AcceptedIRVersions: []int64{ir.IRVersion},
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// Accepts reports whether models of IR version v are accepted.
func (c *Config) Accepts(v int64) bool {
	for _, a := range c.AcceptedIRVersions {
		if a == v {
			return true
		}
	}
	return false
}

// AddLibrary appends a catalog entry given as uri=path, the form used on
// the command line. The entry is named after its URI.
func (c *Config) AddLibrary(spec string) error {
	uri, path, ok := strings.Cut(spec, "=")
	if !ok || uri == "" || path == "" {
		return fmt.Errorf("%w: library %q is not of the form uri=path", ErrInvalid, spec)
	}
	c.Libraries = append(c.Libraries, Library{Name: uri, URI: uri, Path: path})
	return nil
}

// Validate checks limits, logging settings and the catalog. All problems
// are reported together.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.MaxPayloadBytes <= 0 {
		fail("max_payload_bytes must be positive, got %d", c.MaxPayloadBytes)
	}
	if c.MaxDepth <= 0 {
		fail("max_depth must be positive, got %d", c.MaxDepth)
	}
	if c.Workers <= 0 {
		fail("workers must be positive, got %d", c.Workers)
	}
	if len(c.AcceptedIRVersions) == 0 {
		fail("accepted_ir_versions is empty")
	}
	for _, v := range c.AcceptedIRVersions {
		if v <= 0 {
			fail("accepted_ir_versions contains %d", v)
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fail("unknown log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		fail("unknown log_format %q", c.LogFormat)
	}

	names := make(map[string]bool, len(c.Libraries))
	uris := make(map[string]bool, len(c.Libraries))
	for _, lib := range c.Libraries {
		if names[lib.Name] {
			fail("library %q is declared twice", lib.Name)
		}
		names[lib.Name] = true
		if lib.URI == "" {
			fail("library %q has no uri", lib.Name)
		} else if uris[lib.URI] {
			fail("library uri %q is used twice", lib.URI)
		}
		uris[lib.URI] = true
		if lib.Path == "" {
			fail("library %q has no path", lib.Name)
		}
	}
	return errors.Join(errs...)
}

// Package engine runs the full check of a serialized model: decode, IR
// version gate, structural validation, import-cycle detection and
// operator resolution against a library catalog.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/born-ml/graphir/internal/codec"
	"github.com/born-ml/graphir/internal/config"
	"github.com/born-ml/graphir/internal/ir"
	"github.com/born-ml/graphir/internal/parallel"
	"github.com/born-ml/graphir/internal/resolve"
	"github.com/born-ml/graphir/internal/validate"
)

// ErrUnsupportedIRVersion is returned for models whose ir_version the
// configuration does not accept.
var ErrUnsupportedIRVersion = errors.New("unsupported IR version")

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger handed to every stage. The default discards
// all output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithLibraries installs an already decoded catalog keyed by import URI.
// LoadCatalog replaces it.
func WithLibraries(libs map[string]*ir.Library) Option {
	return func(e *Engine) { e.catalog = resolve.NewContext(libs) }
}

// Checked is the result of a check.
type Checked struct {
	Model    *ir.Model
	Tables   *validate.Tables
	Bindings *resolve.Bindings
}

// Engine checks models against a configuration and a library catalog. Check
// and CheckModel are safe for concurrent use, also while LoadCatalog runs.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger

	mu      sync.RWMutex
	catalog *resolve.Context
}

// New returns an Engine for cfg. A nil cfg means config.Default. The catalog
// is empty until LoadCatalog or WithLibraries fills it.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:     cfg,
		logger:  slog.New(slog.DiscardHandler),
		catalog: resolve.NewContext(nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Catalog returns the current library catalog.
func (e *Engine) Catalog() *resolve.Context {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog
}

func (e *Engine) decodeOptions() []codec.Option {
	return []codec.Option{
		codec.WithMaxPayloadBytes(e.cfg.MaxPayloadBytes),
		codec.WithMaxDepth(e.cfg.MaxDepth),
	}
}

// LoadCatalog reads and decodes every configured library with readFile, which
// defaults to os.ReadFile, and installs them as the catalog. Libraries are
// decoded cfg.Workers at a time. On error the previous catalog is kept.
func (e *Engine) LoadCatalog(readFile func(string) ([]byte, error)) error {
	if readFile == nil {
		readFile = os.ReadFile
	}
	entries := e.cfg.Libraries
	decoded, err := parallel.Map(len(entries), func(i int) (*ir.Library, error) {
		entry := entries[i]
		data, err := readFile(entry.Path)
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", entry.Name, err)
		}
		lib, err := codec.DecodeLibrary(data, e.decodeOptions()...)
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", entry.Name, err)
		}
		if !e.cfg.Accepts(lib.IRVersion()) {
			return nil, fmt.Errorf("library %s: %w %d", entry.Name, ErrUnsupportedIRVersion, lib.IRVersion())
		}
		e.logger.Debug("loaded library",
			"name", entry.Name,
			"uri", entry.URI,
			"prefix", lib.Prefix(),
			"operators", len(lib.Operators()),
			"functions", len(lib.Functions()))
		return lib, nil
	}, e.workers())
	if err != nil {
		return err
	}

	libs := make(map[string]*ir.Library, len(entries))
	for i, entry := range entries {
		libs[entry.URI] = decoded[i]
	}
	catalog := resolve.NewContext(libs)
	e.mu.Lock()
	e.catalog = catalog
	e.mu.Unlock()
	e.logger.Info("library catalog loaded", "libraries", catalog.Len())
	return nil
}

func (e *Engine) workers() parallel.Config {
	return parallel.Config{Workers: e.cfg.Workers}
}

// Result is the outcome of checking one file.
type Result struct {
	Path    string
	Checked *Checked // nil when the file could not be read, decoded or was rejected
	Err     error
}

// CheckFiles reads and checks every file in paths, cfg.Workers at a time.
// Results are in the order of paths. readFile defaults to os.ReadFile.
func (e *Engine) CheckFiles(paths []string, readFile func(string) ([]byte, error)) []Result {
	if readFile == nil {
		readFile = os.ReadFile
	}
	results := make([]Result, len(paths))
	parallel.For(len(paths), func(i int) {
		r := Result{Path: paths[i]}
		data, err := readFile(paths[i])
		if err != nil {
			r.Err = err
		} else {
			r.Checked, r.Err = e.Check(data)
		}
		results[i] = r
	}, e.workers())
	return results
}

// Check decodes data and checks the model. A decode failure or a rejected IR
// version is returned alone with a nil result. Otherwise the result is
// returned even when defects were found; the error is then an ir.ErrorList
// holding the defects of every stage.
func (e *Engine) Check(data []byte) (*Checked, error) {
	m, err := codec.DecodeModel(data, e.decodeOptions()...)
	if err != nil {
		return nil, err
	}
	return e.CheckModel(m)
}

// CheckModel checks an already built model. See Check.
func (e *Engine) CheckModel(m *ir.Model) (*Checked, error) {
	if m == nil {
		return nil, ir.ErrorList{ir.Missing("", "model")}
	}
	if !e.cfg.Accepts(m.IRVersion()) {
		return nil, fmt.Errorf("%w %d, accepted %v", ErrUnsupportedIRVersion, m.IRVersion(), e.cfg.AcceptedIRVersions)
	}

	catalog := e.Catalog()
	resolver := resolve.New(catalog, resolve.WithLogger(e.logger))
	validator := validate.New(
		validate.WithBranchResolver(resolver),
		validate.WithLogger(e.logger),
	)

	var errs ir.ErrorList
	tables, err := validator.Validate(m)
	collect(&errs, err)
	collect(&errs, catalog.ImportCycles())
	bindings, err := resolver.Resolve(m, tables)
	collect(&errs, err)

	e.logger.Info("model checked",
		"graph", m.Graph().Name(),
		"nodes", len(tables.Nodes()),
		"bound", bindings.Len(),
		"defects", len(errs))
	return &Checked{Model: m, Tables: tables, Bindings: bindings}, errs.Err()
}

func collect(errs *ir.ErrorList, err error) {
	if list, ok := ir.AsList(err); ok {
		errs.Append(list)
	}
}

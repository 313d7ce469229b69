package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot mirrors the top level of a configuration file. Attributes are
// pointers so that absent ones keep their defaults.
type fileRoot struct {
	MaxPayloadBytes    *int64          `hcl:"max_payload_bytes,optional"`
	MaxDepth           *int            `hcl:"max_depth,optional"`
	Workers            *int            `hcl:"workers,optional"`
	AcceptedIRVersions []int64         `hcl:"accepted_ir_versions,optional"`
	LogLevel           *string         `hcl:"log_level,optional"`
	LogFormat          *string         `hcl:"log_format,optional"`
	Libraries          []*libraryBlock `hcl:"library,block"`
}

type libraryBlock struct {
	Name string `hcl:"name,label"`
	URI  string `hcl:"uri"`
	Path string `hcl:"path"`
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes an HCL configuration. filename is used in diagnostics and
// locates config_dir; relative library paths are taken relative to it.
//
// Expressions may refer to two variables: env, a map of the process
// environment, and config_dir, the directory holding the file.
//
//	max_payload_bytes    = 268435456
//	max_depth            = 64
//	workers              = 4
//	accepted_ir_versions = [1]
//	log_level            = "debug"
//	log_format           = "json"
//
//	library "std" {
//	  uri  = "ai.graphir.std"
//	  path = "${config_dir}/libs/std.irlib"
//	}
//
// Attributes left out keep their Default values. The result is validated.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}

	dir := filepath.Dir(filename)
	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalContext(dir), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config %s: %w", filename, diags)
	}

	cfg := Default()
	if root.MaxPayloadBytes != nil {
		cfg.MaxPayloadBytes = *root.MaxPayloadBytes
	}
	if root.MaxDepth != nil {
		cfg.MaxDepth = *root.MaxDepth
	}
	if root.Workers != nil {
		cfg.Workers = *root.Workers
	}
	if root.AcceptedIRVersions != nil {
		cfg.AcceptedIRVersions = root.AcceptedIRVersions
	}
	if root.LogLevel != nil {
		cfg.LogLevel = *root.LogLevel
	}
	if root.LogFormat != nil {
		cfg.LogFormat = *root.LogFormat
	}
	for _, b := range root.Libraries {
		path := b.Path
		if path != "" && !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		cfg.Libraries = append(cfg.Libraries, Library{Name: b.Name, URI: b.URI, Path: path})
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}
	return cfg, nil
}

func evalContext(dir string) *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = cty.StringVal(v)
		}
	}
	envVal := cty.MapValEmpty(cty.String)
	if len(env) > 0 {
		envVal = cty.MapVal(env)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env":        envVal,
			"config_dir": cty.StringVal(dir),
		},
	}
}

package validate

import (
	"log/slog"

	"github.com/born-ml/graphir/internal/ir"
)

// BranchResolver resolves a control-flow branch named by function name when
// no enclosing scope declares it, typically by searching imported libraries.
type BranchResolver interface {
	ResolveFunction(scope *Scope, name string) (*ir.FunctionDef, error)
}

// Option configures a Validator.
type Option func(*Validator)

// WithBranchResolver sets the resolver used for Cond/While branches that
// name a function outside the local scopes.
func WithBranchResolver(r BranchResolver) Option {
	return func(v *Validator) { v.branches = r }
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// Validator checks built models and libraries. It holds no per-call state
// and is safe for concurrent use when its BranchResolver is.
type Validator struct {
	branches BranchResolver
	logger   *slog.Logger
}

// New returns a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

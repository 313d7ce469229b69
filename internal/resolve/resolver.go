package resolve

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/born-ml/graphir/internal/ir"
	"github.com/born-ml/graphir/internal/validate"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// Resolver binds op_types against a Context. It holds no per-call state and
// is safe for concurrent use.
type Resolver struct {
	ctx    *Context
	logger *slog.Logger
}

var _ validate.BranchResolver = (*Resolver)(nil)

// New returns a Resolver over ctx. A nil ctx is an empty context.
func New(ctx *Context, opts ...Option) *Resolver {
	if ctx == nil {
		ctx = NewContext(nil)
	}
	r := &Resolver{ctx: ctx, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve binds every node of m, including function bodies and nested
// graphs. tables are the namespace tables from validation; nil builds them.
// The bindings of resolvable nodes are returned even when others fail; the
// error, when non-nil, is an ir.ErrorList.
func (r *Resolver) Resolve(m *ir.Model, tables *validate.Tables) (*Bindings, error) {
	if m == nil {
		return newBindings(), ir.ErrorList{ir.Missing("", "model")}
	}
	if tables == nil {
		tables = validate.ModelTables(m)
	}
	b, errs := r.resolve(tables)
	r.logger.Debug("resolved model",
		"nodes", len(tables.Nodes()),
		"bound", b.Len(),
		"errors", len(errs))
	return b, errs.Err()
}

// ResolveLibrary binds every node in the function bodies of the library
// imported as uri.
func (r *Resolver) ResolveLibrary(uri string) (*Bindings, error) {
	lib, ok := r.ctx.Library(uri)
	if !ok {
		return newBindings(), ir.ErrorList{{
			Kind:      ir.KindUnresolvedReference,
			Namespace: ir.NamespaceLibrary,
			Name:      uri,
			Detail:    "library is not in the resolution context",
		}}
	}
	b, errs := r.resolve(validate.LibraryTables(lib))
	r.logger.Debug("resolved library", "uri", uri, "bound", b.Len(), "errors", len(errs))
	return b, errs.Err()
}

func (r *Resolver) resolve(tables *validate.Tables) (*Bindings, ir.ErrorList) {
	var errs ir.ErrorList
	for _, s := range tables.Scopes() {
		for _, uri := range s.Imports() {
			if _, ok := r.ctx.Library(uri); !ok {
				errs.Add(&ir.Error{
					Kind:      ir.KindUnresolvedReference,
					Path:      s.Path,
					Namespace: ir.NamespaceLibrary,
					Name:      uri,
					Detail:    "imported library is not in the resolution context",
				})
			}
		}
	}

	b := newBindings()
	for _, ref := range tables.Nodes() {
		binding, err := r.bind(ref)
		if err != nil {
			errs.Add(err)
			continue
		}
		b.add(ref.Path, binding)
	}
	return b, errs
}

// bind resolves one node and checks its arity against the target.
func (r *Resolver) bind(ref validate.NodeRef) (*Binding, *ir.Error) {
	n := ref.Node
	if validate.IsBuiltin(n.OpType(), n.Domain()) {
		return &Binding{Kind: TargetBuiltin, Qualified: n.OpType()}, nil
	}
	name := reference(n)
	c, err := r.lookup(ref.Scope, name, false)
	if err != nil {
		err.Path = ref.Path
		return nil, err
	}

	binding := &Binding{Library: c.lib, Qualified: c.qualified}
	if c.fn != nil {
		binding.Kind, binding.Function = TargetFunction, c.fn
		sig := c.fn.Signature()
		if aerr := checkArity(sig, n); aerr != nil {
			return nil, arityError(ref.Path, c.qualified, aerr.Error())
		}
		binding.Signature = sig
		return binding, nil
	}

	binding.Kind, binding.Operator = TargetOperator, c.op
	var reasons []string
	for i, sig := range c.op.Signatures() {
		aerr := checkArity(sig, n)
		if aerr == nil {
			binding.Signature = sig
			return binding, nil
		}
		reasons = append(reasons, fmt.Sprintf("signature %d: %v", i, aerr))
	}
	return nil, arityError(ref.Path, c.qualified, strings.Join(reasons, "; "))
}

// ResolveFunction resolves a control-flow branch naming a function. It
// implements validate.BranchResolver.
func (r *Resolver) ResolveFunction(scope *validate.Scope, name string) (*ir.FunctionDef, error) {
	c, err := r.lookup(scope, name, true)
	if err != nil {
		return nil, err
	}
	return c.fn, nil
}

// candidate is one declaration a name may refer to.
type candidate struct {
	op        *ir.OperatorDecl
	fn        *ir.FunctionDef
	lib       *ir.Library
	qualified string
}

// lookup finds the declaration name refers to from scope. With functionsOnly,
// operators are invisible.
func (r *Resolver) lookup(scope *validate.Scope, name string, functionsOnly bool) (*candidate, *ir.Error) {
	if lib, entry, ok := r.ctx.qualified(name); ok {
		if c, ok := declared(lib, entry, functionsOnly); ok {
			return c, nil
		}
		return nil, unresolved(name, fmt.Sprintf("library %s declares no %s", lib.Prefix(), entry))
	}

	var (
		imports []string
		own     *ir.Library
	)
	if scope != nil {
		for _, s := range scope.Chain() {
			if f, ok := s.Function(name); ok {
				return local(s, name, nil, f), nil
			}
			if o, ok := s.Operator(name); ok && !functionsOnly {
				return local(s, name, o, nil), nil
			}
			imports = append(imports, s.Imports()...)
			if s.Library != nil {
				own = s.Library
			}
		}
	}

	var found []*candidate
	for _, lib := range r.ctx.reachable(imports, own) {
		if c, ok := declared(lib, name, functionsOnly); ok {
			found = append(found, c)
		}
	}
	switch len(found) {
	case 0:
		return nil, unresolved(name, "no enclosing scope or imported library declares it")
	case 1:
		return found[0], nil
	default:
		names := make([]string, len(found))
		for i, c := range found {
			names[i] = c.qualified
		}
		return nil, &ir.Error{
			Kind:      ir.KindAmbiguousReference,
			Namespace: ir.NamespaceOperatorOrFunction,
			Name:      name,
			Names:     names,
			Detail:    "declared by more than one imported library",
		}
	}
}

// declared looks name up in lib. Functions shadow operators of the same name.
func declared(lib *ir.Library, name string, functionsOnly bool) (*candidate, bool) {
	if f, ok := lib.Function(name); ok {
		return &candidate{fn: f, lib: lib, qualified: lib.QualifiedName(name)}, true
	}
	if o, ok := lib.Operator(name); ok && !functionsOnly {
		return &candidate{op: o, lib: lib, qualified: lib.QualifiedName(name)}, true
	}
	return nil, false
}

func local(s *validate.Scope, name string, o *ir.OperatorDecl, f *ir.FunctionDef) *candidate {
	c := &candidate{op: o, fn: f, lib: s.Library, qualified: name}
	if s.Library != nil {
		c.qualified = s.Library.QualifiedName(name)
	}
	return c
}

// reference is the name a node invokes: op_type, qualified by the node's
// domain when one is set.
func reference(n *ir.Node) string {
	if n.Domain() == "" {
		return n.OpType()
	}
	return n.Domain() + "." + n.OpType()
}

func unresolved(name, detail string) *ir.Error {
	return &ir.Error{
		Kind:      ir.KindUnresolvedReference,
		Namespace: ir.NamespaceOperatorOrFunction,
		Name:      name,
		Detail:    detail,
	}
}

func arityError(path, name, detail string) *ir.Error {
	return &ir.Error{Kind: ir.KindArityMismatch, Path: path, Name: name, Detail: detail}
}

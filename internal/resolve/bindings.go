package resolve

import (
	"github.com/born-ml/graphir/internal/ir"
)

// TargetKind says what a node is bound to.
type TargetKind int

// Binding targets.
const (
	TargetBuiltin TargetKind = iota + 1
	TargetOperator
	TargetFunction
)

// String returns the target name.
func (k TargetKind) String() string {
	switch k {
	case TargetBuiltin:
		return "builtin"
	case TargetOperator:
		return "operator"
	case TargetFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Binding is the resolution of one node.
type Binding struct {
	Kind      TargetKind
	Operator  *ir.OperatorDecl // set for TargetOperator
	Function  *ir.FunctionDef  // set for TargetFunction
	Signature *ir.Signature    // the signature the node was checked against; nil for built-ins
	Library   *ir.Library      // declaring library; nil for graph-local and built-in targets
	Qualified string           // domain.library.entry for library targets, the bare name otherwise
}

// Bindings maps node paths to their bindings. It is immutable once returned.
type Bindings struct {
	byPath map[string]*Binding
	paths  []string
}

func newBindings() *Bindings {
	return &Bindings{byPath: make(map[string]*Binding)}
}

func (b *Bindings) add(path string, binding *Binding) {
	if _, ok := b.byPath[path]; !ok {
		b.paths = append(b.paths, path)
	}
	b.byPath[path] = binding
}

// Lookup returns the binding of the node at path.
func (b *Bindings) Lookup(path string) (*Binding, bool) {
	binding, ok := b.byPath[path]
	return binding, ok
}

// Len returns the number of bound nodes.
func (b *Bindings) Len() int { return len(b.paths) }

// Paths returns the bound node paths in walk order.
func (b *Bindings) Paths() []string { return b.paths }

package validate

import (
	"github.com/born-ml/graphir/internal/ir"
)

// Scope is one lexical scope: a graph or a library. Lookups fall back to the
// parent scope.
type Scope struct {
	Path    string
	Parent  *Scope
	Graph   *ir.Graph   // nil for library scopes
	Library *ir.Library // nil for graph scopes

	functions map[string]*ir.FunctionDef
	operators map[string]*ir.OperatorDecl
	imports   []string
}

func newScope(path string, parent *Scope, fns []*ir.FunctionDef, ops []*ir.OperatorDecl, imports []string) *Scope {
	s := &Scope{
		Path:      path,
		Parent:    parent,
		functions: make(map[string]*ir.FunctionDef, len(fns)),
		operators: make(map[string]*ir.OperatorDecl, len(ops)),
		imports:   imports,
	}
	// First declaration wins; duplicates are reported by the validator.
	for _, f := range fns {
		if _, ok := s.functions[f.Name()]; !ok {
			s.functions[f.Name()] = f
		}
	}
	for _, o := range ops {
		if _, ok := s.operators[o.Name()]; !ok {
			s.operators[o.Name()] = o
		}
	}
	return s
}

// Function returns the function declared directly in this scope.
func (s *Scope) Function(name string) (*ir.FunctionDef, bool) {
	f, ok := s.functions[name]
	return f, ok
}

// Operator returns the operator declared directly in this scope.
func (s *Scope) Operator(name string) (*ir.OperatorDecl, bool) {
	o, ok := s.operators[name]
	return o, ok
}

// Imports returns the library URIs imported by this scope, in declaration order.
func (s *Scope) Imports() []string { return s.imports }

// Chain returns s and its ancestors, innermost first.
func (s *Scope) Chain() []*Scope {
	var chain []*Scope
	for c := s; c != nil; c = c.Parent {
		chain = append(chain, c)
	}
	return chain
}

// LookupFunction searches the scope chain for a local function.
func (s *Scope) LookupFunction(name string) (*ir.FunctionDef, *Scope, bool) {
	for c := s; c != nil; c = c.Parent {
		if f, ok := c.functions[name]; ok {
			return f, c, true
		}
	}
	return nil, nil, false
}

// NodeRef locates a node and the scope its op_type resolves in.
type NodeRef struct {
	Path  string
	Node  *ir.Node
	Scope *Scope
}

// Tables are the namespace tables of a model or library: every scope and
// every node, in walk order.
type Tables struct {
	Root *Scope

	scopes  []*Scope
	byPath  map[string]*Scope
	byGraph map[*ir.Graph]*Scope
	nodes   []NodeRef
}

// Scopes returns every scope in walk order, the root first.
func (t *Tables) Scopes() []*Scope { return t.scopes }

// Scope returns the scope rooted at path. When two sibling graphs share a
// name, and so a path, the first one is returned; use GraphScope to tell
// them apart.
func (t *Tables) Scope(path string) (*Scope, bool) {
	s, ok := t.byPath[path]
	return s, ok
}

// GraphScope returns the scope of graph g.
func (t *Tables) GraphScope(g *ir.Graph) (*Scope, bool) {
	s, ok := t.byGraph[g]
	return s, ok
}

// Nodes returns every node of the tree, including function bodies and
// nested graphs, in walk order.
func (t *Tables) Nodes() []NodeRef { return t.nodes }

func (t *Tables) addScope(s *Scope) {
	if t.byPath == nil {
		t.byPath = make(map[string]*Scope)
		t.byGraph = make(map[*ir.Graph]*Scope)
	}
	if t.Root == nil {
		t.Root = s
	}
	t.scopes = append(t.scopes, s)
	if _, ok := t.byPath[s.Path]; !ok {
		t.byPath[s.Path] = s
	}
	if s.Graph != nil {
		t.byGraph[s.Graph] = s
	}
}

// ModelTables builds the namespace tables of m without validating it.
func ModelTables(m *ir.Model) *Tables {
	t := &Tables{}
	if m == nil || m.Graph() == nil {
		return t
	}
	t.graph(graphPath(m), m.Graph(), nil)
	return t
}

// LibraryTables builds the namespace tables of lib without validating it.
func LibraryTables(lib *ir.Library) *Tables {
	t := &Tables{}
	if lib == nil {
		return t
	}
	s := newScope(libraryPath(lib), nil, lib.Functions(), lib.Operators(), lib.ImportedLibraries())
	s.Library = lib
	t.addScope(s)
	for _, f := range lib.Functions() {
		t.body(ir.Elem(s.Path, "function", f.Name()), f.Nodes(), s)
	}
	return t
}

func (t *Tables) graph(path string, g *ir.Graph, parent *Scope) {
	s := newScope(path, parent, g.Functions(), g.Operators(), g.ImportedLibraries())
	s.Graph = g
	t.addScope(s)
	t.body(path, g.Nodes(), s)
	for _, f := range g.Functions() {
		t.body(ir.Elem(path, "function", f.Name()), f.Nodes(), s)
	}
}

func (t *Tables) body(path string, nodes []*ir.Node, s *Scope) {
	for i, n := range nodes {
		np := ir.Elem(path, "node", n.Label(i))
		t.nodes = append(t.nodes, NodeRef{Path: np, Node: n, Scope: s})
		for _, a := range n.Attributes() {
			ap := ir.Elem(np, "attribute", a.Name())
			for _, sub := range a.Subgraphs() {
				t.graph(ir.Elem(ap, "graph", sub.Name()), sub, s)
			}
		}
	}
}

func graphPath(m *ir.Model) string {
	return ir.Elem("model", "graph", m.Graph().Name())
}

func libraryPath(lib *ir.Library) string {
	return ir.Elem("", "library", lib.Name())
}

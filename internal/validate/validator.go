package validate

import (
	"strconv"

	"github.com/born-ml/graphir/internal/ir"
)

// Validate checks m and returns its namespace tables. The tables are
// returned even when validation fails so callers can still resolve the
// model and report every defect in one pass. The error, when non-nil, is
// an ir.ErrorList.
func (v *Validator) Validate(m *ir.Model) (*Tables, error) {
	if m == nil {
		return &Tables{}, ir.ErrorList{ir.Missing("", "model")}
	}
	if m.Graph() == nil {
		return &Tables{}, ir.ErrorList{ir.Missing("model", "graph")}
	}
	tables := ModelTables(m)
	w := newWalker(v, tables)
	w.graph(tables.Root.Path, m.Graph())

	v.logger.Debug("validated model",
		"graph", m.Graph().Name(),
		"scopes", len(tables.Scopes()),
		"nodes", len(tables.Nodes()),
		"errors", len(w.errs))
	return tables, w.errs.Err()
}

// ValidateLibrary checks lib and returns its namespace tables.
func (v *Validator) ValidateLibrary(lib *ir.Library) (*Tables, error) {
	if lib == nil {
		return &Tables{}, ir.ErrorList{ir.Missing("", "library")}
	}
	tables := LibraryTables(lib)
	w := newWalker(v, tables)
	path := tables.Root.Path

	w.declarations(path, lib.Functions(), lib.Operators())
	w.imports(path, lib.ImportedLibraries())
	for _, f := range lib.Functions() {
		w.function(ir.Elem(path, "function", f.Name()), f, tables.Root)
	}
	for _, o := range lib.Operators() {
		w.operator(ir.Elem(path, "operator", o.Name()), o)
	}

	v.logger.Debug("validated library",
		"library", lib.Prefix(),
		"nodes", len(tables.Nodes()),
		"errors", len(w.errs))
	return tables, w.errs.Err()
}

// walker carries the state of one validation pass.
type walker struct {
	v      *Validator
	tables *Tables
	errs   ir.ErrorList

	// Graph names are unique across the whole tree.
	graphNames *names
}

func newWalker(v *Validator, tables *Tables) *walker {
	w := &walker{v: v, tables: tables}
	w.graphNames = w.names(ir.NamespaceGraph)
	return w
}

func (w *walker) graph(path string, g *ir.Graph) {
	s, ok := w.tables.GraphScope(g)
	if !ok {
		// Unreachable for tables built from the same tree.
		w.errs.Add(ir.Errorf(ir.KindUnresolvedReference, path, "no scope for graph"))
		return
	}
	w.v.logger.Debug("validating graph", "path", path, "nodes", len(g.Nodes()))
	w.graphNames.add(path, g.Name())

	declared := w.graphValues(path, g)
	w.declarations(path, g.Functions(), g.Operators())
	w.imports(path, g.ImportedLibraries())
	w.body(path, g.Nodes(), s, declared)

	for _, f := range g.Functions() {
		w.function(ir.Elem(path, "function", f.Name()), f, s)
	}
	for _, o := range g.Operators() {
		w.operator(ir.Elem(path, "operator", o.Name()), o)
	}
}

// graphValues checks the declared values of g and returns the names node
// outputs must not redefine: graph inputs and initializers.
func (w *walker) graphValues(path string, g *ir.Graph) map[string]bool {
	inputs := w.names(ir.NamespaceValue)
	for i, vi := range g.Inputs() {
		inputs.add(path, vi.Name())
		w.valueInfo(ir.Elem(path, "input", label(vi.Name(), i)), vi)
	}
	outputs := w.names(ir.NamespaceValue)
	for i, vi := range g.Outputs() {
		outputs.add(path, vi.Name())
		w.valueInfo(ir.Elem(path, "output", label(vi.Name(), i)), vi)
	}
	infos := w.names(ir.NamespaceValue)
	for i, vi := range g.ValueInfo() {
		infos.add(path, vi.Name())
		w.valueInfo(ir.Elem(path, "value_info", label(vi.Name(), i)), vi)
	}

	declared := make(map[string]bool, len(g.Inputs())+len(g.Initializers()))
	for _, vi := range g.Inputs() {
		declared[vi.Name()] = true
	}
	inits := w.names(ir.NamespaceValue)
	for i, t := range g.Initializers() {
		tp := ir.Elem(path, "initializer", label(t.Name(), i))
		w.tensor(tp, t)
		if t.Name() == "" {
			w.errs.Add(ir.Missing(tp, "name"))
			continue
		}
		inits.add(path, t.Name())
		if !inputs.has(t.Name()) {
			w.errs.Add(&ir.Error{
				Kind:      ir.KindUnresolvedReference,
				Path:      tp,
				Namespace: ir.NamespaceValue,
				Name:      t.Name(),
				Detail:    "initializer does not name a graph input",
			})
		}
		declared[t.Name()] = true
	}
	return declared
}

func (w *walker) valueInfo(path string, vi *ir.ValueInfo) {
	w.errs.Append(vi.Type().CheckUnion(ir.Field(path, "type")))
}

// declarations checks the OperatorOrFunction namespace of one scope.
func (w *walker) declarations(path string, fns []*ir.FunctionDef, ops []*ir.OperatorDecl) {
	decls := w.names(ir.NamespaceOperatorOrFunction)
	for _, f := range fns {
		decls.add(path, f.Name())
	}
	for _, o := range ops {
		decls.add(path, o.Name())
	}
}

func (w *walker) imports(path string, uris []string) {
	libs := w.names(ir.NamespaceLibrary)
	for _, uri := range uris {
		libs.add(path, uri)
	}
}

// body checks the nodes of a graph or function body. declared holds the
// value names visible before any node runs.
func (w *walker) body(path string, nodes []*ir.Node, s *Scope, declared map[string]bool) {
	nodeNames := w.names(ir.NamespaceNode)
	produced := w.names(ir.NamespaceValue)
	for i, n := range nodes {
		np := ir.Elem(path, "node", n.Label(i))
		nodeNames.add(path, n.Name())
		for _, out := range n.Output() {
			if out == "" {
				continue
			}
			if declared[out] {
				w.errs.Add(&ir.Error{
					Kind:      ir.KindDuplicateName,
					Path:      np,
					Namespace: ir.NamespaceValue,
					Name:      out,
					Detail:    "node output redefines a declared input",
				})
				continue
			}
			produced.add(path, out)
		}
		w.node(np, n, s)
	}
	w.dag(path, nodes, declared)
}

func (w *walker) node(path string, n *ir.Node, s *Scope) {
	attrs := w.names(ir.NamespaceAttribute)
	for i, a := range n.Attributes() {
		ap := ir.Elem(path, "attribute", label(a.Name(), i))
		attrs.add(path, a.Name())
		w.attribute(ap, a)
	}
	switch {
	case isBuiltin(n, OpCond):
		w.cond(path, n, s)
	case isBuiltin(n, OpWhile):
		w.while(path, n, s)
	}
}

func (w *walker) attribute(path string, a *ir.Attribute) {
	w.errs.Append(a.CheckUnion(path))
	if t := a.Tensor(); t != nil {
		w.tensor(ir.Field(path, "t"), t)
	}
	for i, t := range a.Tensors() {
		w.tensor(ir.Index(path, "tensors", i), t)
	}
	for _, g := range a.Subgraphs() {
		w.graph(ir.Elem(path, "graph", g.Name()), g)
	}
}

// tensor re-checks the payload element count against dims or the segment.
func (w *walker) tensor(path string, t *ir.Tensor) {
	count, ok := t.ElementCount()
	if !ok {
		w.errs.Add(ir.Errorf(ir.KindArityMismatch, path, "dims %v have no valid element count", t.Dims()))
		return
	}
	if stored := t.PayloadLen(); stored != count {
		w.errs.Add(ir.Errorf(ir.KindArityMismatch, path, "dims %v hold %d elements, payload has %d", t.Dims(), count, stored))
	}
}

func (w *walker) function(path string, f *ir.FunctionDef, s *Scope) {
	w.v.logger.Debug("validating function", "path", path, "nodes", len(f.Nodes()))
	w.params(path, "input_params", f.Inputs())
	w.params(path, "output_params", f.Outputs())
	w.attrDecls(path, f.Attributes())

	declared := make(map[string]bool, len(f.Inputs()))
	for _, p := range f.Inputs() {
		declared[p.Name()] = true
	}
	w.body(path, f.Nodes(), s, declared)
}

func (w *walker) operator(path string, o *ir.OperatorDecl) {
	for i, sig := range o.Signatures() {
		sp := ir.Index(path, "signature", i)
		w.params(sp, "input_params", sig.Inputs())
		w.params(sp, "output_params", sig.Outputs())
		w.attrDecls(sp, sig.Attributes())
	}
}

func (w *walker) params(path, kind string, ps []*ir.Param) {
	seen := w.names(ir.NamespaceValue)
	for i, p := range ps {
		seen.add(path, p.Name())
		if p.Type() != nil {
			w.errs.Append(p.Type().CheckUnion(ir.Field(ir.Elem(path, kind, label(p.Name(), i)), "type_proto")))
		}
	}
}

func (w *walker) attrDecls(path string, ds []*ir.AttrDecl) {
	seen := w.names(ir.NamespaceAttribute)
	for i, d := range ds {
		seen.add(path, d.Name())
		if d.Default() != nil {
			w.errs.Append(d.Default().CheckUnion(ir.Field(ir.Elem(path, "attribute", label(d.Name(), i)), "default_value")))
		}
	}
}

// names tracks one namespace at one scope and reports each duplicated name once.
type names struct {
	ns       ir.Namespace
	seen     map[string]bool
	reported map[string]bool
	errs     *ir.ErrorList
}

func (w *walker) names(ns ir.Namespace) *names {
	return &names{ns: ns, seen: make(map[string]bool), reported: make(map[string]bool), errs: &w.errs}
}

func (n *names) add(path, name string) {
	if name == "" {
		return
	}
	if !n.seen[name] {
		n.seen[name] = true
		return
	}
	if !n.reported[name] {
		n.reported[name] = true
		n.errs.Add(ir.Duplicate(path, n.ns, name))
	}
}

func (n *names) has(name string) bool { return n.seen[name] }

func label(name string, i int) string {
	if name != "" {
		return name
	}
	return "#" + strconv.Itoa(i)
}

package validate

import (
	"errors"

	"github.com/born-ml/graphir/internal/ir"
)

// Built-in control-flow constructs. They live in the default (empty) domain.
const (
	OpCond  = "Cond"
	OpWhile = "While"
)

// IsBuiltin reports whether op_type in domain names a built-in construct.
func IsBuiltin(opType, domain string) bool {
	return domain == "" && (opType == OpCond || opType == OpWhile)
}

func isBuiltin(n *ir.Node, op string) bool {
	return n.Domain() == "" && n.OpType() == op
}

// branch is the interface of a Cond branch or a While body: an inline
// graph or a function.
type branchSig struct {
	inputs  []*ir.Type
	outputs []*ir.Type
}

// cond checks Cond(predicate, then-args, else-args). Both branches must
// return the same number of outputs with pairwise unifiable types.
func (w *walker) cond(path string, n *ir.Node, s *Scope) {
	if got := len(n.Input()); got != 3 {
		w.errs.Add(ir.Errorf(ir.KindArityMismatch, path,
			"Cond takes 3 inputs (predicate, then-args, else-args), got %d", got))
	}
	then, okThen := w.branch(path, n, s, "then_branch")
	els, okElse := w.branch(path, n, s, "else_branch")
	if !okThen || !okElse {
		return
	}
	if len(then.outputs) != len(els.outputs) {
		w.errs.Add(ir.Errorf(ir.KindArityMismatch, path,
			"then_branch returns %d outputs, else_branch returns %d", len(then.outputs), len(els.outputs)))
		return
	}
	for i := range then.outputs {
		if err := Unify(then.outputs[i], els.outputs[i]); err != nil {
			w.errs.Add(ir.Errorf(ir.KindTypeIncompatible, path, "branch output %d: %v", i, err))
		}
	}
	if got := len(n.Output()); got != len(then.outputs) {
		w.errs.Add(ir.Errorf(ir.KindArityMismatch, path,
			"Cond has %d outputs, branches return %d", got, len(then.outputs)))
	}
}

// while checks While(initial-condition, loop-state). The body maps the loop
// state to itself and the condition returns a single value.
func (w *walker) while(path string, n *ir.Node, s *Scope) {
	if got := len(n.Input()); got != 2 {
		w.errs.Add(ir.Errorf(ir.KindArityMismatch, path,
			"While takes 2 inputs (condition, loop state), got %d", got))
	}
	if c, ok := w.branch(path, n, s, "condition"); ok && len(c.outputs) != 1 {
		w.errs.Add(ir.Errorf(ir.KindArityMismatch, path,
			"condition returns %d outputs, want 1", len(c.outputs)))
	}
	body, ok := w.branch(path, n, s, "body")
	if !ok {
		return
	}
	if len(body.outputs) != len(body.inputs) {
		w.errs.Add(ir.Errorf(ir.KindArityMismatch, path,
			"body takes %d inputs but returns %d outputs", len(body.inputs), len(body.outputs)))
	} else {
		for i := range body.outputs {
			if err := Unify(body.inputs[i], body.outputs[i]); err != nil {
				w.errs.Add(ir.Errorf(ir.KindTypeIncompatible, path, "loop state %d: %v", i, err))
			}
		}
	}
	if got := len(n.Output()); got != len(body.outputs) {
		w.errs.Add(ir.Errorf(ir.KindArityMismatch, path,
			"While has %d outputs, body returns %d", got, len(body.outputs)))
	}
}

// branch reads the branch named by attribute attr of n.
func (w *walker) branch(path string, n *ir.Node, s *Scope, attr string) (*branchSig, bool) {
	a, ok := n.Attribute(attr)
	if !ok {
		w.errs.Add(ir.Missing(path, attr))
		return nil, false
	}
	ap := ir.Elem(path, "attribute", attr)
	switch a.Kind() {
	case ir.AttrGraph:
		g := a.Graph()
		b := &branchSig{}
		for _, vi := range g.Inputs() {
			b.inputs = append(b.inputs, vi.Type())
		}
		for _, vi := range g.Outputs() {
			b.outputs = append(b.outputs, vi.Type())
		}
		return b, true
	case ir.AttrString:
		f, ok := w.lookupFunction(ap, a.Str(), s)
		if !ok {
			return nil, false
		}
		b := &branchSig{}
		for _, p := range f.Inputs() {
			b.inputs = append(b.inputs, p.Type())
		}
		for _, p := range f.Outputs() {
			b.outputs = append(b.outputs, p.Type())
		}
		return b, true
	default:
		w.errs.Add(ir.Errorf(ir.KindTypeIncompatible, ap,
			"branch must be a GRAPH or a function name (STRING), got %s", a.Kind()))
		return nil, false
	}
}

// lookupFunction resolves a branch function lexically, then through the
// BranchResolver.
func (w *walker) lookupFunction(path, name string, s *Scope) (*ir.FunctionDef, bool) {
	if f, _, ok := s.LookupFunction(name); ok {
		return f, true
	}
	if w.v.branches == nil {
		w.errs.Add(&ir.Error{
			Kind:      ir.KindUnresolvedReference,
			Path:      path,
			Namespace: ir.NamespaceOperatorOrFunction,
			Name:      name,
			Detail:    "no enclosing scope declares this function",
		})
		return nil, false
	}
	f, err := w.v.branches.ResolveFunction(s, name)
	if err != nil {
		w.errs.Add(retag(path, err))
		return nil, false
	}
	return f, true
}

// retag moves a resolver error onto the path of the referencing entity.
func retag(path string, err error) *ir.Error {
	var e *ir.Error
	if !errors.As(err, &e) {
		return ir.Errorf(ir.KindUnresolvedReference, path, "%v", err)
	}
	out := *e
	out.Path = path
	return &out
}

package ir

import "strconv"

// ValueInfo declares the static type of a named Value.
type ValueInfo struct {
	name      string
	typ       *Type
	docString string
	unknown   []byte
}

// Name returns the value name.
func (v *ValueInfo) Name() string { return v.name }

// Type returns the declared type.
func (v *ValueInfo) Type() *Type { return v.typ }

// DocString returns the documentation string.
func (v *ValueInfo) DocString() string { return v.docString }

// Unknown returns unrecognized wire fields retained for re-encoding.
func (v *ValueInfo) Unknown() []byte { return v.unknown }

// ValueInfoBuilder accumulates a ValueInfo. Name and Type are required.
type ValueInfoBuilder struct {
	Name      string
	Type      *TypeBuilder
	DocString string
	Unknown   []byte
}

// Input returns a ValueInfo builder for name with type t.
func Input(name string, t *TypeBuilder) *ValueInfoBuilder {
	return &ValueInfoBuilder{Name: name, Type: t}
}

// Build validates the accumulated fields and returns an immutable ValueInfo.
func (b *ValueInfoBuilder) Build() (*ValueInfo, error) {
	v, errs := b.build(Elem("", "value_info", b.Name))
	if len(errs) > 0 {
		return nil, errs
	}
	return v, nil
}

func (b *ValueInfoBuilder) build(path string) (*ValueInfo, ErrorList) {
	var errs ErrorList
	if b.Name == "" {
		errs.Add(Missing(path, "name"))
	}
	v := &ValueInfo{name: b.Name, docString: b.DocString, unknown: cloneBytes(b.Unknown)}
	if b.Type == nil {
		errs.Add(Missing(path, "type"))
	} else {
		var terrs ErrorList
		v.typ, terrs = b.Type.build(Field(path, "type"))
		errs.Append(terrs)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return v, nil
}

// Builder returns a builder initialized from v.
func (v *ValueInfo) Builder() *ValueInfoBuilder {
	return &ValueInfoBuilder{Name: v.name, Type: v.typ.Builder(), DocString: v.docString, Unknown: cloneBytes(v.unknown)}
}

// Node is one immutable computation step.
type Node struct {
	name          string
	opType        string
	domain        string
	input         []string
	output        []string
	attrs         []*Attribute
	controlInput  []string
	inputArgCount []int32
	docString     string
	unknown       []byte
}

// Name returns the node name; it may be empty.
func (n *Node) Name() string { return n.name }

// OpType returns the operator or function this node invokes.
func (n *Node) OpType() string { return n.opType }

// Domain returns the advisory operator domain.
func (n *Node) Domain() string { return n.domain }

// Input returns the input value names; "" marks an absent optional input.
func (n *Node) Input() []string { return n.input }

// Output returns the output value names.
func (n *Node) Output() []string { return n.output }

// Attributes returns the node attributes.
func (n *Node) Attributes() []*Attribute { return n.attrs }

// Attribute returns the attribute called name.
func (n *Node) Attribute(name string) (*Attribute, bool) {
	for _, a := range n.attrs {
		if a.name == name {
			return a, true
		}
	}
	return nil, false
}

// ControlInput returns the names of nodes that must execute before this one.
func (n *Node) ControlInput() []string { return n.controlInput }

// InputArgCount returns the per-formal-parameter input arity, if present.
func (n *Node) InputArgCount() ([]int32, bool) {
	return n.inputArgCount, n.inputArgCount != nil
}

// DocString returns the documentation string.
func (n *Node) DocString() string { return n.docString }

// Unknown returns unrecognized wire fields retained for re-encoding.
func (n *Node) Unknown() []byte { return n.unknown }

// Label returns the node name, or #i when the node is unnamed.
func (n *Node) Label(i int) string {
	return labelOr(n.name, i)
}

// NodeBuilder accumulates a Node. OpType is required.
// InputArgCount is absent when nil.
type NodeBuilder struct {
	Name          string
	OpType        string
	Domain        string
	Input         []string
	Output        []string
	Attributes    []*AttributeBuilder
	ControlInput  []string
	InputArgCount []int32
	DocString     string
	Unknown       []byte
}

// NewNode returns a builder for a node invoking opType.
func NewNode(name, opType string, input, output []string, attrs ...*AttributeBuilder) *NodeBuilder {
	return &NodeBuilder{Name: name, OpType: opType, Input: input, Output: output, Attributes: attrs}
}

// Build validates the accumulated fields and returns an immutable Node.
func (b *NodeBuilder) Build() (*Node, error) {
	n, errs := b.build(Elem("", "node", b.Name))
	if len(errs) > 0 {
		return nil, errs
	}
	return n, nil
}

func (b *NodeBuilder) build(path string) (*Node, ErrorList) {
	var errs ErrorList
	if b.OpType == "" {
		errs.Add(Missing(path, "op_type"))
	}
	n := &Node{
		name:         b.Name,
		opType:       b.OpType,
		domain:       b.Domain,
		input:        clone(b.Input),
		output:       clone(b.Output),
		controlInput: clone(b.ControlInput),
		docString:    b.DocString,
		unknown:      cloneBytes(b.Unknown),
	}
	if b.InputArgCount != nil {
		n.inputArgCount = append([]int32{}, b.InputArgCount...)
	}
	for i, ab := range b.Attributes {
		if ab == nil {
			errs.Add(Missing(Index(path, "attribute", i), "attribute"))
			continue
		}
		a, aerrs := ab.build(Elem(path, "attribute", labelOr(ab.Name, i)))
		errs.Append(aerrs)
		n.attrs = append(n.attrs, a)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return n, nil
}

// Builder returns a builder initialized from n.
func (n *Node) Builder() *NodeBuilder {
	b := &NodeBuilder{
		Name:         n.name,
		OpType:       n.opType,
		Domain:       n.domain,
		Input:        clone(n.input),
		Output:       clone(n.output),
		ControlInput: clone(n.controlInput),
		DocString:    n.docString,
		Unknown:      cloneBytes(n.unknown),
	}
	if n.inputArgCount != nil {
		b.InputArgCount = append([]int32{}, n.inputArgCount...)
	}
	for _, a := range n.attrs {
		b.Attributes = append(b.Attributes, a.Builder())
	}
	return b
}

// Graph is an immutable named directed graph of Nodes.
type Graph struct {
	name         string
	nodes        []*Node
	initializers []*Tensor
	inputs       []*ValueInfo
	outputs      []*ValueInfo
	valueInfo    []*ValueInfo
	functions    []*FunctionDef
	operators    []*OperatorDecl
	imports      []string
	docString    string
	unknown      []byte
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// Nodes returns the nodes in declaration order. The order is a hint only.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Initializers returns the default values for declared inputs.
func (g *Graph) Initializers() []*Tensor { return g.initializers }

// Inputs returns the declared graph inputs.
func (g *Graph) Inputs() []*ValueInfo { return g.inputs }

// Outputs returns the declared graph outputs.
func (g *Graph) Outputs() []*ValueInfo { return g.outputs }

// ValueInfo returns the declared intermediate values.
func (g *Graph) ValueInfo() []*ValueInfo { return g.valueInfo }

// Functions returns the locally scoped function definitions.
func (g *Graph) Functions() []*FunctionDef { return g.functions }

// Operators returns the locally declared external operators.
func (g *Graph) Operators() []*OperatorDecl { return g.operators }

// ImportedLibraries returns the imported library URIs in declaration order.
func (g *Graph) ImportedLibraries() []string { return g.imports }

// DocString returns the documentation string.
func (g *Graph) DocString() string { return g.docString }

// Unknown returns unrecognized wire fields retained for re-encoding.
func (g *Graph) Unknown() []byte { return g.unknown }

// GraphBuilder accumulates a Graph. Name is required.
type GraphBuilder struct {
	Name              string
	Nodes             []*NodeBuilder
	Initializers      []*TensorBuilder
	Inputs            []*ValueInfoBuilder
	Outputs           []*ValueInfoBuilder
	ValueInfo         []*ValueInfoBuilder
	Functions         []*FunctionBuilder
	Operators         []*OperatorBuilder
	ImportedLibraries []string
	DocString         string
	Unknown           []byte
}

// Build validates the accumulated fields and returns an immutable Graph.
func (b *GraphBuilder) Build() (*Graph, error) {
	g, errs := b.build(Elem("", "graph", b.Name))
	if len(errs) > 0 {
		return nil, errs
	}
	return g, nil
}

//nolint:gocognit // Builds every child collection.
func (b *GraphBuilder) build(path string) (*Graph, ErrorList) {
	var errs ErrorList
	if b.Name == "" {
		errs.Add(Missing(path, "name"))
	}
	g := &Graph{
		name:      b.Name,
		imports:   clone(b.ImportedLibraries),
		docString: b.DocString,
		unknown:   cloneBytes(b.Unknown),
	}
	for i, nb := range b.Nodes {
		if nb == nil {
			errs.Add(Missing(Index(path, "node", i), "node"))
			continue
		}
		n, nerrs := nb.build(Elem(path, "node", labelOr(nb.Name, i)))
		errs.Append(nerrs)
		g.nodes = append(g.nodes, n)
	}
	for i, tb := range b.Initializers {
		if tb == nil {
			errs.Add(Missing(Index(path, "initializer", i), "initializer"))
			continue
		}
		t, terrs := tb.build(Elem(path, "initializer", labelOr(tb.Name, i)))
		errs.Append(terrs)
		g.initializers = append(g.initializers, t)
	}
	g.inputs = buildValueInfos(path, "input", b.Inputs, &errs)
	g.outputs = buildValueInfos(path, "output", b.Outputs, &errs)
	g.valueInfo = buildValueInfos(path, "value_info", b.ValueInfo, &errs)
	for i, fb := range b.Functions {
		if fb == nil {
			errs.Add(Missing(Index(path, "function", i), "function"))
			continue
		}
		f, ferrs := fb.build(Elem(path, "function", labelOr(fb.Name, i)))
		errs.Append(ferrs)
		g.functions = append(g.functions, f)
	}
	for i, ob := range b.Operators {
		if ob == nil {
			errs.Add(Missing(Index(path, "operator", i), "operator"))
			continue
		}
		o, oerrs := ob.build(Elem(path, "operator", labelOr(ob.Name, i)))
		errs.Append(oerrs)
		g.operators = append(g.operators, o)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return g, nil
}

func buildValueInfos(path, kind string, bs []*ValueInfoBuilder, errs *ErrorList) []*ValueInfo {
	var out []*ValueInfo
	for i, vb := range bs {
		if vb == nil {
			errs.Add(Missing(Index(path, kind, i), kind))
			continue
		}
		v, verrs := vb.build(Elem(path, kind, labelOr(vb.Name, i)))
		errs.Append(verrs)
		out = append(out, v)
	}
	return out
}

// Builder returns a builder initialized from g.
func (g *Graph) Builder() *GraphBuilder {
	b := &GraphBuilder{
		Name:              g.name,
		ImportedLibraries: clone(g.imports),
		DocString:         g.docString,
		Unknown:           cloneBytes(g.unknown),
	}
	for _, n := range g.nodes {
		b.Nodes = append(b.Nodes, n.Builder())
	}
	for _, t := range g.initializers {
		b.Initializers = append(b.Initializers, t.Builder())
	}
	for _, v := range g.inputs {
		b.Inputs = append(b.Inputs, v.Builder())
	}
	for _, v := range g.outputs {
		b.Outputs = append(b.Outputs, v.Builder())
	}
	for _, v := range g.valueInfo {
		b.ValueInfo = append(b.ValueInfo, v.Builder())
	}
	for _, f := range g.functions {
		b.Functions = append(b.Functions, f.Builder())
	}
	for _, o := range g.operators {
		b.Operators = append(b.Operators, o.Builder())
	}
	return b
}

func labelOr(name string, i int) string {
	if name != "" {
		return name
	}
	return "#" + strconv.Itoa(i)
}

package ir

import "fmt"

// Attribute is an immutable named constant attached to a Node.
// Exactly one value slot is populated; Kind reports which.
type Attribute struct {
	name      string
	kind      AttrKind
	f         float32
	i         int64
	s         []byte
	t         *Tensor
	g         *Graph
	tp        *Type
	floats    []float32
	ints      []int64
	strings   [][]byte
	tensors   []*Tensor
	graphs    []*Graph
	types     []*Type
	docString string
	unknown   []byte
}

// Name returns the attribute name.
func (a *Attribute) Name() string { return a.name }

// Kind returns the populated slot.
func (a *Attribute) Kind() AttrKind { return a.kind }

// Float returns the FLOAT value.
func (a *Attribute) Float() float32 { return a.f }

// Int returns the INT value.
func (a *Attribute) Int() int64 { return a.i }

// Bytes returns the STRING value.
func (a *Attribute) Bytes() []byte { return a.s }

// Str returns the STRING value as a Go string.
func (a *Attribute) Str() string { return string(a.s) }

// Tensor returns the TENSOR value.
func (a *Attribute) Tensor() *Tensor { return a.t }

// Graph returns the GRAPH value.
func (a *Attribute) Graph() *Graph { return a.g }

// Type returns the TYPE value.
func (a *Attribute) Type() *Type { return a.tp }

// Floats returns the FLOATS value.
func (a *Attribute) Floats() []float32 { return a.floats }

// Ints returns the INTS value.
func (a *Attribute) Ints() []int64 { return a.ints }

// Strings returns the STRINGS value.
func (a *Attribute) Strings() [][]byte { return a.strings }

// Tensors returns the TENSORS value.
func (a *Attribute) Tensors() []*Tensor { return a.tensors }

// Graphs returns the GRAPHS value.
func (a *Attribute) Graphs() []*Graph { return a.graphs }

// Types returns the TYPES value.
func (a *Attribute) Types() []*Type { return a.types }

// DocString returns the documentation string.
func (a *Attribute) DocString() string { return a.docString }

// Unknown returns unrecognized wire fields retained for re-encoding.
func (a *Attribute) Unknown() []byte { return a.unknown }

// Subgraphs returns every graph owned by the attribute (g and graphs).
func (a *Attribute) Subgraphs() []*Graph {
	switch a.kind {
	case AttrGraph:
		return []*Graph{a.g}
	case AttrGraphs:
		return a.graphs
	default:
		return nil
	}
}

// AttributeBuilder accumulates an Attribute. Scalar slots are set when non-nil,
// S when non-nil, list slots when non-empty. Exactly one slot may be set.
type AttributeBuilder struct {
	Name      string
	F         *float32
	I         *int64
	S         []byte
	T         *TensorBuilder
	G         *GraphBuilder
	Type      *TypeBuilder
	Floats    []float32
	Ints      []int64
	Strings   [][]byte
	Tensors   []*TensorBuilder
	Graphs    []*GraphBuilder
	Types     []*TypeBuilder
	DocString string
	Unknown   []byte
}

// NewAttribute returns a builder for an attribute called name.
func NewAttribute(name string) *AttributeBuilder {
	return &AttributeBuilder{Name: name}
}

// SetFloat sets the FLOAT slot.
func (b *AttributeBuilder) SetFloat(v float32) *AttributeBuilder { b.F = &v; return b }

// SetInt sets the INT slot.
func (b *AttributeBuilder) SetInt(v int64) *AttributeBuilder { b.I = &v; return b }

// SetString sets the STRING slot.
func (b *AttributeBuilder) SetString(v string) *AttributeBuilder { b.S = []byte(v); return b }

// SetTensor sets the TENSOR slot.
func (b *AttributeBuilder) SetTensor(t *TensorBuilder) *AttributeBuilder { b.T = t; return b }

// SetGraph sets the GRAPH slot.
func (b *AttributeBuilder) SetGraph(g *GraphBuilder) *AttributeBuilder { b.G = g; return b }

// SetType sets the TYPE slot.
func (b *AttributeBuilder) SetType(t *TypeBuilder) *AttributeBuilder { b.Type = t; return b }

// SetFloats sets the FLOATS slot.
func (b *AttributeBuilder) SetFloats(v ...float32) *AttributeBuilder { b.Floats = v; return b }

// SetInts sets the INTS slot.
func (b *AttributeBuilder) SetInts(v ...int64) *AttributeBuilder { b.Ints = v; return b }

// SetStrings sets the STRINGS slot.
func (b *AttributeBuilder) SetStrings(v ...string) *AttributeBuilder {
	b.Strings = make([][]byte, len(v))
	for i, s := range v {
		b.Strings[i] = []byte(s)
	}
	return b
}

// SetTensors sets the TENSORS slot.
func (b *AttributeBuilder) SetTensors(v ...*TensorBuilder) *AttributeBuilder { b.Tensors = v; return b }

// SetGraphs sets the GRAPHS slot.
func (b *AttributeBuilder) SetGraphs(v ...*GraphBuilder) *AttributeBuilder { b.Graphs = v; return b }

// SetTypes sets the TYPES slot.
func (b *AttributeBuilder) SetTypes(v ...*TypeBuilder) *AttributeBuilder { b.Types = v; return b }

// Build validates the accumulated fields and returns an immutable Attribute.
func (b *AttributeBuilder) Build() (*Attribute, error) {
	a, errs := b.build(Elem("", "attribute", b.Name))
	if len(errs) > 0 {
		return nil, errs
	}
	return a, nil
}

func (b *AttributeBuilder) slots() []AttrKind {
	var set []AttrKind
	add := func(ok bool, k AttrKind) {
		if ok {
			set = append(set, k)
		}
	}
	add(b.F != nil, AttrFloat)
	add(b.I != nil, AttrInt)
	add(b.S != nil, AttrString)
	add(b.T != nil, AttrTensor)
	add(b.G != nil, AttrGraph)
	add(b.Type != nil, AttrType)
	add(len(b.Floats) > 0, AttrFloats)
	add(len(b.Ints) > 0, AttrInts)
	add(len(b.Strings) > 0, AttrStrings)
	add(len(b.Tensors) > 0, AttrTensors)
	add(len(b.Graphs) > 0, AttrGraphs)
	add(len(b.Types) > 0, AttrTypes)
	return set
}

//nolint:gocognit,gocyclo,cyclop // One branch per attribute slot.
func (b *AttributeBuilder) build(path string) (*Attribute, ErrorList) {
	var errs ErrorList
	if b.Name == "" {
		errs.Add(Missing(path, "name"))
	}
	set := b.slots()
	if len(set) != 1 {
		names := make([]string, len(set))
		for i, k := range set {
			names[i] = k.String()
		}
		errs.Add(&Error{Kind: KindUnionViolation, Path: path, Names: names,
			Detail: fmt.Sprintf("attribute must populate exactly one value slot, got %d", len(set))})
		return nil, errs
	}

	a := &Attribute{
		name:      b.Name,
		kind:      set[0],
		docString: b.DocString,
		unknown:   cloneBytes(b.Unknown),
	}
	switch a.kind {
	case AttrFloat:
		a.f = *b.F
	case AttrInt:
		a.i = *b.I
	case AttrString:
		a.s = cloneBytes(b.S)
	case AttrTensor:
		t, terrs := b.T.build(Field(path, "t"))
		errs.Append(terrs)
		a.t = t
	case AttrGraph:
		g, gerrs := b.G.build(Elem(path, "graph", b.G.Name))
		errs.Append(gerrs)
		a.g = g
	case AttrType:
		tp, terrs := b.Type.build(Field(path, "tp"))
		errs.Append(terrs)
		a.tp = tp
	case AttrFloats:
		a.floats = clone(b.Floats)
	case AttrInts:
		a.ints = clone(b.Ints)
	case AttrStrings:
		a.strings = cloneBytesList(b.Strings)
	case AttrTensors:
		for i, tb := range b.Tensors {
			if tb == nil {
				errs.Add(Missing(Index(path, "tensors", i), "tensors"))
				continue
			}
			t, terrs := tb.build(Index(path, "tensors", i))
			errs.Append(terrs)
			a.tensors = append(a.tensors, t)
		}
	case AttrGraphs:
		for i, gb := range b.Graphs {
			if gb == nil {
				errs.Add(Missing(Index(path, "graph", i), "graph"))
				continue
			}
			g, gerrs := gb.build(Elem(path, "graph", gb.Name))
			errs.Append(gerrs)
			a.graphs = append(a.graphs, g)
		}
	case AttrTypes:
		for i, tb := range b.Types {
			if tb == nil {
				errs.Add(Missing(Index(path, "type_protos", i), "type_protos"))
				continue
			}
			tp, terrs := tb.build(Index(path, "type_protos", i))
			errs.Append(terrs)
			a.types = append(a.types, tp)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return a, nil
}

// Builder returns a builder initialized from a.
func (a *Attribute) Builder() *AttributeBuilder {
	b := &AttributeBuilder{Name: a.name, DocString: a.docString, Unknown: cloneBytes(a.unknown)}
	switch a.kind {
	case AttrFloat:
		b.SetFloat(a.f)
	case AttrInt:
		b.SetInt(a.i)
	case AttrString:
		b.S = cloneBytes(a.s)
	case AttrTensor:
		b.T = a.t.Builder()
	case AttrGraph:
		b.G = a.g.Builder()
	case AttrType:
		b.Type = a.tp.Builder()
	case AttrFloats:
		b.Floats = clone(a.floats)
	case AttrInts:
		b.Ints = clone(a.ints)
	case AttrStrings:
		b.Strings = cloneBytesList(a.strings)
	case AttrTensors:
		for _, t := range a.tensors {
			b.Tensors = append(b.Tensors, t.Builder())
		}
	case AttrGraphs:
		for _, g := range a.graphs {
			b.Graphs = append(b.Graphs, g.Builder())
		}
	case AttrTypes:
		for _, t := range a.types {
			b.Types = append(b.Types, t.Builder())
		}
	}
	return b
}

// CheckUnion re-applies the single-slot discipline to an already constructed Attribute.
func (a *Attribute) CheckUnion(path string) ErrorList {
	var errs ErrorList
	if a.name == "" {
		errs.Add(Missing(path, "name"))
	}
	if a.kind == AttrUndefined {
		errs.Add(&Error{Kind: KindUnionViolation, Path: path, Detail: "attribute has no populated value slot"})
		return errs
	}
	if a.kind == AttrType {
		errs.Append(a.tp.CheckUnion(Field(path, "tp")))
	}
	for i, tp := range a.types {
		errs.Append(tp.CheckUnion(Index(path, "type_protos", i)))
	}
	return errs
}

package ir

// Param declares one formal input or output parameter.
type Param struct {
	name      string
	typ       *Type
	variadic  bool
	docString string
	unknown   []byte
}

// Name returns the parameter name.
func (p *Param) Name() string { return p.name }

// Type returns the declared type; nil when unconstrained.
func (p *Param) Type() *Type { return p.typ }

// Variadic reports whether the parameter accepts any number of values.
func (p *Param) Variadic() bool { return p.variadic }

// DocString returns the documentation string.
func (p *Param) DocString() string { return p.docString }

// Unknown returns unrecognized wire fields retained for re-encoding.
func (p *Param) Unknown() []byte { return p.unknown }

// ParamBuilder accumulates a Param. Name is required.
type ParamBuilder struct {
	Name      string
	Type      *TypeBuilder
	Variadic  bool
	DocString string
	Unknown   []byte
}

// NewParam returns a builder for a parameter with an optional type.
func NewParam(name string, t *TypeBuilder) *ParamBuilder {
	return &ParamBuilder{Name: name, Type: t}
}

// VariadicParam returns a builder for a variadic parameter.
func VariadicParam(name string, t *TypeBuilder) *ParamBuilder {
	return &ParamBuilder{Name: name, Type: t, Variadic: true}
}

func (b *ParamBuilder) build(path string) (*Param, ErrorList) {
	var errs ErrorList
	if b.Name == "" {
		errs.Add(Missing(path, "name"))
	}
	p := &Param{name: b.Name, variadic: b.Variadic, docString: b.DocString, unknown: cloneBytes(b.Unknown)}
	if b.Type != nil {
		var terrs ErrorList
		p.typ, terrs = b.Type.build(Field(path, "type_proto"))
		errs.Append(terrs)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return p, nil
}

func (p *Param) builder() *ParamBuilder {
	b := &ParamBuilder{Name: p.name, Variadic: p.variadic, DocString: p.docString, Unknown: cloneBytes(p.unknown)}
	if p.typ != nil {
		b.Type = p.typ.Builder()
	}
	return b
}

func buildParams(path, kind string, bs []*ParamBuilder, errs *ErrorList) []*Param {
	var out []*Param
	for i, pb := range bs {
		if pb == nil {
			errs.Add(Missing(Index(path, kind, i), kind))
			continue
		}
		p, perrs := pb.build(Elem(path, kind, labelOr(pb.Name, i)))
		errs.Append(perrs)
		out = append(out, p)
	}
	return out
}

func paramBuilders(ps []*Param) []*ParamBuilder {
	var out []*ParamBuilder
	for _, p := range ps {
		out = append(out, p.builder())
	}
	return out
}

// AttrDecl declares an attribute accepted by a function or operator signature.
type AttrDecl struct {
	name         string
	kind         AttrKind
	defaultValue *Attribute
	required     bool
	docString    string
	unknown      []byte
}

// Name returns the attribute name.
func (d *AttrDecl) Name() string { return d.name }

// Kind returns the declared attribute kind; AttrUndefined when unconstrained.
func (d *AttrDecl) Kind() AttrKind { return d.kind }

// Default returns the default value, if any.
func (d *AttrDecl) Default() *Attribute { return d.defaultValue }

// Required reports whether callers must provide the attribute.
func (d *AttrDecl) Required() bool { return d.required }

// DocString returns the documentation string.
func (d *AttrDecl) DocString() string { return d.docString }

// Unknown returns unrecognized wire fields retained for re-encoding.
func (d *AttrDecl) Unknown() []byte { return d.unknown }

// AttrDeclBuilder accumulates an AttrDecl. Name is required.
type AttrDeclBuilder struct {
	Name      string
	Kind      AttrKind
	Default   *AttributeBuilder
	Required  bool
	DocString string
	Unknown   []byte
}

func (b *AttrDeclBuilder) build(path string) (*AttrDecl, ErrorList) {
	var errs ErrorList
	if b.Name == "" {
		errs.Add(Missing(path, "name"))
	}
	d := &AttrDecl{name: b.Name, kind: b.Kind, required: b.Required, docString: b.DocString, unknown: cloneBytes(b.Unknown)}
	if b.Default != nil {
		var aerrs ErrorList
		d.defaultValue, aerrs = b.Default.build(Field(path, "default_value"))
		errs.Append(aerrs)
		if d.defaultValue != nil && b.Kind != AttrUndefined && d.defaultValue.kind != b.Kind {
			errs.Add(Errorf(KindTypeIncompatible, path, "default value is %s, declared %s", d.defaultValue.kind, b.Kind))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return d, nil
}

func (d *AttrDecl) builder() *AttrDeclBuilder {
	b := &AttrDeclBuilder{Name: d.name, Kind: d.kind, Required: d.required, DocString: d.docString, Unknown: cloneBytes(d.unknown)}
	if d.defaultValue != nil {
		b.Default = d.defaultValue.Builder()
	}
	return b
}

func buildAttrDecls(path string, bs []*AttrDeclBuilder, errs *ErrorList) []*AttrDecl {
	var out []*AttrDecl
	for i, ab := range bs {
		if ab == nil {
			errs.Add(Missing(Index(path, "attribute", i), "attribute"))
			continue
		}
		d, derrs := ab.build(Elem(path, "attribute", labelOr(ab.Name, i)))
		errs.Append(derrs)
		out = append(out, d)
	}
	return out
}

func attrDeclBuilders(ds []*AttrDecl) []*AttrDeclBuilder {
	var out []*AttrDeclBuilder
	for _, d := range ds {
		out = append(out, d.builder())
	}
	return out
}

// Signature is one overload of an operator: the abstract shape of its
// inputs, outputs and attributes.
type Signature struct {
	inputs    []*Param
	outputs   []*Param
	attrs     []*AttrDecl
	docString string
	unknown   []byte
}

// Inputs returns the formal input parameters.
func (s *Signature) Inputs() []*Param { return s.inputs }

// Outputs returns the formal output parameters.
func (s *Signature) Outputs() []*Param { return s.outputs }

// Attributes returns the attribute declarations.
func (s *Signature) Attributes() []*AttrDecl { return s.attrs }

// DocString returns the documentation string.
func (s *Signature) DocString() string { return s.docString }

// Unknown returns unrecognized wire fields retained for re-encoding.
func (s *Signature) Unknown() []byte { return s.unknown }

// SignatureBuilder accumulates a Signature.
type SignatureBuilder struct {
	Inputs     []*ParamBuilder
	Outputs    []*ParamBuilder
	Attributes []*AttrDeclBuilder
	DocString  string
	Unknown    []byte
}

func (b *SignatureBuilder) build(path string) (*Signature, ErrorList) {
	var errs ErrorList
	s := &Signature{docString: b.DocString, unknown: cloneBytes(b.Unknown)}
	s.inputs = buildParams(path, "input_params", b.Inputs, &errs)
	s.outputs = buildParams(path, "output_params", b.Outputs, &errs)
	s.attrs = buildAttrDecls(path, b.Attributes, &errs)
	if len(errs) > 0 {
		return nil, errs
	}
	return s, nil
}

// OperatorDecl declares an externally implemented operator with one or more overloads.
type OperatorDecl struct {
	name       string
	signatures []*Signature
	docString  string
	unknown    []byte
}

// Name returns the operator name.
func (o *OperatorDecl) Name() string { return o.name }

// Signatures returns the overloads.
func (o *OperatorDecl) Signatures() []*Signature { return o.signatures }

// DocString returns the documentation string.
func (o *OperatorDecl) DocString() string { return o.docString }

// Unknown returns unrecognized wire fields retained for re-encoding.
func (o *OperatorDecl) Unknown() []byte { return o.unknown }

// OperatorBuilder accumulates an OperatorDecl. Name and at least one signature are required.
type OperatorBuilder struct {
	Name       string
	Signatures []*SignatureBuilder
	DocString  string
	Unknown    []byte
}

// NewOperator returns a builder for an operator with the given overloads.
func NewOperator(name string, sigs ...*SignatureBuilder) *OperatorBuilder {
	return &OperatorBuilder{Name: name, Signatures: sigs}
}

// Build validates the accumulated fields and returns an immutable OperatorDecl.
func (b *OperatorBuilder) Build() (*OperatorDecl, error) {
	o, errs := b.build(Elem("", "operator", b.Name))
	if len(errs) > 0 {
		return nil, errs
	}
	return o, nil
}

func (b *OperatorBuilder) build(path string) (*OperatorDecl, ErrorList) {
	var errs ErrorList
	if b.Name == "" {
		errs.Add(Missing(path, "name"))
	}
	if len(b.Signatures) == 0 {
		errs.Add(Missing(path, "signature"))
	}
	o := &OperatorDecl{name: b.Name, docString: b.DocString, unknown: cloneBytes(b.Unknown)}
	for i, sb := range b.Signatures {
		if sb == nil {
			errs.Add(Missing(Index(path, "signature", i), "signature"))
			continue
		}
		s, serrs := sb.build(Index(path, "signature", i))
		errs.Append(serrs)
		o.signatures = append(o.signatures, s)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return o, nil
}

// Builder returns a builder initialized from o.
func (o *OperatorDecl) Builder() *OperatorBuilder {
	b := &OperatorBuilder{Name: o.name, DocString: o.docString, Unknown: cloneBytes(o.unknown)}
	for _, s := range o.signatures {
		b.Signatures = append(b.Signatures, &SignatureBuilder{
			Inputs:     paramBuilders(s.inputs),
			Outputs:    paramBuilders(s.outputs),
			Attributes: attrDeclBuilders(s.attrs),
			DocString:  s.docString,
			Unknown:    cloneBytes(s.unknown),
		})
	}
	return b
}

// FunctionDef is a named, reusable node body with formal parameters.
type FunctionDef struct {
	name      string
	inputs    []*Param
	outputs   []*Param
	attrs     []*AttrDecl
	nodes     []*Node
	docString string
	unknown   []byte
}

// Name returns the function name.
func (f *FunctionDef) Name() string { return f.name }

// Inputs returns the formal input parameters.
func (f *FunctionDef) Inputs() []*Param { return f.inputs }

// Outputs returns the formal output parameters.
func (f *FunctionDef) Outputs() []*Param { return f.outputs }

// Attributes returns the attribute declarations.
func (f *FunctionDef) Attributes() []*AttrDecl { return f.attrs }

// Nodes returns the body.
func (f *FunctionDef) Nodes() []*Node { return f.nodes }

// DocString returns the documentation string.
func (f *FunctionDef) DocString() string { return f.docString }

// Unknown returns unrecognized wire fields retained for re-encoding.
func (f *FunctionDef) Unknown() []byte { return f.unknown }

// Signature returns the function's parameters as a Signature.
func (f *FunctionDef) Signature() *Signature {
	return &Signature{inputs: f.inputs, outputs: f.outputs, attrs: f.attrs}
}

// FunctionBuilder accumulates a FunctionDef. Name is required.
type FunctionBuilder struct {
	Name       string
	Inputs     []*ParamBuilder
	Outputs    []*ParamBuilder
	Attributes []*AttrDeclBuilder
	Nodes      []*NodeBuilder
	DocString  string
	Unknown    []byte
}

// Build validates the accumulated fields and returns an immutable FunctionDef.
func (b *FunctionBuilder) Build() (*FunctionDef, error) {
	f, errs := b.build(Elem("", "function", b.Name))
	if len(errs) > 0 {
		return nil, errs
	}
	return f, nil
}

func (b *FunctionBuilder) build(path string) (*FunctionDef, ErrorList) {
	var errs ErrorList
	if b.Name == "" {
		errs.Add(Missing(path, "name"))
	}
	f := &FunctionDef{name: b.Name, docString: b.DocString, unknown: cloneBytes(b.Unknown)}
	f.inputs = buildParams(path, "input_params", b.Inputs, &errs)
	f.outputs = buildParams(path, "output_params", b.Outputs, &errs)
	f.attrs = buildAttrDecls(path, b.Attributes, &errs)
	for i, nb := range b.Nodes {
		if nb == nil {
			errs.Add(Missing(Index(path, "node", i), "node"))
			continue
		}
		n, nerrs := nb.build(Elem(path, "node", labelOr(nb.Name, i)))
		errs.Append(nerrs)
		f.nodes = append(f.nodes, n)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return f, nil
}

// Builder returns a builder initialized from f.
func (f *FunctionDef) Builder() *FunctionBuilder {
	b := &FunctionBuilder{
		Name:       f.name,
		Inputs:     paramBuilders(f.inputs),
		Outputs:    paramBuilders(f.outputs),
		Attributes: attrDeclBuilders(f.attrs),
		DocString:  f.docString,
		Unknown:    cloneBytes(f.unknown),
	}
	for _, n := range f.nodes {
		b.Nodes = append(b.Nodes, n.Builder())
	}
	return b
}

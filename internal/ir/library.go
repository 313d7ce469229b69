package ir

// LibraryIdentity identifies a Library: (domain, name, model_version).
type LibraryIdentity struct {
	Domain       string
	Name         string
	ModelVersion int64
}

// Library is a named, domain-scoped bundle of operator and function
// declarations plus imports of other libraries.
type Library struct {
	irVersion       int64
	producerName    string
	producerVersion string
	domain          string
	name            string
	modelVersion    int64
	docString       string
	operators       []*OperatorDecl
	functions       []*FunctionDef
	imports         []string
	unknown         []byte
}

// IRVersion returns the declared IR version.
func (l *Library) IRVersion() int64 { return l.irVersion }

// ProducerName returns the advisory producer name.
func (l *Library) ProducerName() string { return l.producerName }

// ProducerVersion returns the advisory producer version.
func (l *Library) ProducerVersion() string { return l.producerVersion }

// Domain returns the reverse-DNS domain.
func (l *Library) Domain() string { return l.domain }

// Name returns the library name.
func (l *Library) Name() string { return l.name }

// ModelVersion returns the library version.
func (l *Library) ModelVersion() int64 { return l.modelVersion }

// DocString returns the documentation string.
func (l *Library) DocString() string { return l.docString }

// Operators returns the declared operators.
func (l *Library) Operators() []*OperatorDecl { return l.operators }

// Functions returns the defined functions.
func (l *Library) Functions() []*FunctionDef { return l.functions }

// ImportedLibraries returns the imported library URIs in declaration order.
func (l *Library) ImportedLibraries() []string { return l.imports }

// Unknown returns unrecognized wire fields retained for re-encoding.
func (l *Library) Unknown() []byte { return l.unknown }

// Identity returns the identity key of the library.
func (l *Library) Identity() LibraryIdentity {
	return LibraryIdentity{Domain: l.domain, Name: l.name, ModelVersion: l.modelVersion}
}

// Prefix returns the qualifier of entries in this library: domain.name,
// or just name when the domain is empty.
func (l *Library) Prefix() string {
	if l.domain == "" {
		return l.name
	}
	return l.domain + "." + l.name
}

// QualifiedName returns the fully qualified reference to entry.
func (l *Library) QualifiedName(entry string) string {
	return l.Prefix() + "." + entry
}

// Operator returns the operator called name.
func (l *Library) Operator(name string) (*OperatorDecl, bool) {
	for _, o := range l.operators {
		if o.name == name {
			return o, true
		}
	}
	return nil, false
}

// Function returns the function called name.
func (l *Library) Function(name string) (*FunctionDef, bool) {
	for _, f := range l.functions {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

// LibraryBuilder accumulates a Library. Name and IRVersion are required.
type LibraryBuilder struct {
	IRVersion         int64
	ProducerName      string
	ProducerVersion   string
	Domain            string
	Name              string
	ModelVersion      int64
	DocString         string
	Operators         []*OperatorBuilder
	Functions         []*FunctionBuilder
	ImportedLibraries []string
	Unknown           []byte
}

// Build validates the accumulated fields and returns an immutable Library.
func (b *LibraryBuilder) Build() (*Library, error) {
	l, errs := b.build(Elem("", "library", b.Name))
	if len(errs) > 0 {
		return nil, errs
	}
	return l, nil
}

func (b *LibraryBuilder) build(path string) (*Library, ErrorList) {
	var errs ErrorList
	if b.Name == "" {
		errs.Add(Missing(path, "name"))
	}
	if b.IRVersion == 0 {
		errs.Add(Missing(path, "ir_version"))
	}
	l := &Library{
		irVersion:       b.IRVersion,
		producerName:    b.ProducerName,
		producerVersion: b.ProducerVersion,
		domain:          b.Domain,
		name:            b.Name,
		modelVersion:    b.ModelVersion,
		docString:       b.DocString,
		imports:         clone(b.ImportedLibraries),
		unknown:         cloneBytes(b.Unknown),
	}
	for i, ob := range b.Operators {
		if ob == nil {
			errs.Add(Missing(Index(path, "operator", i), "operator"))
			continue
		}
		o, oerrs := ob.build(Elem(path, "operator", labelOr(ob.Name, i)))
		errs.Append(oerrs)
		l.operators = append(l.operators, o)
	}
	for i, fb := range b.Functions {
		if fb == nil {
			errs.Add(Missing(Index(path, "function", i), "function"))
			continue
		}
		f, ferrs := fb.build(Elem(path, "function", labelOr(fb.Name, i)))
		errs.Append(ferrs)
		l.functions = append(l.functions, f)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return l, nil
}

// Builder returns a builder initialized from l.
func (l *Library) Builder() *LibraryBuilder {
	b := &LibraryBuilder{
		IRVersion:         l.irVersion,
		ProducerName:      l.producerName,
		ProducerVersion:   l.producerVersion,
		Domain:            l.domain,
		Name:              l.name,
		ModelVersion:      l.modelVersion,
		DocString:         l.docString,
		ImportedLibraries: clone(l.imports),
		Unknown:           cloneBytes(l.unknown),
	}
	for _, o := range l.operators {
		b.Operators = append(b.Operators, o.Builder())
	}
	for _, f := range l.functions {
		b.Functions = append(b.Functions, f.Builder())
	}
	return b
}

package ir

// StringEntry is one model metadata property.
type StringEntry struct {
	Key   string
	Value string
}

// ModelIdentity identifies a Model: (domain, model_version, graph name).
type ModelIdentity struct {
	Domain       string
	ModelVersion int64
	GraphName    string
}

// Model is the immutable top-level container. It owns exactly one Graph.
type Model struct {
	irVersion       int64
	producerName    string
	producerVersion string
	domain          string
	modelVersion    int64
	docString       string
	graph           *Graph
	metadata        []StringEntry
	unknown         []byte
}

// IRVersion returns the declared IR version. It is not interpreted here.
func (m *Model) IRVersion() int64 { return m.irVersion }

// ProducerName returns the advisory producer name.
func (m *Model) ProducerName() string { return m.producerName }

// ProducerVersion returns the advisory producer version.
func (m *Model) ProducerVersion() string { return m.producerVersion }

// Domain returns the reverse-DNS domain.
func (m *Model) Domain() string { return m.domain }

// ModelVersion returns the model version.
func (m *Model) ModelVersion() int64 { return m.modelVersion }

// DocString returns the documentation string.
func (m *Model) DocString() string { return m.docString }

// Graph returns the main graph.
func (m *Model) Graph() *Graph { return m.graph }

// MetadataProps returns the metadata properties in declaration order.
func (m *Model) MetadataProps() []StringEntry { return m.metadata }

// Unknown returns unrecognized wire fields retained for re-encoding.
func (m *Model) Unknown() []byte { return m.unknown }

// Identity returns the identity key of the model.
func (m *Model) Identity() ModelIdentity {
	return ModelIdentity{Domain: m.domain, ModelVersion: m.modelVersion, GraphName: m.graph.name}
}

// ModelBuilder accumulates a Model. IRVersion and Graph are required.
type ModelBuilder struct {
	IRVersion       int64
	ProducerName    string
	ProducerVersion string
	Domain          string
	ModelVersion    int64
	DocString       string
	Graph           *GraphBuilder
	MetadataProps   []StringEntry
	Unknown         []byte
}

// NewModel returns a builder for a model at the current IR version owning g.
func NewModel(g *GraphBuilder) *ModelBuilder {
	return &ModelBuilder{IRVersion: IRVersion, Graph: g}
}

// Build validates the accumulated fields and returns an immutable Model.
// On failure the error is an ErrorList holding every defect found.
func (b *ModelBuilder) Build() (*Model, error) {
	m, errs := b.build("model")
	if len(errs) > 0 {
		return nil, errs
	}
	return m, nil
}

func (b *ModelBuilder) build(path string) (*Model, ErrorList) {
	var errs ErrorList
	if b.IRVersion == 0 {
		errs.Add(Missing(path, "ir_version"))
	}
	m := &Model{
		irVersion:       b.IRVersion,
		producerName:    b.ProducerName,
		producerVersion: b.ProducerVersion,
		domain:          b.Domain,
		modelVersion:    b.ModelVersion,
		docString:       b.DocString,
		metadata:        clone(b.MetadataProps),
		unknown:         cloneBytes(b.Unknown),
	}
	if b.Graph == nil {
		errs.Add(Missing(path, "graph"))
	} else {
		var gerrs ErrorList
		m.graph, gerrs = b.Graph.build(Elem(path, "graph", b.Graph.Name))
		errs.Append(gerrs)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return m, nil
}

// Builder returns a builder initialized from m.
func (m *Model) Builder() *ModelBuilder {
	return &ModelBuilder{
		IRVersion:       m.irVersion,
		ProducerName:    m.producerName,
		ProducerVersion: m.producerVersion,
		Domain:          m.domain,
		ModelVersion:    m.modelVersion,
		DocString:       m.docString,
		Graph:           m.graph.Builder(),
		MetadataProps:   clone(m.metadata),
		Unknown:         cloneBytes(m.unknown),
	}
}

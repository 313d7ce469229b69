package codec

import (
	"math"

	"github.com/born-ml/graphir/internal/ir"
)

// DecodeModel decodes a ModelProto. ir_version is passed through unchecked.
func DecodeModel(data []byte, opts ...Option) (*ir.Model, error) {
	mb, err := newParser(data, "model", buildOptions(opts)).readModel()
	if err != nil {
		return nil, wrap("model", err)
	}
	m, err := mb.Build()
	if err != nil {
		return nil, wrap("model", err)
	}
	return m, nil
}

// DecodeLibrary decodes a LibraryProto.
func DecodeLibrary(data []byte, opts ...Option) (*ir.Library, error) {
	lb, err := newParser(data, "library", buildOptions(opts)).readLibrary()
	if err != nil {
		return nil, wrap("library", err)
	}
	l, err := lb.Build()
	if err != nil {
		return nil, wrap("library", err)
	}
	return l, nil
}

// DecodeGraph decodes a standalone GraphProto.
func DecodeGraph(data []byte, opts ...Option) (*ir.Graph, error) {
	gb, err := newParser(data, "graph", buildOptions(opts)).readGraph()
	if err != nil {
		return nil, wrap("graph", err)
	}
	g, err := gb.Build()
	if err != nil {
		return nil, wrap("graph", err)
	}
	return g, nil
}

// DecodeTensor decodes a standalone TensorProto.
func DecodeTensor(data []byte, opts ...Option) (*ir.Tensor, error) {
	tb, err := newParser(data, "tensor", buildOptions(opts)).readTensor()
	if err != nil {
		return nil, wrap("tensor", err)
	}
	t, err := tb.Build()
	if err != nil {
		return nil, wrap("tensor", err)
	}
	return t, nil
}

// DecodeValue decodes a ValueProto.
func DecodeValue(data []byte, opts ...Option) (*ir.Value, error) {
	vb, err := newParser(data, "value", buildOptions(opts)).readValue()
	if err != nil {
		return nil, wrap("value", err)
	}
	v, err := vb.Build()
	if err != nil {
		return nil, wrap("value", err)
	}
	return v, nil
}

// readModel reads ModelProto.
//
//nolint:gocognit,gocyclo,cyclop // Protobuf parsing requires field-by-field switch logic.
func (p *parser) readModel() (*ir.ModelBuilder, error) {
	m := &ir.ModelBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // ir_version
			m.IRVersion, err = p.readInt64()
		case 2: // producer_name
			m.ProducerName, err = p.readString()
		case 3: // producer_version
			m.ProducerVersion, err = p.readString()
		case 4: // domain
			m.Domain, err = p.readString()
		case 5: // model_version
			m.ModelVersion, err = p.readInt64()
		case 6: // doc_string
			m.DocString, err = p.readString()
		case 7: // graph
			m.Graph, err = readSub(p, ir.Field(p.path, "graph"), (*parser).readGraph)
		case 14: // metadata_props
			var e ir.StringEntry
			e, err = readSub(p, ir.Index(p.path, "metadata_props", len(m.MetadataProps)), (*parser).readStringEntry)
			m.MetadataProps = append(m.MetadataProps, e)
		default:
			err = p.skipField()
		}
		if err != nil {
			return nil, err
		}
	}
	m.Unknown = p.unknown
	return m, nil
}

func (p *parser) readStringEntry() (ir.StringEntry, error) {
	var e ir.StringEntry
	for p.more() {
		if err := p.next(); err != nil {
			return e, err
		}
		var err error
		switch p.num {
		case 1: // key
			e.Key, err = p.readString()
		case 2: // value
			e.Value, err = p.readString()
		default:
			err = p.discardField()
		}
		if err != nil {
			return e, err
		}
	}
	return e, nil
}

// readLibrary reads LibraryProto.
//
//nolint:gocognit,gocyclo,cyclop // Protobuf parsing requires field-by-field switch logic.
func (p *parser) readLibrary() (*ir.LibraryBuilder, error) {
	l := &ir.LibraryBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // ir_version
			l.IRVersion, err = p.readInt64()
		case 2: // producer_name
			l.ProducerName, err = p.readString()
		case 3: // producer_version
			l.ProducerVersion, err = p.readString()
		case 4: // domain
			l.Domain, err = p.readString()
		case 5: // name
			l.Name, err = p.readString()
		case 6: // model_version
			l.ModelVersion, err = p.readInt64()
		case 7: // doc_string
			l.DocString, err = p.readString()
		case 8: // operator
			var o *ir.OperatorBuilder
			o, err = readSub(p, ir.Index(p.path, "operator", len(l.Operators)), (*parser).readOperator)
			l.Operators = append(l.Operators, o)
		case 9: // function
			var f *ir.FunctionBuilder
			f, err = readSub(p, ir.Index(p.path, "function", len(l.Functions)), (*parser).readFunction)
			l.Functions = append(l.Functions, f)
		case 10: // imported_libraries
			var uri string
			uri, err = p.readString()
			l.ImportedLibraries = append(l.ImportedLibraries, uri)
		default:
			err = p.skipField()
		}
		if err != nil {
			return nil, err
		}
	}
	l.Unknown = p.unknown
	return l, nil
}

// readGraph reads GraphProto.
//
//nolint:gocognit,gocyclo,cyclop,funlen // Protobuf parsing requires field-by-field switch logic.
func (p *parser) readGraph() (*ir.GraphBuilder, error) {
	g := &ir.GraphBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // node
			var n *ir.NodeBuilder
			n, err = readSub(p, ir.Index(p.path, "node", len(g.Nodes)), (*parser).readNode)
			g.Nodes = append(g.Nodes, n)
		case 2: // name
			g.Name, err = p.readString()
		case 5: // initializer
			var t *ir.TensorBuilder
			t, err = readSub(p, ir.Index(p.path, "initializer", len(g.Initializers)), (*parser).readTensor)
			g.Initializers = append(g.Initializers, t)
		case 10: // doc_string
			g.DocString, err = p.readString()
		case 11: // input
			var v *ir.ValueInfoBuilder
			v, err = readSub(p, ir.Index(p.path, "input", len(g.Inputs)), (*parser).readValueInfo)
			g.Inputs = append(g.Inputs, v)
		case 12: // output
			var v *ir.ValueInfoBuilder
			v, err = readSub(p, ir.Index(p.path, "output", len(g.Outputs)), (*parser).readValueInfo)
			g.Outputs = append(g.Outputs, v)
		case 13: // value_info
			var v *ir.ValueInfoBuilder
			v, err = readSub(p, ir.Index(p.path, "value_info", len(g.ValueInfo)), (*parser).readValueInfo)
			g.ValueInfo = append(g.ValueInfo, v)
		case 20: // function
			var f *ir.FunctionBuilder
			f, err = readSub(p, ir.Index(p.path, "function", len(g.Functions)), (*parser).readFunction)
			g.Functions = append(g.Functions, f)
		case 21: // operator
			var o *ir.OperatorBuilder
			o, err = readSub(p, ir.Index(p.path, "operator", len(g.Operators)), (*parser).readOperator)
			g.Operators = append(g.Operators, o)
		case 22: // imported_libraries
			var uri string
			uri, err = p.readString()
			g.ImportedLibraries = append(g.ImportedLibraries, uri)
		default:
			err = p.skipField()
		}
		if err != nil {
			return nil, err
		}
	}
	g.Unknown = p.unknown
	return g, nil
}

// readNode reads NodeProto.
//
//nolint:gocognit,gocyclo,cyclop // Protobuf parsing requires field-by-field switch logic.
func (p *parser) readNode() (*ir.NodeBuilder, error) {
	n := &ir.NodeBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		var s string
		switch p.num {
		case 1: // input
			s, err = p.readString()
			n.Input = append(n.Input, s)
		case 2: // output
			s, err = p.readString()
			n.Output = append(n.Output, s)
		case 3: // name
			n.Name, err = p.readString()
		case 4: // op_type
			n.OpType, err = p.readString()
		case 5: // attribute
			var a *ir.AttributeBuilder
			a, err = readSub(p, ir.Index(p.path, "attribute", len(n.Attributes)), (*parser).readAttribute)
			n.Attributes = append(n.Attributes, a)
		case 6: // doc_string
			n.DocString, err = p.readString()
		case 7: // domain
			n.Domain, err = p.readString()
		case 8: // input_arg_count
			if n.InputArgCount == nil {
				n.InputArgCount = []int32{}
			}
			err = p.readVarints(func(v uint64) {
				n.InputArgCount = append(n.InputArgCount, int32(v)) //nolint:gosec // G115: int32 varint.
			})
		case 9: // control_input
			s, err = p.readString()
			n.ControlInput = append(n.ControlInput, s)
		default:
			err = p.skipField()
		}
		if err != nil {
			return nil, err
		}
	}
	n.Unknown = p.unknown
	return n, nil
}

// readAttribute reads AttributeProto. Every slot present on the wire is
// kept; the builder rejects more than one.
//
//nolint:gocognit,gocyclo,cyclop,funlen // Protobuf parsing requires field-by-field switch logic.
func (p *parser) readAttribute() (*ir.AttributeBuilder, error) {
	a := &ir.AttributeBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // name
			a.Name, err = p.readString()
		case 2: // f
			var v uint32
			v, err = p.readFixed32()
			f := math.Float32frombits(v)
			a.F = &f
		case 3: // i
			var v int64
			v, err = p.readInt64()
			a.I = &v
		case 4: // s
			a.S, err = p.readBytes()
		case 5: // t
			a.T, err = readSub(p, ir.Field(p.path, "t"), (*parser).readTensor)
		case 6: // g
			a.G, err = readSub(p, ir.Field(p.path, "g"), (*parser).readGraph)
		case 7: // floats
			err = p.readFixed32s(func(v uint32) { a.Floats = append(a.Floats, math.Float32frombits(v)) })
		case 8: // ints
			err = p.readVarints(func(v uint64) { a.Ints = append(a.Ints, int64(v)) }) //nolint:gosec // G115: int64 varint.
		case 9: // strings
			var s []byte
			s, err = p.readBytes()
			a.Strings = append(a.Strings, s)
		case 10: // tensors
			var t *ir.TensorBuilder
			t, err = readSub(p, ir.Index(p.path, "tensors", len(a.Tensors)), (*parser).readTensor)
			a.Tensors = append(a.Tensors, t)
		case 11: // graphs
			var g *ir.GraphBuilder
			g, err = readSub(p, ir.Index(p.path, "graphs", len(a.Graphs)), (*parser).readGraph)
			a.Graphs = append(a.Graphs, g)
		case 13: // doc_string
			a.DocString, err = p.readString()
		case 14: // tp
			a.Type, err = readSub(p, ir.Field(p.path, "tp"), (*parser).readType)
		case 15: // type_protos
			var t *ir.TypeBuilder
			t, err = readSub(p, ir.Index(p.path, "type_protos", len(a.Types)), (*parser).readType)
			a.Types = append(a.Types, t)
		default:
			err = p.skipField()
		}
		if err != nil {
			return nil, err
		}
	}
	a.Unknown = p.unknown
	return a, nil
}

func (p *parser) readValueInfo() (*ir.ValueInfoBuilder, error) {
	v := &ir.ValueInfoBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // name
			v.Name, err = p.readString()
		case 2: // type
			v.Type, err = readSub(p, ir.Field(p.path, "type"), (*parser).readType)
		case 3: // doc_string
			v.DocString, err = p.readString()
		default:
			err = p.skipField()
		}
		if err != nil {
			return nil, err
		}
	}
	v.Unknown = p.unknown
	return v, nil
}

// readTensor reads TensorProto and applies the payload bound.
//
//nolint:gocognit,gocyclo,cyclop,funlen // Protobuf parsing requires field-by-field switch logic.
func (p *parser) readTensor() (*ir.TensorBuilder, error) {
	t := &ir.TensorBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // dims
			err = p.readVarints(func(v uint64) { t.Dims = append(t.Dims, int64(v)) }) //nolint:gosec // G115: int64 varint.
		case 2: // data_type
			var v int64
			v, err = p.readInt64()
			t.DataType = ir.DataType(v) //nolint:gosec // G115: enum values are int32.
		case 3: // segment
			t.Segment, err = readSub(p, ir.Field(p.path, "segment"), (*parser).readSegment)
		case 4: // float_data
			err = p.readFixed32s(func(v uint32) { t.FloatData = append(t.FloatData, math.Float32frombits(v)) })
		case 5: // int32_data
			err = p.readVarints(func(v uint64) { t.Int32Data = append(t.Int32Data, int32(v)) }) //nolint:gosec // G115: int32 varint.
		case 6: // string_data
			var s []byte
			s, err = p.readBytes()
			t.StringData = append(t.StringData, s)
		case 7: // int64_data
			err = p.readVarints(func(v uint64) { t.Int64Data = append(t.Int64Data, int64(v)) }) //nolint:gosec // G115: int64 varint.
		case 8: // name
			t.Name, err = p.readString()
		case 9: // raw_data
			t.RawData, err = p.readBytes()
		case 10: // double_data
			err = p.readFixed64s(func(v uint64) { t.DoubleData = append(t.DoubleData, math.Float64frombits(v)) })
		case 11: // uint64_data
			err = p.readVarints(func(v uint64) { t.Uint64Data = append(t.Uint64Data, v) })
		case 12: // doc_string
			t.DocString, err = p.readString()
		default:
			err = p.skipField()
		}
		if err != nil {
			return nil, err
		}
	}
	t.Unknown = p.unknown
	if err := p.checkPayload(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *parser) readSegment() (*ir.Segment, error) {
	s := &ir.Segment{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // begin
			s.Begin, err = p.readInt64()
		case 2: // end
			s.End, err = p.readInt64()
		default:
			err = p.discardField()
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// checkPayload rejects a tensor whose dims or stored payload claim more
// bytes than MaxPayloadBytes. Negative dims are left to the builder.
func (p *parser) checkPayload(t *ir.TensorBuilder) error {
	limit := p.opts.MaxPayloadBytes
	if limit <= 0 {
		return nil
	}
	for _, d := range t.Dims {
		if d < 0 {
			return nil
		}
	}
	count, ok := ir.ElementCount(t.Dims)
	if t.Segment != nil {
		count, ok = t.Segment.End-t.Segment.Begin, true
	}
	if width := int64(t.DataType.Size()); !ok || (width > 0 && count > limit/width) {
		return ir.Errorf(ir.KindPayloadTooLarge, p.path, "dims %v of %s exceed %d bytes", t.Dims, t.DataType, limit)
	}

	stored := int64(len(t.RawData)) +
		4*int64(len(t.FloatData)+len(t.Int32Data)) +
		8*int64(len(t.Int64Data)+len(t.DoubleData)+len(t.Uint64Data))
	for _, s := range t.StringData {
		stored += int64(len(s))
	}
	if stored > limit {
		return ir.Errorf(ir.KindPayloadTooLarge, p.path, "payload of %d bytes exceeds %d", stored, limit)
	}
	return nil
}

// readType reads TypeProto.
//
//nolint:gocognit,gocyclo,cyclop // Protobuf parsing requires field-by-field switch logic.
func (p *parser) readType() (*ir.TypeBuilder, error) {
	t := &ir.TypeBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // tensor_type
			t.Tensor, err = readSub(p, ir.Field(p.path, "tensor_type"), (*parser).readTensorType)
		case 2: // sparse_tensor_type
			t.SparseTensor, err = readSub(p, ir.Field(p.path, "sparse_tensor_type"), (*parser).readTensorType)
		case 3: // handle_type
			t.Handle, err = readSub(p, ir.Field(p.path, "handle_type"), (*parser).readHandleType)
		case 4: // tuple_type
			t.Tuple, err = readSub(p, ir.Field(p.path, "tuple_type"), (*parser).readTupleType)
		case 5: // sequence_type
			t.Sequence, err = readSub(p, ir.Field(p.path, "sequence_type"), (*parser).readSequenceType)
		case 6: // map_type
			t.Map, err = readSub(p, ir.Field(p.path, "map_type"), (*parser).readMapType)
		default:
			err = p.skipField()
		}
		if err != nil {
			return nil, err
		}
	}
	t.Unknown = p.unknown
	return t, nil
}

func (p *parser) readTensorType() (*ir.TensorTypeBuilder, error) {
	t := &ir.TensorTypeBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // elem_type
			var v int64
			v, err = p.readInt64()
			t.ElemType = ir.DataType(v) //nolint:gosec // G115: enum values are int32.
		case 2: // shape
			t.Shape, err = readSub(p, ir.Field(p.path, "shape"), (*parser).readShape)
			t.HasShape = true
		default:
			err = p.discardField()
		}
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (p *parser) readShape() ([]ir.Dim, error) {
	var dims []ir.Dim
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // dim
			var d ir.Dim
			d, err = readSub(p, ir.Index(p.path, "dim", len(dims)), (*parser).readDim)
			dims = append(dims, d)
		default:
			err = p.discardField()
		}
		if err != nil {
			return nil, err
		}
	}
	return dims, nil
}

func (p *parser) readDim() (ir.Dim, error) {
	var d ir.Dim
	for p.more() {
		if err := p.next(); err != nil {
			return d, err
		}
		var err error
		switch p.num {
		case 1: // dim_value
			d.Value, err = p.readInt64()
		case 2: // dim_param
			d.Param, err = p.readString()
		default:
			err = p.discardField()
		}
		if err != nil {
			return d, err
		}
	}
	return d, nil
}

func (p *parser) readHandleType() (*ir.HandleTypeBuilder, error) {
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		if err := p.discardField(); err != nil {
			return nil, err
		}
	}
	return &ir.HandleTypeBuilder{}, nil
}

func (p *parser) readTupleType() (*ir.TupleTypeBuilder, error) {
	t := &ir.TupleTypeBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // elem_type
			var e *ir.TypeBuilder
			e, err = readSub(p, ir.Index(p.path, "elem_type", len(t.Elems)), (*parser).readType)
			t.Elems = append(t.Elems, e)
		default:
			err = p.discardField()
		}
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (p *parser) readSequenceType() (*ir.SequenceTypeBuilder, error) {
	s := &ir.SequenceTypeBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // elem_type
			s.Elem, err = readSub(p, ir.Field(p.path, "elem_type"), (*parser).readType)
		default:
			err = p.discardField()
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (p *parser) readMapType() (*ir.MapTypeBuilder, error) {
	m := &ir.MapTypeBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		var v int64
		switch p.num {
		case 1: // key_type
			v, err = p.readInt64()
			m.Key = ir.DataType(v) //nolint:gosec // G115: enum values are int32.
		case 2: // value_type
			v, err = p.readInt64()
			m.Value = ir.DataType(v) //nolint:gosec // G115: enum values are int32.
		default:
			err = p.discardField()
		}
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// readValue reads ValueProto.
//
//nolint:gocognit,gocyclo,cyclop // Protobuf parsing requires field-by-field switch logic.
func (p *parser) readValue() (*ir.ValueBuilder, error) {
	v := &ir.ValueBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // dense_tensor
			v.DenseTensor, err = readSub(p, ir.Field(p.path, "dense_tensor"), (*parser).readTensor)
		case 2: // sparse_tensor
			v.SparseTensor, err = readSub(p, ir.Field(p.path, "sparse_tensor"), (*parser).readSparseTensor)
		case 3: // handle
			v.Handle, err = readSub(p, ir.Field(p.path, "handle"), (*parser).readHandle)
		case 4: // tuple
			v.Tuple, err = readSub(p, ir.Field(p.path, "tuple"), (*parser).readElems)
		case 5: // seq
			v.Sequence, err = readSub(p, ir.Field(p.path, "seq"), (*parser).readElems)
		case 6: // map
			v.Map, err = readSub(p, ir.Field(p.path, "map"), (*parser).readMap)
		default:
			err = p.skipField()
		}
		if err != nil {
			return nil, err
		}
	}
	v.Unknown = p.unknown
	return v, nil
}

func (p *parser) readSparseTensor() (*ir.SparseTensorBuilder, error) {
	s := &ir.SparseTensorBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // dims
			err = p.readVarints(func(v uint64) { s.Dims = append(s.Dims, int64(v)) }) //nolint:gosec // G115: int64 varint.
		case 2: // indices
			s.Indices, err = readSub(p, ir.Field(p.path, "indices"), (*parser).readTensor)
		case 3: // values
			s.Values, err = readSub(p, ir.Field(p.path, "values"), (*parser).readTensor)
		default:
			err = p.discardField()
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (p *parser) readHandle() (*int64, error) {
	var uid int64
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // uid
			uid, err = p.readInt64()
		default:
			err = p.discardField()
		}
		if err != nil {
			return nil, err
		}
	}
	return &uid, nil
}

// readElems reads TupleProto or SequenceProto. The result is never nil so
// an empty tuple stays a populated variant.
func (p *parser) readElems() ([]*ir.ValueBuilder, error) {
	elems := []*ir.ValueBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // elems
			var e *ir.ValueBuilder
			e, err = readSub(p, ir.Index(p.path, "elems", len(elems)), (*parser).readValue)
			elems = append(elems, e)
		default:
			err = p.discardField()
		}
		if err != nil {
			return nil, err
		}
	}
	return elems, nil
}

func (p *parser) readMap() (*ir.MapValueBuilder, error) {
	m := &ir.MapValueBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // keys
			m.Keys, err = readSub(p, ir.Field(p.path, "keys"), (*parser).readTensor)
		case 2: // values
			m.Values, err = readSub(p, ir.Field(p.path, "values"), (*parser).readTensor)
		default:
			err = p.discardField()
		}
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (p *parser) readParam() (*ir.ParamBuilder, error) {
	pb := &ir.ParamBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // name
			pb.Name, err = p.readString()
		case 2: // type_proto
			pb.Type, err = readSub(p, ir.Field(p.path, "type_proto"), (*parser).readType)
		case 3: // doc_string
			pb.DocString, err = p.readString()
		case 4: // variadic
			pb.Variadic, err = p.readBool()
		default:
			err = p.skipField()
		}
		if err != nil {
			return nil, err
		}
	}
	pb.Unknown = p.unknown
	return pb, nil
}

func (p *parser) readAttrDecl() (*ir.AttrDeclBuilder, error) {
	d := &ir.AttrDeclBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // name
			d.Name, err = p.readString()
		case 2: // type
			var v int64
			v, err = p.readInt64()
			d.Kind = ir.AttrKind(v) //nolint:gosec // G115: enum values are int32.
		case 3: // default_value
			d.Default, err = readSub(p, ir.Field(p.path, "default_value"), (*parser).readAttribute)
		case 4: // required
			d.Required, err = p.readBool()
		case 5: // doc_string
			d.DocString, err = p.readString()
		default:
			err = p.skipField()
		}
		if err != nil {
			return nil, err
		}
	}
	d.Unknown = p.unknown
	return d, nil
}

func (p *parser) readSignature() (*ir.SignatureBuilder, error) {
	s := &ir.SignatureBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // input_params
			var pb *ir.ParamBuilder
			pb, err = readSub(p, ir.Index(p.path, "input_params", len(s.Inputs)), (*parser).readParam)
			s.Inputs = append(s.Inputs, pb)
		case 2: // output_params
			var pb *ir.ParamBuilder
			pb, err = readSub(p, ir.Index(p.path, "output_params", len(s.Outputs)), (*parser).readParam)
			s.Outputs = append(s.Outputs, pb)
		case 3: // input_attributes
			var d *ir.AttrDeclBuilder
			d, err = readSub(p, ir.Index(p.path, "input_attributes", len(s.Attributes)), (*parser).readAttrDecl)
			s.Attributes = append(s.Attributes, d)
		case 4: // doc_string
			s.DocString, err = p.readString()
		default:
			err = p.skipField()
		}
		if err != nil {
			return nil, err
		}
	}
	s.Unknown = p.unknown
	return s, nil
}

func (p *parser) readOperator() (*ir.OperatorBuilder, error) {
	o := &ir.OperatorBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // name
			o.Name, err = p.readString()
		case 2: // signature
			var s *ir.SignatureBuilder
			s, err = readSub(p, ir.Index(p.path, "signature", len(o.Signatures)), (*parser).readSignature)
			o.Signatures = append(o.Signatures, s)
		case 3: // doc_string
			o.DocString, err = p.readString()
		default:
			err = p.skipField()
		}
		if err != nil {
			return nil, err
		}
	}
	o.Unknown = p.unknown
	return o, nil
}

// readFunction reads FunctionDefProto.
//
//nolint:gocognit,gocyclo,cyclop // Protobuf parsing requires field-by-field switch logic.
func (p *parser) readFunction() (*ir.FunctionBuilder, error) {
	f := &ir.FunctionBuilder{}
	for p.more() {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch p.num {
		case 1: // name
			f.Name, err = p.readString()
		case 2: // input_params
			var pb *ir.ParamBuilder
			pb, err = readSub(p, ir.Index(p.path, "input_params", len(f.Inputs)), (*parser).readParam)
			f.Inputs = append(f.Inputs, pb)
		case 3: // output_params
			var pb *ir.ParamBuilder
			pb, err = readSub(p, ir.Index(p.path, "output_params", len(f.Outputs)), (*parser).readParam)
			f.Outputs = append(f.Outputs, pb)
		case 4: // attribute
			var d *ir.AttrDeclBuilder
			d, err = readSub(p, ir.Index(p.path, "attribute", len(f.Attributes)), (*parser).readAttrDecl)
			f.Attributes = append(f.Attributes, d)
		case 5: // node
			var n *ir.NodeBuilder
			n, err = readSub(p, ir.Index(p.path, "node", len(f.Nodes)), (*parser).readNode)
			f.Nodes = append(f.Nodes, n)
		case 6: // doc_string
			f.DocString, err = p.readString()
		default:
			err = p.skipField()
		}
		if err != nil {
			return nil, err
		}
	}
	f.Unknown = p.unknown
	return f, nil
}

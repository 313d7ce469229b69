package codec

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/born-ml/graphir/internal/ir"
)

// EncodeModel encodes m as a ModelProto.
func EncodeModel(m *ir.Model) ([]byte, error) {
	if m == nil || m.Graph() == nil {
		return nil, ir.Missing("model", "graph")
	}
	return appendModel(nil, m), nil
}

// EncodeLibrary encodes l as a LibraryProto.
func EncodeLibrary(l *ir.Library) ([]byte, error) {
	if l == nil {
		return nil, ir.Missing("", "library")
	}
	return appendLibrary(nil, l), nil
}

// EncodeGraph encodes g as a GraphProto.
func EncodeGraph(g *ir.Graph) ([]byte, error) {
	if g == nil {
		return nil, ir.Missing("", "graph")
	}
	return appendGraph(nil, g), nil
}

// EncodeTensor encodes t as a TensorProto.
func EncodeTensor(t *ir.Tensor) ([]byte, error) {
	if t == nil {
		return nil, ir.Missing("", "tensor")
	}
	return appendTensor(nil, t), nil
}

// EncodeValue encodes v as a ValueProto.
func EncodeValue(v *ir.Value) ([]byte, error) {
	if v == nil {
		return nil, ir.Missing("", "value")
	}
	if errs := v.CheckUnion("value"); len(errs) > 0 {
		return nil, errs
	}
	return appendValue(nil, v), nil
}

// Field helpers. Scalars are omitted at their zero value; repeated and
// oneof members are written whenever present.

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendStrings(b []byte, num protowire.Number, list []string) []byte {
	for _, s := range list {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	return b
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	return appendVarint(b, num, uint64(v)) //nolint:gosec // G115: two's complement varint.
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	return appendVarint(b, num, 1)
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	return appendBytes(b, num, msg)
}

func appendPackedVarints[T int32 | int64 | uint64](b []byte, num protowire.Number, vals []T) []byte {
	if len(vals) == 0 {
		return b
	}
	var packed []byte
	for _, v := range vals {
		packed = protowire.AppendVarint(packed, uint64(v)) //nolint:gosec // G115: two's complement varint.
	}
	return appendBytes(b, num, packed)
}

func appendPackedFloats(b []byte, num protowire.Number, vals []float32) []byte {
	if len(vals) == 0 {
		return b
	}
	packed := make([]byte, 0, 4*len(vals))
	for _, v := range vals {
		packed = protowire.AppendFixed32(packed, math.Float32bits(v))
	}
	return appendBytes(b, num, packed)
}

func appendPackedDoubles(b []byte, num protowire.Number, vals []float64) []byte {
	if len(vals) == 0 {
		return b
	}
	packed := make([]byte, 0, 8*len(vals))
	for _, v := range vals {
		packed = protowire.AppendFixed64(packed, math.Float64bits(v))
	}
	return appendBytes(b, num, packed)
}

func appendModel(b []byte, m *ir.Model) []byte {
	b = appendInt64(b, 1, m.IRVersion())
	b = appendString(b, 2, m.ProducerName())
	b = appendString(b, 3, m.ProducerVersion())
	b = appendString(b, 4, m.Domain())
	b = appendInt64(b, 5, m.ModelVersion())
	b = appendString(b, 6, m.DocString())
	b = appendMessage(b, 7, appendGraph(nil, m.Graph()))
	for _, e := range m.MetadataProps() {
		var entry []byte
		entry = appendString(entry, 1, e.Key)
		entry = appendString(entry, 2, e.Value)
		b = appendMessage(b, 14, entry)
	}
	return append(b, m.Unknown()...)
}

func appendLibrary(b []byte, l *ir.Library) []byte {
	b = appendInt64(b, 1, l.IRVersion())
	b = appendString(b, 2, l.ProducerName())
	b = appendString(b, 3, l.ProducerVersion())
	b = appendString(b, 4, l.Domain())
	b = appendString(b, 5, l.Name())
	b = appendInt64(b, 6, l.ModelVersion())
	b = appendString(b, 7, l.DocString())
	for _, o := range l.Operators() {
		b = appendMessage(b, 8, appendOperator(nil, o))
	}
	for _, f := range l.Functions() {
		b = appendMessage(b, 9, appendFunction(nil, f))
	}
	b = appendStrings(b, 10, l.ImportedLibraries())
	return append(b, l.Unknown()...)
}

func appendGraph(b []byte, g *ir.Graph) []byte {
	for _, n := range g.Nodes() {
		b = appendMessage(b, 1, appendNode(nil, n))
	}
	b = appendString(b, 2, g.Name())
	for _, t := range g.Initializers() {
		b = appendMessage(b, 5, appendTensor(nil, t))
	}
	b = appendString(b, 10, g.DocString())
	for _, v := range g.Inputs() {
		b = appendMessage(b, 11, appendValueInfo(nil, v))
	}
	for _, v := range g.Outputs() {
		b = appendMessage(b, 12, appendValueInfo(nil, v))
	}
	for _, v := range g.ValueInfo() {
		b = appendMessage(b, 13, appendValueInfo(nil, v))
	}
	for _, f := range g.Functions() {
		b = appendMessage(b, 20, appendFunction(nil, f))
	}
	for _, o := range g.Operators() {
		b = appendMessage(b, 21, appendOperator(nil, o))
	}
	b = appendStrings(b, 22, g.ImportedLibraries())
	return append(b, g.Unknown()...)
}

func appendNode(b []byte, n *ir.Node) []byte {
	b = appendStrings(b, 1, n.Input())
	b = appendStrings(b, 2, n.Output())
	b = appendString(b, 3, n.Name())
	b = appendString(b, 4, n.OpType())
	for _, a := range n.Attributes() {
		b = appendMessage(b, 5, appendAttribute(nil, a))
	}
	b = appendString(b, 6, n.DocString())
	b = appendString(b, 7, n.Domain())
	if counts, ok := n.InputArgCount(); ok {
		var packed []byte
		for _, c := range counts {
			packed = protowire.AppendVarint(packed, uint64(c)) //nolint:gosec // G115: two's complement varint.
		}
		b = appendBytes(b, 8, packed)
	}
	b = appendStrings(b, 9, n.ControlInput())
	return append(b, n.Unknown()...)
}

//nolint:gocyclo,cyclop // One case per attribute slot.
func appendAttribute(b []byte, a *ir.Attribute) []byte {
	b = appendString(b, 1, a.Name())
	switch a.Kind() {
	case ir.AttrFloat:
		b = protowire.AppendTag(b, 2, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(a.Float()))
	case ir.AttrInt:
		b = appendVarint(b, 3, uint64(a.Int())) //nolint:gosec // G115: two's complement varint.
	case ir.AttrString:
		b = appendBytes(b, 4, a.Bytes())
	case ir.AttrTensor:
		b = appendMessage(b, 5, appendTensor(nil, a.Tensor()))
	case ir.AttrGraph:
		b = appendMessage(b, 6, appendGraph(nil, a.Graph()))
	case ir.AttrFloats:
		b = appendPackedFloats(b, 7, a.Floats())
	case ir.AttrInts:
		b = appendPackedVarints(b, 8, a.Ints())
	case ir.AttrStrings:
		for _, s := range a.Strings() {
			b = appendBytes(b, 9, s)
		}
	case ir.AttrTensors:
		for _, t := range a.Tensors() {
			b = appendMessage(b, 10, appendTensor(nil, t))
		}
	case ir.AttrGraphs:
		for _, g := range a.Graphs() {
			b = appendMessage(b, 11, appendGraph(nil, g))
		}
	}
	b = appendString(b, 13, a.DocString())
	switch a.Kind() {
	case ir.AttrType:
		b = appendMessage(b, 14, appendType(nil, a.Type()))
	case ir.AttrTypes:
		for _, t := range a.Types() {
			b = appendMessage(b, 15, appendType(nil, t))
		}
	}
	return append(b, a.Unknown()...)
}

func appendValueInfo(b []byte, v *ir.ValueInfo) []byte {
	b = appendString(b, 1, v.Name())
	if v.Type() != nil {
		b = appendMessage(b, 2, appendType(nil, v.Type()))
	}
	b = appendString(b, 3, v.DocString())
	return append(b, v.Unknown()...)
}

func appendTensor(b []byte, t *ir.Tensor) []byte {
	b = appendPackedVarints(b, 1, t.Dims())
	b = appendInt64(b, 2, int64(t.DataType()))
	if seg, ok := t.Segment(); ok {
		var s []byte
		s = appendVarint(s, 1, uint64(seg.Begin)) //nolint:gosec // G115: two's complement varint.
		s = appendVarint(s, 2, uint64(seg.End))   //nolint:gosec // G115: two's complement varint.
		b = appendMessage(b, 3, s)
	}
	b = appendPackedFloats(b, 4, t.FloatData())
	b = appendPackedVarints(b, 5, t.Int32Data())
	for _, s := range t.StringData() {
		b = appendBytes(b, 6, s)
	}
	b = appendPackedVarints(b, 7, t.Int64Data())
	b = appendString(b, 8, t.Name())
	if t.HasRawData() {
		b = appendBytes(b, 9, t.RawData())
	}
	b = appendPackedDoubles(b, 10, t.DoubleData())
	b = appendPackedVarints(b, 11, t.Uint64Data())
	b = appendString(b, 12, t.DocString())
	return append(b, t.Unknown()...)
}

func appendType(b []byte, t *ir.Type) []byte {
	switch t.Kind() {
	case ir.TypeTensor:
		b = appendMessage(b, 1, appendTensorType(nil, t))
	case ir.TypeSparseTensor:
		b = appendMessage(b, 2, appendTensorType(nil, t))
	case ir.TypeHandle:
		b = appendMessage(b, 3, nil)
	case ir.TypeTuple:
		var tuple []byte
		for _, e := range t.TupleElems() {
			tuple = appendMessage(tuple, 1, appendType(nil, e))
		}
		b = appendMessage(b, 4, tuple)
	case ir.TypeSequence:
		b = appendMessage(b, 5, appendMessage(nil, 1, appendType(nil, t.SequenceElem())))
	case ir.TypeMap:
		key, value := t.MapTypes()
		var m []byte
		m = appendInt64(m, 1, int64(key))
		m = appendInt64(m, 2, int64(value))
		b = appendMessage(b, 6, m)
	}
	return append(b, t.Unknown()...)
}

func appendTensorType(b []byte, t *ir.Type) []byte {
	b = appendInt64(b, 1, int64(t.ElemType()))
	dims, ranked := t.Shape()
	if !ranked {
		return b
	}
	var shape []byte
	for _, d := range dims {
		var dim []byte
		if d.IsSymbolic() {
			dim = appendString(dim, 2, d.Param)
		} else {
			dim = appendVarint(dim, 1, uint64(d.Value)) //nolint:gosec // G115: two's complement varint.
		}
		shape = appendMessage(shape, 1, dim)
	}
	return appendMessage(b, 2, shape)
}

func appendValue(b []byte, v *ir.Value) []byte {
	switch v.Kind() {
	case ir.ValueDenseTensor:
		b = appendMessage(b, 1, appendTensor(nil, v.DenseTensor()))
	case ir.ValueSparseTensor:
		s := v.SparseTensor()
		var sparse []byte
		sparse = appendPackedVarints(sparse, 1, s.Dims())
		sparse = appendMessage(sparse, 2, appendTensor(nil, s.Indices()))
		sparse = appendMessage(sparse, 3, appendTensor(nil, s.Values()))
		b = appendMessage(b, 2, sparse)
	case ir.ValueHandle:
		b = appendMessage(b, 3, appendVarint(nil, 1, uint64(v.Handle()))) //nolint:gosec // G115: two's complement varint.
	case ir.ValueTuple, ir.ValueSequence:
		var elems []byte
		for _, e := range v.Elems() {
			elems = appendMessage(elems, 1, appendValue(nil, e))
		}
		num := protowire.Number(4)
		if v.Kind() == ir.ValueSequence {
			num = 5
		}
		b = appendMessage(b, num, elems)
	case ir.ValueMap:
		var m []byte
		m = appendMessage(m, 1, appendTensor(nil, v.Map().KeyTensor()))
		m = appendMessage(m, 2, appendTensor(nil, v.Map().ValueTensor()))
		b = appendMessage(b, 6, m)
	}
	return append(b, v.Unknown()...)
}

func appendParam(b []byte, p *ir.Param) []byte {
	b = appendString(b, 1, p.Name())
	if p.Type() != nil {
		b = appendMessage(b, 2, appendType(nil, p.Type()))
	}
	b = appendString(b, 3, p.DocString())
	b = appendBool(b, 4, p.Variadic())
	return append(b, p.Unknown()...)
}

func appendAttrDecl(b []byte, d *ir.AttrDecl) []byte {
	b = appendString(b, 1, d.Name())
	b = appendInt64(b, 2, int64(d.Kind()))
	if d.Default() != nil {
		b = appendMessage(b, 3, appendAttribute(nil, d.Default()))
	}
	b = appendBool(b, 4, d.Required())
	b = appendString(b, 5, d.DocString())
	return append(b, d.Unknown()...)
}

func appendSignature(b []byte, s *ir.Signature) []byte {
	for _, p := range s.Inputs() {
		b = appendMessage(b, 1, appendParam(nil, p))
	}
	for _, p := range s.Outputs() {
		b = appendMessage(b, 2, appendParam(nil, p))
	}
	for _, d := range s.Attributes() {
		b = appendMessage(b, 3, appendAttrDecl(nil, d))
	}
	b = appendString(b, 4, s.DocString())
	return append(b, s.Unknown()...)
}

func appendOperator(b []byte, o *ir.OperatorDecl) []byte {
	b = appendString(b, 1, o.Name())
	for _, s := range o.Signatures() {
		b = appendMessage(b, 2, appendSignature(nil, s))
	}
	b = appendString(b, 3, o.DocString())
	return append(b, o.Unknown()...)
}

func appendFunction(b []byte, f *ir.FunctionDef) []byte {
	b = appendString(b, 1, f.Name())
	for _, p := range f.Inputs() {
		b = appendMessage(b, 2, appendParam(nil, p))
	}
	for _, p := range f.Outputs() {
		b = appendMessage(b, 3, appendParam(nil, p))
	}
	for _, d := range f.Attributes() {
		b = appendMessage(b, 4, appendAttrDecl(nil, d))
	}
	for _, n := range f.Nodes() {
		b = appendMessage(b, 5, appendNode(nil, n))
	}
	b = appendString(b, 6, f.DocString())
	return append(b, f.Unknown()...)
}

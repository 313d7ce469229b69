package ir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addGraph() *GraphBuilder {
	f22 := TensorOf(DataTypeFloat, D(2), D(2))
	return &GraphBuilder{
		Name:    "main",
		Inputs:  []*ValueInfoBuilder{Input("x", f22), Input("y", f22)},
		Outputs: []*ValueInfoBuilder{Input("z", f22)},
		Nodes:   []*NodeBuilder{NewNode("A", "Add", []string{"x", "y"}, []string{"z"})},
	}
}

func kinds(t *testing.T, err error) []Kind {
	t.Helper()
	list, ok := AsList(err)
	require.True(t, ok, "expected an ir error, got %v", err)
	out := make([]Kind, len(list))
	for i, e := range list {
		out[i] = e.Kind
	}
	return out
}

func TestModelBuild(t *testing.T) {
	m, err := NewModel(addGraph()).Build()
	require.NoError(t, err)

	assert.Equal(t, int64(IRVersion), m.IRVersion())
	assert.Equal(t, "main", m.Graph().Name())
	require.Len(t, m.Graph().Nodes(), 1)
	assert.Equal(t, "Add", m.Graph().Nodes()[0].OpType())
	assert.Equal(t, ModelIdentity{GraphName: "main"}, m.Identity())

	dims, ranked := m.Graph().Inputs()[0].Type().Shape()
	assert.True(t, ranked)
	assert.Equal(t, []Dim{D(2), D(2)}, dims)
}

func TestModelBuildRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		builder *ModelBuilder
		path    string
		field   string
	}{
		{"ir_version", &ModelBuilder{Graph: addGraph()}, "model", "ir_version"},
		{"graph", &ModelBuilder{IRVersion: 1}, "model", "graph"},
		{"graph name", NewModel(&GraphBuilder{}), "model.graph[]", "name"},
		{"op_type", NewModel(&GraphBuilder{Name: "g", Nodes: []*NodeBuilder{{Name: "n"}}}), "model.graph[g].node[n]", "op_type"},
		{"value_info type", NewModel(&GraphBuilder{Name: "g", Inputs: []*ValueInfoBuilder{{Name: "x"}}}), "model.graph[g].input[x]", "type"},
		{"value_info name", NewModel(&GraphBuilder{Name: "g", Outputs: []*ValueInfoBuilder{{Type: HandleOf()}}}), "model.graph[g].output[#0]", "name"},
		{"elem_type", NewModel(&GraphBuilder{Name: "g", Inputs: []*ValueInfoBuilder{Input("x", TensorOf(DataTypeUndefined))}}), "model.graph[g].input[x].type.tensor_type", "elem_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingRequiredField))

			list, _ := AsList(err)
			require.Len(t, list, 1)
			assert.Equal(t, tt.path, list[0].Path)
			assert.Equal(t, tt.field, list[0].Name)
		})
	}
}

func TestBuildAccumulatesErrors(t *testing.T) {
	g := &GraphBuilder{
		Name: "g",
		Nodes: []*NodeBuilder{
			{Name: "a"},
			{Name: "b", OpType: "Relu", Attributes: []*AttributeBuilder{{Name: "empty"}}},
		},
	}
	_, err := NewModel(g).Build()
	require.Error(t, err)
	assert.Equal(t, []Kind{KindMissingRequiredField, KindUnionViolation}, kinds(t, err))
}

func TestBuildNilElements(t *testing.T) {
	tests := []struct {
		name  string
		build func() error
		path  string
		field string
	}{
		{"attribute graphs", func() error {
			_, err := NewAttribute("g").SetGraphs(nil).Build()
			return err
		}, "attribute[g].graph[#0]", "graph"},
		{"attribute tensors", func() error {
			_, err := NewAttribute("t").SetTensors(nil).Build()
			return err
		}, "attribute[t].tensors[#0]", "tensors"},
		{"attribute types", func() error {
			_, err := NewAttribute("tp").SetTypes(HandleOf(), nil).Build()
			return err
		}, "attribute[tp].type_protos[#1]", "type_protos"},
		{"graph nodes", func() error {
			_, err := NewModel(&GraphBuilder{Name: "g", Nodes: []*NodeBuilder{nil}}).Build()
			return err
		}, "model.graph[g].node[#0]", "node"},
		{"graph inputs", func() error {
			_, err := NewModel(&GraphBuilder{Name: "g", Inputs: []*ValueInfoBuilder{nil}}).Build()
			return err
		}, "model.graph[g].input[#0]", "input"},
		{"graph initializers", func() error {
			_, err := NewModel(&GraphBuilder{Name: "g", Initializers: []*TensorBuilder{nil}}).Build()
			return err
		}, "model.graph[g].initializer[#0]", "initializer"},
		{"node attributes", func() error {
			_, err := NewNode("n", "Relu", nil, nil, nil).Build()
			return err
		}, "node[n].attribute[#0]", "attribute"},
		{"operator signatures", func() error {
			_, err := (&OperatorBuilder{Name: "Op", Signatures: []*SignatureBuilder{nil}}).Build()
			return err
		}, "operator[Op].signature[#0]", "signature"},
		{"signature params", func() error {
			_, err := NewOperator("Op", &SignatureBuilder{Inputs: []*ParamBuilder{nil}}).Build()
			return err
		}, "operator[Op].signature[#0].input_params[#0]", "input_params"},
		{"function nodes", func() error {
			_, err := (&FunctionBuilder{Name: "F", Nodes: []*NodeBuilder{nil}}).Build()
			return err
		}, "function[F].node[#0]", "node"},
		{"library functions", func() error {
			_, err := (&LibraryBuilder{IRVersion: IRVersion, Name: "std", Functions: []*FunctionBuilder{nil}}).Build()
			return err
		}, "library[std].function[#0]", "function"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			require.Error(t, err)
			list, ok := AsList(err)
			require.True(t, ok)
			require.Len(t, list, 1)
			assert.Equal(t, KindMissingRequiredField, list[0].Kind)
			assert.Equal(t, tt.path, list[0].Path)
			assert.Equal(t, tt.field, list[0].Name)
		})
	}
}

func TestAttributeUnion(t *testing.T) {
	tests := []struct {
		name    string
		builder *AttributeBuilder
		kind    AttrKind
		wantErr bool
	}{
		{"float", NewAttribute("alpha").SetFloat(0.5), AttrFloat, false},
		{"int", NewAttribute("axis").SetInt(1), AttrInt, false},
		{"empty string", NewAttribute("mode").SetString(""), AttrString, false},
		{"ints", NewAttribute("perm").SetInts(1, 0), AttrInts, false},
		{"strings", NewAttribute("names").SetStrings("a", "b"), AttrStrings, false},
		{"type", NewAttribute("to").SetType(TensorOf(DataTypeInt64)), AttrType, false},
		{"graph", NewAttribute("body").SetGraph(&GraphBuilder{Name: "body"}), AttrGraph, false},
		{"none", NewAttribute("empty"), AttrUndefined, true},
		{"two scalars", NewAttribute("both").SetFloat(1).SetInt(1), AttrUndefined, true},
		{"scalar and list", NewAttribute("mixed").SetInt(1).SetInts(1, 2), AttrUndefined, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := tt.builder.Build()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnionViolation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, a.Kind())
			assert.Empty(t, a.CheckUnion("attr"))
		})
	}
}

func TestAttributeMissingName(t *testing.T) {
	_, err := (&AttributeBuilder{I: new(int64)}).Build()
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestTypeUnion(t *testing.T) {
	tests := []struct {
		name    string
		builder *TypeBuilder
		want    TypeKind
		errKind Kind
	}{
		{"tensor", TensorOf(DataTypeFloat, D(1), Sym("N")), TypeTensor, 0},
		{"sparse", SparseTensorOf(DataTypeDouble, D(10)), TypeSparseTensor, 0},
		{"handle", HandleOf(), TypeHandle, 0},
		{"tuple", TupleOf(HandleOf(), TensorOf(DataTypeInt32)), TypeTuple, 0},
		{"sequence", SequenceOf(UnrankedTensorOf(DataTypeFloat)), TypeSequence, 0},
		{"map", MapOf(DataTypeString, DataTypeFloat), TypeMap, 0},
		{"empty", &TypeBuilder{}, 0, KindUnionViolation},
		{"two variants", &TypeBuilder{Handle: &HandleTypeBuilder{}, Map: &MapTypeBuilder{Key: DataTypeInt64, Value: DataTypeFloat}}, 0, KindUnionViolation},
		{"map float key", MapOf(DataTypeFloat, DataTypeFloat), 0, KindTypeIncompatible},
		{"map undefined value", MapOf(DataTypeInt64, DataTypeUndefined), 0, KindTypeIncompatible},
		{"dim with value and symbol", TensorOf(DataTypeFloat, Dim{Value: 3, Param: "N"}), 0, KindUnionViolation},
		{"sequence without elem", &TypeBuilder{Sequence: &SequenceTypeBuilder{}}, 0, KindMissingRequiredField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp, err := tt.builder.Build()
			if tt.errKind != 0 {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.errKind.Sentinel())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tp.Kind())
			assert.Empty(t, tp.CheckUnion("type"))
		})
	}
}

func TestTypeString(t *testing.T) {
	tp, err := TensorOf(DataTypeFloat, Sym("N"), D(3)).Build()
	require.NoError(t, err)
	assert.Equal(t, "tensor(FLOAT, [N,3])", tp.String())

	tp, err = SequenceOf(UnrankedTensorOf(DataTypeInt64)).Build()
	require.NoError(t, err)
	assert.Equal(t, "sequence(tensor(INT64))", tp.String())
}

func TestZeroValueCheckUnion(t *testing.T) {
	assert.Len(t, (&Type{}).CheckUnion("t"), 1)
	assert.Len(t, (&Value{}).CheckUnion("v"), 1)
	errs := (&Attribute{}).CheckUnion("a")
	assert.Equal(t, []Kind{KindMissingRequiredField, KindUnionViolation}, []Kind{errs[0].Kind, errs[1].Kind})
}

func TestTensorPayload(t *testing.T) {
	tests := []struct {
		name    string
		builder *TensorBuilder
		errKind Kind
	}{
		{"float list", &TensorBuilder{Name: "w", Dims: []int64{2}, DataType: DataTypeFloat, FloatData: []float32{1, 2}}, 0},
		{"raw", &TensorBuilder{Name: "w", Dims: []int64{2}, DataType: DataTypeFloat, RawData: RawFromFloat32s([]float32{1, 2})}, 0},
		{"scalar", &TensorBuilder{Name: "s", DataType: DataTypeInt64, Int64Data: []int64{7}}, 0},
		{"empty tensor", &TensorBuilder{Name: "e", Dims: []int64{0, 3}, DataType: DataTypeFloat}, 0},
		{"empty raw", &TensorBuilder{Name: "e", Dims: []int64{0}, DataType: DataTypeFloat, RawData: []byte{}}, 0},
		{"segment", &TensorBuilder{Name: "c", Dims: []int64{10}, DataType: DataTypeInt32, Segment: &Segment{Begin: 2, End: 4}, Int32Data: []int32{1, 2}}, 0},
		{"string list", &TensorBuilder{Name: "s", Dims: []int64{1}, DataType: DataTypeString, StringData: [][]byte{[]byte("hi")}}, 0},
		{"complex pairs", &TensorBuilder{Name: "c", Dims: []int64{1}, DataType: DataTypeComplex64, FloatData: []float32{1, 2}}, 0},
		{"string raw", &TensorBuilder{Name: "s", Dims: []int64{1}, DataType: DataTypeString, RawData: []byte("hi")}, KindUnsupportedRawDataForType},
		{"no data type", &TensorBuilder{Name: "x"}, KindMissingRequiredField},
		{"two slots", &TensorBuilder{Name: "x", Dims: []int64{1}, DataType: DataTypeFloat, FloatData: []float32{1}, RawData: []byte{0, 0, 0, 0}}, KindUnionViolation},
		{"no payload", &TensorBuilder{Name: "x", Dims: []int64{2}, DataType: DataTypeFloat}, KindUnionViolation},
		{"wrong list", &TensorBuilder{Name: "x", Dims: []int64{1}, DataType: DataTypeFloat, Int64Data: []int64{1}}, KindTypeIncompatible},
		{"count mismatch", &TensorBuilder{Name: "x", Dims: []int64{3}, DataType: DataTypeFloat, FloatData: []float32{1, 2}}, KindArityMismatch},
		{"ragged raw", &TensorBuilder{Name: "x", Dims: []int64{1}, DataType: DataTypeFloat, RawData: []byte{1, 2, 3}}, KindMalformedEncoding},
		{"odd complex", &TensorBuilder{Name: "x", Dims: []int64{1}, DataType: DataTypeComplex64, FloatData: []float32{1}}, KindArityMismatch},
		{"negative dim", &TensorBuilder{Name: "x", Dims: []int64{-1}, DataType: DataTypeFloat}, KindArityMismatch},
		{"overflow", &TensorBuilder{Name: "x", Dims: []int64{1 << 40, 1 << 40}, DataType: DataTypeFloat}, KindPayloadTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if tt.errKind == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, kinds(t, err), tt.errKind)
		})
	}
}

func TestOperatorAndFunction(t *testing.T) {
	sig := &SignatureBuilder{
		Inputs:     []*ParamBuilder{VariadicParam("xs", UnrankedTensorOf(DataTypeFloat))},
		Outputs:    []*ParamBuilder{NewParam("y", nil)},
		Attributes: []*AttrDeclBuilder{{Name: "axis", Kind: AttrInt, Default: NewAttribute("axis").SetInt(0)}},
	}
	op, err := NewOperator("Concat", sig).Build()
	require.NoError(t, err)
	require.Len(t, op.Signatures(), 1)
	assert.True(t, op.Signatures()[0].Inputs()[0].Variadic())
	assert.Nil(t, op.Signatures()[0].Outputs()[0].Type())
	assert.Equal(t, int64(0), op.Signatures()[0].Attributes()[0].Default().Int())

	_, err = NewOperator("Nothing").Build()
	assert.ErrorIs(t, err, ErrMissingRequiredField)

	bad := &SignatureBuilder{Attributes: []*AttrDeclBuilder{{Name: "axis", Kind: AttrInt, Default: NewAttribute("axis").SetFloat(1)}}}
	_, err = NewOperator("Bad", bad).Build()
	assert.ErrorIs(t, err, ErrTypeIncompatible)

	fn, err := (&FunctionBuilder{
		Name:    "Double",
		Inputs:  []*ParamBuilder{NewParam("x", nil)},
		Outputs: []*ParamBuilder{NewParam("y", nil)},
		Nodes:   []*NodeBuilder{NewNode("", "Add", []string{"x", "x"}, []string{"y"})},
	}).Build()
	require.NoError(t, err)
	assert.Len(t, fn.Signature().Inputs(), 1)
	assert.Equal(t, "Add", fn.Nodes()[0].OpType())
}

func TestLibraryIdentity(t *testing.T) {
	lib, err := (&LibraryBuilder{
		IRVersion:    IRVersion,
		Domain:       "ai.graphir",
		Name:         "std",
		ModelVersion: 3,
		Operators:    []*OperatorBuilder{NewOperator("Add", &SignatureBuilder{})},
	}).Build()
	require.NoError(t, err)
	assert.Equal(t, LibraryIdentity{Domain: "ai.graphir", Name: "std", ModelVersion: 3}, lib.Identity())
	assert.Equal(t, "ai.graphir.std.Add", lib.QualifiedName("Add"))
	_, ok := lib.Operator("Add")
	assert.True(t, ok)
	_, ok = lib.Function("Add")
	assert.False(t, ok)

	_, err = (&LibraryBuilder{}).Build()
	require.Error(t, err)
	assert.Equal(t, []Kind{KindMissingRequiredField, KindMissingRequiredField}, kinds(t, err))
}

func TestBuilderRoundTrip(t *testing.T) {
	g := addGraph()
	g.Initializers = []*TensorBuilder{{Name: "y", Dims: []int64{2, 2}, DataType: DataTypeFloat, FloatData: []float32{1, 2, 3, 4}}}
	g.Nodes[0].Attributes = []*AttributeBuilder{NewAttribute("broadcast").SetInt(1)}
	g.Nodes[0].InputArgCount = []int32{1, 1}
	m, err := NewModel(g).Build()
	require.NoError(t, err)

	again, err := m.Builder().Build()
	require.NoError(t, err)
	assert.Equal(t, m, again)

	counts, ok := again.Graph().Nodes()[0].InputArgCount()
	assert.True(t, ok)
	assert.Equal(t, []int32{1, 1}, counts)
}

func TestErrorFormatting(t *testing.T) {
	e := Duplicate("graph[main]", NamespaceNode, "A")
	assert.Equal(t, `graph[main]: DuplicateName{Node, "A"}`, e.Error())
	assert.ErrorIs(t, e, ErrDuplicateName)

	list := ErrorList{e, &Error{Kind: KindCycleDetected, Path: "graph[main]", Names: []string{"A", "B"}}}
	assert.Contains(t, list.Error(), "CycleDetected [A, B]")
	assert.Len(t, list.ByKind(KindCycleDetected), 1)
	assert.NoError(t, ErrorList{}.Err())

	assert.Equal(t, "graph[main].node[#2]", Index(Elem("", "graph", "main"), "node", 2))
}

package engine

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/graphir/internal/codec"
	"github.com/born-ml/graphir/internal/config"
	"github.com/born-ml/graphir/internal/ir"
	"github.com/born-ml/graphir/internal/resolve"
)

func f22() *ir.TypeBuilder { return ir.TensorOf(ir.DataTypeFloat, ir.D(2), ir.D(2)) }

func addOperator() *ir.OperatorBuilder {
	return ir.NewOperator("Add", &ir.SignatureBuilder{
		Inputs:  []*ir.ParamBuilder{ir.NewParam("a", nil), ir.NewParam("b", nil)},
		Outputs: []*ir.ParamBuilder{ir.NewParam("c", nil)},
	})
}

func encodeLibrary(t *testing.T, b *ir.LibraryBuilder) []byte {
	t.Helper()
	if b.IRVersion == 0 {
		b.IRVersion = ir.IRVersion
	}
	lib, err := b.Build()
	require.NoError(t, err)
	data, err := codec.EncodeLibrary(lib)
	require.NoError(t, err)
	return data
}

func addModel(t *testing.T, mutate func(*ir.ModelBuilder)) []byte {
	t.Helper()
	mb := ir.NewModel(&ir.GraphBuilder{
		Name:              "main",
		Inputs:            []*ir.ValueInfoBuilder{ir.Input("x", f22()), ir.Input("y", f22())},
		Outputs:           []*ir.ValueInfoBuilder{ir.Input("z", f22())},
		Nodes:             []*ir.NodeBuilder{ir.NewNode("add", "Add", []string{"x", "y"}, []string{"z"})},
		ImportedLibraries: []string{"ai.graphir.std"},
	})
	mb.ProducerName = "graphir-test"
	if mutate != nil {
		mutate(mb)
	}
	m, err := mb.Build()
	require.NoError(t, err)
	data, err := codec.EncodeModel(m)
	require.NoError(t, err)
	return data
}

// files is an in-memory readFile.
type files map[string][]byte

func (f files) read(path string) ([]byte, error) {
	data, ok := f[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func stdEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Libraries = []config.Library{{Name: "std", URI: "ai.graphir.std", Path: "std.irlib"}}
	e, err := New(cfg)
	require.NoError(t, err)

	std := encodeLibrary(t, &ir.LibraryBuilder{Domain: "ai.graphir", Name: "std", Operators: []*ir.OperatorBuilder{addOperator()}})
	require.NoError(t, e.LoadCatalog(files{"std.irlib": std}.read))
	return e
}

func TestCheck(t *testing.T) {
	e := stdEngine(t)
	assert.Equal(t, []string{"ai.graphir.std"}, e.Catalog().URIs())

	checked, err := e.Check(addModel(t, nil))
	require.NoError(t, err)
	assert.Equal(t, "main", checked.Model.Graph().Name())
	assert.Len(t, checked.Tables.Nodes(), 1)

	binding, ok := checked.Bindings.Lookup("model.graph[main].node[add]")
	require.True(t, ok)
	assert.Equal(t, resolve.TargetOperator, binding.Kind)
	assert.Equal(t, "ai.graphir.std.Add", binding.Qualified)
}

func TestCheckCollectsEveryStage(t *testing.T) {
	cfg := config.Default()
	cfg.Libraries = []config.Library{
		{Name: "a", URI: "a", Path: "a.irlib"},
		{Name: "b", URI: "b", Path: "b.irlib"},
	}
	e, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, e.LoadCatalog(files{
		"a.irlib": encodeLibrary(t, &ir.LibraryBuilder{Name: "a", ImportedLibraries: []string{"b"}}),
		"b.irlib": encodeLibrary(t, &ir.LibraryBuilder{Name: "b", ImportedLibraries: []string{"a"}}),
	}.read))

	data := addModel(t, func(mb *ir.ModelBuilder) {
		mb.Graph.ImportedLibraries = []string{"a"}
		mb.Graph.Nodes = append(mb.Graph.Nodes, ir.NewNode("add", "Mystery", []string{"x"}, []string{"w"}))
	})
	checked, err := e.Check(data)
	require.NotNil(t, checked)

	list, ok := ir.AsList(err)
	require.True(t, ok)
	assert.Len(t, list.ByKind(ir.KindDuplicateName), 1)
	assert.Len(t, list.ByKind(ir.KindImportCycle), 1)
	assert.Len(t, list.ByKind(ir.KindUnresolvedReference), 2, "Add and Mystery")
}

func TestCheckFiles(t *testing.T) {
	e := stdEngine(t)
	broken := addModel(t, func(mb *ir.ModelBuilder) { mb.Graph.Nodes[0].OpType = "Sub" })
	read := files{"a.irm": addModel(t, nil), "b.irm": broken}.read

	results := e.CheckFiles([]string{"a.irm", "b.irm", "c.irm"}, read)
	require.Len(t, results, 3)

	assert.Equal(t, "a.irm", results[0].Path)
	assert.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Checked)

	assert.Equal(t, "b.irm", results[1].Path)
	assert.ErrorIs(t, results[1].Err, ir.ErrUnresolvedReference)
	assert.NotNil(t, results[1].Checked)

	assert.ErrorIs(t, results[2].Err, fs.ErrNotExist)
	assert.Nil(t, results[2].Checked)
}

func TestCheckRejections(t *testing.T) {
	e := stdEngine(t)

	checked, err := e.Check(addModel(t, func(mb *ir.ModelBuilder) { mb.IRVersion = 7 }))
	assert.Nil(t, checked)
	assert.ErrorIs(t, err, ErrUnsupportedIRVersion)

	checked, err = e.Check([]byte{0xff})
	assert.Nil(t, checked)
	assert.ErrorIs(t, err, ir.ErrMalformedEncoding)

	checked, err = e.CheckModel(nil)
	assert.Nil(t, checked)
	assert.ErrorIs(t, err, ir.ErrMissingRequiredField)
}

func TestCheckPayloadLimit(t *testing.T) {
	data := addModel(t, func(mb *ir.ModelBuilder) {
		mb.Graph.Initializers = []*ir.TensorBuilder{{
			Name: "y", Dims: []int64{2, 2}, DataType: ir.DataTypeFloat,
			RawData: ir.RawFromFloat32s([]float32{1, 2, 3, 4}),
		}}
	})

	cfg := config.Default()
	cfg.MaxPayloadBytes = 8
	e, err := New(cfg)
	require.NoError(t, err)
	_, err = e.Check(data)
	assert.ErrorIs(t, err, ir.ErrPayloadTooLarge)

	_, err = stdEngine(t).Check(data)
	assert.NoError(t, err)
}

func TestLoadCatalogErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Libraries = []config.Library{{Name: "std", URI: "ai.graphir.std", Path: "std.irlib"}}
	e, err := New(cfg)
	require.NoError(t, err)

	err = e.LoadCatalog(files{}.read)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	err = e.LoadCatalog(files{"std.irlib": {0x0a}}.read)
	assert.ErrorIs(t, err, ir.ErrMalformedEncoding)

	err = e.LoadCatalog(files{"std.irlib": encodeLibrary(t, &ir.LibraryBuilder{Name: "std", IRVersion: 9})}.read)
	assert.ErrorIs(t, err, ErrUnsupportedIRVersion)
	assert.Equal(t, 0, e.Catalog().Len())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.LogFormat = "xml"
	_, err := New(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)

	e, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, e.Catalog().Len())
}

func TestSummarize(t *testing.T) {
	then := &ir.GraphBuilder{
		Name:    "then",
		Outputs: []*ir.ValueInfoBuilder{ir.Input("r", f22())},
		Nodes:   []*ir.NodeBuilder{ir.NewNode("neg", "Neg", []string{"x"}, []string{"r"})},
	}
	g := &ir.GraphBuilder{
		Name:         "main",
		Inputs:       []*ir.ValueInfoBuilder{ir.Input("p", ir.TensorOf(ir.DataTypeBool)), ir.Input("x", f22()), ir.Input("w", f22())},
		Outputs:      []*ir.ValueInfoBuilder{ir.Input("y", f22())},
		Initializers: []*ir.TensorBuilder{{Name: "w", Dims: []int64{2, 2}, DataType: ir.DataTypeFloat, FloatData: []float32{1, 2, 3, 4}}},
		Nodes: []*ir.NodeBuilder{
			ir.NewNode("if", "Cond", []string{"p", "x", "x"}, []string{"y"},
				ir.NewAttribute("then_branch").SetGraph(then),
				ir.NewAttribute("else_branch").SetGraph(then)),
			ir.NewNode("add", "Add", []string{"y", "w"}, []string{"z"}),
		},
		Operators:         []*ir.OperatorBuilder{addOperator()},
		ImportedLibraries: []string{"ai.graphir.std"},
	}
	mb := ir.NewModel(g)
	mb.ProducerName = "graphir-test"
	mb.Domain = "ai.graphir.test"
	m, err := mb.Build()
	require.NoError(t, err)

	assert.Equal(t, Summary{
		IRVersion:     ir.IRVersion,
		ProducerName:  "graphir-test",
		Domain:        "ai.graphir.test",
		Graph:         "main",
		InputNames:    []string{"p", "x"},
		OutputNames:   []string{"y"},
		Imports:       []string{"ai.graphir.std"},
		NodeCount:     2,
		TotalNodes:    4,
		WeightCount:   1,
		OperatorCount: 1,
		OpTypes:       []string{"Add", "Cond", "Neg"},
	}, Summarize(m))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	logger = NewLogger("bogus", "text", &buf)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("msg=shown")))
}

func TestCheckLogs(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	e, err := New(cfg, WithLogger(NewLogger("debug", "text", &buf)))
	require.NoError(t, err)

	_, err = e.Check(addModel(t, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ir.ErrUnresolvedReference))
	assert.Contains(t, buf.String(), `msg="model checked"`)
}

package resolve

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/graphir/internal/ir"
	"github.com/born-ml/graphir/internal/validate"
)

func f22() *ir.TypeBuilder { return ir.TensorOf(ir.DataTypeFloat, ir.D(2), ir.D(2)) }

func params(names ...string) []*ir.ParamBuilder {
	ps := make([]*ir.ParamBuilder, len(names))
	for i, n := range names {
		ps[i] = ir.NewParam(n, nil)
	}
	return ps
}

func binary(name string) *ir.OperatorBuilder {
	return ir.NewOperator(name, &ir.SignatureBuilder{Inputs: params("a", "b"), Outputs: params("c")})
}

func unary(name string) *ir.OperatorBuilder {
	return ir.NewOperator(name, &ir.SignatureBuilder{Inputs: params("x"), Outputs: params("y")})
}

func library(t *testing.T, b *ir.LibraryBuilder) *ir.Library {
	t.Helper()
	if b.IRVersion == 0 {
		b.IRVersion = ir.IRVersion
	}
	lib, err := b.Build()
	require.NoError(t, err)
	return lib
}

func buildModel(t *testing.T, g *ir.GraphBuilder) *ir.Model {
	t.Helper()
	m, err := ir.NewModel(g).Build()
	require.NoError(t, err)
	return m
}

func addGraph(imports ...string) *ir.GraphBuilder {
	return &ir.GraphBuilder{
		Name:              "main",
		Inputs:            []*ir.ValueInfoBuilder{ir.Input("x", f22()), ir.Input("y", f22())},
		Outputs:           []*ir.ValueInfoBuilder{ir.Input("z", f22())},
		Nodes:             []*ir.NodeBuilder{ir.NewNode("add", "Add", []string{"x", "y"}, []string{"z"})},
		ImportedLibraries: imports,
	}
}

const addPath = "model.graph[main].node[add]"

func TestResolveAdd(t *testing.T) {
	std := library(t, &ir.LibraryBuilder{Domain: "ai.graphir", Name: "std", Operators: []*ir.OperatorBuilder{binary("Add")}})
	ctx := NewContext(map[string]*ir.Library{"ai.graphir.std": std})

	b, err := New(ctx).Resolve(buildModel(t, addGraph("ai.graphir.std")), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, []string{addPath}, b.Paths())

	binding, ok := b.Lookup(addPath)
	require.True(t, ok)
	assert.Equal(t, TargetOperator, binding.Kind)
	assert.Equal(t, "ai.graphir.std.Add", binding.Qualified)
	assert.Same(t, std, binding.Library)
	assert.Same(t, std.Operators()[0], binding.Operator)
	assert.Same(t, std.Operators()[0].Signatures()[0], binding.Signature)
}

func TestResolveWithoutDeclaration(t *testing.T) {
	b, err := New(nil).Resolve(buildModel(t, addGraph()), nil)
	assert.Equal(t, 0, b.Len())

	list, ok := ir.AsList(err)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, ir.KindUnresolvedReference, list[0].Kind)
	assert.Equal(t, "Add", list[0].Name)
	assert.Equal(t, addPath, list[0].Path)
}

func TestResolveMissingImport(t *testing.T) {
	_, err := New(NewContext(nil)).Resolve(buildModel(t, addGraph("ai.graphir.std")), nil)
	list, ok := ir.AsList(err)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, &ir.Error{
		Kind:      ir.KindUnresolvedReference,
		Path:      "model.graph[main]",
		Namespace: ir.NamespaceLibrary,
		Name:      "ai.graphir.std",
		Detail:    "imported library is not in the resolution context",
	}, list[0])
	assert.Equal(t, "Add", list[1].Name)
}

func TestResolveOrder(t *testing.T) {
	libA := func(t *testing.T, imports ...string) *ir.Library {
		return library(t, &ir.LibraryBuilder{Domain: "x", Name: "a", Operators: []*ir.OperatorBuilder{binary("Add")}, ImportedLibraries: imports})
	}
	libB := func(t *testing.T, imports ...string) *ir.Library {
		return library(t, &ir.LibraryBuilder{
			Domain: "x", Name: "b", ImportedLibraries: imports,
			Operators: []*ir.OperatorBuilder{binary("Add"), unary("Relu")},
		})
	}
	relu := func(g *ir.GraphBuilder) *ir.GraphBuilder {
		g.Nodes = []*ir.NodeBuilder{ir.NewNode("add", "Relu", []string{"x"}, []string{"z"})}
		return g
	}

	tests := []struct {
		name      string
		libs      func(t *testing.T) map[string]*ir.Library
		graph     *ir.GraphBuilder
		qualified string
		kind      TargetKind
		err       ir.Kind
		names     []string
	}{
		{
			name:  "same name in two imports",
			libs:  func(t *testing.T) map[string]*ir.Library { return map[string]*ir.Library{"a": libA(t), "b": libB(t)} },
			graph: addGraph("a", "b"),
			err:   ir.KindAmbiguousReference,
			names: []string{"x.a.Add", "x.b.Add"},
		},
		{
			name:      "transitive import",
			libs:      func(t *testing.T) map[string]*ir.Library { return map[string]*ir.Library{"a": libA(t, "b"), "b": libB(t)} },
			graph:     relu(addGraph("a")),
			qualified: "x.b.Relu",
			kind:      TargetOperator,
		},
		{
			name:      "library reached twice is visited once",
			libs:      func(t *testing.T) map[string]*ir.Library { return map[string]*ir.Library{"a": libA(t, "b"), "b": libB(t)} },
			graph:     relu(addGraph("a", "b")),
			qualified: "x.b.Relu",
			kind:      TargetOperator,
		},
		{
			name:      "import cycle terminates",
			libs:      func(t *testing.T) map[string]*ir.Library { return map[string]*ir.Library{"a": libA(t, "b"), "b": libB(t, "a")} },
			graph:     relu(addGraph("a")),
			qualified: "x.b.Relu",
			kind:      TargetOperator,
		},
		{
			name: "qualified op_type skips the search",
			libs: func(t *testing.T) map[string]*ir.Library { return map[string]*ir.Library{"a": libA(t), "b": libB(t)} },
			graph: func() *ir.GraphBuilder {
				g := addGraph("a", "b")
				g.Nodes[0].OpType = "x.b.Add"
				return g
			}(),
			qualified: "x.b.Add",
			kind:      TargetOperator,
		},
		{
			name: "node domain qualifies op_type",
			libs: func(t *testing.T) map[string]*ir.Library { return map[string]*ir.Library{"a": libA(t), "b": libB(t)} },
			graph: func() *ir.GraphBuilder {
				g := addGraph()
				g.Nodes[0].Domain = "x.a"
				return g
			}(),
			qualified: "x.a.Add",
			kind:      TargetOperator,
		},
		{
			name: "qualified entry missing",
			libs: func(t *testing.T) map[string]*ir.Library { return map[string]*ir.Library{"a": libA(t), "b": libB(t)} },
			graph: func() *ir.GraphBuilder {
				g := addGraph("b")
				g.Nodes[0].OpType = "x.a.Relu"
				g.Nodes[0].Input = []string{"x"}
				return g
			}(),
			err:   ir.KindUnresolvedReference,
			names: nil,
		},
		{
			name: "local function shadows imports",
			libs: func(t *testing.T) map[string]*ir.Library { return map[string]*ir.Library{"a": libA(t)} },
			graph: func() *ir.GraphBuilder {
				g := addGraph("a")
				g.Functions = []*ir.FunctionBuilder{{Name: "Add", Inputs: params("p", "q"), Outputs: params("r")}}
				return g
			}(),
			qualified: "Add",
			kind:      TargetFunction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(NewContext(tt.libs(t))).Resolve(buildModel(t, tt.graph), nil)
			if tt.err != 0 {
				list, ok := ir.AsList(err)
				require.True(t, ok, "want %s, got %v", tt.err, err)
				require.Len(t, list, 1)
				assert.Equal(t, tt.err, list[0].Kind)
				assert.Equal(t, addPath, list[0].Path)
				assert.Equal(t, tt.names, list[0].Names)
				return
			}
			require.NoError(t, err)
			binding, ok := b.Lookup(addPath)
			require.True(t, ok)
			assert.Equal(t, tt.kind, binding.Kind)
			assert.Equal(t, tt.qualified, binding.Qualified)
		})
	}
}

func TestResolveNestedScope(t *testing.T) {
	then := &ir.GraphBuilder{
		Name:    "then",
		Outputs: []*ir.ValueInfoBuilder{ir.Input("r", f22())},
		Nodes:   []*ir.NodeBuilder{ir.NewNode("t", "Twice", []string{"x"}, []string{"r"})},
	}
	g := &ir.GraphBuilder{
		Name:   "main",
		Inputs: []*ir.ValueInfoBuilder{ir.Input("p", ir.TensorOf(ir.DataTypeBool)), ir.Input("x", f22())},
		Nodes: []*ir.NodeBuilder{
			ir.NewNode("if", "Cond", []string{"p", "x", "x"}, []string{"y"},
				ir.NewAttribute("then_branch").SetGraph(then),
				ir.NewAttribute("else_branch").SetString("Twice")),
		},
		Functions: []*ir.FunctionBuilder{{Name: "Twice", Inputs: params("a"), Outputs: params("b")}},
	}
	m := buildModel(t, g)
	tables, err := validate.New().Validate(m)
	require.NoError(t, err)

	b, err := New(nil).Resolve(m, tables)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Len())

	cond, ok := b.Lookup("model.graph[main].node[if]")
	require.True(t, ok)
	assert.Equal(t, TargetBuiltin, cond.Kind)

	inner, ok := b.Lookup("model.graph[main].node[if].attribute[then_branch].graph[then].node[t]")
	require.True(t, ok)
	assert.Equal(t, TargetFunction, inner.Kind)
	assert.Equal(t, "Twice", inner.Function.Name())
	assert.Nil(t, inner.Library)
}

func TestBranchesResolveThroughImports(t *testing.T) {
	fn := func(name string) *ir.FunctionBuilder {
		return &ir.FunctionBuilder{Name: name, Inputs: params("a"), Outputs: []*ir.ParamBuilder{ir.NewParam("b", f22())}}
	}
	g := &ir.GraphBuilder{
		Name:   "main",
		Inputs: []*ir.ValueInfoBuilder{ir.Input("p", ir.TensorOf(ir.DataTypeBool)), ir.Input("x", f22())},
		Nodes: []*ir.NodeBuilder{
			ir.NewNode("if", "Cond", []string{"p", "x", "x"}, []string{"y"},
				ir.NewAttribute("then_branch").SetString("Then"),
				ir.NewAttribute("else_branch").SetString("Else")),
		},
		Functions:         []*ir.FunctionBuilder{fn("Else")},
		ImportedLibraries: []string{"a", "b"},
	}
	m := buildModel(t, g)
	a := library(t, &ir.LibraryBuilder{Domain: "x", Name: "a", Functions: []*ir.FunctionBuilder{fn("Then")}})
	b := library(t, &ir.LibraryBuilder{Domain: "x", Name: "b", Operators: []*ir.OperatorBuilder{unary("Then")}})

	v := validate.New(validate.WithBranchResolver(New(NewContext(map[string]*ir.Library{"a": a, "b": b}))))
	_, err := v.Validate(m)
	assert.NoError(t, err, "operators are not branch targets")

	b2 := library(t, &ir.LibraryBuilder{Domain: "x", Name: "b", Functions: []*ir.FunctionBuilder{fn("Then")}})
	v = validate.New(validate.WithBranchResolver(New(NewContext(map[string]*ir.Library{"a": a, "b": b2}))))
	_, err = v.Validate(m)
	list, ok := ir.AsList(err)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, ir.KindAmbiguousReference, list[0].Kind)
	assert.Equal(t, "model.graph[main].node[if].attribute[then_branch]", list[0].Path)
	assert.Equal(t, []string{"x.a.Then", "x.b.Then"}, list[0].Names)
}

func TestOverloads(t *testing.T) {
	clip := ir.NewOperator("Clip",
		&ir.SignatureBuilder{Inputs: params("x"), Outputs: params("y")},
		&ir.SignatureBuilder{Inputs: params("x", "lo", "hi"), Outputs: params("y")},
	)
	std := library(t, &ir.LibraryBuilder{Name: "std", Operators: []*ir.OperatorBuilder{clip}})
	r := New(NewContext(map[string]*ir.Library{"std": std}))

	g := addGraph("std")
	g.Nodes[0].OpType = "Clip"
	g.Nodes[0].Input = []string{"x", "lo", "hi"}
	b, err := r.Resolve(buildModel(t, g), nil)
	require.NoError(t, err)
	binding, _ := b.Lookup(addPath)
	assert.Same(t, std.Operators()[0].Signatures()[1], binding.Signature)
	assert.Equal(t, "std.Clip", binding.Qualified)

	g.Nodes[0].Input = []string{"x", "lo"}
	_, err = r.Resolve(buildModel(t, g), nil)
	list, ok := ir.AsList(err)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, ir.KindArityMismatch, list[0].Kind)
	assert.Contains(t, list[0].Detail, "signature 0")
	assert.Contains(t, list[0].Detail, "signature 1")
}

func TestFunctionArity(t *testing.T) {
	g := addGraph()
	g.Functions = []*ir.FunctionBuilder{{Name: "Add", Inputs: params("p", "q"), Outputs: params("r")}}
	g.Nodes[0].Input = []string{"x", "y", "x"}
	_, err := New(nil).Resolve(buildModel(t, g), nil)
	assert.ErrorIs(t, err, ir.ErrArityMismatch)
}

func TestCheckArity(t *testing.T) {
	sig := func(inputs, outputs []*ir.ParamBuilder) *ir.Signature {
		o, err := ir.NewOperator("Op", &ir.SignatureBuilder{Inputs: inputs, Outputs: outputs}).Build()
		require.NoError(t, err)
		return o.Signatures()[0]
	}
	fixed := sig(params("a", "b"), params("c"))
	variadic := sig([]*ir.ParamBuilder{ir.VariadicParam("xs", nil)}, params("y"))
	mixed := sig([]*ir.ParamBuilder{ir.NewParam("axis", nil), ir.VariadicParam("xs", nil)}, params("y"))
	split := sig(params("x"), []*ir.ParamBuilder{ir.NewParam("first", nil), ir.VariadicParam("rest", nil)})

	tests := []struct {
		name   string
		sig    *ir.Signature
		in     []string
		out    []string
		counts []int32
		ok     bool
	}{
		{"fixed", fixed, []string{"x", "y"}, []string{"z"}, nil, true},
		{"fixed missing input", fixed, []string{"x"}, []string{"z"}, nil, false},
		{"fixed missing output", fixed, []string{"x", "y"}, nil, nil, false},
		{"variadic without counts takes no inputs", variadic, nil, []string{"y"}, nil, true},
		{"variadic without counts rejects inputs", variadic, []string{"a"}, []string{"y"}, nil, false},
		{"variadic with counts", variadic, []string{"a", "b", "c"}, []string{"y"}, []int32{3}, true},
		{"variadic with zero count", variadic, nil, []string{"y"}, []int32{0}, true},
		{"mixed", mixed, []string{"axis", "a", "b"}, []string{"y"}, []int32{1, 2}, true},
		{"non-variadic count above one", mixed, []string{"axis", "a", "b"}, []string{"y"}, []int32{2, 1}, false},
		{"too few entries", mixed, []string{"axis"}, []string{"y"}, []int32{1}, false},
		{"entries do not sum to inputs", mixed, []string{"axis", "a"}, []string{"y"}, []int32{1, 2}, false},
		{"negative entry", mixed, []string{"axis"}, []string{"y"}, []int32{1, -1}, false},
		{"variadic outputs at minimum", split, []string{"x"}, []string{"a"}, nil, true},
		{"variadic outputs above minimum", split, []string{"x"}, []string{"a", "b", "c"}, nil, true},
		{"variadic outputs below minimum", split, []string{"x"}, nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := (&ir.NodeBuilder{OpType: "Op", Input: tt.in, Output: tt.out, InputArgCount: tt.counts}).Build()
			require.NoError(t, err)
			if tt.ok {
				assert.NoError(t, checkArity(tt.sig, n))
			} else {
				assert.Error(t, checkArity(tt.sig, n))
			}
		})
	}
}

func TestResolveLibrary(t *testing.T) {
	std := library(t, &ir.LibraryBuilder{
		Domain:    "ai.graphir",
		Name:      "std",
		Operators: []*ir.OperatorBuilder{binary("Add")},
		Functions: []*ir.FunctionBuilder{{
			Name: "Double", Inputs: params("x"), Outputs: params("y"),
			Nodes: []*ir.NodeBuilder{ir.NewNode("", "Add", []string{"x", "x"}, []string{"y"})},
		}},
	})
	r := New(NewContext(map[string]*ir.Library{"ai.graphir.std": std}))

	b, err := r.ResolveLibrary("ai.graphir.std")
	require.NoError(t, err)
	binding, ok := b.Lookup("library[std].function[Double].node[#0]")
	require.True(t, ok)
	assert.Equal(t, "ai.graphir.std.Add", binding.Qualified)
	assert.Same(t, std, binding.Library)

	_, err = r.ResolveLibrary("ai.graphir.missing")
	assert.ErrorIs(t, err, ir.ErrUnresolvedReference)
}

func TestImportCycles(t *testing.T) {
	t.Run("two libraries", func(t *testing.T) {
		a := library(t, &ir.LibraryBuilder{Name: "a", ImportedLibraries: []string{"b"}})
		b := library(t, &ir.LibraryBuilder{Name: "b", ImportedLibraries: []string{"a"}})
		err := NewContext(map[string]*ir.Library{"a": a, "b": b}).ImportCycles()

		list, ok := ir.AsList(err)
		require.True(t, ok)
		assert.Equal(t, ir.ErrorList{{
			Kind:      ir.KindImportCycle,
			Path:      "library[a]",
			Namespace: ir.NamespaceLibrary,
			Names:     []string{"a", "b"},
			Detail:    "a -> b -> a",
		}}, list)
	})

	t.Run("self import and unknown import", func(t *testing.T) {
		c := library(t, &ir.LibraryBuilder{Name: "c", ImportedLibraries: []string{"c", "missing"}})
		err := NewContext(map[string]*ir.Library{"c": c}).ImportCycles()

		list, ok := ir.AsList(err)
		require.True(t, ok)
		require.Len(t, list, 2)
		assert.Equal(t, ir.KindUnresolvedReference, list[0].Kind)
		assert.Equal(t, "missing", list[0].Name)
		assert.Equal(t, ir.KindImportCycle, list[1].Kind)
		assert.Equal(t, []string{"c"}, list[1].Names)
	})

	t.Run("acyclic", func(t *testing.T) {
		a := library(t, &ir.LibraryBuilder{Name: "a", ImportedLibraries: []string{"b"}})
		b := library(t, &ir.LibraryBuilder{Name: "b"})
		assert.NoError(t, NewContext(map[string]*ir.Library{"a": a, "b": b}).ImportCycles())
	})
}

func TestResolveConcurrently(t *testing.T) {
	std := library(t, &ir.LibraryBuilder{Name: "std", Operators: []*ir.OperatorBuilder{binary("Add")}})
	r := New(NewContext(map[string]*ir.Library{"std": std}))
	m := buildModel(t, addGraph("std"))

	var wg sync.WaitGroup
	lens := make([]int, 8)
	for i := range lens {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := r.Resolve(m, nil)
			if err == nil {
				lens[i] = b.Len()
			}
		}()
	}
	wg.Wait()
	for _, n := range lens {
		assert.Equal(t, 1, n)
	}
}

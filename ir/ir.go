// Package ir is the public entry point to the graph IR engine.
//
// It re-exports the immutable data model and its builders, the binary codec,
// the validator and the symbol resolver. The engine never executes a graph.
//
// # Example Usage
//
//	import "github.com/born-ml/graphir/ir"
//
//	data, _ := os.ReadFile("model.irm")
//	checked, err := ir.Check(data, libs)
//	if err != nil {
//	    var list ir.ErrorList
//	    if errors.As(err, &list) {
//	        for _, e := range list {
//	            fmt.Println(e)
//	        }
//	    }
//	    return
//	}
//	fmt.Println("bound nodes:", checked.Bindings.Len())
//
// # Building Models
//
// Entities are created through builders and are immutable once built:
//
//	g := &ir.GraphBuilder{
//	    Name:    "main",
//	    Inputs:  []*ir.ValueInfoBuilder{ir.Input("x", ir.TensorOf(ir.DataTypeFloat, ir.D(2)))},
//	    Outputs: []*ir.ValueInfoBuilder{ir.Input("y", ir.TensorOf(ir.DataTypeFloat, ir.D(2)))},
//	    Nodes:   []*ir.NodeBuilder{ir.NewNode("relu", "Relu", []string{"x"}, []string{"y"})},
//	}
//	m, err := ir.NewModel(g).Build()
//
// # Errors
//
// Every defect is an [*Error] carrying a [Kind], the path of the offending
// entity and, where relevant, the namespace and names involved. Validation
// and resolution report all defects at once as an [ErrorList]. Each error
// matches the sentinel of its kind with errors.Is:
//
//	if errors.Is(err, ir.ErrCycleDetected) { ... }
package ir

import (
	"github.com/born-ml/graphir/internal/codec"
	"github.com/born-ml/graphir/internal/engine"
	internalir "github.com/born-ml/graphir/internal/ir"
	"github.com/born-ml/graphir/internal/resolve"
	"github.com/born-ml/graphir/internal/validate"
)

// IRVersion is the IR version written by NewModel.
const IRVersion = internalir.IRVersion

// Decoding limits.
type (
	// DecodeOption adjusts decoding limits.
	DecodeOption = codec.Option
)

// WithMaxPayloadBytes bounds the bytes a single tensor may claim. Zero or
// negative disables the bound.
func WithMaxPayloadBytes(n int64) DecodeOption { return codec.WithMaxPayloadBytes(n) }

// WithMaxDepth bounds message nesting. Zero disables the bound.
func WithMaxDepth(n int) DecodeOption { return codec.WithMaxDepth(n) }

// DecodeModel decodes a serialized model. The ir_version is not checked;
// use Check for the full pipeline.
func DecodeModel(data []byte, opts ...DecodeOption) (*Model, error) {
	return codec.DecodeModel(data, opts...)
}

// DecodeLibrary decodes a serialized library.
func DecodeLibrary(data []byte, opts ...DecodeOption) (*Library, error) {
	return codec.DecodeLibrary(data, opts...)
}

// DecodeTensor decodes a serialized tensor.
func DecodeTensor(data []byte, opts ...DecodeOption) (*Tensor, error) {
	return codec.DecodeTensor(data, opts...)
}

// DecodeValue decodes a serialized runtime value.
func DecodeValue(data []byte, opts ...DecodeOption) (*Value, error) {
	return codec.DecodeValue(data, opts...)
}

// EncodeModel serializes m. Decoding the result yields an equal model, and
// re-encoding it yields the same bytes.
func EncodeModel(m *Model) ([]byte, error) { return codec.EncodeModel(m) }

// EncodeLibrary serializes lib.
func EncodeLibrary(lib *Library) ([]byte, error) { return codec.EncodeLibrary(lib) }

// EncodeTensor serializes t.
func EncodeTensor(t *Tensor) ([]byte, error) { return codec.EncodeTensor(t) }

// EncodeValue serializes v.
func EncodeValue(v *Value) ([]byte, error) { return codec.EncodeValue(v) }

// Validate checks the structure of m: namespaces, the data-flow DAG of
// every body, control-flow nodes, type unions and tensors. Branches naming
// functions outside the model are not followed; use Check for that.
func Validate(m *Model) error {
	_, err := validate.New().Validate(m)
	return err
}

// ValidateLibrary checks the declarations and function bodies of lib.
func ValidateLibrary(lib *Library) error {
	_, err := validate.New().ValidateLibrary(lib)
	return err
}

// Resolution types.
type (
	// Context is an immutable set of libraries keyed by import URI.
	Context = resolve.Context

	// Bindings maps node paths to the declarations they invoke.
	Bindings = resolve.Bindings

	// Binding is the resolution of one node.
	Binding = resolve.Binding

	// TargetKind says whether a node is bound to a built-in, an operator or a function.
	TargetKind = resolve.TargetKind
)

// Binding targets.
const (
	TargetBuiltin  = resolve.TargetBuiltin
	TargetOperator = resolve.TargetOperator
	TargetFunction = resolve.TargetFunction
)

// NewContext returns a resolution context over libs, keyed by import URI.
func NewContext(libs map[string]*Library) *Context { return resolve.NewContext(libs) }

// Resolve binds every node of m to a declaration visible from its scope:
// local functions and operators first, then the libraries the enclosing
// graphs import, transitively.
func Resolve(m *Model, ctx *Context) (*Bindings, error) {
	return resolve.New(ctx).Resolve(m, nil)
}

// Checked is the result of Check.
type Checked = engine.Checked

// Summary contains basic information about a model.
type Summary = engine.Summary

// ErrUnsupportedIRVersion is returned by Check for models of an IR version
// other than IRVersion.
var ErrUnsupportedIRVersion = engine.ErrUnsupportedIRVersion

// Check runs the full pipeline on a serialized model against libs, keyed by
// import URI: decode, IR version gate, validation, import-cycle detection
// and resolution. When only defects were found, the result is returned
// together with an ErrorList.
//
// Example:
//
//	std, _ := ir.DecodeLibrary(stdBytes)
//	checked, err := ir.Check(data, map[string]*ir.Library{"ai.graphir.std": std})
func Check(data []byte, libs map[string]*Library) (*Checked, error) {
	e, err := engine.New(nil, engine.WithLibraries(libs))
	if err != nil {
		return nil, err
	}
	return e.Check(data)
}

// Summarize collects counts and names from m without checking it.
func Summarize(m *Model) Summary { return engine.Summarize(m) }

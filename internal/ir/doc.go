// Package ir defines the immutable data model of the graph IR.
//
// Every entity is created through a builder: a plain struct whose exported
// fields are filled in progressively and then finalized with Build. Build
// runs the single validation pass of the message and its children, so a
// built entity always satisfies the required-field and union rules:
//
//	g := &ir.GraphBuilder{
//		Name:    "main",
//		Inputs:  []*ir.ValueInfoBuilder{ir.Input("x", ir.TensorOf(ir.DataTypeFloat, ir.D(2)))},
//		Outputs: []*ir.ValueInfoBuilder{ir.Input("y", ir.TensorOf(ir.DataTypeFloat, ir.D(2)))},
//		Nodes:   []*ir.NodeBuilder{ir.NewNode("relu", "Relu", []string{"x"}, []string{"y"})},
//	}
//	m, err := ir.NewModel(g).Build()
//
// Built entities are never mutated and may be shared between goroutines.
// Builder converts an entity back into an editable builder.
//
// Failures are reported as an ErrorList of *Error values; each carries a
// Kind, the name path of the offending entity and unwraps to the sentinel
// of its kind, so errors.Is(err, ir.ErrUnionViolation) works on a batch.
package ir

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/graphir/internal/ir"
)

func mustType(t *testing.T, b *ir.TypeBuilder) *ir.Type {
	t.Helper()
	tp, err := b.Build()
	require.NoError(t, err)
	return tp
}

func TestUnify(t *testing.T) {
	f := func(dims ...ir.Dim) *ir.TypeBuilder { return ir.TensorOf(ir.DataTypeFloat, dims...) }

	tests := []struct {
		name string
		a, b *ir.TypeBuilder
		ok   bool
	}{
		{"equal tensors", f(ir.D(2), ir.D(3)), f(ir.D(2), ir.D(3)), true},
		{"concrete mismatch", f(ir.D(2)), f(ir.D(3)), false},
		{"symbol and concrete", f(ir.Sym("N"), ir.D(3)), f(ir.D(7), ir.D(3)), true},
		{"two symbols", f(ir.Sym("N")), f(ir.Sym("M")), true},
		{"symbol reused consistently", f(ir.Sym("N"), ir.Sym("N")), f(ir.D(4), ir.D(4)), true},
		{"symbol reused inconsistently", f(ir.Sym("N"), ir.Sym("N")), f(ir.D(4), ir.D(5)), false},
		{"symbols scoped per type", f(ir.Sym("N"), ir.D(2)), f(ir.D(3), ir.Sym("N")), true},
		{"symbols chained across sides", f(ir.Sym("N"), ir.Sym("M"), ir.Sym("N")), f(ir.Sym("M"), ir.D(2), ir.D(3)), true},
		{"symbols chained to conflicting sizes", f(ir.Sym("N"), ir.Sym("N"), ir.D(2)), f(ir.Sym("M"), ir.D(3), ir.Sym("M")), false},
		{"symbol reused inside a tuple", ir.TupleOf(f(ir.Sym("N")), f(ir.Sym("N"))), ir.TupleOf(f(ir.D(2)), f(ir.D(3))), false},
		{"rank mismatch", f(ir.D(2)), f(ir.D(2), ir.D(1)), false},
		{"unranked matches any shape", ir.UnrankedTensorOf(ir.DataTypeFloat), f(ir.D(2), ir.D(1)), true},
		{"element type mismatch", f(ir.D(2)), ir.TensorOf(ir.DataTypeDouble, ir.D(2)), false},
		{"variant mismatch", f(ir.D(2)), ir.SparseTensorOf(ir.DataTypeFloat, ir.D(2)), false},
		{"sequences", ir.SequenceOf(f(ir.Sym("N"))), ir.SequenceOf(f(ir.D(1))), true},
		{"tuples", ir.TupleOf(f(), ir.HandleOf()), ir.TupleOf(f(), ir.HandleOf()), true},
		{"tuple lengths", ir.TupleOf(f()), ir.TupleOf(f(), f()), false},
		{"maps", ir.MapOf(ir.DataTypeInt64, ir.DataTypeFloat), ir.MapOf(ir.DataTypeInt64, ir.DataTypeFloat), true},
		{"map values", ir.MapOf(ir.DataTypeInt64, ir.DataTypeFloat), ir.MapOf(ir.DataTypeInt64, ir.DataTypeDouble), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Unify(mustType(t, tt.a), mustType(t, tt.b))
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestUnifyNil(t *testing.T) {
	assert.NoError(t, Unify(nil, mustType(t, ir.HandleOf())))
}

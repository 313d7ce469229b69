package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Tensor(vals ...int64) *TensorBuilder {
	return &TensorBuilder{Dims: []int64{int64(len(vals))}, DataType: DataTypeInt64, Int64Data: vals}
}

func floatTensor(vals ...float32) *TensorBuilder {
	return &TensorBuilder{Dims: []int64{int64(len(vals))}, DataType: DataTypeFloat, FloatData: vals}
}

func TestValueUnion(t *testing.T) {
	h := int64(42)
	tests := []struct {
		name    string
		builder *ValueBuilder
		want    ValueKind
		wantErr bool
	}{
		{"dense", &ValueBuilder{DenseTensor: floatTensor(1)}, ValueDenseTensor, false},
		{"handle", &ValueBuilder{Handle: &h}, ValueHandle, false},
		{"empty tuple", &ValueBuilder{Tuple: []*ValueBuilder{}}, ValueTuple, false},
		{"sequence", &ValueBuilder{Sequence: []*ValueBuilder{{Handle: &h}, {Handle: &h}}}, ValueSequence, false},
		{"map", &ValueBuilder{Map: &MapValueBuilder{Keys: int64Tensor(1), Values: floatTensor(2)}}, ValueMap, false},
		{"none", &ValueBuilder{}, 0, true},
		{"two", &ValueBuilder{Handle: &h, DenseTensor: floatTensor(1)}, 0, true},
		{"nested empty", &ValueBuilder{Tuple: []*ValueBuilder{{}}}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.builder.Build()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnionViolation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Kind())
			assert.Empty(t, v.CheckUnion("value"))
		})
	}
}

func TestMapLastOccurrenceWins(t *testing.T) {
	v, err := (&ValueBuilder{Map: &MapValueBuilder{
		Keys:   int64Tensor(3, 1, 3, 2),
		Values: floatTensor(30, 10, 33, 20),
	}}).Build()
	require.NoError(t, err)

	m := v.Map()
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []MapKey{{Int: 1}, {Int: 2}, {Int: 3}}, m.Keys())

	vals, err := m.ValueTensor().Float32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{10, 20, 33}, vals)

	i, ok := m.Lookup(MapKey{Int: 3})
	require.True(t, ok)
	assert.Equal(t, float32(33), vals[i])
	_, ok = m.Lookup(MapKey{Int: 4})
	assert.False(t, ok)
}

func TestMapStringKeys(t *testing.T) {
	keys := &TensorBuilder{Dims: []int64{2}, DataType: DataTypeString, StringData: [][]byte{[]byte("b"), []byte("a")}}
	v, err := (&ValueBuilder{Map: &MapValueBuilder{Keys: keys, Values: int64Tensor(2, 1)}}).Build()
	require.NoError(t, err)
	assert.Equal(t, []MapKey{{Str: "a"}, {Str: "b"}}, v.Map().Keys())
	assert.Equal(t, DataTypeString, v.Map().KeyType())
	assert.Equal(t, `"a"`, v.Map().Keys()[0].String())
}

func TestMapErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *MapValueBuilder
		errKind Kind
	}{
		{"float keys", &MapValueBuilder{Keys: floatTensor(1), Values: floatTensor(1)}, KindTypeIncompatible},
		{"length mismatch", &MapValueBuilder{Keys: int64Tensor(1, 2), Values: floatTensor(1)}, KindArityMismatch},
		{"missing values", &MapValueBuilder{Keys: int64Tensor(1)}, KindMissingRequiredField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&ValueBuilder{Map: tt.builder}).Build()
			assert.ErrorIs(t, err, tt.errKind.Sentinel())
		})
	}
}

func TestSparseIndicesMustBeInt64(t *testing.T) {
	_, err := (&ValueBuilder{SparseTensor: &SparseTensorBuilder{
		Dims:    []int64{4},
		Indices: &TensorBuilder{Dims: []int64{1}, DataType: DataTypeInt32, Int32Data: []int32{1}},
		Values:  floatTensor(5),
	}}).Build()
	assert.ErrorIs(t, err, ErrTypeIncompatible)

	v, err := (&ValueBuilder{SparseTensor: &SparseTensorBuilder{
		Dims:    []int64{4},
		Indices: int64Tensor(1),
		Values:  floatTensor(5),
	}}).Build()
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, v.SparseTensor().Dims())
}

func TestValueBuilderRoundTrip(t *testing.T) {
	h := int64(7)
	v, err := (&ValueBuilder{Tuple: []*ValueBuilder{
		{Handle: &h},
		{Map: &MapValueBuilder{Keys: int64Tensor(2, 1), Values: floatTensor(2, 1)}},
	}}).Build()
	require.NoError(t, err)

	again, err := v.Builder().Build()
	require.NoError(t, err)
	assert.Equal(t, v, again)
}

package ir

import (
	"cmp"
	"fmt"
	"slices"
)

// ValueKind identifies the populated variant of a Value.
type ValueKind int

// Value variants.
const (
	ValueUndefined ValueKind = iota
	ValueDenseTensor
	ValueSparseTensor
	ValueHandle
	ValueTuple
	ValueSequence
	ValueMap
)

// String returns the variant name.
func (k ValueKind) String() string {
	switch k {
	case ValueDenseTensor:
		return "dense_tensor"
	case ValueSparseTensor:
		return "sparse_tensor"
	case ValueHandle:
		return "handle"
	case ValueTuple:
		return "tuple"
	case ValueSequence:
		return "seq"
	case ValueMap:
		return "map"
	default:
		return "undefined"
	}
}

// SparseTensor is a tensor stored as INT64 indices plus values.
type SparseTensor struct {
	dims    []int64
	indices *Tensor
	values  *Tensor
}

// Dims returns the dense shape.
func (s *SparseTensor) Dims() []int64 { return s.dims }

// Indices returns the INT64 index tensor.
func (s *SparseTensor) Indices() *Tensor { return s.indices }

// Values returns the value tensor.
func (s *SparseTensor) Values() *Tensor { return s.values }

// SparseTensorBuilder accumulates a SparseTensor.
type SparseTensorBuilder struct {
	Dims    []int64
	Indices *TensorBuilder
	Values  *TensorBuilder
}

func (b *SparseTensorBuilder) build(path string) (*SparseTensor, ErrorList) {
	var errs ErrorList
	if b.Indices == nil {
		errs.Add(Missing(path, "indices"))
	}
	if b.Values == nil {
		errs.Add(Missing(path, "values"))
	}
	if len(errs) > 0 {
		return nil, errs
	}
	s := &SparseTensor{dims: clone(b.Dims)}
	var ierrs, verrs ErrorList
	s.indices, ierrs = b.Indices.build(Field(path, "indices"))
	s.values, verrs = b.Values.build(Field(path, "values"))
	errs.Append(ierrs)
	errs.Append(verrs)
	if s.indices != nil && s.indices.dataType != DataTypeInt64 {
		errs.Add(Errorf(KindTypeIncompatible, Field(path, "indices"), "indices must be INT64, got %s", s.indices.dataType))
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return s, nil
}

func (s *SparseTensor) builder() *SparseTensorBuilder {
	return &SparseTensorBuilder{Dims: clone(s.dims), Indices: s.indices.Builder(), Values: s.values.Builder()}
}

// MapKey is a map key: Int for integral key types, Str for STRING keys.
type MapKey struct {
	Int int64
	Str string
}

// MapValue is a mapping with unique keys. Iteration order is the canonical
// ascending key order used on the wire.
type MapValue struct {
	keyType DataType
	keys    []MapKey
	index   map[MapKey]int
	keyT    *Tensor
	valueT  *Tensor
}

// KeyType returns the key data type.
func (m *MapValue) KeyType() DataType { return m.keyType }

// Len returns the number of entries.
func (m *MapValue) Len() int { return len(m.keys) }

// Keys returns the keys in ascending order.
func (m *MapValue) Keys() []MapKey { return m.keys }

// Lookup returns the position of key in Keys and ValueTensor.
func (m *MapValue) Lookup(key MapKey) (int, bool) {
	i, ok := m.index[key]
	return i, ok
}

// KeyTensor returns the 1-D key tensor in canonical order.
func (m *MapValue) KeyTensor() *Tensor { return m.keyT }

// ValueTensor returns the 1-D value tensor aligned with KeyTensor.
func (m *MapValue) ValueTensor() *Tensor { return m.valueT }

// MapValueBuilder accumulates a map from parallel key and value tensors.
// Duplicate keys keep the last occurrence.
type MapValueBuilder struct {
	Keys   *TensorBuilder
	Values *TensorBuilder
}

//nolint:gocognit // Key extraction differs per key type.
func (b *MapValueBuilder) build(path string) (*MapValue, ErrorList) {
	var errs ErrorList
	if b.Keys == nil {
		errs.Add(Missing(path, "keys"))
	}
	if b.Values == nil {
		errs.Add(Missing(path, "values"))
	}
	if len(errs) > 0 {
		return nil, errs
	}
	keyT, kerrs := b.Keys.build(Field(path, "keys"))
	valT, verrs := b.Values.build(Field(path, "values"))
	errs.Append(kerrs)
	errs.Append(verrs)
	if len(errs) > 0 {
		return nil, errs
	}

	if !keyT.dataType.IsIntegral() && keyT.dataType != DataTypeString {
		errs.Add(Errorf(KindTypeIncompatible, Field(path, "keys"), "map key type %s must be integral or STRING", keyT.dataType))
	}
	if len(keyT.dims) != 1 || len(valT.dims) != 1 || keyT.segment != nil || valT.segment != nil {
		errs.Add(Errorf(KindArityMismatch, path, "keys and values must be unsegmented 1-D tensors"))
	} else if keyT.dims[0] != valT.dims[0] {
		errs.Add(Errorf(KindArityMismatch, path, "%d keys but %d values", keyT.dims[0], valT.dims[0]))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var raw []MapKey
	if keyT.dataType == DataTypeString {
		for _, s := range keyT.stringData {
			raw = append(raw, MapKey{Str: string(s)})
		}
	} else {
		ints, err := keyT.Int64s()
		if err != nil {
			errs.Add(Errorf(KindTypeIncompatible, Field(path, "keys"), "%v", err))
			return nil, errs
		}
		for _, v := range ints {
			raw = append(raw, MapKey{Int: v})
		}
	}

	last := make(map[MapKey]int, len(raw))
	for i, k := range raw {
		last[k] = i
	}
	keys := make([]MapKey, 0, len(last))
	for k := range last {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b MapKey) int {
		if c := cmp.Compare(a.Int, b.Int); c != 0 {
			return c
		}
		return cmp.Compare(a.Str, b.Str)
	})

	order := make([]int, len(keys))
	index := make(map[MapKey]int, len(keys))
	for i, k := range keys {
		order[i] = last[k]
		index[k] = i
	}
	return &MapValue{
		keyType: keyT.dataType,
		keys:    keys,
		index:   index,
		keyT:    keyT.gather(order),
		valueT:  valT.gather(order),
	}, nil
}

// Value is an immutable runtime payload: exactly one variant is populated.
type Value struct {
	kind    ValueKind
	dense   *Tensor
	sparse  *SparseTensor
	handle  int64
	elems   []*Value
	m       *MapValue
	unknown []byte
}

// Kind returns the populated variant.
func (v *Value) Kind() ValueKind { return v.kind }

// DenseTensor returns the dense tensor variant.
func (v *Value) DenseTensor() *Tensor { return v.dense }

// SparseTensor returns the sparse tensor variant.
func (v *Value) SparseTensor() *SparseTensor { return v.sparse }

// Handle returns the handle uid.
func (v *Value) Handle() int64 { return v.handle }

// Elems returns the elements of a tuple or sequence.
func (v *Value) Elems() []*Value { return v.elems }

// Map returns the map variant.
func (v *Value) Map() *MapValue { return v.m }

// Unknown returns unrecognized wire fields retained for re-encoding.
func (v *Value) Unknown() []byte { return v.unknown }

// ValueBuilder accumulates a Value. Exactly one variant may be set; Tuple and
// Sequence count as set when non-nil, so an empty tuple is []*ValueBuilder{}.
type ValueBuilder struct {
	DenseTensor  *TensorBuilder
	SparseTensor *SparseTensorBuilder
	Handle       *int64
	Tuple        []*ValueBuilder
	Sequence     []*ValueBuilder
	Map          *MapValueBuilder
	Unknown      []byte
}

// Build validates the accumulated fields and returns an immutable Value.
func (b *ValueBuilder) Build() (*Value, error) {
	v, errs := b.build("value")
	if len(errs) > 0 {
		return nil, errs
	}
	return v, nil
}

func (b *ValueBuilder) variants() []string {
	var set []string
	if b.DenseTensor != nil {
		set = append(set, "dense_tensor")
	}
	if b.SparseTensor != nil {
		set = append(set, "sparse_tensor")
	}
	if b.Handle != nil {
		set = append(set, "handle")
	}
	if b.Tuple != nil {
		set = append(set, "tuple")
	}
	if b.Sequence != nil {
		set = append(set, "seq")
	}
	if b.Map != nil {
		set = append(set, "map")
	}
	return set
}

func (b *ValueBuilder) build(path string) (*Value, ErrorList) {
	var errs ErrorList
	if set := b.variants(); len(set) != 1 {
		errs.Add(&Error{Kind: KindUnionViolation, Path: path, Names: set,
			Detail: fmt.Sprintf("value must populate exactly one variant, got %d", len(set))})
		return nil, errs
	}
	v := &Value{unknown: cloneBytes(b.Unknown)}
	switch {
	case b.DenseTensor != nil:
		v.kind = ValueDenseTensor
		var terrs ErrorList
		v.dense, terrs = b.DenseTensor.build(Field(path, "dense_tensor"))
		errs.Append(terrs)
	case b.SparseTensor != nil:
		v.kind = ValueSparseTensor
		var serrs ErrorList
		v.sparse, serrs = b.SparseTensor.build(Field(path, "sparse_tensor"))
		errs.Append(serrs)
	case b.Handle != nil:
		v.kind = ValueHandle
		v.handle = *b.Handle
	case b.Tuple != nil, b.Sequence != nil:
		v.kind, v.elems = ValueTuple, []*Value{}
		elems, field := b.Tuple, "tuple"
		if b.Sequence != nil {
			v.kind, elems, field = ValueSequence, b.Sequence, "seq"
		}
		for i, eb := range elems {
			if eb == nil {
				errs.Add(Missing(Index(path, field, i), "value"))
				continue
			}
			ev, eerrs := eb.build(Index(path, field, i))
			errs.Append(eerrs)
			v.elems = append(v.elems, ev)
		}
	case b.Map != nil:
		v.kind = ValueMap
		var merrs ErrorList
		v.m, merrs = b.Map.build(Field(path, "map"))
		errs.Append(merrs)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return v, nil
}

// Builder returns a builder initialized from v.
func (v *Value) Builder() *ValueBuilder {
	b := &ValueBuilder{Unknown: cloneBytes(v.unknown)}
	switch v.kind {
	case ValueDenseTensor:
		b.DenseTensor = v.dense.Builder()
	case ValueSparseTensor:
		b.SparseTensor = v.sparse.builder()
	case ValueHandle:
		h := v.handle
		b.Handle = &h
	case ValueTuple, ValueSequence:
		elems := make([]*ValueBuilder, len(v.elems))
		for i, e := range v.elems {
			elems[i] = e.Builder()
		}
		if v.kind == ValueTuple {
			b.Tuple = elems
		} else {
			b.Sequence = elems
		}
	case ValueMap:
		b.Map = &MapValueBuilder{Keys: v.m.keyT.Builder(), Values: v.m.valueT.Builder()}
	}
	return b
}

// CheckUnion re-applies the variant discipline to an already constructed Value.
func (v *Value) CheckUnion(path string) ErrorList {
	if v == nil || v.kind == ValueUndefined {
		return ErrorList{{Kind: KindUnionViolation, Path: path, Detail: "value has no populated variant"}}
	}
	var errs ErrorList
	for i, e := range v.elems {
		errs.Append(e.CheckUnion(Index(path, v.kind.String(), i)))
	}
	return errs
}

// String formats the key.
func (k MapKey) String() string {
	if k.Str != "" {
		return fmt.Sprintf("%q", k.Str)
	}
	return fmt.Sprintf("%d", k.Int)
}

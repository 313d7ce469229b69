package ir

import (
	"fmt"
	"strings"
)

// TypeKind identifies the populated variant of a Type.
type TypeKind int

// Type variants.
const (
	TypeUndefined TypeKind = iota
	TypeTensor
	TypeSparseTensor
	TypeHandle
	TypeTuple
	TypeSequence
	TypeMap
)

// String returns the variant name.
func (k TypeKind) String() string {
	switch k {
	case TypeTensor:
		return "tensor"
	case TypeSparseTensor:
		return "sparse_tensor"
	case TypeHandle:
		return "handle"
	case TypeTuple:
		return "tuple"
	case TypeSequence:
		return "sequence"
	case TypeMap:
		return "map"
	default:
		return "undefined"
	}
}

// Dim is one shape dimension: a concrete size, or a symbolic name when Param is set.
type Dim struct {
	Value int64
	Param string
}

// D returns a concrete dimension.
func D(n int64) Dim { return Dim{Value: n} }

// Sym returns a symbolic dimension.
func Sym(name string) Dim { return Dim{Param: name} }

// IsSymbolic reports whether the dimension is a named, unresolved size.
func (d Dim) IsSymbolic() bool { return d.Param != "" }

// String formats the dimension.
func (d Dim) String() string {
	if d.IsSymbolic() {
		return d.Param
	}
	return fmt.Sprintf("%d", d.Value)
}

// Type is an immutable static type: exactly one variant is populated.
type Type struct {
	kind     TypeKind
	elem     DataType
	shape    []Dim
	ranked   bool
	elems    []*Type
	mapKey   DataType
	mapValue DataType
	unknown  []byte
}

// Kind returns the populated variant.
func (t *Type) Kind() TypeKind { return t.kind }

// ElemType returns the element type of a tensor or sparse tensor type.
func (t *Type) ElemType() DataType { return t.elem }

// Shape returns the dimensions of a tensor or sparse tensor type.
// ranked is false when the shape is unknown.
func (t *Type) Shape() (dims []Dim, ranked bool) { return t.shape, t.ranked }

// TupleElems returns the element types of a tuple type.
func (t *Type) TupleElems() []*Type {
	if t.kind != TypeTuple {
		return nil
	}
	return t.elems
}

// SequenceElem returns the element type of a sequence type.
func (t *Type) SequenceElem() *Type {
	if t.kind != TypeSequence || len(t.elems) == 0 {
		return nil
	}
	return t.elems[0]
}

// MapTypes returns the key and value types of a map type.
func (t *Type) MapTypes() (key, value DataType) { return t.mapKey, t.mapValue }

// Unknown returns unrecognized wire fields retained for re-encoding.
func (t *Type) Unknown() []byte { return t.unknown }

// String formats the type, e.g. tensor(FLOAT, [N,3]).
func (t *Type) String() string {
	switch t.kind {
	case TypeTensor, TypeSparseTensor:
		if !t.ranked {
			return fmt.Sprintf("%s(%s)", t.kind, t.elem)
		}
		dims := make([]string, len(t.shape))
		for i, d := range t.shape {
			dims[i] = d.String()
		}
		return fmt.Sprintf("%s(%s, [%s])", t.kind, t.elem, strings.Join(dims, ","))
	case TypeTuple:
		elems := make([]string, len(t.elems))
		for i, e := range t.elems {
			elems[i] = e.String()
		}
		return "tuple(" + strings.Join(elems, ", ") + ")"
	case TypeSequence:
		return "sequence(" + t.elems[0].String() + ")"
	case TypeMap:
		return fmt.Sprintf("map(%s, %s)", t.mapKey, t.mapValue)
	case TypeHandle:
		return "handle"
	default:
		return "undefined"
	}
}

// TensorTypeBuilder describes a tensor or sparse tensor type.
// The shape is unknown unless HasShape is set; a scalar has HasShape and no Dims.
type TensorTypeBuilder struct {
	ElemType DataType
	Shape    []Dim
	HasShape bool
}

// HandleTypeBuilder marks the handle variant. It has no fields.
type HandleTypeBuilder struct{}

// TupleTypeBuilder describes a tuple type.
type TupleTypeBuilder struct {
	Elems []*TypeBuilder
}

// SequenceTypeBuilder describes a homogeneous sequence type.
type SequenceTypeBuilder struct {
	Elem *TypeBuilder
}

// MapTypeBuilder describes a map type.
type MapTypeBuilder struct {
	Key   DataType
	Value DataType
}

// TypeBuilder accumulates a Type. Exactly one variant pointer may be non-nil.
type TypeBuilder struct {
	Tensor       *TensorTypeBuilder
	SparseTensor *TensorTypeBuilder
	Handle       *HandleTypeBuilder
	Tuple        *TupleTypeBuilder
	Sequence     *SequenceTypeBuilder
	Map          *MapTypeBuilder
	Unknown      []byte
}

// TensorOf returns a builder for a ranked tensor type.
func TensorOf(elem DataType, dims ...Dim) *TypeBuilder {
	return &TypeBuilder{Tensor: &TensorTypeBuilder{ElemType: elem, Shape: dims, HasShape: true}}
}

// UnrankedTensorOf returns a builder for a tensor type of unknown shape.
func UnrankedTensorOf(elem DataType) *TypeBuilder {
	return &TypeBuilder{Tensor: &TensorTypeBuilder{ElemType: elem}}
}

// SparseTensorOf returns a builder for a ranked sparse tensor type.
func SparseTensorOf(elem DataType, dims ...Dim) *TypeBuilder {
	return &TypeBuilder{SparseTensor: &TensorTypeBuilder{ElemType: elem, Shape: dims, HasShape: true}}
}

// HandleOf returns a builder for the handle type.
func HandleOf() *TypeBuilder {
	return &TypeBuilder{Handle: &HandleTypeBuilder{}}
}

// TupleOf returns a builder for a tuple type.
func TupleOf(elems ...*TypeBuilder) *TypeBuilder {
	return &TypeBuilder{Tuple: &TupleTypeBuilder{Elems: elems}}
}

// SequenceOf returns a builder for a sequence type.
func SequenceOf(elem *TypeBuilder) *TypeBuilder {
	return &TypeBuilder{Sequence: &SequenceTypeBuilder{Elem: elem}}
}

// MapOf returns a builder for a map type.
func MapOf(key, value DataType) *TypeBuilder {
	return &TypeBuilder{Map: &MapTypeBuilder{Key: key, Value: value}}
}

// Build validates the accumulated fields and returns an immutable Type.
func (b *TypeBuilder) Build() (*Type, error) {
	t, errs := b.build("type")
	if len(errs) > 0 {
		return nil, errs
	}
	return t, nil
}

func (b *TypeBuilder) variants() []string {
	var set []string
	if b.Tensor != nil {
		set = append(set, "tensor_type")
	}
	if b.SparseTensor != nil {
		set = append(set, "sparse_tensor_type")
	}
	if b.Handle != nil {
		set = append(set, "handle_type")
	}
	if b.Tuple != nil {
		set = append(set, "tuple_type")
	}
	if b.Sequence != nil {
		set = append(set, "sequence_type")
	}
	if b.Map != nil {
		set = append(set, "map_type")
	}
	return set
}

func (b *TypeBuilder) build(path string) (*Type, ErrorList) {
	var errs ErrorList
	if set := b.variants(); len(set) != 1 {
		errs.Add(&Error{Kind: KindUnionViolation, Path: path, Names: set,
			Detail: fmt.Sprintf("type must populate exactly one variant, got %d", len(set))})
		return nil, errs
	}

	t := &Type{unknown: cloneBytes(b.Unknown)}
	switch {
	case b.Tensor != nil, b.SparseTensor != nil:
		tt, field := b.Tensor, "tensor_type"
		t.kind = TypeTensor
		if tt == nil {
			tt, field = b.SparseTensor, "sparse_tensor_type"
			t.kind = TypeSparseTensor
		}
		switch {
		case tt.ElemType == DataTypeUndefined:
			errs.Add(Missing(Field(path, field), "elem_type"))
		case !tt.ElemType.IsValid():
			errs.Add(Errorf(KindTypeIncompatible, Field(path, field), "unknown elem_type %d", int32(tt.ElemType)))
		}
		for _, d := range tt.Shape {
			if d.IsSymbolic() && d.Value != 0 {
				errs.Add(&Error{Kind: KindUnionViolation, Path: Field(path, field), Names: []string{"dim_value", "dim_param"},
					Detail: "dimension sets both a value and a symbol"})
			} else if d.Value < 0 {
				errs.Add(Errorf(KindArityMismatch, Field(path, field), "negative dimension %d", d.Value))
			}
		}
		t.elem = tt.ElemType
		t.shape = clone(tt.Shape)
		t.ranked = tt.HasShape
	case b.Handle != nil:
		t.kind = TypeHandle
	case b.Tuple != nil:
		t.kind = TypeTuple
		for i, eb := range b.Tuple.Elems {
			if eb == nil {
				errs.Add(Missing(Index(Field(path, "tuple_type"), "elem_type", i), "type"))
				continue
			}
			et, eerrs := eb.build(Index(Field(path, "tuple_type"), "elem_type", i))
			errs.Append(eerrs)
			t.elems = append(t.elems, et)
		}
	case b.Sequence != nil:
		t.kind = TypeSequence
		if b.Sequence.Elem == nil {
			errs.Add(Missing(Field(path, "sequence_type"), "elem_type"))
			break
		}
		et, eerrs := b.Sequence.Elem.build(Field(Field(path, "sequence_type"), "elem_type"))
		errs.Append(eerrs)
		t.elems = []*Type{et}
	case b.Map != nil:
		t.kind = TypeMap
		errs.Append(checkMapTypes(Field(path, "map_type"), b.Map.Key, b.Map.Value))
		t.mapKey, t.mapValue = b.Map.Key, b.Map.Value
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return t, nil
}

// checkMapTypes enforces the map key/value contract: an integral or STRING
// key and a defined value type.
func checkMapTypes(path string, key, value DataType) ErrorList {
	var errs ErrorList
	if !key.IsIntegral() && key != DataTypeString {
		errs.Add(Errorf(KindTypeIncompatible, path, "map key type %s must be integral or STRING", key))
	}
	if !value.IsValid() {
		errs.Add(Errorf(KindTypeIncompatible, path, "map value type %s is not defined", value))
	}
	return errs
}

// Builder returns a builder initialized from t.
func (t *Type) Builder() *TypeBuilder {
	b := &TypeBuilder{Unknown: cloneBytes(t.unknown)}
	switch t.kind {
	case TypeTensor:
		b.Tensor = &TensorTypeBuilder{ElemType: t.elem, Shape: clone(t.shape), HasShape: t.ranked}
	case TypeSparseTensor:
		b.SparseTensor = &TensorTypeBuilder{ElemType: t.elem, Shape: clone(t.shape), HasShape: t.ranked}
	case TypeHandle:
		b.Handle = &HandleTypeBuilder{}
	case TypeTuple:
		b.Tuple = &TupleTypeBuilder{}
		for _, e := range t.elems {
			b.Tuple.Elems = append(b.Tuple.Elems, e.Builder())
		}
	case TypeSequence:
		b.Sequence = &SequenceTypeBuilder{Elem: t.elems[0].Builder()}
	case TypeMap:
		b.Map = &MapTypeBuilder{Key: t.mapKey, Value: t.mapValue}
	}
	return b
}

// CheckUnion re-applies the variant discipline to an already constructed Type.
// Types produced by TypeBuilder always pass; the check catches zero values.
func (t *Type) CheckUnion(path string) ErrorList {
	if t == nil || t.kind == TypeUndefined {
		return ErrorList{{Kind: KindUnionViolation, Path: path, Detail: "type has no populated variant"}}
	}
	var errs ErrorList
	switch t.kind {
	case TypeTuple:
		for i, e := range t.elems {
			errs.Append(e.CheckUnion(Index(Field(path, "tuple_type"), "elem_type", i)))
		}
	case TypeSequence:
		if len(t.elems) != 1 {
			errs.Add(Missing(Field(path, "sequence_type"), "elem_type"))
			break
		}
		errs.Append(t.elems[0].CheckUnion(Field(Field(path, "sequence_type"), "elem_type")))
	case TypeMap:
		errs.Append(checkMapTypes(Field(path, "map_type"), t.mapKey, t.mapValue))
	case TypeTensor, TypeSparseTensor:
		if !t.elem.IsValid() {
			errs.Add(Missing(path, "elem_type"))
		}
	}
	return errs
}

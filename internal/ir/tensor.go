package ir

import "math"

// Segment marks a tensor as the chunk [Begin, End) of a larger logical tensor,
// addressed by element offset.
type Segment struct {
	Begin int64
	End   int64
}

// Tensor is an immutable dense numeric or string array.
type Tensor struct {
	name       string
	dims       []int64
	dataType   DataType
	segment    *Segment
	floatData  []float32
	int32Data  []int32
	stringData [][]byte
	int64Data  []int64
	doubleData []float64
	uint64Data []uint64
	rawData    []byte
	docString  string
	unknown    []byte
}

// Name returns the tensor name.
func (t *Tensor) Name() string { return t.name }

// Dims returns the logical shape.
func (t *Tensor) Dims() []int64 { return t.dims }

// DataType returns the element type.
func (t *Tensor) DataType() DataType { return t.dataType }

// Segment returns the chunk this tensor holds, if any.
func (t *Tensor) Segment() (Segment, bool) {
	if t.segment == nil {
		return Segment{}, false
	}
	return *t.segment, true
}

// DocString returns the documentation string.
func (t *Tensor) DocString() string { return t.docString }

// FloatData returns the float_data list.
func (t *Tensor) FloatData() []float32 { return t.floatData }

// Int32Data returns the int32_data list.
func (t *Tensor) Int32Data() []int32 { return t.int32Data }

// StringData returns the string_data list.
func (t *Tensor) StringData() [][]byte { return t.stringData }

// Int64Data returns the int64_data list.
func (t *Tensor) Int64Data() []int64 { return t.int64Data }

// DoubleData returns the double_data list.
func (t *Tensor) DoubleData() []float64 { return t.doubleData }

// Uint64Data returns the uint64_data list.
func (t *Tensor) Uint64Data() []uint64 { return t.uint64Data }

// RawData returns raw_data; nil when the typed encoding is used.
func (t *Tensor) RawData() []byte { return t.rawData }

// HasRawData reports whether the payload uses raw_data.
func (t *Tensor) HasRawData() bool { return t.rawData != nil }

// Unknown returns unrecognized wire fields retained for re-encoding.
func (t *Tensor) Unknown() []byte { return t.unknown }

// ElementCount returns the number of elements held by this tensor:
// the product of dims, or the segment length for a chunk.
// ok is false when the product overflows int64 or a dimension is negative.
func (t *Tensor) ElementCount() (n int64, ok bool) {
	if t.segment != nil {
		return t.segment.End - t.segment.Begin, true
	}
	return elementCount(t.dims)
}

// PayloadLen returns the number of stored elements in whichever payload slot is set.
func (t *Tensor) PayloadLen() int64 {
	per := int64(1)
	if t.dataType.IsComplex() {
		per = 2
	}
	switch {
	case t.rawData != nil:
		if size := t.dataType.Size(); size > 0 {
			return int64(len(t.rawData) / size)
		}
		return 0
	case len(t.floatData) > 0:
		return int64(len(t.floatData)) / per
	case len(t.int32Data) > 0:
		return int64(len(t.int32Data))
	case len(t.stringData) > 0:
		return int64(len(t.stringData))
	case len(t.int64Data) > 0:
		return int64(len(t.int64Data))
	case len(t.doubleData) > 0:
		return int64(len(t.doubleData)) / per
	case len(t.uint64Data) > 0:
		return int64(len(t.uint64Data))
	}
	return 0
}

func elementCount(dims []int64) (int64, bool) {
	n := int64(1)
	for _, d := range dims {
		if d < 0 {
			return 0, false
		}
		if d != 0 && n > math.MaxInt64/d {
			return 0, false
		}
		n *= d
	}
	return n, true
}

// ElementCount returns the product of dims; ok is false on overflow or a negative dimension.
func ElementCount(dims []int64) (n int64, ok bool) {
	return elementCount(dims)
}

// TensorBuilder accumulates the fields of a Tensor.
// Exactly one payload slot (a typed list or RawData) may be populated;
// typed lists count as populated when non-empty, RawData when non-nil.
type TensorBuilder struct {
	Name       string
	Dims       []int64
	DataType   DataType
	Segment    *Segment
	FloatData  []float32
	Int32Data  []int32
	StringData [][]byte
	Int64Data  []int64
	DoubleData []float64
	Uint64Data []uint64
	RawData    []byte
	DocString  string
	Unknown    []byte
}

// Build validates the accumulated fields and returns an immutable Tensor.
func (b *TensorBuilder) Build() (*Tensor, error) {
	t, errs := b.build("")
	if len(errs) > 0 {
		return nil, errs
	}
	return t, nil
}

func (b *TensorBuilder) path(parent string) string {
	if parent != "" {
		return parent
	}
	return Elem("", "tensor", b.Name)
}

//nolint:gocognit,gocyclo,cyclop // One check per payload rule.
func (b *TensorBuilder) build(path string) (*Tensor, ErrorList) {
	path = b.path(path)
	var errs ErrorList

	if b.DataType == DataTypeUndefined {
		errs.Add(Missing(path, "data_type"))
	} else if !b.DataType.IsValid() {
		errs.Add(Errorf(KindTypeIncompatible, path, "unknown data_type %d", int32(b.DataType)))
	}

	var set []typedList
	if len(b.FloatData) > 0 {
		set = append(set, listFloat)
	}
	if len(b.Int32Data) > 0 {
		set = append(set, listInt32)
	}
	if len(b.StringData) > 0 {
		set = append(set, listString)
	}
	if len(b.Int64Data) > 0 {
		set = append(set, listInt64)
	}
	if len(b.DoubleData) > 0 {
		set = append(set, listDouble)
	}
	if len(b.Uint64Data) > 0 {
		set = append(set, listUint64)
	}
	if b.RawData != nil {
		set = append(set, listNone)
	}

	if b.DataType == DataTypeString && b.RawData != nil {
		errs.Add(&Error{
			Kind:   KindUnsupportedRawDataForType,
			Path:   path,
			Name:   "raw_data",
			Detail: "STRING tensors must use string_data",
		})
	}

	if len(set) > 1 {
		names := make([]string, len(set))
		for i, l := range set {
			names[i] = l.String()
		}
		errs.Add(&Error{Kind: KindUnionViolation, Path: path, Names: names, Detail: "more than one payload slot populated"})
	}

	for _, d := range b.Dims {
		if d < 0 {
			errs.Add(Errorf(KindArityMismatch, path, "negative dimension %d", d))
			break
		}
	}
	if b.Segment != nil && (b.Segment.Begin < 0 || b.Segment.End < b.Segment.Begin) {
		errs.Add(Errorf(KindArityMismatch, path, "invalid segment [%d, %d)", b.Segment.Begin, b.Segment.End))
	}

	if len(errs) > 0 || !b.DataType.IsValid() {
		return nil, errs
	}

	if len(set) == 1 && set[0] != listNone && set[0] != typedListFor(b.DataType) {
		errs.Add(Errorf(KindTypeIncompatible, path, "%s cannot carry %s elements", set[0], b.DataType))
	}
	if b.RawData != nil && len(b.RawData)%b.DataType.Size() != 0 {
		errs.Add(Errorf(KindMalformedEncoding, path,
			"raw_data length %d is not a multiple of %s width %d", len(b.RawData), b.DataType, b.DataType.Size()))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	t := &Tensor{
		name:       b.Name,
		dims:       clone(b.Dims),
		dataType:   b.DataType,
		floatData:  clone(b.FloatData),
		int32Data:  clone(b.Int32Data),
		stringData: cloneBytesList(b.StringData),
		int64Data:  clone(b.Int64Data),
		doubleData: clone(b.DoubleData),
		uint64Data: clone(b.Uint64Data),
		rawData:    cloneBytes(b.RawData),
		docString:  b.DocString,
		unknown:    cloneBytes(b.Unknown),
	}
	if b.Segment != nil {
		seg := *b.Segment
		t.segment = &seg
	}

	want, ok := t.ElementCount()
	if !ok {
		errs.Add(Errorf(KindPayloadTooLarge, path, "element count of dims %v overflows", b.Dims))
		return nil, errs
	}
	if t.dataType.IsComplex() && len(t.floatData)%2+len(t.doubleData)%2 != 0 {
		errs.Add(Errorf(KindArityMismatch, path, "complex payload has an odd number of parts"))
		return nil, errs
	}
	if got := t.PayloadLen(); got != want {
		if len(set) == 0 {
			errs.Add(&Error{Kind: KindUnionViolation, Path: path, Detail: "no payload slot populated"})
		} else {
			errs.Add(Errorf(KindArityMismatch, path, "payload holds %d elements, shape requires %d", got, want))
		}
		return nil, errs
	}
	return t, nil
}

// Builder returns a builder initialized from t.
func (t *Tensor) Builder() *TensorBuilder {
	b := &TensorBuilder{
		Name:       t.name,
		Dims:       clone(t.dims),
		DataType:   t.dataType,
		FloatData:  clone(t.floatData),
		Int32Data:  clone(t.int32Data),
		StringData: cloneBytesList(t.stringData),
		Int64Data:  clone(t.int64Data),
		DoubleData: clone(t.doubleData),
		Uint64Data: clone(t.uint64Data),
		RawData:    cloneBytes(t.rawData),
		DocString:  t.docString,
		Unknown:    cloneBytes(t.unknown),
	}
	if t.segment != nil {
		seg := *t.segment
		b.Segment = &seg
	}
	return b
}

// gather returns a 1-D tensor holding the elements of t at idx, in order.
// The payload keeps its encoding (typed list or raw_data).
func (t *Tensor) gather(idx []int) *Tensor {
	out := &Tensor{
		name:      t.name,
		dims:      []int64{int64(len(idx))},
		dataType:  t.dataType,
		docString: t.docString,
		unknown:   t.unknown,
	}
	per := 1
	if t.dataType.IsComplex() {
		per = 2
	}
	switch {
	case t.rawData != nil:
		size := t.dataType.Size()
		out.rawData = make([]byte, 0, len(idx)*size)
		for _, i := range idx {
			out.rawData = append(out.rawData, t.rawData[i*size:(i+1)*size]...)
		}
	case len(t.floatData) > 0:
		out.floatData = gatherList(t.floatData, idx, per)
	case len(t.int32Data) > 0:
		out.int32Data = gatherList(t.int32Data, idx, 1)
	case len(t.stringData) > 0:
		out.stringData = gatherList(t.stringData, idx, 1)
	case len(t.int64Data) > 0:
		out.int64Data = gatherList(t.int64Data, idx, 1)
	case len(t.doubleData) > 0:
		out.doubleData = gatherList(t.doubleData, idx, per)
	case len(t.uint64Data) > 0:
		out.uint64Data = gatherList(t.uint64Data, idx, 1)
	}
	return out
}

func gatherList[T any](src []T, idx []int, per int) []T {
	if len(idx) == 0 {
		return nil
	}
	out := make([]T, 0, len(idx)*per)
	for _, i := range idx {
		out = append(out, src[i*per:(i+1)*per]...)
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// cloneBytesList copies a list of byte strings. Elements are never nil.
func cloneBytesList(list [][]byte) [][]byte {
	if len(list) == 0 {
		return nil
	}
	out := make([][]byte, len(list))
	for i, b := range list {
		out[i] = append([]byte{}, b...)
	}
	return out
}

// clone copies s, normalizing an empty slice to nil so built entities compare
// equal to their decoded form.
func clone[S ~[]E, E any](s S) S {
	if len(s) == 0 {
		return nil
	}
	return append(S(nil), s...)
}

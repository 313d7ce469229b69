package ir

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// Raw buffer layout: fixed-width little-endian elements, IEEE-754 for
// floating point, one byte per boolean, complex numbers as two consecutive
// real-typed values with the real part first.

func (t *Tensor) viewError(want string) error {
	return Errorf(KindTypeIncompatible, Elem("", "tensor", t.name), "%s tensor has no %s view", t.dataType, want)
}

// Float32s returns the elements of a FLOAT, FLOAT16 or BFLOAT16 tensor as float32.
func (t *Tensor) Float32s() ([]float32, error) {
	switch t.dataType {
	case DataTypeFloat:
		if t.rawData == nil {
			return t.floatData, nil
		}
		out := make([]float32, len(t.rawData)/4)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(t.rawData[i*4:]))
		}
		return out, nil
	case DataTypeFloat16, DataTypeBfloat16:
		bits := t.halfBits()
		out := make([]float32, len(bits))
		for i, h := range bits {
			if t.dataType == DataTypeFloat16 {
				out[i] = float16.Frombits(h).Float32()
			} else {
				out[i] = math.Float32frombits(uint32(h) << 16)
			}
		}
		return out, nil
	default:
		return nil, t.viewError("float32")
	}
}

// halfBits returns the 16-bit patterns of a FLOAT16/BFLOAT16 tensor.
// The typed encoding stores them in the low bits of int32_data.
func (t *Tensor) halfBits() []uint16 {
	if t.rawData != nil {
		out := make([]uint16, len(t.rawData)/2)
		for i := range out {
			out[i] = binary.LittleEndian.Uint16(t.rawData[i*2:])
		}
		return out
	}
	out := make([]uint16, len(t.int32Data))
	for i, v := range t.int32Data {
		out[i] = uint16(v) //nolint:gosec // G115: half floats occupy the low 16 bits.
	}
	return out
}

// Float64s returns the elements of a DOUBLE tensor.
func (t *Tensor) Float64s() ([]float64, error) {
	if t.dataType != DataTypeDouble {
		return nil, t.viewError("float64")
	}
	if t.rawData == nil {
		return t.doubleData, nil
	}
	out := make([]float64, len(t.rawData)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(t.rawData[i*8:]))
	}
	return out, nil
}

// Int64s returns the elements of an integral or BOOL tensor widened to int64.
// UINT64 values above math.MaxInt64 wrap; use Uint64s for those.
//
//nolint:gosec // G115: widening conversions follow the element type.
func (t *Tensor) Int64s() ([]int64, error) {
	if !t.dataType.IsIntegral() && t.dataType != DataTypeBool {
		return nil, t.viewError("int64")
	}
	if t.rawData == nil {
		switch typedListFor(t.dataType) {
		case listInt64:
			return t.int64Data, nil
		case listUint64:
			out := make([]int64, len(t.uint64Data))
			for i, v := range t.uint64Data {
				out[i] = int64(v)
			}
			return out, nil
		default:
			out := make([]int64, len(t.int32Data))
			for i, v := range t.int32Data {
				out[i] = int64(v)
			}
			return out, nil
		}
	}
	size := t.dataType.Size()
	out := make([]int64, len(t.rawData)/size)
	for i := range out {
		b := t.rawData[i*size:]
		switch t.dataType {
		case DataTypeInt8:
			out[i] = int64(int8(b[0]))
		case DataTypeUint8, DataTypeBool:
			out[i] = int64(b[0])
		case DataTypeInt16:
			out[i] = int64(int16(binary.LittleEndian.Uint16(b)))
		case DataTypeUint16:
			out[i] = int64(binary.LittleEndian.Uint16(b))
		case DataTypeInt32:
			out[i] = int64(int32(binary.LittleEndian.Uint32(b)))
		case DataTypeUint32:
			out[i] = int64(binary.LittleEndian.Uint32(b))
		default:
			out[i] = int64(binary.LittleEndian.Uint64(b))
		}
	}
	return out, nil
}

// Uint64s returns the elements of an unsigned integer tensor widened to uint64.
//
//nolint:gosec // G115: values are unsigned by element type.
func (t *Tensor) Uint64s() ([]uint64, error) {
	switch t.dataType {
	case DataTypeUint8, DataTypeUint16, DataTypeUint32, DataTypeUint64:
	default:
		return nil, t.viewError("uint64")
	}
	if t.rawData == nil && typedListFor(t.dataType) == listUint64 {
		return t.uint64Data, nil
	}
	vals, err := t.Int64s()
	if err != nil {
		return nil, err
	}
	out := make([]uint64, len(vals))
	for i, v := range vals {
		out[i] = uint64(v)
	}
	return out, nil
}

// Bools returns the elements of a BOOL tensor.
func (t *Tensor) Bools() ([]bool, error) {
	if t.dataType != DataTypeBool {
		return nil, t.viewError("bool")
	}
	vals, err := t.Int64s()
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(vals))
	for i, v := range vals {
		out[i] = v != 0
	}
	return out, nil
}

// Complex64s returns the elements of a COMPLEX64 tensor.
func (t *Tensor) Complex64s() ([]complex64, error) {
	if t.dataType != DataTypeComplex64 {
		return nil, t.viewError("complex64")
	}
	parts := t.floatData
	if t.rawData != nil {
		parts = make([]float32, len(t.rawData)/4)
		for i := range parts {
			parts[i] = math.Float32frombits(binary.LittleEndian.Uint32(t.rawData[i*4:]))
		}
	}
	out := make([]complex64, len(parts)/2)
	for i := range out {
		out[i] = complex(parts[2*i], parts[2*i+1])
	}
	return out, nil
}

// Complex128s returns the elements of a COMPLEX128 tensor.
func (t *Tensor) Complex128s() ([]complex128, error) {
	if t.dataType != DataTypeComplex128 {
		return nil, t.viewError("complex128")
	}
	parts := t.doubleData
	if t.rawData != nil {
		parts = make([]float64, len(t.rawData)/8)
		for i := range parts {
			parts[i] = math.Float64frombits(binary.LittleEndian.Uint64(t.rawData[i*8:]))
		}
	}
	out := make([]complex128, len(parts)/2)
	for i := range out {
		out[i] = complex(parts[2*i], parts[2*i+1])
	}
	return out, nil
}

// Strings returns the elements of a STRING tensor.
func (t *Tensor) Strings() ([][]byte, error) {
	if t.dataType != DataTypeString {
		return nil, t.viewError("string")
	}
	return t.stringData, nil
}

// RawFromFloat32s encodes FLOAT elements as raw_data.
func RawFromFloat32s(vals []float32) []byte {
	out := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

// RawFromFloat16s encodes float32 values as FLOAT16 raw_data.
func RawFromFloat16s(vals []float32) []byte {
	out := make([]byte, 0, len(vals)*2)
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint16(out, float16.Fromfloat32(v).Bits())
	}
	return out
}

// RawFromFloat64s encodes DOUBLE elements as raw_data.
func RawFromFloat64s(vals []float64) []byte {
	out := make([]byte, 0, len(vals)*8)
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint64(out, math.Float64bits(v))
	}
	return out
}

// RawFromInt64s encodes integral values as raw_data of element type dt,
// truncating each value to the width of dt.
//
//nolint:gosec // G115: truncation to the element width is the encoding.
func RawFromInt64s(dt DataType, vals []int64) ([]byte, error) {
	if !dt.IsIntegral() && dt != DataTypeBool {
		return nil, Errorf(KindTypeIncompatible, "", "%s is not an integral type", dt)
	}
	size := dt.Size()
	out := make([]byte, 0, len(vals)*size)
	for _, v := range vals {
		switch size {
		case 1:
			out = append(out, byte(v))
		case 2:
			out = binary.LittleEndian.AppendUint16(out, uint16(v))
		case 4:
			out = binary.LittleEndian.AppendUint32(out, uint32(v))
		default:
			out = binary.LittleEndian.AppendUint64(out, uint64(v))
		}
	}
	return out, nil
}

// RawFromBools encodes BOOL elements as raw_data, one byte each.
func RawFromBools(vals []bool) []byte {
	out := make([]byte, len(vals))
	for i, v := range vals {
		if v {
			out[i] = 1
		}
	}
	return out
}

// RawFromComplex64s encodes COMPLEX64 elements as raw_data.
func RawFromComplex64s(vals []complex64) []byte {
	out := make([]byte, 0, len(vals)*8)
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(real(v)))
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(imag(v)))
	}
	return out
}

// RawFromComplex128s encodes COMPLEX128 elements as raw_data.
func RawFromComplex128s(vals []complex128) []byte {
	out := make([]byte, 0, len(vals)*16)
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint64(out, math.Float64bits(real(v)))
		out = binary.LittleEndian.AppendUint64(out, math.Float64bits(imag(v)))
	}
	return out
}

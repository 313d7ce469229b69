package ir

import "fmt"

// IRVersion is the IR version this package writes by default.
const IRVersion = 1

// DataType is the element type of a tensor (TensorProto.DataType).
type DataType int32

// Element data types.
const (
	DataTypeUndefined  DataType = 0
	DataTypeFloat      DataType = 1  // float32
	DataTypeUint8      DataType = 2  // uint8
	DataTypeInt8       DataType = 3  // int8
	DataTypeUint16     DataType = 4  // uint16
	DataTypeInt16      DataType = 5  // int16
	DataTypeInt32      DataType = 6  // int32
	DataTypeInt64      DataType = 7  // int64
	DataTypeString     DataType = 8  // byte strings
	DataTypeBool       DataType = 9  // bool
	DataTypeFloat16    DataType = 10 // IEEE-754 half
	DataTypeDouble     DataType = 11 // float64
	DataTypeUint32     DataType = 12 // uint32
	DataTypeUint64     DataType = 13 // uint64
	DataTypeComplex64  DataType = 14 // two float32, real first
	DataTypeComplex128 DataType = 15 // two float64, real first
	DataTypeBfloat16   DataType = 16 // bfloat16
)

// IsValid reports whether dt is a known, defined data type.
func (dt DataType) IsValid() bool {
	return dt > DataTypeUndefined && dt <= DataTypeBfloat16
}

// Size returns the width in bytes of one element in raw_data.
// STRING and UNDEFINED have no fixed width and return 0.
func (dt DataType) Size() int {
	switch dt {
	case DataTypeUint8, DataTypeInt8, DataTypeBool:
		return 1
	case DataTypeUint16, DataTypeInt16, DataTypeFloat16, DataTypeBfloat16:
		return 2
	case DataTypeFloat, DataTypeInt32, DataTypeUint32:
		return 4
	case DataTypeInt64, DataTypeDouble, DataTypeUint64, DataTypeComplex64:
		return 8
	case DataTypeComplex128:
		return 16
	default:
		return 0
	}
}

// IsIntegral reports whether dt is a signed or unsigned integer type.
func (dt DataType) IsIntegral() bool {
	switch dt {
	case DataTypeUint8, DataTypeInt8, DataTypeUint16, DataTypeInt16,
		DataTypeInt32, DataTypeInt64, DataTypeUint32, DataTypeUint64:
		return true
	default:
		return false
	}
}

// IsComplex reports whether dt stores (real, imaginary) pairs.
func (dt DataType) IsComplex() bool {
	return dt == DataTypeComplex64 || dt == DataTypeComplex128
}

// String returns the schema name of the data type.
func (dt DataType) String() string {
	switch dt {
	case DataTypeUndefined:
		return "UNDEFINED"
	case DataTypeFloat:
		return "FLOAT"
	case DataTypeUint8:
		return "UINT8"
	case DataTypeInt8:
		return "INT8"
	case DataTypeUint16:
		return "UINT16"
	case DataTypeInt16:
		return "INT16"
	case DataTypeInt32:
		return "INT32"
	case DataTypeInt64:
		return "INT64"
	case DataTypeString:
		return "STRING"
	case DataTypeBool:
		return "BOOL"
	case DataTypeFloat16:
		return "FLOAT16"
	case DataTypeDouble:
		return "DOUBLE"
	case DataTypeUint32:
		return "UINT32"
	case DataTypeUint64:
		return "UINT64"
	case DataTypeComplex64:
		return "COMPLEX64"
	case DataTypeComplex128:
		return "COMPLEX128"
	case DataTypeBfloat16:
		return "BFLOAT16"
	default:
		return fmt.Sprintf("DataType(%d)", int32(dt))
	}
}

// typedList identifies the typed repeated field a tensor payload lives in.
type typedList int

const (
	listNone typedList = iota
	listFloat
	listInt32
	listString
	listInt64
	listDouble
	listUint64
)

func (l typedList) String() string {
	switch l {
	case listFloat:
		return "float_data"
	case listInt32:
		return "int32_data"
	case listString:
		return "string_data"
	case listInt64:
		return "int64_data"
	case listDouble:
		return "double_data"
	case listUint64:
		return "uint64_data"
	default:
		return "raw_data"
	}
}

// typedListFor returns the typed list that carries elements of dt.
func typedListFor(dt DataType) typedList {
	switch dt {
	case DataTypeFloat, DataTypeComplex64:
		return listFloat
	case DataTypeInt32, DataTypeInt16, DataTypeInt8, DataTypeUint16, DataTypeUint8,
		DataTypeBool, DataTypeFloat16, DataTypeBfloat16:
		return listInt32
	case DataTypeString:
		return listString
	case DataTypeInt64:
		return listInt64
	case DataTypeDouble, DataTypeComplex128:
		return listDouble
	case DataTypeUint32, DataTypeUint64:
		return listUint64
	default:
		return listNone
	}
}

// AttrKind identifies the populated slot of an Attribute (AttributeProto.AttributeType).
type AttrKind int32

// Attribute kinds.
const (
	AttrUndefined AttrKind = 0
	AttrFloat     AttrKind = 1
	AttrInt       AttrKind = 2
	AttrString    AttrKind = 3
	AttrTensor    AttrKind = 4
	AttrGraph     AttrKind = 5
	AttrFloats    AttrKind = 6
	AttrInts      AttrKind = 7
	AttrStrings   AttrKind = 8
	AttrTensors   AttrKind = 9
	AttrGraphs    AttrKind = 10
	AttrType      AttrKind = 13
	AttrTypes     AttrKind = 14
)

// String returns the schema name of the attribute kind.
func (k AttrKind) String() string {
	switch k {
	case AttrFloat:
		return "FLOAT"
	case AttrInt:
		return "INT"
	case AttrString:
		return "STRING"
	case AttrTensor:
		return "TENSOR"
	case AttrGraph:
		return "GRAPH"
	case AttrFloats:
		return "FLOATS"
	case AttrInts:
		return "INTS"
	case AttrStrings:
		return "STRINGS"
	case AttrTensors:
		return "TENSORS"
	case AttrGraphs:
		return "GRAPHS"
	case AttrType:
		return "TYPE"
	case AttrTypes:
		return "TYPES"
	case AttrUndefined:
		return "UNDEFINED"
	default:
		return fmt.Sprintf("AttrKind(%d)", int32(k))
	}
}

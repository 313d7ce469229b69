package ir

import internalir "github.com/born-ml/graphir/internal/ir"

// Data model. All entities are immutable; use the matching builder to
// create or derive one.
type (
	Model        = internalir.Model
	Graph        = internalir.Graph
	Node         = internalir.Node
	Attribute    = internalir.Attribute
	ValueInfo    = internalir.ValueInfo
	Type         = internalir.Type
	Dim          = internalir.Dim
	Tensor       = internalir.Tensor
	Segment      = internalir.Segment
	SparseTensor = internalir.SparseTensor
	Value        = internalir.Value
	MapValue     = internalir.MapValue
	MapKey       = internalir.MapKey
	FunctionDef  = internalir.FunctionDef
	OperatorDecl = internalir.OperatorDecl
	Signature    = internalir.Signature
	Param        = internalir.Param
	AttrDecl     = internalir.AttrDecl
	Library      = internalir.Library
	StringEntry  = internalir.StringEntry
	DataType     = internalir.DataType
	AttrKind     = internalir.AttrKind
	TypeKind     = internalir.TypeKind
	ValueKind    = internalir.ValueKind
)

// Builders.
type (
	ModelBuilder        = internalir.ModelBuilder
	GraphBuilder        = internalir.GraphBuilder
	NodeBuilder         = internalir.NodeBuilder
	AttributeBuilder    = internalir.AttributeBuilder
	ValueInfoBuilder    = internalir.ValueInfoBuilder
	TypeBuilder         = internalir.TypeBuilder
	TensorBuilder       = internalir.TensorBuilder
	SparseTensorBuilder = internalir.SparseTensorBuilder
	ValueBuilder        = internalir.ValueBuilder
	MapValueBuilder     = internalir.MapValueBuilder
	FunctionBuilder     = internalir.FunctionBuilder
	OperatorBuilder     = internalir.OperatorBuilder
	SignatureBuilder    = internalir.SignatureBuilder
	ParamBuilder        = internalir.ParamBuilder
	AttrDeclBuilder     = internalir.AttrDeclBuilder
	LibraryBuilder      = internalir.LibraryBuilder
)

// Element types.
const (
	DataTypeUndefined  = internalir.DataTypeUndefined
	DataTypeFloat      = internalir.DataTypeFloat
	DataTypeUint8      = internalir.DataTypeUint8
	DataTypeInt8       = internalir.DataTypeInt8
	DataTypeUint16     = internalir.DataTypeUint16
	DataTypeInt16      = internalir.DataTypeInt16
	DataTypeInt32      = internalir.DataTypeInt32
	DataTypeInt64      = internalir.DataTypeInt64
	DataTypeString     = internalir.DataTypeString
	DataTypeBool       = internalir.DataTypeBool
	DataTypeFloat16    = internalir.DataTypeFloat16
	DataTypeDouble     = internalir.DataTypeDouble
	DataTypeUint32     = internalir.DataTypeUint32
	DataTypeUint64     = internalir.DataTypeUint64
	DataTypeComplex64  = internalir.DataTypeComplex64
	DataTypeComplex128 = internalir.DataTypeComplex128
	DataTypeBfloat16   = internalir.DataTypeBfloat16
)

// Builder shorthands.
var (
	NewModel         = internalir.NewModel
	NewNode          = internalir.NewNode
	NewAttribute     = internalir.NewAttribute
	NewOperator      = internalir.NewOperator
	NewParam         = internalir.NewParam
	VariadicParam    = internalir.VariadicParam
	Input            = internalir.Input
	D                = internalir.D
	Sym              = internalir.Sym
	TensorOf         = internalir.TensorOf
	UnrankedTensorOf = internalir.UnrankedTensorOf
	SparseTensorOf   = internalir.SparseTensorOf
	HandleOf         = internalir.HandleOf
	TupleOf          = internalir.TupleOf
	SequenceOf       = internalir.SequenceOf
	MapOf            = internalir.MapOf
)

// Raw buffer encoders for TensorBuilder.RawData.
var (
	RawFromFloat32s    = internalir.RawFromFloat32s
	RawFromFloat16s    = internalir.RawFromFloat16s
	RawFromFloat64s    = internalir.RawFromFloat64s
	RawFromInt64s      = internalir.RawFromInt64s
	RawFromBools       = internalir.RawFromBools
	RawFromComplex64s  = internalir.RawFromComplex64s
	RawFromComplex128s = internalir.RawFromComplex128s
)

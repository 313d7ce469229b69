package ir

import internalir "github.com/born-ml/graphir/internal/ir"

// Error is a single defect: its kind, the path of the offending entity and
// the names involved.
type Error = internalir.Error

// ErrorList is a batch of defects. It unwraps to its members, so errors.Is
// and errors.As see through it.
type ErrorList = internalir.ErrorList

// Kind classifies an Error.
type Kind = internalir.Kind

// Namespace names the uniqueness scope of a DuplicateName or the lookup
// namespace of a reference error.
type Namespace = internalir.Namespace

// Error kinds.
const (
	KindMalformedEncoding         = internalir.KindMalformedEncoding
	KindMissingRequiredField      = internalir.KindMissingRequiredField
	KindUnionViolation            = internalir.KindUnionViolation
	KindDuplicateName             = internalir.KindDuplicateName
	KindCycleDetected             = internalir.KindCycleDetected
	KindImportCycle               = internalir.KindImportCycle
	KindAmbiguousReference        = internalir.KindAmbiguousReference
	KindUnresolvedReference       = internalir.KindUnresolvedReference
	KindArityMismatch             = internalir.KindArityMismatch
	KindTypeIncompatible          = internalir.KindTypeIncompatible
	KindUnsupportedRawDataForType = internalir.KindUnsupportedRawDataForType
	KindPayloadTooLarge           = internalir.KindPayloadTooLarge
)

// Sentinels matched by errors.Is, one per kind.
var (
	ErrMalformedEncoding         = internalir.ErrMalformedEncoding
	ErrMissingRequiredField      = internalir.ErrMissingRequiredField
	ErrUnionViolation            = internalir.ErrUnionViolation
	ErrDuplicateName             = internalir.ErrDuplicateName
	ErrCycleDetected             = internalir.ErrCycleDetected
	ErrImportCycle               = internalir.ErrImportCycle
	ErrAmbiguousReference        = internalir.ErrAmbiguousReference
	ErrUnresolvedReference       = internalir.ErrUnresolvedReference
	ErrArityMismatch             = internalir.ErrArityMismatch
	ErrTypeIncompatible          = internalir.ErrTypeIncompatible
	ErrUnsupportedRawDataForType = internalir.ErrUnsupportedRawDataForType
	ErrPayloadTooLarge           = internalir.ErrPayloadTooLarge
)

// AsList extracts the ErrorList from err. A single *Error becomes a list of one.
func AsList(err error) (ErrorList, bool) { return internalir.AsList(err) }

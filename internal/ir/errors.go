package ir

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an IR error.
type Kind int

// Error kinds.
const (
	KindMalformedEncoding Kind = iota + 1
	KindMissingRequiredField
	KindUnionViolation
	KindDuplicateName
	KindCycleDetected
	KindImportCycle
	KindAmbiguousReference
	KindUnresolvedReference
	KindArityMismatch
	KindTypeIncompatible
	KindUnsupportedRawDataForType
	KindPayloadTooLarge
)

// Sentinel errors, one per Kind. Every *Error unwraps to the sentinel of its kind.
var (
	ErrMalformedEncoding         = errors.New("malformed encoding")
	ErrMissingRequiredField      = errors.New("missing required field")
	ErrUnionViolation            = errors.New("union violation")
	ErrDuplicateName             = errors.New("duplicate name")
	ErrCycleDetected             = errors.New("cycle detected")
	ErrImportCycle               = errors.New("import cycle")
	ErrAmbiguousReference        = errors.New("ambiguous reference")
	ErrUnresolvedReference       = errors.New("unresolved reference")
	ErrArityMismatch             = errors.New("arity mismatch")
	ErrTypeIncompatible          = errors.New("type incompatible")
	ErrUnsupportedRawDataForType = errors.New("unsupported raw_data for type")
	ErrPayloadTooLarge           = errors.New("payload too large")
)

var kindSentinels = map[Kind]error{
	KindMalformedEncoding:         ErrMalformedEncoding,
	KindMissingRequiredField:      ErrMissingRequiredField,
	KindUnionViolation:            ErrUnionViolation,
	KindDuplicateName:             ErrDuplicateName,
	KindCycleDetected:             ErrCycleDetected,
	KindImportCycle:               ErrImportCycle,
	KindAmbiguousReference:        ErrAmbiguousReference,
	KindUnresolvedReference:       ErrUnresolvedReference,
	KindArityMismatch:             ErrArityMismatch,
	KindTypeIncompatible:          ErrTypeIncompatible,
	KindUnsupportedRawDataForType: ErrUnsupportedRawDataForType,
	KindPayloadTooLarge:           ErrPayloadTooLarge,
}

// Sentinel returns the sentinel error for the kind.
func (k Kind) Sentinel() error {
	return kindSentinels[k]
}

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindMalformedEncoding:
		return "MalformedEncoding"
	case KindMissingRequiredField:
		return "MissingRequiredField"
	case KindUnionViolation:
		return "UnionViolation"
	case KindDuplicateName:
		return "DuplicateName"
	case KindCycleDetected:
		return "CycleDetected"
	case KindImportCycle:
		return "ImportCycle"
	case KindAmbiguousReference:
		return "AmbiguousReference"
	case KindUnresolvedReference:
		return "UnresolvedReference"
	case KindArityMismatch:
		return "ArityMismatch"
	case KindTypeIncompatible:
		return "TypeIncompatible"
	case KindUnsupportedRawDataForType:
		return "UnsupportedRawDataForType"
	case KindPayloadTooLarge:
		return "PayloadTooLarge"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Namespace is a logical keyspace in which names must be unique at a given scope.
type Namespace int

// Namespaces.
const (
	NamespaceNone Namespace = iota
	NamespaceNode
	NamespaceGraph
	NamespaceOperatorOrFunction
	NamespaceAttribute
	NamespaceValue
	NamespaceShape
	NamespaceLibrary
)

// String returns the namespace name.
func (n Namespace) String() string {
	switch n {
	case NamespaceNode:
		return "Node"
	case NamespaceGraph:
		return "Graph"
	case NamespaceOperatorOrFunction:
		return "OperatorOrFunction"
	case NamespaceAttribute:
		return "Attribute"
	case NamespaceValue:
		return "Value"
	case NamespaceShape:
		return "Shape"
	case NamespaceLibrary:
		return "Library"
	default:
		return ""
	}
}

// Error is a structured IR error tagged with the name path of the offending entity.
type Error struct {
	Kind      Kind      // Error class
	Path      string    // Qualified name path, e.g. graph[main].node[A]
	Namespace Namespace // Namespace for DuplicateName
	Name      string    // Offending name (field, value, op_type, URI)
	Names     []string  // Cycle members or ambiguous candidates
	Detail    string    // Human readable details
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Namespace != NamespaceNone {
		fmt.Fprintf(&b, "{%s, %q}", e.Namespace, e.Name)
	} else if e.Name != "" {
		fmt.Fprintf(&b, " %q", e.Name)
	}
	if len(e.Names) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Names, ", "))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Unwrap returns the sentinel of the error kind.
func (e *Error) Unwrap() error {
	return e.Kind.Sentinel()
}

// Errorf creates an Error with a formatted detail.
func Errorf(kind Kind, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Detail: fmt.Sprintf(format, args...)}
}

// Missing creates a MissingRequiredField error for field.
func Missing(path, field string) *Error {
	return &Error{Kind: KindMissingRequiredField, Path: path, Name: field}
}

// Duplicate creates a DuplicateName error.
func Duplicate(path string, ns Namespace, name string) *Error {
	return &Error{Kind: KindDuplicateName, Path: path, Namespace: ns, Name: name}
}

// ErrorList is an ordered batch of errors collected in a single pass.
type ErrorList []*Error

// Add appends e to the list.
func (l *ErrorList) Add(e *Error) {
	*l = append(*l, e)
}

// Append appends every error of other.
func (l *ErrorList) Append(other ErrorList) {
	*l = append(*l, other...)
}

// Error implements the error interface.
func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d errors:\n  %s", len(l), strings.Join(msgs, "\n  "))
}

// Unwrap exposes the batch to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Err returns nil for an empty list and the list itself otherwise.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// ByKind returns the errors of the given kind.
func (l ErrorList) ByKind(kind Kind) []*Error {
	var out []*Error
	for _, e := range l {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// AsList extracts an ErrorList from err. A single *Error becomes a one-element list.
func AsList(err error) (ErrorList, bool) {
	var list ErrorList
	if errors.As(err, &list) {
		return list, true
	}
	var single *Error
	if errors.As(err, &single) {
		return ErrorList{single}, true
	}
	return nil, false
}

// Elem returns the path of a child element: parent.kind[name].
func Elem(parent, kind, name string) string {
	child := kind + "[" + name + "]"
	if parent == "" {
		return child
	}
	return parent + "." + child
}

// Index returns the path of an unnamed child element: parent.kind[#i].
func Index(parent, kind string, i int) string {
	return Elem(parent, kind, fmt.Sprintf("#%d", i))
}

// Field returns the path of a scalar field of parent.
func Field(parent, field string) string {
	if parent == "" {
		return field
	}
	return parent + "." + field
}

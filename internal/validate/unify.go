package validate

import (
	"fmt"
	"strconv"

	"github.com/born-ml/graphir/internal/ir"
)

// unifier reconciles two types under symbolic-dimension unification. A
// symbol binds to a concrete size or to another symbol. Symbols are scoped
// to the type that carries them, so N on the left and N on the right are
// distinct variables.
type unifier struct {
	parent map[string]string
}

func newUnifier() *unifier {
	return &unifier{parent: make(map[string]string)}
}

// Sides of a unification.
const (
	left  = "a"
	right = "b"
)

func dimTerm(side string, d ir.Dim) string {
	if d.IsSymbolic() {
		return "$" + side + ":" + d.Param
	}
	return strconv.FormatInt(d.Value, 10)
}

func isConcrete(term string) bool { return term[0] != '$' }

func (u *unifier) find(term string) string {
	for {
		p, ok := u.parent[term]
		if !ok {
			return term
		}
		term = p
	}
}

func (u *unifier) dims(a, b ir.Dim) error {
	ra, rb := u.find(dimTerm(left, a)), u.find(dimTerm(right, b))
	if ra == rb {
		return nil
	}
	switch {
	case isConcrete(ra) && isConcrete(rb):
		return fmt.Errorf("dimension %s (bound to %s) conflicts with %s (bound to %s)", a, ra, b, rb)
	case isConcrete(ra):
		u.parent[rb] = ra
	default:
		u.parent[ra] = rb
	}
	return nil
}

// types unifies a and b. A nil type carries no information and unifies with anything.
func (u *unifier) types(a, b *ir.Type) error {
	if a == nil || b == nil {
		return nil
	}
	if a.Kind() != b.Kind() {
		return fmt.Errorf("%s is not compatible with %s", a, b)
	}
	switch a.Kind() {
	case ir.TypeTensor, ir.TypeSparseTensor:
		if a.ElemType() != b.ElemType() {
			return fmt.Errorf("element type %s is not %s", a.ElemType(), b.ElemType())
		}
		da, ranked := a.Shape()
		db, rankedB := b.Shape()
		if !ranked || !rankedB {
			return nil
		}
		if len(da) != len(db) {
			return fmt.Errorf("rank %d is not %d", len(da), len(db))
		}
		for i := range da {
			if err := u.dims(da[i], db[i]); err != nil {
				return fmt.Errorf("dim %d: %w", i, err)
			}
		}
	case ir.TypeTuple:
		ea, eb := a.TupleElems(), b.TupleElems()
		if len(ea) != len(eb) {
			return fmt.Errorf("tuple of %d elements is not a tuple of %d", len(ea), len(eb))
		}
		for i := range ea {
			if err := u.types(ea[i], eb[i]); err != nil {
				return fmt.Errorf("tuple element %d: %w", i, err)
			}
		}
	case ir.TypeSequence:
		if err := u.types(a.SequenceElem(), b.SequenceElem()); err != nil {
			return fmt.Errorf("sequence element: %w", err)
		}
	case ir.TypeMap:
		ka, va := a.MapTypes()
		kb, vb := b.MapTypes()
		if ka != kb || va != vb {
			return fmt.Errorf("%s is not compatible with %s", a, b)
		}
	}
	return nil
}

// Unify reports whether two types are compatible: the same variant, equal
// element types, and shapes reconcilable under symbolic dimensions. Each
// type is its own Shape namespace; a symbol reused within one type must
// bind to the same size everywhere in it.
func Unify(a, b *ir.Type) error {
	return newUnifier().types(a, b)
}

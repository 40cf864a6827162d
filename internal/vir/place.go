package vir

import (
	"fmt"
	"strings"

	"github.com/verigo-lang/verigo/internal/position"
)

// A place is an expression denoting a storage location: a Local at the
// root, wrapped by any number of Variant, FieldAccess, AddrOf,
// LabelledOld, or Unfolding steps. LabelledOld and Unfolding are
// transparent wrappers: they recurse like access steps but have no parent,
// which makes them comparison roots for the prefix relation.
//
// The place-only operations below panic when applied to anything else; a
// non-place reaching them is an upstream construction defect.

// IsPlace reports whether e denotes a storage location.
func IsPlace(e Expr) bool {
	switch n := e.(type) {
	case *Local:
		return true
	case *Variant:
		return IsPlace(n.Base)
	case *FieldAccess:
		return IsPlace(n.Base)
	case *AddrOf:
		return IsPlace(n.Base)
	case *LabelledOld:
		return IsPlace(n.Base)
	case *Unfolding:
		return IsPlace(n.Body)
	default:
		return false
	}
}

// IsSimplePlace reports whether e is a chain of Variant and FieldAccess
// steps over a Local, with no transparent wrappers.
func IsSimplePlace(e Expr) bool {
	switch n := e.(type) {
	case *Local:
		return true
	case *Variant:
		return IsSimplePlace(n.Base)
	case *FieldAccess:
		return IsSimplePlace(n.Base)
	default:
		return false
	}
}

// IsLocal reports whether e is a bare local variable.
func IsLocal(e Expr) bool {
	_, ok := e.(*Local)
	return ok
}

// IsVariant reports whether e is an enum-arm access.
func IsVariant(e Expr) bool {
	_, ok := e.(*Variant)
	return ok
}

// IsAddrOf reports whether e is an address-of step.
func IsAddrOf(e Expr) bool {
	_, ok := e.(*AddrOf)
	return ok
}

// GetLabel returns the label of a labelled-old expression.
func GetLabel(e Expr) (string, bool) {
	if old, ok := e.(*LabelledOld); ok {
		return old.Label, true
	}
	return "", false
}

// IsOld reports whether e is frozen at a labelled program point.
func IsOld(e Expr) bool {
	_, ok := GetLabel(e)
	return ok
}

// IsCurr reports whether e refers to the current program point.
func IsCurr(e Expr) bool { return !IsOld(e) }

// PlaceDepth counts the access steps of a place, with a bare Local at
// depth one. Used for ordering places shallowest first.
func PlaceDepth(e Expr) int {
	switch n := e.(type) {
	case *Local:
		return 1
	case *Variant:
		return PlaceDepth(n.Base) + 1
	case *FieldAccess:
		return PlaceDepth(n.Base) + 1
	case *AddrOf:
		return PlaceDepth(n.Base) + 1
	case *LabelledOld:
		return PlaceDepth(n.Base) + 1
	case *Unfolding:
		return PlaceDepth(n.Body) + 1
	default:
		panic(fmt.Sprintf("PlaceDepth: %s is not a place", e))
	}
}

// Parent returns the place one access step up, or nil for a Local. The
// transparent wrappers have no parent, which makes them roots of the
// prefix relation.
func Parent(e Expr) Expr {
	assertPlace(e, "Parent")
	switch n := e.(type) {
	case *Local:
		return nil
	case *Variant:
		return n.Base
	case *FieldAccess:
		return n.Base
	case *AddrOf:
		return n.Base
	case *LabelledOld:
		return nil
	case *Unfolding:
		return nil
	default:
		panic(unexpectedExpr(e))
	}
}

// BaseVar returns the root variable of a place.
func BaseVar(e Expr) LocalVar {
	assertPlace(e, "BaseVar")
	switch n := e.(type) {
	case *Local:
		return n.Var
	case *LabelledOld:
		return BaseVar(n.Base)
	case *Unfolding:
		return BaseVar(n.Body)
	default:
		return BaseVar(Parent(e))
	}
}

// TypeOf returns the type of a place.
func TypeOf(e Expr) Type {
	assertPlace(e, "TypeOf")
	switch n := e.(type) {
	case *Local:
		return n.Var.Type
	case *Variant:
		return n.VariantField.Type
	case *FieldAccess:
		return n.Field.Type
	case *AddrOf:
		return n.Type
	case *LabelledOld:
		return TypeOf(n.Base)
	case *Unfolding:
		return TypeOf(n.Body)
	default:
		panic(unexpectedExpr(e))
	}
}

// TypedRefName returns the predicate name of a reference-typed place.
func TypedRefName(e Expr) (string, bool) {
	if typ := TypeOf(e); typ.IsRef() {
		return typ.RefName, true
	}
	return "", false
}

// LocalTypeName returns the predicate name of a reference-typed local
// variable expression and panics on anything else.
func LocalTypeName(e Expr) string {
	local, ok := e.(*Local)
	if !ok {
		panic(fmt.Sprintf("LocalTypeName: expected a local variable, got %s", e))
	}
	if !local.Var.Type.IsRef() {
		panic(fmt.Sprintf("LocalTypeName: %s has non-reference type %s", e, local.Var.Type))
	}
	return local.Var.Type.RefName
}

// HasPrefix reports whether repeatedly taking e's parent reaches other.
// The relation is reflexive.
func HasPrefix(e, other Expr) bool {
	assertPlace(e, "HasPrefix")
	assertPlace(other, "HasPrefix")
	if ExprEquals(e, other) {
		return true
	}
	parent := Parent(e)
	if parent == nil {
		return false
	}
	return HasPrefix(parent, other)
}

// HasProperPrefix is HasPrefix restricted to strictly shorter prefixes.
func HasProperPrefix(e, other Expr) bool {
	return !ExprEquals(e, other) && HasPrefix(e, other)
}

// AllProperPrefixes returns every proper prefix of e, shortest first.
func AllProperPrefixes(e Expr) []Expr {
	assertPlace(e, "AllProperPrefixes")
	parent := Parent(e)
	if parent == nil {
		return nil
	}
	return AllPrefixes(parent)
}

// AllPrefixes returns every prefix of e from the root Local to e itself,
// shortest first.
func AllPrefixes(e Expr) []Expr {
	assertPlace(e, "AllPrefixes")
	return append(AllProperPrefixes(e), e)
}

// PlaceComponent is one peeled access step of a place: a field access,
// or an enum-arm access when IsVariant is set.
type PlaceComponent struct {
	Field     Field
	IsVariant bool
	Pos       position.Position
}

// ExplodePlace peels the outer Variant and FieldAccess wrappers of a
// place into an ordered component sequence, outermost last, down to an
// irreducible base.
func ExplodePlace(e Expr) (Expr, []PlaceComponent) {
	switch n := e.(type) {
	case *Variant:
		base, components := ExplodePlace(n.Base)
		return base, append(components, PlaceComponent{
			Field:     n.VariantField,
			IsVariant: true,
			Pos:       n.Pos,
		})
	case *FieldAccess:
		base, components := ExplodePlace(n.Base)
		return base, append(components, PlaceComponent{Field: n.Field, Pos: n.Pos})
	default:
		return e, nil
	}
}

// ReconstructPlace is the exact inverse of ExplodePlace: it rewraps base
// in the components in their original order.
func ReconstructPlace(base Expr, components []PlaceComponent) Expr {
	result := base
	for _, c := range components {
		if c.IsVariant {
			result = &Variant{Base: result, VariantField: c.Field, Pos: c.Pos}
		} else {
			result = &FieldAccess{Base: result, Field: c.Field, Pos: c.Pos}
		}
	}
	return result
}

// mirRefPrefix marks predicate names that encode source-language
// references; TryDeref peels one such layer.
const mirRefPrefix = "ref$"

// IsMIRReference reports whether the place is a field access over a local
// whose predicate name encodes a source-language reference.
func IsMIRReference(e Expr) bool {
	assertPlace(e, "IsMIRReference")
	fa, ok := e.(*FieldAccess)
	if !ok {
		return false
	}
	local, ok := fa.Base.(*Local)
	if !ok {
		return false
	}
	// Detection relies on the engine's name encoding for reference types.
	return local.Var.Type.IsRef() && strings.HasPrefix(local.Var.Type.RefName, mirRefPrefix)
}

// TryDeref dereferences a reference-encoded place by descending into its
// val_ref field. The second result is false when the place's type does
// not encode a reference.
func TryDeref(e Expr) (Expr, bool) {
	name, ok := TypedRefName(e)
	if !ok || !strings.HasPrefix(name, mirRefPrefix) {
		return nil, false
	}
	field := NewField("val_ref", TypedRef(strings.TrimPrefix(name, mirRefPrefix)))
	return FieldOf(e, field), true
}

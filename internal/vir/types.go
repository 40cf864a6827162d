package vir

import (
	"fmt"
	"sort"
	"strings"
)

// TypeKind discriminates the closed set of IR types.
type TypeKind int

const (
	TypeInt TypeKind = iota
	TypeBool
	TypeRef
)

// Type is a value type or a reference to a named predicate. A reference
// carries the predicate name used by the verification engine; generic
// instantiations are encoded into that name, which is why Patch operates
// on the name textually.
type Type struct {
	Kind    TypeKind
	RefName string // predicate name, set only for TypeRef
}

// IntType returns the integer type.
func IntType() Type { return Type{Kind: TypeInt} }

// BoolType returns the boolean type.
func BoolType() Type { return Type{Kind: TypeBool} }

// TypedRef returns a reference type naming a predicate.
func TypedRef(name string) Type { return Type{Kind: TypeRef, RefName: name} }

// IsRef reports whether the type is a predicate reference.
func (t Type) IsRef() bool { return t.Kind == TypeRef }

// Name returns the engine-facing name of the type.
func (t Type) Name() string {
	switch t.Kind {
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeRef:
		return t.RefName
	default:
		panic(fmt.Sprintf("unexpected type kind %d", t.Kind))
	}
}

// Variant specializes a reference type to one enum arm by extending the
// predicate name with the variant index. Value types are returned
// unchanged.
func (t Type) Variant(index string) Type {
	if t.Kind != TypeRef {
		return t
	}
	return TypedRef(t.RefName + index)
}

// Patch substitutes encoded type-name fragments in a reference type
// according to substs. This is textual on purpose: the engine's predicate
// naming convention embeds generic instantiations into name fragments, so
// byte-level compatibility requires substring substitution rather than a
// structural one. Keys are applied in sorted order to keep the result
// deterministic.
func (t Type) Patch(substs map[string]string) Type {
	if t.Kind != TypeRef {
		return t
	}
	keys := make([]string, 0, len(substs))
	for k := range substs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	name := t.RefName
	for _, k := range keys {
		name = strings.ReplaceAll(name, k, substs[k])
	}
	return TypedRef(name)
}

// String returns a string representation of the type.
func (t Type) String() string {
	switch t.Kind {
	case TypeInt:
		return "Int"
	case TypeBool:
		return "Bool"
	case TypeRef:
		return fmt.Sprintf("Ref(%s)", t.RefName)
	default:
		panic(fmt.Sprintf("unexpected type kind %d", t.Kind))
	}
}

// LocalVar is a typed local variable. Identity is the (name, type) pair.
type LocalVar struct {
	Name string
	Type Type
}

// NewLocalVar creates a local variable.
func NewLocalVar(name string, typ Type) LocalVar {
	return LocalVar{Name: name, Type: typ}
}

// String returns the declaration form "name: type".
func (v LocalVar) String() string {
	return fmt.Sprintf("%s: %s", v.Name, v.Type)
}

// Field is a named member-access descriptor.
type Field struct {
	Name string
	Type Type
}

// NewField creates a field descriptor.
func NewField(name string, typ Type) Field {
	return Field{Name: name, Type: typ}
}

// TypedRefName returns the predicate name of the field's type, if the
// field is reference typed.
func (f Field) TypedRefName() (string, bool) {
	if f.Type.IsRef() {
		return f.Type.RefName, true
	}
	return "", false
}

// String returns the field name.
func (f Field) String() string { return f.Name }

// PermAmountKind discriminates permission amounts.
type PermAmountKind int

const (
	PermAmountNone PermAmountKind = iota
	PermAmountRead
	PermAmountWrite
	PermAmountFraction
)

// PermAmount is a fractional ownership amount on a predicate or field
// access. Specifications are restricted to the symbolic amounts none,
// read, and write; concrete fractions appear only in engine-internal
// positions.
type PermAmount struct {
	Kind PermAmountKind
	Num  int64 // set only for PermAmountFraction
	Den  int64 // set only for PermAmountFraction
}

// NoPerm returns the empty permission amount.
func NoPerm() PermAmount { return PermAmount{Kind: PermAmountNone} }

// ReadPerm returns the symbolic read amount.
func ReadPerm() PermAmount { return PermAmount{Kind: PermAmountRead} }

// WritePerm returns the full write amount.
func WritePerm() PermAmount { return PermAmount{Kind: PermAmountWrite} }

// FractionPerm returns a concrete fractional amount num/den.
func FractionPerm(num, den int64) PermAmount {
	if den <= 0 || num < 0 {
		panic(fmt.Sprintf("invalid permission fraction %d/%d", num, den))
	}
	return PermAmount{Kind: PermAmountFraction, Num: num, Den: den}
}

// IsValidForSpecs reports whether the amount may appear in a
// specification. Concrete fractions may not.
func (p PermAmount) IsValidForSpecs() bool {
	switch p.Kind {
	case PermAmountNone, PermAmountRead, PermAmountWrite:
		return true
	default:
		return false
	}
}

// Cmp orders permission amounts: none < read < fractions < write, with
// fractions compared numerically among themselves.
func (p PermAmount) Cmp(o PermAmount) int {
	if p.Kind == PermAmountFraction && o.Kind == PermAmountFraction {
		l, r := p.Num*o.Den, o.Num*p.Den
		switch {
		case l < r:
			return -1
		case l > r:
			return 1
		default:
			return 0
		}
	}
	rank := func(k PermAmountKind) int {
		switch k {
		case PermAmountNone:
			return 0
		case PermAmountRead:
			return 1
		case PermAmountFraction:
			return 2
		default:
			return 3
		}
	}
	switch l, r := rank(p.Kind), rank(o.Kind); {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

// String returns the engine-facing spelling of the amount.
func (p PermAmount) String() string {
	switch p.Kind {
	case PermAmountNone:
		return "none"
	case PermAmountRead:
		return "read"
	case PermAmountWrite:
		return "write"
	case PermAmountFraction:
		return fmt.Sprintf("%d/%d", p.Num, p.Den)
	default:
		panic(fmt.Sprintf("unexpected permission amount kind %d", p.Kind))
	}
}

// ConstKind discriminates constant values.
type ConstKind int

const (
	ConstBool ConstKind = iota
	ConstInt
	ConstBigInt
)

// Const is a literal value. Integers that do not fit in 64 bits are kept
// as decimal strings and passed through to the engine verbatim.
type Const struct {
	Kind   ConstKind
	Bool   bool
	Int    int64
	BigInt string
}

// String returns the literal's engine-facing spelling.
func (c Const) String() string {
	switch c.Kind {
	case ConstBool:
		if c.Bool {
			return "true"
		}
		return "false"
	case ConstInt:
		return fmt.Sprintf("%d", c.Int)
	case ConstBigInt:
		return c.BigInt
	default:
		panic(fmt.Sprintf("unexpected constant kind %d", c.Kind))
	}
}

// Borrow identifies the borrow a magic wand transfers resources for. The
// index is assigned by the fact harvester and is opaque to this package.
type Borrow int

// EnumVariantIndex names one arm of an enumeration predicate.
type EnumVariantIndex string

// MaybeEnumVariantIndex is an optional enum-arm tag; nil means the whole
// enumeration.
type MaybeEnumVariantIndex = *EnumVariantIndex

// Trigger is a quantifier instantiation hint: an ordered sequence of
// expressions opaque to most transformations.
type Trigger []Expr

// NewTrigger creates a trigger from its parts.
func NewTrigger(parts ...Expr) Trigger { return Trigger(parts) }

// ReplacePlace substitutes a place inside every part of the trigger.
func (t Trigger) ReplacePlace(target, replacement Expr) Trigger {
	out := make(Trigger, len(t))
	for i, part := range t {
		out[i] = ReplacePlace(part, target, replacement)
	}
	return out
}

// String renders the trigger in the engine's brace notation.
func (t Trigger) String() string {
	parts := make([]string, len(t))
	for i, part := range t {
		parts[i] = part.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

package vir

import (
	"fmt"

	"github.com/verigo-lang/verigo/internal/position"
)

// Constructors are total: they never fail on well-typed arguments and
// default the source tag to the unknown position unless stated otherwise.

// NewLocal creates a local-variable expression.
func NewLocal(v LocalVar) Expr {
	return &Local{Var: v, Pos: position.Unknown()}
}

// NewLocalAt creates a local-variable expression with a source tag.
func NewLocalAt(v LocalVar, pos position.Position) Expr {
	return &Local{Var: v, Pos: pos}
}

// VariantOf specializes a place to one enum arm. The receiver must be a
// place; the discriminator field and its type are derived from the
// receiver's type.
func VariantOf(base Expr, index string) Expr {
	assertPlace(base, "VariantOf")
	field := NewField("enum_"+index, TypeOf(base).Variant(index))
	return &Variant{Base: base, VariantField: field, Pos: position.Unknown()}
}

// FieldOf wraps a place in one field-access step.
func FieldOf(base Expr, field Field) Expr {
	return &FieldAccess{Base: base, Field: field, Pos: position.Unknown()}
}

// NewAddrOf wraps a place in an address-of step typed by the place's own
// reference type.
func NewAddrOf(base Expr) Expr {
	typ := TypedRef(TypeOf(base).Name())
	return &AddrOf{Base: base, Type: typ, Pos: position.Unknown()}
}

// LabelledOldOf unconditionally freezes an expression at the given label.
func LabelledOldOf(label string, body Expr) Expr {
	return &LabelledOld{Label: label, Base: body, Pos: position.Unknown()}
}

// Old freezes an expression at the given label. Local variables are
// already fixed and labelled-old expressions are left as they are, so the
// operation is idempotent and never nests labels.
func Old(e Expr, label string) Expr {
	switch e.(type) {
	case *Local, *LabelledOld:
		return e
	default:
		return LabelledOldOf(label, e)
	}
}

// BoolLit returns a boolean literal.
func BoolLit(v bool) Expr {
	return &ConstExpr{Value: Const{Kind: ConstBool, Bool: v}, Pos: position.Unknown()}
}

// TrueLit returns the literal true.
func TrueLit() Expr { return BoolLit(true) }

// FalseLit returns the literal false.
func FalseLit() Expr { return BoolLit(false) }

// IntLit returns an integer literal.
func IntLit(v int64) Expr {
	return &ConstExpr{Value: Const{Kind: ConstInt, Int: v}, Pos: position.Unknown()}
}

// BigIntLit returns an integer literal wider than 64 bits, given as its
// decimal spelling.
func BigIntLit(digits string) Expr {
	return &ConstExpr{Value: Const{Kind: ConstBigInt, BigInt: digits}, Pos: position.Unknown()}
}

// Not negates a boolean expression.
func Not(e Expr) Expr {
	return &UnaryOp{Kind: UnaryOpNot, Arg: e, Pos: position.Unknown()}
}

// Minus negates an integer expression.
func Minus(e Expr) Expr {
	return &UnaryOp{Kind: UnaryOpMinus, Arg: e, Pos: position.Unknown()}
}

func binOp(kind BinOpKind, left, right Expr) Expr {
	return &BinOp{Kind: kind, Left: left, Right: right, Pos: position.Unknown()}
}

// EqCmp compares two expressions for equality.
func EqCmp(left, right Expr) Expr { return binOp(BinOpEqCmp, left, right) }

// NeCmp compares two expressions for inequality.
func NeCmp(left, right Expr) Expr { return Not(EqCmp(left, right)) }

// GtCmp builds left > right.
func GtCmp(left, right Expr) Expr { return binOp(BinOpGtCmp, left, right) }

// GeCmp builds left >= right.
func GeCmp(left, right Expr) Expr { return binOp(BinOpGeCmp, left, right) }

// LtCmp builds left < right.
func LtCmp(left, right Expr) Expr { return binOp(BinOpLtCmp, left, right) }

// LeCmp builds left <= right.
func LeCmp(left, right Expr) Expr { return binOp(BinOpLeCmp, left, right) }

// Add builds left + right.
func Add(left, right Expr) Expr { return binOp(BinOpAdd, left, right) }

// Sub builds left - right.
func Sub(left, right Expr) Expr { return binOp(BinOpSub, left, right) }

// Mul builds left * right.
func Mul(left, right Expr) Expr { return binOp(BinOpMul, left, right) }

// Div builds left / right.
func Div(left, right Expr) Expr { return binOp(BinOpDiv, left, right) }

// Mod builds the engine's modulo, which is non-negative for a positive
// divisor.
func Mod(left, right Expr) Expr { return binOp(BinOpMod, left, right) }

// Rem encodes the source language's remainder, whose sign follows the
// dividend, on top of the engine's Euclidean-style Mod: if left >= 0 or
// left mod right == 0 the result is left mod right, otherwise it is
// (left mod right) - |right|.
func Rem(left, right Expr) Expr {
	absRight := ITE(GeCmp(right, IntLit(0)), right, Minus(right))
	return ITE(
		Or(GeCmp(left, IntLit(0)), EqCmp(Mod(left, right), IntLit(0))),
		Mod(left, right),
		Sub(Mod(left, right), absRight),
	)
}

// And conjoins two assertions.
func And(left, right Expr) Expr { return binOp(BinOpAnd, left, right) }

// Or disjoins two expressions.
func Or(left, right Expr) Expr { return binOp(BinOpOr, left, right) }

// Xor builds exclusive or as the negation of equality.
func Xor(left, right Expr) Expr { return Not(EqCmp(left, right)) }

// Implies builds the implication left ==> right.
func Implies(left, right Expr) Expr { return binOp(BinOpImplies, left, right) }

// ITE builds the conditional guard ? then : els.
func ITE(guard, then, els Expr) Expr {
	return &Cond{Guard: guard, Then: then, Else: els, Pos: position.Unknown()}
}

// NewForAll quantifies body over vars with the given triggers.
func NewForAll(vars []LocalVar, triggers []Trigger, body Expr) Expr {
	return &ForAll{Vars: vars, Triggers: triggers, Body: body, Pos: position.Unknown()}
}

// NewLet binds v to def while evaluating body.
func NewLet(v LocalVar, def, body Expr) Expr {
	return &LetExpr{Var: v, Def: def, Body: body, Pos: position.Unknown()}
}

// NewFuncApp applies a named pure function.
func NewFuncApp(name string, args []Expr, formalArgs []LocalVar, returnType Type, pos position.Position) Expr {
	return &FuncApp{Name: name, Args: args, FormalArgs: formalArgs, ReturnType: returnType, Pos: pos}
}

// NewMagicWand builds lhs --* rhs, optionally tied to a borrow.
func NewMagicWand(lhs, rhs Expr, borrow *Borrow) Expr {
	return &MagicWand{Left: lhs, Right: rhs, Borrow: borrow, Pos: position.Unknown()}
}

// NewUnfolding exchanges the named predicate instance for its fields while
// evaluating body.
func NewUnfolding(name string, args []Expr, body Expr, perm PermAmount, variant MaybeEnumVariantIndex) Expr {
	return &Unfolding{Name: name, Args: args, Body: body, Perm: perm, Variant: variant, Pos: position.Unknown()}
}

// WrapInUnfolding builds `unfolding T(arg) in body` where T is the
// predicate named by arg's type, at read amount.
func WrapInUnfolding(arg, body Expr) Expr {
	return &Unfolding{
		Name: TypeOf(arg).Name(),
		Args: []Expr{arg},
		Body: body,
		Perm: ReadPerm(),
		Pos:  body.GetPos(),
	}
}

// NewPredicateAccessPredicate asserts ownership of the named predicate
// instance. The node inherits the source tag of its argument.
func NewPredicateAccessPredicate(name string, arg Expr, perm PermAmount) Expr {
	return &PredicateAccessPredicate{Name: name, Arg: arg, Perm: perm, Pos: arg.GetPos()}
}

// PredPermission asserts ownership of the predicate instance named by the
// place's reference type. The second result is false when the place is
// not reference typed.
func PredPermission(place Expr, perm PermAmount) (Expr, bool) {
	name, ok := TypedRefName(place)
	if !ok {
		return nil, false
	}
	return NewPredicateAccessPredicate(name, place, perm), true
}

// AccPermission asserts ownership of a concrete field place.
func AccPermission(place Expr, perm PermAmount) Expr {
	return &FieldAccessPredicate{Receiver: place, Perm: perm, Pos: position.Unknown()}
}

// Conjoin joins a sequence of assertions with &&, right associated. An
// empty sequence conjoins to true.
func Conjoin(parts ...Expr) Expr {
	if len(parts) == 0 {
		return TrueLit()
	}
	return And(parts[0], Conjoin(parts[1:]...))
}

// Disjoin joins a sequence of expressions with ||, right associated. An
// empty sequence disjoins to false.
func Disjoin(parts ...Expr) Expr {
	if len(parts) == 0 {
		return FalseLit()
	}
	return Or(parts[0], Disjoin(parts[1:]...))
}

func assertPlace(e Expr, op string) {
	if !IsPlace(e) {
		panic(fmt.Sprintf("%s: %s is not a place", op, e))
	}
}

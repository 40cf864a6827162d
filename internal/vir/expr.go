// Package vir defines the intermediate representation for verification
// obligations: a separation-logic expression algebra over places,
// permission amounts, and predicate instances, together with the fold and
// walk traversal framework and the derived transformations built on it.
//
// Trees are strict: every node owns its children exclusively and is never
// mutated after construction. Every transformation returns a new tree.
// Structural equality and hashing ignore source positions throughout.
package vir

import (
	"fmt"
	"strings"

	"github.com/verigo-lang/verigo/internal/position"
)

// Expr is the closed set of IR expressions. Exactly the variant types in
// this file implement it; a dynamic type outside this set reaching a
// traversal is a programming error and panics.
type Expr interface {
	fmt.Stringer
	// GetPos returns the source tag of the node.
	GetPos() position.Position
	// WithPos returns a copy of the node carrying the given source tag.
	WithPos(position.Position) Expr

	exprNode()
}

// Local references a local variable.
type Local struct {
	Var LocalVar
	Pos position.Position
}

// Variant accesses the discriminated arm of an enumeration place.
type Variant struct {
	Base         Expr
	VariantField Field
	Pos          position.Position
}

// FieldAccess accesses a named field of a place.
type FieldAccess struct {
	Base  Expr
	Field Field
	Pos   position.Position
}

// AddrOf is the inverse of a value-reference field access.
type AddrOf struct {
	Base Expr
	Type Type
	Pos  position.Position
}

// LabelledOld freezes the value of an expression at a named program point.
type LabelledOld struct {
	Label string
	Base  Expr
	Pos   position.Position
}

// ConstExpr is a literal.
type ConstExpr struct {
	Value Const
	Pos   position.Position
}

// MagicWand is the resource-transferring implication: holding the left
// resource, the right resource can be produced. The optional borrow ties
// the wand to the borrow whose expiry packages it.
type MagicWand struct {
	Left   Expr
	Right  Expr
	Borrow *Borrow
	Pos    position.Position
}

// PredicateAccessPredicate asserts ownership of an abstract predicate
// instance.
type PredicateAccessPredicate struct {
	Name string
	Arg  Expr
	Perm PermAmount
	Pos  position.Position
}

// FieldAccessPredicate asserts ownership of a concrete field.
type FieldAccessPredicate struct {
	Receiver Expr
	Perm     PermAmount
	Pos      position.Position
}

// UnaryOp applies a unary operator.
type UnaryOp struct {
	Kind UnaryOpKind
	Arg  Expr
	Pos  position.Position
}

// BinOp applies a binary operator.
type BinOp struct {
	Kind  BinOpKind
	Left  Expr
	Right Expr
	Pos   position.Position
}

// Unfolding exchanges ownership of a predicate instance for ownership of
// its fields while evaluating the body.
type Unfolding struct {
	Name    string
	Args    []Expr
	Body    Expr
	Perm    PermAmount
	Variant MaybeEnumVariantIndex
	Pos     position.Position
}

// Cond is the conditional expression guard ? then : else.
type Cond struct {
	Guard Expr
	Then  Expr
	Else  Expr
	Pos   position.Position
}

// ForAll is a universal quantifier binding Vars in Body, with
// instantiation triggers.
type ForAll struct {
	Vars     []LocalVar
	Triggers []Trigger
	Body     Expr
	Pos      position.Position
}

// LetExpr binds Var to Def while evaluating Body.
type LetExpr struct {
	Var  LocalVar
	Def  Expr
	Body Expr
	Pos  position.Position
}

// FuncApp applies a named pure function. Formal arguments and the return
// type are carried for rendering and type patching; they do not take part
// in structural equality.
type FuncApp struct {
	Name       string
	Args       []Expr
	FormalArgs []LocalVar
	ReturnType Type
	Pos        position.Position
}

// UnaryOpKind discriminates unary operators.
type UnaryOpKind int

const (
	UnaryOpNot UnaryOpKind = iota
	UnaryOpMinus
)

// String returns the operator's engine-facing spelling.
func (k UnaryOpKind) String() string {
	switch k {
	case UnaryOpNot:
		return "!"
	case UnaryOpMinus:
		return "-"
	default:
		panic(fmt.Sprintf("unexpected unary operator %d", int(k)))
	}
}

// BinOpKind discriminates binary operators.
type BinOpKind int

const (
	BinOpEqCmp BinOpKind = iota
	BinOpGtCmp
	BinOpGeCmp
	BinOpLtCmp
	BinOpLeCmp
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpMod
	BinOpAnd
	BinOpOr
	BinOpImplies
)

// String returns the operator's engine-facing spelling. Division is
// spelled with a backslash because the engine reserves / for permission
// fractions.
func (k BinOpKind) String() string {
	switch k {
	case BinOpEqCmp:
		return "=="
	case BinOpGtCmp:
		return ">"
	case BinOpGeCmp:
		return ">="
	case BinOpLtCmp:
		return "<"
	case BinOpLeCmp:
		return "<="
	case BinOpAdd:
		return "+"
	case BinOpSub:
		return "-"
	case BinOpMul:
		return "*"
	case BinOpDiv:
		return "\\"
	case BinOpMod:
		return "%"
	case BinOpAnd:
		return "&&"
	case BinOpOr:
		return "||"
	case BinOpImplies:
		return "==>"
	default:
		panic(fmt.Sprintf("unexpected binary operator %d", int(k)))
	}
}

func (e *Local) exprNode()                    {}
func (e *Variant) exprNode()                  {}
func (e *FieldAccess) exprNode()              {}
func (e *AddrOf) exprNode()                   {}
func (e *LabelledOld) exprNode()              {}
func (e *ConstExpr) exprNode()                {}
func (e *MagicWand) exprNode()                {}
func (e *PredicateAccessPredicate) exprNode() {}
func (e *FieldAccessPredicate) exprNode()     {}
func (e *UnaryOp) exprNode()                  {}
func (e *BinOp) exprNode()                    {}
func (e *Unfolding) exprNode()                {}
func (e *Cond) exprNode()                     {}
func (e *ForAll) exprNode()                   {}
func (e *LetExpr) exprNode()                  {}
func (e *FuncApp) exprNode()                  {}

func (e *Local) GetPos() position.Position                    { return e.Pos }
func (e *Variant) GetPos() position.Position                  { return e.Pos }
func (e *FieldAccess) GetPos() position.Position              { return e.Pos }
func (e *AddrOf) GetPos() position.Position                   { return e.Pos }
func (e *LabelledOld) GetPos() position.Position              { return e.Pos }
func (e *ConstExpr) GetPos() position.Position                { return e.Pos }
func (e *MagicWand) GetPos() position.Position                { return e.Pos }
func (e *PredicateAccessPredicate) GetPos() position.Position { return e.Pos }
func (e *FieldAccessPredicate) GetPos() position.Position     { return e.Pos }
func (e *UnaryOp) GetPos() position.Position                  { return e.Pos }
func (e *BinOp) GetPos() position.Position                    { return e.Pos }
func (e *Unfolding) GetPos() position.Position                { return e.Pos }
func (e *Cond) GetPos() position.Position                     { return e.Pos }
func (e *ForAll) GetPos() position.Position                   { return e.Pos }
func (e *LetExpr) GetPos() position.Position                  { return e.Pos }
func (e *FuncApp) GetPos() position.Position                  { return e.Pos }

func (e *Local) WithPos(p position.Position) Expr       { c := *e; c.Pos = p; return &c }
func (e *Variant) WithPos(p position.Position) Expr     { c := *e; c.Pos = p; return &c }
func (e *FieldAccess) WithPos(p position.Position) Expr { c := *e; c.Pos = p; return &c }
func (e *AddrOf) WithPos(p position.Position) Expr      { c := *e; c.Pos = p; return &c }
func (e *LabelledOld) WithPos(p position.Position) Expr { c := *e; c.Pos = p; return &c }
func (e *ConstExpr) WithPos(p position.Position) Expr   { c := *e; c.Pos = p; return &c }
func (e *MagicWand) WithPos(p position.Position) Expr   { c := *e; c.Pos = p; return &c }
func (e *PredicateAccessPredicate) WithPos(p position.Position) Expr {
	c := *e
	c.Pos = p
	return &c
}
func (e *FieldAccessPredicate) WithPos(p position.Position) Expr {
	c := *e
	c.Pos = p
	return &c
}
func (e *UnaryOp) WithPos(p position.Position) Expr   { c := *e; c.Pos = p; return &c }
func (e *BinOp) WithPos(p position.Position) Expr     { c := *e; c.Pos = p; return &c }
func (e *Unfolding) WithPos(p position.Position) Expr { c := *e; c.Pos = p; return &c }
func (e *Cond) WithPos(p position.Position) Expr      { c := *e; c.Pos = p; return &c }
func (e *ForAll) WithPos(p position.Position) Expr    { c := *e; c.Pos = p; return &c }
func (e *LetExpr) WithPos(p position.Position) Expr   { c := *e; c.Pos = p; return &c }
func (e *FuncApp) WithPos(p position.Position) Expr   { c := *e; c.Pos = p; return &c }

func (e *Local) String() string { return e.Var.Name }

func (e *Variant) String() string {
	return fmt.Sprintf("%s[%s]", e.Base, e.VariantField)
}

func (e *FieldAccess) String() string {
	return fmt.Sprintf("%s.%s", e.Base, e.Field)
}

func (e *AddrOf) String() string {
	return fmt.Sprintf("&(%s)", e.Base)
}

func (e *LabelledOld) String() string {
	return fmt.Sprintf("old[%s](%s)", e.Label, e.Base)
}

func (e *ConstExpr) String() string { return e.Value.String() }

func (e *MagicWand) String() string {
	if e.Borrow != nil {
		return fmt.Sprintf("(%s) --*[%d] (%s)", e.Left, *e.Borrow, e.Right)
	}
	return fmt.Sprintf("(%s) --* (%s)", e.Left, e.Right)
}

func (e *PredicateAccessPredicate) String() string {
	return fmt.Sprintf("acc(%s(%s), %s)", e.Name, e.Arg, e.Perm)
}

func (e *FieldAccessPredicate) String() string {
	return fmt.Sprintf("acc(%s, %s)", e.Receiver, e.Perm)
}

func (e *UnaryOp) String() string {
	return fmt.Sprintf("%s(%s)", e.Kind, e.Arg)
}

func (e *BinOp) String() string {
	return fmt.Sprintf("(%s) %s (%s)", e.Left, e.Kind, e.Right)
}

func (e *Unfolding) String() string {
	name := e.Name
	if e.Variant != nil {
		name = fmt.Sprintf("%s:%s", name, *e.Variant)
	}
	return fmt.Sprintf("(unfolding acc(%s(%s), %s) in %s)",
		name, joinExprs(e.Args, ", "), e.Perm, e.Body)
}

func (e *Cond) String() string {
	return fmt.Sprintf("(%s)?(%s):(%s)", e.Guard, e.Then, e.Else)
}

func (e *ForAll) String() string {
	vars := make([]string, len(e.Vars))
	for i, v := range e.Vars {
		vars[i] = v.String()
	}
	triggers := make([]string, len(e.Triggers))
	for i, t := range e.Triggers {
		triggers[i] = t.String()
	}
	return fmt.Sprintf("forall %s :: %s :: %s",
		strings.Join(vars, ", "), strings.Join(triggers, ", "), e.Body)
}

func (e *LetExpr) String() string {
	return fmt.Sprintf("(let %s == (%s) in %s)", e.Var, e.Def, e.Body)
}

func (e *FuncApp) String() string {
	params := make([]string, len(e.FormalArgs))
	for i, p := range e.FormalArgs {
		params[i] = p.Type.String()
	}
	return fmt.Sprintf("%s<%s,%s>(%s)",
		e.Name, strings.Join(params, ", "), e.ReturnType, joinExprs(e.Args, ", "))
}

func joinExprs(exprs []Expr, sep string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}

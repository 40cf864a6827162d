package vir

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
)

// ExprEquals compares two expressions structurally, ignoring source
// positions on every node. Function applications compare by name and
// actual arguments only; formal arguments and return types are rendering
// metadata.
func ExprEquals(a, b Expr) bool {
	switch x := a.(type) {
	case *Local:
		y, ok := b.(*Local)
		return ok && x.Var == y.Var
	case *Variant:
		y, ok := b.(*Variant)
		return ok && x.VariantField == y.VariantField && ExprEquals(x.Base, y.Base)
	case *FieldAccess:
		y, ok := b.(*FieldAccess)
		return ok && x.Field == y.Field && ExprEquals(x.Base, y.Base)
	case *AddrOf:
		y, ok := b.(*AddrOf)
		return ok && x.Type == y.Type && ExprEquals(x.Base, y.Base)
	case *LabelledOld:
		y, ok := b.(*LabelledOld)
		return ok && x.Label == y.Label && ExprEquals(x.Base, y.Base)
	case *ConstExpr:
		y, ok := b.(*ConstExpr)
		return ok && x.Value == y.Value
	case *MagicWand:
		y, ok := b.(*MagicWand)
		return ok && borrowsEqual(x.Borrow, y.Borrow) &&
			ExprEquals(x.Left, y.Left) && ExprEquals(x.Right, y.Right)
	case *PredicateAccessPredicate:
		y, ok := b.(*PredicateAccessPredicate)
		return ok && x.Name == y.Name && x.Perm == y.Perm && ExprEquals(x.Arg, y.Arg)
	case *FieldAccessPredicate:
		y, ok := b.(*FieldAccessPredicate)
		return ok && x.Perm == y.Perm && ExprEquals(x.Receiver, y.Receiver)
	case *UnaryOp:
		y, ok := b.(*UnaryOp)
		return ok && x.Kind == y.Kind && ExprEquals(x.Arg, y.Arg)
	case *BinOp:
		y, ok := b.(*BinOp)
		return ok && x.Kind == y.Kind &&
			ExprEquals(x.Left, y.Left) && ExprEquals(x.Right, y.Right)
	case *Unfolding:
		y, ok := b.(*Unfolding)
		return ok && x.Name == y.Name && x.Perm == y.Perm &&
			variantsEqual(x.Variant, y.Variant) &&
			exprSlicesEqual(x.Args, y.Args) && ExprEquals(x.Body, y.Body)
	case *Cond:
		y, ok := b.(*Cond)
		return ok && ExprEquals(x.Guard, y.Guard) &&
			ExprEquals(x.Then, y.Then) && ExprEquals(x.Else, y.Else)
	case *ForAll:
		y, ok := b.(*ForAll)
		return ok && localVarsEqual(x.Vars, y.Vars) &&
			triggersEqual(x.Triggers, y.Triggers) && ExprEquals(x.Body, y.Body)
	case *LetExpr:
		y, ok := b.(*LetExpr)
		return ok && x.Var == y.Var &&
			ExprEquals(x.Def, y.Def) && ExprEquals(x.Body, y.Body)
	case *FuncApp:
		y, ok := b.(*FuncApp)
		return ok && x.Name == y.Name && exprSlicesEqual(x.Args, y.Args)
	default:
		panic(unexpectedExpr(a))
	}
}

// TriggerEquals compares two triggers part by part, ignoring positions.
func TriggerEquals(a, b Trigger) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ExprEquals(a[i], b[i]) {
			return false
		}
	}
	return true
}

func exprSlicesEqual(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ExprEquals(a[i], b[i]) {
			return false
		}
	}
	return true
}

func localVarsEqual(a, b []LocalVar) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func triggersEqual(a, b []Trigger) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !TriggerEquals(a[i], b[i]) {
			return false
		}
	}
	return true
}

func borrowsEqual(a, b *Borrow) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func variantsEqual(a, b MaybeEnumVariantIndex) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ExprHash hashes an expression consistently with ExprEquals: same
// discriminant and children, positions ignored.
func ExprHash(e Expr) uint64 {
	h := fnv.New64a()
	hashExpr(h, e)
	return h.Sum64()
}

const (
	tagLocal byte = iota
	tagVariant
	tagFieldAccess
	tagAddrOf
	tagLabelledOld
	tagConst
	tagMagicWand
	tagPredicateAccessPredicate
	tagFieldAccessPredicate
	tagUnaryOp
	tagBinOp
	tagUnfolding
	tagCond
	tagForAll
	tagLetExpr
	tagFuncApp
)

func hashExpr(h hash.Hash64, e Expr) {
	switch x := e.(type) {
	case *Local:
		hashByte(h, tagLocal)
		hashLocalVar(h, x.Var)
	case *Variant:
		hashByte(h, tagVariant)
		hashField(h, x.VariantField)
		hashExpr(h, x.Base)
	case *FieldAccess:
		hashByte(h, tagFieldAccess)
		hashField(h, x.Field)
		hashExpr(h, x.Base)
	case *AddrOf:
		hashByte(h, tagAddrOf)
		hashType(h, x.Type)
		hashExpr(h, x.Base)
	case *LabelledOld:
		hashByte(h, tagLabelledOld)
		hashString(h, x.Label)
		hashExpr(h, x.Base)
	case *ConstExpr:
		hashByte(h, tagConst)
		hashConst(h, x.Value)
	case *MagicWand:
		hashByte(h, tagMagicWand)
		if x.Borrow != nil {
			hashInt(h, int64(*x.Borrow))
		}
		hashExpr(h, x.Left)
		hashExpr(h, x.Right)
	case *PredicateAccessPredicate:
		hashByte(h, tagPredicateAccessPredicate)
		hashString(h, x.Name)
		hashPermAmount(h, x.Perm)
		hashExpr(h, x.Arg)
	case *FieldAccessPredicate:
		hashByte(h, tagFieldAccessPredicate)
		hashPermAmount(h, x.Perm)
		hashExpr(h, x.Receiver)
	case *UnaryOp:
		hashByte(h, tagUnaryOp)
		hashInt(h, int64(x.Kind))
		hashExpr(h, x.Arg)
	case *BinOp:
		hashByte(h, tagBinOp)
		hashInt(h, int64(x.Kind))
		hashExpr(h, x.Left)
		hashExpr(h, x.Right)
	case *Unfolding:
		hashByte(h, tagUnfolding)
		hashString(h, x.Name)
		hashPermAmount(h, x.Perm)
		if x.Variant != nil {
			hashString(h, string(*x.Variant))
		}
		for _, arg := range x.Args {
			hashExpr(h, arg)
		}
		hashExpr(h, x.Body)
	case *Cond:
		hashByte(h, tagCond)
		hashExpr(h, x.Guard)
		hashExpr(h, x.Then)
		hashExpr(h, x.Else)
	case *ForAll:
		hashByte(h, tagForAll)
		for _, v := range x.Vars {
			hashLocalVar(h, v)
		}
		for _, t := range x.Triggers {
			for _, part := range t {
				hashExpr(h, part)
			}
		}
		hashExpr(h, x.Body)
	case *LetExpr:
		hashByte(h, tagLetExpr)
		hashLocalVar(h, x.Var)
		hashExpr(h, x.Def)
		hashExpr(h, x.Body)
	case *FuncApp:
		hashByte(h, tagFuncApp)
		hashString(h, x.Name)
		for _, arg := range x.Args {
			hashExpr(h, arg)
		}
	default:
		panic(unexpectedExpr(e))
	}
}

func hashByte(h hash.Hash64, b byte) {
	h.Write([]byte{b})
}

func hashString(h hash.Hash64, s string) {
	hashInt(h, int64(len(s)))
	h.Write([]byte(s))
}

func hashInt(h hash.Hash64, v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	h.Write(buf[:])
}

func hashType(h hash.Hash64, t Type) {
	hashInt(h, int64(t.Kind))
	hashString(h, t.RefName)
}

func hashLocalVar(h hash.Hash64, v LocalVar) {
	hashString(h, v.Name)
	hashType(h, v.Type)
}

func hashField(h hash.Hash64, f Field) {
	hashString(h, f.Name)
	hashType(h, f.Type)
}

func hashConst(h hash.Hash64, c Const) {
	hashInt(h, int64(c.Kind))
	switch c.Kind {
	case ConstBool:
		if c.Bool {
			hashByte(h, 1)
		} else {
			hashByte(h, 0)
		}
	case ConstInt:
		hashInt(h, c.Int)
	case ConstBigInt:
		hashString(h, c.BigInt)
	}
}

func hashPermAmount(h hash.Hash64, p PermAmount) {
	hashInt(h, int64(p.Kind))
	hashInt(h, p.Num)
	hashInt(h, p.Den)
}

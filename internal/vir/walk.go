package vir

// Walker visits an expression read-only, in a single pass, recursing into
// children left to right. Each variant has a hook; overriding a hook
// without calling the default recursion prunes the traversal below that
// node. WalkLocalVar fires for variable occurrences and binders alike.
//
// A concrete walker embeds WalkerBase and points its Self field back at
// itself, mirroring the Folder protocol.
type Walker interface {
	Walk(Expr)

	WalkLocalVar(LocalVar)
	WalkLocal(*Local)
	WalkVariant(*Variant)
	WalkFieldAccess(*FieldAccess)
	WalkAddrOf(*AddrOf)
	WalkLabelledOld(*LabelledOld)
	WalkConst(*ConstExpr)
	WalkMagicWand(*MagicWand)
	WalkPredicateAccessPredicate(*PredicateAccessPredicate)
	WalkFieldAccessPredicate(*FieldAccessPredicate)
	WalkUnaryOp(*UnaryOp)
	WalkBinOp(*BinOp)
	WalkUnfolding(*Unfolding)
	WalkCond(*Cond)
	WalkForAll(*ForAll)
	WalkLetExpr(*LetExpr)
	WalkFuncApp(*FuncApp)
}

// DefaultWalkExpr dispatches e to the hook of w matching its variant.
func DefaultWalkExpr(w Walker, e Expr) {
	switch n := e.(type) {
	case *Local:
		w.WalkLocal(n)
	case *Variant:
		w.WalkVariant(n)
	case *FieldAccess:
		w.WalkFieldAccess(n)
	case *AddrOf:
		w.WalkAddrOf(n)
	case *LabelledOld:
		w.WalkLabelledOld(n)
	case *ConstExpr:
		w.WalkConst(n)
	case *MagicWand:
		w.WalkMagicWand(n)
	case *PredicateAccessPredicate:
		w.WalkPredicateAccessPredicate(n)
	case *FieldAccessPredicate:
		w.WalkFieldAccessPredicate(n)
	case *UnaryOp:
		w.WalkUnaryOp(n)
	case *BinOp:
		w.WalkBinOp(n)
	case *Unfolding:
		w.WalkUnfolding(n)
	case *Cond:
		w.WalkCond(n)
	case *ForAll:
		w.WalkForAll(n)
	case *LetExpr:
		w.WalkLetExpr(n)
	case *FuncApp:
		w.WalkFuncApp(n)
	default:
		panic(unexpectedExpr(e))
	}
}

// WalkerBase provides the default left-to-right recursion for every hook.
type WalkerBase struct {
	Self Walker
}

func (b *WalkerBase) Walk(e Expr) {
	DefaultWalkExpr(b.Self, e)
}

func (b *WalkerBase) WalkLocalVar(LocalVar) {}

func (b *WalkerBase) WalkLocal(e *Local) {
	b.Self.WalkLocalVar(e.Var)
}

func (b *WalkerBase) WalkVariant(e *Variant) {
	b.Self.Walk(e.Base)
}

func (b *WalkerBase) WalkFieldAccess(e *FieldAccess) {
	b.Self.Walk(e.Base)
}

func (b *WalkerBase) WalkAddrOf(e *AddrOf) {
	b.Self.Walk(e.Base)
}

func (b *WalkerBase) WalkLabelledOld(e *LabelledOld) {
	b.Self.Walk(e.Base)
}

func (b *WalkerBase) WalkConst(*ConstExpr) {}

func (b *WalkerBase) WalkMagicWand(e *MagicWand) {
	b.Self.Walk(e.Left)
	b.Self.Walk(e.Right)
}

func (b *WalkerBase) WalkPredicateAccessPredicate(e *PredicateAccessPredicate) {
	b.Self.Walk(e.Arg)
}

func (b *WalkerBase) WalkFieldAccessPredicate(e *FieldAccessPredicate) {
	b.Self.Walk(e.Receiver)
}

func (b *WalkerBase) WalkUnaryOp(e *UnaryOp) {
	b.Self.Walk(e.Arg)
}

func (b *WalkerBase) WalkBinOp(e *BinOp) {
	b.Self.Walk(e.Left)
	b.Self.Walk(e.Right)
}

func (b *WalkerBase) WalkUnfolding(e *Unfolding) {
	for _, arg := range e.Args {
		b.Self.Walk(arg)
	}
	b.Self.Walk(e.Body)
}

func (b *WalkerBase) WalkCond(e *Cond) {
	b.Self.Walk(e.Guard)
	b.Self.Walk(e.Then)
	b.Self.Walk(e.Else)
}

// WalkForAll visits the bound variables and the body; triggers are
// opaque to the default traversal.
func (b *WalkerBase) WalkForAll(e *ForAll) {
	for _, v := range e.Vars {
		b.Self.WalkLocalVar(v)
	}
	b.Self.Walk(e.Body)
}

func (b *WalkerBase) WalkLetExpr(e *LetExpr) {
	b.Self.WalkLocalVar(e.Var)
	b.Self.Walk(e.Def)
	b.Self.Walk(e.Body)
}

func (b *WalkerBase) WalkFuncApp(e *FuncApp) {
	for _, arg := range e.Args {
		b.Self.Walk(arg)
	}
	for _, formal := range e.FormalArgs {
		b.Self.WalkLocalVar(formal)
	}
}

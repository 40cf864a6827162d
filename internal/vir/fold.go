package vir

import "fmt"

// Folder rebuilds an expression bottom-up. Each variant has a hook that
// receives the original node and returns its replacement; the default
// hooks fold every child exactly once, left to right, and reconstruct the
// node. Overriding a hook without recursing substitutes the subtree
// outright.
//
// A concrete folder embeds FolderBase, points its Self field back at
// itself, and overrides only the hooks it needs, the same way visitor
// passes delegate through a base visitor.
type Folder interface {
	Fold(Expr) Expr

	FoldLocal(*Local) Expr
	FoldVariant(*Variant) Expr
	FoldFieldAccess(*FieldAccess) Expr
	FoldAddrOf(*AddrOf) Expr
	FoldLabelledOld(*LabelledOld) Expr
	FoldConst(*ConstExpr) Expr
	FoldMagicWand(*MagicWand) Expr
	FoldPredicateAccessPredicate(*PredicateAccessPredicate) Expr
	FoldFieldAccessPredicate(*FieldAccessPredicate) Expr
	FoldUnaryOp(*UnaryOp) Expr
	FoldBinOp(*BinOp) Expr
	FoldUnfolding(*Unfolding) Expr
	FoldCond(*Cond) Expr
	FoldForAll(*ForAll) Expr
	FoldLetExpr(*LetExpr) Expr
	FoldFuncApp(*FuncApp) Expr
}

// DefaultFoldExpr dispatches e to the hook of f matching its variant.
func DefaultFoldExpr(f Folder, e Expr) Expr {
	switch n := e.(type) {
	case *Local:
		return f.FoldLocal(n)
	case *Variant:
		return f.FoldVariant(n)
	case *FieldAccess:
		return f.FoldFieldAccess(n)
	case *AddrOf:
		return f.FoldAddrOf(n)
	case *LabelledOld:
		return f.FoldLabelledOld(n)
	case *ConstExpr:
		return f.FoldConst(n)
	case *MagicWand:
		return f.FoldMagicWand(n)
	case *PredicateAccessPredicate:
		return f.FoldPredicateAccessPredicate(n)
	case *FieldAccessPredicate:
		return f.FoldFieldAccessPredicate(n)
	case *UnaryOp:
		return f.FoldUnaryOp(n)
	case *BinOp:
		return f.FoldBinOp(n)
	case *Unfolding:
		return f.FoldUnfolding(n)
	case *Cond:
		return f.FoldCond(n)
	case *ForAll:
		return f.FoldForAll(n)
	case *LetExpr:
		return f.FoldLetExpr(n)
	case *FuncApp:
		return f.FoldFuncApp(n)
	default:
		panic(unexpectedExpr(e))
	}
}

// FolderBase provides the default bottom-up rebuild for every hook.
// Recursion goes through Self so that overridden hooks on the embedding
// folder take effect below every node.
type FolderBase struct {
	Self Folder
}

func (b *FolderBase) Fold(e Expr) Expr {
	return DefaultFoldExpr(b.Self, e)
}

func (b *FolderBase) FoldLocal(e *Local) Expr { return e }

func (b *FolderBase) FoldVariant(e *Variant) Expr {
	return &Variant{Base: b.Self.Fold(e.Base), VariantField: e.VariantField, Pos: e.Pos}
}

func (b *FolderBase) FoldFieldAccess(e *FieldAccess) Expr {
	return &FieldAccess{Base: b.Self.Fold(e.Base), Field: e.Field, Pos: e.Pos}
}

func (b *FolderBase) FoldAddrOf(e *AddrOf) Expr {
	return &AddrOf{Base: b.Self.Fold(e.Base), Type: e.Type, Pos: e.Pos}
}

func (b *FolderBase) FoldLabelledOld(e *LabelledOld) Expr {
	return &LabelledOld{Label: e.Label, Base: b.Self.Fold(e.Base), Pos: e.Pos}
}

func (b *FolderBase) FoldConst(e *ConstExpr) Expr { return e }

func (b *FolderBase) FoldMagicWand(e *MagicWand) Expr {
	return &MagicWand{
		Left:   b.Self.Fold(e.Left),
		Right:  b.Self.Fold(e.Right),
		Borrow: e.Borrow,
		Pos:    e.Pos,
	}
}

func (b *FolderBase) FoldPredicateAccessPredicate(e *PredicateAccessPredicate) Expr {
	return &PredicateAccessPredicate{
		Name: e.Name,
		Arg:  b.Self.Fold(e.Arg),
		Perm: e.Perm,
		Pos:  e.Pos,
	}
}

func (b *FolderBase) FoldFieldAccessPredicate(e *FieldAccessPredicate) Expr {
	return &FieldAccessPredicate{
		Receiver: b.Self.Fold(e.Receiver),
		Perm:     e.Perm,
		Pos:      e.Pos,
	}
}

func (b *FolderBase) FoldUnaryOp(e *UnaryOp) Expr {
	return &UnaryOp{Kind: e.Kind, Arg: b.Self.Fold(e.Arg), Pos: e.Pos}
}

func (b *FolderBase) FoldBinOp(e *BinOp) Expr {
	return &BinOp{
		Kind:  e.Kind,
		Left:  b.Self.Fold(e.Left),
		Right: b.Self.Fold(e.Right),
		Pos:   e.Pos,
	}
}

func (b *FolderBase) FoldUnfolding(e *Unfolding) Expr {
	args := make([]Expr, len(e.Args))
	for i, arg := range e.Args {
		args[i] = b.Self.Fold(arg)
	}
	return &Unfolding{
		Name:    e.Name,
		Args:    args,
		Body:    b.Self.Fold(e.Body),
		Perm:    e.Perm,
		Variant: e.Variant,
		Pos:     e.Pos,
	}
}

func (b *FolderBase) FoldCond(e *Cond) Expr {
	return &Cond{
		Guard: b.Self.Fold(e.Guard),
		Then:  b.Self.Fold(e.Then),
		Else:  b.Self.Fold(e.Else),
		Pos:   e.Pos,
	}
}

// FoldForAll folds the body only; bound variables and triggers pass
// through. Transforms that need to see triggers override this hook.
func (b *FolderBase) FoldForAll(e *ForAll) Expr {
	return &ForAll{Vars: e.Vars, Triggers: e.Triggers, Body: b.Self.Fold(e.Body), Pos: e.Pos}
}

func (b *FolderBase) FoldLetExpr(e *LetExpr) Expr {
	return &LetExpr{Var: e.Var, Def: b.Self.Fold(e.Def), Body: b.Self.Fold(e.Body), Pos: e.Pos}
}

// FoldFuncApp folds the actual arguments; formal arguments and the return
// type pass through.
func (b *FolderBase) FoldFuncApp(e *FuncApp) Expr {
	args := make([]Expr, len(e.Args))
	for i, arg := range e.Args {
		args[i] = b.Self.Fold(arg)
	}
	return &FuncApp{
		Name:       e.Name,
		Args:       args,
		FormalArgs: e.FormalArgs,
		ReturnType: e.ReturnType,
		Pos:        e.Pos,
	}
}

func unexpectedExpr(e Expr) string {
	return fmt.Sprintf("expression type %T is outside the closed variant set", e)
}

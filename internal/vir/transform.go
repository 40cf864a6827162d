package vir

import (
	"fmt"

	"github.com/verigo-lang/verigo/internal/position"
)

// The derived transformations are pure tree-to-tree functions: each one
// is a small Folder or Walker whose mutable context (current label,
// substitution flag) lives only for the duration of a single top-level
// invocation.

// Find reports whether an expression structurally equal to subTarget
// occurs anywhere in e.
func Find(e, subTarget Expr) bool {
	f := &exprFinder{subTarget: subTarget}
	f.Self = f
	f.Walk(e)
	return f.found
}

type exprFinder struct {
	WalkerBase
	subTarget Expr
	found     bool
}

func (f *exprFinder) Walk(e Expr) {
	if ExprEquals(e, f.subTarget) {
		f.found = true
		return
	}
	DefaultWalkExpr(f.Self, e)
}

// SetDefaultPos replaces the unknown positions in e with pos, leaving
// known positions alone.
func SetDefaultPos(e Expr, pos position.Position) Expr {
	return FoldExprs(e, func(e Expr) Expr {
		if !e.GetPos().IsKnown() {
			return e.WithPos(pos)
		}
		return e
	})
}

// FoldPlaces applies f to every outermost place sub-expression of e.
func FoldPlaces(e Expr, f func(Expr) Expr) Expr {
	p := &placeFolder{f: f}
	p.Self = p
	return p.Fold(e)
}

type placeFolder struct {
	FolderBase
	f func(Expr) Expr
}

func (p *placeFolder) Fold(e Expr) Expr {
	if IsPlace(e) {
		return p.f(e)
	}
	return DefaultFoldExpr(p.Self, e)
}

// FoldExprs rebuilds e bottom-up, applying f to every node after its
// children have been rebuilt.
func FoldExprs(e Expr, f func(Expr) Expr) Expr {
	x := &exprClosureFolder{f: f}
	x.Self = x
	return x.Fold(e)
}

type exprClosureFolder struct {
	FolderBase
	f func(Expr) Expr
}

func (x *exprClosureFolder) Fold(e Expr) Expr {
	return x.f(DefaultFoldExpr(x.Self, e))
}

// MapLabels rewrites every labelled-old label through f. Returning false
// from f unfreezes the expression to its wrapped body.
func MapLabels(e Expr, f func(string) (string, bool)) Expr {
	m := &oldLabelReplacer{f: f}
	m.Self = m
	return m.Fold(e)
}

type oldLabelReplacer struct {
	FolderBase
	f func(string) (string, bool)
}

func (m *oldLabelReplacer) FoldLabelledOld(e *LabelledOld) Expr {
	newLabel, ok := m.f(e.Label)
	if !ok {
		return e.Base
	}
	return Old(e.Base, newLabel).WithPos(e.Pos)
}

// ReplacePlace substitutes replacement for every place sub-expression of
// e structurally equal to target. A quantifier whose bound variables
// shadow target's root variable is left untouched. Substituting a place
// of a different type is an upstream defect and panics.
//
// When both target and replacement are reference-typed locals, a
// generic-name substitution is inferred from their two type names and
// applied to reference-typed field types folded immediately after a
// successful substitution. The trigger condition is deliberately this
// narrow: the inference patches the engine's encoded predicate names for
// fields desugared from a more-generic context and is not sound in
// general.
func ReplacePlace(e Expr, target, replacement Expr) Expr {
	assertPlace(target, "ReplacePlace")
	r := &placeReplacer{target: target, replacement: replacement}
	if tl, ok := target.(*Local); ok {
		if rl, ok := replacement.(*Local); ok && tl.Var.Type.IsRef() && rl.Var.Type.IsRef() {
			substs := LearnTyparamSubsts(tl.Var.Type.RefName, rl.Var.Type.RefName)
			r.typaramSubsts = &substs
		}
	}
	// The inferred substitution is the one sanctioned mismatch: a
	// more-generic local standing in for a concrete one. When the two
	// names share no generic fragments nothing is learned and the
	// exemption does not apply; every other typed-place mismatch is an
	// upstream defect.
	if (r.typaramSubsts == nil || r.typaramSubsts.IsEmpty()) &&
		IsPlace(replacement) && TypeOf(target) != TypeOf(replacement) {
		panic(fmt.Sprintf(
			"ReplacePlace: cannot substitute %s with %s: incompatible types %s and %s",
			target, replacement, TypeOf(target), TypeOf(replacement)))
	}
	r.Self = r
	return r.Fold(e)
}

type placeReplacer struct {
	FolderBase
	target        Expr
	replacement   Expr
	typaramSubsts *TyparamSubsts
	substituted   bool
}

func (r *placeReplacer) Fold(e Expr) Expr {
	if IsPlace(e) && ExprEquals(e, r.target) {
		r.substituted = true
		return r.replacement
	}
	folded := DefaultFoldExpr(r.Self, e)
	if fa, ok := folded.(*FieldAccess); ok {
		// The flag survives only across the field accesses built
		// directly on top of the substituted place.
		if r.typaramSubsts != nil && r.substituted && fa.Field.Type.IsRef() {
			patched := r.typaramSubsts.Apply(fa.Field.Type.RefName)
			return &FieldAccess{
				Base:  fa.Base,
				Field: NewField(fa.Field.Name, TypedRef(patched)),
				Pos:   fa.Pos,
			}
		}
		return folded
	}
	r.substituted = false
	return folded
}

func (r *placeReplacer) FoldForAll(e *ForAll) Expr {
	base := BaseVar(r.target)
	for _, v := range e.Vars {
		if v == base {
			// The binder shadows the target's root variable.
			return e
		}
	}
	triggers := make([]Trigger, len(e.Triggers))
	for i, t := range e.Triggers {
		triggers[i] = t.ReplacePlace(r.target, r.replacement)
	}
	return &ForAll{Vars: e.Vars, Triggers: triggers, Body: r.Self.Fold(e.Body), Pos: e.Pos}
}

// RemoveRedundantOld unwraps labelled-old expressions nested directly or
// transitively under an enclosing old with the same label, turning
// old[l](old[l](x.f).g) into old[l](x.f.g).
func RemoveRedundantOld(e Expr) Expr {
	r := &redundantOldRemover{}
	r.Self = r
	return r.Fold(e)
}

type redundantOldRemover struct {
	FolderBase
	currentLabel *string
}

func (r *redundantOldRemover) FoldLabelledOld(e *LabelledOld) Expr {
	enclosing := r.currentLabel
	label := e.Label
	r.currentLabel = &label
	newBase := DefaultFoldExpr(r.Self, e.Base)
	r.currentLabel = enclosing

	if enclosing != nil && *enclosing == label {
		return newBase
	}
	return Old(newBase, label).WithPos(e.Pos)
}

// FilterPermConjunction keeps only permission leaves and the && spines
// joining them, replacing every other node with true.
func FilterPermConjunction(e Expr) Expr {
	f := &permConjunctionFilter{}
	f.Self = f
	return f.Fold(e)
}

type permConjunctionFilter struct {
	FolderBase
}

func (f *permConjunctionFilter) Fold(e Expr) Expr {
	switch n := e.(type) {
	case *PredicateAccessPredicate, *FieldAccessPredicate:
		return n
	case *BinOp:
		if n.Kind == BinOpAnd {
			return f.FoldBinOp(n)
		}
		return TrueLit()
	default:
		return TrueLit()
	}
}

// PatchTypes substitutes encoded generic-name fragments throughout e:
// in local variable types, in function-application formal argument
// types, and in predicate names. Function return types stay unpatched
// since pure functions cannot return generic values.
func PatchTypes(e Expr, substs map[string]string) Expr {
	p := &typePatcher{substs: substs}
	p.Self = p
	return p.Fold(e)
}

type typePatcher struct {
	FolderBase
	substs map[string]string
}

func (p *typePatcher) FoldLocal(e *Local) Expr {
	v := e.Var
	v.Type = v.Type.Patch(p.substs)
	return &Local{Var: v, Pos: e.Pos}
}

func (p *typePatcher) FoldPredicateAccessPredicate(e *PredicateAccessPredicate) Expr {
	name := TypedRef(e.Name).Patch(p.substs).RefName
	return &PredicateAccessPredicate{
		Name: name,
		Arg:  p.Self.Fold(e.Arg),
		Perm: e.Perm,
		Pos:  e.Pos,
	}
}

func (p *typePatcher) FoldFuncApp(e *FuncApp) Expr {
	args := make([]Expr, len(e.Args))
	for i, arg := range e.Args {
		args[i] = p.Self.Fold(arg)
	}
	formals := make([]LocalVar, len(e.FormalArgs))
	for i, formal := range e.FormalArgs {
		formal.Type = formal.Type.Patch(p.substs)
		formals[i] = formal
	}
	return &FuncApp{
		Name:       e.Name,
		Args:       args,
		FormalArgs: formals,
		ReturnType: e.ReturnType,
		Pos:        e.Pos,
	}
}

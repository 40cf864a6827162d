package vir

import "fmt"

// IsOnlyPermissions recognizes a conjunction tree whose every leaf is a
// field or predicate access predicate.
func IsOnlyPermissions(e Expr) bool {
	switch n := e.(type) {
	case *PredicateAccessPredicate, *FieldAccessPredicate:
		return true
	case *BinOp:
		return n.Kind == BinOpAnd && IsOnlyPermissions(n.Left) && IsOnlyPermissions(n.Right)
	default:
		return false
	}
}

// GetPlace returns the place a permission node ranges over, or nil for
// any other node.
func GetPlace(e Expr) Expr {
	switch n := e.(type) {
	case *PredicateAccessPredicate:
		return n.Arg
	case *FieldAccessPredicate:
		return n.Receiver
	default:
		return nil
	}
}

// GetPermAmount returns the amount of a permission node and panics on
// anything else.
func GetPermAmount(e Expr) PermAmount {
	switch n := e.(type) {
	case *PredicateAccessPredicate:
		return n.Perm
	case *FieldAccessPredicate:
		return n.Perm
	default:
		panic(fmt.Sprintf("GetPermAmount: %s is not a permission node", e))
	}
}

// RemoveReadPermissions keeps write-amount permission nodes and rewrites
// read-amount ones to true. Any other amount reaching the transform is an
// upstream defect.
func RemoveReadPermissions(e Expr) Expr {
	r := &readPermRemover{}
	r.Self = r
	return r.Fold(e)
}

type readPermRemover struct {
	FolderBase
}

func (r *readPermRemover) FoldPredicateAccessPredicate(e *PredicateAccessPredicate) Expr {
	return removeReadPerm(e, e.Perm)
}

func (r *readPermRemover) FoldFieldAccessPredicate(e *FieldAccessPredicate) Expr {
	return removeReadPerm(e, e.Perm)
}

func removeReadPerm(e Expr, perm PermAmount) Expr {
	if !perm.IsValidForSpecs() {
		panic(fmt.Sprintf("RemoveReadPermissions: invalid specification amount %s in %s", perm, e))
	}
	switch perm.Kind {
	case PermAmountWrite:
		return e
	case PermAmountRead:
		return TrueLit()
	default:
		panic(fmt.Sprintf("RemoveReadPermissions: unexpected amount %s in %s", perm, e))
	}
}

// ComputeFootprint returns the minimal permission set needed to evaluate
// every place access in e: one field access predicate per Field or
// Variant step, at the requested amount, shallowest step first. Recursion
// stops at labelled-old boundaries since historical values need no
// permissions. The result materializes the resources a deferred-transfer
// package step must carry.
func ComputeFootprint(e Expr, perm PermAmount) []Expr {
	c := &footprintCollector{perm: perm}
	c.Self = c
	c.Walk(e)
	return c.perms
}

type footprintCollector struct {
	WalkerBase
	perm  PermAmount
	perms []Expr
}

func (c *footprintCollector) WalkVariant(e *Variant) {
	c.Self.Walk(e.Base)
	c.perms = append(c.perms, AccPermission(e, c.perm))
}

func (c *footprintCollector) WalkFieldAccess(e *FieldAccess) {
	c.Self.Walk(e.Base)
	c.perms = append(c.perms, AccPermission(e, c.perm))
}

func (c *footprintCollector) WalkLabelledOld(*LabelledOld) {
	// Stop recursion.
}

// ExtractPredicatePlaces collects the places of every predicate access
// predicate carrying the given amount.
func ExtractPredicatePlaces(e Expr, perm PermAmount) []Expr {
	f := &predicatePlaceFinder{perm: perm}
	f.Self = f
	f.Walk(e)
	return f.places
}

type predicatePlaceFinder struct {
	WalkerBase
	perm   PermAmount
	places []Expr
}

func (f *predicatePlaceFinder) WalkPredicateAccessPredicate(e *PredicateAccessPredicate) {
	if e.Perm == f.perm {
		f.places = append(f.places, e.Arg)
	}
}

// IsPure reports whether no permission node occurs anywhere in e.
func IsPure(e Expr) bool {
	f := &purityFinder{}
	f.Self = f
	f.Walk(e)
	return !f.nonPure
}

type purityFinder struct {
	WalkerBase
	nonPure bool
}

func (f *purityFinder) WalkPredicateAccessPredicate(*PredicateAccessPredicate) {
	f.nonPure = true
}

func (f *purityFinder) WalkFieldAccessPredicate(*FieldAccessPredicate) {
	f.nonPure = true
}

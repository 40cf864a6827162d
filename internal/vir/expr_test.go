package vir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verigo-lang/verigo/internal/position"
)

// refLocal builds a reference-typed local variable expression.
func refLocal(name, pred string) Expr {
	return NewLocal(NewLocalVar(name, TypedRef(pred)))
}

func TestExprString(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "T")
	xf := FieldOf(x, NewField("f", TypedRef("U")))
	v := NewLocalVar("i", IntType())

	tests := []struct {
		name     string
		expr     Expr
		expected string
	}{
		{"local", x, "x"},
		{"field access", xf, "x.f"},
		{"nested field access", FieldOf(xf, NewField("g", IntType())), "x.f.g"},
		{"variant", VariantOf(x, "$Some"), "x[enum_$Some]"},
		{"addr of", NewAddrOf(xf), "&(x.f)"},
		{"labelled old", Old(xf, "pre"), "old[pre](x.f)"},
		{"const true", TrueLit(), "true"},
		{"const int", IntLit(42), "42"},
		{"const big int", BigIntLit("123456789012345678901234567890"), "123456789012345678901234567890"},
		{"unary not", Not(TrueLit()), "!(true)"},
		{"unary minus", Minus(IntLit(1)), "-(1)"},
		{"eq", EqCmp(IntLit(1), IntLit(2)), "(1) == (2)"},
		{"implication", Implies(FalseLit(), TrueLit()), "(false) ==> (true)"},
		{"division uses backslash", Div(IntLit(4), IntLit(2)), "(4) \\ (2)"},
		{"modulo", Mod(IntLit(4), IntLit(2)), "(4) % (2)"},
		{"cond", ITE(TrueLit(), IntLit(1), IntLit(2)), "(true)?(1):(2)"},
		{
			"predicate access",
			NewPredicateAccessPredicate("T", x, WritePerm()),
			"acc(T(x), write)",
		},
		{
			"field access predicate",
			AccPermission(xf, ReadPerm()),
			"acc(x.f, read)",
		},
		{
			"magic wand",
			NewMagicWand(AccPermission(xf, WritePerm()), AccPermission(x, WritePerm()), nil),
			"(acc(x.f, write)) --* (acc(x, write))",
		},
		{
			"unfolding",
			NewUnfolding("T", []Expr{x}, FieldOf(x, NewField("f", IntType())), ReadPerm(), nil),
			"(unfolding acc(T(x), read) in x.f)",
		},
		{
			"forall",
			NewForAll(
				[]LocalVar{v},
				[]Trigger{NewTrigger(NewLocal(v))},
				GeCmp(NewLocal(v), IntLit(0)),
			),
			"forall i: Int :: {i} :: (i) >= (0)",
		},
		{
			"let",
			NewLet(v, IntLit(5), Add(NewLocal(v), IntLit(1))),
			"(let i: Int == (5) in (i) + (1))",
		},
		{
			"func app",
			NewFuncApp("len", []Expr{x}, []LocalVar{NewLocalVar("self", TypedRef("T"))},
				IntType(), position.Unknown()),
			"len<Ref(T),Int>(x)",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.expr.String())
		})
	}
}

func TestOldIsIdempotent(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "T")
	xf := FieldOf(x, NewField("f", TypedRef("U")))

	// Locals are already fixed.
	assert.True(t, ExprEquals(x, Old(x, "pre")))

	once := Old(xf, "pre")
	twice := Old(once, "pre")
	assert.True(t, ExprEquals(once, twice))
	// Even a different label does not nest.
	assert.True(t, ExprEquals(once, Old(once, "post")))
}

func TestPositionIndependence(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "T")
	exprs := []Expr{
		x,
		FieldOf(x, NewField("f", TypedRef("U"))),
		And(AccPermission(x, WritePerm()), TrueLit()),
		NewForAll(
			[]LocalVar{NewLocalVar("i", IntType())},
			nil,
			TrueLit(),
		),
	}
	pos := position.New(3, 14, 7)

	for _, e := range exprs {
		moved := e.WithPos(pos)
		assert.True(t, ExprEquals(e, moved), "%s", e)
		assert.Equal(t, ExprHash(e), ExprHash(moved), "%s", e)
	}
}

func TestWithPosLeavesOriginalUntouched(t *testing.T) {
	t.Parallel()

	e := FieldOf(refLocal("x", "T"), NewField("f", IntType()))
	require.Equal(t, position.Unknown(), e.GetPos())

	pos := position.New(1, 2, 3)
	moved := e.WithPos(pos)
	assert.Equal(t, pos, moved.GetPos())
	assert.Equal(t, position.Unknown(), e.GetPos())
}

func TestExprEqualsDistinguishesVariants(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "T")
	y := refLocal("y", "T")

	assert.False(t, ExprEquals(x, y))
	assert.False(t, ExprEquals(x, TrueLit()))
	assert.False(t, ExprEquals(And(x, y), Or(x, y)))
	assert.False(t, ExprEquals(
		AccPermission(x, ReadPerm()),
		AccPermission(x, WritePerm()),
	))
}

func TestFuncAppEqualityIgnoresFormals(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "T")
	a := NewFuncApp("len", []Expr{x},
		[]LocalVar{NewLocalVar("self", TypedRef("T"))}, IntType(), position.Unknown())
	b := NewFuncApp("len", []Expr{x},
		[]LocalVar{NewLocalVar("other", TypedRef("S"))}, BoolType(), position.New(9, 9, 9))

	assert.True(t, ExprEquals(a, b))
	assert.Equal(t, ExprHash(a), ExprHash(b))
}

func TestExprHashDiffers(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "T")
	y := refLocal("y", "T")

	// Not a guarantee in general, but these trivial trees must not collide.
	assert.NotEqual(t, ExprHash(x), ExprHash(y))
	assert.NotEqual(t, ExprHash(And(x, y)), ExprHash(Or(x, y)))
}

func TestConjoinDisjoin(t *testing.T) {
	t.Parallel()

	a := GtCmp(IntLit(1), IntLit(0))
	b := LtCmp(IntLit(0), IntLit(1))

	assert.Equal(t, "true", Conjoin().String())
	assert.Equal(t, "false", Disjoin().String())
	assert.Equal(t, "((1) > (0)) && (true)", Conjoin(a).String())
	assert.Equal(t, "((1) > (0)) && (((0) < (1)) && (true))", Conjoin(a, b).String())
	assert.Equal(t, "((1) > (0)) || (((0) < (1)) || (false))", Disjoin(a, b).String())
}

// evalInt evaluates closed integer/boolean expressions, with the engine's
// Euclidean modulo. Only the shapes produced by the arithmetic
// constructors are supported.
func evalInt(t *testing.T, e Expr) int64 {
	t.Helper()
	switch n := e.(type) {
	case *ConstExpr:
		require.Equal(t, ConstInt, n.Value.Kind)
		return n.Value.Int
	case *UnaryOp:
		require.Equal(t, UnaryOpMinus, n.Kind)
		return -evalInt(t, n.Arg)
	case *BinOp:
		l, r := evalInt(t, n.Left), evalInt(t, n.Right)
		switch n.Kind {
		case BinOpAdd:
			return l + r
		case BinOpSub:
			return l - r
		case BinOpMul:
			return l * r
		case BinOpMod:
			m := l % r
			if m < 0 {
				if r > 0 {
					m += r
				} else {
					m -= r
				}
			}
			return m
		default:
			t.Fatalf("unsupported integer operator %s", n.Kind)
			return 0
		}
	case *Cond:
		if evalBool(t, n.Guard) {
			return evalInt(t, n.Then)
		}
		return evalInt(t, n.Else)
	default:
		t.Fatalf("unsupported integer expression %s", e)
		return 0
	}
}

func evalBool(t *testing.T, e Expr) bool {
	t.Helper()
	switch n := e.(type) {
	case *ConstExpr:
		require.Equal(t, ConstBool, n.Value.Kind)
		return n.Value.Bool
	case *UnaryOp:
		require.Equal(t, UnaryOpNot, n.Kind)
		return !evalBool(t, n.Arg)
	case *BinOp:
		switch n.Kind {
		case BinOpAnd:
			return evalBool(t, n.Left) && evalBool(t, n.Right)
		case BinOpOr:
			return evalBool(t, n.Left) || evalBool(t, n.Right)
		case BinOpEqCmp:
			return evalInt(t, n.Left) == evalInt(t, n.Right)
		case BinOpGeCmp:
			return evalInt(t, n.Left) >= evalInt(t, n.Right)
		case BinOpGtCmp:
			return evalInt(t, n.Left) > evalInt(t, n.Right)
		case BinOpLeCmp:
			return evalInt(t, n.Left) <= evalInt(t, n.Right)
		case BinOpLtCmp:
			return evalInt(t, n.Left) < evalInt(t, n.Right)
		default:
			t.Fatalf("unsupported boolean operator %s", n.Kind)
			return false
		}
	default:
		t.Fatalf("unsupported boolean expression %s", e)
		return false
	}
}

func TestRemFollowsDividendSign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		left, right int64
		expected    int64
	}{
		{-7, 3, -1},
		{7, 3, 1},
		{7, -3, 1},
		{0, 5, 0},
		{-6, 3, 0},
		{-7, -3, -1},
	}

	for _, tt := range tests {
		got := evalInt(t, Rem(IntLit(tt.left), IntLit(tt.right)))
		assert.Equal(t, tt.expected, got, "rem(%d, %d)", tt.left, tt.right)
	}
}

package vir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsOnlyPermissions(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "T")
	xf := FieldOf(x, NewField("f", TypedRef("U")))
	accX := NewPredicateAccessPredicate("T", x, WritePerm())
	accXF := AccPermission(xf, ReadPerm())

	assert.True(t, IsOnlyPermissions(accX))
	assert.True(t, IsOnlyPermissions(accXF))
	assert.True(t, IsOnlyPermissions(And(accX, accXF)))
	assert.True(t, IsOnlyPermissions(And(And(accX, accXF), accX)))
	assert.False(t, IsOnlyPermissions(TrueLit()))
	assert.False(t, IsOnlyPermissions(And(accX, TrueLit())))
	assert.False(t, IsOnlyPermissions(Or(accX, accXF)))
}

func TestRemoveReadPermissions(t *testing.T) {
	t.Parallel()

	// acc(P(x), write) && acc(x.f, read)  ==>  acc(P(x), write) && true
	x := refLocal("x", "P")
	xf := FieldOf(x, NewField("f", IntType()))
	input := And(
		NewPredicateAccessPredicate("P", x, WritePerm()),
		AccPermission(xf, ReadPerm()),
	)

	got := RemoveReadPermissions(input)
	assert.Equal(t, "(acc(P(x), write)) && (true)", got.String())
}

func TestRemoveReadPermissionsRejectsFractions(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "P")
	input := AccPermission(x, FractionPerm(1, 2))
	assert.Panics(t, func() { RemoveReadPermissions(input) })
}

func TestComputeFootprint(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "T")
	xf := FieldOf(x, NewField("f", TypedRef("U")))
	xfg := FieldOf(xf, NewField("g", IntType()))

	perms := ComputeFootprint(xfg, WritePerm())
	require.Len(t, perms, 2)
	// Shallow-first order.
	assert.Equal(t, "acc(x.f, write)", perms[0].String())
	assert.Equal(t, "acc(x.f.g, write)", perms[1].String())
}

func TestComputeFootprintStopsAtOld(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "T")
	xf := FieldOf(x, NewField("f", TypedRef("U")))

	assert.Empty(t, ComputeFootprint(Old(xf, "l"), WritePerm()))

	// Only the access steps outside the old contribute.
	outer := FieldOf(Old(xf, "l"), NewField("g", IntType()))
	perms := ComputeFootprint(outer, ReadPerm())
	require.Len(t, perms, 1)
	assert.Equal(t, "acc(old[l](x.f).g, read)", perms[0].String())
}

func TestComputeFootprintCoversVariants(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "Opt")
	place := FieldOf(VariantOf(x, "$Some"), NewField("value", IntType()))

	perms := ComputeFootprint(place, WritePerm())
	require.Len(t, perms, 2)
	assert.Equal(t, "acc(x[enum_$Some], write)", perms[0].String())
	assert.Equal(t, "acc(x[enum_$Some].value, write)", perms[1].String())
}

func TestComputeFootprintWalksWholeExpressions(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "T")
	y := refLocal("y", "T")
	xf := FieldOf(x, NewField("f", IntType()))
	yg := FieldOf(y, NewField("g", IntType()))

	perms := ComputeFootprint(EqCmp(xf, yg), ReadPerm())
	require.Len(t, perms, 2)
	assert.Equal(t, "acc(x.f, read)", perms[0].String())
	assert.Equal(t, "acc(y.g, read)", perms[1].String())
}

func TestIsPure(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "T")
	xf := FieldOf(x, NewField("f", IntType()))

	tests := []struct {
		name string
		expr Expr
		pure bool
	}{
		{"constant", TrueLit(), true},
		{"place", xf, true},
		{"arithmetic", Add(xf, IntLit(1)), true},
		{"field permission", AccPermission(xf, ReadPerm()), false},
		{"predicate permission", NewPredicateAccessPredicate("T", x, WritePerm()), false},
		{"permission under conjunction", And(TrueLit(), AccPermission(xf, ReadPerm())), false},
		{
			"permission under quantifier",
			NewForAll(
				[]LocalVar{NewLocalVar("i", IntType())},
				nil,
				AccPermission(xf, ReadPerm()),
			),
			false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.pure, IsPure(tt.expr))
		})
	}
}

func TestExtractPredicatePlaces(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "P")
	y := refLocal("y", "Q")
	input := And(
		NewPredicateAccessPredicate("P", x, WritePerm()),
		And(
			NewPredicateAccessPredicate("Q", y, ReadPerm()),
			AccPermission(FieldOf(x, NewField("f", IntType())), WritePerm()),
		),
	)

	writes := ExtractPredicatePlaces(input, WritePerm())
	require.Len(t, writes, 1)
	assert.True(t, ExprEquals(writes[0], x))

	reads := ExtractPredicatePlaces(input, ReadPerm())
	require.Len(t, reads, 1)
	assert.True(t, ExprEquals(reads[0], y))
}

func TestGetPlaceAndAmount(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "P")
	acc := NewPredicateAccessPredicate("P", x, WritePerm())

	assert.True(t, ExprEquals(GetPlace(acc), x))
	assert.Nil(t, GetPlace(TrueLit()))
	assert.Equal(t, WritePerm(), GetPermAmount(acc))
	assert.Panics(t, func() { GetPermAmount(TrueLit()) })
}

func TestPredPermission(t *testing.T) {
	t.Parallel()

	x := refLocal("x", "P")
	acc, ok := PredPermission(x, ReadPerm())
	require.True(t, ok)
	assert.Equal(t, "acc(P(x), read)", acc.String())

	i := NewLocal(NewLocalVar("i", IntType()))
	_, ok = PredPermission(i, ReadPerm())
	assert.False(t, ok)
}

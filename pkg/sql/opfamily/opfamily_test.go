// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opfamily

import (
	"math"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/btreescan/pkg/sql/sem/tree"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

func TestStrategyCommute(t *testing.T) {
	testCases := []struct {
		s, expected Strategy
	}{
		{LT, GT},
		{LE, GE},
		{EQ, EQ},
		{GE, LE},
		{GT, LT},
		{InvalidStrategy, InvalidStrategy},
	}
	for _, tc := range testCases {
		t.Run(tc.s.String(), func(t *testing.T) {
			require.Equal(t, tc.expected, tc.s.Commute())
			require.Equal(t, tc.s, tc.s.Commute().Commute())
		})
	}
	require.False(t, InvalidStrategy.IsValid())
	require.False(t, NumStrategies.IsValid())
	require.Equal(t, "invalid", Strategy(-3).String())
}

func TestIntegerOpsCrossType(t *testing.T) {
	for _, l := range []types.T{types.Int2, types.Int4, types.Int8} {
		for _, r := range []types.T{types.Int2, types.Int4, types.Int8} {
			lt, ok := IntegerOps.Operator(LT, l, r)
			require.True(t, ok, "%s < %s", l, r)
			require.True(t, lt.Eval(tree.NewIntOfType(l, 3), tree.NewIntOfType(r, 4)))
			require.False(t, lt.Eval(tree.NewIntOfType(l, 4), tree.NewIntOfType(r, 4)))

			proc, ok := IntegerOps.OrderProc(l, r)
			require.True(t, ok)
			require.Equal(t, 0, proc.Compare(tree.NewIntOfType(l, 7), tree.NewIntOfType(r, 7)))
			require.Negative(t, proc.Compare(tree.NewIntOfType(l, -7), tree.NewIntOfType(r, 7)))
		}
	}
	_, ok := IntegerOps.Operator(EQ, types.Int4, types.String)
	require.False(t, ok)
	_, ok = IntegerOps.Operator(InvalidStrategy, types.Int4, types.Int4)
	require.False(t, ok)
}

func TestNumericComparisons(t *testing.T) {
	d := &tree.DDecimal{}
	_, _, err := d.SetString("2.5")
	require.NoError(t, err)

	ge, ok := FloatOps.Operator(GE, types.Float8, types.Decimal)
	require.True(t, ok)
	require.True(t, ge.Eval(tree.NewDFloat(2.5), d))
	require.False(t, ge.Eval(tree.NewDFloat(2.4), d))

	_, ok = NumericOps.Operator(EQ, types.Decimal, types.Float8)
	require.False(t, ok)

	proc, ok := NumericOps.OrderProc(types.Decimal, types.Decimal)
	require.True(t, ok)
	other := &tree.DDecimal{Decimal: *apd.New(25, -1)}
	require.Equal(t, 0, proc.Compare(d, other))
}

func TestDatetimeComparisons(t *testing.T) {
	date, err := tree.ParseDDate("2024-03-01")
	require.NoError(t, err)
	midnight, err := tree.ParseDTimestamp("2024-03-01 00:00:00")
	require.NoError(t, err)
	later, err := tree.ParseDTimestamp("2024-03-01 00:00:01")
	require.NoError(t, err)

	eq, ok := DatetimeOps.Operator(EQ, types.Date, types.Timestamp)
	require.True(t, ok)
	require.True(t, eq.Eval(date, midnight))
	require.False(t, eq.Eval(date, later))

	lt, ok := DatetimeOps.Operator(LT, types.Timestamp, types.Date)
	require.True(t, ok)
	require.False(t, lt.Eval(later, date))
}

func TestSkipSupport(t *testing.T) {
	s, ok := IntegerOps.SkipSupport(types.Int2, false /* reverse */)
	require.True(t, ok)
	next, ok := s.Increment(tree.NewDInt2(4))
	require.True(t, ok)
	require.Equal(t, "5", next.String())
	_, ok = s.Increment(tree.NewDInt2(math.MaxInt16))
	require.False(t, ok)
	_, ok = s.Decrement(tree.NewDInt2(math.MinInt16))
	require.False(t, ok)

	rev, ok := IntegerOps.SkipSupport(types.Int2, true /* reverse */)
	require.True(t, ok)
	next, ok = rev.Increment(tree.NewDInt2(4))
	require.True(t, ok)
	require.Equal(t, "3", next.String())
	require.Equal(t, "32767", rev.Low.String())

	b, ok := BoolOps.SkipSupport(types.Bool, false /* reverse */)
	require.True(t, ok)
	next, ok = b.Increment(tree.DBoolFalse)
	require.True(t, ok)
	require.Equal(t, tree.DBoolTrue, next)
	_, ok = b.Increment(tree.DBoolTrue)
	require.False(t, ok)

	_, ok = TextOps.SkipSupport(types.String, false /* reverse */)
	require.False(t, ok)
	_, ok = DatetimeOps.SkipSupport(types.Timestamp, false /* reverse */)
	require.False(t, ok)
}

func TestRestrict(t *testing.T) {
	f := Restrict(IntegerOps).WithoutCrossType()
	_, ok := f.Operator(GT, types.Int4, types.Int8)
	require.False(t, ok)
	_, ok = f.Operator(GT, types.Int8, types.Int8)
	require.True(t, ok)
	_, ok = f.OrderProc(types.Int4, types.Int8)
	require.False(t, ok)

	f = Restrict(IntegerOps).WithoutOperator(LE, types.Int4, types.Int4).WithoutSkipSupport()
	_, ok = f.Operator(LE, types.Int4, types.Int4)
	require.False(t, ok)
	_, ok = f.Operator(LT, types.Int4, types.Int4)
	require.True(t, ok)
	_, ok = f.SkipSupport(types.Int4, false /* reverse */)
	require.False(t, ok)
	require.Equal(t, []types.T{types.Int2, types.Int4, types.Int8}, Members(f))

	f = Restrict(TextOps).WithoutOrderProc(types.String, types.String)
	_, ok = f.OrderProc(types.String, types.String)
	require.False(t, ok)
	require.Equal(t, "text_ops (restricted)", f.Name())
}

func TestResolverCompare(t *testing.T) {
	r := MakeResolver(IntegerOps, types.Int4)
	op, ok := r.Operator(LT, types.Unknown, types.Unknown)
	require.True(t, ok)
	require.Equal(t, types.Int4, op.Left)

	three, four := tree.NewDInt4(3), tree.NewDInt(4)
	require.Equal(t, True, r.Compare(LT, op, three, types.Unknown, four, types.Int8))
	require.Equal(t, False, r.Compare(GT, op, three, types.Unknown, four, types.Int8))

	r = MakeResolver(Restrict(IntegerOps).WithoutCrossType(), types.Int4)
	require.Equal(t, Indeterminate, r.Compare(LT, op, three, types.Unknown, four, types.Int8))
	require.Equal(t, True, r.Compare(LT, op, three, types.Unknown, tree.NewDInt4(4), types.Unknown))
}

func TestFamilyByName(t *testing.T) {
	for _, f := range builtins {
		got, ok := FamilyByName(f.Name())
		require.True(t, ok)
		require.Equal(t, f, got)
	}
	_, ok := FamilyByName("jsonb_ops")
	require.False(t, ok)
	for _, typ := range types.Scalar {
		f := DefaultFamily(typ)
		_, ok := f.OrderProc(typ, typ)
		require.True(t, ok, "%s", typ)
	}
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import (
	"testing"

	"github.com/cockroachdb/btreescan/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

func TestAllTypesParseNull(t *testing.T) {
	for _, typ := range types.Scalar {
		d, err := ParseStringAs(typ, " NULL ")
		require.NoError(t, err, "%s", typ)
		require.Equal(t, DNull, d, "%s", typ)
	}
	_, err := ParseStringAs(types.Unknown, "1")
	require.Error(t, err)
}

func TestParseStringAs(t *testing.T) {
	testCases := []struct {
		typ      types.T
		s        string
		expected string
	}{
		{types.Bool, "TRUE", "true"},
		{types.Int2, "-32768", "-32768"},
		{types.Int4, "42", "42"},
		{types.Int8, "9223372036854775807", "9223372036854775807"},
		{types.Float8, "1.5", "1.5"},
		{types.Decimal, "1.50", "1.50"},
		{types.String, "'it''s'", "'it''s'"},
		{types.String, "plain", "'plain'"},
		{types.Date, "'2024-01-01'", "'2024-01-01'"},
		{types.Timestamp, "2024-01-01", "'2024-01-01 00:00:00'"},
		{types.Timestamp, "'2024-01-01 12:30:00.5'", "'2024-01-01 12:30:00.5'"},
	}
	for _, tc := range testCases {
		d, err := ParseStringAs(tc.typ, tc.s)
		require.NoError(t, err, "%s %s", tc.typ, tc.s)
		require.Equal(t, tc.typ, d.ResolvedType())
		require.Equal(t, tc.expected, d.String())
	}
}

func TestParseStringAsErrors(t *testing.T) {
	testCases := []struct {
		typ types.T
		s   string
		err string
	}{
		{types.Int2, "32768", `could not parse "32768" as type int2`},
		{types.Int4, "x", `could not parse "x" as type int4`},
		{types.Float8, "NaN", "NaN is not supported"},
		{types.Decimal, "Infinity", "non-finite decimal"},
		{types.Date, "2024-13-01", `could not parse "2024-13-01" as type date`},
		{types.Timestamp, "noon", `could not parse "noon" as type timestamp`},
	}
	for _, tc := range testCases {
		_, err := ParseStringAs(tc.typ, tc.s)
		require.ErrorContains(t, err, tc.err)
	}
}

func TestIntegerWidths(t *testing.T) {
	for _, typ := range []types.T{types.Int2, types.Int4, types.Int8} {
		d := NewIntOfType(typ, -7)
		require.Equal(t, typ, d.ResolvedType())
		v, ok := AsInt64(d)
		require.True(t, ok)
		require.Equal(t, int64(-7), v)
	}
	_, ok := AsInt64(NewDFloat(1))
	require.False(t, ok)
	require.Panics(t, func() { NewIntOfType(types.Float8, 1) })
}

func TestDArray(t *testing.T) {
	arr := NewDArray(types.Int4, NewDInt4(1), DNull, NewDInt4(3))
	require.Equal(t, "ARRAY[1,NULL,3]", arr.String())
	require.Equal(t, types.Int4, arr.ResolvedType())

	typ, elems, nulls := arr.Deconstruct()
	require.Equal(t, types.Int4, typ)
	require.Equal(t, []bool{false, true, false}, nulls)
	elems[0] = DNull
	require.NotEqual(t, DNull, arr.Array[0])

	require.Equal(t, "(1, NULL, 'a')", Datums{NewDInt4(1), DNull, NewDString("a")}.String())
}

func TestDates(t *testing.T) {
	d, err := ParseDDate("1970-01-02")
	require.NoError(t, err)
	require.Equal(t, DDate(1), *d)
	require.Equal(t, int64(86400000000), d.UnixMicros())
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package preprocess

import (
	"context"
	"testing"

	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey/keyspec"
	"github.com/cockroachdb/btreescan/pkg/sql/sem/tree"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testIndex(t *testing.T, cols string) *scankey.IndexDesc {
	idx, err := keyspec.ParseIndex("t", cols)
	require.NoError(t, err)
	return idx
}

func TestFixKey(t *testing.T) {
	idx := testIndex(t, "a int4, b int4 desc nulls last, c int4 nulls first")
	for _, tc := range []struct {
		pred     string
		ok       bool
		strategy opfamily.Strategy
		flags    scankey.Flags
	}{
		{"a < 1", true, opfamily.LT, 0},
		{"b < 1", true, opfamily.GT, scankey.Desc},
		{"b >= 1", true, opfamily.LE, scankey.Desc},
		{"b = 1", true, opfamily.EQ, scankey.Desc},
		{"a IS NULL", true, opfamily.EQ, scankey.IsNull | scankey.SearchNull},
		{"a IS NOT NULL", true, opfamily.LT, scankey.IsNull | scankey.SearchNotNull},
		{"b IS NOT NULL", true, opfamily.LT, scankey.IsNull | scankey.SearchNotNull | scankey.Desc},
		{"c IS NOT NULL", true, opfamily.GT, scankey.IsNull | scankey.SearchNotNull | scankey.NullsFirst},
		{"a = NULL", false, 0, 0},
		{"(a, b) > (NULL, 1)", false, 0, 0},
	} {
		t.Run(tc.pred, func(t *testing.T) {
			keys := keyspec.MustParse(idx, tc.pred)
			k := keys[0]
			if !tc.ok {
				require.False(t, fixKey(&k, idx))
				return
			}
			require.True(t, fixKey(&k, idx))
			require.Equal(t, tc.strategy, k.Strategy)
			require.Equal(t, tc.flags, k.Flags&^scankey.RowHeader)

			// Fixing is idempotent.
			again := k
			require.True(t, fixKey(&again, idx))
			require.Equal(t, k.Strategy, again.Strategy)
			require.Equal(t, k.Flags, again.Flags)
		})
	}
}

func TestFixRowMembers(t *testing.T) {
	idx := testIndex(t, "a int4, b int4 desc, c int4")
	keys := keyspec.MustParse(idx, "(a, b, c) > (1, NULL, 3)")
	var alloc scankey.Alloc
	k := alloc.CopyKey(&keys[0])
	require.True(t, fixKey(k, idx))

	require.Equal(t, opfamily.GT, k.Row[0].Strategy)
	// Fixing stops at the NULL member.
	require.Equal(t, opfamily.GT, k.Row[1].Strategy)
	require.Zero(t, k.Row[1].Flags&scankey.Desc)
	require.Equal(t, opfamily.GT, k.Row[2].Strategy)

	// The input row is untouched.
	require.Zero(t, keys[0].Row[0].Flags&scankey.OptionFlags)
}

func TestCompareNullKeys(t *testing.T) {
	null := &scankey.ScanKey{Strategy: opfamily.LT, Flags: scankey.IsNull | scankey.SearchNotNull}
	val := &scankey.ScanKey{Strategy: opfamily.LT, Arg: tree.NewDInt4(1)}
	nullsFirst := func(k *scankey.ScanKey) *scankey.ScanKey {
		c := *k
		c.Flags |= scankey.NullsFirst
		return &c
	}

	// NULL sorts after every value.
	require.Equal(t, opfamily.True, compareNullKeys(val, val, null))
	require.Equal(t, opfamily.False, compareNullKeys(val, null, val))
	require.Equal(t, opfamily.False, compareNullKeys(val, null, null))

	// With NULLS FIRST, the stored strategies are mirrored.
	gt := nullsFirst(val)
	gt.Strategy = opfamily.GT
	require.Equal(t, opfamily.True, compareNullKeys(gt, gt, nullsFirst(null)))

	eq := &scankey.ScanKey{Strategy: opfamily.EQ, Flags: scankey.IsNull | scankey.SearchNull}
	require.Equal(t, opfamily.True, compareNullKeys(eq, eq, eq))
	require.Equal(t, opfamily.False, compareNullKeys(eq, eq, val))

	// IS NOT NULL takes NULL out of a skip array.
	skip := &scankey.ScanKey{
		Strategy: opfamily.EQ,
		Flags:    scankey.SearchArray | scankey.Skip,
		Array:    &scankey.ArrayKey{Kind: scankey.SkipArray, NullElem: true},
	}
	require.Equal(t, opfamily.True, compareNullKeys(null, skip, null))
	require.False(t, skip.Array.NullElem)
}

func TestMarkRequired(t *testing.T) {
	for _, tc := range []struct {
		strategy opfamily.Strategy
		expected scankey.Flags
	}{
		{opfamily.LT, scankey.ReqFwd},
		{opfamily.LE, scankey.ReqFwd},
		{opfamily.EQ, scankey.ReqFwd | scankey.ReqBwd},
		{opfamily.GE, scankey.ReqBwd},
		{opfamily.GT, scankey.ReqBwd},
	} {
		k := scankey.ScanKey{Strategy: tc.strategy}
		markRequired(&k)
		require.Equal(t, tc.expected, k.Flags, "%s", tc.strategy)
	}

	row := scankey.ScanKey{
		Strategy: opfamily.LT,
		Flags:    scankey.RowHeader,
		Row: []scankey.ScanKey{
			{Strategy: opfamily.LT, Flags: scankey.RowMember},
			{Strategy: opfamily.GT, Flags: scankey.RowMember | scankey.RowEnd},
		},
	}
	markRequired(&row)
	require.Equal(t, scankey.RowHeader|scankey.ReqFwd, row.Flags)
	require.Equal(t, scankey.RowMember|scankey.ReqFwd, row.Row[0].Flags)
	require.Equal(t, scankey.RowMember|scankey.RowEnd, row.Row[1].Flags)

	require.Panics(t, func() { markRequired(&scankey.ScanKey{}) })
}

func TestMalformedKeys(t *testing.T) {
	idx := testIndex(t, "a int4, b int4")
	one := tree.NewDInt4(1)
	member := func(attno int, flags scankey.Flags) scankey.ScanKey {
		return scankey.ScanKey{Attno: attno, Strategy: opfamily.GT, Arg: one, Flags: scankey.RowMember | flags}
	}
	for _, tc := range []struct {
		name string
		keys []scankey.ScanKey
		err  string
	}{
		{
			name: "attno out of range",
			keys: []scankey.ScanKey{{Attno: 3, Strategy: opfamily.EQ, Arg: one}},
			err:  "key 0: attribute 3 out of range [1, 2]",
		},
		{
			name: "unsorted",
			keys: []scankey.ScanKey{
				{Attno: 2, Strategy: opfamily.EQ, Arg: one},
				{Attno: 1, Strategy: opfamily.EQ, Arg: one},
			},
			err: "key 1: keys are not sorted by attribute (1 after 2)",
		},
		{
			name: "invalid strategy",
			keys: []scankey.ScanKey{{Attno: 1, Arg: one}},
			err:  "key 0: invalid strategy 0",
		},
		{
			name: "null and not null",
			keys: []scankey.ScanKey{{
				Attno: 1, Strategy: opfamily.EQ, Arg: tree.DNull,
				Flags: scankey.IsNull | scankey.SearchNull | scankey.SearchNotNull,
			}},
			err: "key 0: both IS NULL and IS NOT NULL",
		},
		{
			name: "null search without null",
			keys: []scankey.ScanKey{{Attno: 1, Strategy: opfamily.EQ, Flags: scankey.SearchNull}},
			err:  "key 0: NULL search without a NULL argument",
		},
		{
			name: "skip on input",
			keys: []scankey.ScanKey{{Attno: 1, Strategy: opfamily.EQ, Arg: one, Flags: scankey.Skip}},
			err:  "unexpected flags skip on an input key",
		},
		{
			name: "missing argument",
			keys: []scankey.ScanKey{{Attno: 1, Strategy: opfamily.EQ}},
			err:  "key 0: missing argument",
		},
		{
			name: "scalar array argument",
			keys: []scankey.ScanKey{{Attno: 1, Strategy: opfamily.EQ, Arg: one, Flags: scankey.SearchArray}},
			err:  "key 0: array search with a",
		},
		{
			name: "row equality",
			keys: []scankey.ScanKey{{
				Attno: 1, Strategy: opfamily.EQ, Flags: scankey.RowHeader,
				Row: []scankey.ScanKey{member(1, 0), member(2, scankey.RowEnd)},
			}},
			err: "row comparison must be an inequality",
		},
		{
			name: "row without end",
			keys: []scankey.ScanKey{{
				Attno: 1, Strategy: opfamily.GT, Flags: scankey.RowHeader,
				Row: []scankey.ScanKey{member(1, 0), member(2, 0)},
			}},
			err: "malformed row member 1",
		},
		{
			name: "row out of order",
			keys: []scankey.ScanKey{{
				Attno: 1, Strategy: opfamily.GT, Flags: scankey.RowHeader,
				Row: []scankey.ScanKey{member(1, 0), member(1, scankey.RowEnd)},
			}},
			err: "row member 1 has attribute 1",
		},
		{
			name: "row starts elsewhere",
			keys: []scankey.ScanKey{{
				Attno: 1, Strategy: opfamily.GT, Flags: scankey.RowHeader,
				Row: []scankey.ScanKey{member(2, scankey.RowEnd)},
			}},
			err: "row comparison starts at attribute 2, not 1",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var alloc scankey.Alloc
			_, err := Preprocess(context.Background(), idx, tc.keys, &alloc, DefaultOptions())
			require.ErrorContains(t, err, tc.err)
			require.True(t, errors.HasAssertionFailure(err))
		})
	}
}

func TestInputUntouched(t *testing.T) {
	idx := testIndex(t, "a int4 desc, b int4, c int4")
	keys := keyspec.MustParse(idx, "a < 5; a IN (3, 1, 2); b IS NOT NULL; (b, c) > (1, 2); c < ANY (4, 9)")
	before := make([]string, len(keys))
	flags := make([]scankey.Flags, len(keys))
	for i := range keys {
		before[i] = keys[i].String()
		flags[i] = keys[i].Flags
	}
	args := make([]tree.Datum, len(keys))
	for i := range keys {
		args[i] = keys[i].Arg
	}

	var alloc scankey.Alloc
	res, err := Preprocess(context.Background(), idx, keys, &alloc, DefaultOptions())
	require.NoError(t, err)
	require.True(t, res.Satisfiable)
	require.NotZero(t, alloc.Allocated())

	for i := range keys {
		require.Equal(t, before[i], keys[i].String())
		require.Equal(t, flags[i], keys[i].Flags)
		require.True(t, args[i] == keys[i].Arg, "argument of key %d replaced", i)
	}
	require.Equal(t, tree.Datums{tree.NewDInt4(3), tree.NewDInt4(1), tree.NewDInt4(2)},
		keys[1].Arg.(*tree.DArray).Array)
}

func TestResultLayout(t *testing.T) {
	idx := testIndex(t, "a int4, b int4, c int4")
	keys := keyspec.MustParse(idx, "b IN (2, 1) AND c = 3 AND c > 1")
	var alloc scankey.Alloc
	res, err := Preprocess(context.Background(), idx, keys, &alloc, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, res.Keys, 3)
	require.Len(t, res.OrderProcs, 3)
	require.Len(t, res.Arrays, 2)
	for _, a := range res.Arrays {
		require.Same(t, a, res.Keys[a.KeyIndex].Array)
		require.Equal(t, -1, a.Cur)
		require.True(t, res.OrderProcs[a.KeyIndex].Valid())
	}
	require.Equal(t, scankey.SkipArray, res.Arrays[0].Kind)
	require.Equal(t, scankey.EnumArray, res.Arrays[1].Kind)
	require.Equal(t, tree.Datums{tree.NewDInt4(1), tree.NewDInt4(2)}, res.Arrays[1].Elems)
	require.Equal(t, types.Int4, res.Arrays[1].ElemType)
	require.Equal(t, "cmp(int4, int4)", res.OrderProcs[2].String())
}

func TestPreprocessor(t *testing.T) {
	idx := testIndex(t, "a int4, b int4")
	p := NewPreprocessor(idx, DefaultOptions())
	ctx := context.Background()

	res, err := p.Rescan(ctx, keyspec.MustParse(idx, "b = 1"))
	require.NoError(t, err)
	require.Len(t, res.Keys, 2)
	first := res.String()

	res, err = p.Rescan(ctx, keyspec.MustParse(idx, "a = 1 AND a = 2"))
	require.NoError(t, err)
	require.False(t, res.Satisfiable)
	require.Empty(t, res.Keys)

	res, err = p.Rescan(ctx, keyspec.MustParse(idx, "b = 1"))
	require.NoError(t, err)
	require.Equal(t, first, res.String())

	_, err = p.Rescan(ctx, []scankey.ScanKey{{Attno: 9, Strategy: opfamily.EQ, Arg: tree.NewDInt4(1)}})
	require.ErrorContains(t, err, "preprocessing scan 4: key 0: attribute 9 out of range")
}

func TestMetrics(t *testing.T) {
	idx := testIndex(t, "a int4, b int4")
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))
	require.Error(t, m.Register(reg))

	opts := DefaultOptions()
	opts.Metrics = m
	run := func(preds string) {
		var alloc scankey.Alloc
		_, err := Preprocess(context.Background(), idx, keyspec.MustParse(idx, preds), &alloc, opts)
		require.NoError(t, err)
	}
	run("b = 42")
	run("a = 1 AND a > 2")
	run("a > 1 AND a > 3")
	run("a IN (7)")

	var alloc scankey.Alloc
	_, err := Preprocess(context.Background(), idx, []scankey.ScanKey{{Attno: 1}}, &alloc, opts)
	require.Error(t, err)

	require.Equal(t, 5.0, testutil.ToFloat64(m.Scans))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Unsatisfiable))
	require.Equal(t, 1.0, testutil.ToFloat64(m.KeysEliminated))
	require.Equal(t, 1.0, testutil.ToFloat64(m.SkipArrays))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ArraysCollapsed))
	require.Equal(t, 1.0, testutil.ToFloat64(m.AssertionFailure))
	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 6, n)
}

func TestOptionsYAML(t *testing.T) {
	var opts Options
	require.NoError(t, yaml.Unmarshal([]byte("skip_scan: true\nskip_prefix_cols: 2\n"), &opts))
	require.Equal(t, Options{SkipScan: true, SkipPrefixCols: 2}, opts)
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package scankeytest holds an in-memory B-tree index that evaluates scan
// keys row by row. Tests use it as an oracle: preprocessing must not change
// the rows a list of keys selects.
package scankeytest

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
	"github.com/google/btree"
)

// Row is an index tuple. NULL values are tree.DNull.
type Row struct {
	// ID breaks ties between rows with equal values.
	ID   int
	Vals tree.Datums
}

func (r Row) String() string {
	return fmt.Sprintf("%d:%s", r.ID, r.Vals)
}

// Table is an in-memory index. Rows are kept in index order: each column
// sorts by its family's order proc, reversed for descending columns, with
// NULLs first or last as the column says.
type Table struct {
	idx  scankey.Index
	rows *btree.BTreeG[Row]
	next int
}

// NewTable returns an empty table for idx.
func NewTable(idx scankey.Index) *Table {
	t := &Table{idx: idx}
	t.rows = btree.NewG(8, func(a, b Row) bool {
		if c := CompareRows(idx, a.Vals, b.Vals, idx.NumColumns()); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
	return t
}

// Insert adds a row. It must have one value per index column.
func (t *Table) Insert(vals ...tree.Datum) {
	if len(vals) != t.idx.NumColumns() {
		panic(errors.AssertionFailedf("row has %d values, index has %d columns", len(vals), t.idx.NumColumns()))
	}
	t.next++
	t.rows.ReplaceOrInsert(Row{ID: t.next, Vals: vals})
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows.Len()
}

// Rows returns every row in index order.
func (t *Table) Rows() []Row {
	res := make([]Row, 0, t.rows.Len())
	t.rows.Ascend(func(r Row) bool {
		res = append(res, r)
		return true
	})
	return res
}

// Select returns the rows, in index order, that satisfy every key.
func (t *Table) Select(keys []scankey.ScanKey) []Row {
	var res []Row
	t.rows.Ascend(func(r Row) bool {
		if MatchesAll(t.idx, keys, r.Vals) {
			res = append(res, r)
		}
		return true
	})
	return res
}

// FormatRows prints rows one per line.
func FormatRows(rows []Row) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// CompareRows compares the first n values of two rows in index order.
func CompareRows(idx scankey.Index, a, b tree.Datums, n int) int {
	for i := 0; i < n; i++ {
		if c := compareInIndexOrder(idx, i+1, a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func compareInIndexOrder(idx scankey.Index, attno int, a, b tree.Datum) int {
	opts := idx.ColumnOptions(attno)
	aNull, bNull := a == tree.DNull, b == tree.DNull
	switch {
	case aNull && bNull:
		return 0
	case aNull || bNull:
		if aNull == opts.NullsFirst {
			return -1
		}
		return 1
	}
	c := valueResolver(idx, attno).compare(a, b)
	if opts.Descending {
		return -c
	}
	return c
}

// resolver evaluates comparisons with the complete built-in family of a
// column, whatever family the index declares. A restricted family hides
// operators from preprocessing, but the values still compare the same way.
type resolver struct {
	opfamily.Resolver
}

func valueResolver(idx scankey.Index, attno int) resolver {
	t := idx.ColumnType(attno)
	return resolver{opfamily.MakeResolver(opfamily.DefaultFamily(t), t)}
}

// compare compares two non-NULL values in ascending order.
func (r resolver) compare(a, b tree.Datum) int {
	proc, ok := r.OrderProc(a.ResolvedType(), b.ResolvedType())
	if !ok {
		panic(errors.AssertionFailedf("cannot compare %s and %s", a.ResolvedType(), b.ResolvedType()))
	}
	return proc.Compare(a, b)
}

// eval returns "a <s> b" for non-NULL values, where s is a real strategy.
func (r resolver) eval(s opfamily.Strategy, a, b tree.Datum) bool {
	c := r.compare(a, b)
	switch s {
	case opfamily.LT:
		return c < 0
	case opfamily.LE:
		return c <= 0
	case opfamily.EQ:
		return c == 0
	case opfamily.GE:
		return c >= 0
	case opfamily.GT:
		return c > 0
	}
	panic(errors.AssertionFailedf("invalid strategy %d", s))
}

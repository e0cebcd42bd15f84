// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package preprocess

import (
	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
)

// validateKeys panics with an assertion failure if the keys are malformed.
// Unsatisfiable keys are well formed.
func validateKeys(idx scankey.Index, keys []scankey.ScanKey) {
	n := idx.NumColumns()
	if n <= 0 {
		panic(errors.AssertionFailedf("index has no key columns"))
	}
	prev := 0
	for i := range keys {
		k := &keys[i]
		if k.Attno < 1 || k.Attno > n {
			panic(errors.AssertionFailedf("key %d: attribute %d out of range [1, %d]", i, k.Attno, n))
		}
		if k.Attno < prev {
			panic(errors.AssertionFailedf("key %d: keys are not sorted by attribute (%d after %d)",
				i, k.Attno, prev))
		}
		prev = k.Attno
		validateKey(i, k)
		if k.IsRowCompare() {
			validateRow(i, k, n)
		}
	}
}

func validateKey(i int, k *scankey.ScanKey) {
	if !k.Strategy.IsValid() {
		panic(errors.AssertionFailedf("key %d: invalid strategy %d", i, k.Strategy))
	}
	if k.Flags.Has(scankey.SearchNull | scankey.SearchNotNull) {
		panic(errors.AssertionFailedf("key %d: both IS NULL and IS NOT NULL", i))
	}
	if k.Flags&(scankey.Skip|scankey.RowMember|scankey.RowEnd) != 0 || k.Array != nil {
		panic(errors.AssertionFailedf("key %d: unexpected flags %s on an input key", i, k.Flags))
	}
	if k.Flags&(scankey.SearchNull|scankey.SearchNotNull) != 0 && k.Flags&scankey.IsNull == 0 {
		panic(errors.AssertionFailedf("key %d: NULL search without a NULL argument", i))
	}
	if k.Flags&(scankey.IsNull|scankey.RowHeader) == 0 && (k.Arg == nil || k.Arg == tree.DNull) {
		panic(errors.AssertionFailedf("key %d: missing argument", i))
	}
	if k.Flags&scankey.SearchArray != 0 && k.Flags&scankey.IsNull == 0 {
		if _, ok := k.Arg.(*tree.DArray); !ok {
			panic(errors.AssertionFailedf("key %d: array search with a %T argument", i, k.Arg))
		}
	}
}

func validateRow(i int, k *scankey.ScanKey, numCols int) {
	if k.Flags&(scankey.SearchArray|scankey.IsNull|scankey.SearchNull|scankey.SearchNotNull) != 0 {
		panic(errors.AssertionFailedf("key %d: row comparison with flags %s", i, k.Flags))
	}
	if k.Strategy == opfamily.EQ {
		panic(errors.AssertionFailedf("key %d: row comparison must be an inequality", i))
	}
	if len(k.Row) == 0 {
		panic(errors.AssertionFailedf("key %d: row comparison without members", i))
	}
	if k.Row[0].Attno != k.Attno {
		panic(errors.AssertionFailedf("key %d: row comparison starts at attribute %d, not %d",
			i, k.Row[0].Attno, k.Attno))
	}
	prev := 0
	for j := range k.Row {
		m := &k.Row[j]
		last := j == len(k.Row)-1
		if m.Flags&scankey.RowMember == 0 || (m.Flags&scankey.RowEnd != 0) != last {
			panic(errors.AssertionFailedf("key %d: malformed row member %d (flags %s)", i, j, m.Flags))
		}
		if m.Attno <= prev || m.Attno > numCols {
			panic(errors.AssertionFailedf("key %d: row member %d has attribute %d", i, j, m.Attno))
		}
		prev = m.Attno
		if !m.Strategy.IsValid() {
			panic(errors.AssertionFailedf("key %d: row member %d has invalid strategy %d", i, j, m.Strategy))
		}
		if m.Flags&scankey.IsNull == 0 && (m.Arg == nil || m.Arg == tree.DNull) {
			panic(errors.AssertionFailedf("key %d: row member %d has no argument", i, j))
		}
	}
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package scankeytest

import (
	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
)

// MatchesAll returns true if the row satisfies every key.
func MatchesAll(idx scankey.Index, keys []scankey.ScanKey, vals tree.Datums) bool {
	for i := range keys {
		if !Matches(idx, &keys[i], vals) {
			return false
		}
	}
	return true
}

// Matches returns true if the row satisfies the key. Both raw input keys and
// preprocessed keys are understood; the latter may carry commuted strategies
// and array descriptors.
func Matches(idx scankey.Index, k *scankey.ScanKey, vals tree.Datums) bool {
	v := vals[k.Attno-1]
	r := valueResolver(idx, k.Attno)

	switch {
	case k.Flags&scankey.SearchNull != 0:
		return v == tree.DNull
	case k.Flags&scankey.SearchNotNull != 0:
		return v != tree.DNull
	case k.IsRowCompare():
		return matchesRow(idx, k, vals)
	case k.Array != nil:
		return matchesArray(r, k, v)
	case k.Flags&scankey.IsNull != 0 || v == tree.DNull:
		// Comparison operators are strict.
		return false
	case k.Flags&scankey.SearchArray != 0:
		arr, ok := k.Arg.(*tree.DArray)
		if !ok {
			panic(errors.AssertionFailedf("array key with a %T argument", k.Arg))
		}
		for _, e := range arr.Array {
			if e != tree.DNull && r.eval(k.RealStrategy(), v, e) {
				return true
			}
		}
		return false
	}
	return r.eval(k.RealStrategy(), v, k.Arg)
}

func matchesArray(r resolver, k *scankey.ScanKey, v tree.Datum) bool {
	a := k.Array
	if a.Kind == scankey.EnumArray {
		if v == tree.DNull {
			return false
		}
		for _, e := range a.Elems {
			if r.compare(v, e) == 0 {
				return true
			}
		}
		return false
	}
	if v == tree.DNull {
		return a.NullElem
	}
	if a.Low != nil && !r.eval(a.Low.RealStrategy(), v, a.Low.Arg) {
		return false
	}
	if a.High != nil && !r.eval(a.High.RealStrategy(), v, a.High.Arg) {
		return false
	}
	return true
}

// matchesRow evaluates a row comparison lexicographically. A NULL on either
// side before the comparison is decided makes it false.
func matchesRow(idx scankey.Index, k *scankey.ScanKey, vals tree.Datums) bool {
	s := k.RealStrategy()
	for i := range k.Row {
		m := &k.Row[i]
		v := vals[m.Attno-1]
		if v == tree.DNull || m.Flags&scankey.IsNull != 0 || m.Arg == tree.DNull {
			return false
		}
		c := valueResolver(idx, m.Attno).compare(v, m.Arg)
		if c != 0 {
			return (c < 0) == s.IsLess()
		}
	}
	return s == opfamily.LE || s == opfamily.GE
}

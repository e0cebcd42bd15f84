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

// CheckRequired verifies the direction markers of preprocessed keys against
// the rows of t.
//
// A marked key may only follow attributes that all have an equality key.
// Within a group of rows that agree on those attributes, the non-NULL rows
// that satisfy the key must be contiguous in index order; a key that only
// ends forward scans must be satisfied by a prefix of them and one that only
// ends backward scans by a suffix. Otherwise a scan that stops at the first
// failing row would miss rows. A row comparison is checked through its first
// column, made inclusive. Enumerated arrays are not checked: the scan moves
// on to the next element rather than stopping.
func CheckRequired(t *Table, keys []scankey.ScanKey) error {
	hasEquality := make(map[int]bool)
	for i := range keys {
		if keys[i].Strategy == opfamily.EQ && !keys[i].IsRowCompare() {
			hasEquality[keys[i].Attno] = true
		}
	}
	rows := t.Rows()
	for i := range keys {
		k := &keys[i]
		req := k.Flags & scankey.RequiredFlags
		if req == 0 {
			continue
		}
		for attno := 1; attno < k.Attno; attno++ {
			if !hasEquality[attno] {
				return errors.Newf("key %d (%s) is required but attribute %d has no equality", i, k, attno)
			}
		}
		if k.Array != nil && k.Array.Kind == scankey.EnumArray {
			// The scan steps through the elements instead of stopping.
			continue
		}
		check := k
		if k.IsRowCompare() {
			check = firstColumnBound(k)
		}
		if err := checkGroups(t.idx, rows, check, req); err != nil {
			return errors.Wrapf(err, "key %d (%s)", i, k)
		}
	}
	return nil
}

// firstColumnBound returns the condition a row comparison imposes on its
// first column alone.
func firstColumnBound(k *scankey.ScanKey) *scankey.ScanKey {
	m := k.Row[0]
	s := k.RealStrategy()
	switch s {
	case opfamily.LT:
		s = opfamily.LE
	case opfamily.GT:
		s = opfamily.GE
	}
	m.Flags &^= scankey.Desc
	m.Strategy = s
	return &m
}

func checkGroups(idx scankey.Index, rows []Row, k *scankey.ScanKey, req scankey.Flags) error {
	prefix := k.Attno - 1
	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && CompareRows(idx, rows[start].Vals, rows[end].Vals, prefix) == 0 {
			end++
		}
		if err := checkGroup(idx, rows[start:end], k, req); err != nil {
			return err
		}
		start = end
	}
	return nil
}

func checkGroup(idx scankey.Index, group []Row, k *scankey.ScanKey, req scankey.Flags) error {
	// pattern holds the outcome of the key on each non-NULL row.
	var pattern []bool
	var vals []tree.Datums
	for _, r := range group {
		if r.Vals[k.Attno-1] == tree.DNull {
			continue
		}
		pattern = append(pattern, Matches(idx, k, r.Vals))
		vals = append(vals, r.Vals)
	}
	first, last := -1, -1
	for i, ok := range pattern {
		if ok {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return nil
	}
	for i := first; i <= last; i++ {
		if !pattern[i] {
			return errors.Newf("rows satisfying the key are not contiguous: %s fails", vals[i])
		}
	}
	switch req {
	case scankey.ReqFwd:
		if first != 0 {
			return errors.Newf("forward scan would stop at %s before reaching %s", vals[0], vals[first])
		}
	case scankey.ReqBwd:
		if last != len(pattern)-1 {
			return errors.Newf("backward scan would stop at %s before reaching %s", vals[len(vals)-1], vals[last])
		}
	}
	return nil
}

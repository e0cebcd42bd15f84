// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package preprocess

import (
	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/util/log"
	"github.com/cockroachdb/errors"
)

// planSkipArrays decides which attributes get a skip array. The result is
// indexed by attribute number.
//
// Keys on an attribute can only end the scan if every earlier attribute has
// an equality key. A skip array is a synthetic equality that enumerates every
// value of its column, so adding one to each leading attribute without an
// equality lets the keys on the last attribute become required. No skip
// array is added:
//
//   - on the last attribute with an input key, since nothing follows it;
//   - on or after the attribute of a row comparison, whose lexicographic
//     semantics are incompatible with enumerating one column;
//   - after the family of an attribute lacks a same-type equality operator;
//   - once Options.SkipPrefixCols skip arrays are planned.
func (p *preprocessor) planSkipArrays(keys []*scankey.ScanKey) []bool {
	lastAttno := keys[len(keys)-1].Attno
	skip := make([]bool, lastAttno+1)
	if !p.opts.SkipScan {
		return skip
	}

	hasEquality := make([]bool, lastAttno+1)
	rowCompareAttno := lastAttno
	for _, k := range keys {
		if k.IsRowCompare() {
			if k.Attno < rowCompareAttno {
				rowCompareAttno = k.Attno
			}
			continue
		}
		if k.Strategy == opfamily.EQ {
			// Includes IS NULL and equality arrays.
			hasEquality[k.Attno] = true
		}
	}

	for attno := 1; attno < rowCompareAttno; attno++ {
		if hasEquality[attno] {
			continue
		}
		if p.opts.SkipPrefixCols > 0 && p.skipArrays >= p.opts.SkipPrefixCols {
			break
		}
		r := p.resolver(attno)
		if _, ok := r.Operator(opfamily.EQ, r.InputType, r.InputType); !ok {
			log.VEventf(p.ctx, 2, "no equality operator on attribute %d, not skipping", attno)
			break
		}
		skip[attno] = true
		p.skipArrays++
	}
	return skip
}

// makeSkipKey returns the key of a new skip array on attno. The array starts
// out enumerating every value, NULL included.
func (p *preprocessor) makeSkipKey(attno int) *scankey.ScanKey {
	r := p.resolver(attno)
	opts := p.idx.ColumnOptions(attno)
	eq, _ := r.Operator(opfamily.EQ, r.InputType, r.InputType)
	proc, ok := r.SameTypeOrderProc()
	if !ok {
		panic(errors.AssertionFailedf("no order proc for %s in %s", r.InputType, r.Family.Name()))
	}

	a := p.alloc.NewArray()
	a.Kind = scankey.SkipArray
	a.ElemType = r.InputType
	a.NullElem = true
	a.OrderProc = proc
	if support, ok := r.SkipSupport(opts.Descending); ok {
		a.Support = support
	}

	k := p.alloc.NewKey()
	k.Attno = attno
	k.Strategy = opfamily.EQ
	k.Op = eq
	k.Flags = scankey.SearchArray | scankey.Skip | opts.Flags()
	k.Array = a
	log.VEventf(p.ctx, 2, "added skip array on attribute %d", attno)
	return k
}

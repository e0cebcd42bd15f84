// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package preprocess

import (
	"slices"

	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/sql/sem/tree"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
	"github.com/cockroachdb/btreescan/pkg/util/log"
	"github.com/cockroachdb/errors"
)

// buildKeyList builds the intermediate key list from the fixed input keys. It
// turns array keys into enumerated array descriptors or scalar keys, merges
// equality arrays on the same column and inserts the planned skip arrays
// ahead of the keys of their column. It returns false if the keys are
// unsatisfiable.
func (p *preprocessor) buildKeyList(keys []*scankey.ScanKey) ([]*scankey.ScanKey, bool) {
	skip := p.planSkipArrays(keys)
	inter := make([]*scankey.ScanKey, 0, len(keys)+p.skipArrays)

	lastAttno := keys[len(keys)-1].Attno
	i := 0
	for attno := 1; attno <= lastAttno; attno++ {
		if skip[attno] {
			inter = append(inter, p.makeSkipKey(attno))
		}
		// origArray is the first equality array on this attribute. Later ones
		// are merged into it.
		var origArray *scankey.ArrayKey
		for ; i < len(keys) && keys[i].Attno == attno; i++ {
			k := keys[i]
			if k.Flags&scankey.SearchArray == 0 {
				inter = append(inter, k)
				continue
			}
			if !p.buildArray(k) {
				return nil, false
			}
			if k.Array == nil {
				// An inequality array collapsed to its extremum.
				inter = append(inter, k)
				continue
			}
			if origArray != nil {
				merged, ok := p.mergeArrays(k, origArray, k.Array)
				if !ok {
					return nil, false
				}
				if merged {
					continue
				}
			} else {
				origArray = k.Array
			}
			inter = append(inter, k)
		}
	}
	return inter, true
}

// buildArray processes an array key. An inequality array is collapsed to the
// element that makes it tightest, leaving a scalar key. An equality array gets
// an enumerated descriptor with its non-NULL elements sorted in index order
// and deduplicated. buildArray returns false if no element can match.
//
// Unlike the other family lookups, a missing order proc for an equality
// array is not tolerated: the scan binary searches the array with it, so
// its absence is reported as an assertion failure.
func (p *preprocessor) buildArray(k *scankey.ScanKey) bool {
	if k.Flags&scankey.IsNull != 0 || k.Arg == tree.DNull {
		return false
	}
	arr, ok := k.Arg.(*tree.DArray)
	if !ok {
		panic(errors.AssertionFailedf("array key with a %T argument", k.Arg))
	}
	r := p.resolver(k.Attno)
	elemType, values, nulls := arr.Deconstruct()
	elemType = r.Type(elemType)

	// Operators are strict, so NULL elements can never match.
	elems := p.alloc.Datums(len(values))[:0]
	for j, v := range values {
		if !nulls[j] {
			elems = append(elems, v)
		}
	}
	if len(elems) == 0 {
		return false
	}

	if elemType == r.InputType {
		k.Subtype = types.Unknown
	} else {
		k.Subtype = elemType
	}

	if k.Strategy != opfamily.EQ {
		// "x < ANY(a)" is "x < max(a)" and "x > ANY(a)" is "x > min(a)".
		want := opfamily.LT
		if k.RealStrategy().IsLess() {
			want = opfamily.GT
		}
		op, ok := r.Operator(want, elemType, elemType)
		if !ok {
			panic(errors.AssertionFailedf("no %s operator for %s in %s", want, elemType, r.Family.Name()))
		}
		best := elems[0]
		for _, e := range elems[1:] {
			if op.Eval(e, best) {
				best = e
			}
		}
		k.Flags &^= scankey.SearchArray
		k.Arg = best
		return true
	}

	sortProc, ok := r.OrderProc(elemType, elemType)
	if !ok {
		panic(errors.AssertionFailedf("no order proc for %s in %s", elemType, r.Family.Name()))
	}
	runtimeProc, ok := r.OrderProc(r.InputType, elemType)
	if !ok {
		panic(errors.AssertionFailedf("no order proc for %s and %s in %s",
			r.InputType, elemType, r.Family.Name()))
	}
	cmp := indexOrder(sortProc, k.Flags&scankey.Desc != 0)
	slices.SortFunc(elems, cmp)
	elems = slices.CompactFunc(elems, func(a, b tree.Datum) bool { return cmp(a, b) == 0 })

	a := p.alloc.NewArray()
	a.Kind = scankey.EnumArray
	a.ElemType = elemType
	a.Elems = elems
	a.OrderProc = runtimeProc
	k.Array = a
	k.Arg = nil
	return true
}

// indexOrder returns a comparison function that orders values the way the
// index column does.
func indexOrder(proc opfamily.OrderProc, desc bool) func(a, b tree.Datum) int {
	if desc {
		return func(a, b tree.Datum) int { return -proc.Compare(a, b) }
	}
	return proc.Compare
}

// mergeArrays intersects the elements of next into orig, which is the first
// equality array on the same column. It returns merged=false, leaving both
// arrays alone, when the family has no order proc for the two element types,
// and ok=false when the intersection is empty.
func (p *preprocessor) mergeArrays(
	k *scankey.ScanKey, orig, next *scankey.ArrayKey,
) (merged, ok bool) {
	r := p.resolver(k.Attno)
	proc, found := r.OrderProc(orig.ElemType, next.ElemType)
	if !found {
		log.VEventf(p.ctx, 2, "cannot intersect %s and %s arrays on attribute %d",
			orig.ElemType, next.ElemType, k.Attno)
		return false, true
	}
	cmp := indexOrder(proc, k.Flags&scankey.Desc != 0)

	n := 0
	for i, j := 0, 0; i < len(orig.Elems) && j < len(next.Elems); {
		switch c := cmp(orig.Elems[i], next.Elems[j]); {
		case c == 0:
			orig.Elems[n] = orig.Elems[i]
			n++
			i++
			j++
		case c < 0:
			i++
		default:
			j++
		}
	}
	orig.Elems = orig.Elems[:n]
	log.VEventf(p.ctx, 2, "intersected arrays on attribute %d: %d elements left", k.Attno, n)
	return true, n > 0
}

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

// compareKeys evaluates "left.Arg <op> right.Arg", where <op> is the
// comparison of the key op (which is usually left or right). All three keys
// are on the same attribute. The result is Indeterminate when the family
// cannot decide.
//
// A key that holds an equality array is not compared like a scalar. An
// enumerated array instead loses the elements that do not satisfy the other
// key, and a skip array takes the other key as one of its bounds. Both
// report True when the other key became redundant, and an enumerated array
// reports False when no element is left.
func (p *preprocessor) compareKeys(
	r opfamily.Resolver, op, left, right *scankey.ScanKey,
) opfamily.Ternary {
	if (left.Flags|right.Flags)&scankey.IsNull != 0 {
		return compareNullKeys(op, left, right)
	}

	leftArray, rightArray := left.Array != nil, right.Array != nil
	switch {
	case leftArray && rightArray:
		return opfamily.Indeterminate
	case leftArray:
		return p.applyToArray(r, left, right)
	case rightArray:
		return p.applyToArray(r, right, left)
	}

	return r.Compare(op.RealStrategy(), op.Op, left.Arg, left.Subtype, right.Arg, right.Subtype)
}

// compareNullKeys compares keys when at least one has a NULL argument. NULL
// is treated as a value that sorts after (or, with NULLS FIRST, before) every
// other value.
func compareNullKeys(op, left, right *scankey.ScanKey) opfamily.Ternary {
	if left.IsSkip() && right.Flags&scankey.SearchNotNull != 0 {
		left.Array.NullElem = false
		return opfamily.True
	}
	if right.IsSkip() && left.Flags&scankey.SearchNotNull != 0 {
		right.Array.NullElem = false
		return opfamily.True
	}

	leftNull := left.Flags&scankey.IsNull != 0
	rightNull := right.Flags&scankey.IsNull != 0
	s := op.Strategy
	if op.Flags&scankey.NullsFirst != 0 {
		s = s.Commute()
	}
	switch s {
	case opfamily.LT:
		return opfamily.MakeTernary(!leftNull && rightNull)
	case opfamily.LE:
		return opfamily.MakeTernary(!leftNull || rightNull)
	case opfamily.EQ:
		return opfamily.MakeTernary(leftNull == rightNull)
	case opfamily.GE:
		return opfamily.MakeTernary(leftNull || !rightNull)
	case opfamily.GT:
		return opfamily.MakeTernary(leftNull && !rightNull)
	}
	panic(errors.AssertionFailedf("invalid strategy %d", s))
}

// applyToArray applies the scalar key sc to the equality array key ak.
func (p *preprocessor) applyToArray(r opfamily.Resolver, ak, sc *scankey.ScanKey) opfamily.Ternary {
	if ak.Array.Kind == scankey.SkipArray {
		return p.foldIntoSkipArray(r, ak, sc)
	}
	return p.shrinkArray(r, ak, sc)
}

// shrinkArray removes the elements of an enumerated array that do not
// satisfy sc.
func (p *preprocessor) shrinkArray(r opfamily.Resolver, ak, sc *scankey.ScanKey) opfamily.Ternary {
	a := ak.Array
	proc, ok := r.OrderProc(a.ElemType, sc.Subtype)
	if !ok {
		return opfamily.Indeterminate
	}
	cmp := indexOrder(proc, ak.Flags&scankey.Desc != 0)

	n := 0
	for _, e := range a.Elems {
		c := cmp(e, sc.Arg)
		var keep bool
		switch sc.Strategy {
		case opfamily.LT:
			keep = c < 0
		case opfamily.LE:
			keep = c <= 0
		case opfamily.EQ:
			keep = c == 0
		case opfamily.GE:
			keep = c >= 0
		case opfamily.GT:
			keep = c > 0
		default:
			panic(errors.AssertionFailedf("invalid strategy %d", sc.Strategy))
		}
		if keep {
			a.Elems[n] = e
			n++
		}
	}
	log.VEventf(p.ctx, 2, "array on attribute %d shrunk from %d to %d elements by %s",
		ak.Attno, len(a.Elems), n, sc)
	a.Elems = a.Elems[:n]
	return opfamily.MakeTernary(n > 0)
}

// foldIntoSkipArray makes the inequality sc a bound of the skip array of ak,
// unless the array already has a tighter bound. It returns Indeterminate if
// the family cannot tell which bound is tighter; the existing bound is then
// kept and sc stays in the key list.
func (p *preprocessor) foldIntoSkipArray(
	r opfamily.Resolver, ak, sc *scankey.ScanKey,
) opfamily.Ternary {
	a := ak.Array
	// Strict operators never match NULL.
	a.NullElem = false

	var bound **scankey.ScanKey
	switch sc.Strategy {
	case opfamily.LT, opfamily.LE:
		bound = &a.High
	case opfamily.GT, opfamily.GE:
		bound = &a.Low
	default:
		panic(errors.AssertionFailedf("skip array on attribute %d given %s", ak.Attno, sc.Strategy))
	}

	if *bound != nil {
		switch p.compareKeys(r, *bound, sc, *bound) {
		case opfamily.False:
			log.VEventf(p.ctx, 2, "skip array bound %s is tighter than %s", *bound, sc)
			return opfamily.True
		case opfamily.Indeterminate:
			return opfamily.Indeterminate
		}
	}
	*bound = p.alloc.CopyKey(sc)
	log.VEventf(p.ctx, 2, "skip array on attribute %d bounded by %s", ak.Attno, sc)
	return opfamily.True
}

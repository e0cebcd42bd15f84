// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package preprocess

import (
	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
	"github.com/cockroachdb/btreescan/pkg/util/log"
)

// bindSkipArrays tightens the bounds of every skip array in the output and
// returns false if a skip array cannot produce any value.
func (p *preprocessor) bindSkipArrays() bool {
	for i := range p.out {
		k := &p.out[i]
		if !k.IsSkip() {
			continue
		}
		r := p.resolver(k.Attno)
		if p.opts.PreferInclusive && !p.makeBoundsInclusive(r, k) {
			return false
		}
		if !p.checkBoundOrder(r, k) {
			return false
		}
	}
	return true
}

// makeBoundsInclusive rewrites "< x" into "<= prev(x)" and "> x" into
// ">= next(x)" using the skip support of the column, with next and prev in
// index order. Bounds whose argument is of another type are left alone: the
// successor of a date is not the successor of a timestamp. It returns false
// if x has no predecessor or successor.
func (p *preprocessor) makeBoundsInclusive(r opfamily.Resolver, k *scankey.ScanKey) bool {
	a := k.Array
	if a.Support == nil {
		return true
	}
	if hi := a.High; hi != nil && hi.Strategy == opfamily.LT && r.Type(hi.Subtype) == r.InputType {
		if op, ok := inclusiveOperator(r, hi, opfamily.LE); ok {
			prev, ok := a.Support.Decrement(hi.Arg)
			if !ok {
				log.VEventf(p.ctx, 2, "nothing sorts before %s", hi)
				return false
			}
			hi.Strategy, hi.Op, hi.Arg, hi.Subtype = opfamily.LE, op, prev, types.Unknown
		}
	}
	if lo := a.Low; lo != nil && lo.Strategy == opfamily.GT && r.Type(lo.Subtype) == r.InputType {
		if op, ok := inclusiveOperator(r, lo, opfamily.GE); ok {
			next, ok := a.Support.Increment(lo.Arg)
			if !ok {
				log.VEventf(p.ctx, 2, "nothing sorts after %s", lo)
				return false
			}
			lo.Strategy, lo.Op, lo.Arg, lo.Subtype = opfamily.GE, op, next, types.Unknown
		}
	}
	return true
}

// inclusiveOperator looks up the same-type operator for the stored strategy
// s, translated back to a real strategy for descending columns.
func inclusiveOperator(
	r opfamily.Resolver, bound *scankey.ScanKey, s opfamily.Strategy,
) (opfamily.Operator, bool) {
	if bound.Flags&scankey.Desc != 0 {
		s = s.Commute()
	}
	return r.Operator(s, r.InputType, r.InputType)
}

// checkBoundOrder returns false if the low bound of a skip array is past its
// high bound. Equal inclusive bounds are fine: they enumerate one value.
func (p *preprocessor) checkBoundOrder(r opfamily.Resolver, k *scankey.ScanKey) bool {
	lo, hi := k.Array.Low, k.Array.High
	if lo == nil || hi == nil {
		return true
	}
	if p.compareKeys(r, hi, lo, hi) == opfamily.False || p.compareKeys(r, lo, hi, lo) == opfamily.False {
		log.VEventf(p.ctx, 2, "skip array on attribute %d has empty range %s", k.Attno, k.Array)
		return false
	}
	return true
}

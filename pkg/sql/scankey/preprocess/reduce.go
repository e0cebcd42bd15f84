// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package preprocess

import (
	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/util/log"
)

// slotTable holds the surviving key of each strategy on one attribute.
type slotTable [opfamily.NumStrategies]*scankey.ScanKey

// emitOrder is the order in which an attribute's slots are emitted.
var emitOrder = [...]opfamily.Strategy{opfamily.EQ, opfamily.GT, opfamily.GE, opfamily.LT, opfamily.LE}

// reduce consumes the intermediate key list one attribute at a time and
// appends the surviving keys to p.out. It returns false if the keys are
// unsatisfiable.
//
// Within an attribute each key competes for the slot of its strategy; the
// more restrictive key wins. When the family cannot tell which one is more
// restrictive, the incumbent is emitted right away and the newcomer takes
// the slot. At the end of the attribute an equality key makes every other
// key redundant or proves the scan unsatisfiable.
func (p *preprocessor) reduce(inter []*scankey.ScanKey) bool {
	var xform slotTable
	// equalCols counts the leading attributes that have an equality key.
	equalCols := 0
	attno := inter[0].Attno
	r := p.resolver(attno)

	for i := 0; ; i++ {
		var k *scankey.ScanKey
		if i < len(inter) {
			k = inter[i]
		}
		if k == nil || k.Attno != attno {
			priorEqualCols := equalCols
			if !p.finishAttribute(r, &xform, &equalCols) {
				return false
			}
			p.emitSlots(&xform, priorEqualCols == attno-1)
			if k == nil {
				return true
			}
			attno = k.Attno
			r = p.resolver(attno)
			xform = slotTable{}
		}

		if k.IsRowCompare() {
			// Row comparisons are never slotted; the family cannot compare
			// them with anything else.
			p.emit(k, equalCols == attno-1)
			continue
		}

		j := k.Strategy
		incumbent := xform[j]
		if incumbent == nil {
			xform[j] = k
			continue
		}
		switch p.compareKeys(r, k, k, incumbent) {
		case opfamily.True:
			// The new key is at least as restrictive. The incumbent survives a
			// tie, and an equality array that absorbed a scalar equality stays
			// in place.
			if incumbent.Array == nil && !p.sameBound(r, k, incumbent) {
				log.VEventf(p.ctx, 2, "%s makes %s redundant", k, incumbent)
				xform[j] = k
			}
		case opfamily.False:
			if j == opfamily.EQ {
				log.VEventf(p.ctx, 2, "%s contradicts %s", k, incumbent)
				return false
			}
			log.VEventf(p.ctx, 2, "%s makes %s redundant", incumbent, k)
		case opfamily.Indeterminate:
			log.VEventf(p.ctx, 2, "cannot compare %s with %s, keeping both", k, incumbent)
			p.emit(incumbent, equalCols == attno-1)
			xform[j] = k
		}
	}
}

// sameBound reports whether the scalar keys k and incumbent, which share a
// strategy and k is known to be at least as restrictive, restrict equally.
func (p *preprocessor) sameBound(r opfamily.Resolver, k, incumbent *scankey.ScanKey) bool {
	if k.Array != nil {
		return false
	}
	return p.compareKeys(r, incumbent, incumbent, k) == opfamily.True
}

// finishAttribute eliminates the keys of an attribute made redundant by
// another one and counts the attribute's equality. It returns false if the
// keys are unsatisfiable.
func (p *preprocessor) finishAttribute(r opfamily.Resolver, xform *slotTable, equalCols *int) bool {
	if eq := xform[opfamily.EQ]; eq != nil {
		for _, j := range emitOrder[1:] {
			chk := xform[j]
			if chk == nil {
				continue
			}
			if eq.Flags&scankey.SearchNull != 0 {
				// IS NULL contradicts every other key on the attribute.
				log.VEventf(p.ctx, 2, "%s contradicts %s", chk, eq)
				return false
			}
			switch p.compareKeys(r, chk, eq, chk) {
			case opfamily.True:
				log.VEventf(p.ctx, 2, "%s makes %s redundant", eq, chk)
				xform[j] = nil
			case opfamily.False:
				log.VEventf(p.ctx, 2, "%s contradicts %s", chk, eq)
				return false
			}
		}
		*equalCols++
	}

	// Keep only one of < and <=.
	if lt, le := xform[opfamily.LT], xform[opfamily.LE]; lt != nil && le != nil {
		switch p.compareKeys(r, le, lt, le) {
		case opfamily.True:
			xform[opfamily.LE] = nil
		case opfamily.False:
			xform[opfamily.LT] = nil
		}
	}
	// Keep only one of > and >=.
	if gt, ge := xform[opfamily.GT], xform[opfamily.GE]; gt != nil && ge != nil {
		switch p.compareKeys(r, ge, gt, ge) {
		case opfamily.True:
			xform[opfamily.GE] = nil
		case opfamily.False:
			xform[opfamily.GT] = nil
		}
	}
	return true
}

func (p *preprocessor) emitSlots(xform *slotTable, required bool) {
	for _, j := range emitOrder {
		if k := xform[j]; k != nil {
			p.emit(k, required)
		}
	}
}

// emit appends a key to the output, marking it required if every earlier
// attribute has an equality key.
func (p *preprocessor) emit(k *scankey.ScanKey, required bool) {
	out := *k
	if required {
		markRequired(&out)
	}
	if out.Array != nil {
		out.Array.KeyIndex = len(p.out)
	}
	p.out = append(p.out, out)
}

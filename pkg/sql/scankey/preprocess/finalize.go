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

// finalize turns enumerated arrays with a single element into scalar
// equality keys, collects the remaining array descriptors and fills in the
// runtime comparators.
func (p *preprocessor) finalize() Result {
	res := Result{
		Keys:        p.out,
		OrderProcs:  make([]opfamily.OrderProc, len(p.out)),
		Satisfiable: true,
	}
	for i := range p.out {
		k := &p.out[i]
		if a := k.Array; a != nil {
			// The array's comparator stays with the key even when it collapses.
			res.OrderProcs[i] = a.OrderProc
			if a.Kind == scankey.EnumArray && len(a.Elems) == 1 {
				log.VEventf(p.ctx, 2, "array on attribute %d has a single element", k.Attno)
				k.Flags &^= scankey.SearchArray
				k.Arg = a.Elems[0]
				k.Array = nil
				p.collapsed++
				continue
			}
			if a.KeyIndex != i {
				panic(errors.AssertionFailedf("array of key %d refers to key %d", i, a.KeyIndex))
			}
			res.Arrays = append(res.Arrays, a)
			continue
		}
		if k.Strategy == opfamily.EQ && k.Flags&scankey.ReqFwd != 0 &&
			k.Flags&(scankey.SearchNull|scankey.RowHeader) == 0 {
			r := p.resolver(k.Attno)
			if proc, ok := r.OrderProc(r.InputType, k.Subtype); ok {
				res.OrderProcs[i] = proc
			}
		}
	}
	return res
}

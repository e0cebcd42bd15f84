// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package preprocess

import (
	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
)

// fixKey adjusts a key for the options of its index column and returns false
// if the key can never be satisfied.
//
// IS NULL becomes "= NULL" and IS NOT NULL becomes an inequality against
// NULL that holds for every non-NULL value: "< NULL" when NULLs sort last,
// "> NULL" when they sort first. On a descending column the strategy of any
// other key is commuted, so that it describes the key in index order.
//
// fixKey is idempotent: the Desc and NullsFirst flags record that a key was
// fixed.
func fixKey(k *scankey.ScanKey, idx scankey.Index) bool {
	opts := idx.ColumnOptions(k.Attno)
	addFlags := opts.Flags()

	if k.Flags&scankey.IsNull != 0 {
		k.Flags |= addFlags
		switch {
		case k.Flags&scankey.SearchNull != 0:
			k.Strategy = opfamily.EQ
		case k.Flags&scankey.SearchNotNull != 0:
			if opts.NullsFirst {
				k.Strategy = opfamily.GT
			} else {
				k.Strategy = opfamily.LT
			}
		default:
			// Every comparison operator is strict.
			return false
		}
		k.Subtype = types.Unknown
		k.Collation = 0
		return true
	}

	commute(k, addFlags)

	if k.IsRowCompare() {
		// The row is cloned by Alloc.CopyKey, so its members can be modified.
		for j := range k.Row {
			m := &k.Row[j]
			if m.Flags&scankey.IsNull != 0 {
				if j == 0 {
					return false
				}
				// A NULL in a later member only ends the scan at run time.
				break
			}
			commute(m, idx.ColumnOptions(m.Attno).Flags())
			if m.Flags&scankey.RowEnd != 0 {
				break
			}
		}
	}
	return true
}

func commute(k *scankey.ScanKey, addFlags scankey.Flags) {
	if addFlags&scankey.Desc != 0 && k.Flags&scankey.Desc == 0 {
		k.Strategy = k.Strategy.Commute()
	}
	k.Flags |= addFlags
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package preprocess

import (
	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/errors"
)

// markRequired marks a key whose failure on a tuple ends the scan. An upper
// bound in index order (< or <=) ends a forward scan, a lower bound (> or >=)
// ends a backward scan and an equality ends both. The strategy is the one in
// index order, so "a < 5" on a descending column, stored as "> 5", ends
// backward scans.
//
// A row comparison is marked by its own strategy. Only its first member is
// marked as well; the later members are compared on lower order columns and
// cannot end the scan by themselves.
func markRequired(k *scankey.ScanKey) {
	var add scankey.Flags
	switch k.Strategy {
	case opfamily.LT, opfamily.LE:
		add = scankey.ReqFwd
	case opfamily.EQ:
		add = scankey.ReqFwd | scankey.ReqBwd
	case opfamily.GE, opfamily.GT:
		add = scankey.ReqBwd
	default:
		panic(errors.AssertionFailedf("unrecognized strategy %d", k.Strategy))
	}
	k.Flags |= add
	if k.IsRowCompare() {
		k.Row[0].Flags |= add
	}
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package scankey

import "github.com/cockroachdb/btreescan/pkg/sql/sem/tree"

const allocPageSize = 16

// Alloc is the scan-lifetime allocator of scan key preprocessing. Keys,
// descriptors and datum vectors are carved out of pages; Reset drops every
// page, so anything handed out before a Reset must not be used after it.
//
// The zero value is ready to use. An Alloc is not safe for concurrent use.
type Alloc struct {
	keys   []ScanKey
	arrays []ArrayKey
	datums tree.Datums

	// allocated counts the objects handed out since the last Reset.
	allocated int
}

// NewKey returns a zeroed scan key.
func (a *Alloc) NewKey() *ScanKey {
	if len(a.keys) == 0 {
		a.keys = make([]ScanKey, allocPageSize)
	}
	k := &a.keys[0]
	a.keys = a.keys[1:]
	a.allocated++
	return k
}

// CopyKey returns a copy of k. Row members are copied as well, so the copy
// can be modified without touching k.
func (a *Alloc) CopyKey(k *ScanKey) *ScanKey {
	res := a.NewKey()
	*res = *k
	if k.Row != nil {
		res.Row = a.Keys(len(k.Row))
		copy(res.Row, k.Row)
	}
	return res
}

// Keys returns a zeroed slice of n scan keys with capacity n.
func (a *Alloc) Keys(n int) []ScanKey {
	if n > allocPageSize {
		a.allocated += n
		return make([]ScanKey, n)
	}
	if len(a.keys) < n {
		a.keys = make([]ScanKey, allocPageSize)
	}
	res := a.keys[:n:n]
	a.keys = a.keys[n:]
	a.allocated += n
	return res
}

// NewArray returns a zeroed array descriptor with its cursor unset.
func (a *Alloc) NewArray() *ArrayKey {
	if len(a.arrays) == 0 {
		a.arrays = make([]ArrayKey, allocPageSize)
	}
	r := &a.arrays[0]
	a.arrays = a.arrays[1:]
	r.Cur = -1
	a.allocated++
	return r
}

// Datums returns a datum vector of length n. Its capacity is limited to n so
// that appending to it cannot clobber a later allocation.
func (a *Alloc) Datums(n int) tree.Datums {
	if n > allocPageSize*4 {
		a.allocated += n
		return make(tree.Datums, n)
	}
	if len(a.datums) < n {
		a.datums = make(tree.Datums, allocPageSize*4)
	}
	res := a.datums[:n:n]
	a.datums = a.datums[n:]
	a.allocated += n
	return res
}

// Allocated returns the number of objects handed out since the last Reset.
func (a *Alloc) Allocated() int {
	return a.allocated
}

// Reset discards every allocation. Preprocessing has to run again afterwards.
func (a *Alloc) Reset() {
	*a = Alloc{}
}

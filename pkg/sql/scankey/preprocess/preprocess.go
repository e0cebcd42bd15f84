// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package preprocess turns the scan keys of a B-tree index scan into an
// equivalent, minimal and annotated list that can drive an ordered traversal.
//
// The pass runs in stages:
//
//  1. Every input key is copied and fixed up for the index column options:
//     strategies are commuted for descending columns and IS [NOT] NULL
//     becomes a comparison against NULL (fixup.go).
//  2. An intermediate key list is built. Array keys are sorted and
//     deduplicated, or collapsed to their extremum for inequalities, and
//     equality arrays on one column are intersected (arrays.go). Skip arrays
//     are synthesized for leading columns without an equality (skip.go).
//  3. Each column's keys are reduced to at most one key per strategy,
//     contradictions are detected, and surviving keys are marked as required
//     in the scan directions where their failure ends the scan (reduce.go,
//     required.go). Inequalities on a skip array's column become its bounds.
//  4. Skip array bounds are tightened (skip_bounds.go), single element arrays
//     become scalar keys and the runtime comparators are chosen
//     (finalize.go).
//
// Comparisons that the operator family cannot decide never make the result
// wrong; they only leave more keys in it.
package preprocess

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/util/errorutil"
	"github.com/cockroachdb/btreescan/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
)

// Result is the outcome of preprocessing one scan's keys.
type Result struct {
	// Keys are sorted by attribute, then EQ, GT, GE, LT, LE within an
	// attribute, except that keys the family could not compare keep their
	// relative order ahead of the key that displaced them.
	Keys []scankey.ScanKey
	// Arrays are the descriptors of the array keys of Keys, in key order.
	Arrays []*scankey.ArrayKey
	// OrderProcs is parallel to Keys. It holds the runtime comparator of
	// every array key and of every required scalar equality key. Other
	// entries are the zero OrderProc.
	OrderProcs []opfamily.OrderProc
	// Satisfiable is false when no row can match the keys. The other fields
	// are then empty.
	Satisfiable bool
}

// String formats the result one key per line.
func (r *Result) String() string {
	if !r.Satisfiable {
		return "unsatisfiable"
	}
	if len(r.Keys) == 0 {
		return "no keys"
	}
	var b strings.Builder
	arrayIdx := 0
	for i := range r.Keys {
		k := &r.Keys[i]
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d: %s", i, k)
		if k.Array != nil {
			fmt.Fprintf(&b, " array=%d", arrayIdx)
			arrayIdx++
		}
		if i < len(r.OrderProcs) && r.OrderProcs[i].Valid() {
			fmt.Fprintf(&b, " proc=%s", r.OrderProcs[i])
		}
	}
	return b.String()
}

// Preprocess preprocesses the keys of a scan on idx. The keys must be sorted
// by attribute number. They are not modified; every key, descriptor and datum
// vector of the result is allocated from alloc.
//
// Unsatisfiable keys are not an error: Result.Satisfiable is false. Malformed
// input is reported as an assertion failure.
func Preprocess(
	ctx context.Context,
	idx scankey.Index,
	keys []scankey.ScanKey,
	alloc *scankey.Alloc,
	opts Options,
) (_ Result, err error) {
	defer func() {
		if err != nil {
			opts.Metrics.recordError()
		}
	}()
	defer errorutil.CatchPanic(&err)

	p := preprocessor{ctx: ctx, idx: idx, alloc: alloc, opts: opts}
	res := p.run(keys)
	opts.Metrics.record(&res, len(keys), p.skipArrays, p.collapsed)
	if log.V(2) {
		if res.Satisfiable {
			log.VEventf(ctx, 2, "preprocessed %d keys into %d (%d arrays)",
				len(keys), len(res.Keys), len(res.Arrays))
		} else {
			log.VEventf(ctx, 2, "%d keys are unsatisfiable", len(keys))
		}
	}
	return res, nil
}

// preprocessor holds the state of one run.
type preprocessor struct {
	ctx   context.Context
	idx   scankey.Index
	alloc *scankey.Alloc
	opts  Options

	// out is the output key list under construction.
	out []scankey.ScanKey

	skipArrays int
	collapsed  int
}

func (p *preprocessor) run(keys []scankey.ScanKey) Result {
	if len(keys) == 0 {
		return Result{Satisfiable: true}
	}
	validateKeys(p.idx, keys)

	fixed := make([]*scankey.ScanKey, len(keys))
	for i := range keys {
		k := p.alloc.CopyKey(&keys[i])
		k.Flags &^= scankey.RequiredFlags
		if !fixKey(k, p.idx) {
			log.VEventf(p.ctx, 2, "key %d can never be satisfied", i)
			return Result{}
		}
		fixed[i] = k
	}

	inter, ok := p.buildKeyList(fixed)
	if !ok {
		return Result{}
	}
	p.out = p.alloc.Keys(len(inter))[:0]
	if !p.reduce(inter) {
		return Result{}
	}
	if !p.bindSkipArrays() {
		return Result{}
	}
	return p.finalize()
}

func (p *preprocessor) resolver(attno int) opfamily.Resolver {
	return scankey.Resolver(p.idx, attno)
}

// Preprocessor preprocesses the keys of successive scans on one index. Each
// call discards the allocations of the previous one, so a Result is only
// valid until the next call.
type Preprocessor struct {
	index   scankey.Index
	opts    Options
	alloc   scankey.Alloc
	rescans int
}

// NewPreprocessor returns a Preprocessor for scans on idx.
func NewPreprocessor(idx scankey.Index, opts Options) *Preprocessor {
	return &Preprocessor{index: idx, opts: opts}
}

// Rescan resets the scan-lifetime allocator and preprocesses keys.
func (p *Preprocessor) Rescan(ctx context.Context, keys []scankey.ScanKey) (Result, error) {
	p.alloc.Reset()
	p.rescans++
	ctx = logtags.AddTag(ctx, "scan", p.rescans)
	res, err := Preprocess(ctx, p.index, keys, &p.alloc, p.opts)
	if err != nil {
		return Result{}, errors.Wrapf(err, "preprocessing scan %d", p.rescans)
	}
	return res, nil
}

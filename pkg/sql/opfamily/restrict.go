// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opfamily

import "github.com/cockroachdb/btreescan/pkg/sql/types"

// Restricted wraps a family and hides some of its members. It models an
// incomplete family, such as one installed by an extension that never
// declared its cross-type operators.
type Restricted struct {
	Family

	noCrossType   bool
	noSkipSupport bool
	operators     map[operatorKey]struct{}
	orderProcs    map[typePair]struct{}
}

type typePair struct {
	left, right types.T
}

type operatorKey struct {
	s Strategy
	typePair
}

var _ Family = (*Restricted)(nil)

// Restrict returns a family that initially exposes every member of f.
func Restrict(f Family) *Restricted {
	return &Restricted{
		Family:     f,
		operators:  make(map[operatorKey]struct{}),
		orderProcs: make(map[typePair]struct{}),
	}
}

// WithoutCrossType hides every operator and order proc whose operand types
// differ.
func (r *Restricted) WithoutCrossType() *Restricted {
	r.noCrossType = true
	return r
}

// WithoutSkipSupport hides skip support for every type.
func (r *Restricted) WithoutSkipSupport() *Restricted {
	r.noSkipSupport = true
	return r
}

// WithoutOperator hides a single operator.
func (r *Restricted) WithoutOperator(s Strategy, left, right types.T) *Restricted {
	r.operators[operatorKey{s: s, typePair: typePair{left, right}}] = struct{}{}
	return r
}

// WithoutOrderProc hides a single order proc.
func (r *Restricted) WithoutOrderProc(left, right types.T) *Restricted {
	r.orderProcs[typePair{left, right}] = struct{}{}
	return r
}

// Name is part of the Family interface.
func (r *Restricted) Name() string {
	return r.Family.Name() + " (restricted)"
}

// Operator is part of the Family interface.
func (r *Restricted) Operator(s Strategy, left, right types.T) (Operator, bool) {
	if r.noCrossType && left != right {
		return Operator{}, false
	}
	if _, ok := r.operators[operatorKey{s: s, typePair: typePair{left, right}}]; ok {
		return Operator{}, false
	}
	return r.Family.Operator(s, left, right)
}

// OrderProc is part of the Family interface.
func (r *Restricted) OrderProc(left, right types.T) (OrderProc, bool) {
	if r.noCrossType && left != right {
		return OrderProc{}, false
	}
	if _, ok := r.orderProcs[typePair{left, right}]; ok {
		return OrderProc{}, false
	}
	return r.Family.OrderProc(left, right)
}

// SkipSupport is part of the Family interface.
func (r *Restricted) SkipSupport(colType types.T, reverse bool) (*SkipSupport, bool) {
	if r.noSkipSupport {
		return nil, false
	}
	return r.Family.SkipSupport(colType, reverse)
}

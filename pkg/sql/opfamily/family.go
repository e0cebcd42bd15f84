// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package opfamily models B-tree operator families: the comparison operators,
// ordering procedures and skip support that together define comparability
// over a set of related types. Lookups may fail; an incomplete family
// degrades scan key preprocessing but never makes it incorrect.
package opfamily

import (
	"github.com/cockroachdb/btreescan/pkg/sql/sem/tree"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
	"github.com/cockroachdb/errors"
)

// Family is an operator family. Every lookup is deterministic and pure.
type Family interface {
	// Name returns the name of the family, e.g. "integer_ops".
	Name() string

	// Operator returns the comparison operator implementing the strategy for
	// a left operand of type left and a right operand of type right.
	Operator(s Strategy, left, right types.T) (Operator, bool)

	// OrderProc returns the three-way comparison procedure for a left operand
	// of type left and a right operand of type right.
	OrderProc(left, right types.T) (OrderProc, bool)

	// SkipSupport returns the increment/decrement pair for colType. When
	// reverse is set the pair follows descending order: Increment moves
	// towards smaller values and Low is the largest value.
	SkipSupport(colType types.T, reverse bool) (*SkipSupport, bool)
}

type compareFunc func(left, right tree.Datum) int

// Operator is a handle on a comparison operator of a family. The zero value
// is the absent operator.
type Operator struct {
	// Strategy is the real (uncommuted) strategy the operator implements.
	Strategy Strategy
	// Left and Right are the operand types.
	Left, Right types.T

	cmp compareFunc
}

// Valid returns false for the zero Operator.
func (o Operator) Valid() bool { return o.cmp != nil }

// Eval returns left <op> right. Neither operand may be NULL.
func (o Operator) Eval(left, right tree.Datum) bool {
	if o.cmp == nil {
		panic(errors.AssertionFailedf("evaluating an absent operator"))
	}
	c := o.cmp(left, right)
	switch o.Strategy {
	case LT:
		return c < 0
	case LE:
		return c <= 0
	case EQ:
		return c == 0
	case GE:
		return c >= 0
	case GT:
		return c > 0
	}
	panic(errors.AssertionFailedf("operator with invalid strategy %d", o.Strategy))
}

// String implements the fmt.Stringer interface.
func (o Operator) String() string {
	if !o.Valid() {
		return "<absent>"
	}
	return o.Left.String() + " " + o.Strategy.String() + " " + o.Right.String()
}

// OrderProc is a handle on a three-way comparison procedure. The zero value is
// the absent procedure.
type OrderProc struct {
	Left, Right types.T

	cmp compareFunc
}

// Valid returns false for the zero OrderProc.
func (p OrderProc) Valid() bool { return p.cmp != nil }

// Compare returns a negative number, zero or a positive number as left sorts
// before, equal to, or after right in ascending order.
func (p OrderProc) Compare(left, right tree.Datum) int {
	if p.cmp == nil {
		panic(errors.AssertionFailedf("calling an absent order proc"))
	}
	return p.cmp(left, right)
}

// String implements the fmt.Stringer interface.
func (p OrderProc) String() string {
	if !p.Valid() {
		return "<absent>"
	}
	return "cmp(" + p.Left.String() + ", " + p.Right.String() + ")"
}

// SkipSupport moves a value of a column's input type to its immediate
// successor or predecessor in index order. It lets a skip array enumerate the
// column's values and lets strict bounds become non-strict ones.
type SkipSupport struct {
	// Low and High are the first and last values in index order.
	Low, High tree.Datum
	// Increment returns the successor of d in index order, or false if d is
	// already High.
	Increment func(d tree.Datum) (tree.Datum, bool)
	// Decrement returns the predecessor of d in index order, or false if d is
	// already Low.
	Decrement func(d tree.Datum) (tree.Datum, bool)
}

// Reverse returns the skip support for the opposite sort direction.
func (s *SkipSupport) Reverse() *SkipSupport {
	return &SkipSupport{
		Low:       s.High,
		High:      s.Low,
		Increment: s.Decrement,
		Decrement: s.Increment,
	}
}

// tableFamily is a family whose member types are all mutually comparable
// through one comparison function.
type tableFamily struct {
	name    string
	members []types.T
	cmp     compareFunc
	skip    map[types.T]*SkipSupport
}

var _ Family = (*tableFamily)(nil)

func (f *tableFamily) Name() string { return f.name }

func (f *tableFamily) contains(t types.T) bool {
	for _, m := range f.members {
		if m == t {
			return true
		}
	}
	return false
}

func (f *tableFamily) Operator(s Strategy, left, right types.T) (Operator, bool) {
	if !s.IsValid() || !f.contains(left) || !f.contains(right) {
		return Operator{}, false
	}
	return Operator{Strategy: s, Left: left, Right: right, cmp: f.cmp}, true
}

func (f *tableFamily) OrderProc(left, right types.T) (OrderProc, bool) {
	if !f.contains(left) || !f.contains(right) {
		return OrderProc{}, false
	}
	return OrderProc{Left: left, Right: right, cmp: f.cmp}, true
}

func (f *tableFamily) SkipSupport(colType types.T, reverse bool) (*SkipSupport, bool) {
	s, ok := f.skip[colType]
	if !ok {
		return nil, false
	}
	if reverse {
		return s.Reverse(), true
	}
	return s, true
}

// Members returns the types of a family, in declaration order. It returns
// nil for families that do not expose their members.
func Members(f Family) []types.T {
	switch t := f.(type) {
	case *tableFamily:
		return t.members
	case *Restricted:
		return Members(t.Family)
	}
	return nil
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opfamily

import (
	"github.com/cockroachdb/btreescan/pkg/sql/sem/tree"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
)

// Resolver binds a family to the input type of one index column. Either
// operand type may be given as types.Unknown, which stands for the input
// type.
type Resolver struct {
	Family    Family
	InputType types.T
}

// MakeResolver returns a Resolver for a column of type inputType.
func MakeResolver(f Family, inputType types.T) Resolver {
	return Resolver{Family: f, InputType: inputType}
}

// Type resolves t against the column's input type.
func (r Resolver) Type(t types.T) types.T {
	return t.Or(r.InputType)
}

// Operator looks up an operator, resolving Unknown operand types.
func (r Resolver) Operator(s Strategy, left, right types.T) (Operator, bool) {
	return r.Family.Operator(s, r.Type(left), r.Type(right))
}

// OrderProc looks up an order proc, resolving Unknown operand types.
func (r Resolver) OrderProc(left, right types.T) (OrderProc, bool) {
	return r.Family.OrderProc(r.Type(left), r.Type(right))
}

// SameTypeOrderProc returns the order proc of the input type. Every family
// must provide it for the types it indexes.
func (r Resolver) SameTypeOrderProc() (OrderProc, bool) {
	return r.Family.OrderProc(r.InputType, r.InputType)
}

// SkipSupport returns the skip support of the input type.
func (r Resolver) SkipSupport(reverse bool) (*SkipSupport, bool) {
	return r.Family.SkipSupport(r.InputType, reverse)
}

// Compare evaluates left <s> right, where s is a real (uncommuted) strategy
// and the operands have the given types. op is used when its operand types
// match; otherwise the operator is looked up in the family. The result is
// Indeterminate when the family has no suitable operator.
func (r Resolver) Compare(
	s Strategy, op Operator, left tree.Datum, leftType types.T, right tree.Datum, rightType types.T,
) Ternary {
	leftType, rightType = r.Type(leftType), r.Type(rightType)
	if !op.Valid() || op.Strategy != s || op.Left != leftType || op.Right != rightType {
		var ok bool
		if op, ok = r.Family.Operator(s, leftType, rightType); !ok {
			return Indeterminate
		}
	}
	return MakeTernary(op.Eval(left, right))
}

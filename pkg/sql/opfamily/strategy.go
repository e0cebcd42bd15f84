// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opfamily

import "github.com/cockroachdb/redact"

// Strategy names one of the ordering predicates of a B-tree operator family.
// The numbering matches the B-tree strategy numbers, so a zero Strategy is
// never valid.
type Strategy int8

const (
	// InvalidStrategy is the zero value.
	InvalidStrategy Strategy = iota
	// LT is the "<" strategy.
	LT
	// LE is the "<=" strategy.
	LE
	// EQ is the "=" strategy.
	EQ
	// GE is the ">=" strategy.
	GE
	// GT is the ">" strategy.
	GT

	// NumStrategies is one past the largest valid strategy. It sizes tables
	// indexed by strategy.
	NumStrategies
)

var strategyNames = [NumStrategies]string{
	InvalidStrategy: "invalid",
	LT:              "<",
	LE:              "<=",
	EQ:              "=",
	GE:              ">=",
	GT:              ">",
}

// IsValid returns true if s is one of LT, LE, EQ, GE or GT.
func (s Strategy) IsValid() bool {
	return s >= LT && s <= GT
}

// Commute returns the strategy that holds when the operands are swapped, or
// equivalently when the column sorts in the opposite direction. EQ is a fixed
// point.
func (s Strategy) Commute() Strategy {
	if !s.IsValid() {
		return s
	}
	return GT + LT - s
}

// IsLess returns true for LT and LE.
func (s Strategy) IsLess() bool { return s == LT || s == LE }

// IsGreater returns true for GT and GE.
func (s Strategy) IsGreater() bool { return s == GT || s == GE }

// String implements the fmt.Stringer interface.
func (s Strategy) String() string {
	if s < 0 || s >= NumStrategies {
		return "invalid"
	}
	return strategyNames[s]
}

// SafeValue implements the redact.SafeValue interface.
func (Strategy) SafeValue() {}

var _ redact.SafeValue = Strategy(0)

// Ternary is the outcome of a comparison that the operator family might be
// unable to decide.
type Ternary int8

const (
	// Indeterminate means the family lacks the member needed to decide the
	// comparison. Callers must keep both operands.
	Indeterminate Ternary = iota
	// False is a determinate false.
	False
	// True is a determinate true.
	True
)

// MakeTernary converts a determinate boolean.
func MakeTernary(b bool) Ternary {
	if b {
		return True
	}
	return False
}

// String implements the fmt.Stringer interface.
func (t Ternary) String() string {
	switch t {
	case False:
		return "false"
	case True:
		return "true"
	default:
		return "indeterminate"
	}
}

// SafeValue implements the redact.SafeValue interface.
func (Ternary) SafeValue() {}

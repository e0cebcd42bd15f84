// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opfamily

import (
	"math"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/btreescan/pkg/sql/sem/tree"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
	"github.com/cockroachdb/errors"
)

// The built-in families. Each is complete: every member type has every
// operator and order proc against every other member type.
var (
	IntegerOps Family = &tableFamily{
		name:    "integer_ops",
		members: []types.T{types.Int2, types.Int4, types.Int8},
		cmp:     compareIntegers,
		skip: map[types.T]*SkipSupport{
			types.Int2: intSkipSupport(types.Int2, math.MinInt16, math.MaxInt16),
			types.Int4: intSkipSupport(types.Int4, math.MinInt32, math.MaxInt32),
			types.Int8: intSkipSupport(types.Int8, math.MinInt64, math.MaxInt64),
		},
	}
	FloatOps Family = &tableFamily{
		name:    "float_ops",
		members: []types.T{types.Float8, types.Decimal},
		cmp:     compareNumerics,
	}
	NumericOps Family = &tableFamily{
		name:    "numeric_ops",
		members: []types.T{types.Decimal},
		cmp:     compareNumerics,
	}
	TextOps Family = &tableFamily{
		name:    "text_ops",
		members: []types.T{types.String},
		cmp:     compareStrings,
	}
	DatetimeOps Family = &tableFamily{
		name:    "datetime_ops",
		members: []types.T{types.Date, types.Timestamp},
		cmp:     compareDatetimes,
		skip: map[types.T]*SkipSupport{
			types.Date: dateSkipSupport(),
		},
	}
	BoolOps Family = &tableFamily{
		name:    "bool_ops",
		members: []types.T{types.Bool},
		cmp:     compareBools,
		skip: map[types.T]*SkipSupport{
			types.Bool: boolSkipSupport(),
		},
	}
)

var builtins = []Family{IntegerOps, FloatOps, NumericOps, TextOps, DatetimeOps, BoolOps}

// DefaultFamily returns the built-in family used for an index column of type t
// when no family is named explicitly.
func DefaultFamily(t types.T) Family {
	switch t {
	case types.Int2, types.Int4, types.Int8:
		return IntegerOps
	case types.Float8:
		return FloatOps
	case types.Decimal:
		return NumericOps
	case types.String:
		return TextOps
	case types.Date, types.Timestamp:
		return DatetimeOps
	case types.Bool:
		return BoolOps
	}
	panic(errors.AssertionFailedf("no default operator family for type %s", t))
}

// FamilyByName returns the built-in family with the given name.
func FamilyByName(name string) (Family, bool) {
	for _, f := range builtins {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

func compareIntegers(left, right tree.Datum) int {
	l, ok := tree.AsInt64(left)
	r, ok2 := tree.AsInt64(right)
	if !ok || !ok2 {
		panic(errors.AssertionFailedf("integer comparison of %T and %T", left, right))
	}
	return cmpInt64(l, r)
}

func cmpInt64(l, r int64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

// compareNumerics compares floats and decimals. Mixed comparisons are carried
// out exactly in decimal.
func compareNumerics(left, right tree.Datum) int {
	if l, ok := left.(*tree.DFloat); ok {
		if r, ok := right.(*tree.DFloat); ok {
			switch {
			case *l < *r:
				return -1
			case *l > *r:
				return 1
			}
			return 0
		}
	}
	return asDecimal(left).Cmp(asDecimal(right))
}

func asDecimal(d tree.Datum) *apd.Decimal {
	switch t := d.(type) {
	case *tree.DDecimal:
		return &t.Decimal
	case *tree.DFloat:
		dec, err := new(apd.Decimal).SetFloat64(float64(*t))
		if err != nil {
			panic(errors.HandleAsAssertionFailure(err))
		}
		return dec
	}
	panic(errors.AssertionFailedf("numeric comparison of %T", d))
}

func compareStrings(left, right tree.Datum) int {
	l, ok := left.(*tree.DString)
	r, ok2 := right.(*tree.DString)
	if !ok || !ok2 {
		panic(errors.AssertionFailedf("string comparison of %T and %T", left, right))
	}
	return strings.Compare(string(*l), string(*r))
}

// compareDatetimes compares dates and timestamps. A date is midnight at the
// start of the day when compared with a timestamp.
func compareDatetimes(left, right tree.Datum) int {
	if l, ok := left.(*tree.DDate); ok {
		if r, ok := right.(*tree.DDate); ok {
			return cmpInt64(int64(*l), int64(*r))
		}
	}
	return cmpInt64(asMicros(left), asMicros(right))
}

func asMicros(d tree.Datum) int64 {
	switch t := d.(type) {
	case *tree.DDate:
		return t.UnixMicros()
	case *tree.DTimestamp:
		return int64(*t)
	}
	panic(errors.AssertionFailedf("datetime comparison of %T", d))
}

func compareBools(left, right tree.Datum) int {
	l, ok := left.(*tree.DBool)
	r, ok2 := right.(*tree.DBool)
	if !ok || !ok2 {
		panic(errors.AssertionFailedf("bool comparison of %T and %T", left, right))
	}
	switch {
	case bool(*l) == bool(*r):
		return 0
	case !bool(*l):
		return -1
	}
	return 1
}

func intSkipSupport(t types.T, lo, hi int64) *SkipSupport {
	return &SkipSupport{
		Low:  tree.NewIntOfType(t, lo),
		High: tree.NewIntOfType(t, hi),
		Increment: func(d tree.Datum) (tree.Datum, bool) {
			v, ok := tree.AsInt64(d)
			if !ok {
				panic(errors.AssertionFailedf("incrementing %T as %s", d, t))
			}
			if v >= hi {
				return nil, false
			}
			return tree.NewIntOfType(t, v+1), true
		},
		Decrement: func(d tree.Datum) (tree.Datum, bool) {
			v, ok := tree.AsInt64(d)
			if !ok {
				panic(errors.AssertionFailedf("decrementing %T as %s", d, t))
			}
			if v <= lo {
				return nil, false
			}
			return tree.NewIntOfType(t, v-1), true
		},
	}
}

func dateSkipSupport() *SkipSupport {
	asDate := func(d tree.Datum) tree.DDate {
		v, ok := d.(*tree.DDate)
		if !ok {
			panic(errors.AssertionFailedf("stepping %T as a date", d))
		}
		return *v
	}
	return &SkipSupport{
		Low:  tree.NewDDate(math.MinInt32),
		High: tree.NewDDate(math.MaxInt32),
		Increment: func(d tree.Datum) (tree.Datum, bool) {
			v := asDate(d)
			if v == math.MaxInt32 {
				return nil, false
			}
			return tree.NewDDate(v + 1), true
		},
		Decrement: func(d tree.Datum) (tree.Datum, bool) {
			v := asDate(d)
			if v == math.MinInt32 {
				return nil, false
			}
			return tree.NewDDate(v - 1), true
		},
	}
}

func boolSkipSupport() *SkipSupport {
	return &SkipSupport{
		Low:  tree.DBoolFalse,
		High: tree.DBoolTrue,
		Increment: func(d tree.Datum) (tree.Datum, bool) {
			if *d.(*tree.DBool) {
				return nil, false
			}
			return tree.DBoolTrue, true
		},
		Decrement: func(d tree.Datum) (tree.Datum, bool) {
			if !*d.(*tree.DBool) {
				return nil, false
			}
			return tree.DBoolFalse, true
		},
	}
}

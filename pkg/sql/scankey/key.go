// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package scankey defines B-tree scan keys: the predicate conditions that
// drive an ordered traversal of an index, together with the array descriptors
// and the scan-lifetime allocator that preprocessing uses.
package scankey

import (
	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/sem/tree"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
	"github.com/cockroachdb/redact"
)

// ScanKey is one predicate condition on an index column, of the form
// "@Attno <Strategy> Arg".
//
// Once preprocessed, Strategy is expressed in index order: for a descending
// column it is the commuted strategy and Desc is set. Op always carries the
// real operator.
type ScanKey struct {
	// Attno is the 1-based index column the key applies to.
	Attno int
	// Strategy is LT, LE, EQ, GE or GT. For a row comparison it is the
	// inequality of the row operator.
	Strategy opfamily.Strategy
	// Op is the comparison operator. It may be absent for IS [NOT] NULL keys.
	Op opfamily.Operator
	// Subtype is the type of Arg. Unknown means the column's input type.
	Subtype types.T
	// Collation is an opaque collation id.
	Collation int
	Flags     Flags
	// Arg is the argument. It is a *tree.DArray for SearchArray input keys
	// and tree.DNull when IsNull is set.
	Arg tree.Datum
	// Row holds the members of a row comparison. It is only set on RowHeader
	// keys.
	Row []ScanKey
	// Array is the descriptor of an equality array key. It is nil for scalar
	// keys.
	Array *ArrayKey
}

// IsRowCompare returns true for the header of a row comparison.
func (k *ScanKey) IsRowCompare() bool {
	return k.Flags&RowHeader != 0
}

// IsSkip returns true for a synthetic skip array key.
func (k *ScanKey) IsSkip() bool {
	return k.Flags&Skip != 0
}

// IsEqualityArray returns true for an EQ key that owns an array descriptor.
func (k *ScanKey) IsEqualityArray() bool {
	return k.Array != nil
}

// RealStrategy returns the strategy in terms of the values, undoing the
// commutation applied for descending columns.
func (k *ScanKey) RealStrategy() opfamily.Strategy {
	if k.Flags&Desc != 0 {
		return k.Strategy.Commute()
	}
	return k.Strategy
}

// displayFlags are printed after the predicate.
const displayFlags = Desc | NullsFirst | ReqFwd | ReqBwd | MinVal | MaxVal

// SafeFormat implements the redact.SafeFormatter interface. Arguments are
// unsafe; everything else is safe.
func (k ScanKey) SafeFormat(w redact.SafePrinter, _ rune) {
	k.formatPredicate(w)
	if f := k.Flags & displayFlags; f != 0 {
		w.Printf(" [%s]", redact.SafeString(f.String()))
	}
}

func (k *ScanKey) formatPredicate(w redact.SafePrinter) {
	switch {
	case k.IsRowCompare():
		w.SafeRune('(')
		for i := range k.Row {
			if i > 0 {
				w.SafeString(", ")
			}
			w.Printf("@%d", k.Row[i].Attno)
		}
		w.Printf(") %s (", k.Strategy)
		for i := range k.Row {
			if i > 0 {
				w.SafeString(", ")
			}
			formatArg(w, &k.Row[i])
		}
		w.SafeRune(')')

	case k.Flags&SearchNull != 0:
		w.Printf("@%d IS NULL", k.Attno)

	case k.Flags&SearchNotNull != 0:
		w.Printf("@%d IS NOT NULL", k.Attno)

	case k.IsSkip():
		w.Printf("@%d = SKIP", k.Attno)
		if k.Array != nil {
			w.Printf(" %s", k.Array)
		}

	case k.Array != nil:
		w.Printf("@%d %s ANY %s", k.Attno, k.Strategy, k.Array)

	case k.Flags&SearchArray != 0:
		w.Printf("@%d %s ANY ", k.Attno, k.Strategy)
		formatArg(w, k)

	default:
		w.Printf("@%d %s ", k.Attno, k.Strategy)
		formatArg(w, k)
	}
}

func formatArg(w redact.SafePrinter, k *ScanKey) {
	if k.Arg == nil {
		w.SafeString("NULL")
	} else {
		w.Print(k.Arg)
	}
	if k.Subtype != types.Unknown && k.Flags&(SearchArray|IsNull) == 0 {
		w.Printf("::%s", k.Subtype)
	}
}

// String implements the fmt.Stringer interface.
func (k ScanKey) String() string {
	return redact.StringWithoutMarkers(k)
}

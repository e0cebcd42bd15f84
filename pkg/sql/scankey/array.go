// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package scankey

import (
	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/sem/tree"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
	"github.com/cockroachdb/redact"
)

// ArrayKind discriminates the two kinds of array descriptor.
type ArrayKind uint8

const (
	// EnumArray is a user-supplied "= ANY(array)" with an explicit element
	// list.
	EnumArray ArrayKind = iota
	// SkipArray is a synthetic array that enumerates every value of a column,
	// optionally within bounds.
	SkipArray
)

// String implements the fmt.Stringer interface.
func (k ArrayKind) String() string {
	if k == SkipArray {
		return "skip"
	}
	return "enum"
}

// SafeValue implements the redact.SafeValue interface.
func (ArrayKind) SafeValue() {}

// ArrayKey is the descriptor of an equality array key. It is reached through
// ScanKey.Array.
type ArrayKey struct {
	// KeyIndex is the position of the annotated key in the preprocessed key
	// list.
	KeyIndex int
	Kind     ArrayKind

	// ElemType is the type of Elems. Enumerated arrays only.
	ElemType types.T
	// Elems is sorted in index order and duplicate free. Enumerated arrays
	// only.
	Elems tree.Datums
	// Cur is the scan's cursor into Elems; -1 until the scan starts.
	Cur int

	// Low and High bound a skip array. They are owned by the descriptor and
	// never appear in the key list. Their strategies are in index order: Low
	// is GT or GE, High is LT or LE.
	Low, High *ScanKey
	// NullElem is set while a skip array still enumerates NULL.
	NullElem bool
	// Support steps through the column's values. It is nil when the family
	// offers no skip support.
	Support *opfamily.SkipSupport

	// OrderProc is the comparison used while the scan runs: the cross-type
	// (input type, element type) proc for enumerated arrays and the
	// same-type proc for skip arrays.
	OrderProc opfamily.OrderProc
}

// SafeFormat implements the redact.SafeFormatter interface.
func (a *ArrayKey) SafeFormat(w redact.SafePrinter, _ rune) {
	if a.Kind == EnumArray {
		w.SafeRune('{')
		for i, e := range a.Elems {
			if i > 0 {
				w.SafeString(", ")
			}
			w.Print(e)
		}
		w.SafeRune('}')
		return
	}
	if a.Low == nil && a.High == nil {
		if a.NullElem {
			w.SafeString("(all)")
		} else {
			w.SafeString("(not null)")
		}
		return
	}
	w.SafeRune('[')
	if a.Low != nil {
		w.Printf("%s ", a.Low.Strategy)
		formatArg(w, a.Low)
	} else {
		w.SafeString("-inf")
	}
	w.SafeString(", ")
	if a.High != nil {
		w.Printf("%s ", a.High.Strategy)
		formatArg(w, a.High)
	} else {
		w.SafeString("+inf")
	}
	w.SafeRune(']')
}

// String implements the fmt.Stringer interface.
func (a *ArrayKey) String() string {
	return redact.StringWithoutMarkers(a)
}

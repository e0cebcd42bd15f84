// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package scankey

import (
	"strings"

	"github.com/cockroachdb/redact"
)

// Flags is the flag set of a scan key.
type Flags uint32

const (
	// IsNull is set when the argument is NULL.
	IsNull Flags = 1 << iota
	// SearchNull marks an "IS NULL" key.
	SearchNull
	// SearchNotNull marks an "IS NOT NULL" key.
	SearchNotNull
	// SearchArray marks a "= ANY(array)" key, or an inequality against an
	// array before the array is collapsed to its extremum.
	SearchArray
	// RowHeader marks a row comparison. Its members are in ScanKey.Row.
	RowHeader
	// RowMember marks a member of a row comparison.
	RowMember
	// RowEnd marks the last member of a row comparison.
	RowEnd
	// Skip marks a synthetic skip array key.
	Skip
	// Desc records that the strategy was commuted for a descending column.
	Desc
	// NullsFirst records that the column sorts NULLs first.
	NullsFirst
	// ReqFwd marks a key whose failure ends a forward scan.
	ReqFwd
	// ReqBwd marks a key whose failure ends a backward scan.
	ReqBwd
	// MinVal is a runtime flag of skip arrays positioned before the lowest
	// value. Preprocessing preserves it.
	MinVal
	// MaxVal is a runtime flag of skip arrays positioned after the highest
	// value. Preprocessing preserves it.
	MaxVal

	numFlags = iota
)

// OptionFlags are the bits recording index column options.
const OptionFlags = Desc | NullsFirst

// RequiredFlags are the direction markers.
const RequiredFlags = ReqFwd | ReqBwd

var flagNames = [numFlags]string{
	"isnull",
	"search-null",
	"search-not-null",
	"search-array",
	"row-header",
	"row-member",
	"row-end",
	"skip",
	"desc",
	"nulls-first",
	"req-fwd",
	"req-bwd",
	"minval",
	"maxval",
}

// Has returns true if every bit of mask is set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// String implements the fmt.Stringer interface.
func (f Flags) String() string {
	var b strings.Builder
	for i := 0; i < numFlags; i++ {
		if f&(1<<i) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(flagNames[i])
	}
	return b.String()
}

// SafeValue implements the redact.SafeValue interface.
func (Flags) SafeValue() {}

var _ redact.SafeValue = Flags(0)

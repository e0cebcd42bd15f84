// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package types

import "strings"

// T identifies the type of a datum, of a scan key argument, or of the input
// type of an index column's operator class.
//
// The zero value, Unknown, doubles as the "invalid" sentinel used by scan
// keys whose subtype is the same as the column's input type.
type T uint8

const (
	// Unknown is the invalid type. A scan key subtype of Unknown means "same
	// as the index column's input type".
	Unknown T = iota
	// Bool is the boolean type.
	Bool
	// Int2 is a 16-bit integer (SMALLINT).
	Int2
	// Int4 is a 32-bit integer (INT, INTEGER).
	Int4
	// Int8 is a 64-bit integer (BIGINT).
	Int8
	// Float8 is a double precision float.
	Float8
	// Decimal is an arbitrary precision decimal (NUMERIC).
	Decimal
	// String is a variable length string (TEXT).
	String
	// Date is a calendar date with day granularity.
	Date
	// Timestamp is a timestamp without time zone, microsecond granularity.
	Timestamp

	numTypes
)

var typeNames = [numTypes]string{
	Unknown:   "unknown",
	Bool:      "bool",
	Int2:      "int2",
	Int4:      "int4",
	Int8:      "int8",
	Float8:    "float8",
	Decimal:   "decimal",
	String:    "string",
	Date:      "date",
	Timestamp: "timestamp",
}

// Scalar contains every valid type, in declaration order.
var Scalar = []T{Bool, Int2, Int4, Int8, Float8, Decimal, String, Date, Timestamp}

// String implements the fmt.Stringer interface.
func (t T) String() string {
	if t < numTypes {
		return typeNames[t]
	}
	return "invalid"
}

// SafeValue implements the redact.SafeValue interface.
func (T) SafeValue() {}

// IsValid returns true if t is a known, non-Unknown type.
func (t T) IsValid() bool {
	return t > Unknown && t < numTypes
}

// Or returns t, or def if t is Unknown. It implements the subtype convention
// where Unknown stands for the index column's input type.
func (t T) Or(def T) T {
	if t == Unknown {
		return def
	}
	return t
}

// aliases maps SQL spellings to types.
var aliases = map[string]T{
	"bool":             Bool,
	"boolean":          Bool,
	"int2":             Int2,
	"smallint":         Int2,
	"int":              Int4,
	"int4":             Int4,
	"integer":          Int4,
	"int8":             Int8,
	"bigint":           Int8,
	"float":            Float8,
	"float8":           Float8,
	"double":           Float8,
	"decimal":          Decimal,
	"numeric":          Decimal,
	"string":           String,
	"text":             String,
	"varchar":          String,
	"date":             Date,
	"timestamp":        Timestamp,
	"double precision": Float8,
}

// FromName returns the type with the given SQL name (case insensitive).
func FromName(name string) (T, bool) {
	t, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

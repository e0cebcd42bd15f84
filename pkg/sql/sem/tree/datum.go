// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import (
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
	"github.com/cockroachdb/errors"
)

// Datum represents a SQL value used as a scan key argument or as an array
// element. Datums are immutable once constructed; preprocessing replaces
// arguments, it never modifies them.
type Datum interface {
	// ResolvedType returns the type of the datum. DNull resolves to
	// types.Unknown.
	ResolvedType() types.T
	String() string
}

// Datums is a slice of Datum values.
type Datums []Datum

// String formats the datums as a parenthesized, comma-separated list.
func (d Datums) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range d {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	b.WriteByte(')')
	return b.String()
}

type dNull struct{}

// DNull is the NULL Datum.
var DNull Datum = dNull{}

// ResolvedType implements the Datum interface.
func (dNull) ResolvedType() types.T { return types.Unknown }

func (dNull) String() string { return "NULL" }

// DBool is the boolean Datum.
type DBool bool

var (
	// DBoolTrue is a pointer to the DBool(true) value.
	DBoolTrue = func() *DBool { b := DBool(true); return &b }()
	// DBoolFalse is a pointer to the DBool(false) value.
	DBoolFalse = func() *DBool { b := DBool(false); return &b }()
)

// MakeDBool converts its argument to a *DBool, returning either DBoolTrue or
// DBoolFalse.
func MakeDBool(b bool) *DBool {
	if b {
		return DBoolTrue
	}
	return DBoolFalse
}

// ResolvedType implements the Datum interface.
func (*DBool) ResolvedType() types.T { return types.Bool }

func (d *DBool) String() string { return strconv.FormatBool(bool(*d)) }

// DInt2 is the 16-bit integer Datum.
type DInt2 int16

// NewDInt2 is a helper routine to create a *DInt2 initialized from its
// argument.
func NewDInt2(d DInt2) *DInt2 { return &d }

// ResolvedType implements the Datum interface.
func (*DInt2) ResolvedType() types.T { return types.Int2 }

func (d *DInt2) String() string { return strconv.FormatInt(int64(*d), 10) }

// DInt4 is the 32-bit integer Datum.
type DInt4 int32

// NewDInt4 is a helper routine to create a *DInt4 initialized from its
// argument.
func NewDInt4(d DInt4) *DInt4 { return &d }

// ResolvedType implements the Datum interface.
func (*DInt4) ResolvedType() types.T { return types.Int4 }

func (d *DInt4) String() string { return strconv.FormatInt(int64(*d), 10) }

// DInt is the 64-bit integer Datum.
type DInt int64

// NewDInt is a helper routine to create a *DInt initialized from its argument.
func NewDInt(d DInt) *DInt { return &d }

// ResolvedType implements the Datum interface.
func (*DInt) ResolvedType() types.T { return types.Int8 }

func (d *DInt) String() string { return strconv.FormatInt(int64(*d), 10) }

// AsInt64 returns the value of an integer datum of any width.
func AsInt64(d Datum) (int64, bool) {
	switch t := d.(type) {
	case *DInt2:
		return int64(*t), true
	case *DInt4:
		return int64(*t), true
	case *DInt:
		return int64(*t), true
	}
	return 0, false
}

// NewIntOfType returns an integer datum of the given integer type. The caller
// is responsible for range checking.
func NewIntOfType(t types.T, v int64) Datum {
	switch t {
	case types.Int2:
		return NewDInt2(DInt2(v))
	case types.Int4:
		return NewDInt4(DInt4(v))
	case types.Int8:
		return NewDInt(DInt(v))
	}
	panic(errors.AssertionFailedf("%s is not an integer type", t))
}

// DFloat is the double precision float Datum.
type DFloat float64

// NewDFloat is a helper routine to create a *DFloat initialized from its
// argument.
func NewDFloat(d DFloat) *DFloat { return &d }

// ResolvedType implements the Datum interface.
func (*DFloat) ResolvedType() types.T { return types.Float8 }

func (d *DFloat) String() string { return strconv.FormatFloat(float64(*d), 'g', -1, 64) }

// DDecimal is the arbitrary precision decimal Datum.
type DDecimal struct {
	apd.Decimal
}

// ResolvedType implements the Datum interface.
func (*DDecimal) ResolvedType() types.T { return types.Decimal }

func (d *DDecimal) String() string { return d.Decimal.String() }

// DString is the string Datum.
type DString string

// NewDString is a helper routine to create a *DString initialized from its
// argument.
func NewDString(d string) *DString {
	r := DString(d)
	return &r
}

// ResolvedType implements the Datum interface.
func (*DString) ResolvedType() types.T { return types.String }

func (d *DString) String() string {
	return "'" + strings.ReplaceAll(string(*d), "'", "''") + "'"
}

// DDate is the date Datum, stored as days since the Unix epoch.
type DDate int32

// NewDDate is a helper routine to create a *DDate initialized from its
// argument.
func NewDDate(d DDate) *DDate { return &d }

// MakeDDateFromTime truncates t to a date.
func MakeDDateFromTime(t time.Time) *DDate {
	y, m, d := t.Date()
	days := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
	return NewDDate(DDate(days))
}

// ResolvedType implements the Datum interface.
func (*DDate) ResolvedType() types.T { return types.Date }

func (d *DDate) String() string {
	return "'" + time.Unix(int64(*d)*secondsPerDay, 0).UTC().Format(dateFormat) + "'"
}

// UnixMicros returns the timestamp of midnight at the start of the date.
func (d *DDate) UnixMicros() int64 {
	return int64(*d) * secondsPerDay * int64(time.Second/time.Microsecond)
}

// DTimestamp is the timestamp Datum, stored as microseconds since the Unix
// epoch.
type DTimestamp int64

// MakeDTimestamp truncates t to microsecond precision.
func MakeDTimestamp(t time.Time) *DTimestamp {
	d := DTimestamp(t.UnixMicro())
	return &d
}

// ResolvedType implements the Datum interface.
func (*DTimestamp) ResolvedType() types.T { return types.Timestamp }

func (d *DTimestamp) String() string {
	return "'" + time.UnixMicro(int64(*d)).UTC().Format(timestampFormat) + "'"
}

// DArray is the array Datum. NULL elements are represented by DNull.
type DArray struct {
	ParamTyp types.T
	Array    Datums
}

// NewDArray returns a *DArray containing the given elements.
func NewDArray(paramTyp types.T, elems ...Datum) *DArray {
	return &DArray{ParamTyp: paramTyp, Array: elems}
}

// ResolvedType implements the Datum interface. Arrays resolve to their
// element type; scan keys only ever compare elements.
func (d *DArray) ResolvedType() types.T { return d.ParamTyp }

func (d *DArray) String() string {
	var b strings.Builder
	b.WriteString("ARRAY[")
	for i, v := range d.Array {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Deconstruct splits the array into its element type, a fresh vector of the
// element values, and a parallel vector of null flags. NULL elements are left
// as DNull in the value vector.
func (d *DArray) Deconstruct() (types.T, Datums, []bool) {
	elems := make(Datums, len(d.Array))
	nulls := make([]bool, len(d.Array))
	for i, v := range d.Array {
		elems[i] = v
		nulls[i] = v == DNull
	}
	return d.ParamTyp, elems, nulls
}

const (
	secondsPerDay   = 24 * 60 * 60
	dateFormat      = "2006-01-02"
	timestampFormat = "2006-01-02 15:04:05.999999"
)

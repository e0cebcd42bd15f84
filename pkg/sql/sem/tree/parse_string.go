// Copyright 2018 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
	"github.com/cockroachdb/errors"
)

// ParseStringAs reads s as type t. The NULL literal (case insensitive) parses
// as DNull for every type.
func ParseStringAs(t types.T, s string) (Datum, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") {
		return DNull, nil
	}
	d, err := parseStringAs(t, s)
	if d == nil && err == nil {
		return nil, errors.AssertionFailedf("unknown type %s", t)
	}
	return d, err
}

// parseStringAs parses s as type t. nil, nil is returned if t is not a
// supported type.
func parseStringAs(t types.T, s string) (Datum, error) {
	switch t {
	case types.Bool:
		return ParseDBool(s)
	case types.Int2, types.Int4, types.Int8:
		return ParseDIntOfType(t, s)
	case types.Float8:
		return ParseDFloat(s)
	case types.Decimal:
		return ParseDDecimal(s)
	case types.String:
		return NewDString(unquote(s)), nil
	case types.Date:
		return ParseDDate(s)
	case types.Timestamp:
		return ParseDTimestamp(s)
	default:
		return nil, nil
	}
}

// ParseDBool parses and returns the *DBool Datum value represented by the
// provided string, or an error if parsing is unsuccessful.
func ParseDBool(s string) (*DBool, error) {
	b, err := strconv.ParseBool(strings.ToLower(unquote(s)))
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %q as type bool", s)
	}
	return MakeDBool(b), nil
}

// ParseDIntOfType parses an integer of the given width, rejecting values that
// do not fit.
func ParseDIntOfType(t types.T, s string) (Datum, error) {
	bits := 64
	switch t {
	case types.Int2:
		bits = 16
	case types.Int4:
		bits = 32
	}
	v, err := strconv.ParseInt(unquote(s), 10, bits)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %q as type %s", s, t)
	}
	return NewIntOfType(t, v), nil
}

// ParseDFloat parses and returns the *DFloat Datum value represented by the
// provided string, or an error if parsing is unsuccessful.
func ParseDFloat(s string) (*DFloat, error) {
	f, err := strconv.ParseFloat(unquote(s), 64)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %q as type float", s)
	}
	if math.IsNaN(f) {
		return nil, errors.Newf("NaN is not supported as a scan key value")
	}
	return NewDFloat(DFloat(f)), nil
}

// ParseDDecimal parses and returns the *DDecimal Datum value represented by
// the provided string, or an error if parsing is unsuccessful.
func ParseDDecimal(s string) (*DDecimal, error) {
	dd := &DDecimal{}
	if _, _, err := dd.SetString(unquote(s)); err != nil {
		return nil, errors.Wrapf(err, "could not parse %q as type decimal", s)
	}
	if dd.Form != apd.Finite {
		return nil, errors.Newf("non-finite decimal %q is not supported as a scan key value", s)
	}
	return dd, nil
}

// ParseDDate parses a date in YYYY-MM-DD form.
func ParseDDate(s string) (*DDate, error) {
	t, err := time.Parse(dateFormat, unquote(s))
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %q as type date", s)
	}
	return MakeDDateFromTime(t), nil
}

// ParseDTimestamp parses a timestamp in "YYYY-MM-DD HH:MM:SS[.ffffff]" form. A
// bare date is accepted and denotes midnight.
func ParseDTimestamp(s string) (*DTimestamp, error) {
	s = unquote(s)
	for _, layout := range []string{timestampFormat, time.RFC3339Nano, dateFormat} {
		if t, err := time.Parse(layout, s); err == nil {
			return MakeDTimestamp(t), nil
		}
	}
	return nil, errors.Newf("could not parse %q as type timestamp", s)
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}

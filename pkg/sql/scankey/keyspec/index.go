// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package keyspec

import (
	"strings"

	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
	"github.com/cockroachdb/errors"
)

// ParseIndex parses a comma separated list of index columns:
//
//	name type [ASC|DESC] [NULLS FIRST|NULLS LAST] [FAMILY family]
//
// As in SQL, NULLS FIRST is the default for descending columns.
func ParseIndex(name, s string) (*scankey.IndexDesc, error) {
	idx := &scankey.IndexDesc{Name: name}
	for i, def := range strings.Split(s, ",") {
		col, err := parseColumnDef(strings.Fields(def))
		if err != nil {
			return nil, errors.Wrapf(err, "column %d of index %q", i+1, name)
		}
		if _, ok := idx.ColumnOrdinal(col.Name); ok {
			return nil, errors.Newf("index %q has two columns named %q", name, col.Name)
		}
		idx.Columns = append(idx.Columns, col)
	}
	return idx, nil
}

// MustParseIndex is like ParseIndex but panics on error.
func MustParseIndex(name, s string) *scankey.IndexDesc {
	idx, err := ParseIndex(name, s)
	if err != nil {
		panic(err)
	}
	return idx
}

func parseColumnDef(fields []string) (scankey.IndexColumn, error) {
	if len(fields) < 2 {
		return scankey.IndexColumn{}, errors.New("expected a name and a type")
	}
	col := scankey.IndexColumn{Name: fields[0]}
	typ, ok := types.FromName(fields[1])
	if !ok {
		return scankey.IndexColumn{}, errors.Newf("unknown type %q", fields[1])
	}
	col.Type = typ

	nullsSet := false
	for rest := fields[2:]; len(rest) > 0; {
		switch strings.ToLower(rest[0]) {
		case "asc":
			col.Descending = false
			rest = rest[1:]
		case "desc":
			col.Descending = true
			rest = rest[1:]
		case "nulls":
			if len(rest) < 2 {
				return scankey.IndexColumn{}, errors.New("expected FIRST or LAST after NULLS")
			}
			switch strings.ToLower(rest[1]) {
			case "first":
				col.NullsFirst = true
			case "last":
				col.NullsFirst = false
			default:
				return scankey.IndexColumn{}, errors.Newf("expected FIRST or LAST after NULLS, found %q", rest[1])
			}
			nullsSet = true
			rest = rest[2:]
		case "family":
			if len(rest) < 2 {
				return scankey.IndexColumn{}, errors.New("expected a name after FAMILY")
			}
			f, ok := opfamily.FamilyByName(rest[1])
			if !ok {
				return scankey.IndexColumn{}, errors.Newf("unknown operator family %q", rest[1])
			}
			col.Family = f
			rest = rest[2:]
		default:
			return scankey.IndexColumn{}, errors.Newf("unexpected %q", rest[0])
		}
	}
	if !nullsSet {
		col.NullsFirst = col.Descending
	}
	if col.Family != nil && !familyHasType(col.Family, col.Type) {
		return scankey.IndexColumn{}, errors.Newf("operator family %s does not support %s", col.Family.Name(), col.Type)
	}
	return col, nil
}

func familyHasType(f opfamily.Family, t types.T) bool {
	for _, m := range opfamily.Members(f) {
		if m == t {
			return true
		}
	}
	return false
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package scankey

import (
	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
	"github.com/cockroachdb/errors"
)

// ColumnOptions are the per-column options of an index. Sort direction
// affects strategy commutation but not value ordering.
type ColumnOptions struct {
	Descending bool
	NullsFirst bool
}

// Flags returns the scan key flag bits recording the options.
func (o ColumnOptions) Flags() Flags {
	var f Flags
	if o.Descending {
		f |= Desc
	}
	if o.NullsFirst {
		f |= NullsFirst
	}
	return f
}

// Index is the metadata of a B-tree index that scan key preprocessing needs.
// Attribute numbers are 1-based.
type Index interface {
	NumColumns() int
	ColumnType(attno int) types.T
	ColumnOptions(attno int) ColumnOptions
	Family(attno int) opfamily.Family
}

// IndexColumn describes one key column of an IndexDesc.
type IndexColumn struct {
	Name       string
	Type       types.T
	Descending bool
	NullsFirst bool
	// Family defaults to opfamily.DefaultFamily(Type) when nil.
	Family opfamily.Family
}

// IndexDesc is a simple in-memory Index.
type IndexDesc struct {
	Name    string
	Columns []IndexColumn
}

var _ Index = (*IndexDesc)(nil)

// NumColumns is part of the Index interface.
func (d *IndexDesc) NumColumns() int { return len(d.Columns) }

func (d *IndexDesc) column(attno int) *IndexColumn {
	if attno < 1 || attno > len(d.Columns) {
		panic(errors.AssertionFailedf("attribute %d out of range for index %q", attno, d.Name))
	}
	return &d.Columns[attno-1]
}

// ColumnType is part of the Index interface.
func (d *IndexDesc) ColumnType(attno int) types.T { return d.column(attno).Type }

// ColumnOptions is part of the Index interface.
func (d *IndexDesc) ColumnOptions(attno int) ColumnOptions {
	c := d.column(attno)
	return ColumnOptions{Descending: c.Descending, NullsFirst: c.NullsFirst}
}

// Family is part of the Index interface.
func (d *IndexDesc) Family(attno int) opfamily.Family {
	c := d.column(attno)
	if c.Family == nil {
		return opfamily.DefaultFamily(c.Type)
	}
	return c.Family
}

// ColumnOrdinal returns the attribute number of the named column.
func (d *IndexDesc) ColumnOrdinal(name string) (int, bool) {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return i + 1, true
		}
	}
	return 0, false
}

// Resolver returns the operator family resolver of a column.
func Resolver(idx Index, attno int) opfamily.Resolver {
	return opfamily.MakeResolver(idx.Family(attno), idx.ColumnType(attno))
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package scankeytest

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey/keyspec"
	"github.com/cockroachdb/btreescan/pkg/sql/sem/tree"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
)

// Scenario is a random integer index with rows and well-formed scan keys.
type Scenario struct {
	Index *scankey.IndexDesc
	Table *Table
	// Predicates is the keyspec text Keys were parsed from.
	Predicates string
	Keys       []scankey.ScanKey
}

func (s Scenario) String() string {
	var b strings.Builder
	for attno := 1; attno <= s.Index.NumColumns(); attno++ {
		col := &s.Index.Columns[attno-1]
		fmt.Fprintf(&b, "%s %s", col.Name, col.Type)
		if col.Descending {
			b.WriteString(" desc")
		}
		if col.NullsFirst {
			b.WriteString(" nulls first")
		}
		if _, ok := col.Family.(*opfamily.Restricted); ok {
			b.WriteString(" (restricted)")
		}
		b.WriteString(", ")
	}
	fmt.Fprintf(&b, "%d rows: %s", s.Table.Len(), s.Predicates)
	return b.String()
}

var columnNames = []string{"a", "b", "c", "d"}

var intTypes = []types.T{types.Int2, types.Int4, types.Int8}

// RandScenario returns a random scenario. Values are small so that keys and
// rows often coincide.
func RandScenario(rng *rand.Rand) Scenario {
	idx := &scankey.IndexDesc{Name: "rand"}
	numCols := 1 + rng.Intn(len(columnNames))
	crossType := rng.Intn(4) != 0
	for i := 0; i < numCols; i++ {
		col := scankey.IndexColumn{
			Name:       columnNames[i],
			Type:       intTypes[rng.Intn(len(intTypes))],
			Descending: rng.Intn(3) == 0,
			NullsFirst: rng.Intn(3) == 0,
		}
		if !crossType || rng.Intn(5) == 0 {
			f := opfamily.Restrict(opfamily.IntegerOps)
			if !crossType {
				f.WithoutCrossType()
			}
			if rng.Intn(2) == 0 {
				f.WithoutSkipSupport()
			}
			col.Family = f
		}
		idx.Columns = append(idx.Columns, col)
	}

	t := NewTable(idx)
	for n := 10 + rng.Intn(40); n > 0; n-- {
		vals := make(tree.Datums, numCols)
		for i := range vals {
			if rng.Intn(6) == 0 {
				vals[i] = tree.DNull
			} else {
				vals[i] = tree.NewIntOfType(idx.Columns[i].Type, int64(rng.Intn(9)-4))
			}
		}
		t.Insert(vals...)
	}

	g := predicateGen{rng: rng, idx: idx, crossType: crossType}
	preds := make([]string, 1+rng.Intn(5))
	for i := range preds {
		preds[i] = g.predicate()
	}
	text := strings.Join(preds, " AND ")
	return Scenario{
		Index:      idx,
		Table:      t,
		Predicates: text,
		Keys:       keyspec.MustParse(idx, text),
	}
}

type predicateGen struct {
	rng       *rand.Rand
	idx       *scankey.IndexDesc
	crossType bool
}

var operators = []string{"<", "<=", "=", ">=", ">"}

func (g *predicateGen) predicate() string {
	n := g.idx.NumColumns()
	// Favor later columns, which leaves earlier ones to skip arrays.
	attno := n - g.rng.Intn(n) + g.rng.Intn(2)
	if attno > n {
		attno = n
	}
	col := columnNames[attno-1]
	op := operators[g.rng.Intn(len(operators))]

	switch g.rng.Intn(12) {
	case 0:
		return col + " IS NULL"
	case 1, 2:
		return col + " IS NOT NULL"
	case 3, 4:
		return fmt.Sprintf("%s IN %s", col, g.list(true))
	case 5:
		return fmt.Sprintf("%s %s ANY %s", col, op, g.list(op == "="))
	case 6:
		if g.rng.Intn(4) == 0 {
			return col + " = ANY NULL"
		}
		if attno < n {
			return g.rowCompare(attno)
		}
	case 7:
		if g.rng.Intn(4) == 0 {
			return col + " > NULL"
		}
	}
	return fmt.Sprintf("%s %s %s", col, op, g.value(true))
}

func (g *predicateGen) value(allowCast bool) string {
	v := fmt.Sprint(g.rng.Intn(9) - 4)
	if allowCast && g.crossType && g.rng.Intn(4) == 0 {
		v += "::" + intTypes[g.rng.Intn(len(intTypes))].String()
	}
	return v
}

// list returns an array literal. Equality arrays are only cast when the
// family has cross-type order procs for the comparisons at run time.
func (g *predicateGen) list(equality bool) string {
	elems := make([]string, 1+g.rng.Intn(4))
	for i := range elems {
		if g.rng.Intn(8) == 0 {
			elems[i] = "NULL"
		} else {
			elems[i] = g.value(false)
		}
	}
	res := "(" + strings.Join(elems, ", ") + ")"
	if g.crossType && (!equality || g.rng.Intn(2) == 0) && g.rng.Intn(3) == 0 {
		res += "::" + intTypes[g.rng.Intn(len(intTypes))].String()
	}
	return res
}

func (g *predicateGen) rowCompare(attno int) string {
	n := g.idx.NumColumns()
	width := 2 + g.rng.Intn(n-attno)
	cols := make([]string, width)
	vals := make([]string, width)
	for i := range cols {
		cols[i] = columnNames[attno-1+i]
		vals[i] = g.value(true)
		if i > 0 && g.rng.Intn(10) == 0 {
			vals[i] = "NULL"
		}
	}
	op := operators[g.rng.Intn(len(operators))]
	if op == "=" {
		op = ">="
	}
	return fmt.Sprintf("(%s) %s (%s)", strings.Join(cols, ", "), op, strings.Join(vals, ", "))
}

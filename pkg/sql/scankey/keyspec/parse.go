// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package keyspec parses a compact predicate syntax into scan keys for an
// index. It exists for tests and tools; it is not SQL.
//
// Predicates are joined by AND, newlines or semicolons:
//
//	a = 1
//	a IN (1, 2, NULL)
//	a < ANY (3, 4)
//	a = ANY NULL
//	a IS NULL
//	a IS NOT NULL
//	(a, b) > (1, 2)
//	a > 4::int8
//	a IN (1, 2)::int8
//
// Values are parsed as the column type unless cast. The keys are returned
// sorted by attribute, keeping the input order within an attribute.
package keyspec

import (
	"slices"

	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/sql/sem/tree"
	"github.com/cockroachdb/btreescan/pkg/sql/types"
	"github.com/cockroachdb/errors"
)

// Parse parses predicates on the columns of idx.
func Parse(idx *scankey.IndexDesc, s string) ([]scankey.ScanKey, error) {
	toks, err := tokenize(s)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %q", s)
	}
	p := parser{idx: idx, toks: toks}
	keys, err := p.parse()
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %q", s)
	}
	slices.SortStableFunc(keys, func(a, b scankey.ScanKey) int { return a.Attno - b.Attno })
	return keys, nil
}

// MustParse is like Parse but panics on error.
func MustParse(idx *scankey.IndexDesc, s string) []scankey.ScanKey {
	keys, err := Parse(idx, s)
	if err != nil {
		panic(err)
	}
	return keys
}

type parser struct {
	idx  *scankey.IndexDesc
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, text string) error {
	if t := p.next(); !t.is(kind, text) {
		return errors.Newf("expected %q at position %d, found %s", text, t.pos, t)
	}
	return nil
}

func (p *parser) expectKeyword(kw string) error {
	if t := p.next(); !t.isKeyword(kw) {
		return errors.Newf("expected %s at position %d, found %s", kw, t.pos, t)
	}
	return nil
}

func (p *parser) parse() ([]scankey.ScanKey, error) {
	var keys []scankey.ScanKey
	for {
		for p.peek().isKeyword("and") {
			p.next()
		}
		if p.peek().kind == tokEOF {
			return keys, nil
		}
		k, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		if t := p.peek(); t.kind != tokEOF && !t.isKeyword("and") {
			return nil, errors.Newf("expected AND at position %d, found %s", t.pos, t)
		}
	}
}

func (p *parser) parsePredicate() (scankey.ScanKey, error) {
	if p.peek().is(tokPunct, "(") {
		return p.parseRowCompare()
	}
	attno, err := p.parseColumn()
	if err != nil {
		return scankey.ScanKey{}, err
	}

	t := p.next()
	switch {
	case t.isKeyword("is"):
		flags := scankey.IsNull | scankey.SearchNull
		if p.peek().isKeyword("not") {
			p.next()
			flags = scankey.IsNull | scankey.SearchNotNull
		}
		if err := p.expectKeyword("null"); err != nil {
			return scankey.ScanKey{}, err
		}
		return scankey.ScanKey{Attno: attno, Strategy: opfamily.EQ, Flags: flags, Arg: tree.DNull}, nil

	case t.isKeyword("in"):
		return p.parseArray(attno, opfamily.EQ)

	case t.kind == tokOp:
		s, err := strategyFromOp(t)
		if err != nil {
			return scankey.ScanKey{}, err
		}
		if p.peek().isKeyword("any") {
			p.next()
			if p.peek().isKeyword("null") {
				p.next()
				k := p.makeKey(attno, s, tree.DNull, p.idx.ColumnType(attno))
				k.Flags |= scankey.SearchArray
				return k, nil
			}
			return p.parseArray(attno, s)
		}
		d, typ, err := p.parseValue(p.idx.ColumnType(attno))
		if err != nil {
			return scankey.ScanKey{}, err
		}
		return p.makeKey(attno, s, d, typ), nil
	}
	return scankey.ScanKey{}, errors.Newf("expected an operator at position %d, found %s", t.pos, t)
}

// parseArray parses "(v, ...)[::type]" following IN or ANY.
func (p *parser) parseArray(attno int, s opfamily.Strategy) (scankey.ScanKey, error) {
	if err := p.expect(tokPunct, "("); err != nil {
		return scankey.ScanKey{}, err
	}
	// Elements are kept as tokens until the element type is known.
	type elem struct {
		lit  token
		cast types.T
	}
	var elems []elem
	for {
		lit := p.next()
		if lit.kind != tokNumber && lit.kind != tokString && lit.kind != tokIdent {
			return scankey.ScanKey{}, errors.Newf("expected a value at position %d, found %s", lit.pos, lit)
		}
		cast, err := p.parseCast()
		if err != nil {
			return scankey.ScanKey{}, err
		}
		elems = append(elems, elem{lit: lit, cast: cast})
		if p.peek().is(tokPunct, ",") {
			p.next()
			continue
		}
		if err := p.expect(tokPunct, ")"); err != nil {
			return scankey.ScanKey{}, err
		}
		break
	}
	elemType, err := p.parseCast()
	if err != nil {
		return scankey.ScanKey{}, err
	}
	for _, e := range elems {
		if e.cast == types.Unknown {
			continue
		}
		if elemType != types.Unknown && elemType != e.cast {
			return scankey.ScanKey{}, errors.Newf("array mixes %s and %s elements", elemType, e.cast)
		}
		elemType = e.cast
	}
	elemType = elemType.Or(p.idx.ColumnType(attno))

	arr := tree.NewDArray(elemType)
	for _, e := range elems {
		d, err := tree.ParseStringAs(elemType, e.lit.text)
		if err != nil {
			return scankey.ScanKey{}, err
		}
		arr.Array = append(arr.Array, d)
	}
	k := p.makeKey(attno, s, arr, elemType)
	k.Flags |= scankey.SearchArray
	return k, nil
}

// parseRowCompare parses "(col, ...) op (v, ...)".
func (p *parser) parseRowCompare() (scankey.ScanKey, error) {
	start := p.next()
	var cols []int
	for {
		attno, err := p.parseColumn()
		if err != nil {
			return scankey.ScanKey{}, err
		}
		cols = append(cols, attno)
		if p.peek().is(tokPunct, ",") {
			p.next()
			continue
		}
		if err := p.expect(tokPunct, ")"); err != nil {
			return scankey.ScanKey{}, err
		}
		break
	}
	t := p.next()
	if t.kind != tokOp {
		return scankey.ScanKey{}, errors.Newf("expected an operator at position %d, found %s", t.pos, t)
	}
	s, err := strategyFromOp(t)
	if err != nil {
		return scankey.ScanKey{}, err
	}
	if s == opfamily.EQ {
		return scankey.ScanKey{}, errors.Newf("row comparison at position %d must be an inequality", start.pos)
	}
	if err := p.expect(tokPunct, "("); err != nil {
		return scankey.ScanKey{}, err
	}
	row := make([]scankey.ScanKey, len(cols))
	for i, attno := range cols {
		if i > 0 {
			if err := p.expect(tokPunct, ","); err != nil {
				return scankey.ScanKey{}, err
			}
		}
		d, typ, err := p.parseValue(p.idx.ColumnType(attno))
		if err != nil {
			return scankey.ScanKey{}, err
		}
		row[i] = p.makeKey(attno, s, d, typ)
		row[i].Flags |= scankey.RowMember
	}
	if err := p.expect(tokPunct, ")"); err != nil {
		return scankey.ScanKey{}, err
	}
	row[len(row)-1].Flags |= scankey.RowEnd

	hdr := row[0]
	hdr.Flags = scankey.RowHeader
	hdr.Arg = nil
	hdr.Row = row
	return hdr, nil
}

func (p *parser) parseColumn() (int, error) {
	t := p.next()
	if t.kind != tokIdent {
		return 0, errors.Newf("expected a column at position %d, found %s", t.pos, t)
	}
	attno, ok := p.idx.ColumnOrdinal(t.text)
	if !ok {
		return 0, errors.Newf("index %q has no column %q", p.idx.Name, t.text)
	}
	return attno, nil
}

// parseCast parses an optional "::type".
func (p *parser) parseCast() (types.T, error) {
	if !p.peek().is(tokPunct, "::") {
		return types.Unknown, nil
	}
	p.next()
	t := p.next()
	typ, ok := types.FromName(t.text)
	if t.kind != tokIdent || !ok {
		return types.Unknown, errors.Newf("unknown type %s at position %d", t, t.pos)
	}
	return typ, nil
}

// parseValue parses a literal with an optional cast. Uncast literals have
// type def.
func (p *parser) parseValue(def types.T) (tree.Datum, types.T, error) {
	lit := p.next()
	if lit.kind != tokNumber && lit.kind != tokString && lit.kind != tokIdent {
		return nil, types.Unknown, errors.Newf("expected a value at position %d, found %s", lit.pos, lit)
	}
	typ, err := p.parseCast()
	if err != nil {
		return nil, types.Unknown, err
	}
	typ = typ.Or(def)
	d, err := tree.ParseStringAs(typ, lit.text)
	if err != nil {
		return nil, types.Unknown, err
	}
	return d, typ, nil
}

// makeKey returns the key "@attno <s> arg" where arg has type typ. The
// operator is left absent if the column's family lacks it.
func (p *parser) makeKey(attno int, s opfamily.Strategy, arg tree.Datum, typ types.T) scankey.ScanKey {
	colType := p.idx.ColumnType(attno)
	k := scankey.ScanKey{Attno: attno, Strategy: s, Arg: arg}
	if typ != colType {
		k.Subtype = typ
	}
	if arg == tree.DNull {
		k.Flags |= scankey.IsNull
	}
	if op, ok := scankey.Resolver(p.idx, attno).Operator(s, colType, typ); ok {
		k.Op = op
	}
	return k
}

func strategyFromOp(t token) (opfamily.Strategy, error) {
	switch t.text {
	case "<":
		return opfamily.LT, nil
	case "<=":
		return opfamily.LE, nil
	case "=":
		return opfamily.EQ, nil
	case ">=":
		return opfamily.GE, nil
	case ">":
		return opfamily.GT, nil
	}
	return opfamily.InvalidStrategy, errors.Newf("unsupported operator %s at position %d", t, t.pos)
}

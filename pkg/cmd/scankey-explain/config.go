// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package main

import (
	"io"
	"strings"

	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey/keyspec"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey/preprocess"
	"github.com/cockroachdb/btreescan/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// config is the YAML input of the explain command:
//
//	index:
//	  name: t
//	  columns:
//	    - a int4
//	    - b int8 desc nulls last
//	options:
//	  skip_scan: true
//	predicates:
//	  - a > 1
//	  - b = ANY (1, 2)
//	rows:
//	  - [1, 2]
//	  - [NULL, 3]
type config struct {
	Index struct {
		Name    string   `yaml:"name"`
		Columns []string `yaml:"columns"`
	} `yaml:"index"`
	Options    preprocess.Options `yaml:"options"`
	Predicates []string           `yaml:"predicates"`
	// Rows, if set, are loaded into an in-memory index to check that the
	// preprocessed keys select the same rows as the predicates. A null
	// value (NULL or ~) decodes to a nil pointer.
	Rows [][]*string `yaml:"rows"`
}

func loadConfig(r io.Reader) (*config, error) {
	c := config{Options: preprocess.DefaultOptions()}
	c.Index.Name = "t"
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if len(c.Index.Columns) == 0 {
		return nil, errors.New("config has no index columns")
	}
	return &c, nil
}

func (c *config) index() (*scankey.IndexDesc, error) {
	return keyspec.ParseIndex(c.Index.Name, strings.Join(c.Index.Columns, ", "))
}

func (c *config) keys(idx *scankey.IndexDesc) ([]scankey.ScanKey, error) {
	return keyspec.Parse(idx, strings.Join(c.Predicates, " AND "))
}

func (c *config) rows(idx *scankey.IndexDesc) ([]tree.Datums, error) {
	res := make([]tree.Datums, len(c.Rows))
	for i, r := range c.Rows {
		if len(r) != idx.NumColumns() {
			return nil, errors.Newf("row %d has %d values, index has %d columns", i+1, len(r), idx.NumColumns())
		}
		vals := make(tree.Datums, len(r))
		for j, s := range r {
			if s == nil {
				vals[j] = tree.DNull
				continue
			}
			d, err := tree.ParseStringAs(idx.ColumnType(j+1), *s)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d", i+1)
			}
			vals[j] = d
		}
		res[i] = vals
	}
	return res, nil
}

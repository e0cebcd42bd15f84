// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package preprocess

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/btreescan/pkg/sql/opfamily"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey/keyspec"
	"github.com/cockroachdb/datadriven"
)

// TestPreprocess runs preprocessing over the files in testdata. Commands:
//
//	index name=<name> [no-cross-type] [no-skip-support]
//	  One column per line, in keyspec syntax. The flags restrict the
//	  operator family of every column.
//
//	preprocess [no-skip-scan] [no-prefer-inclusive] [skip-prefix-cols=<n>]
//	  One predicate per line. Prints the preprocessed keys.
func TestPreprocess(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		var idx *scankey.IndexDesc
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "index":
				var name string
				d.ScanArgs(t, "name", &name)
				var err error
				idx, err = keyspec.ParseIndex(name, strings.ReplaceAll(strings.TrimSpace(d.Input), "\n", ","))
				if err != nil {
					d.Fatalf(t, "%v", err)
				}
				if d.HasArg("no-cross-type") || d.HasArg("no-skip-support") {
					for i := range idx.Columns {
						f := opfamily.Restrict(idx.Family(i + 1))
						if d.HasArg("no-cross-type") {
							f.WithoutCrossType()
						}
						if d.HasArg("no-skip-support") {
							f.WithoutSkipSupport()
						}
						idx.Columns[i].Family = f
					}
				}
				return fmt.Sprintf("%s: %d columns", idx.Name, idx.NumColumns())

			case "preprocess":
				if idx == nil {
					d.Fatalf(t, "no index")
				}
				opts := DefaultOptions()
				opts.SkipScan = !d.HasArg("no-skip-scan")
				opts.PreferInclusive = !d.HasArg("no-prefer-inclusive")
				if d.HasArg("skip-prefix-cols") {
					d.ScanArgs(t, "skip-prefix-cols", &opts.SkipPrefixCols)
				}
				keys, err := keyspec.Parse(idx, d.Input)
				if err != nil {
					d.Fatalf(t, "%v", err)
				}
				var alloc scankey.Alloc
				res, err := Preprocess(context.Background(), idx, keys, &alloc, opts)
				if err != nil {
					return fmt.Sprintf("error: %v", err)
				}
				return res.String()

			default:
				d.Fatalf(t, "unknown command %s", d.Cmd)
				return ""
			}
		})
	})
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey/preprocess"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey/scankeytest"
	"github.com/cockroachdb/btreescan/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type explainConfig struct {
	format      string
	showMetrics bool
}

func makeExplainCommand() *cobra.Command {
	var cfg explainConfig
	cmd := &cobra.Command{
		Use:   "explain <config.yaml | ->",
		Short: "print the preprocessed scan keys of a set of predicates",
		Long: `Reads an index definition, preprocessing options and predicates from a
YAML file (or stdin with "-") and prints the scan keys preprocessing produces.
If the file lists rows, they are loaded into an in-memory index and the rows
selected by the preprocessed keys are checked against the predicates.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			c, err := loadConfig(in)
			if err != nil {
				return err
			}
			return runExplain(cmd.Context(), cmd.OutOrStdout(), c, cfg)
		},
	}
	cfg.addFlags(cmd.Flags())
	return cmd
}

func (cfg *explainConfig) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&cfg.format, "format", "table", "output format: table or tsv")
	fs.BoolVar(&cfg.showMetrics, "metrics", false, "print preprocessing metrics")
}

func runExplain(ctx context.Context, w io.Writer, c *config, cfg explainConfig) error {
	idx, err := c.index()
	if err != nil {
		return err
	}
	keys, err := c.keys(idx)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	opts := c.Options
	opts.Metrics = preprocess.NewMetrics()
	if err := opts.Metrics.Register(reg); err != nil {
		return err
	}

	var alloc scankey.Alloc
	res, err := preprocess.Preprocess(ctx, idx, keys, &alloc, opts)
	if err != nil {
		return err
	}
	log.Infof(ctx, "preprocessed %d keys on index %s", len(keys), idx.Name)

	if !res.Satisfiable {
		log.Warningf(ctx, "predicates on index %s contradict each other, the scan returns no rows", idx.Name)
		fmt.Fprintln(w, "unsatisfiable")
	} else if err := printKeys(w, idx, &res, cfg.format); err != nil {
		return err
	}

	if len(c.Rows) > 0 {
		if err := verifyRows(w, c, idx, keys, &res); err != nil {
			return err
		}
	}
	if cfg.showMetrics {
		return printMetrics(w, reg)
	}
	return nil
}

func printKeys(w io.Writer, idx *scankey.IndexDesc, res *preprocess.Result, format string) error {
	cols := []string{"key", "column", "condition", "array", "order proc"}
	rows := make([][]string, len(res.Keys))
	arrays := 0
	for i := range res.Keys {
		k := &res.Keys[i]
		var array, proc string
		if k.Array != nil {
			array = strconv.Itoa(arrays)
			arrays++
		}
		if res.OrderProcs[i].Valid() {
			proc = res.OrderProcs[i].String()
		}
		rows[i] = []string{strconv.Itoa(i), idx.Columns[k.Attno-1].Name, k.String(), array, proc}
	}

	switch format {
	case "table":
		table := tablewriter.NewWriter(w)
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		table.SetHeader(cols)
		table.AppendBulk(rows)
		table.Render()
		fmt.Fprintf(w, "(%d key%s)\n", len(rows), plural(len(rows)))
	case "tsv":
		csvWriter := csv.NewWriter(w)
		csvWriter.Comma = '\t'
		_ = csvWriter.Write(cols)
		_ = csvWriter.WriteAll(rows)
		return csvWriter.Error()
	default:
		return errors.Newf("unknown format %q", format)
	}
	return nil
}

// verifyRows checks that the preprocessed keys select the rows the input
// keys select, and that required keys would end a scan correctly.
func verifyRows(
	w io.Writer, c *config, idx *scankey.IndexDesc, keys []scankey.ScanKey, res *preprocess.Result,
) error {
	vals, err := c.rows(idx)
	if err != nil {
		return err
	}
	t := scankeytest.NewTable(idx)
	for _, v := range vals {
		t.Insert(v...)
	}
	expected := t.Select(keys)
	var actual []scankeytest.Row
	if res.Satisfiable {
		actual = t.Select(res.Keys)
		if err := scankeytest.CheckRequired(t, res.Keys); err != nil {
			return errors.Wrap(err, "required keys")
		}
	}
	if a, e := scankeytest.FormatRows(actual), scankeytest.FormatRows(expected); a != e {
		return errors.Newf("preprocessed keys select\n%s\nbut the predicates select\n%s", a, e)
	}
	fmt.Fprintf(w, "%d of %d row%s selected\n", len(actual), t.Len(), plural(t.Len()))
	_, err = io.WriteString(w, scankeytest.FormatRows(actual))
	return err
}

func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(w, "%s %g\n", mf.GetName(), m.GetCounter().GetValue())
		}
	}
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

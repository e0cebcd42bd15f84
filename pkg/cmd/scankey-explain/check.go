// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey/preprocess"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey/scankeytest"
	"github.com/cockroachdb/btreescan/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type checkConfig struct {
	iterations int
	seed       int64
	noSkipScan bool
}

func makeCheckCommand() *cobra.Command {
	var cfg checkConfig
	cmd := &cobra.Command{
		Use:   "check",
		Short: "preprocess random scenarios and verify the selected rows",
		Long: `Generates random integer indexes, rows and predicates, preprocesses the
predicates and checks that the preprocessed keys select the same rows and
mark required keys soundly. Stops at the first failing scenario.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
	cfg.addFlags(cmd.Flags())
	return cmd
}

func (cfg *checkConfig) addFlags(fs *pflag.FlagSet) {
	fs.IntVar(&cfg.iterations, "iterations", 1000, "number of scenarios")
	fs.Int64Var(&cfg.seed, "seed", 0, "random seed")
	fs.BoolVar(&cfg.noSkipScan, "no-skip-scan", false, "disable skip arrays")
}

func runCheck(ctx context.Context, w io.Writer, cfg checkConfig) error {
	rng := rand.New(rand.NewSource(cfg.seed))
	opts := preprocess.DefaultOptions()
	opts.SkipScan = !cfg.noSkipScan
	every := log.Every(5 * time.Second)
	// The first call always succeeds. Spend it so that progress is first
	// reported after one interval.
	_ = every.ShouldLog()
	var unsat int
	for i := 0; i < cfg.iterations; i++ {
		if i > 0 && every.ShouldLog() {
			log.Infof(ctx, "checked %d of %d scenarios", i, cfg.iterations)
		}
		s := scankeytest.RandScenario(rng)
		log.VEventf(ctx, 2, "scenario %d: %s", i, s)
		satisfiable, err := checkScenario(ctx, s, opts)
		if err != nil {
			log.Errorf(ctx, "scenario %d failed; reproduce with --seed=%d --iterations=%d", i, cfg.seed, i+1)
			return errors.Wrapf(err, "scenario %d (seed %d): %s", i, cfg.seed, s)
		}
		if !satisfiable {
			unsat++
		}
	}
	fmt.Fprintf(w, "%d scenarios ok (%d unsatisfiable)\n", cfg.iterations, unsat)
	return nil
}

func checkScenario(ctx context.Context, s scankeytest.Scenario, opts preprocess.Options) (bool, error) {
	var alloc scankey.Alloc
	res, err := preprocess.Preprocess(ctx, s.Index, s.Keys, &alloc, opts)
	if err != nil {
		return false, err
	}
	expected := scankeytest.FormatRows(s.Table.Select(s.Keys))
	if !res.Satisfiable {
		if expected != "" {
			return false, errors.Newf("unsatisfiable, but the predicates select\n%s", expected)
		}
		return false, nil
	}
	if actual := scankeytest.FormatRows(s.Table.Select(res.Keys)); actual != expected {
		return true, errors.Newf("keys\n%s\nselect\n%s\nbut the predicates select\n%s", res.String(), actual, expected)
	}
	if err := scankeytest.CheckRequired(s.Table, res.Keys); err != nil {
		return true, errors.Wrapf(err, "keys\n%s", res.String())
	}
	return true, nil
}

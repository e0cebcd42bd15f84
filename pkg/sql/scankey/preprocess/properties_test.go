// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package preprocess

import (
	"context"
	"fmt"
	"testing"

	"github.com/cockroachdb/btreescan/pkg/sql/scankey"
	"github.com/cockroachdb/btreescan/pkg/sql/scankey/scankeytest"
	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
)

func genScenario() gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		return gopter.NewGenResult(scankeytest.RandScenario(genParams.Rng), gopter.NoShrinker)
	}
}

func rowIDs(rows []scankeytest.Row) []int {
	ids := make([]int, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	return ids
}

// checkLayout verifies the shape of a satisfiable result.
func checkLayout(res *Result) string {
	if len(res.OrderProcs) != len(res.Keys) {
		return fmt.Sprintf("%d order procs for %d keys", len(res.OrderProcs), len(res.Keys))
	}
	arrays := 0
	for i := range res.Keys {
		k := &res.Keys[i]
		if i > 0 && k.Attno < res.Keys[i-1].Attno {
			return fmt.Sprintf("key %d: attribute %d after %d", i, k.Attno, res.Keys[i-1].Attno)
		}
		if k.Array == nil {
			continue
		}
		if arrays >= len(res.Arrays) || res.Arrays[arrays] != k.Array {
			return fmt.Sprintf("key %d: array descriptor %d out of order", i, arrays)
		}
		if k.Array.KeyIndex != i {
			return fmt.Sprintf("key %d: descriptor points at key %d", i, k.Array.KeyIndex)
		}
		if !res.OrderProcs[i].Valid() {
			return fmt.Sprintf("key %d: array without an order proc", i)
		}
		arrays++
	}
	if arrays != len(res.Arrays) {
		return fmt.Sprintf("%d descriptors for %d array keys", len(res.Arrays), arrays)
	}
	return ""
}

func TestPreprocessProperties(t *testing.T) {
	ctx := context.Background()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 2000
	properties := gopter.NewProperties(parameters)

	properties.Property("preserves the selected rows", prop.ForAll(
		func(s scankeytest.Scenario) string {
			var alloc scankey.Alloc
			res, err := Preprocess(ctx, s.Index, s.Keys, &alloc, DefaultOptions())
			if err != nil {
				return fmt.Sprintf("%s: error: %v", s, err)
			}
			expected := rowIDs(s.Table.Select(s.Keys))
			if !res.Satisfiable {
				if len(expected) != 0 {
					return fmt.Sprintf("%s: unsatisfiable but selects rows %v", s, expected)
				}
				return ""
			}
			if diff := cmp.Diff(expected, rowIDs(s.Table.Select(res.Keys))); diff != "" {
				return fmt.Sprintf("%s:\n%s\nrows (-input +preprocessed):\n%s", s, res.String(), diff)
			}
			return ""
		},
		genScenario(),
	))

	properties.Property("required keys end the scan soundly", prop.ForAll(
		func(s scankeytest.Scenario) string {
			var alloc scankey.Alloc
			res, err := Preprocess(ctx, s.Index, s.Keys, &alloc, DefaultOptions())
			if err != nil {
				return fmt.Sprintf("%s: error: %v", s, err)
			}
			if err := scankeytest.CheckRequired(s.Table, res.Keys); err != nil {
				return fmt.Sprintf("%s:\n%s\n%v", s, res.String(), err)
			}
			return ""
		},
		genScenario(),
	))

	properties.Property("well-formed output", prop.ForAll(
		func(s scankeytest.Scenario) string {
			var alloc scankey.Alloc
			res, err := Preprocess(ctx, s.Index, s.Keys, &alloc, DefaultOptions())
			if err != nil {
				return fmt.Sprintf("%s: error: %v", s, err)
			}
			if !res.Satisfiable {
				if len(res.Keys) != 0 || len(res.Arrays) != 0 {
					return fmt.Sprintf("%s: unsatisfiable result carries keys", s)
				}
				return ""
			}
			if msg := checkLayout(&res); msg != "" {
				return fmt.Sprintf("%s:\n%s\n%s", s, res.String(), msg)
			}
			return ""
		},
		genScenario(),
	))

	properties.Property("deterministic across rescans", prop.ForAll(
		func(s scankeytest.Scenario) string {
			p := NewPreprocessor(s.Index, DefaultOptions())
			first, err := p.Rescan(ctx, s.Keys)
			if err != nil {
				return fmt.Sprintf("%s: error: %v", s, err)
			}
			expected := first.String()
			second, err := p.Rescan(ctx, s.Keys)
			if err != nil {
				return fmt.Sprintf("%s: error: %v", s, err)
			}
			if actual := second.String(); actual != expected {
				return fmt.Sprintf("%s:\nfirst:\n%s\nsecond:\n%s", s, expected, actual)
			}
			return ""
		},
		genScenario(),
	))

	properties.Property("skip scan off preserves the selected rows", prop.ForAll(
		func(s scankeytest.Scenario) string {
			opts := DefaultOptions()
			opts.SkipScan = false
			var alloc scankey.Alloc
			res, err := Preprocess(ctx, s.Index, s.Keys, &alloc, opts)
			if err != nil {
				return fmt.Sprintf("%s: error: %v", s, err)
			}
			for i := range res.Keys {
				if res.Keys[i].IsSkip() {
					return fmt.Sprintf("%s: skip key %d with skip scan off", s, i)
				}
			}
			if !res.Satisfiable {
				return ""
			}
			if diff := cmp.Diff(rowIDs(s.Table.Select(s.Keys)), rowIDs(s.Table.Select(res.Keys))); diff != "" {
				return fmt.Sprintf("%s:\n%s\nrows (-input +preprocessed):\n%s", s, res.String(), diff)
			}
			return ""
		},
		genScenario(),
	))

	properties.TestingRun(t)
}

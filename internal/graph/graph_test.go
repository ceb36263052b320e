// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBindAndLookup(t *testing.T) {
	g := New()
	n := g.InsertLeaf(NON_NIL)
	g.Bind("x", n)

	got, ok := g.Lookup("x")
	require.True(t, ok)
	require.Same(t, n, got)

	_, ok = g.Lookup("y")
	require.False(t, ok)
}

func TestBindStickyUndefined(t *testing.T) {
	g := New()
	poison := g.InsertLeaf(UNDEFINED)
	g.Bind("x", poison)

	fresh := g.InsertLeaf(NON_NIL)
	g.Bind("x", fresh)

	got, ok := g.Lookup("x")
	require.True(t, ok)
	require.Same(t, poison, got, "rebinding an UNDEFINED entry must be ignored")
}

func TestBindOverwritesNonUndefined(t *testing.T) {
	g := New()
	first := g.InsertLeaf(DONT_KNOW)
	g.Bind("x", first)

	second := g.InsertLeaf(NON_NIL)
	g.Bind("x", second)

	got, ok := g.Lookup("x")
	require.True(t, ok)
	require.Same(t, second, got)
}

func TestTransformLeafToRef(t *testing.T) {
	g := New()
	leaf := g.InsertLeaf(DONT_KNOW)
	target := g.InsertLeaf(NON_NIL)

	require.NoError(t, g.TransformLeafToRef(leaf, target))
	require.True(t, leaf.IsRef())
	require.Same(t, target, leaf.Target())
	require.Equal(t, NON_NIL, leaf.Status())
}

func TestTransformLeafToRefRejectsRef(t *testing.T) {
	g := New()
	target := g.InsertLeaf(NON_NIL)
	ref := g.InsertRef(target)

	err := g.TransformLeafToRef(ref, target)
	require.Error(t, err)
}

func TestOffsetNodeCachesByBaseAndOffset(t *testing.T) {
	g := New()
	n1 := g.OffsetNode("base", 4)
	n2 := g.OffsetNode("base", 4)
	require.Same(t, n1, n2)

	n3 := g.OffsetNode("base", 8)
	require.NotSame(t, n1, n3)
}

func TestOffsetNodeUnknownIndexAliases(t *testing.T) {
	g := New()
	// Two unknown-index GEPs on the same base must alias (spec
	// section 4.1): a null store through one is visible through
	// the other.
	n1 := g.OffsetNode("base", -1)
	n2 := g.OffsetNode("base", -1)
	require.Same(t, n1, n2)
}

func TestOffsetNodeInheritsBaseStatus(t *testing.T) {
	g := New()
	base := g.InsertLeaf(NON_NIL)
	g.Bind("base", base)

	n := g.OffsetNode("base", 0)
	require.Equal(t, NON_NIL, n.Status())
}

func TestOffsetNodeDefaultsToDontKnowForUnboundBase(t *testing.T) {
	g := New()
	n := g.OffsetNode("nope", 0)
	require.Equal(t, DONT_KNOW, n.Status())
}

func TestDerefIsError(t *testing.T) {
	g := New()
	nilNode := g.InsertLeaf(NIL)
	undefNode := g.InsertLeaf(UNDEFINED)
	okNode := g.InsertLeaf(NON_NIL)
	dkNode := g.InsertLeaf(DONT_KNOW)
	ref := g.InsertRef(okNode)

	require.True(t, DerefIsError(nilNode))
	require.True(t, DerefIsError(undefNode))
	require.False(t, DerefIsError(okNode))
	require.False(t, DerefIsError(dkNode))
	require.False(t, DerefIsError(ref))
	require.False(t, DerefIsError(nil))
}

func TestDumpIsStable(t *testing.T) {
	g := New()
	a := g.InsertLeaf(NIL)
	b := g.InsertRef(a)
	g.Bind("p", b)
	g.OffsetNode("p", 4)

	var buf1, buf2 bytes.Buffer
	g.Dump(&buf1)
	g.Dump(&buf2)
	require.Equal(t, buf1.String(), buf2.String())
	require.Contains(t, buf1.String(), "LEAF/NIL")
	require.Contains(t, buf1.String(), "REF ->")
}

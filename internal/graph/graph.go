// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"
	"io"
	"sort"
)

// ValueID names a program value, as assigned by whatever host feeds
// instructions to the interpreter. Graph has no dependency on that
// host's representation (package ir) or on any other core component;
// it only needs values to be comparable.
type ValueID string

// OffsetKey canonicalizes a pointer-arithmetic derivation: a GEP with
// base b and constant-summed index k maps to the same node for every
// (b, k) computed during one function's analysis. Unknown indices
// canonicalize to Offset == -1 (spec section 3, "Entry map").
type OffsetKey struct {
	Base   ValueID
	Offset int64
}

// Graph is the in-memory store of abstract pointer nodes plus the
// program-value entry map, scoped to the analysis of one function. No
// state here is shared across functions: a fresh Graph is constructed
// per function analyzed (spec section 5).
type Graph struct {
	nodes   []*Node
	entries map[ValueID]*Node
	offsets map[OffsetKey]*Node
}

// New returns an empty Graph, ready to analyze one function.
func New() *Graph {
	return &Graph{
		entries: make(map[ValueID]*Node),
		offsets: make(map[OffsetKey]*Node),
	}
}

func (g *Graph) alloc(n *Node) *Node {
	n.id = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return n
}

// InsertLeaf allocates a fresh Leaf node with the given status.
func (g *Graph) InsertLeaf(status Status) *Node {
	return g.alloc(&Node{kind: kindLeaf, status: status})
}

// InsertRef allocates a fresh Ref node pointing at target.
// Precondition (invariant 2): target is non-nil.
func (g *Graph) InsertRef(target *Node) *Node {
	return g.alloc(&Node{kind: kindRef, target: target})
}

// Bind makes value an entry point to node, replacing any prior
// binding — except that a value already bound to Leaf(UNDEFINED) is
// sticky (invariant 3) and the bind is silently ignored.
func (g *Graph) Bind(value ValueID, node *Node) {
	if prev, ok := g.entries[value]; ok && prev.kind == kindLeaf && prev.status == UNDEFINED {
		return
	}
	g.entries[value] = node
}

// Lookup returns the node bound to value, if any.
func (g *Graph) Lookup(value ValueID) (*Node, bool) {
	n, ok := g.entries[value]
	return n, ok
}

// OffsetNode returns the canonical node for (base, offset), creating
// one on first mention. A freshly created offset node's status equals
// the current status of base's node (DONT_KNOW if base is unbound),
// per spec section 4.1.
func (g *Graph) OffsetNode(base ValueID, offset int64) *Node {
	key := OffsetKey{Base: base, Offset: offset}
	if n, ok := g.offsets[key]; ok {
		return n
	}
	status := DONT_KNOW
	if baseNode, ok := g.Lookup(base); ok {
		status = baseNode.Status()
	}
	n := g.InsertLeaf(status)
	g.offsets[key] = n
	return n
}

// SetRef mutates node in place into a Ref pointing at target, whatever
// node's previous kind was. Unlike TransformLeafToRef this never
// errors: a Store overwriting an address that is already a Ref (the
// "reassignment" case, spec section 8 scenario 2) retargets it in
// place rather than allocating a disconnected replacement, so every
// other live reference to node — an offset-cache entry, another
// program value bound to the same node — observes the update (spec
// section 3, invariant 4: at most one node per (base, offset)). A
// no-op if node is already Leaf(UNDEFINED): invariant 3's poison is
// sticky even under a reassigning store.
func (g *Graph) SetRef(node *Node, target *Node) {
	if node.kind == kindLeaf && node.status == UNDEFINED {
		return
	}
	node.kind = kindRef
	node.target = target
	node.status = 0
}

// TransformLeafToRef mutates node in place from a Leaf into a Ref
// pointing at target. It fails (returning an error, never panicking
// on host-controlled input) if node is already a Ref: a Ref->Ref
// transform would violate invariant 2's "never leaves a dangling
// target" discipline by definition, since there is no prior leaf
// status to discard.
func (g *Graph) TransformLeafToRef(node *Node, target *Node) error {
	if node.kind != kindLeaf {
		return fmt.Errorf("graph: cannot transform node %d into a ref: already a ref", node.id)
	}
	node.kind = kindRef
	node.target = target
	node.status = 0
	return nil
}

// Dump writes a stable textual rendering of the graph: every node by
// id, every entry-map binding, and every offset-node map entry. The
// format matches spec section 6's description of the on-demand graph
// dump.
func (g *Graph) Dump(w io.Writer) {
	fmt.Fprintln(w, "nodes:")
	for _, n := range g.nodes {
		switch n.kind {
		case kindLeaf:
			marker := ""
			if DerefIsError(n) {
				marker = " (!)"
			}
			fmt.Fprintf(w, "  n%d: LEAF/%s%s\n", n.id, n.status, marker)
		case kindRef:
			fmt.Fprintf(w, "  n%d: REF -> n%d (depth %d)\n", n.id, n.target.id, n.Depth())
		}
	}

	var values []string
	for v := range g.entries {
		values = append(values, string(v))
	}
	sort.Strings(values)
	fmt.Fprintln(w, "entries:")
	for _, v := range values {
		fmt.Fprintf(w, "  %s -> n%d\n", v, g.entries[ValueID(v)].id)
	}

	type offEntry struct {
		key OffsetKey
		id  int
	}
	var offs []offEntry
	for k, n := range g.offsets {
		offs = append(offs, offEntry{k, n.id})
	}
	sort.Slice(offs, func(i, j int) bool {
		if offs[i].key.Base != offs[j].key.Base {
			return offs[i].key.Base < offs[j].key.Base
		}
		return offs[i].key.Offset < offs[j].key.Offset
	})
	fmt.Fprintln(w, "offsets:")
	for _, o := range offs {
		fmt.Fprintf(w, "  (%s, %d) -> n%d\n", o.key.Base, o.key.Offset, o.id)
	}
}

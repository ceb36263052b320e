// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

// Status is the four-element lattice of pointer nullability tags.
//
// NIL and NON_NIL are the two concrete facts; DONT_KNOW is their join
// (least information); UNDEFINED is a poison element absorbing under
// meet, marking a value derived from an already-reported unsafe
// dereference.
type Status int

const (
	NIL Status = iota
	NON_NIL
	DONT_KNOW
	UNDEFINED
)

func (s Status) String() string {
	switch s {
	case NIL:
		return "NIL"
	case NON_NIL:
		return "NON_NIL"
	case DONT_KNOW:
		return "DONT_KNOW"
	case UNDEFINED:
		return "UNDEFINED"
	default:
		return "???"
	}
}

// Meet computes a ⊓ b: the lattice's greatest-lower-bound operation,
// used when refining a single fact with new information. UNDEFINED is
// absorbing; otherwise DONT_KNOW meets either concrete fact to that
// fact, and NIL meets NON_NIL to DONT_KNOW (conflicting facts yield
// the least-informative one).
func Meet(a, b Status) Status {
	if a == UNDEFINED || b == UNDEFINED {
		return UNDEFINED
	}
	if a == b {
		return a
	}
	if a == DONT_KNOW {
		return b
	}
	if b == DONT_KNOW {
		return a
	}
	// a, b are the two distinct concrete facts {NIL, NON_NIL}.
	return DONT_KNOW
}

// Join computes a ⊔ b: the dual of Meet, used when merging facts
// observed along multiple flows into the graph (see the per-block
// assumption discussed in spec section 5). UNDEFINED is absorbing in
// both directions to keep the poison property sound.
func Join(a, b Status) Status {
	if a == UNDEFINED || b == UNDEFINED {
		return UNDEFINED
	}
	if a == b {
		return a
	}
	return DONT_KNOW
}

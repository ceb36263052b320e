// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package verdict holds the per-instruction verdict taxonomy (spec
// section 7) and the Diagnostic Classifier (C3, spec section 4.3):
// the one place that turns a graph observation — an attempted
// dereference of a node whose status is NIL or UNDEFINED — into an
// error kind.
package verdict

import "github.com/nullptr-analysis/nullcheck/internal/graph"

// family occupies the high bits of Kind so DEREF-family and
// INTERNAL-family verdicts can be told apart with a mask, matching
// spec section 7's "bit-encoded families" framing.
type family int

const (
	familyOK family = iota << 4
	familyDeref
	familyInternal
)

const familyMask = 0xF0

// Kind is a per-instruction verdict.
type Kind int

const (
	OK                Kind = Kind(familyOK)
	NULL_DEREF        Kind = Kind(familyDeref) | 1
	UNDEFINED_DEREF   Kind = Kind(familyDeref) | 2
	MISSING_DEFINITION Kind = Kind(familyInternal) | 1
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "OK"
	case NULL_DEREF:
		return "NULL_DEREF"
	case UNDEFINED_DEREF:
		return "UNDEFINED_DEREF"
	case MISSING_DEFINITION:
		return "MISSING_DEFINITION"
	default:
		return "UNKNOWN_VERDICT"
	}
}

// IsDeref reports whether k belongs to the DEREF family: an invalid
// dereference was attempted, but analysis of the function continues
// (after poisoning the result to UNDEFINED).
func (k Kind) IsDeref() bool { return int(k)&familyMask == int(familyDeref) }

// IsInternal reports whether k belongs to the INTERNAL family: the
// analysis cannot proceed soundly and the Function Driver must halt.
func (k Kind) IsInternal() bool { return int(k)&familyMask == int(familyInternal) }

// Classify maps the status of a node whose dereference was attempted
// to a verdict: NIL -> NULL_DEREF, UNDEFINED -> UNDEFINED_DEREF,
// anything else -> OK (spec section 4.3). Classify does not itself
// decide whether a dereference was attempted; callers (internal/interp)
// only invoke it once graph.DerefIsError has already said yes.
func Classify(status graph.Status) Kind {
	switch status {
	case graph.NIL:
		return NULL_DEREF
	case graph.UNDEFINED:
		return UNDEFINED_DEREF
	default:
		return OK
	}
}

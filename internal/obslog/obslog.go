// Package obslog scopes a zerolog.Logger to one of the analyzer's
// components, the same way the pack's own graph/trie code does:
// log.With().Str("subcomponent", name).Logger().
//
// Logging here never influences a verdict; it is a pure observer of
// the interpreter and driver's decisions, useful when a fixture
// produces a surprising result.
package obslog

import (
	"io"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w at the given level, scoped under
// "subcomponent" = component.
func New(w io.Writer, level zerolog.Level, component string) zerolog.Logger {
	base := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return base.With().Str("subcomponent", component).Logger()
}

// Discard returns a logger that drops everything, for callers (mainly
// tests) that don't want log noise.
func Discard() zerolog.Logger {
	return zerolog.Nop()
}

// Package parse implements the incremental, error-tolerant Earley engine at
// the heart of the module. It maintains a chart of per-position item columns
// over a token buffer, extends the chart column-by-column as tokens arrive,
// truncates and re-extends it on edits, and exposes a deterministic
// concrete-syntax-tree traversal reconstructed from the chart's back-pointer
// DAG.
package parse

import (
	"github.com/dekarrin/sedit/grammar"
)

// ItemRef addresses one Earley item in the chart by its column index and its
// insertion position within that column. Refs always point to the same column
// or an earlier one than the item holding them, so truncating the chart never
// leaves a dangling ref in a surviving column.
type ItemRef struct {
	Col   int
	Index int
}

// linkKind says how an item came to have one more symbol of progress than its
// predecessor (or, for linkError, how it survived a token no item could
// scan).
type linkKind uint8

const (
	// linkScan: the symbol before the dot is a terminal matched against the
	// token at index tok.
	linkScan linkKind = iota

	// linkComplete: the symbol before the dot is a non-terminal whose
	// completed item is cause.
	linkComplete

	// linkEmpty: the symbol before the dot is the non-terminal sym, advanced
	// over without consuming input because sym derives empty.
	linkEmpty

	// linkError: the item is a copy of pred carried across an unparseable
	// token; cause is the synthesised ERROR leaf item covering that token.
	linkError
)

// backlink records one justification for an item. Items deduplicated within a
// column merge their backlinks, so an item may carry several; the
// first-inserted one drives the deterministic CST traversal.
type backlink struct {
	kind  linkKind
	pred  ItemRef
	cause ItemRef
	tok   int
	sym   grammar.SymbolID
}

// item is a dotted rule with the column its match began at, plus the
// backlinks justifying its progress. err marks items synthesised during error
// recovery; their effective left-hand side is the ERROR pseudo-non-terminal,
// so they never complete anything and never count as an accepting item.
// Advancing an err item by a genuine scan or completion produces a regular
// item again.
type item struct {
	rule   int
	dot    int
	origin int
	err    bool
	links  []backlink
}

// itemKey is the deduplication identity of an item within a column.
type itemKey struct {
	rule   int
	dot    int
	origin int
}

func (it *item) key() itemKey {
	return itemKey{rule: it.rule, dot: it.dot, origin: it.origin}
}

// equalItems compares two items structurally, backlinks included.
func equalItems(a, b *item) bool {
	if a.rule != b.rule || a.dot != b.dot || a.origin != b.origin || a.err != b.err {
		return false
	}
	if len(a.links) != len(b.links) {
		return false
	}
	for i := range a.links {
		if a.links[i] != b.links[i] {
			return false
		}
	}
	return true
}

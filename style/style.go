// Package style maps concrete-syntax-tree paths to opaque style values. A
// sheet holds an ordered list of path patterns; looking up the path of a CST
// node answers whether the node itself has a style, inherits one from an
// ancestor, or has none. The package also carries the per-symbol completion
// strings an editor offers alongside the engine's predictions.
package style

import (
	"github.com/dekarrin/sedit/grammar"
)

type atomKind uint8

const (
	atomExact atomKind = iota
	atomStar
	atomSkipTo
)

// Atom is one element of a path pattern. Construct atoms with Exact, Star,
// and SkipTo.
type Atom struct {
	kind atomKind
	sym  grammar.SymbolID
}

// Exact matches exactly one path element equal to sym.
func Exact(sym grammar.SymbolID) Atom {
	return Atom{kind: atomExact, sym: sym}
}

// Star matches zero or more consecutive path elements equal to sym.
func Star(sym grammar.SymbolID) Atom {
	return Atom{kind: atomStar, sym: sym}
}

// SkipTo consumes path elements until one equal to sym is seen; that element
// is consumed as the match.
func SkipTo(sym grammar.SymbolID) Atom {
	return Atom{kind: atomSkipTo, sym: sym}
}

// Pattern is a sequence of atoms matched against a CST path from the root
// down.
type Pattern []Atom

// Match is the outcome of a sheet lookup.
type Match int

const (
	// MatchNothing means no pattern matched the path or any prefix of it.
	MatchNothing Match = iota

	// MatchParent means no pattern matched the whole path, but the path is
	// on a styled spine: either some pattern was fully consumed on a strict
	// prefix of it (an ancestor node has a style) or some pattern is still
	// partway through it (a descendant node may have one). Either way the
	// node has no style of its own and takes its parent's.
	MatchParent

	// MatchFound means a pattern matched the whole path; the looked-up style
	// applies to the node itself.
	MatchFound
)

type entry[S any] struct {
	pattern Pattern
	style   S
}

// Sheet is an ordered collection of path patterns paired with styles of an
// arbitrary type, plus a table of human-readable completion strings per
// symbol. The zero value is empty and usable.
type Sheet[S any] struct {
	entries     []entry[S]
	predictions map[grammar.SymbolID][]string
}

// Add appends a pattern with its style to the sheet. Insertion order breaks
// ties between equally long full matches.
func (sh *Sheet[S]) Add(pattern Pattern, style S) {
	sh.entries = append(sh.entries, entry[S]{pattern: pattern, style: style})
}

// Len returns the number of patterns in the sheet.
func (sh *Sheet[S]) Len() int {
	return len(sh.entries)
}

// activePat tracks one pattern still in the running during a lookup, with a
// cursor into its atom list.
type activePat struct {
	entry  int
	cursor int
}

// Lookup matches a CST path against every pattern in lockstep and reports
// the best outcome. When several patterns fully match the path, the one with
// the longest pattern wins, and insertion order decides between equals. The
// style is only meaningful when the returned Match is MatchFound.
func (sh *Sheet[S]) Lookup(path []grammar.SymbolID) (S, Match) {
	var zero S

	active := make([]activePat, len(sh.entries))
	for i := range sh.entries {
		active[i] = activePat{entry: i}
	}

	res := MatchNothing
	for _, s := range path {
		i := 0
		for i < len(active) {
			a := &active[i]
			pat := sh.entries[a.entry].pattern
			if a.cursor >= len(pat) {
				// consumed before the path ran out: an ancestor of the
				// current node carries this style.
				res = MatchParent
				active = append(active[:i], active[i+1:]...)
				continue
			}
			atom := pat[a.cursor]
			switch atom.kind {
			case atomExact:
				if atom.sym == s {
					a.cursor++
					i++
				} else {
					active = append(active[:i], active[i+1:]...)
				}
			case atomStar:
				if atom.sym == s {
					// consume the element, stay on the star.
					i++
				} else {
					// retry this element against the next atom.
					a.cursor++
				}
			case atomSkipTo:
				if atom.sym == s {
					a.cursor++
				}
				i++
			}
		}
		if len(active) == 0 {
			return zero, res
		}
	}

	// the path is exhausted; of the patterns consumed exactly at its end,
	// the longest wins, ties by insertion order.
	found := -1
	for _, a := range active {
		pat := sh.entries[a.entry].pattern
		if a.cursor != len(pat) {
			continue
		}
		if found < 0 || len(pat) > len(sh.entries[found].pattern) {
			found = a.entry
		}
	}
	if found >= 0 {
		return sh.entries[found].style, MatchFound
	}
	if len(active) > 0 {
		// patterns are still partway through the path; a descendant of this
		// node can match them.
		return zero, MatchParent
	}
	return zero, res
}

// AddPrediction sets the completion strings offered when the engine predicts
// the given symbol.
func (sh *Sheet[S]) AddPrediction(sym grammar.SymbolID, completions []string) {
	if sh.predictions == nil {
		sh.predictions = map[grammar.SymbolID][]string{}
	}
	cp := make([]string, len(completions))
	copy(cp, completions)
	sh.predictions[sym] = cp
}

// Predictions returns the completion strings for the given symbol, or an
// empty slice when none were registered.
func (sh *Sheet[S]) Predictions(sym grammar.SymbolID) []string {
	return sh.predictions[sym]
}

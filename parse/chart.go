package parse

import (
	"github.com/dekarrin/sedit/grammar"
)

// column holds every Earley item considered valid after consuming a given
// prefix of the input. Items are kept in insertion order; ambiguous grammars
// would otherwise produce trees that differ run-to-run, and the incremental
// re-parse equivalence guarantees depend on deterministic replay.
type column struct {
	items []item

	// seen maps item identity to its index in items.
	seen map[itemKey]int

	// waiting maps a symbol to the items whose dot sits directly before it.
	// The completer uses it to find the items an inner completion advances.
	waiting map[grammar.SymbolID][]int
}

func newColumn() *column {
	return &column{
		seen:    map[itemKey]int{},
		waiting: map[grammar.SymbolID][]int{},
	}
}

// add inserts an item into the column, deduplicating by (rule, dot, origin).
// If the item is already present, the backlink (when given) is merged into
// the existing item instead. nextSym is the symbol after the dot; wait must
// be false when the dot is at the end of the rule. Returns the item's index
// and whether it was newly inserted.
func (c *column) add(it item, link *backlink, nextSym grammar.SymbolID, wait bool) (int, bool) {
	key := it.key()
	if idx, ok := c.seen[key]; ok {
		if link != nil {
			existing := &c.items[idx]
			dup := false
			for i := range existing.links {
				if existing.links[i] == *link {
					dup = true
					break
				}
			}
			if !dup {
				existing.links = append(existing.links, *link)
			}
		}
		return idx, false
	}

	if link != nil {
		it.links = []backlink{*link}
	}
	c.items = append(c.items, it)
	idx := len(c.items) - 1
	c.seen[key] = idx
	if wait {
		c.waiting[nextSym] = append(c.waiting[nextSym], idx)
	}
	return idx, true
}

// equalColumns compares two columns structurally: same items with the same
// backlinks in the same insertion order. The derived indexes are not
// compared; they are a function of the item list.
func equalColumns(a, b *column) bool {
	if len(a.items) != len(b.items) {
		return false
	}
	for i := range a.items {
		if !equalItems(&a.items[i], &b.items[i]) {
			return false
		}
	}
	return true
}

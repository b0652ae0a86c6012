// Package char provides grammar matchers for editors whose tokens are runes,
// along with cursor-motion predicates for line-oriented text. It covers the
// most common use of the library: character-level grammars over text buffers.
package char

import (
	"fmt"
	"strings"

	"github.com/dekarrin/sedit/grammar"
)

// Matcher is the matcher type for rune tokens. The concrete implementations
// in this package are Exact, Range, and NoneOf; all of them are plain
// comparable values, so identical matchers intern to the same terminal during
// grammar compilation.
type Matcher interface {
	grammar.Matcher[rune]
}

// Exact matches a single rune.
type Exact rune

// Matches returns whether t is exactly the matcher's rune.
func (m Exact) Matches(t rune) bool {
	return rune(m) == t
}

// Key returns the value identity of the matcher.
func (m Exact) Key() string {
	return fmt.Sprintf("=%q", rune(m))
}

// Range matches every rune in the inclusive interval [From, To].
type Range struct {
	From rune
	To   rune
}

// Matches returns whether t lies in the matcher's interval, both limits
// included.
func (m Range) Matches(t rune) bool {
	return m.From <= t && t <= m.To
}

// Key returns the value identity of the matcher.
func (m Range) Key() string {
	return fmt.Sprintf("[%q-%q]", m.From, m.To)
}

// NoneOf matches every rune except those in the string.
type NoneOf string

// Matches returns whether t is absent from the matcher's rune set.
func (m NoneOf) Matches(t rune) bool {
	return !strings.ContainsRune(string(m), t)
}

// Key returns the value identity of the matcher.
func (m NoneOf) Key() string {
	return fmt.Sprintf("!%q", string(m))
}

// StartOfLine reports whether the given buffer position sits at the start of
// a line, i.e. at position 0 or directly after a newline. It has the
// signature expected by the editor's predicate-driven cursor motion.
func StartOfLine(tokens []rune, pos int) bool {
	if pos == 0 {
		return true
	}
	return tokens[pos-1] == '\n'
}

// EndOfLine reports whether the given buffer position sits at the end of a
// line, i.e. at the end of the buffer or on a newline. It has the signature
// expected by the editor's predicate-driven cursor motion.
func EndOfLine(tokens []rune, pos int) bool {
	if pos == len(tokens) {
		return true
	}
	return tokens[pos] == '\n'
}

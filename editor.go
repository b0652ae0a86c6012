// Package sedit provides structured, incremental editing of token streams
// under a context-free grammar.
//
// An Editor pairs a linear token buffer with an incremental Earley parser.
// Every edit triggers a synchronous re-parse of the changed tail of the
// buffer; the parse chart for the unchanged prefix is kept as is. The parser
// keeps going through ill-formed input by synthesising error entries, so the
// concrete syntax tree exposed through CSTIter is always available, with
// ERROR nodes covering the ranges that did not parse. Downstream consumers
// use the tree and its node paths for syntax highlighting (package style),
// completion hints (Predictions), and structure-aware navigation.
//
// While the primary use is a text editor holding rune tokens (see package
// char), the token type is arbitrary.
package sedit

import (
	"github.com/dekarrin/sedit/grammar"
	"github.com/dekarrin/sedit/parse"
)

// Editor is a token buffer with a cursor and a synchronously re-parsing
// parser. Create one with New.
//
// The grammar is not meant to be changed on the fly; create a fresh Editor
// to switch languages. An Editor is not safe for concurrent use, but any
// number of editors may share one compiled grammar.
type Editor[T any, M grammar.Matcher[T]] struct {
	buf    buffer[T]
	parser *parse.Parser[T, M]
}

// New creates an editor with an empty buffer for the given grammar.
func New[T any, M grammar.Matcher[T]](g grammar.CompiledGrammar[T, M]) *Editor[T, M] {
	return &Editor[T, M]{
		parser: parse.New(g),
	}
}

// reparse marks the buffer changed at start and feeds every token from there
// to the end of the buffer back through the parser.
func (ed *Editor[T, M]) reparse(start int) {
	ed.parser.BufferChanged(start)
	for i := start; i < ed.buf.len(); i++ {
		ed.parser.Update(i, ed.buf.tokens[i])
	}
}

// Enter inserts a single token at the cursor position, advances the cursor
// past it, and re-parses.
func (ed *Editor[T, M]) Enter(t T) {
	c := ed.buf.cursor
	ed.buf.enter(t)
	ed.reparse(c)
}

// EnterSlice inserts the given tokens at the cursor position, advances the
// cursor past them, and re-parses once at the end.
func (ed *Editor[T, M]) EnterSlice(ts []T) {
	c := ed.buf.cursor
	for _, t := range ts {
		ed.buf.enter(t)
	}
	ed.reparse(c)
}

// Delete removes up to n tokens to the right of the cursor and re-parses.
// The cursor stays where it is.
func (ed *Editor[T, M]) Delete(n int) {
	ed.buf.delete(n)
	ed.reparse(ed.buf.cursor)
}

// Replace substitutes the tokens in [start, end) with the given tokens,
// leaves the cursor at the end of the inserted run, and re-parses from
// start.
func (ed *Editor[T, M]) Replace(start, end int, ts []T) {
	ed.buf.deleteRange(start, end)
	ed.buf.setCursor(start)
	ed.EnterSlice(ts)
}

// Clear removes all content from the buffer and re-parses (to the empty
// chart).
func (ed *Editor[T, M]) Clear() {
	ed.buf.clear()
	ed.reparse(0)
}

// Len returns the number of tokens in the buffer.
func (ed *Editor[T, M]) Len() int {
	return ed.buf.len()
}

// Cursor returns the cursor position, in [0, Len()].
func (ed *Editor[T, M]) Cursor() int {
	return ed.buf.cursor
}

// SetCursor moves the cursor to the given index if it is valid; otherwise
// the cursor stays.
func (ed *Editor[T, M]) SetCursor(index int) {
	ed.buf.setCursor(index)
}

// MoveStart moves the cursor to the start of the buffer.
func (ed *Editor[T, M]) MoveStart() {
	ed.buf.moveStart()
}

// MoveEnd moves the cursor past the last token of the buffer.
func (ed *Editor[T, M]) MoveEnd() {
	ed.buf.moveEnd()
}

// MoveForward moves the cursor up to steps positions towards the end of the
// buffer.
func (ed *Editor[T, M]) MoveForward(steps int) {
	ed.buf.moveForward(steps)
}

// MoveBackward moves the cursor up to steps positions towards the beginning
// of the buffer. It returns whether the cursor moved at all.
func (ed *Editor[T, M]) MoveBackward(steps int) bool {
	return ed.buf.moveBackward(steps)
}

// SkipForward moves the cursor towards the end of the buffer until the
// predicate holds. The cursor stays if the predicate never holds.
func (ed *Editor[T, M]) SkipForward(until Predicate[T]) {
	ed.buf.skipForward(until)
}

// SkipBackward moves the cursor towards the beginning of the buffer until
// the predicate holds. The cursor stays if the predicate never holds.
func (ed *Editor[T, M]) SkipBackward(until Predicate[T]) {
	ed.buf.skipBackward(until)
}

// SearchForward returns the first position at or after start for which the
// predicate holds, or false if there is none.
func (ed *Editor[T, M]) SearchForward(start int, until Predicate[T]) (int, bool) {
	return ed.buf.searchForward(start, until)
}

// SearchBackward returns the first position at or before start for which the
// predicate holds, searching towards the beginning, or false if there is
// none.
func (ed *Editor[T, M]) SearchBackward(start int, until Predicate[T]) (int, bool) {
	return ed.buf.searchBackward(start, until)
}

// Span returns the tokens in [start, end). The returned slice aliases the
// buffer and must not be modified or held across edits.
func (ed *Editor[T, M]) Span(start, end int) []T {
	return ed.buf.span(start, end)
}

// CSTIter returns a new pre-order traversal of the current parse tree. The
// traversal is only valid until the next edit.
func (ed *Editor[T, M]) CSTIter() *parse.CSTIter[T, M] {
	return ed.parser.CSTIter()
}

// PredictionsAtCursor returns the symbols the grammar expects next at the
// cursor position.
func (ed *Editor[T, M]) PredictionsAtCursor() []grammar.SymbolID {
	return ed.parser.Predictions(ed.buf.cursor)
}

// Verdict reports whether the whole buffer currently parses as a complete
// sentence of the grammar.
func (ed *Editor[T, M]) Verdict() parse.Verdict {
	return ed.parser.Verdict()
}

// Parser exposes the underlying parser for reading (chart dumps, column
// predictions, CST traversals at positions other than the cursor).
func (ed *Editor[T, M]) Parser() *parse.Parser[T, M] {
	return ed.parser
}

// Grammar returns the compiled grammar the editor parses under.
func (ed *Editor[T, M]) Grammar() grammar.CompiledGrammar[T, M] {
	return ed.parser.Grammar()
}

// SpanString returns the tokens of a rune editor in [start, end) as a
// string.
func SpanString[M grammar.Matcher[rune]](ed *Editor[rune, M], start, end int) string {
	return string(ed.Span(start, end))
}

// String returns the whole buffer of a rune editor as a string.
func String[M grammar.Matcher[rune]](ed *Editor[rune, M]) string {
	return string(ed.Span(0, ed.Len()))
}

// Package tomlgram defines the character-level grammar the sedit shell uses
// to edit TOML files (Cargo.toml being the motivating case), along with the
// default look-and-feel for it: path styles and per-symbol completions.
//
// The grammar covers the practical core of TOML: comments, bare and quoted
// keys, dotted keys, key-value pairs, basic and literal strings, integers,
// floats, booleans, arrays, and standard and array tables. It is not a full
// TOML validator; the point is to give the editor useful structure, and the
// engine's error tolerance absorbs the rest.
package tomlgram

import (
	"github.com/dekarrin/sedit/char"
	"github.com/dekarrin/sedit/grammar"
	"github.com/dekarrin/sedit/internal/laf"
	"github.com/dekarrin/sedit/style"
)

// Non-terminal names of the grammar, for wiring style sheets and tests.
const (
	NTToml        = "TOML"
	NTExpressions = "EXPRESSIONS"
	NTExpression  = "EXPRESSION"
	NTNewline     = "NEWLINE"
	NTWS          = "WS"
	NTComment     = "COMMENT"
	NTMaybeComm   = "MAYBE_COMMENT"
	NTKeyval      = "KEYVAL"
	NTKey         = "KEY"
	NTSimpleKey   = "SIMPLE_KEY"
	NTUnquotedKey = "UNQUOTED_KEY"
	NTQuotedKey   = "QUOTED_KEY"
	NTDotSep      = "DOT_SEP"
	NTKeyvalSep   = "KEYVAL_SEP"
	NTVal         = "VAL"
	NTString      = "STRING"
	NTBasicString = "BASIC_STRING"
	NTLiteralStr  = "LITERAL_STRING"
	NTBoolean     = "BOOLEAN"
	NTInteger     = "INTEGER"
	NTFloat       = "FLOAT"
	NTArray       = "ARRAY"
	NTTable       = "TABLE"
	NTStdTable    = "STD_TABLE"
	NTArrayTable  = "ARRAY_TABLE"
)

type rule = grammar.TextRule[rune, char.Matcher]

func newRule(lhs string) rule {
	return grammar.NewRule[rune, char.Matcher](lhs)
}

// word gives the matchers for a literal character sequence.
func word(s string) []char.Matcher {
	ms := make([]char.Matcher, 0, len(s))
	for _, r := range s {
		ms = append(ms, char.Exact(r))
	}
	return ms
}

// Grammar compiles the TOML grammar. The result is immutable and should be
// built once and shared.
func Grammar() (*grammar.DynamicGrammar[rune, char.Matcher], error) {
	tg := grammar.NewTextGrammar[rune, char.Matcher]()
	tg.SetStart(NTToml)

	digit := char.Range{From: '0', To: '9'}

	// document structure
	tg.Add(newRule(NTToml).NT(NTExpression).NT(NTExpressions))
	tg.Add(newRule(NTExpressions))
	tg.Add(newRule(NTExpressions).NT(NTNewline).NT(NTExpression).NT(NTExpressions))
	tg.Add(newRule(NTExpression).NT(NTWS))
	tg.Add(newRule(NTExpression).NT(NTWS).NT(NTComment))
	tg.Add(newRule(NTExpression).NT(NTWS).NT(NTKeyval).NT(NTWS).NT(NTMaybeComm))
	tg.Add(newRule(NTExpression).NT(NTWS).NT(NTTable).NT(NTWS).NT(NTMaybeComm))

	tg.Add(newRule(NTNewline).T(char.Exact('\n')))
	tg.Add(newRule(NTNewline).T(char.Exact('\r')).T(char.Exact('\n')))

	tg.Add(newRule(NTWS))
	tg.Add(newRule(NTWS).T(char.Exact(' ')).NT(NTWS))
	tg.Add(newRule(NTWS).T(char.Exact('\t')).NT(NTWS))

	// comments run to the end of the line
	tg.Add(newRule(NTMaybeComm))
	tg.Add(newRule(NTMaybeComm).NT(NTComment))
	tg.Add(newRule(NTComment).T(char.Exact('#')).NT("NON_EOLS"))
	tg.Add(newRule("NON_EOLS"))
	tg.Add(newRule("NON_EOLS").T(char.NoneOf("\n")).NT("NON_EOLS"))

	// keys
	tg.Add(newRule(NTKeyval).NT(NTKey).NT(NTKeyvalSep).NT(NTVal))
	tg.Add(newRule(NTKey).NT(NTSimpleKey))
	tg.Add(newRule(NTKey).NT(NTSimpleKey).NT(NTDotSep).NT(NTKey))
	tg.Add(newRule(NTSimpleKey).NT(NTUnquotedKey))
	tg.Add(newRule(NTSimpleKey).NT(NTQuotedKey))
	keyChar := []char.Matcher{
		char.Range{From: 'a', To: 'z'},
		char.Range{From: 'A', To: 'Z'},
		digit,
		char.Exact('-'),
		char.Exact('_'),
	}
	for _, m := range keyChar {
		tg.Add(newRule(NTUnquotedKey).T(m))
		tg.Add(newRule(NTUnquotedKey).T(m).NT(NTUnquotedKey))
	}
	tg.Add(newRule(NTQuotedKey).T(char.Exact('"')).NT("BASIC_CHARS").T(char.Exact('"')))
	tg.Add(newRule(NTQuotedKey).T(char.Exact('\'')).NT("LITERAL_CHARS").T(char.Exact('\'')))
	tg.Add(newRule(NTDotSep).NT(NTWS).T(char.Exact('.')).NT(NTWS))
	tg.Add(newRule(NTKeyvalSep).NT(NTWS).T(char.Exact('=')).NT(NTWS))

	// values
	tg.Add(newRule(NTVal).NT(NTString))
	tg.Add(newRule(NTVal).NT(NTBoolean))
	tg.Add(newRule(NTVal).NT(NTArray))
	tg.Add(newRule(NTVal).NT(NTFloat))
	tg.Add(newRule(NTVal).NT(NTInteger))

	tg.Add(newRule(NTString).NT(NTBasicString))
	tg.Add(newRule(NTString).NT(NTLiteralStr))
	tg.Add(newRule(NTBasicString).T(char.Exact('"')).NT("BASIC_CHARS").T(char.Exact('"')))
	tg.Add(newRule("BASIC_CHARS"))
	tg.Add(newRule("BASIC_CHARS").T(char.NoneOf("\"\\\n")).NT("BASIC_CHARS"))
	tg.Add(newRule("BASIC_CHARS").T(char.Exact('\\')).T(char.NoneOf("\n")).NT("BASIC_CHARS"))
	tg.Add(newRule(NTLiteralStr).T(char.Exact('\'')).NT("LITERAL_CHARS").T(char.Exact('\'')))
	tg.Add(newRule("LITERAL_CHARS"))
	tg.Add(newRule("LITERAL_CHARS").T(char.NoneOf("'\n")).NT("LITERAL_CHARS"))

	tg.Add(newRule(NTBoolean).Ts(word("true")...))
	tg.Add(newRule(NTBoolean).Ts(word("false")...))

	tg.Add(newRule(NTInteger).NT("MAYBE_SIGN").NT("DIGITS"))
	tg.Add(newRule("MAYBE_SIGN"))
	tg.Add(newRule("MAYBE_SIGN").T(char.Exact('+')))
	tg.Add(newRule("MAYBE_SIGN").T(char.Exact('-')))
	tg.Add(newRule("DIGITS").T(digit).NT("DIGITS_REST"))
	tg.Add(newRule("DIGITS_REST"))
	tg.Add(newRule("DIGITS_REST").T(digit).NT("DIGITS_REST"))
	tg.Add(newRule("DIGITS_REST").T(char.Exact('_')).NT("DIGITS_REST"))

	tg.Add(newRule(NTFloat).NT("MAYBE_SIGN").NT("DIGITS").T(char.Exact('.')).NT("DIGITS"))
	tg.Add(newRule(NTFloat).NT("MAYBE_SIGN").NT("DIGITS").T(char.Exact('.')).NT("DIGITS").NT("EXP"))
	tg.Add(newRule(NTFloat).NT("MAYBE_SIGN").NT("DIGITS").NT("EXP"))
	tg.Add(newRule("EXP").T(char.Exact('e')).NT("MAYBE_SIGN").NT("DIGITS"))
	tg.Add(newRule("EXP").T(char.Exact('E')).NT("MAYBE_SIGN").NT("DIGITS"))

	// arrays may span lines
	tg.Add(newRule(NTArray).T(char.Exact('[')).NT("MAYBE_ARRAY_VALUES").T(char.Exact(']')))
	tg.Add(newRule("MAYBE_ARRAY_VALUES"))
	tg.Add(newRule("MAYBE_ARRAY_VALUES").NT("ARRAY_VALUES"))
	tg.Add(newRule("ARRAY_VALUES").NT("AWS").NT(NTVal).NT("AWS"))
	tg.Add(newRule("ARRAY_VALUES").NT("AWS").NT(NTVal).NT("AWS").T(char.Exact(',')).NT("MAYBE_ARRAY_VALUES"))
	tg.Add(newRule("AWS"))
	tg.Add(newRule("AWS").T(char.Exact(' ')).NT("AWS"))
	tg.Add(newRule("AWS").T(char.Exact('\t')).NT("AWS"))
	tg.Add(newRule("AWS").T(char.Exact('\n')).NT("AWS"))

	// tables
	tg.Add(newRule(NTTable).NT(NTStdTable))
	tg.Add(newRule(NTTable).NT(NTArrayTable))
	tg.Add(newRule(NTStdTable).T(char.Exact('[')).NT(NTWS).NT(NTKey).NT(NTWS).T(char.Exact(']')))
	tg.Add(newRule(NTArrayTable).
		T(char.Exact('[')).T(char.Exact('[')).
		NT(NTWS).NT(NTKey).NT(NTWS).
		T(char.Exact(']')).T(char.Exact(']')))

	return tg.Compile()
}

// DefaultSheet builds the fallback look-and-feel for TOML editing: the style
// sheet used when no look-and-feel file is given, plus completion strings
// for the spots Cargo.toml authors reach for most.
func DefaultSheet(g *grammar.DynamicGrammar[rune, char.Matcher]) *style.Sheet[laf.Style] {
	id := func(name string) grammar.SymbolID {
		sym, ok := g.NTID(name)
		if !ok {
			// the names below come from the same source as the grammar; a
			// miss is a bug in this package.
			panic("tomlgram: unknown non-terminal " + name)
		}
		return sym
	}

	sheet := &style.Sheet[laf.Style]{}

	expr := []style.Atom{
		style.Exact(id(NTToml)),
		style.Star(id(NTExpressions)),
		style.Exact(id(NTExpression)),
	}
	under := func(rest ...style.Atom) style.Pattern {
		return append(append(style.Pattern{}, expr...), rest...)
	}

	sheet.Add(under(style.Exact(id(NTTable))), laf.Style{
		Name: "heading", Bold: true, Foreground: "yellow",
		LineBreakBefore: true, LineBreakAfter: true,
	})
	sheet.Add(under(style.Exact(id(NTComment))), laf.Style{
		Name: "comment", Italic: true, Foreground: "cyan",
	})
	sheet.Add(under(style.Exact(id(NTMaybeComm)), style.Exact(id(NTComment))), laf.Style{
		Name: "comment", Italic: true, Foreground: "cyan",
	})
	sheet.Add(under(style.Exact(id(NTKeyval)), style.Exact(id(NTKey))), laf.Style{
		Name: "key", Bold: true,
	})
	sheet.Add(under(style.Exact(id(NTKeyval)), style.Exact(id(NTVal)), style.Exact(id(NTString))), laf.Style{
		Name: "string", Foreground: "green",
	})
	sheet.Add(under(style.Exact(id(NTKeyval)), style.Exact(id(NTVal)), style.Exact(id(NTInteger))), laf.Style{
		Name: "number", Foreground: "magenta",
	})
	sheet.Add(under(style.Exact(id(NTKeyval)), style.Exact(id(NTVal)), style.Exact(id(NTFloat))), laf.Style{
		Name: "number", Foreground: "magenta",
	})
	sheet.Add(under(style.Exact(id(NTKeyval)), style.Exact(id(NTVal)), style.Exact(id(NTBoolean))), laf.Style{
		Name: "boolean", Foreground: "magenta",
	})
	sheet.Add(under(style.Exact(id(NTKeyval)), style.Exact(id(NTVal)), style.Exact(id(NTArray))), laf.Style{
		Name: "array", Foreground: "blue",
	})
	sheet.Add(style.Pattern{style.SkipTo(grammar.ErrorID)}, laf.Style{
		Name: "error", Bold: true, Underline: true, Foreground: "red",
	})

	sheet.AddPrediction(id(NTTable), []string{
		"[package]", "[dependencies]", "[dev-dependencies]",
		"[build-dependencies]", "[features]", "[workspace]", "[[bin]]",
	})
	sheet.AddPrediction(id(NTKey), []string{
		"name = ", "version = ", "edition = ", "authors = ",
		"description = ", "license = ",
	})
	sheet.AddPrediction(id(NTBoolean), []string{"true", "false"})

	return sheet
}

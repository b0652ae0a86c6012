// Package grammar defines the symbol model and the compiled-grammar contract
// that the parsing engine operates on, along with a runtime grammar builder
// that produces compiled grammars from a textual rule list.
//
// A grammar is compiled into a single numbering space of symbol IDs.
// Non-terminals occupy the low range [0, NTCount()), terminals the range
// [NTCount(), NTCount()+TCount()). Within the non-terminal range, every
// non-terminal that has at least one empty production is placed in the prefix
// [1, NTEmptyCount()), so the engine can classify any symbol with a single
// comparison. ID 0 is reserved for the ERROR pseudo-non-terminal, and rule 0
// is reserved for its empty pseudo-rule; neither ever appears on the
// right-hand side of a real rule.
package grammar

// SymbolID identifies a terminal or non-terminal symbol of a compiled
// grammar. IDs are indices into the grammar's symbol tables, so they stay
// small; 32 bits is plenty for any grammar the engine can handle.
type SymbolID uint32

// ErrorID is the SymbolID of the ERROR pseudo-non-terminal. It is present in
// every compiled grammar and is used by the engine to mark chart entries
// synthesised while recovering from unparseable input.
const ErrorID SymbolID = 0

// ErrorRule is the index of the ERROR pseudo-rule. It has ErrorID as its
// left-hand side and an empty right-hand side.
const ErrorRule = 0

// MaxSymbolID is the largest ID a compiled grammar may assign. Compilation
// fails with ErrTooLarge before any table outgrows it. The bound is kept
// below the signed 32-bit range so indices stay valid on every platform.
const MaxSymbolID = 1<<31 - 1

// Matcher is a predicate over input tokens of type T. The engine calls
// Matches on the hot path of every scan, so implementations must be cheap,
// pure, and free of side effects.
//
// Key returns a stable value identity for the matcher. Two matchers that
// accept exactly the same tokens by construction must return the same Key, as
// the grammar compiler uses it to intern terminals.
type Matcher[T any] interface {
	// Matches returns whether the matcher accepts the given token.
	Matches(t T) bool

	// Key returns the value identity of the matcher, used to deduplicate
	// terminals during grammar compilation.
	Key() string
}

// CompiledGrammar is the read-only view of a compiled grammar that the
// parsing engine needs. Implementations must be immutable; every invariant
// (closed symbol IDs, rule indices in range) holds at construction time and
// never changes, so a compiled grammar is safe to share by reference between
// any number of engines.
type CompiledGrammar[T any, M Matcher[T]] interface {
	// StartSymbol returns the ID of the start non-terminal.
	StartSymbol() SymbolID

	// RuleCount returns the number of rules, including the ERROR pseudo-rule
	// at index 0.
	RuleCount() int

	// LHS returns the left-hand side non-terminal of the given rule.
	LHS(rule int) SymbolID

	// RHS returns the right-hand side symbols of the given rule. The returned
	// slice must not be modified.
	RHS(rule int) []SymbolID

	// RulesFor returns the indices of the rules whose left-hand side is the
	// given non-terminal. The engine calls this on every prediction, so
	// implementations should precompute a flat index. The returned slice
	// must not be modified.
	RulesFor(nt SymbolID) []int

	// NTName returns the name of the given non-terminal, for diagnostics.
	NTName(nt SymbolID) string

	// NTCount returns the number of non-terminals. Any symbol ID below it is
	// a non-terminal.
	NTCount() SymbolID

	// TCount returns the number of terminals.
	TCount() SymbolID

	// NTEmptyCount returns the upper bound (exclusive) of the non-terminal ID
	// prefix that holds every non-terminal with at least one empty
	// production.
	NTEmptyCount() SymbolID

	// Matcher returns the matcher for the given terminal. The argument is an
	// index into the terminal table, i.e. the symbol ID minus NTCount().
	Matcher(term SymbolID) M
}

// IsTerminal returns whether the given symbol ID names a terminal of g.
func IsTerminal[T any, M Matcher[T]](g CompiledGrammar[T, M], sym SymbolID) bool {
	return sym >= g.NTCount()
}

// DerivesEmpty returns whether the given symbol is a non-terminal with at
// least one empty production.
func DerivesEmpty[T any, M Matcher[T]](g CompiledGrammar[T, M], sym SymbolID) bool {
	return sym > ErrorID && sym < g.NTEmptyCount()
}

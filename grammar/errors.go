package grammar

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyStart is returned when a grammar is compiled without a start
	// symbol having been set.
	ErrEmptyStart = errors.New("no start symbol set")

	// ErrEmptySymbol is returned when the empty string is used as the name of
	// a non-terminal in a rule.
	ErrEmptySymbol = errors.New("empty string used as non-terminal name")

	// ErrEmptyRhs is the error kind for a rule with an empty right-hand side
	// where such rules are not allowed. TextGrammar always permits empty
	// right-hand sides, as they are how empty-deriving non-terminals are
	// declared, so its Compile never returns this kind.
	ErrEmptyRhs = errors.New("empty right-hand side of rule")

	// ErrNoRule is returned when a non-terminal is used on the right-hand
	// side of a rule (or as the start symbol) but no rule with it as the
	// left-hand side exists.
	ErrNoRule = errors.New("non-terminal has no rule")

	// ErrTooLarge is returned when some part of the grammar exceeds the limit
	// of MaxSymbolID entries.
	ErrTooLarge = errors.New("too many entries to compile")
)

// Error is the error type returned from Compile. It wraps one of the sentinel
// errors of this package and carries the name of the offending symbol or
// table, when there is one.
type Error struct {
	// Kind is the sentinel error this Error is an instance of.
	Kind error

	// Name is the symbol or table the error applies to. May be empty for
	// kinds that do not concern a particular name.
	Name string
}

func (e *Error) Error() string {
	if e.Name == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %q", e.Kind.Error(), e.Name)
}

// Unwrap returns the sentinel error so callers can test with errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, name string) *Error {
	return &Error{Kind: kind, Name: name}
}

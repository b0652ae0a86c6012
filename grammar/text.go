package grammar

import (
	"sort"
)

// TextSymbol is one right-hand-side element of a TextRule: either a matcher
// for a terminal or the name of a non-terminal.
type TextSymbol[T any, M Matcher[T]] struct {
	terminal bool
	matcher  M
	name     string
}

// NT returns a TextSymbol naming a non-terminal.
func NT[T any, M Matcher[T]](name string) TextSymbol[T, M] {
	return TextSymbol[T, M]{name: name}
}

// Term returns a TextSymbol holding a terminal matcher.
func Term[T any, M Matcher[T]](m M) TextSymbol[T, M] {
	return TextSymbol[T, M]{terminal: true, matcher: m}
}

// TextRule is a production rule in textual representation, e.g.
// S -> A B 'c'. Rules are built fluently:
//
//	NewRule[rune, char.Matcher]("S").NT("Noun").T(char.Exact(' ')).NT("Noun")
//
// Identical left-hand-side names across rules refer to the same non-terminal.
type TextRule[T any, M Matcher[T]] struct {
	lhs string
	rhs []TextSymbol[T, M]
}

// NewRule creates a rule for the named non-terminal with an empty right-hand
// side. A rule left with an empty right-hand side declares that its
// non-terminal derives the empty sequence.
func NewRule[T any, M Matcher[T]](lhs string) TextRule[T, M] {
	return TextRule[T, M]{lhs: lhs}
}

// NT appends a non-terminal to the right-hand side of the rule.
func (r TextRule[T, M]) NT(name string) TextRule[T, M] {
	r.rhs = append(r.rhs, NT[T, M](name))
	return r
}

// T appends a terminal matcher to the right-hand side of the rule.
func (r TextRule[T, M]) T(m M) TextRule[T, M] {
	r.rhs = append(r.rhs, Term[T, M](m))
	return r
}

// Ts appends a sequence of terminal matchers to the right-hand side of the
// rule.
func (r TextRule[T, M]) Ts(ms ...M) TextRule[T, M] {
	for _, m := range ms {
		r.rhs = append(r.rhs, Term[T, M](m))
	}
	return r
}

// TextGrammar is a grammar builder holding production rules in textual
// representation. Once every rule has been added and the start symbol set,
// Compile turns it into a DynamicGrammar that the engine can use.
type TextGrammar[T any, M Matcher[T]] struct {
	rules []TextRule[T, M]
	start string
}

// NewTextGrammar returns an empty grammar builder.
func NewTextGrammar[T any, M Matcher[T]]() *TextGrammar[T, M] {
	return &TextGrammar[T, M]{}
}

// Add appends a rule to the grammar.
func (tg *TextGrammar[T, M]) Add(rule TextRule[T, M]) {
	tg.rules = append(tg.rules, rule)
}

// SetStart sets the start symbol by name. It may be called repeatedly; only
// the last value matters, and it may name a not-yet-added non-terminal up
// until Compile is called.
func (tg *TextGrammar[T, M]) SetStart(name string) {
	tg.start = name
}

// symEntry tracks a non-terminal during compilation: whether a rule with it
// as the left-hand side has been seen, and its assigned ID.
type symEntry struct {
	hasRule bool
	id      int
}

func updateSymbol(symbols map[string]*symEntry, name string, isRule bool, nextID *int) {
	if ent, ok := symbols[name]; ok {
		ent.hasRule = ent.hasRule || isRule
		return
	}
	symbols[name] = &symEntry{hasRule: isRule, id: *nextID}
	*nextID++
}

// Compile builds the lookup tables required for efficient parsing and
// returns them as an immutable DynamicGrammar.
//
// Non-terminals whose rules include an empty right-hand side are numbered
// first so the engine can detect empty derivation with one comparison.
// Terminals are deduplicated by their matcher Key and numbered after all
// non-terminals.
func (tg *TextGrammar[T, M]) Compile() (*DynamicGrammar[T, M], error) {
	symbols := map[string]*symEntry{}

	// the ERROR pseudo-non-terminal takes ID 0. An empty name cannot clash
	// with a real non-terminal because those are rejected below.
	symbols[""] = &symEntry{hasRule: true, id: int(ErrorID)}
	nextID := int(ErrorID) + 1

	// first pass: assign IDs to the left-hand sides of empty rules so that
	// every empty-deriving non-terminal lands in the low prefix of the ID
	// space.
	for _, r := range tg.rules {
		if r.lhs == "" {
			return nil, newError(ErrEmptySymbol, "")
		}
		if len(r.rhs) >= MaxSymbolID {
			return nil, newError(ErrTooLarge, r.lhs)
		}
		if len(r.rhs) == 0 {
			updateSymbol(symbols, r.lhs, true, &nextID)
		}
	}
	emptyCount := nextID

	// second pass: the remaining left-hand sides, every non-terminal used on
	// a right-hand side, and the set of distinct terminal matchers.
	terminals := map[string]M{}
	for _, r := range tg.rules {
		updateSymbol(symbols, r.lhs, true, &nextID)
		for _, s := range r.rhs {
			if s.terminal {
				terminals[s.matcher.Key()] = s.matcher
				continue
			}
			if s.name == "" {
				return nil, newError(ErrEmptySymbol, "")
			}
			updateSymbol(symbols, s.name, false, &nextID)
		}
	}

	// the start symbol counts as used on a right-hand side.
	if tg.start == "" {
		return nil, newError(ErrEmptyStart, "")
	}
	updateSymbol(symbols, tg.start, false, &nextID)

	// every non-terminal that is used must have at least one rule.
	for name, ent := range symbols {
		if !ent.hasRule {
			return nil, newError(ErrNoRule, name)
		}
	}

	// build the non-terminal name table by sorting entries by assigned ID.
	ntTable := make([]string, len(symbols))
	for name, ent := range symbols {
		ntTable[ent.id] = name
	}
	if len(ntTable) > MaxSymbolID {
		return nil, newError(ErrTooLarge, "non-terminals")
	}

	// give the error pseudo-non-terminal a name that shows up clearly in
	// diagnostics and cannot clash with a user symbol.
	ntTable[ErrorID] = "~~~ERROR~~~"

	// build the terminal table in a deterministic order.
	tKeys := make([]string, 0, len(terminals))
	for k := range terminals {
		tKeys = append(tKeys, k)
	}
	sort.Strings(tKeys)
	tTable := make([]M, len(tKeys))
	tIndex := map[string]int{}
	for i, k := range tKeys {
		tTable[i] = terminals[k]
		tIndex[k] = i
	}
	if len(tTable)+len(ntTable) > MaxSymbolID {
		return nil, newError(ErrTooLarge, "terminals and non-terminals together")
	}

	// build the rule table. Rule 0 is the ERROR pseudo-rule.
	rules := make([]compiledRule, 0, len(tg.rules)+1)
	rules = append(rules, compiledRule{lhs: ErrorID})
	for _, r := range tg.rules {
		cr := compiledRule{
			lhs: SymbolID(symbols[r.lhs].id),
			rhs: make([]SymbolID, len(r.rhs)),
		}
		for i, s := range r.rhs {
			if s.terminal {
				cr.rhs[i] = SymbolID(tIndex[s.matcher.Key()] + len(ntTable))
			} else {
				cr.rhs[i] = SymbolID(symbols[s.name].id)
			}
		}
		rules = append(rules, cr)
	}

	// precompute the rules-by-lhs index the engine hits on every prediction.
	byLHS := make([][]int, len(ntTable))
	for i, r := range rules {
		if i == ErrorRule {
			continue
		}
		byLHS[r.lhs] = append(byLHS[r.lhs], i)
	}

	return &DynamicGrammar[T, M]{
		ntTable:    ntTable,
		tTable:     tTable,
		rules:      rules,
		byLHS:      byLHS,
		start:      SymbolID(symbols[tg.start].id),
		emptyCount: SymbolID(emptyCount),
	}, nil
}

type compiledRule struct {
	lhs SymbolID
	rhs []SymbolID
}

// DynamicGrammar is the machine-readable representation of a grammar built at
// runtime from a TextGrammar. It is immutable after Compile returns and may
// be shared by reference across engines.
type DynamicGrammar[T any, M Matcher[T]] struct {
	ntTable    []string
	tTable     []M
	rules      []compiledRule
	byLHS      [][]int
	start      SymbolID
	emptyCount SymbolID
}

// StartSymbol returns the ID of the start non-terminal.
func (dg *DynamicGrammar[T, M]) StartSymbol() SymbolID {
	return dg.start
}

// RuleCount returns the number of rules, including the ERROR pseudo-rule.
func (dg *DynamicGrammar[T, M]) RuleCount() int {
	return len(dg.rules)
}

// LHS returns the left-hand side of the given rule.
func (dg *DynamicGrammar[T, M]) LHS(rule int) SymbolID {
	return dg.rules[rule].lhs
}

// RHS returns the right-hand side of the given rule.
func (dg *DynamicGrammar[T, M]) RHS(rule int) []SymbolID {
	return dg.rules[rule].rhs
}

// RulesFor returns the indices of the rules whose left-hand side is the given
// non-terminal. The returned slice must not be modified.
func (dg *DynamicGrammar[T, M]) RulesFor(nt SymbolID) []int {
	return dg.byLHS[nt]
}

// NTName returns the name of the given non-terminal.
func (dg *DynamicGrammar[T, M]) NTName(nt SymbolID) string {
	return dg.ntTable[nt]
}

// NTCount returns the number of non-terminals.
func (dg *DynamicGrammar[T, M]) NTCount() SymbolID {
	return SymbolID(len(dg.ntTable))
}

// TCount returns the number of terminals.
func (dg *DynamicGrammar[T, M]) TCount() SymbolID {
	return SymbolID(len(dg.tTable))
}

// NTEmptyCount returns the exclusive upper bound of the empty-deriving
// non-terminal ID prefix.
func (dg *DynamicGrammar[T, M]) NTEmptyCount() SymbolID {
	return dg.emptyCount
}

// Matcher returns the matcher at the given index of the terminal table (the
// terminal's symbol ID minus NTCount()).
func (dg *DynamicGrammar[T, M]) Matcher(term SymbolID) M {
	return dg.tTable[term]
}

// NTID returns the ID of the named non-terminal. The second return value is
// false if no non-terminal with that name exists.
//
// This does a linear scan of the name table; it is intended for wiring up
// style sheets and tests, not for mass queries.
func (dg *DynamicGrammar[T, M]) NTID(name string) (SymbolID, bool) {
	for i, n := range dg.ntTable {
		if n == name {
			return SymbolID(i), true
		}
	}
	return 0, false
}

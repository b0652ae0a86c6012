package parse

import (
	"fmt"
	"sort"

	"github.com/dekarrin/sedit/grammar"
)

// Verdict is the engine's answer after consuming a token: whether the input
// so far is a complete sentence of the grammar. There is no reject verdict;
// unparseable tokens are absorbed by error synthesis and show up as ERROR
// nodes in the CST instead.
type Verdict int

const (
	// More means the input parsed so far is a viable (or error-recovered)
	// prefix but not yet a complete sentence.
	More Verdict = iota

	// Accept means the input parsed so far is a complete sentence of the
	// grammar.
	Accept
)

func (v Verdict) String() string {
	switch v {
	case More:
		return "More"
	case Accept:
		return "Accept"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// Parser incrementally parses a token buffer under a compiled grammar.
//
// The caller feeds tokens in strictly increasing positions via Update. After
// an edit, BufferChanged truncates the chart back to the earliest affected
// position and the caller re-feeds the tail; columns before the edit point
// are never recomputed. Feeding a token out of order, or referring to a
// column that does not exist, is a bug in the caller and panics.
//
// A Parser is a plain synchronous state machine; it never blocks and owns no
// goroutines. The compiled grammar it reads is immutable, so any number of
// parsers may share one.
type Parser[T any, M grammar.Matcher[T]] struct {
	g     grammar.CompiledGrammar[T, M]
	chart []*column
}

// New creates a parser for the given grammar with an empty buffer. Column 0
// is seeded with one item per start-symbol rule and closed over predictions
// and empty completions, so a grammar whose start symbol derives empty
// accepts immediately.
func New[T any, M grammar.Matcher[T]](g grammar.CompiledGrammar[T, M]) *Parser[T, M] {
	p := &Parser[T, M]{
		g:     g,
		chart: []*column{newColumn()},
	}
	for _, ri := range g.RulesFor(g.StartSymbol()) {
		p.add(0, item{rule: ri}, nil)
	}
	p.closure(0)
	return p
}

// Grammar returns the compiled grammar the parser reads.
func (p *Parser[T, M]) Grammar() grammar.CompiledGrammar[T, M] {
	return p.g
}

// Columns returns the number of chart columns, which is always one more than
// the number of leading buffer tokens the chart currently covers.
func (p *Parser[T, M]) Columns() int {
	return len(p.chart)
}

// BufferChanged informs the parser that the buffer content at position at
// (and possibly after it) changed. Every column past at is discarded; the
// next expected Update position is at. Calling this with a position beyond
// the parsed region is a caller bug and panics.
func (p *Parser[T, M]) BufferChanged(at int) {
	if at < 0 || at+1 > len(p.chart) {
		panic(fmt.Sprintf("parse: buffer changed at position %d, but chart covers only %d tokens", at, len(p.chart)-1))
	}
	p.chart = p.chart[:at+1]
}

// Update consumes the token at the given buffer position and computes the
// next chart column. index must be exactly the number of tokens consumed so
// far (i.e. updates arrive in increasing position order, re-anchored by
// BufferChanged); anything else is a caller bug and panics.
//
// If no item of the current column can scan the token, the engine enters
// error mode for this position: the new column is filled with an ERROR leaf
// item covering the token plus copies of the current column's items, so the
// chart stays live and later tokens may re-enter a successful branch. Error
// recovery is local only; there is no backtracking and no look-ahead.
func (p *Parser[T, M]) Update(index int, tok T) Verdict {
	if index != len(p.chart)-1 {
		panic(fmt.Sprintf("parse: update at position %d, but next expected position is %d", index, len(p.chart)-1))
	}

	cur := p.chart[index]
	p.chart = append(p.chart, newColumn())
	to := index + 1

	// scan
	ntc := p.g.NTCount()
	for i := range cur.items {
		it := cur.items[i]
		rhs := p.g.RHS(it.rule)
		if it.dot >= len(rhs) {
			continue
		}
		sym := rhs[it.dot]
		if sym < ntc {
			continue
		}
		if !p.g.Matcher(sym - ntc).Matches(tok) {
			continue
		}
		adv := item{rule: it.rule, dot: it.dot + 1, origin: it.origin}
		p.add(to, adv, &backlink{kind: linkScan, pred: ItemRef{Col: index, Index: i}, tok: index})
	}

	if len(p.chart[to].items) > 0 {
		p.closure(to)
	} else {
		p.synthesizeError(index)
	}

	return p.Verdict()
}

// Verdict reports whether the tokens consumed so far form a complete
// sentence of the grammar: Accept when the last column holds a completed
// start-symbol item whose match began at position 0, More otherwise.
func (p *Parser[T, M]) Verdict() Verdict {
	col := p.chart[len(p.chart)-1]
	start := p.g.StartSymbol()
	for i := range col.items {
		it := &col.items[i]
		if it.err || it.rule == grammar.ErrorRule || it.origin != 0 {
			continue
		}
		if p.g.LHS(it.rule) != start {
			continue
		}
		if it.dot == len(p.g.RHS(it.rule)) {
			return Accept
		}
	}
	return More
}

// Predictions returns the set of symbols expected next at the given column:
// the terminals and non-terminals some item's dot sits before, plus the
// non-terminals whose rules were predicted at that very column. The result
// is sorted ascending so callers see a stable order. Asking about a column
// that does not exist is a caller bug and panics.
func (p *Parser[T, M]) Predictions(k int) []grammar.SymbolID {
	if k < 0 || k >= len(p.chart) {
		panic(fmt.Sprintf("parse: predictions for column %d, but chart has %d columns", k, len(p.chart)))
	}

	set := map[grammar.SymbolID]bool{}
	col := p.chart[k]
	for i := range col.items {
		it := &col.items[i]
		if it.rule == grammar.ErrorRule {
			continue
		}
		if !it.err && it.dot == 0 && it.origin == k {
			set[p.g.LHS(it.rule)] = true
		}
		rhs := p.g.RHS(it.rule)
		if it.dot < len(rhs) {
			set[rhs[it.dot]] = true
		}
	}

	out := make([]grammar.SymbolID, 0, len(set))
	for sym := range set {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal returns whether the parser's chart is structurally identical to that
// of another parser: same columns, same items in the same insertion order,
// same backlinks. Used to verify that incremental re-parses converge on the
// single-pass result.
func (p *Parser[T, M]) Equal(o any) bool {
	other, ok := o.(*Parser[T, M])
	if !ok || other == nil {
		return false
	}
	if len(p.chart) != len(other.chart) {
		return false
	}
	for i := range p.chart {
		if !equalColumns(p.chart[i], other.chart[i]) {
			return false
		}
	}
	return true
}

// add inserts an item into column k, wiring up the column's wait-index for
// the symbol after the item's dot.
func (p *Parser[T, M]) add(k int, it item, link *backlink) (int, bool) {
	rhs := p.g.RHS(it.rule)
	var nextSym grammar.SymbolID
	wait := false
	if it.dot < len(rhs) {
		nextSym = rhs[it.dot]
		wait = true
	}
	return p.chart[k].add(it, link, nextSym, wait)
}

// closure runs prediction and completion over column k until no new items
// appear. The work queue is the column itself: items are processed exactly
// once, in insertion order, and processing may append more.
func (p *Parser[T, M]) closure(k int) {
	col := p.chart[k]
	ntc := p.g.NTCount()

	for i := 0; i < len(col.items); i++ {
		it := col.items[i]
		rhs := p.g.RHS(it.rule)

		if it.dot >= len(rhs) {
			// completer. Error-synthesised items have ERROR as their
			// effective left-hand side, and nothing ever waits on ERROR.
			if it.err || it.rule == grammar.ErrorRule {
				continue
			}
			lhs := p.g.LHS(it.rule)
			origin := p.chart[it.origin]
			for _, wi := range origin.waiting[lhs] {
				waiter := origin.items[wi]
				adv := item{rule: waiter.rule, dot: waiter.dot + 1, origin: waiter.origin}
				p.add(k, adv, &backlink{
					kind:  linkComplete,
					pred:  ItemRef{Col: it.origin, Index: wi},
					cause: ItemRef{Col: k, Index: i},
				})
			}
			continue
		}

		nextSym := rhs[it.dot]
		if nextSym >= ntc {
			// terminal; the scan of the next update handles it.
			continue
		}

		// predictor
		for _, ri := range p.g.RulesFor(nextSym) {
			p.add(k, item{rule: ri, origin: k}, nil)
		}

		// a non-terminal known to derive empty is also advanced over right
		// away, without enumerating its empty derivations.
		if grammar.DerivesEmpty(p.g, nextSym) {
			adv := item{rule: it.rule, dot: it.dot + 1, origin: it.origin}
			p.add(k, adv, &backlink{
				kind: linkEmpty,
				pred: ItemRef{Col: k, Index: i},
				sym:  nextSym,
			})
		}
	}
}

// synthesizeError fills column k+1 after the token at position k matched
// nothing. An ERROR leaf item covering the token is inserted, and every item
// of column k is carried over unchanged with a backlink through the leaf.
// The copies keep the chart live: their expectations still scan later
// tokens, while their ERROR left-hand side keeps them out of completions and
// verdicts.
func (p *Parser[T, M]) synthesizeError(k int) {
	cur := p.chart[k]

	leafIdx, _ := p.add(k+1, item{rule: grammar.ErrorRule, origin: k, err: true}, nil)
	leaf := ItemRef{Col: k + 1, Index: leafIdx}

	for i := range cur.items {
		it := cur.items[i]
		cp := item{rule: it.rule, dot: it.dot, origin: it.origin, err: true}
		p.add(k+1, cp, &backlink{
			kind:  linkError,
			pred:  ItemRef{Col: k, Index: i},
			cause: leaf,
			tok:   k,
		})
	}
}

// itemAt resolves a ref to the item it addresses.
func (p *Parser[T, M]) itemAt(ref ItemRef) *item {
	return &p.chart[ref.Col].items[ref.Index]
}

package parse

import (
	"github.com/dekarrin/sedit/grammar"
)

// CSTEventKind discriminates the events a CST traversal yields.
type CSTEventKind int

const (
	// CSTEnter marks the beginning of a non-terminal node.
	CSTEnter CSTEventKind = iota

	// CSTLeaf is a terminal consumed at a buffer position.
	CSTLeaf

	// CSTExit marks the end of the current non-terminal node.
	CSTExit

	// CSTError is a sub-tree rooted at the ERROR pseudo-non-terminal,
	// covering a locally unparseable range of the buffer.
	CSTError
)

// CSTEvent is one step of a pre-order traversal of the concrete syntax tree.
// Start and End delimit the token span [Start, End) the event covers. Symbol
// is set for CSTEnter and CSTExit; Token for CSTLeaf.
type CSTEvent struct {
	Kind   CSTEventKind
	Symbol grammar.SymbolID
	Start  int
	End    int
	Token  int
}

type stepKind uint8

const (
	stepItem stepKind = iota
	stepLeaf
	stepEmpty
	stepError
	stepExit
	stepPopPath
)

type cstStep struct {
	kind  stepKind
	ref   ItemRef
	sym   grammar.SymbolID
	start int
	end   int
}

// CSTIter walks the chart's back-pointer DAG in pre-order, presenting it as
// a single concrete syntax tree without materialising one. When a completed
// item carries several back-pointer chains (an ambiguous derivation), the
// first-inserted chain is followed, which makes the traversal deterministic
// between runs and between incremental re-parses that reach the same chart.
//
// The iterator is only valid until the next edit; traverse it before feeding
// more tokens or truncating the chart.
type CSTIter[T any, M grammar.Matcher[T]] struct {
	p     *Parser[T, M]
	stack []cstStep
	path  []grammar.SymbolID
}

// CSTIter returns a pre-order traversal of the current parse. The traversal
// is rooted at the accepting item of the last column if there is one,
// otherwise at the item of the last column that made the most progress from
// position 0, so editors can still walk (and style) a partially correct or
// error-recovered buffer.
func (p *Parser[T, M]) CSTIter() *CSTIter[T, M] {
	it := &CSTIter[T, M]{p: p}

	last := len(p.chart) - 1
	col := p.chart[last]
	start := p.g.StartSymbol()

	root := -1
	for i := range col.items {
		itm := &col.items[i]
		if itm.err || itm.rule == grammar.ErrorRule || itm.origin != 0 {
			continue
		}
		if p.g.LHS(itm.rule) == start && itm.dot == len(p.g.RHS(itm.rule)) {
			root = i
			break
		}
	}
	if root < 0 {
		// no accepting item; fall back to the furthest-along view of the
		// whole buffer, allowing error-mode copies this time.
		bestDot := -1
		for i := range col.items {
			itm := &col.items[i]
			if itm.rule == grammar.ErrorRule || itm.origin != 0 {
				continue
			}
			if itm.dot > bestDot {
				bestDot = itm.dot
				root = i
			}
		}
	}

	if root < 0 {
		// nothing spans the buffer from position 0 at all; the whole range
		// is one error.
		if last > 0 {
			it.stack = append(it.stack, cstStep{kind: stepError, start: 0, end: last})
		}
		return it
	}

	it.stack = append(it.stack, cstStep{kind: stepItem, ref: ItemRef{Col: last, Index: root}})
	return it
}

// Next yields the next traversal event. The second return value is false
// when the traversal is exhausted.
func (it *CSTIter[T, M]) Next() (CSTEvent, bool) {
	for len(it.stack) > 0 {
		s := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]

		switch s.kind {
		case stepExit:
			it.path = it.path[:len(it.path)-1]
			return CSTEvent{Kind: CSTExit, Symbol: s.sym, Start: s.start, End: s.end}, true

		case stepLeaf:
			return CSTEvent{Kind: CSTLeaf, Token: s.start, Start: s.start, End: s.start + 1}, true

		case stepError:
			// an error sub-tree is rooted at the ERROR pseudo-non-terminal;
			// it is on the path for the duration of this one event.
			it.path = append(it.path, grammar.ErrorID)
			it.stack = append(it.stack, cstStep{kind: stepPopPath})
			return CSTEvent{Kind: CSTError, Start: s.start, End: s.end}, true

		case stepPopPath:
			it.path = it.path[:len(it.path)-1]
			continue

		case stepEmpty:
			// an empty-deriving non-terminal advanced over without input: a
			// node with no children.
			it.path = append(it.path, s.sym)
			it.stack = append(it.stack, cstStep{kind: stepExit, sym: s.sym, start: s.start, end: s.start})
			return CSTEvent{Kind: CSTEnter, Symbol: s.sym, Start: s.start, End: s.start}, true

		case stepItem:
			itm := it.p.itemAt(s.ref)
			sym := it.p.g.LHS(itm.rule)
			startPos := itm.origin
			endPos := s.ref.Col

			children := it.chain(s.ref)
			it.stack = append(it.stack, cstStep{kind: stepExit, sym: sym, start: startPos, end: endPos})
			for i := len(children) - 1; i >= 0; i-- {
				it.stack = append(it.stack, children[i])
			}

			it.path = append(it.path, sym)
			return CSTEvent{Kind: CSTEnter, Symbol: sym, Start: startPos, End: endPos}, true
		}
	}
	return CSTEvent{}, false
}

// Path returns the non-terminal ids from the start symbol down to the
// current node. After a CSTEnter or CSTError event it ends with that node
// (ErrorID for an error); after a CSTLeaf it ends with the enclosing node;
// after a CSTExit the exited node has already been removed. The returned
// slice is only valid until the next call to Next; copy it to keep it.
func (it *CSTIter[T, M]) Path() []grammar.SymbolID {
	return it.path
}

// chain reconstructs, in grammar order, the per-symbol steps that led to the
// item at ref: one leaf per scanned terminal, one nested item per completed
// non-terminal, one childless node per empty derivation, and one error event
// per token survived in error mode. Of an item's merged backlinks only the
// first-inserted is followed.
func (it *CSTIter[T, M]) chain(ref ItemRef) []cstStep {
	var steps []cstStep

	cur := ref
	for {
		itm := it.p.itemAt(cur)
		if len(itm.links) == 0 {
			break
		}
		l := itm.links[0]
		switch l.kind {
		case linkScan:
			steps = append(steps, cstStep{kind: stepLeaf, start: l.tok})
		case linkComplete:
			steps = append(steps, cstStep{kind: stepItem, ref: l.cause})
		case linkEmpty:
			steps = append(steps, cstStep{kind: stepEmpty, sym: l.sym, start: l.pred.Col})
		case linkError:
			steps = append(steps, cstStep{kind: stepError, start: l.tok, end: l.tok + 1})
		}
		cur = l.pred
	}

	// the walk collected steps from the dot backwards; flip them into
	// grammar order.
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/sedit/char"
	"github.com/dekarrin/sedit/grammar"
)

// collectEvents drains an iterator, copying the path at each event.
func collectEvents(iter *CSTIter[rune, char.Matcher]) ([]CSTEvent, [][]grammar.SymbolID) {
	var evs []CSTEvent
	var paths [][]grammar.SymbolID
	for {
		ev, ok := iter.Next()
		if !ok {
			return evs, paths
		}
		evs = append(evs, ev)
		p := make([]grammar.SymbolID, len(iter.Path()))
		copy(p, iter.Path())
		paths = append(paths, p)
	}
}

func Test_CSTIter_nounPhrase(t *testing.T) {
	assert := assert.New(t)

	g := nounGrammar(t, false)
	p := New[rune, char.Matcher](g)
	feed(p, "john john")

	evs, paths := collectEvents(p.CSTIter())
	require.NotEmpty(t, evs)

	sID, _ := g.NTID("S")
	nounID, _ := g.NTID("NOUN")

	// the root enters first and covers the whole buffer.
	assert.Equal(CSTEnter, evs[0].Kind)
	assert.Equal(sID, evs[0].Symbol)
	assert.Equal(0, evs[0].Start)
	assert.Equal(9, evs[0].End)

	// leaves come out in buffer order, one per token.
	var leaves []int
	for _, ev := range evs {
		if ev.Kind == CSTLeaf {
			leaves = append(leaves, ev.Token)
		}
	}
	assert.Equal([]int{0, 1, 2, 3, 4, 5, 6, 7, 8}, leaves)

	// both nouns appear with their exact spans.
	var nounSpans [][2]int
	for _, ev := range evs {
		if ev.Kind == CSTEnter && ev.Symbol == nounID {
			nounSpans = append(nounSpans, [2]int{ev.Start, ev.End})
		}
	}
	assert.Equal([][2]int{{0, 4}, {5, 9}}, nounSpans)

	// the path at a noun's leaf runs root-down: S, NOUN.
	for i, ev := range evs {
		if ev.Kind == CSTLeaf && ev.Token == 0 {
			assert.Equal([]grammar.SymbolID{sID, nounID}, paths[i])
		}
	}
}

func Test_CSTIter_preOrderSpans(t *testing.T) {
	assert := assert.New(t)

	p := New[rune, char.Matcher](nounGrammar(t, false))
	feed(p, "john john")

	// every event with a position inside a node's span happens strictly
	// between that node's Enter and Exit.
	evs, _ := collectEvents(p.CSTIter())

	type openNode struct {
		start, end int
	}
	var open []openNode
	for _, ev := range evs {
		switch ev.Kind {
		case CSTEnter:
			open = append(open, openNode{start: ev.Start, end: ev.End})
		case CSTExit:
			open = open[:len(open)-1]
		case CSTLeaf:
			for _, n := range open {
				assert.True(n.start <= ev.Token && ev.Token < n.end,
					"leaf %d outside open node [%d,%d)", ev.Token, n.start, n.end)
			}
		}
	}
	assert.Empty(open, "unbalanced Enter/Exit")
}

func Test_CSTIter_emptyRuleNodes(t *testing.T) {
	assert := assert.New(t)

	g := nounGrammar(t, true)
	p := New[rune, char.Matcher](g)
	feed(p, " ")

	nounID, _ := g.NTID("NOUN")

	evs, _ := collectEvents(p.CSTIter())

	// both nouns derive empty: one before the space, one after.
	var emptyNouns []int
	for _, ev := range evs {
		if ev.Kind == CSTEnter && ev.Symbol == nounID && ev.Start == ev.End {
			emptyNouns = append(emptyNouns, ev.Start)
		}
	}
	assert.Equal([]int{0, 1}, emptyNouns)

	var leaves []int
	for _, ev := range evs {
		if ev.Kind == CSTLeaf {
			leaves = append(leaves, ev.Token)
		}
	}
	assert.Equal([]int{0}, leaves)
}

func Test_CSTIter_errorSubtree(t *testing.T) {
	assert := assert.New(t)

	g := abGrammar(t)
	p := New[rune, char.Matcher](g)
	feed(p, "axb")

	sID, _ := g.NTID("S")

	evs, paths := collectEvents(p.CSTIter())
	require.Len(t, evs, 5)

	assert.Equal(CSTEnter, evs[0].Kind)
	assert.Equal(sID, evs[0].Symbol)
	assert.Equal(0, evs[0].Start)
	assert.Equal(3, evs[0].End)

	assert.Equal(CSTLeaf, evs[1].Kind)
	assert.Equal(0, evs[1].Token)

	assert.Equal(CSTError, evs[2].Kind)
	assert.Equal(1, evs[2].Start)
	assert.Equal(2, evs[2].End)
	// the error node itself is on the path during the event.
	assert.Equal([]grammar.SymbolID{sID, grammar.ErrorID}, paths[2])

	assert.Equal(CSTLeaf, evs[3].Kind)
	assert.Equal(2, evs[3].Token)

	assert.Equal(CSTExit, evs[4].Kind)
	assert.Equal(sID, evs[4].Symbol)
}

func Test_CSTIter_partialParseFallback(t *testing.T) {
	assert := assert.New(t)

	g := abGrammar(t)
	p := New[rune, char.Matcher](g)
	feed(p, "a")

	// no accepting item exists yet; the traversal still covers the buffer
	// from the furthest-along item.
	evs, _ := collectEvents(p.CSTIter())
	require.NotEmpty(t, evs)
	assert.Equal(CSTEnter, evs[0].Kind)
	assert.Equal(0, evs[0].Start)

	var leaves []int
	for _, ev := range evs {
		if ev.Kind == CSTLeaf {
			leaves = append(leaves, ev.Token)
		}
	}
	assert.Equal([]int{0}, leaves)
}

func Test_CSTIter_deterministicOnAmbiguity(t *testing.T) {
	assert := assert.New(t)

	// E := E '+' E | 'n' is ambiguous for "n+n+n"; the traversal must pick
	// the same tree every time.
	tg := grammar.NewTextGrammar[rune, char.Matcher]()
	tg.SetStart("E")
	tg.Add(grammar.NewRule[rune, char.Matcher]("E").NT("E").T(char.Exact('+')).NT("E"))
	tg.Add(grammar.NewRule[rune, char.Matcher]("E").T(char.Exact('n')))
	g, err := tg.Compile()
	require.NoError(t, err)

	run := func() []CSTEvent {
		p := New[rune, char.Matcher](g)
		feed(p, "n+n+n")
		evs, _ := collectEvents(p.CSTIter())
		return evs
	}

	first := run()
	for i := 0; i < 3; i++ {
		assert.Equal(first, run())
	}
}

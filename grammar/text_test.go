package grammar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMatcher is a trivial rune matcher for compiling grammars in tests
// without pulling in the char package (which would be an import cycle).
type testMatcher rune

func (m testMatcher) Matches(t rune) bool { return rune(m) == t }
func (m testMatcher) Key() string         { return string(rune(m)) }

func testRule(lhs string) TextRule[rune, testMatcher] {
	return NewRule[rune, testMatcher](lhs)
}

// sentenceGrammar builds the classic noun-phrase grammar used by the engine
// examples:
//
//	S := NOUN ' ' NOUN
//	NOUN := 'j' 'o' 'h' 'n'
//	NOUN :=
func sentenceGrammar() *TextGrammar[rune, testMatcher] {
	tg := NewTextGrammar[rune, testMatcher]()
	tg.SetStart("S")
	tg.Add(testRule("S").NT("NOUN").T(testMatcher(' ')).NT("NOUN"))
	tg.Add(testRule("NOUN").Ts(testMatcher('j'), testMatcher('o'), testMatcher('h'), testMatcher('n')))
	tg.Add(testRule("NOUN"))
	return tg
}

func Test_TextGrammar_Compile(t *testing.T) {
	assert := assert.New(t)

	g, err := sentenceGrammar().Compile()
	require.NoError(t, err)

	// ERROR plus S plus NOUN.
	assert.Equal(SymbolID(3), g.NTCount())

	// ' ', 'j', 'o', 'h', 'n' interned once each.
	assert.Equal(SymbolID(5), g.TCount())

	// rule 0 is the ERROR pseudo-rule.
	assert.Equal(ErrorID, g.LHS(ErrorRule))
	assert.Empty(g.RHS(ErrorRule))

	// the three real rules follow in insertion order.
	assert.Equal(4, g.RuleCount())

	start := g.StartSymbol()
	assert.Equal("S", g.NTName(start))

	nounID, ok := g.NTID("NOUN")
	require.True(t, ok)

	// NOUN has an empty rule, so it sits in the empty prefix; S does not.
	assert.True(DerivesEmpty[rune, testMatcher](g, nounID))
	assert.False(DerivesEmpty[rune, testMatcher](g, start))
	assert.Less(nounID, g.NTEmptyCount())

	// the rules-for index lines up with the rule table.
	assert.Len(g.RulesFor(nounID), 2)
	for _, ri := range g.RulesFor(nounID) {
		assert.Equal(nounID, g.LHS(ri))
	}

	// every rhs symbol id is in range, and terminals classify correctly.
	for ri := 0; ri < g.RuleCount(); ri++ {
		for _, sym := range g.RHS(ri) {
			assert.Less(int(sym), int(g.NTCount()+g.TCount()))
		}
	}

	// the space terminal is findable through a rule and matches a space.
	sRHS := g.RHS(g.RulesFor(start)[0])
	require.Len(t, sRHS, 3)
	spaceSym := sRHS[1]
	require.True(t, IsTerminal[rune, testMatcher](g, spaceSym))
	assert.True(g.Matcher(spaceSym - g.NTCount()).Matches(' '))
	assert.False(g.Matcher(spaceSym - g.NTCount()).Matches('x'))
}

func Test_TextGrammar_Compile_errors(t *testing.T) {
	testCases := []struct {
		name      string
		build     func() *TextGrammar[rune, testMatcher]
		expectErr error
	}{
		{
			name: "no start symbol",
			build: func() *TextGrammar[rune, testMatcher] {
				tg := NewTextGrammar[rune, testMatcher]()
				tg.Add(testRule("S").T(testMatcher('x')))
				return tg
			},
			expectErr: ErrEmptyStart,
		},
		{
			name: "empty lhs name",
			build: func() *TextGrammar[rune, testMatcher] {
				tg := NewTextGrammar[rune, testMatcher]()
				tg.SetStart("S")
				tg.Add(testRule("").T(testMatcher('x')))
				return tg
			},
			expectErr: ErrEmptySymbol,
		},
		{
			name: "empty rhs non-terminal name",
			build: func() *TextGrammar[rune, testMatcher] {
				tg := NewTextGrammar[rune, testMatcher]()
				tg.SetStart("S")
				tg.Add(testRule("S").NT(""))
				return tg
			},
			expectErr: ErrEmptySymbol,
		},
		{
			name: "rhs non-terminal without a rule",
			build: func() *TextGrammar[rune, testMatcher] {
				tg := NewTextGrammar[rune, testMatcher]()
				tg.SetStart("S")
				tg.Add(testRule("S").NT("MISSING"))
				return tg
			},
			expectErr: ErrNoRule,
		},
		{
			name: "start symbol without a rule",
			build: func() *TextGrammar[rune, testMatcher] {
				tg := NewTextGrammar[rune, testMatcher]()
				tg.SetStart("S")
				tg.Add(testRule("A").T(testMatcher('x')))
				return tg
			},
			expectErr: ErrNoRule,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := tc.build().Compile()

			require.Error(t, err)
			assert.True(errors.Is(err, tc.expectErr), "got error %v", err)
		})
	}
}

func Test_TextGrammar_Compile_errorDetail(t *testing.T) {
	assert := assert.New(t)

	tg := NewTextGrammar[rune, testMatcher]()
	tg.SetStart("S")
	tg.Add(testRule("S").NT("MISSING"))

	_, err := tg.Compile()
	require.Error(t, err)

	var gErr *Error
	require.True(t, errors.As(err, &gErr))
	assert.Equal("MISSING", gErr.Name)
	assert.Contains(gErr.Error(), "MISSING")
}

func Test_TextGrammar_Compile_internsMatchers(t *testing.T) {
	assert := assert.New(t)

	// the same matcher used in several rules compiles to one terminal.
	tg := NewTextGrammar[rune, testMatcher]()
	tg.SetStart("S")
	tg.Add(testRule("S").T(testMatcher('x')).NT("A"))
	tg.Add(testRule("A").T(testMatcher('x')))
	g, err := tg.Compile()
	require.NoError(t, err)

	assert.Equal(SymbolID(1), g.TCount())
}

func Test_DynamicGrammar_NTID(t *testing.T) {
	assert := assert.New(t)

	g, err := sentenceGrammar().Compile()
	require.NoError(t, err)

	id, ok := g.NTID("NOUN")
	assert.True(ok)
	assert.Equal("NOUN", g.NTName(id))

	_, ok = g.NTID("VERB")
	assert.False(ok)
}

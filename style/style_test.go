package style

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/sedit/grammar"
)

// symbolic names for the ids used across the lookup tests, in the shape of a
// small TOML grammar.
const (
	symTOML = grammar.SymbolID(iota + 1)
	symExpressions
	symExpression
	symTable
	symKeyval
	symKey
)

func tomlSheet() *Sheet[string] {
	sh := &Sheet[string]{}
	sh.Add(Pattern{
		Exact(symTOML), Star(symExpressions), Exact(symExpression), Exact(symTable),
	}, "heading")
	return sh
}

func Test_Sheet_Lookup(t *testing.T) {
	testCases := []struct {
		name        string
		path        []grammar.SymbolID
		expectMatch Match
		expectStyle string
	}{
		{
			name:        "full match through nested star",
			path:        []grammar.SymbolID{symTOML, symExpressions, symExpressions, symExpression, symTable},
			expectMatch: MatchFound,
			expectStyle: "heading",
		},
		{
			name:        "full match with zero star elements",
			path:        []grammar.SymbolID{symTOML, symExpression, symTable},
			expectMatch: MatchFound,
			expectStyle: "heading",
		},
		{
			name:        "prefix of a match is on a styled spine",
			path:        []grammar.SymbolID{symTOML, symExpressions, symExpression},
			expectMatch: MatchParent,
		},
		{
			name:        "divergent path",
			path:        []grammar.SymbolID{symTOML, symExpression, symKeyval},
			expectMatch: MatchNothing,
		},
		{
			name:        "wrong root",
			path:        []grammar.SymbolID{symKeyval, symExpression, symTable},
			expectMatch: MatchNothing,
		},
		{
			name:        "path running past a full match inherits it",
			path:        []grammar.SymbolID{symTOML, symExpression, symTable, symKey},
			expectMatch: MatchParent,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			st, m := tomlSheet().Lookup(tc.path)

			assert.Equal(tc.expectMatch, m)
			if tc.expectMatch == MatchFound {
				assert.Equal(tc.expectStyle, st)
			}
		})
	}
}

func Test_Sheet_Lookup_skipTo(t *testing.T) {
	testCases := []struct {
		name        string
		path        []grammar.SymbolID
		expectMatch Match
	}{
		{
			name:        "target at the end",
			path:        []grammar.SymbolID{symTOML, symExpression, symKeyval},
			expectMatch: MatchFound,
		},
		{
			name:        "target immediately",
			path:        []grammar.SymbolID{symKeyval},
			expectMatch: MatchFound,
		},
		{
			name:        "target mid-path is an ancestor match",
			path:        []grammar.SymbolID{symTOML, symKeyval, symKey},
			expectMatch: MatchParent,
		},
		{
			name:        "target absent",
			path:        []grammar.SymbolID{symTOML, symExpression, symTable},
			expectMatch: MatchParent,
		},
	}

	sh := &Sheet[string]{}
	sh.Add(Pattern{SkipTo(symKeyval)}, "kv")

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, m := sh.Lookup(tc.path)
			assert.Equal(tc.expectMatch, m)
		})
	}
}

func Test_Sheet_Lookup_starConsumesOnMatch(t *testing.T) {
	assert := assert.New(t)

	// Star must consume matching elements rather than letting the following
	// atom see them again.
	sh := &Sheet[string]{}
	sh.Add(Pattern{Star(symExpressions), Exact(symExpressions)}, "odd")

	// every EXPRESSIONS element is eaten by the star, so Exact never gets
	// one and the pattern stays one atom short of completion.
	_, m := sh.Lookup([]grammar.SymbolID{symExpressions, symExpressions})
	assert.Equal(MatchParent, m)
}

func Test_Sheet_Lookup_longestWins(t *testing.T) {
	assert := assert.New(t)

	sh := &Sheet[string]{}
	sh.Add(Pattern{SkipTo(symTable)}, "short")
	sh.Add(Pattern{Exact(symTOML), Exact(symExpression), Exact(symTable)}, "long")

	st, m := sh.Lookup([]grammar.SymbolID{symTOML, symExpression, symTable})

	assert.Equal(MatchFound, m)
	assert.Equal("long", st)
}

func Test_Sheet_Lookup_insertionOrderBreaksTies(t *testing.T) {
	assert := assert.New(t)

	sh := &Sheet[string]{}
	sh.Add(Pattern{Exact(symTOML), Exact(symTable)}, "first")
	sh.Add(Pattern{Exact(symTOML), Exact(symTable)}, "second")

	st, m := sh.Lookup([]grammar.SymbolID{symTOML, symTable})

	assert.Equal(MatchFound, m)
	assert.Equal("first", st)
}

func Test_Sheet_Lookup_emptySheet(t *testing.T) {
	assert := assert.New(t)

	sh := &Sheet[string]{}

	_, m := sh.Lookup([]grammar.SymbolID{symTOML})
	assert.Equal(MatchNothing, m)
}

func Test_Sheet_Predictions(t *testing.T) {
	assert := assert.New(t)

	sh := &Sheet[string]{}
	sh.AddPrediction(symTable, []string{"[package]", "[dependencies]"})

	assert.Equal([]string{"[package]", "[dependencies]"}, sh.Predictions(symTable))
	assert.Empty(sh.Predictions(symKey))
}

package tomlgram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/sedit"
	"github.com/dekarrin/sedit/char"
	"github.com/dekarrin/sedit/parse"
	"github.com/dekarrin/sedit/style"
)

func Test_Grammar_acceptance(t *testing.T) {
	g, err := Grammar()
	require.NoError(t, err)

	testCases := []struct {
		name   string
		input  string
		expect parse.Verdict
	}{
		{name: "empty document", input: "", expect: parse.Accept},
		{name: "bare key value", input: "key = 1", expect: parse.Accept},
		{name: "negative integer", input: "n = -2", expect: parse.Accept},
		{name: "underscored integer", input: "n = 1_000", expect: parse.Accept},
		{name: "float", input: "pi = 3.14", expect: parse.Accept},
		{name: "float with exponent", input: "c = 2.99e8", expect: parse.Accept},
		{name: "boolean", input: "on = true", expect: parse.Accept},
		{name: "basic string", input: "name = \"sedit\"", expect: parse.Accept},
		{name: "escaped quote", input: "s = \"a\\\"b\"", expect: parse.Accept},
		{name: "literal string", input: "path = 'C:\\bin'", expect: parse.Accept},
		{name: "dotted key", input: "a.b.c = 1", expect: parse.Accept},
		{name: "quoted key", input: "\"a b\" = 1", expect: parse.Accept},
		{name: "comment line", input: "# hello", expect: parse.Accept},
		{name: "keyval with comment", input: "k = 1 # trailing", expect: parse.Accept},
		{name: "std table", input: "[package]", expect: parse.Accept},
		{name: "table with dotted key", input: "[a.b]", expect: parse.Accept},
		{name: "array table", input: "[[bin]]", expect: parse.Accept},
		{name: "empty array", input: "a = []", expect: parse.Accept},
		{name: "array of ints", input: "a = [1, 2, 3]", expect: parse.Accept},
		{name: "nested array", input: "a = [[1], [2]]", expect: parse.Accept},
		{name: "multiline array", input: "a = [\n  1,\n  2\n]", expect: parse.Accept},
		{name: "several expressions", input: "[package]\nname = \"x\"\n# done", expect: parse.Accept},
		{name: "blank lines between", input: "a = 1\n\n\nb = 2", expect: parse.Accept},
		{name: "unfinished keyval", input: "key = ", expect: parse.More},
		{name: "unclosed table", input: "[package", expect: parse.More},
		{name: "unclosed string", input: "s = \"abc", expect: parse.More},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ed := sedit.New[rune, char.Matcher](g)
			ed.EnterSlice([]rune(tc.input))

			assert.Equal(tc.expect, ed.Verdict())
		})
	}
}

func Test_Grammar_errorTolerance(t *testing.T) {
	assert := assert.New(t)

	g, err := Grammar()
	require.NoError(t, err)

	// an unparseable line must not stop the parse; the error is confined to
	// the CST while editing continues.
	ed := sedit.New[rune, char.Matcher](g)
	ed.EnterSlice([]rune("=bad\n"))
	assert.Equal(parse.More, ed.Verdict())

	sawError := false
	iter := ed.CSTIter()
	for {
		ev, ok := iter.Next()
		if !ok {
			break
		}
		if ev.Kind == parse.CSTError {
			sawError = true
		}
	}
	assert.True(sawError)
}

func Test_DefaultSheet(t *testing.T) {
	g, err := Grammar()
	require.NoError(t, err)
	sheet := DefaultSheet(g)

	// walk an actual parse and collect the style found at each node.
	ed := sedit.New[rune, char.Matcher](g)
	ed.EnterSlice([]rune("[package]\nname = \"sedit\" # the name"))
	require.Equal(t, parse.Accept, ed.Verdict())

	found := map[string]bool{}
	iter := ed.CSTIter()
	for {
		ev, ok := iter.Next()
		if !ok {
			break
		}
		if ev.Kind != parse.CSTEnter {
			continue
		}
		if st, m := sheet.Lookup(iter.Path()); m == style.MatchFound {
			found[st.Name] = true
		}
	}

	assert := assert.New(t)
	assert.True(found["heading"], "table heading style not found")
	assert.True(found["key"], "key style not found")
	assert.True(found["string"], "string style not found")
	assert.True(found["comment"], "comment style not found")
}

func Test_DefaultSheet_predictions(t *testing.T) {
	assert := assert.New(t)

	g, err := Grammar()
	require.NoError(t, err)
	sheet := DefaultSheet(g)

	table, ok := g.NTID(NTTable)
	require.True(t, ok)

	completions := sheet.Predictions(table)
	assert.Contains(completions, "[package]")
	assert.Contains(completions, "[dependencies]")
}

// Package shell implements the interactive structured-editing session the
// sedit command runs: it owns the editor, reads commands and text from the
// user, and renders the parse as trees, predictions, and styled spans.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/sedit"
	"github.com/dekarrin/sedit/char"
	"github.com/dekarrin/sedit/grammar"
	"github.com/dekarrin/sedit/internal/input"
	"github.com/dekarrin/sedit/internal/laf"
	"github.com/dekarrin/sedit/internal/session"
	"github.com/dekarrin/sedit/internal/util"
	"github.com/dekarrin/sedit/parse"
	"github.com/dekarrin/sedit/style"
)

const outputWidth = 80

var commandHelp = [][2]string{
	{"(text)", "Insert the line at the cursor, followed by a newline."},
	{":back [N]", "Move the cursor N positions left (default 1)."},
	{":bol", "Move the cursor to the beginning of the line."},
	{":chart", "Dump the parse chart."},
	{":clear", "Remove all buffer content."},
	{":cur N", "Put the cursor at position N."},
	{":del [N]", "Delete N tokens right of the cursor (default 1)."},
	{":end", "Move the cursor past the end of the buffer."},
	{":eol", "Move the cursor to the end of the line."},
	{":find TEXT", "Move the cursor to the next occurrence of TEXT."},
	{":fwd [N]", "Move the cursor N positions right (default 1)."},
	{":help", "Show this help."},
	{":home", "Move the cursor to the start of the buffer."},
	{":pred", "Show what the grammar expects at the cursor."},
	{":quit", "Leave the shell."},
	{":restore [FILE]", "Restore the session saved in FILE."},
	{":save [FILE]", "Save the session to FILE."},
	{":show", "Show the buffer with the cursor marked."},
	{":tree", "Show the parse tree with styles."},
	{":verdict", "Show whether the buffer parses completely."},
}

// Shell is one interactive editing session.
type Shell struct {
	ed          *sedit.Editor[rune, char.Matcher]
	sheet       *style.Sheet[laf.Style]
	in          input.Reader
	out         *bufio.Writer
	sessionPath string
	filePath    string
	running     bool
}

// New creates a shell around an editor for the given grammar. sheet provides
// styling and completion strings; sessionPath is where :save writes without
// an argument.
func New(g grammar.CompiledGrammar[rune, char.Matcher], sheet *style.Sheet[laf.Style], in input.Reader, out io.Writer, sessionPath string) *Shell {
	return &Shell{
		ed:          sedit.New(g),
		sheet:       sheet,
		in:          in,
		out:         bufio.NewWriter(out),
		sessionPath: sessionPath,
	}
}

// LoadText replaces the buffer with the given text, noting the file it came
// from, and leaves the cursor at the end.
func (sh *Shell) LoadText(filePath, text string) {
	sh.filePath = filePath
	sh.ed.Clear()
	sh.ed.EnterSlice([]rune(text))
}

// Editor exposes the shell's editor, mainly for scripted use in tests.
func (sh *Shell) Editor() *sedit.Editor[rune, char.Matcher] {
	return sh.ed
}

// RunUntilQuit reads and executes input until the user quits or input runs
// out.
func (sh *Shell) RunUntilQuit() error {
	sh.running = true
	sh.say("sedit interactive shell. Type :help for commands.")

	for sh.running {
		line, err := sh.in.ReadLine()
		if err == io.EOF {
			break
		} else if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if err := sh.Exec(line); err != nil {
			sh.say("error: %v", err)
		}
		if err := sh.out.Flush(); err != nil {
			return fmt.Errorf("could not flush output: %w", err)
		}
	}

	return sh.out.Flush()
}

// Exec runs one line of shell input: a command when it starts with ":",
// otherwise text inserted at the cursor with a trailing newline.
func (sh *Shell) Exec(line string) error {
	if !strings.HasPrefix(line, ":") {
		sh.ed.EnterSlice([]rune(line + "\n"))
		sh.showVerdict()
		return nil
	}

	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case ":quit", ":q":
		sh.running = false
	case ":help":
		sh.showHelp()
	case ":show":
		sh.showBuffer()
	case ":tree":
		sh.showTree()
	case ":chart":
		sh.out.WriteString(sh.ed.Parser().ChartString())
	case ":pred":
		sh.showPredictions()
	case ":verdict", ":v":
		sh.showVerdict()
	case ":cur":
		n, err := argNum(args, -1)
		if err != nil || n < 0 {
			return fmt.Errorf(":cur needs a position")
		}
		sh.ed.SetCursor(n)
	case ":fwd":
		n, err := argNum(args, 1)
		if err != nil {
			return err
		}
		sh.ed.MoveForward(n)
	case ":back":
		n, err := argNum(args, 1)
		if err != nil {
			return err
		}
		sh.ed.MoveBackward(n)
	case ":home":
		sh.ed.MoveStart()
	case ":end":
		sh.ed.MoveEnd()
	case ":bol":
		if !char.StartOfLine(sh.ed.Span(0, sh.ed.Len()), sh.ed.Cursor()) {
			sh.ed.SkipBackward(char.StartOfLine)
		}
	case ":eol":
		if at, ok := sh.ed.SearchForward(sh.ed.Cursor(), char.EndOfLine); ok {
			sh.ed.SetCursor(at)
		} else {
			sh.ed.MoveEnd()
		}
	case ":del":
		n, err := argNum(args, 1)
		if err != nil {
			return err
		}
		sh.ed.Delete(n)
		sh.showVerdict()
	case ":clear":
		sh.ed.Clear()
	case ":find":
		if len(args) < 1 {
			return fmt.Errorf(":find needs text to look for")
		}
		sh.find(strings.Join(args, " "))
	case ":save":
		return sh.saveSession(argPath(args, sh.sessionPath))
	case ":restore":
		return sh.restoreSession(argPath(args, sh.sessionPath))
	default:
		return fmt.Errorf("I don't know the command %q; try :help", cmd)
	}

	return nil
}

func argNum(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", args[0])
	}
	return n, nil
}

func argPath(args []string, def string) string {
	if len(args) > 0 {
		return args[0]
	}
	return def
}

func (sh *Shell) say(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	msg = rosed.Edit(msg).Wrap(outputWidth).String()
	sh.out.WriteString(msg + "\n")
}

func (sh *Shell) showHelp() {
	ed := rosed.
		Edit("").
		WithOptions(rosed.Options{ParagraphSeparator: "\n"}).
		InsertDefinitionsTable(0, commandHelp, outputWidth)
	sh.out.WriteString(ed.String() + "\n")
}

func (sh *Shell) showVerdict() {
	v := sh.ed.Verdict()
	if v == parse.Accept {
		sh.say("Accept (%d tokens)", sh.ed.Len())
	} else {
		sh.say("More (%d tokens)", sh.ed.Len())
	}
}

func (sh *Shell) showBuffer() {
	c := sh.ed.Cursor()
	runes := []rune(sedit.String(sh.ed))
	sh.out.WriteString(string(runes[:c]))
	sh.out.WriteString("▮")
	sh.out.WriteString(string(runes[c:]))
	sh.out.WriteString("\n")
}

// showTree walks the CST and prints one line per node with its span and the
// name of the style the sheet gives its path. ERROR lines also show the
// covered text.
func (sh *Shell) showTree() {
	g := sh.ed.Grammar()
	iter := sh.ed.CSTIter()
	depth := 0
	for {
		ev, ok := iter.Next()
		if !ok {
			break
		}
		switch ev.Kind {
		case parse.CSTEnter:
			label := g.NTName(ev.Symbol)
			note := ""
			if st, m := sh.sheet.Lookup(iter.Path()); m == style.MatchFound && st.Name != "" {
				note = "  «" + st.Name + "»"
			}
			sh.out.WriteString(fmt.Sprintf("%s%s [%d,%d)%s\n",
				strings.Repeat("  ", depth), label, ev.Start, ev.End, note))
			depth++
		case parse.CSTExit:
			depth--
		case parse.CSTError:
			snippet := sedit.SpanString(sh.ed, ev.Start, ev.End)
			sh.out.WriteString(fmt.Sprintf("%sERROR [%d,%d) %q\n",
				strings.Repeat("  ", depth), ev.Start, ev.End, snippet))
		}
	}
}

func (sh *Shell) showPredictions() {
	g := sh.ed.Grammar()
	syms := sh.ed.PredictionsAtCursor()

	var names []string
	var completions []string
	for _, sym := range syms {
		if grammar.IsTerminal(g, sym) {
			continue
		}
		names = append(names, g.NTName(sym))
		completions = append(completions, sh.sheet.Predictions(sym)...)
	}

	if len(names) == 0 {
		sh.say("nothing is expected here")
		return
	}
	sh.say("expecting %s", util.MakeTextList(names))
	if len(completions) > 0 {
		sh.say("try: %s", util.MakeTextList(completions))
	}
}

// find moves the cursor to the next occurrence of text after the cursor,
// wrapping is not attempted.
func (sh *Shell) find(text string) {
	want := []rune(text)
	at, ok := sh.ed.SearchForward(sh.ed.Cursor(), func(tokens []rune, pos int) bool {
		if pos+len(want) > len(tokens) {
			return false
		}
		for i, r := range want {
			if tokens[pos+i] != r {
				return false
			}
		}
		return true
	})
	if !ok {
		sh.say("%q not found after cursor", text)
		return
	}
	sh.ed.SetCursor(at)
}

func (sh *Shell) saveSession(path string) error {
	if path == "" {
		return fmt.Errorf("no session file given; use :save FILE")
	}
	s := session.Session{
		FilePath: sh.filePath,
		Cursor:   sh.ed.Cursor(),
		Text:     sedit.String(sh.ed),
	}
	if err := session.Save(path, s); err != nil {
		return err
	}
	sh.say("saved session to %s", path)
	return nil
}

func (sh *Shell) restoreSession(path string) error {
	if path == "" {
		return fmt.Errorf("no session file given; use :restore FILE")
	}
	s, err := session.Load(path)
	if err != nil {
		return err
	}
	sh.LoadText(s.FilePath, s.Text)
	sh.ed.SetCursor(s.Cursor)
	sh.say("restored session from %s", path)
	return nil
}

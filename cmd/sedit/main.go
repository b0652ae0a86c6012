/*
Sedit starts an interactive structured-editing session for TOML content.

It holds the edited text in a token buffer backed by an incremental Earley
parser, so after every change it can show the parse tree, the styles that
apply to each node, and what the grammar expects at the cursor. The session
keeps working on ill-formed input; unparseable stretches show up as ERROR
nodes rather than stopping the editor.

Usage:

	sedit [flags]

The flags are:

	-v, --version
		Give the current version of sedit and then exit.

	-f, --file FILE
		Load the given file into the buffer at startup. The content is
		normalized to NFC before it is tokenized.

	-l, --look FILE
		Use the given look-and-feel TOML file for styles and completion
		strings instead of the built-in Cargo.toml defaults.

	-s, --session FILE
		Use FILE as the default target of the :save and :restore commands.
		Defaults to "sedit.session" in the current working directory.

	-d, --direct
		Force reading directly from stdin as opposed to using GNU readline
		based routines, even when attached to a tty.

	-c, --command COMMANDS
		Immediately run the given shell command(s) at start. Can be multiple
		commands separated by the ";" character.

Once the session has started, lines starting with ":" are commands (type
":help" for the list) and any other line is inserted into the buffer at the
cursor.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/text/unicode/norm"

	"github.com/dekarrin/sedit/internal/input"
	"github.com/dekarrin/sedit/internal/laf"
	"github.com/dekarrin/sedit/internal/shell"
	"github.com/dekarrin/sedit/internal/tomlgram"
	"github.com/dekarrin/sedit/internal/version"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitShellError indicates an unsuccessful program execution due to a
	// problem during the session.
	ExitShellError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the editor.
	ExitInitError
)

var (
	flagVersion  = pflag.BoolP("version", "v", false, "Give the current version and exit")
	flagFile     = pflag.StringP("file", "f", "", "File to load into the buffer")
	flagLook     = pflag.StringP("look", "l", "", "Look-and-feel TOML file to use")
	flagSession  = pflag.StringP("session", "s", "sedit.session", "Default session file")
	flagDirect   = pflag.BoolP("direct", "d", false, "Force direct (non-readline) input")
	flagCommands = pflag.StringP("command", "c", "", "Command(s) to run at start, separated by ';'")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("sedit %s\n", version.Current)
		os.Exit(ExitSuccess)
	}

	g, err := tomlgram.Grammar()
	if err != nil {
		fmt.Fprintf(os.Stderr, "compiling grammar: %v\n", err)
		os.Exit(ExitInitError)
	}

	sheet := tomlgram.DefaultSheet(g)
	if *flagLook != "" {
		sheet, err = laf.Load(*flagLook, g.NTID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(ExitInitError)
		}
	}

	var in input.Reader
	if *flagDirect {
		in = input.NewDirectReader(os.Stdin)
	} else {
		in, err = input.NewInteractiveReader("sedit> ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "initializing interactive input: %v\n", err)
			os.Exit(ExitInitError)
		}
	}
	defer in.Close()

	sh := shell.New(g, sheet, in, os.Stdout, *flagSession)

	if *flagFile != "" {
		data, err := os.ReadFile(*flagFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading %s: %v\n", *flagFile, err)
			os.Exit(ExitInitError)
		}
		sh.LoadText(*flagFile, norm.NFC.String(string(data)))
	}

	if *flagCommands != "" {
		for _, cmd := range strings.Split(*flagCommands, ";") {
			if err := sh.Exec(strings.TrimSpace(cmd)); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}
		}
	}

	if err := sh.RunUntilQuit(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(ExitShellError)
	}

	os.Exit(ExitSuccess)
}

// Package input contains the line readers the sedit shell gets its input
// from, either directly off a stream or interactively via readline.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Reader is a source of input lines for the shell. Close must be called
// before disposal to properly teardown any resources the reader holds.
type Reader interface {
	// ReadLine returns the next line of input without its trailing newline.
	// At end of input it returns io.EOF.
	ReadLine() (string, error)

	// Close releases the reader's resources.
	Close() error
}

// DirectReader implements Reader and reads lines from any generic input
// stream directly. It can be used with any io.Reader but does not sanitize
// the input of control and escape sequences.
//
// Create one with NewDirectReader.
type DirectReader struct {
	r *bufio.Reader
}

// InteractiveReader implements Reader and reads lines from stdin using a go
// implementation of the GNU Readline library. This keeps input clear of all
// typing and editing escape sequences and enables the use of line history.
// It should in general only be used when directly connected to a TTY.
//
// Create one with NewInteractiveReader.
type InteractiveReader struct {
	rl *readline.Instance
}

// NewDirectReader creates a DirectReader with a buffered reader on the
// provided stream.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates an InteractiveReader and initializes
// readline.
func NewInteractiveReader(prompt string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveReader{rl: rl}, nil
}

// Close is here so DirectReader implements Reader. It does nothing, but
// callers should treat the reader as though it must be closed; a future
// version may hold resources.
func (dr *DirectReader) Close() error {
	return nil
}

// ReadLine reads the next line from the stream. At end of input it returns
// io.EOF; a final line without a newline is returned first, with a nil
// error.
func (dr *DirectReader) ReadLine() (string, error) {
	line, err := dr.r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	} else if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close cleans up readline resources.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}

// ReadLine reads the next line from the terminal. Interrupting a partly
// typed line with ctrl-C discards it and reads again; interrupting an empty
// line returns io.EOF.
func (ir *InteractiveReader) ReadLine() (string, error) {
	for {
		line, err := ir.rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) != 0 {
				continue
			}
			return "", io.EOF
		} else if err != nil {
			return "", err
		}
		return line, nil
	}
}

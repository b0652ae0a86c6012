// Package laf loads the sedit shell's look-and-feel from TOML files: the
// style sheet mapping parse-tree paths to display styles, and the completion
// strings offered per predicted symbol.
package laf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/sedit/grammar"
	"github.com/dekarrin/sedit/style"
)

// FormatName is the value the format key of a look-and-feel file must have.
const FormatName = "sedit-laf"

var (
	// ErrBadFormat is the error returned when a file does not declare the
	// look-and-feel format.
	ErrBadFormat = errors.New("not a sedit look-and-feel file")

	// ErrUnknownSymbol is the error returned when a pattern or prediction
	// names a non-terminal the grammar does not have.
	ErrUnknownSymbol = errors.New("unknown non-terminal in look-and-feel file")
)

// Style is the display style the shell attaches to a span of the buffer. It
// is opaque to the engine; only the renderer interprets it.
type Style struct {
	// Name labels the style in plain listings.
	Name string

	Bold      bool
	Italic    bool
	Underline bool

	// Foreground is a color name; empty means the terminal default.
	Foreground string

	// LineBreakBefore and LineBreakAfter ask the renderer to put the styled
	// node on its own line(s) in structured views.
	LineBreakBefore bool
	LineBreakAfter  bool
}

// Resolver turns a non-terminal name into its symbol ID for the grammar the
// look-and-feel applies to. It has the signature of
// (*grammar.DynamicGrammar).NTID.
type Resolver func(name string) (grammar.SymbolID, bool)

type fileStyle struct {
	Pattern         []string `toml:"pattern"`
	Name            string   `toml:"name"`
	Bold            bool     `toml:"bold"`
	Italic          bool     `toml:"italic"`
	Underline       bool     `toml:"underline"`
	Foreground      string   `toml:"foreground"`
	LineBreakBefore bool     `toml:"lineBreakBefore"`
	LineBreakAfter  bool     `toml:"lineBreakAfter"`
}

type filePrediction struct {
	Symbol   string   `toml:"symbol"`
	Complete []string `toml:"complete"`
}

type lafFile struct {
	Format      string           `toml:"format"`
	Styles      []fileStyle      `toml:"style"`
	Predictions []filePrediction `toml:"prediction"`
}

// Load reads a look-and-feel file and builds the style sheet, resolving
// non-terminal names through resolve.
func Load(path string, resolve Resolver) (*style.Sheet[Style], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading look-and-feel file: %w", err)
	}
	sheet, err := Parse(data, resolve)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sheet, nil
}

// Parse decodes look-and-feel TOML data and builds the style sheet.
//
// Each style entry carries a pattern: a list of non-terminal names matched
// against tree paths from the root down. A bare name matches exactly one
// path element, a trailing "*" makes it match zero or more consecutive
// elements, and a leading ">" skips path elements until the name is seen.
// The name ERROR refers to the engine's error pseudo-non-terminal.
func Parse(data []byte, resolve Resolver) (*style.Sheet[Style], error) {
	var f lafFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding look-and-feel file: %w", err)
	}
	if f.Format != FormatName {
		return nil, ErrBadFormat
	}

	sheet := &style.Sheet[Style]{}

	for _, fs := range f.Styles {
		pat, err := parsePattern(fs.Pattern, resolve)
		if err != nil {
			return nil, err
		}
		sheet.Add(pat, Style{
			Name:            fs.Name,
			Bold:            fs.Bold,
			Italic:          fs.Italic,
			Underline:       fs.Underline,
			Foreground:      fs.Foreground,
			LineBreakBefore: fs.LineBreakBefore,
			LineBreakAfter:  fs.LineBreakAfter,
		})
	}

	for _, fp := range f.Predictions {
		sym, ok := resolveName(fp.Symbol, resolve)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, fp.Symbol)
		}
		sheet.AddPrediction(sym, fp.Complete)
	}

	return sheet, nil
}

// parsePattern turns the textual pattern atoms of a style entry into a
// style.Pattern.
func parsePattern(atoms []string, resolve Resolver) (style.Pattern, error) {
	var pat style.Pattern
	for _, a := range atoms {
		name := a
		kind := "exact"
		if strings.HasSuffix(name, "*") {
			kind = "star"
			name = strings.TrimSuffix(name, "*")
		} else if strings.HasPrefix(name, ">") {
			kind = "skip"
			name = strings.TrimPrefix(name, ">")
		}

		sym, ok := resolveName(name, resolve)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, name)
		}

		switch kind {
		case "star":
			pat = append(pat, style.Star(sym))
		case "skip":
			pat = append(pat, style.SkipTo(sym))
		default:
			pat = append(pat, style.Exact(sym))
		}
	}
	return pat, nil
}

func resolveName(name string, resolve Resolver) (grammar.SymbolID, bool) {
	if name == "ERROR" {
		return grammar.ErrorID, true
	}
	return resolve(name)
}

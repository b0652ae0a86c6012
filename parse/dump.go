package parse

import (
	"fmt"
	"io"
	"strings"
)

// WriteChart writes a human-readable rendering of the whole chart to w, one
// column per block and one dotted rule per line. Inspecting it is the
// quickest way to learn what the engine is doing with a grammar.
func (p *Parser[T, M]) WriteChart(w io.Writer) error {
	for k, col := range p.chart {
		if _, err := fmt.Fprintf(w, "=== column %d\n", k); err != nil {
			return err
		}
		for i := range col.items {
			it := &col.items[i]
			mark := " "
			if it.err {
				mark = "!"
			}
			line := p.dottedRuleString(it.rule, it.dot)
			if _, err := fmt.Fprintf(w, "%s %s  [%d]\n", mark, line, it.origin); err != nil {
				return err
			}
		}
	}
	return nil
}

// ChartString renders the whole chart as with WriteChart and returns it as a
// string.
func (p *Parser[T, M]) ChartString() string {
	var sb strings.Builder
	p.WriteChart(&sb)
	return sb.String()
}

// dottedRuleString renders one rule with the dot at the given position, e.g.
// "S → NOUN • ='j' NOUN". Terminals print as their matcher keys.
func (p *Parser[T, M]) dottedRuleString(rule, dot int) string {
	var sb strings.Builder

	sb.WriteString(p.g.NTName(p.g.LHS(rule)))
	sb.WriteString(" →")

	rhs := p.g.RHS(rule)
	ntc := p.g.NTCount()
	for i, sym := range rhs {
		if i == dot {
			sb.WriteString(" •")
		}
		sb.WriteByte(' ')
		if sym < ntc {
			sb.WriteString(p.g.NTName(sym))
		} else {
			sb.WriteString(p.g.Matcher(sym - ntc).Key())
		}
	}
	if dot == len(rhs) {
		sb.WriteString(" •")
	}

	return sb.String()
}

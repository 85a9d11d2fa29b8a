package command

import (
	"bytes"
)

// DefaultDelimiter separates command tokens on the inbound channel; tab is
// the historical separator.
const DefaultDelimiter byte = '\t'

// Parser splits an inbound byte buffer into commands. It is stateless per
// call: tokens never span buffers.
type Parser struct {
	delim byte
}

// NewParser returns a parser splitting on the given delimiter byte.
func NewParser(delim byte) *Parser {
	return &Parser{delim: delim}
}

// Parse decodes every well-formed token in buf. Tokens shorter than a
// prefix or with a prefix outside the table are dropped silently; that is
// deliberate tolerance for protocol skew, not an error.
func (p *Parser) Parse(buf []byte) []Command {
	if len(buf) == 0 {
		return nil
	}

	var cmds []Command

	for _, token := range bytes.Split(buf, []byte{p.delim}) {
		if len(token) < prefixLen {
			continue
		}

		t, ok := prefixes[string(token[:prefixLen])]
		if !ok {
			continue
		}

		cmds = append(cmds, Command{Type: t, Arg: string(token[prefixLen:])})
	}

	return cmds
}

package exprgraph

import (
	"strconv"
	"unicode"
)

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(*parseConfig)
}

type parseConfig struct {
	b      *Builder
	pinned map[string]uint32
	stop   string
	comma  bool
	semi   bool
}

type (
	indexopt struct {
		name  string
		index uint32
	}
	indexesopt map[string]uint32
	stopopt    struct {
		comma, semi bool
		ws          string
	}
)

// UseBuilder makes the parser build expressions with b instead of
// DefaultBuilder.
func UseBuilder(b *Builder) ParseOption {
	return &builderOption{b}
}

type builderOption struct {
	b *Builder
}

func (o *builderOption) parseOption(p *parseConfig) {
	p.b = o.b
}

// ParamIndex gives the parameter for name the given index. Other names never
// receive a pinned index, although several names may be pinned to one index.
func ParamIndex(name string, index uint32) ParseOption {
	return indexopt{name, index}
}

func (o indexopt) parseOption(p *parseConfig) {
	p.pin(o.name, o.index)
}

// ParamIndexes pins the indices of any number of names.
func ParamIndexes(indexes map[string]uint32) ParseOption {
	return indexesopt(indexes)
}

func (o indexesopt) parseOption(p *parseConfig) {
	for name, index := range o {
		p.pin(name, index)
	}
}

func (p *parseConfig) pin(name string, index uint32) {
	if p.pinned == nil {
		p.pinned = make(map[string]uint32)
	}
	p.pinned[name] = index
}

// StopOn tells the parser to treat a list of characters as ending the
// expression. Each rune must be a comma, semicolon, or whitespace codepoint.
// Whitespace does not end an expression where a term is expected, e.g. at the
// beginning of an expression or following an operator or bracket. The rest of
// the input remains in the source, so that another call to Parse can continue
// from it.
//
// StopOn overrides any previous StopOn. With no arguments, StopOn restores the
// default, which is to parse to EOF.
func StopOn(chars ...rune) ParseOption {
	var o stopopt
	for _, r := range chars {
		switch {
		case r == ',':
			o.comma = true
		case r == ';':
			o.semi = true
		case unicode.IsSpace(r):
			if runeIndex(o.ws, r) < 0 {
				o.ws += string(r)
			}
		default:
			panic("exprgraph: cannot stop on " + strconv.QuoteRune(r))
		}
	}
	return o
}

func (o stopopt) parseOption(p *parseConfig) {
	p.comma = o.comma
	p.semi = o.semi
	p.stop = o.ws
}

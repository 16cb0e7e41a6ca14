package exprgraph

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type token struct {
	text string
	kind tokenKind
	pos  int
}

func (t token) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF ends the input, or the expression if a StopOn rune was seen.
	tokenEOF
	// tokenNum is a real number, including inf and ∞.
	tokenNum
	// tokenIdent is a parameter name.
	tokenIdent
	// tokenOp is an operator rune.
	tokenOp
	// tokenOpen is an open bracket.
	tokenOpen
	// tokenClose is a close bracket.
	tokenClose
	// tokenSep is a comma or semicolon.
	tokenSep
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=tokenKind -trimprefix=token

// Operators contains the runes which the lexer treats as operators. Not all
// of them are accepted by the parser; "/", "÷", and "^" have no node kind to
// build and produce an OperatorError.
const Operators = "+-*/^×÷"

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// The bracket at position k in OpenBrackets is closed by the bracket at
// position k in CloseBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

func runestrs(s string) []string {
	var v []string
	for _, r := range s {
		v = append(v, string(r))
	}
	return v
}

var (
	operstrs      = runestrs(Operators)
	openbrackets  = runestrs(OpenBrackets)
	closebrackets = runestrs(CloseBrackets)
)

// runeIndex is like strings.IndexRune, but counts runes rather than bytes.
func runeIndex(s string, r rune) int {
	k := 0
	for _, c := range s {
		if c == r {
			return k
		}
		k++
	}
	return -1
}

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	col  int
	back token
	done bool
}

func newLexer(src io.RuneScanner) *lexer {
	return &lexer{src: src, col: 1}
}

// push returns a token to the lexer so that next returns it again. Panics if
// a token is already pushed.
func (l *lexer) push(tok token) {
	if l.back.kind != tokenNone {
		panic("exprgraph: double push")
	}
	l.back = tok
}

// must takes the pushed token. Panics if there is none.
func (l *lexer) must() token {
	tok := l.back
	if tok.kind == tokenNone {
		panic("exprgraph: no pushed token")
	}
	l.back = token{}
	return tok
}

func (l *lexer) readRune() (rune, error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.col++
	}
	return r, err
}

// unreadRune unreads the last rune. Panics if the source refuses.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.col--
}

// next scans a token. Whitespace runes in stop end the expression as if they
// were EOF. The first end of input produces an EOF token; after that, next
// returns io.EOF unless the EOF token was pushed back.
func (l *lexer) next(stop string) (token, error) {
	if l.back.kind != tokenNone {
		return l.must(), nil
	}
	if l.done {
		return token{}, io.EOF
	}
	defer l.buf.Reset()
	tok := token{pos: l.col}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.done = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			if strings.ContainsRune(stop, r) {
				tok.kind = tokenEOF
				l.done = true
				return tok, nil
			}
			tok.pos++
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.number(); err != nil {
				return tok, err
			}
			tok.text, tok.kind = l.buf.String(), tokenNum
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.ident(); err != nil {
				return tok, err
			}
			tok.text, tok.kind = l.buf.String(), tokenIdent
			if tok.text == "inf" || tok.text == "Inf" {
				tok.kind = tokenNum
			}
			return tok, nil
		case r == '∞':
			tok.text, tok.kind = "∞", tokenNum
			return tok, nil
		case r == ',', r == ';':
			tok.text, tok.kind = string(r), tokenSep
			return tok, nil
		default:
			if k := runeIndex(Operators, r); k >= 0 {
				tok.text, tok.kind = operstrs[k], tokenOp
				return tok, nil
			}
			if k := runeIndex(OpenBrackets, r); k >= 0 {
				tok.text, tok.kind = openbrackets[k], tokenOpen
				return tok, nil
			}
			if k := runeIndex(CloseBrackets, r); k >= 0 {
				tok.text, tok.kind = closebrackets[k], tokenClose
				return tok, nil
			}
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

// number scans a decimal number with optional fraction and exponent.
func (l *lexer) number() error {
	var (
		mant bool // seen a mantissa digit
		frac bool // seen '.'
		exp  bool // seen 'e' or 'E'
		sign bool // a sign may follow
		edig bool // seen an exponent digit
	)
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if r == '+' || r == '-' {
			if !sign {
				// Operator starting the next token.
				l.unreadRune()
				break
			}
			sign = false
			l.buf.WriteRune(r)
			continue
		}
		if unicode.IsSpace(r) || strings.ContainsRune(Operators+OpenBrackets+CloseBrackets+",;", r) {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
		switch {
		case '0' <= r && r <= '9':
			if exp {
				edig = true
			} else {
				mant = true
			}
			sign = false
		case r == '.':
			if frac || exp {
				return l.error("number")
			}
			frac = true
		case r == 'e' || r == 'E':
			if !mant || exp {
				return l.error("number")
			}
			exp, sign = true, true
		default:
			return l.error("number")
		}
	}
	if !mant || exp && !edig {
		return l.error("number")
	}
	return nil
}

// ident scans a name. The caller has already seen that the first rune is a
// letter or underscore.
func (l *lexer) ident() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if r != '_' && r != '.' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

func (l *lexer) error(kind string) error {
	return &LexError{Text: l.buf.String(), Kind: kind, Col: l.col}
}

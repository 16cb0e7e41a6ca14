package exprgraph

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Expr = num | name | Plus | Neg | Add | Sub | Mul | Expr Expr | '(' Expr ')' | '[' Expr ']' | '{' Expr '}'
// Plus = '+' Expr
// Neg = '-' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr | Expr '×' Expr
//
// Only Add and Mul have nodes of their own. The rest are built from them:
// a - b is a + (-1 * b), -a is -1 * a, and +a is just a.

// parser holds the state of one call to Parse.
type parser struct {
	scan *lexer
	b    *Builder
	// params maps names to the parameters built for them, so that each name
	// is a single shared expression.
	params map[string]Expr
	// pinned holds indices chosen through options.
	pinned map[string]uint32
	// used is the set of indices that are pinned or already assigned.
	used map[uint32]bool
	// next is the smallest index that might not be used.
	next uint32
	// stop holds the whitespace runes that end an expression.
	stop string
	// comma and semi indicate whether the respective separators end an
	// expression.
	comma, semi bool
}

// Parse builds an expression from text. Each distinct name in the text
// becomes one parameter, shared by every place the name appears. Names get
// indices pinned by ParamIndex or ParamIndexes, or else the smallest index not
// yet used, in order of first appearance. Errors from invalid input implement
// InputError.
func Parse(src io.RuneScanner, opts ...ParseOption) (Expr, error) {
	cfg := parseConfig{}
	for _, opt := range opts {
		opt.parseOption(&cfg)
	}
	p := parser{
		scan:   newLexer(src),
		b:      cfg.b,
		params: make(map[string]Expr),
		pinned: cfg.pinned,
		used:   make(map[uint32]bool, len(cfg.pinned)),
		stop:   cfg.stop,
		comma:  cfg.comma,
		semi:   cfg.semi,
	}
	if p.b == nil {
		p.b = DefaultBuilder
	}
	for _, k := range p.pinned {
		p.used[k] = true
	}
	e, err := p.term(exprprec)
	if err != nil {
		return Expr{}, err
	}
	switch tok := p.scan.must(); tok.kind {
	case tokenEOF:
	case tokenSep:
		if !p.ends(tok) {
			return Expr{}, unexpectedEnd(tok, -1)
		}
		if e.IsZero() {
			return Expr{}, &EmptyExpressionError{Col: tok.pos, End: tok.text}
		}
	default:
		return Expr{}, unexpectedEnd(tok, -1)
	}
	return e, nil
}

// ParseString is a shortcut to parse a string.
func ParseString(src string, opts ...ParseOption) (Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// ends reports whether a separator token ends the expression.
func (p *parser) ends(tok token) bool {
	return p.comma && tok.text == "," || p.semi && tok.text == ";"
}

// term parses a term whose operators all bind more tightly than until. If
// there is no error, term leaves the last token it scans pushed, including EOF.
// If the input is an empty subexpression, the result is the zero Expr with no
// error; callers decide whether that is allowed.
func (p *parser) term(until operator) (Expr, error) {
	lhs, err := p.first()
	if err != nil || lhs.IsZero() {
		return lhs, err
	}
	for {
		tok, err := p.scan.next(p.stop)
		if err != nil {
			return Expr{}, err
		}
		switch tok.kind {
		case tokenNum, tokenIdent:
			// 2 x -> (2) * (x)
			p.scan.push(tok)
			if !termprec.moreBinding(until) {
				return lhs, nil
			}
			rhs, err := p.term(termprec)
			if err != nil {
				return Expr{}, err
			}
			lhs = p.b.Mul(lhs, rhs)
		case tokenOp:
			op := binop(tok.text)
			if op.op == opNone {
				return Expr{}, &OperatorError{Col: tok.pos, Operator: tok.text}
			}
			if !op.moreBinding(until) {
				p.scan.push(tok)
				return lhs, nil
			}
			rhs, err := p.term(op)
			if err != nil {
				return Expr{}, err
			}
			if rhs.IsZero() {
				return Expr{}, p.empty()
			}
			lhs = p.binary(op.op, lhs, rhs)
		case tokenOpen:
			// 2 (x) -> (2) * (x)
			if !termprec.moreBinding(until) {
				p.scan.push(tok)
				return lhs, nil
			}
			rhs, err := p.group(tok)
			if err != nil {
				return Expr{}, err
			}
			lhs = p.b.Mul(lhs, rhs)
		case tokenClose, tokenSep, tokenEOF:
			p.scan.push(tok)
			return lhs, nil
		default:
			panic("exprgraph: unknown token: " + tok.String())
		}
	}
}

// first parses the first component of a term, where operators are unary and
// whitespace that would otherwise end the expression is skipped.
func (p *parser) first() (Expr, error) {
	tok, err := p.scan.next("")
	if err != nil {
		return Expr{}, err
	}
	switch tok.kind {
	case tokenNum:
		return p.b.Constant(number(tok.text)), nil
	case tokenIdent:
		return p.param(tok)
	case tokenOp:
		op := unop(tok.text)
		if op.op == opNone {
			return Expr{}, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		rhs, err := p.term(op)
		if err != nil {
			return Expr{}, err
		}
		if rhs.IsZero() {
			return Expr{}, p.empty()
		}
		if op.op == opNeg {
			return p.b.Mul(p.b.Constant(-1), rhs), nil
		}
		return rhs, nil
	case tokenOpen:
		return p.group(tok)
	case tokenClose:
		p.scan.push(tok)
		return Expr{}, nil
	case tokenSep:
		if p.ends(tok) {
			p.scan.push(tok)
			return Expr{}, nil
		}
		return Expr{}, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenEOF:
		return Expr{}, &EmptyExpressionError{Col: tok.pos}
	default:
		panic("exprgraph: unknown token: " + tok.String())
	}
}

// group parses a bracketed subexpression following the open bracket tok.
func (p *parser) group(open token) (Expr, error) {
	match := rightbracket(open.text)
	e, err := p.term(exprprec)
	if err != nil {
		return Expr{}, err
	}
	end := p.scan.must()
	if end.kind != tokenClose || end.text != closebrackets[match] {
		return Expr{}, unexpectedEnd(end, match)
	}
	if e.IsZero() {
		return Expr{}, &EmptyExpressionError{Col: end.pos, End: end.text}
	}
	return e, nil
}

// empty creates an error for a missing operand ending at the pushed token.
func (p *parser) empty() error {
	end := p.scan.must()
	p.scan.push(end)
	return &EmptyExpressionError{Col: end.pos, End: end.text}
}

func (p *parser) binary(op opKind, lhs, rhs Expr) Expr {
	switch op {
	case opAdd:
		return p.b.Add(lhs, rhs)
	case opSub:
		return p.b.Add(lhs, p.b.Mul(p.b.Constant(-1), rhs))
	case opMul:
		return p.b.Mul(lhs, rhs)
	default:
		panic("exprgraph: invalid binary operator " + strconv.Itoa(int(op)))
	}
}

// param returns the parameter for a name token, creating it on first use.
func (p *parser) param(tok token) (Expr, error) {
	name := tok.text
	if e, ok := p.params[name]; ok {
		return e, nil
	}
	k, ok := p.pinned[name]
	if !ok {
		for p.used[p.next] {
			if p.next == math.MaxUint32 {
				return Expr{}, &IndexError{Col: tok.pos, Name: name}
			}
			p.next++
		}
		k = p.next
		p.used[k] = true
	}
	e := p.b.Parameter(k, name)
	p.params[name] = e
	return e, nil
}

// number converts a number token. The lexer has already checked the syntax,
// so the only possible error is a range error, which gives an infinity or 0.
func number(text string) float64 {
	if text == "∞" {
		return math.Inf(1)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		panic("exprgraph: invalid number: " + text + " (" + err.Error() + ")")
	}
	return v
}

// rightbracket gets the index of the closing bracket for an opening bracket.
func rightbracket(left string) int {
	r, sz := utf8.DecodeRuneInString(left)
	k := runeIndex(OpenBrackets, r)
	if k < 0 || sz != len(left) {
		panic("exprgraph: invalid bracket " + strconv.Quote(left))
	}
	return k
}

// leftbracket gets the opening bracket matching the index right, or the empty
// string if right is -1.
func leftbracket(right int) string {
	if right == -1 {
		return ""
	}
	return openbrackets[right]
}

// unexpectedEnd returns an error for a token that ended a subexpression when
// it should not have. match is the index of the bracket the subexpression
// should have closed, or -1 if none.
func unexpectedEnd(tok token, match int) error {
	switch tok.kind {
	case tokenEOF:
		return &BracketError{Col: tok.pos, Left: leftbracket(match)}
	case tokenClose:
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: tok.text}
	case tokenSep:
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	default:
		panic("exprgraph: unexpected end of expression on " + tok.String())
	}
}

type opKind int8

const (
	opNone opKind = iota
	opAdd
	opSub
	opMul
	opPlus
	opNeg
)

type operator struct {
	// prec is the precedence. Higher binds more tightly.
	prec int8
	// right indicates right-associativity.
	right bool
	op    opKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets the binary operator for a token. The result has op opNone if
// the parser does not build that operator.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, opAdd}
	case "-":
		return operator{1, false, opSub}
	case "*", "×":
		return operator{5, false, opMul}
	default:
		return operator{}
	}
}

// unop gets the unary operator for a token, or one with op opNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, opPlus}
	case "-":
		return operator{10, true, opNeg}
	default:
		return operator{}
	}
}

var (
	// termprec is the precedence of implicit multiplication. It matches
	// explicit multiplication.
	termprec = operator{5, true, opMul}
	// exprprec is the precedence required to parse an entire subexpression.
	exprprec = operator{-128, true, opNone}
)

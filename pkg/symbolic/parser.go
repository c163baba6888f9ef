package symbolic

import (
	"fmt"
	"strconv"

	"github.com/vanderheijden86/eqmodel/pkg/model"
)

type tokKind int

const (
	tokNumber tokKind = iota
	tokIdent
	tokOp
	tokEOF
)

type token struct {
	kind tokKind
	text string
}

func tokenize(s string) ([]token, error) {
	var toks []token
	i, n := 0, len(s)
	for i < n {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '(' || c == ')' || c == '=':
			toks = append(toks, token{kind: tokOp, text: string(c)})
			i++
		case c >= '0' && c <= '9':
			j := i
			for j < n && (s[j] >= '0' && s[j] <= '9' || s[j] == '.') {
				j++
			}
			if j < n && (s[j] == 'e' || s[j] == 'E') {
				j++
				if j < n && (s[j] == '+' || s[j] == '-') {
					j++
				}
				for j < n && s[j] >= '0' && s[j] <= '9' {
					j++
				}
			}
			toks = append(toks, token{kind: tokNumber, text: s[i:j]})
			i = j
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_':
			j := i
			for j < n && ((s[j] >= 'a' && s[j] <= 'z') || (s[j] >= 'A' && s[j] <= 'Z') || (s[j] >= '0' && s[j] <= '9') || s[j] == '_') {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: s[i:j]})
			i = j
		default:
			return nil, model.NewError(model.KindMalformedEquation, fmt.Sprintf("unexpected character %q while parsing rewritten equation", c))
		}
	}
	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}

// parser is a small recursive-descent parser over the grammar:
//
//	equation := expr '=' expr
//	expr     := term (('+'|'-') term)*
//	term     := factor (('*'|'/') factor)*
//	factor   := '-' factor | '(' expr ')' | NUMBER | IDENT
type parser struct {
	toks   []token
	pos    int
	b      *Builder
	varIdx map[string]int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

func (p *parser) expectOp(op string) error {
	t := p.peek()
	if t.kind != tokOp || t.text != op {
		return model.NewError(model.KindMalformedEquation, fmt.Sprintf("expected %q, found %q", op, t.text))
	}
	p.pos++
	return nil
}

// ParseResidual parses rewritten (an equation of the form "lhs = rhs" using
// canonical variable names, as produced by pkg/lexer) into the residual
// expression (lhs) - (rhs). varIndex maps every
// canonical variable name usable in this expression to its position in the
// evaluator's argument vector.
func ParseResidual(b *Builder, rewritten string, varIndex map[string]int) (*Node, error) {
	toks, err := tokenize(rewritten)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, b: b, varIdx: varIndex}

	lhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp("="); err != nil {
		return nil, err
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, model.NewError(model.KindMalformedEquation, fmt.Sprintf("unexpected trailing token %q", p.peek().text))
	}
	return b.Sub(lhs, rhs), nil
}

func (p *parser) parseExpr() (*Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if t.text == "+" {
			left = p.b.Add(left, right)
		} else {
			left = p.b.Sub(left, right)
		}
	}
}

func (p *parser) parseTerm() (*Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		if t.text == "*" {
			left = p.b.Mul(left, right)
		} else {
			left = p.b.Div(left, right)
		}
	}
}

func (p *parser) parseFactor() (*Node, error) {
	t := p.peek()
	switch {
	case t.kind == tokOp && t.text == "-":
		p.pos++
		inner, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return p.b.Neg(inner), nil
	case t.kind == tokOp && t.text == "+":
		p.pos++
		return p.parseFactor()
	case t.kind == tokOp && t.text == "(":
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return inner, nil
	case t.kind == tokNumber:
		p.pos++
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, model.NewError(model.KindMalformedEquation, fmt.Sprintf("malformed numeric literal %q", t.text))
		}
		return p.b.Const(v), nil
	case t.kind == tokIdent:
		p.pos++
		idx, ok := p.varIdx[t.text]
		if !ok {
			return nil, model.NewError(model.KindUnknownVariable, fmt.Sprintf("variable %q is not part of this block's argument vector", t.text))
		}
		return p.b.Var(t.text, idx), nil
	default:
		return nil, model.NewError(model.KindMalformedEquation, fmt.Sprintf("unexpected token %q", t.text))
	}
}

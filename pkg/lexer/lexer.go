// Package lexer tokenizes a single raw equation string and rewrites
// lag-notation variable references (`var(-k)`) into the canonical lagged
// name encoding from pkg/model.
//
// No tokenizer/parser library appears anywhere in the retrieved example
// pack (nor does any of it pull in a general expression-parsing
// dependency), so this state machine is written directly against the
// standard library; see DESIGN.md for that justification.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vanderheijden86/eqmodel/pkg/model"
)

// scanState is the lexer's state machine.
type scanState int

const (
	stateIdle scanState = iota
	stateNumber
	stateIdent
	stateLag
	stateSci
)

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentByte(b byte) bool {
	return isLetter(b) || isDigit(b)
}

func isOperator(b byte) bool {
	switch b {
	case '+', '-', '*', '/', '=', '(', ')':
		return true
	default:
		return false
	}
}

// Analyze lowercases raw, lexes it, and returns the rewritten equation plus
// its token/lag inventories. Lowercasing here is what makes two equations
// differing only in identifier case refer to the same canonical variable.
func Analyze(raw string) (*model.Analyzed, error) {
	raw = strings.ToLower(raw)
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, model.NewError(model.KindBlankInput, "equation is blank")
	}

	a := &model.Analyzed{
		Raw:    raw,
		Tokens: make(map[string]string),
		Lags:   make(map[string]model.LagRef),
	}

	var out strings.Builder
	var tok strings.Builder // pending identifier or number
	state := stateIdle
	equalsCount := 0

	n := len(raw)
	i := 0
	flush := func() error {
		switch state {
		case stateIdent:
			name := tok.String()
			if model.ContainsSentinel(name) {
				return model.NewError(model.KindLagCollision, fmt.Sprintf("identifier %q contains the reserved lag sentinel", name))
			}
			a.Tokens[name] = name
			out.WriteString(name)
		case stateNumber, stateSci:
			lit := tok.String()
			if _, err := strconv.ParseFloat(lit, 64); err != nil {
				return model.NewError(model.KindMalformedEquation, fmt.Sprintf("malformed numeric literal %q", lit))
			}
			out.WriteString(lit)
		}
		tok.Reset()
		state = stateIdle
		return nil
	}

	for i < n {
		c := raw[i]

		switch state {
		case stateIdle:
			switch {
			case c == ' ' || c == '\t':
				out.WriteByte(c)
				i++
			case isLetter(c):
				state = stateIdent
				tok.WriteByte(c)
				i++
			case isDigit(c) || c == '.':
				state = stateNumber
				tok.WriteByte(c)
				i++
			case isOperator(c):
				if c == '=' {
					equalsCount++
				}
				out.WriteByte(c)
				i++
			default:
				return nil, model.NewError(model.KindMalformedEquation, fmt.Sprintf("unexpected character %q", c))
			}

		case stateIdent:
			if isIdentByte(c) {
				tok.WriteByte(c)
				i++
				continue
			}
			if c == '(' {
				// Possible lag reference: identifier immediately followed by '('.
				base := tok.String()
				if model.ContainsSentinel(base) {
					return nil, model.NewError(model.KindLagCollision, fmt.Sprintf("identifier %q contains the reserved lag sentinel", base))
				}
				canon, token, next, err := scanLag(raw, base, i)
				if err != nil {
					return nil, err
				}
				a.Tokens[token] = canon
				if ref, ok := model.DecodeLag(canon); ok && ref.Lag > 0 {
					a.Lags[canon] = ref
					if ref.Lag > a.MaxLag {
						a.MaxLag = ref.Lag
					}
				}
				out.WriteString(canon)
				tok.Reset()
				state = stateIdle
				i = next
				continue
			}
			if err := flush(); err != nil {
				return nil, err
			}

		case stateNumber:
			if isDigit(c) || c == '.' {
				tok.WriteByte(c)
				i++
				continue
			}
			if c == 'e' || c == 'E' {
				tok.WriteByte(c)
				state = stateSci
				i++
				continue
			}
			if isLetter(c) {
				return nil, model.NewError(model.KindMalformedEquation, fmt.Sprintf("identifier cannot start mid-number near %q", tok.String()+string(c)))
			}
			if err := flush(); err != nil {
				return nil, err
			}

		case stateSci:
			// Directly after 'e': optional sign then at least one digit.
			lit := tok.String()
			lastIsE := lit != "" && (lit[len(lit)-1] == 'e' || lit[len(lit)-1] == 'E')
			if lastIsE && (c == '+' || c == '-') {
				tok.WriteByte(c)
				i++
				continue
			}
			if isDigit(c) {
				tok.WriteByte(c)
				i++
				continue
			}
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}

	if equalsCount != 1 {
		return nil, model.NewError(model.KindMalformedEquation, fmt.Sprintf("equation must contain exactly one '=', found %d", equalsCount))
	}

	a.Rewritten = out.String()
	return a, nil
}

// scanLag parses "(-k)" starting at the '(' found at index open, for the
// identifier base that immediately precedes it. It returns the canonical
// lagged name, the original surface token ("base(-k)"), and the index just
// past the closing ')'.
func scanLag(raw, base string, open int) (canon, token string, next int, err error) {
	n := len(raw)
	j := open + 1
	if j >= n || raw[j] != '-' {
		return "", "", 0, model.NewError(model.KindMalformedEquation, fmt.Sprintf("malformed lag reference on %q: expected '-' after '('", base))
	}
	j++
	start := j
	for j < n && isDigit(raw[j]) {
		j++
	}
	if j == start {
		return "", "", 0, model.NewError(model.KindMalformedEquation, fmt.Sprintf("malformed lag reference on %q: expected a positive integer lag", base))
	}
	if j >= n || raw[j] != ')' {
		return "", "", 0, model.NewError(model.KindMalformedEquation, fmt.Sprintf("malformed lag reference on %q: missing closing ')'", base))
	}
	kStr := raw[start:j]
	k, convErr := strconv.Atoi(kStr)
	if convErr != nil || k <= 0 {
		return "", "", 0, model.NewError(model.KindMalformedEquation, fmt.Sprintf("malformed lag reference on %q: lag must be a positive integer, got %q", base, kStr))
	}
	canon = model.EncodeLag(base, k)
	token = raw[open-len(base) : j+1]
	return canon, token, j + 1, nil
}

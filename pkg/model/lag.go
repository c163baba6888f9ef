package model

import (
	"strconv"
	"strings"
)

// LagSentinel separates a base variable name from its lag in a canonical
// lagged name. It must never collide with a legal user identifier; callers
// reject any raw token containing it.
const LagSentinel = "___LAG"

// LagRef decodes a canonical lagged name: Base is the underlying variable,
// Lag is the number of periods prior (0 for a current-period reference).
type LagRef struct {
	Base string
	Lag  int
}

// ContainsSentinel reports whether a raw user token illegally embeds the
// lag sentinel, which would make canonical-name decoding ambiguous. The
// match ignores case, since pkg/lexer lowercases tokens before checking.
func ContainsSentinel(token string) bool {
	return strings.Contains(strings.ToUpper(token), LagSentinel)
}

// EncodeLag builds the canonical name for base variable v referenced at
// lag k >= 1: v + LagSentinel + decimal(k) + "_".
func EncodeLag(base string, lag int) string {
	if lag <= 0 {
		return base
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteString(LagSentinel)
	b.WriteString(strconv.Itoa(lag))
	b.WriteByte('_')
	return b.String()
}

// DisplayName renders a canonical name back into user-facing lag notation
// ("gdp(-1)" rather than "gdp___LAG1_"), for diagnostics and Model.Blocks()
// diagnostics. Names with no lag are returned unchanged.
func DisplayName(canonical string) string {
	ref, ok := DecodeLag(canonical)
	if !ok || ref.Lag == 0 {
		return canonical
	}
	return ref.Base + "(-" + strconv.Itoa(ref.Lag) + ")"
}

// DecodeLag inverts EncodeLag. A name with no sentinel decodes to (name, 0).
// ok is false only if the sentinel is present but the trailing shape is
// malformed (should not happen for names produced by EncodeLag).
func DecodeLag(name string) (ref LagRef, ok bool) {
	idx := strings.Index(name, LagSentinel)
	if idx < 0 {
		return LagRef{Base: name, Lag: 0}, true
	}
	base := name[:idx]
	rest := name[idx+len(LagSentinel):]
	if len(rest) < 2 || rest[len(rest)-1] != '_' {
		return LagRef{}, false
	}
	digits := rest[:len(rest)-1]
	k, err := strconv.Atoi(digits)
	if err != nil || k <= 0 {
		return LagRef{}, false
	}
	return LagRef{Base: base, Lag: k}, true
}
